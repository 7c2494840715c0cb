package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/pack"
	"github.com/si978/memctl/internal/ui"
)

var validatePackCmd = &cobra.Command{
	Use:   "validate-pack",
	Short: "Validate context pack integrity",
	Long: `Check a received pack document field by field, re-derive its
pack_id, and verify every carried item against the live repository:
declared sizes, sha256 digests, git blob ids, and raw content.`,
	Run: func(cmd *cobra.Command, args []string) {
		packPath, _ := cmd.Flags().GetString("pack")
		taskID, _ := cmd.Flags().GetString("task-id")
		os.Exit(runValidatePack(git.NewExec(""), packPath, taskID))
	},
}

func runValidatePack(repo git.Repo, packPath, expectTaskID string) int {
	data, err := readJSONObject(packPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	errors := pack.Verify(repo, data, expectTaskID)
	if len(errors) > 0 {
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.RenderFail("ERROR:"), packPath, e)
		}
		return 1
	}
	fmt.Printf("%s context pack valid: %s\n", ui.RenderPass("OK:"), packPath)
	return 0
}

// readJSONObject loads a JSON file preserving integer fidelity. A top-level
// non-object decodes to nil, which the verifiers report themselves.
func readJSONObject(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	obj, _ := top.(map[string]any)
	return obj, nil
}

func init() {
	validatePackCmd.Flags().String("pack", "", "Path to the pack document (required)")
	validatePackCmd.Flags().String("task-id", "", "Expected task id")
	_ = validatePackCmd.MarkFlagRequired("pack")
	rootCmd.AddCommand(validatePackCmd)
}
