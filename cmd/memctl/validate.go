package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/si978/memctl/internal/canonjson"
	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/memory"
	"github.com/si978/memctl/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate curated memory (meta.json)",
	Long: `Load every memory item at a commit and run the full schema and
cross-item checks: type directories, id uniqueness, evidence resolution,
supersedes closure, constraint keys, adr topics, and task pack inputs.
All problems are reported in one run.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runValidate(git.NewExec(""), commitFlag(cmd)))
	},
}

func runValidate(repo git.Repo, commitish string) int {
	commit, err := repo.ResolveCommit(commitish)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	items, byID, err := memory.Load(repo, commit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	errors := memory.Validate(repo, commit, items, byID)

	if jsonOutput {
		emitResultJSON(errors, nil)
		if len(errors) > 0 {
			return 1
		}
		return 0
	}

	if len(errors) > 0 {
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("ERROR:"), e)
		}
		return 1
	}
	fmt.Printf("%s validated %d memory items at %s\n", ui.RenderPass("OK:"), len(items), commit)
	return 0
}

// emitResultJSON prints a canonical {"errors":[...],"warnings":[...]}
// summary on stdout.
func emitResultJSON(errors, warnings []string) {
	if errors == nil {
		errors = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	out, err := canonjson.Marshal(map[string]any{
		"errors":   errors,
		"warnings": warnings,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	os.Stdout.Write(out)
}

func init() {
	validateCmd.Flags().String("commit", "", "Commit-ish to validate (default HEAD)")
	rootCmd.AddCommand(validateCmd)
}
