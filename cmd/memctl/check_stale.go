package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/memory"
	"github.com/si978/memctl/internal/ui"
)

var checkStaleCmd = &cobra.Command{
	Use:   "check-stale",
	Short: "Check stale memory items via watch_paths",
	Long: `Compare each item's watch_paths against the commit it was last
verified at. A changed watched path makes the item stale; items carrying a
stale_exemption reason are downgraded to warnings. Warnings never affect
the exit code.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCheckStale(git.NewExec(""), commitFlag(cmd)))
	},
}

func runCheckStale(repo git.Repo, commitish string) int {
	commit, err := repo.ResolveCommit(commitish)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	items, _, err := memory.Load(repo, commit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	errors, warnings := memory.CheckStale(repo, commit, items)

	if jsonOutput {
		emitResultJSON(errors, warnings)
		if len(errors) > 0 {
			return 1
		}
		return 0
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderWarn("WARN:"), w)
	}
	if len(errors) > 0 {
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("ERROR:"), e)
		}
		return 1
	}
	fmt.Printf("%s stale check passed for %d memory items at %s\n", ui.RenderPass("OK:"), len(items), commit)
	return 0
}

func init() {
	checkStaleCmd.Flags().String("commit", "", "Commit-ish to check (default HEAD)")
	rootCmd.AddCommand(checkStaleCmd)
}
