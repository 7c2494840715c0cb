// memctl maintains and verifies the curated memory under .ai/memory/ and
// materializes deterministic context packs for agent runs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/si978/memctl/internal/config"
	"github.com/si978/memctl/internal/debug"
)

// jsonOutput switches validate/check-stale summaries to canonical JSON.
// Set by PersistentPreRun from the --json flag or MEMCTL_JSON.
var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Curated memory and context packs for AI-assisted development",
	Long: `memctl treats the files under .ai/memory/ as a versioned memory graph:
tasks, architectural decisions, constraints, runbooks, and component maps.
It validates the graph at a commit, detects stale items against the
repository history, and builds signed, self-verifying context packs that
pin an agent's inputs to an exact snapshot.

All commands are read-only with respect to repository history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot read config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("json") {
			jsonOutput, _ = cmd.Flags().GetBool("json")
		} else {
			jsonOutput = config.GetBool("json")
		}
		debug.Logf("cli", "command=%s json=%v", cmd.Name(), jsonOutput)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON")
}

// commitFlag resolves the effective commit-ish for a command: the --commit
// flag when given, otherwise the configured default (HEAD).
func commitFlag(cmd *cobra.Command) string {
	if cmd.Flags().Changed("commit") {
		c, _ := cmd.Flags().GetString("commit")
		return c
	}
	return config.GetString("commit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
