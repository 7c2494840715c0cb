package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/si978/memctl/internal/config"
	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/memory"
	"github.com/si978/memctl/internal/pack"
	"github.com/si978/memctl/internal/ui"
)

var buildPackCmd = &cobra.Command{
	Use:   "build-pack",
	Short: "Build deterministic context pack for a task",
	Long: `Compute the inclusion closure for a task (the task itself, every
active constraint, declared memory includes, repo_path evidence, and
include_paths) and emit a canonical, self-identifying pack document. The
same commit and task always produce byte-identical output.`,
	Run: func(cmd *cobra.Command, args []string) {
		taskID, _ := cmd.Flags().GetString("task-id")
		out, _ := cmd.Flags().GetString("out")
		if !cmd.Flags().Changed("out") {
			out = config.GetString("out")
		}
		os.Exit(runBuildPack(git.NewExec(""), commitFlag(cmd), taskID, out))
	},
}

func runBuildPack(repo git.Repo, commitish, taskID, out string) int {
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
	doc, err := pack.Build(repo, commit, taskID, items, byID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if out == "-" || out == "" {
		data, err := pack.Encode(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}
	if err := pack.WriteFile(doc, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("%s wrote context pack %s to %s\n", ui.RenderPass("OK:"), doc.PackID, out)
	return 0
}

func init() {
	buildPackCmd.Flags().String("commit", "", "Commit-ish to build from (default HEAD)")
	buildPackCmd.Flags().String("task-id", "", "Task id to build the pack for (required)")
	buildPackCmd.Flags().String("out", "-", "Output path, or - for stdout")
	_ = buildPackCmd.MarkFlagRequired("task-id")
	rootCmd.AddCommand(buildPackCmd)
}
