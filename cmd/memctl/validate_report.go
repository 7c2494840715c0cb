package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/si978/memctl/internal/report"
	"github.com/si978/memctl/internal/ui"
)

var validateReportCmd = &cobra.Command{
	Use:   "validate-report",
	Short: "Validate agent report basics",
	Long: `Run the syntactic checks over an agent's post-run report: schema
version, identifiers, pack context, change paths and actions, validation
statuses, and optional memory updates. The repository is not consulted.`,
	Run: func(cmd *cobra.Command, args []string) {
		reportPath, _ := cmd.Flags().GetString("report")
		taskID, _ := cmd.Flags().GetString("task-id")
		os.Exit(runValidateReport(reportPath, taskID))
	},
}

func runValidateReport(reportPath, expectTaskID string) int {
	data, err := readJSONObject(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	errors := report.Verify(data, expectTaskID)
	if len(errors) > 0 {
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.RenderFail("ERROR:"), reportPath, e)
		}
		return 1
	}
	fmt.Printf("%s agent report valid: %s\n", ui.RenderPass("OK:"), reportPath)
	return 0
}

func init() {
	validateReportCmd.Flags().String("report", "", "Path to the agent report (required)")
	validateReportCmd.Flags().String("task-id", "", "Expected task id")
	_ = validateReportCmd.MarkFlagRequired("report")
	rootCmd.AddCommand(validateReportCmd)
}
