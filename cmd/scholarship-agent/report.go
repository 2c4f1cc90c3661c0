// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/daviddagyei/ai-scholarship-agent/internal/discovery"
)

var reportCmd = &cobra.Command{
	Use:   "report <summary-file>...",
	Short: "Print the report for saved run summaries",
	Long: `Report reads run summaries written by discover --output, discover --daily
or schedule (JSON, or YAML for .yaml and .yml files) and prints the
human-readable report for each.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReports(os.Stdout, args)
	},
}

// printReports writes the report for every summary file in paths, in order.
func printReports(w io.Writer, paths []string) error {
	for i, path := range paths {
		s, err := discovery.ReadSummary(path)
		if err != nil {
			return err
		}
		if i > 0 {
			io.WriteString(w, "\n")
		}
		discovery.WriteReport(w, s)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
