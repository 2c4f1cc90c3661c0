// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/discovery"
	"github.com/daviddagyei/ai-scholarship-agent/internal/schedule"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one scholarship discovery",
	Long: `Discover generates search queries for the criteria, researches them on the
web, extracts scholarships, fills in missing application details, and saves
new records to the configured sink.

A report is printed to stdout. With --output the run summary is also written
as JSON, or YAML when the file ends in .yaml or .yml. The command exits with
status 1 when the run fails.`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	criteria, _ := cmd.Flags().GetString("search")
	output, _ := cmd.Flags().GetString("output")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	noSink, _ := cmd.Flags().GetBool("no-sink")
	daily, _ := cmd.Flags().GetBool("daily")
	testMode, _ := cmd.Flags().GetBool("test")

	dcfg := discoveryConfig()
	if testMode {
		dcfg.InitialQueries = 1
		dcfg.MaxResearchLoops = 1
	}
	if daily && criteria == "" {
		vs, err := dailyVariations()
		if err != nil {
			return err
		}
		criteria = schedule.CriteriaFrom(vs, time.Now())
	}

	p, err := buildPipeline(os.Stdout, noSink || testMode, dcfg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := p.orch.Run(ctx, criteria)
	fmt.Println()
	discovery.WriteReport(os.Stdout, summary)

	if output == "" && daily {
		output = discovery.DailyOutputPath(outputDir, summary)
	}
	if output != "" {
		if err := discovery.WriteSummary(output, summary); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		logger.Info("summary written", zap.String("path", output))
	}

	if !summary.Success {
		return fmt.Errorf("discovery failed: %s", summary.Error)
	}
	return nil
}

// dailyVariations is the configured criteria rotation, or nil for the
// built-in one.
func dailyVariations() ([]string, error) {
	file := viper.GetString("schedule.criteria_file")
	if file == "" {
		return nil, nil
	}
	return schedule.ReadCriteriaFile(file)
}

func init() {
	discoverCmd.Flags().String("search", "", "search criteria (default: US college scholarships for the current year)")
	discoverCmd.Flags().String("output", "", "write the run summary to this file (.json, .yaml)")
	discoverCmd.Flags().String("output-dir", "results", "directory for timestamped summaries with --daily")
	discoverCmd.Flags().Bool("no-sink", false, "do not save records")
	discoverCmd.Flags().Bool("daily", false, "use the weekday-rotated criteria and write a timestamped summary")
	discoverCmd.Flags().Bool("test", false, "quick run: one query, one research loop, nothing saved")

	rootCmd.AddCommand(discoverCmd)
}
