// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/discovery"
	"github.com/daviddagyei/ai-scholarship-agent/internal/schedule"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run discovery on a cron schedule",
	Long: `Schedule runs discovery on a cron schedule (default daily at 02:00) until
interrupted. Search criteria rotate by weekday. A tick that fires while a run
is still going is skipped. Each run summary is written to the output
directory.`,
	RunE: runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("spec") {
		spec, _ := cmd.Flags().GetString("spec")
		viper.Set("schedule.spec", spec)
	}
	if cmd.Flags().Changed("criteria-file") {
		file, _ := cmd.Flags().GetString("criteria-file")
		viper.Set("schedule.criteria_file", file)
	}
	if cmd.Flags().Changed("output-dir") {
		dir, _ := cmd.Flags().GetString("output-dir")
		viper.Set("schedule.output_dir", dir)
	}
	now, _ := cmd.Flags().GetBool("now")
	scfg := types.ScheduleConfig{
		Spec:      viper.GetString("schedule.spec"),
		OutputDir: viper.GetString("schedule.output_dir"),
	}

	p, err := buildPipeline(os.Stdout, false, discoveryConfig())
	if err != nil {
		return err
	}
	defer p.Close()

	s, err := schedule.New(scfg.Spec, p.orch.Run, logger)
	if err != nil {
		return err
	}
	if file := viper.GetString("schedule.criteria_file"); file != "" {
		vs, err := schedule.ReadCriteriaFile(file)
		if err != nil {
			return err
		}
		s.Variations = vs
	}
	s.OnDone = func(summary types.RunSummary) {
		discovery.WriteReport(os.Stdout, summary)
		path := discovery.DailyOutputPath(scfg.OutputDir, summary)
		if err := discovery.WriteSummary(path, summary); err != nil {
			logger.Error("writing summary failed", zap.String("path", path), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if now {
		s.RunOnce(ctx)
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Scheduler running (%s), next run at %s. Press Ctrl+C to stop.\n", scfg.Spec, s.Next().Format("2006-01-02 15:04"))

	<-ctx.Done()
	<-s.Stop().Done()
	return nil
}

var scheduleInitCriteriaCmd = &cobra.Command{
	Use:   "init-criteria [path]",
	Short: "Write the built-in criteria rotation to a YAML file",
	Long: `Init-criteria writes the seven built-in weekday criteria to a YAML file for
editing. The path defaults to schedule.criteria_file, or criteria.yaml when
that is unset. An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("schedule.criteria_file")
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			path = "criteria.yaml"
		}
		if err := initCriteriaFile(path); err != nil {
			return err
		}
		fmt.Printf("Wrote criteria rotation to %s\n", path)
		return nil
	},
}

// initCriteriaFile writes the default rotation to path unless it exists.
func initCriteriaFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return schedule.WriteCriteriaFile(path, schedule.DefaultVariations())
}

func init() {
	scheduleCmd.AddCommand(scheduleInitCriteriaCmd)

	scheduleCmd.Flags().String("spec", types.DefaultScheduleSpec, "cron expression")
	scheduleCmd.Flags().String("output-dir", "results", "directory for run summaries")
	scheduleCmd.Flags().String("criteria-file", "", "YAML file with the weekday criteria rotation")
	scheduleCmd.Flags().Bool("now", false, "run once immediately before waiting for the schedule")

	rootCmd.AddCommand(scheduleCmd)
}
