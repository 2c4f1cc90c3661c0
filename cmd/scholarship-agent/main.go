// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholarship-agent CLI.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/logging"
	"github.com/daviddagyei/ai-scholarship-agent/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built from the log.* settings before any command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the scholarship-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "scholarship-agent",
	Short: "Discover scholarships on the web and record them in a spreadsheet",
	Long: `scholarship-agent searches the web for open scholarships, extracts them into
structured records, checks their quality, fills in missing application details,
and appends new records to a spreadsheet-like sink (Google Sheets, an .xlsx
workbook, or SQLite), skipping titles the sink already holds.

Run "discover" for a single run or "schedule" to run daily.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(viper.GetString("log.level"), viper.GetBool("log.development"))
		if err != nil {
			return err
		}
		logger = log

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholarship-agent.yaml or ~/.config/scholarship-agent/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if err := secrets.LoadDotEnv(); err != nil {
		os.Stderr.WriteString("warning: " + err.Error() + "\n")
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholarship-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholarship-agent"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("SCHOLARSHIP_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		os.Stderr.WriteString("Using config file: " + viper.ConfigFileUsed() + "\n")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
