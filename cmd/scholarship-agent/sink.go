// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/daviddagyei/ai-scholarship-agent/internal/secrets"
	"github.com/daviddagyei/ai-scholarship-agent/internal/sink"
)

var sinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Inspect and prepare the record sink",
	Long: `Sink works with the configured store directly: list the titles or
records it holds, or create it with the header row.`,
}

var sinkTitlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List titles already stored in the sink",
	RunE:  runSinkTitles,
}

func runSinkTitles(cmd *cobra.Command, args []string) error {
	s, closer, err := sink.Open(sinkConfig(secrets.Resolve(loadedSecrets)), logger)
	defer closer.Close()
	if err != nil {
		return err
	}

	titles, err := s.ExistingTitles(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(titles)
	}
	for _, t := range titles {
		fmt.Println(t)
	}
	fmt.Fprintf(os.Stdout, "\n%d titles\n", len(titles))
	return nil
}

var sinkRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print every stored record as JSON",
	Long:  `Records prints the full stored rows. Only the sqlite sink supports it.`,
	RunE:  runSinkRecords,
}

func runSinkRecords(cmd *cobra.Command, args []string) error {
	s, closer, err := sink.Open(sinkConfig(secrets.Resolve(loadedSecrets)), logger)
	defer closer.Close()
	if err != nil {
		return err
	}
	return writeRecords(context.Background(), os.Stdout, s)
}

// writeRecords encodes the records held by s as indented JSON.
func writeRecords(ctx context.Context, w io.Writer, s sink.Sink) error {
	lister, ok := s.(sink.RecordLister)
	if !ok {
		return fmt.Errorf("%T cannot list records", s)
	}
	recs, err := lister.Records(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

var sinkInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the sink and write the header row",
	RunE:  runSinkInit,
}

func runSinkInit(cmd *cobra.Command, args []string) error {
	cfg := sinkConfig(secrets.Resolve(loadedSecrets))
	s, closer, err := sink.Open(cfg, logger)
	defer closer.Close()
	if err != nil {
		return err
	}

	ini, ok := s.(sink.Initializer)
	if !ok {
		return fmt.Errorf("%s sink cannot be initialized", cfg.Kind)
	}
	if err := ini.Init(context.Background()); err != nil {
		return err
	}
	fmt.Printf("Initialized %s sink at %s\n", cfg.Kind, cfg.Target)
	return nil
}

func init() {
	sinkTitlesCmd.Flags().Bool("json", false, "output titles as JSON")

	sinkCmd.AddCommand(sinkTitlesCmd)
	sinkCmd.AddCommand(sinkRecordsCmd)
	sinkCmd.AddCommand(sinkInitCmd)
	rootCmd.AddCommand(sinkCmd)
}
