// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
	"github.com/daviddagyei/ai-scholarship-agent/internal/discovery"
	"github.com/daviddagyei/ai-scholarship-agent/internal/extract"
	"github.com/daviddagyei/ai-scholarship-agent/internal/gapfill"
	"github.com/daviddagyei/ai-scholarship-agent/internal/reflector"
	"github.com/daviddagyei/ai-scholarship-agent/internal/research"
	"github.com/daviddagyei/ai-scholarship-agent/internal/secrets"
	"github.com/daviddagyei/ai-scholarship-agent/internal/sink"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

const defaultModel = "claude-sonnet-4-5-20250929"

func setDefaults() {
	viper.SetDefault("ai.model", defaultModel)
	viper.SetDefault("ai.query_model", "")
	viper.SetDefault("ai.reflection_model", "")
	viper.SetDefault("ai.max_retries", 2)
	viper.SetDefault("ai.timeout", 2*time.Minute)

	viper.SetDefault("discovery.initial_queries", types.DefaultInitialQueries)
	viper.SetDefault("discovery.max_research_loops", types.DefaultMaxResearchLoops)
	viper.SetDefault("discovery.min_research_results", types.DefaultMinResearchResults)
	viper.SetDefault("discovery.reflection", string(types.ReflectionEnhanced))
	viper.SetDefault("discovery.details_limit", types.DefaultDetailsLimit)
	viper.SetDefault("discovery.url_limit", types.DefaultURLLimit)

	viper.SetDefault("sink.kind", "")
	viper.SetDefault("sink.target", "")
	viper.SetDefault("sink.credential", "")
	viper.SetDefault("sink.sheet", types.DefaultSheet)

	viper.SetDefault("schedule.spec", types.DefaultScheduleSpec)
	viper.SetDefault("schedule.output_dir", "results")
	viper.SetDefault("schedule.criteria_file", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
}

func aiConfig(creds secrets.Credentials) types.AIConfig {
	return types.AIConfig{
		Model:      viper.GetString("ai.model"),
		APIKey:     creds.AnthropicAPIKey,
		MaxRetries: viper.GetInt("ai.max_retries"),
		Timeout:    viper.GetDuration("ai.timeout"),
	}
}

func discoveryConfig() types.DiscoveryConfig {
	return types.DiscoveryConfig{
		InitialQueries:     viper.GetInt("discovery.initial_queries"),
		MaxResearchLoops:   viper.GetInt("discovery.max_research_loops"),
		MinResearchResults: viper.GetInt("discovery.min_research_results"),
		Reflection:         types.ReflectionMode(viper.GetString("discovery.reflection")),
		DetailsLimit:       viper.GetInt("discovery.details_limit"),
		URLLimit:           viper.GetInt("discovery.url_limit"),
	}.WithDefaults()
}

// sinkConfig reads sink.* and fills a Google Sheets sink from the
// credentials when no kind is configured and both ID and token exist.
func sinkConfig(creds secrets.Credentials) types.SinkConfig {
	cfg := types.SinkConfig{
		Kind:       types.SinkKind(viper.GetString("sink.kind")),
		Target:     viper.GetString("sink.target"),
		Credential: viper.GetString("sink.credential"),
		Sheet:      viper.GetString("sink.sheet"),
	}
	if cfg.Kind == "" && creds.SheetsID != "" && creds.SheetsAccessToken != "" {
		cfg.Kind = types.SinkSheets
	}
	if cfg.Kind == types.SinkSheets {
		if cfg.Target == "" {
			cfg.Target = creds.SheetsID
		}
		if cfg.Credential == "" {
			cfg.Credential = creds.SheetsAccessToken
		}
	}
	return cfg
}

// openSink opens the configured sink. An unavailable sink is logged and
// returned as nil so runs continue without persistence.
func openSink(cfg types.SinkConfig, log *zap.Logger) (sink.Sink, io.Closer) {
	s, closer, err := sink.Open(cfg, log)
	if err != nil {
		log.Warn("sink unavailable, records will not be saved", zap.Error(err))
		return nil, closer
	}
	return s, closer
}

// pipeline is a fully wired orchestrator plus the resources it holds.
type pipeline struct {
	orch   *discovery.Orchestrator
	closer io.Closer
}

func (p *pipeline) Close() error {
	return p.closer.Close()
}

// buildPipeline wires the Claude backend, stages and sink from config.
func buildPipeline(out io.Writer, dryRun bool, dcfg types.DiscoveryConfig) (*pipeline, error) {
	creds := secrets.Resolve(loadedSecrets)
	ai := aiConfig(creds)
	if ai.APIKey == "" {
		return nil, fmt.Errorf("no API key: set %s or write .secrets/%s", secrets.AnthropicKeyEnv, secrets.AnthropicKeyFile)
	}

	claude := &completion.Claude{
		APIKey: ai.APIKey,
		Model:  ai.Model,
		Client: &http.Client{Timeout: ai.Timeout},
		Logger: logger,
	}
	client := completion.NewClient(claude, ai.MaxRetries, logger)
	searcher := &research.ClaudeSearcher{API: claude, Model: ai.Model, Logger: logger}

	filler := gapfill.New(searcher, logger)
	filler.DetailsLimit = dcfg.DetailsLimit
	filler.URLLimit = dcfg.URLLimit

	reflectionModel := viper.GetString("ai.reflection_model")
	if reflectionModel == "" {
		reflectionModel = ai.Model
	}

	var s sink.Sink
	var closer io.Closer = nopCloser{}
	if !dryRun {
		s, closer = openSink(sinkConfig(creds), logger)
	}

	return &pipeline{
		orch: &discovery.Orchestrator{
			Completer: client,
			Searcher:  searcher,
			Reflector: reflector.New(dcfg.Reflection, client, reflectionModel, logger),
			Extractor: extract.New(client, ai.Model, logger),
			Filler:    filler,
			Persister: sink.NewAdapter(s, logger),
			Config: discovery.Config{
				Discovery:  dcfg,
				QueryModel: viper.GetString("ai.query_model"),
				DryRun:     dryRun,
			},
			Logger: logger,
			Out:    out,
		},
		closer: closer,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
