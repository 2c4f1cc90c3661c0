// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single API call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ReflectionMode selects which sufficiency reflector the orchestrator consults.
type ReflectionMode string

const (
	ReflectionNone     ReflectionMode = "none"
	ReflectionBasic    ReflectionMode = "basic"
	ReflectionEnhanced ReflectionMode = "enhanced"
)

// DiscoveryConfig holds the bounds of one discovery run.
type DiscoveryConfig struct {
	// InitialQueries is how many search queries to generate from the topic (default 3).
	InitialQueries int `json:"initial_queries" yaml:"initial_queries"`

	// MaxResearchLoops caps the research/reflect sub-loop (default 2).
	MaxResearchLoops int `json:"max_research_loops" yaml:"max_research_loops"`

	// MinResearchResults ends research once this many results are gathered (default 3).
	MinResearchResults int `json:"min_research_results" yaml:"min_research_results"`

	// Reflection selects the reflector variant (default enhanced).
	Reflection ReflectionMode `json:"reflection" yaml:"reflection"`

	// DetailsLimit caps the general gap-fill pass (default 3).
	DetailsLimit int `json:"details_limit" yaml:"details_limit"`

	// URLLimit caps the URL gap-fill pass (default 5).
	URLLimit int `json:"url_limit" yaml:"url_limit"`
}

// Defaults for DiscoveryConfig.
const (
	DefaultInitialQueries     = 3
	DefaultMaxResearchLoops   = 2
	DefaultMinResearchResults = 3
	DefaultDetailsLimit       = 3
	DefaultURLLimit           = 5
)

// WithDefaults returns c with zero values replaced by defaults.
func (c DiscoveryConfig) WithDefaults() DiscoveryConfig {
	if c.InitialQueries <= 0 {
		c.InitialQueries = DefaultInitialQueries
	}
	if c.MaxResearchLoops <= 0 {
		c.MaxResearchLoops = DefaultMaxResearchLoops
	}
	if c.MinResearchResults <= 0 {
		c.MinResearchResults = DefaultMinResearchResults
	}
	if c.Reflection == "" {
		c.Reflection = ReflectionEnhanced
	}
	if c.DetailsLimit <= 0 {
		c.DetailsLimit = DefaultDetailsLimit
	}
	if c.URLLimit <= 0 {
		c.URLLimit = DefaultURLLimit
	}
	return c
}

// SinkKind selects the persistent store.
type SinkKind string

const (
	SinkNone     SinkKind = "none"
	SinkSheets   SinkKind = "sheets"
	SinkWorkbook SinkKind = "xlsx"
	SinkSQLite   SinkKind = "sqlite"
)

// SinkConfig identifies the persistent store. Credential and Target are
// both optional; when either is missing for a kind that needs it the
// sink is treated as unavailable.
type SinkConfig struct {
	Kind SinkKind `json:"kind" yaml:"kind"`

	// Target is the spreadsheet ID, workbook path, or database path.
	Target string `json:"target" yaml:"target"`

	// Credential is an access token for remote sinks.
	Credential string `json:"credential,omitempty" yaml:"credential,omitempty"`

	// Sheet is the worksheet name (default "Scholarships").
	Sheet string `json:"sheet" yaml:"sheet"`
}

// DefaultSheet is the worksheet that holds records.
const DefaultSheet = "Scholarships"

// ScheduleConfig controls periodic invocation.
type ScheduleConfig struct {
	// Spec is a five-field cron expression (default "0 2 * * *").
	Spec string `json:"spec" yaml:"spec"`

	// OutputDir receives one run summary file per scheduled run.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// DefaultScheduleSpec runs discovery daily at 02:00.
const DefaultScheduleSpec = "0 2 * * *"
