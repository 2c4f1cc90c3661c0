// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reflector judges whether accumulated research is enough to stop
// searching and, if not, which follow-up searches to run.
package reflector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// MaxFollowUps caps the follow-up queries returned by the enhanced reflector.
const MaxFollowUps = 5

// reflectionTemperature matches the query generator: reflection benefits
// from varied follow-up suggestions.
const reflectionTemperature = 1.0

// Variant names a reflector.
type Variant string

const (
	VariantBasic    Variant = "basic"
	VariantEnhanced Variant = "enhanced"
)

// Verdict is a reflector's judgment of the research so far.
type Verdict struct {
	IsSufficient    bool     `json:"is_sufficient"`
	KnowledgeGap    string   `json:"knowledge_gap"`
	FollowUpQueries []string `json:"follow_up_queries"`

	// Variant is the reflector that produced the verdict.
	Variant Variant `json:"-"`
	// Metrics is set by the enhanced reflector.
	Metrics *Metrics `json:"-"`
	// Degraded is set when the enhanced reflector could not run and the
	// basic one answered instead. DegradeReason holds the cause. This is
	// service-failure telemetry and says nothing about research quality.
	Degraded      bool   `json:"-"`
	DegradeReason string `json:"-"`
}

// Metrics are the enhanced reflector's coverage scores.
type Metrics struct {
	DataQualityScore       float64  `json:"data_quality_score"`
	TotalScholarshipsFound int      `json:"total_scholarships_found"`
	CompleteScholarships   int      `json:"complete_scholarships"`
	MissingCategories      []string `json:"-"`
	MissingDemographics    []string `json:"-"`
	ConfidenceLevel        string   `json:"-"`
}

// Reflector evaluates research summaries against the topic.
type Reflector interface {
	Reflect(ctx context.Context, topic string, summaries []string, now time.Time) (Verdict, error)
}

// Completer is the part of completion.Client the reflectors need.
type Completer interface {
	JSON(ctx context.Context, req completion.Request, out any) error
}

// Basic asks for a single sufficiency judgment.
type Basic struct {
	Client Completer
	Model  string
	Logger *zap.Logger
}

// Reflect implements Reflector.
func (b *Basic) Reflect(ctx context.Context, topic string, summaries []string, now time.Time) (Verdict, error) {
	prompt, err := render(basicPromptTmpl, topic, summaries, now)
	if err != nil {
		return Verdict{}, err
	}
	var v Verdict
	if err := b.Client.JSON(ctx, completion.Request{Prompt: prompt, Model: b.Model, Temperature: reflectionTemperature}, &v); err != nil {
		return Verdict{}, fmt.Errorf("basic reflection: %w", err)
	}
	v.Variant = VariantBasic
	v.FollowUpQueries = dedupe(v.FollowUpQueries)
	return v, nil
}

// Enhanced scores coverage and ranks targeted follow-up queries. When its
// structured call fails it falls back to Basic and marks the verdict as
// degraded.
type Enhanced struct {
	Client Completer
	Model  string
	Logger *zap.Logger
}

type enhancedResponse struct {
	IsSufficient   bool `json:"is_sufficient"`
	QualityMetrics struct {
		DataQualityScore       float64 `json:"data_quality_score"`
		TotalScholarshipsFound int     `json:"total_scholarships_found"`
		CompleteScholarships   int     `json:"complete_scholarships"`
	} `json:"quality_metrics"`
	CoverageGaps struct {
		MissingCategories   []string `json:"missing_categories"`
		MissingDemographics []string `json:"missing_demographics"`
	} `json:"coverage_gaps"`
	ImprovementPriority []string        `json:"improvement_priority"`
	ConfidenceLevel     string          `json:"confidence_level"`
	TargetedQueries     []targetedQuery `json:"targeted_queries"`
}

type targetedQuery struct {
	Query     string `json:"query"`
	Priority  int    `json:"priority"`
	Rationale string `json:"rationale"`
}

// Reflect implements Reflector.
func (e *Enhanced) Reflect(ctx context.Context, topic string, summaries []string, now time.Time) (Verdict, error) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	v, err := e.enhanced(ctx, topic, summaries, now)
	if err == nil {
		log.Info("reflection",
			zap.String("variant", string(VariantEnhanced)),
			zap.Bool("sufficient", v.IsSufficient),
			zap.Float64("quality_score", v.Metrics.DataQualityScore),
			zap.Int("complete", v.Metrics.CompleteScholarships),
			zap.Int("follow_ups", len(v.FollowUpQueries)),
		)
		return v, nil
	}

	log.Warn("enhanced reflection unavailable, using basic", zap.Error(err))
	basic := &Basic{Client: e.Client, Model: e.Model, Logger: log}
	v, berr := basic.Reflect(ctx, topic, summaries, now)
	if berr != nil {
		return Verdict{}, berr
	}
	v.Degraded = true
	v.DegradeReason = err.Error()
	return v, nil
}

func (e *Enhanced) enhanced(ctx context.Context, topic string, summaries []string, now time.Time) (Verdict, error) {
	prompt, err := render(enhancedPromptTmpl, topic, summaries, now)
	if err != nil {
		return Verdict{}, err
	}
	var resp enhancedResponse
	if err := e.Client.JSON(ctx, completion.Request{Prompt: prompt, Model: e.Model, Temperature: reflectionTemperature}, &resp); err != nil {
		return Verdict{}, fmt.Errorf("enhanced reflection: %w", err)
	}

	m := &Metrics{
		DataQualityScore:       resp.QualityMetrics.DataQualityScore,
		TotalScholarshipsFound: resp.QualityMetrics.TotalScholarshipsFound,
		CompleteScholarships:   resp.QualityMetrics.CompleteScholarships,
		MissingCategories:      resp.CoverageGaps.MissingCategories,
		MissingDemographics:    resp.CoverageGaps.MissingDemographics,
		ConfidenceLevel:        resp.ConfidenceLevel,
	}
	return Verdict{
		IsSufficient:    resp.IsSufficient,
		KnowledgeGap:    describeGap(m, resp.ImprovementPriority),
		FollowUpQueries: rank(resp.TargetedQueries),
		Variant:         VariantEnhanced,
		Metrics:         m,
	}, nil
}

// rank orders targeted queries by priority (1 first; 0 means unranked and
// sorts last), drops duplicates, and caps the list at MaxFollowUps.
func rank(tqs []targetedQuery) []string {
	sorted := append([]targetedQuery(nil), tqs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityKey(sorted[i].Priority) < priorityKey(sorted[j].Priority)
	})
	qs := make([]string, 0, len(sorted))
	for _, tq := range sorted {
		qs = append(qs, tq.Query)
	}
	qs = dedupe(qs)
	if len(qs) > MaxFollowUps {
		qs = qs[:MaxFollowUps]
	}
	return qs
}

func priorityKey(p int) int {
	if p <= 0 {
		return int(^uint(0) >> 1)
	}
	return p
}

func describeGap(m *Metrics, priorities []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quality score %.2f. Found %d total, %d complete.", m.DataQualityScore, m.TotalScholarshipsFound, m.CompleteScholarships)
	if len(m.MissingCategories) > 0 {
		fmt.Fprintf(&b, " Missing categories: %s.", strings.Join(firstN(m.MissingCategories, 3), ", "))
	}
	if len(m.MissingDemographics) > 0 {
		fmt.Fprintf(&b, " Missing demographics: %s.", strings.Join(firstN(m.MissingDemographics, 3), ", "))
	}
	if len(priorities) > 0 {
		fmt.Fprintf(&b, " Priorities: %s.", strings.Join(firstN(priorities, 3), ", "))
	}
	return b.String()
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func dedupe(qs []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

// summariesSeparator joins research results in reflection prompts.
const summariesSeparator = "\n\n---\n\n"

func joinSummaries(s []string) string {
	return strings.Join(s, summariesSeparator)
}

// New returns the reflector for mode, or nil when reflection is disabled.
func New(mode types.ReflectionMode, c Completer, model string, log *zap.Logger) Reflector {
	switch mode {
	case types.ReflectionNone:
		return nil
	case types.ReflectionBasic:
		return &Basic{Client: c, Model: model, Logger: log}
	default:
		return &Enhanced{Client: c, Model: model, Logger: log}
	}
}
