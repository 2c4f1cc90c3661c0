// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery runs the scholarship discovery pipeline: generate
// search queries, research them, optionally reflect and research again,
// extract candidates, fill gaps and persist. A run always produces a
// summary; failures are reported in it rather than returned.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
	"github.com/daviddagyei/ai-scholarship-agent/internal/extract"
	"github.com/daviddagyei/ai-scholarship-agent/internal/gapfill"
	"github.com/daviddagyei/ai-scholarship-agent/internal/quality"
	"github.com/daviddagyei/ai-scholarship-agent/internal/reflector"
	"github.com/daviddagyei/ai-scholarship-agent/internal/research"
	"github.com/daviddagyei/ai-scholarship-agent/internal/sink"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// resultSeparator joins research results into one corpus.
const resultSeparator = "\n---\n\n"

// maxSamples caps the sample records included in a summary.
const maxSamples = 2

// Completer generates search queries.
type Completer interface {
	JSON(ctx context.Context, req completion.Request, out any) error
}

// Extractor turns a research corpus into candidates.
type Extractor interface {
	Extract(ctx context.Context, corpus string, now time.Time) extract.Outcome
}

// Filler completes records that lack critical fields.
type Filler interface {
	Fill(ctx context.Context, records []*types.Record, now time.Time) gapfill.Summary
}

// Persister stores accepted records.
type Persister interface {
	Persist(ctx context.Context, records []*types.Record, now time.Time) (sink.Result, error)
}

// Config tunes one orchestrator.
type Config struct {
	Discovery types.DiscoveryConfig
	// QueryModel overrides the completion model for query generation.
	QueryModel string
	// DryRun skips persistence.
	DryRun bool
}

// Orchestrator composes the pipeline stages. Completer, Searcher and
// Extractor are required. A nil Reflector disables reflection, a nil
// Filler disables gap-fill, and a nil Persister behaves as an
// unconfigured sink.
type Orchestrator struct {
	Completer Completer
	Searcher  research.Searcher
	Reflector reflector.Reflector
	Extractor Extractor
	Filler    Filler
	Persister Persister
	Config    Config
	Logger    *zap.Logger
	// Out receives human-readable progress lines.
	Out io.Writer
	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() string
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Orchestrator) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

// Run discovers scholarships for criteria and returns the run summary.
// An empty criteria uses DefaultCriteria. Run never panics and never
// returns a partial summary: any unexpected failure yields Success false.
func (o *Orchestrator) Run(ctx context.Context, criteria string) (summary types.RunSummary) {
	start := o.now()
	runID := uuid.NewString()
	if o.NewID != nil {
		runID = o.NewID()
	}
	if strings.TrimSpace(criteria) == "" {
		criteria = DefaultCriteria(start)
	}
	log := o.logger().With(zap.String("run_id", runID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("discovery run panicked", zap.Any("panic", r), zap.Stack("stack"))
			summary = o.failure(runID, criteria, start, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	log.Info("discovery run started", zap.String("criteria", criteria))
	st, err := o.run(ctx, NewRunState(runID, criteria), start, log)
	if err != nil {
		log.Error("discovery run failed", zap.String("state", string(st.State)), zap.Error(err))
		return o.failure(runID, criteria, start, err)
	}
	summary = o.summarize(st, start)
	log.Info("discovery run finished",
		zap.Int("discovered", summary.ScholarshipsDiscovered),
		zap.Int("saved", summary.ScholarshipsSaved),
		zap.Int("skipped", summary.ScholarshipsSkipped),
		zap.Float64("duration_seconds", summary.DurationSeconds),
	)
	return summary
}

// run drives the state machine. It returns an error only when ctx is
// done; collaborator failures degrade the run instead.
func (o *Orchestrator) run(ctx context.Context, st RunState, now time.Time, log *zap.Logger) (RunState, error) {
	cfg := o.Config.Discovery.WithDefaults()
	for st.State != StateDone {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("run cancelled during %s: %w", st.State, err)
		}
		log.Debug("entering state", zap.String("state", string(st.State)))

		switch st.State {
		case StateGenerateQueries:
			st = o.generate(ctx, st, cfg, now, log).enter(StateResearch)
		case StateResearch:
			st = o.research(ctx, st, log).withLoopDone()
			if enoughResearch(st, cfg) {
				st = st.enter(StateExtract)
			} else {
				st = st.enter(StateReflect)
			}
		case StateReflect:
			st = o.reflect(ctx, st, now, log)
			if len(st.Pending) > 0 {
				st = st.enter(StateResearch)
			} else {
				st = st.enter(StateExtract)
			}
		case StateExtract:
			st = o.extract(ctx, st, now, log).enter(StateGapFill)
		case StateGapFill:
			st = o.gapFill(ctx, st, now, log).enter(StatePersist)
		case StatePersist:
			st = o.persist(ctx, st, now, log).enter(StateDone)
		default:
			return st, fmt.Errorf("unknown state %q", st.State)
		}
	}
	return st, nil
}

// enoughResearch is the loop-continuation rule: stop once the loop budget
// is spent or enough results have accumulated.
func enoughResearch(st RunState, cfg types.DiscoveryConfig) bool {
	return st.Loops >= cfg.MaxResearchLoops || len(st.Results) >= cfg.MinResearchResults
}

func (o *Orchestrator) generate(ctx context.Context, st RunState, cfg types.DiscoveryConfig, now time.Time, log *zap.Logger) RunState {
	fmt.Fprintf(o.out(), "Generating search queries for %q\n", st.Topic)
	qs, err := generateQueries(ctx, o.Completer, o.Config.QueryModel, st.Topic, cfg.InitialQueries, now)
	if err != nil || len(qs) == 0 {
		log.Warn("query generation failed, searching the topic directly", zap.Error(err))
		qs = []string{st.Topic}
	}
	return st.withPending(qs)
}

func (o *Orchestrator) research(ctx context.Context, st RunState, log *zap.Logger) RunState {
	for _, q := range st.Pending {
		qi := len(st.Queries)
		st = st.withQueryIssued(q)
		fmt.Fprintf(o.out(), "Researching: %s\n", q)

		res, ok := o.search(ctx, q, log)
		if !ok {
			st = st.withFailure()
			continue
		}
		text, sources := research.Annotate(res, st.RunID, qi)
		st = st.withResult(text, sources)
	}
	return st
}

// search is one research call with the failure folded into ok.
func (o *Orchestrator) search(ctx context.Context, q string, log *zap.Logger) (research.Result, bool) {
	res, err := o.Searcher.Search(ctx, q)
	if err != nil {
		log.Warn("research query failed, skipping", zap.String("query", q), zap.Error(err))
		return research.Result{}, false
	}
	return res, true
}

func (o *Orchestrator) reflect(ctx context.Context, st RunState, now time.Time, log *zap.Logger) RunState {
	st = st.withPending(nil)
	if o.Reflector == nil || len(st.Results) == 0 {
		return st
	}
	v, err := o.Reflector.Reflect(ctx, st.Topic, st.Results, now)
	if err != nil {
		log.Warn("reflection failed, moving on to extraction", zap.Error(err))
		return st
	}
	if v.Degraded {
		log.Warn("reflection degraded", zap.String("reason", v.DegradeReason))
	}
	st = st.withVerdict(v)
	if v.IsSufficient {
		log.Info("research judged sufficient", zap.String("variant", string(v.Variant)))
		return st
	}
	follow := uniqueQueries(v.FollowUpQueries, st.Queries)
	if len(follow) > reflector.MaxFollowUps {
		follow = follow[:reflector.MaxFollowUps]
	}
	log.Info("research needs follow-up",
		zap.String("gap", v.KnowledgeGap),
		zap.Strings("follow_ups", follow),
	)
	return st.withPending(follow)
}

func (o *Orchestrator) extract(ctx context.Context, st RunState, now time.Time, log *zap.Logger) RunState {
	corpus, used := research.Canonicalize(strings.Join(st.Results, resultSeparator), st.Sources)
	fmt.Fprintf(o.out(), "Extracting scholarships from %d research results (%d sources)\n", len(st.Results), len(used))

	out := o.Extractor.Extract(ctx, corpus, now)

	c := types.Collection{Metadata: types.CollectionMetadata{
		Queries: append([]string(nil), st.Queries...),
		Sources: append([]types.Source(nil), used...),
	}}
	rejected := 0
	for _, cand := range out.Candidates {
		r := types.NewRecord(cand, now)
		if problems := quality.Problems(r, now, quality.Lenient); len(problems) > 0 {
			log.Info("candidate rejected", zap.String("title", r.Title), zap.Strings("problems", problems))
			rejected++
			continue
		}
		quality.EnsureCategory(r)
		quality.ApplyStatus(r, now)
		c.Add(r)
	}
	log.Info("candidates accepted",
		zap.String("path", string(out.Path)),
		zap.Int("accepted", c.Len()),
		zap.Int("rejected", rejected),
		zap.Int("expired", out.Expired),
	)
	return st.withExtraction(out, used, c, rejected)
}

func (o *Orchestrator) gapFill(ctx context.Context, st RunState, now time.Time, log *zap.Logger) RunState {
	if o.Filler == nil || st.Collection.Len() == 0 {
		return st
	}
	c := st.Collection.Clone()
	eligible := make([]*types.Record, 0, c.Len())
	for _, r := range c.Records {
		if quality.Acceptable(r, now, quality.Lenient) {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) < c.Len() {
		log.Debug("records held back from gap-fill", zap.Int("count", c.Len()-len(eligible)))
	}
	fmt.Fprintf(o.out(), "Filling gaps in %d records\n", len(eligible))
	sum := o.Filler.Fill(ctx, eligible, now)
	log.Info("gap-fill complete",
		zap.Int("searches", sum.Searches()),
		zap.Int("details_updated", sum.Details.Updated),
		zap.Int("urls_updated", sum.URL.Updated),
		zap.Int("urls_rejected", sum.URL.Rejected+sum.Details.Rejected),
	)
	return st.withGapFill(c, sum)
}

func (o *Orchestrator) persist(ctx context.Context, st RunState, now time.Time, log *zap.Logger) RunState {
	if o.Config.DryRun {
		log.Info("dry run, records not persisted", zap.Int("records", st.Collection.Len()))
		return st
	}
	p := o.Persister
	if p == nil {
		p = sink.NewAdapter(nil, log)
	}
	fmt.Fprintf(o.out(), "Saving %d records\n", st.Collection.Len())
	res, err := p.Persist(ctx, st.Collection.Records, now)
	return st.withPersisted(res, err)
}

func (o *Orchestrator) summarize(st RunState, start time.Time) types.RunSummary {
	cfg := o.Config.Discovery.WithDefaults()
	records := st.Collection.Records
	mode := reflectorMode(o.Reflector, cfg.Reflection)
	var degraded *reflector.Verdict
	if n := len(st.Verdicts); n > 0 {
		last := st.Verdicts[n-1]
		mode = types.ReflectionMode(last.Variant)
		if last.Degraded {
			degraded = &last
		}
	}
	report := quality.Report(records)

	s := types.RunSummary{
		Success:                true,
		RunID:                  st.RunID,
		ScholarshipsDiscovered: len(records),
		ScholarshipsSaved:      st.Persisted.Saved,
		ScholarshipsSkipped:    st.Persisted.Skipped + st.Persisted.Failed,
		SearchCriteria:         st.Topic,
		Timestamp:              start.Format(time.RFC3339),
		DurationSeconds:        o.now().Sub(start).Seconds(),
		SourcesCount:           len(st.UsedSources),
		Queries:                append([]string(nil), st.Queries...),
		PipelineType:           pipelineType(mode, st.Extraction.Path),
		Quality:                &report,
	}
	for i := 0; i < len(records) && i < maxSamples; i++ {
		s.SampleScholarships = append(s.SampleScholarships, *records[i].Clone())
	}

	switch {
	case o.Config.DryRun:
		s.Note = "dry run: records were not persisted"
	case st.PersistErr != nil:
		s.SaveError = st.PersistErr.Error()
		if errors.Is(st.PersistErr, sink.ErrUnavailable) {
			s.Note = "scholarships were discovered but not saved: the sink is not configured or unreachable"
		}
	case st.Persisted.Failed > 0:
		s.SaveError = fmt.Sprintf("%d records could not be appended", st.Persisted.Failed)
	}
	if len(st.Results) == 0 {
		s.Note = joinNote(s.Note, fmt.Sprintf("no research results (%d queries failed)", st.Failed))
	}
	if degraded != nil {
		s.Note = joinNote(s.Note, "enhanced reflection fell back to basic: "+degraded.DegradeReason)
	}
	return s
}

func (o *Orchestrator) failure(runID, criteria string, start time.Time, err error) types.RunSummary {
	return types.RunSummary{
		Success:         false,
		RunID:           runID,
		SearchCriteria:  criteria,
		Timestamp:       start.Format(time.RFC3339),
		DurationSeconds: o.now().Sub(start).Seconds(),
		Error:           err.Error(),
	}
}

// pipelineType names the reflector that last ran, or the configured mode
// when none did, and the extraction branch, for example "enhanced/structured".
func pipelineType(mode types.ReflectionMode, path extract.Path) string {
	if path == "" {
		path = extract.PathNone
	}
	return string(mode) + "/" + string(path)
}

// reflectorMode names the configured reflector when no verdict says
// which one answered.
func reflectorMode(r reflector.Reflector, configured types.ReflectionMode) types.ReflectionMode {
	switch r.(type) {
	case nil:
		return types.ReflectionNone
	case *reflector.Basic:
		return types.ReflectionBasic
	case *reflector.Enhanced:
		return types.ReflectionEnhanced
	}
	return configured
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
