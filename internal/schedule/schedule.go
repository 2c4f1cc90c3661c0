// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule runs discovery on a cron schedule with search criteria
// rotated by weekday.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// variations are the rotated criteria, Monday first. {year} is replaced
// with the current year.
var variations = []string{
	"new US scholarships and financial aid opportunities for American college students and students attending US universities {year}",
	"STEM scholarships for US undergraduate and graduate students with upcoming deadlines {year}",
	"scholarships for underrepresented and first-generation college students in the United States {year}",
	"merit-based scholarships and grants for US high school seniors entering college {year}",
	"medical, nursing, and health sciences scholarships for students at US universities {year}",
	"arts, humanities, and business scholarships for American college students {year}",
	"community foundation and corporate scholarships open to US college students {year}",
}

// Criteria returns the built-in rotated search criteria for the day of now.
func Criteria(now time.Time) string {
	return CriteriaFrom(variations, now)
}

// CriteriaFrom rotates through vs by weekday, Monday first, wrapping when
// vs has fewer than seven entries. An empty vs uses the built-in list.
func CriteriaFrom(vs []string, now time.Time) string {
	if len(vs) == 0 {
		vs = variations
	}
	day := (int(now.Weekday()) + 6) % 7
	return strings.ReplaceAll(vs[day%len(vs)], "{year}", strconv.Itoa(now.Year()))
}

// RunFunc performs one discovery run.
type RunFunc func(ctx context.Context, criteria string) types.RunSummary

// Scheduler triggers RunFunc on a cron spec. A tick that fires while the
// previous run is still going is skipped, and a panicking run is logged
// and recovered.
type Scheduler struct {
	cron *cron.Cron
	spec string
	run  RunFunc
	log  *zap.Logger

	// Now supplies the time used to pick criteria.
	Now func() time.Time
	// Variations replaces the built-in criteria rotation when non-empty.
	Variations []string
	// OnDone, when set, receives every finished summary.
	OnDone func(types.RunSummary)
}

// New returns a Scheduler for spec (standard five-field cron syntax or a
// descriptor such as "@daily"). An empty spec uses the daily default.
func New(spec string, run RunFunc, log *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = types.DefaultScheduleSpec
	}
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}

	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		spec: spec,
		run:  run,
		log:  log,
	}, nil
}

// Start registers the job and starts the cron loop. Runs use ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("adding cron job: %w", err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("spec", s.spec), zap.Time("next", s.Next()))
	return nil
}

// Stop halts the scheduler. The returned context is done once a running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Next returns the next activation time, or the zero time when the
// scheduler has not started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce performs one run with today's criteria.
func (s *Scheduler) RunOnce(ctx context.Context) types.RunSummary {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	criteria := CriteriaFrom(s.Variations, now)
	s.log.Info("scheduled discovery starting", zap.String("criteria", criteria))

	summary := s.run(ctx, criteria)
	if summary.Success {
		s.log.Info("scheduled discovery finished",
			zap.Int("discovered", summary.ScholarshipsDiscovered),
			zap.Int("saved", summary.ScholarshipsSaved),
		)
	} else {
		s.log.Error("scheduled discovery failed", zap.String("error", summary.Error))
	}
	if s.OnDone != nil {
		s.OnDone(summary)
	}
	return summary
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
