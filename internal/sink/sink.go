// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists accepted records to a spreadsheet-like store,
// skipping titles the store already holds.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/quality"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// ErrUnavailable reports a sink that is not configured or cannot be
// reached. Persisting to an unavailable sink saves and skips nothing.
var ErrUnavailable = errors.New("sink unavailable")

// Sink is an append-only store of record rows.
type Sink interface {
	// ExistingTitles returns the title column of every stored row.
	ExistingTitles(ctx context.Context) ([]string, error)
	// AppendRow appends one row of column values.
	AppendRow(ctx context.Context, row []string) error
}

// Initializer is implemented by sinks that can prepare an empty store,
// for example by writing a header row.
type Initializer interface {
	Init(ctx context.Context) error
}

// RecordLister is implemented by sinks that can return stored rows as
// records.
type RecordLister interface {
	Records(ctx context.Context) ([]types.Record, error)
}

// Result holds counts from one Persist call.
type Result struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	// Failed counts rows the sink rejected on append.
	Failed int `json:"failed"`
}

// Adapter deduplicates against the sink and applies the strict quality
// check before appending.
type Adapter struct {
	Sink   Sink
	Logger *zap.Logger
}

// NewAdapter returns an Adapter. s may be nil, in which case every
// Persist reports ErrUnavailable.
func NewAdapter(s Sink, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{Sink: s, Logger: log}
}

// TitleKey is the dedup key for a title: trimmed and lower-cased.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Persist writes records in order. A record is skipped when its title is
// already stored or was written earlier in this call, or when it fails
// the strict quality check. Existing titles are read once.
//
// When the sink is nil or its titles cannot be read, Persist logs a
// warning and returns a zero Result with an error wrapping ErrUnavailable.
func (a *Adapter) Persist(ctx context.Context, records []*types.Record, now time.Time) (Result, error) {
	if a.Sink == nil {
		a.Logger.Warn("no sink configured, records not persisted", zap.Int("records", len(records)))
		return Result{}, ErrUnavailable
	}

	titles, err := a.Sink.ExistingTitles(ctx)
	if err != nil {
		a.Logger.Warn("sink unavailable, records not persisted", zap.Error(err))
		return Result{}, fmt.Errorf("%w: listing titles: %v", ErrUnavailable, err)
	}
	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		if k := TitleKey(t); k != "" {
			seen[k] = true
		}
	}

	var res Result
	for _, r := range records {
		key := TitleKey(r.Title)
		if seen[key] {
			a.Logger.Debug("skipping duplicate", zap.String("title", r.Title))
			res.Skipped++
			continue
		}
		if problems := quality.Problems(r, now, quality.Strict); len(problems) > 0 {
			a.Logger.Info("skipping record that failed quality check",
				zap.String("title", r.Title),
				zap.Strings("problems", problems),
			)
			res.Skipped++
			continue
		}
		if err := a.Sink.AppendRow(ctx, r.Row()); err != nil {
			a.Logger.Warn("append failed", zap.String("title", r.Title), zap.Error(err))
			res.Failed++
			continue
		}
		seen[key] = true
		res.Saved++
	}

	a.Logger.Info("persisted records",
		zap.Int("saved", res.Saved),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
