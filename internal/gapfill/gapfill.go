// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gapfill completes records that are missing an application URL,
// a deadline, or an amount by issuing one targeted search per record.
package gapfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/extract"
	"github.com/daviddagyei/ai-scholarship-agent/internal/quality"
	"github.com/daviddagyei/ai-scholarship-agent/internal/research"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// Default caps on how many records each pass may search for.
const (
	DefaultDetailsLimit = 3
	DefaultURLLimit     = 5
)

// Filler runs the details and URL passes.
type Filler struct {
	Searcher     research.Searcher
	DetailsLimit int
	URLLimit     int
	Logger       *zap.Logger
}

// New returns a Filler with default limits.
func New(s research.Searcher, log *zap.Logger) *Filler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Filler{Searcher: s, DetailsLimit: DefaultDetailsLimit, URLLimit: DefaultURLLimit, Logger: log}
}

// PassSummary holds counts for one pass.
type PassSummary struct {
	Attempted int
	Updated   int
	Failed    int
	// Rejected counts generic URLs that were found and not used.
	Rejected int
}

// Summary holds counts for both passes.
type Summary struct {
	Details PassSummary
	URL     PassSummary
}

// Searches returns the number of targeted searches issued.
func (s Summary) Searches() int {
	return s.Details.Attempted + s.URL.Attempted
}

// Fill runs the details pass then the URL pass over records, mutating
// them in place. A failed or empty search leaves its record unchanged.
func (f *Filler) Fill(ctx context.Context, records []*types.Record, now time.Time) Summary {
	return Summary{
		Details: f.detailsPass(ctx, records, now),
		URL:     f.urlPass(ctx, records, now),
	}
}

// NeedsDetails reports whether r lacks an application URL, a usable
// deadline, or an amount.
func NeedsDetails(r *types.Record) bool {
	return needsURL(r) || needsDeadline(r) || r.Missing(types.FieldAmount)
}

func needsURL(r *types.Record) bool {
	return !quality.IsHTTPURL(r.ApplicationURL) || quality.IsGenericURL(r.ApplicationURL)
}

func needsDeadline(r *types.Record) bool {
	return r.Missing(types.FieldDeadline) || r.FollowUp
}

func (f *Filler) detailsPass(ctx context.Context, records []*types.Record, now time.Time) PassSummary {
	var s PassSummary
	for _, r := range firstN(records, f.limit(f.DetailsLimit, DefaultDetailsLimit), NeedsDetails) {
		s.Attempted++
		query := DetailsQuery(r, now)
		text, ok := f.search(ctx, query, r)
		if !ok {
			s.Failed++
			continue
		}

		changed := false
		if r.Missing(types.FieldAmount) {
			if amount, ok := extract.FindAmount(text); ok {
				changed = r.Set(types.FieldAmount, amount, now) || changed
			}
		}
		if needsDeadline(r) {
			if deadline, ok := extract.FindDeadline(text, now); ok {
				changed = r.Set(types.FieldDeadline, deadline, now) || changed
			}
		}
		if needsURL(r) {
			u, rejected := pickURL(text)
			s.Rejected += rejected
			if u != "" {
				changed = r.Set(types.FieldApplicationURL, u, now) || changed
			}
		}
		if changed {
			quality.ApplyStatus(r, now)
			s.Updated++
			f.Logger.Info("gap-fill updated record", zap.String("pass", "details"), zap.String("title", r.Title))
		}
	}
	return s
}

func (f *Filler) urlPass(ctx context.Context, records []*types.Record, now time.Time) PassSummary {
	var s PassSummary
	for _, r := range firstN(records, f.limit(f.URLLimit, DefaultURLLimit), needsURL) {
		s.Attempted++
		text, ok := f.search(ctx, URLQuery(r, now), r)
		if !ok {
			s.Failed++
			continue
		}
		u, rejected := pickURL(text)
		s.Rejected += rejected
		if u != "" && r.Set(types.FieldApplicationURL, u, now) {
			s.Updated++
			f.Logger.Info("gap-fill updated record", zap.String("pass", "url"), zap.String("title", r.Title))
		}
	}
	return s
}

// search runs one targeted search. Failures are logged and reported as
// a missing result.
func (f *Filler) search(ctx context.Context, query string, r *types.Record) (string, bool) {
	res, err := f.Searcher.Search(ctx, query)
	if err != nil {
		f.Logger.Warn("gap-fill search failed", zap.String("title", r.Title), zap.String("query", query), zap.Error(err))
		return "", false
	}
	if strings.TrimSpace(res.Text) == "" {
		f.Logger.Debug("gap-fill search empty", zap.String("title", r.Title))
		return "", false
	}
	text := res.Text
	for _, seg := range res.Segments {
		for _, p := range seg.Sources {
			text += "\n" + p.URL
		}
	}
	return text, true
}

// pickURL returns the first non-generic application URL in text and the
// number of generic URLs passed over.
func pickURL(text string) (string, int) {
	rejected := 0
	for _, u := range extract.FindApplicationURLs(text) {
		if quality.IsGenericURL(u) {
			rejected++
			continue
		}
		return u, rejected
	}
	return "", rejected
}

// DetailsQuery builds the search for a record's missing details.
func DetailsQuery(r *types.Record, now time.Time) string {
	parts := []string{fmt.Sprintf("%q", r.Title)}
	if !r.Missing(types.FieldProvider) {
		parts = append(parts, r.Provider)
	}
	parts = append(parts, "application form deadline amount", fmt.Sprint(now.Year()))
	return strings.Join(parts, " ")
}

// URLQuery builds the search for a record's application form.
func URLQuery(r *types.Record, now time.Time) string {
	parts := []string{fmt.Sprintf("%q", r.Title)}
	if !r.Missing(types.FieldProvider) {
		parts = append(parts, fmt.Sprintf("%q", r.Provider))
	}
	parts = append(parts, "application form apply online", fmt.Sprint(now.Year()))
	return strings.Join(parts, " ")
}

func (f *Filler) limit(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func firstN(records []*types.Record, n int, keep func(*types.Record) bool) []*types.Record {
	var out []*types.Record
	for _, r := range records {
		if len(out) == n {
			break
		}
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
