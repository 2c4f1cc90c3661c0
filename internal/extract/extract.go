// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns free-text research notes into scholarship
// candidates. It asks the completion service for a structured result first
// and falls back to a delimiter-based text format that is parsed locally.
package extract

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
	"github.com/daviddagyei/ai-scholarship-agent/internal/quality"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// ErrNoCandidates reports a structured answer that held no titled
// candidates. It sends extraction down the fallback branch.
var ErrNoCandidates = errors.New("no candidates extracted")

// Path names which branch produced an extraction.
type Path string

const (
	PathNone       Path = "none"
	PathStructured Path = "structured"
	PathFallback   Path = "fallback"
)

// Outcome is the result of one extraction.
type Outcome struct {
	Candidates []types.Candidate
	Path       Path
	Notes      string
	// Expired counts candidates dropped because their deadline had passed.
	Expired int
}

// Completer is the part of completion.Client the extractor needs.
type Completer interface {
	JSON(ctx context.Context, req completion.Request, out any) error
	Text(ctx context.Context, req completion.Request) (string, error)
}

// Extractor converts research text into candidates.
type Extractor struct {
	Client Completer
	Model  string
	Logger *zap.Logger
}

// New returns an Extractor. log may be nil.
func New(c Completer, model string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{Client: c, Model: model, Logger: log}
}

// Extract returns the candidates found in corpus. An empty corpus yields
// an empty outcome without calling the service. When both branches fail
// the outcome is empty and the failure is logged; Extract never returns
// an error.
func (e *Extractor) Extract(ctx context.Context, corpus string, now time.Time) Outcome {
	if strings.TrimSpace(corpus) == "" {
		return Outcome{Path: PathNone}
	}
	date := now.UTC().Format(types.DateLayout)

	out, err := e.structured(ctx, corpus, date)
	switch {
	case err == nil:
		return e.finish(out, now)
	case errors.Is(err, ErrNoCandidates):
		e.Logger.Info("structured extraction found nothing, using delimited fallback")
	default:
		e.Logger.Warn("structured extraction failed, using delimited fallback", zap.Error(err))
	}

	out, err = e.fallback(ctx, corpus, date)
	if err != nil {
		e.Logger.Warn("delimited extraction failed", zap.Error(err))
		return Outcome{Path: PathNone}
	}
	return e.finish(out, now)
}

func (e *Extractor) structured(ctx context.Context, corpus, date string) (Outcome, error) {
	prompt, err := render(structuredPromptTmpl, date, corpus)
	if err != nil {
		return Outcome{}, err
	}
	var res types.ExtractionResult
	if err := e.Client.JSON(ctx, completion.Request{Prompt: prompt, Model: e.Model, Temperature: 0, MaxTokens: 8192}, &res); err != nil {
		return Outcome{}, err
	}
	for i := range res.Scholarships {
		fillSentinels(&res.Scholarships[i])
	}
	cs := dropUntitled(res.Scholarships)
	if len(cs) == 0 {
		return Outcome{}, ErrNoCandidates
	}
	return Outcome{Candidates: cs, Path: PathStructured, Notes: res.Notes}, nil
}

func (e *Extractor) fallback(ctx context.Context, corpus, date string) (Outcome, error) {
	prompt, err := render(delimitedPromptTmpl, date, corpus)
	if err != nil {
		return Outcome{}, err
	}
	text, err := e.Client.Text(ctx, completion.Request{Prompt: prompt, Model: e.Model, Temperature: 0, MaxTokens: 8192})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Candidates: ParseDelimited(text), Path: PathFallback}, nil
}

// finish normalizes deadlines and removes candidates that have expired.
func (e *Extractor) finish(out Outcome, now time.Time) Outcome {
	kept := out.Candidates[:0]
	for _, c := range out.Candidates {
		if !types.IsMissing(c.Deadline) {
			c.Deadline = quality.NormalizeDeadline(c.Deadline)
		}
		if status, _ := quality.DeriveStatus(c.Deadline, now); status == types.StatusExpired {
			e.Logger.Debug("dropping expired candidate", zap.String("title", c.Title), zap.String("deadline", c.Deadline))
			out.Expired++
			continue
		}
		kept = append(kept, c)
	}
	out.Candidates = kept
	e.Logger.Info("extraction complete",
		zap.String("path", string(out.Path)),
		zap.Int("candidates", len(out.Candidates)),
		zap.Int("expired", out.Expired),
	)
	return out
}

func fillSentinels(c *types.Candidate) {
	for _, f := range types.ContentFields {
		if strings.TrimSpace(c.Get(f)) == "" {
			c.Set(f, types.NotAvailable)
		}
	}
}

func dropUntitled(cs []types.Candidate) []types.Candidate {
	out := cs[:0]
	for _, c := range cs {
		if !types.IsMissing(c.Title) {
			out = append(out, c)
		}
	}
	return out
}
