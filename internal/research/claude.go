// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// webSearchTool is the Claude server-side web search tool.
var webSearchTool = completion.Tool{
	Type:    "web_search_20250305",
	Name:    "web_search",
	MaxUses: 5,
}

// ClaudeSearcher researches a query with Claude's web search tool. Cited
// spans of the answer become Segments.
type ClaudeSearcher struct {
	API    *completion.Claude
	Model  string
	Now    func() time.Time
	Logger *zap.Logger
}

// Search runs one grounded research request at temperature 0.
func (s *ClaudeSearcher) Search(ctx context.Context, query string) (Result, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	prompt, err := renderPrompt(query, now().Format(types.DateLayout))
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	zero := 0.0
	resp, err := s.API.Send(ctx, completion.MessageRequest{
		Model:       s.Model,
		Temperature: &zero,
		Messages:    []completion.Message{{Role: "user", Content: prompt}},
		Tools:       []completion.Tool{webSearchTool},
	})
	if err != nil {
		return Result{}, err
	}

	res := fromBlocks(resp.Content)
	if strings.TrimSpace(res.Text) == "" {
		return Result{}, ErrNoText
	}
	if s.Logger != nil {
		s.Logger.Debug("research answer",
			zap.String("query", query),
			zap.Int("chars", len(res.Text)),
			zap.Int("segments", len(res.Segments)),
		)
	}
	return res, nil
}

// fromBlocks joins the text blocks and records a segment for every block
// that carries citations.
func fromBlocks(blocks []completion.ContentBlock) Result {
	var buf bytes.Buffer
	var segs []Segment
	for _, b := range blocks {
		if b.Type != "text" {
			continue
		}
		start := buf.Len()
		buf.WriteString(b.Text)
		if len(b.Citations) == 0 {
			continue
		}
		seg := Segment{Start: start, End: buf.Len()}
		for _, c := range b.Citations {
			if c.URL == "" {
				continue
			}
			seg.Sources = append(seg.Sources, Page{URL: c.URL, Title: c.Title})
		}
		if len(seg.Sources) > 0 {
			segs = append(segs, seg)
		}
	}
	return Result{Text: buf.String(), Segments: segs}
}
