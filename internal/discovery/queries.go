// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// queryTemperature favours varied queries over repeatable ones.
const queryTemperature = 1.0

// DefaultCriteria is the topic used when a run is started without one.
func DefaultCriteria(now time.Time) string {
	return fmt.Sprintf("new US scholarships and financial aid opportunities for American college students and students attending US universities %d", now.Year())
}

var queryPromptTmpl = template.Must(template.New("queries").Parse(`Your goal is to write diverse web search queries that find currently open scholarships for: "{{.Topic}}".

Current date: {{.Date}}.

Instructions:
- Write at most {{.N}} queries. Prefer one when the topic is narrow.
- Each query targets a different angle (field of study, student group, provider type, award size).
- Favour official provider pages and pages that list deadlines and application links.
- Do not write near-duplicate queries.

Return JSON: {"rationale": "why these queries cover the topic", "query": ["...", "..."]}
`))

// queryList is the structured answer of the query generator.
type queryList struct {
	Query     []string `json:"query"`
	Rationale string   `json:"rationale"`
}

// generateQueries asks the completion service for up to n queries. The
// result is trimmed, deduplicated case-insensitively and capped at n.
func generateQueries(ctx context.Context, c Completer, model, topic string, n int, now time.Time) ([]string, error) {
	var buf bytes.Buffer
	err := queryPromptTmpl.Execute(&buf, struct {
		Topic, Date string
		N           int
	}{topic, now.UTC().Format(types.DateLayout), n})
	if err != nil {
		return nil, fmt.Errorf("rendering query prompt: %w", err)
	}

	var ql queryList
	if err := c.JSON(ctx, completion.Request{Prompt: buf.String(), Model: model, Temperature: queryTemperature}, &ql); err != nil {
		return nil, fmt.Errorf("generating queries: %w", err)
	}
	qs := uniqueQueries(ql.Query, nil)
	if len(qs) > n {
		qs = qs[:n]
	}
	return qs, nil
}

// uniqueQueries trims qs and drops blanks, repeats and anything already
// in issued, comparing case-insensitively.
func uniqueQueries(qs, issued []string) []string {
	seen := make(map[string]bool, len(issued))
	for _, q := range issued {
		seen[strings.ToLower(strings.TrimSpace(q))] = true
	}
	var out []string
	for _, q := range qs {
		q = strings.TrimSpace(q)
		k := strings.ToLower(q)
		if q == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}
	return out
}
