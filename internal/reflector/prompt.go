// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reflector

import (
	"bytes"
	"text/template"
	"time"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

var basicPromptTmpl = template.Must(template.New("basic").Parse(`You review research notes gathered while looking for scholarships on the topic "{{.Topic}}".

Current date: {{.Date}}. Scholarships with a deadline before this date do not count.

The research is sufficient when it contains at least one complete, high-quality scholarship: an official title, a description, an amount, a future deadline, the provider, and a direct application URL.

If it is not sufficient, describe what is missing and propose up to three self-contained web search queries that would fill the gap.

Return JSON: {"is_sufficient": true|false, "knowledge_gap": "...", "follow_up_queries": ["..."]}

Research notes:
{{.Summaries}}
`))

var enhancedPromptTmpl = template.Must(template.New("enhanced").Parse(`You audit research notes gathered while looking for scholarships on the topic "{{.Topic}}".

Current date: {{.Date}}. Scholarships with a deadline before this date do not count.

Score the research:
- data_quality_score: 0.0 to 1.0, how complete and verifiable the scholarship details are
- total_scholarships_found: distinct active scholarships mentioned
- complete_scholarships: those with title, description, amount, future deadline, provider, and direct application URL
- coverage_gaps.missing_categories: fields of study not yet covered (STEM, Medical/Health, Arts & Humanities, Business & Economics, Diversity & Inclusion, Environmental)
- coverage_gaps.missing_demographics: student groups not yet covered
- improvement_priority: the most valuable improvements, most important first
- confidence_level: high, medium, or low

The research is sufficient when at least one complete scholarship was found and coverage is reasonable.
If it is not, propose up to five targeted_queries, each a self-contained web search with a priority (1 is most important) and a short rationale.

Return JSON:
{"is_sufficient": false, "quality_metrics": {"data_quality_score": 0.0, "total_scholarships_found": 0, "complete_scholarships": 0}, "coverage_gaps": {"missing_categories": [], "missing_demographics": []}, "improvement_priority": [], "confidence_level": "low", "targeted_queries": [{"query": "...", "priority": 1, "rationale": "..."}]}

Research notes:
{{.Summaries}}
`))

func render(t *template.Template, topic string, summaries []string, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, struct{ Topic, Date, Summaries string }{
		Topic:     topic,
		Date:      now.UTC().Format(types.DateLayout),
		Summaries: joinSummaries(summaries),
	})
	return buf.String(), err
}
