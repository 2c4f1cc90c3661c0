// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"text/template"
)

// structuredPromptTmpl asks for a JSON extraction result.
var structuredPromptTmpl = template.Must(template.New("structured").Parse(`You extract scholarship offers for students in the United States from research notes.

Current date: {{.Date}}

Identify every distinct scholarship described in the notes below and return each one with these fields:
- title: the official scholarship name (at most 200 characters)
- description: purpose, audience, and benefits (at most 2000 characters)
- amount: US dollar amount with the $ symbol, e.g. "$5,000", "Up to $10,000", "$1,000-$2,500", "Full tuition", or "Varies"
- deadline: YYYY-MM-DD; when only a month and year are known use the last day of that month
- eligibility: comma-separated criteria such as academic level, GPA, citizenship, field of study
- requirements: comma-separated application materials such as essay, transcript, recommendations
- application_url: the direct link to the application form or application instructions, not a homepage
- provider: the organization offering the award
- category: one of STEM, Medical/Health, Arts & Humanities, Business & Economics, Diversity & Inclusion, Environmental, General

Rules:
- Leave out any scholarship whose deadline is before {{.Date}}.
- Use "Not available" for a field the notes do not support. Never invent values.
- Do not report the same scholarship twice.

Return a JSON object of the form:
{"scholarships": [{"title": "...", "description": "...", "amount": "...", "deadline": "...", "eligibility": "...", "requirements": "...", "application_url": "...", "provider": "...", "category": "..."}], "extraction_notes": "..."}

Research notes:
{{.Corpus}}
`))

// delimitedPromptTmpl asks for plain text with explicit block and field
// markers. It is used when the structured call fails.
var delimitedPromptTmpl = template.Must(template.New("delimited").Parse(`You extract scholarship offers for students in the United States from research notes.

Current date: {{.Date}}. Skip any scholarship whose deadline is before this date.

Write each scholarship as one block in exactly this layout and nothing else:

SCHOLARSHIP_START
FIELD_START: Title
<official scholarship name>
FIELD_END
FIELD_START: Description
<purpose, audience, and benefits>
FIELD_END
FIELD_START: Amount
<US dollar amount with $ symbol>
FIELD_END
FIELD_START: Deadline
<YYYY-MM-DD>
FIELD_END
FIELD_START: Eligibility Criteria
<comma-separated criteria>
FIELD_END
FIELD_START: Requirements
<comma-separated application materials>
FIELD_END
FIELD_START: Application URL
<direct application link>
FIELD_END
FIELD_START: Provider
<organization>
FIELD_END
FIELD_START: Category
<STEM, Medical/Health, Arts & Humanities, Business & Economics, Diversity & Inclusion, Environmental, or General>
FIELD_END
SCHOLARSHIP_END

Write "Not available" for any field the notes do not support.

Research notes:
{{.Corpus}}
`))

type promptData struct {
	Date   string
	Corpus string
}

func render(t *template.Template, date, corpus string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, promptData{Date: date, Corpus: corpus}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
