// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"text/template"
)

var researchPromptTmpl = template.Must(template.New("research").Parse(`Search the web for current scholarship opportunities matching: "{{.Query}}".

Today is {{.Date}}. Only report scholarships whose application deadline is on or after today, or whose deadline is not yet announced.

For every scholarship you find, report:
- the official title and the organization that offers it
- the award amount
- the application deadline
- who is eligible and what an application requires
- the direct URL of the application form or official scholarship page

Prefer official provider pages over aggregator listings. Write a concise factual summary and cite the pages each fact came from.
`))

func renderPrompt(query, date string) (string, error) {
	var buf bytes.Buffer
	err := researchPromptTmpl.Execute(&buf, struct{ Query, Date string }{query, date})
	return buf.String(), err
}
