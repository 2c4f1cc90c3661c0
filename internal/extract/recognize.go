// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/daviddagyei/ai-scholarship-agent/internal/quality"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// Narrow recognizers used by gap-fill to pull single fields out of
// targeted research text without another completion call.
var (
	applyURLRe  = regexp.MustCompile(`(?i)https?://[^\s<>"()\[\]]+(?:apply|application|form|scholarship)[^\s<>"()\[\]]*`)
	anyHTTPSRe  = regexp.MustCompile(`https://[^\s<>"()\[\]]+`)
	amountRe    = regexp.MustCompile(`(?i)(?:up to\s+)?\$\s?\d{1,3}(?:,\d{3})+(?:\.\d{2})?|(?:up to\s+)?\$\s?\d+(?:\.\d{2})?`)
	isoDateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	longDateRe  = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`)
	ordinalRe   = regexp.MustCompile(`(?i)(\d)(?:st|nd|rd|th)`)
	urlTrailing = ".,;:!?'"
)

// FindApplicationURLs returns every candidate application URL in text, most
// specific first, without duplicates.
func FindApplicationURLs(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(ms []string) {
		for _, m := range ms {
			m = strings.TrimRight(m, urlTrailing)
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	add(applyURLRe.FindAllString(text, -1))
	add(anyHTTPSRe.FindAllString(text, -1))
	return out
}

// FindAmount returns the first dollar amount in text.
func FindAmount(text string) (string, bool) {
	m := amountRe.FindString(text)
	if m == "" {
		return "", false
	}
	m = strings.Replace(m, "$ ", "$", 1)
	if strings.HasPrefix(strings.ToLower(m), "up to") {
		m = "Up to" + m[len("up to"):]
	}
	return m, true
}

// FindDeadline returns the first date in text that is on or after now,
// normalized to YYYY-MM-DD.
func FindDeadline(text string, now time.Time) (string, bool) {
	today := now.UTC().Format(types.DateLayout)
	var matches []string
	matches = append(matches, isoDateRe.FindAllString(text, -1)...)
	matches = append(matches, longDateRe.FindAllString(text, -1)...)
	for _, m := range matches {
		d, ok := quality.ParseDeadline(ordinalRe.ReplaceAllString(m, "$1"))
		if !ok {
			continue
		}
		s := d.Format(types.DateLayout)
		if s >= today {
			return s, true
		}
	}
	return "", false
}
