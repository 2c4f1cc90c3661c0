// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality judges whether a scholarship record is complete and
// well-formed enough to keep. The same record is checked at three points
// in a run: after extraction and again before gap-fill (lenient), and
// before it is written to the sink (strict).
package quality

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// Level selects how strict a check is.
type Level int

const (
	// Lenient is applied right after extraction. It tolerates an
	// application reference that only describes where to apply.
	Lenient Level = iota
	// Strict is applied before a record is persisted.
	Strict
)

func (l Level) String() string {
	if l == Strict {
		return "strict"
	}
	return "lenient"
}

const (
	lenientMinDescription = 30
	strictMinTitle        = 5
	strictMinDescription  = 20
)

// applyIntent lists the markers that make an application reference usable
// at the lenient checkpoint even when it is not yet a URL.
var applyIntent = []string{"http://", "https://", "website", "official", "application", "apply"}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Acceptable reports whether r passes the checkpoint at level. now is the
// run's current date; the strict checkpoint rejects records whose deadline
// has already passed.
func Acceptable(r *types.Record, now time.Time, level Level) bool {
	return len(Problems(r, now, level)) == 0
}

// Problems lists every rule r breaks at level. An empty result means the
// record is acceptable.
func Problems(r *types.Record, now time.Time, level Level) []string {
	if r == nil {
		return []string{"nil record"}
	}
	if level == Strict {
		return strictProblems(r, now)
	}
	return lenientProblems(r)
}

func lenientProblems(r *types.Record) []string {
	var out []string
	title := strings.TrimSpace(r.Title)
	desc := strings.TrimSpace(r.Description)

	if title == "" || types.IsMissing(title) {
		out = append(out, "missing title")
	}
	if desc == "" || types.IsMissing(desc) {
		out = append(out, "missing description")
	} else if runeLen(desc) < lenientMinDescription {
		out = append(out, fmt.Sprintf("description shorter than %d characters", lenientMinDescription))
	}
	if r.Missing(types.FieldDeadline) {
		out = append(out, "missing deadline")
	}
	if !hasApplicationReference(r.ApplicationURL) {
		out = append(out, "no usable application reference")
	}
	return out
}

func strictProblems(r *types.Record, now time.Time) []string {
	var out []string
	title := strings.TrimSpace(r.Title)
	desc := strings.TrimSpace(r.Description)

	if types.IsMissing(title) || runeLen(title) < strictMinTitle {
		out = append(out, fmt.Sprintf("title shorter than %d characters", strictMinTitle))
	}
	if types.IsMissing(desc) || runeLen(desc) < strictMinDescription {
		out = append(out, fmt.Sprintf("description shorter than %d characters", strictMinDescription))
	}
	deadline := strings.TrimSpace(r.Deadline)
	switch {
	case !isoDateRe.MatchString(deadline):
		out = append(out, "deadline not in YYYY-MM-DD form")
	case isExpired(deadline, now):
		out = append(out, "deadline has passed")
	}
	if r.Missing(types.FieldProvider) {
		out = append(out, "missing provider")
	}
	if !IsHTTPURL(r.ApplicationURL) {
		out = append(out, "application URL is not an absolute http(s) URL")
	}
	return out
}

func isExpired(deadline string, now time.Time) bool {
	d, err := time.Parse(types.DateLayout, deadline)
	if err != nil {
		return false
	}
	return d.Before(dateOnly(now))
}

func hasApplicationReference(v string) bool {
	if types.IsMissing(v) {
		return false
	}
	if IsHTTPURL(v) {
		return true
	}
	lower := strings.ToLower(v)
	for _, kw := range applyIntent {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsHTTPURL reports whether v is an absolute URL with an http or https
// scheme and a host.
func IsHTTPURL(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, " \t\n") {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func runeLen(s string) int {
	return len([]rune(s))
}
