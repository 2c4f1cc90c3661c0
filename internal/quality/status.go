// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// deadlineLayouts are tried in order before falling back to the
// natural-language parser.
var deadlineLayouts = []string{
	types.DateLayout,
	"01/02/2006",
}

// ParseDeadline parses a deadline string. It tries the normalized layout,
// then the US locale layout, then a general date parser. The boolean is
// false when no parser accepts the value.
func ParseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if types.IsMissing(s) {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DeriveStatus computes a record's status from its deadline relative to now.
//
// A missing deadline yields incomplete. A deadline before today yields
// expired; today or later yields active. A deadline that cannot be parsed
// yields active with followUp set, so gap-fill revisits it.
func DeriveStatus(deadline string, now time.Time) (status types.Status, followUp bool) {
	if types.IsMissing(deadline) {
		return types.StatusIncomplete, false
	}
	d, ok := ParseDeadline(deadline)
	if !ok {
		return types.StatusActive, true
	}
	if dateOnly(d).Before(dateOnly(now)) {
		return types.StatusExpired, false
	}
	return types.StatusActive, false
}

// ApplyStatus sets r's status and follow-up flag from its deadline.
func ApplyStatus(r *types.Record, now time.Time) {
	status, followUp := DeriveStatus(r.Deadline, now)
	r.SetStatus(status, now)
	r.FollowUp = followUp
}

// NormalizeDeadline rewrites a parseable deadline into the normalized
// layout. Unparseable values are returned unchanged.
func NormalizeDeadline(s string) string {
	d, ok := ParseDeadline(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return d.Format(types.DateLayout)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
