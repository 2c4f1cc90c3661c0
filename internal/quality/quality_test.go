// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

var testNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func completeRecord() *types.Record {
	return &types.Record{
		ID:             "rec-1",
		Title:          "Acme Engineering Scholarship",
		Description:    "Awarded to undergraduate engineering students with strong academic records.",
		Amount:         "$5,000",
		Deadline:       "2099-01-01",
		Eligibility:    "Undergraduate, GPA 3.0+",
		Requirements:   "Essay, transcript",
		ApplicationURL: "https://acme.org/scholarships/apply",
		Provider:       "Acme Foundation",
		Category:       "STEM",
	}
}

func TestAcceptableLenient(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.Record)
		want   bool
	}{
		{name: "complete record passes", mutate: func(*types.Record) {}, want: true},
		{name: "missing title", mutate: func(r *types.Record) { r.Title = "" }, want: false},
		{name: "sentinel description", mutate: func(r *types.Record) { r.Description = types.NotAvailable }, want: false},
		{name: "short description", mutate: func(r *types.Record) { r.Description = "Too short to count." }, want: false},
		{name: "sentinel deadline", mutate: func(r *types.Record) { r.Deadline = types.NotAvailable }, want: false},
		{name: "unparseable deadline still passes", mutate: func(r *types.Record) { r.Deadline = "rolling" }, want: true},
		{name: "apply-intent text instead of URL", mutate: func(r *types.Record) { r.ApplicationURL = "Apply through the official website" }, want: true},
		{name: "no apply intent", mutate: func(r *types.Record) { r.ApplicationURL = "contact the office" }, want: false},
		{name: "sentinel application URL", mutate: func(r *types.Record) { r.ApplicationURL = types.NotAvailable }, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := completeRecord()
			tt.mutate(r)
			assert.Equal(t, tt.want, Acceptable(r, testNow, Lenient), Problems(r, testNow, Lenient))
		})
	}
}

func TestAcceptableStrict(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.Record)
		want   bool
	}{
		{name: "complete record passes", mutate: func(*types.Record) {}, want: true},
		{name: "title too short", mutate: func(r *types.Record) { r.Title = "Acme" }, want: false},
		{name: "description too short", mutate: func(r *types.Record) { r.Description = "Short one." }, want: false},
		{name: "twenty character description passes", mutate: func(r *types.Record) { r.Description = strings.Repeat("a", 20) }, want: true},
		{name: "locale date rejected", mutate: func(r *types.Record) { r.Deadline = "01/02/2099" }, want: false},
		{name: "past deadline rejected", mutate: func(r *types.Record) { r.Deadline = "2000-01-01" }, want: false},
		{name: "deadline today passes", mutate: func(r *types.Record) { r.Deadline = "2026-03-15" }, want: true},
		{name: "sentinel provider", mutate: func(r *types.Record) { r.Provider = types.NotAvailable }, want: false},
		{name: "empty provider", mutate: func(r *types.Record) { r.Provider = "  " }, want: false},
		{name: "keyword-only application reference", mutate: func(r *types.Record) { r.ApplicationURL = "apply online" }, want: false},
		{name: "ftp application URL", mutate: func(r *types.Record) { r.ApplicationURL = "ftp://acme.org/form" }, want: false},
		{name: "http application URL", mutate: func(r *types.Record) { r.ApplicationURL = "http://acme.org/form" }, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := completeRecord()
			tt.mutate(r)
			assert.Equal(t, tt.want, Acceptable(r, testNow, Strict), Problems(r, testNow, Strict))
		})
	}
}

func TestStrictSurvivorsMeetFieldMinimums(t *testing.T) {
	inputs := []*types.Record{completeRecord()}
	for _, title := range []string{"", "Tiny", "Long Enough Title"} {
		for _, u := range []string{"", "acme.org/apply", "https://acme.org/apply"} {
			r := completeRecord()
			r.Title = title
			r.ApplicationURL = u
			inputs = append(inputs, r)
		}
	}
	for _, r := range inputs {
		if !Acceptable(r, testNow, Strict) {
			continue
		}
		assert.GreaterOrEqual(t, len(r.Title), 5)
		assert.GreaterOrEqual(t, len(r.Description), 20)
		assert.True(t, strings.HasPrefix(r.ApplicationURL, "http://") || strings.HasPrefix(r.ApplicationURL, "https://"))
		assert.False(t, types.IsMissing(r.Provider))
	}
}

func TestProblemsNilRecord(t *testing.T) {
	assert.NotEmpty(t, Problems(nil, testNow, Strict))
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("https://example.org/apply"))
	assert.True(t, IsHTTPURL(" http://example.org "))
	assert.False(t, IsHTTPURL("example.org/apply"))
	assert.False(t, IsHTTPURL("https://"))
	assert.False(t, IsHTTPURL("https://example.org/has space"))
	assert.False(t, IsHTTPURL(types.NotAvailable))
}
