// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gapfill

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/daviddagyei/ai-scholarship-agent/internal/research"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// mockSearcher answers by the first record title found in the query.
type mockSearcher struct {
	answers map[string]research.Result
	errs    map[string]error
	queries []string
}

func (m *mockSearcher) Search(_ context.Context, query string) (research.Result, error) {
	m.queries = append(m.queries, query)
	for title, err := range m.errs {
		if strings.Contains(query, title) {
			return research.Result{}, err
		}
	}
	for title, res := range m.answers {
		if strings.Contains(query, title) {
			return res, nil
		}
	}
	return research.Result{}, nil
}

func record(title string) *types.Record {
	r := types.NewRecord(types.Candidate{
		Title:          title,
		Description:    "A scholarship for engineering students at US universities.",
		Amount:         "$1,000",
		Deadline:       "2099-01-01",
		ApplicationURL: "https://example.org/" + strings.ToLower(strings.ReplaceAll(title, " ", "-")) + "/apply",
		Provider:       "Example Fund",
	}, testNow.Add(-time.Hour))
	r.Status = types.StatusActive
	return r
}

func TestFillCompleteRecordUntouched(t *testing.T) {
	r := record("Complete Award")
	before := *r
	s := &mockSearcher{}
	sum := New(s, zaptest.NewLogger(t)).Fill(context.Background(), []*types.Record{r}, testNow)

	assert.Empty(t, s.queries)
	assert.Zero(t, sum.Searches())
	assert.Equal(t, before, *r)
}

func TestFillDetails(t *testing.T) {
	r := record("Alpha Award")
	r.Amount = types.NotAvailable
	r.Deadline = types.NotAvailable
	r.ApplicationURL = "Apply on the official website"

	s := &mockSearcher{answers: map[string]research.Result{
		"Alpha Award": {Text: "The Alpha Award grants up to $7,500. Apply by 2099-04-30 at https://alpha.org/ or https://alpha.org/scholarship/apply."},
	}}
	sum := New(s, zaptest.NewLogger(t)).Fill(context.Background(), []*types.Record{r}, testNow)

	assert.Equal(t, "Up to $7,500", r.Amount)
	assert.Equal(t, "2099-04-30", r.Deadline)
	assert.Equal(t, "https://alpha.org/scholarship/apply", r.ApplicationURL)
	assert.Equal(t, types.StatusActive, r.Status)
	assert.Equal(t, testNow, r.ModifiedAt)
	assert.Equal(t, 1, sum.Details.Updated)
	assert.Zero(t, sum.Details.Rejected)
	assert.Zero(t, sum.URL.Attempted, "URL pass should have nothing left to do")
	require.NotEmpty(t, s.queries)
	assert.Equal(t, `"Alpha Award" Example Fund application form deadline amount 2026`, s.queries[0])
}

func TestFillNeverUsesGenericURL(t *testing.T) {
	r := record("Beta Award")
	r.ApplicationURL = types.NotAvailable
	s := &mockSearcher{answers: map[string]research.Result{
		"Beta Award": {Text: "Visit https://beta.org/ or https://beta.org/index.html or https://beta.org"},
	}}
	sum := New(s, nil).Fill(context.Background(), []*types.Record{r}, testNow)

	assert.Equal(t, types.NotAvailable, r.ApplicationURL)
	assert.Zero(t, sum.Details.Updated+sum.URL.Updated)
	assert.Positive(t, sum.URL.Rejected)
}

func TestFillURLPassUsesCitedSources(t *testing.T) {
	r := record("Gamma Grant")
	r.ApplicationURL = "https://gamma.org/"
	s := &mockSearcher{answers: map[string]research.Result{
		"Gamma Grant": {
			Text:     "The grant opens each fall.",
			Segments: []research.Segment{{End: 5, Sources: []research.Page{{URL: "https://gamma.org/forms/application"}}}},
		},
	}}
	New(s, nil).Fill(context.Background(), []*types.Record{r}, testNow)
	assert.Equal(t, "https://gamma.org/forms/application", r.ApplicationURL)
}

func TestFillIsolatesFailures(t *testing.T) {
	bad := record("Broken Award")
	bad.Amount = types.NotAvailable
	good := record("Delta Award")
	good.Amount = types.NotAvailable
	before := *bad

	s := &mockSearcher{
		errs:    map[string]error{"Broken Award": errors.New("timeout")},
		answers: map[string]research.Result{"Delta Award": {Text: "Award: $2,000."}},
	}
	sum := New(s, zaptest.NewLogger(t)).Fill(context.Background(), []*types.Record{bad, good}, testNow)

	assert.Equal(t, before, *bad)
	assert.Equal(t, "$2,000", good.Amount)
	assert.Equal(t, 1, sum.Details.Failed)
	assert.Equal(t, 1, sum.Details.Updated)
}

func TestFillRespectsLimits(t *testing.T) {
	var records []*types.Record
	for _, title := range []string{"A1 Award", "A2 Award", "A3 Award", "A4 Award", "A5 Award", "A6 Award", "A7 Award"} {
		r := record(title)
		r.ApplicationURL = types.NotAvailable
		records = append(records, r)
	}
	s := &mockSearcher{}
	sum := New(s, nil).Fill(context.Background(), records, testNow)

	assert.Equal(t, DefaultDetailsLimit, sum.Details.Attempted)
	assert.Equal(t, DefaultURLLimit, sum.URL.Attempted)
	assert.Len(t, s.queries, DefaultDetailsLimit+DefaultURLLimit)
	assert.Equal(t, `"A1 Award" "Example Fund" application form apply online 2026`, s.queries[DefaultDetailsLimit])
}

func TestFillResolvesFollowUpDeadline(t *testing.T) {
	r := record("Epsilon Prize")
	r.Deadline = "rolling"
	r.FollowUp = true
	s := &mockSearcher{answers: map[string]research.Result{"Epsilon Prize": {Text: "Applications close June 1, 2099."}}}
	New(s, nil).Fill(context.Background(), []*types.Record{r}, testNow)

	assert.Equal(t, "2099-06-01", r.Deadline)
	assert.False(t, r.FollowUp)
}

func TestQueriesOmitMissingProvider(t *testing.T) {
	r := record("Zeta Award")
	r.Provider = types.NotAvailable
	assert.Equal(t, `"Zeta Award" application form deadline amount 2026`, DetailsQuery(r, testNow))
	assert.Equal(t, `"Zeta Award" application form apply online 2026`, URLQuery(r, testNow))
}
