// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

func TestCriteriaRotatesByWeekday(t *testing.T) {
	monday := time.Date(2026, 3, 16, 2, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 7; i++ {
		c := Criteria(monday.AddDate(0, 0, i))
		assert.Contains(t, c, "2026")
		assert.NotContains(t, c, "{year}")
		seen[c] = true
	}
	assert.Len(t, seen, 7)
	assert.Equal(t, Criteria(monday), Criteria(monday.AddDate(0, 0, 7)))
	assert.Contains(t, Criteria(monday), "new US scholarships and financial aid")
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("every tuesday", nil, nil)
	assert.Error(t, err)
}

func TestNewDefaultSpec(t *testing.T) {
	s, err := New("", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultScheduleSpec, s.spec)
}

func TestRunOnce(t *testing.T) {
	var got string
	var done types.RunSummary
	s, err := New("@daily", func(_ context.Context, criteria string) types.RunSummary {
		got = criteria
		return types.RunSummary{Success: true, ScholarshipsSaved: 2}
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	now := time.Date(2026, 3, 17, 2, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }
	s.OnDone = func(rs types.RunSummary) { done = rs }

	sum := s.RunOnce(context.Background())

	assert.Equal(t, Criteria(now), got)
	assert.Equal(t, 2, sum.ScholarshipsSaved)
	assert.Equal(t, sum, done)
}

func TestStartFiresAndStops(t *testing.T) {
	var runs atomic.Int32
	fired := make(chan struct{}, 1)
	s, err := New("@every 1s", func(context.Context, string) types.RunSummary {
		if runs.Add(1) == 1 {
			fired <- struct{}{}
		}
		panic("recovered by the cron chain")
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Next().IsZero())

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not fire")
	}
	<-s.Stop().Done()
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}
