// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"sync"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// Memory is an in-process sink. It backs dry runs and tests.
type Memory struct {
	mu   sync.Mutex
	rows [][]string
}

// NewMemory returns a Memory sink seeded with rows.
func NewMemory(rows ...[]string) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.rows = append(m.rows, append([]string(nil), r...))
	}
	return m
}

// ExistingTitles implements Sink.
func (m *Memory) ExistingTitles(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		if len(r) > types.TitleColumn {
			titles = append(titles, r[types.TitleColumn])
		}
	}
	return titles, nil
}

// AppendRow implements Sink.
func (m *Memory) AppendRow(_ context.Context, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, append([]string(nil), row...))
	return nil
}

// Rows returns a copy of the stored rows.
func (m *Memory) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
