// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"github.com/daviddagyei/ai-scholarship-agent/internal/extract"
	"github.com/daviddagyei/ai-scholarship-agent/internal/gapfill"
	"github.com/daviddagyei/ai-scholarship-agent/internal/reflector"
	"github.com/daviddagyei/ai-scholarship-agent/internal/sink"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// State names a step of a discovery run.
type State string

const (
	StateGenerateQueries State = "generate_queries"
	StateResearch        State = "research"
	StateReflect         State = "reflect"
	StateExtract         State = "extract"
	StateGapFill         State = "gap_fill"
	StatePersist         State = "persist"
	StateDone            State = "done"
)

// RunState is the working state of one run. Transitions return a new
// RunState and never modify the receiver's slices, so a snapshot taken
// at any step stays valid.
type RunState struct {
	RunID string
	Topic string
	State State

	// Queries holds every query issued so far; Pending those not yet researched.
	Queries []string
	Pending []string
	// Results holds one annotated research text per successful query.
	Results []string
	Sources []types.Source
	// Failed counts research queries that returned no usable text.
	Failed   int
	Loops    int
	Verdicts []reflector.Verdict

	Collection types.Collection
	// UsedSources are the sources cited in the corpus handed to extraction.
	UsedSources []types.Source
	Extraction  extract.Outcome
	Rejected    int
	GapFill     gapfill.Summary

	Persisted  sink.Result
	PersistErr error
}

// NewRunState returns the initial state for topic.
func NewRunState(runID, topic string) RunState {
	return RunState{RunID: runID, Topic: topic, State: StateGenerateQueries}
}

func (s RunState) enter(st State) RunState {
	s.State = st
	return s
}

func (s RunState) withPending(queries []string) RunState {
	s.Pending = append([]string(nil), queries...)
	return s
}

// withQueryIssued records q as issued and removes it from Pending.
func (s RunState) withQueryIssued(q string) RunState {
	s.Queries = appendCopy(s.Queries, q)
	if len(s.Pending) > 0 && s.Pending[0] == q {
		s.Pending = append([]string(nil), s.Pending[1:]...)
	}
	return s
}

func (s RunState) withResult(text string, sources []types.Source) RunState {
	s.Results = appendCopy(s.Results, text)
	s.Sources = appendCopy(s.Sources, sources...)
	return s
}

func (s RunState) withFailure() RunState {
	s.Failed++
	return s
}

func (s RunState) withLoopDone() RunState {
	s.Loops++
	return s
}

func (s RunState) withVerdict(v reflector.Verdict) RunState {
	s.Verdicts = appendCopy(s.Verdicts, v)
	return s
}

func (s RunState) withExtraction(out extract.Outcome, used []types.Source, c types.Collection, rejected int) RunState {
	s.Extraction = out
	s.UsedSources = append([]types.Source(nil), used...)
	s.Collection = c
	s.Rejected = rejected
	return s
}

func (s RunState) withGapFill(c types.Collection, sum gapfill.Summary) RunState {
	s.Collection = c
	s.GapFill = sum
	return s
}

func (s RunState) withPersisted(res sink.Result, err error) RunState {
	s.Persisted = res
	s.PersistErr = err
	return s
}

func appendCopy[T any](s []T, v ...T) []T {
	out := make([]T, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}
