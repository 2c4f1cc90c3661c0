// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs grounded web research for a single query and
// turns the cited sources into inline citation markers.
package research

import (
	"context"
	"errors"
)

// ErrNoText is returned when the research service produced no summary text.
var ErrNoText = errors.New("research service returned no text")

// Page is one web page cited by a research answer.
type Page struct {
	URL   string
	Title string
}

// Segment is a span of the research text, by byte offsets [Start, End),
// supported by one or more pages.
type Segment struct {
	Start   int
	End     int
	Sources []Page
}

// Result is the research service's answer for one query.
type Result struct {
	Text     string
	Segments []Segment
}

// Searcher abstracts the research service so tests can supply a mock.
type Searcher interface {
	Search(ctx context.Context, query string) (Result, error)
}
