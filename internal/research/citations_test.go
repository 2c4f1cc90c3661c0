// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

func TestResolveURLs(t *testing.T) {
	segs := []Segment{
		{Sources: []Page{{URL: "https://a.org/x"}, {URL: "https://b.org/y"}}},
		{Sources: []Page{{URL: "https://a.org/x"}, {URL: ""}, {URL: "https://c.org"}}},
	}
	got := ResolveURLs(segs, "run1", 2)
	assert.Equal(t, map[string]string{
		"https://a.org/x": shortURLPrefix + "run1-2-0",
		"https://b.org/y": shortURLPrefix + "run1-2-1",
		"https://c.org":   shortURLPrefix + "run1-2-2",
	}, got)
}

func TestAnnotateInsertsMarkersAtSegmentEnds(t *testing.T) {
	text := "Acme offers $5,000. Deadline is March 1."
	res := Result{
		Text: text,
		Segments: []Segment{
			{Start: 0, End: 19, Sources: []Page{{URL: "https://www.acme.org/apply"}}},
			{Start: 20, End: len(text), Sources: []Page{{URL: "https://news.example.com/a"}, {URL: "https://www.acme.org/apply"}}},
		},
	}

	got, sources := Annotate(res, "r", 0)

	short0 := shortURLPrefix + "r-0-0"
	short1 := shortURLPrefix + "r-0-1"
	want := "Acme offers $5,000. [acme.org](" + short0 + ") Deadline is March 1. [example.com](" + short1 + ") [acme.org](" + short0 + ")"
	want = strings.Replace(want, "[example.com]", "[news.example.com]", 1)
	assert.Equal(t, want, got)

	require.Len(t, sources, 2)
	assert.ElementsMatch(t, []string{"https://www.acme.org/apply", "https://news.example.com/a"},
		[]string{sources[0].CanonicalURL, sources[1].CanonicalURL})
}

func TestAnnotateSkipsOutOfRangeSegments(t *testing.T) {
	res := Result{Text: "short", Segments: []Segment{{End: 99, Sources: []Page{{URL: "https://a.org"}}}}}
	got, sources := Annotate(res, "r", 0)
	assert.Equal(t, "short", got)
	assert.Empty(t, sources)
}

func TestCanonicalizeKeepsOnlyReferencedSources(t *testing.T) {
	sources := []types.Source{
		{Label: "a.org", ShortURL: shortURLPrefix + "r-0-0", CanonicalURL: "https://a.org/apply"},
		{Label: "b.org", ShortURL: shortURLPrefix + "r-0-1", CanonicalURL: "https://b.org/info"},
	}
	text := "Apply here [a.org](" + shortURLPrefix + "r-0-0) and again (" + shortURLPrefix + "r-0-0)."

	got, used := Canonicalize(text, sources)
	assert.Equal(t, "Apply here [a.org](https://a.org/apply) and again (https://a.org/apply).", got)
	require.Len(t, used, 1)
	assert.Equal(t, "https://a.org/apply", used[0].CanonicalURL)
}

func TestCanonicalizeManySourcesPerQuery(t *testing.T) {
	var text strings.Builder
	res := Result{}
	for i := 0; i < 12; i++ {
		sentence := fmt.Sprintf("Fact %d.", i)
		text.WriteString(sentence)
		res.Segments = append(res.Segments, Segment{
			Start:   text.Len() - len(sentence),
			End:     text.Len(),
			Sources: []Page{{URL: fmt.Sprintf("https://site%d.org/apply", i)}},
		})
		text.WriteString(" ")
	}
	res.Text = text.String()

	annotated, sources := Annotate(res, "r", 0)
	require.Len(t, sources, 12)

	got, used := Canonicalize(annotated, sources)

	assert.NotContains(t, got, shortURLPrefix)
	for i := 0; i < 12; i++ {
		assert.Contains(t, got, fmt.Sprintf("Fact %d. [site%d.org](https://site%d.org/apply)", i, i, i))
	}
	assert.NotContains(t, got, "apply0")
	assert.NotContains(t, got, "apply1)")
	assert.Len(t, used, 12)
}

func TestCanonicalizeCountsOnlyExactIDs(t *testing.T) {
	sources := []types.Source{
		{Label: "one.org", ShortURL: shortURLPrefix + "r-0-1", CanonicalURL: "https://one.org/apply"},
		{Label: "ten.org", ShortURL: shortURLPrefix + "r-0-10", CanonicalURL: "https://ten.org/apply"},
	}
	text := "Only ten [ten.org](" + shortURLPrefix + "r-0-10)."

	got, used := Canonicalize(text, sources)

	assert.Equal(t, "Only ten [ten.org](https://ten.org/apply).", got)
	require.Len(t, used, 1)
	assert.Equal(t, "https://ten.org/apply", used[0].CanonicalURL)
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "acme.org", sourceLabel(Page{URL: "https://www.acme.org/x"}))
	assert.Equal(t, "Acme", sourceLabel(Page{URL: "not a url", Title: "Acme"}))
	assert.Equal(t, "source", sourceLabel(Page{}))
}
