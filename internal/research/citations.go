// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// shortURLPrefix is the base of the placeholder URLs used inline while
// research text is accumulated. They are swapped for canonical URLs
// before extraction.
const shortURLPrefix = "https://grounding.local/id/"

// shortURLRe matches a whole short URL so that one id is never rewritten
// as the prefix of a longer one.
var shortURLRe = regexp.MustCompile(regexp.QuoteMeta(shortURLPrefix) + `[A-Za-z0-9_-]+`)

// ResolveURLs assigns each distinct page URL in segs a short URL of the
// form <prefix><runID>-<queryIndex>-<n>, in order of first appearance.
func ResolveURLs(segs []Segment, runID string, queryIndex int) map[string]string {
	out := make(map[string]string)
	for _, seg := range segs {
		for _, p := range seg.Sources {
			if p.URL == "" {
				continue
			}
			if _, ok := out[p.URL]; ok {
				continue
			}
			out[p.URL] = fmt.Sprintf("%s%s-%d-%d", shortURLPrefix, runID, queryIndex, len(out))
		}
	}
	return out
}

// Annotate inserts a citation marker " [label](short-url)" after every
// cited segment of res.Text and returns the annotated text with the
// sources it references. Segments are processed from the end of the text
// backwards so earlier offsets stay valid.
func Annotate(res Result, runID string, queryIndex int) (string, []types.Source) {
	short := ResolveURLs(res.Segments, runID, queryIndex)

	segs := make([]Segment, 0, len(res.Segments))
	for _, s := range res.Segments {
		if s.End < 0 || s.End > len(res.Text) || len(s.Sources) == 0 {
			continue
		}
		segs = append(segs, s)
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].End > segs[j].End })

	text := res.Text
	seen := make(map[string]bool)
	var sources []types.Source
	for _, seg := range segs {
		var marker strings.Builder
		for _, p := range seg.Sources {
			s, ok := short[p.URL]
			if !ok {
				continue
			}
			label := sourceLabel(p)
			fmt.Fprintf(&marker, " [%s](%s)", label, s)
			if !seen[s] {
				seen[s] = true
				sources = append(sources, types.Source{Label: label, ShortURL: s, CanonicalURL: p.URL})
			}
		}
		text = text[:seg.End] + marker.String() + text[seg.End:]
	}

	// Sources were collected back to front.
	for i, j := 0, len(sources)-1; i < j; i, j = i+1, j-1 {
		sources[i], sources[j] = sources[j], sources[i]
	}
	return text, sources
}

// Canonicalize replaces every short URL in text with its canonical URL and
// returns only the sources that actually appear in text. Short URLs with
// no matching source are left as they are.
func Canonicalize(text string, sources []types.Source) (string, []types.Source) {
	byShort := make(map[string]types.Source, len(sources))
	for _, s := range sources {
		if s.ShortURL != "" {
			byShort[s.ShortURL] = s
		}
	}

	var used []types.Source
	seen := make(map[string]bool)
	text = shortURLRe.ReplaceAllStringFunc(text, func(m string) string {
		s, ok := byShort[m]
		if !ok {
			return m
		}
		if !seen[s.CanonicalURL] {
			seen[s.CanonicalURL] = true
			used = append(used, s)
		}
		return s.CanonicalURL
	})
	return text, used
}

// sourceLabel is the page's host without a leading "www.", or its title
// when the URL has no host.
func sourceLabel(p Page) string {
	if u, err := url.Parse(p.URL); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	if p.Title != "" {
		return p.Title
	}
	return "source"
}
