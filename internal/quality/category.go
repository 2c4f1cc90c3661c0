// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"regexp"
	"strings"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "General"

type categoryRule struct {
	name string
	re   *regexp.Regexp
}

// categoryRules are checked in priority order; the first match wins.
var categoryRules = []categoryRule{
	rule("STEM", "stem", "science", "technology", "engineering", "math", "mathematics",
		"computer", "programming", "data", "research", "laboratory", "technical"),
	rule("Medical/Health", "medical", "health", "nursing", "pharmacy", "medicine",
		"healthcare", "doctor", "physician", "dental", "veterinary"),
	rule("Arts & Humanities", "art", "arts", "music", "creative", "design", "visual",
		"performing", "theater", "theatre", "dance", "painting", "sculpture"),
	rule("Business & Economics", "business", "entrepreneurship", "leadership",
		"management", "finance", "marketing", "economics"),
	rule("Diversity & Inclusion", "diversity", "minority", "underrepresented", "hispanic",
		"latino", "african american", "indigenous", "women", "female", "lgbtq"),
	rule("Environmental", "environmental", "sustainability", "climate", "green",
		"conservation", "renewable energy", "ecology"),
}

func rule(name string, keywords ...string) categoryRule {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return categoryRule{
		name: name,
		re:   regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Categorize picks a category from the title and description by keyword.
func Categorize(title, description string) string {
	text := title + " " + description
	for _, r := range categoryRules {
		if r.re.MatchString(text) {
			return r.name
		}
	}
	return DefaultCategory
}

// EnsureCategory assigns a keyword-derived category when r has none.
// It reports whether the category was changed.
func EnsureCategory(r *types.Record) bool {
	if !r.Missing(types.FieldCategory) {
		return false
	}
	r.Category = Categorize(r.Title, r.Description)
	return true
}
