// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		title, desc string
		want        string
	}{
		{"stem keyword", "Future Engineers Award", "For students in engineering programs.", "STEM"},
		{"stem outranks diversity", "Women in Computer Science", "Supports women pursuing computer degrees.", "STEM"},
		{"medical", "Nursing Excellence Grant", "For nursing students.", "Medical/Health"},
		{"medical outranks arts", "Dental Design Prize", "For dental students.", "Medical/Health"},
		{"arts", "Young Musicians Fund", "Supports music students.", "Arts & Humanities"},
		{"business", "Entrepreneurship Award", "For student founders.", "Business & Economics"},
		{"diversity", "Hispanic Scholars Fund", "Supports Latino students.", "Diversity & Inclusion"},
		{"multi-word keyword", "Heritage Award", "For African American students.", "Diversity & Inclusion"},
		{"environmental", "Climate Leaders", "For students working on climate solutions.", "Environmental"},
		{"substring does not match", "Partial Tuition Department Award", "Start your journey.", DefaultCategory},
		{"no keyword", "Hometown Award", "For local students.", DefaultCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.desc))
		})
	}
}

func TestEnsureCategory(t *testing.T) {
	r := &types.Record{Title: "Robotics Award", Description: "For technology students.", Category: types.NotAvailable}
	assert.True(t, EnsureCategory(r))
	assert.Equal(t, "STEM", r.Category)

	r.Category = "Custom"
	assert.False(t, EnsureCategory(r))
	assert.Equal(t, "Custom", r.Category)
}
