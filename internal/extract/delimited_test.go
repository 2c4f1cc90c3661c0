// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		titles []string
		check  func(t *testing.T, got []types.Candidate)
	}{
		{
			name:   "well formed block",
			text:   fallbackText,
			titles: []string{"Bright Futures Engineering Award"},
			check: func(t *testing.T, got []types.Candidate) {
				assert.Equal(t, "$2,500", got[0].Amount)
				assert.Equal(t, "2099-06-30", got[0].Deadline)
				assert.Equal(t, "Bright Futures", got[0].Provider)
			},
		},
		{
			name:   "missing field end marker",
			text:   "SCHOLARSHIP_START\nFIELD_START: Title\nAlpha Award\nFIELD_START: Amount\n$1,000\nFIELD_END\nSCHOLARSHIP_END",
			titles: []string{"Alpha Award"},
			check: func(t *testing.T, got []types.Candidate) {
				assert.Equal(t, "$1,000", got[0].Amount)
				assert.Equal(t, types.NotAvailable, got[0].Description)
			},
		},
		{
			name:   "missing block end marker",
			text:   "SCHOLARSHIP_START\nFIELD_START: Title\nFirst Award\nFIELD_END\nSCHOLARSHIP_START\nFIELD_START: Title\nSecond Award\nFIELD_END\n",
			titles: []string{"First Award", "Second Award"},
		},
		{
			name:   "block without title is dropped",
			text:   "SCHOLARSHIP_START\nFIELD_START: Amount\n$1\nFIELD_END\nSCHOLARSHIP_END\nSCHOLARSHIP_START\nFIELD_START: Title\nNot available\nFIELD_END\nSCHOLARSHIP_END",
			titles: nil,
		},
		{
			name:   "multi-line description and eligibility alias",
			text:   "SCHOLARSHIP_START\nFIELD_START: title\nGamma Grant\nFIELD_END\nFIELD_START: Description\nLine one.\nLine two.\nFIELD_END\nFIELD_START: Eligibility\nSeniors\nFIELD_END\nSCHOLARSHIP_END",
			titles: []string{"Gamma Grant"},
			check: func(t *testing.T, got []types.Candidate) {
				assert.Equal(t, "Line one.\nLine two.", got[0].Description)
				assert.Equal(t, "Seniors", got[0].Eligibility)
			},
		},
		{
			name:   "unknown field ignored",
			text:   "SCHOLARSHIP_START\nFIELD_START: Title\nDelta Prize\nFIELD_END\nFIELD_START: Mascot\nOwl\nFIELD_END\nSCHOLARSHIP_END",
			titles: []string{"Delta Prize"},
		},
		{
			name:   "no blocks",
			text:   "I could not find any scholarships.",
			titles: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDelimited(tt.text)
			var titles []string
			for _, c := range got {
				titles = append(titles, c.Title)
			}
			require.Equal(t, tt.titles, titles)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
