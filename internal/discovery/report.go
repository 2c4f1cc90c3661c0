// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"fmt"
	"io"
	"strings"

	"github.com/daviddagyei/ai-scholarship-agent/internal/quality"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// WriteReport prints a human-readable account of a run to w.
func WriteReport(w io.Writer, s types.RunSummary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Scholarship discovery report")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Run:        %s\n", s.RunID)
	fmt.Fprintf(w, "Started:    %s\n", s.Timestamp)
	fmt.Fprintf(w, "Criteria:   %s\n", s.SearchCriteria)
	fmt.Fprintf(w, "Duration:   %.1fs\n", s.DurationSeconds)

	if !s.Success {
		fmt.Fprintf(w, "Status:     FAILED\n")
		fmt.Fprintf(w, "Error:      %s\n", s.Error)
		return
	}

	fmt.Fprintf(w, "Pipeline:   %s\n", s.PipelineType)
	fmt.Fprintf(w, "Queries:    %d\n", len(s.Queries))
	fmt.Fprintf(w, "Sources:    %d\n", s.SourcesCount)
	fmt.Fprintf(w, "Discovered: %d\n", s.ScholarshipsDiscovered)
	fmt.Fprintf(w, "Saved:      %d\n", s.ScholarshipsSaved)
	fmt.Fprintf(w, "Skipped:    %d\n", s.ScholarshipsSkipped)
	if s.ScholarshipsDiscovered > 0 {
		rate := 100 * float64(s.ScholarshipsSaved) / float64(s.ScholarshipsDiscovered)
		fmt.Fprintf(w, "Save rate:  %.1f%%\n", rate)
	}
	if q := s.Quality; q != nil && q.Total() > 0 {
		fmt.Fprintf(w, "Quality:    %d high, %d medium, %d low\n", q.High, q.Medium, q.Low)
		fmt.Fprintf(w, "Complete:   %d of %d\n", q.Complete, q.Total())
		if len(q.Missing) > 0 {
			fmt.Fprintf(w, "Missing:    %s\n", missingCounts(q.Missing))
		}
	}
	if s.SaveError != "" {
		fmt.Fprintf(w, "Save error: %s\n", s.SaveError)
	}
	if s.Note != "" {
		fmt.Fprintf(w, "Note:       %s\n", s.Note)
	}

	for i, r := range s.SampleScholarships {
		fmt.Fprintf(w, "\nSample %d: %s\n", i+1, r.Title)
		fmt.Fprintf(w, "  Provider: %s\n", r.Provider)
		fmt.Fprintf(w, "  Amount:   %s\n", r.Amount)
		fmt.Fprintf(w, "  Deadline: %s (%s)\n", r.Deadline, r.Status)
		fmt.Fprintf(w, "  Category: %s\n", r.Category)
		fmt.Fprintf(w, "  Apply:    %s\n", r.ApplicationURL)
		if missing := quality.MissingFields(&r); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, f := range missing {
				names[i] = string(f)
			}
			fmt.Fprintf(w, "  Missing:  %s\n", strings.Join(names, ", "))
		}
	}
}

// missingCounts renders per-field counts in column order.
func missingCounts(m map[types.Field]int) string {
	var parts []string
	for _, f := range types.ContentFields {
		if n := m[f]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", f, n))
		}
	}
	return strings.Join(parts, ", ")
}
