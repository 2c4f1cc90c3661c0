// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// gradedFields are counted when grading a record's completeness.
var gradedFields = []types.Field{
	types.FieldTitle,
	types.FieldDescription,
	types.FieldAmount,
	types.FieldDeadline,
	types.FieldProvider,
	types.FieldApplicationURL,
}

// criticalFields must be present for a record to count as complete.
var criticalFields = []types.Field{
	types.FieldTitle,
	types.FieldDescription,
	types.FieldAmount,
	types.FieldDeadline,
	types.FieldProvider,
}

// Grade returns "high" when at least five graded fields are present,
// "medium" for three or four, and "low" otherwise.
func Grade(r *types.Record) string {
	n := 0
	for _, f := range gradedFields {
		if !r.Missing(f) {
			n++
		}
	}
	switch {
	case n >= 5:
		return "high"
	case n >= 3:
		return "medium"
	default:
		return "low"
	}
}

// Report grades every record and tallies the critical fields they lack.
func Report(records []*types.Record) types.QualityReport {
	var q types.QualityReport
	for _, r := range records {
		switch Grade(r) {
		case "high":
			q.High++
		case "medium":
			q.Medium++
		default:
			q.Low++
		}
		if Complete(r) {
			q.Complete++
		}
		for _, f := range MissingFields(r) {
			if q.Missing == nil {
				q.Missing = make(map[types.Field]int)
			}
			q.Missing[f]++
		}
	}
	return q
}

// MissingFields lists the critical fields r lacks.
func MissingFields(r *types.Record) []types.Field {
	var out []types.Field
	for _, f := range criticalFields {
		if r.Missing(f) {
			out = append(out, f)
		}
	}
	return out
}

// Complete reports whether r has every critical field and a usable
// application URL.
func Complete(r *types.Record) bool {
	return len(MissingFields(r)) == 0 && IsHTTPURL(r.ApplicationURL)
}
