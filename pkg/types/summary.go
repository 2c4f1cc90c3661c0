// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RunSummary is the result of one discovery run. A run always yields a
// summary; failures set Success to false and carry Error.
type RunSummary struct {
	Success                bool           `json:"success" yaml:"success"`
	RunID                  string         `json:"run_id" yaml:"run_id"`
	ScholarshipsDiscovered int            `json:"scholarships_discovered" yaml:"scholarships_discovered"`
	ScholarshipsSaved      int            `json:"scholarships_saved" yaml:"scholarships_saved"`
	ScholarshipsSkipped    int            `json:"scholarships_skipped" yaml:"scholarships_skipped"`
	SearchCriteria         string         `json:"search_criteria" yaml:"search_criteria"`
	Timestamp              string         `json:"timestamp" yaml:"timestamp"`
	DurationSeconds        float64        `json:"duration_seconds" yaml:"duration_seconds"`
	SourcesCount           int            `json:"sources_count" yaml:"sources_count"`
	SampleScholarships     []Record       `json:"sample_scholarships,omitempty" yaml:"sample_scholarships,omitempty"`
	Queries                []string       `json:"queries,omitempty" yaml:"queries,omitempty"`
	PipelineType           string         `json:"pipeline_type,omitempty" yaml:"pipeline_type,omitempty"`
	Quality                *QualityReport `json:"quality,omitempty" yaml:"quality,omitempty"`
	SaveError              string         `json:"save_error,omitempty" yaml:"save_error,omitempty"`
	Note                   string         `json:"note,omitempty" yaml:"note,omitempty"`
	Error                  string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// QualityReport buckets discovered records by how many critical fields
// they carry. Complete counts records with every critical field and a
// usable application URL; Missing counts absent critical fields by name.
type QualityReport struct {
	High     int           `json:"high" yaml:"high"`
	Medium   int           `json:"medium" yaml:"medium"`
	Low      int           `json:"low" yaml:"low"`
	Complete int           `json:"complete" yaml:"complete"`
	Missing  map[Field]int `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Total returns the number of records graded.
func (q QualityReport) Total() int {
	return q.High + q.Medium + q.Low
}
