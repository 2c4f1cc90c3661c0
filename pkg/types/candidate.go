// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Candidate is one scholarship as returned by the completion service,
// before it becomes a Record. It is the only untyped-to-typed boundary:
// completion output is decoded into Candidate and converted once.
type Candidate struct {
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description" yaml:"description"`
	Amount         string `json:"amount" yaml:"amount"`
	Deadline       string `json:"deadline" yaml:"deadline"`
	Eligibility    string `json:"eligibility" yaml:"eligibility"`
	Requirements   string `json:"requirements" yaml:"requirements"`
	ApplicationURL string `json:"application_url" yaml:"application_url"`
	Provider       string `json:"provider" yaml:"provider"`
	Category       string `json:"category" yaml:"category"`
}

// Get returns the value of content field f.
func (c Candidate) Get(f Field) string {
	switch f {
	case FieldTitle:
		return c.Title
	case FieldDescription:
		return c.Description
	case FieldAmount:
		return c.Amount
	case FieldDeadline:
		return c.Deadline
	case FieldEligibility:
		return c.Eligibility
	case FieldRequirements:
		return c.Requirements
	case FieldApplicationURL:
		return c.ApplicationURL
	case FieldProvider:
		return c.Provider
	case FieldCategory:
		return c.Category
	}
	return ""
}

// Set assigns content field f.
func (c *Candidate) Set(f Field, v string) {
	switch f {
	case FieldTitle:
		c.Title = v
	case FieldDescription:
		c.Description = v
	case FieldAmount:
		c.Amount = v
	case FieldDeadline:
		c.Deadline = v
	case FieldEligibility:
		c.Eligibility = v
	case FieldRequirements:
		c.Requirements = v
	case FieldApplicationURL:
		c.ApplicationURL = v
	case FieldProvider:
		c.Provider = v
	case FieldCategory:
		c.Category = v
	}
}

// ExtractionResult is the structured extraction response: candidates plus
// free-text notes from the extractor.
type ExtractionResult struct {
	Scholarships []Candidate `json:"scholarships" yaml:"scholarships"`
	Notes        string      `json:"extraction_notes" yaml:"extraction_notes"`
}
