// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records, collections, and run summaries shared
// across the discovery pipeline.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotAvailable marks a field that was looked for and not found. It is
// distinct from the empty string, which means the field was never set.
const NotAvailable = "Not available"

// DateLayout is the normalized calendar format for deadlines.
const DateLayout = "2006-01-02"

// Producer identifies the process that creates and modifies records.
const Producer = "scholarship-agent"

// Status is the lifecycle state of a record, derived from its deadline.
type Status string

const (
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
	StatusIncomplete Status = "incomplete"
	StatusDraft      Status = "draft"
)

// Field names one of the nine content fields of a Record.
type Field string

const (
	FieldTitle          Field = "title"
	FieldDescription    Field = "description"
	FieldAmount         Field = "amount"
	FieldDeadline       Field = "deadline"
	FieldEligibility    Field = "eligibility"
	FieldRequirements   Field = "requirements"
	FieldApplicationURL Field = "application_url"
	FieldProvider       Field = "provider"
	FieldCategory       Field = "category"
)

// ContentFields lists the content fields in column order.
var ContentFields = []Field{
	FieldTitle, FieldDescription, FieldAmount, FieldDeadline, FieldEligibility,
	FieldRequirements, FieldApplicationURL, FieldProvider, FieldCategory,
}

// fieldMaxLen bounds each content field. Longer values are cut on assignment.
var fieldMaxLen = map[Field]int{
	FieldTitle:          200,
	FieldDescription:    2000,
	FieldAmount:         100,
	FieldDeadline:       40,
	FieldEligibility:    1000,
	FieldRequirements:   1000,
	FieldApplicationURL: 2048,
	FieldProvider:       200,
	FieldCategory:       60,
}

// MaxLen returns the maximum accepted length for f.
func MaxLen(f Field) int {
	return fieldMaxLen[f]
}

// Record is one discovered scholarship offer.
type Record struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Description    string    `json:"description" yaml:"description"`
	Amount         string    `json:"amount" yaml:"amount"`
	Deadline       string    `json:"deadline" yaml:"deadline"`
	Eligibility    string    `json:"eligibility" yaml:"eligibility"`
	Requirements   string    `json:"requirements" yaml:"requirements"`
	ApplicationURL string    `json:"application_url" yaml:"application_url"`
	Provider       string    `json:"provider" yaml:"provider"`
	Category       string    `json:"category" yaml:"category"`
	Status         Status    `json:"status" yaml:"status"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	ModifiedAt     time.Time `json:"modified_at" yaml:"modified_at"`
	CreatedBy      string    `json:"created_by" yaml:"created_by"`
	ModifiedBy     string    `json:"modified_by" yaml:"modified_by"`

	// FollowUp is set when the deadline could not be parsed and the
	// record should be revisited by gap-fill.
	FollowUp bool `json:"follow_up,omitempty" yaml:"follow_up,omitempty"`
}

// NewRecord creates a draft record with a fresh ID and creation metadata.
// Fields are taken from c; empty values are left empty.
func NewRecord(c Candidate, now time.Time) *Record {
	r := &Record{
		ID:         uuid.NewString(),
		Status:     StatusDraft,
		CreatedAt:  now.UTC(),
		ModifiedAt: now.UTC(),
		CreatedBy:  Producer,
		ModifiedBy: Producer,
	}
	for _, f := range ContentFields {
		r.assign(f, c.Get(f))
	}
	return r
}

// Get returns the value of content field f.
func (r *Record) Get(f Field) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldDescription:
		return r.Description
	case FieldAmount:
		return r.Amount
	case FieldDeadline:
		return r.Deadline
	case FieldEligibility:
		return r.Eligibility
	case FieldRequirements:
		return r.Requirements
	case FieldApplicationURL:
		return r.ApplicationURL
	case FieldProvider:
		return r.Provider
	case FieldCategory:
		return r.Category
	}
	return ""
}

// Set assigns content field f and bumps ModifiedAt when the value changes.
// It reports whether the record changed.
func (r *Record) Set(f Field, value string, now time.Time) bool {
	value = clip(f, strings.TrimSpace(value))
	if r.Get(f) == value {
		return false
	}
	r.assign(f, value)
	r.touch(now)
	return true
}

// SetStatus updates the status and bumps ModifiedAt when it changes.
func (r *Record) SetStatus(s Status, now time.Time) {
	if r.Status == s {
		return
	}
	r.Status = s
	r.touch(now)
}

func (r *Record) touch(now time.Time) {
	r.ModifiedAt = now.UTC()
	r.ModifiedBy = Producer
}

func (r *Record) assign(f Field, value string) {
	value = clip(f, strings.TrimSpace(value))
	switch f {
	case FieldTitle:
		r.Title = value
	case FieldDescription:
		r.Description = value
	case FieldAmount:
		r.Amount = value
	case FieldDeadline:
		r.Deadline = value
	case FieldEligibility:
		r.Eligibility = value
	case FieldRequirements:
		r.Requirements = value
	case FieldApplicationURL:
		r.ApplicationURL = value
	case FieldProvider:
		r.Provider = value
	case FieldCategory:
		r.Category = value
	}
}

func clip(f Field, value string) string {
	n, ok := fieldMaxLen[f]
	if !ok || len([]rune(value)) <= n {
		return value
	}
	return string([]rune(value)[:n])
}

// Missing reports whether f is empty or holds the sentinel.
func (r *Record) Missing(f Field) bool {
	return IsMissing(r.Get(f))
}

// IsMissing reports whether v is empty or the NotAvailable sentinel.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, NotAvailable)
}

// ColumnHeaders names the fifteen persisted columns in order.
var ColumnHeaders = []string{
	"ID", "Title", "Description", "Amount", "Deadline", "Eligibility",
	"Requirements", "Application URL", "Provider", "Category", "Status",
	"Created At", "Modified At", "Created By", "Modified By",
}

// TitleColumn is the zero-based index of the title in a persisted row.
const TitleColumn = 1

// Row returns the fifteen ordered column values persisted for r.
func (r *Record) Row() []string {
	return []string{
		r.ID,
		r.Title,
		r.Description,
		r.Amount,
		r.Deadline,
		r.Eligibility,
		r.Requirements,
		r.ApplicationURL,
		r.Provider,
		r.Category,
		string(r.Status),
		r.CreatedAt.Format(time.RFC3339),
		r.ModifiedAt.Format(time.RFC3339),
		r.CreatedBy,
		r.ModifiedBy,
	}
}

// Collection is the ordered set of records produced by one run plus
// free-form run metadata.
type Collection struct {
	Records  []*Record          `json:"records" yaml:"records"`
	Metadata CollectionMetadata `json:"metadata" yaml:"metadata"`
}

// CollectionMetadata records the queries issued and sources cited in a run.
type CollectionMetadata struct {
	Queries []string `json:"queries,omitempty" yaml:"queries,omitempty"`
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Source is a resolved citation: a short URL used inline during research
// and the canonical URL it stands for.
type Source struct {
	Label        string `json:"label" yaml:"label"`
	ShortURL     string `json:"short_url" yaml:"short_url"`
	CanonicalURL string `json:"canonical_url" yaml:"canonical_url"`
}

// Add appends r to the collection.
func (c *Collection) Add(r *Record) {
	c.Records = append(c.Records, r)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.Records)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := Collection{
		Records: make([]*Record, len(c.Records)),
		Metadata: CollectionMetadata{
			Queries: append([]string(nil), c.Metadata.Queries...),
			Sources: append([]Source(nil), c.Metadata.Sources...),
		},
	}
	for i, r := range c.Records {
		out.Records[i] = r.Clone()
	}
	return out
}
