// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

const (
	blockStart = "SCHOLARSHIP_START"
	blockEnd   = "SCHOLARSHIP_END"
	fieldStart = "FIELD_START:"
	fieldEnd   = "FIELD_END"
)

// fieldNames maps the lower-cased marker names to record fields.
var fieldNames = map[string]types.Field{
	"title":                types.FieldTitle,
	"description":          types.FieldDescription,
	"amount":               types.FieldAmount,
	"deadline":             types.FieldDeadline,
	"eligibility criteria": types.FieldEligibility,
	"eligibility":          types.FieldEligibility,
	"requirements":         types.FieldRequirements,
	"application url":      types.FieldApplicationURL,
	"provider":             types.FieldProvider,
	"category":             types.FieldCategory,
}

// ParseDelimited reads SCHOLARSHIP_START/SCHOLARSHIP_END blocks made of
// FIELD_START/FIELD_END sections. It tolerates missing end markers: a new
// FIELD_START closes the open field and a new SCHOLARSHIP_START closes the
// open block. Fields absent from a block are set to the NotAvailable
// sentinel. A block without a usable title is dropped.
func ParseDelimited(text string) []types.Candidate {
	p := &delimitedParser{}
	for _, line := range strings.Split(text, "\n") {
		p.line(strings.TrimRight(line, "\r"))
	}
	p.closeBlock()
	return p.out
}

type delimitedParser struct {
	out     []types.Candidate
	inBlock bool
	fields  map[types.Field]string
	field   types.Field
	inField bool
	known   bool
	buf     []string
}

func (p *delimitedParser) line(line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == blockStart:
		p.closeBlock()
		p.inBlock = true
		p.fields = make(map[types.Field]string)
	case trimmed == blockEnd:
		p.closeBlock()
	case !p.inBlock:
		// Prose outside blocks is ignored.
	case strings.HasPrefix(trimmed, fieldStart):
		p.closeField()
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, fieldStart)))
		p.field, p.known = fieldNames[name]
		p.inField = true
	case trimmed == fieldEnd:
		p.closeField()
	case p.inField:
		p.buf = append(p.buf, line)
	}
}

func (p *delimitedParser) closeField() {
	if p.inField && p.known {
		value := strings.TrimSpace(strings.Join(p.buf, "\n"))
		if _, dup := p.fields[p.field]; !dup && value != "" {
			p.fields[p.field] = value
		}
	}
	p.inField = false
	p.known = false
	p.buf = nil
}

func (p *delimitedParser) closeBlock() {
	if !p.inBlock {
		return
	}
	p.closeField()
	p.inBlock = false

	if types.IsMissing(p.fields[types.FieldTitle]) {
		return
	}
	var c types.Candidate
	for _, f := range types.ContentFields {
		v, ok := p.fields[f]
		if !ok {
			v = types.NotAvailable
		}
		c.Set(f, v)
	}
	p.out = append(p.out, c)
}
