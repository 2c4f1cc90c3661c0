// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// CriteriaFile is the on-disk list of rotated search criteria. Entries may
// contain {year}.
//
//	variations:
//	  - "STEM scholarships for US undergraduates {year}"
//	  - "nursing scholarships {year}"
type CriteriaFile struct {
	Variations []string `yaml:"variations"`
}

// ReadCriteriaFile loads the criteria rotation from path. Blank entries
// are dropped; a file with none left is an error.
func ReadCriteriaFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading criteria file: %w", err)
	}
	var cf CriteriaFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing criteria file: %w", err)
	}
	var out []string
	for _, v := range cf.Variations {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("criteria file %s has no variations", path)
	}
	return out, nil
}

// WriteCriteriaFile saves vs as a criteria file.
func WriteCriteriaFile(path string, vs []string) error {
	data, err := yaml.Marshal(&CriteriaFile{Variations: vs})
	if err != nil {
		return fmt.Errorf("marshaling criteria file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultVariations returns a copy of the built-in rotation.
func DefaultVariations() []string {
	return append([]string(nil), variations...)
}
