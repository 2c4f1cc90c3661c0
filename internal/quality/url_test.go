// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGenericURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://acme.org", true},
		{"https://acme.org/", true},
		{"https://acme.org/index.html", true},
		{"https://acme.org/about/index.php", true},
		{"https://acme.org/scholarships/", true},
		{"not a url", true},
		{"https://acme.org/scholarships/apply", false},
		{"https://acme.org/apply?id=7", false},
		{"http://forms.acme.org/application.html", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGenericURL(tt.url))
		})
	}
}
