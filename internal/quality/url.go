// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"net/url"
	"regexp"
	"strings"
)

var indexPageRe = regexp.MustCompile(`(?i)/index\.(html?|php|aspx?)$`)

// IsGenericURL reports whether u points at a homepage rather than an
// application form: a bare domain, a path ending in "/", or an index page.
// Values that are not http(s) URLs are treated as generic.
func IsGenericURL(raw string) bool {
	if !IsHTTPURL(raw) {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return true
	}
	path := u.EscapedPath()
	switch {
	case path == "" || path == "/":
		return true
	case strings.HasSuffix(path, "/"):
		return true
	case indexPageRe.MatchString(path):
		return true
	}
	return false
}
