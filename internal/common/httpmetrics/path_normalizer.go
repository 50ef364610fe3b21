package httpmetrics

import (
	"regexp"
	"strings"
)

var uuidRegex = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

var knownPrefixes = []string{"/api/", "/health", "/metrics"}

// NormalizePath maps a request path to a bounded metric label. Ids become
// {param}; paths outside the served prefixes collapse to /unmatched.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	if !hasKnownPrefix(path) {
		return "/unmatched"
	}

	parts := strings.Split(uuidRegex.ReplaceAllString(path, "{id}"), "/")
	for i, part := range parts {
		if part == "{id}" || isNumeric(part) {
			parts[i] = "{param}"
		}
	}

	return strings.Join(parts, "/")
}

func hasKnownPrefix(path string) bool {
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
