package security

import (
	"net/url"
	"regexp"
	"strings"
)

// QuerySanitizer strips operator-injection attempts from list query parameters
type QuerySanitizer struct {
	blockedPatterns []*regexp.Regexp
	listParams      map[string]bool
}

// NewQuerySanitizer creates a new query sanitizer
func NewQuerySanitizer() *QuerySanitizer {
	patterns := []string{
		`\$`,   // raw MongoDB operators ($where, $ne, ...)
		`\.`,   // dotted paths into embedded documents
		`\[\$`, // bracketed operators, e.g. name[$ne]
		`^__`,  // internal fields such as __v
		`(?i)^password$`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}

	return &QuerySanitizer{
		blockedPatterns: compiled,
		listParams:      map[string]bool{"select": true, "sort": true},
	}
}

// Sanitize returns a copy of values without blocked keys, plus the keys it
// dropped. Field names inside select and sort are filtered the same way.
func (s *QuerySanitizer) Sanitize(values url.Values) (url.Values, []string) {
	clean := make(url.Values, len(values))
	var dropped []string

	for key, vals := range values {
		if s.blocked(fieldName(key)) {
			dropped = append(dropped, key)
			continue
		}
		if s.listParams[key] {
			vals = s.filterList(vals, &dropped)
			if len(vals) == 0 {
				continue
			}
		}
		clean[key] = vals
	}

	return clean, dropped
}

func (s *QuerySanitizer) filterList(vals []string, dropped *[]string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		var kept []string
		for _, f := range strings.Split(v, ",") {
			name := strings.TrimLeft(strings.TrimSpace(f), "+-")
			if name == "" {
				continue
			}
			if s.blocked(name) {
				*dropped = append(*dropped, f)
				continue
			}
			kept = append(kept, strings.TrimSpace(f))
		}
		if len(kept) > 0 {
			out = append(out, strings.Join(kept, ","))
		}
	}
	return out
}

func (s *QuerySanitizer) blocked(name string) bool {
	for _, pattern := range s.blockedPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// fieldName strips an operator suffix like "[gte]" but keeps bracketed
// contents that are themselves suspicious.
func fieldName(key string) string {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key
	}
	if strings.Contains(key[open:], "$") {
		return key
	}
	return key[:open]
}
