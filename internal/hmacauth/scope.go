package hmacauth

import "strings"

// wildcardPrefix marks a single-segment wildcard in a scope pattern.
const wildcardPrefix = ":"

// ScopeRule is a compiled allow-list of path patterns. A request is in
// scope when any pattern matches its path.
type ScopeRule struct {
	patterns [][]string
}

// CompileScope builds a ScopeRule from slash-separated patterns. A nil
// input returns a nil rule, which keeps every request in scope; an empty
// (non-nil) input yields a rule that matches nothing.
func CompileScope(patterns []string) *ScopeRule {
	if patterns == nil {
		return nil
	}

	rule := &ScopeRule{patterns: make([][]string, 0, len(patterns))}
	for _, pattern := range patterns {
		rule.patterns = append(rule.patterns, SplitPath(pattern))
	}
	return rule
}

// InScope reports whether a request path requires verification.
func (r *ScopeRule) InScope(segments []string) bool {
	if r == nil {
		return true
	}

	for _, pattern := range r.patterns {
		if matchPattern(pattern, segments) {
			return true
		}
	}
	return false
}

// matchPattern compares pattern segments positionally against the path.
// A wildcard segment consumes one path segment and accepts any remainder;
// a literal pattern only matches when it covers the whole path.
func matchPattern(pattern, path []string) bool {
	if len(pattern) > len(path) {
		return false
	}

	for i, segment := range pattern {
		if strings.HasPrefix(segment, wildcardPrefix) {
			return true
		}
		if segment != path[i] {
			return false
		}
	}

	return len(pattern) == len(path)
}

// SplitPath splits a URL path into its non-empty segments.
func SplitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
