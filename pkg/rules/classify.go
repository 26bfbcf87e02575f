package rules

import (
	"strings"

	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Literal strips every '*' from a pattern. What remains is compared against
// the whole path string.
func Literal(pattern string) string {
	return strings.ReplaceAll(pattern, "*", "")
}

// MatchPattern reports whether path matches pattern under the loose rule:
// the de-wildcarded literal is a suffix of the path or occurs anywhere in it.
// This is not glob matching; "*.key" matches "notes.key.md" too.
func MatchPattern(path, pattern string) bool {
	lit := Literal(pattern)
	return strings.HasSuffix(path, lit) || strings.Contains(path, lit)
}

// Classify returns the first category, in rule order then pattern order,
// with a pattern matching path. ok is false when nothing matches.
func Classify(path string, rules types.PatternRules) (category string, ok bool) {
	for _, cat := range rules {
		for _, pattern := range cat.Patterns {
			if MatchPattern(path, pattern) {
				return cat.Name, true
			}
		}
	}
	return "", false
}
