package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters source files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters files by name pattern using wildcard matching.
// Supports patterns like "*math.w" or "*calc*"; a pattern without wildcards
// is a substring match.
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	var filtered []string
	for _, file := range files {
		if f.matches(filepath.Base(file), pattern) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

func (f *Filter) matches(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// Fall back to a looser match for patterns like "*calc*": every
	// non-wildcard fragment must appear in the name.
	parts := strings.Split(pattern, "*")
	seen := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		seen = true
		if !strings.Contains(name, part) {
			return false
		}
	}
	return seen
}
