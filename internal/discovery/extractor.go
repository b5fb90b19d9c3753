package discovery

import (
	"regexp"
	"strings"

	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// Extractor locates test declarations in source text. It is not a language
// parser: it only recognizes the declaration pattern and does not validate
// the surrounding syntax.
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Matches declarations of the shape `test "<name>" { ... }`. The name must
// be non-empty and may contain any character except a double quote; an empty
// name would collide with the owning file's identity. The body must not
// contain a closing brace, so nested blocks are not supported.
var testDeclPattern = regexp.MustCompile(`test\s+"([^"]+)"\s*\{[^}]*\}`)

// Extract returns the test declarations found in text, in source order.
// The declaration line is computed from the match byte offset, and the
// returned range spans the full width of that line (0-based). Zero matches
// yield an empty slice; the caller marks the file as having no tests.
func (e *Extractor) Extract(text string) []domain.TestDecl {
	matches := testDeclPattern.FindAllStringSubmatchIndex(text, -1)
	decls := make([]domain.TestDecl, 0, len(matches))

	for _, m := range matches {
		name := text[m[2]:m[3]]
		line := strings.Count(text[:m[0]], "\n")
		decls = append(decls, domain.TestDecl{
			Name:  name,
			Range: lineRange(text, line),
		})
	}
	return decls
}

// lineRange returns a range covering the full width of the given 0-based
// line.
func lineRange(text string, line int) domain.Range {
	start := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			break
		}
		start += nl + 1
	}
	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		end = len(text) - start
	}
	return domain.Range{
		Start: domain.Position{Line: line, Column: 0},
		End:   domain.Position{Line: line, Column: end},
	}
}
