package parser

import (
	"regexp"
	"strings"

	"github.com/RaphaelManke/wing-test-explorer/internal/domain"
)

// WingParser scrapes the wing CLI's test output. The runner has no
// machine-readable protocol, so both contracts here are best-effort text
// scrapes over the combined stdout+stderr blob.
type WingParser struct{}

// NewWingParser creates a new WingParser
func NewWingParser() *WingParser {
	return &WingParser{}
}

// Verdict lines look like:
//
//	pass ┌ hello.w » test:addition
//	fail ┌ hello.w » test:subtraction
//
// The label is everything after the literal "test:" to end of line.
var verdictPattern = regexp.MustCompile(`(?m)^(pass|fail)\s.*\btest:(.*)$`)

// Box-drawing corner glyphs that close a failure block.
const cornerGlyphs = "└┘┗┛╚╝"

// Verdicts maps each test label in the output to its pass/fail verdict.
// When a label repeats, the last occurrence wins.
func (p *WingParser) Verdicts(output string) map[string]domain.Verdict {
	verdicts := make(map[string]domain.Verdict)
	for _, m := range verdictPattern.FindAllStringSubmatch(output, -1) {
		verdicts[m[2]] = domain.Verdict(m[1])
	}
	return verdicts
}

// FailureExcerpt returns the trimmed text between the first "fail" token and
// the next box-drawing corner glyph. ok is false when no corner glyph follows
// the token; the caller falls back to a generic failure message.
func (p *WingParser) FailureExcerpt(output string) (excerpt string, ok bool) {
	start := strings.Index(output, "fail")
	if start < 0 {
		return "", false
	}
	rest := output[start+len("fail"):]
	corner := strings.IndexAny(rest, cornerGlyphs)
	if corner < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:corner]), true
}
