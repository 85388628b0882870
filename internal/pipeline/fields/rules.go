package fields

import (
	"regexp"
	"strings"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

// The extractor is a catalogue of four rule shapes applied over plain text:
// presence tests, capture tests, list tests and graded tests. All patterns
// are case-insensitive and treat whitespace runs as a single separator, since
// recognized text often has garbled spacing.

const maxEvidenceLen = 120

// grade pairs a pattern with the value it assigns. Graded batteries are
// declared most severe first, so the winning grade is always the most severe
// one that matched anywhere in the text, not the first textual occurrence.
type grade struct {
	pattern    *regexp.Regexp
	value      string
	confidence docModel.Confidence
}

func presence(re *regexp.Regexp, text string) docModel.Flag {
	match := re.FindString(text)
	if match == "" {
		return docModel.Flag{}
	}
	return docModel.Flag{
		State:      docModel.FlagPresent,
		Evidence:   excerpt(match),
		Confidence: docModel.ConfidenceHigh,
	}
}

// capture returns the first capture group of the first match, trimmed.
// Patterns with alternating groups yield whichever group matched.
func capture(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

// list collects all non-overlapping matches (first capture group when the
// pattern has one), deduplicated preserving first-seen order.
func list(re *regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		val := m[0]
		if len(m) > 1 && m[1] != "" {
			val = m[1]
		}
		val = strings.TrimSpace(val)
		if val == "" || seen[val] {
			continue
		}
		seen[val] = true
		out = append(out, val)
	}
	return out
}

func graded(grades []grade, text string) docModel.GradedLeaf {
	for _, g := range grades {
		if match := g.pattern.FindString(text); match != "" {
			return docModel.GradedLeaf{
				Grade:      g.value,
				Evidence:   excerpt(match),
				Confidence: g.confidence,
			}
		}
	}
	return docModel.GradedLeaf{}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func excerpt(s string) string {
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	if len(s) > maxEvidenceLen {
		s = s[:maxEvidenceLen]
	}
	return s
}
