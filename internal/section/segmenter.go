// Package section locates named section ranges (evaluation, schedule, …)
// inside an analyzed document. Heading candidates are ranked by font size
// relative to the document average, bold flag, and keyword match; a range
// opens at the first qualifying heading of the wanted type and closes at the
// next recognized heading of any type.
package section

import (
	"regexp"
	"strings"

	"github.com/KalpKan/Plato/internal/layout"
)

// Type names a recognizable section of a course outline.
type Type string

const (
	TypeEvaluation Type = "evaluation"
	TypeSchedule   Type = "schedule"
	TypeCourseInfo Type = "course_info"
	TypeOutcomes   Type = "learning_outcomes"
	TypePolicies   Type = "policies"
)

// keywords maps each section type to the heading phrases that identify it.
var keywords = map[Type][]string{
	TypeEvaluation: {
		"evaluation", "assessment", "grading", "grade breakdown",
		"methods of evaluation", "course evaluation", "grading scheme",
	},
	TypeSchedule: {
		"schedule", "calendar", "important dates", "key dates",
		"course schedule", "lecture schedule", "timetabled sessions",
	},
	TypeCourseInfo: {
		"course information", "course description", "course details",
		"course overview",
	},
	TypeOutcomes: {
		"learning outcomes", "course objectives", "objectives",
	},
	TypePolicies: {
		"policies", "academic integrity", "accommodations",
	},
}

// Range is a resolved section: a half-open interval [Start, End) of line
// indices into the analyzed document.
type Range struct {
	Type       Type    `json:"type"`
	Heading    string  `json:"heading,omitempty"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`

	// Defaulted is set when no heading was found and the range covers the
	// whole document; extractions from a defaulted range score lower.
	Defaulted bool `json:"defaulted"`
}

// Lines returns the document lines covered by the range.
func (r Range) Lines(doc *layout.Document) []layout.Line {
	if r.Start >= len(doc.Lines) {
		return nil
	}
	end := r.End
	if end > len(doc.Lines) {
		end = len(doc.Lines)
	}
	return doc.Lines[r.Start:end]
}

// Text joins the range's lines.
func (r Range) Text(doc *layout.Document) string {
	lines := r.Lines(doc)
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Text())
	}
	return strings.Join(parts, "\n")
}

// ContainsTable reports whether the table's position falls inside the range.
func (r Range) ContainsTable(doc *layout.Document, t layout.Table) bool {
	if r.Defaulted || len(doc.Lines) == 0 {
		return true
	}
	if r.Start < len(doc.Lines) {
		start := doc.Lines[r.Start]
		if t.Page < start.Page || (t.Page == start.Page && t.Y1 < start.YCenter) {
			return false
		}
	}
	if r.End < len(doc.Lines) {
		end := doc.Lines[r.End]
		if t.Page > end.Page || (t.Page == end.Page && t.Y0 > end.YCenter) {
			return false
		}
	}
	return true
}

// Config controls heading detection.
type Config struct {
	// HeadingFontRatio is the minimum font size, as a multiple of the
	// document average, for a line to qualify as a heading on size alone.
	HeadingFontRatio float64

	// MaxHeadingLength caps heading text length; longer lines are prose.
	MaxHeadingLength int
}

// DefaultConfig returns the segmenter defaults.
func DefaultConfig() Config {
	return Config{
		HeadingFontRatio: 1.2,
		MaxHeadingLength: 120,
	}
}

// Segmenter finds section ranges in an analyzed document.
type Segmenter struct {
	config Config
}

// NewSegmenter creates a segmenter with default configuration.
func NewSegmenter() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration.
func NewSegmenterWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

var numberedHeading = regexp.MustCompile(`^\d+\.?\s+[A-Z]`)

type heading struct {
	line  int
	typ   Type
	text  string
	known bool
}

// Segment returns the range for the wanted section type. When no qualifying
// heading exists, the whole document is returned with Defaulted set and a
// reduced confidence, so downstream extraction can flag its results.
func (s *Segmenter) Segment(doc *layout.Document, want Type) Range {
	headings := s.findHeadings(doc)

	for i, h := range headings {
		if h.typ != want {
			continue
		}
		end := len(doc.Lines)
		for _, next := range headings[i+1:] {
			if next.known {
				end = next.line
				break
			}
		}
		return Range{
			Type:       want,
			Heading:    h.text,
			Start:      h.line,
			End:        end,
			Confidence: 0.8,
		}
	}

	return Range{
		Type:       want,
		Start:      0,
		End:        len(doc.Lines),
		Confidence: 0.5,
		Defaulted:  true,
	}
}

// findHeadings collects all heading candidates in reading order.
func (s *Segmenter) findHeadings(doc *layout.Document) []heading {
	avg := doc.AverageFontSize()
	var found []heading

	for i, line := range doc.Lines {
		text := strings.TrimSpace(line.Text())
		if text == "" || len(text) > s.config.MaxHeadingLength {
			continue
		}

		typ, known := classify(text)

		large := line.MaxFontSize() >= avg*s.config.HeadingFontRatio
		numbered := numberedHeading.MatchString(text)
		if !large && !line.HasBold() && !numbered && !known {
			continue
		}

		found = append(found, heading{line: i, typ: typ, text: text, known: known})
	}

	return found
}

// classify matches heading text against the keyword dictionary.
func classify(text string) (Type, bool) {
	lower := strings.ToLower(text)
	for _, typ := range []Type{TypeEvaluation, TypeSchedule, TypeCourseInfo, TypeOutcomes, TypePolicies} {
		for _, kw := range keywords[typ] {
			if strings.Contains(lower, kw) {
				return typ, true
			}
		}
	}
	return "", false
}
