// Package assessment extracts graded items from an analyzed course outline.
// The pipeline runs in three passes tuned for different failure modes:
// candidate generation (recall), policy filtering and scoring (precision),
// and constrained selection (over-extraction repair).
package assessment

import (
	"regexp"
	"strings"

	"github.com/KalpKan/Plato/internal/model"
)

// Origin records which extraction path produced a candidate.
type Origin string

const (
	OriginTable              Origin = "table"
	OriginReconstructedTable Origin = "reconstructed_table"
	OriginText               Origin = "text"
)

// Candidate is a possible graded item with its scoring metadata. Candidates
// are over-generated and then filtered, scored, and selected.
type Candidate struct {
	Title   string           `json:"title"`
	Weight  *float64         `json:"weight,omitempty"`
	DueDate *model.Date      `json:"due_date,omitempty"`
	DueTime *model.ClockTime `json:"due_time,omitempty"`
	DueRule string           `json:"due_rule,omitempty"`

	Origin    Origin `json:"origin"`
	Page      int    `json:"page"`
	Evidence  string `json:"evidence"`
	FormatRaw string `json:"format_raw,omitempty"`

	Score           float64 `json:"score"`
	Bonus           bool    `json:"bonus"`
	RejectionReason string  `json:"rejection_reason,omitempty"`

	HasAssessmentNoun   bool `json:"has_assessment_noun"`
	InEvaluationSection bool `json:"in_evaluation_section"`
	InTable             bool `json:"in_table"`
	LooksLikeTitle      bool `json:"looks_like_title"`
}

// HasWeight reports whether the candidate carries a weight in (0, 100].
func (c *Candidate) HasWeight() bool {
	return c.Weight != nil && *c.Weight > 0 && *c.Weight <= 100
}

var titleDigits = regexp.MustCompile(`\d+`)
var inClassPrefix = regexp.MustCompile(`^in[\s\-]class\s+`)

// NormalizeTitle reduces a title to its comparison form: lowercased, the
// "in-class" prefix stripped, and digit runs collapsed to "#" so
// "Assignment 1" and "Assignment 2" compare equal.
func NormalizeTitle(title string) string {
	norm := strings.ToLower(strings.TrimSpace(title))
	norm = inClassPrefix.ReplaceAllString(norm, "")
	norm = titleDigits.ReplaceAllString(norm, "#")
	return strings.Join(strings.Fields(norm), " ")
}

// InferType maps a title to its assessment category.
func InferType(title string) model.AssessmentType {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "final") && strings.Contains(lower, "exam"):
		return model.AssessmentTypeFinal
	case strings.Contains(lower, "midterm"):
		return model.AssessmentTypeMidterm
	case strings.Contains(lower, "quiz") || strings.Contains(lower, "test"):
		return model.AssessmentTypeQuiz
	case strings.Contains(lower, "assignment") || strings.Contains(lower, "homework"):
		return model.AssessmentTypeAssignment
	case strings.Contains(lower, "lab"):
		return model.AssessmentTypeLabReport
	case strings.Contains(lower, "project"):
		return model.AssessmentTypeProject
	case strings.Contains(lower, "participation") || strings.Contains(lower, "attendance"):
		return model.AssessmentTypeParticipation
	case strings.Contains(lower, "presentation"):
		return model.AssessmentTypePresentation
	case strings.Contains(lower, "exam"):
		return model.AssessmentTypeExam
	default:
		return model.AssessmentTypeOther
	}
}
