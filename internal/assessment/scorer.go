package assessment

import "github.com/KalpKan/Plato/internal/model"

// ScorerConfig holds the per-feature score contributions and the review
// thresholds applied to the final confidence.
type ScorerConfig struct {
	HasWeight           float64 `json:"has_weight" mapstructure:"has_weight"`
	HasAssessmentNoun   float64 `json:"has_assessment_noun" mapstructure:"has_assessment_noun"`
	InEvaluationSection float64 `json:"in_evaluation_section" mapstructure:"in_evaluation_section"`
	InTable             float64 `json:"in_table" mapstructure:"in_table"`
	LooksLikeTitle      float64 `json:"looks_like_title" mapstructure:"looks_like_title"`

	// OutOfTermPenalty is subtracted when an extracted due date falls
	// outside the term, exam period included.
	OutOfTermPenalty float64 `json:"out_of_term_penalty" mapstructure:"out_of_term_penalty"`

	// ReviewThreshold marks items below it for manual review.
	ReviewThreshold float64 `json:"review_threshold" mapstructure:"review_threshold"`
	// ConfirmThreshold marks items below it as requiring confirmation before
	// any calendar output is generated from them.
	ConfirmThreshold float64 `json:"confirm_threshold" mapstructure:"confirm_threshold"`
}

// DefaultScorerConfig returns the standard feature weights. They sum to 1.0
// so a candidate with every feature scores a full confidence.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		HasWeight:           0.3,
		HasAssessmentNoun:   0.25,
		InEvaluationSection: 0.2,
		InTable:             0.15,
		LooksLikeTitle:      0.1,
		OutOfTermPenalty:    0.15,
		ReviewThreshold:     0.75,
		ConfirmThreshold:    0.5,
	}
}

// Scorer assigns confidence scores to candidates.
type Scorer struct {
	config ScorerConfig
}

// NewScorer creates a scorer with default feature weights.
func NewScorer() *Scorer {
	return &Scorer{config: DefaultScorerConfig()}
}

// NewScorerWithConfig creates a scorer with custom feature weights.
func NewScorerWithConfig(config ScorerConfig) *Scorer {
	return &Scorer{config: config}
}

// Score computes and records the candidate's confidence. A due date that
// falls outside the term (exam period included) is penalized rather than
// discarded, since the year inference may be what is wrong.
func (s *Scorer) Score(c *Candidate, term *model.CourseTerm) float64 {
	var score float64

	if c.HasWeight() {
		score += s.config.HasWeight
	}
	if c.HasAssessmentNoun {
		score += s.config.HasAssessmentNoun
	}
	if c.InEvaluationSection {
		score += s.config.InEvaluationSection
	}
	if c.InTable {
		score += s.config.InTable
	}
	if c.LooksLikeTitle {
		score += s.config.LooksLikeTitle
	}

	if c.DueDate != nil && term != nil && !withinTerm(*c.DueDate, term) {
		score -= s.config.OutOfTermPenalty
		if score < 0 {
			score = 0
		}
	}

	c.Score = score
	return score
}

// withinTerm reports whether a date falls inside [term start, exam period
// end], using the term end when no exam period is known.
func withinTerm(d model.Date, term *model.CourseTerm) bool {
	end := term.EndDate
	if term.ExamPeriodEnd != nil {
		end = *term.ExamPeriodEnd
	}
	return !d.Before(term.StartDate) && !d.After(end)
}

// NeedsReview reports whether a score falls below the review threshold.
func (s *Scorer) NeedsReview(score float64) bool {
	return score < s.config.ReviewThreshold
}

// NeedsConfirmation reports whether a score is too low to act on without
// the user confirming it.
func (s *Scorer) NeedsConfirmation(score float64) bool {
	return score < s.config.ConfirmThreshold
}
