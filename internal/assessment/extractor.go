package assessment

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KalpKan/Plato/internal/layout"
	"github.com/KalpKan/Plato/internal/model"
	"github.com/KalpKan/Plato/internal/section"
)

// Config aggregates the tunables of the extraction passes.
type Config struct {
	Scorer   ScorerConfig   `json:"scorer" mapstructure:"scorer"`
	Selector SelectorConfig `json:"selector" mapstructure:"selector"`

	// DefaultYear resolves dates written without a year. Zero means the
	// current year.
	DefaultYear int `json:"default_year" mapstructure:"default_year"`
}

// DefaultConfig returns the standard extraction tunables.
func DefaultConfig() Config {
	return Config{
		Scorer:   DefaultScorerConfig(),
		Selector: DefaultSelectorConfig(),
	}
}

// Extractor runs the full assessment pipeline over an analyzed document:
// generate candidates, filter policy text, score, select.
type Extractor struct {
	config   Config
	logger   *zap.Logger
	tables   *TableProvider
	text     *TextProvider
	filter   *PolicyFilter
	scorer   *Scorer
	selector *Selector
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor(logger *zap.Logger) *Extractor {
	return NewExtractorWithConfig(DefaultConfig(), logger)
}

// NewExtractorWithConfig creates an extractor with custom configuration.
func NewExtractorWithConfig(config Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	year := config.DefaultYear
	if year == 0 {
		year = time.Now().Year()
	}
	return &Extractor{
		config:   config,
		logger:   logger,
		tables:   NewTableProvider(year),
		text:     NewTextProvider(year),
		filter:   NewPolicyFilter(),
		scorer:   NewScorerWithConfig(config.Scorer),
		selector: NewSelectorWithConfig(config.Selector),
	}
}

// Extraction is the extractor's full output, including the material a
// reviewer needs to audit or correct the selection.
type Extraction struct {
	Tasks      []model.AssessmentTask `json:"tasks"`
	Alternates []model.AssessmentTask `json:"alternates,omitempty"`

	TotalWeight float64 `json:"total_weight"`
	// NeedsReview is set when the weight total fell outside the acceptable
	// band or any selected item scored below the review threshold.
	NeedsReview bool `json:"needs_review"`

	Rejected []*Candidate `json:"rejected,omitempty"`
}

// Extract runs the pipeline and returns tasks for the selected candidates.
func (e *Extractor) Extract(doc *layout.Document, eval section.Range, term *model.CourseTerm) Extraction {
	candidates := e.tables.Generate(doc, eval)
	candidates = append(candidates, e.text.Generate(doc, eval)...)

	var kept []*Candidate
	var rejected []*Candidate
	for _, c := range candidates {
		if e.filter.Reject(c) {
			rejected = append(rejected, c)
			continue
		}
		kept = append(kept, c)
	}

	for _, c := range kept {
		e.scorer.Score(c, term)
	}

	result := e.selector.Select(kept)
	result.Rejected = append(result.Rejected, rejected...)

	e.logger.Debug("assessment extraction complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(result.Selected)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Float64("total_weight", result.TotalWeight))

	out := Extraction{
		TotalWeight: result.TotalWeight,
		NeedsReview: !result.WithinBand,
		Rejected:    result.Rejected,
	}
	for _, c := range result.Selected {
		task := e.toTask(c, term)
		if task.NeedsReview {
			out.NeedsReview = true
		}
		out.Tasks = append(out.Tasks, task)
	}
	for _, c := range result.Alternates {
		out.Alternates = append(out.Alternates, e.toTask(c, term))
	}
	return out
}

// toTask converts a candidate into the shared task model.
func (e *Extractor) toTask(c *Candidate, term *model.CourseTerm) model.AssessmentTask {
	task := model.AssessmentTask{
		ID:             uuid.NewString(),
		Title:          c.Title,
		Type:           InferType(c.Title),
		WeightPercent:  c.Weight,
		DueRule:        c.DueRule,
		Confidence:     c.Score,
		SourceEvidence: c.Evidence,
		NeedsReview:    e.scorer.NeedsReview(c.Score),
	}
	if task.Type == model.AssessmentTypeFinal && e.scorer.NeedsConfirmation(c.Score) {
		task.RequiresConfirmation = true
	}

	if c.DueDate != nil {
		loc := time.UTC
		if term != nil {
			loc = term.Location()
		}
		clock := model.ClockTime{Hour: 23, Minute: 59}
		if c.DueTime != nil {
			clock = *c.DueTime
		}
		due := clock.On(*c.DueDate, loc)
		task.DueDateTime = &due
	}

	return task
}
