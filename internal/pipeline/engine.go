// Package pipeline wires the extraction stages into a single engine: layout
// analysis, section segmentation, course and term extraction, assessment
// extraction, rule resolution, and study plan generation. Individual stage
// failures degrade the result and set review flags; only a document with no
// recoverable text structure fails outright.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/KalpKan/Plato/internal/assessment"
	"github.com/KalpKan/Plato/internal/cache"
	"github.com/KalpKan/Plato/internal/course"
	"github.com/KalpKan/Plato/internal/layout"
	"github.com/KalpKan/Plato/internal/model"
	"github.com/KalpKan/Plato/internal/schedule"
	"github.com/KalpKan/Plato/internal/section"
	"github.com/KalpKan/Plato/internal/studyplan"
)

// ErrNoStructure is returned when a document yields no text structure at all.
// Every other extraction failure is non-fatal and reported through warnings
// and review flags instead.
var ErrNoStructure = errors.New("no text structure could be extracted from the document")

// Config holds engine tunables.
type Config struct {
	// DefaultYear resolves dates written without a year. Zero means the
	// current year.
	DefaultYear int

	// Timezone overrides the term timezone when set.
	Timezone string

	Layout     layout.Config
	Assessment assessment.Config
	StudyPlan  studyplan.Config
}

// DefaultConfig returns engine defaults.
func DefaultConfig() Config {
	return Config{
		Layout:     layout.DefaultConfig(),
		Assessment: assessment.DefaultConfig(),
		StudyPlan:  studyplan.DefaultConfig(),
	}
}

// Result is the engine's full output for one document.
type Result struct {
	Course    model.ExtractedCourseData `json:"course"`
	StudyPlan []model.StudyPlanItem     `json:"study_plan"`
	Warnings  []string                  `json:"warnings,omitempty"`
}

// Engine runs the extraction pipeline.
type Engine struct {
	config    Config
	analyzer  *layout.Analyzer
	segmenter *section.Segmenter
	info      *course.InfoExtractor
	extractor *assessment.Extractor
	resolver  *schedule.Resolver
	planner   *studyplan.Generator
	store     cache.Cache
	logger    *zap.Logger
}

// NewEngine creates an engine with default configuration and no cache.
func NewEngine(logger *zap.Logger) *Engine {
	return NewEngineWithConfig(DefaultConfig(), cache.Nop{}, logger)
}

// NewEngineWithConfig creates an engine with the given configuration and
// result cache.
func NewEngineWithConfig(config Config, store cache.Cache, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = cache.Nop{}
	}
	config.Assessment.DefaultYear = config.DefaultYear

	return &Engine{
		config:    config,
		analyzer:  layout.NewAnalyzerWithConfig(config.Layout),
		segmenter: section.NewSegmenter(),
		info:      course.NewInfoExtractor(),
		extractor: assessment.NewExtractorWithConfig(config.Assessment, logger),
		resolver:  schedule.NewResolver(logger),
		planner:   studyplan.NewGeneratorWithConfig(config.StudyPlan),
		store:     store,
		logger:    logger,
	}
}

// Run extracts a document, consulting the result cache first. The cache key
// is derived from the raw file content so an edited outline is never served
// a stale result.
func (e *Engine) Run(ctx context.Context, content []byte, pages []layout.Page) (*Result, error) {
	key := cache.Key(content)

	if data, ok := e.store.Get(key); ok {
		var result Result
		if err := json.Unmarshal(data, &result); err == nil {
			e.logger.Debug("cache hit", zap.String("key", key))
			return &result, nil
		}
		e.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	result, err := e.Extract(ctx, pages)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		e.store.Put(key, data)
	}

	return result, nil
}

// Extract runs every pipeline stage over already-loaded pages.
func (e *Engine) Extract(ctx context.Context, pages []layout.Page) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := e.analyzer.Analyze(pages, nil)
	if len(doc.Lines) == 0 {
		return nil, ErrNoStructure
	}

	var warnings []string
	termNeedsReview := false

	termX := course.ExtractTerm(doc)
	term := termX.Term
	if term == nil {
		term = e.fallbackTerm()
		termNeedsReview = true
		warnings = append(warnings, "term could not be identified; dates assume the full year")
	} else if termX.DatesDefaulted {
		warnings = append(warnings, "term dates follow season conventions, not the document")
	}
	if e.config.Timezone != "" {
		term.Timezone = e.config.Timezone
	}

	code, title := e.info.Extract(doc)
	if code == "" {
		warnings = append(warnings, "course code was not found on the first page")
	}

	sections := course.ExtractSections(doc)
	lectures, labs, tutorials := course.SplitSections(sections)

	eval := e.segmenter.Segment(doc, section.TypeEvaluation)
	if eval.Defaulted {
		warnings = append(warnings, "no evaluation section heading found; scanning the whole document")
	}

	extraction := e.extractor.Extract(doc, eval, term)
	if len(extraction.Tasks) == 0 {
		warnings = append(warnings, "no assessments were extracted")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved := e.Resolve(term, sections, extraction.Tasks)
	plan := e.GenerateStudyPlan(resolved, term)

	result := &Result{
		Course: model.ExtractedCourseData{
			Term:             *term,
			CourseCode:       code,
			CourseName:       title,
			LectureSections:  lectures,
			LabSections:      labs,
			TutorialSections: tutorials,
			Assessments:      resolved,
			Alternates:       extraction.Alternates,
			NeedsReview:      extraction.NeedsReview || termNeedsReview || len(extraction.Tasks) == 0,
		},
		StudyPlan: plan,
		Warnings:  warnings,
	}

	e.logger.Info("extraction complete",
		zap.String("course", code),
		zap.Int("assessments", len(resolved)),
		zap.Float64("total_weight", extraction.TotalWeight),
		zap.Bool("needs_review", result.Course.NeedsReview))

	return result, nil
}

// Resolve turns relative deadline rules into absolute datetimes against the
// chosen sections and term.
func (e *Engine) Resolve(term *model.CourseTerm, sections []model.SectionOption, tasks []model.AssessmentTask) []model.AssessmentTask {
	return e.resolver.Resolve(tasks, sections, term)
}

// GenerateStudyPlan derives start-studying reminders for resolved tasks.
func (e *Engine) GenerateStudyPlan(tasks []model.AssessmentTask, term *model.CourseTerm) []model.StudyPlanItem {
	return e.planner.Generate(tasks, term)
}

// fallbackTerm covers the whole default year when no term was identified.
// Recurring anchors cannot be trusted against it, but absolute dates still
// resolve.
func (e *Engine) fallbackTerm() *model.CourseTerm {
	year := e.config.DefaultYear
	if year == 0 {
		year = time.Now().Year()
	}
	return &model.CourseTerm{
		Name:      "Unknown Term",
		StartDate: model.Date{Year: year, Month: time.January, Day: 1},
		EndDate:   model.Date{Year: year, Month: time.December, Day: 31},
		Timezone:  e.config.Timezone,
	}
}
