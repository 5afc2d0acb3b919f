// Package model defines the shared data types produced by the extraction
// pipeline. These are the externally visible, JSON-serializable structures;
// intermediate candidate types live inside the pipeline packages and are
// never exposed here.
package model

import (
	"fmt"
	"time"
)

// AssessmentType categorizes a graded item.
type AssessmentType string

const (
	AssessmentTypeAssignment    AssessmentType = "assignment"
	AssessmentTypeLabReport     AssessmentType = "lab_report"
	AssessmentTypeQuiz          AssessmentType = "quiz"
	AssessmentTypeMidterm       AssessmentType = "midterm"
	AssessmentTypeFinal         AssessmentType = "final"
	AssessmentTypeProject       AssessmentType = "project"
	AssessmentTypeParticipation AssessmentType = "participation"
	AssessmentTypePresentation  AssessmentType = "presentation"
	AssessmentTypeExam          AssessmentType = "exam"
	AssessmentTypeOther         AssessmentType = "other"
)

// SectionType identifies the kind of recurring timetabled session.
type SectionType string

const (
	SectionTypeLecture  SectionType = "Lecture"
	SectionTypeLab      SectionType = "Lab"
	SectionTypeTutorial SectionType = "Tutorial"
)

// Weekday numbering follows the 0=Monday .. 6=Sunday convention used in
// course timetables ("M/W/F" style day lists).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ToTime converts to the standard library's weekday numbering.
func (w Weekday) ToTime() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// FromTime converts from the standard library's weekday numbering.
func FromTime(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

func (w Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return names[w]
}

// ClockTime is a time of day without a date, as read from a timetable
// ("14:00"). Hour is 0-23.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// On combines the clock time with a calendar date in the given location.
func (c ClockTime) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Before reports whether c is earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at midnight in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Weekday returns the day of week under the 0=Monday convention.
func (d Date) Weekday() Weekday {
	return FromTime(d.Time(time.UTC).Weekday())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// CourseTerm describes the academic term the course runs in.
type CourseTerm struct {
	Name          string `json:"name"`
	StartDate     Date   `json:"start_date"`
	EndDate       Date   `json:"end_date"`
	ExamPeriodEnd *Date  `json:"exam_period_end,omitempty"`
	Timezone      string `json:"timezone"`
}

// Validate checks the term's date invariant.
func (t CourseTerm) Validate() error {
	if !t.StartDate.Before(t.EndDate) {
		return fmt.Errorf("term start %s must precede end %s", t.StartDate, t.EndDate)
	}
	return nil
}

// Location resolves the term's timezone, falling back to UTC.
func (t CourseTerm) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SectionOption is one timetabled recurring session choice (a lecture, lab,
// or tutorial slot). DaysOfWeek is sorted and duplicate-free.
type SectionOption struct {
	Type       SectionType `json:"type"`
	SectionID  string      `json:"section_id,omitempty"`
	DaysOfWeek []Weekday   `json:"days_of_week"`
	StartTime  ClockTime   `json:"start_time"`
	EndTime    ClockTime   `json:"end_time"`
	Location   string      `json:"location,omitempty"`
}

// AssessmentTask is a graded item extracted from the outline. Exactly one of
// DueDateTime or DueRule is normally set before resolution; after resolution
// DueRule remains only on tasks that could not be resolved.
type AssessmentTask struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           AssessmentType `json:"type"`
	WeightPercent  *float64       `json:"weight_percent,omitempty"`
	DueDateTime    *time.Time     `json:"due_datetime,omitempty"`
	DueRule        string         `json:"due_rule,omitempty"`
	RuleAnchor     string         `json:"rule_anchor,omitempty"`
	Confidence     float64        `json:"confidence"`
	NeedsReview    bool           `json:"needs_review"`

	// RequiresConfirmation marks term-critical items (the final exam date)
	// whose confidence is too low to act on without the user approving them.
	RequiresConfirmation bool   `json:"requires_confirmation,omitempty"`
	SourceEvidence       string `json:"source_evidence,omitempty"`
}

// HasWeight reports whether a weight was extracted.
func (a AssessmentTask) HasWeight() bool {
	return a.WeightPercent != nil
}

// Weight returns the extracted weight, or 0 when absent.
func (a AssessmentTask) Weight() float64 {
	if a.WeightPercent == nil {
		return 0
	}
	return *a.WeightPercent
}

// StudyPlanItem is a derived "start studying" reminder for one assessment.
type StudyPlanItem struct {
	AssessmentRef string    `json:"assessment_ref"`
	StartStudying time.Time `json:"start_studying_date"`
	Due           time.Time `json:"due_datetime"`

	// DefaultedLead marks items whose lead time fell back to the most
	// conservative band because the task weight is missing.
	DefaultedLead bool `json:"defaulted_lead,omitempty"`
}

// ExtractedCourseData aggregates everything the pipeline produces for one
// document. It is the engine's externally visible output.
type ExtractedCourseData struct {
	Term             CourseTerm       `json:"term"`
	CourseCode       string           `json:"course_code,omitempty"`
	CourseName       string           `json:"course_name,omitempty"`
	LectureSections  []SectionOption  `json:"lecture_sections"`
	LabSections      []SectionOption  `json:"lab_sections"`
	TutorialSections []SectionOption  `json:"tutorial_sections,omitempty"`
	Assessments      []AssessmentTask `json:"assessments"`

	// Alternates holds deduplicated candidates that were scored but not
	// selected, so a caller can surface them for manual review.
	Alternates []AssessmentTask `json:"alternates,omitempty"`

	// NeedsReview is the document-level flag, set when the selected weights
	// fall outside the acceptable band or no candidates were found.
	NeedsReview bool `json:"needs_review"`
}

// TotalWeight sums the weights of the selected assessments.
func (e ExtractedCourseData) TotalWeight() float64 {
	var total float64
	for _, a := range e.Assessments {
		total += a.Weight()
	}
	return total
}

// Float64Ptr is a small helper for building optional weights.
func Float64Ptr(v float64) *float64 { return &v }
