package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KalpKan/Plato/internal/model"
)

// Resolver turns relative deadline rules into absolute datetimes. A rule
// anchored to a section that meets once resolves in place; a rule anchored
// to a recurring section expands into one task per occurrence, numbered in
// date order. Tasks whose rule cannot be resolved keep the raw rule text and
// are flagged for review.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

var (
	hoursOffset = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|hrs?)`)
	daysOffset  = regexp.MustCompile(`(?i)(\d+)\s*days?`)
	weeksOffset = regexp.MustCompile(`(?i)(\d+)\s*weeks?`)

	anchorWords = regexp.MustCompile(`(?i)\b(lab(?:oratory)?|tutorial|lecture|class)\b`)
)

// Resolve processes every task, expanding or resolving relative rules. The
// returned slice replaces the input ordering with literal tasks first in
// their original order, followed by generated tasks in date order. The
// output is deterministic for a given input.
func (r *Resolver) Resolve(tasks []model.AssessmentTask, sections []model.SectionOption, term *model.CourseTerm) []model.AssessmentTask {
	literalKeys := make(map[string]bool)
	for _, t := range tasks {
		if t.DueDateTime != nil {
			literalKeys[strings.ToLower(strings.TrimSpace(t.Title))] = true
		}
	}

	var out []model.AssessmentTask
	for _, task := range tasks {
		if task.DueRule == "" || task.DueDateTime != nil {
			out = append(out, r.resolveFinalFallback(task, term))
			continue
		}
		out = append(out, r.resolveRule(task, sections, term, literalKeys)...)
	}
	return out
}

// resolveRule resolves one rule-bearing task. Unresolvable rules come back
// as the single input task with needs_review set and the rule preserved.
func (r *Resolver) resolveRule(task model.AssessmentTask, sections []model.SectionOption, term *model.CourseTerm, literalKeys map[string]bool) []model.AssessmentTask {
	unresolved := func(reason string) []model.AssessmentTask {
		r.logger.Debug("rule left unresolved",
			zap.String("title", task.Title),
			zap.String("rule", task.DueRule),
			zap.String("reason", reason))
		task.NeedsReview = true
		return []model.AssessmentTask{task}
	}

	anchor := task.RuleAnchor
	if anchor == "" {
		anchor = inferAnchor(task.DueRule)
	}
	if anchor == "" {
		return unresolved("no anchor")
	}

	section, ok := findAnchorSection(anchor, sections)
	if !ok {
		return unresolved("no matching section")
	}

	offset, ok := ParseOffset(task.DueRule)
	if !ok {
		return unresolved("no parseable offset")
	}

	occurrences := Occurrences(section, term)
	if len(occurrences) == 0 {
		return unresolved("anchor never occurs in term")
	}

	if len(occurrences) == 1 {
		due := occurrences[0].End.Add(offset)
		task.DueDateTime = &due
		task.DueRule = ""
		task.RuleAnchor = ""
		return []model.AssessmentTask{task}
	}

	return r.expand(task, occurrences, offset, literalKeys)
}

// expand emits one numbered task per occurrence. An occurrence whose
// numbered title matches a literal extraction is skipped: the literal wins.
func (r *Resolver) expand(template model.AssessmentTask, occurrences []Occurrence, offset time.Duration, literalKeys map[string]bool) []model.AssessmentTask {
	base := strings.TrimSpace(strings.ReplaceAll(template.Title, " (auto)", ""))

	out := make([]model.AssessmentTask, 0, len(occurrences))
	for i, occ := range occurrences {
		title := fmt.Sprintf("%s %d", base, i+1)
		if literalKeys[strings.ToLower(title)] {
			continue
		}

		due := occ.End.Add(offset)
		generated := template
		generated.ID = deterministicID(template.ID, i+1)
		generated.Title = title
		generated.DueDateTime = &due
		generated.DueRule = ""
		generated.RuleAnchor = ""
		generated.NeedsReview = true
		out = append(out, generated)
	}
	return out
}

// resolveFinalFallback anchors a final exam with no due date to the exam
// period end, or failing that the term end.
func (r *Resolver) resolveFinalFallback(task model.AssessmentTask, term *model.CourseTerm) model.AssessmentTask {
	if task.Type != model.AssessmentTypeFinal || task.DueDateTime != nil || term == nil {
		return task
	}

	date := term.EndDate
	if term.ExamPeriodEnd != nil {
		date = *term.ExamPeriodEnd
	}
	due := model.ClockTime{Hour: 23, Minute: 59}.On(date, term.Location())
	task.DueDateTime = &due
	task.NeedsReview = true
	return task
}

// ParseOffset reads a quantity and unit (hours, days, weeks) from rule text.
func ParseOffset(rule string) (time.Duration, bool) {
	if m := hoursOffset.FindStringSubmatch(rule); m != nil {
		return time.Duration(atoi(m[1])) * time.Hour, true
	}
	if m := daysOffset.FindStringSubmatch(rule); m != nil {
		return time.Duration(atoi(m[1])) * 24 * time.Hour, true
	}
	if m := weeksOffset.FindStringSubmatch(rule); m != nil {
		return time.Duration(atoi(m[1])) * 7 * 24 * time.Hour, true
	}
	return 0, false
}

// inferAnchor reads the anchor event kind out of the rule text itself.
func inferAnchor(rule string) string {
	m := anchorWords.FindString(rule)
	return strings.ToLower(m)
}

// findAnchorSection matches an anchor word against section kinds. "class"
// anchors to the lecture; a tutorial anchor falls back to a lab section when
// no tutorial exists.
func findAnchorSection(anchor string, sections []model.SectionOption) (model.SectionOption, bool) {
	anchor = strings.ToLower(anchor)
	if anchor == "class" {
		anchor = "lecture"
	}

	for _, s := range sections {
		kind := strings.ToLower(string(s.Type))
		if strings.Contains(kind, anchor) || strings.Contains(anchor, kind) {
			return s, true
		}
	}

	if anchor == "tutorial" {
		for _, s := range sections {
			if s.Type == model.SectionTypeLab {
				return s, true
			}
		}
	}

	return model.SectionOption{}, false
}

// deterministicID derives a stable per-occurrence ID from the template's.
func deterministicID(templateID string, n int) string {
	if templateID == "" {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%s-%d", templateID, n)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
