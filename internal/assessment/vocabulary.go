package assessment

import (
	"regexp"
	"strings"
)

// assessmentNouns are words whose presence marks a title as a plausible
// graded item. "total" is included so grouped rows ("Quizzes total") keep
// their noun feature.
var assessmentNouns = []string{
	"exam", "examination", "midterm", "final", "test", "quiz",
	"assignment", "homework", "hw", "project", "lab", "laboratory",
	"participation", "attendance", "presentation", "essay", "report",
	"paper", "portfolio", "tutorial", "exercise", "practicum",
	"rotation", "clinical", "practical", "total",
}

// bonusIndicators mark items excluded from the 100% weight target.
var bonusIndicators = []string{
	"bonus", "extra credit", "optional", "up to", "additional",
}

// garbagePatterns reject titles that are clearly not graded items: learning
// outcomes, sentence fragments, contact info, and schedule entries.
var garbagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z]\.\s`),
	regexp.MustCompile(`^\d+\.\s*[a-z]`),
	regexp.MustCompile(`^(understand|design|apply|analyze|demonstrate|develop|explain)`),
	regexp.MustCompile(`^(course|academic|student|you|we|the|a|an)\s`),
	regexp.MustCompile(`^(not|need|must|should|will|may|can)`),
	regexp.MustCompile(`(submitted|request|consideration|accommodation)`),
	regexp.MustCompile(`^(office|room|email|phone|www\.|http)`),
	regexp.MustCompile(`^(january|february|march|april|may|june|july|august|september|october|november|december)\s*\d`),
	regexp.MustCompile(`^(mon|tue|wed|thu|fri|sat|sun)\b`),
	regexp.MustCompile(`reading\s*week`),
	regexp.MustCompile(`^(classes|exam\s*period)`),
	regexp.MustCompile(`^\d+%$`),
}

var summaryRowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^total$`),
	regexp.MustCompile(`^course\s+total$`),
	regexp.MustCompile(`^grand\s+total$`),
	regexp.MustCompile(`^overall$`),
	regexp.MustCompile(`^sum$`),
}

var (
	leadingBullets = regexp.MustCompile(`^[\d\.\)\:\-]+\s*`)
	nonWordChars   = regexp.MustCompile(`\W`)
	specialChars   = regexp.MustCompile(`[^A-Za-z0-9\s\-\(\):]`)
)

// hasAssessmentNoun reports whether the title names a known graded-item kind.
func hasAssessmentNoun(title string) bool {
	lower := strings.ToLower(title)
	for _, noun := range assessmentNouns {
		if strings.Contains(lower, noun) {
			return true
		}
	}
	return false
}

func isBonus(title string) bool {
	lower := strings.ToLower(title)
	for _, ind := range bonusIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// isGarbageTitle rejects titles that cannot be graded items.
func isGarbageTitle(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))

	for _, p := range garbagePatterns {
		if p.MatchString(lower) {
			return true
		}
	}

	if len(nonWordChars.ReplaceAllString(title, "")) < 3 {
		return true
	}

	// All-lowercase text without a noun is a sentence fragment.
	if title == strings.ToLower(title) && !hasAssessmentNoun(title) {
		return true
	}

	if len(title) > 0 {
		special := len(specialChars.FindAllString(title, -1))
		if float64(special)/float64(len(title)) > 0.3 {
			return true
		}
	}

	return false
}

// isSummaryRow matches table footer rows that restate the column total.
func isSummaryRow(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, p := range summaryRowPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// cleanCell normalizes a table cell: newlines become spaces, leading bullet
// or numbering characters are stripped, and whitespace is collapsed.
func cleanCell(cell string) string {
	text := strings.NewReplacer("\n", " ", "\r", " ").Replace(strings.TrimSpace(cell))
	text = leadingBullets.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
