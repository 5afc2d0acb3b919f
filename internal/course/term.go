package course

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KalpKan/Plato/internal/dates"
	"github.com/KalpKan/Plato/internal/layout"
	"github.com/KalpKan/Plato/internal/model"
)

// DefaultTimezone is assumed when an outline does not state one; course
// outlines essentially never do.
const DefaultTimezone = "America/Toronto"

var termPattern = regexp.MustCompile(`(?i)\b(fall|winter|summer|spring|intersession)\s*[,\s]\s*(20\d{2})|\b(fall|winter|summer|spring|intersession)\s+(20\d{2})`)

var examPeriodPattern = regexp.MustCompile(`(?i)exam(?:ination)?\s+period[^.\n]*`)

// seasonBounds gives the conventional start and end month/day for each term
// season. Exact dates vary by year; these defaults are close enough to anchor
// scheduling and are flagged for review when used.
var seasonBounds = map[string]struct {
	startMonth, startDay int
	endMonth, endDay     int
}{
	"fall":         {9, 1, 12, 15},
	"winter":       {1, 6, 4, 15},
	"spring":       {5, 1, 8, 15},
	"summer":       {5, 1, 8, 15},
	"intersession": {5, 1, 6, 30},
}

// TermExtraction is an extracted term with a confidence judgment.
type TermExtraction struct {
	Term *model.CourseTerm `json:"term,omitempty"`
	// DatesDefaulted is set when start and end came from season conventions
	// rather than the document.
	DatesDefaulted bool `json:"dates_defaulted"`
}

// ExtractTerm finds the term name ("Fall 2025") in the document and derives
// its boundaries. Returns nil Term when no term name appears anywhere.
func ExtractTerm(doc *layout.Document) TermExtraction {
	text := doc.Text()

	m := termPattern.FindStringSubmatch(text)
	if m == nil {
		return TermExtraction{}
	}
	season, yearStr := m[1], m[2]
	if season == "" {
		season, yearStr = m[3], m[4]
	}
	year, _ := strconv.Atoi(yearStr)
	seasonLower := strings.ToLower(season)

	bounds := seasonBounds[seasonLower]
	term := &model.CourseTerm{
		Name:      fmt.Sprintf("%s %d", titleWord(season), year),
		StartDate: model.Date{Year: year, Month: time.Month(bounds.startMonth), Day: bounds.startDay},
		EndDate:   model.Date{Year: year, Month: time.Month(bounds.endMonth), Day: bounds.endDay},
		Timezone:  DefaultTimezone,
	}

	// Explicit class start/end dates in the document override the defaults.
	defaulted := true
	if start, end, ok := explicitTermDates(text, year); ok {
		term.StartDate = start
		term.EndDate = end
		defaulted = false
	}

	if examEnd, ok := examPeriodEnd(text, year); ok {
		term.ExamPeriodEnd = &examEnd
	}

	return TermExtraction{Term: term, DatesDefaulted: defaulted}
}

var (
	classesBeginPattern = regexp.MustCompile(`(?i)(?:classes|lectures|term)\s+(?:begin|start)s?[^.\n]*`)
	classesEndPattern   = regexp.MustCompile(`(?i)(?:classes|lectures|term)\s+ends?[^.\n]*`)
)

// explicitTermDates looks for "Classes begin September 4" style statements.
func explicitTermDates(text string, year int) (start, end model.Date, ok bool) {
	begin := classesBeginPattern.FindString(text)
	finish := classesEndPattern.FindString(text)
	if begin == "" || finish == "" {
		return model.Date{}, model.Date{}, false
	}

	start, okStart := dates.ParseDate(begin, year)
	end, okEnd := dates.ParseDate(finish, year)
	if !okStart || !okEnd || !start.Before(end) {
		return model.Date{}, model.Date{}, false
	}
	return start, end, true
}

// examPeriodEnd reads the last date mentioned in an "exam period" sentence.
// Ranges like "December 8-19" resolve to the far end.
func examPeriodEnd(text string, year int) (model.Date, bool) {
	sentence := examPeriodPattern.FindString(text)
	if sentence == "" {
		return model.Date{}, false
	}

	found := dates.ParseAllDates(sentence, year)
	if len(found) == 0 {
		return model.Date{}, false
	}
	last := found[0]
	for _, d := range found[1:] {
		if last.Before(d) {
			last = d
		}
	}
	return last, true
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
