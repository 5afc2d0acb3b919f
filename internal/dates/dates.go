// Package dates parses the loosely formatted dates, times, and day-of-week
// lists that appear in course outlines ("Oct 3", "October 3, 2025",
// "2:30 PM", "MWF", "Tue/Thu").
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KalpKan/Plato/internal/model"
)

var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var (
	monthDayPattern = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:\s*,?\s*(\d{4}))?`)
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,9})\b\.?(?:\s*,?\s*(\d{4}))?`)
	// monthDayRangePattern additionally captures the far end of a day range.
	monthDayRangePattern = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:\s*[-–]\s*(\d{1,2}))?\b(?:\s*,?\s*(\d{4}))?`)

	isoPattern      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashPattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	clockPattern    = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm|a\.m\.|p\.m\.)?`)
	hourOnlyPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm|a\.m\.|p\.m\.)`)
)

// ParseDate extracts the first calendar date found in text. Dates written
// without a year take defaultYear. The second return is false when no date
// was recognized.
func ParseDate(text string, defaultYear int) (model.Date, bool) {
	if m := isoPattern.FindStringSubmatch(text); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := slashPattern.FindStringSubmatch(text); m != nil {
		// North American month/day/year ordering.
		return makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
	}
	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			year := defaultYear
			if m[3] != "" {
				year = atoi(m[3])
			}
			return makeDate(year, month, atoi(m[2]))
		}
	}
	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			year := defaultYear
			if m[3] != "" {
				year = atoi(m[3])
			}
			return makeDate(year, month, atoi(m[1]))
		}
	}
	return model.Date{}, false
}

// ParseAllDates extracts every calendar date in text, in order of
// appearance. A trailing day range ("December 8-19") contributes both ends.
func ParseAllDates(text string, defaultYear int) []model.Date {
	var out []model.Date
	add := func(d model.Date, ok bool) {
		if ok {
			out = append(out, d)
		}
	}

	for _, m := range isoPattern.FindAllStringSubmatch(text, -1) {
		add(makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3])))
	}
	for _, m := range slashPattern.FindAllStringSubmatch(text, -1) {
		add(makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2])))
	}
	for _, m := range monthDayRangePattern.FindAllStringSubmatch(text, -1) {
		month, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		year := defaultYear
		if m[4] != "" {
			year = atoi(m[4])
		}
		add(makeDate(year, month, atoi(m[2])))
		if m[3] != "" {
			add(makeDate(year, month, atoi(m[3])))
		}
	}

	return out
}

// ParseClock extracts the first clock time found in text. Bare hours with a
// meridiem ("3 PM") are accepted; bare numbers without one are not.
func ParseClock(text string) (model.ClockTime, bool) {
	if m := clockPattern.FindStringSubmatch(text); m != nil {
		hour := atoi(m[1])
		minute := atoi(m[2])
		hour, ok := applyMeridiem(hour, m[3])
		if ok && minute >= 0 && minute < 60 {
			return model.ClockTime{Hour: hour, Minute: minute}, true
		}
	}
	if m := hourOnlyPattern.FindStringSubmatch(text); m != nil {
		hour, ok := applyMeridiem(atoi(m[1]), m[2])
		if ok {
			return model.ClockTime{Hour: hour}, true
		}
	}
	return model.ClockTime{}, false
}

var clockRangePattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\s*(?:-|–|—|to|until)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?`)

// ParseClockRange extracts a start-end time range ("9:30-10:20 AM",
// "2:30 PM to 5:30 PM"). A start written without a meridiem borrows the
// end's; if that puts the start after the end, the start falls back to the
// morning reading ("11:30-1:30 PM" is 11:30 AM).
func ParseClockRange(text string) (start, end model.ClockTime, ok bool) {
	m := clockRangePattern.FindStringSubmatch(text)
	if m == nil {
		return model.ClockTime{}, model.ClockTime{}, false
	}

	startHour, startMin := atoi(m[1]), atoi(m[2])
	endHour, endMin := atoi(m[4]), atoi(m[5])
	startMeridiem, endMeridiem := m[3], m[6]
	if startMin >= 60 || endMin >= 60 {
		return model.ClockTime{}, model.ClockTime{}, false
	}

	eh, okEnd := applyMeridiem(endHour, endMeridiem)
	if !okEnd {
		return model.ClockTime{}, model.ClockTime{}, false
	}
	end = model.ClockTime{Hour: eh, Minute: endMin}

	borrowed := startMeridiem
	if borrowed == "" {
		borrowed = endMeridiem
	}
	sh, okStart := applyMeridiem(startHour, borrowed)
	if !okStart {
		return model.ClockTime{}, model.ClockTime{}, false
	}
	start = model.ClockTime{Hour: sh, Minute: startMin}

	if startMeridiem == "" && !start.Before(end) && sh >= 12 {
		start.Hour = sh - 12
	}
	if !start.Before(end) {
		return model.ClockTime{}, model.ClockTime{}, false
	}
	return start, end, true
}

func applyMeridiem(hour int, meridiem string) (int, bool) {
	switch strings.ToLower(strings.ReplaceAll(meridiem, ".", "")) {
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, false
		}
	}
	return hour, true
}

// dayTokens maps day abbreviations to weekdays. Two-letter tokens are tried
// before single letters so "Th" is not read as Tuesday plus an error.
var dayTokens = []struct {
	token string
	day   model.Weekday
}{
	{"thurs", model.Thursday}, {"tues", model.Tuesday}, {"thur", model.Thursday},
	{"mon", model.Monday}, {"tue", model.Tuesday}, {"wed", model.Wednesday},
	{"thu", model.Thursday}, {"fri", model.Friday}, {"sat", model.Saturday},
	{"sun", model.Sunday},
	{"th", model.Thursday}, {"tu", model.Tuesday}, {"sa", model.Saturday},
	{"su", model.Sunday},
	{"m", model.Monday}, {"t", model.Tuesday}, {"w", model.Wednesday},
	{"r", model.Thursday}, {"f", model.Friday},
}

// ParseDays reads a day-of-week list in the compact forms used by
// timetables: "MWF", "TTh", "M/W/F", "Tue, Thu". Duplicates are dropped and
// the result is ordered Monday first.
func ParseDays(text string) []model.Weekday {
	cleaned := strings.ToLower(text)
	for _, sep := range []string{"/", ",", "-", "&", " and "} {
		cleaned = strings.ReplaceAll(cleaned, sep, " ")
	}

	seen := make(map[model.Weekday]bool)
	for _, field := range strings.Fields(cleaned) {
		for _, d := range parseDayRun(field) {
			seen[d] = true
		}
	}

	var days []model.Weekday
	for d := model.Monday; d <= model.Sunday; d++ {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days
}

// parseDayRun consumes a single token such as "mwf", "tth", or "thursday",
// longest abbreviation first.
func parseDayRun(token string) []model.Weekday {
	// A full day name parses as one day.
	for _, full := range []struct {
		name string
		day  model.Weekday
	}{
		{"monday", model.Monday}, {"tuesday", model.Tuesday},
		{"wednesday", model.Wednesday}, {"thursday", model.Thursday},
		{"friday", model.Friday}, {"saturday", model.Saturday},
		{"sunday", model.Sunday},
	} {
		if token == full.name {
			return []model.Weekday{full.day}
		}
	}

	var days []model.Weekday
	for len(token) > 0 {
		matched := false
		for _, dt := range dayTokens {
			if strings.HasPrefix(token, dt.token) {
				days = append(days, dt.day)
				token = token[len(dt.token):]
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}
	}
	return days
}

func makeDate(year, month, day int) (model.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2200 {
		return model.Date{}, false
	}
	return model.Date{Year: year, Month: time.Month(month), Day: day}, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
