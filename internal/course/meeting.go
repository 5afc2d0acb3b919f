package course

import (
	"regexp"
	"strings"

	"github.com/KalpKan/Plato/internal/dates"
	"github.com/KalpKan/Plato/internal/layout"
	"github.com/KalpKan/Plato/internal/model"
)

// meetingPattern anchors a line to a meeting kind, with an optional section
// identifier ("Lab 002:", "Lecture Section 001").
var meetingPattern = regexp.MustCompile(`(?i)\b(lecture|lab(?:oratory)?|tutorial)s?\b(?:\s*(?:section)?\s*(\d{3}[A-Za-z]?))?\s*[:\-]?\s*(.*)`)

// locationPattern reads a room reference such as "in PAB 100" or
// "Room TEB 2101".
var locationPattern = regexp.MustCompile(`(?i)\b(?:in|room|location:?)\s+([A-Z][A-Za-z\-]*\.?\s*\d+[A-Za-z]?)`)

// ExtractSections finds timetabled meeting sections. A line qualifies only
// when it carries both a day list and a time range; prose that merely
// mentions "lab" does not produce a section.
func ExtractSections(doc *layout.Document) []model.SectionOption {
	var sections []model.SectionOption
	seen := make(map[string]bool)

	for _, line := range doc.Lines {
		text := line.Text()
		m := meetingPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		rest := m[3]
		days := dates.ParseDays(daysPortion(rest))
		if len(days) == 0 {
			continue
		}
		start, end, ok := dates.ParseClockRange(rest)
		if !ok {
			continue
		}

		sec := model.SectionOption{
			Type:       sectionType(m[1]),
			SectionID:  m[2],
			DaysOfWeek: days,
			StartTime:  start,
			EndTime:    end,
		}
		if loc := locationPattern.FindStringSubmatch(rest); loc != nil {
			sec.Location = strings.TrimSpace(loc[1])
		}

		key := string(sec.Type) + "|" + sec.SectionID + "|" + start.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		sections = append(sections, sec)
	}

	return sections
}

// daysPortion cuts the line at the first digit so clock times and room
// numbers cannot be misread as day letters.
func daysPortion(text string) string {
	for i, r := range text {
		if r >= '0' && r <= '9' {
			return text[:i]
		}
	}
	return text
}

func sectionType(keyword string) model.SectionType {
	switch strings.ToLower(keyword) {
	case "lecture":
		return model.SectionTypeLecture
	case "tutorial":
		return model.SectionTypeTutorial
	default:
		return model.SectionTypeLab
	}
}

// SplitSections partitions extracted sections by kind for the output model.
func SplitSections(sections []model.SectionOption) (lectures, labs, tutorials []model.SectionOption) {
	for _, s := range sections {
		switch s.Type {
		case model.SectionTypeLecture:
			lectures = append(lectures, s)
		case model.SectionTypeTutorial:
			tutorials = append(tutorials, s)
		default:
			labs = append(labs, s)
		}
	}
	return lectures, labs, tutorials
}
