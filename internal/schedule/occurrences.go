// Package schedule resolves relative deadline rules ("due 24 hours after
// lab") against the recurring occurrences of a course's meeting sections.
package schedule

import (
	"time"

	"github.com/KalpKan/Plato/internal/model"
)

// Occurrence is one concrete calendar instance of a recurring section.
type Occurrence struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Occurrences expands a section's days of week across the term, in date
// order. The section's own clock times apply in the term's timezone.
func Occurrences(section model.SectionOption, term *model.CourseTerm) []Occurrence {
	if term == nil || len(section.DaysOfWeek) == 0 {
		return nil
	}

	wanted := make(map[model.Weekday]bool, len(section.DaysOfWeek))
	for _, d := range section.DaysOfWeek {
		wanted[d] = true
	}
	loc := term.Location()

	var out []Occurrence
	for d := term.StartDate; !d.After(term.EndDate); d = d.AddDays(1) {
		if !wanted[d.Weekday()] {
			continue
		}
		out = append(out, Occurrence{
			Start: section.StartTime.On(d, loc),
			End:   section.EndTime.On(d, loc),
		})
	}
	return out
}
