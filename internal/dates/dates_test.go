package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KalpKan/Plato/internal/model"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Date
		ok   bool
	}{
		{"month day", "Due October 3", model.Date{Year: 2025, Month: 10, Day: 3}, true},
		{"month day year", "Oct 3, 2024", model.Date{Year: 2024, Month: 10, Day: 3}, true},
		{"abbreviated with period", "Due Sept. 15", model.Date{Year: 2025, Month: 9, Day: 15}, true},
		{"ordinal suffix", "March 21st", model.Date{Year: 2025, Month: 3, Day: 21}, true},
		{"day month", "15 January 2026", model.Date{Year: 2026, Month: 1, Day: 15}, true},
		{"iso", "2025-12-08", model.Date{Year: 2025, Month: 12, Day: 8}, true},
		{"slash", "due 10/3/2025", model.Date{Year: 2025, Month: 10, Day: 3}, true},
		{"no date", "24 hours after lab", model.Date{}, false},
		{"bogus day", "October 99", model.Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, 2025)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.ClockTime
		ok   bool
	}{
		{"pm", "2:30 PM", model.ClockTime{Hour: 14, Minute: 30}, true},
		{"am", "9:00 am", model.ClockTime{Hour: 9, Minute: 0}, true},
		{"noon", "12:00 pm", model.ClockTime{Hour: 12, Minute: 0}, true},
		{"midnight", "12:00 AM", model.ClockTime{Hour: 0, Minute: 0}, true},
		{"24h", "14:30", model.ClockTime{Hour: 14, Minute: 30}, true},
		{"bare hour with meridiem", "due at 11 pm", model.ClockTime{Hour: 23}, true},
		{"no time", "Week 3", model.ClockTime{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClock(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		text string
		want []model.Weekday
	}{
		{"MWF", []model.Weekday{model.Monday, model.Wednesday, model.Friday}},
		{"TTh", []model.Weekday{model.Tuesday, model.Thursday}},
		{"M/W/F", []model.Weekday{model.Monday, model.Wednesday, model.Friday}},
		{"Tue, Thu", []model.Weekday{model.Tuesday, model.Thursday}},
		{"Tues/Thurs", []model.Weekday{model.Tuesday, model.Thursday}},
		{"Monday and Wednesday", []model.Weekday{model.Monday, model.Wednesday}},
		{"office hours by appointment", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDays(tt.text))
		})
	}
}

func TestParseClockRange(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end model.ClockTime
		ok         bool
	}{
		{"shared meridiem", "9:30-10:20 AM", model.ClockTime{Hour: 9, Minute: 30}, model.ClockTime{Hour: 10, Minute: 20}, true},
		{"both meridiems", "2:30 PM - 5:30 PM", model.ClockTime{Hour: 14, Minute: 30}, model.ClockTime{Hour: 17, Minute: 30}, true},
		{"crosses noon", "11:30-1:30 PM", model.ClockTime{Hour: 11, Minute: 30}, model.ClockTime{Hour: 13, Minute: 30}, true},
		{"to separator", "1:30 pm to 2:30 pm", model.ClockTime{Hour: 13, Minute: 30}, model.ClockTime{Hour: 14, Minute: 30}, true},
		{"24 hour", "14:30-16:20", model.ClockTime{Hour: 14, Minute: 30}, model.ClockTime{Hour: 16, Minute: 20}, true},
		{"no range", "due at 11:59 pm", model.ClockTime{}, model.ClockTime{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseClockRange(tt.text)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.start, start)
				assert.Equal(t, tt.end, end)
			}
		})
	}
}

func TestParseAllDates_Range(t *testing.T) {
	got := ParseAllDates("exams run December 8-19", 2025)
	require.Len(t, got, 2)
	assert.Equal(t, model.Date{Year: 2025, Month: 12, Day: 8}, got[0])
	assert.Equal(t, model.Date{Year: 2025, Month: 12, Day: 19}, got[1])
}

func TestParseDays_Deduplicates(t *testing.T) {
	got := ParseDays("M M W")
	require.Len(t, got, 2)
	assert.Equal(t, []model.Weekday{model.Monday, model.Wednesday}, got)
}
