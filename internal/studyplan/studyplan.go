// Package studyplan derives "start studying" reminders from assessment
// weights. The mapping is a pure function so callers can recompute plans
// after manual corrections without re-running extraction.
package studyplan

import (
	"github.com/KalpKan/Plato/internal/model"
)

// Band maps an inclusive weight ceiling to a study lead time in days. Bands
// are ordered by ceiling; a weight falls into the first band whose ceiling
// it does not exceed.
type Band struct {
	MaxWeight float64 `json:"max_weight" mapstructure:"max_weight"`
	LeadDays  int     `json:"lead_days" mapstructure:"lead_days"`
}

// Config holds the lead-time bands and the final-exam override.
type Config struct {
	Bands []Band `json:"bands" mapstructure:"bands"`
	// FinalLeadDays applies to final exams regardless of weight.
	FinalLeadDays int `json:"final_lead_days" mapstructure:"final_lead_days"`
}

// DefaultConfig returns the standard band table: up to 5% gets 3 days,
// 10% gets 7, 20% gets 14, 30% gets 21, and anything heavier 28.
func DefaultConfig() Config {
	return Config{
		Bands: []Band{
			{MaxWeight: 5, LeadDays: 3},
			{MaxWeight: 10, LeadDays: 7},
			{MaxWeight: 20, LeadDays: 14},
			{MaxWeight: 30, LeadDays: 21},
			{MaxWeight: 100, LeadDays: 28},
		},
		FinalLeadDays: 28,
	}
}

// Generator computes study plan items.
type Generator struct {
	config Config
}

// NewGenerator creates a generator with the default bands.
func NewGenerator() *Generator {
	return &Generator{config: DefaultConfig()}
}

// NewGeneratorWithConfig creates a generator with custom bands.
func NewGeneratorWithConfig(config Config) *Generator {
	return &Generator{config: config}
}

// LeadDays returns the lead time for a task and whether the choice had to
// fall back to the most conservative band because the weight is missing.
func (g *Generator) LeadDays(task model.AssessmentTask) (days int, defaulted bool) {
	if task.Type == model.AssessmentTypeFinal {
		return g.config.FinalLeadDays, false
	}
	if !task.HasWeight() {
		return g.largestBand(), true
	}

	w := task.Weight()
	for _, b := range g.config.Bands {
		if w <= b.MaxWeight {
			return b.LeadDays, false
		}
	}
	return g.largestBand(), false
}

// Generate produces one study plan item per task that has a due datetime.
// Start dates never precede the term start. The input tasks are read only;
// a conservative lead fallback is reported on the returned item instead.
func (g *Generator) Generate(tasks []model.AssessmentTask, term *model.CourseTerm) []model.StudyPlanItem {
	var items []model.StudyPlanItem
	for _, task := range tasks {
		if task.DueDateTime == nil {
			continue
		}

		days, defaulted := g.LeadDays(task)

		start := task.DueDateTime.AddDate(0, 0, -days)
		if term != nil {
			termStart := term.StartDate.Time(task.DueDateTime.Location())
			if start.Before(termStart) {
				start = termStart
			}
		}

		items = append(items, model.StudyPlanItem{
			AssessmentRef: task.ID,
			StartStudying: start,
			Due:           *task.DueDateTime,
			DefaultedLead: defaulted,
		})
	}
	return items
}

func (g *Generator) largestBand() int {
	max := g.config.FinalLeadDays
	for _, b := range g.config.Bands {
		if b.LeadDays > max {
			max = b.LeadDays
		}
	}
	return max
}
