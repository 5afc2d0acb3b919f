package studyplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KalpKan/Plato/internal/model"
)

func TestLeadDays_WeightBands(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name   string
		weight float64
		want   int
	}{
		{"tiny quiz", 3, 3},
		{"band edge five", 5, 3},
		{"eight percent", 8, 7},
		{"fifteen percent", 15, 14},
		{"quarter", 25, 21},
		{"forty-five percent", 45, 28},
		{"full weight", 100, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.AssessmentTask{
				Type:          model.AssessmentTypeAssignment,
				WeightPercent: model.Float64Ptr(tt.weight),
			}
			days, defaulted := g.LeadDays(task)
			assert.Equal(t, tt.want, days)
			assert.False(t, defaulted)
		})
	}
}

func TestLeadDays_FinalOverridesWeight(t *testing.T) {
	g := NewGenerator()

	task := model.AssessmentTask{
		Type:          model.AssessmentTypeFinal,
		WeightPercent: model.Float64Ptr(2),
	}
	days, defaulted := g.LeadDays(task)
	assert.Equal(t, 28, days)
	assert.False(t, defaulted)
}

func TestLeadDays_MissingWeightIsConservative(t *testing.T) {
	g := NewGenerator()

	days, defaulted := g.LeadDays(model.AssessmentTask{Type: model.AssessmentTypeQuiz})
	assert.Equal(t, 28, days)
	assert.True(t, defaulted)
}

func TestGenerate_ComputesStartDates(t *testing.T) {
	g := NewGenerator()
	due := time.Date(2025, time.November, 10, 23, 59, 0, 0, time.UTC)
	tasks := []model.AssessmentTask{
		{
			ID:            "quiz-2",
			Type:          model.AssessmentTypeQuiz,
			WeightPercent: model.Float64Ptr(8),
			DueDateTime:   &due,
		},
	}
	term := &model.CourseTerm{
		StartDate: model.Date{Year: 2025, Month: time.September, Day: 1},
		EndDate:   model.Date{Year: 2025, Month: time.December, Day: 15},
		Timezone:  "UTC",
	}

	items := g.Generate(tasks, term)

	require.Len(t, items, 1)
	assert.Equal(t, "quiz-2", items[0].AssessmentRef)
	assert.Equal(t, due.AddDate(0, 0, -7), items[0].StartStudying)
	assert.Equal(t, due, items[0].Due)
}

func TestGenerate_ClampsToTermStart(t *testing.T) {
	g := NewGenerator()
	due := time.Date(2025, time.September, 5, 23, 59, 0, 0, time.UTC)
	tasks := []model.AssessmentTask{
		{
			ID:            "final",
			Type:          model.AssessmentTypeFinal,
			WeightPercent: model.Float64Ptr(45),
			DueDateTime:   &due,
		},
	}
	term := &model.CourseTerm{
		StartDate: model.Date{Year: 2025, Month: time.September, Day: 1},
		EndDate:   model.Date{Year: 2025, Month: time.December, Day: 15},
		Timezone:  "UTC",
	}

	items := g.Generate(tasks, term)

	require.Len(t, items, 1)
	assert.Equal(t, term.StartDate.Time(time.UTC), items[0].StartStudying,
		"start studying must not precede the term")
}

func TestGenerate_SkipsTasksWithoutDueDate(t *testing.T) {
	g := NewGenerator()
	tasks := []model.AssessmentTask{
		{ID: "unresolved", DueRule: "24 hours after lab"},
	}

	items := g.Generate(tasks, nil)
	assert.Empty(t, items)
}

func TestGenerate_MissingWeightFlagsItem(t *testing.T) {
	g := NewGenerator()
	due := time.Date(2025, time.October, 20, 23, 59, 0, 0, time.UTC)
	tasks := []model.AssessmentTask{
		{ID: "mystery", Type: model.AssessmentTypeAssignment, DueDateTime: &due},
	}

	items := g.Generate(tasks, nil)

	require.Len(t, items, 1)
	assert.True(t, items[0].DefaultedLead)
	assert.Equal(t, due.AddDate(0, 0, -28), items[0].StartStudying)
}

func TestGenerate_DoesNotMutateTasks(t *testing.T) {
	g := NewGenerator()
	due := time.Date(2025, time.October, 20, 23, 59, 0, 0, time.UTC)
	tasks := []model.AssessmentTask{
		{ID: "mystery", Type: model.AssessmentTypeAssignment, DueDateTime: &due},
		{ID: "quiz-1", Type: model.AssessmentTypeQuiz, WeightPercent: model.Float64Ptr(10), DueDateTime: &due},
	}

	items := g.Generate(tasks, nil)

	require.Len(t, items, 2)
	assert.True(t, items[0].DefaultedLead)
	assert.False(t, items[1].DefaultedLead)
	for _, task := range tasks {
		assert.False(t, task.NeedsReview, "generation must leave the input tasks untouched")
	}
}
