package assessment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KalpKan/Plato/internal/layout"
)

func proseDoc(texts ...string) *layout.Document {
	lines := make([]layout.Line, 0, len(texts))
	for i, s := range texts {
		lines = append(lines, layout.Line{
			Page:    1,
			YCenter: float64(100 + i*30),
			Blocks:  []layout.TextBlock{{Text: s, Page: 1, X0: 72, Y0: float64(100 + i*30), FontSize: 12}},
		})
	}
	return &layout.Document{Lines: lines, Flat: true}
}

func candidatesByTitle(cands []*Candidate) map[string]*Candidate {
	m := make(map[string]*Candidate, len(cands))
	for _, c := range cands {
		m[c.Title] = c
	}
	return m
}

func TestKeywordPercentKeepsMultiDigitWeightsWhole(t *testing.T) {
	// The optional title number must never claim the leading digits of the
	// weight, which would fabricate items like "Exam 3" at 0%.
	tests := []struct {
		line   string
		title  string
		weight string
	}{
		{"Midterm Exam 30%", "Exam", "30"},
		{"Final Exam 70%", "Final Exam", "70"},
		{"Final Exam 45%", "Final Exam", "45"},
		{"Quiz 3 10%", "Quiz 3", "10"},
		{"Assignment 2: 15%", "Assignment 2", "15"},
		{"final examination 45%", "final examination", "45"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ms := keywordPercent.FindAllStringSubmatch(tt.line, -1)
			require.Len(t, ms, 1)
			assert.Equal(t, tt.title, strings.TrimSpace(ms[0][1]))
			assert.Equal(t, tt.weight, ms[0][2])
		})
	}
}

func TestGenerate_MultiDigitWeightsYieldNoPhantoms(t *testing.T) {
	doc := proseDoc(
		"Midterm Exam 30%",
		"Final Exam 70%",
	)
	p := NewTextProvider(2025)

	got := p.Generate(doc, wholeDoc(len(doc.Lines)))

	require.Len(t, got, 2)
	m := candidatesByTitle(got)
	require.Contains(t, m, "Midterm Exam")
	require.Contains(t, m, "Final Exam")
	assert.InDelta(t, 30, *m["Midterm Exam"].Weight, 0.001)
	assert.InDelta(t, 70, *m["Final Exam"].Weight, 0.001)
}

func TestListItems_SubItemsExpandWhenWeightsAccountForParent(t *testing.T) {
	doc := proseDoc(
		"1. Assignments (30%) Due October 15",
		"2. Quizzes (20%)",
		"- Quiz 1 (10%)",
		"- Quiz 2 (10%)",
		"3. Final Exam (50%)",
	)
	p := NewTextProvider(2025)

	got := p.Generate(doc, wholeDoc(len(doc.Lines)))
	m := candidatesByTitle(got)

	require.Contains(t, m, "Assignments")
	require.Contains(t, m, "Quiz 1")
	require.Contains(t, m, "Quiz 2")
	require.Contains(t, m, "Final Exam")
	assert.NotContains(t, m, "Quizzes")

	assert.InDelta(t, 30, *m["Assignments"].Weight, 0.001)
	assert.InDelta(t, 10, *m["Quiz 1"].Weight, 0.001)
	assert.InDelta(t, 50, *m["Final Exam"].Weight, 0.001)

	require.NotNil(t, m["Assignments"].DueDate)
	assert.Equal(t, time.October, m["Assignments"].DueDate.Month)
	assert.Equal(t, 15, m["Assignments"].DueDate.Day)
	assert.Equal(t, 2025, m["Assignments"].DueDate.Year)
}

func TestListItems_SubItemsRetainedUnderParentWhenWeightsDoNotSum(t *testing.T) {
	doc := proseDoc(
		"1. Labs (25%)",
		"- Lab safety quiz (5%)",
	)
	p := NewTextProvider(2025)

	got := p.Generate(doc, wholeDoc(len(doc.Lines)))
	m := candidatesByTitle(got)

	require.Contains(t, m, "Labs")
	assert.NotContains(t, m, "Lab safety quiz")
	assert.InDelta(t, 25, *m["Labs"].Weight, 0.001)
}

func TestListItems_BulletWithoutParentStandsAlone(t *testing.T) {
	doc := proseDoc(
		"- Participation (10%)",
	)
	p := NewTextProvider(2025)

	got := p.Generate(doc, wholeDoc(len(doc.Lines)))
	m := candidatesByTitle(got)

	require.Contains(t, m, "Participation")
	assert.InDelta(t, 10, *m["Participation"].Weight, 0.001)
}

func TestListItems_ProseBreaksTheList(t *testing.T) {
	// The prose paragraph between the parent and the bullet ends the list, so
	// the bullet starts its own item instead of joining the parent.
	doc := proseDoc(
		"2. Quizzes (20%)",
		"Quizzes are written during the first ten minutes of class.",
		"- Quiz 1 (10%)",
	)
	p := NewTextProvider(2025)

	got := p.Generate(doc, wholeDoc(len(doc.Lines)))
	m := candidatesByTitle(got)

	require.Contains(t, m, "Quizzes")
	require.Contains(t, m, "Quiz 1")
}
