package assessment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KalpKan/Plato/internal/dates"
	"github.com/KalpKan/Plato/internal/layout"
	"github.com/KalpKan/Plato/internal/model"
	"github.com/KalpKan/Plato/internal/section"
)

// TableProvider generates candidates from detected and reconstructed tables.
type TableProvider struct {
	defaultYear int
}

// NewTableProvider creates a table provider. defaultYear resolves dates
// written without a year.
func NewTableProvider(defaultYear int) *TableProvider {
	return &TableProvider{defaultYear: defaultYear}
}

var assessmentTableKeywords = []string{
	"assessment", "evaluation", "grading", "weight", "%",
	"grade", "component", "worth", "weighting",
}

// columnRoles maps header keywords to semantic columns.
var (
	nameColumnKeywords   = []string{"assessment", "component", "item", "task", "name", "activity"}
	weightColumnKeywords = []string{"weight", "%", "worth", "value", "percentage"}
	formatColumnKeywords = []string{"format", "type", "mode", "delivery"}
)

// Generate extracts one candidate per qualifying table row.
func (p *TableProvider) Generate(doc *layout.Document, eval section.Range) []*Candidate {
	var candidates []*Candidate

	for _, table := range doc.Tables {
		if !isAssessmentTable(table) {
			continue
		}

		cols := mapColumns(table.Headers)
		inEval := !eval.Defaulted && eval.ContainsTable(doc, table)

		origin := OriginTable
		if table.Origin == layout.TableOriginReconstructed {
			origin = OriginReconstructedTable
		}

		var prev *Candidate
		for _, row := range table.Rows[1:] {
			if cols.name >= len(row) {
				continue
			}

			title := cleanCell(row[cols.name])

			// A row whose name cell is empty continues the row above it.
			if title == "" && prev != nil {
				prev.Evidence += " | " + strings.Join(row, " | ")
				p.fillFromRow(prev, row, cols)
				continue
			}

			if len(title) < 3 || isSummaryRow(title) || isGarbageTitle(title) {
				continue
			}

			c := &Candidate{
				Title:    title,
				Origin:   origin,
				Page:     table.Page,
				Evidence: strings.Join(row, " | "),
				Bonus:    isBonus(title),
				InTable:  true,

				HasAssessmentNoun:   hasAssessmentNoun(title),
				InEvaluationSection: inEval,
				LooksLikeTitle:      true,
			}
			p.fillFromRow(c, row, cols)

			candidates = append(candidates, c)
			prev = c
		}
	}

	return candidates
}

// fillFromRow populates weight, due, and format information from mapped
// columns, keeping values already present.
func (p *TableProvider) fillFromRow(c *Candidate, row []string, cols columnMap) {
	if c.Weight == nil && cols.weight >= 0 && cols.weight < len(row) {
		c.Weight = extractWeight(row[cols.weight])
	}
	if c.DueDate == nil && c.DueRule == "" && cols.date >= 0 && cols.date < len(row) {
		p.fillDue(c, row[cols.date])
	}
	if c.FormatRaw == "" && cols.format >= 0 && cols.format < len(row) {
		c.FormatRaw = strings.TrimSpace(row[cols.format])
	}
}

// fillDue classifies a date cell as either a literal date or a relative rule.
func (p *TableProvider) fillDue(c *Candidate, cell string) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return
	}

	lower := strings.ToLower(cell)
	for _, kw := range []string{"after", "before", "following", "hrs", "hours", "days", "week"} {
		if strings.Contains(lower, kw) {
			c.DueRule = lower
			return
		}
	}

	if d, ok := dates.ParseDate(cell, p.defaultYear); ok {
		c.DueDate = &d
		if t, ok := dates.ParseClock(cell); ok {
			c.DueTime = &t
		}
	}
}

func isAssessmentTable(t layout.Table) bool {
	if len(t.Headers) == 0 {
		return false
	}
	header := strings.ToLower(strings.Join(t.Headers, " "))
	for _, kw := range assessmentTableKeywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

type columnMap struct {
	name   int
	weight int
	date   int
	format int
}

// mapColumns assigns semantic roles to table columns by header keywords. The
// first column is the name column when no header claims the role; "due"
// headers win over generic "date" headers.
func mapColumns(headers []string) columnMap {
	cols := columnMap{name: -1, weight: -1, date: -1, format: -1}

	for idx, header := range headers {
		lower := strings.ToLower(header)

		switch {
		case cols.name < 0 && containsAny(lower, nameColumnKeywords):
			cols.name = idx
		case cols.weight < 0 && containsAny(lower, weightColumnKeywords):
			cols.weight = idx
		case strings.Contains(lower, "due"):
			cols.date = idx
		case cols.date < 0 && strings.Contains(lower, "date"):
			cols.date = idx
		case cols.format < 0 && containsAny(lower, formatColumnKeywords):
			cols.format = idx
		}
	}

	if cols.name < 0 {
		cols.name = 0
	}
	return cols
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var weightValue = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?`)

// extractWeight reads a percentage in (0, 100] from a cell.
func extractWeight(cell string) *float64 {
	m := weightValue.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 || value > 100 {
		return nil
	}
	return model.Float64Ptr(value)
}
