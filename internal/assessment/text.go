package assessment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KalpKan/Plato/internal/dates"
	"github.com/KalpKan/Plato/internal/layout"
	"github.com/KalpKan/Plato/internal/section"
)

// TextProvider generates candidates from prose patterns. It runs over the
// evaluation section when one was found, or the whole document otherwise,
// and exists for outlines whose grade breakdown never made it into a table.
type TextProvider struct {
	defaultYear int
}

// NewTextProvider creates a text provider.
func NewTextProvider(defaultYear int) *TextProvider {
	return &TextProvider{defaultYear: defaultYear}
}

var (
	// "Assignment 1: 25%" or "Midterm Test 25%"
	titlePercent = regexp.MustCompile(`([A-Z][A-Za-z\s]+?(?:\d+)?)\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*%`)
	// "25% - Final Exam"
	percentTitle = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*[:\-]?\s*([A-Z][A-Za-z\s]+)`)
	// Line-leading short title: "Participation 10% in-class activities"
	lineLeading = regexp.MustCompile(`(?m)^([A-Z][A-Za-z\-\s]{2,25}?)\s+(\d+(?:\.\d+)?)\s*%`)
	// Known assessment words with optional numbering, any case. The \b after
	// the title number keeps it from splitting a multi-digit weight in two.
	keywordPercent = regexp.MustCompile(`(?i)\b((?:Final\s+)?(?:Exam|Midterm|Quiz|Test|Lab|Assignment|Participation|Research|Project)(?:s|ination)?(?:\s+\d+\b)?)\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*%`)
	// "Quizzes (best 4 of 5) 2% each for up to 8%"
	upToPercent = regexp.MustCompile(`(?i)(Quiz(?:zes)?|Assignment(?:s)?|Lab(?:s)?|Test(?:s)?|Homework(?:s)?|Exercise(?:s)?)\s*\([^)]*\)[^%]*\d+%[^%]*for\s+up\s+to\s+(\d+(?:\.\d+)?)\s*%`)

	duePhrase = regexp.MustCompile(`(?i)\bdue\b[:\s]*(.+)$`)

	// "1. Assignments (30%) Due October 15"
	numberedItem = regexp.MustCompile(`^\s*\d+[\.\)]\s+([A-Za-z][^(]*?)\s*\((\d+(?:\.\d+)?)\s*%\)\s*(.*)$`)
	// "- Quiz 1 (10%)" or "a) Quiz 1 (10%)"
	bulletItem = regexp.MustCompile(`^\s*(?:[-•*]|[a-z][\.\)])\s+([A-Za-z][^(]*?)\s*\((\d+(?:\.\d+)?)\s*%\)\s*(.*)$`)
)

// listItem is one numbered or bulleted entry with a parenthesized weight.
type listItem struct {
	title  string
	weight float64
	rest   string
	line   string
}

// Generate extracts inline candidates from the section's text.
func (p *TextProvider) Generate(doc *layout.Document, eval section.Range) []*Candidate {
	text := eval.Text(doc)
	if text == "" {
		text = doc.Text()
	}
	inEval := !eval.Defaulted

	var candidates []*Candidate

	add := func(c *Candidate) {
		candidates = append(candidates, c)
	}
	have := func(title string, weight float64) bool {
		lower := strings.ToLower(title)
		for _, c := range candidates {
			existing := strings.ToLower(c.Title)
			if existing == lower {
				return true
			}
			if c.Weight != nil && *c.Weight == weight &&
				(strings.Contains(existing, lower) || strings.Contains(lower, existing)) {
				return true
			}
		}
		return false
	}

	for _, c := range p.listCandidates(text, inEval) {
		if have(c.Title, 0) {
			continue
		}
		add(c)
	}

	for _, line := range strings.Split(text, "\n") {
		for _, m := range titlePercent.FindAllStringSubmatchIndex(line, -1) {
			title := strings.TrimSpace(line[m[2]:m[3]])
			if !hasAssessmentNoun(title) || have(title, 0) {
				continue
			}
			c := p.candidate(title, line[m[4]:m[5]], line[m[0]:m[1]], inEval)
			p.attachDue(c, line[m[1]:])
			add(c)
		}

		for _, m := range percentTitle.FindAllStringSubmatchIndex(line, -1) {
			title := strings.TrimSpace(line[m[4]:m[5]])
			if !hasAssessmentNoun(title) || have(title, 0) {
				continue
			}
			c := p.candidate(title, line[m[2]:m[3]], line[m[0]:m[1]], inEval)
			p.attachDue(c, line[m[1]:])
			add(c)
		}
	}

	for _, m := range lineLeading.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[1])
		weight := parseFloat(m[2])
		if isGarbageTitle(title) || have(title, weight) {
			continue
		}
		add(p.candidate(title, m[2], m[0], inEval))
	}

	for _, m := range keywordPercent.FindAllStringSubmatch(text, -1) {
		title := titleCase(strings.TrimSpace(m[1]))
		weight := parseFloat(m[2])
		if have(title, weight) {
			continue
		}
		c := p.candidate(title, m[2], m[0], inEval)
		c.HasAssessmentNoun = true
		add(c)
	}

	for _, m := range upToPercent.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[1])
		weight := parseFloat(m[2])
		if have(title, weight) {
			continue
		}
		evidence := m[0]
		if len(evidence) > 100 {
			evidence = evidence[:100]
		}
		c := p.candidate(title, m[2], evidence, inEval)
		c.HasAssessmentNoun = true
		c.Bonus = true
		add(c)
	}

	return candidates
}

// listCandidates walks numbered list items and their bulleted sub-items. When
// the sub-item weights account for the parent's weight the sub-items become
// independent candidates and the parent row is treated as a group header;
// otherwise only the parent is emitted and the sub-items stay as evidence.
func (p *TextProvider) listCandidates(text string, inEval bool) []*Candidate {
	var out []*Candidate
	var parent *listItem
	var children []listItem

	flush := func() {
		if parent == nil {
			children = nil
			return
		}
		var sum float64
		for _, ch := range children {
			sum += ch.weight
		}
		if len(children) > 0 && abs(sum-parent.weight) <= 0.5 {
			for _, ch := range children {
				out = append(out, p.itemCandidate(ch, inEval))
			}
		} else {
			out = append(out, p.itemCandidate(*parent, inEval))
		}
		parent = nil
		children = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := numberedItem.FindStringSubmatch(line); m != nil {
			flush()
			parent = &listItem{
				title:  strings.TrimSpace(m[1]),
				weight: parseFloat(m[2]),
				rest:   m[3],
				line:   strings.TrimSpace(line),
			}
			continue
		}
		if m := bulletItem.FindStringSubmatch(line); m != nil {
			item := listItem{
				title:  strings.TrimSpace(m[1]),
				weight: parseFloat(m[2]),
				rest:   m[3],
				line:   strings.TrimSpace(line),
			}
			if parent != nil {
				children = append(children, item)
			} else {
				out = append(out, p.itemCandidate(item, inEval))
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			flush()
		}
	}
	flush()

	filtered := out[:0]
	for _, c := range out {
		if !isGarbageTitle(c.Title) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func (p *TextProvider) itemCandidate(item listItem, inEval bool) *Candidate {
	c := p.candidate(item.title, "", item.line, inEval)
	w := item.weight
	c.Weight = &w
	p.attachDue(c, item.rest)
	return c
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *TextProvider) candidate(title, weight, evidence string, inEval bool) *Candidate {
	c := &Candidate{
		Title:    title,
		Weight:   extractWeight(weight),
		Origin:   OriginText,
		Evidence: evidence,
		Bonus:    isBonus(title),

		InEvaluationSection: inEval,
		LooksLikeTitle:      true,
	}
	c.HasAssessmentNoun = hasAssessmentNoun(title)
	return c
}

// attachDue reads a trailing "due ..." clause as either a literal date or a
// relative rule.
func (p *TextProvider) attachDue(c *Candidate, rest string) {
	m := duePhrase.FindStringSubmatch(rest)
	if m == nil {
		return
	}
	clause := strings.TrimSpace(m[1])

	if d, ok := dates.ParseDate(clause, p.defaultYear); ok {
		c.DueDate = &d
		if t, ok := dates.ParseClock(clause); ok {
			c.DueTime = &t
		}
		return
	}

	lower := strings.ToLower(clause)
	for _, kw := range []string{"after", "before", "following"} {
		if strings.Contains(lower, kw) {
			c.DueRule = lower
			return
		}
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
