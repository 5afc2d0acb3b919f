package assessment

import (
	"regexp"
	"sort"
	"strings"
)

// SelectorConfig bounds the constrained selection. Weights are percentages.
type SelectorConfig struct {
	// Target is the weight total selection aims for.
	Target float64 `json:"target" mapstructure:"target"`
	// IdealTolerance is the band around Target considered correct.
	IdealTolerance float64 `json:"ideal_tolerance" mapstructure:"ideal_tolerance"`
	// AcceptableTolerance is the wider band that avoids a review flag.
	AcceptableTolerance float64 `json:"acceptable_tolerance" mapstructure:"acceptable_tolerance"`
}

// DefaultSelectorConfig targets 100% with the 90-110 ideal and 80-120
// acceptable bands.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Target:              100,
		IdealTolerance:      10,
		AcceptableTolerance: 20,
	}
}

// Result is the outcome of constrained selection.
type Result struct {
	// Selected are the candidates chosen as the course's graded items.
	Selected []*Candidate `json:"selected"`
	// Alternates are plausible candidates excluded by the weight constraint.
	// They are surfaced so a reviewer can swap them in.
	Alternates []*Candidate `json:"alternates,omitempty"`
	// Rejected are candidates dropped with a recorded reason.
	Rejected []*Candidate `json:"rejected,omitempty"`

	TotalWeight float64 `json:"total_weight"`
	// WithinBand is false when the selected total falls outside the
	// acceptable band; downstream marks the whole extraction for review.
	WithinBand bool `json:"within_band"`
}

// Selector chooses the candidate subset whose weights best approach the
// target total.
type Selector struct {
	config SelectorConfig
}

// NewSelector creates a selector with default bands.
func NewSelector() *Selector {
	return &Selector{config: DefaultSelectorConfig()}
}

// NewSelectorWithConfig creates a selector with custom bands.
func NewSelectorWithConfig(config SelectorConfig) *Selector {
	return &Selector{config: config}
}

// Select deduplicates, collapses grouped totals, and greedily picks
// candidates by descending score without exceeding the target plus the
// acceptable tolerance. Bonus items ride along outside the weight budget.
// Selection is deterministic and idempotent: running it on its own output
// returns the same set.
func (s *Selector) Select(candidates []*Candidate) Result {
	var result Result
	if len(candidates) == 0 {
		result.WithinBand = true
		return result
	}

	var core, bonus []*Candidate
	for _, c := range candidates {
		switch {
		case c.RejectionReason != "":
			result.Rejected = append(result.Rejected, c)
		case c.Bonus:
			bonus = append(bonus, c)
		default:
			core = append(core, c)
		}
	}

	core = s.deduplicate(core)
	core = s.collapseGroupTotals(core, &result)

	coreTotal := weightSum(core)

	// At or under the target band nothing needs trimming.
	if coreTotal <= s.config.Target+s.config.IdealTolerance {
		result.Selected = append(core, bonus...)
		result.TotalWeight = coreTotal
		result.WithinBand = s.withinAcceptable(coreTotal)
		return result
	}

	// Over-extraction: greedily take the best-scored candidates that fit.
	ranked := make([]*Candidate, len(core))
	copy(ranked, core)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return weightOf(ranked[i]) > weightOf(ranked[j])
	})

	ceiling := s.config.Target + s.config.AcceptableTolerance
	var total float64
	for _, c := range ranked {
		w := weightOf(c)
		if total+w <= ceiling {
			result.Selected = append(result.Selected, c)
			total += w
		} else {
			result.Alternates = append(result.Alternates, c)
		}
	}

	result.Selected = append(result.Selected, bonus...)
	result.TotalWeight = total
	result.WithinBand = s.withinAcceptable(total)
	return result
}

// deduplicate keeps one candidate per normalized title. The winner is the
// duplicate carrying both a due date and a weight, then the higher score,
// then the earlier page.
func (s *Selector) deduplicate(candidates []*Candidate) []*Candidate {
	best := make(map[string]*Candidate)
	var order []string

	for _, c := range candidates {
		key := dedupKey(c.Title)
		existing, ok := best[key]
		if !ok {
			best[key] = c
			order = append(order, key)
			continue
		}
		if betterDuplicate(c, existing) {
			best[key] = c
		}
	}

	out := make([]*Candidate, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func betterDuplicate(c, existing *Candidate) bool {
	cComplete := c.DueDate != nil && c.HasWeight()
	eComplete := existing.DueDate != nil && existing.HasWeight()
	if cComplete != eComplete {
		return cComplete
	}
	if c.Score != existing.Score {
		return c.Score > existing.Score
	}
	return false
}

var pluralDigits = regexp.MustCompile(`\s*#\s*$`)

type group struct {
	sum   float64
	count int
}

// collapseGroupTotals drops a parent row whose weight equals the sum of its
// numbered children ("Quizzes 20%" above "Quiz 1".."Quiz 4" at 5% each).
func (s *Selector) collapseGroupTotals(candidates []*Candidate, result *Result) []*Candidate {
	children := make(map[string]*group)
	for _, c := range candidates {
		norm := NormalizeTitle(c.Title)
		if !strings.HasSuffix(norm, "#") {
			continue
		}
		base := strings.TrimSpace(pluralDigits.ReplaceAllString(norm, ""))
		g, ok := children[base]
		if !ok {
			g = &group{}
			children[base] = g
		}
		g.sum += weightOf(c)
		g.count++
	}

	var out []*Candidate
	for _, c := range candidates {
		norm := NormalizeTitle(c.Title)
		if !strings.HasSuffix(norm, "#") && c.HasWeight() && isGroupParent(norm, children, *c.Weight) {
			c.RejectionReason = "grouped total of numbered items"
			result.Rejected = append(result.Rejected, c)
			continue
		}
		out = append(out, c)
	}
	return out
}

// isGroupParent matches a plural parent title ("quizzes") against a numbered
// child base ("quiz") whose weights sum to the parent's weight.
func isGroupParent(norm string, children map[string]*group, weight float64) bool {
	for base, g := range children {
		if g.count < 2 || g.sum != weight {
			continue
		}
		if strings.HasPrefix(norm, base) && len(norm)-len(base) <= 3 {
			return true
		}
	}
	return false
}

func (s *Selector) withinAcceptable(total float64) bool {
	return total >= s.config.Target-s.config.AcceptableTolerance &&
		total <= s.config.Target+s.config.AcceptableTolerance
}

func weightOf(c *Candidate) float64 {
	if c.Weight == nil {
		return 0
	}
	return *c.Weight
}

// dedupKey is like NormalizeTitle but keeps digits, so "Assignment 1" and
// "Assignment 2" remain distinct while repeated extractions of the same item
// collapse.
func dedupKey(title string) string {
	norm := strings.ToLower(strings.TrimSpace(title))
	norm = inClassPrefix.ReplaceAllString(norm, "")
	return strings.Join(strings.Fields(norm), " ")
}

func weightSum(candidates []*Candidate) float64 {
	var total float64
	for _, c := range candidates {
		total += weightOf(c)
	}
	return total
}
