// Package course extracts course identity (code, title), term boundaries,
// and timetabled meeting sections from an analyzed outline.
package course

import (
	"regexp"
	"sort"
	"strings"

	"github.com/KalpKan/Plato/internal/layout"
)

// courseCodePattern matches codes like "CS 2212", "CHEM-1301A", "BIOL 3316A/B".
var courseCodePattern = regexp.MustCompile(`\b([A-Z]{2,5})\s*[\-\/]?\s*(\d{3,4}[A-Z]?(?:/[A-Z])?)\b`)

// negativeKeywords mark text that belongs to letterhead or boilerplate, not
// a course title.
var negativeKeywords = []string{
	"course outline", "syllabus", "faculty of", "department of",
	"university", "western", "school of", "course information",
	"fall 2", "winter 2", "summer 2", "academic year",
	"www.", "http", "@", "email", "phone", "office hours",
	"instructor", "professor", "dr.", "outline", "calendar",
	"department", "faculty", "engineering", "sciences", "science",
	"arts", "humanities", "london", "ontario", "canada",
	"academic", "information", "acknowledgment", "acknowledgement",
}

// titleWords are vocabulary that strongly suggests a real course title.
var titleWords = []string{
	"introduction", "methods", "analysis", "theory", "principles",
	"fundamentals", "advanced", "applied", "computational", "organic",
	"inorganic", "biochemistry", "physiology", "anatomy", "calculus",
	"algebra", "statistics", "programming", "systems", "design",
}

var singleWordGeneric = map[string]bool{
	"department": true, "faculty": true, "engineering": true,
	"sciences": true, "science": true, "academic": true,
	"information": true, "arts": true, "humanities": true, "medicine": true,
}

var (
	allowedTitleChars = regexp.MustCompile(`^[A-Za-z\s\-\:&,\'\"\(\)]+$`)
	hasRealWord       = regexp.MustCompile(`[A-Za-z]{3,}`)
)

// titleCandidate carries the layout features used to rank a block as the
// course title.
type titleCandidate struct {
	text     string
	fontSize float64
	bold     bool

	nearCode     bool
	inTopThird   bool
	allowedChars bool
	negative     bool

	score float64
}

// InfoExtractor finds the course code and title on the first page using
// layout-based ranking.
type InfoExtractor struct{}

// NewInfoExtractor creates an info extractor.
func NewInfoExtractor() *InfoExtractor {
	return &InfoExtractor{}
}

// Extract returns the course code and title, either of which may be empty
// when nothing plausible was found.
func (e *InfoExtractor) Extract(doc *layout.Document) (code, title string) {
	blocks := firstPageBlocks(doc)
	if len(blocks) == 0 {
		return "", ""
	}

	code, codeY, codeFound := extractCode(blocks)

	candidates := e.findTitleCandidates(blocks, codeFound, codeY)
	if len(candidates) == 0 {
		return code, ""
	}

	avgFont := averageFont(blocks)
	for i := range candidates {
		scoreCandidate(&candidates[i], avgFont)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if candidates[0].score < 0.3 {
		return code, ""
	}
	return code, candidates[0].text
}

func firstPageBlocks(doc *layout.Document) []layout.TextBlock {
	var blocks []layout.TextBlock
	for _, line := range doc.Lines {
		if line.Page != 1 {
			continue
		}
		blocks = append(blocks, line.Blocks...)
	}
	return blocks
}

func extractCode(blocks []layout.TextBlock) (code string, y float64, found bool) {
	for _, b := range blocks {
		if m := courseCodePattern.FindStringSubmatch(b.Text); m != nil {
			return m[1] + " " + m[2], b.Y0, true
		}
	}
	return "", 0, false
}

func (e *InfoExtractor) findTitleCandidates(blocks []layout.TextBlock, codeFound bool, codeY float64) []titleCandidate {
	var maxY float64
	for _, b := range blocks {
		if b.Y1 > maxY {
			maxY = b.Y1
		}
	}
	if maxY == 0 {
		maxY = 800
	}
	topThird := maxY / 3

	var candidates []titleCandidate
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if len(text) < 8 || len(text) > 120 {
			continue
		}
		if !hasRealWord.MatchString(text) {
			continue
		}

		lower := strings.ToLower(text)
		negative := false
		for _, kw := range negativeKeywords {
			if strings.Contains(lower, kw) {
				negative = true
				break
			}
		}

		candidates = append(candidates, titleCandidate{
			text:         text,
			fontSize:     b.FontSize,
			bold:         b.Bold,
			nearCode:     codeFound && abs(b.Y0-codeY) < 100,
			inTopThird:   b.Y0 < topThird,
			allowedChars: allowedTitleChars.MatchString(text),
			negative:     negative,
		})
	}
	return candidates
}

// scoreCandidate combines the layout and vocabulary features into a rank.
func scoreCandidate(c *titleCandidate, avgFont float64) {
	var score float64
	lower := strings.ToLower(strings.TrimSpace(c.text))
	words := strings.Fields(c.text)

	if c.negative {
		score -= 0.8
	}
	if len(words) == 1 && singleWordGeneric[lower] {
		score -= 1.0
	}

	if avgFont > 0 {
		switch {
		case c.fontSize > avgFont*1.3:
			score += 0.3
		case c.fontSize > avgFont*1.1:
			score += 0.15
		}
	}
	if c.bold {
		score += 0.15
	}
	if c.nearCode {
		score += 0.25
	}
	if c.inTopThird {
		score += 0.15
	}
	if c.allowedChars {
		score += 0.1
	}
	if len(c.text) >= 8 && len(c.text) <= 120 {
		score += 0.1
	}
	if len(words) >= 2 && c.text[0] >= 'A' && c.text[0] <= 'Z' {
		score += 0.1
	}
	for _, tw := range titleWords {
		if strings.Contains(lower, tw) {
			score += 0.25
			break
		}
	}

	if len(words) > 12 || strings.HasSuffix(c.text, ".") {
		score -= 0.2
	}
	if c.text == strings.ToUpper(c.text) && len(words) <= 2 {
		score -= 0.15
	}

	c.score = score
}

func averageFont(blocks []layout.TextBlock) float64 {
	var total float64
	var count int
	for _, b := range blocks {
		if b.FontSize > 0 {
			total += b.FontSize
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
