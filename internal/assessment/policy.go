package assessment

import (
	"fmt"
	"regexp"
	"strings"
)

// PolicyFilter rejects candidates whose percentage appears in policy prose
// ("must achieve at least 50% on the final exam") rather than a grade
// breakdown. It inspects a token window around the percentage and the shape
// of the title itself.
type PolicyFilter struct {
	windowSize int
}

// NewPolicyFilter creates a filter with the default ±12 token window.
func NewPolicyFilter() *PolicyFilter {
	return &PolicyFilter{windowSize: 12}
}

var policyTerms = map[string]bool{
	"passing": true, "pass": true, "minimum": true, "eligible": true,
	"eligibility": true, "must": true, "achieve": true, "obtain": true,
	"requirement": true, "required": true, "weighted": true, "average": true,
	"threshold": true, "fail": true, "reweighted": true, "hurdle": true,
	"grade": true, "grading": true, "least": true, "need": true, "needs": true,
}

var policyPhrases = []*regexp.Regexp{
	regexp.MustCompile(`to\s+(?:be\s+)?eligible`),
	regexp.MustCompile(`to\s+obtain`),
	regexp.MustCompile(`to\s+pass`),
	regexp.MustCompile(`must\s+achieve`),
	regexp.MustCompile(`must\s+obtain`),
	regexp.MustCompile(`must\s+have`),
	regexp.MustCompile(`passing\s+grade`),
	regexp.MustCompile(`minimum\s+(?:grade|mark|score)`),
	regexp.MustCompile(`weighted\s+average`),
	regexp.MustCompile(`at\s+least`),
	regexp.MustCompile(`will\s+be\s+reweighted`),
	regexp.MustCompile(`result\s+in`),
	regexp.MustCompile(`a\s+(?:grade|mark)\s+of`),
}

var policyStarters = []string{
	"to be", "to obtain", "to pass", "must", "should", "will be",
	"students", "you must", "a minimum", "the minimum", "minimum",
	"at least", "achieve", "eligible",
}

var sentencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:is|are|was|were|will|shall|should|must|may|can)\b.*\b(?:be|have|get|receive)\b`),
	regexp.MustCompile(`\bto\s+(?:be|have|get|receive|pass|obtain|achieve)\b`),
}

var percentPosition = regexp.MustCompile(`\d+(?:\.\d+)?%`)

// Reject reports whether the candidate is policy text rather than a graded
// item, recording the reason on the candidate when it is.
func (f *PolicyFilter) Reject(c *Candidate) bool {
	evidence := strings.ToLower(c.Evidence)

	if loc := percentPosition.FindStringIndex(evidence); loc != nil {
		if f.isPolicyContext(evidence, loc[0]) {
			c.RejectionReason = "percent appears in policy context"
			return true
		}
	}

	title := strings.ToLower(c.Title)
	for _, starter := range policyStarters {
		if strings.HasPrefix(title, starter) {
			c.RejectionReason = fmt.Sprintf("title starts with policy word %q", starter)
			return true
		}
	}

	for _, p := range sentencePatterns {
		if p.MatchString(title) {
			c.RejectionReason = "title reads as a sentence"
			return true
		}
	}

	return false
}

// isPolicyContext checks the token window around a percentage for policy
// vocabulary.
func (f *PolicyFilter) isPolicyContext(text string, percentPos int) bool {
	words := strings.Fields(text)

	wordIdx := 0
	charPos := 0
	for i, w := range words {
		if charPos+len(w) >= percentPos {
			wordIdx = i
			break
		}
		charPos += len(w) + 1
	}

	start := wordIdx - f.windowSize
	if start < 0 {
		start = 0
	}
	end := wordIdx + f.windowSize + 1
	if end > len(words) {
		end = len(words)
	}
	window := words[start:end]

	for _, w := range window {
		if policyTerms[strings.Trim(w, ".,;:()")] {
			return true
		}
	}

	windowText := strings.Join(window, " ")
	for _, p := range policyPhrases {
		if p.MatchString(windowText) {
			return true
		}
	}

	return false
}
