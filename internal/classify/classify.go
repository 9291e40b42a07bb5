// Package classify assigns a lead category to notice titles using the
// fixed HRD/OD keyword vocabulary. The pattern sets are compiled once at
// startup and shared read-only; classification is deterministic and total.
package classify

import (
	"regexp"
	"strings"

	"G2BLeadMiner/internal/domain"
)

var includePatterns = []string{
	`HRD`,
	`교육`,
	`연수`,
	`훈련`,
	`강사`,
	`워크숍`,
	`세미나`,
	`코칭`,
	`리더십`,
	`직무역량`,
	`역량`,
	`조직진단`,
	`조직문화`,
	`\bOD\b`,
	`성과평가`,
	`평가제도`,
	`인사제도`,
	`컨설팅`,
}

var excludePatterns = []string{
	`시설`,
	`소방`,
	`전기`,
	`청소`,
	`급식`,
	`안전점검`,
	`조경`,
	`도로`,
}

var (
	includeRes = compileAll(includePatterns)
	excludeRes = compileAll(excludePatterns)

	odRe   = regexp.MustCompile(`(?i)조직진단|조직문화|\bOD\b|변화관리`)
	evalRe = regexp.MustCompile(`(?i)평가|성과|역량모델|직무체계|인사제도`)
)

func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + pattern)
	}
	return res
}

// Result is the classifier verdict for one title.
type Result struct {
	Category string
	Strength float64
	// Hits lists the include patterns that fired, for auditability.
	Hits []string
}

// Match classifies a notice title. Blank titles are unassigned; titles
// without any include hit are not applicable; when exclude hits are at
// least as numerous as include hits the notice is held for human review
// instead of being auto-accepted or auto-rejected.
func Match(title string) Result {
	text := strings.TrimSpace(title)
	if text == "" {
		return Result{Category: domain.CategoryUnassigned}
	}

	var includeHits []string
	for i, re := range includeRes {
		if re.MatchString(text) {
			includeHits = append(includeHits, includePatterns[i])
		}
	}

	excludeHits := 0
	for _, re := range excludeRes {
		if re.MatchString(text) {
			excludeHits++
		}
	}

	if len(includeHits) == 0 {
		return Result{Category: domain.CategoryNoMatch}
	}
	if excludeHits > 0 && len(includeHits) <= excludeHits {
		return Result{Category: domain.CategoryHold, Strength: 0.45, Hits: includeHits}
	}

	switch {
	case odRe.MatchString(text):
		return Result{Category: domain.CategoryOD, Strength: 0.84, Hits: includeHits}
	case evalRe.MatchString(text):
		return Result{Category: domain.CategoryEval, Strength: 0.78, Hits: includeHits}
	default:
		return Result{Category: domain.CategoryHRD, Strength: 0.72, Hits: includeHits}
	}
}

// Positive reports whether a category qualifies a notice as a lead.
func Positive(category string) bool {
	switch category {
	case domain.CategoryNoMatch, domain.CategoryHold, domain.CategoryUnassigned:
		return false
	default:
		return true
	}
}
