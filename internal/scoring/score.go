// Package scoring turns deadline proximity, budget magnitude, and
// recurrence signals into a single 0-100 urgency score for ranking.
package scoring

import (
	"math"
	"time"
)

// Fixed weights of the scoring blend. Agency and fit weights are held
// constant for every notice in this release.
const (
	deadlineWeight = 0.35
	budgetWeight   = 0.25
	agencyWeight   = 0.15
	repeatWeight   = 0.15
	fitWeight      = 0.10

	agencyFactor = 0.6
	fitFactor    = 0.8

	neutralComponent = 0.5
)

// Deadline timestamps arrive in several loose formats; tried in order,
// first successful parse wins.
var deadlineLayouts = []string{
	"2006-01-02 15:04",
	"200601021504",
	"2006-01-02",
	"20060102",
}

// ParseDeadline parses a loosely formatted deadline. An unparseable or
// empty value yields nil, which scores as neutral rather than failing.
func ParseDeadline(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range deadlineLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}

// Urgency computes the integer urgency score. Deadlines decay
// hyperbolically (0 days left near 1.0, 7 days left at 0.5); budgets
// count logarithmically, saturating near 10^9; absent signals score
// neutral 0.5. The result is clamped to [0, 100].
func Urgency(deadline *time.Time, budget *float64, repeat bool, now time.Time) int {
	deadlineScore := neutralComponent
	if deadline != nil {
		daysLeft := int(deadline.Sub(now).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}
		deadlineScore = 1.0 / (1.0 + float64(daysLeft)/7.0)
	}

	budgetScore := neutralComponent
	if budget != nil && *budget > 0 {
		budgetScore = math.Min(1.0, math.Log10(*budget+1.0)/9.0)
	}

	repeatScore := 0.0
	if repeat {
		repeatScore = 1.0
	}

	score := 100.0 * (deadlineWeight*deadlineScore +
		budgetWeight*budgetScore +
		agencyWeight*agencyFactor +
		repeatWeight*repeatScore +
		fitWeight*fitFactor)

	return int(math.Round(math.Max(0.0, math.Min(100.0, score))))
}
