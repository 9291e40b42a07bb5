package g2b

import "time"

// WindowMode selects the step size used to partition a query range.
type WindowMode string

const (
	ModeDaily   WindowMode = "daily"
	ModeMonthly WindowMode = "monthly"
)

// Valid reports whether the mode is one the planner understands.
func (m WindowMode) Valid() bool {
	return m == ModeDaily || m == ModeMonthly
}

// Window is one bounded sub-range of the overall query range. Both ends
// are inclusive as supplied to the API; End is the last minute of the step.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowPlanner lazily yields consecutive windows covering [start, end].
// Windows are produced in ascending chronological order, which is what
// makes last-write-wins deduplication favor the newest fetch. The
// planner is single-use; a consumed planner keeps returning false.
type WindowPlanner struct {
	cursor time.Time
	end    time.Time
	mode   WindowMode
}

// NewWindowPlanner prepares iteration over [start, end] with the given mode.
func NewWindowPlanner(start, end time.Time, mode WindowMode) *WindowPlanner {
	return &WindowPlanner{cursor: start, end: end, mode: mode}
}

// Next returns the following window, or false when the range is exhausted.
// Monthly steps roll to the first instant of the next calendar month
// before subtracting one minute, so variable month lengths and year
// rollover need no special casing. The final window is clipped to end.
func (p *WindowPlanner) Next() (Window, bool) {
	if p.cursor.After(p.end) {
		return Window{}, false
	}

	var next time.Time
	if p.mode == ModeMonthly {
		firstOfMonth := time.Date(p.cursor.Year(), p.cursor.Month(), 1, 0, 0, 0, 0, p.cursor.Location())
		next = firstOfMonth.AddDate(0, 1, 0)
	} else {
		next = p.cursor.AddDate(0, 0, 1)
	}

	windowEnd := next.Add(-time.Minute)
	if windowEnd.After(p.end) {
		windowEnd = p.end
	}

	window := Window{Start: p.cursor, End: windowEnd}
	p.cursor = next
	return window, true
}
