package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
)

// Coverage is the share of days with an entry over the trailing year.
type Coverage struct {
	Percent  float64      `json:"percent"`
	Entries  int          `json:"entries"`
	Days     int          `json:"days"`
	Previous float64      `json:"previous"`
	Change   PercentTrend `json:"change"`
}

// Coverage reports the percentage of days covered in the trailing 365 days,
// starting no earlier than the first entry, compared with the same figure
// thirty days ago.
func (e *Engine) Coverage(now time.Time) Coverage {
	now = model.Day(now)
	pct, entries, days := e.coverageAt(now)
	prev, _, _ := e.coverageAt(daysBefore(now, shortWindow))
	return Coverage{
		Percent:  pct,
		Entries:  entries,
		Days:     days,
		Previous: prev,
		Change:   FormatPercentageTrend(pct, prev),
	}
}

func (e *Engine) coverageAt(end time.Time) (pct float64, entries, days int) {
	var first time.Time
	for _, en := range e.entries {
		if recorded(en) {
			first = model.Day(en.Date)
			break
		}
	}
	if first.IsZero() || first.After(end) {
		return 0, 0, 0
	}

	start := model.Day(daysBefore(end, yearWindow-1))
	if first.After(start) {
		start = first
	}
	days = model.DaysBetween(start, end) + 1
	entries = countRecorded(model.Between(e.entries, start, end, false, false))
	return safeDiv(float64(entries), float64(days)) * 100, entries, days
}
