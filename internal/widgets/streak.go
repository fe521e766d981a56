package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
)

// Streak is a run of consecutive calendar days with an entry.
type Streak struct {
	Count int        `json:"count"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// MaxStreak returns the longest run of consecutive days in entries.
// Several entries on the same day count once. With onlyFirst the scan stops
// at the end of the first run of two or more days.
func MaxStreak(entries []model.Entry, onlyFirst bool) Streak {
	days := uniqueDays(entries)
	if len(days) == 0 {
		return Streak{}
	}

	bestStart, bestEnd, best := days[0], days[0], 1
	runStart, run := days[0], 1
	for i := 1; i < len(days); i++ {
		if model.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			if onlyFirst && run >= 2 {
				break
			}
			runStart, run = days[i], 1
		}
		if run > best {
			bestStart, bestEnd, best = runStart, days[i], run
		}
	}
	return Streak{Count: best, Start: &bestStart, End: &bestEnd}
}

// uniqueDays returns the distinct calendar days of entries, ascending.
func uniqueDays(entries []model.Entry) []time.Time {
	sorted := model.SortAscending(entries)
	var days []time.Time
	for _, e := range sorted {
		d := model.Day(e.Date)
		if len(days) > 0 && days[len(days)-1].Equal(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Streaks holds the longest scored streak ever and the one still running.
type Streaks struct {
	Longest Streak `json:"longest"`
	Current Streak `json:"current"`
}

// Streaks computes streaks over scored days. The current streak is live when
// its last day is today or yesterday.
func (e *Engine) Streaks(now time.Time) Streaks {
	now = model.Day(now)
	past := model.Between(scored(e.entries), time.Time{}, now, false, false)
	days := uniqueDays(past)
	out := Streaks{Longest: MaxStreak(past, false)}
	if len(days) == 0 {
		return out
	}

	last := days[len(days)-1]
	if model.DaysBetween(last, now) > 1 {
		return out
	}
	start := last
	count := 1
	for i := len(days) - 2; i >= 0; i-- {
		if model.DaysBetween(days[i], start) != 1 {
			break
		}
		start = days[i]
		count++
	}
	out.Current = Streak{Count: count, Start: &start, End: &last}
	return out
}
