package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
)

const highScoreMin = 4

// HighScoreGap is the mean number of days between scores of 4 or more.
// Days are nil when a window has fewer than two high scores.
type HighScoreGap struct {
	Days         *float64 `json:"days"`
	PreviousDays *float64 `json:"previous_days"`
	Trend        Trend    `json:"trend"`
}

// HighScoreGap compares the mean gap between high scores over the trailing
// year with the year before. A shorter gap trends up.
func (e *Engine) HighScoreGap(now time.Time) HighScoreGap {
	now = model.Day(now)
	cur := meanHighScoreGap(e.current(now, yearWindow))
	prev := meanHighScoreGap(e.previous(now, yearWindow))
	out := HighScoreGap{Days: cur, PreviousDays: prev, Trend: TrendSame}
	if cur != nil && prev != nil {
		out.Trend = trendOf(*prev - *cur)
	}
	return out
}

func meanHighScoreGap(entries []model.Entry) *float64 {
	var high []model.Entry
	for _, e := range entries {
		if e.Score >= highScoreMin {
			high = append(high, e)
		}
	}
	days := uniqueDays(high)
	if len(days) < 2 {
		return nil
	}
	total := 0
	for i := 1; i < len(days); i++ {
		total += model.DaysBetween(days[i-1], days[i])
	}
	mean := float64(total) / float64(len(days)-1)
	return &mean
}

// DaysSince reports how long ago a score value was last recorded.
type DaysSince struct {
	Score    int        `json:"score"`
	Days     *int       `json:"days"`
	LastDate *time.Time `json:"last_date,omitempty"`
	Trend    Trend      `json:"trend"`
}

// DaysSinceScore finds the latest entry scored value on or before now.
//
// The trend compares the latest occurrence inside [now-30d, now] with the
// latest inside [now-60d, now-30d), each measured from its window's end.
// For scores of 3 and above a shorter wait trends up; for 1 and 2 the
// polarity is inverted.
func (e *Engine) DaysSinceScore(value int, now time.Time) DaysSince {
	now = model.Day(now)
	out := DaysSince{Score: value, Trend: TrendSame}
	if last := latestScored(model.Between(e.entries, time.Time{}, now, false, false), value); last != nil {
		days := model.DaysBetween(*last, now)
		out.Days = &days
		out.LastDate = last
	}

	cur := latestScored(e.current(now, shortWindow), value)
	prev := latestScored(e.previous(now, shortWindow), value)
	var t Trend
	switch {
	case cur != nil && prev != nil:
		curElapsed := model.DaysBetween(*cur, now)
		prevElapsed := model.DaysBetween(*prev, daysBefore(now, shortWindow))
		t = trendOf(float64(prevElapsed - curElapsed))
	case cur != nil:
		t = TrendUp
	case prev != nil:
		t = TrendDown
	default:
		t = TrendSame
	}
	if value < 3 {
		t = t.Invert()
	}
	out.Trend = t
	return out
}

func latestScored(entries []model.Entry, value int) *time.Time {
	var last *time.Time
	for _, e := range entries {
		if e.Score != value {
			continue
		}
		if last == nil || e.Date.After(*last) {
			d := model.Day(e.Date)
			last = &d
		}
	}
	return last
}
