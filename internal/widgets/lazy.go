package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
)

const (
	lazyDayMax  = 2  // a scored day at or below this is lazy
	lazyWeekMax = 10 // a workweek whose summed scores are at or below this is lazy
)

// Lazy is the share of lazy days (or workweeks) over the trailing year,
// compared with the year before.
type Lazy struct {
	Percent         float64 `json:"percent"`
	PreviousPercent float64 `json:"previous_percent"`
	Lazy            int     `json:"lazy"`
	Total           int     `json:"total"`
	Trend           Trend   `json:"trend"`
}

// LazySaturdays reports how many scored Saturdays scored 2 or lower.
func (e *Engine) LazySaturdays(now time.Time) Lazy {
	now = model.Day(now)
	return e.lazyWeekday(now, time.Saturday)
}

// LazySundays reports how many scored Sundays scored 2 or lower.
func (e *Engine) LazySundays(now time.Time) Lazy {
	now = model.Day(now)
	return e.lazyWeekday(now, time.Sunday)
}

// LazyWorkweeks reports how many Monday–Friday weeks summed to 10 or less.
// Fewer lazy workweeks is better, so the trend is inverted.
func (e *Engine) LazyWorkweeks(now time.Time) Lazy {
	now = model.Day(now)
	curLazy, curTotal := lazyWorkweeks(e.current(now, yearWindow))
	prevLazy, prevTotal := lazyWorkweeks(e.previous(now, yearWindow))
	out := newLazy(curLazy, curTotal, prevLazy, prevTotal)
	out.Trend = out.Trend.Invert()
	return out
}

func (e *Engine) lazyWeekday(now time.Time, day time.Weekday) Lazy {
	curLazy, curTotal := lazyDays(e.current(now, yearWindow), day)
	prevLazy, prevTotal := lazyDays(e.previous(now, yearWindow), day)
	return newLazy(curLazy, curTotal, prevLazy, prevTotal)
}

func newLazy(lazy, total, prevLazy, prevTotal int) Lazy {
	cur := safeDiv(float64(lazy), float64(total)) * 100
	prev := safeDiv(float64(prevLazy), float64(prevTotal)) * 100
	return Lazy{
		Percent:         cur,
		PreviousPercent: prev,
		Lazy:            lazy,
		Total:           total,
		Trend:           trendOf(cur - prev),
	}
}

func lazyDays(entries []model.Entry, day time.Weekday) (lazy, total int) {
	for _, e := range entries {
		if e.IsEmpty() || e.Date.Weekday() != day {
			continue
		}
		total++
		if e.Score <= lazyDayMax {
			lazy++
		}
	}
	return lazy, total
}

type isoWeek struct{ year, week int }

// workweekSums sums Monday–Friday scores per ISO week. Weeks without a
// scored weekday are absent.
func workweekSums(entries []model.Entry) map[isoWeek]int {
	sums := map[isoWeek]int{}
	for _, e := range entries {
		if e.IsEmpty() {
			continue
		}
		switch e.Date.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		y, w := e.Date.ISOWeek()
		sums[isoWeek{y, w}] += e.Score
	}
	return sums
}

func lazyWorkweeks(entries []model.Entry) (lazy, total int) {
	for _, sum := range workweekSums(entries) {
		total++
		if sum <= lazyWeekMax {
			lazy++
		}
	}
	return lazy, total
}
