package widgets

import (
	"fmt"
	"math"
	"strconv"
)

// Trend is the direction of a metric between two periods.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// Invert flips up and down, for metrics where less is better.
func (t Trend) Invert() Trend {
	switch t {
	case TrendUp:
		return TrendDown
	case TrendDown:
		return TrendUp
	}
	return TrendSame
}

// Arrow returns the glyph shown next to a trend.
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	}
	return "→"
}

func trendOf(diff float64) Trend {
	switch {
	case diff > 0:
		return TrendUp
	case diff < 0:
		return TrendDown
	}
	return TrendSame
}

// trendWithin treats differences within ±deadband as no change.
func trendWithin(diff, deadband float64) Trend {
	if math.Abs(diff) <= deadband {
		return TrendSame
	}
	return trendOf(diff)
}

// Metric compares a value between the current and previous period.
type Metric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Diff     float64 `json:"diff"`
	Trend    Trend   `json:"trend"`
}

func newMetric(current, previous float64) Metric {
	diff := current - previous
	return Metric{Current: current, Previous: previous, Diff: diff, Trend: trendOf(diff)}
}

// PercentTrend is a percentage change ready for display.
type PercentTrend struct {
	Trend   Trend   `json:"trend"`
	Change  float64 `json:"change"`
	Display string  `json:"display"`
	Arrow   string  `json:"arrow"`
}

// FormatPercentageTrend describes the change from previous to current.
// With no previous value the display shows the current value itself rather
// than an unbounded percentage.
func FormatPercentageTrend(current, previous float64) PercentTrend {
	if previous == 0 {
		if current == 0 {
			return PercentTrend{Trend: TrendSame, Display: "0%", Arrow: TrendSame.Arrow()}
		}
		t := trendOf(current)
		raw := strconv.FormatFloat(current, 'f', -1, 64)
		if current > 0 {
			raw = "+" + raw
		}
		return PercentTrend{Trend: t, Change: current, Display: raw + "%", Arrow: t.Arrow()}
	}

	change := math.Round((current-previous)/math.Abs(previous)*1000) / 10
	t := trendOf(change)
	display := fmt.Sprintf("%.1f%%", change)
	if change > 0 {
		display = "+" + display
	} else if change == 0 {
		display = "0.0%"
	}
	return PercentTrend{Trend: t, Change: change, Display: display, Arrow: t.Arrow()}
}
