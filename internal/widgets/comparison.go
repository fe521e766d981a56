package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
)

// PeriodComparison compares the trailing 30 days with the 30 days before.
type PeriodComparison struct {
	Entries     Metric       `json:"entries"`
	EntriesPct  PercentTrend `json:"entries_pct"`
	WordsPerDay Metric       `json:"words_per_day"`
	WordsPct    PercentTrend `json:"words_pct"`
	AvgScore    Metric       `json:"avg_score"`
}

// ThirtyDayComparisons reports entry counts, words per day and the average
// score for [now-30d, now] against [now-60d, now-30d).
func (e *Engine) ThirtyDayComparisons(now time.Time) PeriodComparison {
	now = model.Day(now)
	cur := e.current(now, shortWindow)
	prev := e.previous(now, shortWindow)

	curCount := float64(countRecorded(cur))
	prevCount := float64(countRecorded(prev))
	curWords := float64(wordCount(cur)) / shortWindow
	prevWords := float64(wordCount(prev)) / shortWindow

	return PeriodComparison{
		Entries:     newMetric(curCount, prevCount),
		EntriesPct:  FormatPercentageTrend(curCount, prevCount),
		WordsPerDay: newMetric(curWords, prevWords),
		WordsPct:    FormatPercentageTrend(curWords, prevWords),
		AvgScore:    newMetric(e.calc.Calculate(cur, shortWindow), e.calc.Calculate(prev, shortWindow)),
	}
}
