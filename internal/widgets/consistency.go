package widgets

import (
	"math"
	"time"

	"github.com/rcliao/faveday/internal/model"
)

const (
	perfectConsistency  = 5.0
	consistencyDeadband = 0.1
)

// Consistency is 2/stddev of the scores over the trailing year, compared with
// the year before.
type Consistency struct {
	Current        float64 `json:"current"`
	Previous       float64 `json:"previous"`
	StdDev         float64 `json:"std_dev"`
	PreviousStdDev float64 `json:"previous_std_dev"`
	Trend          Trend   `json:"trend"`
}

// Consistency reports how steady scores are. A window with identical scores
// is perfectly consistent (5.0); an empty window is 0.
func (e *Engine) Consistency(now time.Time) Consistency {
	now = model.Day(now)
	cur, curStd := e.consistencyOf(e.current(now, yearWindow))
	prev, prevStd := e.consistencyOf(e.previous(now, yearWindow))
	return Consistency{
		Current:        cur,
		Previous:       prev,
		StdDev:         curStd,
		PreviousStdDev: prevStd,
		Trend:          trendWithin(cur-prev, consistencyDeadband),
	}
}

func (e *Engine) consistencyOf(entries []model.Entry) (value, stddev float64) {
	scores := e.calc.Prepare(entries)
	if len(scores) == 0 {
		return 0, 0
	}
	mean := e.calc.Average(entries, 0)
	var sum float64
	for _, s := range scores {
		sum += (s - mean) * (s - mean)
	}
	stddev = math.Sqrt(sum / float64(len(scores)))
	if stddev == 0 {
		return perfectConsistency, 0
	}
	return 2.0 / stddev, stddev
}

// LifeQuality is the quality-weighted score per day over the trailing 30
// days against the 30 before.
type LifeQuality struct {
	Metric
	Entries         int `json:"entries"`
	PreviousEntries int `json:"previous_entries"`
}

// LifeQuality normalises the weighted quality to a daily rate by dividing
// by the window length rather than the number of entries.
func (e *Engine) LifeQuality(now time.Time) LifeQuality {
	now = model.Day(now)
	cur := e.current(now, shortWindow)
	prev := e.previous(now, shortWindow)
	curN := len(e.calc.Prepare(cur))
	prevN := len(e.calc.Prepare(prev))
	return LifeQuality{
		Metric: newMetric(
			e.calc.Quality(cur)*float64(curN)/shortWindow,
			e.calc.Quality(prev)*float64(prevN)/shortWindow,
		),
		Entries:         curN,
		PreviousEntries: prevN,
	}
}
