package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
)

// Memory is a past entry on today's month and day.
type Memory struct {
	Entry    model.Entry `json:"entry"`
	YearsAgo int         `json:"years_ago"`
}

// OnThisDay returns entries from earlier years on now's month and day,
// newest first.
func (e *Engine) OnThisDay(now time.Time) []Memory {
	now = model.Day(now)
	var out []Memory
	for _, en := range model.SortDescending(e.entries) {
		if en.Date.Year() >= now.Year() || en.Date.Month() != now.Month() || en.Date.Day() != now.Day() {
			continue
		}
		out = append(out, Memory{Entry: en, YearsAgo: now.Year() - en.Date.Year()})
	}
	return out
}

// Bucket is one score's share of a distribution.
type Bucket struct {
	Score   int     `json:"score"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution is a histogram of scores 1 to 5.
type Distribution struct {
	Days    int      `json:"days"`
	Total   int      `json:"total"`
	Buckets []Bucket `json:"buckets"`
}

// ScoreDistribution counts scores over [now-days, now]. days <= 0 covers the
// whole diary.
func (e *Engine) ScoreDistribution(now time.Time, days int) Distribution {
	now = model.Day(now)
	var entries []model.Entry
	if days > 0 {
		entries = e.current(now, days)
	} else {
		entries = model.Between(e.entries, time.Time{}, now, false, false)
	}

	counts := make([]int, model.MaxScore+1)
	total := 0
	for _, en := range entries {
		if en.Score < model.MinScore || en.Score > model.MaxScore {
			continue
		}
		counts[en.Score]++
		total++
	}

	d := Distribution{Days: days, Total: total}
	for s := model.MinScore; s <= model.MaxScore; s++ {
		d.Buckets = append(d.Buckets, Bucket{
			Score:   s,
			Count:   counts[s],
			Percent: safeDiv(float64(counts[s]), float64(total)) * 100,
		})
	}
	return d
}
