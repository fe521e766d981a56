// Package tagcache builds and queries per-tag usage statistics across the
// whole diary. The table is a derived cache: it is always rebuilt from
// entries in full and may be discarded at any time.
package tagcache

import (
	"strings"
	"time"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/tags"
)

// TagStats is the persisted summary of one tag.
type TagStats struct {
	Name           string      `json:"name"`
	OriginalName   string      `json:"original_name"`
	IsPerson       bool        `json:"is_person"`
	TotalUses      int         `json:"total_uses"`
	AvgScore       float64     `json:"avg_score"`
	YearStats      map[int]int `json:"year_stats"`
	PeakYear       int         `json:"peak_year"`
	PeakYearCount  int         `json:"peak_year_count"`
	FirstUsage     time.Time   `json:"first_usage"`
	LastUsage      time.Time   `json:"last_usage"`
	RecentActivity bool        `json:"recent_activity"`
}

// YearsSeen returns the number of distinct years the tag was used in.
func (s TagStats) YearsSeen() int {
	return len(s.YearStats)
}

// MonthlyAverage returns historical uses per month over the years the tag
// was seen.
func (s TagStats) MonthlyAverage() float64 {
	years := s.YearsSeen()
	if years == 0 {
		return 0
	}
	return float64(s.TotalUses) / float64(years) / 12
}

// Table maps lower-cased tag names to their statistics.
type Table map[string]TagStats

// accumulator collects raw occurrences of one tag during a build.
type accumulator struct {
	name         string
	originalName string
	isPerson     bool
	uses         int
	scores       []float64
	yearStats    map[int]int
	yearOrder    []int
	first        time.Time
	last         time.Time
}

func (a *accumulator) add(e model.Entry, person bool) {
	a.uses++
	a.isPerson = a.isPerson || person
	a.scores = append(a.scores, float64(e.Score))

	year := e.Date.Year()
	if _, ok := a.yearStats[year]; !ok {
		a.yearOrder = append(a.yearOrder, year)
	}
	a.yearStats[year]++

	if a.first.IsZero() || e.Date.Before(a.first) {
		a.first = e.Date
	}
	if a.last.IsZero() || e.Date.After(a.last) {
		a.last = e.Date
	}
}

func (a *accumulator) summary(now time.Time) TagStats {
	var sum float64
	for _, s := range a.scores {
		sum += s
	}
	avg := 0.0
	if a.uses > 0 {
		avg = sum / float64(a.uses)
	}

	peakYear, peakCount := 0, 0
	for _, y := range a.yearOrder {
		if c := a.yearStats[y]; c > peakCount {
			peakYear, peakCount = y, c
		}
	}

	return TagStats{
		Name:           a.name,
		OriginalName:   a.originalName,
		IsPerson:       a.isPerson,
		TotalUses:      a.uses,
		AvgScore:       avg,
		YearStats:      a.yearStats,
		PeakYear:       peakYear,
		PeakYearCount:  peakCount,
		FirstUsage:     a.first,
		LastUsage:      a.last,
		RecentActivity: !a.last.IsZero() && a.last.Year() >= now.Year()-1,
	}
}

// Build aggregates every tag occurrence in entries. RecentActivity is
// evaluated against now once, at build time.
func Build(entries []model.Entry, now time.Time) Table {
	accs := map[string]*accumulator{}
	for _, e := range entries {
		for _, o := range tags.Extract(e.Notes) {
			name := o.Name()
			acc, ok := accs[name]
			if !ok {
				acc = &accumulator{name: name, originalName: o.Word, yearStats: map[int]int{}}
				accs[name] = acc
			}
			acc.add(e, o.IsPerson())
		}
	}

	table := make(Table, len(accs))
	for name, acc := range accs {
		table[name] = acc.summary(now)
	}
	return table
}

// normalize strips a leading marker and lower-cases name.
func normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimLeft(name, "#@")
	return strings.ToLower(name)
}
