// Package widgets computes the dashboard analytics: period comparisons,
// streaks, coverage, lazy days, trending tags, consistency and calendar
// progress.
//
// Every widget is a pure function of the engine's entries, its tag table and
// the "now" passed in. now is reduced to its calendar day in its own
// location, the same way entries are keyed. Empty input never panics; it
// yields zero values, nil pointers ("not enough data") and TrendSame.
package widgets

import (
	"strings"
	"time"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/score"
	"github.com/rcliao/faveday/internal/tagcache"
)

// Window lengths in days.
const (
	shortWindow = 30
	yearWindow  = 365
)

// Engine computes dashboard widgets over an in-memory diary.
type Engine struct {
	entries []model.Entry // ascending by date
	tags    tagcache.Table
	calc    *score.Calculator
	cfg     config.Widgets
}

// NewEngine creates an engine. entries are copied and sorted; a nil table is
// treated as empty.
func NewEngine(entries []model.Entry, table tagcache.Table, calc *score.Calculator, cfg config.Widgets) *Engine {
	if table == nil {
		table = tagcache.Table{}
	}
	return &Engine{
		entries: model.SortAscending(entries),
		tags:    table,
		calc:    calc,
		cfg:     cfg,
	}
}

// UpdateConfig replaces the widget configuration.
func (e *Engine) UpdateConfig(cfg config.Widgets) {
	e.cfg = cfg
}

// Entries returns the engine's entries, oldest first.
func (e *Engine) Entries() []model.Entry {
	return e.entries
}

// Calculator returns the score calculator the engine delegates to.
func (e *Engine) Calculator() *score.Calculator {
	return e.calc
}

func daysBefore(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, -n)
}

// current returns entries in [now-days, now].
func (e *Engine) current(now time.Time, days int) []model.Entry {
	return model.Between(e.entries, daysBefore(now, days), now, false, false)
}

// previous returns entries in [now-2*days, now-days).
func (e *Engine) previous(now time.Time, days int) []model.Entry {
	return model.Between(e.entries, daysBefore(now, 2*days), daysBefore(now, days), false, true)
}

// recorded reports whether the day has a score or any notes.
func recorded(e model.Entry) bool {
	return !e.IsEmpty() || strings.TrimSpace(e.Notes) != ""
}

func countRecorded(entries []model.Entry) int {
	n := 0
	for _, e := range entries {
		if recorded(e) {
			n++
		}
	}
	return n
}

func scored(entries []model.Entry) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if !e.IsEmpty() {
			out = append(out, e)
		}
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wordCount(entries []model.Entry) int {
	n := 0
	for _, e := range entries {
		n += e.WordCount()
	}
	return n
}
