// Package model defines the core diary data types.
package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-day layout used in score files, JSON and SQLite.
const DateLayout = "2006-01-02"

// MinScore and MaxScore bound a non-empty day's score.
const (
	MinScore = 1
	MaxScore = 5
)

// Entry is one day's score and notes. A zero Score means the day is empty.
type Entry struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
	Notes string    `json:"notes,omitempty"`
}

// IsEmpty reports whether no score was recorded for the day.
func (e Entry) IsEmpty() bool {
	return e.Score <= 0
}

// WordCount returns the number of whitespace separated words in the notes.
func (e Entry) WordCount() int {
	return len(strings.Fields(e.Notes))
}

type entryJSON struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Notes string `json:"notes,omitempty"`
}

// MarshalJSON encodes the date as YYYY-MM-DD.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{Date: FormatDate(e.Date), Score: e.Score, Notes: e.Notes})
}

// UnmarshalJSON accepts YYYY-MM-DD or RFC 3339 dates.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d, err := ParseDate(raw.Date)
	if err != nil {
		t, err2 := time.Parse(time.RFC3339, raw.Date)
		if err2 != nil {
			return fmt.Errorf("parse entry date %q: %w", raw.Date, err)
		}
		d = Day(t)
	}
	e.Date = d
	e.Score = raw.Score
	e.Notes = raw.Notes
	return nil
}

// Revision is a stored version of an entry (SQLite backend only).
type Revision struct {
	ID         string    `json:"id"`
	Entry      Entry     `json:"entry"`
	Version    int       `json:"version"`
	Supersedes string    `json:"supersedes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDate renders a day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of calendar days from a to b
// (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// SortAscending returns a copy of entries ordered oldest first.
func SortAscending(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// SortDescending returns a copy of entries ordered newest first.
func SortDescending(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Between returns the entries whose date lies in [from, to]. Either bound may
// be excluded with the open flags.
func Between(entries []Entry, from, to time.Time, fromOpen, toOpen bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if fromOpen {
			if !e.Date.After(from) {
				continue
			}
		} else if e.Date.Before(from) {
			continue
		}
		if toOpen {
			if !e.Date.Before(to) {
				continue
			}
		} else if e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
