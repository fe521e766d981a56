// Package store persists diary entries. Two backends are provided: a
// directory of plain-text per-year score files, and a versioned SQLite
// database with full-text search over notes.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/model"
)

// ErrNotFound is returned when no entry exists for a date.
var ErrNotFound = errors.New("entry not found")

// Store defines the entry storage interface.
type Store interface {
	// All returns the latest version of every entry, oldest first.
	All(ctx context.Context) ([]model.Entry, error)

	// Get returns the entry for the given day.
	Get(ctx context.Context, date time.Time) (*model.Entry, error)

	// Put updates the entry with the same date, or appends a new one.
	Put(ctx context.Context, e model.Entry) error

	// Search finds entries whose notes contain the query.
	Search(ctx context.Context, p SearchParams) ([]SearchResult, error)

	// Stats summarises the stored diary.
	Stats(ctx context.Context) (*Stats, error)

	// Close closes the store.
	Close() error
}

// Open returns the backend selected by cfg.Storage.
func Open(cfg *config.Config, log zerolog.Logger) (Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return NewSQLiteStore(cfg.DBPath, log)
	case config.StorageFiles, "":
		return NewFileStore(cfg.DataDir, log)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

// ListParams filters entries for listing.
type ListParams struct {
	Year  int // 0 means every year
	Limit int // 0 means no limit
}

// List returns entries newest first.
func List(ctx context.Context, s Store, p ListParams) ([]model.Entry, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Entry
	for _, e := range model.SortDescending(all) {
		if p.Year != 0 && e.Date.Year() != p.Year {
			continue
		}
		out = append(out, e)
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}
	return out, nil
}

// Import stores entries from an export. Entries identical to what is already
// stored are skipped. It returns the number of entries written.
func Import(ctx context.Context, s Store, entries []model.Entry) (int, error) {
	imported := 0
	for _, e := range entries {
		e.Date = model.Day(e.Date)
		existing, err := s.Get(ctx, e.Date)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return imported, err
		}
		if existing != nil && existing.Score == e.Score && existing.Notes == e.Notes {
			continue
		}
		if err := s.Put(ctx, e); err != nil {
			return imported, fmt.Errorf("import %s: %w", model.FormatDate(e.Date), err)
		}
		imported++
	}
	return imported, nil
}

// validate normalises and checks an entry before it is written.
func validate(e model.Entry) (model.Entry, error) {
	if e.Date.IsZero() {
		return e, errors.New("entry date is required")
	}
	if e.Score != 0 && (e.Score < model.MinScore || e.Score > model.MaxScore) {
		return e, fmt.Errorf("score %d out of range %d-%d", e.Score, model.MinScore, model.MaxScore)
	}
	e.Date = model.Day(e.Date)
	return e, nil
}

// SearchParams holds parameters for searching entries.
type SearchParams struct {
	Query string
	Year  int
	Limit int
}

// SearchResult is a matching entry with a short excerpt around the match.
type SearchResult struct {
	Entry   model.Entry `json:"entry"`
	Snippet string      `json:"snippet"`
}

const snippetRadius = 40

// snippet returns the text around the first case-insensitive match of query.
func snippet(notes, query string) string {
	flat := strings.Join(strings.Fields(notes), " ")
	i := strings.Index(strings.ToLower(flat), strings.ToLower(strings.TrimSpace(query)))
	if i < 0 {
		i = 0
	}
	start, end := i-snippetRadius, i+len(query)+snippetRadius
	prefix, suffix := "…", "…"
	if start <= 0 {
		start, prefix = 0, ""
	}
	if end >= len(flat) {
		end, suffix = len(flat), ""
	}
	// Keep the cut on rune boundaries.
	for start > 0 && !utf8.RuneStart(flat[start]) {
		start--
	}
	for end < len(flat) && !utf8.RuneStart(flat[end]) {
		end++
	}
	return prefix + flat[start:end] + suffix
}

// Stats holds diary statistics.
type Stats struct {
	Backend    string      `json:"backend"`
	Path       string      `json:"path"`
	SizeBytes  int64       `json:"size_bytes"`
	Entries    int         `json:"entries"`
	Scored     int         `json:"scored"`
	Revisions  int         `json:"revisions,omitempty"`
	FirstDate  string      `json:"first_date,omitempty"`
	LastDate   string      `json:"last_date,omitempty"`
	TotalWords int         `json:"total_words"`
	Years      []YearStats `json:"years"`
}

// YearStats holds per-year counts.
type YearStats struct {
	Year     int     `json:"year"`
	Entries  int     `json:"entries"`
	Scored   int     `json:"scored"`
	AvgScore float64 `json:"avg_score"`
}

// summarize fills the entry-derived fields of st.
func summarize(st *Stats, entries []model.Entry) {
	byYear := map[int]*YearStats{}
	sums := map[int]int{}
	for _, e := range entries {
		st.Entries++
		st.TotalWords += e.WordCount()
		y := e.Date.Year()
		ys, ok := byYear[y]
		if !ok {
			ys = &YearStats{Year: y}
			byYear[y] = ys
		}
		ys.Entries++
		if !e.IsEmpty() {
			st.Scored++
			ys.Scored++
			sums[y] += e.Score
		}
	}
	if len(entries) > 0 {
		sorted := model.SortAscending(entries)
		st.FirstDate = model.FormatDate(sorted[0].Date)
		st.LastDate = model.FormatDate(sorted[len(sorted)-1].Date)
	}
	for y, ys := range byYear {
		if ys.Scored > 0 {
			ys.AvgScore = float64(sums[y]) / float64(ys.Scored)
		}
		st.Years = append(st.Years, *ys)
	}
	sort.Slice(st.Years, func(i, j int) bool { return st.Years[i].Year < st.Years[j].Year })
}
