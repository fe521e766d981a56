package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/faveday/internal/model"
)

var yearFileRe = regexp.MustCompile(`^scores-(\d{4})\.txt$`)

// YearFile returns the file name holding a year's entries.
func YearFile(year int) string {
	return fmt.Sprintf("scores-%04d.txt", year)
}

// IsYearFile reports whether name is a per-year score file.
func IsYearFile(name string) bool {
	return yearFileRe.MatchString(filepath.Base(name))
}

// FileStore implements Store over a directory of per-year text files. Each
// line is "YYYY-MM-DD,score,notes" with newlines and backslashes in notes
// escaped.
type FileStore struct {
	dir string
	log zerolog.Logger
	mu  sync.Mutex
}

// NewFileStore opens (creating if needed) a score-file directory.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{
		dir: dir,
		log: log.With().Str("component", "filestore").Logger(),
	}, nil
}

// Dir returns the data directory.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) years() ([]int, error) {
	names, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var years []int
	for _, de := range names {
		m := yearFileRe.FindStringSubmatch(de.Name())
		if de.IsDir() || m == nil {
			continue
		}
		y, _ := strconv.Atoi(m[1])
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// All loads every year file concurrently.
func (f *FileStore) All(ctx context.Context) ([]model.Entry, error) {
	years, err := f.years()
	if err != nil {
		return nil, err
	}

	loaded := make([][]model.Entry, len(years))
	g, ctx := errgroup.WithContext(ctx)
	for i, y := range years {
		i, y := i, y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := f.loadYear(y)
			if err != nil {
				return err
			}
			loaded[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Entry
	for _, entries := range loaded {
		all = append(all, entries...)
	}
	f.log.Debug().Int("years", len(years)).Int("entries", len(all)).Msg("loaded score files")
	return model.SortAscending(all), nil
}

// loadYear parses one year file. A later line for the same date replaces an
// earlier one; malformed lines are skipped.
func (f *FileStore) loadYear(year int) ([]model.Entry, error) {
	path := filepath.Join(f.dir, YearFile(year))
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var entries []model.Entry
	index := map[time.Time]int{}
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			f.log.Warn().Err(err).Str("file", path).Int("line", n).Msg("skipping malformed line")
			continue
		}
		if i, ok := index[e.Date]; ok {
			entries[i] = e
			continue
		}
		index[e.Date] = len(entries)
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// Get returns the entry for date.
func (f *FileStore) Get(ctx context.Context, date time.Time) (*model.Entry, error) {
	day := model.Day(date)
	entries, err := f.loadYear(day.Year())
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Date.Equal(day) {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, model.FormatDate(day))
}

// Put updates or appends the entry and rewrites its year file atomically.
func (f *FileStore) Put(ctx context.Context, e model.Entry) error {
	e, err := validate(e)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.loadYear(e.Date.Year())
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Date.Equal(e.Date) {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, e)
	}

	if err := f.writeYear(e.Date.Year(), model.SortAscending(entries)); err != nil {
		return err
	}
	f.log.Debug().Str("date", model.FormatDate(e.Date)).Bool("updated", replaced).Msg("entry saved")
	return nil
}

func (f *FileStore) writeYear(year int, entries []model.Entry) error {
	path := filepath.Join(f.dir, YearFile(year))
	tmp, err := os.CreateTemp(f.dir, ".scores-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, e := range entries {
		if _, err := w.WriteString(FormatLine(e) + "\n"); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Search scans notes for a case-insensitive substring.
func (f *FileStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	all, err := f.All(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(p.Query))
	if q == "" {
		return nil, nil
	}
	var results []SearchResult
	for _, e := range model.SortDescending(all) {
		if p.Year != 0 && e.Date.Year() != p.Year {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Notes), q) {
			continue
		}
		results = append(results, SearchResult{Entry: e, Snippet: snippet(e.Notes, p.Query)})
		if p.Limit > 0 && len(results) == p.Limit {
			break
		}
	}
	return results, nil
}

// Stats summarises the score files.
func (f *FileStore) Stats(ctx context.Context) (*Stats, error) {
	all, err := f.All(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{Backend: "files", Path: f.dir}
	years, _ := f.years()
	for _, y := range years {
		if info, err := os.Stat(filepath.Join(f.dir, YearFile(y))); err == nil {
			st.SizeBytes += info.Size()
		}
	}
	summarize(st, all)
	return st, nil
}

// Close is a no-op.
func (f *FileStore) Close() error {
	return nil
}

// FormatLine renders an entry as one score-file line.
func FormatLine(e model.Entry) string {
	return fmt.Sprintf("%s,%d,%s", model.FormatDate(e.Date), e.Score, escapeNotes(e.Notes))
}

// ParseLine parses one score-file line. The score may be empty and the notes
// may be omitted.
func ParseLine(line string) (model.Entry, error) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 2 {
		return model.Entry{}, fmt.Errorf("expected date,score,notes: %q", line)
	}
	date, err := model.ParseDate(parts[0])
	if err != nil {
		return model.Entry{}, fmt.Errorf("bad date: %w", err)
	}
	e := model.Entry{Date: date}
	if s := strings.TrimSpace(parts[1]); s != "" {
		score, err := strconv.Atoi(s)
		if err != nil {
			return model.Entry{}, fmt.Errorf("bad score %q: %w", s, err)
		}
		if score < 0 || score > model.MaxScore {
			return model.Entry{}, fmt.Errorf("score %d out of range", score)
		}
		e.Score = score
	}
	if len(parts) == 3 {
		e.Notes = unescapeNotes(parts[2])
	}
	return e, nil
}

func escapeNotes(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}

func unescapeNotes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
