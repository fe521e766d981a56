package tagcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rcliao/faveday/internal/model"
)

// record is the on-disk form of TagStats. Dates keep calendar-day precision.
type record struct {
	OriginalName   string         `json:"originalName"`
	IsPerson       bool           `json:"isPerson"`
	TotalUses      int            `json:"totalUses"`
	AvgScore       float64        `json:"avgScore"`
	YearStats      map[string]int `json:"yearStats"`
	PeakYear       int            `json:"peakYear,omitempty"`
	PeakYearCount  int            `json:"peakYearCount,omitempty"`
	FirstUsage     string         `json:"firstUsage,omitempty"`
	LastUsage      string         `json:"lastUsage,omitempty"`
	RecentActivity bool           `json:"recentActivity"`
}

func toRecord(s TagStats) record {
	r := record{
		OriginalName:   s.OriginalName,
		IsPerson:       s.IsPerson,
		TotalUses:      s.TotalUses,
		AvgScore:       s.AvgScore,
		YearStats:      make(map[string]int, len(s.YearStats)),
		PeakYear:       s.PeakYear,
		PeakYearCount:  s.PeakYearCount,
		RecentActivity: s.RecentActivity,
	}
	for y, c := range s.YearStats {
		r.YearStats[strconv.Itoa(y)] = c
	}
	if !s.FirstUsage.IsZero() {
		r.FirstUsage = model.FormatDate(s.FirstUsage)
	}
	if !s.LastUsage.IsZero() {
		r.LastUsage = model.FormatDate(s.LastUsage)
	}
	return r
}

func fromRecord(name string, r record) TagStats {
	s := TagStats{
		Name:           name,
		OriginalName:   r.OriginalName,
		IsPerson:       r.IsPerson,
		TotalUses:      r.TotalUses,
		AvgScore:       r.AvgScore,
		YearStats:      make(map[int]int, len(r.YearStats)),
		PeakYear:       r.PeakYear,
		PeakYearCount:  r.PeakYearCount,
		RecentActivity: r.RecentActivity,
	}
	for y, c := range r.YearStats {
		if year, err := strconv.Atoi(y); err == nil {
			s.YearStats[year] = c
		}
	}
	s.FirstUsage = parseOptionalDate(r.FirstUsage)
	s.LastUsage = parseOptionalDate(r.LastUsage)
	return s
}

func parseOptionalDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if d, err := model.ParseDate(s); err == nil {
		return d
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return model.Day(t)
	}
	return time.Time{}
}

// Marshal encodes the table in its persisted JSON form.
func Marshal(t Table) ([]byte, error) {
	out := make(map[string]record, len(t))
	for name, s := range t {
		out[name] = toRecord(s)
	}
	return json.MarshalIndent(out, "", "  ")
}

// Unmarshal decodes a persisted table. Keys are normalised to lower case.
func Unmarshal(data []byte) (Table, error) {
	var raw map[string]record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tag cache: %w", err)
	}
	t := make(Table, len(raw))
	for name, r := range raw {
		key := normalize(name)
		if r.OriginalName == "" {
			r.OriginalName = name
		}
		t[key] = fromRecord(key, r)
	}
	return t, nil
}

// Save writes the table to path, replacing any previous file atomically.
func Save(path string, t Table) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tag cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create tag cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tag-cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tag cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads a table saved by Save. A missing file returns an empty table
// and an error matching os.ErrNotExist.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read tag cache: %w", err)
	}
	return Unmarshal(data)
}
