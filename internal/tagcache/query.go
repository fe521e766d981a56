package tagcache

import (
	"fmt"
	"sort"

	"github.com/rcliao/faveday/internal/tags"
)

// SortKey selects the ordering of Sort.
type SortKey string

const (
	SortByCount      SortKey = "count"
	SortByAvgScore   SortKey = "avgScore"
	SortByFirstUsage SortKey = "firstUsage"
	SortByLastUsage  SortKey = "lastUsage"
)

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortByCount, SortByAvgScore, SortByFirstUsage, SortByLastUsage:
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key %q (valid: count, avgScore, firstUsage, lastUsage)", s)
}

// Get returns the statistics of a tag, or nil if it is unknown. The name is
// matched case-insensitively and may carry its # or @ marker.
func (t Table) Get(name string) *TagStats {
	s, ok := t[normalize(name)]
	if !ok {
		return nil
	}
	return &s
}

// PersonTags returns @mentions used at least minUses times, most used first.
func (t Table) PersonTags(minUses int) []TagStats {
	return t.filter(func(s TagStats) bool { return s.IsPerson && s.TotalUses >= minUses })
}

// TopicTags returns #topics used at least minUses times, most used first.
func (t Table) TopicTags(minUses int) []TagStats {
	return t.filter(func(s TagStats) bool { return !s.IsPerson && s.TotalUses >= minUses })
}

// RecentTags returns tags flagged as recently active when the table was built.
func (t Table) RecentTags() []TagStats {
	return t.filter(func(s TagStats) bool { return s.RecentActivity })
}

func (t Table) filter(keep func(TagStats) bool) []TagStats {
	var out []TagStats
	for _, s := range t {
		if keep(s) {
			out = append(out, s)
		}
	}
	sortStats(out, SortByCount, true)
	return out
}

// Sort returns all tags ordered by key. Tags without the relevant date sort
// last in both directions; ties are broken by name.
func (t Table) Sort(key SortKey, desc bool) []TagStats {
	out := make([]TagStats, 0, len(t))
	for _, s := range t {
		out = append(out, s)
	}
	sortStats(out, key, desc)
	return out
}

func sortStats(out []TagStats, key SortKey, desc bool) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var cmp int
		switch key {
		case SortByAvgScore:
			cmp = compareFloat(a.AvgScore, b.AvgScore)
		case SortByFirstUsage, SortByLastUsage:
			da, db := a.FirstUsage, b.FirstUsage
			if key == SortByLastUsage {
				da, db = a.LastUsage, b.LastUsage
			}
			if da.IsZero() != db.IsZero() {
				return db.IsZero()
			}
			cmp = da.Compare(db)
		default:
			cmp = a.TotalUses - b.TotalUses
		}
		if cmp == 0 {
			return a.Name < b.Name
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Known converts the table to suggestion candidates.
func (t Table) Known() []tags.Known {
	out := make([]tags.Known, 0, len(t))
	for _, s := range t.Sort(SortByCount, true) {
		out = append(out, tags.Known{Name: s.OriginalName, IsPerson: s.IsPerson, TotalUses: s.TotalUses})
	}
	return out
}
