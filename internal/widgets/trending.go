package widgets

import (
	"math"
	"sort"
	"time"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/tags"
)

// TrendingTag is a tag whose recent use outpaces its history.
type TrendingTag struct {
	Name           string  `json:"name"`
	OriginalName   string  `json:"original_name"`
	IsPerson       bool    `json:"is_person"`
	RecentCount    int     `json:"recent_count"`
	MonthlyAverage float64 `json:"monthly_average"`
	SurgeRatio     float64 `json:"surge_ratio"`
	TotalUses      int     `json:"total_uses"`
}

// Trending lists surging tags. Fallback is set when nothing surged and Tags
// holds the most frequent recent tags instead.
type Trending struct {
	Tags     []TrendingTag `json:"tags"`
	Fallback bool          `json:"fallback"`
}

// TrendingTopics returns the #topics surging over the trailing window.
func (e *Engine) TrendingTopics(now time.Time) Trending {
	now = model.Day(now)
	tc := e.cfg.Trending
	return e.trending(now, false, tc.TopicSurge, tc.TopicCeiling)
}

// TrendingPeople returns the @people surging over the trailing window.
func (e *Engine) TrendingPeople(now time.Time) Trending {
	now = model.Day(now)
	tc := e.cfg.Trending
	return e.trending(now, true, tc.PeopleSurge, tc.PeopleCeiling)
}

type recentTag struct {
	name     string
	original string
	isPerson bool
	count    int
	entries  []model.Entry
}

// recentTags counts tag occurrences in entries. A tag's kind comes from the
// cache when known, else from its marker.
func (e *Engine) recentTags(entries []model.Entry) map[string]*recentTag {
	out := map[string]*recentTag{}
	for _, en := range entries {
		seen := map[string]bool{}
		for _, occ := range tags.Extract(en.Notes) {
			name := occ.Name()
			rt, ok := out[name]
			if !ok {
				rt = &recentTag{name: name, original: occ.Word, isPerson: occ.IsPerson()}
				if st := e.tags.Get(name); st != nil {
					rt.original = st.OriginalName
					rt.isPerson = st.IsPerson
				}
				out[name] = rt
			}
			rt.count++
			if !seen[name] {
				seen[name] = true
				rt.entries = append(rt.entries, en)
			}
		}
	}
	return out
}

func (e *Engine) trending(now time.Time, person bool, surge float64, ceiling int) Trending {
	tc := e.cfg.Trending
	recent := e.recentTags(e.current(now, tc.WindowDays))

	var all, surging []TrendingTag
	for _, rt := range recent {
		if rt.isPerson != person {
			continue
		}
		t := TrendingTag{
			Name:         rt.name,
			OriginalName: rt.original,
			IsPerson:     rt.isPerson,
			RecentCount:  rt.count,
		}
		if st := e.tags.Get(rt.name); st != nil {
			t.TotalUses = st.TotalUses
			t.MonthlyAverage = st.MonthlyAverage()
		}
		if t.MonthlyAverage > 0 {
			t.SurgeRatio = float64(t.RecentCount) / t.MonthlyAverage
		} else {
			t.SurgeRatio = float64(t.RecentCount)
		}
		all = append(all, t)
		if t.RecentCount >= tc.MinRecentUses && t.SurgeRatio > surge && t.TotalUses < ceiling {
			surging = append(surging, t)
		}
	}

	if len(surging) > 0 {
		sort.Slice(surging, func(i, j int) bool {
			a, b := surging[i], surging[j]
			if a.SurgeRatio != b.SurgeRatio {
				return a.SurgeRatio > b.SurgeRatio
			}
			if a.RecentCount != b.RecentCount {
				return a.RecentCount > b.RecentCount
			}
			return a.Name < b.Name
		})
		return Trending{Tags: limit(surging, tc.Limit)}
	}
	if len(all) == 0 {
		return Trending{}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].RecentCount != all[j].RecentCount {
			return all[i].RecentCount > all[j].RecentCount
		}
		return all[i].Name < all[j].Name
	})
	return Trending{Tags: limit(all, tc.Limit), Fallback: true}
}

func limit(ts []TrendingTag, n int) []TrendingTag {
	if n > 0 && len(ts) > n {
		return ts[:n]
	}
	return ts
}

// SuperTag is the recent tag with the best blend of quality and usage.
type SuperTag struct {
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	IsPerson     bool    `json:"is_person"`
	Score        float64 `json:"score"`
	AvgScore     float64 `json:"avg_score"`
	RecentCount  int     `json:"recent_count"`
	TotalUses    int     `json:"total_uses"`
	ExpectedUses float64 `json:"expected_uses"`
}

// SuperTag scores every tag used at least MinRecentUses times in the trailing
// window as
//
//	avg * sqrt(recent) / (1 + sqrt(total / expected))
//
// where expected is ExpectedShare of the historical total clamped to
// [ExpectedMin, ExpectedMax]. It returns nil when no tag qualifies.
func (e *Engine) SuperTag(now time.Time) *SuperTag {
	now = model.Day(now)
	sc := e.cfg.SuperTag
	recent := e.recentTags(e.current(now, e.cfg.Trending.WindowDays))

	var best *SuperTag
	for _, rt := range recent {
		if rt.count < sc.MinRecentUses {
			continue
		}
		total := rt.count
		if st := e.tags.Get(rt.name); st != nil && st.TotalUses > 0 {
			total = st.TotalUses
		}
		expected := clamp(sc.ExpectedShare*float64(total), sc.ExpectedMin, sc.ExpectedMax)
		avg := e.calc.Calculate(rt.entries, 0)
		s := avg * math.Sqrt(float64(rt.count)) / (1 + math.Sqrt(safeDiv(float64(total), expected)))
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		cand := &SuperTag{
			Name:         rt.name,
			OriginalName: rt.original,
			IsPerson:     rt.isPerson,
			Score:        s,
			AvgScore:     avg,
			RecentCount:  rt.count,
			TotalUses:    total,
			ExpectedUses: expected,
		}
		if best == nil || cand.Score > best.Score || (cand.Score == best.Score && cand.Name < best.Name) {
			best = cand
		}
	}
	return best
}
