package widgets

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/score"
	"github.com/rcliao/faveday/internal/tagcache"
)

func day(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(date string, score int, notes string) model.Entry {
	return model.Entry{Date: day(date), Score: score, Notes: notes}
}

func newEngine(table tagcache.Table, entries ...model.Entry) *Engine {
	cfg := config.Default()
	return NewEngine(entries, table, score.NewCalculator(cfg.Scoring), cfg.Widgets())
}

func TestMaxStreak(t *testing.T) {
	s := MaxStreak([]model.Entry{
		entry("2024-05-01", 3, ""),
		entry("2024-05-02", 3, ""),
		entry("2024-05-03", 3, ""),
	}, false)
	assert.Equal(t, 3, s.Count)
	require.NotNil(t, s.Start)
	assert.Equal(t, day("2024-05-01"), *s.Start)
	assert.Equal(t, day("2024-05-03"), *s.End)

	// A gap resets the run; the longer later run wins.
	s = MaxStreak([]model.Entry{
		entry("2024-05-07", 3, ""),
		entry("2024-05-01", 3, ""),
		entry("2024-05-02", 3, ""),
		entry("2024-05-05", 3, ""),
		entry("2024-05-06", 3, ""),
	}, false)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, day("2024-05-05"), *s.Start)
	assert.Equal(t, day("2024-05-07"), *s.End)
}

func TestMaxStreakSameDayCountsOnce(t *testing.T) {
	s := MaxStreak([]model.Entry{
		entry("2024-05-01", 3, ""),
		entry("2024-05-01", 4, ""),
		entry("2024-05-02", 3, ""),
	}, false)
	assert.Equal(t, 2, s.Count)
}

func TestMaxStreakEmpty(t *testing.T) {
	s := MaxStreak(nil, false)
	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.Start)
	assert.Nil(t, s.End)
}

func TestMaxStreakOnlyFirst(t *testing.T) {
	entries := []model.Entry{
		entry("2024-05-01", 3, ""),
		entry("2024-05-02", 3, ""),
		entry("2024-05-05", 3, ""),
		entry("2024-05-06", 3, ""),
		entry("2024-05-07", 3, ""),
		entry("2024-05-08", 3, ""),
	}
	assert.Equal(t, 4, MaxStreak(entries, false).Count)

	first := MaxStreak(entries, true)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, day("2024-05-02"), *first.End)

	// Single days before the first run do not stop the scan.
	first = MaxStreak([]model.Entry{
		entry("2024-05-01", 3, ""),
		entry("2024-05-03", 3, ""),
		entry("2024-05-04", 3, ""),
		entry("2024-05-05", 3, ""),
		entry("2024-05-09", 3, ""),
		entry("2024-05-10", 3, ""),
		entry("2024-05-11", 3, ""),
		entry("2024-05-12", 3, ""),
	}, true)
	assert.Equal(t, 3, first.Count)
}

func TestStreaks(t *testing.T) {
	now := day("2024-05-10")
	e := newEngine(nil,
		entry("2024-05-01", 3, ""),
		entry("2024-05-02", 3, ""),
		entry("2024-05-03", 3, ""),
		entry("2024-05-04", 3, ""),
		entry("2024-05-07", 3, ""),
		entry("2024-05-08", 0, "no score"),
		entry("2024-05-09", 4, ""),
	)
	s := e.Streaks(now)
	assert.Equal(t, 4, s.Longest.Count)
	assert.Equal(t, 1, s.Current.Count)
	assert.Equal(t, day("2024-05-09"), *s.Current.Start)

	s = e.Streaks(day("2024-05-20"))
	assert.Equal(t, 0, s.Current.Count)
	assert.Nil(t, s.Current.Start)
}

func TestFormatPercentageTrend(t *testing.T) {
	tests := []struct {
		current, previous float64
		trend             Trend
		display           string
		arrow             string
	}{
		{50, 0, TrendUp, "+50%", "↑"},
		{50, 50, TrendSame, "0.0%", "→"},
		{0, 0, TrendSame, "0%", "→"},
		{60, 50, TrendUp, "+20.0%", "↑"},
		{40, 50, TrendDown, "-20.0%", "↓"},
		{2.5, 0, TrendUp, "+2.5%", "↑"},
	}
	for _, tt := range tests {
		got := FormatPercentageTrend(tt.current, tt.previous)
		assert.Equal(t, tt.trend, got.Trend, "%v vs %v", tt.current, tt.previous)
		assert.Equal(t, tt.display, got.Display, "%v vs %v", tt.current, tt.previous)
		assert.Equal(t, tt.arrow, got.Arrow, "%v vs %v", tt.current, tt.previous)
	}
}

func TestTrendInvert(t *testing.T) {
	assert.Equal(t, TrendDown, TrendUp.Invert())
	assert.Equal(t, TrendUp, TrendDown.Invert())
	assert.Equal(t, TrendSame, TrendSame.Invert())
	assert.Equal(t, TrendSame, trendWithin(0.05, 0.1))
	assert.Equal(t, TrendDown, trendWithin(-0.2, 0.1))
}

// workweek returns Monday 2024-05-06 through Friday 2024-05-10.
func workweek(scores ...int) []model.Entry {
	dates := []string{"2024-05-06", "2024-05-07", "2024-05-08", "2024-05-09", "2024-05-10"}
	var out []model.Entry
	for i, s := range scores {
		out = append(out, entry(dates[i], s, ""))
	}
	return out
}

func TestLazyWorkweekClassification(t *testing.T) {
	lazy, total := lazyWorkweeks(workweek(1, 1, 1, 1, 1))
	assert.Equal(t, 1, lazy)
	assert.Equal(t, 1, total)

	lazy, total = lazyWorkweeks(workweek(4, 4, 4, 4, 4))
	assert.Equal(t, 0, lazy)
	assert.Equal(t, 1, total)

	weekend := append(workweek(1, 1, 1, 1, 1),
		entry("2024-05-11", 5, ""),
		entry("2024-05-12", 5, ""),
	)
	sums := workweekSums(weekend)
	require.Len(t, sums, 1)
	assert.Equal(t, 5, sums[isoWeek{2024, 19}])
	lazy, _ = lazyWorkweeks(weekend)
	assert.Equal(t, 1, lazy)

	// Missing weekdays contribute nothing.
	lazy, _ = lazyWorkweeks(workweek(5, 5))
	assert.Equal(t, 1, lazy)
	lazy, _ = lazyWorkweeks(workweek(5, 5, 1))
	assert.Equal(t, 0, lazy)
}

func TestLazyWorkweeksTrendIsInverted(t *testing.T) {
	e := newEngine(nil, workweek(1, 1, 1, 1, 1)...)
	got := e.LazyWorkweeks(day("2024-05-13"))
	assert.Equal(t, 1, got.Lazy)
	assert.Equal(t, 1, got.Total)
	assert.InDelta(t, 100, got.Percent, 1e-9)
	assert.Equal(t, TrendDown, got.Trend)
}

func TestLazyWorkweeksSkipUnscoredWeeks(t *testing.T) {
	e := newEngine(nil, entry("2024-05-06", 0, "notes only"))
	got := e.LazyWorkweeks(day("2024-05-13"))
	assert.Equal(t, 0, got.Lazy)
	assert.Equal(t, 0, got.Total)
	assert.Zero(t, got.Percent)

	sums := workweekSums([]model.Entry{
		entry("2024-05-06", 0, "notes only"),
		entry("2024-05-07", 3, ""),
	})
	assert.Equal(t, map[isoWeek]int{{2024, 19}: 3}, sums)
}

func TestWidgetsUseCalendarDayOfNow(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, time.October, 16, 8, 0, 0, 0, jst)
	e := newEngine(nil, entry("2026-10-16", 5, "sunny"))

	assert.Equal(t, 1.0, e.ThirtyDayComparisons(now).Entries.Current)

	since := e.DaysSinceScore(5, now)
	require.NotNil(t, since.Days)
	assert.Equal(t, 0, *since.Days)

	assert.Equal(t, 1, e.Streaks(now).Current.Count)
	assert.Equal(t, 1, e.Coverage(now).Entries)
	assert.Equal(t, 1, e.ScoreDistribution(now, 30).Total)

	// West of UTC the local day is still the 16th; the 17th is in the future.
	pst := time.FixedZone("PST", -8*60*60)
	late := time.Date(2026, time.October, 16, 20, 0, 0, 0, pst)
	e = newEngine(nil, entry("2026-10-16", 5, ""), entry("2026-10-17", 1, ""))
	assert.Equal(t, 1.0, e.ThirtyDayComparisons(late).Entries.Current)
	assert.Nil(t, e.DaysSinceScore(1, late).Days)
}

func TestLazyWeekends(t *testing.T) {
	e := newEngine(nil,
		entry("2024-05-04", 2, ""), // Saturday
		entry("2024-05-11", 4, ""), // Saturday
		entry("2024-05-12", 1, ""), // Sunday
		entry("2024-05-18", 0, "no score"),
		entry("2024-05-08", 1, ""),
	)
	now := day("2024-05-20")

	sat := e.LazySaturdays(now)
	assert.Equal(t, 1, sat.Lazy)
	assert.Equal(t, 2, sat.Total)
	assert.InDelta(t, 50, sat.Percent, 1e-9)
	assert.Equal(t, TrendUp, sat.Trend)

	sun := e.LazySundays(now)
	assert.Equal(t, 1, sun.Lazy)
	assert.Equal(t, 1, sun.Total)
}

func TestThirtyDayComparisons(t *testing.T) {
	e := newEngine(nil,
		entry("2024-06-10", 3, "one two three"),
		entry("2024-06-20", 5, "a b"),
		entry("2024-05-15", 2, "x"),
		entry("2024-03-01", 1, "outside both windows"),
	)
	got := e.ThirtyDayComparisons(day("2024-06-30"))

	assert.Equal(t, 2.0, got.Entries.Current)
	assert.Equal(t, 1.0, got.Entries.Previous)
	assert.Equal(t, TrendUp, got.Entries.Trend)
	assert.Equal(t, "+100.0%", got.EntriesPct.Display)
	assert.InDelta(t, 5.0/30, got.WordsPerDay.Current, 1e-9)
	assert.InDelta(t, 1.0/30, got.WordsPerDay.Previous, 1e-9)
	assert.InDelta(t, 4, got.AvgScore.Current, 1e-9)
	assert.InDelta(t, 2, got.AvgScore.Previous, 1e-9)
	assert.Equal(t, TrendUp, got.AvgScore.Trend)
}

func TestCoverage(t *testing.T) {
	now := day("2024-06-30")
	var entries []model.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, model.Entry{Date: now.AddDate(0, 0, -i), Score: 3})
	}
	got := newEngine(nil, entries...).Coverage(now)

	assert.Equal(t, 10, got.Days)
	assert.Equal(t, 10, got.Entries)
	assert.InDelta(t, 100, got.Percent, 1e-9)
	assert.Equal(t, 0.0, got.Previous)
	assert.Equal(t, TrendUp, got.Change.Trend)
	assert.Equal(t, "+100%", got.Change.Display)
}

func TestCoverageCapsAtOneYear(t *testing.T) {
	now := day("2024-06-30")
	e := newEngine(nil,
		entry("2020-01-01", 3, ""),
		entry("2024-06-30", 3, ""),
	)
	got := e.Coverage(now)
	assert.Equal(t, 365, got.Days)
	assert.Equal(t, 1, got.Entries)
}

func TestHighScoreGap(t *testing.T) {
	e := newEngine(nil,
		entry("2024-05-01", 4, ""),
		entry("2024-05-03", 2, ""),
		entry("2024-05-05", 5, ""),
		entry("2024-05-11", 4, ""),
		entry("2023-05-01", 5, ""),
		entry("2023-05-11", 5, ""),
	)
	got := e.HighScoreGap(day("2024-06-01"))
	require.NotNil(t, got.Days)
	require.NotNil(t, got.PreviousDays)
	assert.InDelta(t, 5, *got.Days, 1e-9)
	assert.InDelta(t, 10, *got.PreviousDays, 1e-9)
	assert.Equal(t, TrendUp, got.Trend)

	single := newEngine(nil, entry("2024-05-01", 5, "")).HighScoreGap(day("2024-06-01"))
	assert.Nil(t, single.Days)
	assert.Equal(t, TrendSame, single.Trend)
}

func TestDaysSinceScore(t *testing.T) {
	now := day("2024-06-30")

	good := newEngine(nil,
		entry("2024-06-25", 5, ""),
		entry("2024-05-20", 5, ""),
	).DaysSinceScore(5, now)
	require.NotNil(t, good.Days)
	assert.Equal(t, 5, *good.Days)
	assert.Equal(t, day("2024-06-25"), *good.LastDate)
	assert.Equal(t, TrendUp, good.Trend)

	bad := newEngine(nil,
		entry("2024-06-25", 1, ""),
		entry("2024-05-20", 1, ""),
	).DaysSinceScore(1, now)
	assert.Equal(t, TrendDown, bad.Trend)

	// A bad score absent from the last 30 days is an improvement.
	gone := newEngine(nil, entry("2024-05-20", 1, "")).DaysSinceScore(1, now)
	assert.Equal(t, 41, *gone.Days)
	assert.Equal(t, TrendUp, gone.Trend)

	never := newEngine(nil, entry("2024-06-25", 3, "")).DaysSinceScore(5, now)
	assert.Nil(t, never.Days)
	assert.Nil(t, never.LastDate)
	assert.Equal(t, TrendSame, never.Trend)
}

func TestTrending(t *testing.T) {
	table := tagcache.Table{
		"climbing": {Name: "climbing", OriginalName: "Climbing", TotalUses: 12, YearStats: map[int]int{2023: 12}},
		"coffee":   {Name: "coffee", OriginalName: "coffee", TotalUses: 500, YearStats: map[int]int{2022: 250, 2023: 250}},
	}
	e := newEngine(table,
		entry("2024-06-10", 4, "#climbing with @anna and #coffee"),
		entry("2024-06-12", 5, "#climbing again, #coffee"),
		entry("2024-06-14", 4, "#climbing #coffee #coffee"),
		entry("2024-01-01", 3, "#climbing long ago"),
	)
	now := day("2024-06-30")

	topics := e.TrendingTopics(now)
	assert.False(t, topics.Fallback)
	require.Len(t, topics.Tags, 1)
	got := topics.Tags[0]
	assert.Equal(t, "climbing", got.Name)
	assert.Equal(t, "Climbing", got.OriginalName)
	assert.Equal(t, 3, got.RecentCount)
	assert.InDelta(t, 1, got.MonthlyAverage, 1e-9)
	assert.InDelta(t, 3, got.SurgeRatio, 1e-9)

	people := e.TrendingPeople(now)
	assert.True(t, people.Fallback)
	require.Len(t, people.Tags, 1)
	assert.Equal(t, "anna", people.Tags[0].Name)
	assert.True(t, people.Tags[0].IsPerson)
}

func TestTrendingFallbackLimit(t *testing.T) {
	e := newEngine(nil,
		entry("2024-06-10", 3, "#a #b #c #d"),
		entry("2024-06-11", 3, "#b #c"),
		entry("2024-06-12", 3, "#c"),
	)
	got := e.TrendingTopics(day("2024-06-30"))
	// Every tag here is new, so counts of 2 or more surge.
	assert.False(t, got.Fallback)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "c", got.Tags[0].Name)
	assert.Equal(t, "b", got.Tags[1].Name)

	quiet := newEngine(nil,
		entry("2024-06-10", 3, "#a #b #c #d"),
	).TrendingTopics(day("2024-06-30"))
	assert.True(t, quiet.Fallback)
	assert.Len(t, quiet.Tags, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{quiet.Tags[0].Name, quiet.Tags[1].Name, quiet.Tags[2].Name})
}

func TestSuperTag(t *testing.T) {
	e := newEngine(nil,
		entry("2024-06-10", 5, "#hike"),
		entry("2024-06-11", 5, "#hike"),
		entry("2024-06-12", 2, "#work"),
		entry("2024-06-13", 2, "#work"),
		entry("2024-06-14", 2, "#work"),
		entry("2024-06-15", 5, "#once"),
	)
	got := e.SuperTag(day("2024-06-30"))
	require.NotNil(t, got)
	assert.Equal(t, "hike", got.Name)
	assert.InDelta(t, 5, got.AvgScore, 1e-9)
	assert.InDelta(t, 5, got.ExpectedUses, 1e-9)
	want := 5 * math.Sqrt(2) / (1 + math.Sqrt(2.0/5))
	assert.InDelta(t, want, got.Score, 1e-9)

	assert.Nil(t, newEngine(nil, entry("2024-06-15", 5, "#once")).SuperTag(day("2024-06-30")))
}

func TestConsistency(t *testing.T) {
	e := newEngine(nil,
		entry("2024-06-01", 3, ""),
		entry("2024-06-02", 3, ""),
		entry("2023-01-01", 1, ""),
		entry("2023-01-02", 5, ""),
	)
	got := e.Consistency(day("2024-06-30"))
	assert.Equal(t, 5.0, got.Current)
	assert.InDelta(t, 2, got.PreviousStdDev, 1e-9)
	assert.InDelta(t, 1, got.Previous, 1e-9)
	assert.Equal(t, TrendUp, got.Trend)

	empty := newEngine(nil).Consistency(day("2024-06-30"))
	assert.Equal(t, 0.0, empty.Current)
	assert.Equal(t, TrendSame, empty.Trend)
}

func TestLifeQuality(t *testing.T) {
	e := newEngine(nil,
		entry("2024-06-10", 5, ""),
		entry("2024-06-11", 5, ""),
		entry("2024-06-12", 5, ""),
		entry("2024-05-15", 2, ""),
	)
	got := e.LifeQuality(day("2024-06-30"))
	assert.InDelta(t, 25.0*3/30, got.Current, 1e-9)
	assert.InDelta(t, 1.0/30, got.Previous, 1e-9)
	assert.Equal(t, 3, got.Entries)
	assert.Equal(t, TrendUp, got.Trend)
}

func TestProgress(t *testing.T) {
	e := newEngine(nil)

	y := e.YearProgress(day("2024-07-01"))
	assert.Equal(t, 182, y.DaysPassed)
	assert.Equal(t, 366, y.TotalDays)
	assert.Equal(t, "2024", y.Name)

	s := e.SeasonProgress(day("2024-01-10"))
	assert.Equal(t, "Winter", s.Name)
	assert.Equal(t, day("2023-12-21"), s.Start)
	assert.Equal(t, day("2024-03-20"), s.End)
	assert.Equal(t, 20, s.DaysPassed)

	s = e.SeasonProgress(day("2024-12-25"))
	assert.Equal(t, "Winter", s.Name)
	assert.Equal(t, 4, s.DaysPassed)

	assert.Equal(t, "Summer", e.SeasonProgress(day("2024-07-01")).Name)
	assert.Equal(t, "Spring", e.SeasonProgress(day("2024-03-20")).Name)
	assert.Equal(t, "Autumn", e.SeasonProgress(day("2024-10-01")).Name)

	life := e.LifeProgress(day("1990-08-15"), day("2024-07-01"))
	require.NotNil(t, life)
	assert.Equal(t, "Age 33", life.Name)
	assert.Equal(t, day("2023-08-15"), life.Start)
	assert.GreaterOrEqual(t, life.Percent, 0.0)
	assert.LessOrEqual(t, life.Percent, 100.0)

	assert.Nil(t, e.LifeProgress(time.Time{}, day("2024-07-01")))
}

func TestOnThisDay(t *testing.T) {
	e := newEngine(nil,
		entry("2022-06-30", 4, "two years ago"),
		entry("2023-06-30", 5, "last year"),
		entry("2024-06-30", 3, "today"),
		entry("2023-06-29", 2, "wrong day"),
	)
	got := e.OnThisDay(day("2024-06-30"))
	require.Len(t, got, 2)
	assert.Equal(t, "last year", got[0].Entry.Notes)
	assert.Equal(t, 1, got[0].YearsAgo)
	assert.Equal(t, 2, got[1].YearsAgo)
}

func TestScoreDistribution(t *testing.T) {
	e := newEngine(nil,
		entry("2024-06-10", 5, ""),
		entry("2024-06-11", 5, ""),
		entry("2024-06-12", 1, ""),
		entry("2024-06-13", 0, "empty"),
		entry("2020-06-13", 3, "too old"),
	)
	got := e.ScoreDistribution(day("2024-06-30"), 30)
	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Buckets, 5)
	assert.Equal(t, 1, got.Buckets[0].Count)
	assert.Equal(t, 2, got.Buckets[4].Count)
	assert.InDelta(t, 200.0/3, got.Buckets[4].Percent, 1e-9)

	all := e.ScoreDistribution(day("2024-06-30"), 0)
	assert.Equal(t, 4, all.Total)
}

func TestEmptyEngine(t *testing.T) {
	e := newEngine(nil)
	now := day("2024-06-30")

	assert.NotPanics(t, func() {
		d := e.Dashboard(now)
		assert.Nil(t, d.SuperTag)
		assert.Empty(t, d.TrendingTopics.Tags)
		assert.Equal(t, 0, d.Streaks.Longest.Count)
		assert.Equal(t, 0.0, d.Coverage.Percent)
		assert.Equal(t, TrendSame, d.Comparisons.AvgScore.Trend)
		assert.Len(t, d.DaysSince, 5)
		assert.Nil(t, d.Life)
	})
}

func TestDashboardLifeFromConfig(t *testing.T) {
	e := newEngine(nil, entry("2024-06-30", 4, ""))
	cfg := config.Default().Widgets()
	cfg.BirthDate = "1990-08-15"
	e.UpdateConfig(cfg)

	d := e.Dashboard(day("2024-06-30"))
	require.NotNil(t, d.Life)
	assert.Equal(t, "Age 33", d.Life.Name)
}

func TestEngineDoesNotMutateInput(t *testing.T) {
	entries := []model.Entry{
		entry("2024-06-12", 3, ""),
		entry("2024-06-10", 4, ""),
	}
	e := newEngine(nil, entries...)
	e.Dashboard(day("2024-06-30"))
	assert.Equal(t, day("2024-06-12"), entries[0].Date)
	assert.Equal(t, day("2024-06-10"), e.Entries()[0].Date)
}
