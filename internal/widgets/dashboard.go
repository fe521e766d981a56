package widgets

import (
	"time"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/tagcache"
)

const cloudSize = 10

// Dashboard bundles every widget for one render.
type Dashboard struct {
	Now            time.Time           `json:"now"`
	Comparisons    PeriodComparison    `json:"comparisons"`
	Streaks        Streaks             `json:"streaks"`
	Coverage       Coverage            `json:"coverage"`
	LazySaturdays  Lazy                `json:"lazy_saturdays"`
	LazySundays    Lazy                `json:"lazy_sundays"`
	LazyWorkweeks  Lazy                `json:"lazy_workweeks"`
	HighScoreGap   HighScoreGap        `json:"high_score_gap"`
	DaysSince      []DaysSince         `json:"days_since"`
	TrendingTopics Trending            `json:"trending_topics"`
	TrendingPeople Trending            `json:"trending_people"`
	SuperTag       *SuperTag           `json:"super_tag"`
	Consistency    Consistency         `json:"consistency"`
	LifeQuality    LifeQuality         `json:"life_quality"`
	Season         Progress            `json:"season"`
	Year           Progress            `json:"year"`
	Life           *Progress           `json:"life,omitempty"`
	OnThisDay      []Memory            `json:"on_this_day"`
	Distribution   Distribution        `json:"distribution"`
	TopicCloud     []tagcache.TagStats `json:"topic_cloud"`
	PeopleCloud    []tagcache.TagStats `json:"people_cloud"`
}

// Dashboard computes every widget at now.
func (e *Engine) Dashboard(now time.Time) Dashboard {
	now = model.Day(now)
	d := Dashboard{
		Now:            now,
		Comparisons:    e.ThirtyDayComparisons(now),
		Streaks:        e.Streaks(now),
		Coverage:       e.Coverage(now),
		LazySaturdays:  e.LazySaturdays(now),
		LazySundays:    e.LazySundays(now),
		LazyWorkweeks:  e.LazyWorkweeks(now),
		HighScoreGap:   e.HighScoreGap(now),
		TrendingTopics: e.TrendingTopics(now),
		TrendingPeople: e.TrendingPeople(now),
		SuperTag:       e.SuperTag(now),
		Consistency:    e.Consistency(now),
		LifeQuality:    e.LifeQuality(now),
		Season:         e.SeasonProgress(now),
		Year:           e.YearProgress(now),
		OnThisDay:      e.OnThisDay(now),
		Distribution:   e.ScoreDistribution(now, yearWindow),
		TopicCloud:     e.cloud(false),
		PeopleCloud:    e.cloud(true),
	}
	for s := model.MinScore; s <= model.MaxScore; s++ {
		d.DaysSince = append(d.DaysSince, e.DaysSinceScore(s, now))
	}
	if e.cfg.BirthDate != "" {
		if birth, err := model.ParseDate(e.cfg.BirthDate); err == nil {
			d.Life = e.LifeProgress(birth, now)
		}
	}
	return d
}

// cloud returns the most used tags of one kind.
func (e *Engine) cloud(person bool) []tagcache.TagStats {
	sub := tagcache.Table{}
	for k, s := range e.tags {
		if s.IsPerson == person {
			sub[k] = s
		}
	}
	out := sub.Sort(tagcache.SortByCount, true)
	if len(out) > cloudSize {
		out = out[:cloudSize]
	}
	return out
}
