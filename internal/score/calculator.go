// Package score collapses a set of diary entries into one representative
// score.
package score

import (
	"math"
	"sort"
	"sync"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/model"
)

// Calculator computes representative scores using the configured strategy.
type Calculator struct {
	mu     sync.RWMutex
	config config.Scoring
}

// NewCalculator creates a calculator for the given scoring configuration.
func NewCalculator(cfg config.Scoring) *Calculator {
	return &Calculator{config: cfg.Clone()}
}

// UpdateConfig replaces the scoring configuration.
func (c *Calculator) UpdateConfig(cfg config.Scoring) {
	c.mu.Lock()
	c.config = cfg.Clone()
	c.mu.Unlock()
}

// Config returns a copy of the current scoring configuration.
func (c *Calculator) Config() config.Scoring {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Clone()
}

func (c *Calculator) snapshot() config.Scoring {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// defaultScore returns the configured fallback for empty days.
func defaultScore(cfg config.Scoring) (float64, bool) {
	if cfg.DefaultEmptyScore == nil {
		return 0, false
	}
	return finite(*cfg.DefaultEmptyScore), true
}

// Prepare returns the scores that take part in a calculation. With a
// default empty score configured, empty days count as that default;
// otherwise they are dropped.
func (c *Calculator) Prepare(entries []model.Entry) []float64 {
	return prepare(c.snapshot(), entries)
}

func prepare(cfg config.Scoring, entries []model.Entry) []float64 {
	def, hasDefault := defaultScore(cfg)
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.IsEmpty() {
			if hasDefault {
				out = append(out, def)
			}
			continue
		}
		out = append(out, float64(e.Score))
	}
	return out
}

// Calculate dispatches on the configured score type. expectedDays is the
// number of calendar days the entries are meant to cover (0 if unknown); it
// only affects the average strategy.
func (c *Calculator) Calculate(entries []model.Entry, expectedDays int) float64 {
	cfg := c.snapshot()
	switch cfg.ScoreType {
	case config.ScoreMedian:
		return median(prepare(cfg, entries))
	case config.ScoreQuality:
		return quality(cfg, prepare(cfg, entries))
	default:
		return average(cfg, entries, expectedDays)
	}
}

// Average returns the mean score. When expectedDays exceeds the number of
// entries and a default empty score is configured, the missing days count as
// the default.
func (c *Calculator) Average(entries []model.Entry, expectedDays int) float64 {
	return average(c.snapshot(), entries, expectedDays)
}

// Median returns the median score.
func (c *Calculator) Median(entries []model.Entry) float64 {
	cfg := c.snapshot()
	return median(prepare(cfg, entries))
}

// Quality returns the mean life-quality weight of the entries.
func (c *Calculator) Quality(entries []model.Entry) float64 {
	cfg := c.snapshot()
	return quality(cfg, prepare(cfg, entries))
}

func average(cfg config.Scoring, entries []model.Entry, expectedDays int) float64 {
	scores := prepare(cfg, entries)
	sum := 0.0
	for _, s := range scores {
		sum += finite(s)
	}

	if def, ok := defaultScore(cfg); ok && expectedDays > len(entries) {
		missing := float64(expectedDays - len(entries))
		return finite((sum + missing*def) / float64(expectedDays))
	}
	if len(scores) == 0 {
		return 0
	}
	return finite(sum / float64(len(scores)))
}

func median(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := make([]float64, len(scores))
	for i, s := range scores {
		sorted[i] = finite(s)
	}
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return finite((sorted[mid-1] + sorted[mid]) / 2)
}

func quality(cfg config.Scoring, scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += Weight(cfg, s)
	}
	return finite(sum / float64(len(scores)))
}

// Weight returns the life-quality weight of a score; unknown scores weigh 0.
func Weight(cfg config.Scoring, s float64) float64 {
	if s != math.Trunc(s) {
		return 0
	}
	return finite(cfg.LifeQualityWeights[int(s)])
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
