// Package config provides configuration management for faveday.
//
// Settings are read from a YAML file (default ~/.faveday/config.yaml) merged
// over Default(), then overridden by FAVEDAY_* environment variables.
// A Manager owns the current Config and hands sections of it by value to the
// score calculator and the widget engine.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ScoreType selects how a set of entries collapses into one score.
type ScoreType string

const (
	ScoreAverage ScoreType = "average"
	ScoreMedian  ScoreType = "median"
	ScoreQuality ScoreType = "quality"
)

// Storage backends.
const (
	StorageFiles  = "files"
	StorageSQLite = "sqlite"
)

// Scoring configures the score calculator.
type Scoring struct {
	ScoreType ScoreType `yaml:"score_type" json:"score_type"`

	// DefaultEmptyScore, when set, stands in for days without a score.
	DefaultEmptyScore  *float64        `yaml:"default_empty_score,omitempty" json:"default_empty_score,omitempty"`
	LifeQualityWeights map[int]float64 `yaml:"life_quality_weights" json:"life_quality_weights"`
}

// Trending configures surge detection for topics and people.
type Trending struct {
	WindowDays    int     `yaml:"window_days" json:"window_days"`
	MinRecentUses int     `yaml:"min_recent_uses" json:"min_recent_uses"`
	TopicSurge    float64 `yaml:"topic_surge" json:"topic_surge"`
	PeopleSurge   float64 `yaml:"people_surge" json:"people_surge"`
	TopicCeiling  int     `yaml:"topic_ceiling" json:"topic_ceiling"`
	PeopleCeiling int     `yaml:"people_ceiling" json:"people_ceiling"`
	Limit         int     `yaml:"limit" json:"limit"`
}

// SuperTag configures the composite "super tag" score.
type SuperTag struct {
	MinRecentUses int     `yaml:"min_recent_uses" json:"min_recent_uses"`
	ExpectedShare float64 `yaml:"expected_share" json:"expected_share"`
	ExpectedMin   float64 `yaml:"expected_min" json:"expected_min"`
	ExpectedMax   float64 `yaml:"expected_max" json:"expected_max"`
}

// Suggest configures tag suggestions for free text.
type Suggest struct {
	MinUses       int `yaml:"min_uses" json:"min_uses"`
	MinWordLength int `yaml:"min_word_length" json:"min_word_length"`
}

// Widgets is the part of the configuration the widget engine reads.
type Widgets struct {
	Trending  Trending
	SuperTag  SuperTag
	BirthDate string
}

// Config holds the application configuration.
type Config struct {
	DataDir      string `yaml:"data_dir" json:"data_dir"`
	Storage      string `yaml:"storage" json:"storage"`
	DBPath       string `yaml:"db_path" json:"db_path"`
	TagCachePath string `yaml:"tag_cache_path,omitempty" json:"tag_cache_path,omitempty"`
	BirthDate    string `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	LogLevel     string `yaml:"log_level" json:"log_level"`

	Scoring  Scoring  `yaml:"scoring" json:"scoring"`
	Trending Trending `yaml:"trending" json:"trending"`
	SuperTag SuperTag `yaml:"super_tag" json:"super_tag"`
	Suggest  Suggest  `yaml:"suggest" json:"suggest"`
}

// BaseDir returns ~/.faveday.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".faveday")
}

// DefaultPath returns the config file path ($FAVEDAY_CONFIG or ~/.faveday/config.yaml).
func DefaultPath() string {
	if env := os.Getenv("FAVEDAY_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(BaseDir(), "config.yaml")
}

// DefaultLifeQualityWeights weights great days far above mediocre ones.
func DefaultLifeQualityWeights() map[int]float64 {
	return map[int]float64{1: 0.2, 2: 1.0, 3: 3.0, 4: 8.0, 5: 25.0}
}

// Default returns a Config with default values.
func Default() *Config {
	base := BaseDir()
	return &Config{
		DataDir:  filepath.Join(base, "data"),
		Storage:  StorageFiles,
		DBPath:   filepath.Join(base, "faveday.db"),
		LogLevel: "warn",
		Scoring: Scoring{
			ScoreType:          ScoreAverage,
			LifeQualityWeights: DefaultLifeQualityWeights(),
		},
		Trending: Trending{
			WindowDays:    30,
			MinRecentUses: 2,
			TopicSurge:    1.5,
			PeopleSurge:   1.2,
			TopicCeiling:  100,
			PeopleCeiling: 150,
			Limit:         3,
		},
		SuperTag: SuperTag{
			MinRecentUses: 2,
			ExpectedShare: 0.3,
			ExpectedMin:   5,
			ExpectedMax:   30,
		},
		Suggest: Suggest{
			MinUses:       3,
			MinWordLength: 3,
		},
	}
}

// Load reads the config file at path, merging it over defaults and applying
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FAVEDAY_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("FAVEDAY_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("FAVEDAY_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("FAVEDAY_TAG_CACHE"); v != "" {
		c.TagCachePath = v
	}
	if v := os.Getenv("FAVEDAY_SCORE_TYPE"); v != "" {
		c.Scoring.ScoreType = ScoreType(strings.ToLower(v))
	}
	if v := os.Getenv("FAVEDAY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks enum values and numeric ranges.
func (c *Config) Validate() error {
	switch c.Scoring.ScoreType {
	case ScoreAverage, ScoreMedian, ScoreQuality:
	default:
		return fmt.Errorf("invalid score_type %q (valid: average, median, quality)", c.Scoring.ScoreType)
	}
	switch c.Storage {
	case StorageFiles, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage %q (valid: files, sqlite)", c.Storage)
	}
	for score, w := range c.Scoring.LifeQualityWeights {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("invalid life quality weight for score %d: %v", score, w)
		}
	}
	if c.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", c.BirthDate); err != nil {
			return fmt.Errorf("invalid birth_date %q: %w", c.BirthDate, err)
		}
	}
	return nil
}

// TagCacheFile returns the tag cache path, defaulting to data_dir/tag-cache.json.
func (c *Config) TagCacheFile() string {
	if c.TagCachePath != "" {
		return c.TagCachePath
	}
	return filepath.Join(c.DataDir, "tag-cache.json")
}

// Widgets returns the widget engine's configuration section.
func (c *Config) Widgets() Widgets {
	return Widgets{Trending: c.Trending, SuperTag: c.SuperTag, BirthDate: c.BirthDate}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Scoring = c.Scoring.Clone()
	return &out
}

// Clone returns a deep copy.
func (s Scoring) Clone() Scoring {
	out := s
	if s.DefaultEmptyScore != nil {
		v := *s.DefaultEmptyScore
		out.DefaultEmptyScore = &v
	}
	if s.LifeQualityWeights != nil {
		out.LifeQualityWeights = make(map[int]float64, len(s.LifeQualityWeights))
		for k, v := range s.LifeQualityWeights {
			out.LifeQualityWeights[k] = v
		}
	}
	return out
}

// Set assigns a single key by its YAML name. Used by `faveday config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "data_dir":
		c.DataDir = value
	case "storage":
		c.Storage = value
	case "db_path":
		c.DBPath = value
	case "tag_cache_path":
		c.TagCachePath = value
	case "birth_date":
		c.BirthDate = value
	case "log_level":
		c.LogLevel = value
	case "score_type", "scoring.score_type":
		c.Scoring.ScoreType = ScoreType(strings.ToLower(value))
	case "default_empty_score", "scoring.default_empty_score":
		if value == "" || value == "none" {
			c.Scoring.DefaultEmptyScore = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("default_empty_score: %w", err)
		}
		c.Scoring.DefaultEmptyScore = &f
	default:
		if rest, ok := strings.CutPrefix(key, "life_quality_weights."); ok {
			score, err := strconv.Atoi(rest)
			if err != nil {
				return fmt.Errorf("life quality weight key %q: %w", key, err)
			}
			w, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("life quality weight: %w", err)
			}
			if c.Scoring.LifeQualityWeights == nil {
				c.Scoring.LifeQualityWeights = map[int]float64{}
			}
			c.Scoring.LifeQualityWeights[score] = w
			return nil
		}
		return errors.New("unknown config key " + strconv.Quote(key))
	}
	return nil
}
