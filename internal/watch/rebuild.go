// Package watch keeps the tag cache in step with the score files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rcliao/faveday/internal/store"
	"github.com/rcliao/faveday/internal/tagcache"
)

// Result describes one tag cache rebuild.
type Result struct {
	Path     string         `json:"path"`
	Entries  int            `json:"entries"`
	Tags     int            `json:"tags"`
	BuiltAt  time.Time      `json:"built_at"`
	Duration time.Duration  `json:"duration_ns"`
	Table    tagcache.Table `json:"-"`
}

// Rebuilder recomputes the tag cache from the store and saves it.
// Concurrent rebuilds share a single run.
type Rebuilder struct {
	store store.Store
	path  string
	log   zerolog.Logger
	now   func() time.Time
	group singleflight.Group
}

// NewRebuilder creates a rebuilder writing to cachePath.
func NewRebuilder(s store.Store, cachePath string, log zerolog.Logger) *Rebuilder {
	return &Rebuilder{
		store: s,
		path:  cachePath,
		log:   log.With().Str("component", "tagcache").Logger(),
		now:   time.Now,
	}
}

// SetClock overrides the time used for recent-activity flags.
func (r *Rebuilder) SetClock(now func() time.Time) {
	r.now = now
}

// Rebuild loads every entry, builds the table and saves it.
func (r *Rebuilder) Rebuild(ctx context.Context) (Result, error) {
	v, err, shared := r.group.Do("rebuild", func() (interface{}, error) {
		return r.rebuild(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	if shared {
		r.log.Debug().Msg("joined in-flight rebuild")
	}
	return v.(Result), nil
}

func (r *Rebuilder) rebuild(ctx context.Context) (Result, error) {
	start := time.Now()
	entries, err := r.store.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load entries: %w", err)
	}
	table := tagcache.Build(entries, r.now())
	if err := tagcache.Save(r.path, table); err != nil {
		return Result{}, fmt.Errorf("save tag cache: %w", err)
	}
	res := Result{
		Path:     r.path,
		Entries:  len(entries),
		Tags:     len(table),
		BuiltAt:  r.now(),
		Duration: time.Since(start),
		Table:    table,
	}
	r.log.Info().Int("entries", res.Entries).Int("tags", res.Tags).Dur("took", res.Duration).Msg("tag cache rebuilt")
	return res, nil
}

// Load returns the saved tag cache, rebuilding it when the file is missing.
func (r *Rebuilder) Load(ctx context.Context) (tagcache.Table, error) {
	table, err := tagcache.Load(r.path)
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		r.log.Warn().Err(err).Str("path", r.path).Msg("unreadable tag cache, rebuilding")
	}
	res, err := r.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}
