package watch

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/rcliao/faveday/internal/store"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc is called once a burst of score file changes has settled.
type RebuildFunc func(ctx context.Context) error

// Watcher watches a data directory and calls its RebuildFunc after score
// files change.
type Watcher struct {
	Debounce time.Duration

	dir     string
	rebuild RebuildFunc
	log     zerolog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, rebuild RebuildFunc, log zerolog.Logger) *Watcher {
	return &Watcher{
		Debounce: DefaultDebounce,
		dir:      dir,
		rebuild:  rebuild,
		log:      log.With().Str("component", "watch").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins watching. Call Stop, or cancel ctx, to end it.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw

	go w.loop(ctx)
	w.log.Info().Str("dir", w.dir).Dur("debounce", w.Debounce).Msg("watching score files")
	return nil
}

// Stop shuts down the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w.watcher != nil {
		_ = w.watcher.Close()
		<-w.done
	}
}

// Done is closed when the loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(evt) {
				continue
			}
			w.log.Debug().Str("file", evt.Name).Str("op", evt.Op.String()).Msg("score file changed")
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.rebuild(ctx); err != nil {
				w.log.Error().Err(err).Msg("rebuild failed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func relevant(evt fsnotify.Event) bool {
	if !store.IsYearFile(evt.Name) {
		return false
	}
	return evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
