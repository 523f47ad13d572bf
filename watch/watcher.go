package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultDebounce = 300 * time.Millisecond

// LoadFunc loads and checks a config file. A non-nil error keeps the
// current snapshot in place.
type LoadFunc func(path string) (*config.SiteConfig, error)

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLoader(load LoadFunc) Option {
	return func(w *Watcher) { w.load = load }
}

// OnSwap registers a callback run after every successful reload.
func OnSwap(fn func(cfg *config.SiteConfig)) Option {
	return func(w *Watcher) { w.onSwap = fn }
}

// Watcher reloads a config file into a Snapshot whenever the file changes.
type Watcher struct {
	path     string
	snap     *Snapshot
	logger   zerolog.Logger
	load     LoadFunc
	debounce time.Duration
	onSwap   func(*config.SiteConfig)
	fs       *fsnotify.Watcher
}

func NewWatcher(path string, snap *Snapshot, logger zerolog.Logger, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	// Editors replace files on save, so watch the directory.
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	w := &Watcher{
		path:     abs,
		snap:     snap,
		logger:   logger.With().Str("config", abs).Logger(),
		load:     config.LoadValid,
		debounce: DefaultDebounce,
		fs:       fs,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	name := filepath.Base(w.path)

	w.logger.Info().Msg("Watching config for changes")
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				if event.Op&fsnotify.Remove != 0 {
					w.logger.Warn().Msg("Config file removed, keeping last snapshot")
				}
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("Config change detected")
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("Config watcher error")
		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Error().Err(err).Msg("Reload rejected, keeping last snapshot")
			}
		}
	}
}

// Reload loads the file now and swaps it in if it is acceptable.
func (w *Watcher) Reload() error {
	cfg, err := w.load(w.path)
	if err != nil {
		return err
	}
	w.snap.Swap(cfg)
	w.logger.Info().Uint64("version", w.snap.Version()).Str("title", cfg.Title).Msg("Config reloaded")
	if w.onSwap != nil {
		w.onSwap(cfg)
	}
	return nil
}
