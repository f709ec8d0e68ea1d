package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"showreel/internal/domain"
	"showreel/internal/eventbus"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Watcher refetches a file source whenever the file changes and hands the
// complete new list to OnChange
type Watcher struct {
	Path     string
	Source   Source
	OnChange func([]domain.DisplayItem)
	Debounce time.Duration
	Logger   *zap.Logger
	Bus      eventbus.EventBus
}

// Run watches until ctx is done. The parent directory is watched so that
// editors replacing the file by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("watcher")
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.Path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching", zap.String("path", abs))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change", zap.String("op", ev.Op.String()))
			fire = time.After(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			items := Load(ctx, w.Source, logger, w.Bus)
			if ctx.Err() != nil {
				return nil
			}
			if w.OnChange != nil {
				w.OnChange(items)
			}
		}
	}
}
