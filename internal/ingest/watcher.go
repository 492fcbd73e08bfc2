// Package ingest feeds invoice images dropped into watched folders to the
// invoice service.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultExts are the extensions picked up when WatchConfig.AllowedExts is nil
var DefaultExts = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"heic": {},
	"heif": {},
}

// WatchConfig configures StartWatcher
type WatchConfig struct {
	Roots       []string            // directories to watch, recursively
	AllowedExts map[string]struct{} // lowercase, without '.'
	InitialScan bool                // emit files already present at start
	Debounce    time.Duration       // quiet period before a changed file is emitted
	Logger      *slog.Logger
}

// StartWatcher watches the roots and emits the path of each new or changed
// invoice file once it has been quiet for Debounce. Both channels are
// closed when ctx is cancelled.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = DefaultExts
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	var existing []string
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path, cfg.AllowedExts) {
				existing = append(existing, path)
			}
			return nil
		})
		if err != nil {
			_ = w.Close()
			return nil, nil, fmt.Errorf("watching %s: %w", root, err)
		}
	}

	paths := make(chan string, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(paths)
		defer w.Close()

		emit := func(path string) bool {
			select {
			case paths <- path:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, path := range existing {
			if !emit(path) {
				return
			}
		}

		// pending maps a path to the time it becomes due
		pending := map[string]time.Time{}
		var timer *time.Timer
		var timerC <-chan time.Time

		schedule := func() {
			if timer != nil {
				timer.Stop()
				timer, timerC = nil, nil
			}
			var next time.Time
			for _, due := range pending {
				if next.IsZero() || due.Before(next) {
					next = due
				}
			}
			if !next.IsZero() {
				timer = time.NewTimer(time.Until(next))
				timerC = timer.C
			}
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) {
					// New sub-directories are watched too; Add fails harmlessly for files
					_ = w.Add(e.Name)
				}
				if !allowed(e.Name, cfg.AllowedExts) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Rename)) {
					continue
				}
				if cfg.Debounce <= 0 {
					if !emit(e.Name) {
						return
					}
					continue
				}
				pending[e.Name] = time.Now().Add(cfg.Debounce)
				schedule()

			case <-timerC:
				now := time.Now()
				for path, due := range pending {
					if due.After(now) {
						continue
					}
					delete(pending, path)
					if !emit(path) {
						return
					}
				}
				timer, timerC = nil, nil
				schedule()

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errs <- err:
				default:
				}
			}
		}
	}()

	return paths, errs, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := exts[ext]
	return ok
}
