package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/junioryono/lazydi"
	"github.com/rs/zerolog"
)

// Watch loads root, hands the result to onLoad and loads again whenever a
// file below root is written, created, removed or renamed. Bursts of events
// are debounced. Watch blocks until ctx is done and then returns nil.
//
// Only loaders created with NewDir can watch.
func (l *Loader) Watch(ctx context.Context, root string, onLoad func(lazydi.Tree, error), opts ...Option) error {
	if l.dir == "" {
		return ErrNotWatchable
	}

	root, err := cleanRoot(root)
	if err != nil {
		return err
	}
	o := l.opts.with(opts)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := l.addDirs(fsw, root); err != nil {
		return err
	}

	onLoad(l.Load(ctx, root, opts...))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event) {
				continue
			}

			if event.Has(fsnotify.Create) {
				l.watchCreated(fsw, event.Name, o.logger)
			}

			if timer == nil {
				timer = time.NewTimer(o.debounce)
			} else {
				timer.Reset(o.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			def, err := l.Load(ctx, root, opts...)
			if ctx.Err() != nil {
				return nil
			}
			o.logger.Debug().Str("root", root).Msg("reloaded")
			onLoad(def, err)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn().Err(err).Str("root", root).Msg("watch error")
		}
	}
}

// watchCreated starts watching name if it is a new directory.
func (l *Loader) watchCreated(fsw *fsnotify.Watcher, name string, logger zerolog.Logger) {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(l.dir, name)
	if err != nil {
		return
	}
	if err := l.addDirs(fsw, filepath.ToSlash(rel)); err != nil {
		logger.Warn().Err(err).Str("dir", rel).Msg("watch error")
	}
}

// addDirs watches dir and every visible directory below it.
func (l *Loader) addDirs(fsw *fsnotify.Watcher, dir string) error {
	return fs.WalkDir(l.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ModuleError{Module: p, Cause: err}
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && isHidden(d.Name()) {
			return fs.SkipDir
		}

		if err := fsw.Add(filepath.Join(l.dir, filepath.FromSlash(p))); err != nil {
			return fmt.Errorf("watching directory %s: %w", p, err)
		}
		return nil
	})
}

// isRelevantEvent reports whether event can change a definition.
func isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return !isHidden(filepath.Base(event.Name))
}
