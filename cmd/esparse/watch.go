package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SKalt/meriyah-sub000/cache"
)

// watch parses a.Files, then reparses each one whenever it changes until
// ctx is done. The directories are watched rather than the files so that
// editors that replace files on save are noticed.
func watch(ctx context.Context, a args, stdout, stderr io.Writer, log *zap.Logger) error {
	c, err := cache.New(a.CacheSize)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer w.Close()

	files := make(map[string]string) // absolute path -> name as given
	dirs := make(map[string]bool)
	for _, name := range a.Files {
		abs, err := filepath.Abs(name)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", name)
		}
		files[abs] = name
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watching %s", dir)
		}
	}

	reparse := func(names ...string) error {
		var sources []source
		for _, name := range names {
			src, err := os.ReadFile(name)
			if err != nil {
				log.Warn("skipping unreadable file", zap.String("file", name), zap.Error(err))
				continue
			}
			sources = append(sources, source{name: filepath.ToSlash(name), text: string(src)})
		}
		failed, err := run(ctx, a, sources, c.Parse, stdout, stderr, log)
		hits, misses := c.Stats()
		log.Debug("reparsed",
			zap.Int("files", len(sources)),
			zap.Int("failed", failed),
			zap.Uint64("cacheHits", hits),
			zap.Uint64("cacheMisses", misses))
		return err
	}

	if err := reparse(a.Files...); err != nil {
		return err
	}
	log.Info("watching", zap.Strings("files", a.Files))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, tracked := files[filepath.Clean(ev.Name)]
			if !tracked || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := reparse(name); err != nil && ctx.Err() == nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
