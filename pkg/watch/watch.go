// Package watch rebuilds when documents under a root change.
//
// A [Watcher] follows every directory the scanner would visit, collects
// document events into a batch and hands the batch to OnChange once the tree
// has been quiet for the debounce interval. Directories created while
// watching are followed too.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/docgraph/pkg/scan"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a document root.
type Watcher struct {
	Root     string
	Debounce time.Duration
	Logger   *log.Logger

	// OnChange receives the sorted root-relative paths changed in a batch.
	// It runs on the watcher goroutine; events arriving meanwhile queue up.
	OnChange func(ctx context.Context, changed []string)

	// dirs is the set of watched directories.
	dirs map[string]bool
}

// New creates a watcher for root with the default debounce.
func New(root string, onChange func(context.Context, []string), logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Watcher{
		Root:     root,
		Debounce: DefaultDebounce,
		Logger:   logger,
		OnChange: onChange,
		dirs:     make(map[string]bool),
	}
}

// Run watches until ctx is cancelled. It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if w.dirs == nil {
		w.dirs = make(map[string]bool)
	}
	if err := w.addTree(fw, w.Root); err != nil {
		return fmt.Errorf("setting up watcher: %w", err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	changed := make(map[string]bool)
	batchTimer := time.NewTimer(debounce)
	batchTimer.Stop()

	w.Logger.Info("watching for changes", "root", w.Root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.isWatchableDir(event.Name) {
				if err := w.addTree(fw, event.Name); err != nil {
					w.Logger.Warn("cannot watch new directory", "path", event.Name, "err", err)
				}
			}
			rel, ok := w.relevant(event)
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.forget(event.Name)
			}
			if !ok {
				continue
			}
			changed[rel] = true
			batchTimer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "err", err)

		case <-batchTimer.C:
			if len(changed) == 0 {
				continue
			}
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			changed = make(map[string]bool)

			w.Logger.Debug("change batch", "files", len(paths))
			if w.OnChange != nil {
				w.OnChange(ctx, paths)
			}
		}
	}
}

// addTree watches dir and every descendant the scanner would visit.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.Logger.Warn("skipping unreadable directory", "path", path, "err", err)
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return err
		}
		w.dirs[filepath.Clean(path)] = true
		return nil
	})
}

// forget drops dir and everything below it from the watched set.
func (w *Watcher) forget(dir string) {
	dir = filepath.Clean(dir)
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
		}
	}
}

func (w *Watcher) isWatchableDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir() && !skipDir(filepath.Base(path))
}

// relevant reports whether event touches a document the scanner would
// include, or removes a directory that may have held some. It returns the
// root-relative slash path.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.Root, event.Name)
	if err != nil || rel == "." {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if skipDir(part) {
			return "", false
		}
	}
	if scan.IsDocument(event.Name) {
		return rel, true
	}
	// Removing or renaming a directory drops every document under it.
	if (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && w.dirs[filepath.Clean(event.Name)] {
		return rel, true
	}
	return "", false
}

func skipDir(name string) bool {
	return scan.IsHidden(name) || scan.SkippedDirs[name]
}
