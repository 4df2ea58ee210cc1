package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/toyz/axonlint/internal/errors"
	"github.com/toyz/axonlint/internal/utils"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to settle
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls back when Go sources below a root directory change
type Watcher struct {
	root        string
	exclude     []string
	debounce    time.Duration
	filter      utils.DirectoryFilter
	diagnostics *utils.DiagnosticSystem
	ready       chan struct{}
}

// NewWatcher creates a watcher for root, ignoring files matching exclude
func NewWatcher(root string, exclude []string, diagnostics *utils.DiagnosticSystem) *Watcher {
	return &Watcher{
		root:        root,
		exclude:     exclude,
		debounce:    DefaultDebounce,
		filter:      utils.DefaultDirectoryFilter(),
		diagnostics: diagnostics,
		ready:       make(chan struct{}),
	}
}

// SetDebounce overrides the settle delay
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Ready is closed once every directory is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. onChange runs on the watcher's goroutine with the
// changed files of one settled burst, so runs never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapFileSystemError("watch", w.root, err)
	}
	defer func() { _ = watcher.Close() }()

	if _, err := os.Stat(w.root); err != nil {
		return errors.WrapFileSystemError("watch", w.root, err)
	}

	dirs, err := utils.SourceDirectories(w.root, w.filter)
	if err != nil {
		return errors.WrapFileSystemError("walk", w.root, err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			w.diagnostics.Warn("Cannot watch %s: %v", dir, err)
		}
	}
	w.diagnostics.Verbose("Watching %d directories below %s", len(dirs), w.root)
	close(w.ready)

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]bool)

	schedule := func(name string) {
		pending[name] = true
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			timer.Reset(w.debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.filter(event.Name, dirEntry{info}) {
						for _, name := range w.watchTree(watcher, event.Name) {
							schedule(name)
						}
					}
					continue
				}
			}

			if !utils.IsGoSource(event.Name) || utils.MatchesAny(event.Name, w.exclude) {
				continue
			}

			schedule(event.Name)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)
			onChange(ctx, changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("Watcher error: %v", err)
		}
	}
}

// watchTree watches a new directory and everything below it. Directories created in
// the same burst, as by mkdir -p, raise no events of their own, so files already in the
// tree are returned as changed.
func (w *Watcher) watchTree(watcher *fsnotify.Watcher, root string) []string {
	dirs, err := utils.SourceDirectories(root, w.filter)
	if err != nil {
		w.diagnostics.Warn("Cannot walk %s: %v", root, err)
		return nil
	}

	var changed []string
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			w.diagnostics.Warn("Cannot watch %s: %v", dir, err)
			continue
		}
		w.diagnostics.Debug("Watching new directory %s", dir)
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := filepath.Join(dir, entry.Name())
			if !entry.IsDir() && utils.IsGoSource(name) && !utils.MatchesAny(name, w.exclude) {
				changed = append(changed, name)
			}
		}
	}
	return changed
}

// dirEntry adapts os.FileInfo to fs.DirEntry for directory filters
type dirEntry struct {
	info os.FileInfo
}

func (d dirEntry) Name() string               { return d.info.Name() }
func (d dirEntry) IsDir() bool                { return d.info.IsDir() }
func (d dirEntry) Type() os.FileMode          { return d.info.Mode().Type() }
func (d dirEntry) Info() (os.FileInfo, error) { return d.info, nil }

// relativeNames shortens changed paths for display
func relativeNames(base string, names []string) []string {
	result := make([]string, 0, len(names))
	for _, name := range names {
		if rel, err := filepath.Rel(base, name); err == nil {
			name = rel
		}
		result = append(result, name)
	}
	return result
}
