// # internal/core/watcher/watcher.go
package watcher

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"layerscope/internal/shared/observability"
)

// ManifestWatcher re-reads a manifest of architecture ids whenever the file
// changes and hands the listed ids to the callback, debounced so editors
// that write in several steps trigger one re-parse.
type ManifestWatcher struct {
	fsWatcher *fsnotify.Watcher
	manifest  string
	debounce  time.Duration
	exclude   []glob.Glob
	onChange  func([]string)

	pendingMu sync.Mutex
	pending   bool
	timer     *time.Timer

	callbackMu sync.Mutex
}

func NewManifestWatcher(manifest string, debounce time.Duration, exclude []string, onChange func([]string)) (*ManifestWatcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	compiled := make([]glob.Glob, 0, len(exclude))
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ManifestWatcher{
		fsWatcher: fsw,
		manifest:  filepath.Clean(manifest),
		debounce:  debounce,
		exclude:   compiled,
		onChange:  onChange,
	}, nil
}

// Start begins watching. The manifest's directory is watched rather than the
// file itself so atomic saves (write temp + rename) keep working.
func (w *ManifestWatcher) Start() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.manifest)); err != nil {
		return err
	}
	go w.run()
	return nil
}

func (w *ManifestWatcher) Close() error {
	return w.fsWatcher.Close()
}

func (w *ManifestWatcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if !w.matchesManifest(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("manifest watcher error", "error", err)
		}
	}
}

func (w *ManifestWatcher) matchesManifest(path string) bool {
	if filepath.Clean(path) != w.manifest {
		return false
	}
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (w *ManifestWatcher) schedule() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *ManifestWatcher) flush() {
	w.pendingMu.Lock()
	fire := w.pending
	w.pending = false
	w.pendingMu.Unlock()
	if !fire {
		return
	}

	ids, err := ReadManifest(w.manifest)
	if err != nil {
		slog.Warn("failed to read manifest", "path", w.manifest, "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(ids)
}

// ReadManifest parses a manifest file: one architecture id per line, blank
// lines and #-comments ignored, duplicates dropped in order.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
