package codebase

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileWatcher polls the codebase root for .jack files that appeared,
// changed or disappeared, updates the codebase, and reports each path
// through OnChange.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// Skip, when set, leaves matching paths alone; the LSP server uses
	// it for files open in the editor.
	Skip func(path string) bool

	// OnChange is called after path was rescanned or removed.
	OnChange func(path string, removed bool)
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan performs one poll. It is exported so callers can drive the
// watcher without a ticker.
func (w *FileWatcher) Scan() {
	root := w.codebase.RootDir()
	currentFiles := make(map[string]bool)

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isJackFile(path) {
			return nil
		}

		currentFiles[path] = true
		if w.Skip != nil && w.Skip(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("rescan %s: %v", path, err)
				return nil
			}
			w.notify(path, false)
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			w.notify(path, true)
		}
	}
}

func (w *FileWatcher) notify(path string, removed bool) {
	if w.OnChange != nil {
		w.OnChange(path, removed)
	}
}
