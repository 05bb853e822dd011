package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jack/jack/parser"
)

var log = commonlog.GetLogger("jack.codebase")

// Codebase indexes the parsed .jack files under a root directory. It is
// safe for concurrent use.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	opts    []parser.Option
	files   map[string]*FileInfo
	classes map[string]*parser.Class
}

type FileInfo struct {
	Path    string
	Content []byte

	// Class is the tree from the latest content, nil when it failed
	// to parse.
	Class    *parser.Class
	ParseErr error

	// Outline is the most recent tree that parsed, possibly from older
	// content. Completion uses it while the file is mid-edit.
	Outline *parser.Class
}

// New returns an empty Codebase rooted at rootDir. opts are passed to the
// parser for every file.
func New(rootDir string, opts ...parser.Option) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*FileInfo),
		classes: make(map[string]*parser.Class),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll parses every .jack file below the root, skipping hidden
// directories. Unreadable entries are logged and skipped.
func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.rootDir {
				return err
			}
			log.Warningf("skip %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isJackFile(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %v", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile replaces the content of path and reparses it. Parse failures
// are recorded on the FileInfo rather than returned.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	opts := append(append([]parser.Option(nil), c.opts...), parser.WithFile(filepath.Base(path)))
	class, err := parser.Parse(string(content), opts...)

	c.mu.Lock()
	defer c.mu.Unlock()

	info := &FileInfo{
		Path:     path,
		Content:  content,
		Class:    class,
		ParseErr: err,
		Outline:  class,
	}
	if class == nil {
		if prev := c.files[path]; prev != nil {
			info.Outline = prev.Outline
		}
		log.Debugf("parse %s: %v", path, err)
	}
	c.files[path] = info

	c.rebuildClassesLocked()
	return info
}

func (c *Codebase) rebuildClassesLocked() {
	classes := make(map[string]*parser.Class, len(c.files))
	for _, path := range c.pathsLocked() {
		outline := c.files[path].Outline
		if outline == nil {
			continue
		}
		if _, dup := classes[outline.Name.Name]; dup {
			log.Warningf("class %s declared again in %s", outline.Name.Name, path)
			continue
		}
		classes[outline.Name.Name] = outline
	}
	c.classes = classes
}

func (c *Codebase) pathsLocked() []string {
	paths := lo.Keys(c.files)
	sort.Strings(paths)
	return paths
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildClassesLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the indexed file paths, sorted.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pathsLocked()
}

// Classes returns the indexed classes sorted by name.
func (c *Codebase) Classes() []*parser.Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	classes := lo.Values(c.classes)
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Name.Name < classes[j].Name.Name
	})
	return classes
}

func (c *Codebase) FindClass(name string) *parser.Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes[name]
}

func isJackFile(path string) bool {
	return filepath.Ext(path) == ".jack"
}
