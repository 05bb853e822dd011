package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jack/jack/parser"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "jack.toml"

var log = commonlog.GetLogger("jack.project")

// Project is a directory tree of .jack sources with an optional jack.toml
// at its root.
type Project struct {
	RootDir    string
	ConfigPath string // empty when no jack.toml was found
	Config     Config
}

type Config struct {
	Source    SourceConfig    `toml:"source"`
	Tokenizer TokenizerConfig `toml:"tokenizer"`
	Check     CheckConfig     `toml:"check"`
}

type SourceConfig struct {
	Dirs    []string `toml:"dirs"`
	Exclude []string `toml:"exclude"`
}

type TokenizerConfig struct {
	Lenient bool `toml:"lenient"`
}

type CheckConfig struct {
	Timeout Duration `toml:"timeout"`
	Workers int      `toml:"workers"`
}

// Duration wraps time.Duration so it can be written as "10s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when jack.toml is absent.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Dirs:    []string{"."},
			Exclude: []string{"build"},
		},
		Check: CheckConfig{
			Timeout: Duration{10 * time.Second},
			Workers: 4,
		},
	}
}

// applyDefaults fills in values the file left out.
func (c *Config) applyDefaults() {
	def := Default()
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = def.Source.Dirs
	}
	if c.Check.Timeout.Duration <= 0 {
		c.Check.Timeout = def.Check.Timeout
	}
	if c.Check.Workers <= 0 {
		c.Check.Workers = def.Check.Workers
	}
}

// ParserOptions returns the tokenizer settings as parser options.
func (c Config) ParserOptions() []parser.Option {
	if c.Tokenizer.Lenient {
		return []parser.Option{parser.WithLenient()}
	}
	return nil
}

// Load reads dir/jack.toml if it exists. A missing file yields the
// default configuration.
func Load(dir string) (*Project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	proj := &Project{RootDir: root, Config: Default()}

	path := filepath.Join(root, ConfigFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no %s in %s, using defaults", ConfigFile, root)
		return proj, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	proj.ConfigPath = path
	proj.Config = cfg
	log.Infof("loaded %s", path)
	return proj, nil
}

// Find walks up from dir to the nearest directory holding jack.toml and
// loads it. Without one, dir itself is the project root.
func Find(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for d := abs; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, ConfigFile)); err == nil {
			return Load(d)
		}
		if filepath.Dir(d) == d {
			break
		}
	}
	return Load(abs)
}

// Encode renders c as TOML, the way `jackc init` writes it.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteConfig creates dir/jack.toml from c. It refuses to overwrite an
// existing file.
func WriteConfig(dir string, c Config) (string, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	data, err := c.Encode()
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Files returns every .jack file under the configured source directories,
// sorted. Hidden directories and excluded paths are skipped.
func (p *Project) Files() ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, dir := range p.Config.Source.Dirs {
		srcDir := dir
		if !filepath.IsAbs(srcDir) {
			srcDir = filepath.Join(p.RootDir, dir)
		}

		err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p.excluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != srcDir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".jack") || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan jack files in %s: %w", srcDir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (p *Project) excluded(path string) bool {
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ex := range p.Config.Source.Exclude {
		ex = strings.TrimSuffix(filepath.ToSlash(ex), "/")
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
		if ok, _ := filepath.Match(ex, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// Entrypoint is a class that declares "function void main()".
type Entrypoint struct {
	ClassName string
	Path      string
}

// FindEntrypoints parses the project's files and returns the classes that
// can start a program. Files that fail to parse are skipped.
func (p *Project) FindEntrypoints() ([]Entrypoint, error) {
	files, err := p.Files()
	if err != nil {
		return nil, err
	}

	var entrypoints []Entrypoint
	for _, file := range files {
		ep, ok, err := findEntrypointInFile(file, p.Config.ParserOptions())
		if err != nil {
			log.Debugf("skip %s: %v", file, err)
			continue
		}
		if ok {
			entrypoints = append(entrypoints, ep)
		}
	}
	return entrypoints, nil
}

func findEntrypointInFile(path string, opts []parser.Option) (Entrypoint, bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Entrypoint{}, false, err
	}
	class, err := parser.Parse(string(src), append(opts, parser.WithFile(path))...)
	if err != nil {
		return Entrypoint{}, false, err
	}
	if !hasMainFunction(class) {
		return Entrypoint{}, false, nil
	}
	return Entrypoint{ClassName: class.Name.Name, Path: path}, true, nil
}

func hasMainFunction(class *parser.Class) bool {
	for _, sub := range class.Subroutines {
		if sub.Kind == parser.SubroutineFunction &&
			sub.Name.Name == "main" &&
			sub.ReturnType.IsPrimitive() && sub.ReturnType.Primitive == parser.PrimitiveVoid &&
			len(sub.Parameters) == 0 {
			return true
		}
	}
	return false
}
