package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"weld/internal/catalog"
	"weld/internal/optimize"
)

// FileName is the project configuration file looked up from the working
// directory towards the filesystem root
const FileName = "weld.toml"

// Config is a decoded weld.toml:
//
//	[catalog]
//	rules = ["patterns/collections.patterns"]
//
//	[pipeline]
//	passes = ["boundary-elimination", "constant-folding"]
//	jobs = 4
//
//	[log]
//	verbosity = 1
type Config struct {
	// Path of the file the config was read from, empty for defaults
	Path string `toml:"-"`
	// Directory rule paths are resolved against
	Root string `toml:"-"`

	Catalog  CatalogConfig  `toml:"catalog"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Log      LogConfig      `toml:"log"`
}

type CatalogConfig struct {
	Rules []string `toml:"rules"`
}

type PipelineConfig struct {
	Passes []string `toml:"passes"`
	Jobs   int      `toml:"jobs"`
}

type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default is the configuration used without a weld.toml: built-in patterns
// and the standard pipeline
func Default() Config {
	return Config{
		Root:     ".",
		Pipeline: PipelineConfig{Passes: []string{optimize.BoundaryElimination{}.Name()}},
	}
}

// Find looks for weld.toml in startDir and its parents
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest weld.toml, or returns Default when there is none
func Discover(startDir string) (Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Load reads and validates a weld.toml. Sections that are left out keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.Root = filepath.Dir(path)

	if meta.IsDefined("pipeline", "passes") {
		for _, name := range cfg.Pipeline.Passes {
			if _, err := optimize.ByName(name); err != nil {
				return Config{}, fmt.Errorf("%s: [pipeline].passes: %w", path, err)
			}
		}
	}
	if cfg.Pipeline.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [pipeline].jobs must not be negative", path)
	}
	for i, rule := range cfg.Catalog.Rules {
		if strings.TrimSpace(rule) == "" {
			return Config{}, fmt.Errorf("%s: [catalog].rules[%d] is empty", path, i)
		}
	}
	return cfg, nil
}

// RulePaths returns the rule files with relative paths resolved against Root
func (c Config) RulePaths() []string {
	out := make([]string, len(c.Catalog.Rules))
	for i, rule := range c.Catalog.Rules {
		p := filepath.FromSlash(rule)
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Root, p)
		}
		out[i] = p
	}
	return out
}

// BuildCatalog returns the built-in catalog extended with every rule file
func (c Config) BuildCatalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	for _, path := range c.RulePaths() {
		if _, err := cat.LoadRules(path); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cat, nil
}

// BuildPipeline returns the configured optimization pipeline
func (c Config) BuildPipeline() (*optimize.Pipeline, error) {
	return optimize.FromNames(c.Pipeline.Passes)
}
