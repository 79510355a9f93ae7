package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded coolc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors coolc.toml:
//
//	[project]
//	name = "examples"
//	inputs = ["tests/semant"]
//
//	[analysis]
//	max_diagnostics = 100
//	jobs = 4
//	format = "pretty"
//	emit = "none"
//
//	[cache]
//	enabled = true
//	dir = ".coolc-cache"
//
//	[trace]
//	level = "phase"
//	mode = "stream"
//	output = "trace.log"
type Config struct {
	Project  ProjectConfig  `toml:"project"`
	Analysis AnalysisConfig `toml:"analysis"`
	Cache    CacheConfig    `toml:"cache"`
	Trace    TraceConfig    `toml:"trace"`
}

type ProjectConfig struct {
	Name   string   `toml:"name"`
	Inputs []string `toml:"inputs"`
}

type AnalysisConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
	Format         string `toml:"format"`
	Emit           string `toml:"emit"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

var knownFormats = map[string]bool{"short": true, "pretty": true, "json": true, "sarif": true}

// LoadManifest finds coolc.toml above startDir and loads it. ok is false
// when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates the manifest at path. Every section is
// optional; unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	var cfg Config
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
	if meta.IsDefined("project", "name") && strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: [project].name is empty", path)
	}
	a := cfg.Analysis
	if a.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].max_diagnostics must be >= 0", path)
	}
	if a.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].jobs must be >= 0", path)
	}
	if meta.IsDefined("analysis", "format") && !knownFormats[a.Format] {
		return Config{}, fmt.Errorf("%s: [analysis].format must be short, pretty, json or sarif, got %q", path, a.Format)
	}
	if meta.IsDefined("analysis", "emit") && a.Emit != "ast" && a.Emit != "none" {
		return Config{}, fmt.Errorf("%s: [analysis].emit must be ast or none, got %q", path, a.Emit)
	}
	// кэш включён по умолчанию, если секция задана без enabled
	if meta.IsDefined("cache") && !meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = true
	}
	return cfg, nil
}

// InputPaths resolves [project].inputs against the manifest directory.
func (m *Manifest) InputPaths() []string {
	out := make([]string, 0, len(m.Config.Project.Inputs))
	for _, in := range m.Config.Project.Inputs {
		p := filepath.FromSlash(in)
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out = append(out, p)
	}
	return out
}

// CacheDir resolves [cache].dir; empty means the user cache directory.
func (m *Manifest) CacheDir() string {
	dir := m.Config.Cache.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
