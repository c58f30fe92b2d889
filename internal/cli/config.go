package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/blockarchiver/bkar/pkg/fs"
)

// Config holds ambient, non-format options. It never carries on-disk format
// parameters (block size, capacities) —
// those are compile-time constants of pkg/archive, not configuration.
type Config struct {
	// DefaultVerbose sets the verbosity level applied when -v is not given
	// on the command line. 0, 1 ("-v"), or 2 ("-vv").
	DefaultVerbose int `json:"default_verbose,omitempty"`

	// ExtractDir overrides the working directory used as the destination
	// for extract when the CLI isn't told otherwise.
	ExtractDir string `json:"extract_dir,omitempty"`
}

// configFileName is the project-local config file name, written as JWCC
// (JSON-with-comments) since it's loaded with hujson.
const configFileName = ".bkarrc"

// LoadConfig loads configuration with the following precedence (highest
// wins):
//  1. Defaults (zero Config)
//  2. Global user config ($XDG_CONFIG_HOME/bkar/config.json or ~/.config/bkar/config.json)
//  3. Project config file (.bkarrc in workDir, if present)
func LoadConfig(fsys fs.FS, workDir string, env []string) (Config, error) {
	cfg := Config{}

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(fsys, globalPath)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = mergeConfig(cfg, globalCfg)
		}
	}

	projectPath := filepath.Join(workDir, configFileName)

	projectCfg, loaded, err := loadConfigFile(fsys, projectPath)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = mergeConfig(cfg, projectCfg)
	}

	return cfg, nil
}

func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, "bkar", "config.json")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "bkar", "config.json")
}

// loadConfigFile reads path as JWCC (JSON with comments and trailing
// commas) via hujson, standardizes it to plain JSON, and unmarshals it.
// Returns loaded=false, err=nil if the file doesn't exist.
func loadConfigFile(fsys fs.FS, path string) (Config, bool, error) {
	exists, err := fsys.Exists(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("checking config file %q: %w", path, err)
	}

	if !exists {
		return Config{}, false, nil
	}

	raw, err := fsys.ReadFile(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("reading config file %q: %w", path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Config{}, false, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("decoding config file %q: %w", path, err)
	}

	return cfg, true, nil
}

// cacheResolvedConfig writes the effective, merged Config to
// $XDG_CACHE_HOME/bkar/resolved.json (or ~/.cache/bkar/resolved.json) so a
// user can inspect what was actually picked up across the global/project
// precedence chain. Purely a debugging aid: failures here are never fatal
// to the requested operation, and the write uses a rename-based atomic
// writer so a concurrent read never observes a half-written cache file.
func cacheResolvedConfig(cfg Config, env []string) error {
	path := resolvedConfigCachePath(env)
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling resolved config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

func resolvedConfigCachePath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CACHE_HOME="); ok && after != "" {
			return filepath.Join(after, "bkar", "resolved.json")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".cache", "bkar", "resolved.json")
}

// mergeConfig overlays non-zero fields of override onto base.
func mergeConfig(base, override Config) Config {
	if override.DefaultVerbose != 0 {
		base.DefaultVerbose = override.DefaultVerbose
	}

	if override.ExtractDir != "" {
		base.ExtractDir = override.ExtractDir
	}

	return base
}
