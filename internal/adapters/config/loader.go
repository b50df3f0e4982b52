// Package config provides the configuration loader for specscope.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration. An explicit path must exist. Otherwise the
// nearest specscope.yaml at or above cwd is used, and defaults apply when there
// is none. Relative paths in the result are made absolute against the config
// file's directory, or cwd when no file was found.
func (l *Loader) Load(cwd, explicitPath string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	configPath := explicitPath
	if configPath == "" {
		configPath = findConfiguration(cwd)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(cwd, configPath)
	}

	base := cwd
	if configPath == "" {
		l.Logger.Debug("no config file found, using defaults", "cwd", cwd)
	} else {
		var file File
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return domain.Config{}, zerr.With(err, "path", configPath)
		}
		apply(&cfg, &file)
		base = filepath.Dir(configPath)
		l.Logger.Debug("loaded config", "path", configPath)
	}

	cfg.Knowledge.Path = absolute(base, cfg.Knowledge.Path)
	cfg.Store.Path = absolute(base, cfg.Store.Path)

	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is provided by the user or discovered by walking up
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

func absolute(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func apply(cfg *domain.Config, f *File) {
	if e := f.Engine; e != nil {
		set(&cfg.Engine.Endpoint, e.Endpoint)
		set(&cfg.Engine.APIKeyEnv, e.APIKeyEnv)
		set(&cfg.Engine.Budget, e.Budget)
		set(&cfg.Engine.TriageTimeout, e.TriageTimeout)
		set(&cfg.Engine.DeepTimeout, e.DeepTimeout)
		set(&cfg.Engine.TriageShare, e.TriageShare)
		set(&cfg.Engine.RateLimit, e.RateLimit)
		set(&cfg.Engine.Burst, e.Burst)
		set(&cfg.Engine.MaxRetries, e.MaxRetries)
	}
	if k := f.Knowledge; k != nil {
		set(&cfg.Knowledge.Path, k.Path)
		set(&cfg.Knowledge.Timeout, k.Timeout)
	}
	if e := f.Enricher; e != nil {
		if len(e.PrivilegedPatterns) > 0 {
			cfg.Enricher.PrivilegedPatterns = e.PrivilegedPatterns
		}
		set(&cfg.Enricher.MaxDependents, e.MaxDependents)
		set(&cfg.Enricher.MaxPathDepth, e.MaxPathDepth)
	}
	if c := f.Cache; c != nil {
		applyLevel(&cfg.Cache.Parse, c.Parse)
		applyLevel(&cfg.Cache.Spec, c.Spec)
		applyLevel(&cfg.Cache.Findings, c.Findings)
		applyLevel(&cfg.Cache.Graph, c.Graph)
		set(&cfg.Cache.SweepInterval, c.SweepInterval)
	}
	if s := f.Store; s != nil {
		set(&cfg.Store.Backend, s.Backend)
		set(&cfg.Store.Path, s.Path)
		set(&cfg.Store.RedisAddr, s.RedisAddr)
		set(&cfg.Store.RedisDB, s.RedisDB)
		set(&cfg.Store.KeyPrefix, s.KeyPrefix)
		set(&cfg.Store.TTL, s.TTL)
	}
	if t := f.Telemetry; t != nil {
		set(&cfg.Telemetry.Enabled, t.Enabled)
	}
}

func applyLevel(dst *domain.CacheLevelConfig, src *CacheLevelDTO) {
	if src == nil {
		return
	}
	set(&dst.Capacity, src.Capacity)
	set(&dst.TTL, src.TTL)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
