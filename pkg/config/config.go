// Package config loads orgdeps settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/orgdeps/config.toml (or the
// platform's user config directory) unless a path is given explicitly:
//
//	organization = "acme"
//	ignore = ["@acme", "eslint-config-"]
//	concurrency = 16
//	api_url = "https://github.example.com/api/v3"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//
// The GitHub token is deliberately not a config key; it comes from the
// environment or a flag.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	orgerrors "github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/report"
)

// Cache backends. Only file and redis outlive a run.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// CacheBackends lists the accepted [CacheConfig.Backend] values.
var CacheBackends = []string{CacheMemory, CacheFile, CacheRedis, CacheNone}

// Config holds every setting that can come from the config file.
type Config struct {
	Organization   string        `toml:"organization"`
	Ignore         []string      `toml:"ignore"`
	ManifestPath   string        `toml:"manifest_path"`
	Output         string        `toml:"output"`
	Format         string        `toml:"format"`
	Top            int           `toml:"top"`
	Concurrency    int           `toml:"concurrency"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	Retries        int           `toml:"retries"`
	MetricsFile    string        `toml:"metrics_file"`
	APIURL         string        `toml:"api_url"`
	Cache          CacheConfig   `toml:"cache"`
}

// CacheConfig selects and configures the manifest cache.
type CacheConfig struct {
	Backend    string        `toml:"backend"`
	Dir        string        `toml:"dir"`
	TTL        time.Duration `toml:"ttl"`
	RedisAddr  string        `toml:"redis_addr"`
	RedisDB    int           `toml:"redis_db"`
	MemorySize int           `toml:"memory_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ManifestPath:   "package.json",
		Output:         "deps.csv",
		Format:         string(report.FormatCSV),
		Top:            20,
		Concurrency:    8,
		RequestTimeout: 10 * time.Second,
		Retries:        3,
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTL:        24 * time.Hour,
			MemorySize: 4096,
		},
	}
}

// Dir returns the orgdeps config directory.
func Dir() (string, error) {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "orgdeps"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "orgdeps"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path over [Default]. An empty path means
// [DefaultPath], which may be missing; an explicit path must exist.
// Keys the file sets that Config does not know are returned as warnings.
func Load(path string) (Config, []string, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil, nil
	}
	if err != nil {
		return Default(), nil, orgerrors.Wrap(orgerrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown config key %q in %s", key.String(), path))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), warnings, err
	}
	return cfg, warnings, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Top < 0 {
		return orgerrors.New(orgerrors.ErrCodeInvalidConfig, "top must not be negative")
	}
	if c.Concurrency < 0 {
		return orgerrors.New(orgerrors.ErrCodeInvalidConfig, "concurrency must not be negative")
	}
	if c.Retries < 0 {
		return orgerrors.New(orgerrors.ErrCodeInvalidConfig, "retries must not be negative")
	}
	if c.RequestTimeout < 0 {
		return orgerrors.New(orgerrors.ErrCodeInvalidConfig, "request_timeout must not be negative")
	}
	if c.APIURL != "" {
		if err := orgerrors.ValidateURL(c.APIURL); err != nil {
			return orgerrors.Wrap(orgerrors.ErrCodeInvalidConfig, err, "api_url")
		}
	}
	if !slices.Contains(CacheBackends, c.Cache.Backend) {
		return orgerrors.New(orgerrors.ErrCodeInvalidConfig, "unknown cache backend %q (want one of %v)", c.Cache.Backend, CacheBackends)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return orgerrors.New(orgerrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	return nil
}

// CacheDir returns the directory of the file cache: Cache.Dir when set,
// otherwise $XDG_CACHE_HOME/orgdeps or ~/.cache/orgdeps.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if x := os.Getenv("XDG_CACHE_HOME"); x != "" {
		return filepath.Join(x, "orgdeps"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "orgdeps"), nil
}
