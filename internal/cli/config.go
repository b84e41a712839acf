package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/orgdeps/pkg/config"
)

// envPrefix namespaces environment overrides, e.g. ORGDEPS_CONCURRENCY or
// ORGDEPS_CACHE_BACKEND.
const envPrefix = "ORGDEPS"

// settings is the resolved configuration of one command run.
type settings struct {
	config.Config

	// Token authenticates against GitHub. Never logged or written anywhere.
	Token string
	// RedisPassword comes from ORGDEPS_REDIS_PASSWORD only.
	RedisPassword string

	NoCache bool
	Refresh bool
	NoInput bool

	// ignoreSet records whether the ignore list was given anywhere, so the
	// prompt only offers its default when it was not.
	ignoreSet bool

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// flagKeys maps config keys to the collect flags that override them.
var flagKeys = map[string]string{
	"organization":    "org",
	"ignore":          "ignore",
	"manifest_path":   "manifest-path",
	"output":          "output",
	"format":          "format",
	"top":             "top",
	"concurrency":     "concurrency",
	"request_timeout": "request-timeout",
	"retries":         "retries",
	"metrics_file":    "metrics-file",
	"api_url":         "api-url",
	"cache.backend":   "cache",
	"cache.dir":       "cache-dir",
	"cache.ttl":       "cache-ttl",
	"token":           "token",
	"no_cache":        "no-cache",
	"refresh":         "refresh",
	"no_input":        "no-input",
}

// loadSettings layers defaults, the config file, ORGDEPS_* variables and
// the command's flags. Warnings about the config file are logged.
func (c *CLI) loadSettings(cmd *cobra.Command) (settings, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, warnings, err := config.Load(path)
	if err != nil {
		return settings{}, err
	}
	for _, w := range warnings {
		c.Logger.Warn(w)
	}

	v := newViper(cfg)
	bindFlags(v, cmd.Flags())

	s := settings{
		Config: config.Config{
			Organization:   v.GetString("organization"),
			Ignore:         splitPatterns(v.GetStringSlice("ignore")),
			ManifestPath:   v.GetString("manifest_path"),
			Output:         v.GetString("output"),
			Format:         v.GetString("format"),
			Top:            v.GetInt("top"),
			Concurrency:    v.GetInt("concurrency"),
			RequestTimeout: v.GetDuration("request_timeout"),
			Retries:        v.GetInt("retries"),
			MetricsFile:    v.GetString("metrics_file"),
			APIURL:         v.GetString("api_url"),
			Cache: config.CacheConfig{
				Backend:    v.GetString("cache.backend"),
				Dir:        v.GetString("cache.dir"),
				TTL:        v.GetDuration("cache.ttl"),
				RedisAddr:  v.GetString("cache.redis_addr"),
				RedisDB:    v.GetInt("cache.redis_db"),
				MemorySize: v.GetInt("cache.memory_size"),
			},
		},
		Token:         strings.TrimSpace(v.GetString("token")),
		RedisPassword: v.GetString("redis_password"),
		NoCache:       v.GetBool("no_cache"),
		Refresh:       v.GetBool("refresh"),
		NoInput:       v.GetBool("no_input"),
		ignoreSet:     v.IsSet("ignore"),
	}
	if path != "" {
		s.ConfigFile = path
	}
	if err := s.Validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

// newViper seeds a viper instance with the file-level configuration as its
// defaults, so environment and flags override it.
func newViper(cfg config.Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("organization", cfg.Organization)
	if len(cfg.Ignore) > 0 {
		v.SetDefault("ignore", cfg.Ignore)
	}
	v.SetDefault("manifest_path", cfg.ManifestPath)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("top", cfg.Top)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("retries", cfg.Retries)
	v.SetDefault("metrics_file", cfg.MetricsFile)
	v.SetDefault("api_url", cfg.APIURL)
	v.SetDefault("cache.backend", cfg.Cache.Backend)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.redis_addr", cfg.Cache.RedisAddr)
	v.SetDefault("cache.redis_db", cfg.Cache.RedisDB)
	v.SetDefault("cache.memory_size", cfg.Cache.MemorySize)
	v.SetDefault("refresh", false)
	v.SetDefault("no_cache", false)
	v.SetDefault("no_input", false)

	// The token is read from the environment under either name; it is
	// deliberately not a config file key.
	_ = v.BindEnv("token", envPrefix+"_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("redis_password", envPrefix+"_REDIS_PASSWORD")
	return v
}

// splitPatterns splits comma-separated ignore patterns and drops empty
// ones. The flag and the prompt already split on commas; ORGDEPS_IGNORE and
// config file entries reach here unsplit.
func splitPatterns(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}
