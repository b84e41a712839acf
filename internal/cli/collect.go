package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgdeps/pkg/cache"
	"github.com/matzehuels/orgdeps/pkg/config"
	orgerrors "github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/httputil"
	"github.com/matzehuels/orgdeps/pkg/integrations/github"
	"github.com/matzehuels/orgdeps/pkg/observability"
	"github.com/matzehuels/orgdeps/pkg/observability/prom"
	"github.com/matzehuels/orgdeps/pkg/pipeline"
	"github.com/matzehuels/orgdeps/pkg/report"
	"github.com/matzehuels/orgdeps/pkg/usage"
)

const tokenHelpURL = "https://github.com/settings/tokens"

// collectCommand creates the collect command.
func (c *CLI) collectCommand() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Count dependency usage across an organization's repositories",
		Long: `Collect lists every repository of a GitHub organization, reads each
repository's package.json and counts how many repositories declare every
dependency (dependencies and devDependencies). The ranked result is written
to deps.csv unless --output or --format say otherwise.

Missing values are asked for interactively unless --no-input is set.`,
		Example: `  # Interactive
  orgdeps collect

  # Non-interactive, skipping the organization's own scope
  GITHUB_TOKEN=ghp_... orgdeps collect --org acme --ignore @acme --no-input

  # Top 30 as a table
  orgdeps collect --org https://github.com/acme --format table --top 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollect(cmd)
		},
	}

	f := cmd.Flags()
	f.String("org", "", "organization name or URL (e.g. https://github.com/acme)")
	f.String("token", "", "GitHub token (default $GITHUB_TOKEN or $ORGDEPS_TOKEN)")
	f.StringSlice("ignore", nil, "skip dependencies whose name contains this text (repeatable)")
	f.String("manifest-path", defaults.ManifestPath, "repository-relative path of the package.json to read")
	f.StringP("output", "o", defaults.Output, "report file, or - for stdout")
	f.StringP("format", "f", defaults.Format, "report format: csv, json or table")
	f.Int("top", defaults.Top, "rows printed by the table format (0 for all)")
	f.IntP("concurrency", "j", defaults.Concurrency, "repositories processed at once")
	f.Duration("request-timeout", defaults.RequestTimeout, "timeout of a single API request")
	f.Int("retries", defaults.Retries, "attempts per API request on transient failures")
	f.String("metrics-file", "", "write Prometheus metrics in textfile format to this path")
	f.String("api-url", "", "GitHub API root, for GitHub Enterprise Server")
	f.String("cache", defaults.Cache.Backend, "manifest cache backend: memory, file, redis or none (file and redis persist between runs)")
	f.String("cache-dir", "", "directory of the file cache (default $XDG_CACHE_HOME/orgdeps)")
	f.Duration("cache-ttl", defaults.Cache.TTL, "how long cached manifests stay valid")
	f.Bool("no-cache", false, "disable the manifest cache")
	f.Bool("refresh", false, "ignore cached manifests but store the fresh ones")
	f.Bool("no-input", false, "never prompt; fail when a required value is missing")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(report.Formats))
		for i, f := range report.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("cache", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.CacheBackends, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runCollect(cmd *cobra.Command) error {
	ctx := cmd.Context()

	s, err := c.loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.Organization == "" || s.Token == "" {
		if s.NoInput || !isInteractive() {
			return missingInput(s)
		}
		proceed, err := promptSettings(ctx, &s)
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}

	org, err := github.ParseOrgRef(s.Organization)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(s.Format)
	if err != nil {
		return err
	}

	if s.Output == "-" || format == report.FormatTable {
		uiOut = os.Stderr
		defer func() { uiOut = os.Stdout }()
	}

	store, err := newCache(ctx, s)
	if err != nil {
		return err
	}
	defer store.Close()

	client := github.NewClient(github.Options{
		Token:          s.Token,
		BaseURL:        s.APIURL,
		Cache:          store,
		CacheTTL:       s.Cache.TTL,
		Refresh:        s.Refresh,
		Retry:          httputil.Policy{Attempts: s.Retries, Delay: httputil.DefaultDelay},
		RequestTimeout: s.RequestTimeout,
	})

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Collecting repositories of %s", org))
	metrics := installHooks(c.Logger, newScanProgress(spinner, org), s.MetricsFile != "")
	defer observability.Reset()

	if showSpinner(c.Logger) {
		spinner.Start()
	}
	defer spinner.Stop()

	runner := pipeline.NewRunner(client, client, c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Organization: org,
		Ignore:       usage.Ignore(s.Ignore),
		ManifestPath: s.ManifestPath,
		Concurrency:  s.Concurrency,
	})
	if metrics != nil {
		// Failed scans are recorded too; the failure shows in the counters.
		defer c.writeMetrics(metrics, s.MetricsFile)
	}
	if err != nil {
		if ctx.Err() != nil {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError(fmt.Sprintf("Could not scan %s", org))
		if hint := orgerrors.Hint(err); hint != "" {
			printDetail("%s", hint)
		}
		if orgerrors.IsAuth(err) {
			printDetail("Create or renew a token at %s", tokenHelpURL)
		}
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Scanned %d repositories of %s", result.Stats.Repositories, org))

	written := newProgress(c.Logger)
	dest, err := writeReport(result.Report, format, s)
	if err != nil {
		return err
	}
	if dest != "" {
		written.done("Wrote " + dest)
	}

	printSummary(result.Stats)
	if dest != "" && dest != "-" {
		printNewline()
		printSuccess("You're all set! The report was written to:")
		printFile(dest)
		printNextStep("Browse it", appName+" view "+dest)
	}
	return nil
}

// missingInput explains which required value is missing when prompting
// is not possible.
func missingInput(s settings) error {
	if s.Organization == "" {
		return orgerrors.New(orgerrors.ErrCodeInvalidInput,
			"organization is required: pass --org, set ORGDEPS_ORGANIZATION or add it to the config file")
	}
	return orgerrors.New(orgerrors.ErrCodeInvalidInput,
		"a GitHub token is required: pass --token or set GITHUB_TOKEN (create one at %s)", tokenHelpURL)
}

// installHooks routes scan, HTTP and cache events to debug logging and the
// spinner, plus Prometheus metrics when withMetrics is set.
func installHooks(logger *log.Logger, progress *scanProgress, withMetrics bool) *prom.Metrics {
	lh := logHooks{logger: logger}
	scan := observability.MultiScan{lh, progress}
	httpHooks := observability.MultiHTTP{lh}
	cacheHooks := observability.MultiCache{lh}

	var m *prom.Metrics
	if withMetrics {
		m = prom.New()
		scan = append(scan, m)
		httpHooks = append(httpHooks, m)
		cacheHooks = append(cacheHooks, m)
	}

	observability.SetScanHooks(scan)
	observability.SetHTTPHooks(httpHooks)
	observability.SetCacheHooks(cacheHooks)
	return m
}

func (c *CLI) writeMetrics(m *prom.Metrics, path string) {
	if err := m.WriteTo(path); err != nil {
		c.Logger.Warn("could not write metrics", "path", path, "err", err)
		return
	}
	c.Logger.Debug("wrote metrics", "path", path)
}

// showSpinner reports whether the spinner can animate without fighting
// debug log lines or writing control characters into a pipe.
func showSpinner(logger *log.Logger) bool {
	return logger.GetLevel() > log.DebugLevel && isatty.IsTerminal(os.Stderr.Fd())
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newCache opens the manifest cache selected by s.
func newCache(ctx context.Context, s settings) (cache.Cache, error) {
	if s.NoCache {
		return cache.NewNullCache(), nil
	}
	switch s.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		dir, err := s.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     s.Cache.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.Cache.RedisDB,
		})
	default:
		return cache.NewMemoryCache(s.Cache.MemorySize)
	}
}

// writeReport writes r as configured and returns where it went: a file
// path, "-" for stdout, or "" for the table printed to stdout.
func writeReport(r *report.Report, format report.Format, s settings) (string, error) {
	switch {
	case format == report.FormatTable:
		return "", report.Write(os.Stdout, r, format, s.Top)
	case s.Output == "-":
		return "-", report.Write(os.Stdout, r, format, 0)
	case format == report.FormatJSON:
		return s.Output, report.ExportJSON(r, s.Output)
	default:
		return s.Output, report.ExportCSV(r.Entries, s.Output)
	}
}

func printSummary(st pipeline.Stats) {
	printKeyValue("Repositories", strconv.Itoa(st.Repositories))
	printKeyValue("With manifest", strconv.Itoa(st.WithManifest))
	if st.Absent > 0 {
		printKeyValue("No manifest", strconv.Itoa(st.Absent))
	}
	if st.ParseFailures > 0 {
		printKeyValue("Malformed", StyleWarning.Render(strconv.Itoa(st.ParseFailures)))
	}
	printKeyValue("Dependencies", StyleNumber.Render(strconv.Itoa(st.Dependencies)))
	printKeyValue("Duration", st.Duration.Round(time.Millisecond).String())
}
