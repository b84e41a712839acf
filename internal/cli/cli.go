// Package cli implements the orgdeps command-line interface.
//
// # Commands
//
//   - collect: scan an organization and write the dependency usage report
//   - view: browse a written report in the terminal
//   - cache: inspect or clear the manifest cache
//   - completion: generate shell completion scripts
//
// Settings come from built-in defaults, the TOML config file, ORGDEPS_*
// environment variables and flags, in increasing order of precedence.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgdeps/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "orgdeps"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "orgdeps counts npm dependency usage across a GitHub organization",
		Long: `orgdeps reads the package.json of every repository in a GitHub organization
and reports how many repositories declare each dependency, most used first.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/orgdeps/config.toml)")

	root.AddCommand(c.collectCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
