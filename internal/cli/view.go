package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgdeps/pkg/report"
)

// viewCommand creates the view command, an interactive browser over a
// written report.
func (c *CLI) viewCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "view [report]",
		Short: "Browse a report in the terminal",
		Long: `View opens a CSV or JSON report written by collect in an interactive,
filterable list. Without a terminal it prints the top entries as a table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "deps.csv"
			if len(args) == 1 {
				path = args[0]
			}
			r, err := loadReport(path)
			if err != nil {
				return err
			}

			if !isInteractive() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(r.Top(top)))
				return err
			}

			p := tea.NewProgram(NewReportListModel(r), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().IntVar(&top, "top", 20, "entries printed when not running in a terminal (0 for all)")

	return cmd
}

// loadReport reads a JSON report, or a CSV report for any other extension.
func loadReport(path string) (*report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return report.ReadJSON(f)
	}
	entries, err := report.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return &report.Report{Entries: entries}, nil
}
