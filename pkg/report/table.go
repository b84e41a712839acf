package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Padding(0, 1)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Padding(0, 1).Align(lipgloss.Right)
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderTable renders entries as a bordered table with rank, name and
// count columns.
func RenderTable(entries []Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.Name, strconv.Itoa(e.Count)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", CSVHeader[0], CSVHeader[1]).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle
			case col == 0:
				return rankStyle
			case col == 2:
				return countStyle
			default:
				return nameStyle
			}
		})
	return t.String()
}
