package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/orgdeps/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listBarStyle      = lipgloss.NewStyle().Foreground(colorGreen)
)

// barWidth is the width of the usage bar at the highest count.
const barWidth = 24

// =============================================================================
// ReportListModel - Interactive report browser
// =============================================================================

// ReportListModel is the bubbletea model for scrolling through a ranked
// report. Typing filters the list by name.
type ReportListModel struct {
	Report    *report.Report
	Cursor    int
	Height    int
	Offset    int
	Filter    string
	filtering bool
	visible   []int // indexes into Report.Entries
}

// NewReportListModel creates a browser over r.
func NewReportListModel(r *report.Report) ReportListModel {
	m := ReportListModel{Report: r, Height: 15}
	m.applyFilter()
	return m
}

func (m ReportListModel) Init() tea.Cmd {
	return nil
}

func (m ReportListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filtering = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.visible))
		case "end", "G":
			m.move(len(m.visible))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

func (m ReportListModel) updateFilter(msg tea.KeyMsg) ReportListModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.Filter); len(r) > 0 {
			m.Filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
		m.applyFilter()
	}
	return m
}

func (m *ReportListModel) applyFilter() {
	m.visible = make([]int, 0, len(m.Report.Entries))
	for i, e := range m.Report.Entries {
		if m.Filter == "" || strings.Contains(e.Name, m.Filter) {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// move shifts the cursor by delta and keeps it inside the window.
func (m *ReportListModel) move(delta int) {
	if len(m.visible) == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.visible)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Selected returns the entry under the cursor.
func (m ReportListModel) Selected() (report.Entry, bool) {
	if len(m.visible) == 0 {
		return report.Entry{}, false
	}
	return m.Report.Entries[m.visible[m.Cursor]], true
}

func (m ReportListModel) View() string {
	var b strings.Builder

	title := "Dependency usage"
	if m.Report.Organization != "" {
		title += " in " + m.Report.Organization
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(listSelectedStyle.Render("/"+m.Filter) + listDimStyle.Render("▏ ⏎ done"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	top := 0
	if len(m.Report.Entries) > 0 {
		top = m.Report.Entries[0].Count
	}

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		idx := m.visible[i]
		e := m.Report.Entries[idx]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(idx + 1), e.Name, strconv.Itoa(e.Count), usageBar(e.Count, top)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Dependency", "Usage", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			current := m.Offset+row == m.Cursor
			switch {
			case col == 4:
				return listBarStyle
			case col == 1:
				return listDimStyle
			case current:
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.visible) > 0 {
		pos = m.Cursor + 1
	}
	footer := fmt.Sprintf("  [%d/%d]", pos, len(m.visible))
	if m.Report.Repositories > 0 {
		footer += fmt.Sprintf("  %d repositories scanned", m.Report.Repositories)
	}
	b.WriteString(listDimStyle.Render(footer))

	return b.String()
}

// usageBar draws count relative to top as a horizontal bar.
func usageBar(count, top int) string {
	if top <= 0 || count <= 0 {
		return ""
	}
	n := max(count*barWidth/top, 1)
	return strings.Repeat("█", n)
}
