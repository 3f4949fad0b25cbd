// ABOUTME: Dashboard view for the TUI
// ABOUTME: Displays the rendered pipeline dashboard snapshot
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/stacked/viz"
)

func (m Model) renderDashboardView() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Render(m.dashboard))
	s.WriteString("\n")

	help := []string{
		"r: Refresh",
		"Esc: Back",
		"q: Quit",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.dashboard = ""
	case "r":
		stats, err := viz.GenerateDashboardStats(m.db)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.dashboard = viz.RenderDashboard(stats)
	}

	return m, nil
}
