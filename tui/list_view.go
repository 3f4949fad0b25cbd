// ABOUTME: Creator list view for the TUI
// ABOUTME: Table of creators with phase, sales progress, and velocity; entry point to the other views
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("STACKED CREATORS"))
	s.WriteString("\n\n")
	s.WriteString(m.renderError())

	if len(m.creators) == 0 {
		s.WriteString("No creators yet. Add one with 'stacked crm add-creator --name ...'\n")
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Phase", Width: 26},
		{Title: "Sold", Width: 14},
		{Title: "Revenue", Width: 10},
		{Title: "Velocity", Width: 9},
	}

	rows := make([]table.Row, 0, len(m.creators))
	for _, c := range m.creators {
		rows = append(rows, table.Row{
			c.Avatar + " " + c.Name,
			c.Phase,
			fmt.Sprintf("%d/%d %d%%", c.CardsSold, c.TotalCards, c.ProgressPercentage()),
			fmt.Sprintf("$%.0f", c.Revenue()),
			c.SalesVelocity,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	t.SetCursor(m.selectedRow)

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Enter: Details",
		"a: Advance phase",
		"x: Delete",
		"v: Dashboard",
		"y: Airtable sync",
		"r: Reload",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.creators)-1 {
			m.selectedRow++
		}
	case "enter":
		if m.selectedCreator() != nil {
			m.viewMode = ViewDetail
		}
	case "a":
		return m.advanceSelected()
	case "x":
		if m.selectedCreator() != nil {
			m.viewMode = ViewConfirmDelete
		}
	case "v":
		stats, err := viz.GenerateDashboardStats(m.db)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.dashboard = viz.RenderDashboard(stats)
		m.viewMode = ViewDashboard
	case "y":
		m.loadSyncState()
		m.viewMode = ViewSync
	case "r":
		m.status = ""
		return m, m.loadCreators
	}

	return m, nil
}

func (m Model) advanceSelected() (tea.Model, tea.Cmd) {
	selected := m.selectedCreator()
	if selected == nil {
		return m, nil
	}

	c := *selected
	if !c.AdvancePhase(time.Now()) {
		m.status = fmt.Sprintf("%s is already in the final phase", c.Name)
		return m, nil
	}

	if err := db.UpdateCreator(m.db, &c); err != nil {
		m.err = err
		return m, nil
	}

	m.status = fmt.Sprintf("✓ %s advanced to %s", c.Name, c.Phase)
	return m, m.loadCreators
}
