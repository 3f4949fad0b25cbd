// ABOUTME: Creator detail view for the TUI
// ABOUTME: Shows every field of the selected creator including socials, strategy, and assets
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	c := m.selectedCreator()
	if c == nil {
		s.WriteString("No creator selected\n")
		s.WriteString(m.renderDetailHelp())
		return s.String()
	}

	s.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", c.Avatar, c.Name)))
	s.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"ID", fmt.Sprintf("%d", c.ID)},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Category", c.Category},
		{"Phase", fmt.Sprintf("%s (%d days)", c.Phase, c.DaysInPhase)},
		{"Cards", fmt.Sprintf("%d/%d sold (%d%%)", c.CardsSold, c.TotalCards, c.ProgressPercentage())},
		{"Card Price", fmt.Sprintf("$%.2f", c.CardPrice)},
		{"Revenue", fmt.Sprintf("$%.2f", c.Revenue())},
		{"Velocity", c.SalesVelocity},
		{"Next Task", c.NextTask},
		{"Bio", c.Bio},
		{"Instagram", c.SocialMedia.Instagram},
		{"Twitter", c.SocialMedia.Twitter},
		{"YouTube", c.SocialMedia.YouTube},
		{"TikTok", c.SocialMedia.TikTok},
		{"Launch Date", c.Strategy.LaunchDate},
		{"Target Audience", c.Strategy.TargetAudience},
		{"Content Plan", c.Strategy.ContentPlan},
		{"Press Kit", strings.Join(c.Assets.PressKit, ", ")},
		{"Created", c.CreatedAt},
		{"Last Updated", c.LastUpdated},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		s.WriteString(fieldLabelStyle.Render(f.label + ":"))
		s.WriteString(fieldValueStyle.Render(f.value))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"a: Advance phase",
		"x: Delete",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "a":
		return m.advanceSelected()
	case "x":
		if m.selectedCreator() != nil {
			m.viewMode = ViewConfirmDelete
		}
	}

	return m, nil
}
