// ABOUTME: TUI view for Airtable sync status and controls
// ABOUTME: Shows the last run and lets the user push, pull, or export creators
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
	"github.com/harperreed/stacked/sync"
)

var (
	syncHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	syncIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	syncSyncingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	syncErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	syncMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// Sync operations started from the sync view.
const (
	OpPush   = "push"
	OpPull   = "pull"
	OpExport = "export"
)

// SyncCompleteMsg is sent when a sync operation completes.
type SyncCompleteMsg struct {
	Operation string
	Summary   string
	Error     error
}

func (m Model) renderSyncView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Airtable Sync"))
	s.WriteString("\n\n")

	s.WriteString(syncHeaderStyle.Render("Status"))
	s.WriteString("\n\n  ")

	switch {
	case m.syncInProgress:
		s.WriteString(m.spinner.View())
		s.WriteString(syncSyncingStyle.Render(" Syncing..."))
	case m.syncState == nil:
		s.WriteString(syncMessageStyle.Render("Not synced yet"))
	case m.syncState.Status == models.SyncStatusError:
		s.WriteString(syncErrorStyle.Render("✗ Error"))
		if m.syncState.ErrorMessage != nil {
			s.WriteString(syncErrorStyle.Render(": " + *m.syncState.ErrorMessage))
		}
	default:
		s.WriteString(syncIdleStyle.Render("✓ Idle"))
		if m.syncState.LastSyncTime != nil {
			s.WriteString(syncMessageStyle.Render(" • Last synced " + formatTimeSince(*m.syncState.LastSyncTime)))
		}
	}
	s.WriteString("\n\n")

	if len(m.syncMessages) > 0 {
		s.WriteString(syncHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		// Show last 5 messages
		start := max(len(m.syncMessages)-5, 0)
		for _, msg := range m.syncMessages[start:] {
			s.WriteString(syncMessageStyle.Render("  " + msg))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	s.WriteString(m.renderSyncHelp())

	return s.String()
}

func (m Model) renderSyncHelp() string {
	help := []string{
		"s: Push to Airtable",
		"p: Pull from Airtable",
		"e: Export CSV",
		"r: Refresh status",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m *Model) loadSyncState() {
	state, err := db.GetSyncState(m.db, db.ServiceAirtable)
	if err != nil {
		m.syncState = nil
		return
	}
	m.syncState = state
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "p", "e":
		if m.syncInProgress {
			return m, nil
		}
		op := map[string]string{"s": OpPush, "p": OpPull, "e": OpExport}[msg.String()]
		m.syncInProgress = true
		m.addSyncMessage(fmt.Sprintf("Starting %s...", op))
		return m, tea.Batch(m.spinner.Tick, m.runSync(op))
	case "r":
		m.loadSyncState()
	case "esc":
		m.viewMode = ViewList
	}

	return m, nil
}

// runSync performs one operation off the update loop. It captures only
// immutable fields so the returned command is safe to run concurrently.
func (m Model) runSync(op string) tea.Cmd {
	database, syncer, loadConfig, exportPath := m.db, m.syncer, m.loadConfig, m.exportPath

	return func() tea.Msg {
		if op == OpExport {
			creators, err := db.ListCreators(database)
			if err != nil {
				return SyncCompleteMsg{Operation: op, Error: err}
			}
			if err := os.WriteFile(exportPath, []byte(sync.ExportCSV(creators)), 0644); err != nil {
				return SyncCompleteMsg{Operation: op, Error: fmt.Errorf("failed to write export: %w", err)}
			}
			return SyncCompleteMsg{Operation: op, Summary: fmt.Sprintf("%d creator(s) written to %s", len(creators), exportPath)}
		}

		cfg, err := loadConfig()
		if err != nil {
			return SyncCompleteMsg{Operation: op, Error: err}
		}

		ctx := context.Background()
		if op == OpPull {
			result, err := sync.ImportCreators(ctx, database, syncer, cfg)
			if err != nil {
				return SyncCompleteMsg{Operation: op, Error: err}
			}
			summary := fmt.Sprintf("%d fetched, %d created, %d updated", result.Fetched, result.Created, result.Updated)
			if n := len(result.Collisions) + len(result.Skipped); n > 0 {
				summary += fmt.Sprintf(", %d skipped", n)
			}
			return SyncCompleteMsg{Operation: op, Summary: summary}
		}

		result, err := sync.PushCreators(ctx, database, syncer, cfg)
		msg := SyncCompleteMsg{Operation: op, Error: err}
		if result != nil {
			msg.Summary = fmt.Sprintf("%d created, %d updated", result.Created, result.Updated)
		}
		return msg
	}
}

// addSyncMessage adds a message to the sync message log.
func (m *Model) addSyncMessage(msg string) {
	timestamp := time.Now().Format("15:04:05")
	m.syncMessages = append(m.syncMessages, fmt.Sprintf("[%s] %s", timestamp, msg))
}

// handleSyncComplete records the outcome and reloads creators, which a pull may have changed.
func (m *Model) handleSyncComplete(msg SyncCompleteMsg) tea.Cmd {
	m.syncInProgress = false

	var partial *sync.PartialSyncError
	switch {
	case errors.As(msg.Error, &partial):
		m.addSyncMessage(fmt.Sprintf("⚠ %s partial (%s): %v", msg.Operation, msg.Summary, msg.Error))
	case msg.Error != nil:
		m.addSyncMessage(fmt.Sprintf("✗ %s failed: %v", msg.Operation, msg.Error))
	default:
		m.addSyncMessage(fmt.Sprintf("✓ %s complete: %s", msg.Operation, msg.Summary))
	}

	if m.db == nil {
		return nil
	}
	m.loadSyncState()
	return m.loadCreators
}

// formatTimeSince formats a time duration in a human-readable way.
func formatTimeSince(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
