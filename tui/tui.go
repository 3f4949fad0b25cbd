// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen creator pipeline browser with Airtable push, pull, and export
package tui

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
	"github.com/harperreed/stacked/sync"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewDashboard
	ViewSync
	ViewConfirmDelete
)

// DefaultExportPath is where 'e' writes the CSV export.
const DefaultExportPath = "stacked-creators.csv"

// Model is the main bubbletea model
type Model struct {
	db         *sql.DB
	syncer     *sync.Syncer
	loadConfig func() (sync.Config, error)
	exportPath string

	viewMode ViewMode

	creators    []models.Creator
	selectedRow int
	status      string

	dashboard string

	spinner        spinner.Model
	syncInProgress bool
	syncMessages   []string
	syncState      *db.SyncState

	width  int
	height int
	err    error
}

// NewModel creates a new TUI model
func NewModel(database *sql.DB, syncer *sync.Syncer) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = syncSyncingStyle

	return Model{
		db:         database,
		syncer:     syncer,
		loadConfig: loadValidConfig,
		exportPath: DefaultExportPath,
		viewMode:   ViewList,
		spinner:    s,
		width:      80,
		height:     24,
	}
}

func loadValidConfig() (sync.Config, error) {
	cfg, err := sync.LoadConfig()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// creatorsLoadedMsg carries a fresh creator list from the database.
type creatorsLoadedMsg struct {
	creators []models.Creator
	err      error
}

func (m Model) loadCreators() tea.Msg {
	creators, err := db.ListCreators(m.db)
	return creatorsLoadedMsg{creators: creators, err: err}
}

func (m Model) Init() tea.Cmd {
	return m.loadCreators
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case creatorsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.creators = msg.creators
		}
		if m.selectedRow >= len(m.creators) {
			m.selectedRow = max(len(m.creators)-1, 0)
		}
		return m, nil

	case SyncCompleteMsg:
		return m, m.handleSyncComplete(msg)

	case spinner.TickMsg:
		if !m.syncInProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewDashboard:
		return m.renderDashboardView()
	case ViewSync:
		return m.renderSyncView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.viewMode != ViewConfirmDelete {
			return m, tea.Quit
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	case ViewSync:
		return m.handleSyncKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) selectedCreator() *models.Creator {
	if m.selectedRow < 0 || m.selectedRow >= len(m.creators) {
		return nil
	}
	return &m.creators[m.selectedRow]
}

func (m Model) renderError() string {
	if m.err == nil {
		return ""
	}
	return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
