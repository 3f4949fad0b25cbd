// ABOUTME: Tests for the creator TUI model
// ABOUTME: Covers list navigation, phase advance, delete confirmation, and Airtable sync commands
package tui

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
	"github.com/harperreed/stacked/sync"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedCreator(t *testing.T, database *sql.DB, name string, phase int) models.Creator {
	t.Helper()
	c := models.NewCreator(name, time.Now())
	c.PhaseNumber = phase
	c.Phase = models.PhaseLabel(phase)
	c.CardsSold = 10
	c.CardPrice = 5
	require.NoError(t, db.CreateCreator(database, &c))
	return c
}

// loadedModel returns a model with creators already loaded, as after Init.
func loadedModel(t *testing.T, database *sql.DB) Model {
	t.Helper()
	m := NewModel(database, sync.NewSyncer(sync.WithRateLimit(rate.Inf)))
	updated, _ := m.Update(m.Init()())
	return updated.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// drain runs cmd and feeds its message back through Update.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestListViewShowsCreators(t *testing.T) {
	database := setupTestDB(t)
	seedCreator(t, database, "Kurama", 0)
	seedCreator(t, database, "Shroud", 2)

	m := loadedModel(t, database)
	require.Len(t, m.creators, 2)

	out := m.View()
	assert.Contains(t, out, "STACKED CREATORS")
	assert.Contains(t, out, "Kurama")
	assert.Contains(t, out, "Shroud")
}

func TestListViewEmpty(t *testing.T) {
	m := loadedModel(t, setupTestDB(t))
	assert.Contains(t, m.View(), "No creators yet")
}

func TestListNavigationStaysInBounds(t *testing.T) {
	database := setupTestDB(t)
	seedCreator(t, database, "A", 0)
	seedCreator(t, database, "B", 0)

	m := loadedModel(t, database)

	m, _ = press(t, m, "up")
	assert.Equal(t, 0, m.selectedRow)

	m, _ = press(t, m, "down")
	m, _ = press(t, m, "down")
	assert.Equal(t, 1, m.selectedRow)

	m, _ = press(t, m, "enter")
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "B")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestAdvanceKeyMovesPhase(t *testing.T) {
	database := setupTestDB(t)
	c := seedCreator(t, database, "Kurama", 1)

	m := loadedModel(t, database)
	m, cmd := press(t, m, "a")
	m = drain(t, m, cmd)

	stored, err := db.GetCreator(database, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.PhaseNumber)
	assert.Equal(t, 2, m.creators[0].PhaseNumber)
	assert.Contains(t, m.status, "advanced")
}

func TestAdvanceKeyFinalPhase(t *testing.T) {
	database := setupTestDB(t)
	seedCreator(t, database, "Kurama", len(models.Phases)-1)

	m := loadedModel(t, database)
	m, cmd := press(t, m, "a")
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "final phase")
}

func TestDeleteConfirmation(t *testing.T) {
	database := setupTestDB(t)
	c := seedCreator(t, database, "Kurama", 0)

	m := loadedModel(t, database)

	m, _ = press(t, m, "x")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Kurama")

	// 'q' must not quit from the dialog
	m, cmd := press(t, m, "q")
	assert.Nil(t, cmd)
	assert.Equal(t, ViewConfirmDelete, m.viewMode)

	m, _ = press(t, m, "n")
	assert.Equal(t, ViewList, m.viewMode)

	m, _ = press(t, m, "x")
	m, cmd = press(t, m, "y")
	m = drain(t, m, cmd)

	stored, err := db.GetCreator(database, c.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, m.creators)
}

func TestDashboardView(t *testing.T) {
	database := setupTestDB(t)
	seedCreator(t, database, "Kurama", 0)

	m := loadedModel(t, database)
	m, _ = press(t, m, "v")
	require.Equal(t, ViewDashboard, m.viewMode)
	assert.Contains(t, m.View(), "PIPELINE OVERVIEW")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestSyncViewRendering(t *testing.T) {
	database := setupTestDB(t)
	m := loadedModel(t, database)

	m, _ = press(t, m, "y")
	require.Equal(t, ViewSync, m.viewMode)
	assert.Contains(t, m.View(), "Airtable Sync")
	assert.Contains(t, m.View(), "Not synced yet")

	errMsg := "boom"
	require.NoError(t, db.UpdateSyncStatus(database, db.ServiceAirtable, models.SyncStatusError, &errMsg))
	m, _ = press(t, m, "r")
	assert.Contains(t, m.View(), "boom")
}

func TestSyncConfigErrorIsReported(t *testing.T) {
	database := setupTestDB(t)
	m := loadedModel(t, database)
	m.loadConfig = func() (sync.Config, error) { return sync.Config{}, sync.ErrConfigurationIncomplete }
	m.viewMode = ViewSync

	m, cmd := press(t, m, "s")
	require.NotNil(t, cmd)
	assert.True(t, m.syncInProgress)

	// a second start while running is ignored
	_, again := press(t, m, "p")
	assert.Nil(t, again)

	msg := m.runSync(OpPush)()
	complete, ok := msg.(SyncCompleteMsg)
	require.True(t, ok)
	assert.True(t, errors.Is(complete.Error, sync.ErrConfigurationIncomplete))

	m = drain(t, m, func() tea.Msg { return complete })
	assert.False(t, m.syncInProgress)
	assert.Contains(t, m.syncMessages[len(m.syncMessages)-1], "push failed")
}

func TestSyncPushAgainstFakeAirtable(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"records":[]}`))
		case http.MethodPost:
			posts++
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "recTUI1", "fields": map[string]any{}})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	database := setupTestDB(t)
	seedCreator(t, database, "Kurama", 0)

	m := loadedModel(t, database)
	m.loadConfig = func() (sync.Config, error) {
		return sync.Config{APIKey: "patTUI", BaseID: "appTUI", TableName: "Creators", APIURL: srv.URL + "/v0"}, nil
	}

	complete := m.runSync(OpPush)().(SyncCompleteMsg)
	require.NoError(t, complete.Error)
	assert.Equal(t, "1 created, 0 updated", complete.Summary)
	assert.Equal(t, 1, posts)

	m = drain(t, m, func() tea.Msg { return complete })
	require.NotNil(t, m.syncState)
	assert.Equal(t, models.SyncStatusIdle, m.syncState.Status)
	assert.Contains(t, m.syncMessages[0], "push complete")
}

func TestSyncExportWritesFile(t *testing.T) {
	database := setupTestDB(t)
	seedCreator(t, database, "Kurama", 0)

	m := loadedModel(t, database)
	m.exportPath = filepath.Join(t.TempDir(), "out.csv")

	complete := m.runSync(OpExport)().(SyncCompleteMsg)
	require.NoError(t, complete.Error)
	assert.Contains(t, complete.Summary, "1 creator(s)")

	data, err := os.ReadFile(m.exportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Kurama")
}

func TestHandleSyncCompletePartial(t *testing.T) {
	m := NewModel(nil, nil)
	m.syncInProgress = true

	_ = m.handleSyncComplete(SyncCompleteMsg{
		Operation: OpPush,
		Summary:   "1 created, 0 updated",
		Error:     &sync.PartialSyncError{Succeeded: 1, Creator: "B", Err: errors.New("500")},
	})

	assert.False(t, m.syncInProgress)
	require.Len(t, m.syncMessages, 1)
	assert.Contains(t, m.syncMessages[0], "push partial")
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{"just now", time.Now().Add(-30 * time.Second), "just now"},
		{"minutes ago", time.Now().Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", time.Now().Add(-61 * time.Minute), "1 hour ago"},
		{"hours ago", time.Now().Add(-2 * time.Hour), "2 hours ago"},
		{"days ago", time.Now().Add(-3 * 24 * time.Hour), "3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatTimeSince(tt.time))
		})
	}
}
