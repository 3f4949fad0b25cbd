// ABOUTME: Tests for the web dashboard routes
// ABOUTME: Serves the handler through httptest against an in-memory database
package web

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

func setupServer(t *testing.T) (*sql.DB, *httptest.Server) {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })

	s, err := NewServer(database, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return database, srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func addCreator(t *testing.T, database *sql.DB, name string) models.Creator {
	t.Helper()
	c := models.NewCreator(name, time.Now())
	c.Category = "Gaming"
	c.CardsSold = 10
	c.CardPrice = 5
	c.SalesVelocity = models.VelocityLow
	require.NoError(t, db.CreateCreator(database, &c))
	return c
}

func TestDashboardPage(t *testing.T) {
	database, srv := setupServer(t)
	addCreator(t, database, "Kurama")

	status, body, _ := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "1 creators")
	assert.Contains(t, body, "Phase 0: Strategy Call")
	assert.Contains(t, body, "Needs attention")
	assert.Contains(t, body, "Never synced")
}

func TestCreatorPages(t *testing.T) {
	database, srv := setupServer(t)
	c := addCreator(t, database, "Kurama")
	addCreator(t, database, "Shroud")

	status, body, _ := get(t, srv, "/creators?q=kur")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Kurama")
	assert.NotContains(t, body, "Shroud")

	status, body, _ = get(t, srv, fmt.Sprintf("/creators/%d", c.ID))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "$50.00")

	status, _, _ = get(t, srv, "/creators/999")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = get(t, srv, "/creators/abc")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = get(t, srv, "/creators?phase=x")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExportAndGraph(t *testing.T) {
	database, srv := setupServer(t)
	addCreator(t, database, "Kurama")

	status, body, header := get(t, srv, "/export.csv")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, header.Get("Content-Type"), "text/csv")
	assert.Len(t, strings.Split(body, "\n"), 2)

	status, body, header = get(t, srv, "/graph.svg")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "image/svg+xml", header.Get("Content-Type"))
	assert.Contains(t, body, "<svg")
}
