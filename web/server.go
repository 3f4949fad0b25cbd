// ABOUTME: Web UI server with embedded templates
// ABOUTME: Read-only creator pipeline dashboard, creator pages, graph, and CSV export on localhost
package web

import (
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"
	"go.uber.org/zap"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/sync"
	"github.com/harperreed/stacked/viz"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	db        *sql.DB
	templates *template.Template
	generator *viz.GraphGenerator
	logger    *zap.Logger
}

func NewServer(database *sql.DB, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	funcMap := template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"percent": func(ratio float64) int {
			return int(math.Round(ratio * 100))
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		db:        database,
		templates: tmpl,
		generator: viz.NewGraphGenerator(database),
		logger:    logger,
	}, nil
}

// Handler returns the routes without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /creators", s.handleCreators)
	mux.HandleFunc("GET /creators/{id}", s.handleCreatorDetail)
	mux.HandleFunc("GET /graph.svg", s.handleGraph)
	mux.HandleFunc("GET /export.csv", s.handleExport)
	return mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("localhost:%d", port)
	s.logger.Info("starting web server", zap.String("addr", "http://"+addr))
	fmt.Printf("Serving dashboard at http://%s\n", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := viz.GenerateDashboardStats(s.db)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.renderTemplate(w, r, map[string]any{
		"Stats":           stats,
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	})
}

func (s *Server) handleCreators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var phase *int
	if p := r.URL.Query().Get("phase"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, "invalid phase", http.StatusBadRequest)
			return
		}
		phase = &n
	}

	creators, err := db.FindCreators(s.db, query, phase, 500)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.renderTemplate(w, r, map[string]any{
		"Creators":        creators,
		"Query":           query,
		"Title":           "Creators",
		"ContentTemplate": "creators-content",
	})
}

func (s *Server) handleCreatorDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid creator ID", http.StatusBadRequest)
		return
	}

	creator, err := db.GetCreator(s.db, id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if creator == nil {
		http.NotFound(w, r)
		return
	}

	synced, err := db.FindSyncLogByEntity(s.db, db.ServiceAirtable, db.EntityCreator, strconv.FormatInt(id, 10))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.renderTemplate(w, r, map[string]any{
		"Creator":         creator,
		"Synced":          synced,
		"Title":           creator.Avatar + " " + creator.Name,
		"ContentTemplate": "creator-detail-content",
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	svg, err := s.generator.GeneratePipelineGraph(r.Context(), graphviz.SVG)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	creators, err := db.ListCreators(s.db)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="stacked-creators.csv"`)
	if err := sync.WriteCSV(w, creators); err != nil {
		s.logger.Warn("csv export interrupted", zap.Error(err))
	}
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("web request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

