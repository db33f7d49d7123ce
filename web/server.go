// ABOUTME: Web UI server with embedded templates
// ABOUTME: Provides read-only dashboard, contact pages, pipeline graph and Prometheus metrics
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-graphviz"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/harperreed/touchbase/viz"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	session       *crm.Session
	logger        *log.Logger
	templates     *template.Template
	metrics       *Metrics
	upcomingLimit int
}

func NewServer(session *crm.Session, logger *log.Logger, upcomingLimit int) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"bar": func(count, total int) int {
			if total == 0 {
				return 0
			}
			return count * 100 / total
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		session:       session,
		logger:        logger,
		templates:     tmpl,
		metrics:       NewMetrics(),
		upcomingLimit: upcomingLimit,
	}, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleDashboard)
	r.Get("/contacts", s.handleContacts)
	r.Get("/contacts/{id}", s.handleContactDetail)
	r.Get("/pipeline.svg", s.handlePipeline)
	r.Handle("/metrics", s.metrics.Handler(s.session))

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

type stageCount struct {
	Stage string
	Count int
}

type taskRefView struct {
	ContactID   string
	ContactName string
	Title       string
	Due         string
	Overdue     bool
}

type contactRow struct {
	ID        string
	Name      string
	Company   string
	Stage     string
	LastTouch string
	NextTask  string
	Overdue   bool
}

type taskView struct {
	Title     string
	Due       string
	Completed bool
	Overdue   bool
}

type interactionView struct {
	Date      string
	Type      string
	Summary   string
	NextSteps string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := s.session.Now()
	stats := viz.GenerateDashboardStats(s.session.State().Contacts, now, s.upcomingLimit)

	var stages []stageCount
	for _, stage := range models.Stages {
		stages = append(stages, stageCount{Stage: string(stage), Count: stats.Overview.StageCounts[stage]})
	}

	data := map[string]interface{}{
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
		"Overview":        stats.Overview,
		"Stages":          stages,
		"Upcoming":        s.taskRefViews(stats.Upcoming, now),
		"Overdue":         s.taskRefViews(stats.OverdueTasks, now),
		"Stale":           stats.StaleContacts,
	}

	s.renderTemplate(w, http.StatusOK, "layout", data)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	stage := crm.StageAll
	if raw := r.URL.Query().Get("stage"); raw != "" && !strings.EqualFold(raw, crm.StageAll) {
		parsed, err := models.ParseStage(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stage = string(parsed)
	}

	now := s.session.Now()
	var rows []contactRow
	for _, c := range s.session.Contacts(query, stage) {
		row := contactRow{
			ID:        c.ID,
			Name:      c.Name,
			Company:   c.Company,
			Stage:     string(c.Stage),
			LastTouch: crm.FormatLastInteraction(c.LastInteraction, now),
			NextTask:  "-",
		}
		if task, ok := crm.DefaultDueTask(c); ok {
			row.NextTask = crm.FormatDueLabel(task.DueDate, now)
			row.Overdue = crm.IsOverdue(task, now)
		}
		rows = append(rows, row)
	}

	data := map[string]interface{}{
		"Title":           "Contacts",
		"ContentTemplate": "contacts-content",
		"Contacts":        rows,
		"Query":           query,
		"Stage":           stage,
		"StageFilters":    crm.StageFilters(),
	}

	s.renderTemplate(w, http.StatusOK, "layout", data)
}

func (s *Server) handleContactDetail(w http.ResponseWriter, r *http.Request) {
	contact, err := s.session.Contact(chi.URLParam(r, "id"))
	if errors.Is(err, models.ErrNotFound) {
		s.renderTemplate(w, http.StatusNotFound, "layout", map[string]interface{}{
			"Title":           "Not found",
			"ContentTemplate": "not-found-content",
		})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := s.session.Now()
	var tasks []taskView
	for _, t := range crm.SortedTasks(contact) {
		tasks = append(tasks, taskView{
			Title:     t.Title,
			Due:       crm.FormatDueDistance(t.DueDate, now),
			Completed: t.Completed,
			Overdue:   crm.IsOverdue(t, now),
		})
	}
	var timeline []interactionView
	for _, in := range crm.SortedInteractions(contact) {
		timeline = append(timeline, interactionView{
			Date:      crm.FormatTimestamp(in.Date, "Jan 2, 2006 3:04 PM", now.Location()),
			Type:      string(in.Type),
			Summary:   in.Summary,
			NextSteps: in.NextSteps,
		})
	}

	data := map[string]interface{}{
		"Title":           contact.Name,
		"ContentTemplate": "contact-content",
		"Contact":         contact,
		"LastTouch":       crm.FormatLastInteraction(contact.LastInteraction, now),
		"Created":         crm.FormatTimestamp(contact.CreatedAt, "Jan 2, 2006", now.Location()),
		"Tasks":           tasks,
		"Timeline":        timeline,
	}

	s.renderTemplate(w, http.StatusOK, "layout", data)
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	svg, err := viz.GeneratePipelineGraph(r.Context(), s.session.State().Contacts, s.session.Now(), graphviz.SVG)
	if err != nil {
		s.logger.Error("failed to render pipeline graph", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(svg))
}

func (s *Server) taskRefViews(refs []crm.TaskRef, now time.Time) []taskRefView {
	var views []taskRefView
	for _, ref := range refs {
		views = append(views, taskRefView{
			ContactID:   ref.ContactID,
			ContactName: ref.ContactName,
			Title:       ref.Task.Title,
			Due:         crm.FormatDueDistance(ref.Task.DueDate, now),
			Overdue:     crm.IsOverdue(ref.Task, now),
		})
	}
	return views
}

func (s *Server) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	// Buffered so a failed render still answers 500
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}
