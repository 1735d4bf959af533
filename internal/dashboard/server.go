// Package dashboard serves a read-only view of the latest run summary.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/report"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

const noReportPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>synthetic-scout dashboard</title></head>
<body>
<h1>synthetic-scout dashboard</h1>
<p>No report yet. Run the tests first.</p>
</body>
</html>
`

var errNoSummary = errors.New("summary.json not found, run the tests first")

// Server renders reports/summary.json on every request.
type Server struct {
	log         logrus.FieldLogger
	summaryPath string
	router      *mux.Router
}

// New creates a dashboard reading from reportsDir.
func New(log logrus.FieldLogger, reportsDir string) *Server {
	s := &Server{
		log:         log.WithField("component", "dashboard"),
		summaryPath: filepath.Join(reportsDir, report.SummaryFile),
		router:      mux.NewRouter(),
	}

	s.router.HandleFunc("/api/summary", s.handleSummary).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	return s
}

// Handler returns the dashboard router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.WithField("addr", addr).Info("dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Info("shutting down dashboard")

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down dashboard: %w", err)
		}

		return nil
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, err := s.loadSummary()
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": errNoSummary.Error()})

		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	summary, err := s.loadSummary()
	if err != nil {
		_, _ = w.Write([]byte(noReportPage))

		return
	}

	page, err := report.RenderHTML(summary)
	if err != nil {
		s.log.WithError(err).Error("failed to render report")
		http.Error(w, "failed to render report", http.StatusInternalServerError)

		return
	}

	_, _ = w.Write(page)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadSummary reads the summary from disk. Missing and unreadable files are
// both reported as errNoSummary.
func (s *Server) loadSummary() (*metrics.Summary, error) {
	data, err := os.ReadFile(s.summaryPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).Warn("failed to read summary")
		}

		return nil, errNoSummary
	}

	var summary metrics.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		s.log.WithError(err).Warn("summary is not valid JSON")

		return nil, errNoSummary
	}

	return &summary, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Debug("failed to write response")
	}
}
