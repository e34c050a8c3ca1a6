// Package api exposes the HTTP interface for the downloader service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mdtutor/mdtutor/internal/config"
	"github.com/mdtutor/mdtutor/internal/crawler"
	"github.com/mdtutor/mdtutor/internal/metrics"
)

// Runner executes one crawl job and returns the artifact path.
type Runner interface {
	Run(ctx context.Context, job crawler.Job) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, job crawler.Job) (string, error)

// Run calls the wrapped function.
func (f RunnerFunc) Run(ctx context.Context, job crawler.Job) (string, error) {
	return f(ctx, job)
}

// Server wires HTTP handlers to the crawl pipeline.
type Server struct {
	router chi.Router
	runner Runner
	cfg    config.Config
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(runner Runner, cfg config.Config, logger *zap.Logger) *Server {
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/download", s.download)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// selectorPayload mirrors the selector configuration on the wire.
type selectorPayload struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type downloadRequest struct {
	URL       string           `json:"url"`
	Selector  selectorPayload  `json:"selector"`
	PreRemove *selectorPayload `json:"pre_remove,omitempty"`
	Filename  string           `json:"filename,omitempty"`
}

// download runs a crawl synchronously and streams the assembled Markdown
// back as an attachment.
func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	job := crawler.Job{
		BaseURL: req.URL,
		Selector: crawler.Selector{
			Type:  crawler.SelectorType(req.Selector.Type),
			Value: req.Selector.Value,
		},
		Filename:  req.Filename,
		OutputDir: s.cfg.Crawler.OutputDir,
	}
	if req.PreRemove != nil {
		job.PreRemove = &crawler.Selector{
			Type:  crawler.SelectorType(req.PreRemove.Type),
			Value: req.PreRemove.Value,
		}
	}
	if err := job.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	artifact, err := s.runner.Run(r.Context(), job)
	if err != nil {
		s.logger.Error("download failed",
			zap.String("url", job.BaseURL),
			zap.Error(err),
		)
		writeError(w, statusForError(err), err.Error())
		return
	}

	content, err := os.ReadFile(artifact)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "artifact not readable")
		return
	}

	s.logger.Info("download completed",
		zap.String("url", job.BaseURL),
		zap.String("artifact", artifact),
		zap.Duration("elapsed", time.Since(start)),
	)

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition",
		"attachment; filename*=UTF-8''"+url.PathEscape(job.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		s.logger.Warn("response write failed", zap.Error(err))
	}
}

// statusForError maps pipeline failures to HTTP statuses: upstream content
// problems are 502, local persistence problems 500.
func statusForError(err error) int {
	var persistErr *crawler.PersistError
	switch {
	case errors.Is(err, crawler.ErrEntryUnavailable),
		errors.Is(err, crawler.ErrNoContainer),
		errors.Is(err, crawler.ErrNoLinks):
		return http.StatusBadGateway
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
