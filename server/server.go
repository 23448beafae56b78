// Package server exposes a live page and its translate trigger over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ZaguanLabs/pagetl"
	"github.com/ZaguanLabs/pagetl/page"
	"github.com/ZaguanLabs/pagetl/trigger"
)

// Server serves one Document driven by one trigger.Handler.
type Server struct {
	doc     *page.Document
	handler *trigger.Handler
	cfg     trigger.Config
	logger  *slog.Logger
	hub     *hub
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server for doc. cfg must be the config h was created with.
func New(doc *page.Document, h *trigger.Handler, cfg trigger.Config, opts ...Option) *Server {
	s := &Server{
		doc:     doc,
		handler: h,
		cfg:     cfg,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(doc, s.logger)
	return s
}

type clickRequest struct {
	Element  string `json:"element"`
	Language string `json:"language,omitempty"`
}

type statusResponse struct {
	Status   string        `json:"status"`
	Busy     bool          `json:"busy"`
	Language string        `json:"language,omitempty"`
	Last     *lastResponse `json:"last,omitempty"`
}

type lastResponse struct {
	TargetLang string `json:"target"`
	Cached     bool   `json:"cached"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// RegisterRoutes adds the page routes to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.Page)
	mux.HandleFunc("POST /api/click", s.Click)
	mux.HandleFunc("GET /api/status", s.Status)
	mux.HandleFunc("GET /api/events", s.hub.serve)
	mux.HandleFunc("GET /healthz", s.Health)
}

// Handler returns an http.Handler serving every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// Page serves the current document markup.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	markup, err := s.doc.HTML()
	if err != nil {
		s.logger.Error("render page failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to render page"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

// Click checks the requested language and dispatches a click on an element.
func (s *Server) Click(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Element == "" {
		req.Element = s.cfg.TriggerID
	}

	if s.handler.Busy() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: pagetl.ErrBusy.Error()})
		return
	}

	prev, prevErr := s.doc.Checked(s.cfg.LanguageGroup)
	if req.Language != "" {
		if err := s.doc.Check(s.cfg.LanguageGroup, req.Language); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	if err := s.doc.Click(req.Element); err != nil {
		// A rejected click must not leave the selection changed.
		if req.Language != "" && prevErr == nil && prev != req.Language {
			_ = s.doc.Check(s.cfg.LanguageGroup, prev)
		}
		s.logger.Warn("click rejected", "element", req.Element, "error", err)
		writeJSON(w, clickStatus(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, statusResponse{
		Status:   "started",
		Busy:     s.handler.Busy(),
		Language: req.Language,
	})
}

func clickStatus(err error) int {
	switch {
	case errors.Is(err, pagetl.ErrNoElement), errors.Is(err, pagetl.ErrNoListener):
		return http.StatusNotFound
	case errors.Is(err, pagetl.ErrBusy), errors.Is(err, pagetl.ErrDisabled):
		return http.StatusConflict
	case errors.Is(err, pagetl.ErrNoSelection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Status reports the status text, busy flag, selected language and last outcome.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Busy: s.handler.Busy()}

	if s.cfg.StatusID != "" {
		resp.Status, _ = s.doc.Text(s.cfg.StatusID)
	}
	resp.Language, _ = s.doc.Checked(s.cfg.LanguageGroup)

	if out, ok := s.handler.Last(); ok {
		resp.Last = &lastResponse{
			TargetLang: out.TargetLang,
			Cached:     out.Cached,
			DurationMS: out.Duration.Milliseconds(),
		}
		if out.Err != nil {
			resp.Last.Error = out.Err.Error()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Close disconnects every event subscriber.
func (s *Server) Close() {
	s.hub.close()
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.hub.close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
