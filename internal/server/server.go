// Package server exposes the diagram pipeline over HTTP.
//
// Endpoints:
//
//	GET  /health        liveness probe
//	POST /diagram       generate a diagram from a JSON request
//	GET  /history       list recent generations
//	GET  /history/{id}  fetch one recorded generation
//
// Requests are schema-validated before they reach the pipeline, and every
// successful generation is recorded in the history store.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mlenz/drawbridge/internal/history"
	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/graph"
	"github.com/mlenz/drawbridge/pkg/pipeline"
)

// maxRequestBytes caps the request body. Diagram descriptions are small;
// anything past this is a mistake or abuse.
const maxRequestBytes = 4 << 20

// Server routes HTTP requests into the diagram pipeline.
type Server struct {
	router *chi.Mux
	runner *pipeline.Runner
	store  history.Store
	opts   pipeline.Options
	logger *log.Logger
}

// New assembles a server around a pipeline runner and a history store.
// A nil store disables history recording.
func New(runner *pipeline.Runner, store history.Store, opts pipeline.Options, logger *log.Logger) *Server {
	if store == nil {
		store = history.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		router: chi.NewRouter(),
		runner: runner,
		store:  store,
		opts:   opts,
		logger: logger,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/diagram", s.handleDiagram)
	s.router.Get("/history", s.handleHistoryList)
	s.router.Get("/history/{id}", s.handleHistoryGet)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger tags each request with an identifier and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "drawbridge"})
}

// diagramResponse is the success body of POST /diagram.
type diagramResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		s.writeError(w, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "read request body"))
		return
	}

	if err := validateRequest(raw); err != nil {
		s.writeError(w, err)
		return
	}

	var req graph.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	result, err := s.runner.Execute(r.Context(), req, s.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entry := &history.Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Nodes:     result.Stats.NodeCount,
		Edges:     result.Stats.EdgeCount,
		URL:       result.URL,
		Request:   req,
	}
	if err := s.store.Record(r.Context(), entry); err != nil {
		// A failed history write must not fail the generation.
		s.logger.Warn("record history", "err", err)
	}

	writeJSON(w, http.StatusOK, diagramResponse{
		ID:    entry.ID,
		URL:   result.URL,
		Nodes: entry.Nodes,
		Edges: entry.Edges,
	})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context(), 50)
	if err != nil {
		s.writeError(w, dberrors.Wrap(dberrors.ErrCodeInternal, err, "list history"))
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := s.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		s.writeError(w, dberrors.New(dberrors.ErrCodeNotFound, "no entry %q", id))
		return
	}
	if err != nil {
		s.writeError(w, dberrors.Wrap(dberrors.ErrCodeInternal, err, "get history entry"))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := dberrors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Code:    string(code),
		Message: dberrors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP statuses. Anything unmapped is a
// server-side failure.
func statusFor(code dberrors.Code) int {
	switch code {
	case dberrors.ErrCodeMalformedInput,
		dberrors.ErrCodeInvalidFormat,
		dberrors.ErrCodeUnknownReference,
		dberrors.ErrCodeDuplicateNode,
		dberrors.ErrCodeEmptyContainer:
		return http.StatusBadRequest
	case dberrors.ErrCodeNotFound:
		return http.StatusNotFound
	case dberrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
