// Package server exposes the dashboard over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"smartdash/internal/catalog"
	"smartdash/internal/chat"
	"smartdash/internal/models"
	"smartdash/internal/settings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	session *chat.Session
	store   *settings.Store
	logger  *zap.Logger

	mu       sync.Mutex
	settings models.Settings
}

func New(session *chat.Session, store *settings.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		session:  session,
		store:    store,
		logger:   logger,
		settings: store.Load(context.Background()),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tools", s.listTools)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.getSettings)
			r.Put("/{key}", s.putSetting)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/", s.openSession)
			r.Delete("/", s.closeSession)
			r.Post("/messages", s.postMessage)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.session.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())))
	})
}

func (s *Server) currentSettings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentSettings())
}

type settingRequest struct {
	Value string `json:"value"`
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if !decode(w, r, &req) {
		return
	}
	key := chi.URLParam(r, "key")

	s.mu.Lock()
	next, err := s.store.Set(r.Context(), s.settings, key, req.Value)
	if errors.Is(err, settings.ErrUnknownKey) {
		s.mu.Unlock()
		writeError(w, r, http.StatusBadRequest, "UNKNOWN_KEY", err.Error())
		return
	}
	s.settings = next
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("settings not saved", zap.String("key", key), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, next)
}

type sessionView struct {
	State string `json:"state"`
	chat.Snapshot
}

func view(snap chat.Snapshot) sessionView {
	return sessionView{State: snap.State.String(), Snapshot: snap}
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view(s.session.Snapshot()))
}

type openRequest struct {
	ToolID string `json:"tool_id"`
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !decode(w, r, &req) {
		return
	}
	tool, ok := catalog.Lookup(req.ToolID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_TOOL", "unknown tool: "+req.ToolID)
		return
	}
	s.session.SelectTool(tool)
	writeJSON(w, http.StatusOK, view(s.session.Snapshot()))
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	s.session.Close()
	w.WriteHeader(http.StatusNoContent)
}

type messageRequest struct {
	Text string `json:"text"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := s.session.Submit(r.Context(), req.Text, s.currentSettings())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, view(s.session.Snapshot()))
	case errors.Is(err, chat.ErrBlankInput):
		writeError(w, r, http.StatusBadRequest, "BLANK_INPUT", err.Error())
	case errors.Is(err, chat.ErrNoActiveTool), errors.Is(err, chat.ErrPending), errors.Is(err, chat.ErrStale):
		writeError(w, r, http.StatusConflict, "SESSION_CONFLICT", err.Error())
	default:
		s.logger.Warn("message failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "RESOLVE_FAILED", err.Error())
	}
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{
		Code:      code,
		Message:   message,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return false
	}
	return true
}
