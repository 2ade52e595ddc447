package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-hackathon-board/internal/core/clock"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
	"github.com/penwyp/go-hackathon-board/internal/data/icsio"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

const maxBodyBytes = 64 << 10

// ScheduleService is the part of timeline.Store the API serves.
type ScheduleService interface {
	Snapshot() *model.Snapshot
	Add(ctx context.Context, draft model.EntryDraft) (model.ScheduleEntry, error)
	Update(ctx context.Context, id model.EntryID, draft model.EntryDraft) (model.ScheduleEntry, error)
	Remove(ctx context.Context, id model.EntryID) error
}

// Server exposes the schedule and the live board over HTTP.
type Server struct {
	svc    ScheduleService
	clock  clock.Clock
	policy model.WrapPolicy
	log    util.LoggerInterface
	mux    *http.ServeMux

	calendarName string
	username     string
	password     string

	metricsPath    string
	metricsHandler http.Handler
}

// Option customizes a Server.
type Option func(*Server)

// WithClock sets the clock used for /api/board and ICS export.
func WithClock(c clock.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithWrapPolicy selects how /api/board counts down after the last important entry.
func WithWrapPolicy(p model.WrapPolicy) Option {
	return func(s *Server) { s.policy = p }
}

// WithBasicAuth protects mutating endpoints. Empty credentials disable it.
func WithBasicAuth(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithMetrics mounts a metrics handler at path.
func WithMetrics(path string, h http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metricsHandler = h
	}
}

// WithCalendarName sets the X-WR-CALNAME of the ICS export.
func WithCalendarName(name string) Option {
	return func(s *Server) { s.calendarName = name }
}

// NewServer constructs a new Server.
func NewServer(svc ScheduleService, opts ...Option) *Server {
	s := &Server{
		svc:   svc,
		clock: clock.System(nil),
		log:   util.Named("web"),
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", util.F("listen", addr), util.F("auth", s.authEnabled()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/schedule", s.handleList)
	s.mux.HandleFunc("GET /api/schedule.ics", s.handleICS)
	s.mux.HandleFunc("GET /api/board", s.handleBoard)
	s.mux.Handle("POST /api/schedule", s.requireAuth(http.HandlerFunc(s.handleCreate)))
	s.mux.Handle("PUT /api/schedule/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdate)))
	s.mux.Handle("DELETE /api/schedule/{id}", s.requireAuth(http.HandlerFunc(s.handleDelete)))

	if s.metricsHandler != nil && s.metricsPath != "" {
		s.mux.Handle("GET "+s.metricsPath, s.metricsHandler)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toScheduleResponse(s.svc.Snapshot()))
}

func (s *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	p := timeline.Project(s.svc.Snapshot(), s.clock.Now(), s.policy)
	writeJSON(w, http.StatusOK, toBoardResponse(p))
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	body := icsio.Export(s.svc.Snapshot().Entries(), s.clock.Now(), s.calendarName)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.svc.Add(r.Context(), req.draft())
	if err != nil {
		s.writeServiceError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.svc.Update(r.Context(), id, req.draft())
	if err != nil {
		s.writeServiceError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Remove(r.Context(), id); err != nil {
		s.writeServiceError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps store errors to status codes: validation 400,
// not found 404, anything else is a backend failure (502).
func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("schedule "+op+" failed", util.F("error", err))
		writeError(w, http.StatusBadGateway, "schedule store unavailable")
	}
}

func (s *Server) authEnabled() bool {
	return s.username != "" && s.password != ""
}

// requireAuth wraps h with HTTP Basic Auth when credentials are configured.
func (s *Server) requireAuth(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled() {
			h.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, s.username) || !secureCompare(p, s.password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="hackathon-board", charset="UTF-8"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		h.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			util.F("method", r.Method),
			util.F("path", r.URL.Path),
			util.F("status", rec.status),
			util.F("duration", time.Since(start)),
		)
	})
}

func parseID(r *http.Request) (model.EntryID, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid schedule id %q", raw)
	}
	return model.EntryID(id), nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogErrorf("failed to encode JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
