package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pulse-dashboard/internal/dashboard"
	"pulse-dashboard/internal/model"
	"pulse-dashboard/internal/pipeline"
	"pulse-dashboard/internal/region"
	"pulse-dashboard/pkg/router"
)

// Handler serves the dashboard API
type Handler struct {
	pipeline *pipeline.Pipeline
	runner   *dashboard.Runner
	names    *region.Normalizer
	ping     func(context.Context) error
	logger   *slog.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithPing sets the health probe of the data source
func WithPing(ping func(context.Context) error) Option {
	return func(h *Handler) { h.ping = ping }
}

// WithNormalizer exposes the normalizer's unmapped codes on /regions
func WithNormalizer(n *region.Normalizer) Option {
	return func(h *Handler) { h.names = n }
}

// WithLogger sets the handler logger
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// New wires a Handler
func New(p *pipeline.Pipeline, runner *dashboard.Runner, opts ...Option) *Handler {
	h := &Handler{pipeline: p, runner: runner, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrDataAccess):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrUnknownPage), errors.Is(err, model.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnknownColumn), errors.Is(err, model.ErrInvalidFilter), errors.Is(err, model.ErrInvalidQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		msg = "data source unavailable: " + msg
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", err))
	}
	writeJSON(w, status, ErrorResponse{Error: msg, RequestID: router.RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathParam returns the path segment that follows prefix
func pathParam(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// Health reports whether the data source answers
// @Summary Health check
// @Description Ping the configured data source
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Healthy"
// @Failure 503 {object} ErrorResponse "Data source unavailable"
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.writeError(w, r, &model.DataAccessError{Op: "ping", Err: err})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
