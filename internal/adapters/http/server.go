// Package http exposes the session registry over HTTP.
package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lecternlabs/lectern/internal/logging"
	"github.com/lecternlabs/lectern/internal/metrics"
	"github.com/lecternlabs/lectern/pkg/domain"
)

//go:embed openapi.yaml
var openapiDocument []byte

// Registry is the slice of session state the HTTP layer depends on.
type Registry interface {
	Page(sessionID string) (string, error)
	SetPage(sessionID, content string) error
	ResetResponses(sessionID string) error
	Respond(sessionID, userID, body string) error
	Responses(sessionID string) (map[string]string, error)
	Count() int
}

// Server translates HTTP requests into registry operations.
type Server struct {
	registry Registry
	logger   *slog.Logger
	limits   domain.Limits
	metrics  *metrics.Metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLimits overrides the request body cap.
func WithLimits(limits domain.Limits) Option {
	return func(s *Server) {
		s.limits = limits.Normalized()
	}
}

// WithMetrics wires Prometheus instrumentation into the handler, including
// the /metrics scrape route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler builds the full route table around the registry.
func NewHandler(registry Registry, opts ...Option) http.Handler {
	s := &Server{
		registry: registry,
		logger:   logging.NewNop(),
		limits:   domain.DefaultLimits,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.limitBody)

	r.Get("/", s.index)
	r.Get("/s/{sessionID}", s.getPage)
	r.Post("/s/{sessionID}/set_page", s.setPage)
	r.Post("/s/{sessionID}/reset_responses", s.resetResponses)
	r.Post("/s/{sessionID}/respond/{userID}", s.respond)
	r.Get("/s/{sessionID}/responses", s.getResponses)
	r.Get("/stats", s.getStats)
	r.Get("/health", s.getHealth)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiDocument)
	})
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return enableCORS(r)
}

// enableCORS opens the API to browser clients on any origin. Pages are meant
// to be embedded in whatever frontend the presenter already runs.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Lectern API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// logRequests emits one debug record per request once the response is
// written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request handled",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// limitBody caps every request body at the page size limit. Oversized
// payloads surface as *http.MaxBytesError when a handler reads the body.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, int64(s.limits.MaxPageBytes))
		next.ServeHTTP(w, r)
	})
}

// index handles GET /.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "A session ID is necessary.")
}

// getPage handles GET /s/{sessionID}.
func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.registry.Page(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, page)
}

// setPage handles POST /s/{sessionID}/set_page.
func (s *Server) setPage(w http.ResponseWriter, r *http.Request) {
	content, err := s.readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.registry.SetPage(chi.URLParam(r, "sessionID"), content); err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.PagesPublished.Inc()
	}
	w.WriteHeader(http.StatusOK)
}

// resetResponses handles POST /s/{sessionID}/reset_responses.
func (s *Server) resetResponses(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.ResetResponses(chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ResponsesReset.Inc()
	}
	w.WriteHeader(http.StatusOK)
}

// respond handles POST /s/{sessionID}/respond/{userID}.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	err = s.registry.Respond(chi.URLParam(r, "sessionID"), chi.URLParam(r, "userID"), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ResponsesRecorded.Inc()
	}
	w.WriteHeader(http.StatusOK)
}

// getResponses handles GET /s/{sessionID}/responses.
func (s *Server) getResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := s.registry.Responses(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, responses)
}

type statsResponse struct {
	NumSessions int `json:"num_sessions"`
}

// getStats handles GET /stats.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, statsResponse{NumSessions: s.registry.Count()})
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// readBody drains the request body, translating the body cap into a
// validation error so writeError maps it to 413.
func (s *Server) readBody(r *http.Request) (string, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", &domain.ValidationError{
				Field:  domain.FieldBody,
				Reason: fmt.Sprintf("exceeds %d bytes", maxErr.Limit),
			}
		}
		return "", err
	}
	return string(raw), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// writeError maps domain errors onto status codes. Oversized payloads get
// 413, other validation failures 400, unknown sessions 404 and anything
// else 500 with the detail kept out of the response body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		code := http.StatusBadRequest
		if verr.Field == domain.FieldPage || verr.Field == domain.FieldBody {
			code = http.StatusRequestEntityTooLarge
		}
		s.logger.Warn("request rejected", "error", err)
		http.Error(w, verr.Error(), code)
	case errors.Is(err, domain.ErrSessionNotFound):
		s.logger.Debug("session miss", "error", err)
		http.Error(w, "session not found", http.StatusNotFound)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
