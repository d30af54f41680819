// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nicodishanthj/flowlang/internal/catalog"
	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/converter"
	"github.com/nicodishanthj/flowlang/internal/review"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

type Server struct {
	router   chi.Router
	registry *converter.Registry
	catalog  *catalog.Store
	reviewer *review.Reviewer
	cfg      Config
}

// Config bounds request handling. The catalog and reviewer are
// optional; endpoints that need them answer 503 when absent.
type Config struct {
	MaxDocumentBytes int
	HistoryLimit     int
}

// DefaultConfig returns the standard configuration used when no
// overrides are provided.
func DefaultConfig() Config {
	return Config{
		MaxDocumentBytes: schema.DefaultMaxBytes,
		HistoryLimit:     50,
	}
}

// Merge overlays positive values from the override onto the base
// configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if override.MaxDocumentBytes > 0 {
		result.MaxDocumentBytes = override.MaxDocumentBytes
	}
	if override.HistoryLimit > 0 {
		result.HistoryLimit = override.HistoryLimit
	}
	return result
}

func NewServer(store *catalog.Store, reviewer *review.Reviewer, cfg *Config) *Server {
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	srv := &Server{
		router:   chi.NewRouter(),
		registry: converter.Default(),
		catalog:  store,
		reviewer: reviewer,
		cfg:      configuration,
	}
	srv.routes()
	common.Logger().Info("api: server ready",
		"catalog", store != nil, "review", reviewer != nil)
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Post("/v1/convert", s.handleConvert)
	s.router.Post("/v1/validate", s.handleValidate)
	s.router.Get("/v1/runs", s.handleRuns)
	s.router.Get("/v1/runs/{id}", s.handleRunByID)
	s.router.Get("/v1/logs", s.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
