// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/docgen"
	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
	"github.com/nicodishanthj/Batchlens_phase1/internal/llm"
)

// Server exposes a built model over HTTP. The model is read-only after
// construction; only documentation generation mutates server-side state, and
// that is confined to the output directory.
type Server struct {
	router   chi.Router
	model    *graph.Model
	provider llm.Provider
	docsDir  string
}

// Config controls the API server.
type Config struct {
	Addr    string
	DocsDir string
}

// DefaultConfig returns the standard configuration used when no overrides
// are provided.
func DefaultConfig() Config {
	return Config{Addr: ":8080", DocsDir: "docs"}
}

// Merge overlays non-empty fields from the override onto the base
// configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.Addr) != "" {
		result.Addr = strings.TrimSpace(override.Addr)
	}
	if strings.TrimSpace(override.DocsDir) != "" {
		result.DocsDir = strings.TrimSpace(override.DocsDir)
	}
	return result
}

// LoadConfig reads overrides from the environment.
func LoadConfig() Config {
	return DefaultConfig().Merge(Config{
		Addr:    os.Getenv("BLENS_API_ADDR"),
		DocsDir: os.Getenv("BLENS_DOCS_DIR"),
	})
}

func NewServer(model *graph.Model, provider llm.Provider, cfg *Config) (*Server, error) {
	logger := common.Logger()
	if model == nil || model.Outer == nil {
		return nil, fmt.Errorf("model required")
	}
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	providerName := "none"
	if provider != nil {
		providerName = provider.Name()
	}
	srv := &Server{
		router:   chi.NewRouter(),
		model:    model,
		provider: provider,
		docsDir:  configuration.DocsDir,
	}
	srv.routes()
	logger.Info(
		"api: server ready",
		"outer_nodes", model.Outer.NodeCount(),
		"inner_graphs", len(model.Inner),
		"provider", providerName,
	)
	return srv, nil
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

	s.router.Get("/api/logs", func(w http.ResponseWriter, r *http.Request) {
		entries := common.LogEntries()
		if entries == nil {
			entries = []common.LogEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
	})

	s.router.Get("/api/programs", s.handlePrograms)
	s.router.Get("/api/issues", s.handleIssues)
	s.router.Get("/api/graph/outer", s.handleOuterGraph)
	s.router.Get("/api/graph/inner/{program}", s.handleInnerGraph)
	s.router.Get("/api/order/outer", s.handleOuterOrder)
	s.router.Get("/api/order/inner/{program}", s.handleInnerOrder)
	s.router.Post("/api/docs/generate", s.handleDocsGenerate)
}

func (s *Server) handleDocsGenerate(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("no llm provider configured"))
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if r.Body != nil {
		// empty body means default direction
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	direction := docgen.DirectionReverse
	if strings.EqualFold(req.Direction, string(docgen.DirectionForward)) {
		direction = docgen.DirectionForward
	}
	gen := docgen.New(s.provider, s.docsDir)
	result, err := gen.Run(r.Context(), s.model, direction)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": len(result.Documents),
		"direction": string(direction),
		"output":    s.docsDir,
	})
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
