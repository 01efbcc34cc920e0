// File path: internal/api/order_handler.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
)

func reverseRequested(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("direction"), "reverse")
}

func (s *Server) handleOuterOrder(w http.ResponseWriter, r *http.Request) {
	order, fallback := graph.OuterOrder(s.model.Outer)
	if reverseRequested(r) && !fallback {
		// the fallback order is already a reverse processing order
		order = graph.Reversed(order)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":    order,
		"fallback": fallback,
	})
}

func (s *Server) handleInnerOrder(w http.ResponseWriter, r *http.Request) {
	program := chi.URLParam(r, "program")
	inner, ok := s.model.Inner[program]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown program %q", program))
		return
	}
	order, sorted := graph.InnerOrder(inner)
	if reverseRequested(r) {
		order = graph.Reversed(order)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"program":  program,
		"order":    order,
		"fallback": !sorted,
	})
}
