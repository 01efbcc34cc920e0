// File path: internal/api/graph_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
)

// nodePayload is the wire form of a node: identity, kind and the concrete
// node's own JSON attributes.
type nodePayload struct {
	ID    string          `json:"id"`
	Kind  graph.NodeKind  `json:"kind"`
	Attrs json.RawMessage `json:"attrs"`
}

type graphPayload struct {
	Nodes []nodePayload `json:"nodes"`
	Edges []graph.Edge  `json:"edges"`
}

func dumpGraph(g *graph.Graph) (graphPayload, error) {
	payload := graphPayload{
		Nodes: make([]nodePayload, 0, g.NodeCount()),
		Edges: g.Edges(),
	}
	for _, n := range g.Nodes() {
		attrs, err := json.Marshal(n)
		if err != nil {
			return graphPayload{}, fmt.Errorf("marshal node %s: %w", n.ID(), err)
		}
		payload.Nodes = append(payload.Nodes, nodePayload{ID: n.ID(), Kind: n.Kind(), Attrs: attrs})
	}
	if payload.Edges == nil {
		payload.Edges = []graph.Edge{}
	}
	return payload, nil
}

func (s *Server) handleOuterGraph(w http.ResponseWriter, r *http.Request) {
	payload, err := dumpGraph(s.model.Outer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleInnerGraph(w http.ResponseWriter, r *http.Request) {
	program := chi.URLParam(r, "program")
	inner, ok := s.model.Inner[program]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown program %q", program))
		return
	}
	payload, err := dumpGraph(inner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"program":      program,
		"nodes":        payload.Nodes,
		"edges":        payload.Edges,
		"deadBlocks":   stringsOrEmpty(s.model.Dead[program]),
		"removedEdges": edgesOrEmpty(s.model.Removed[program]),
	})
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	type programInfo struct {
		Program       string `json:"program"`
		HasInnerGraph bool   `json:"hasInnerGraph"`
		Placeholder   bool   `json:"isPlaceholder,omitempty"`
		Blocks        int    `json:"blocks"`
	}
	programs := make([]programInfo, 0)
	for _, n := range s.model.Outer.Nodes() {
		prog, ok := n.(*graph.ProgramNode)
		if !ok {
			continue
		}
		info := programInfo{
			Program:       prog.Program,
			HasInnerGraph: prog.HasInnerGraph,
			Placeholder:   prog.Placeholder,
		}
		if inner, ok := s.model.Inner[prog.Program]; ok {
			info.Blocks = inner.NodeCount()
		}
		programs = append(programs, info)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"programs": programs})
}

func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	issues := s.model.Issues
	if issues == nil {
		issues = []graph.Issue{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"issues": issues})
}

func stringsOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func edgesOrEmpty(v []graph.Edge) []graph.Edge {
	if v == nil {
		return []graph.Edge{}
	}
	return v
}
