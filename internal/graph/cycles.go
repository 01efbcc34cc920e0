// File path: internal/graph/cycles.go
package graph

import (
	"sort"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
)

// EliminateCycles breaks every cycle in the graph by repeatedly running a
// deterministic depth-first search and removing the closing edge of the
// first cycle found, until no cycle remains. Roots are visited in ascending
// node id order and outgoing edges in insertion order, so the removed edge
// set is a pure function of the input graph. This is a greedy feedback-arc
// heuristic, not a minimum feedback-arc solver. Each iteration removes one
// edge, so termination is guaranteed.
func EliminateCycles(g *Graph) []Edge {
	var removed []Edge
	for {
		closing, found := findClosingEdge(g)
		if !found {
			break
		}
		g.RemoveEdge(closing.From, closing.To, closing.Type)
		removed = append(removed, closing)
	}
	if len(removed) > 0 {
		common.Logger().Debug("graph: cycle edges removed", "count", len(removed))
	}
	return removed
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// findClosingEdge returns the last edge of the first cycle discovered by the
// deterministic traversal: the edge leading from the current node back to a
// node still on the DFS stack.
func findClosingEdge(g *Graph) (Edge, bool) {
	ids := g.NodeIDs()
	sort.Strings(ids)

	color := make(map[string]int, len(ids))
	var dfs func(id string) (Edge, bool)
	dfs = func(id string) (Edge, bool) {
		color[id] = colorGray
		for _, e := range g.Out(id) {
			switch color[e.To] {
			case colorWhite:
				if closing, found := dfs(e.To); found {
					return closing, true
				}
			case colorGray:
				return e, true
			}
		}
		color[id] = colorBlack
		return Edge{}, false
	}

	for _, id := range ids {
		if color[id] != colorWhite {
			continue
		}
		if closing, found := dfs(id); found {
			return closing, true
		}
	}
	return Edge{}, false
}
