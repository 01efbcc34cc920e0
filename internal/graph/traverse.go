// File path: internal/graph/traverse.go
package graph

import (
	"container/heap"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
)

// TopoOrder returns a deterministic topological order of the graph, or false
// when the graph contains a cycle. Determinism: the ready set is a min-heap
// of node ids, so among ready nodes the smallest id is emitted first. Every
// call computes a fresh slice; orders are restartable.
func TopoOrder(g *Graph) ([]string, bool) {
	indeg := make(map[string]int, g.NodeCount())
	for _, id := range g.NodeIDs() {
		indeg[id] = g.InDegree(id)
	}

	ready := &idHeap{}
	heap.Init(ready)
	for _, id := range g.NodeIDs() {
		if indeg[id] == 0 {
			heap.Push(ready, id)
		}
	}

	order := make([]string, 0, g.NodeCount())
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		for _, e := range g.Out(id) {
			indeg[e.To]--
			if indeg[e.To] == 0 {
				heap.Push(ready, e.To)
			}
		}
	}
	if len(order) != g.NodeCount() {
		return nil, false
	}
	return order, true
}

// OuterOrder returns a total order over the outer graph: the topological
// order when one exists, otherwise the documented fallback (program nodes in
// reverse insertion order, then step nodes in reverse insertion order, job
// nodes excluded). CALL edges never pass through cycle elimination, so
// mutually recursive programs make the fallback reachable. The boolean
// reports whether the fallback was used.
func OuterOrder(g *Graph) ([]string, bool) {
	if order, ok := TopoOrder(g); ok {
		return order, false
	}
	common.Logger().Warn("graph: outer graph is not a DAG; using fallback order")
	return fallbackOrder(g), true
}

// OuterReverseOrder returns the reverse processing order for the outer
// graph: the reversed topological order when one exists, otherwise the
// fallback order as-is (the fallback is already a reverse processing order).
func OuterReverseOrder(g *Graph) []string {
	if order, ok := TopoOrder(g); ok {
		return Reversed(order)
	}
	common.Logger().Warn("graph: outer graph is not a DAG; using fallback order")
	return fallbackOrder(g)
}

// InnerOrder returns the topological order of an inner graph. Inner graphs
// are acyclic after cycle elimination, so the sort always succeeds there;
// for an uneliminated graph the insertion order is returned and the boolean
// is false.
func InnerOrder(g *Graph) ([]string, bool) {
	if order, ok := TopoOrder(g); ok {
		return order, true
	}
	common.Logger().Warn("graph: inner graph is not a DAG; using insertion order")
	return g.NodeIDs(), false
}

// InnerReverseOrder is the reverse of InnerOrder.
func InnerReverseOrder(g *Graph) []string {
	order, _ := InnerOrder(g)
	return Reversed(order)
}

// Reversed returns a reversed copy of the ids.
func Reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func fallbackOrder(g *Graph) []string {
	var programs, steps []string
	for _, n := range g.Nodes() {
		switch n.Kind() {
		case KindProgram:
			programs = append(programs, n.ID())
		case KindStep:
			steps = append(steps, n.ID())
		}
	}
	return append(Reversed(programs), Reversed(steps)...)
}

type idHeap []string

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
