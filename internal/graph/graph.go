// File path: internal/graph/graph.go
package graph

// Edge is a typed directed edge. Edges carry no payload beyond the type tag;
// the graph holds at most one edge per (From, To, Type) triple.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// Graph is an adjacency-map directed graph owned by a single build pipeline.
// Nodes keep their insertion order; outgoing edges keep theirs per node.
// The zero value is not usable; construct with New.
type Graph struct {
	nodes   map[string]Node
	order   []string
	out     map[string][]Edge
	in      map[string][]Edge
	edgeSet map[Edge]struct{}
}

func New() *Graph {
	return &Graph{
		nodes:   make(map[string]Node),
		out:     make(map[string][]Edge),
		in:      make(map[string][]Edge),
		edgeSet: make(map[Edge]struct{}),
	}
}

// AddNode inserts the node, or replaces the stored attributes when a node
// with the same id already exists. A replaced node keeps its original
// insertion position.
func (g *Graph) AddNode(n Node) {
	id := n.ID()
	if _, exists := g.nodes[id]; !exists {
		g.order = append(g.order, id)
	}
	g.nodes[id] = n
}

// EnsureNode inserts the node only when absent and reports whether an
// insertion happened.
func (g *Graph) EnsureNode(n Node) bool {
	if _, exists := g.nodes[n.ID()]; exists {
		return false
	}
	g.AddNode(n)
	return true
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns the node ids in insertion order. The slice is a copy.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// AddEdge adds a typed edge between existing nodes. Adding a duplicate
// (from, to, type) triple or referencing a missing endpoint is a no-op; the
// return value reports whether the edge was inserted.
func (g *Graph) AddEdge(from, to string, t EdgeType) bool {
	if !g.HasNode(from) || !g.HasNode(to) {
		return false
	}
	e := Edge{From: from, To: to, Type: t}
	if _, dup := g.edgeSet[e]; dup {
		return false
	}
	g.edgeSet[e] = struct{}{}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return true
}

// RemoveEdge removes one typed edge and reports whether it existed.
func (g *Graph) RemoveEdge(from, to string, t EdgeType) bool {
	e := Edge{From: from, To: to, Type: t}
	if _, ok := g.edgeSet[e]; !ok {
		return false
	}
	delete(g.edgeSet, e)
	g.out[from] = dropEdge(g.out[from], e)
	g.in[to] = dropEdge(g.in[to], e)
	return true
}

// RemoveNode removes a node along with all incident edges and reports
// whether it existed.
func (g *Graph) RemoveNode(id string) bool {
	if !g.HasNode(id) {
		return false
	}
	for _, e := range append([]Edge(nil), g.out[id]...) {
		g.RemoveEdge(e.From, e.To, e.Type)
	}
	for _, e := range append([]Edge(nil), g.in[id]...) {
		g.RemoveEdge(e.From, e.To, e.Type)
	}
	delete(g.nodes, id)
	delete(g.out, id)
	delete(g.in, id)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// Out returns the outgoing edges of a node in insertion order.
func (g *Graph) Out(id string) []Edge {
	return append([]Edge(nil), g.out[id]...)
}

// In returns the incoming edges of a node in insertion order.
func (g *Graph) In(id string) []Edge {
	return append([]Edge(nil), g.in[id]...)
}

// InDegree counts incoming edges, with parallel typed edges counted
// separately.
func (g *Graph) InDegree(id string) int {
	return len(g.in[id])
}

// Successors returns the distinct successor ids of a node in first-edge
// order.
func (g *Graph) Successors(id string) []string {
	return distinctEndpoints(g.out[id], func(e Edge) string { return e.To })
}

// Predecessors returns the distinct predecessor ids of a node in first-edge
// order.
func (g *Graph) Predecessors(id string) []string {
	return distinctEndpoints(g.in[id], func(e Edge) string { return e.From })
}

// Edges returns every edge, grouped by source node insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeSet))
	for _, id := range g.order {
		out = append(out, g.out[id]...)
	}
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edgeSet) }

func dropEdge(edges []Edge, e Edge) []Edge {
	for i, candidate := range edges {
		if candidate == e {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

func distinctEndpoints(edges []Edge, pick func(Edge) string) []string {
	seen := make(map[string]struct{}, len(edges))
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		id := pick(e)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
