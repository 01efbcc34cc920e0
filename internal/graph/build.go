// File path: internal/graph/build.go
package graph

import (
	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

// Model is the finished two-level graph: the outer cross-entity graph and
// one acyclic inner graph per aggregated program, plus the record of what
// the elimination passes removed and every non-fatal issue encountered. The
// engine hands the Model to the caller and never mutates it again.
type Model struct {
	Outer   *Graph
	Inner   map[string]*Graph
	Dead    map[string][]string
	Removed map[string][]Edge
	Issues  []Issue
}

// Build runs the whole pipeline over one batch of records: aggregation,
// per-program inner graph construction, dead-block elimination, cycle
// elimination, and outer graph construction. The pipeline is synchronous and
// single-threaded; every graph is owned exclusively by the build until the
// Model is returned. Malformed input degrades the result and lands in
// Issues; there is no fatal error path.
func Build(blocks []ingest.BlockRecord, steps []ingest.StepRecord) *Model {
	logger := common.Logger()
	logger.Info("graph: build started", "block_records", len(blocks), "step_records", len(steps))

	agg := Aggregate(blocks)
	model := &Model{
		Inner:   make(map[string]*Graph, len(agg.Order)),
		Dead:    make(map[string][]string),
		Removed: make(map[string][]Edge),
		Issues:  agg.Issues,
	}

	for _, id := range agg.Order {
		unit := agg.Programs[id]
		inner, issues := BuildInner(unit)
		model.Issues = append(model.Issues, issues...)

		dead, deadIssues := EliminateDeadBlocks(inner, id)
		model.Issues = append(model.Issues, deadIssues...)
		if len(dead) > 0 {
			model.Dead[id] = dead
		}

		if removed := EliminateCycles(inner); len(removed) > 0 {
			model.Removed[id] = removed
		}
		model.Inner[id] = inner
	}

	outer, issues := BuildOuter(agg, steps)
	model.Issues = append(model.Issues, issues...)
	model.Outer = outer

	logger.Info(
		"graph: build complete",
		"outer_nodes", outer.NodeCount(),
		"outer_edges", outer.EdgeCount(),
		"inner_graphs", len(model.Inner),
		"issues", len(model.Issues),
	)
	return model
}
