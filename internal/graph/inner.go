// File path: internal/graph/inner.go
package graph

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
)

// BuildInner constructs the block-level flow graph for one program: a
// BlockNode per block plus PERFORM and GOTO edges between blocks of the same
// program. Targets that do not name a block of this program are dropped and
// reported; partially parsed sources make these common. Edges never cross
// into another program's inner graph.
func BuildInner(unit *ProgramUnit) (*Graph, []Issue) {
	logger := common.Logger()
	g := New()
	var issues []Issue

	for _, name := range unit.BlockOrder {
		rec := unit.Blocks[name]
		g.AddNode(&BlockNode{
			Program:             unit.ID,
			Name:                name,
			CodeWithComments:    rec.CodeWithComments,
			CodeWithoutComments: rec.CodeWithoutComments,
		})
	}

	addEdges := func(src string, targets []string, t EdgeType) {
		srcID := unit.ID + Separator + src
		for _, target := range targets {
			trimmed := strings.TrimSpace(target)
			if trimmed == "" || trimmed == inlineSentinel {
				continue
			}
			targetID := unit.ID + Separator + trimmed
			if !g.HasNode(targetID) {
				issue := Issue{
					Kind:    IssueMissingField,
					Program: unit.ID,
					Detail:  fmt.Sprintf("%s target %s not found in program %s", t, targetID, unit.ID),
				}
				issues = append(issues, issue)
				logger.Warn("graph: "+issue.Detail)
				continue
			}
			g.AddEdge(srcID, targetID, t)
		}
	}

	for _, name := range unit.BlockOrder {
		rec := unit.Blocks[name]
		addEdges(name, rec.PerformTargets, EdgePerform)
		addEdges(name, rec.GotoTargets, EdgeGoto)
	}

	logger.Debug("graph: inner graph built", "program", unit.ID, "blocks", g.NodeCount(), "edges", g.EdgeCount())
	return g, issues
}
