// File path: internal/graph/deadcode.go
package graph

import (
	"fmt"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
)

// EliminateDeadBlocks removes unreachable blocks from one inner graph. The
// root is the program's ENTRY block; when it is absent the pass is a no-op
// and is reported. The pass walks a single snapshot of the node list in
// insertion order and removes every non-root node whose in-degree is zero at
// the moment it is visited. This is deliberately not a fixed-point
// computation: a node whose last predecessor is removed later in the same
// pass survives until a caller runs the pass again.
func EliminateDeadBlocks(g *Graph, programID string) ([]string, []Issue) {
	logger := common.Logger()
	root := programID + Separator + EntryBlock
	if !g.HasNode(root) {
		issue := Issue{
			Kind:    IssueStructural,
			Program: programID,
			Detail:  fmt.Sprintf("entry block not found for program %s; skipping dead block removal", programID),
		}
		logger.Warn("graph: " + issue.Detail)
		return nil, []Issue{issue}
	}

	var removed []string
	for _, id := range g.NodeIDs() {
		if id == root {
			continue
		}
		if g.InDegree(id) == 0 {
			g.RemoveNode(id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		logger.Debug("graph: dead blocks removed", "program", programID, "count", len(removed), "blocks", removed)
	}
	return removed, nil
}
