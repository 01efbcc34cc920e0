// File path: internal/graph/inner_test.go
package graph

import (
	"strings"
	"testing"

	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

func unitFor(t *testing.T, blocks []ingest.BlockRecord) *ProgramUnit {
	t.Helper()
	agg := Aggregate(blocks)
	if len(agg.Order) != 1 {
		t.Fatalf("expected one program, got %v", agg.Order)
	}
	return agg.Programs[agg.Order[0]]
}

func TestBuildInnerAddsTypedEdges(t *testing.T) {
	unit := unitFor(t, []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", PerformTargets: []string{"MAIN"}},
		{OwnerID: "PGMA", BlockName: "MAIN", GotoTargets: []string{"EXIT"}},
		{OwnerID: "PGMA", BlockName: "EXIT"},
	})
	g, issues := BuildInner(unit)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("unexpected graph size: %d nodes %d edges", g.NodeCount(), g.EdgeCount())
	}
	out := g.Out("PGMA:ENTRY")
	if len(out) != 1 || out[0].Type != EdgePerform || out[0].To != "PGMA:MAIN" {
		t.Fatalf("unexpected entry edges: %+v", out)
	}
	out = g.Out("PGMA:MAIN")
	if len(out) != 1 || out[0].Type != EdgeGoto || out[0].To != "PGMA:EXIT" {
		t.Fatalf("unexpected main edges: %+v", out)
	}
}

func TestBuildInnerDropsMissingTargets(t *testing.T) {
	unit := unitFor(t, []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", PerformTargets: []string{"GONE"}, GotoTargets: []string{"ALSOGONE"}},
	})
	g, issues := BuildInner(unit)
	if g.EdgeCount() != 0 {
		t.Fatalf("expected no edges, got %d", g.EdgeCount())
	}
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %+v", issues)
	}
	for _, issue := range issues {
		if issue.Kind != IssueMissingField || !strings.Contains(issue.Detail, "not found in program") {
			t.Fatalf("unexpected issue: %+v", issue)
		}
	}
}

func TestBuildInnerSkipsInlineSentinel(t *testing.T) {
	unit := unitFor(t, []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", PerformTargets: []string{"INLINE", "MAIN"}},
		{OwnerID: "PGMA", BlockName: "MAIN"},
	})
	g, issues := BuildInner(unit)
	if len(issues) != 0 {
		t.Fatalf("inline sentinel reported as an issue: %+v", issues)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected single edge, got %d", g.EdgeCount())
	}
}

func TestBuildInnerEdgeAdditionIsIdempotent(t *testing.T) {
	unit := unitFor(t, []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", PerformTargets: []string{"MAIN", "MAIN", "MAIN"}},
		{OwnerID: "PGMA", BlockName: "MAIN"},
	})
	g, _ := BuildInner(unit)
	if g.EdgeCount() != 1 {
		t.Fatalf("repeated targets produced %d edges", g.EdgeCount())
	}
}
