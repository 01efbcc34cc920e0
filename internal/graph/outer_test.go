// File path: internal/graph/outer_test.go
package graph

import (
	"reflect"
	"testing"

	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

func stepRecord(job, step, target string) ingest.StepRecord {
	return ingest.StepRecord{
		JobName: job,
		Step:    &ingest.StepDetail{StepName: step, TargetUnitID: target},
	}
}

func TestBuildOuterLinksStepsToPrograms(t *testing.T) {
	agg := Aggregate([]ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY"},
	})
	g, _ := BuildOuter(agg, []ingest.StepRecord{stepRecord("J1", "S1", "PGMA")})

	n, ok := g.Node("J1:S1")
	if !ok || n.Kind() != KindStep {
		t.Fatalf("step node missing: %v", n)
	}
	if _, ok := g.Node("J1"); !ok {
		t.Fatalf("job node missing")
	}
	out := g.Out("J1:S1")
	if len(out) != 1 || out[0].Type != EdgeExecutes || out[0].To != "PGMA" {
		t.Fatalf("unexpected step edges: %+v", out)
	}
	prog := mustProgram(t, g, "PGMA")
	if prog.Placeholder {
		t.Fatalf("aggregated program marked placeholder")
	}
	if !prog.HasInnerGraph {
		t.Fatalf("program with blocks lost inner graph flag")
	}
}

func TestBuildOuterCreatesPlaceholderForUnresolvedTarget(t *testing.T) {
	g, issues := BuildOuter(Aggregate(nil), []ingest.StepRecord{stepRecord("J1", "S1", "PGMX")})

	prog := mustProgram(t, g, "PGMX")
	if !prog.Placeholder {
		t.Fatalf("unresolved target not a placeholder: %+v", prog)
	}
	out := g.Out("J1:S1")
	if len(out) != 1 || out[0].Type != EdgeExecutes || out[0].To != "PGMX" {
		t.Fatalf("executes edge missing: %+v", out)
	}
	found := false
	for _, issue := range issues {
		if issue.Kind == IssueUnresolvedRef && issue.Program == "PGMX" {
			found = true
		}
	}
	if !found {
		t.Fatalf("placeholder creation not reported: %+v", issues)
	}
}

func TestBuildOuterJobNodeIsIdempotent(t *testing.T) {
	steps := []ingest.StepRecord{
		stepRecord("J1", "S1", "PGMA"),
		stepRecord("J1", "S2", "PGMB"),
		stepRecord("J1", "S3", "PGMC"),
	}
	g, _ := BuildOuter(Aggregate(nil), steps)
	jobs := 0
	for _, n := range g.Nodes() {
		if n.Kind() == KindJob {
			jobs++
		}
	}
	if jobs != 1 {
		t.Fatalf("expected exactly one job node, got %d", jobs)
	}
}

func TestBuildOuterSkipsMalformedSteps(t *testing.T) {
	steps := []ingest.StepRecord{
		{JobName: "", Step: &ingest.StepDetail{StepName: "S1", TargetUnitID: "PGMA"}},
		{JobName: "J1"},
		{JobName: "J1", Step: &ingest.StepDetail{StepName: "", TargetUnitID: "PGMA"}},
		stepRecord("J1", "S1", "PGMA"),
	}
	g, issues := BuildOuter(Aggregate(nil), steps)
	if len(issues) < 3 {
		t.Fatalf("malformed steps not reported: %+v", issues)
	}
	steps = nil
	count := 0
	for _, n := range g.Nodes() {
		if n.Kind() == KindStep {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected 1 step node, got %d", count)
	}
}

func TestBuildOuterCallEdgesMatchCallSet(t *testing.T) {
	agg := Aggregate([]ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", CalledUnits: []string{"PGMB", "SUBR1"}},
		{OwnerID: "PGMA", BlockName: "MAIN", CalledUnits: []string{"SUBR1"}},
		{OwnerID: "PGMB", BlockName: "ENTRY"},
	})
	g, _ := BuildOuter(agg, nil)

	var callees []string
	for _, e := range g.Out("PGMA") {
		if e.Type != EdgeCall {
			t.Fatalf("unexpected edge type: %+v", e)
		}
		callees = append(callees, e.To)
	}
	if !reflect.DeepEqual(callees, []string{"PGMB", "SUBR1"}) {
		t.Fatalf("unexpected call edges: %v", callees)
	}
	if mustProgram(t, g, "PGMB").Placeholder {
		t.Fatalf("aggregated callee left as placeholder")
	}
	if !mustProgram(t, g, "SUBR1").Placeholder {
		t.Fatalf("external callee not a placeholder")
	}
}

func TestBuildOuterUpgradesEarlierPlaceholder(t *testing.T) {
	// PGMA calls PGMB and is aggregated first, so PGMB enters the graph as a
	// placeholder before its own definition is processed.
	agg := Aggregate([]ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", CalledUnits: []string{"PGMB"}},
		{OwnerID: "PGMB", BlockName: "ENTRY"},
	})
	g, issues := BuildOuter(agg, nil)

	prog := mustProgram(t, g, "PGMB")
	if prog.Placeholder || !prog.HasInnerGraph {
		t.Fatalf("placeholder not upgraded: %+v", prog)
	}
	for _, issue := range issues {
		if issue.Kind == IssueUnresolvedRef && issue.Program == "PGMB" {
			t.Fatalf("forward reference reported as unresolved: %+v", issue)
		}
	}
	if ids := g.NodeIDs(); !reflect.DeepEqual(ids, []string{"PGMA", "PGMB"}) {
		t.Fatalf("upgrade changed insertion order: %v", ids)
	}
}

func mustProgram(t *testing.T, g *Graph, id string) *ProgramNode {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("program %s missing", id)
	}
	prog, ok := n.(*ProgramNode)
	if !ok {
		t.Fatalf("node %s is not a program: %T", id, n)
	}
	return prog
}
