// File path: internal/graph/cycles_test.go
package graph

import (
	"reflect"
	"testing"
)

func TestEliminateCyclesRemovesSelfLoop(t *testing.T) {
	g := innerGraph(t, "A", []string{"ENTRY", "LOOP", "END"}, []Edge{
		{From: "A:ENTRY", To: "A:LOOP", Type: EdgePerform},
		{From: "A:LOOP", To: "A:LOOP", Type: EdgePerform},
		{From: "A:LOOP", To: "A:END", Type: EdgeGoto},
	})
	removed := EliminateCycles(g)
	want := []Edge{{From: "A:LOOP", To: "A:LOOP", Type: EdgePerform}}
	if !reflect.DeepEqual(removed, want) {
		t.Fatalf("unexpected removed edges: %+v", removed)
	}
	if _, ok := TopoOrder(g); !ok {
		t.Fatalf("graph still cyclic after elimination")
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("expected 2 surviving edges, got %d", g.EdgeCount())
	}
}

func TestEliminateCyclesRemovesClosingEdge(t *testing.T) {
	// DFS starts at the smallest id, so the closing edge is the one leading
	// back to it.
	g := innerGraph(t, "P", []string{"AAA", "BBB", "CCC"}, []Edge{
		{From: "P:AAA", To: "P:BBB", Type: EdgePerform},
		{From: "P:BBB", To: "P:CCC", Type: EdgePerform},
		{From: "P:CCC", To: "P:AAA", Type: EdgeGoto},
	})
	removed := EliminateCycles(g)
	want := []Edge{{From: "P:CCC", To: "P:AAA", Type: EdgeGoto}}
	if !reflect.DeepEqual(removed, want) {
		t.Fatalf("unexpected removed edges: %+v", removed)
	}
}

func TestEliminateCyclesHandlesMultipleCycles(t *testing.T) {
	g := innerGraph(t, "P", []string{"A", "B", "C", "D"}, []Edge{
		{From: "P:A", To: "P:B", Type: EdgePerform},
		{From: "P:B", To: "P:A", Type: EdgeGoto},
		{From: "P:C", To: "P:D", Type: EdgePerform},
		{From: "P:D", To: "P:C", Type: EdgePerform},
	})
	removed := EliminateCycles(g)
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed edges, got %+v", removed)
	}
	want := []Edge{
		{From: "P:B", To: "P:A", Type: EdgeGoto},
		{From: "P:D", To: "P:C", Type: EdgePerform},
	}
	if !reflect.DeepEqual(removed, want) {
		t.Fatalf("removal order not deterministic: %+v", removed)
	}
	if _, ok := TopoOrder(g); !ok {
		t.Fatalf("graph still cyclic")
	}
}

func TestEliminateCyclesOnAcyclicGraphIsNoop(t *testing.T) {
	g := innerGraph(t, "P", []string{"A", "B"}, []Edge{
		{From: "P:A", To: "P:B", Type: EdgePerform},
	})
	if removed := EliminateCycles(g); len(removed) != 0 {
		t.Fatalf("acyclic graph lost edges: %+v", removed)
	}
}
