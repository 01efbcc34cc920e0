// File path: internal/catalog/store_test.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleModel(t *testing.T) *graph.Model {
	t.Helper()
	order := func(v float64) *float64 { return &v }
	blocks := []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", Order: order(1), PerformTargets: []string{"WORK"}, CodeWithoutComments: "entry"},
		{OwnerID: "PGMA", BlockName: "WORK", Order: order(2), CalledUnits: []string{"PGMB"}, CodeWithoutComments: "work"},
		{OwnerID: "PGMA", BlockName: "ORPHAN", Order: order(3), CodeWithoutComments: "orphan"},
	}
	steps := []ingest.StepRecord{
		{JobName: "J1", Step: &ingest.StepDetail{StepName: "S1", StepNumber: 1, TargetUnitID: "PGMA"}},
	}
	return graph.Build(blocks, steps)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	model := sampleModel(t)

	if err := store.SaveModel(ctx, model); err != nil {
		t.Fatalf("save model: %v", err)
	}
	loaded, err := store.LoadModel(ctx)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}

	if got, want := loaded.Outer.NodeIDs(), model.Outer.NodeIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("outer node order: got %v want %v", got, want)
	}
	if got, want := loaded.Outer.Edges(), model.Outer.Edges(); !reflect.DeepEqual(got, want) {
		t.Fatalf("outer edges: got %v want %v", got, want)
	}
	inner, ok := loaded.Inner["PGMA"]
	if !ok {
		t.Fatalf("inner graph for PGMA missing after reload")
	}
	if got, want := inner.NodeIDs(), model.Inner["PGMA"].NodeIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("inner node order: got %v want %v", got, want)
	}
	if !reflect.DeepEqual(loaded.Dead, model.Dead) {
		t.Fatalf("dead blocks: got %v want %v", loaded.Dead, model.Dead)
	}
	if !reflect.DeepEqual(loaded.Issues, model.Issues) {
		t.Fatalf("issues: got %v want %v", loaded.Issues, model.Issues)
	}
}

func TestReloadedModelTraversesIdentically(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	model := sampleModel(t)

	if err := store.SaveModel(ctx, model); err != nil {
		t.Fatalf("save model: %v", err)
	}
	loaded, err := store.LoadModel(ctx)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}

	wantOrder, wantFallback := graph.OuterOrder(model.Outer)
	gotOrder, gotFallback := graph.OuterOrder(loaded.Outer)
	if gotFallback != wantFallback || !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("outer order diverged after reload: got %v want %v", gotOrder, wantOrder)
	}
	wantInner, _ := graph.InnerOrder(model.Inner["PGMA"])
	gotInner, _ := graph.InnerOrder(loaded.Inner["PGMA"])
	if !reflect.DeepEqual(gotInner, wantInner) {
		t.Fatalf("inner order diverged after reload: got %v want %v", gotInner, wantInner)
	}
}

func TestSaveReplacesPreviousModel(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveModel(ctx, sampleModel(t)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	order := func(v float64) *float64 { return &v }
	second := graph.Build([]ingest.BlockRecord{
		{OwnerID: "PGMZ", BlockName: "ENTRY", Order: order(1), CodeWithoutComments: "entry"},
	}, nil)
	if err := store.SaveModel(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.LoadModel(ctx)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	if _, ok := loaded.Inner["PGMA"]; ok {
		t.Fatalf("previous model leaked into reload")
	}
	if _, ok := loaded.Inner["PGMZ"]; !ok {
		t.Fatalf("replacement model missing PGMZ inner graph")
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LoadModel(context.Background()); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for empty catalog, got %v", err)
	}
}
