// File path: internal/graph/aggregate_test.go
package graph

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

func orderHint(v float64) *float64 { return &v }

func TestAggregateGroupsAndDeduplicatesCalls(t *testing.T) {
	blocks := []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY", CalledUnits: []string{"SUBR1", "SUBR2"}},
		{OwnerID: "PGMA", BlockName: "MAIN", CalledUnits: []string{"SUBR2", "SUBR3"}},
		{OwnerID: "PGMB", BlockName: "ENTRY"},
	}
	agg := Aggregate(blocks)

	if !reflect.DeepEqual(agg.Order, []string{"PGMA", "PGMB"}) {
		t.Fatalf("unexpected program order: %v", agg.Order)
	}
	calls := agg.Programs["PGMA"].Calls
	want := map[string]struct{}{"SUBR1": {}, "SUBR2": {}, "SUBR3": {}}
	if len(calls) != len(want) {
		t.Fatalf("expected %d distinct calls, got %v", len(want), calls)
	}
	for _, callee := range calls {
		if _, ok := want[callee]; !ok {
			t.Fatalf("unexpected callee %q", callee)
		}
	}
}

func TestAggregateLastWriteWinsOnDuplicateBlock(t *testing.T) {
	blocks := []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "MAIN", CodeWithoutComments: "first"},
		{OwnerID: "PGMA", BlockName: "ENTRY"},
		{OwnerID: "PGMA", BlockName: "MAIN", CodeWithoutComments: "second"},
	}
	agg := Aggregate(blocks)
	unit := agg.Programs["PGMA"]

	if got := unit.Blocks["MAIN"].CodeWithoutComments; got != "second" {
		t.Fatalf("expected later record to win, got %q", got)
	}
	// The duplicate keeps the original position.
	if !reflect.DeepEqual(unit.BlockOrder, []string{"MAIN", "ENTRY"}) {
		t.Fatalf("unexpected block order: %v", unit.BlockOrder)
	}
	found := false
	for _, issue := range agg.Issues {
		if issue.Kind == IssueStructural && strings.Contains(issue.Detail, "duplicate block") {
			found = true
		}
	}
	if !found {
		t.Fatalf("duplicate block not reported: %+v", agg.Issues)
	}
}

func TestAggregateCodeConcatenationOrder(t *testing.T) {
	blocks := []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ZULU", Order: orderHint(2), CodeWithComments: "* zulu", CodeWithoutComments: "zulu"},
		{OwnerID: "PGMA", BlockName: "ENTRY", Order: orderHint(1), CodeWithComments: "* entry", CodeWithoutComments: "entry"},
		{OwnerID: "PGMA", BlockName: "NOHINT", CodeWithComments: "* nohint", CodeWithoutComments: "nohint"},
		{OwnerID: "PGMA", BlockName: "ALSONONE", CodeWithComments: "* alsonone", CodeWithoutComments: "alsonone"},
	}
	agg := Aggregate(blocks)
	unit := agg.Programs["PGMA"]

	// order ascending, missing hints last, ties by name.
	wantOrder := []string{"ENTRY", "ZULU", "ALSONONE", "NOHINT"}
	var gotOrder []string
	for _, line := range strings.Split(unit.CodeWithComments, "\n") {
		if strings.HasPrefix(line, "--- BLOCK: ") {
			name := strings.TrimSuffix(strings.TrimPrefix(line, "--- BLOCK: "), " ---")
			gotOrder = append(gotOrder, name)
		}
	}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("unexpected concatenation order: %v", gotOrder)
	}
	if want := "entry\nzulu\nalsonone\nnohint"; unit.CodeWithoutComments != want {
		t.Fatalf("unexpected uncommented concatenation: %q", unit.CodeWithoutComments)
	}
	if strings.HasPrefix(unit.CodeWithComments, "\n") {
		t.Fatalf("leading whitespace not trimmed")
	}
}

func TestAggregateSkipsMalformedRecords(t *testing.T) {
	blocks := []ingest.BlockRecord{
		{OwnerID: "", BlockName: "ENTRY"},
		{OwnerID: "BAD:ID", BlockName: "ENTRY"},
		{OwnerID: "PGMA", BlockName: ""},
		{OwnerID: "PGMA", BlockName: "ENTRY"},
	}
	agg := Aggregate(blocks)

	if len(agg.Order) != 1 || agg.Order[0] != "PGMA" {
		t.Fatalf("unexpected programs: %v", agg.Order)
	}
	if len(agg.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %+v", agg.Issues)
	}
}

func TestAggregateMetadataIsOpportunistic(t *testing.T) {
	blocks := []ingest.BlockRecord{
		{OwnerID: "PGMA", BlockName: "ENTRY"},
		{OwnerID: "PGMA", BlockName: "MAIN", Identification: []byte(`{"author":"ops"}`), Using: []string{"PARM1"}},
		{OwnerID: "PGMA", BlockName: "EXIT", Identification: []byte(`{"author":"other"}`)},
	}
	agg := Aggregate(blocks)
	unit := agg.Programs["PGMA"]
	if string(unit.Identification) != `{"author":"ops"}` {
		t.Fatalf("expected first supplier to win, got %s", unit.Identification)
	}
	if !reflect.DeepEqual(unit.Using, []string{"PARM1"}) {
		t.Fatalf("unexpected using list: %v", unit.Using)
	}
}
