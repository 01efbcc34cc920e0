// File path: internal/graph/aggregate.go
package graph

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

// ProgramUnit is the aggregated view of one program: its block records keyed
// by block name, structural metadata taken from whichever record supplied it
// first, the deduplicated call set, and the ordered code concatenations.
type ProgramUnit struct {
	ID     string
	Blocks map[string]ingest.BlockRecord
	// BlockOrder preserves first appearance; a duplicate block record
	// overwrites the stored record but keeps the original position.
	BlockOrder []string
	Calls      []string

	Identification      []byte
	Environment         []byte
	Data                []byte
	Using               []string
	CodeWithComments    string
	CodeWithoutComments string
}

// Aggregation is the output of the aggregation pass: program units in first
// appearance order plus the issues encountered.
type Aggregation struct {
	Programs map[string]*ProgramUnit
	Order    []string
	Issues   []Issue
}

// Aggregate groups block records into program units. Duplicate
// (owner, blockName) pairs resolve last-write-wins; records with a missing
// owner or block name, or an owner id containing the separator, are skipped.
// Nothing here is fatal.
func Aggregate(blocks []ingest.BlockRecord) *Aggregation {
	logger := common.Logger()
	agg := &Aggregation{Programs: make(map[string]*ProgramUnit)}

	for _, rec := range blocks {
		owner := strings.TrimSpace(rec.OwnerID)
		name := strings.TrimSpace(rec.BlockName)
		if owner == "" || name == "" {
			agg.report(logger, Issue{
				Kind:    IssueMissingField,
				Program: owner,
				Detail:  fmt.Sprintf("block record missing owner or block name (owner=%q block=%q)", owner, name),
			})
			continue
		}
		if strings.Contains(owner, Separator) {
			agg.report(logger, Issue{
				Kind:    IssueStructural,
				Program: owner,
				Detail:  fmt.Sprintf("program id %q contains the reserved separator %q; record skipped", owner, Separator),
			})
			continue
		}

		unit, exists := agg.Programs[owner]
		if !exists {
			unit = &ProgramUnit{ID: owner, Blocks: make(map[string]ingest.BlockRecord)}
			agg.Programs[owner] = unit
			agg.Order = append(agg.Order, owner)
		}
		if _, dup := unit.Blocks[name]; dup {
			agg.report(logger, Issue{
				Kind:    IssueStructural,
				Program: owner,
				Detail:  fmt.Sprintf("duplicate block %q; keeping the later record", name),
			})
		} else {
			unit.BlockOrder = append(unit.BlockOrder, name)
		}
		unit.Blocks[name] = rec

		// Structural metadata is opportunistic: first record to supply a
		// section wins.
		if unit.Identification == nil && len(rec.Identification) > 0 {
			unit.Identification = rec.Identification
		}
		if unit.Environment == nil && len(rec.Environment) > 0 {
			unit.Environment = rec.Environment
		}
		if unit.Data == nil && len(rec.Data) > 0 {
			unit.Data = rec.Data
		}
		if len(unit.Using) == 0 && len(rec.Using) > 0 {
			unit.Using = append([]string(nil), rec.Using...)
		}
	}

	for _, id := range agg.Order {
		finalizeUnit(agg.Programs[id])
	}
	logger.Info("graph: aggregation complete", "programs", len(agg.Order), "issues", len(agg.Issues))
	return agg
}

func (a *Aggregation) report(logger *slog.Logger, issue Issue) {
	a.Issues = append(a.Issues, issue)
	logger.Warn("graph: "+issue.Detail, "kind", string(issue.Kind), "program", issue.Program)
}

// finalizeUnit derives the call set and code concatenations once every block
// record for the program has landed.
func finalizeUnit(unit *ProgramUnit) {
	seen := make(map[string]struct{})
	for _, name := range unit.BlockOrder {
		for _, callee := range unit.Blocks[name].CalledUnits {
			trimmed := strings.TrimSpace(callee)
			if trimmed == "" {
				continue
			}
			if _, ok := seen[trimmed]; ok {
				continue
			}
			seen[trimmed] = struct{}{}
			unit.Calls = append(unit.Calls, trimmed)
		}
	}

	sorted := sortedBlockNames(unit)
	var withComments, withoutComments strings.Builder
	for _, name := range sorted {
		rec := unit.Blocks[name]
		fmt.Fprintf(&withComments, "\n\n--- BLOCK: %s ---\n", name)
		withComments.WriteString(rec.CodeWithComments)
		withoutComments.WriteString("\n")
		withoutComments.WriteString(rec.CodeWithoutComments)
	}
	unit.CodeWithComments = strings.TrimSpace(withComments.String())
	unit.CodeWithoutComments = strings.TrimSpace(withoutComments.String())
}

// sortedBlockNames orders blocks by their numeric position hint ascending,
// blocks without a hint last, ties broken by name.
func sortedBlockNames(unit *ProgramUnit) []string {
	names := append([]string(nil), unit.BlockOrder...)
	position := func(name string) float64 {
		if order := unit.Blocks[name].Order; order != nil {
			return *order
		}
		return math.Inf(1)
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, pj := position(names[i]), position(names[j])
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}
