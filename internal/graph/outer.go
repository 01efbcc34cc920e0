// File path: internal/graph/outer.go
package graph

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
)

// BuildOuter constructs the cross-entity graph: programs with CALL edges,
// then jobs, steps and EXECUTES edges. It consumes the aggregation directly
// and never looks at inner graphs or their elimination results. Callees and
// execution targets that were never aggregated become placeholder program
// nodes; a later real definition upgrades the placeholder in place, keeping
// its insertion position. Step records missing jobName or the step payload
// are skipped and reported.
func BuildOuter(agg *Aggregation, steps []ingest.StepRecord) (*Graph, []Issue) {
	logger := common.Logger()
	g := New()
	var issues []Issue

	report := func(issue Issue) {
		issues = append(issues, issue)
		logger.Warn("graph: "+issue.Detail, "kind", string(issue.Kind))
	}

	for _, id := range agg.Order {
		unit := agg.Programs[id]
		g.AddNode(&ProgramNode{
			Program:             id,
			Identification:      unit.Identification,
			Environment:         unit.Environment,
			Data:                unit.Data,
			Using:               unit.Using,
			CodeWithComments:    unit.CodeWithComments,
			CodeWithoutComments: unit.CodeWithoutComments,
			HasInnerGraph:       len(unit.Blocks) > 0,
		})
		for _, callee := range unit.Calls {
			created := g.EnsureNode(&ProgramNode{Program: callee, Placeholder: true})
			// a forward reference to a later aggregated program is not
			// unresolved; its placeholder is upgraded in place
			if _, known := agg.Programs[callee]; created && !known {
				report(Issue{
					Kind:    IssueUnresolvedRef,
					Program: callee,
					Detail:  fmt.Sprintf("call target %s has no aggregated definition; placeholder created", callee),
				})
			}
			g.AddEdge(id, callee, EdgeCall)
		}
	}

	for _, rec := range steps {
		jobName := strings.TrimSpace(rec.JobName)
		if jobName == "" || rec.Step == nil {
			report(Issue{
				Kind:   IssueMissingField,
				Detail: fmt.Sprintf("step record missing jobName or step payload (job=%q); skipped", jobName),
			})
			continue
		}
		stepName := strings.TrimSpace(rec.Step.StepName)
		if stepName == "" {
			report(Issue{
				Kind:    IssueMissingField,
				Program: jobName,
				Detail:  fmt.Sprintf("step record for job %s missing stepName; skipped", jobName),
			})
			continue
		}

		g.EnsureNode(&JobNode{Job: jobName})
		step := &StepNode{
			Job:                 jobName,
			Step:                stepName,
			Number:              rec.Step.StepNumber,
			Datasets:            rec.Step.Datasets,
			CodeWithComments:    rec.Step.CodeWithComments,
			CodeWithoutComments: rec.Step.CodeWithoutComments,
		}
		g.AddNode(step)

		target := strings.TrimSpace(rec.Step.TargetUnitID)
		if target == "" {
			report(Issue{
				Kind:    IssueMissingField,
				Program: jobName,
				Detail:  fmt.Sprintf("step %s names no target unit; EXECUTES edge skipped", step.ID()),
			})
			continue
		}
		if g.EnsureNode(&ProgramNode{Program: target, Placeholder: true}) {
			report(Issue{
				Kind:    IssueUnresolvedRef,
				Program: target,
				Detail:  fmt.Sprintf("execution target %s has no aggregated definition; placeholder created", target),
			})
		}
		g.AddEdge(step.ID(), target, EdgeExecutes)
	}

	logger.Info("graph: outer graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "issues", len(issues))
	return g, issues
}
