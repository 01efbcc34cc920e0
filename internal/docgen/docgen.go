// File path: internal/docgen/docgen.go
package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/llms"
	workflow "github.com/tmc/langgraphgo/graph"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
	"github.com/nicodishanthj/Batchlens_phase1/internal/llm"
)

// Direction selects the order in which nodes are documented. Reverse walks
// callees before callers so a caller's document can lean on its callees'
// summaries; forward walks entry points first.
type Direction string

const (
	DirectionReverse Direction = "reverse"
	DirectionForward Direction = "forward"
)

// Result holds the generated documents keyed by node id, in generation
// order.
type Result struct {
	Order     []string
	Documents map[string]string
}

// Generator documents a built model with an LLM provider. When outDir is
// non-empty every document is also written as a Markdown file.
type Generator struct {
	provider llm.Provider
	outDir   string
}

func New(provider llm.Provider, outDir string) *Generator {
	return &Generator{provider: provider, outDir: outDir}
}

// runState carries the working set through the workflow stages. The message
// state of the graph records stage transitions; artifacts live here.
type runState struct {
	model     *graph.Model
	direction Direction
	order     []string
	result    *Result
}

// Run documents every node of the model. Provider failures degrade the
// affected document to an error note; only context cancellation and
// persistence failures abort the run.
func (g *Generator) Run(ctx context.Context, model *graph.Model, direction Direction) (*Result, error) {
	if model == nil || model.Outer == nil {
		return nil, fmt.Errorf("docgen: model required")
	}
	if direction != DirectionForward {
		direction = DirectionReverse
	}
	logger := common.Logger()
	run := &runState{
		model:     model,
		direction: direction,
		result:    &Result{Documents: make(map[string]string)},
	}

	wf := workflow.NewMessageGraph()
	wf.AddNode("plan", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		if run.direction == DirectionForward {
			run.order, _ = graph.OuterOrder(run.model.Outer)
		} else {
			run.order = graph.OuterReverseOrder(run.model.Outer)
		}
		note := fmt.Sprintf("planned %d nodes in %s order", len(run.order), run.direction)
		return append(state, llms.TextParts(llms.ChatMessageTypeSystem, note)), nil
	})
	wf.AddNode("document", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		for _, id := range run.order {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := g.documentNode(ctx, run, id); err != nil {
				return nil, err
			}
		}
		g.documentJobs(ctx, run)
		note := fmt.Sprintf("documented %d nodes", len(run.result.Order))
		return append(state, llms.TextParts(llms.ChatMessageTypeSystem, note)), nil
	})
	wf.AddNode("persist", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		if g.outDir == "" {
			return state, nil
		}
		if err := g.persist(run.result); err != nil {
			return nil, err
		}
		note := fmt.Sprintf("persisted documents to %s", g.outDir)
		return append(state, llms.TextParts(llms.ChatMessageTypeSystem, note)), nil
	})
	wf.AddEdge("plan", "document")
	wf.AddEdge("document", "persist")
	wf.AddEdge("persist", workflow.END)
	wf.SetEntryPoint("plan")

	runnable, err := wf.Compile()
	if err != nil {
		return nil, fmt.Errorf("docgen: compile workflow: %w", err)
	}
	initial := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt)}
	if _, err := runnable.Invoke(ctx, initial); err != nil {
		return nil, fmt.Errorf("docgen: %w", err)
	}
	logger.Info("docgen: run complete", "documents", len(run.result.Documents), "direction", string(run.direction))
	return run.result, nil
}

func (g *Generator) documentNode(ctx context.Context, run *runState, id string) error {
	node, ok := run.model.Outer.Node(id)
	if !ok {
		return nil
	}
	switch n := node.(type) {
	case *graph.ProgramNode:
		if n.Placeholder {
			callers := run.model.Outer.Predecessors(id)
			g.generate(ctx, run, id, node.Kind(), placeholderPrompt(n, callers))
			return nil
		}
		blockDocs, err := g.documentBlocks(ctx, run, n.Program)
		if err != nil {
			return err
		}
		callees := run.model.Outer.Successors(id)
		g.generate(ctx, run, id, node.Kind(), programPrompt(n, blockDocs, callees))
	case *graph.StepNode:
		var target string
		if succ := run.model.Outer.Successors(id); len(succ) > 0 {
			target = succ[0]
		}
		g.generate(ctx, run, id, node.Kind(), stepPrompt(n, target))
	case *graph.JobNode:
		// jobs are documented after their steps, see documentJobs
	}
	return nil
}

// documentBlocks documents each block of the program and returns one-line
// summaries in execution order, regardless of the documentation direction.
func (g *Generator) documentBlocks(ctx context.Context, run *runState, program string) ([]string, error) {
	inner, ok := run.model.Inner[program]
	if !ok {
		return nil, nil
	}
	order, _ := graph.InnerOrder(inner)
	genOrder := order
	if run.direction == DirectionReverse {
		genOrder = graph.InnerReverseOrder(inner)
	}
	for _, blockID := range genOrder {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		node, ok := inner.Node(blockID)
		if !ok {
			continue
		}
		block, ok := node.(*graph.BlockNode)
		if !ok {
			continue
		}
		g.generate(ctx, run, blockID, graph.KindBlock, blockPrompt(block, inner.Successors(blockID)))
	}
	summaries := make([]string, 0, len(order))
	for _, blockID := range order {
		doc, ok := run.result.Documents[blockID]
		if !ok {
			continue
		}
		summaries = append(summaries, fmt.Sprintf("%s: %s", blockID, firstLine(doc)))
	}
	return summaries, nil
}

func (g *Generator) documentJobs(ctx context.Context, run *runState) {
	for _, node := range run.model.Outer.Nodes() {
		job, ok := node.(*graph.JobNode)
		if !ok {
			continue
		}
		var steps []string
		for _, candidate := range run.model.Outer.Nodes() {
			if step, ok := candidate.(*graph.StepNode); ok && step.Job == job.Job {
				steps = append(steps, step.ID())
			}
		}
		g.generate(ctx, run, job.ID(), graph.KindJob, jobPrompt(job, steps))
	}
}

// generate runs one completion and records the document. A provider failure
// is recorded as an error note in place of the document.
func (g *Generator) generate(ctx context.Context, run *runState, id string, kind graph.NodeKind, prompt string) {
	text, err := llm.Chat(ctx, g.provider, systemPrompt, prompt)
	if err != nil {
		common.Logger().Warn("docgen: generation failed", "node", id, "error", err)
		text = fmt.Sprintf("> Documentation unavailable: %v", err)
	}
	run.result.Order = append(run.result.Order, id)
	run.result.Documents[id] = fmt.Sprintf("# %s\n\n_%s_\n\n%s\n", id, kind, text)
}

func (g *Generator) persist(result *Result) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return fmt.Errorf("docgen: create output dir: %w", err)
	}
	for _, id := range result.Order {
		path := filepath.Join(g.outDir, docFileName(id))
		if err := os.WriteFile(path, []byte(result.Documents[id]), 0o644); err != nil {
			return fmt.Errorf("docgen: write %s: %w", path, err)
		}
	}
	return nil
}

// docFileName maps a node id to a filesystem-safe Markdown file name.
func docFileName(id string) string {
	clean := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(id)
	return clean + ".md"
}

func firstLine(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "_") {
			continue
		}
		return line
	}
	return strings.TrimSpace(doc)
}
