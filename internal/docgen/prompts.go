// File path: internal/docgen/prompts.go
package docgen

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
)

const systemPrompt = "You are a senior modernization analyst documenting a legacy batch estate. " +
	"Write concise technical documentation in Markdown. Describe purpose, inputs, outputs and " +
	"control flow. Do not invent behavior that is not present in the provided material."

func programPrompt(n *graph.ProgramNode, blockDocs []string, callees []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document the program %s.\n", n.Program)
	if len(n.Using) > 0 {
		fmt.Fprintf(&b, "Parameters received: %s.\n", strings.Join(n.Using, ", "))
	}
	if len(callees) > 0 {
		fmt.Fprintf(&b, "It calls: %s.\n", strings.Join(callees, ", "))
	}
	if len(n.Identification) > 0 {
		fmt.Fprintf(&b, "Identification metadata: %s\n", string(n.Identification))
	}
	if len(n.Data) > 0 {
		fmt.Fprintf(&b, "Data definitions: %s\n", string(n.Data))
	}
	if len(blockDocs) > 0 {
		b.WriteString("Summaries of its blocks in execution order:\n")
		for _, doc := range blockDocs {
			fmt.Fprintf(&b, "- %s\n", doc)
		}
	}
	if code := strings.TrimSpace(n.CodeWithoutComments); code != "" {
		fmt.Fprintf(&b, "Source:\n```\n%s\n```\n", code)
	}
	return b.String()
}

func placeholderPrompt(n *graph.ProgramNode, callers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The unit %s is referenced but its source was not provided.\n", n.Program)
	if len(callers) > 0 {
		fmt.Fprintf(&b, "It is invoked by: %s.\n", strings.Join(callers, ", "))
	}
	b.WriteString("Write a short stub document stating what is known from its usage " +
		"and that the implementation is external to this inventory.\n")
	return b.String()
}

func stepPrompt(n *graph.StepNode, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document step %s of job %s.\n", n.Step, n.Job)
	if n.Number > 0 {
		fmt.Fprintf(&b, "It is step number %d.\n", n.Number)
	}
	if target != "" {
		fmt.Fprintf(&b, "It executes the program %s.\n", target)
	}
	if len(n.Datasets) > 0 {
		fmt.Fprintf(&b, "Datasets referenced: %s.\n", strings.Join(n.Datasets, ", "))
	}
	if code := strings.TrimSpace(n.CodeWithoutComments); code != "" {
		fmt.Fprintf(&b, "Step definition:\n```\n%s\n```\n", code)
	}
	return b.String()
}

func blockPrompt(n *graph.BlockNode, successors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document the block %s of program %s.\n", n.Name, n.Program)
	if len(successors) > 0 {
		fmt.Fprintf(&b, "Control flows from it to: %s.\n", strings.Join(successors, ", "))
	}
	if code := strings.TrimSpace(n.CodeWithoutComments); code != "" {
		fmt.Fprintf(&b, "Source:\n```\n%s\n```\n", code)
	}
	return b.String()
}

func jobPrompt(n *graph.JobNode, steps []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document the batch job %s.\n", n.Job)
	if len(steps) > 0 {
		fmt.Fprintf(&b, "Its steps in definition order: %s.\n", strings.Join(steps, ", "))
	}
	b.WriteString("Summarize what the job accomplishes end to end.\n")
	return b.String()
}
