// File path: internal/graph/types.go
package graph

import "encoding/json"

// NodeKind discriminates the node variants stored in a Graph.
type NodeKind string

const (
	KindJob     NodeKind = "job"
	KindStep    NodeKind = "step"
	KindProgram NodeKind = "program"
	KindBlock   NodeKind = "block"
)

// EdgeType tags a directed edge. PERFORM and GOTO occur only in inner
// graphs; CALL and EXECUTES only in the outer graph.
type EdgeType string

const (
	EdgePerform  EdgeType = "PERFORM"
	EdgeGoto     EdgeType = "GOTO"
	EdgeCall     EdgeType = "CALL"
	EdgeExecutes EdgeType = "EXECUTES"
)

const (
	// Separator joins composite node ids. Program ids must not contain it,
	// otherwise a program id could collide with a block id.
	Separator = ":"
	// EntryBlock names the block treated as a program's entry point.
	EntryBlock = "ENTRY"
	// inlineSentinel marks an anonymous inline perform target emitted by the
	// parsers; it never materializes as an edge.
	inlineSentinel = "INLINE"
)

// Node is the capability surface shared by all node variants: identity and
// kind. Traversal code treats nodes uniformly through it; everything else
// type-switches on the concrete variants.
type Node interface {
	ID() string
	Kind() NodeKind
}

// ProgramNode describes a program in the outer graph. Placeholder programs
// were referenced as a call or execution target but never aggregated from
// block records.
type ProgramNode struct {
	Program             string          `json:"program"`
	Identification      json.RawMessage `json:"identificationSection,omitempty"`
	Environment         json.RawMessage `json:"environmentSection,omitempty"`
	Data                json.RawMessage `json:"dataSection,omitempty"`
	Using               []string        `json:"using,omitempty"`
	CodeWithComments    string          `json:"codeWithComments,omitempty"`
	CodeWithoutComments string          `json:"codeWithoutComments,omitempty"`
	HasInnerGraph       bool            `json:"hasInnerGraph"`
	Placeholder         bool            `json:"isPlaceholder,omitempty"`
}

func (n *ProgramNode) ID() string     { return n.Program }
func (n *ProgramNode) Kind() NodeKind { return KindProgram }

// JobNode describes a batch job. Job-to-step containment is not modeled as
// an edge; steps carry their job name instead.
type JobNode struct {
	Job string `json:"jobName"`
}

func (n *JobNode) ID() string     { return n.Job }
func (n *JobNode) Kind() NodeKind { return KindJob }

// StepNode describes one executable stage of a job.
type StepNode struct {
	Job                 string   `json:"jobName"`
	Step                string   `json:"stepName"`
	Number              int      `json:"stepNumber,omitempty"`
	Datasets            []string `json:"datasets,omitempty"`
	CodeWithComments    string   `json:"codeWithComments,omitempty"`
	CodeWithoutComments string   `json:"codeWithoutComments,omitempty"`
}

func (n *StepNode) ID() string     { return n.Job + Separator + n.Step }
func (n *StepNode) Kind() NodeKind { return KindStep }

// BlockNode describes one block inside a program's inner graph.
type BlockNode struct {
	Program             string `json:"program"`
	Name                string `json:"name"`
	CodeWithComments    string `json:"codeWithComments,omitempty"`
	CodeWithoutComments string `json:"codeWithoutComments,omitempty"`
}

func (n *BlockNode) ID() string     { return n.Program + Separator + n.Name }
func (n *BlockNode) Kind() NodeKind { return KindBlock }

// IssueKind classifies non-fatal build degradations.
type IssueKind string

const (
	IssueMissingField  IssueKind = "missing_required_field"
	IssueStructural    IssueKind = "structural_ambiguity"
	IssueUnresolvedRef IssueKind = "unresolved_reference"
)

// Issue records one skipped or degraded element of a build. Issues are
// reported, never raised: the build always completes with a best-effort
// graph.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Program string    `json:"program,omitempty"`
	Detail  string    `json:"detail"`
}
