// File path: internal/ingest/types.go
package ingest

import "encoding/json"

// BlockRecord is the raw parser output for one named block of a program. One
// record arrives per block; many records may share an owner.
type BlockRecord struct {
	OwnerID             string   `json:"ownerId"`
	BlockName           string   `json:"blockName"`
	Order               *float64 `json:"order,omitempty"`
	CodeWithComments    string   `json:"codeWithComments,omitempty"`
	CodeWithoutComments string   `json:"codeWithoutComments,omitempty"`
	PerformTargets      []string `json:"performTargets,omitempty"`
	GotoTargets         []string `json:"gotoTargets,omitempty"`
	CalledUnits         []string `json:"calledUnits,omitempty"`

	// Structural metadata sections are opaque to the engine and carried
	// through to the outer graph untouched.
	Identification json.RawMessage `json:"identificationSection,omitempty"`
	Environment    json.RawMessage `json:"environmentSection,omitempty"`
	Data           json.RawMessage `json:"dataSection,omitempty"`
	Using          []string        `json:"using,omitempty"`
}

// StepRecord is the raw parser output for one job step. The nested Step
// object mirrors the parser's document shape; a record without it is
// incomplete and skipped downstream.
type StepRecord struct {
	JobName string      `json:"jobName"`
	Step    *StepDetail `json:"step"`
}

// StepDetail carries the executable payload of a job step.
type StepDetail struct {
	StepName            string   `json:"stepName"`
	StepNumber          int      `json:"stepNumber,omitempty"`
	TargetUnitID        string   `json:"targetUnitId"`
	Datasets            []string `json:"datasets,omitempty"`
	CodeWithComments    string   `json:"codeWithComments,omitempty"`
	CodeWithoutComments string   `json:"codeWithoutComments,omitempty"`
}
