package harness

import "github.com/roach88/ordinal/internal/engine"

// TraceEvent records one executed step and its observable outcome.
// Keys are serialized as "P/Q" strings so traces diff cleanly.
type TraceEvent struct {
	Op           string `json:"op"` // "append", "place" or "renormalize"
	Item         string `json:"item,omitempty"`
	Anchor       string `json:"anchor,omitempty"`
	Before       bool   `json:"before,omitempty"`
	Key          string `json:"key,omitempty"`
	NoOp         bool   `json:"no_op,omitempty"`
	Renormalized bool   `json:"renormalized,omitempty"`
	Err          string `json:"err,omitempty"`
	Seq          int    `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// FinalOrder is the collection's items ascending by key after the last
	// step, as "item=P/Q" strings.
	FinalOrder []string `json:"final_order"`

	// finalEntries holds the same state with parsed keys for assertions.
	finalEntries []engine.Entry
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends a trace event, stamping its sequence number.
func (r *Result) AddEvent(ev TraceEvent) {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
}
