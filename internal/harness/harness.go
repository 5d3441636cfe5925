package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/ordinal/internal/engine"
	"github.com/roach88/ordinal/internal/store"
)

// DefaultCollection is used when a scenario names no collection.
const DefaultCollection = "default"

// Harness replays one scenario's steps against a fresh engine.
type Harness struct {
	store      *store.Store
	engine     *engine.Engine
	collection string
	logger     *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation. Key
// computation is deterministic, so repeated runs produce identical traces.
//
// Execution flow:
//  1. Create fresh in-memory store and engine (scenario ceiling applied)
//  2. Execute steps in order, tracing each outcome
//  3. Read the final order
//  4. Evaluate assertions against trace and final state
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	var opts []engine.Option
	if scenario.Ceiling > 0 {
		opts = append(opts, engine.WithCeiling(scenario.Ceiling))
	}
	eng, err := engine.New(st, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	collection := scenario.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	h := &Harness{
		store:      st,
		engine:     eng,
		collection: collection,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, err
		}
	}

	if err := h.captureFinalOrder(ctx, result); err != nil {
		return nil, err
	}

	for _, errMsg := range EvaluateAssertions(result, scenario) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep runs one step and traces its outcome. An error is fatal
// unless the step declared expect_error.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	ev, err := h.invoke(ctx, step)

	switch {
	case err != nil && step.ExpectError == "":
		return fmt.Errorf("step %d (%s %s): %w", index, ev.Op, ev.Item, err)

	case err != nil:
		ev.Err = err.Error()
		if !strings.Contains(err.Error(), step.ExpectError) {
			result.AddError(fmt.Sprintf(
				"step %d: expected error containing %q, got %q", index, step.ExpectError, err.Error()))
		}

	case step.ExpectError != "":
		result.AddError(fmt.Sprintf(
			"step %d: expected error containing %q, but the step succeeded", index, step.ExpectError))
	}

	result.AddEvent(ev)

	h.logger.Info("step completed",
		"step", index,
		"op", ev.Op,
		"item", ev.Item,
		"key", ev.Key,
		"err", ev.Err,
	)
	return nil
}

// invoke dispatches the step to the engine and builds its trace event.
func (h *Harness) invoke(ctx context.Context, step Step) (TraceEvent, error) {
	switch {
	case step.Append != "":
		ev := TraceEvent{Op: "append", Item: step.Append}
		res, err := h.engine.AppendAtEnd(ctx, h.collection, step.Append)
		if err != nil {
			return ev, err
		}
		ev.Key = res.Key.String()
		ev.Renormalized = res.Renormalized
		return ev, nil

	case step.Place != "":
		anchor, before := step.After, false
		if step.Before != "" {
			anchor, before = step.Before, true
		} else if anchor == "" {
			before = step.Prepend
		}
		ev := TraceEvent{Op: "place", Item: step.Place, Anchor: anchor, Before: before}
		res, err := h.engine.Place(ctx, h.collection, step.Place, anchor, before)
		if err != nil {
			return ev, err
		}
		ev.NoOp = res.NoOp
		ev.Renormalized = res.Renormalized
		if !res.NoOp {
			ev.Key = res.Key.String()
		}
		return ev, nil

	default:
		ev := TraceEvent{Op: "renormalize"}
		if err := h.engine.Renormalize(ctx, h.collection); err != nil {
			return ev, err
		}
		ev.Renormalized = true
		return ev, nil
	}
}

// captureFinalOrder records the collection's items ascending by key.
func (h *Harness) captureFinalOrder(ctx context.Context, result *Result) error {
	entries, err := h.store.ReadAllOrdered(ctx, h.collection)
	if err != nil {
		return fmt.Errorf("failed to read final order: %w", err)
	}
	result.finalEntries = entries
	result.FinalOrder = make([]string, len(entries))
	for i, en := range entries {
		result.FinalOrder[i] = fmt.Sprintf("%s=%s", en.ItemID, en.Key)
	}
	return nil
}
