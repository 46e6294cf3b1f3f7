// Package engine abstracts the reasoning engine that classifies emails and
// decides which tools to invoke. Implementations translate a single prompt
// into an ordered event sequence of tool calls and text fragments.
package engine

import (
	"context"
	"encoding/json"
)

// EventKind discriminates the two event variants an engine run can emit.
type EventKind int

const (
	// EventText is a free-form message fragment produced by the engine.
	EventText EventKind = iota
	// EventToolCall is a request to invoke a named tool with JSON arguments.
	EventToolCall
)

// Event is one item of an engine run, in production order.
type Event struct {
	Kind EventKind
	Name string
	Args json.RawMessage
	Text string
}

// ExecuteFunc runs a requested tool call and returns its serialized result.
// It must not fail; tool-level faults are encoded in the returned payload.
type ExecuteFunc func(ctx context.Context, name string, args json.RawMessage) string

// ToolSpec describes one tool exposed to the engine.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is a single unit of reasoning work.
type Request struct {
	Instructions string
	Prompt       string
	Tools        []ToolSpec
	Execute      ExecuteFunc
}

// Engine runs one request to completion and returns every emitted event.
// Tool calls are executed through req.Execute as the run progresses.
type Engine interface {
	Run(ctx context.Context, req Request) ([]Event, error)
}
