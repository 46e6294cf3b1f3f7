package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avasilev/inboxzero/internal/engine"
)

type reasoner interface {
	Run(ctx context.Context, req engine.Request) ([]engine.Event, error)
}

// Options tune orchestrator policy.
type Options struct {
	// FollowUpDraft permits a reply draft in addition to the reminder for
	// FOLLOW_UP emails. This is the only classification allowed more than
	// one tool call.
	FollowUpDraft bool
}

// NewOrchestrator wires the reasoning engine to the action toolbox.
func NewOrchestrator(eng reasoner, tools *Toolbox, opts Options) *Orchestrator {
	return &Orchestrator{
		engine: eng,
		tools:  tools,
		opts:   opts,
	}
}

// Orchestrator is the deterministic wrapper around the non-deterministic
// reasoning engine: it fixes the tool surface, pins the email ID the engine
// may act on, executes tool calls strictly sequentially, and guarantees
// exactly one final report per processing cycle.
type Orchestrator struct {
	engine reasoner
	tools  *Toolbox
	opts   Options
}

// Process runs one email through the classify-then-act cycle. Tool-level
// failures never abort the cycle; they are recorded in the outcome steps and
// fed back to the engine so the report reflects what actually happened. Only
// an engine-level failure returns an error, in which case no tool call result
// should be assumed by the caller.
func (o *Orchestrator) Process(ctx context.Context, msg EmailMessage) (*Outcome, error) {
	if msg.ID == "" {
		return nil, fmt.Errorf("email message has no ID")
	}

	var steps []Step

	execute := func(ctx context.Context, name string, args json.RawMessage) string {
		inv, res := o.dispatch(ctx, msg.ID, name, args)
		steps = append(steps, Step{Invocation: inv, Result: res})

		payload, err := json.Marshal(res)
		if err != nil {
			return fmt.Sprintf(`{"status":"error","message":"result encoding failed: %v"}`, err)
		}

		return string(payload)
	}

	events, err := o.engine.Run(ctx, engine.Request{
		Instructions: Instructions(o.opts.FollowUpDraft),
		Prompt:       BuildPrompt(msg),
		Tools:        o.tools.Specs(),
		Execute:      execute,
	})
	if err != nil {
		return nil, fmt.Errorf("engine.Run failed: %w", err)
	}

	report := ExtractReport(textFragments(events))
	if report == "" {
		report = FallbackReport
	}

	return &Outcome{Steps: steps, FinalReport: report}, nil
}

// dispatch enforces the single source of truth for the email ID: archive and
// delete calls naming a different message than the one being processed are
// rejected without executing anything.
func (o *Orchestrator) dispatch(ctx context.Context, emailID, name string, args json.RawMessage) (ToolInvocation, ToolResult) {
	if name == ToolArchiveEmail || name == ToolDeleteEmail {
		var a emailIDArgs
		if err := json.Unmarshal(args, &a); err == nil && a.EmailID != "" && a.EmailID != emailID {
			inv := ToolInvocation{Name: name, Arguments: decodeArguments(args)}
			return inv, ToolResult{
				Status:  StatusError,
				Message: fmt.Sprintf("Refusing to act on %s: it is not the email being processed.", a.EmailID),
			}
		}
	}

	return o.tools.Dispatch(ctx, name, args)
}

func textFragments(events []engine.Event) []string {
	var fragments []string
	for _, ev := range events {
		if ev.Kind == engine.EventText {
			fragments = append(fragments, ev.Text)
		}
	}

	return fragments
}
