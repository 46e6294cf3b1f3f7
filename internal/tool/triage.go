package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avasilev/inboxzero/internal/triage"
)

// TriageMessageRequest names the message to triage.
type TriageMessageRequest struct {
	MessageID string `json:"message_id" jsonschema:"ID of the message to triage"`
	Subject   string `json:"subject,omitempty" jsonschema:"subject, fetched when omitted"`
	Sender    string `json:"sender,omitempty" jsonschema:"sender, fetched when omitted"`
}

// TriageStep reports one executed tool call.
type TriageStep struct {
	Tool    string `json:"tool" jsonschema:"tool name"`
	Status  string `json:"status" jsonschema:"success or error"`
	Message string `json:"message" jsonschema:"human-readable result"`
}

// TriageMessageResponse is the outcome of one triage cycle.
type TriageMessageResponse struct {
	Steps       []TriageStep `json:"steps,omitempty" jsonschema:"executed tool calls in order"`
	FinalReport string       `json:"final_report" jsonschema:"single terminal report"`
}

type triageSvc interface {
	Process(ctx context.Context, msg triage.EmailMessage) (*triage.Outcome, error)
}

// NewTriage creates the one-shot triage tool.
func NewTriage(svc inboxSvc, orch triageSvc) *Triage {
	return &Triage{svc: svc, orch: orch}
}

// Triage runs the full classify-then-act cycle for one message.
type Triage struct {
	svc  inboxSvc
	orch triageSvc
}

// TriageMessage fetches the message body and processes it through the
// orchestrator.
func (t *Triage) TriageMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TriageMessageRequest,
) (*mcp.CallToolResult, TriageMessageResponse, error) {
	if input.MessageID == "" {
		return nil, TriageMessageResponse{}, fmt.Errorf("message_id is required")
	}

	if input.Subject == "" && input.Sender == "" {
		header, err := t.svc.GetHeader(ctx, input.MessageID)
		if err != nil {
			return nil, TriageMessageResponse{}, fmt.Errorf("svc.GetHeader failed: %w", err)
		}
		input.Subject = header.Subject
		input.Sender = header.Sender
	}

	body := t.svc.GetBody(ctx, input.MessageID)

	outcome, err := t.orch.Process(ctx, triage.EmailMessage{
		ID:      input.MessageID,
		Subject: input.Subject,
		Sender:  input.Sender,
		Body:    body,
	})
	if err != nil {
		return nil, TriageMessageResponse{}, fmt.Errorf("orch.Process failed: %w", err)
	}

	steps := make([]TriageStep, 0, len(outcome.Steps))
	for _, s := range outcome.Steps {
		steps = append(steps, TriageStep{
			Tool:    s.Invocation.Name,
			Status:  string(s.Result.Status),
			Message: s.Result.Message,
		})
	}

	return nil, TriageMessageResponse{
		Steps:       steps,
		FinalReport: outcome.FinalReport,
	}, nil
}
