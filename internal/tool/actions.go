package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avasilev/inboxzero/internal/triage"
)

// ActionResponse mirrors the triage tool contract: status plus message,
// never a transport-level failure for tool-level faults.
type ActionResponse struct {
	Status  string `json:"status" jsonschema:"success or error"`
	Message string `json:"message" jsonschema:"human-readable result"`
}

// DraftEmailRequest carries the draft fields.
type DraftEmailRequest struct {
	Recipient string `json:"recipient" jsonschema:"recipient email address"`
	Subject   string `json:"subject" jsonschema:"draft subject line"`
	Body      string `json:"body" jsonschema:"plain-text draft body"`
}

// EmailIDRequest names the target message.
type EmailIDRequest struct {
	EmailID string `json:"email_id" jsonschema:"ID of the target email"`
}

// CreateReminderRequest carries the reminder fields.
type CreateReminderRequest struct {
	Task string `json:"task" jsonschema:"short description of the task"`
	Date string `json:"date" jsonschema:"when the reminder is due"`
}

type actionsSvc interface {
	DraftEmail(ctx context.Context, recipient, subject, body string) triage.ToolResult
	ArchiveEmailByID(ctx context.Context, emailID string) triage.ToolResult
	DeleteEmailByID(ctx context.Context, emailID string) triage.ToolResult
	CreateReminder(ctx context.Context, task, date string) triage.ToolResult
}

// NewActions creates the MCP surface over the action toolbox.
func NewActions(svc actionsSvc) *Actions {
	return &Actions{svc: svc}
}

// Actions exposes the four side-effecting tools individually.
type Actions struct {
	svc actionsSvc
}

// DraftEmail creates a reply draft.
func (t *Actions) DraftEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DraftEmailRequest,
) (*mcp.CallToolResult, ActionResponse, error) {
	return nil, toActionResponse(t.svc.DraftEmail(ctx, input.Recipient, input.Subject, input.Body)), nil
}

// ArchiveEmailByID removes the message from the inbox view.
func (t *Actions) ArchiveEmailByID(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EmailIDRequest,
) (*mcp.CallToolResult, ActionResponse, error) {
	return nil, toActionResponse(t.svc.ArchiveEmailByID(ctx, input.EmailID)), nil
}

// DeleteEmailByID moves the message to trash.
func (t *Actions) DeleteEmailByID(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EmailIDRequest,
) (*mcp.CallToolResult, ActionResponse, error) {
	return nil, toActionResponse(t.svc.DeleteEmailByID(ctx, input.EmailID)), nil
}

// CreateReminder records a follow-up reminder.
func (t *Actions) CreateReminder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateReminderRequest,
) (*mcp.CallToolResult, ActionResponse, error) {
	return nil, toActionResponse(t.svc.CreateReminder(ctx, input.Task, input.Date)), nil
}

func toActionResponse(res triage.ToolResult) ActionResponse {
	return ActionResponse{Status: string(res.Status), Message: res.Message}
}
