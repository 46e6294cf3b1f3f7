package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avasilev/inboxzero/internal/engine"
)

// Tool identifiers form the closed tool surface of the orchestrator.
const (
	ToolDraftEmail     = "draft_email"
	ToolArchiveEmail   = "archive_email_by_id"
	ToolDeleteEmail    = "delete_email_by_id"
	ToolCreateReminder = "create_reminder"
)

type mailbox interface {
	CreateDraft(ctx context.Context, recipient, subject, body string) (string, error)
	Archive(ctx context.Context, emailID string) error
	Trash(ctx context.Context, emailID string) error
}

type reminderSink interface {
	Create(ctx context.Context, task, date string) error
}

// NewToolbox creates the action tool set backed by the given mailbox and
// reminder sink.
func NewToolbox(mb mailbox, rem reminderSink) *Toolbox {
	return &Toolbox{mailbox: mb, reminders: rem}
}

// Toolbox holds the four side-effecting tools. Every tool takes explicit
// primitive arguments and returns a ToolResult; underlying faults are mapped
// into the result, never raised past the tool boundary.
type Toolbox struct {
	mailbox   mailbox
	reminders reminderSink
}

// DraftEmail creates a reply draft in the account. It does not send and does
// not mutate the original message.
func (t *Toolbox) DraftEmail(ctx context.Context, recipient, subject, body string) ToolResult {
	if recipient == "" {
		return ToolResult{Status: StatusError, Message: "Recipient not provided for drafting."}
	}

	draftID, err := t.mailbox.CreateDraft(ctx, recipient, subject, body)
	if err != nil {
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("Draft creation failed: %v", err)}
	}

	return ToolResult{Status: StatusSuccess, Message: fmt.Sprintf("Draft created with ID %s.", draftID)}
}

// ArchiveEmailByID removes the message from the active inbox view without
// deleting it.
func (t *Toolbox) ArchiveEmailByID(ctx context.Context, emailID string) ToolResult {
	if emailID == "" {
		return ToolResult{Status: StatusError, Message: "Email ID not provided for archiving."}
	}

	if err := t.mailbox.Archive(ctx, emailID); err != nil {
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("Archiving %s failed: %v", emailID, err)}
	}

	return ToolResult{Status: StatusSuccess, Message: fmt.Sprintf("Email %s has been archived.", emailID)}
}

// DeleteEmailByID moves the message to trash, a recoverable state.
func (t *Toolbox) DeleteEmailByID(ctx context.Context, emailID string) ToolResult {
	if emailID == "" {
		return ToolResult{Status: StatusError, Message: "Email ID not provided for deleting."}
	}

	if err := t.mailbox.Trash(ctx, emailID); err != nil {
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("Deleting %s failed: %v", emailID, err)}
	}

	return ToolResult{Status: StatusSuccess, Message: fmt.Sprintf("Email %s moved to trash.", emailID)}
}

// CreateReminder records a reminder through the configured sink.
func (t *Toolbox) CreateReminder(ctx context.Context, task, date string) ToolResult {
	if err := t.reminders.Create(ctx, task, date); err != nil {
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("Reminder creation failed: %v", err)}
	}

	return ToolResult{Status: StatusSuccess, Message: fmt.Sprintf("Reminder set: %s on %s.", task, date)}
}

type draftArgs struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type emailIDArgs struct {
	EmailID string `json:"email_id"`
}

type reminderArgs struct {
	Task string `json:"task"`
	Date string `json:"date"`
}

// Dispatch routes a named tool call with raw JSON arguments to the matching
// tool. Unknown names and malformed arguments become error results; nothing
// is executed for them.
func (t *Toolbox) Dispatch(ctx context.Context, name string, args json.RawMessage) (ToolInvocation, ToolResult) {
	inv := ToolInvocation{Name: name, Arguments: decodeArguments(args)}

	switch name {
	case ToolDraftEmail:
		var a draftArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return inv, malformedArgs(name, err)
		}
		return inv, t.DraftEmail(ctx, a.Recipient, a.Subject, a.Body)
	case ToolArchiveEmail:
		var a emailIDArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return inv, malformedArgs(name, err)
		}
		return inv, t.ArchiveEmailByID(ctx, a.EmailID)
	case ToolDeleteEmail:
		var a emailIDArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return inv, malformedArgs(name, err)
		}
		return inv, t.DeleteEmailByID(ctx, a.EmailID)
	case ToolCreateReminder:
		var a reminderArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return inv, malformedArgs(name, err)
		}
		return inv, t.CreateReminder(ctx, a.Task, a.Date)
	default:
		return inv, ToolResult{Status: StatusError, Message: fmt.Sprintf("Unknown tool %q.", name)}
	}
}

// Specs describes the tool surface for the reasoning engine.
func (t *Toolbox) Specs() []engine.ToolSpec {
	return []engine.ToolSpec{
		{
			Name:        ToolDraftEmail,
			Description: "Create a reply draft in the mailbox. The draft is not sent.",
			Parameters: objectSchema(map[string]any{
				"recipient": stringProp("email address of the recipient"),
				"subject":   stringProp("subject line of the draft"),
				"body":      stringProp("plain-text body of the draft"),
			}, "recipient", "subject", "body"),
		},
		{
			Name:        ToolArchiveEmail,
			Description: "Archive an email by removing it from the inbox. The email is not deleted.",
			Parameters: objectSchema(map[string]any{
				"email_id": stringProp("ID of the email to archive"),
			}, "email_id"),
		},
		{
			Name:        ToolDeleteEmail,
			Description: "Move an email to trash. Trash is recoverable.",
			Parameters: objectSchema(map[string]any{
				"email_id": stringProp("ID of the email to delete"),
			}, "email_id"),
		},
		{
			Name:        ToolCreateReminder,
			Description: "Create a reminder for a future follow-up.",
			Parameters: objectSchema(map[string]any{
				"task": stringProp("short description of the task"),
				"date": stringProp("when the reminder is due, e.g. 2026-09-01"),
			}, "task", "date"),
		},
	}
}

func malformedArgs(name string, err error) ToolResult {
	return ToolResult{Status: StatusError, Message: fmt.Sprintf("Malformed arguments for %s: %v", name, err)}
}

func decodeArguments(args json.RawMessage) map[string]any {
	if len(args) == 0 {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(args, &m); err != nil {
		return map[string]any{"_raw": string(args)}
	}

	return m
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
