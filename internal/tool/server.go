// Package tool exposes the triage agent over the Model Context Protocol:
// inbox inspection, one-shot triage, and the four action tools.
package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with the triage tool set.
func NewServer(svc inboxSvc, orch triageSvc, actions actionsSvc) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "inboxzero", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_unread",
		Description: "List unread messages in the inbox",
	}, NewInbox(svc).ListUnread)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_message_body",
		Description: "Get the decoded plain-text body of a message",
	}, NewInbox(svc).GetMessageBody)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "triage_message",
		Description: "Classify one email and execute the matching inbox action",
	}, NewTriage(svc, orch).TriageMessage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_email",
		Description: "Create a reply draft without sending it",
	}, NewActions(actions).DraftEmail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "archive_email_by_id",
		Description: "Archive a message by removing it from the inbox",
	}, NewActions(actions).ArchiveEmailByID)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_email_by_id",
		Description: "Move a message to the recoverable trash",
	}, NewActions(actions).DeleteEmailByID)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_reminder",
		Description: "Create a follow-up reminder",
	}, NewActions(actions).CreateReminder)

	return server
}
