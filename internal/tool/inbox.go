package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avasilev/inboxzero/internal/gservice"
)

// EmailAddress represents an email address with optional display name.
type EmailAddress struct {
	Name  string `json:"name,omitempty" jsonschema:"the display name"`
	Email string `json:"email" jsonschema:"the email address"`
}

// MessageSummary identifies one unread message.
type MessageSummary struct {
	ID      string       `json:"id" jsonschema:"message ID"`
	Subject string       `json:"subject" jsonschema:"email subject"`
	Sender  EmailAddress `json:"sender" jsonschema:"sender information"`
}

// ListUnreadRequest bounds the unread listing.
type ListUnreadRequest struct {
	MaxResults int64 `json:"max_results,omitempty" jsonschema:"max messages to return"`
}

// ListUnreadResponse contains unread message summaries.
type ListUnreadResponse struct {
	Messages []MessageSummary `json:"messages" jsonschema:"array of unread message summaries"`
}

// GetMessageBodyRequest names the message to fetch.
type GetMessageBodyRequest struct {
	MessageID string `json:"message_id" jsonschema:"ID of the message"`
}

// GetMessageBodyResponse carries the decoded body text.
type GetMessageBodyResponse struct {
	Body string `json:"body" jsonschema:"decoded plain-text body"`
}

type inboxSvc interface {
	ListUnread(ctx context.Context, maxResults int64) ([]gservice.MessageHeader, error)
	GetHeader(ctx context.Context, msgID string) (gservice.MessageHeader, error)
	GetBody(ctx context.Context, msgID string) string
}

// NewInbox creates the inbox inspection tools.
func NewInbox(svc inboxSvc) *Inbox {
	return &Inbox{svc: svc}
}

// Inbox lists unread messages and fetches bodies.
type Inbox struct {
	svc inboxSvc
}

// ListUnread returns summaries for the newest unread messages.
func (t *Inbox) ListUnread(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListUnreadRequest,
) (*mcp.CallToolResult, ListUnreadResponse, error) {
	headers, err := t.svc.ListUnread(ctx, normalizeMaxResults(input.MaxResults))
	if err != nil {
		return nil, ListUnreadResponse{}, fmt.Errorf("svc.ListUnread failed: %w", err)
	}

	messages := make([]MessageSummary, 0, len(headers))
	for _, h := range headers {
		messages = append(messages, MessageSummary{
			ID:      h.ID,
			Subject: h.Subject,
			Sender:  parseEmailAddress(h.Sender),
		})
	}

	return nil, ListUnreadResponse{Messages: messages}, nil
}

// GetMessageBody returns the decoded body of one message. Fetch failures are
// folded into the body text by the gateway, so this cannot fail below the
// transport.
func (t *Inbox) GetMessageBody(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetMessageBodyRequest,
) (*mcp.CallToolResult, GetMessageBodyResponse, error) {
	if input.MessageID == "" {
		return nil, GetMessageBodyResponse{}, fmt.Errorf("message_id is required")
	}

	return nil, GetMessageBodyResponse{Body: t.svc.GetBody(ctx, input.MessageID)}, nil
}

func normalizeMaxResults(maxResults int64) int64 {
	if maxResults == 0 {
		return 10
	}
	if maxResults > 50 {
		return 50
	}
	return maxResults
}

func parseEmailAddress(from string) EmailAddress {
	addr := EmailAddress{}

	if idx := strings.Index(from, "<"); idx != -1 {
		addr.Name = strings.TrimSpace(from[:idx])
		if endIdx := strings.Index(from[idx:], ">"); endIdx != -1 {
			addr.Email = strings.TrimSpace(from[idx+1 : idx+endIdx])
		}
	} else {
		addr.Email = strings.TrimSpace(from)
	}

	addr.Name = strings.Trim(addr.Name, "\"")

	return addr
}
