// Package gservice is the Gmail-backed mailbox gateway: it lists unread
// messages, fetches decoded bodies, and performs the three mutations the
// triage tools need (draft, archive, trash).
package gservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/avasilev/inboxzero/internal/auth"
)

const gmailUserID = "me"

const (
	labelInbox  = "INBOX"
	labelUnread = "UNREAD"
	labelTrash  = "TRASH"
)

// MessageHeader identifies one inbox message in list output. Sender is the
// raw From header and may embed an address.
type MessageHeader struct {
	ID      string
	Subject string
	Sender  string
}

type htmlConverter interface {
	HTML2Text(raw []byte) (string, error)
}

// NewGmail creates the gateway. The converter renders text/html bodies when
// no text/plain part exists.
func NewGmail(cfg *oauth2.Config, tok *auth.Token, conv htmlConverter) *GMail {
	return &GMail{
		cfg:  cfg,
		tok:  tok,
		conv: conv,
	}
}

// GMail talks to the Gmail API on behalf of a single authenticated user.
type GMail struct {
	cfg  *oauth2.Config
	tok  *auth.Token
	conv htmlConverter
}

// ListUnread returns headers for the newest unread inbox messages, at most
// maxResults of them.
func (m *GMail) ListUnread(ctx context.Context, maxResults int64) ([]MessageHeader, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	result, err := svc.Users.Messages.List(gmailUserID).
		LabelIds(labelInbox, labelUnread).
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	headers := make([]MessageHeader, 0, len(result.Messages))

	for _, msg := range result.Messages {
		meta, err := svc.Users.Messages.Get(gmailUserID, msg.Id).
			Format("METADATA").
			MetadataHeaders("From", "Subject").
			Do()
		if err != nil {
			return nil, fmt.Errorf("messages.Get %s failed: %w", msg.Id, err)
		}

		headers = append(headers, headerFromMessage(meta))
	}

	return headers, nil
}

// GetHeader fetches the subject and sender of a single message.
func (m *GMail) GetHeader(ctx context.Context, msgID string) (MessageHeader, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return MessageHeader{}, fmt.Errorf("newSvc failed: %w", err)
	}

	meta, err := svc.Users.Messages.Get(gmailUserID, msgID).
		Format("METADATA").
		MetadataHeaders("From", "Subject").
		Do()
	if err != nil {
		return MessageHeader{}, fmt.Errorf("messages.Get %s failed: %w", msgID, err)
	}

	return headerFromMessage(meta), nil
}

// GetBody fetches the decoded plain-text body of a message. It never fails:
// the returned text is fed directly into the reasoning prompt, so errors are
// rendered as descriptive placeholders instead.
func (m *GMail) GetBody(ctx context.Context, msgID string) string {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return fmt.Sprintf("Error reading email body: %v", err)
	}

	msg, err := svc.Users.Messages.Get(gmailUserID, msgID).Format("FULL").Do()
	if err != nil {
		return fmt.Sprintf("Error reading email body: %v", err)
	}
	if msg.Payload == nil {
		return "(No readable content found)"
	}

	textBody, htmlBody := extractBodies(msg.Payload)
	if textBody != "" {
		return strings.TrimSpace(textBody)
	}

	if htmlBody != "" {
		converted, err := m.conv.HTML2Text([]byte(htmlBody))
		if err != nil {
			return fmt.Sprintf("Error reading email body: %v", err)
		}
		if converted != "" {
			return converted
		}
	}

	return "(No readable content found)"
}

// CreateDraft stores a reply draft in the account without sending it.
func (m *GMail) CreateDraft(ctx context.Context, recipient, subject, body string) (string, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return "", fmt.Errorf("newSvc failed: %w", err)
	}

	raw := rawMessage(recipient, subject, body)

	draft, err := svc.Users.Drafts.Create(gmailUserID, &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Do()
	if err != nil {
		return "", fmt.Errorf("drafts.Create failed: %w", err)
	}

	return draft.Id, nil
}

// Archive removes the message from the inbox view without deleting it.
func (m *GMail) Archive(ctx context.Context, msgID string) error {
	return m.modifyLabels(ctx, msgID, nil, []string{labelInbox})
}

// Trash moves the message to trash, which Gmail keeps recoverable.
func (m *GMail) Trash(ctx context.Context, msgID string) error {
	return m.modifyLabels(ctx, msgID, []string{labelTrash}, nil)
}

func (m *GMail) modifyLabels(ctx context.Context, msgID string, add, remove []string) error {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	_, err = svc.Users.Messages.Modify(gmailUserID, msgID, &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}).Do()
	if err != nil {
		return fmt.Errorf("messages.Modify failed: %w", err)
	}

	return nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}

func headerFromMessage(msg *gmail.Message) MessageHeader {
	header := MessageHeader{
		ID:      msg.Id,
		Subject: "(No Subject)",
		Sender:  "(Unknown)",
	}

	if msg.Payload == nil {
		return header
	}

	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			header.Subject = h.Value
		case "From":
			header.Sender = h.Value
		}
	}

	return header
}

// rawMessage renders an RFC 2822 message and encodes it the way the Gmail
// API expects raw payloads: URL-safe base64.
func rawMessage(recipient, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
