// Package session tracks the inbox view between triage runs: the fetched
// unread list, the current selection, and the single-flight processing
// trigger.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/avasilev/inboxzero/internal/gservice"
	"github.com/avasilev/inboxzero/internal/triage"
)

// ErrBusy is returned when Process is invoked while another processing
// request is still in flight. The design permits at most one at a time.
var ErrBusy = errors.New("another email is being processed")

// ErrNoSelection is returned when Process is invoked without a selected
// email.
var ErrNoSelection = errors.New("no email selected")

type mailbox interface {
	ListUnread(ctx context.Context, maxResults int64) ([]gservice.MessageHeader, error)
	GetBody(ctx context.Context, msgID string) string
}

type orchestrator interface {
	Process(ctx context.Context, msg triage.EmailMessage) (*triage.Outcome, error)
}

// NewController creates a session over the given mailbox and orchestrator.
func NewController(mb mailbox, orch orchestrator, maxResults int64) *Controller {
	return &Controller{
		mailbox:    mb,
		orch:       orch,
		maxResults: maxResults,
		selected:   -1,
	}
}

// Controller owns session state. The selected message ID is always passed
// explicitly into the orchestrator, never read from shared mutable state by
// the tools, so a selection change cannot redirect an in-flight run.
type Controller struct {
	mailbox    mailbox
	orch       orchestrator
	maxResults int64

	mu         sync.Mutex
	processing bool
	emails     []gservice.MessageHeader
	selected   int
}

// Refresh reloads the unread list and resets the selection to the first
// entry.
func (c *Controller) Refresh(ctx context.Context) ([]gservice.MessageHeader, error) {
	emails, err := c.mailbox.ListUnread(ctx, c.maxResults)
	if err != nil {
		return nil, fmt.Errorf("mailbox.ListUnread failed: %w", err)
	}

	c.mu.Lock()
	c.emails = emails
	c.selected = -1
	if len(emails) > 0 {
		c.selected = 0
	}
	c.mu.Unlock()

	return emails, nil
}

// Emails returns the current unread list.
func (c *Controller) Emails() []gservice.MessageHeader {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]gservice.MessageHeader, len(c.emails))
	copy(out, c.emails)

	return out
}

// Select picks the email at index i of the current list.
func (c *Controller) Select(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.emails) {
		return fmt.Errorf("selection %d out of range (have %d emails)", i, len(c.emails))
	}
	c.selected = i

	return nil
}

// Selected returns the currently selected header.
func (c *Controller) Selected() (gservice.MessageHeader, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected < 0 || c.selected >= len(c.emails) {
		return gservice.MessageHeader{}, false
	}

	return c.emails[c.selected], true
}

// Process runs the selected email through the orchestrator: fetch body, hand
// (subject, sender, body, id) over, return the outcome. Overlapping calls
// are rejected with ErrBusy rather than queued.
func (c *Controller) Process(ctx context.Context) (*triage.Outcome, error) {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.selected < 0 || c.selected >= len(c.emails) {
		c.mu.Unlock()
		return nil, ErrNoSelection
	}
	header := c.emails[c.selected]
	c.processing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
	}()

	body := c.mailbox.GetBody(ctx, header.ID)

	outcome, err := c.orch.Process(ctx, triage.EmailMessage{
		ID:      header.ID,
		Subject: header.Subject,
		Sender:  header.Sender,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("orch.Process failed: %w", err)
	}

	return outcome, nil
}
