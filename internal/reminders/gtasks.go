package reminders

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/avasilev/inboxzero/internal/auth"
)

// @default addresses the user's primary task list.
const defaultTaskList = "@default"

// NewGoogleTasks creates a sink that writes reminders into Google Tasks
// using the same OAuth token as the mailbox gateway.
func NewGoogleTasks(cfg *oauth2.Config, tok *auth.Token) *GoogleTasks {
	return &GoogleTasks{cfg: cfg, tok: tok}
}

// GoogleTasks persists reminders as tasks on the default task list.
type GoogleTasks struct {
	cfg *oauth2.Config
	tok *auth.Token
}

// Create inserts a task titled after the reminder. The date string comes
// from the reasoning engine and is parsed leniently; unparseable dates are
// kept in the notes instead of being dropped.
func (g *GoogleTasks) Create(ctx context.Context, task, date string) error {
	svc, err := g.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	t := &tasks.Task{Title: task}

	if due, ok := parseDue(date); ok {
		t.Due = due.Format(time.RFC3339)
	} else if date != "" {
		t.Notes = fmt.Sprintf("Due: %s", date)
	}

	if _, err := svc.Tasks.Insert(defaultTaskList, t).Do(); err != nil {
		return fmt.Errorf("tasks.Insert failed: %w", err)
	}

	return nil
}

func (g *GoogleTasks) newSvc(ctx context.Context) (*tasks.Service, error) {
	t, err := g.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := g.cfg.Client(ctx, t)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("tasks.NewService failed: %w", err)
	}

	return svc, nil
}

var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
}

func parseDue(date string) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
