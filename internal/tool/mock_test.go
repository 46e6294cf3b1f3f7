package tool_test

import (
	"context"

	"github.com/avasilev/inboxzero/internal/gservice"
	"github.com/avasilev/inboxzero/internal/triage"
)

type inboxSvcMock struct {
	ListUnreadFunc func(ctx context.Context, maxResults int64) ([]gservice.MessageHeader, error)
	GetHeaderFunc  func(ctx context.Context, msgID string) (gservice.MessageHeader, error)
	GetBodyFunc    func(ctx context.Context, msgID string) string
}

func (m *inboxSvcMock) ListUnread(ctx context.Context, maxResults int64) ([]gservice.MessageHeader, error) {
	return m.ListUnreadFunc(ctx, maxResults)
}

func (m *inboxSvcMock) GetHeader(ctx context.Context, msgID string) (gservice.MessageHeader, error) {
	return m.GetHeaderFunc(ctx, msgID)
}

func (m *inboxSvcMock) GetBody(ctx context.Context, msgID string) string {
	if m.GetBodyFunc != nil {
		return m.GetBodyFunc(ctx, msgID)
	}
	return "body of " + msgID
}

type triageSvcMock struct {
	ProcessFunc func(ctx context.Context, msg triage.EmailMessage) (*triage.Outcome, error)
}

func (m *triageSvcMock) Process(ctx context.Context, msg triage.EmailMessage) (*triage.Outcome, error) {
	return m.ProcessFunc(ctx, msg)
}

type actionsSvcMock struct {
	DraftEmailFunc       func(ctx context.Context, recipient, subject, body string) triage.ToolResult
	ArchiveEmailByIDFunc func(ctx context.Context, emailID string) triage.ToolResult
	DeleteEmailByIDFunc  func(ctx context.Context, emailID string) triage.ToolResult
	CreateReminderFunc   func(ctx context.Context, task, date string) triage.ToolResult
}

func (m *actionsSvcMock) DraftEmail(ctx context.Context, recipient, subject, body string) triage.ToolResult {
	return m.DraftEmailFunc(ctx, recipient, subject, body)
}

func (m *actionsSvcMock) ArchiveEmailByID(ctx context.Context, emailID string) triage.ToolResult {
	return m.ArchiveEmailByIDFunc(ctx, emailID)
}

func (m *actionsSvcMock) DeleteEmailByID(ctx context.Context, emailID string) triage.ToolResult {
	return m.DeleteEmailByIDFunc(ctx, emailID)
}

func (m *actionsSvcMock) CreateReminder(ctx context.Context, task, date string) triage.ToolResult {
	return m.CreateReminderFunc(ctx, task, date)
}
