package triage_test

import (
	"context"

	"github.com/avasilev/inboxzero/internal/engine"
)

type mailboxMock struct {
	CreateDraftFunc func(ctx context.Context, recipient, subject, body string) (string, error)
	ArchiveFunc     func(ctx context.Context, emailID string) error
	TrashFunc       func(ctx context.Context, emailID string) error

	archiveCalls []string
	trashCalls   []string
	draftCalls   []draftCall
}

type draftCall struct {
	recipient string
	subject   string
	body      string
}

func (m *mailboxMock) CreateDraft(ctx context.Context, recipient, subject, body string) (string, error) {
	m.draftCalls = append(m.draftCalls, draftCall{recipient, subject, body})
	if m.CreateDraftFunc != nil {
		return m.CreateDraftFunc(ctx, recipient, subject, body)
	}
	return "draft-001", nil
}

func (m *mailboxMock) Archive(ctx context.Context, emailID string) error {
	m.archiveCalls = append(m.archiveCalls, emailID)
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, emailID)
	}
	return nil
}

func (m *mailboxMock) Trash(ctx context.Context, emailID string) error {
	m.trashCalls = append(m.trashCalls, emailID)
	if m.TrashFunc != nil {
		return m.TrashFunc(ctx, emailID)
	}
	return nil
}

type reminderSinkMock struct {
	CreateFunc func(ctx context.Context, task, date string) error

	calls []reminderCall
}

type reminderCall struct {
	task string
	date string
}

func (m *reminderSinkMock) Create(ctx context.Context, task, date string) error {
	m.calls = append(m.calls, reminderCall{task, date})
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task, date)
	}
	return nil
}

type engineMock struct {
	RunFunc func(ctx context.Context, req engine.Request) ([]engine.Event, error)
}

func (m *engineMock) Run(ctx context.Context, req engine.Request) ([]engine.Event, error) {
	return m.RunFunc(ctx, req)
}
