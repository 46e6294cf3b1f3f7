// Package reminders provides sinks for follow-up reminders created during
// triage.
package reminders

import (
	"context"
	"sync"
	"time"
)

// Sink records one reminder.
type Sink interface {
	Create(ctx context.Context, task, date string) error
}

// Entry is one recorded reminder.
type Entry struct {
	Task      string
	Date      string
	CreatedAt time.Time
}

// NewMemory creates an in-process sink. It never fails, which keeps the
// create_reminder tool free of a failure path when no external backend is
// configured.
func NewMemory() *Memory {
	return &Memory{}
}

// Memory keeps reminders in process memory for the lifetime of the run.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Create records the reminder.
func (m *Memory) Create(_ context.Context, task, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		Task:      task,
		Date:      date,
		CreatedAt: time.Now(),
	})

	return nil
}

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)

	return out
}
