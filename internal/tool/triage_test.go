package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasilev/inboxzero/internal/gservice"
	"github.com/avasilev/inboxzero/internal/tool"
	"github.com/avasilev/inboxzero/internal/triage"
)

func TestTriageMessage(t *testing.T) {
	svc := &inboxSvcMock{
		GetHeaderFunc: func(_ context.Context, msgID string) (gservice.MessageHeader, error) {
			return gservice.MessageHeader{ID: msgID, Subject: "Promo", Sender: "shop@example.com"}, nil
		},
	}

	var got triage.EmailMessage
	orch := &triageSvcMock{
		ProcessFunc: func(_ context.Context, msg triage.EmailMessage) (*triage.Outcome, error) {
			got = msg
			return &triage.Outcome{
				Steps: []triage.Step{
					{
						Invocation: triage.ToolInvocation{Name: triage.ToolDeleteEmail},
						Result:     triage.ToolResult{Status: triage.StatusSuccess, Message: "Email m1 moved to trash."},
					},
				},
				FinalReport: "Classified as JUNK and deleted.",
			}, nil
		},
	}

	_, resp, err := tool.NewTriage(svc, orch).TriageMessage(context.Background(), nil, tool.TriageMessageRequest{MessageID: "m1"})
	require.NoError(t, err)

	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "Promo", got.Subject)
	assert.Equal(t, "shop@example.com", got.Sender)
	assert.Equal(t, "body of m1", got.Body)

	require.Len(t, resp.Steps, 1)
	assert.Equal(t, tool.TriageStep{
		Tool:    triage.ToolDeleteEmail,
		Status:  "success",
		Message: "Email m1 moved to trash.",
	}, resp.Steps[0])
	assert.Equal(t, "Classified as JUNK and deleted.", resp.FinalReport)
}

func TestTriageMessageHeaderProvided(t *testing.T) {
	headerFetched := false
	svc := &inboxSvcMock{
		GetHeaderFunc: func(_ context.Context, _ string) (gservice.MessageHeader, error) {
			headerFetched = true
			return gservice.MessageHeader{}, nil
		},
	}
	orch := &triageSvcMock{
		ProcessFunc: func(_ context.Context, msg triage.EmailMessage) (*triage.Outcome, error) {
			return &triage.Outcome{FinalReport: "Done."}, nil
		},
	}

	_, _, err := tool.NewTriage(svc, orch).TriageMessage(context.Background(), nil, tool.TriageMessageRequest{
		MessageID: "m1",
		Subject:   "Known subject",
		Sender:    "known@example.com",
	})
	require.NoError(t, err)
	assert.False(t, headerFetched)
}

func TestTriageMessageFailures(t *testing.T) {
	t.Run("missing message_id", func(t *testing.T) {
		_, _, err := tool.NewTriage(&inboxSvcMock{}, &triageSvcMock{}).
			TriageMessage(context.Background(), nil, tool.TriageMessageRequest{})
		require.Error(t, err)
	})

	t.Run("header fetch fails", func(t *testing.T) {
		svc := &inboxSvcMock{
			GetHeaderFunc: func(_ context.Context, _ string) (gservice.MessageHeader, error) {
				return gservice.MessageHeader{}, errors.New("gmail: 404")
			},
		}

		_, _, err := tool.NewTriage(svc, &triageSvcMock{}).
			TriageMessage(context.Background(), nil, tool.TriageMessageRequest{MessageID: "gone"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gmail: 404")
	})

	t.Run("engine fails", func(t *testing.T) {
		orch := &triageSvcMock{
			ProcessFunc: func(_ context.Context, _ triage.EmailMessage) (*triage.Outcome, error) {
				return nil, errors.New("api: rate limited")
			},
		}

		_, _, err := tool.NewTriage(&inboxSvcMock{}, orch).
			TriageMessage(context.Background(), nil, tool.TriageMessageRequest{
				MessageID: "m1",
				Subject:   "s",
				Sender:    "x@y.com",
			})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})
}
