package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasilev/inboxzero/internal/gservice"
	"github.com/avasilev/inboxzero/internal/tool"
)

func TestListUnread(t *testing.T) {
	var requestedMax int64
	svc := &inboxSvcMock{
		ListUnreadFunc: func(_ context.Context, maxResults int64) ([]gservice.MessageHeader, error) {
			requestedMax = maxResults
			return []gservice.MessageHeader{
				{ID: "m1", Subject: "Invoice", Sender: "Billing Dept <billing@example.com>"},
				{ID: "m2", Subject: "Hi", Sender: "plain@example.com"},
			}, nil
		},
	}

	_, resp, err := tool.NewInbox(svc).ListUnread(context.Background(), nil, tool.ListUnreadRequest{MaxResults: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(5), requestedMax)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, tool.MessageSummary{
		ID:      "m1",
		Subject: "Invoice",
		Sender:  tool.EmailAddress{Name: "Billing Dept", Email: "billing@example.com"},
	}, resp.Messages[0])
	assert.Equal(t, tool.EmailAddress{Email: "plain@example.com"}, resp.Messages[1].Sender)
}

func TestListUnreadBounds(t *testing.T) {
	cases := []struct {
		name      string
		requested int64
		expected  int64
	}{
		{name: "zero defaults to 10", requested: 0, expected: 10},
		{name: "within limit passes through", requested: 25, expected: 25},
		{name: "above limit capped at 50", requested: 500, expected: 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var requestedMax int64
			svc := &inboxSvcMock{
				ListUnreadFunc: func(_ context.Context, maxResults int64) ([]gservice.MessageHeader, error) {
					requestedMax = maxResults
					return nil, nil
				},
			}

			_, _, err := tool.NewInbox(svc).ListUnread(context.Background(), nil, tool.ListUnreadRequest{MaxResults: tc.requested})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, requestedMax)
		})
	}
}

func TestListUnreadFailure(t *testing.T) {
	svc := &inboxSvcMock{
		ListUnreadFunc: func(_ context.Context, _ int64) ([]gservice.MessageHeader, error) {
			return nil, errors.New("gmail: 401")
		},
	}

	_, _, err := tool.NewInbox(svc).ListUnread(context.Background(), nil, tool.ListUnreadRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gmail: 401")
}

func TestGetMessageBody(t *testing.T) {
	svc := &inboxSvcMock{}

	_, resp, err := tool.NewInbox(svc).GetMessageBody(context.Background(), nil, tool.GetMessageBodyRequest{MessageID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "body of m1", resp.Body)

	_, _, err = tool.NewInbox(svc).GetMessageBody(context.Background(), nil, tool.GetMessageBodyRequest{})
	require.Error(t, err)
}
