package gservice

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractBodies(t *testing.T) {
	cases := []struct {
		name         string
		payload      *gmail.MessagePart
		expectedText string
		expectedHTML string
	}{
		{
			name: "flat text/plain",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: b64("hello")},
			},
			expectedText: "hello",
		},
		{
			name: "multipart/alternative",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain")}},
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>html</p>")}},
				},
			},
			expectedText: "plain",
			expectedHTML: "<p>html</p>",
		},
		{
			name: "nested multipart",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("nested plain")}},
						},
					},
				},
			},
			expectedText: "nested plain",
		},
		{
			name: "html only",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<b>only html</b>")}},
				},
			},
			expectedHTML: "<b>only html</b>",
		},
		{
			name: "first text part wins",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("first")}},
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("second")}},
				},
			},
			expectedText: "first",
		},
		{
			name: "attachment is ignored",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{MimeType: "application/pdf", Body: &gmail.MessagePartBody{Data: b64("%PDF")}},
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("see attachment")}},
				},
			},
			expectedText: "see attachment",
		},
		{
			name:    "empty payload",
			payload: &gmail.MessagePart{MimeType: "text/plain"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			textBody, htmlBody := extractBodies(tc.payload)
			assert.Equal(t, tc.expectedText, textBody)
			assert.Equal(t, tc.expectedHTML, htmlBody)
		})
	}
}

func TestDecodeBase64URL(t *testing.T) {
	assert.Equal(t, "padded", decodeBase64URL(base64.URLEncoding.EncodeToString([]byte("padded"))))
	assert.Equal(t, "unpadded", decodeBase64URL(base64.RawURLEncoding.EncodeToString([]byte("unpadded"))))
	assert.Equal(t, "!!not base64!!", decodeBase64URL("!!not base64!!"))
}

func TestHeaderFromMessage(t *testing.T) {
	msg := &gmail.Message{
		Id: "m-1",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "Subject", Value: "Weekly sync"},
				{Name: "Date", Value: "Mon, 24 Aug 2026 10:00:00 +0000"},
			},
		},
	}

	header := headerFromMessage(msg)
	assert.Equal(t, "m-1", header.ID)
	assert.Equal(t, "Weekly sync", header.Subject)
	assert.Equal(t, "Alice <alice@example.com>", header.Sender)
}

func TestHeaderFromMessageDefaults(t *testing.T) {
	header := headerFromMessage(&gmail.Message{Id: "m-2"})
	assert.Equal(t, "(No Subject)", header.Subject)
	assert.Equal(t, "(Unknown)", header.Sender)

	header = headerFromMessage(&gmail.Message{
		Id:      "m-3",
		Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{{Name: "From", Value: "x@y.com"}}},
	})
	assert.Equal(t, "(No Subject)", header.Subject)
	assert.Equal(t, "x@y.com", header.Sender)
}

func TestRawMessage(t *testing.T) {
	raw := rawMessage("alice@example.com", "Re: Weekly sync", "Sounds good.")

	decoded, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)

	text := string(decoded)
	assert.True(t, strings.HasPrefix(text, "To: alice@example.com\r\n"))
	assert.Contains(t, text, "Subject: Re: Weekly sync\r\n")
	assert.Contains(t, text, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")

	_, body, found := strings.Cut(text, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, "Sounds good.", body)
}
