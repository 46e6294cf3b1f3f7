package triage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avasilev/inboxzero/internal/triage"
)

func TestExtractReport(t *testing.T) {
	cases := []struct {
		name      string
		fragments []string
		expected  string
	}{
		{
			name:      "single clean fragment",
			fragments: []string{"Classified as FYI and archived."},
			expected:  "Classified as FYI and archived.",
		},
		{
			name:      "first survivor wins",
			fragments: []string{"First report.", "Second report."},
			expected:  "First report.",
		},
		{
			name:      "leading whitespace trimmed",
			fragments: []string{"  \n Classified as JUNK. \n"},
			expected:  "Classified as JUNK.",
		},
		{
			name:      "skips empty fragments",
			fragments: []string{"", "   ", "Classified as URGENT, reply drafted."},
			expected:  "Classified as URGENT, reply drafted.",
		},
		{
			name:      "skips tool_code echo",
			fragments: []string{"tool_code: delete_email_by_id(email_id='m1')", "Deleted the junk email."},
			expected:  "Deleted the junk email.",
		},
		{
			name:      "skips print echo",
			fragments: []string{`print(archive_email_by_id(email_id="m1"))`, "Archived."},
			expected:  "Archived.",
		},
		{
			name:      "skips code fence",
			fragments: []string{"```json\n{}\n```", "All done."},
			expected:  "All done.",
		},
		{
			name:      "skips raw json",
			fragments: []string{`{"status":"success","message":"archived"}`, "Archived the newsletter."},
			expected:  "Archived the newsletter.",
		},
		{
			name:      "nothing qualifies",
			fragments: []string{"", "tool_code: x", "{}"},
			expected:  "",
		},
		{
			name:      "no fragments",
			fragments: nil,
			expected:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, triage.ExtractReport(tc.fragments))
		})
	}
}
