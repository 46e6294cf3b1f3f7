package triage

import (
	"fmt"
	"strings"
)

const instructionsHeader = `You are an inbox triage assistant. You receive the full content of one email and help the user reach inbox zero.

Work through these steps:
1. Classify the email into exactly one of these categories:
   - URGENT: requires an immediate reply.
   - FYI: informational, no reply needed, can be archived.
   - FOLLOW_UP: requires a future action or reminder.
   - JUNK: unwanted, spam, or promotional.
2. Act according to the classification:
   - JUNK: call delete_email_by_id with the email_id given in the prompt.
   - FYI: call archive_email_by_id with the email_id given in the prompt.
   - URGENT: call draft_email with a recipient derived from the sender, a subject prefixed with "Re: ", and a reply body.`

const instructionsFollowUpWithDraft = `   - FOLLOW_UP: call create_reminder, and additionally draft_email when a reply is clearly warranted.`

const instructionsFollowUpReminderOnly = `   - FOLLOW_UP: call create_reminder only.`

const instructionsFooter = `IMPORTANT: when calling archive_email_by_id or delete_email_by_id you MUST pass the email_id exactly as given in the prompt.
3. After the tools have run, send one final single-paragraph message for the user. It must start by stating the classification, then summarize the actions that actually succeeded or failed according to the tool results. If no action was taken, say so. This must be your last message.`

// Instructions renders the fixed policy text handed to the reasoning engine.
// followUpDraft enables the optional second tool call for FOLLOW_UP emails.
func Instructions(followUpDraft bool) string {
	followUp := instructionsFollowUpReminderOnly
	if followUpDraft {
		followUp = instructionsFollowUpWithDraft
	}

	return strings.Join([]string{instructionsHeader, followUp, instructionsFooter}, "\n")
}

// BuildPrompt renders one email as the engine's unit of work. The message ID
// is restated in the text as the single source of truth for tool calls.
func BuildPrompt(msg EmailMessage) string {
	return fmt.Sprintf(
		"Subject: %s\nFrom: %s\nBody:\n%s\n\nThe ID of this email is: %s. Use this exact ID when calling archive_email_by_id or delete_email_by_id.",
		msg.Subject, msg.Sender, msg.Body, msg.ID,
	)
}
