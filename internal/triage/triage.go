// Package triage implements the classify-then-act core: a reasoning engine
// sorts one email into a closed set of categories, invokes a bounded set of
// mailbox tools, and produces exactly one final human-readable report.
package triage

// Classification is the category assigned to one email. It is recomputed per
// processing cycle and never persisted.
type Classification string

const (
	ClassUrgent   Classification = "URGENT"
	ClassFYI      Classification = "FYI"
	ClassFollowUp Classification = "FOLLOW_UP"
	ClassJunk     Classification = "JUNK"
)

// ParseClassification maps free-form engine output onto the closed enum.
func ParseClassification(s string) (Classification, bool) {
	switch Classification(s) {
	case ClassUrgent, ClassFYI, ClassFollowUp, ClassJunk:
		return Classification(s), true
	}

	return "", false
}

// EmailMessage is one unit of triage work. ID is the opaque mailbox-assigned
// key; Body is already decoded plain text. Immutable once constructed.
type EmailMessage struct {
	ID      string
	Subject string
	Sender  string
	Body    string
}

// Status reports whether a tool invocation succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ToolResult is the structured outcome of one tool invocation. Tools never
// propagate faults; every failure is folded into this shape.
type ToolResult struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// ToolInvocation records a tool call as requested by the engine.
type ToolInvocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Step pairs an invocation with the result it actually produced.
type Step struct {
	Invocation ToolInvocation `json:"invocation"`
	Result     ToolResult     `json:"result"`
}

// Outcome is the full result of processing one email: the executed steps in
// order, then exactly one final report. Discarded after display.
type Outcome struct {
	Steps       []Step `json:"steps,omitempty"`
	FinalReport string `json:"final_report"`
}

// ActionTaken reports whether any tool invocation succeeded during the cycle.
func (o *Outcome) ActionTaken() bool {
	for _, s := range o.Steps {
		if s.Result.Status == StatusSuccess {
			return true
		}
	}

	return false
}
