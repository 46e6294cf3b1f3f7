package triage

import "strings"

// FallbackReport is surfaced when no emitted text qualifies as a final
// report. It is distinct from a successful report that states no action was
// taken.
const FallbackReport = "No summary available."

// toolEchoPrefixes mark text fragments that are echoed tool syntax rather
// than a message addressed to the user.
var toolEchoPrefixes = []string{
	"tool_code:",
	"print(",
	"```",
	"{",
}

// ExtractReport selects the final report from the text fragments an engine
// run emitted, in production order: fragments that are empty or look like
// echoed tool-invocation syntax are discarded and the first survivor wins.
// Returns "" when no candidate qualifies; callers substitute FallbackReport.
//
// This is a best-effort disambiguation over a loosely structured event
// stream, not a guarantee.
func ExtractReport(fragments []string) string {
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" || looksLikeToolEcho(f) {
			continue
		}

		return f
	}

	return ""
}

func looksLikeToolEcho(s string) bool {
	for _, prefix := range toolEchoPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}
