package usecase

import (
	"regexp"
	"strings"
)

// Reasoning models interleave deliberation inside <think> tags. That text is
// internal and must never reach the user.
var thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes every delimited reasoning span from raw model output
// and trims the remainder.
func StripReasoning(raw string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(raw, ""))
}
