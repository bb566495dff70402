// Package ai holds the persona prompts and response post-processing shared by
// every generation operation.
package ai

import (
	"regexp"
	"strings"
)

// Marker prefixes every generated post so the bot's output is recognizable.
const Marker = "🗿"

// reasoning models sometimes leak their scratchpad before the answer
var thinkPattern = regexp.MustCompile(`(?is)^\s*<think>.*?</think>\s*`)

// CleanResponse strips reasoning tags, chat-template markers, and leading
// characters that would trigger bot commands.
func CleanResponse(resp string) string {
	resp = thinkPattern.ReplaceAllString(resp, "")
	resp = strings.ReplaceAll(resp, "<|im_start|>", "")
	resp = strings.ReplaceAll(resp, "<|im_end|>", "")
	resp = strings.TrimPrefix(resp, "!")
	resp = strings.TrimPrefix(resp, "/")
	return strings.TrimSpace(resp)
}

// EnsureMarker prefixes the marker unless the text already carries one or is
// an error placeholder (those start with "[").
func EnsureMarker(text string) string {
	if strings.HasPrefix(text, Marker) || strings.HasPrefix(text, "✨") || strings.HasPrefix(text, "[") {
		return text
	}
	return Marker + " " + text
}

// Truncate caps text at max runes. Oversized text comes back at exactly max
// runes with a trailing "..." so readers can tell it was cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max < 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
