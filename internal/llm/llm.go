// Package llm holds the generation collaborator: an interface the
// refinement driver calls with the current prompt context, plus an OpenAI
// implementation. Service failures here are fatal to a run; the driver does
// not retry.
package llm

import (
	"context"
	"strings"
)

// Generator produces candidate source for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// StripFences removes a surrounding markdown code fence from model output.
// Chat models routinely wrap source in ```move blocks; the compiler wants
// the bare module.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	// Drop the opening fence (with or without a language tag).
	lines = lines[1:]
	// Drop the closing fence when present.
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
