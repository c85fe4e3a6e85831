package refine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"moveforge/internal/diag"
)

// rawTailLimit bounds how much unparsed compiler output gets relayed into
// the next prompt.
const rawTailLimit = 2000

// feedbackText turns grouped diagnostics into the feedback section of the
// next generation prompt: per-group counts plus one sample message each,
// which carries strictly more signal than the raw compiler text.
func feedbackText(groups *diag.Groups, humanOutput string) string {
	var b strings.Builder
	b.WriteString("The contract did not compile.\n")

	codes := groups.Codes()
	if len(codes) == 0 {
		// A failed build can still emit an empty diagnostics array; the
		// human-readable output is the only signal left.
		b.WriteString("The compiler reported no structured diagnostics; raw output follows:\n")
		if trimmed := strings.TrimSpace(humanOutput); trimmed != "" {
			b.WriteString(tail(trimmed, rawTailLimit))
			b.WriteString("\n")
		}
	} else if len(codes) == 1 && codes[0] == diag.CodeUncategorized {
		b.WriteString("The compiler diagnostics could not be parsed; raw output follows:\n")
		members := groups.Get(diag.CodeUncategorized)
		if len(members) > 0 && members[0].Message != "" {
			b.WriteString(tail(members[0].Message, rawTailLimit))
			b.WriteString("\n")
		}
		if trimmed := strings.TrimSpace(humanOutput); trimmed != "" {
			b.WriteString(tail(trimmed, rawTailLimit))
			b.WriteString("\n")
		}
	} else {
		b.WriteString("Compiler diagnostics grouped by classification code:\n")
		for _, code := range codes {
			members := groups.Get(code)
			sample := members[0]
			fmt.Fprintf(&b, "- %s: %d occurrence(s)", code, len(members))
			if sample.Message != "" {
				fmt.Fprintf(&b, "; e.g. %q", sample.Message)
			}
			if loc := sample.Location(); loc != "" {
				fmt.Fprintf(&b, " at %s", loc)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRevise the contract so that every error above is resolved. Respond with Move source code only.")
	return b.String()
}

// tail keeps the last limit bytes of s, advancing past any partial UTF-8
// sequence left at the cut.
func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[len(s)-limit:]
	for len(cut) > 0 && !utf8.RuneStart(cut[0]) {
		cut = cut[1:]
	}
	return "…" + cut
}
