package diag

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Extraction failure modes. The caller decides how to degrade; Extract never
// swallows either of them.
var (
	// ErrNoPayload means the output contained no delimited array region at all.
	ErrNoPayload = errors.New("no diagnostics payload in compiler output")
	// ErrMalformedPayload means a delimited region was found but did not
	// decode as a diagnostics array.
	ErrMalformedPayload = errors.New("malformed diagnostics payload")
)

// Extract locates the first balanced JSON array embedded in raw compiler
// output and decodes it into diagnostics, preserving source order. The
// compiler interleaves progress lines with the payload, so the scan is
// permissive about surrounding text rather than expecting the array to span
// the whole output.
func Extract(raw string) ([]Diagnostic, error) {
	region, ok := firstArrayRegion(raw)
	if !ok {
		return nil, ErrNoPayload
	}
	dec := json.NewDecoder(strings.NewReader(region))
	dec.UseNumber()
	var out []Diagnostic
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return out, nil
}

// firstArrayRegion returns the first balanced `[...]` substring of raw,
// tracking JSON string literals so brackets inside messages do not
// terminate the region early.
func firstArrayRegion(raw string) (string, bool) {
	start := strings.IndexByte(raw, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// Groups maps classification codes to their diagnostics. Group order is
// first-seen, membership order is extraction order, and nothing is ever
// deduplicated: four identical diagnostics are four occurrences.
type Groups struct {
	order  []Code
	byCode map[Code][]Diagnostic
}

// Group buckets diagnostics by their classification code.
func Group(diags []Diagnostic) *Groups {
	g := &Groups{byCode: make(map[Code][]Diagnostic)}
	for _, d := range diags {
		code := Classify(d)
		if _, seen := g.byCode[code]; !seen {
			g.order = append(g.order, code)
		}
		g.byCode[code] = append(g.byCode[code], d)
	}
	return g
}

// Uncategorized wraps raw compiler output that failed extraction into a
// single-member group, so an unparseable failure still shows up in the
// ledger and in feedback instead of being dropped.
func Uncategorized(raw string) *Groups {
	return &Groups{
		order: []Code{CodeUncategorized},
		byCode: map[Code][]Diagnostic{
			CodeUncategorized: {{Message: strings.TrimSpace(raw)}},
		},
	}
}

// Codes returns the classification codes in first-seen order.
func (g *Groups) Codes() []Code {
	out := make([]Code, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the diagnostics for one code in extraction order.
func (g *Groups) Get(code Code) []Diagnostic {
	return g.byCode[code]
}

// Len returns the number of distinct groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// Total returns the number of diagnostics across all groups.
func (g *Groups) Total() int {
	n := 0
	for _, ds := range g.byCode {
		n += len(ds)
	}
	return n
}

// Counts returns a per-code occurrence count.
func (g *Groups) Counts() map[Code]int {
	out := make(map[Code]int, len(g.order))
	for code, ds := range g.byCode {
		out[code] = len(ds)
	}
	return out
}

// Stats are the coarse per-iteration buckets tracked by the ledger.
type Stats struct {
	Errors           int `json:"errors"`
	CompilerWarnings int `json:"compiler_warnings"`
	LinterWarnings   int `json:"linter_warnings"`
}

// Stats tallies the coarse buckets for all grouped diagnostics. Blocking and
// nonblocking errors and compiler bugs count as errors; warnings split
// between the compiler and lint namespaces. An uncategorized bucket counts
// as errors, since it only exists for failed compiles.
func (g *Groups) Stats() Stats {
	var s Stats
	for code, ds := range g.byCode {
		if code == CodeUncategorized {
			s.Errors += len(ds)
			continue
		}
		for _, d := range ds {
			switch d.Severity {
			case SeverityBlockingError, SeverityNonblockingError, SeverityBug:
				s.Errors++
			case SeverityWarning:
				if code.IsLint() {
					s.LinterWarnings++
				} else {
					s.CompilerWarnings++
				}
			}
		}
	}
	return s
}
