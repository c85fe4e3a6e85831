// Package diag parses the machine-readable diagnostics the Move compiler
// embeds in its build output and buckets them under stable classification
// codes. Everything in this package is a pure function over its inputs;
// downstream consumers may share the returned values freely.
package diag

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Severity is the compiler-reported level of a diagnostic. Known values get
// dedicated constants; anything else is carried through verbatim so unknown
// levels stay round-trippable.
type Severity string

const (
	SeverityBlockingError    Severity = "BlockingError"
	SeverityNonblockingError Severity = "NonblockingError"
	SeverityWarning          Severity = "Warning"
	SeverityNote             Severity = "Note"
	SeverityBug              Severity = "Bug"
)

// Prefix returns the short classification prefix for the severity. Unknown
// severities fall back to their first character, empty severities to "".
func (s Severity) Prefix() string {
	switch s {
	case SeverityBlockingError:
		return "E"
	case SeverityNonblockingError:
		return "N"
	case SeverityWarning:
		return "W"
	case SeverityNote:
		return "I"
	case SeverityBug:
		return "ICE"
	}
	if s == "" {
		return ""
	}
	return string(s[:1])
}

// Diagnostic is one issue reported by the compiler, decoded from the JSON
// payload of a `--json-errors` run. Code and Category are kept as
// json.Number so that absent or odd values still classify deterministically
// instead of failing the decode. A Diagnostic is immutable once parsed.
type Diagnostic struct {
	File     string      `json:"file"`
	Line     int         `json:"line"`
	Column   int         `json:"column"`
	Severity Severity    `json:"level"`
	Category json.Number `json:"category"`
	Code     json.Number `json:"code"`
	Message  string      `json:"msg"`

	// ExternalPrefix is set for diagnostics relayed from an external tool;
	// it namespaces the classification code.
	ExternalPrefix string `json:"external_prefix,omitempty"`
}

// Location renders "file:line" for display, or just the file when the
// compiler did not report a line.
func (d Diagnostic) Location() string {
	if d.File == "" {
		return ""
	}
	if d.Line <= 0 {
		return d.File
	}
	return d.File + ":" + strconv.Itoa(d.Line)
}

// Code is a classification key derived from severity, numeric code and
// category. Downstream consumers key on it, so the derivation in Classify is
// a stable contract.
type Code string

// CodeUncategorized buckets diagnostics that could not be extracted from the
// compiler output at all.
const CodeUncategorized Code = "uncategorized"

// IsLint reports whether the code belongs to the linter namespace. The
// "Lint " marker sits after the external prefix when one is present
// ("Sui Lint W04001"), so membership is not a plain prefix check.
func (c Code) IsLint() bool {
	return strings.Contains(string(c), "Lint ")
}

const lintCodeValue = "4" // the compiler overloads numeric code 4 for linter messages

// Classify derives the classification code for a diagnostic.
//
// The code is the severity prefix, the numeric code zero-padded to two
// digits, then the category zero-padded to three. Warnings with numeric code
// 4 land in a separate "Lint " namespace. An external prefix, when present,
// is prepended to the final string, lint namespace included.
func Classify(d Diagnostic) Code {
	base := d.Severity.Prefix() + zeroPad(d.Code.String(), 2) + zeroPad(d.Category.String(), 3)
	if d.Code.String() == lintCodeValue && d.Severity == SeverityWarning {
		base = "Lint " + base
	}
	if d.ExternalPrefix != "" {
		base = d.ExternalPrefix + base
	}
	return Code(base)
}

// zeroPad left-pads v with zeros to at least width characters. Values wider
// than width are kept as-is, including non-numeric fallbacks.
func zeroPad(v string, width int) string {
	for len(v) < width {
		v = "0" + v
	}
	return v
}
