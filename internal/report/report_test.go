package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"moveforge/internal/diag"
	"moveforge/internal/ledger"
	"moveforge/internal/refine"
)

func sampleGroups(t *testing.T) *diag.Groups {
	t.Helper()
	diags := []diag.Diagnostic{
		{File: "./sources/token.move", Line: 4, Severity: diag.SeverityNonblockingError, Category: "5", Code: "1", Message: "unbound module alias"},
		{File: "./sources/token.move", Line: 9, Severity: diag.SeverityNonblockingError, Category: "5", Code: "1", Message: "unbound module alias"},
		{File: "./sources/token.move", Line: 12, Severity: diag.SeverityWarning, Category: "4", Code: "2", Message: "unused constant"},
		{Severity: diag.SeverityWarning, Category: "4", Code: "4", Message: "share owned object"},
	}
	return diag.Group(diags)
}

func TestGroups_PlainRendering(t *testing.T) {
	out := New(false).Groups(sampleGroups(t))

	for _, want := range []string{
		"N01005 ×2",
		"W02004 ×1",
		"Lint W04004 ×1",
		"./sources/token.move:4  unbound module alias",
		"2 errors, 1 compiler warnings, 1 linter warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	// No location → placeholder, not an empty cell.
	if !strings.Contains(out, "  -  share owned object") {
		t.Errorf("missing placeholder location:\n%s", out)
	}
	// First-seen group order is preserved.
	if strings.Index(out, "N01005") > strings.Index(out, "W02004") {
		t.Errorf("group order not preserved:\n%s", out)
	}
}

func TestGroups_Empty(t *testing.T) {
	out := New(false).Groups(nil)
	if !strings.Contains(out, "no diagnostics") {
		t.Errorf("unexpected empty rendering %q", out)
	}
}

func sampleOutcome(t *testing.T) refine.Outcome {
	t.Helper()
	led := ledger.New()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	led.Record(1, sampleGroups(t), false, at)
	led.Record(2, diag.Group([]diag.Diagnostic{
		{File: "./sources/token.move", Line: 12, Severity: diag.SeverityWarning, Category: "4", Code: "2", Message: "unused constant"},
	}), false, at.Add(time.Minute))
	led.Record(3, nil, true, at.Add(2*time.Minute))

	return refine.Outcome{
		RunID:      "0b7c9a1e",
		Status:     refine.StatusSuccess,
		Iterations: 3,
		Summary:    led.Summary(),
	}
}

func TestOutcome_PlainRendering(t *testing.T) {
	out := New(false).Outcome(sampleOutcome(t))

	if !strings.Contains(out, "run 0b7c9a1e SUCCESS after 3 iteration(s)") {
		t.Errorf("missing header:\n%s", out)
	}
	// Every series row is padded out to the run length. The widest code,
	// "Lint W04004", sets the label column.
	rows := map[diag.Code][3]int{
		"N01005":      {2, 0, 0},
		"W02004":      {1, 1, 0},
		"Lint W04004": {1, 0, 0},
	}
	for code, counts := range rows {
		want := fmt.Sprintf("%-11s %4d %4d %4d", code, counts[0], counts[1], counts[2])
		if !strings.Contains(out, want) {
			t.Errorf("missing series row %q:\n%s", want, out)
		}
	}
	for _, want := range []string{
		"iteration 2: -2 errors, +0 compiler warnings, -1 linter warnings",
		"iteration 3: +0 errors, -1 compiler warnings, +0 linter warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing delta line %q:\n%s", want, out)
		}
	}
}
