package ledger

import (
	"testing"
	"time"

	"moveforge/internal/diag"
)

func groupsOf(t *testing.T, diags ...diag.Diagnostic) *diag.Groups {
	t.Helper()
	return diag.Group(diags)
}

func TestSeries_PadsAbsentIterationsWithZero(t *testing.T) {
	l := New()
	now := time.Now()

	errored := diag.Diagnostic{Severity: diag.SeverityNonblockingError, Code: "1", Category: "5"}
	lint := diag.Diagnostic{Severity: diag.SeverityWarning, Code: "4", Category: "1"}

	l.Record(1, groupsOf(t, errored), false, now)
	l.Record(2, groupsOf(t, errored, lint, lint), false, now)
	l.Record(3, groupsOf(t, errored), false, now)

	series := l.Series()
	lintSeries, ok := series["Lint W04001"]
	if !ok {
		t.Fatalf("expected series for Lint W04001, have %v", l.Codes())
	}
	if len(lintSeries) != 3 {
		t.Fatalf("series must cover all iterations, got %v", lintSeries)
	}
	if lintSeries[0] != 0 || lintSeries[1] != 2 || lintSeries[2] != 0 {
		t.Fatalf("expected [0 2 0], got %v", lintSeries)
	}

	errSeries := series["N01005"]
	if errSeries[0] != 1 || errSeries[1] != 1 || errSeries[2] != 1 {
		t.Fatalf("expected [1 1 1], got %v", errSeries)
	}
}

func TestRecord_SuccessIterationHasEmptyPopulation(t *testing.T) {
	l := New()
	l.Record(1, nil, true, time.Now())

	snaps := l.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if !snaps[0].Success {
		t.Fatalf("expected success flag set")
	}
	if len(snaps[0].Counts) != 0 {
		t.Fatalf("expected no counts, got %v", snaps[0].Counts)
	}
	if snaps[0].Stats != (diag.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", snaps[0].Stats)
	}
}

func TestDelta_SignedPerBucket(t *testing.T) {
	l := New()
	now := time.Now()

	err1 := diag.Diagnostic{Severity: diag.SeverityNonblockingError, Code: "1", Category: "5"}
	warn := diag.Diagnostic{Severity: diag.SeverityWarning, Code: "2", Category: "4"}

	l.Record(1, groupsOf(t, err1, err1, err1), false, now)
	l.Record(2, groupsOf(t, err1, warn), false, now)

	delta, ok := l.Delta(2)
	if !ok {
		t.Fatalf("expected delta for iteration 2")
	}
	if delta.Errors != -2 {
		t.Fatalf("expected errors delta -2, got %d", delta.Errors)
	}
	if delta.CompilerWarnings != 1 {
		t.Fatalf("expected compiler warnings delta +1, got %d", delta.CompilerWarnings)
	}

	if _, ok := l.Delta(1); ok {
		t.Fatalf("first iteration has no predecessor")
	}
	if _, ok := l.Delta(3); ok {
		t.Fatalf("unrecorded iteration must not report a delta")
	}
}

func TestCodes_FirstSeenOrderAcrossIterations(t *testing.T) {
	l := New()
	now := time.Now()

	a := diag.Diagnostic{Severity: diag.SeverityNonblockingError, Code: "1", Category: "5"}
	b := diag.Diagnostic{Severity: diag.SeverityWarning, Code: "2", Category: "4"}
	c := diag.Diagnostic{Severity: diag.SeverityWarning, Code: "4", Category: "4"}

	l.Record(1, groupsOf(t, b), false, now)
	l.Record(2, groupsOf(t, a, c, b), false, now)

	codes := l.Codes()
	want := []diag.Code{"W02004", "N01005", "Lint W04004"}
	if len(codes) != len(want) {
		t.Fatalf("expected %v, got %v", want, codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
}

func TestSummary_IsDetachedFromLedger(t *testing.T) {
	l := New()
	now := time.Now()
	d := diag.Diagnostic{Severity: diag.SeverityNonblockingError, Code: "1", Category: "5"}
	l.Record(1, groupsOf(t, d), false, now)

	sum := l.Summary()
	sum.Series["N01005"][0] = 99
	sum.Codes[0] = "mutated"
	sum.Snapshots[0].Success = true

	if l.Series()["N01005"][0] != 1 {
		t.Fatalf("mutating a summary must not affect the ledger series")
	}
	if l.Codes()[0] != "N01005" {
		t.Fatalf("mutating a summary must not affect ledger codes")
	}
	if l.Snapshots()[0].Success {
		t.Fatalf("mutating a summary must not affect ledger snapshots")
	}
}

func TestUncategorizedBucketFlowsThroughLedger(t *testing.T) {
	l := New()
	l.Record(1, diag.Uncategorized("garbled output"), false, time.Now())

	series := l.Series()
	if got := series[diag.CodeUncategorized]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected uncategorized series [1], got %v", got)
	}
}
