package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"moveforge/internal/config"
	"moveforge/internal/diag"
	"moveforge/internal/ledger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.BaseDir = t.TempDir()
	s := New(cfg)
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	return s
}

func TestCreateRunLayoutAndWriteIteration(t *testing.T) {
	s := testStore(t)
	if err := s.CreateRunLayout("run-1"); err != nil {
		t.Fatalf("create layout: %v", err)
	}

	sink := s.Sink("run-1")
	if err := sink.WriteIteration(1, "module generated::demo {}\n"); err != nil {
		t.Fatalf("write iteration: %v", err)
	}
	if err := sink.WriteIteration(12, "module generated::demo { public fun noop() {} }\n"); err != nil {
		t.Fatalf("write iteration: %v", err)
	}

	first, err := os.ReadFile(filepath.Join(s.IterationsDir("run-1"), "001.move"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(first) != "module generated::demo {}\n" {
		t.Fatalf("unexpected snapshot %q", first)
	}
	if _, err := os.Stat(filepath.Join(s.IterationsDir("run-1"), "012.move")); err != nil {
		t.Fatalf("expected zero-padded snapshot name: %v", err)
	}
}

func TestWriteSummaryRoundTrips(t *testing.T) {
	s := testStore(t)
	if err := s.CreateRunLayout("run-2"); err != nil {
		t.Fatalf("create layout: %v", err)
	}

	led := ledger.New()
	led.Record(1, diag.Group([]diag.Diagnostic{
		{Severity: diag.SeverityNonblockingError, Code: "1", Category: "5"},
	}), false, time.Now())
	led.Record(2, nil, true, time.Now())

	sink := s.Sink("run-2")
	if err := sink.WriteSummary(led.Summary()); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	raw, err := os.ReadFile(s.LedgerPath("run-2"))
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var decoded ledger.Summary
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if decoded.Iterations != 2 {
		t.Fatalf("expected 2 iterations, got %d", decoded.Iterations)
	}
	series, ok := decoded.Series["N01005"]
	if !ok || len(series) != 2 || series[0] != 1 || series[1] != 0 {
		t.Fatalf("unexpected series %v", decoded.Series)
	}
	if !decoded.Snapshots[1].Success {
		t.Fatalf("expected final snapshot marked successful")
	}
}

func TestWriteReport(t *testing.T) {
	s := testStore(t)
	if err := s.CreateRunLayout("run-3"); err != nil {
		t.Fatalf("create layout: %v", err)
	}
	if err := s.Sink("run-3").WriteReport("all clear\n"); err != nil {
		t.Fatalf("write report: %v", err)
	}
	raw, err := os.ReadFile(s.ReportPath("run-3"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(raw) != "all clear\n" {
		t.Fatalf("unexpected report %q", raw)
	}
}
