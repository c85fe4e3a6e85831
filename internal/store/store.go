// Package store persists run artifacts: per-iteration source snapshots, the
// finalized ledger summary, and the rendered report. Layout:
//
//	<base>/runs/<run-id>/iterations/NNN.move
//	<base>/runs/<run-id>/ledger.json
//	<base>/runs/<run-id>/report.txt
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"moveforge/internal/config"
	"moveforge/internal/ledger"
)

type Store struct {
	cfg config.Config
	mu  sync.Mutex
}

func New(cfg config.Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.cfg.BaseDir, s.cfg.RunsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %q: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.cfg.RunsDir(), runID)
}

func (s *Store) IterationsDir(runID string) string {
	return filepath.Join(s.RunDir(runID), "iterations")
}

func (s *Store) LedgerPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "ledger.json")
}

func (s *Store) ReportPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "report.txt")
}

// CreateRunLayout prepares the directory tree for one run.
func (s *Store) CreateRunLayout(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range []string{s.RunDir(runID), s.IterationsDir(runID)} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("create path %q: %w", p, err)
		}
	}
	return nil
}

// RunSink binds a store to one run ID so the refinement driver can write
// artifacts without knowing the layout.
type RunSink struct {
	store *Store
	runID string
}

func (s *Store) Sink(runID string) *RunSink {
	return &RunSink{store: s, runID: runID}
}

// WriteIteration records the candidate source generated at one iteration.
func (r *RunSink) WriteIteration(iteration int, source string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	path := filepath.Join(r.store.IterationsDir(r.runID), fmt.Sprintf("%03d.move", iteration))
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("write iteration snapshot: %w", err)
	}
	return nil
}

// WriteSummary persists the ledger summary as JSON.
func (r *RunSink) WriteSummary(sum ledger.Summary) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	raw, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger summary: %w", err)
	}
	if err := os.WriteFile(r.store.LedgerPath(r.runID), append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write ledger summary: %w", err)
	}
	return nil
}

// WriteReport persists the rendered run report.
func (r *RunSink) WriteReport(text string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := os.WriteFile(r.store.ReportPath(r.runID), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
