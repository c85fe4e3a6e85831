// Package ledger accumulates diagnostic group counts across refinement
// iterations and derives the per-code time series consumed by reports and
// persistence sinks.
package ledger

import (
	"time"

	"moveforge/internal/diag"
)

// Snapshot is one completed iteration's outcome.
type Snapshot struct {
	Iteration int               `json:"iteration"`
	Success   bool              `json:"success"`
	Counts    map[diag.Code]int `json:"counts"`
	Stats     diag.Stats        `json:"stats"`
	At        time.Time         `json:"at"`
}

// Ledger is the cross-iteration record of diagnostic populations. It is
// owned and mutated by the refinement driver only; everything it hands out
// is a copy.
type Ledger struct {
	snapshots []Snapshot
	codes     []diag.Code // first-seen order across the whole run
	seen      map[diag.Code]struct{}
}

func New() *Ledger {
	return &Ledger{seen: make(map[diag.Code]struct{})}
}

// Record appends the outcome of one iteration. A nil groups value records a
// clean iteration (a successful compile has no diagnostic population).
func (l *Ledger) Record(iteration int, groups *diag.Groups, success bool, at time.Time) {
	snap := Snapshot{
		Iteration: iteration,
		Success:   success,
		Counts:    map[diag.Code]int{},
		At:        at.UTC(),
	}
	if groups != nil {
		snap.Counts = groups.Counts()
		snap.Stats = groups.Stats()
		for _, code := range groups.Codes() {
			if _, ok := l.seen[code]; !ok {
				l.seen[code] = struct{}{}
				l.codes = append(l.codes, code)
			}
		}
	}
	l.snapshots = append(l.snapshots, snap)
}

// Len returns the number of recorded iterations.
func (l *Ledger) Len() int {
	return len(l.snapshots)
}

// Codes returns every classification code seen so far, in first-seen order.
func (l *Ledger) Codes() []diag.Code {
	out := make([]diag.Code, len(l.codes))
	copy(out, l.codes)
	return out
}

// Series returns, for each code ever seen, its occurrence count per
// iteration. Every series has exactly Len() entries: iterations before a
// code first appeared and iterations where it stopped appearing hold 0.
func (l *Ledger) Series() map[diag.Code][]int {
	out := make(map[diag.Code][]int, len(l.codes))
	for _, code := range l.codes {
		series := make([]int, len(l.snapshots))
		for i, snap := range l.snapshots {
			series[i] = snap.Counts[code]
		}
		out[code] = series
	}
	return out
}

// Delta returns the signed change in coarse stats between the given
// iteration and the previous one. Iteration is 1-based; the first iteration
// has no predecessor and reports false.
func (l *Ledger) Delta(iteration int) (diag.Stats, bool) {
	idx := iteration - 1
	if idx <= 0 || idx >= len(l.snapshots) {
		return diag.Stats{}, false
	}
	cur, prev := l.snapshots[idx].Stats, l.snapshots[idx-1].Stats
	return diag.Stats{
		Errors:           cur.Errors - prev.Errors,
		CompilerWarnings: cur.CompilerWarnings - prev.CompilerWarnings,
		LinterWarnings:   cur.LinterWarnings - prev.LinterWarnings,
	}, true
}

// Snapshots returns a copy of all recorded snapshots in order. Count maps
// are copied too, so callers cannot reach back into the ledger.
func (l *Ledger) Snapshots() []Snapshot {
	out := make([]Snapshot, len(l.snapshots))
	for i, snap := range l.snapshots {
		counts := make(map[diag.Code]int, len(snap.Counts))
		for code, n := range snap.Counts {
			counts[code] = n
		}
		snap.Counts = counts
		out[i] = snap
	}
	return out
}

// Summary is the read-only export of a finished (or in-progress) ledger.
type Summary struct {
	Iterations int                 `json:"iterations"`
	Codes      []diag.Code         `json:"codes"`
	Series     map[diag.Code][]int `json:"series"`
	Snapshots  []Snapshot          `json:"snapshots"`
}

// Summary captures the ledger's current state for sinks and reports.
func (l *Ledger) Summary() Summary {
	return Summary{
		Iterations: len(l.snapshots),
		Codes:      l.Codes(),
		Series:     l.Series(),
		Snapshots:  l.Snapshots(),
	}
}
