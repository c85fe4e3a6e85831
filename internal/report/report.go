// Package report renders grouped diagnostics and run summaries for the
// terminal and for on-disk run reports.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moveforge/internal/diag"
	"moveforge/internal/ledger"
	"moveforge/internal/refine"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleSuccess = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleFailure = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Renderer produces report text. With styling disabled it emits plain text
// suitable for files and pipes.
type Renderer struct {
	styled bool
}

func New(styled bool) *Renderer {
	return &Renderer{styled: styled}
}

func (r *Renderer) render(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Groups renders one compile attempt's diagnostics, one block per
// classification code in first-seen order.
func (r *Renderer) Groups(groups *diag.Groups) string {
	if groups == nil || groups.Len() == 0 {
		return r.render(styleSuccess, "no diagnostics") + "\n"
	}

	var b strings.Builder
	for _, code := range groups.Codes() {
		members := groups.Get(code)
		fmt.Fprintf(&b, "%s ×%d\n", r.render(styleCode, string(code)), len(members))
		for _, d := range members {
			loc := d.Location()
			if loc == "" {
				loc = "-"
			}
			fmt.Fprintf(&b, "  %s  %s\n", r.render(styleMuted, loc), d.Message)
		}
	}

	stats := groups.Stats()
	fmt.Fprintf(&b, "\n%d errors, %d compiler warnings, %d linter warnings\n",
		stats.Errors, stats.CompilerWarnings, stats.LinterWarnings)
	return b.String()
}

// Outcome renders a finished run: header, the per-code occurrence series
// across iterations, and the iteration-over-iteration deltas.
func (r *Renderer) Outcome(out refine.Outcome) string {
	var b strings.Builder

	status := r.render(styleFailure, string(out.Status))
	if out.Status == refine.StatusSuccess {
		status = r.render(styleSuccess, string(out.Status))
	}
	fmt.Fprintf(&b, "%s %s after %d iteration(s)\n",
		r.render(styleHeader, "run "+out.RunID), status, out.Iterations)

	if len(out.Summary.Codes) > 0 {
		b.WriteString("\n")
		b.WriteString(r.seriesTable(out.Summary))
	}
	if deltas := r.deltaLines(out.Summary); deltas != "" {
		b.WriteString("\n")
		b.WriteString(deltas)
	}
	return b.String()
}

// seriesTable lays out one row per classification code, one column per
// iteration, padded so every row has the same number of cells.
func (r *Renderer) seriesTable(sum ledger.Summary) string {
	codeWidth := len("code")
	for _, code := range sum.Codes {
		if len(code) > codeWidth {
			codeWidth = len(code)
		}
	}

	var b strings.Builder
	header := fmt.Sprintf("%-*s", codeWidth, "code")
	for i := 1; i <= sum.Iterations; i++ {
		header += fmt.Sprintf(" %4d", i)
	}
	b.WriteString(r.render(styleHeader, header))
	b.WriteString("\n")

	for _, code := range sum.Codes {
		fmt.Fprintf(&b, "%-*s", codeWidth, code)
		for _, n := range sum.Series[code] {
			fmt.Fprintf(&b, " %4d", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) deltaLines(sum ledger.Summary) string {
	if len(sum.Snapshots) < 2 {
		return ""
	}
	var b strings.Builder
	for i := 1; i < len(sum.Snapshots); i++ {
		prev, cur := sum.Snapshots[i-1].Stats, sum.Snapshots[i].Stats
		fmt.Fprintf(&b, "iteration %d: %+d errors, %+d compiler warnings, %+d linter warnings\n",
			sum.Snapshots[i].Iteration,
			cur.Errors-prev.Errors,
			cur.CompilerWarnings-prev.CompilerWarnings,
			cur.LinterWarnings-prev.LinterWarnings)
	}
	return b.String()
}
