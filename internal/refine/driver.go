// Package refine runs the generate → compile → extract → decide loop. Each
// iteration asks the generation collaborator for candidate source, compiles
// it, turns the compiler's diagnostics into grouped feedback, and either
// stops or feeds that feedback into the next generation request.
package refine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"moveforge/internal/compiler"
	"moveforge/internal/diag"
	"moveforge/internal/ledger"
	"moveforge/internal/llm"
)

// Status is a run's terminal outcome. Exhaustion is a normal outcome, not an
// error: the caller still gets the last source and the full ledger.
type Status string

const (
	StatusSuccess   Status = "SUCCESS"
	StatusExhausted Status = "EXHAUSTED"
)

// Outcome is what a finished run hands back.
type Outcome struct {
	RunID      string
	Status     Status
	Iterations int

	// Source is the last generated contract source.
	Source string

	Summary ledger.Summary
}

// Sink receives run artifacts as they are produced. Implementations decide
// the format; the driver only pushes.
type Sink interface {
	WriteIteration(iteration int, source string) error
	WriteSummary(sum ledger.Summary) error
}

// Driver owns the sequential refinement loop. It is single-use per Run call
// and never runs iterations concurrently; the ledger is mutated by the
// driver alone.
type Driver struct {
	Generator llm.Generator
	Compiler  compiler.Compiler

	MaxIterations  int
	Pause          time.Duration
	CompileTimeout time.Duration

	// RunID is optional; a fresh UUID is generated when empty.
	RunID string

	// Sink is optional; nil disables artifact persistence.
	Sink Sink
	// Events is optional; it observes every state change.
	Events func(Event)

	Logger *slog.Logger

	runID string
	state State
	now   func() time.Time
}

// Run executes the loop until the contract compiles or MaxIterations is
// spent. Collaborator failures (generation service, compiler environment)
// abort the run; extraction failures do not.
func (d *Driver) Run(ctx context.Context, basePrompt, systemPrompt string) (Outcome, error) {
	if d.Generator == nil || d.Compiler == nil {
		return Outcome{}, errors.New("driver needs a generator and a compiler")
	}
	if d.MaxIterations <= 0 {
		return Outcome{}, errors.New("max iterations must be > 0")
	}
	if d.now == nil {
		d.now = time.Now
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	d.runID = d.RunID
	if d.runID == "" {
		d.runID = uuid.NewString()
	}
	led := ledger.New()
	feedback := ""
	source := ""

	d.state = StateGenerating
	d.emit(1, StateGenerating, "requesting candidate source")

	for iteration := 1; iteration <= d.MaxIterations; iteration++ {
		prompt := basePrompt
		if feedback != "" {
			prompt = basePrompt + "\n\nFeedback from the previous attempt:\n" + feedback
		}
		generated, err := d.Generator.Generate(ctx, prompt, systemPrompt)
		if err != nil {
			return Outcome{}, fmt.Errorf("generate iteration %d: %w", iteration, err)
		}
		source = generated
		if d.Sink != nil {
			if err := d.Sink.WriteIteration(iteration, source); err != nil {
				return Outcome{}, fmt.Errorf("persist iteration %d: %w", iteration, err)
			}
		}

		if err := d.transition(StateCompiling, iteration, "compiling candidate"); err != nil {
			return Outcome{}, err
		}
		res, err := d.compile(ctx, source)
		if err != nil {
			return Outcome{}, fmt.Errorf("compile iteration %d: %w", iteration, err)
		}

		if res.Success {
			led.Record(iteration, nil, true, d.now())
			if err := d.transition(StateDeciding, iteration, "compile succeeded"); err != nil {
				return Outcome{}, err
			}
			if err := d.transition(StateSucceeded, iteration, "contract compiles"); err != nil {
				return Outcome{}, err
			}
			return d.finish(Outcome{
				RunID:      d.runID,
				Status:     StatusSuccess,
				Iterations: iteration,
				Source:     source,
				Summary:    led.Summary(),
			})
		}

		if err := d.transition(StateExtracting, iteration, "extracting diagnostics"); err != nil {
			return Outcome{}, err
		}
		groups := d.extract(log, iteration, &res)
		led.Record(iteration, groups, false, d.now())

		stats := groups.Stats()
		message := fmt.Sprintf("%d errors, %d compiler warnings, %d linter warnings",
			stats.Errors, stats.CompilerWarnings, stats.LinterWarnings)
		if err := d.transition(StateDeciding, iteration, message); err != nil {
			return Outcome{}, err
		}

		if iteration == d.MaxIterations {
			if err := d.transition(StateExhausted, iteration, "iteration budget spent"); err != nil {
				return Outcome{}, err
			}
			return d.finish(Outcome{
				RunID:      d.runID,
				Status:     StatusExhausted,
				Iterations: iteration,
				Source:     source,
				Summary:    led.Summary(),
			})
		}

		feedback = feedbackText(groups, res.HumanOutput)
		if err := d.transition(StateGenerating, iteration+1, "retrying with structured feedback"); err != nil {
			return Outcome{}, err
		}
		// Fixed pause between iterations; the generation service rate-limits.
		if d.Pause > 0 {
			select {
			case <-ctx.Done():
				return Outcome{}, ctx.Err()
			case <-time.After(d.Pause):
			}
		}
	}
	// MaxIterations > 0 means the loop always reaches a terminal state above.
	return Outcome{}, errors.New("refinement loop ended without a terminal state")
}

func (d *Driver) compile(ctx context.Context, source string) (compiler.Result, error) {
	if d.CompileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.CompileTimeout)
		defer cancel()
	}
	return d.Compiler.Compile(ctx, source)
}

// extract parses and groups the compile attempt's diagnostics. Extraction
// failure is contained here: the attempt degrades to an uncategorized bucket
// carrying the raw output, and the loop keeps going.
func (d *Driver) extract(log *slog.Logger, iteration int, res *compiler.Result) *diag.Groups {
	diags, err := diag.Extract(res.RawDiagnostics)
	if err != nil {
		log.Warn("diagnostics extraction failed, keeping raw output",
			"iteration", iteration, "error", err)
		raw := res.RawDiagnostics
		if raw == "" {
			raw = res.HumanOutput
		}
		return diag.Uncategorized(raw)
	}
	groups := diag.Group(diags)
	res.Groups = groups
	return groups
}

func (d *Driver) finish(out Outcome) (Outcome, error) {
	if d.Sink != nil {
		if err := d.Sink.WriteSummary(out.Summary); err != nil {
			return Outcome{}, fmt.Errorf("persist ledger summary: %w", err)
		}
	}
	return out, nil
}
