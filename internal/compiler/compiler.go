// Package compiler wraps the external Move toolchain behind a narrow
// contract: a compile attempt never returns an error for code-level
// failures, only for environment-level ones (missing binary, I/O). Each
// attempt is staged in its own temporary workspace which is removed on
// every exit path.
package compiler

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"moveforge/internal/diag"
)

// Result is the outcome of one compile attempt.
type Result struct {
	Success  bool
	ExitCode int

	// RawDiagnostics is the untouched output of the --json-errors run.
	// Kept even when extraction later fails so nothing is lost.
	RawDiagnostics string

	// HumanOutput is the ANSI-stripped human-readable build output.
	HumanOutput string

	// Groups holds the grouped diagnostics for a failed attempt. The
	// refinement driver populates it whenever extraction succeeds; it is
	// nil otherwise.
	Groups *diag.Groups
}

// Compiler is the external compiler collaborator.
type Compiler interface {
	Compile(ctx context.Context, source string) (Result, error)
}

// CommandSpec describes one toolchain invocation.
type CommandSpec struct {
	Name string
	Args []string
	Dir  string
}

// Runner executes toolchain commands. It exists so tests can script
// invocations without a real toolchain installed.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) (int, error)
}

// OSRunner runs commands via os/exec.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	return -1, err
}
