package compiler

import (
	"context"
	"sync"
)

// FakeCompiler is intended for tests and dry-runs. Each call is recorded;
// the scripted outcome for call n (1-based) decides the result.
type FakeCompiler struct {
	mu    sync.Mutex
	calls []string

	// Script decides the outcome of each call. When nil every attempt
	// succeeds.
	Script func(call int, source string) (Result, error)
}

func (f *FakeCompiler) Compile(ctx context.Context, source string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, source)
	call := len(f.calls)
	f.mu.Unlock()

	if f.Script == nil {
		return Result{Success: true, HumanOutput: "BUILDING generated\nBuild Successful\n"}, nil
	}
	return f.Script(call, source)
}

// Calls returns the sources submitted so far, in order.
func (f *FakeCompiler) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
