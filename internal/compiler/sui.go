package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const defaultPackageName = "generated"

// moveTomlTemplate stages a throwaway package around the generated module so
// `sui move build` has something to chew on.
const moveTomlTemplate = `[package]
name = "%s"
edition = "2024.beta"

[addresses]
%s = "0x0"
`

// SuiCompiler shells out to the `sui` binary. A failed build triggers a
// second run with --json-errors to capture the machine-readable payload the
// human run does not emit.
type SuiCompiler struct {
	SuiBin      string
	PackageName string
	Runner      Runner

	// KeepWorkspaces leaves staged build directories on disk so failed
	// attempts can be inspected by hand.
	KeepWorkspaces bool
}

func NewSuiCompiler(suiBin string, runner Runner) *SuiCompiler {
	if runner == nil {
		runner = OSRunner{}
	}
	return &SuiCompiler{
		SuiBin:      suiBin,
		PackageName: defaultPackageName,
		Runner:      runner,
	}
}

func (c *SuiCompiler) Compile(ctx context.Context, source string) (Result, error) {
	dir, err := os.MkdirTemp("", "moveforge-build-")
	if err != nil {
		return Result{}, fmt.Errorf("create build workspace: %w", err)
	}
	// The workspace is scoped to this single attempt and must never be
	// visible to the next one.
	if !c.KeepWorkspaces {
		defer os.RemoveAll(dir)
	}

	if err := c.stagePackage(dir, source); err != nil {
		return Result{}, err
	}

	var human bytes.Buffer
	exitCode, runErr := c.Runner.Run(ctx, CommandSpec{
		Name: c.SuiBin,
		Args: []string{"move", "build", "--path", dir},
		Dir:  dir,
	}, &human, &human)
	if runErr != nil && exitCode < 0 {
		return Result{}, fmt.Errorf("invoke %s: %w", c.SuiBin, runErr)
	}

	res := Result{
		ExitCode:    exitCode,
		HumanOutput: StripANSI(human.String()),
	}
	if exitCode == 0 {
		res.Success = true
		return res, nil
	}

	var machine bytes.Buffer
	jsonExit, jsonErr := c.Runner.Run(ctx, CommandSpec{
		Name: c.SuiBin,
		Args: []string{"move", "build", "--path", dir, "--json-errors"},
		Dir:  dir,
	}, &machine, &machine)
	if jsonErr != nil && jsonExit < 0 {
		return Result{}, fmt.Errorf("invoke %s --json-errors: %w", c.SuiBin, jsonErr)
	}
	res.RawDiagnostics = machine.String()
	return res, nil
}

func (c *SuiCompiler) stagePackage(dir, source string) error {
	name := strings.TrimSpace(c.PackageName)
	if name == "" {
		name = defaultPackageName
	}
	if err := os.MkdirAll(filepath.Join(dir, "sources"), 0o755); err != nil {
		return fmt.Errorf("create sources directory: %w", err)
	}
	moveToml := fmt.Sprintf(moveTomlTemplate, name, name)
	if err := os.WriteFile(filepath.Join(dir, "Move.toml"), []byte(moveToml), 0o644); err != nil {
		return fmt.Errorf("write Move.toml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sources", "contract.move"), []byte(source), 0o644); err != nil {
		return fmt.Errorf("write contract source: %w", err)
	}
	return nil
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes terminal color/control sequences from compiler output so
// feedback and logs stay plain text.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
