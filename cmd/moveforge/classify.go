package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"moveforge/internal/diag"
	"moveforge/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Extract and group compiler diagnostics from raw build output",
	Long: `classify reads raw build output (from a file or stdin), locates the
JSON diagnostics payload, and prints the diagnostics grouped by
classification code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		diags, err := diag.Extract(string(raw))
		switch {
		case errors.Is(err, diag.ErrNoPayload):
			return errors.New("no diagnostics payload found in input")
		case errors.Is(err, diag.ErrMalformedPayload):
			return fmt.Errorf("diagnostics payload is malformed: %w", err)
		case err != nil:
			return err
		}

		groups := diag.Group(diags)
		fmt.Fprint(cmd.OutOrStdout(), report.New(styledOutput(cmd)).Groups(groups))
		return nil
	},
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
		return raw, nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return raw, nil
}
