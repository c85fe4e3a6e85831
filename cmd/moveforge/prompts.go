package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moveforge/internal/prompt"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the prompt library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lib, err := prompt.Load(cfg.PromptsDir)
		if err != nil {
			return err
		}

		paths := lib.List()
		if len(paths) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no prompts found in %s\n", cfg.PromptsDir)
			return nil
		}
		for _, p := range paths {
			if desc := lib.Description(p); desc != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", p, desc)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}
