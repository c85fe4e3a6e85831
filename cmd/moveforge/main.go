// moveforge generates Sui Move contracts with an LLM and refines them
// against real compiler feedback until they build or the iteration budget
// runs out.
package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moveforge",
	Short: "Feedback-driven Sui Move contract generation",
	Long: `moveforge asks a language model for Move source, compiles it with the
real Sui toolchain, classifies the diagnostics and feeds them back into the
next generation attempt until the contract builds.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().String("config", "", "config file (default moveforge.toml if present)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(func() {
		level := slog.LevelInfo
		if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// styledOutput resolves the --color flag. fatih/color already detects
// non-terminal output for the "auto" case.
func styledOutput(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
	return !color.NoColor
}
