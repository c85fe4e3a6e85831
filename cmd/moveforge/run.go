package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"moveforge/internal/compiler"
	"moveforge/internal/config"
	"moveforge/internal/llm"
	"moveforge/internal/prompt"
	"moveforge/internal/refine"
	"moveforge/internal/report"
	"moveforge/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run <namespace.prompt>",
	Short: "Generate and refine a contract from a library prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefinement,
}

func init() {
	runCmd.Flags().Int("max-iterations", 0, "override the iteration budget")
	runCmd.Flags().String("model", "", "override the generation model")
	runCmd.Flags().Float64("temperature", -1, "override the sampling temperature")
	runCmd.Flags().Duration("pause", -1, "override the pause between iterations")
}

func runRefinement(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	lib, err := prompt.Load(cfg.PromptsDir)
	if err != nil {
		return err
	}
	entry, err := lib.Get(args[0])
	if err != nil {
		return err
	}

	gen, err := llm.NewOpenAIGenerator(cfg.Model, float32(cfg.Temperature))
	if err != nil {
		return err
	}

	comp := compiler.NewSuiCompiler(cfg.SuiBin, nil)
	comp.KeepWorkspaces = cfg.KeepWorkspaces

	st := store.New(cfg)
	runID := uuid.NewString()
	if err := st.CreateRunLayout(runID); err != nil {
		return err
	}
	sink := st.Sink(runID)

	driver := &refine.Driver{
		Generator:      gen,
		Compiler:       comp,
		MaxIterations:  cfg.MaxIterations,
		Pause:          cfg.IterationPause.Duration(),
		CompileTimeout: cfg.CompileTimeout.Duration(),
		RunID:          runID,
		Sink:           sink,
		Events:         printEvent,
		Logger:         slog.Default(),
	}

	out, err := driver.Run(cmd.Context(), entry.Content, entry.SystemPrompt)
	if err != nil {
		return err
	}

	styled := styledOutput(cmd)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), report.New(styled).Outcome(out))
	fmt.Fprintf(cmd.OutOrStdout(), "\nartifacts: %s\n", st.RunDir(out.RunID))

	// The on-disk report is always plain text.
	if err := sink.WriteReport(report.New(false).Outcome(out)); err != nil {
		return err
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// applyRunFlags layers explicit run flags on top of the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations, _ = cmd.Flags().GetInt("max-iterations")
	}
	if cmd.Flags().Changed("model") {
		cfg.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature, _ = cmd.Flags().GetFloat64("temperature")
	}
	if cmd.Flags().Changed("pause") {
		d, _ := cmd.Flags().GetDuration("pause")
		cfg.SetIterationPause(d)
	}
}

var stateColors = map[refine.State]*color.Color{
	refine.StateGenerating: color.New(color.FgCyan),
	refine.StateCompiling:  color.New(color.FgBlue),
	refine.StateExtracting: color.New(color.FgYellow),
	refine.StateDeciding:   color.New(color.FgMagenta),
	refine.StateSucceeded:  color.New(color.FgGreen, color.Bold),
	refine.StateExhausted:  color.New(color.FgRed, color.Bold),
}

func printEvent(e refine.Event) {
	label := string(e.State)
	if c, ok := stateColors[e.State]; ok {
		label = c.Sprint(label)
	}
	ts := e.At.Format(time.TimeOnly)
	if e.Message != "" {
		fmt.Printf("%s [%d] %-10s %s\n", ts, e.Iteration, label, e.Message)
		return
	}
	fmt.Printf("%s [%d] %s\n", ts, e.Iteration, label)
}
