// Package config layers run configuration: built-in defaults, an optional
// moveforge.toml file, then MOVEFORGE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultBaseDir        = "."
	defaultPromptsDir     = "prompts"
	defaultSuiBin         = "sui"
	defaultModel          = "gpt-4o"
	defaultTemperature    = 0.2
	defaultMaxIterations  = 5
	defaultIterationPause = time.Second
	defaultCompileTimeout = 5 * time.Minute
)

// Config controls a refinement run.
type Config struct {
	// BaseDir is where run artifacts (iteration snapshots, ledger, report)
	// are written.
	BaseDir string `toml:"base_dir"`

	// PromptsDir holds the YAML prompt library.
	PromptsDir string `toml:"prompts_dir"`

	SuiBin string `toml:"sui_bin"`

	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`

	MaxIterations  int      `toml:"max_iterations"`
	IterationPause duration `toml:"iteration_pause"`
	CompileTimeout duration `toml:"compile_timeout"`

	// KeepWorkspaces leaves per-attempt build directories on disk for
	// debugging failed compiles.
	KeepWorkspaces bool `toml:"keep_workspaces"`
}

// duration lets TOML files spell durations as strings ("90s", "2m").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

func Default() Config {
	return Config{
		BaseDir:        defaultBaseDir,
		PromptsDir:     defaultPromptsDir,
		SuiBin:         defaultSuiBin,
		Model:          defaultModel,
		Temperature:    defaultTemperature,
		MaxIterations:  defaultMaxIterations,
		IterationPause: duration(defaultIterationPause),
		CompileTimeout: duration(defaultCompileTimeout),
	}
}

// Load builds the effective configuration. When path is empty,
// "moveforge.toml" in the working directory is used if it exists; a missing
// explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = "moveforge.toml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	cfg.BaseDir = getEnv("MOVEFORGE_BASE_DIR", cfg.BaseDir)
	cfg.PromptsDir = getEnv("MOVEFORGE_PROMPTS_DIR", cfg.PromptsDir)
	cfg.SuiBin = getEnv("MOVEFORGE_SUI_BIN", cfg.SuiBin)
	cfg.Model = getEnv("MOVEFORGE_MODEL", cfg.Model)

	if v := strings.TrimSpace(os.Getenv("MOVEFORGE_TEMPERATURE")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse MOVEFORGE_TEMPERATURE: %w", err)
		}
		cfg.Temperature = f
	}
	if v := strings.TrimSpace(os.Getenv("MOVEFORGE_MAX_ITERATIONS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MOVEFORGE_MAX_ITERATIONS: %w", err)
		}
		cfg.MaxIterations = n
	}
	if v := strings.TrimSpace(os.Getenv("MOVEFORGE_ITERATION_PAUSE")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MOVEFORGE_ITERATION_PAUSE: %w", err)
		}
		cfg.IterationPause = duration(d)
	}
	if v := strings.TrimSpace(os.Getenv("MOVEFORGE_COMPILE_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MOVEFORGE_COMPILE_TIMEOUT: %w", err)
		}
		cfg.CompileTimeout = duration(d)
	}
	if v := strings.TrimSpace(os.Getenv("MOVEFORGE_KEEP_WORKSPACES")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse MOVEFORGE_KEEP_WORKSPACES: %w", err)
		}
		cfg.KeepWorkspaces = b
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return errors.New("base dir is required")
	}
	if strings.TrimSpace(c.PromptsDir) == "" {
		return errors.New("prompts dir is required")
	}
	if strings.TrimSpace(c.SuiBin) == "" {
		return errors.New("sui bin is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("temperature must be in [0, 2]")
	}
	if c.MaxIterations <= 0 {
		return errors.New("max iterations must be > 0")
	}
	if c.IterationPause < 0 {
		return errors.New("iteration pause must be >= 0")
	}
	if c.CompileTimeout <= 0 {
		return errors.New("compile timeout must be > 0")
	}
	return nil
}

// SetIterationPause exists for callers layering flag overrides on top of a
// loaded config; the duration type itself stays internal.
func (c *Config) SetIterationPause(d time.Duration) {
	c.IterationPause = duration(d)
}

func (c Config) RunsDir() string {
	return filepath.Join(c.BaseDir, "runs")
}

func getEnv(k, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return fallback
}
