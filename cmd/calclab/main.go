package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/calclab/internal/cache"
	"github.com/san-kum/calclab/internal/config"
	"github.com/san-kum/calclab/internal/logging"
	"github.com/san-kum/calclab/internal/viz"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	exprs  *cache.Cache
	logger *slog.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "calclab",
		Short:             "definite integrals and Riemann sums in the terminal",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(cfg, exprs)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "text or json")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive visualizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(cfg, exprs)
		},
	}

	rootCmd.AddCommand(
		newIntegrateCmd(),
		newRiemannCmd(),
		newEvalCmd(),
		newPlotCmd(),
		newExamplesCmd(),
		newExportCmd(),
		newBatchCmd(),
		newWatchCmd(),
		newRunsCmd(),
		newServeCmd(),
		tuiCmd,
	)
	return rootCmd
}

// setup loads the config file, applies explicitly set flags over it and
// builds the shared logger and compile cache.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") || cfg.Log.Format == "" {
		cfg.Log.Format = logFormat
	}

	l, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)

	exprs = cache.New(cfg.CacheSize)
	viz.SetTheme(cfg.Plot.Theme)
	viz.Color = colorEnabled()

	logger.Debug("config loaded", "file", configFile, "subdivisions", cfg.Subdivisions, "theme", cfg.Plot.Theme)
	return nil
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func parseBound(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bound %s: %q is not a number", name, s)
	}
	return v, nil
}

// parseBounds reads the A and B positional arguments following EXPR.
func parseBounds(args []string) (float64, float64, error) {
	a, err := parseBound("a", args[1])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseBound("b", args[2])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// intFlag returns the flag value when it was set, otherwise def.
func intFlag(cmd *cobra.Command, name string, def int) int {
	if !cmd.Flags().Changed(name) {
		return def
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return def
	}
	return v
}
