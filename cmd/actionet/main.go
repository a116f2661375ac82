// SPDX-License-Identifier: MIT

// Command actionet runs the multi-resolution archetypal decomposition on a
// numeric CSV matrix.
//
//	actionet run --input data.csv --config run.yaml --assignments labels.csv
//	actionet config defaults.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/actionet/config"
	"github.com/katalvlaran/actionet/multires"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// run flags
	inputPath       string
	assignmentsPath string
	samplesInRows   bool
	kMin, kMax      int
	threads         int
	specificityTh   float64
	minCells        int
	unificationTh   float64

	logger *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

var rootCmd = &cobra.Command{
	Use:   "actionet",
	Short: "Multi-resolution archetypal decomposition",
	Long: `actionet decomposes a features × samples matrix at every resolution in
[k_min, k_max], prunes archetypes that are not specific or not supported,
merges redundant ones and assigns every sample to a unified archetype.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			level.SetLevel(zapcore.DebugLevel)
		}
		cfg.Level = level
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Decompose a CSV matrix",
	Long: `Reads a numeric CSV (features in rows, samples in columns unless
--samples-in-rows), runs the pipeline with the parameters from --config and the
flag overrides, prints a summary and optionally writes the hard assignment.`,
	Args: cobra.NoArgs,
	RunE: runDecomposition,
}

var configCmd = &cobra.Command{
	Use:   "config <path>",
	Short: "Write the default configuration as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Default().Save(args[0]); err != nil {
			return err
		}
		logger.Info("default configuration written", zap.String("path", args[0]))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input CSV matrix (required)")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML run configuration")
	runCmd.Flags().StringVarP(&assignmentsPath, "assignments", "o", "", "Write sample,label CSV here")
	runCmd.Flags().BoolVar(&samplesInRows, "samples-in-rows", false, "Input rows are samples")
	runCmd.Flags().IntVar(&kMin, "k-min", multires.DefaultKMin, "Smallest resolution")
	runCmd.Flags().IntVar(&kMax, "k-max", multires.DefaultKMax, "Largest resolution")
	runCmd.Flags().IntVar(&threads, "threads", 0, "Worker budget (0 = NumCPU-2)")
	runCmd.Flags().Float64Var(&specificityTh, "specificity-th", multires.DefaultSpecificityThreshold, "Pruning z-score threshold")
	runCmd.Flags().IntVar(&minCells, "min-cells", multires.DefaultMinCellsPerArchetype, "Minimum samples per archetype")
	runCmd.Flags().Float64Var(&unificationTh, "unification-th", multires.DefaultUnificationThreshold, "Merge threshold in [0,1]")
	_ = runCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDecomposition loads the configuration and data, runs the pipeline and
// reports the result.
func runDecomposition(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if lvl, _ := cfg.Level(); !verbose {
		level.SetLevel(lvl)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	S, err := readMatrix(f, samplesInRows)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}
	d, n := S.Dims()
	logger.Debug("matrix loaded", zap.String("path", inputPath), zap.Int("features", d), zap.Int("samples", n))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := multires.Run(ctx, S, append(cfg.Options(), multires.WithLogger(logger))...)
	if err != nil {
		return err
	}
	writeSummary(cmd.OutOrStdout(), res)

	if assignmentsPath == "" {
		return nil
	}
	out, err := os.Create(assignmentsPath)
	if err != nil {
		return fmt.Errorf("failed to create assignments: %w", err)
	}
	if err = writeAssignments(out, res.Unified.Assignment); err != nil {
		_ = out.Close()
		return err
	}
	logger.Info("assignments written", zap.String("path", assignmentsPath))

	return out.Close()
}

// loadConfig reads --config (defaults when empty) and applies the flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("k-min") {
		cfg.KMin = kMin
	}
	if flags.Changed("k-max") {
		cfg.KMax = kMax
	}
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
	if flags.Changed("specificity-th") {
		cfg.SpecificityThreshold = specificityTh
	}
	if flags.Changed("min-cells") {
		cfg.MinCellsPerArchetype = minCells
	}
	if flags.Changed("unification-th") {
		cfg.UnificationThreshold = unificationTh
	}

	return cfg, cfg.Validate()
}
