package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gridstep/internal/config"
)

// --- Global Command Variables ---
var (
	configPath string
	overrides  []string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "gridstep",
		Short: "Step a 1-D cell grid in parallel and measure how it scales",
		Long: `gridstep evolves a grid of {a, b, c} cells through generations with a
fork-join engine and reports per-step latency for each worker count.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	// --- Benchmark ---
	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Time Advance for every thread count from 1 to --max-threads",
		RunE:  runBench, // Defined in cmd_bench.go
	}

	// --- Simulation ---
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Advance the grid a number of steps and print a summary",
		RunE:  runRun, // Defined in cmd_run.go
	}

	// --- Configuration ---
	paramsCmd = &cobra.Command{
		Use:   "params",
		Short: "Print the effective configuration",
		RunE:  runParams, // Defined in cmd_params.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil, "override in key=value form (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	benchCmd.Flags().IntVar(&benchSteps, "steps", 0, "steps per thread count (default from config)")
	benchCmd.Flags().IntVar(&benchMinThreads, "min-threads", 1, "first thread count")
	benchCmd.Flags().IntVar(&benchMaxThreads, "max-threads", 0, "last thread count (default NumCPU)")
	benchCmd.Flags().StringVar(&benchFormat, "format", "table", "table or yaml")
	benchCmd.Flags().IntVar(&benchTop, "top", 3, "fastest thread counts to list")
	benchCmd.Flags().StringVar(&benchMetricsOut, "metrics-out", "", "write Prometheus text metrics to this file")

	runCmd.Flags().IntVar(&runSteps, "steps", 10, "generations to advance")
	runCmd.Flags().IntVar(&runPreview, "preview", 8, "cells to print from the start of the grid")

	rootCmd.AddCommand(benchCmd, runCmd, paramsCmd)
}

// loadConfig applies --config and --set on top of the defaults and validates
// the result.
func loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	kv, err := config.ParseOverrides(overrides)
	if err != nil {
		return cfg, err
	}
	cfg, err = config.FromMap(cfg, kv)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func setupLogging(level string) error {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
