package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"gridstep/internal/bench"
	"gridstep/internal/metrics"
)

var (
	benchSteps      int
	benchMinThreads int
	benchMaxThreads int
	benchFormat     string
	benchTop        int
	benchMetricsOut string
)

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	rep, err := bench.Run(cfg, bench.Options{
		Steps:      benchSteps,
		MinThreads: benchMinThreads,
		MaxThreads: benchMaxThreads,
		Logger:     slog.Default(),
		Observer:   rec,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch benchFormat {
	case "yaml":
		err = bench.WriteYAML(out, rep)
	case "table":
		err = bench.WriteTable(out, rep, benchTop)
	default:
		err = fmt.Errorf("unknown format %q", benchFormat)
	}
	if err != nil {
		return err
	}

	if benchMetricsOut != "" {
		if err := rec.WriteTextfile(benchMetricsOut); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		slog.Info("metrics written", "path", benchMetricsOut)
	}
	return nil
}
