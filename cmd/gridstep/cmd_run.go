package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"gridstep/internal/core"
	"gridstep/internal/sim"
)

var (
	runSteps   int
	runPreview int
)

func runRun(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runSteps < 0 {
		return fmt.Errorf("%w: steps %d", core.ErrInvalidConfiguration, runSteps)
	}

	d, err := sim.FromConfig(cfg, nil, sim.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, d.Close()) }()

	out := cmd.OutOrStdout()
	printSummary(out, d.Current(), runPreview)

	start := time.Now()
	if err := d.AdvanceN(runSteps); err != nil {
		return err
	}
	elapsed := time.Since(start)

	printSummary(out, d.Current(), runPreview)
	if runSteps > 0 {
		fmt.Fprintf(out, "%d steps in %s (%s/step)\n", runSteps, elapsed.Round(time.Microsecond),
			(elapsed / time.Duration(runSteps)).Round(time.Microsecond))
	}
	return nil
}

func printSummary(w io.Writer, g *core.Generation, preview int) {
	n := max(0, min(preview, g.Len()))
	fmt.Fprintf(w, "generation %d checksum=%016x\n", g.Index(), g.Checksum())
	fmt.Fprintf(w, "  a=%v\n  b=%v\n  c=%v\n",
		g.Field(core.FieldA)[:n], g.Field(core.FieldB)[:n], g.Field(core.FieldC)[:n])
}
