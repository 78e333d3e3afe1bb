// Command gridstep runs the parallel grid stepper headless.
//
// Usage:
//
//	gridstep bench                       # sweep 1..NumCPU threads, 100 steps each
//	gridstep bench --max-threads 8 --set length=200000
//	gridstep run --steps 50 --set threads=4 --set engine=pooled
//	gridstep params --config run.yaml
package main

import (
	"errors"
	"log/slog"
	"os"

	"gridstep/internal/core"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("gridstep failed", "error", err)
		if errors.Is(err, core.ErrInvalidConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
