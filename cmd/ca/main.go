//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"gridstep/internal/app"
	"gridstep/internal/sim"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	d, err := sim.FromConfig(cfg.RunConfig(), nil)
	if err != nil {
		slog.Error("build driver", "error", err)
		os.Exit(2)
	}
	defer d.Close()

	game := app.New(d, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("gridstep: " + d.Stages()[0].Engine.Name())
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("viewer stopped", "error", err)
		d.Close()
		os.Exit(1)
	}
}
