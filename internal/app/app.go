//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"gridstep/internal/core"
	"gridstep/internal/render"
	"gridstep/internal/sim"
	"gridstep/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a sim.Driver to the ebiten.Game interface. Every generation is
// pushed as one row of field a into a scrolling history, newest on top.
type Game struct {
	driver  *sim.Driver
	seed    int64
	history *core.ByteGrid
	row     []uint8
	painter *render.GridPainter
	hud     *ui.HUD
	pacer   *core.FixedStep
	levels  int

	scale    int
	panel    int
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided driver.
func New(d *sim.Driver, cfg *Config) *Game {
	length := d.Current().Len()
	palette := render.RampPalette(core.MaxInitialA,
		color.RGBA{R: 10, G: 12, B: 40, A: 255},
		color.RGBA{R: 250, G: 240, B: 200, A: 255})
	g := &Game{
		driver:  d,
		seed:    cfg.Seed,
		history: core.NewByteGrid(length, cfg.History),
		row:     make([]uint8, length),
		painter: render.NewGridPainter(length, cfg.History, palette),
		hud:     ui.NewHUD(d, cfg.Panel),
		pacer:   core.NewFixedStep(cfg.Rate),
		levels:  len(palette),
		scale:   cfg.Scale,
		panel:   cfg.Panel,
	}
	g.pushCurrent()
	return g
}

// Reset reseeds the grid and clears the history.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	initial, err := core.SeededSource{Seed: seed}.Generate(g.driver.Current().Len())
	if err != nil {
		return err
	}
	if err := g.driver.Reset(initial); err != nil {
		return err
	}
	g.history.Clear()
	g.pushCurrent()
	g.tickOnce = false
	return nil
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}

	g.hud.Update()

	steps := g.pacer.Due()
	if g.paused {
		steps = 0
	}
	if g.tickOnce {
		steps = max(steps, 1)
		g.tickOnce = false
	}
	for i := 0; i < steps; i++ {
		start := time.Now()
		if err := g.driver.Advance(); err != nil {
			return err
		}
		g.hud.SetStatus(fmt.Sprintf("step %s", time.Since(start).Round(time.Microsecond)))
		g.pushCurrent()
	}
	return nil
}

func (g *Game) pushCurrent() {
	render.Quantize(g.row, g.driver.Current().Field(core.FieldA), g.levels)
	g.history.Push(g.row)
}

// Draw renders the history and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.history.Cells(), g.scale)
	g.hud.Draw(screen, g.history.W*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.history.W*g.scale + g.panel, g.history.H * g.scale
}
