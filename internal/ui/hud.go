//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"gridstep/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 8
	lineHeight   = 16
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders the live run parameters in a panel to the right of the history
// view. The + and - keys change the thread count of every stage.
type HUD struct {
	source   parameterProvider
	setter   core.IntParameterSetter
	width    int
	panel    *ebiten.Image
	snapshot core.ParameterSnapshot

	status string
}

// NewHUD constructs a HUD reading from source. source may also implement
// core.IntParameterSetter to allow thread changes.
func NewHUD(source parameterProvider, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{source: source, width: width}
	if setter, ok := source.(core.IntParameterSetter); ok {
		h.setter = setter
	}
	return h
}

// SetStatus replaces the free-form status line, e.g. the last step latency.
func (h *HUD) SetStatus(s string) {
	if h == nil {
		return
	}
	h.status = s
}

// Update refreshes the cached snapshot and handles thread adjustments.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	h.snapshot = h.source.Parameters()
	if h.setter == nil {
		return
	}
	threads := 0
	if p, ok := h.snapshot.Lookup("threads.0"); ok {
		threads, _ = strconv.Atoi(p.Value)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		h.setter.SetIntParameter("threads", threads+1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		h.setter.SetIntParameter("threads", threads-1)
	default:
		return
	}
	h.snapshot = h.source.Parameters()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	height := screen.Bounds().Dy()
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 24, G: 24, B: 30, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + lineHeight
	for _, g := range h.snapshot.Groups {
		text.Draw(h.panel, g.Name, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
		y += lineHeight
		for _, p := range g.Params {
			line := fmt.Sprintf("  %s: %s", p.Label, p.Value)
			text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			y += lineHeight
		}
	}
	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, y+lineHeight, color.RGBA{R: 255, G: 210, B: 90, A: 255})
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
