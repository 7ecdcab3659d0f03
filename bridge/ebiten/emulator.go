//go:build !libretro && !ios

// Package ebiten provides an Ebiten-specific wrapper for the emulator.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emdmg/emu"
)

// Emulator wraps emu.Emulator with Ebiten-specific functionality
type Emulator struct {
	*emu.Emulator

	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewEmulator creates a new emulator instance with Ebiten rendering.
func NewEmulator(rom []byte, region emu.Region) (*Emulator, error) {
	base, err := emu.NewEmulator(rom, region)
	if err != nil {
		return nil, err
	}
	return Wrap(&base), nil
}

// Wrap attaches Ebiten rendering to an existing core.
func Wrap(e *emu.Emulator) *Emulator {
	return &Emulator{Emulator: e}
}

// DrawToScreen renders the emulator framebuffer to the given screen,
// scaled to fit and centered.
func (e *Emulator) DrawToScreen(screen *ebiten.Image) {
	src := e.GetFramebufferImage()
	if src == nil {
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(emu.ScreenWidth)
	nativeH := float64(emu.ScreenHeight)

	scale := float64(screenW) / nativeW
	if scaleY := float64(screenH) / nativeH; scaleY < scale {
		scale = scaleY
	}

	offsetX := (float64(screenW) - nativeW*scale) / 2
	offsetY := (float64(screenH) - nativeH*scale) / 2

	e.drawOpts = ebiten.DrawImageOptions{}
	e.drawOpts.GeoM.Scale(scale, scale)
	e.drawOpts.GeoM.Translate(offsetX, offsetY)
	e.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(src, &e.drawOpts)
}

func (e *Emulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Return window size so we control scaling in Draw()
	return outsideWidth, outsideHeight
}

// GetFramebufferImage returns the LCD framebuffer as an ebiten.Image at
// native resolution.
func (e *Emulator) GetFramebufferImage() *ebiten.Image {
	if e.offscreen == nil {
		e.offscreen = ebiten.NewImage(emu.ScreenWidth, emu.ScreenHeight)
	}

	fb := e.GetFramebuffer()
	requiredLen := e.GetFramebufferStride() * e.GetActiveHeight()
	if len(fb) < requiredLen {
		return nil
	}
	e.offscreen.WritePixels(fb[:requiredLen])
	return e.offscreen
}
