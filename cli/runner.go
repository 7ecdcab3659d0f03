//go:build !libretro

// Package cli provides a command-line runner for the emulator.
// It handles input polling and runs the emulator in a window without the full UI.
package cli

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/afero"
	emucore "github.com/user-none/eblitui/api"
	bridge "github.com/user-none/emdmg/bridge/ebiten"
	"github.com/user-none/emdmg/emu"
	"github.com/user-none/emdmg/screenshot"
)

// Runner wraps an emulator for command-line mode.
// The frontend polls input and hands it to the core via SetInput.
type Runner struct {
	emulator        *bridge.Emulator
	fs              afero.Fs
	screenshotDir   string
	screenshotScale int
	paused          bool
}

// NewRunner creates a new Runner wrapping the given emulator. Screenshots
// are written to screenshotDir at screenshotScale times native size.
func NewRunner(e *emu.Emulator, screenshotDir string, screenshotScale int) *Runner {
	if screenshotScale < 1 {
		screenshotScale = 1
	}
	return &Runner{
		emulator:        bridge.Wrap(e),
		fs:              afero.NewOsFs(),
		screenshotDir:   screenshotDir,
		screenshotScale: screenshotScale,
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.paused = !r.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		r.takeScreenshot()
	}
	if r.paused {
		return nil
	}

	r.emulator.SetInput(0, pollInput())
	r.emulator.RunFrame()

	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.emulator.DrawToScreen(screen)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}

func (r *Runner) takeScreenshot() {
	frame := screenshot.Frame{
		Pix:    r.emulator.GetFramebuffer(),
		Stride: r.emulator.GetFramebufferStride(),
		Width:  emu.ScreenWidth,
		Height: r.emulator.GetActiveHeight(),
	}
	path, err := screenshot.Save(r.fs, r.screenshotDir, r.emulator.Cartridge().Header.Title, frame, r.screenshotScale)
	if err != nil {
		slog.Error("screenshot failed", "error", err)
		return
	}
	slog.Info("screenshot saved", "path", path)
}

// pollInput reads keyboard and gamepad input into an emucore button mask.
func pollInput() uint32 {
	// Keyboard (WASD + arrows for movement, J/Z and K/X for A and B)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	btnA := ebiten.IsKeyPressed(ebiten.KeyJ) || ebiten.IsKeyPressed(ebiten.KeyZ)
	btnB := ebiten.IsKeyPressed(ebiten.KeyK) || ebiten.IsKeyPressed(ebiten.KeyX)
	sel := ebiten.IsKeyPressed(ebiten.KeyShiftRight) || ebiten.IsKeyPressed(ebiten.KeyBackspace)
	start := ebiten.IsKeyPressed(ebiten.KeyEnter)

	// Gamepad support (all connected gamepads)
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}

		up = up || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop)
		down = down || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)
		left = left || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
		right = right || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)

		// A/Cross = A, B/Circle = B
		btnA = btnA || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		btnB = btnB || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
		sel = sel || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterLeft)
		start = start || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterRight)

		// Left analog stick (with deadzone)
		const deadzone = 0.5
		axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		left = left || axisX < -deadzone
		right = right || axisX > deadzone
		up = up || axisY < -deadzone
		down = down || axisY > deadzone
	}

	mapping := []struct {
		pressed bool
		mask    uint32
	}{
		{up, 1 << emucore.ButtonUp},
		{down, 1 << emucore.ButtonDown},
		{left, 1 << emucore.ButtonLeft},
		{right, 1 << emucore.ButtonRight},
		{btnA, 1 << emu.ButtonA},
		{btnB, 1 << emu.ButtonB},
		{sel, 1 << emu.ButtonSelect},
		{start, 1 << emu.ButtonStart},
	}

	var buttons uint32
	for _, m := range mapping {
		if m.pressed {
			buttons |= m.mask
		}
	}
	return buttons
}
