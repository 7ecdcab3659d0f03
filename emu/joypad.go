package emu

const regJOYP = 0xFF00

// Button indices in the emucore input bitmask. Directions use
// emucore.ButtonUp/Down/Left/Right (bits 0-3).
const (
	ButtonA      = 4
	ButtonB      = 5
	ButtonSelect = 6
	ButtonStart  = 7
)

// Buttons is the state of the eight inputs. True means pressed.
type Buttons struct {
	A, B, Select, Start   bool
	Right, Left, Up, Down bool
}

// pressedEdge reports whether any button went from released to pressed.
func (b Buttons) pressedEdge(prev Buttons) bool {
	return (b.A && !prev.A) || (b.B && !prev.B) ||
		(b.Select && !prev.Select) || (b.Start && !prev.Start) ||
		(b.Right && !prev.Right) || (b.Left && !prev.Left) ||
		(b.Up && !prev.Up) || (b.Down && !prev.Down)
}

// Joypad multiplexes the D-pad and button groups onto JOYP.
type Joypad struct {
	reg     uint8
	buttons Buttons
}

// released converts a pressed flag to the active-low line level.
func released(pressed bool) uint8 {
	if pressed {
		return 0
	}
	return 1
}

// Read returns JOYP with the selected group in the low nibble.
func (j *Joypad) Read() uint8 {
	selectDPad := j.reg&0x10 == 0
	selectButtons := j.reg&0x20 == 0

	switch {
	case selectDPad:
		return (j.reg & 0xF0) |
			released(j.buttons.Right) |
			released(j.buttons.Left)<<1 |
			released(j.buttons.Up)<<2 |
			released(j.buttons.Down)<<3
	case selectButtons:
		return (j.reg & 0xF0) |
			released(j.buttons.A) |
			released(j.buttons.B)<<1 |
			released(j.buttons.Select)<<2 |
			released(j.buttons.Start)<<3
	}
	return 0xFF
}

// Write stores the selector bits.
func (j *Joypad) Write(val uint8) {
	j.reg = val | (j.reg & 0xCF) | 0xC0
}

// Set replaces the button state and reports whether any button was newly
// pressed.
func (j *Joypad) Set(b Buttons) bool {
	edge := b.pressedEdge(j.buttons)
	j.buttons = b
	return edge
}

// State returns the current button state.
func (j *Joypad) State() Buttons {
	return j.buttons
}
