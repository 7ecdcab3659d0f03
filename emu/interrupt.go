package emu

// Interrupt source bits shared by IE (0xFFFF) and IF (0xFF0F).
const (
	IntVBlank uint8 = 1 << iota
	IntLCD
	IntTimer
	IntSerial
	IntJoypad
)

const intMask = IntVBlank | IntLCD | IntTimer | IntSerial | IntJoypad

// interruptVectors is indexed by source bit position, highest priority first.
var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// interruptPenalty is added to the step following a serviced interrupt.
const interruptPenalty = 5

// Interrupts holds the enable and request masks.
type Interrupts struct {
	Enable uint8 // IE
	Flag   uint8 // IF

	// handled is set when an interrupt was dispatched at the end of the
	// previous step.
	handled bool
}

// Request raises one or more request bits.
func (i *Interrupts) Request(mask uint8) {
	i.Flag |= mask
}

// Pending returns the requested and enabled sources.
func (i *Interrupts) Pending() uint8 {
	return i.Enable & i.Flag & intMask
}

// next returns the highest priority pending source and its vector.
func (i *Interrupts) next() (uint8, uint16, bool) {
	pending := i.Pending()
	for n := 0; n < len(interruptVectors); n++ {
		bit := uint8(1) << n
		if pending&bit != 0 {
			return bit, interruptVectors[n], true
		}
	}
	return 0, 0, false
}
