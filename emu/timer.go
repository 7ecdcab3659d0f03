package emu

// Timer register addresses.
const (
	regDIV  = 0xFF04
	regTIMA = 0xFF05
	regTMA  = 0xFF06
	regTAC  = 0xFF07
)

// timerThresholds is indexed by TAC bits 0-1.
var timerThresholds = [4]uint16{1024, 16, 64, 256}

const dividerMask = 0x3FFF // 14-bit free-running divider

// Timer is the divider plus the TIMA/TMA/TAC counter.
type Timer struct {
	div  uint16
	tima uint8
	tma  uint8
	tac  uint8

	irq *Interrupts
}

// NewTimer creates a timer that raises requests on irq.
func NewTimer(irq *Interrupts) *Timer {
	return &Timer{irq: irq}
}

func (t *Timer) enabled() bool {
	return t.tac&0x04 != 0
}

// Tick advances the divider and, when enabled, the counter.
func (t *Timer) Tick(cycles int) {
	t.div = (t.div + uint16(cycles)) & dividerMask

	threshold := timerThresholds[t.tac&0x03]
	if !t.enabled() || t.div < threshold {
		return
	}
	t.div -= threshold

	if t.tima == 0xFF {
		t.tima = t.tma
		t.irq.Request(IntTimer)
	} else {
		t.tima++
	}
}

// Read returns the visible value of a timer register.
func (t *Timer) Read(addr uint16) uint8 {
	switch addr {
	case regDIV:
		return uint8(t.div >> 6)
	case regTIMA:
		return t.tima
	case regTMA:
		return t.tma
	case regTAC:
		return t.tac
	}
	return 0xFF
}

// Write updates a timer register. Any write to DIV clears the divider.
func (t *Timer) Write(addr uint16, val uint8) {
	switch addr {
	case regDIV:
		t.div = 0
	case regTIMA:
		t.tima = val
	case regTMA:
		t.tma = val
	case regTAC:
		t.tac = val
	}
}

// Divider returns the internal 14-bit divider.
func (t *Timer) Divider() uint16 {
	return t.div
}
