package emu

import "log/slog"

// CPUMode is the execution state of the interpreter.
type CPUMode int

const (
	ModeNormal CPUMode = iota
	ModeHalt
)

// CPU is the SM83 instruction interpreter. It drives the bus: every step
// advances the timer, DMA and PPU by the cycles it consumed, then services
// interrupts.
type CPU struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16
	IME  bool

	mode CPUMode
	bus  *Bus

	logger        *slog.Logger
	unknownLogged [256]bool
}

// NewCPU creates an interpreter driving bus.
func NewCPU(bus *Bus) *CPU {
	return &CPU{
		bus:    bus,
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for diagnostics.
func (c *CPU) SetLogger(l *slog.Logger) {
	c.logger = l
}

// -----------------------------------------------------------------------------
// Register pairs
// -----------------------------------------------------------------------------

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// SetAF masks the low nibble of F, which always reads zero.
func (c *CPU) SetAF(v uint16) { c.A, c.F = uint8(v>>8), uint8(v)&0xF0 }
func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// Mode returns the execution state.
func (c *CPU) Mode() CPUMode { return c.mode }

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool { return c.mode == ModeHalt }

func (c *CPU) flag(f uint8) bool { return c.F&f != 0 }

// -----------------------------------------------------------------------------
// Fetch and stack
// -----------------------------------------------------------------------------

func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

// push writes a word below SP, high byte first.
func (c *CPU) push(v uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(v>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(v))
}

// pop reads the word at SP and releases it.
func (c *CPU) pop() uint16 {
	lo := c.bus.Read(c.SP)
	c.SP++
	hi := c.bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// -----------------------------------------------------------------------------
// Step
// -----------------------------------------------------------------------------

// Step executes one instruction, advances the bus by its cost and then
// services interrupts. It returns the M-cycles consumed.
func (c *CPU) Step() int {
	var op uint8
	if c.mode == ModeHalt {
		op = 0x76
	} else {
		op = c.fetch()
	}

	cycles := int(opCycles[op])
	if c.bus.irq.handled {
		cycles += interruptPenalty
	}
	cycles += opTable[op](c)

	c.bus.Tick(cycles)
	c.serviceInterrupts()

	return cycles
}

// serviceInterrupts wakes a halted CPU on any pending source and, when IME
// is set, dispatches the highest priority one.
func (c *CPU) serviceInterrupts() {
	irq := c.bus.irq
	pending := irq.Pending() != 0

	if c.mode == ModeHalt && pending {
		c.mode = ModeNormal
	}

	irq.handled = c.IME && pending
	if !irq.handled {
		return
	}

	bit, vector, _ := irq.next()
	c.IME = false
	c.push(c.PC)
	irq.Flag &^= bit
	c.PC = vector
}

// unknown reports an illegal opcode once and treats it as a no-op.
func (c *CPU) unknown(op uint8) {
	if c.unknownLogged[op] {
		return
	}
	c.unknownLogged[op] = true
	c.logger.Warn("unknown opcode", "opcode", op, "pc", c.PC-1)
}
