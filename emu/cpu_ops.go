package emu

// opFunc executes one primary opcode after fetch. It returns cycles spent
// beyond the opCycles base cost (taken branches, CB-prefixed operations).
type opFunc func(c *CPU) int

// opTable is the primary dispatch table, indexed by opcode.
var opTable = buildOpTable()

// -----------------------------------------------------------------------------
// Operand helpers
// -----------------------------------------------------------------------------

// reg reads the 3-bit register operand: B C D E H L (HL) A.
func (c *CPU) reg(i uint8) uint8 {
	switch i & 0x07 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.bus.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setReg(i uint8, v uint8) {
	switch i & 0x07 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.bus.Write(c.HL(), v)
	default:
		c.A = v
	}
}

// pair reads the 2-bit pair operand: BC DE HL SP.
func (c *CPU) pair(i uint8) uint16 {
	switch i & 0x03 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setPair(i uint8, v uint16) {
	switch i & 0x03 {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// stackPair reads the PUSH/POP pair operand: BC DE HL AF.
func (c *CPU) stackPair(i uint8) uint16 {
	if i&0x03 == 3 {
		return c.AF()
	}
	return c.pair(i)
}

func (c *CPU) setStackPair(i uint8, v uint16) {
	if i&0x03 == 3 {
		c.SetAF(v)
		return
	}
	c.setPair(i, v)
}

// cond evaluates the 2-bit condition operand: NZ Z NC C.
func (c *CPU) cond(i uint8) bool {
	switch i & 0x03 {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

// alu applies one of the eight accumulator operations selected by bits 3-5
// of the opcode: ADD ADC SUB SBC AND XOR OR CP.
func (c *CPU) alu(op uint8, v uint8) {
	switch op & 0x07 {
	case 0:
		c.A, c.F = add8(c.A, v, false, c.F)
	case 1:
		c.A, c.F = add8(c.A, v, true, c.F)
	case 2:
		c.A, c.F = sub8(c.A, v, false, c.F)
	case 3:
		c.A, c.F = sub8(c.A, v, true, c.F)
	case 4:
		c.A, c.F = and8(c.A, v)
	case 5:
		c.A, c.F = xor8(c.A, v)
	case 6:
		c.A, c.F = or8(c.A, v)
	default:
		_, c.F = sub8(c.A, v, false, c.F)
	}
}

// -----------------------------------------------------------------------------
// Control flow
// -----------------------------------------------------------------------------

func (c *CPU) jr(taken bool) int {
	e := c.fetch()
	if !taken {
		return 0
	}
	c.PC = uint16(int32(c.PC) + int32(int8(e)))
	return jumpTakenExtra
}

func (c *CPU) jp(taken bool) int {
	nn := c.fetch16()
	if !taken {
		return 0
	}
	c.PC = nn
	return jumpTakenExtra
}

func (c *CPU) call(taken bool) int {
	nn := c.fetch16()
	if !taken {
		return 0
	}
	c.push(c.PC)
	c.PC = nn
	return callTakenExtra
}

func (c *CPU) ret(taken bool) int {
	if !taken {
		return 0
	}
	c.PC = c.pop()
	return retTakenExtra
}

// -----------------------------------------------------------------------------
// Table construction
// -----------------------------------------------------------------------------

func buildOpTable() [256]opFunc {
	var t [256]opFunc

	for i := range t {
		op := uint8(i)
		t[i] = func(c *CPU) int {
			c.unknown(op)
			return 0
		}
	}

	t[0x00] = func(c *CPU) int { return 0 }

	// 16-bit loads and arithmetic
	for p := uint8(0); p < 4; p++ {
		t[0x01|p<<4] = func(c *CPU) int { c.setPair(p, c.fetch16()); return 0 }
		t[0x03|p<<4] = func(c *CPU) int { c.setPair(p, c.pair(p)+1); return 0 }
		t[0x0B|p<<4] = func(c *CPU) int { c.setPair(p, c.pair(p)-1); return 0 }
		t[0x09|p<<4] = func(c *CPU) int {
			var hl uint16
			hl, c.F = addHL(c.HL(), c.pair(p), c.F)
			c.SetHL(hl)
			return 0
		}
		t[0xC1|p<<4] = func(c *CPU) int { c.setStackPair(p, c.pop()); return 0 }
		t[0xC5|p<<4] = func(c *CPU) int { c.push(c.stackPair(p)); return 0 }
	}

	// Indirect accumulator loads
	t[0x02] = func(c *CPU) int { c.bus.Write(c.BC(), c.A); return 0 }
	t[0x12] = func(c *CPU) int { c.bus.Write(c.DE(), c.A); return 0 }
	t[0x22] = func(c *CPU) int { hl := c.HL(); c.bus.Write(hl, c.A); c.SetHL(hl + 1); return 0 }
	t[0x32] = func(c *CPU) int { hl := c.HL(); c.bus.Write(hl, c.A); c.SetHL(hl - 1); return 0 }
	t[0x0A] = func(c *CPU) int { c.A = c.bus.Read(c.BC()); return 0 }
	t[0x1A] = func(c *CPU) int { c.A = c.bus.Read(c.DE()); return 0 }
	t[0x2A] = func(c *CPU) int { hl := c.HL(); c.A = c.bus.Read(hl); c.SetHL(hl + 1); return 0 }
	t[0x3A] = func(c *CPU) int { hl := c.HL(); c.A = c.bus.Read(hl); c.SetHL(hl - 1); return 0 }

	// 8-bit INC, DEC, LD r,d8
	for r := uint8(0); r < 8; r++ {
		t[0x04|r<<3] = func(c *CPU) int {
			v, f := inc8(c.reg(r), c.F)
			c.setReg(r, v)
			c.F = f
			return 0
		}
		t[0x05|r<<3] = func(c *CPU) int {
			v, f := dec8(c.reg(r), c.F)
			c.setReg(r, v)
			c.F = f
			return 0
		}
		t[0x06|r<<3] = func(c *CPU) int { c.setReg(r, c.fetch()); return 0 }
	}

	// Accumulator rotates clear Z
	t[0x07] = func(c *CPU) int { c.A, c.F = rlc(c.A); c.F &^= flagZ; return 0 }
	t[0x0F] = func(c *CPU) int { c.A, c.F = rrc(c.A); c.F &^= flagZ; return 0 }
	t[0x17] = func(c *CPU) int { c.A, c.F = rl(c.A, c.F); c.F &^= flagZ; return 0 }
	t[0x1F] = func(c *CPU) int { c.A, c.F = rr(c.A, c.F); c.F &^= flagZ; return 0 }

	t[0x08] = func(c *CPU) int { c.bus.Write16(c.fetch16(), c.SP); return 0 }

	// STOP is treated as a two-byte no-op
	t[0x10] = func(c *CPU) int { c.fetch(); return 0 }

	// Relative jumps
	t[0x18] = func(c *CPU) int { c.jr(true); return 0 }
	for cc := uint8(0); cc < 4; cc++ {
		t[0x20|cc<<3] = func(c *CPU) int { return c.jr(c.cond(cc)) }
		t[0xC0|cc<<3] = func(c *CPU) int { return c.ret(c.cond(cc)) }
		t[0xC2|cc<<3] = func(c *CPU) int { return c.jp(c.cond(cc)) }
		t[0xC4|cc<<3] = func(c *CPU) int { return c.call(c.cond(cc)) }
	}

	t[0x27] = func(c *CPU) int { c.A, c.F = daa(c.A, c.F); return 0 }
	t[0x2F] = func(c *CPU) int { c.A, c.F = cpl(c.A, c.F); return 0 }
	t[0x37] = func(c *CPU) int { c.F = scf(c.F); return 0 }
	t[0x3F] = func(c *CPU) int { c.F = ccf(c.F); return 0 }

	// LD r,r' and HALT
	for op := 0x40; op <= 0x7F; op++ {
		dst, src := uint8(op>>3)&0x07, uint8(op)&0x07
		t[op] = func(c *CPU) int { c.setReg(dst, c.reg(src)); return 0 }
	}
	t[0x76] = func(c *CPU) int { c.mode = ModeHalt; return 0 }

	// ALU A,r and ALU A,d8
	for op := 0x80; op <= 0xBF; op++ {
		kind, src := uint8(op>>3)&0x07, uint8(op)&0x07
		t[op] = func(c *CPU) int { c.alu(kind, c.reg(src)); return 0 }
	}
	for kind := uint8(0); kind < 8; kind++ {
		t[0xC6|kind<<3] = func(c *CPU) int { c.alu(kind, c.fetch()); return 0 }
		t[0xC7|kind<<3] = func(c *CPU) int { c.push(c.PC); c.PC = uint16(kind) << 3; return 0 }
	}

	// Unconditional control flow
	t[0xC3] = func(c *CPU) int { c.jp(true); return 0 }
	t[0xCD] = func(c *CPU) int { c.call(true); return 0 }
	t[0xC9] = func(c *CPU) int { c.ret(true); return 0 }
	t[0xD9] = func(c *CPU) int { c.ret(true); c.IME = true; return 0 }
	t[0xE9] = func(c *CPU) int { c.PC = c.HL(); return 0 }

	t[0xCB] = func(c *CPU) int {
		op := c.fetch()
		cbTable[op](c, op)
		return int(cbCycles[op])
	}

	// High page and absolute loads
	t[0xE0] = func(c *CPU) int { c.bus.Write(0xFF00|uint16(c.fetch()), c.A); return 0 }
	t[0xF0] = func(c *CPU) int { c.A = c.bus.Read(0xFF00 | uint16(c.fetch())); return 0 }
	t[0xE2] = func(c *CPU) int { c.bus.Write(0xFF00|uint16(c.C), c.A); return 0 }
	t[0xF2] = func(c *CPU) int { c.A = c.bus.Read(0xFF00 | uint16(c.C)); return 0 }
	t[0xEA] = func(c *CPU) int { c.bus.Write(c.fetch16(), c.A); return 0 }
	t[0xFA] = func(c *CPU) int { c.A = c.bus.Read(c.fetch16()); return 0 }

	// Stack pointer arithmetic
	t[0xE8] = func(c *CPU) int { c.SP, c.F = addSigned(c.SP, c.fetch()); return 0 }
	t[0xF8] = func(c *CPU) int {
		var hl uint16
		hl, c.F = addSigned(c.SP, c.fetch())
		c.SetHL(hl)
		return 0
	}
	t[0xF9] = func(c *CPU) int { c.SP = c.HL(); return 0 }

	t[0xF3] = func(c *CPU) int { c.IME = false; return 0 }
	t[0xFB] = func(c *CPU) int { c.IME = true; return 0 }

	return t
}
