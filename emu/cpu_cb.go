package emu

// cbFunc executes one 0xCB-prefixed opcode.
type cbFunc func(c *CPU, op uint8)

// cbTable is the secondary dispatch table reached through 0xCB.
var cbTable = buildCBTable()

// shiftOps is indexed by bits 3-5 of CB opcodes 0x00-0x3F.
var shiftOps = [8]func(v, f uint8) (uint8, uint8){
	func(v, _ uint8) (uint8, uint8) { return rlc(v) },
	func(v, _ uint8) (uint8, uint8) { return rrc(v) },
	rl,
	rr,
	func(v, _ uint8) (uint8, uint8) { return sla(v) },
	func(v, _ uint8) (uint8, uint8) { return sra(v) },
	func(v, _ uint8) (uint8, uint8) { return swap(v) },
	func(v, _ uint8) (uint8, uint8) { return srl(v) },
}

func buildCBTable() [256]cbFunc {
	var t [256]cbFunc

	for i := 0x00; i <= 0x3F; i++ {
		shift := shiftOps[(i>>3)&0x07]
		t[i] = func(c *CPU, op uint8) {
			v, f := shift(c.reg(op), c.F)
			c.setReg(op, v)
			c.F = f
		}
	}

	for i := 0x40; i <= 0x7F; i++ {
		t[i] = func(c *CPU, op uint8) {
			c.F = bitTest(uint(op>>3)&0x07, c.reg(op), c.F)
		}
	}

	for i := 0x80; i <= 0xBF; i++ {
		t[i] = func(c *CPU, op uint8) {
			c.setReg(op, c.reg(op)&^(1<<((op>>3)&0x07)))
		}
	}

	for i := 0xC0; i <= 0xFF; i++ {
		t[i] = func(c *CPU, op uint8) {
			c.setReg(op, c.reg(op)|1<<((op>>3)&0x07))
		}
	}

	return t
}
