package emu

// Flag register bits. The low nibble of F always reads zero.
const (
	flagZ uint8 = 0x80
	flagN uint8 = 0x40
	flagH uint8 = 0x20
	flagC uint8 = 0x10
)

func flagIf(cond bool, flag uint8) uint8 {
	if cond {
		return flag
	}
	return 0
}

func carryIn(f uint8) uint16 {
	if f&flagC != 0 {
		return 1
	}
	return 0
}

// The functions below are pure: each takes operands and the incoming flag
// register and returns the result and the new flag register.

// add8 computes a+b (+carry). H and C come from bits 4 and 8 of the carry
// chain.
func add8(a, b uint8, withCarry bool, f uint8) (uint8, uint8) {
	var d uint16
	if withCarry {
		d = carryIn(f)
	}
	sum := uint16(a) + uint16(b) + d
	chain := sum ^ uint16(a) ^ uint16(b)
	res := uint8(sum)
	return res, flagIf(res == 0, flagZ) |
		flagIf(chain&0x10 != 0, flagH) |
		flagIf(chain&0x100 != 0, flagC)
}

// sub8 computes a-b (-carry). H and C are borrows out of bits 3 and 7.
func sub8(a, b uint8, withCarry bool, f uint8) (uint8, uint8) {
	var d int
	if withCarry {
		d = int(carryIn(f))
	}
	diff := int(a) - int(b) - d
	res := uint8(diff)
	return res, flagN |
		flagIf(res == 0, flagZ) |
		flagIf(int(a&0x0F)-int(b&0x0F)-d < 0, flagH) |
		flagIf(diff < 0, flagC)
}

func and8(a, b uint8) (uint8, uint8) {
	res := a & b
	return res, flagIf(res == 0, flagZ) | flagH
}

func or8(a, b uint8) (uint8, uint8) {
	res := a | b
	return res, flagIf(res == 0, flagZ)
}

func xor8(a, b uint8) (uint8, uint8) {
	res := a ^ b
	return res, flagIf(res == 0, flagZ)
}

// inc8 leaves C untouched.
func inc8(v, f uint8) (uint8, uint8) {
	res := v + 1
	return res, (f & flagC) |
		flagIf(res == 0, flagZ) |
		flagIf(v&0x0F == 0x0F, flagH)
}

// dec8 leaves C untouched.
func dec8(v, f uint8) (uint8, uint8) {
	res := v - 1
	return res, (f & flagC) | flagN |
		flagIf(res == 0, flagZ) |
		flagIf(v&0x0F == 0x00, flagH)
}

// daa decimal-adjusts A after a BCD add or subtract.
func daa(a, f uint8) (uint8, uint8) {
	carry := f&flagC != 0
	if f&flagN == 0 {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if f&flagH != 0 || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if f&flagH != 0 {
			a -= 0x06
		}
	}
	return a, (f & flagN) | flagIf(a == 0, flagZ) | flagIf(carry, flagC)
}

// addHL adds a register pair to HL. H and C come from bits 12 and 16, Z is
// preserved.
func addHL(hl, v uint16, f uint8) (uint16, uint8) {
	sum := uint32(hl) + uint32(v)
	return uint16(sum), (f & flagZ) |
		flagIf((hl&0x0FFF)+(v&0x0FFF) > 0x0FFF, flagH) |
		flagIf(sum > 0xFFFF, flagC)
}

// addSigned adds a signed 8-bit offset to a 16-bit value. H and C come from
// bits 4 and 8 of the low byte; Z and N are cleared.
func addSigned(v uint16, e uint8) (uint16, uint8) {
	res := v + uint16(int16(int8(e)))
	return res, flagIf((v&0x0F)+uint16(e&0x0F) > 0x0F, flagH) |
		flagIf((v&0xFF)+uint16(e) > 0xFF, flagC)
}

func cpl(a, f uint8) (uint8, uint8) {
	return ^a, f | flagN | flagH
}

func scf(f uint8) uint8 {
	return (f & flagZ) | flagC
}

func ccf(f uint8) uint8 {
	return (f & flagZ) | (^f & flagC)
}

// -----------------------------------------------------------------------------
// Rotates and shifts (CB forms set Z from the result)
// -----------------------------------------------------------------------------

func rlc(v uint8) (uint8, uint8) {
	c := v >> 7
	res := v<<1 | c
	return res, flagIf(res == 0, flagZ) | flagIf(c != 0, flagC)
}

func rrc(v uint8) (uint8, uint8) {
	c := v & 0x01
	res := v>>1 | c<<7
	return res, flagIf(res == 0, flagZ) | flagIf(c != 0, flagC)
}

func rl(v, f uint8) (uint8, uint8) {
	res := v<<1 | uint8(carryIn(f))
	return res, flagIf(res == 0, flagZ) | flagIf(v&0x80 != 0, flagC)
}

func rr(v, f uint8) (uint8, uint8) {
	res := v>>1 | uint8(carryIn(f))<<7
	return res, flagIf(res == 0, flagZ) | flagIf(v&0x01 != 0, flagC)
}

func sla(v uint8) (uint8, uint8) {
	res := v << 1
	return res, flagIf(res == 0, flagZ) | flagIf(v&0x80 != 0, flagC)
}

func sra(v uint8) (uint8, uint8) {
	res := v>>1 | v&0x80
	return res, flagIf(res == 0, flagZ) | flagIf(v&0x01 != 0, flagC)
}

func srl(v uint8) (uint8, uint8) {
	res := v >> 1
	return res, flagIf(res == 0, flagZ) | flagIf(v&0x01 != 0, flagC)
}

func swap(v uint8) (uint8, uint8) {
	res := v<<4 | v>>4
	return res, flagIf(res == 0, flagZ)
}

// bitTest sets Z when bit n of v is clear. C is preserved.
func bitTest(n uint, v, f uint8) uint8 {
	return (f & flagC) | flagH | flagIf(v&(1<<n) == 0, flagZ)
}
