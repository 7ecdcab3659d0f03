package emu

// Address space regions.
const (
	romStart    = 0x0000
	romEnd      = 0x7FFF
	vramStart   = 0x8000
	vramEnd     = 0x9FFF
	extRAMStart = 0xA000
	extRAMEnd   = 0xBFFF
	wramStart   = 0xC000
	wramEnd     = 0xDFFF
	echoStart   = 0xE000
	echoEnd     = 0xFDFF
	oamStart    = 0xFE00
	oamEnd      = 0xFE9F
	unusedStart = 0xFEA0
	unusedEnd   = 0xFEFF
	ioStart     = 0xFF00
	ioEnd       = 0xFF7F
	hramStart   = 0xFF80
	hramEnd     = 0xFFFE
	regIE       = 0xFFFF
)

// echoMask folds echo addresses onto work RAM. 0xE000-0xFDFF & 0xDDFF
// lands in 0xC000-0xDDFF.
const echoMask = 0xDDFF

// Memory holds the console-side RAM arrays.
type Memory struct {
	vram   [0x2000]uint8
	wram   [0x2000]uint8
	oam    [0xA0]uint8
	unused [0x60]uint8
	hram   [0x7F]uint8
}

// region identifies which of the nine address regions an address falls in.
type region int

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnused
	regionIO
	regionHRAM
)

// decode maps an address to its region. 0xFFFF (IE) decodes to the I/O
// region.
func decode(addr uint16) region {
	switch {
	case addr <= romEnd:
		return regionROM
	case addr <= vramEnd:
		return regionVRAM
	case addr <= extRAMEnd:
		return regionExtRAM
	case addr <= wramEnd:
		return regionWRAM
	case addr <= echoEnd:
		return regionEcho
	case addr <= oamEnd:
		return regionOAM
	case addr <= unusedEnd:
		return regionUnused
	case addr <= ioEnd, addr == regIE:
		return regionIO
	default:
		return regionHRAM
	}
}

// echoOffset returns the work RAM index mirrored by an echo address.
func echoOffset(addr uint16) uint16 {
	return (addr & echoMask) - wramStart
}
