package emu

// Serial and interrupt register addresses.
const (
	regSB = 0xFF01
	regSC = 0xFF02
	regIF = 0xFF0F
)

// Serial stores the link registers. No transfer is performed.
type Serial struct {
	SB uint8
	SC uint8
}

// readIO decodes an I/O register read by exact address.
func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == regJOYP:
		return b.joypad.Read()
	case addr == regSB:
		return b.serial.SB
	case addr == regSC:
		return b.serial.SC
	case addr >= regDIV && addr <= regTAC:
		return b.timer.Read(addr)
	case addr == regIF:
		return b.irq.Flag
	case addr == regIE:
		return b.irq.Enable
	case addr == regDMA:
		return b.dma.reg
	case addr >= regLCDC && addr <= regWX:
		return b.ppu.ReadRegister(addr)
	}
	return 0xFF
}

// writeIO decodes an I/O register write by exact address. Writes to
// registers with no effect are dropped.
func (b *Bus) writeIO(addr uint16, val uint8) {
	switch {
	case addr == regJOYP:
		b.joypad.Write(val)
	case addr == regSB:
		b.serial.SB = val
	case addr == regSC:
		b.serial.SC = val
	case addr >= regDIV && addr <= regTAC:
		b.timer.Write(addr, val)
	case addr == regIF:
		b.irq.Flag = val
	case addr == regIE:
		b.irq.Enable = val
	case addr == regDMA:
		b.dma.Start(val)
	case addr >= regLCDC && addr <= regWX:
		b.ppu.WriteRegister(addr, val)
	}
}
