package emu

// Bus routes CPU, DMA and PPU accesses to the owning component. It also
// owns every time-driven subsystem so one step can advance them together.
type Bus struct {
	mem    *Memory
	cart   *Cartridge
	ppu    *PPU
	timer  *Timer
	dma    *DMA
	joypad *Joypad
	serial *Serial
	irq    *Interrupts
}

// NewBus wires the subsystems around a cartridge.
func NewBus(cart *Cartridge) *Bus {
	mem := &Memory{}
	irq := &Interrupts{}
	return &Bus{
		mem:    mem,
		cart:   cart,
		ppu:    NewPPU(mem, irq),
		timer:  NewTimer(irq),
		dma:    &DMA{},
		joypad: &Joypad{},
		serial: &Serial{},
		irq:    irq,
	}
}

// Read returns the byte at addr.
func (b *Bus) Read(addr uint16) uint8 {
	switch decode(addr) {
	case regionROM:
		return b.cart.Read(addr)
	case regionVRAM:
		return b.mem.vram[addr-vramStart]
	case regionExtRAM:
		if !b.cart.HasRAM() {
			return 0xFF
		}
		return b.cart.Read(addr)
	case regionWRAM:
		return b.mem.wram[addr-wramStart]
	case regionEcho:
		return b.mem.wram[echoOffset(addr)]
	case regionOAM:
		return b.mem.oam[addr-oamStart]
	case regionUnused:
		return b.mem.unused[addr-unusedStart]
	case regionIO:
		return b.readIO(addr)
	default:
		return b.mem.hram[addr-hramStart]
	}
}

// Write stores val at addr.
func (b *Bus) Write(addr uint16, val uint8) {
	switch decode(addr) {
	case regionROM:
		b.cart.Write(addr, val)
	case regionVRAM:
		b.mem.vram[addr-vramStart] = val
	case regionExtRAM:
		if b.cart.HasRAM() {
			b.cart.Write(addr, val)
		}
	case regionWRAM:
		b.mem.wram[addr-wramStart] = val
	case regionEcho:
		b.mem.wram[echoOffset(addr)] = val
	case regionOAM:
		b.mem.oam[addr-oamStart] = val
	case regionUnused:
		b.mem.unused[addr-unusedStart] = val
	case regionIO:
		b.writeIO(addr, val)
	default:
		b.mem.hram[addr-hramStart] = val
	}
}

// Read16 reads a little-endian word.
func (b *Bus) Read16(addr uint16) uint16 {
	return uint16(b.Read(addr)) | uint16(b.Read(addr+1))<<8
}

// Write16 writes a little-endian word.
func (b *Bus) Write16(addr uint16, val uint16) {
	b.Write(addr, uint8(val))
	b.Write(addr+1, uint8(val>>8))
}

// Tick advances timer, DMA and PPU by cycles, then re-evaluates the STAT
// interrupt line.
func (b *Bus) Tick(cycles int) {
	b.timer.Tick(cycles)
	b.dma.Tick(cycles, b)
	b.ppu.Tick(cycles)
	b.ppu.checkStat()
}

// Interrupts returns the interrupt controller.
func (b *Bus) Interrupts() *Interrupts { return b.irq }

// PPU returns the pixel processing unit.
func (b *Bus) PPU() *PPU { return b.ppu }

// Timer returns the timer.
func (b *Bus) Timer() *Timer { return b.timer }

// DMA returns the OAM DMA sequencer.
func (b *Bus) DMA() *DMA { return b.dma }

// Joypad returns the joypad latch.
func (b *Bus) Joypad() *Joypad { return b.joypad }

// Cartridge returns the loaded cartridge.
func (b *Bus) Cartridge() *Cartridge { return b.cart }
