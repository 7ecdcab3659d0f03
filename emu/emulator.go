package emu

import (
	"image"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.BatterySaver = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

const (
	Name       = "emdmg"
	Version    = "0.1.0"
	sampleRate = 48000
)

// Output palettes, lightest shade first.
var (
	paletteGreen = [4][3]uint8{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	}
	paletteGrey = [4][3]uint8{
		{0xFF, 0xFF, 0xFF},
		{0xAA, 0xAA, 0xAA},
		{0x55, 0x55, 0x55},
		{0x00, 0x00, 0x00},
	}
)

// Emulator contains the emulator core components.
type Emulator struct {
	cpu  *CPU
	bus  *Bus
	cart *Cartridge

	region Region
	timing RegionTiming

	palette     [4][3]uint8
	framebuffer *image.RGBA

	// Silent audio, one frame of 16-bit stereo
	audioBuffer []int16
}

// NewEmulator loads a cartridge and puts the machine in its post-boot state.
func NewEmulator(rom []byte, region Region) (Emulator, error) {
	cart, err := NewCartridge(rom)
	if err != nil {
		return Emulator{}, err
	}

	bus := NewBus(cart)
	cpu := NewCPU(bus)
	timing := GetTimingForRegion(region)

	e := Emulator{
		cpu:         cpu,
		bus:         bus,
		cart:        cart,
		region:      region,
		timing:      timing,
		palette:     paletteGreen,
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		audioBuffer: make([]int16, sampleRate/timing.FPS*2),
	}
	e.powerOn()
	e.renderFrame()

	return e, nil
}

// powerOn applies the register state left behind by the boot ROM.
func (e *Emulator) powerOn() {
	c := e.cpu
	c.mode = ModeNormal
	c.PC = 0x0100
	c.A, c.F = 0x01, 0x80
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.SP = 0xFFFE
	c.IME = false

	b := e.bus
	b.irq.Flag = 0xE1
	b.irq.Enable = 0x00

	b.timer.div = 0xAB
	b.timer.tima = 0x00
	b.timer.tma = 0x00
	b.timer.tac = 0xF8

	b.serial.SB = 0x00
	b.serial.SC = 0x7E

	p := b.ppu
	p.writeLCDC(0x91)
	// STAT holds the boot snapshot value. Its mode bits follow p.mode from
	// the first Tick on.
	p.stat = 0x85
	p.mode = ModeOAMScan
	p.bgp = 0xFC

	b.dma.mode = DMAOff
	b.dma.reg = 0xFF

	b.joypad.reg = 0xCF
	b.joypad.buttons = Buttons{}
}

// Step executes a single instruction and returns the M-cycles consumed.
func (e *Emulator) Step() int {
	return e.cpu.Step()
}

// RunFrame steps the CPU until the PPU completes a frame. With the LCD off
// no frame is ever completed, so the loop also ends after one frame's
// worth of cycles.
func (e *Emulator) RunFrame() {
	ppu := e.bus.ppu
	spent := 0
	for !ppu.FrameReady() {
		spent += e.cpu.Step()
		if spent >= CyclesPerFrame && (!ppu.Enabled() || spent >= 2*CyclesPerFrame) {
			break
		}
	}
	if ppu.FrameReady() {
		ppu.SwapBuffers()
	}
	e.renderFrame()
}

// renderFrame converts the completed shade buffer to RGBA.
func (e *Emulator) renderFrame() {
	pix := e.framebuffer.Pix
	for i, s := range e.bus.ppu.Frame() {
		c := e.palette[s&0x03]
		off := i * 4
		pix[off] = c[0]
		pix[off+1] = c[1]
		pix[off+2] = c[2]
		pix[off+3] = 0xFF
	}
}

// SetInput unpacks a button bitmask into the joypad. A newly pressed button
// requests the joypad interrupt.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}
	b := Buttons{
		Up:     buttons&(1<<emucore.ButtonUp) != 0,
		Down:   buttons&(1<<emucore.ButtonDown) != 0,
		Left:   buttons&(1<<emucore.ButtonLeft) != 0,
		Right:  buttons&(1<<emucore.ButtonRight) != 0,
		A:      buttons&(1<<ButtonA) != 0,
		B:      buttons&(1<<ButtonB) != 0,
		Select: buttons&(1<<ButtonSelect) != 0,
		Start:  buttons&(1<<ButtonStart) != 0,
	}
	if e.bus.joypad.Set(b) {
		e.bus.irq.Request(IntJoypad)
	}
}

// GetFramebuffer returns raw RGBA pixel data for the last completed frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.framebuffer.Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.framebuffer.Stride
}

// GetActiveHeight returns the display height.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns one frame of silence as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// GetRegion returns the emulator's region setting
func (e *Emulator) GetRegion() Region {
	return e.region
}

// SetRegion updates the emulator's region configuration
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
}

// GetTiming returns FPS and scanline count.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "grey_palette":
		if value == "true" {
			e.palette = paletteGrey
		} else {
			e.palette = paletteGreen
		}
		e.renderFrame()
	case "sprite_limit":
		e.bus.ppu.SetSpriteLimit(value != "false")
	}
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// Cartridge returns the loaded cartridge.
func (e *Emulator) Cartridge() *Cartridge {
	return e.cart
}

// CPU returns the interpreter.
func (e *Emulator) CPU() *CPU {
	return e.cpu
}

// Bus returns the memory bus.
func (e *Emulator) Bus() *Bus {
	return e.bus
}

// =============================================================================
// BatterySaver interface
// =============================================================================

// HasSRAM reports whether the cartridge has battery-backed RAM.
func (e *Emulator) HasSRAM() bool {
	return e.cart.HasBattery() && e.cart.HasRAM()
}

// GetSRAM returns a copy of the current SRAM contents.
func (e *Emulator) GetSRAM() []byte {
	sram := make([]byte, len(e.cart.ram))
	copy(sram, e.cart.ram)
	return sram
}

// SetSRAM loads SRAM contents into the emulator.
func (e *Emulator) SetSRAM(data []byte) {
	copy(e.cart.ram, data)
}

// =============================================================================
// MemoryInspector interface
// =============================================================================

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. Flat addresses 0x0000-0xFFFF are CPU bus addresses.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur > 0xFFFF {
			return count
		}
		buf[i] = e.bus.Read(uint16(cur))
		count++
	}
	return count
}

// =============================================================================
// MemoryMapper interface
// =============================================================================

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	regions := []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: len(e.bus.mem.wram)},
	}
	if e.cart.HasRAM() {
		regions = append(regions, emucore.MemoryRegion{Type: emucore.MemorySaveRAM, Size: len(e.cart.ram)})
	}
	return regions
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		out := make([]byte, len(e.bus.mem.wram))
		copy(out, e.bus.mem.wram[:])
		return out
	case emucore.MemorySaveRAM:
		return e.GetSRAM()
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		copy(e.bus.mem.wram[:], data)
	case emucore.MemorySaveRAM:
		e.SetSRAM(data)
	}
}
