package emu

// Display dimensions.
const (
	ScreenWidth     = 160
	ScreenHeight    = 144
	MaxScreenHeight = 144
)

// PPU register addresses. 0xFF46 (DMA) sits inside this range and is
// decoded by the bus first.
const (
	regLCDC = 0xFF40
	regSTAT = 0xFF41
	regSCY  = 0xFF42
	regSCX  = 0xFF43
	regLY   = 0xFF44
	regLYC  = 0xFF45
	regBGP  = 0xFF47
	regOBP0 = 0xFF48
	regOBP1 = 0xFF49
	regWY   = 0xFF4A
	regWX   = 0xFF4B
)

// PPU timing in dots (4 per M-cycle).
const (
	dotsPerLine    = 456
	oamScanEnd     = 80
	drawingEnd     = 252
	vblankLine     = 144
	lastLine       = 153
	dotsPerMCycle  = 4
	oamEntries     = 40
	spritesPerLine = 10
)

// PPUMode is the STAT mode field.
type PPUMode uint8

const (
	ModeHBlank PPUMode = iota
	ModeVBlank
	ModeOAMScan
	ModeDrawing
)

func (m PPUMode) String() string {
	switch m {
	case ModeHBlank:
		return "HBLANK"
	case ModeVBlank:
		return "VBLANK"
	case ModeOAMScan:
		return "OAM_SCAN"
	case ModeDrawing:
		return "DRAWING"
	default:
		return "UNKNOWN"
	}
}

// STAT bits.
const (
	statModeMask    = 0x03
	statLYCEqual    = 0x04
	statHBlankSel   = 0x08
	statVBlankSel   = 0x10
	statOAMSel      = 0x20
	statLYCSel      = 0x40
	statWriteMask   = 0xF8
	statKeepOnWrite = 0x87
)

// lcdControl is LCDC decoded into its display-control fields.
type lcdControl struct {
	ppuEnable   bool
	winTileMap  uint16
	winEnable   bool
	tileData    uint16 // 0x8000 unsigned, 0x8800 signed addressing
	bgTileMap   uint16
	objSize     uint8 // 8 or 16
	objEnable   bool
	bgWinEnable bool
}

func bit(val uint8, n uint) uint8 {
	return (val >> n) & 0x01
}

func decodeLCDC(val uint8) lcdControl {
	return lcdControl{
		ppuEnable:   bit(val, 7) != 0,
		winTileMap:  0x9800 | uint16(bit(val, 6))<<10,
		winEnable:   bit(val, 5) != 0,
		tileData:    0x8800 - 0x800*uint16(bit(val, 4)),
		bgTileMap:   0x9800 | uint16(bit(val, 3))<<10,
		objSize:     0x08 << bit(val, 2),
		objEnable:   bit(val, 1) != 0,
		bgWinEnable: bit(val, 0) != 0,
	}
}

// PPU is the scanline-based pixel processing unit.
type PPU struct {
	mem *Memory
	irq *Interrupts

	lcdcReg uint8
	lcdc    lcdControl
	stat    uint8
	scy     uint8
	scx     uint8
	ly      uint8
	lyc     uint8
	bgp     uint8
	obp     [2]uint8
	wy      uint8
	wx      uint8

	ticks    int
	mode     PPUMode
	statLine bool

	sprites     [oamEntries]sprite
	spriteCount int
	spriteLimit bool

	windowInFrame      bool
	drawWindowThisLine bool
	windowLineCounter  int

	frameReady bool

	// Shade indices (0-3). The renderer writes back; front holds the last
	// completed frame.
	front []uint8
	back  []uint8

	lineColorID [ScreenWidth]uint8
	lineSource  [ScreenWidth]pixelSource
}

// NewPPU creates a PPU reading VRAM and OAM from mem.
func NewPPU(mem *Memory, irq *Interrupts) *PPU {
	return &PPU{
		mem:         mem,
		irq:         irq,
		spriteLimit: true,
		front:       make([]uint8, ScreenWidth*ScreenHeight),
		back:        make([]uint8, ScreenWidth*ScreenHeight),
	}
}

// setMode updates the mode and the STAT mode bits together.
func (p *PPU) setMode(m PPUMode) {
	p.mode = m
	p.stat = (p.stat &^ statModeMask) | uint8(m)
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= statLYCEqual
	} else {
		p.stat &^= statLYCEqual
	}
}

// Tick advances the PPU by cycles M-cycles.
func (p *PPU) Tick(cycles int) {
	if !p.lcdc.ppuEnable {
		return
	}

	p.ticks += cycles * dotsPerMCycle
	if p.ly < vblankLine {
		switch {
		case p.ticks <= oamScanEnd:
			p.setMode(ModeOAMScan)
		case p.ticks <= drawingEnd:
			p.setMode(ModeDrawing)
		default:
			p.setMode(ModeHBlank)
		}
	}

	if p.ticks <= dotsPerLine {
		return
	}
	p.ticks -= dotsPerLine

	if p.ly < vblankLine {
		p.selectSprites()
		p.renderScanline()
		p.setMode(ModeHBlank)
	}

	switch p.mode {
	case ModeHBlank:
		p.ly++
		p.updateLYC()
		if p.ly == vblankLine {
			p.setMode(ModeVBlank)
			p.irq.Request(IntVBlank)
			p.frameReady = true
			p.windowLineCounter = 0
			p.drawWindowThisLine = false
			p.windowInFrame = false
		} else {
			if p.wy == p.ly {
				p.windowInFrame = true
			}
			p.setMode(ModeOAMScan)
			if p.drawWindowThisLine {
				p.windowLineCounter++
				p.drawWindowThisLine = false
			}
		}
	case ModeVBlank:
		if p.ly == lastLine {
			p.ly = 0
			if p.wy == p.ly {
				p.windowInFrame = true
			}
			p.setMode(ModeOAMScan)
		} else {
			p.ly++
		}
		p.updateLYC()
	}
}

// checkStat requests the LCD interrupt on a rising edge of the combined
// STAT condition line.
func (p *PPU) checkStat() {
	line := (p.stat&statHBlankSel != 0 && p.mode == ModeHBlank) ||
		(p.stat&statVBlankSel != 0 && p.mode == ModeVBlank) ||
		(p.stat&statOAMSel != 0 && p.mode == ModeOAMScan) ||
		(p.stat&statLYCSel != 0 && p.stat&statLYCEqual != 0)
	if line && !p.statLine {
		p.irq.Request(IntLCD)
	}
	p.statLine = line
}

// ReadRegister returns a PPU register value.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case regLCDC:
		return p.lcdcReg
	case regSTAT:
		return p.stat
	case regSCY:
		return p.scy
	case regSCX:
		return p.scx
	case regLY:
		return p.ly
	case regLYC:
		return p.lyc
	case regBGP:
		return p.bgp
	case regOBP0:
		return p.obp[0]
	case regOBP1:
		return p.obp[1]
	case regWY:
		return p.wy
	case regWX:
		return p.wx
	}
	return 0xFF
}

// WriteRegister updates a PPU register and re-evaluates the STAT line.
func (p *PPU) WriteRegister(addr uint16, val uint8) {
	switch addr {
	case regLCDC:
		p.writeLCDC(val)
	case regSTAT:
		p.stat = (val & statWriteMask) | (p.stat & statKeepOnWrite)
	case regSCY:
		p.scy = val
	case regSCX:
		p.scx = val
	case regLYC:
		p.lyc = val
		p.updateLYC()
	case regBGP:
		p.bgp = val
	case regOBP0:
		p.obp[0] = val
	case regOBP1:
		p.obp[1] = val
	case regWY:
		p.wy = val
		p.windowInFrame = p.wy == p.ly
	case regWX:
		p.wx = val
	default:
		// LY is read only
		return
	}
	p.checkStat()
}

func (p *PPU) writeLCDC(val uint8) {
	wasEnabled := p.lcdc.ppuEnable
	p.lcdcReg = val
	p.lcdc = decodeLCDC(val)
	if p.lcdc.ppuEnable {
		return
	}
	p.setMode(ModeHBlank)
	p.ly = 0
	p.ticks = 0
	if wasEnabled {
		clear(p.back)
		clear(p.front)
	}
}

// FrameReady reports whether a frame completed since the last SwapBuffers.
func (p *PPU) FrameReady() bool {
	return p.frameReady
}

// SwapBuffers hands the completed back buffer to the front and clears
// the frame-ready flag.
func (p *PPU) SwapBuffers() {
	p.front, p.back = p.back, p.front
	p.frameReady = false
}

// Frame returns the last completed frame as shade indices, indexed
// column + row*ScreenWidth.
func (p *PPU) Frame() []uint8 {
	return p.front
}

// LY returns the current scanline.
func (p *PPU) LY() uint8 { return p.ly }

// Mode returns the current mode.
func (p *PPU) Mode() PPUMode { return p.mode }

// Enabled reports whether LCDC bit 7 is set.
func (p *PPU) Enabled() bool { return p.lcdc.ppuEnable }

// SetSpriteLimit toggles the 10 sprites per line cap.
func (p *PPU) SetSpriteLimit(enabled bool) { p.spriteLimit = enabled }
