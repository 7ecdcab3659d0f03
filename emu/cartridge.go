package emu

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// Header field offsets.
const (
	headerTitleStart  = 0x0134
	headerTitleEnd    = 0x0143
	headerType        = 0x0147
	headerROMSize     = 0x0148
	headerRAMSize     = 0x0149
	headerDestination = 0x014A
	headerChecksum    = 0x014D
	headerSize        = 0x0150
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// ErrROMTooSmall is returned when the image cannot hold a cartridge header.
var ErrROMTooSmall = errors.New("rom image smaller than cartridge header")

// ErrUnsupportedCartridge is returned when the header declares a controller
// type with no bank controller implementation.
var ErrUnsupportedCartridge = errors.New("unsupported cartridge type")

// Header is the decoded cartridge header.
type Header struct {
	Title         string
	Type          uint8
	ROMSize       int // Bytes, 32KB << code
	RAMSize       int // Bytes
	Banks         int // 16KB ROM banks
	Destination   uint8
	Checksum      uint8
	ChecksumValid bool
}

// ParseHeader decodes the header fields of a cartridge image.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < headerSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrROMTooSmall, len(rom))
	}

	var h Header

	title := make([]byte, 0, headerTitleEnd-headerTitleStart+1)
	for i := headerTitleStart; i <= headerTitleEnd; i++ {
		if rom[i] == 0x00 {
			break
		}
		title = append(title, rom[i])
	}
	h.Title = string(title)

	h.Type = rom[headerType]
	h.ROMSize = (32 * 1024) << (rom[headerROMSize] & 0x0F)
	h.Banks = h.ROMSize / romBankSize
	if code := int(rom[headerRAMSize]); code < len(ramSizeTable) {
		h.RAMSize = ramSizeTable[code]
	}
	h.Destination = rom[headerDestination]
	h.Checksum = rom[headerChecksum]

	var x uint8
	for i := headerTitleStart; i < headerChecksum; i++ {
		x = x - rom[i] - 1
	}
	h.ChecksumValid = x == h.Checksum

	return h, nil
}

// bankController translates cartridge-space accesses for one MBC variant.
// addr is always in 0x0000-0x7FFF or 0xA000-0xBFFF.
type bankController interface {
	read(addr uint16) uint8
	write(addr uint16, val uint8)
}

// Cartridge owns the ROM image, external RAM and the active bank controller.
type Cartridge struct {
	Header  Header
	kind    ControllerKind
	battery bool
	rom     []uint8
	ram     []uint8
	mbc     bankController
	crc     uint32
}

// NewCartridge parses the header and selects a bank controller from the
// closed set of supported types.
func NewCartridge(rom []byte) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	info, ok := LookupCartridgeType(h.Type)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02X (%s)", ErrUnsupportedCartridge, h.Type, CartridgeTypeName(h.Type))
	}

	c := &Cartridge{
		Header:  h,
		kind:    info.Kind,
		battery: info.Battery,
		rom:     make([]uint8, len(rom)),
		ram:     make([]uint8, h.RAMSize),
		crc:     crc32.ChecksumIEEE(rom),
	}
	copy(c.rom, rom)

	switch info.Kind {
	case ControllerMBC1:
		c.mbc = newMBC1(c.rom, c.ram, h.Banks)
	case ControllerMBC3:
		c.mbc = newMBC3(c.rom, c.ram)
	default:
		c.mbc = &noMBC{rom: c.rom, ram: c.ram}
	}

	return c, nil
}

// Read returns a byte from ROM or external RAM.
func (c *Cartridge) Read(addr uint16) uint8 { return c.mbc.read(addr) }

// Write routes a write to the bank controller registers or external RAM.
func (c *Cartridge) Write(addr uint16, val uint8) { c.mbc.write(addr, val) }

// Kind returns the active bank controller variant.
func (c *Cartridge) Kind() ControllerKind { return c.kind }

// HasBattery reports whether the external RAM is battery backed.
func (c *Cartridge) HasBattery() bool { return c.battery }

// HasRAM reports whether the header declares external RAM.
func (c *Cartridge) HasRAM() bool { return len(c.ram) > 0 }

// RAM returns the external RAM buffer. The slice aliases cartridge state.
func (c *Cartridge) RAM() []uint8 { return c.ram }

// ROMCRC32 returns the CRC32 of the loaded image.
func (c *Cartridge) ROMCRC32() uint32 { return c.crc }

// romAt reads the image with wraparound for banks beyond the dump size.
func romAt(rom []uint8, offset int) uint8 {
	if len(rom) == 0 {
		return 0xFF
	}
	return rom[offset%len(rom)]
}

// ramAt reads external RAM with wraparound for banks beyond the RAM size.
func ramAt(ram []uint8, offset int) uint8 {
	if len(ram) == 0 {
		return 0xFF
	}
	return ram[offset%len(ram)]
}

func ramSet(ram []uint8, offset int, val uint8) {
	if len(ram) == 0 {
		return
	}
	ram[offset%len(ram)] = val
}

// -----------------------------------------------------------------------------
// No MBC
// -----------------------------------------------------------------------------

type noMBC struct {
	rom []uint8
	ram []uint8
}

func (m *noMBC) read(addr uint16) uint8 {
	if addr >= 0xA000 {
		return ramAt(m.ram, int(addr-0xA000))
	}
	return romAt(m.rom, int(addr))
}

func (m *noMBC) write(addr uint16, val uint8) {
	if addr >= 0xA000 {
		ramSet(m.ram, int(addr-0xA000), val)
	}
}

// -----------------------------------------------------------------------------
// MBC1
// -----------------------------------------------------------------------------

type mbc1 struct {
	rom         []uint8
	ram         []uint8
	bankMask    uint8
	romBank     uint8 // 5 bits, 0 reads as 1
	ramBank     uint8 // 2 bits
	bankingMode bool  // Tracked only
	ramEnable   bool
}

func newMBC1(rom, ram []uint8, banks int) *mbc1 {
	mask, ok := mbc1BankMasks[banks]
	if !ok {
		mask = 0x1F
	}
	return &mbc1{rom: rom, ram: ram, bankMask: mask, romBank: 1}
}

func (m *mbc1) read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return romAt(m.rom, int(addr))
	case addr <= 0x7FFF:
		bank := int(m.romBank & m.bankMask)
		return romAt(m.rom, int(addr-0x4000)+romBankSize*bank)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnable {
			return 0xFF
		}
		return ramAt(m.ram, int(addr-0xA000)+ramBankSize*int(m.ramBank))
	}
	return 0xFF
}

func (m *mbc1) write(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnable = val&0x0F == 0x0A
	case addr <= 0x3FFF:
		m.romBank = val & 0x1F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr <= 0x5FFF:
		m.ramBank = val & 0x03
	case addr <= 0x7FFF:
		m.bankingMode = val&0x01 != 0
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnable {
			ramSet(m.ram, int(addr-0xA000)+ramBankSize*int(m.ramBank), val)
		}
	}
}

// -----------------------------------------------------------------------------
// MBC3 (no RTC)
// -----------------------------------------------------------------------------

type mbc3 struct {
	rom       []uint8
	ram       []uint8
	romBank   uint8 // 7 bits, 0 reads as 1
	ramBank   uint8 // Full written value
	ramEnable bool
}

func newMBC3(rom, ram []uint8) *mbc3 {
	return &mbc3{rom: rom, ram: ram, romBank: 1}
}

func (m *mbc3) read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return romAt(m.rom, int(addr))
	case addr <= 0x7FFF:
		return romAt(m.rom, int(addr-0x4000)+romBankSize*int(m.romBank))
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnable {
			return 0xFF
		}
		return ramAt(m.ram, int(addr-0xA000)+ramBankSize*int(m.ramBank))
	}
	return 0xFF
}

func (m *mbc3) write(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnable = val&0x0F == 0x0A
	case addr <= 0x3FFF:
		m.romBank = val & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr <= 0x5FFF:
		m.ramBank = val
	case addr <= 0x7FFF:
		// Latch clock data: RTC not emulated
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnable {
			ramSet(m.ram, int(addr-0xA000)+ramBankSize*int(m.ramBank), val)
		}
	}
}
