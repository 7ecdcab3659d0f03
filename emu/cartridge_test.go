package emu

import (
	"errors"
	"testing"
)

// TestCartridge_ParseHeader tests header field decoding
func TestCartridge_ParseHeader(t *testing.T) {
	rom := createTestROMWithRAM(8, 0x03, 0x03)

	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if h.Title != "TESTROM" {
		t.Errorf("Title: expected TESTROM, got %q", h.Title)
	}
	if h.Type != 0x03 {
		t.Errorf("Type: expected 0x03, got 0x%02X", h.Type)
	}
	if h.ROMSize != 128*1024 || h.Banks != 8 {
		t.Errorf("ROM size: expected 128KB/8 banks, got %d/%d", h.ROMSize, h.Banks)
	}
	if h.RAMSize != 32*1024 {
		t.Errorf("RAM size: expected 32KB, got %d", h.RAMSize)
	}
	if !h.ChecksumValid {
		t.Error("Checksum should be valid")
	}

	rom[headerTitleStart] ^= 0xFF
	h, _ = ParseHeader(rom)
	if h.ChecksumValid {
		t.Error("Checksum should be invalid after corrupting the title")
	}
}

// TestCartridge_TooSmall tests the header length check
func TestCartridge_TooSmall(t *testing.T) {
	_, err := NewCartridge(make([]byte, 0x100))
	if !errors.Is(err, ErrROMTooSmall) {
		t.Errorf("Expected ErrROMTooSmall, got %v", err)
	}
}

// TestCartridge_Unsupported tests rejection of types with no controller
func TestCartridge_Unsupported(t *testing.T) {
	for _, cartType := range []byte{0x05, 0x19, 0x1B, 0xFC} {
		_, err := NewCartridge(createTestROM(2, cartType))
		if !errors.Is(err, ErrUnsupportedCartridge) {
			t.Errorf("Type 0x%02X: expected ErrUnsupportedCartridge, got %v", cartType, err)
		}
	}
}

// TestCartridge_ControllerSelection tests the header type to controller map
func TestCartridge_ControllerSelection(t *testing.T) {
	testCases := []struct {
		cartType byte
		kind     ControllerKind
		battery  bool
	}{
		{0x00, ControllerNone, false},
		{0x01, ControllerMBC1, false},
		{0x03, ControllerMBC1, true},
		{0x09, ControllerNone, true},
		{0x0F, ControllerMBC3, true},
		{0x11, ControllerMBC3, false},
		{0x13, ControllerMBC3, true},
	}

	for _, tc := range testCases {
		cart, err := NewCartridge(createTestROM(4, tc.cartType))
		if err != nil {
			t.Errorf("Type 0x%02X: unexpected error %v", tc.cartType, err)
			continue
		}
		if cart.Kind() != tc.kind {
			t.Errorf("Type 0x%02X: expected %s, got %s", tc.cartType, tc.kind, cart.Kind())
		}
		if cart.HasBattery() != tc.battery {
			t.Errorf("Type 0x%02X: expected battery %v, got %v", tc.cartType, tc.battery, cart.HasBattery())
		}
	}
}

// TestCartridge_NoMBC tests the flat mapping and ignored ROM writes
func TestCartridge_NoMBC(t *testing.T) {
	cart, err := NewCartridge(createTestROM(2, 0x00))
	if err != nil {
		t.Fatal(err)
	}

	if v := cart.Read(0x4000); v != 1 {
		t.Errorf("0x4000: expected bank 1, got %d", v)
	}
	cart.Write(0x2000, 0x05)
	if v := cart.Read(0x7FFF); v != 1 {
		t.Errorf("0x7FFF after ROM write: expected bank 1, got %d", v)
	}
	if cart.HasRAM() {
		t.Error("ROM only cartridge should have no RAM")
	}
}

// TestCartridge_NoMBCWithRAM tests RAM that needs no enable
func TestCartridge_NoMBCWithRAM(t *testing.T) {
	cart, err := NewCartridge(createTestROMWithRAM(2, 0x08, 0x02))
	if err != nil {
		t.Fatal(err)
	}

	cart.Write(0xA010, 0x3C)
	if v := cart.Read(0xA010); v != 0x3C {
		t.Errorf("RAM: expected 0x3C, got 0x%02X", v)
	}
}

// TestCartridge_MBC1ROMBanking tests bank selection, bank 0 remap and masking
func TestCartridge_MBC1ROMBanking(t *testing.T) {
	cart, err := NewCartridge(createTestROM(8, 0x01))
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		write    uint8
		expected uint8
	}{
		{0x03, 3},
		{0x00, 1}, // Bank 0 selects bank 1
		{0x07, 7},
		{0x1F, 7}, // Masked to 3 bits for 8 banks
		{0x09, 1},
	}

	if v := cart.Read(0x4000); v != 1 {
		t.Errorf("Initial bank: expected 1, got %d", v)
	}
	for _, tc := range testCases {
		cart.Write(0x2000, tc.write)
		if v := cart.Read(0x4000); v != tc.expected {
			t.Errorf("Bank write 0x%02X: expected bank %d, got %d", tc.write, tc.expected, v)
		}
		if v := cart.Read(0x0000); v != 0 {
			t.Errorf("Bank write 0x%02X: 0x0000 should stay on bank 0, got %d", tc.write, v)
		}
	}
}

// TestCartridge_MBC1RAM tests RAM enable and RAM banking
func TestCartridge_MBC1RAM(t *testing.T) {
	cart, err := NewCartridge(createTestROMWithRAM(4, 0x03, 0x03))
	if err != nil {
		t.Fatal(err)
	}

	cart.Write(0xA000, 0x42)
	if v := cart.Read(0xA000); v != 0xFF {
		t.Errorf("Disabled RAM: expected 0xFF, got 0x%02X", v)
	}

	cart.Write(0x0000, 0x0A)
	cart.Write(0xA000, 0x42)
	cart.Write(0x4000, 0x01)
	if v := cart.Read(0xA000); v != 0x00 {
		t.Errorf("RAM bank 1: expected 0x00, got 0x%02X", v)
	}
	cart.Write(0xA000, 0x24)

	cart.Write(0x4000, 0x00)
	if v := cart.Read(0xA000); v != 0x42 {
		t.Errorf("RAM bank 0: expected 0x42, got 0x%02X", v)
	}
	if cart.RAM()[ramBankSize] != 0x24 {
		t.Errorf("RAM bank 1 backing: expected 0x24, got 0x%02X", cart.RAM()[ramBankSize])
	}

	cart.Write(0x0000, 0x00)
	if v := cart.Read(0xA000); v != 0xFF {
		t.Errorf("Re-disabled RAM: expected 0xFF, got 0x%02X", v)
	}
}

// TestCartridge_MBC3Banking tests the 7-bit bank register and wraparound
func TestCartridge_MBC3Banking(t *testing.T) {
	cart, err := NewCartridge(createTestROMWithRAM(8, 0x13, 0x03))
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		write    uint8
		expected uint8
	}{
		{0x05, 5},
		{0x00, 1},
		{0x0A, 2}, // Beyond the image wraps
		{0x87, 7}, // Bit 7 ignored
	}

	for _, tc := range testCases {
		cart.Write(0x2000, tc.write)
		if v := cart.Read(0x4000); v != tc.expected {
			t.Errorf("Bank write 0x%02X: expected bank %d, got %d", tc.write, tc.expected, v)
		}
	}

	cart.Write(0x0000, 0x0A)
	cart.Write(0x4000, 0x02)
	cart.Write(0xA000, 0x99)
	if cart.RAM()[2*ramBankSize] != 0x99 {
		t.Errorf("RAM bank 2: expected 0x99, got 0x%02X", cart.RAM()[2*ramBankSize])
	}

	// RTC latch is ignored
	cart.Write(0x6000, 0x01)
	if v := cart.Read(0xA000); v != 0x99 {
		t.Errorf("After latch write: expected 0x99, got 0x%02X", v)
	}
}

// TestCartridge_TypeNames tests display names for header codes
func TestCartridge_TypeNames(t *testing.T) {
	testCases := []struct {
		code     uint8
		expected string
	}{
		{0x00, "ROM ONLY"},
		{0x03, "MBC1+RAM+BATTERY"},
		{0x13, "MBC3+RAM+BATTERY"},
		{0x19, "MBC5"},
		{0x42, "UNKNOWN(0x42)"},
	}

	for _, tc := range testCases {
		if got := CartridgeTypeName(tc.code); got != tc.expected {
			t.Errorf("Type 0x%02X: expected %q, got %q", tc.code, tc.expected, got)
		}
	}
}

// TestCartridge_CRC32 tests that the image checksum is stable
func TestCartridge_CRC32(t *testing.T) {
	rom := createTestROM(2, 0x00)
	a, _ := NewCartridge(rom)
	b, _ := NewCartridge(rom)
	if a.ROMCRC32() != b.ROMCRC32() || a.ROMCRC32() == 0 {
		t.Errorf("CRC32: expected matching non-zero values, got 0x%08X/0x%08X", a.ROMCRC32(), b.ROMCRC32())
	}
}
