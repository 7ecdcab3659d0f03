package emu

import (
	"io"
	"log/slog"
	"testing"
)

// createTestROM creates a test ROM with the given number of 16KB banks and
// a valid header for cartType. Each bank is filled with its bank number
// (0, 1, 2, etc.) to allow easy verification of which bank is mapped.
// Bank 0 is zero filled, so execution from 0x0100 runs NOPs.
func createTestROM(banks int, cartType byte) []byte {
	return createTestROMWithRAM(banks, cartType, 0x00)
}

// createTestROMWithRAM is createTestROM with the RAM size header byte set.
func createTestROMWithRAM(banks int, cartType, ramCode byte) []byte {
	rom := make([]byte, banks*romBankSize)
	for b := 0; b < banks; b++ {
		for i := 0; i < romBankSize; i++ {
			rom[b*romBankSize+i] = byte(b)
		}
	}

	code := 0
	for (2 << code) < banks {
		code++
	}

	copy(rom[headerTitleStart:], "TESTROM")
	rom[headerType] = cartType
	rom[headerROMSize] = byte(code)
	rom[headerRAMSize] = ramCode
	rom[headerDestination] = 0x01
	fixChecksum(rom)
	return rom
}

// fixChecksum recomputes the header checksum at 0x014D.
func fixChecksum(rom []byte) {
	var x uint8
	for i := headerTitleStart; i < headerChecksum; i++ {
		x = x - rom[i] - 1
	}
	rom[headerChecksum] = x
}

// newTestEmulator builds an emulator over a 32KB ROM with program placed
// at the entry point 0x0100.
func newTestEmulator(t *testing.T, program ...byte) *Emulator {
	t.Helper()
	rom := createTestROM(2, 0x00)
	copy(rom[0x0100:], program)
	e, err := NewEmulator(rom, RegionNTSC)
	if err != nil {
		t.Fatalf("NewEmulator failed: %v", err)
	}
	e.cpu.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &e
}

// newTestBus builds a bus around a cartridge made from rom.
func newTestBus(t *testing.T, rom []byte) *Bus {
	t.Helper()
	cart, err := NewCartridge(rom)
	if err != nil {
		t.Fatalf("NewCartridge failed: %v", err)
	}
	return NewBus(cart)
}
