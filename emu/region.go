package emu

import (
	emucore "github.com/user-none/eblitui/api"
)

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds timing constants for the console.
type RegionTiming struct {
	CPUClockHz    int // M-cycle rate
	Scanlines     int // Total scanlines per frame, VBlank included
	FPS           int // Nominal frames per second
	CyclesPerLine int // M-cycles per scanline
}

// DMGTiming: 1.048576 MHz M-cycle clock, 154 lines of 114 M-cycles,
// 59.73 Hz refresh presented as 60.
var DMGTiming = RegionTiming{
	CPUClockHz:    1048576,
	Scanlines:     154,
	FPS:           60,
	CyclesPerLine: dotsPerLine / dotsPerMCycle,
}

// CyclesPerFrame is the M-cycle length of one full frame.
const CyclesPerFrame = 154 * dotsPerLine / dotsPerMCycle

// GetTimingForRegion returns the timing constants. The handheld drives its
// own LCD, so every region shares one timing.
func GetTimingForRegion(_ Region) RegionTiming {
	return DMGTiming
}

// DefaultRegion returns the default region (NTSC).
func DefaultRegion() Region {
	return RegionNTSC
}

// DetectRegionFromROM returns the region for a ROM. The bool reports
// whether the cartridge header checksum is valid.
func DetectRegionFromROM(rom []byte) (Region, bool) {
	h, err := ParseHeader(rom)
	if err != nil {
		return RegionNTSC, false
	}
	return RegionNTSC, h.ChecksumValid
}

// Destination is the header destination code at 0x014A.
type Destination int

const (
	DestinationJapanese Destination = iota
	DestinationOverseas
)

func (d Destination) String() string {
	switch d {
	case DestinationJapanese:
		return "Japanese"
	case DestinationOverseas:
		return "Overseas"
	default:
		return "Unknown"
	}
}

// DetectDestinationFromROM reads the destination code from the header.
// Returns Overseas if the header is missing or the code is unrecognized.
func DetectDestinationFromROM(rom []byte) Destination {
	h, err := ParseHeader(rom)
	if err != nil {
		return DestinationOverseas
	}
	if h.Destination == 0x00 {
		return DestinationJapanese
	}
	return DestinationOverseas
}
