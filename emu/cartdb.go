package emu

import "fmt"

// ControllerKind identifies the bank controller a cartridge type maps to.
type ControllerKind int

const (
	ControllerNone ControllerKind = iota // Flat 32KB ROM, optional RAM
	ControllerMBC1
	ControllerMBC3
)

func (k ControllerKind) String() string {
	switch k {
	case ControllerNone:
		return "ROM"
	case ControllerMBC1:
		return "MBC1"
	case ControllerMBC3:
		return "MBC3"
	default:
		return "Unknown"
	}
}

// CartridgeTypeInfo describes a supported header type code.
type CartridgeTypeInfo struct {
	Kind    ControllerKind
	Battery bool
}

// supportedTypes is the closed set of header type codes with a bank
// controller. Anything else is rejected by NewCartridge.
var supportedTypes = map[uint8]CartridgeTypeInfo{
	0x00: {ControllerNone, false},
	0x01: {ControllerMBC1, false},
	0x02: {ControllerMBC1, false},
	0x03: {ControllerMBC1, true},
	0x08: {ControllerNone, false},
	0x09: {ControllerNone, true},
	// MBC3 with timer: RTC registers are not emulated.
	0x0F: {ControllerMBC3, true},
	0x10: {ControllerMBC3, true},
	0x11: {ControllerMBC3, false},
	0x12: {ControllerMBC3, false},
	0x13: {ControllerMBC3, true},
}

// cartridgeTypeNames maps header byte 0x0147 to a display name.
var cartridgeTypeNames = map[uint8]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2",
	0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
	0x0B: "MMM01",
	0x0C: "MMM01+RAM",
	0x0D: "MMM01+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY",
	0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3",
	0x12: "MBC3+RAM",
	0x13: "MBC3+RAM+BATTERY",
	0x15: "MBC4",
	0x16: "MBC4+RAM",
	0x17: "MBC4+RAM+BATTERY",
	0x19: "MBC5",
	0x1A: "MBC5+RAM",
	0x1B: "MBC5+RAM+BATTERY",
	0x1C: "MBC5+RUMBLE",
	0x1D: "MBC5+RUMBLE+RAM",
	0x1E: "MBC5+RUMBLE+RAM+BATTERY",
	0xFC: "POCKET CAMERA",
	0xFD: "BANDAI TAMA5",
	0xFE: "HuC3",
	0xFF: "HuC1+RAM+BATTERY",
}

// CartridgeTypeName returns the display name for a header type code.
func CartridgeTypeName(t uint8) string {
	if name, ok := cartridgeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", t)
}

// LookupCartridgeType reports the controller for a header type code.
func LookupCartridgeType(t uint8) (CartridgeTypeInfo, bool) {
	info, ok := supportedTypes[t]
	return info, ok
}

// ramSizeTable maps header byte 0x0149 to external RAM size in bytes.
var ramSizeTable = [...]int{0, 0, 8 * 1024, 32 * 1024, 128 * 1024, 64 * 1024}

// mbc1BankMasks maps the ROM bank count to the MBC1 bank register mask.
var mbc1BankMasks = map[int]uint8{
	2:   0x01,
	4:   0x03,
	8:   0x07,
	16:  0x0F,
	32:  0x1F,
	64:  0x1F,
	128: 0x1F,
}
