package adapter

import (
	"log/slog"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emdmg/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the DMG emulator.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emdmg",
		ConsoleName:     "Nintendo Game Boy",
		Extensions:      []string{".gb", ".dmg"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     160.0 / 144.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "A", ID: emu.ButtonA, DefaultKey: "J", DefaultPad: "A"},
			{Name: "B", ID: emu.ButtonB, DefaultKey: "K", DefaultPad: "B"},
			{Name: "Select", ID: emu.ButtonSelect, DefaultKey: "RShift", DefaultPad: "Back"},
			{Name: "Start", ID: emu.ButtonStart, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "grey_palette",
				Label:       "Grey Palette",
				Description: "Use neutral grey shades instead of the green LCD tint",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "sprite_limit",
				Label:       "Sprite Limit",
				Description: "Draw at most 10 sprites per line like the hardware",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		RDBName:       "Nintendo - Game Boy",
		ThumbnailRepo: "Nintendo_-_Game_Boy",
		DataDirName:   "emdmg",
		ConsoleID:     4,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: 0,
	}
}

// CreateEmulator creates a new emulator instance with the given ROM and region.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(rom, region)
	if err != nil {
		slog.Error("cartridge rejected", "error", err)
		return nil, err
	}
	return &e, nil
}

// DetectRegion auto-detects the region from ROM data.
// The bool return indicates whether the cartridge header checksum is valid.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegionFromROM(rom)
}
