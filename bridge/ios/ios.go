// Package emuios provides a gomobile-compatible interface to the emulator.
package emuios

import (
	"fmt"
	"hash/crc32"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emdmg/emu"
	"github.com/user-none/emdmg/romloader"
)

// ExtractResult contains the result of ROM extraction
type ExtractResult struct {
	Crc32    string // Hex string, e.g., "AABBCCDD"
	Filename string // Original filename from archive, e.g., "Tetris (World).gb"
}

// currentEmu holds the emulator state (unexported)
var currentEmu *emulatorState

// fs is the filesystem ROMs are read from and extracted to.
var fs = afero.NewOsFs()

type emulatorState struct {
	base      emu.Emulator
	audioData []byte
	sramData  []byte
}

// InitFromPath creates an emulator from a ROM file path.
// Automatically extracts from ZIP/7z/gzip/xz/RAR if needed.
// Returns true on success, false on error.
func InitFromPath(path string) bool {
	rom, _, err := romloader.LoadROMFs(fs, path)
	if err != nil {
		slog.Error("failed to load ROM", "path", path, "error", err)
		return false
	}

	region, _ := emu.DetectRegionFromROM(rom)
	base, err := emu.NewEmulator(rom, region)
	if err != nil {
		slog.Error("failed to start emulator", "path", path, "error", err)
		return false
	}
	currentEmu = &emulatorState{base: base}
	return true
}

// Close releases the emulator.
func Close() {
	currentEmu = nil
}

// RunFrame executes one frame of emulation.
func RunFrame() {
	if currentEmu == nil {
		return
	}
	currentEmu.base.RunFrame()

	// Convert audio samples to bytes
	samples := currentEmu.base.GetAudioSamples()
	if len(currentEmu.audioData) != len(samples)*2 {
		currentEmu.audioData = make([]byte, len(samples)*2)
	}
	for i, s := range samples {
		currentEmu.audioData[i*2] = byte(s)
		currentEmu.audioData[i*2+1] = byte(s >> 8)
	}
}

// FrameWidth returns the display width (always 160).
func FrameWidth() int {
	return emu.ScreenWidth
}

// FrameHeight returns the display height (always 144).
func FrameHeight() int {
	return emu.ScreenHeight
}

// GetFrameData returns the RGBA frame buffer.
func GetFrameData() []byte {
	if currentEmu == nil {
		return nil
	}
	return currentEmu.base.GetFramebuffer()
}

// GetAudioData returns the entire audio buffer.
func GetAudioData() []byte {
	if currentEmu == nil {
		return nil
	}
	return currentEmu.audioData
}

// SetInput sets the controller state.
func SetInput(up, down, left, right, a, b, sel, start bool) {
	if currentEmu == nil {
		return
	}

	var buttons uint32
	for _, m := range []struct {
		pressed bool
		mask    uint32
	}{
		{up, 1 << emucore.ButtonUp},
		{down, 1 << emucore.ButtonDown},
		{left, 1 << emucore.ButtonLeft},
		{right, 1 << emucore.ButtonRight},
		{a, 1 << emu.ButtonA},
		{b, 1 << emu.ButtonB},
		{sel, 1 << emu.ButtonSelect},
		{start, 1 << emu.ButtonStart},
	} {
		if m.pressed {
			buttons |= m.mask
		}
	}
	currentEmu.base.SetInput(0, buttons)
}

// SetGreyPalette switches between the green and grey output palettes.
func SetGreyPalette(grey bool) {
	if currentEmu == nil {
		return
	}
	value := "false"
	if grey {
		value = "true"
	}
	currentEmu.base.SetOption("grey_palette", value)
}

// Title returns the cartridge title from the header.
func Title() string {
	if currentEmu == nil {
		return ""
	}
	return currentEmu.base.Cartridge().Header.Title
}

// HasSRAM reports whether the cartridge has battery-backed RAM.
func HasSRAM() bool {
	return currentEmu != nil && currentEmu.base.HasSRAM()
}

// PrepareSRAM copies SRAM to internal buffer.
func PrepareSRAM() {
	if currentEmu == nil {
		return
	}
	currentEmu.sramData = currentEmu.base.GetSRAM()
}

// SRAMLen returns the length of the prepared SRAM buffer.
func SRAMLen() int {
	if currentEmu == nil {
		return 0
	}
	return len(currentEmu.sramData)
}

// SRAMByte returns a single byte from SRAM at index i.
func SRAMByte(i int) int {
	if currentEmu == nil || i < 0 || i >= len(currentEmu.sramData) {
		return 0
	}
	return int(currentEmu.sramData[i])
}

// LoadSRAM loads cartridge RAM. Data of the wrong size is ignored.
func LoadSRAM(data []byte) {
	if currentEmu == nil || !currentEmu.base.HasSRAM() {
		return
	}
	if len(data) != len(currentEmu.base.Cartridge().RAM()) {
		return
	}
	currentEmu.base.SetSRAM(data)
}

// GetFPS returns the target frame rate.
func GetFPS() int {
	return emu.GetTimingForRegion(emu.DefaultRegion()).FPS
}

// GetCRC32FromPath calculates the CRC32 checksum of a ROM file.
// Automatically extracts from archives if needed.
// Returns -1 on error.
func GetCRC32FromPath(path string) int64 {
	rom, _, err := romloader.LoadROMFs(fs, path)
	if err != nil {
		return -1
	}

	return int64(crc32.ChecksumIEEE(rom))
}

// ExtractAndStoreROM extracts a ROM from an archive (or copies a raw ROM),
// calculates its CRC32, and stores it as {destDir}/{CRC32}.gb.
// If a file with the same CRC32 already exists, it skips writing.
// Returns the CRC32 and original filename on success, or an error.
func ExtractAndStoreROM(srcPath, destDir string) (*ExtractResult, error) {
	rom, filename, err := romloader.LoadROMFs(fs, srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM: %w", err)
	}

	crcHex := fmt.Sprintf("%08X", crc32.ChecksumIEEE(rom))
	destPath := filepath.Join(destDir, crcHex+".gb")

	// Skip write if file already exists (same CRC = same content)
	if exists, _ := afero.Exists(fs, destPath); exists {
		return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
	}

	if err := fs.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destDir, err)
	}
	if err := afero.WriteFile(fs, destPath, rom, 0644); err != nil {
		return nil, fmt.Errorf("failed to write ROM: %w", err)
	}

	return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
}
