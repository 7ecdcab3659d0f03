//go:build !libretro

package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emdmg/cli"
	"github.com/user-none/emdmg/emu"
	"github.com/user-none/emdmg/romloader"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file")
	paletteFlag := flag.String("palette", "green", "palette: green or grey")
	scale := flag.Int("scale", 3, "initial window scale")
	screenshotDir := flag.String("screenshot-dir", ".", "directory for F12 screenshots")
	noSpriteLimit := flag.Bool("no-sprite-limit", false, "draw every sprite on a line")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: go run main.go -rom <romfile> [-palette green|grey] [-scale n] [-screenshot-dir dir] [-no-sprite-limit]")
		os.Exit(1)
	}

	romData, name, err := romloader.LoadROM(*romPath)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	region, checksumOK := emu.DetectRegionFromROM(romData)
	if !checksumOK {
		slog.Warn("cartridge header checksum mismatch", "rom", name)
	}

	e, err := emu.NewEmulator(romData, region)
	if err != nil {
		log.Fatalf("Failed to start emulator: %v", err)
	}

	switch strings.ToLower(*paletteFlag) {
	case "green":
	case "grey", "gray":
		e.SetOption("grey_palette", "true")
	default:
		log.Fatalf("Invalid palette: %s (use green or grey)", *paletteFlag)
	}
	if *noSpriteLimit {
		e.SetOption("sprite_limit", "false")
	}

	slog.Info("cartridge loaded",
		"rom", name,
		"title", e.Cartridge().Header.Title,
		"type", emu.CartridgeTypeName(e.Cartridge().Header.Type),
		"crc32", fmt.Sprintf("%08X", e.Cartridge().ROMCRC32()))

	timing := emu.GetTimingForRegion(region)
	ebiten.SetWindowSize(emu.ScreenWidth * *scale, emu.ScreenHeight * *scale)
	ebiten.SetWindowTitle("emdmg - " + e.Cartridge().Header.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(emu.ScreenWidth, emu.ScreenHeight, -1, -1)
	ebiten.SetTPS(timing.FPS)

	if err := ebiten.RunGame(cli.NewRunner(&e, *screenshotDir, *scale)); err != nil {
		log.Fatal(err)
	}
}
