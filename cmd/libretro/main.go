package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emdmg/adapter"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadA, BitID: 4},
		{RetroID: libretro.JoypadB, BitID: 5},
		{RetroID: libretro.JoypadSelect, BitID: 6},
		{RetroID: libretro.JoypadStart, BitID: 7},
	})
}

func main() {}
