package emu

import (
	"cmp"
	"slices"
)

// OAM attribute bits.
const (
	attrPriority = 0x80 // BG and window colors 1-3 over sprite
	attrYFlip    = 0x40
	attrXFlip    = 0x20
	attrPalette  = 0x10
)

// sprite is one OAM entry selected for the current line.
type sprite struct {
	y, x uint8
	tile uint8
	attr uint8
}

// pixelSource records which pass produced a pixel on the current line.
type pixelSource uint8

const (
	sourceBGWin pixelSource = iota
	sourceSprite
)

// selectSprites scans OAM in table order for entries covering LY, then
// orders them by X. The sort is stable so OAM order breaks ties.
func (p *PPU) selectSprites() {
	p.spriteCount = 0
	if !p.lcdc.objEnable {
		return
	}

	ly := int(p.ly)
	height := int(p.lcdc.objSize)
	for i := 0; i < oamEntries; i++ {
		entry := p.mem.oam[i*4 : i*4+4]
		top := int(entry[0]) - 16
		if entry[1] == 0 || ly < top || ly > top+height-1 {
			continue
		}
		p.sprites[p.spriteCount] = sprite{y: entry[0], x: entry[1], tile: entry[2], attr: entry[3]}
		p.spriteCount++
		if p.spriteLimit && p.spriteCount == spritesPerLine {
			break
		}
	}

	slices.SortStableFunc(p.sprites[:p.spriteCount], func(a, b sprite) int {
		return cmp.Compare(a.x, b.x)
	})
}

// renderScanline composites window, background and sprites for LY into
// the back buffer.
func (p *PPU) renderScanline() {
	for i := range p.lineColorID {
		p.lineColorID[i] = 0
		p.lineSource[i] = sourceBGWin
	}

	off := int(p.ly) * ScreenWidth
	row := p.back[off : off+ScreenWidth]

	if p.lcdc.bgWinEnable {
		end := p.renderWindow(row)
		p.renderBackground(row, end)
	} else {
		p.drawWindowThisLine = false
		clear(row)
	}

	p.renderSprites(row)
}

// renderWindow draws the window from WX-7 to the right edge and returns
// the first column it covers.
func (p *PPU) renderWindow(row []uint8) int {
	left := int(p.wx) - 7
	p.drawWindowThisLine = p.lcdc.winEnable && p.windowInFrame && left >= -6 && left <= ScreenWidth-1
	if !p.drawWindowThisLine {
		return ScreenWidth
	}

	line := p.windowLineCounter
	for x := max(left, 0); x < ScreenWidth; x++ {
		col := x - left
		idx := p.vram(p.lcdc.winTileMap + uint16((col/8+32*(line/8))&0x3FF))
		id := p.tilePixel(p.tileAddress(idx), line%8, col%8)
		p.lineColorID[x] = id
		row[x] = shade(p.bgp, id)
	}

	return max(left, 0)
}

// renderBackground fills columns [0, end) from the scrolled tile map.
func (p *PPU) renderBackground(row []uint8, end int) {
	y := (int(p.ly) + int(p.scy)) & 0xFF
	for x := 0; x < end; x++ {
		sx := (x + int(p.scx)) & 0xFF
		idx := p.vram(p.lcdc.bgTileMap + uint16((sx/8+32*(y/8))&0x3FF))
		id := p.tilePixel(p.tileAddress(idx), y%8, sx%8)
		p.lineColorID[x] = id
		row[x] = shade(p.bgp, id)
	}
}

// renderSprites draws the selected sprites lowest priority first, so the
// highest priority sprite is written last.
func (p *PPU) renderSprites(row []uint8) {
	if !p.lcdc.objEnable || p.spriteCount == 0 {
		return
	}

	height := int(p.lcdc.objSize)
	for i := p.spriteCount - 1; i >= 0; i-- {
		s := p.sprites[i]
		yFlip := s.attr&attrYFlip != 0
		xFlip := s.attr&attrXFlip != 0

		yPos := (int(p.ly) - (int(s.y) - 16)) % 16
		tile := s.tile
		if height == 16 {
			bottom := yPos >= 8
			if bottom != yFlip {
				tile |= 0x01
			} else {
				tile &= 0xFE
			}
		}
		tileRow := yPos % 8
		if yFlip {
			tileRow = 7 - tileRow
		}
		addr := 0x8000 + 16*uint16(tile)
		pal := p.obp[0]
		if s.attr&attrPalette != 0 {
			pal = p.obp[1]
		}

		for px := 0; px < 8; px++ {
			x := int(s.x) - 8 + px
			if x < 0 || x >= ScreenWidth {
				continue
			}
			col := px
			if xFlip {
				col = 7 - px
			}
			id := p.tilePixel(addr, tileRow, col)

			switch p.lineSource[x] {
			case sourceBGWin:
				if id == 0 || (s.attr&attrPriority != 0 && p.lineColorID[x] > 0) {
					continue
				}
			case sourceSprite:
				if p.lineColorID[x] > 0 && id == 0 {
					continue
				}
			}

			row[x] = shade(pal, id)
			p.lineColorID[x] = id
			p.lineSource[x] = sourceSprite
		}
	}
}

// tileAddress resolves a BG/window tile index under the LCDC addressing mode.
func (p *PPU) tileAddress(idx uint8) uint16 {
	if p.lcdc.tileData == 0x8000 {
		return 0x8000 + 16*uint16(idx)
	}
	return 0x8800 + 16*uint16(idx+0x80)
}

// tilePixel returns the 2-bit color ID at (row, col) of the tile at addr.
func (p *PPU) tilePixel(addr uint16, row, col int) uint8 {
	lo := p.vram(addr + uint16(row*2))
	hi := p.vram(addr + uint16(row*2) + 1)
	shift := uint(7 - col)
	return (lo>>shift)&0x01 | ((hi>>shift)&0x01)<<1
}

func (p *PPU) vram(addr uint16) uint8 {
	return p.mem.vram[addr-vramStart]
}

// shade maps a color ID through a 2-bit-per-entry palette register.
func shade(pal uint8, id uint8) uint8 {
	return (pal >> (id * 2)) & 0x03
}
