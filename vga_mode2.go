// vga_mode2.go - Mode 2 tile-grid plane renderer

package main

// Mode2Config is the 16-byte little-endian XRAM struct a Mode 2
// plane's config_ptr points at.
type Mode2Config struct {
	XWrap          bool
	YWrap          bool
	XPosPx         int16
	YPosPx         int16
	WidthTiles     int16
	HeightTiles    int16
	XramDataPtr    uint16
	XramPalettePtr uint16
	XramTilePtr    uint16
}

// Mode2Format encodes both tile size (8x8 or 16x16) and colour depth
// for a Mode 2 plane, selected by its attr register.
type Mode2Format int

const (
	Mode2Bpp1_8x8 Mode2Format = iota
	Mode2Bpp2_8x8
	Mode2Bpp4_8x8
	Mode2Bpp8_8x8
	Mode2Bpp1_16x16
	Mode2Bpp2_16x16
	Mode2Bpp4_16x16
	Mode2Bpp8_16x16
	mode2FormatInvalid
)

// Mode2FormatFromAttr maps a plane's attr register to a format.
func Mode2FormatFromAttr(attr uint16) (Mode2Format, bool) {
	switch attr {
	case 0:
		return Mode2Bpp1_8x8, true
	case 1:
		return Mode2Bpp2_8x8, true
	case 2:
		return Mode2Bpp4_8x8, true
	case 3:
		return Mode2Bpp8_8x8, true
	case 8:
		return Mode2Bpp1_16x16, true
	case 9:
		return Mode2Bpp2_16x16, true
	case 10:
		return Mode2Bpp4_16x16, true
	case 11:
		return Mode2Bpp8_16x16, true
	default:
		return mode2FormatInvalid, false
	}
}

// TileSize returns 8 or 16, the tile's edge length in pixels.
func (f Mode2Format) TileSize() int16 {
	switch f {
	case Mode2Bpp1_8x8, Mode2Bpp2_8x8, Mode2Bpp4_8x8, Mode2Bpp8_8x8:
		return 8
	default:
		return 16
	}
}

// BitsPerPixel is the colour depth used to size the palette.
func (f Mode2Format) BitsPerPixel() uint32 {
	switch f {
	case Mode2Bpp1_8x8, Mode2Bpp1_16x16:
		return 1
	case Mode2Bpp2_8x8, Mode2Bpp2_16x16:
		return 2
	case Mode2Bpp4_8x8, Mode2Bpp4_16x16:
		return 4
	default:
		return 8
	}
}

// RowSize is the number of bytes per row within a single tile's
// bitmap: bpp bytes for 8x8 tiles, 2*bpp bytes for 16x16.
func (f Mode2Format) RowSize() int {
	bpp := int(f.BitsPerPixel())
	if f.TileSize() == 8 {
		return bpp
	}
	return 2 * bpp
}

// TileBytes is the total XRAM footprint of one tile's bitmap.
func (f Mode2Format) TileBytes() int {
	return f.RowSize() * int(f.TileSize())
}

// Mode2Plane is a programmed tile-grid plane.
type Mode2Plane struct {
	Config        Mode2Config
	Format        Mode2Format
	ScanlineBegin uint16
	ScanlineEnd   uint16
	ConfigPtr     uint16
}

// Mode2ConfigFromXram reads a Mode2Config out of XRAM at ptr.
func Mode2ConfigFromXram(xram *[65536]byte, ptr uint16) Mode2Config {
	p := int(ptr)
	if p+16 > 65536 {
		return Mode2Config{}
	}
	return Mode2Config{
		XWrap:          xram[p] != 0,
		YWrap:          xram[p+1] != 0,
		XPosPx:         int16(uint16(xram[p+2]) | uint16(xram[p+3])<<8),
		YPosPx:         int16(uint16(xram[p+4]) | uint16(xram[p+5])<<8),
		WidthTiles:     int16(uint16(xram[p+6]) | uint16(xram[p+7])<<8),
		HeightTiles:    int16(uint16(xram[p+8]) | uint16(xram[p+9])<<8),
		XramDataPtr:    uint16(xram[p+10]) | uint16(xram[p+11])<<8,
		XramPalettePtr: uint16(xram[p+12]) | uint16(xram[p+13])<<8,
		XramTilePtr:    uint16(xram[p+14]) | uint16(xram[p+15])<<8,
	}
}

// getTilePixel extracts a pixel's palette index from a tile bitmap
// byte. Packing is MSB-first.
func getTilePixel(tileByte byte, pixelInByte int, bpp uint32) uint8 {
	switch bpp {
	case 1:
		return (tileByte >> uint(7-pixelInByte)) & 1
	case 2:
		return (tileByte >> uint(6-pixelInByte*2)) & 0x03
	case 4:
		if pixelInByte == 0 {
			return tileByte >> 4
		}
		return tileByte & 0x0F
	case 8:
		return tileByte
	default:
		return 0
	}
}

// renderMode2 composites a tile-grid plane into framebuffer.
//
// The wrap width used here is width_tiles*tile_size, not the
// firmware's width_tiles*8 - a bug for 16x16 tiles that this emulator
// does not reproduce.
func renderMode2(plane *Mode2Plane, xram *[65536]byte, framebuffer []uint32, canvasWidth, canvasHeight uint16) {
	cfg := plane.Config
	tileSize := plane.Format.TileSize()
	bpp := plane.Format.BitsPerPixel()
	rowSize := plane.Format.RowSize()
	tileBytes := plane.Format.TileBytes()
	pixelsPerByte := 8 / int(bpp)

	if cfg.WidthTiles < 1 || cfg.HeightTiles < 1 {
		return
	}

	heightPx := int32(cfg.HeightTiles) * int32(tileSize)
	widthPx := int32(cfg.WidthTiles) * int32(tileSize)

	sizeofTilemap := int(cfg.HeightTiles) * int(cfg.WidthTiles)
	remaining := 0x10000 - int(cfg.XramDataPtr)
	if remaining < 0 {
		remaining = 0
	}
	if sizeofTilemap > remaining {
		return
	}

	palette := resolvePalette(xram, bpp, cfg.XramPalettePtr)

	yStart := int32(plane.ScanlineBegin)
	yEnd := int32(canvasHeight)
	if plane.ScanlineEnd != 0 {
		yEnd = int32(plane.ScanlineEnd)
	}

	for scanline := yStart; scanline < yEnd; scanline++ {
		if scanline < 0 || scanline >= int32(canvasHeight) {
			continue
		}

		row := scanline - int32(cfg.YPosPx)
		if cfg.YWrap {
			row = wrapCoord(row, heightPx)
		}
		if row < 0 || row >= heightPx {
			continue
		}

		tileRow := row / int32(tileSize)
		withinTileRow := row & (int32(tileSize) - 1)

		for screenX := int32(0); screenX < int32(canvasWidth); screenX++ {
			col := screenX - int32(cfg.XPosPx)
			if cfg.XWrap {
				col = wrapCoord(col, widthPx)
			}
			if col < 0 || col >= widthPx {
				continue
			}

			tileCol := col / int32(tileSize)

			mapOffset := int(cfg.XramDataPtr) + int(tileRow)*int(cfg.WidthTiles) + int(tileCol)
			if mapOffset >= 0x10000 {
				continue
			}
			tileID := int(xram[mapOffset])

			pixelInTileCol := int(col) & (int(tileSize) - 1)
			byteCol := pixelInTileCol / pixelsPerByte
			pixelInByte := pixelInTileCol % pixelsPerByte

			tileAddr := int(cfg.XramTilePtr) + tileID*tileBytes + int(withinTileRow)*rowSize + byteCol
			if tileAddr >= 0x10000 {
				continue
			}

			tileByte := xram[tileAddr]
			pixelIdx := getTilePixel(tileByte, pixelInByte, bpp)

			var pixel uint32
			if int(pixelIdx) < len(palette) {
				pixel = palette[pixelIdx]
			}

			if pixel&0xFF != 0 {
				fbIdx := int(scanline)*int(canvasWidth) + int(screenX)
				framebuffer[fbIdx] = pixel
			}
		}
	}
}
