// vga_mode1.go - Mode 1 character-grid plane renderer

package main

// Mode1Config is the 16-byte little-endian XRAM struct a Mode 1
// plane's config_ptr points at.
type Mode1Config struct {
	XWrap          bool
	YWrap          bool
	XPosPx         int16
	YPosPx         int16
	WidthChars     int16
	HeightChars    int16
	XramDataPtr    uint16
	XramPalettePtr uint16
	XramFontPtr    uint16
}

// Mode1Format encodes both glyph size (8x8 or 8x16) and colour depth
// for a Mode 1 plane, selected by its attr register.
type Mode1Format int

const (
	Mode1Bpp1_8x8 Mode1Format = iota
	Mode1Bpp4r_8x8
	Mode1Bpp4_8x8
	Mode1Bpp8_8x8
	Mode1Bpp16_8x8
	Mode1Bpp1_8x16
	Mode1Bpp4r_8x16
	Mode1Bpp4_8x16
	Mode1Bpp8_8x16
	Mode1Bpp16_8x16
	mode1FormatInvalid
)

// Mode1FormatFromAttr maps a plane's attr register to a format.
func Mode1FormatFromAttr(attr uint16) (Mode1Format, bool) {
	switch attr {
	case 0:
		return Mode1Bpp1_8x8, true
	case 1:
		return Mode1Bpp4r_8x8, true
	case 2:
		return Mode1Bpp4_8x8, true
	case 3:
		return Mode1Bpp8_8x8, true
	case 4:
		return Mode1Bpp16_8x8, true
	case 8:
		return Mode1Bpp1_8x16, true
	case 9:
		return Mode1Bpp4r_8x16, true
	case 10:
		return Mode1Bpp4_8x16, true
	case 11:
		return Mode1Bpp8_8x16, true
	case 12:
		return Mode1Bpp16_8x16, true
	default:
		return mode1FormatInvalid, false
	}
}

// FontHeight returns 8 or 16 depending on the glyph size variant.
func (f Mode1Format) FontHeight() int16 {
	switch f {
	case Mode1Bpp1_8x8, Mode1Bpp4r_8x8, Mode1Bpp4_8x8, Mode1Bpp8_8x8, Mode1Bpp16_8x8:
		return 8
	default:
		return 16
	}
}

// CellSize returns the number of XRAM bytes per character cell.
func (f Mode1Format) CellSize() int {
	switch f {
	case Mode1Bpp1_8x8, Mode1Bpp1_8x16:
		return 1
	case Mode1Bpp4r_8x8, Mode1Bpp4_8x8, Mode1Bpp4r_8x16, Mode1Bpp4_8x16:
		return 2
	case Mode1Bpp8_8x8, Mode1Bpp8_8x16:
		return 3
	default:
		return 6
	}
}

// BitsPerPixel is the colour depth used to size the palette.
func (f Mode1Format) BitsPerPixel() uint32 {
	switch f {
	case Mode1Bpp1_8x8, Mode1Bpp1_8x16:
		return 1
	case Mode1Bpp4r_8x8, Mode1Bpp4_8x8, Mode1Bpp4r_8x16, Mode1Bpp4_8x16:
		return 4
	case Mode1Bpp8_8x8, Mode1Bpp8_8x16:
		return 8
	default:
		return 16
	}
}

// Mode1Plane is a programmed character-grid plane.
type Mode1Plane struct {
	Config        Mode1Config
	Format        Mode1Format
	ScanlineBegin uint16
	ScanlineEnd   uint16
	ConfigPtr     uint16
}

// Mode1ConfigFromXram reads a Mode1Config out of XRAM at ptr.
func Mode1ConfigFromXram(xram *[65536]byte, ptr uint16) Mode1Config {
	p := int(ptr)
	if p+16 > 65536 {
		return Mode1Config{}
	}
	return Mode1Config{
		XWrap:          xram[p] != 0,
		YWrap:          xram[p+1] != 0,
		XPosPx:         int16(uint16(xram[p+2]) | uint16(xram[p+3])<<8),
		YPosPx:         int16(uint16(xram[p+4]) | uint16(xram[p+5])<<8),
		WidthChars:     int16(uint16(xram[p+6]) | uint16(xram[p+7])<<8),
		HeightChars:    int16(uint16(xram[p+8]) | uint16(xram[p+9])<<8),
		XramDataPtr:    uint16(xram[p+10]) | uint16(xram[p+11])<<8,
		XramPalettePtr: uint16(xram[p+12]) | uint16(xram[p+13])<<8,
		XramFontPtr:    uint16(xram[p+14]) | uint16(xram[p+15])<<8,
	}
}

// resolveFont returns the glyph table a plane should sample: the
// in-XRAM font if fontPtr leaves room for all 256 glyphs at the given
// height, otherwise the matching built-in table.
func resolveFont(xram *[65536]byte, fontPtr uint16, fontHeight int16) []byte {
	fontSize := 256 * int(fontHeight)
	if int(fontPtr)+fontSize <= 0x10000 {
		return xram[fontPtr : int(fontPtr)+fontSize]
	}
	if fontHeight == 8 {
		return FONT8[:]
	}
	return FONT16[:]
}

func paletteAt(palette []uint32, idx uint8) uint32 {
	if int(idx) < len(palette) {
		return palette[idx]
	}
	return 0
}

// resolveCellColors returns (bg, fg) for the character cell at
// cellOffset, per the byte layout of format.
func resolveCellColors(xram *[65536]byte, format Mode1Format, cellOffset int, palette []uint32) (bg, fg uint32) {
	switch format {
	case Mode1Bpp1_8x8, Mode1Bpp1_8x16:
		bg = paletteAt(palette, 0)
		fg = paletteAt(palette, 1)
		return bg, fg

	case Mode1Bpp4r_8x8, Mode1Bpp4r_8x16:
		fbByte := xram[cellOffset+1]
		fgIdx := fbByte >> 4
		bgIdx := fbByte & 0x0F
		return paletteAt(palette, bgIdx), paletteAt(palette, fgIdx)

	case Mode1Bpp4_8x8, Mode1Bpp4_8x16:
		bfByte := xram[cellOffset+1]
		bgIdx := bfByte >> 4
		fgIdx := bfByte & 0x0F
		return paletteAt(palette, bgIdx), paletteAt(palette, fgIdx)

	case Mode1Bpp8_8x8, Mode1Bpp8_8x16:
		fgIdx := xram[cellOffset+1]
		bgIdx := xram[cellOffset+2]
		return paletteAt(palette, bgIdx), paletteAt(palette, fgIdx)

	default: // 16bpp variants
		fgRaw := uint16(xram[cellOffset+2]) | uint16(xram[cellOffset+3])<<8
		bgRaw := uint16(xram[cellOffset+4]) | uint16(xram[cellOffset+5])<<8
		return rgb565ToRGBA(bgRaw), rgb565ToRGBA(fgRaw)
	}
}

// renderMode1 composites a character-grid plane into framebuffer.
func renderMode1(plane *Mode1Plane, xram *[65536]byte, framebuffer []uint32, canvasWidth, canvasHeight uint16) {
	cfg := plane.Config
	fontHeight := plane.Format.FontHeight()
	cellSize := plane.Format.CellSize()

	if cfg.WidthChars < 1 || cfg.HeightChars < 1 {
		return
	}

	heightPx := int32(cfg.HeightChars) * int32(fontHeight)
	sizeofRow := int(cfg.WidthChars) * cellSize
	sizeofData := int(cfg.HeightChars) * sizeofRow
	remaining := 0x10000 - int(cfg.XramDataPtr)
	if remaining < 0 {
		remaining = 0
	}
	if sizeofData > remaining {
		return
	}

	font := resolveFont(xram, cfg.XramFontPtr, fontHeight)
	var palette []uint32
	if plane.Format != Mode1Bpp16_8x8 && plane.Format != Mode1Bpp16_8x16 {
		palette = resolvePalette(xram, plane.Format.BitsPerPixel(), cfg.XramPalettePtr)
	}

	yStart := int32(plane.ScanlineBegin)
	yEnd := int32(canvasHeight)
	if plane.ScanlineEnd != 0 {
		yEnd = int32(plane.ScanlineEnd)
	}

	widthPx := int32(cfg.WidthChars) * 8

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

		charRow := row / int32(fontHeight)
		fontRowInGlyph := row & (int32(fontHeight) - 1)
		fontRowOffset := int(fontRowInGlyph) * 256
		rowDataOffset := int(cfg.XramDataPtr) + int(charRow)*sizeofRow

		for screenX := int32(0); screenX < int32(canvasWidth); screenX++ {
			col := screenX - int32(cfg.XPosPx)
			if cfg.XWrap {
				col = wrapCoord(col, widthPx)
			}
			if col < 0 || col >= widthPx {
				continue
			}

			charCol := col / 8
			bitInChar := uint(7 - (col & 7))

			cellOffset := rowDataOffset + int(charCol)*cellSize
			if cellOffset >= 0x10000 {
				continue
			}

			glyphCode := int(xram[cellOffset])
			fontByte := font[fontRowOffset+glyphCode]
			bit := (fontByte >> bitInChar) & 1

			bg, fg := resolveCellColors(xram, plane.Format, cellOffset, palette)
			pixel := bg
			if bit == 1 {
				pixel = fg
			}

			if pixel&0xFF != 0 {
				fbIdx := int(scanline)*int(canvasWidth) + int(screenX)
				framebuffer[fbIdx] = pixel
			}
		}
	}
}
