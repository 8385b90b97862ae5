// vga_mode3.go - Mode 3 bitmap plane renderer

package main

// Mode3Config is the 14-byte little-endian XRAM struct a Mode 3
// plane's config_ptr points at.
type Mode3Config struct {
	XWrap           bool
	YWrap           bool
	XPosPx          int16
	YPosPx          int16
	WidthPx         int16
	HeightPx        int16
	XramDataPtr     uint16
	XramPalettePtr  uint16
}

// ColorFormat is a Mode 3 pixel packing format, selected by a plane's
// attr value. Mode 2 uses its own Mode2Format.
type ColorFormat int

const (
	FormatBpp1Msb ColorFormat = iota
	FormatBpp2Msb
	FormatBpp4Msb
	FormatBpp8
	FormatBpp16
	FormatBpp1Lsb
	FormatBpp2Lsb
	FormatBpp4Lsb
	formatInvalid
)

// ColorFormatFromAttr maps a plane's attr register to a pixel format.
func ColorFormatFromAttr(attr uint16) (ColorFormat, bool) {
	switch attr {
	case 0:
		return FormatBpp1Msb, true
	case 1:
		return FormatBpp2Msb, true
	case 2:
		return FormatBpp4Msb, true
	case 3:
		return FormatBpp8, true
	case 4:
		return FormatBpp16, true
	case 8:
		return FormatBpp1Lsb, true
	case 9:
		return FormatBpp2Lsb, true
	case 10:
		return FormatBpp4Lsb, true
	default:
		return formatInvalid, false
	}
}

// BitsPerPixel returns the pixel depth for a format.
func (f ColorFormat) BitsPerPixel() uint32 {
	switch f {
	case FormatBpp1Msb, FormatBpp1Lsb:
		return 1
	case FormatBpp2Msb, FormatBpp2Lsb:
		return 2
	case FormatBpp4Msb, FormatBpp4Lsb:
		return 4
	case FormatBpp8:
		return 8
	case FormatBpp16:
		return 16
	default:
		return 0
	}
}

// Mode3Plane is a programmed bitmap plane.
type Mode3Plane struct {
	Config        Mode3Config
	Format        ColorFormat
	ScanlineBegin uint16
	ScanlineEnd   uint16
	ConfigPtr     uint16
}

// Mode3ConfigFromXram reads a Mode3Config out of XRAM at ptr. An
// out-of-bounds pointer yields a zeroed config rather than panicking,
// matching the firmware's NULL-descriptor convention.
func Mode3ConfigFromXram(xram *[65536]byte, ptr uint16) Mode3Config {
	p := int(ptr)
	if p+14 > 65536 {
		return Mode3Config{}
	}
	return Mode3Config{
		XWrap:          xram[p] != 0,
		YWrap:          xram[p+1] != 0,
		XPosPx:         int16(uint16(xram[p+2]) | uint16(xram[p+3])<<8),
		YPosPx:         int16(uint16(xram[p+4]) | uint16(xram[p+5])<<8),
		WidthPx:        int16(uint16(xram[p+6]) | uint16(xram[p+7])<<8),
		HeightPx:       int16(uint16(xram[p+8]) | uint16(xram[p+9])<<8),
		XramDataPtr:    uint16(xram[p+10]) | uint16(xram[p+11])<<8,
		XramPalettePtr: uint16(xram[p+12]) | uint16(xram[p+13])<<8,
	}
}

// resolvePalette returns the colour table a Mode 3/Mode 1/Mode 2
// plane should index into for a given pixel depth: a custom
// XRAM-resident palette if palettePtr is non-zero, word-aligned and
// in-bounds, otherwise a built-in fallback (Palette2 for 1bpp, a
// Palette256 prefix for everything else). A zero palette_ptr is
// treated as "no custom palette" rather than a literal pointer at
// XRAM address 0, since address 0 is conventionally the caller's own
// config struct. Callers with a direct-colour (16bpp) format skip
// this entirely - there is no palette to resolve.
func resolvePalette(xram *[65536]byte, bpp uint32, palettePtr uint16) []uint32 {
	count := 1 << bpp

	if palettePtr&1 == 0 && palettePtr > 0 && int(palettePtr)+count*2 <= 0x10000 {
		pal := make([]uint32, count)
		for i := 0; i < count; i++ {
			offset := int(palettePtr) + i*2
			raw := uint16(xram[offset]) | uint16(xram[offset+1])<<8
			pal[i] = rgb565ToRGBA(raw)
		}
		return pal
	}

	if bpp == 1 {
		return Palette2[:]
	}
	return Palette256[:count]
}

// getPixelMode3 extracts a pixel index from a bitmap row at column
// col, for every indexed format. Bpp16 is handled directly by the
// caller since it carries colour, not an index.
func getPixelMode3(row []byte, col int, format ColorFormat) uint8 {
	switch format {
	case FormatBpp8:
		return row[col]
	case FormatBpp4Msb:
		b := row[col/2]
		if col%2 == 0 {
			return b >> 4
		}
		return b & 0x0F
	case FormatBpp4Lsb:
		b := row[col/2]
		if col%2 == 0 {
			return b & 0x0F
		}
		return b >> 4
	case FormatBpp2Msb:
		b := row[col/4]
		shift := 6 - (col%4)*2
		return (b >> uint(shift)) & 0x03
	case FormatBpp2Lsb:
		b := row[col/4]
		shift := (col % 4) * 2
		return (b >> uint(shift)) & 0x03
	case FormatBpp1Msb:
		b := row[col/8]
		shift := 7 - (col % 8)
		return (b >> uint(shift)) & 0x01
	case FormatBpp1Lsb:
		b := row[col/8]
		shift := col % 8
		return (b >> uint(shift)) & 0x01
	default:
		return 0
	}
}

// wrapCoord mirrors the firmware's wraparound arithmetic, equivalent
// to Euclidean remainder for any positive span.
func wrapCoord(v, span int32) int32 {
	r := v % span
	if r < 0 {
		r += span
	}
	return r
}

// renderMode3 composites a bitmap plane into framebuffer (row-major
// RGBA, canvasWidth x canvasHeight), writing only opaque pixels so
// earlier planes and the background show through transparent ones.
func renderMode3(plane *Mode3Plane, xram *[65536]byte, framebuffer []uint32, canvasWidth, canvasHeight uint16) {
	cfg := plane.Config

	if cfg.WidthPx < 1 || cfg.HeightPx < 1 {
		return
	}

	bpp := plane.Format.BitsPerPixel()
	sizeofRow := int((uint32(cfg.WidthPx)*bpp + 7) / 8)

	sizeofBitmap := int(cfg.HeightPx) * sizeofRow
	remaining := 0x10000 - int(cfg.XramDataPtr)
	if remaining < 0 {
		remaining = 0
	}
	if sizeofBitmap > remaining {
		return
	}

	var palette []uint32
	if plane.Format != FormatBpp16 {
		palette = resolvePalette(xram, plane.Format.BitsPerPixel(), cfg.XramPalettePtr)
	}

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
			row = wrapCoord(row, int32(cfg.HeightPx))
		}
		if row < 0 || row >= int32(cfg.HeightPx) {
			continue
		}

		rowOffset := int(cfg.XramDataPtr) + int(row)*sizeofRow

		for screenX := int32(0); screenX < int32(canvasWidth); screenX++ {
			col := screenX - int32(cfg.XPosPx)
			if cfg.XWrap {
				col = wrapCoord(col, int32(cfg.WidthPx))
			}
			if col < 0 || col >= int32(cfg.WidthPx) {
				continue
			}

			fbIdx := int(scanline)*int(canvasWidth) + int(screenX)

			var pixel uint32
			if plane.Format == FormatBpp16 {
				byteOffset := rowOffset + int(col)*2
				if byteOffset+1 < 0x10000 {
					raw := uint16(xram[byteOffset]) | uint16(xram[byteOffset+1])<<8
					pixel = rgb565ToRGBA(raw)
				}
			} else {
				idx := getPixelMode3(xram[rowOffset:], int(col), plane.Format)
				if int(idx) < len(palette) {
					pixel = palette[idx]
				}
			}

			if pixel&0xFF != 0 {
				framebuffer[fbIdx] = pixel
			}
		}
	}
}
