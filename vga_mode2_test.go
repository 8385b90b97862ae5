// vga_mode2_test.go - Mode 2 tile-grid renderer

package main

import "testing"

func makeMode2Xram(configPtr, dataPtr, tilePtr uint16, widthTiles, heightTiles int16) *[65536]byte {
	xram := &[65536]byte{}
	p := int(configPtr)
	xram[p] = 0
	xram[p+1] = 0
	putInt16(xram, p+2, 0)
	putInt16(xram, p+4, 0)
	putInt16(xram, p+6, widthTiles)
	putInt16(xram, p+8, heightTiles)
	putUint16At(xram, p+10, dataPtr)
	putUint16At(xram, p+12, 0xFFFF) // palette_ptr -> built-in
	putUint16At(xram, p+14, tilePtr)
	return xram
}

func TestMode2FormatFromAttr(t *testing.T) {
	cases := []struct {
		attr uint16
		want Mode2Format
		ok   bool
	}{
		{0, Mode2Bpp1_8x8, true},
		{1, Mode2Bpp2_8x8, true},
		{2, Mode2Bpp4_8x8, true},
		{3, Mode2Bpp8_8x8, true},
		{8, Mode2Bpp1_16x16, true},
		{9, Mode2Bpp2_16x16, true},
		{10, Mode2Bpp4_16x16, true},
		{11, Mode2Bpp8_16x16, true},
		{4, mode2FormatInvalid, false},
		{5, mode2FormatInvalid, false},
		{7, mode2FormatInvalid, false},
		{12, mode2FormatInvalid, false},
	}
	for _, c := range cases {
		got, ok := Mode2FormatFromAttr(c.attr)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("FormatFromAttr(%d) = %v, %v; want %v, %v", c.attr, got, ok, c.want, c.ok)
		}
	}
}

func TestMode2ConfigFromXram(t *testing.T) {
	xram := &[65536]byte{}
	p := 0xFF00
	xram[p] = 1
	xram[p+1] = 0
	putInt16(xram, p+2, 10)
	putInt16(xram, p+4, 20)
	putInt16(xram, p+6, 40)
	putInt16(xram, p+8, 30)
	putUint16At(xram, p+10, 0x0000)
	putUint16At(xram, p+12, 0xFFFF)
	putUint16At(xram, p+14, 0x1000)

	cfg := Mode2ConfigFromXram(xram, 0xFF00)
	if !cfg.XWrap || cfg.YWrap {
		t.Errorf("wrap flags: x=%v y=%v", cfg.XWrap, cfg.YWrap)
	}
	if cfg.XPosPx != 10 || cfg.YPosPx != 20 {
		t.Errorf("pos: x=%d y=%d", cfg.XPosPx, cfg.YPosPx)
	}
	if cfg.WidthTiles != 40 || cfg.HeightTiles != 30 {
		t.Errorf("size: w=%d h=%d", cfg.WidthTiles, cfg.HeightTiles)
	}
	if cfg.XramDataPtr != 0x0000 || cfg.XramPalettePtr != 0xFFFF || cfg.XramTilePtr != 0x1000 {
		t.Errorf("pointers: data=%#04x pal=%#04x tile=%#04x", cfg.XramDataPtr, cfg.XramPalettePtr, cfg.XramTilePtr)
	}
}

func TestMode2Bpp1SolidTile(t *testing.T) {
	configPtr, dataPtr, tilePtr := uint16(0xFF00), uint16(0x0000), uint16(0x1000)
	xram := makeMode2Xram(configPtr, dataPtr, tilePtr, 1, 1)
	for row := 0; row < 8; row++ {
		xram[int(tilePtr)+row] = 0xFF
	}
	xram[dataPtr] = 0

	plane := &Mode2Plane{
		Config:        Mode2ConfigFromXram(xram, configPtr),
		Format:        Mode2Bpp1_8x8,
		ScanlineBegin: 0,
		ScanlineEnd:   8,
		ConfigPtr:     configPtr,
	}

	fb := make([]uint32, 8*8)
	renderMode2(plane, xram, fb, 8, 8)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if fb[y*8+x]&0xFF == 0 {
				t.Errorf("pixel (%d,%d) should be opaque", x, y)
			}
		}
	}
}

func TestMode2Bpp1TwoTiles(t *testing.T) {
	configPtr, dataPtr, tilePtr := uint16(0xFF00), uint16(0x0000), uint16(0x1000)
	xram := makeMode2Xram(configPtr, dataPtr, tilePtr, 2, 1)
	for row := 0; row < 8; row++ {
		xram[int(tilePtr)+row] = 0x00
		xram[int(tilePtr)+8+row] = 0xFF
	}
	xram[dataPtr] = 0
	xram[dataPtr+1] = 1

	plane := &Mode2Plane{
		Config:        Mode2ConfigFromXram(xram, configPtr),
		Format:        Mode2Bpp1_8x8,
		ScanlineBegin: 0,
		ScanlineEnd:   8,
		ConfigPtr:     configPtr,
	}

	fb := make([]uint32, 16*8)
	renderMode2(plane, xram, fb, 16, 8)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if fb[y*16+x] != 0 {
				t.Errorf("left tile pixel (%d,%d) should be transparent", x, y)
			}
		}
		for x := 8; x < 16; x++ {
			if fb[y*16+x]&0xFF == 0 {
				t.Errorf("right tile pixel (%d,%d) should be opaque", x, y)
			}
		}
	}
}

func TestMode2Bpp8(t *testing.T) {
	configPtr, dataPtr, tilePtr := uint16(0xFF00), uint16(0x0000), uint16(0x1000)
	xram := makeMode2Xram(configPtr, dataPtr, tilePtr, 1, 1)
	for i := 0; i < 64; i++ {
		xram[int(tilePtr)+i] = 9
	}
	xram[dataPtr] = 0

	plane := &Mode2Plane{
		Config:        Mode2ConfigFromXram(xram, configPtr),
		Format:        Mode2Bpp8_8x8,
		ScanlineBegin: 0,
		ScanlineEnd:   8,
		ConfigPtr:     configPtr,
	}

	fb := make([]uint32, 8*8)
	renderMode2(plane, xram, fb, 8, 8)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if fb[y*8+x] != Palette256[9] {
				t.Errorf("pixel (%d,%d) = %#08x, want bright red %#08x", x, y, fb[y*8+x], Palette256[9])
			}
		}
	}
}

func TestMode2YWrap(t *testing.T) {
	configPtr, dataPtr, tilePtr := uint16(0xFF00), uint16(0x0000), uint16(0x1000)
	xram := makeMode2Xram(configPtr, dataPtr, tilePtr, 1, 1)
	xram[configPtr+1] = 1 // y_wrap
	for row := 0; row < 8; row++ {
		xram[int(tilePtr)+row] = 0xFF
	}
	xram[dataPtr] = 0

	plane := &Mode2Plane{
		Config:        Mode2ConfigFromXram(xram, configPtr),
		Format:        Mode2Bpp1_8x8,
		ScanlineBegin: 0,
		ScanlineEnd:   16,
		ConfigPtr:     configPtr,
	}

	fb := make([]uint32, 8*16)
	renderMode2(plane, xram, fb, 8, 16)

	if fb[0]&0xFF == 0 {
		t.Errorf("row 0 should have content")
	}
	if fb[8*8]&0xFF == 0 {
		t.Errorf("row 8 should wrap and have content")
	}
}

// TestMode2WrapWidthUsesTileSize locks in the divergence from the
// firmware's width_tiles*8 wrap width: a single 16x16 tile must wrap
// at column 16, not column 8. The tile's left half is opaque and its
// right half transparent, so an 8-pixel wrap would make 8..15 opaque.
func TestMode2WrapWidthUsesTileSize(t *testing.T) {
	configPtr, dataPtr, tilePtr := uint16(0xFF00), uint16(0x0000), uint16(0x1000)
	xram := makeMode2Xram(configPtr, dataPtr, tilePtr, 1, 1)
	xram[configPtr] = 1 // x_wrap
	for row := 0; row < 16; row++ {
		xram[int(tilePtr)+row*2] = 0xFF   // columns 0..7
		xram[int(tilePtr)+row*2+1] = 0x00 // columns 8..15
	}
	xram[dataPtr] = 0

	plane := &Mode2Plane{
		Config:        Mode2ConfigFromXram(xram, configPtr),
		Format:        Mode2Bpp1_16x16,
		ScanlineBegin: 0,
		ScanlineEnd:   1,
		ConfigPtr:     configPtr,
	}

	fb := make([]uint32, 20)
	renderMode2(plane, xram, fb, 20, 1)

	for x := 0; x < 8; x++ {
		if fb[x]&0xFF == 0 {
			t.Errorf("pixel %d in the tile's left half should be opaque", x)
		}
	}
	for x := 8; x < 16; x++ {
		if fb[x] != 0 {
			t.Errorf("pixel %d in the tile's right half should stay transparent", x)
		}
	}
	if fb[16]&0xFF == 0 {
		t.Errorf("pixel 16 should wrap back into the tile, not fall outside it")
	}
}
