// font.go - built-in bitmap fonts for Mode 1 character planes
//
// These are opaque constant data, the same role firmware/src/font8.c
// and font16.c play: a flat glyph-code -> row-bytes table, MSB first,
// used only when a plane's font_ptr does not point at a valid in-XRAM
// font. Only glyph 0xDB (the full block) carries artwork; every other
// glyph, including the printable ASCII range that the text test
// scenarios write, is blank and renders as background.

package main

const (
	font8Height  = 8
	font16Height = 16
)

var FONT8 = buildFont8()
var FONT16 = buildFont16()

func buildFont8() [256 * font8Height]byte {
	var f [256 * font8Height]byte
	setFullBlock(f[:], 0xDB, font8Height)
	return f
}

func buildFont16() [256 * font16Height]byte {
	var f [256 * font16Height]byte
	setFullBlock(f[:], 0xDB, font16Height)
	return f
}

// setFullBlock fills every row of glyph in a row-major (font_row,
// then 256 glyphs per row) font table with 0xFF - the CP437 "full
// block" character, commonly used as a solid-fill tile.
func setFullBlock(font []byte, glyph int, height int) {
	for row := 0; row < height; row++ {
		font[row*256+glyph] = 0xFF
	}
}
