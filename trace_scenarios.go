// trace_scenarios.go - named test-mode trace generators for the CLI
// screenshot subcommand and for engine-level tests.

package main

import (
	"fmt"
	"strings"
)

// TestMode is a named, self-contained scenario: a fixed canvas size,
// colour depth and pixel pattern (or, for the text/fractal/multi-plane
// variants, a bespoke layout) that exercises one corner of the
// renderer.
type TestMode int

const (
	Mono640x480 TestMode = iota
	Mono640x360
	Mono320x240
	Mono320x180
	Color2bpp640x360
	Color2bpp320x240
	Color2bpp320x180
	Color4bpp320x240
	Color4bpp320x180
	Color8bpp320x180
	Color16bpp320
	Text1bpp320x240
	Text8bpp320x240
	Mandelbrot
	MultiPlane
)

var allTestModes = []TestMode{
	Mono640x480, Mono640x360, Mono320x240, Mono320x180,
	Color2bpp640x360, Color2bpp320x240, Color2bpp320x180,
	Color4bpp320x240, Color4bpp320x180, Color8bpp320x180, Color16bpp320,
	Text1bpp320x240, Text8bpp320x240, Mandelbrot, MultiPlane,
}

func (m TestMode) String() string {
	switch m {
	case Mono640x480:
		return "mono640x480"
	case Mono640x360:
		return "mono640x360"
	case Mono320x240:
		return "mono320x240"
	case Mono320x180:
		return "mono320x180"
	case Color2bpp640x360:
		return "color2bpp640x360"
	case Color2bpp320x240:
		return "color2bpp320x240"
	case Color2bpp320x180:
		return "color2bpp320x180"
	case Color4bpp320x240:
		return "color4bpp320x240"
	case Color4bpp320x180:
		return "color4bpp320x180"
	case Color8bpp320x180:
		return "color8bpp320x180"
	case Color16bpp320:
		return "color16bpp320"
	case Text1bpp320x240:
		return "text1bpp320x240"
	case Text8bpp320x240:
		return "text8bpp320x240"
	case Mandelbrot:
		return "mandelbrot"
	case MultiPlane:
		return "multi_plane"
	default:
		return "unknown"
	}
}

// ParseTestMode resolves a --mode flag value, returning an error
// listing every valid mode if s doesn't match one.
func ParseTestMode(s string) (TestMode, error) {
	for _, m := range allTestModes {
		if m.String() == s {
			return m, nil
		}
	}
	names := make([]string, len(allTestModes))
	for i, m := range allTestModes {
		names[i] = m.String()
	}
	return 0, fmt.Errorf("unknown mode %q. Valid modes: %s", s, strings.Join(names, ", "))
}

// canvasReg returns the CANVAS register value for the bitmap test
// modes; text/mandelbrot/multi-plane always use 320x240 (register 1).
func (m TestMode) canvasReg() uint16 {
	switch m {
	case Mono320x240, Color2bpp320x240, Color4bpp320x240, Color16bpp320:
		return 1
	case Mono320x180, Color2bpp320x180, Color4bpp320x180, Color8bpp320x180:
		return 2
	case Mono640x480:
		return 3
	case Mono640x360, Color2bpp640x360:
		return 4
	default:
		return 1
	}
}

func canvasRegSize(reg uint16) (int16, int16) {
	switch reg {
	case 1:
		return 320, 240
	case 2:
		return 320, 180
	case 3:
		return 640, 480
	case 4:
		return 640, 360
	default:
		return 640, 480
	}
}

func (m TestMode) bpp() uint16 {
	switch m {
	case Mono640x480, Mono640x360, Mono320x240, Mono320x180:
		return 1
	case Color2bpp640x360, Color2bpp320x240, Color2bpp320x180:
		return 2
	case Color4bpp320x240, Color4bpp320x180:
		return 4
	case Color8bpp320x180:
		return 8
	case Color16bpp320:
		return 16
	default:
		return 0
	}
}

func (m TestMode) attr() uint16 {
	switch m.bpp() {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	case 16:
		return 4
	default:
		return 0
	}
}

// bitmapSize returns the bitmap's own pixel dimensions, which for
// Color16bpp320 is shorter than the canvas since a full 320x240
// 16bpp bitmap doesn't fit in 64 KiB XRAM alongside its config.
func (m TestMode) bitmapSize() (int16, int16) {
	w, h := canvasRegSize(m.canvasReg())
	if m.bpp() == 16 {
		bytesPerRow := uint32(w) * 2
		maxRows := (65536 - 256) / bytesPerRow
		return w, int16(maxRows)
	}
	return w, h
}

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le16i(v int16) []byte { return le16(uint16(v)) }

// mode3ConfigBytes lays out a 14-byte Mode3Config.
func mode3ConfigBytes(xWrap, yWrap bool, xPos, yPos, width, height int16, dataPtr, palettePtr uint16) []byte {
	b := make([]byte, 0, 14)
	b = append(b, boolByte(xWrap), boolByte(yWrap))
	b = append(b, le16i(xPos)...)
	b = append(b, le16i(yPos)...)
	b = append(b, le16i(width)...)
	b = append(b, le16i(height)...)
	b = append(b, le16(dataPtr)...)
	b = append(b, le16(palettePtr)...)
	return b
}

// mode1ConfigBytes lays out a 16-byte Mode1Config.
func mode1ConfigBytes(xWrap, yWrap bool, xPos, yPos, widthChars, heightChars int16, dataPtr, palettePtr, fontPtr uint16) []byte {
	b := make([]byte, 0, 16)
	b = append(b, boolByte(xWrap), boolByte(yWrap))
	b = append(b, le16i(xPos)...)
	b = append(b, le16i(yPos)...)
	b = append(b, le16i(widthChars)...)
	b = append(b, le16i(heightChars)...)
	b = append(b, le16(dataPtr)...)
	b = append(b, le16(palettePtr)...)
	b = append(b, le16(fontPtr)...)
	return b
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// patternByte generates one byte of test-pattern pixel data at byte
// column byteX, row y, for the given bit depth and bitmap width.
// Mirrors the original test harness's gradient/checkerboard patterns.
func patternByte(byteX, y uint32, bpp uint16, width uint32) byte {
	switch bpp {
	case 1:
		basePx := byteX * 8
		var out byte
		for bit := uint32(0); bit < 8; bit++ {
			px := basePx + bit
			if px < width && (px+y)%2 == 0 {
				out |= 1 << (7 - bit)
			}
		}
		return out
	case 2:
		basePx := byteX * 4
		var out byte
		for i := uint32(0); i < 4; i++ {
			px := basePx + i
			if px < width {
				color := byte((px + y) % 4)
				out |= color << (6 - i*2)
			}
		}
		return out
	case 4:
		basePx := byteX * 2
		var out byte
		for i := uint32(0); i < 2; i++ {
			px := basePx + i
			if px < width {
				color := byte((px + y) % 16)
				if i == 0 {
					out |= color << 4
				} else {
					out |= color
				}
			}
		}
		return out
	case 8:
		return byte((byteX + y) % 256)
	case 16:
		px := byteX / 2
		r5 := uint16(px % 32)
		g5 := uint16(y % 32)
		b5 := uint16((px + y) % 32)
		const alpha = uint16(1) << 5
		color := (b5 << 11) | (g5 << 6) | alpha | r5
		if byteX%2 == 0 {
			return byte(color & 0xFF)
		}
		return byte(color >> 8)
	default:
		return 0
	}
}

// mandelbrotColor computes the fixed-point Mandelbrot escape-time
// colour index (0-15) for pixel (px, py) in a 320x240 image. Matches
// the reference firmware's pico-examples mandelbrot demo exactly.
func mandelbrotColor(px, py int32) uint8 {
	const fracBits = 12
	const width = 320
	const height = 240

	x0 := px*12288/width - 9216
	y0 := py*9175/height - 4587
	var x, y, iter int32
	for iter < 16 {
		xx := (x * x) >> fracBits
		yy := (y * y) >> fracBits
		if xx+yy > (4 << fracBits) {
			break
		}
		xtemp := xx - yy + x0
		y = ((x * y) >> (fracBits - 1)) + y0
		x = xtemp
		iter++
	}
	return uint8(iter-1) & 0x0F
}

const testCyclesPerFrame = 8_000_000 / 60

// NewTestModeTrace builds the complete bus transaction trace for a
// named test mode: XRAM setup followed by canvas/mode programming,
// one frame wait, and a clean exit.
func NewTestModeTrace(mode TestMode) TraceSource {
	switch mode {
	case Text1bpp320x240, Text8bpp320x240:
		return newMode1TestTrace(mode)
	case Mandelbrot:
		return newMandelbrotTestTrace()
	case MultiPlane:
		return newMultiPlaneTestTrace()
	}

	b := NewBuilder()
	const configPtr, dataPtr uint16 = 0x0000, 0x0100
	bmpW, bmpH := mode.bitmapSize()
	bpp := mode.bpp()

	cfg := mode3ConfigBytes(false, false, 0, 0, bmpW, bmpH, dataPtr, 0)
	b.XramBytes(configPtr, cfg)

	bytesPerRow := (uint32(bmpW)*uint32(bpp) + 7) / 8
	pixels := make([]byte, 0, bytesPerRow*uint32(bmpH))
	for y := uint32(0); y < uint32(bmpH); y++ {
		for byteX := uint32(0); byteX < bytesPerRow; byteX++ {
			pixels = append(pixels, patternByte(byteX, y, bpp, uint32(bmpW)))
		}
	}
	b.XramBytes(dataPtr, pixels)

	b.XregCanvas(mode.canvasReg())
	b.XregMode(3, mode.attr(), configPtr, 0, 0, 0)

	b.WaitFrames(1, testCyclesPerFrame)
	b.OpExit()
	return b.Build()
}

func newMode1TestTrace(mode TestMode) TraceSource {
	b := NewBuilder()
	const configPtr, dataPtr uint16 = 0x0000, 0x0100

	var widthChars, heightChars int16
	var attr uint16
	var cellSize int
	switch mode {
	case Text1bpp320x240:
		widthChars, heightChars, attr, cellSize = 40, 15, 8, 1
	case Text8bpp320x240:
		widthChars, heightChars, attr, cellSize = 40, 30, 3, 3
	}

	cfg := mode1ConfigBytes(false, false, 0, 0, widthChars, heightChars, dataPtr, 0xFFFF, 0xFFFF)
	b.XramBytes(configPtr, cfg)

	b.SetAddr0(dataPtr)
	for row := int32(0); row < int32(heightChars); row++ {
		for col := int32(0); col < int32(widthChars); col++ {
			glyph := byte(0x21 + (row*int32(widthChars)+col)%94)
			b.Write(riaWindowBase+regRW0, glyph)
			if cellSize >= 2 {
				fg := byte(1 + col%15)
				b.Write(riaWindowBase+regRW0, fg)
				if cellSize >= 3 {
					b.Write(riaWindowBase+regRW0, 16)
				}
			}
		}
	}

	b.XregCanvas(1)
	b.XregMode(1, attr, configPtr, 0, 0, 0)

	b.WaitFrames(1, testCyclesPerFrame)
	b.OpExit()
	return b.Build()
}

func newMandelbrotTestTrace() TraceSource {
	b := NewBuilder()
	const configPtr, dataPtr uint16 = 0xFF00, 0x0000

	cfg := mode3ConfigBytes(false, false, 0, 0, 320, 240, dataPtr, 0xFFFF)
	b.XramBytes(configPtr, cfg)

	pixels := make([]byte, 0, 160*240)
	for py := int32(0); py < 240; py++ {
		var vbyte byte
		for px := int32(0); px < 320; px++ {
			color := mandelbrotColor(px, py)
			if px&1 == 0 {
				vbyte = color
			} else {
				pixels = append(pixels, vbyte|(color<<4))
			}
		}
	}
	b.XramBytes(dataPtr, pixels)

	b.XregCanvas(1)
	b.XregMode(3, 10, configPtr, 0, 0, 0) // attr 10 = Bpp4Lsb

	b.WaitFrames(1, testCyclesPerFrame)
	b.OpExit()
	return b.Build()
}

func newMultiPlaneTestTrace() TraceSource {
	b := NewBuilder()
	const m3ConfigPtr, m3DataPtr uint16 = 0x0000, 0x0020
	const m1ConfigPtr, m1DataPtr uint16 = 0x2600, 0x2700

	m3cfg := mode3ConfigBytes(false, false, 0, 0, 320, 240, m3DataPtr, 0xFFFF)
	b.XramBytes(m3ConfigPtr, m3cfg)

	checkerboard := make([]byte, 0, 40*240)
	for y := uint32(0); y < 240; y++ {
		blockY := y / 8
		for bx := uint32(0); bx < 40; bx++ {
			if (bx+blockY)%2 != 0 {
				checkerboard = append(checkerboard, 0xFF)
			} else {
				checkerboard = append(checkerboard, 0x00)
			}
		}
	}
	b.XramBytes(m3DataPtr, checkerboard)

	const widthChars, heightChars int16 = 20, 30
	m1cfg := mode1ConfigBytes(false, false, 160, 0, widthChars, heightChars, m1DataPtr, 0xFFFF, 0xFFFF)
	b.XramBytes(m1ConfigPtr, m1cfg)

	rainbow := [6]byte{9, 11, 10, 14, 12, 13}
	charData := make([]byte, 0, int(widthChars)*int(heightChars)*3)
	for row := int32(0); row < int32(heightChars); row++ {
		for col := int32(0); col < int32(widthChars); col++ {
			glyph := byte(0x21 + (row*int32(widthChars)+col)%94)
			charData = append(charData, glyph, rainbow[col%6], 0)
		}
	}
	b.XramBytes(m1DataPtr, charData)

	b.XregCanvas(1)
	b.XregMode(3, 0, m3ConfigPtr, 0, 0, 0)
	b.XregMode(1, 3, m1ConfigPtr, 1, 0, 0)

	b.WaitFrames(1, testCyclesPerFrame)
	b.OpExit()
	return b.Build()
}
