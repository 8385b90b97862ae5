// vga.go - VGA state machine: XRAM mirror, plane programming, compositing

package main

import (
	"log"
	"os"
	"sync"
)

var vgaLog = log.New(os.Stderr, "ria6502vga: ", log.LstdFlags)

// plane is the tagged union of the three programmable plane kinds.
// At most one pointer is non-nil; an empty slot has none.
type plane struct {
	mode1 *Mode1Plane
	mode2 *Mode2Plane
	mode3 *Mode3Plane
}

func (p plane) empty() bool {
	return p.mode1 == nil && p.mode2 == nil && p.mode3 == nil
}

// Framebuffer is the published 640x480 RGBA8888 display surface,
// guarded by a mutex so the render goroutine and any reader (a
// screenshot writer, a GUI host) can't race on it.
type Framebuffer struct {
	mu   sync.Mutex
	Pix  []byte // 640*480*4 bytes, R,G,B,A per pixel
}

const (
	displayWidth  = 640
	displayHeight = 480
)

func NewFramebuffer() *Framebuffer {
	return &Framebuffer{Pix: make([]byte, displayWidth*displayHeight*4)}
}

// Publish atomically replaces the framebuffer contents.
func (f *Framebuffer) Publish(pix []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.Pix, pix)
}

// Snapshot returns a copy of the current framebuffer contents.
func (f *Framebuffer) Snapshot() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.Pix))
	copy(out, f.Pix)
	return out
}

// Vga is the display engine: it owns a 64 KiB XRAM mirror, up to
// three plane slots, and the canvas/staging state that PIX channel 0
// register writes program.
type Vga struct {
	Xram         *[65536]byte
	Planes       [3]plane
	CanvasWidth  uint16
	CanvasHeight uint16

	xregs [8]uint16

	pixRx         *pixQueue
	backchannelTx chan<- Backchannel
	framebuffer   *Framebuffer
	frameCount    uint8
}

func NewVga(pixRx *pixQueue, backchannelTx chan<- Backchannel, framebuffer *Framebuffer) *Vga {
	return &Vga{
		Xram:          &[65536]byte{},
		CanvasWidth:   640,
		CanvasHeight:  480,
		pixRx:         pixRx,
		backchannelTx: backchannelTx,
		framebuffer:   framebuffer,
	}
}

// Run is the VGA event loop. Call it from a dedicated goroutine; it
// returns once pixRx is closed and drained.
func (v *Vga) Run() {
	for {
		event, ok := v.pixRx.Recv()
		if !ok {
			return
		}
		v.handleEvent(event)
	}
}

func (v *Vga) handleEvent(event PixEvent) {
	switch event.Kind {
	case PixXram:
		v.Xram[event.Xram.Addr] = event.Xram.Data
	case PixReg:
		v.handleReg(event.Reg)
	case PixFrameSync:
		v.renderFrame()
		v.frameCount++
		v.sendBackchannel(NewVsync(0x80 | (v.frameCount & 0x0F)))
	}
}

func (v *Vga) sendBackchannel(b Backchannel) {
	select {
	case v.backchannelTx <- b:
	default:
	}
}

// canvasSize maps a CANVAS register value to (width, height); unknown
// values fall back to the native 640x480.
func canvasSize(value uint16) (uint16, uint16) {
	switch value {
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

// handleReg dispatches a PIX channel-0 register write. Matches the
// firmware's vga/sys/pix.c pix_ch0_xreg() staging protocol.
func (v *Vga) handleReg(reg RegWrite) {
	if reg.Channel != 0 {
		return
	}

	if int(reg.Register) < len(v.xregs) {
		v.xregs[reg.Register] = reg.Value
	}

	switch reg.Register {
	case 0: // CANVAS
		v.CanvasWidth, v.CanvasHeight = canvasSize(reg.Value)
		v.Planes = [3]plane{}
		v.xregs = [8]uint16{}
		v.sendBackchannel(NewAck())

	case 1: // MODE
		ok := v.programMode(reg.Value)
		if ok {
			v.sendBackchannel(NewAck())
		} else {
			vgaLog.Printf("plane program rejected: mode=%d plane=%d attr=%d config_ptr=%#04x",
				reg.Value, v.xregs[4], v.xregs[2], v.xregs[3])
			v.sendBackchannel(NewNak())
		}
		v.xregs = [8]uint16{}
	}
}

// stagedPlaneArgs reads the common plane-programming operands every
// mode programmer consumes from the xregs staging array.
type stagedPlaneArgs struct {
	attr          uint16
	configPtr     uint16
	planeIdx      int
	scanlineBegin uint16
	scanlineEnd   uint16
}

func (v *Vga) stagedArgs() stagedPlaneArgs {
	return stagedPlaneArgs{
		attr:          v.xregs[2],
		configPtr:     v.xregs[3],
		planeIdx:      int(v.xregs[4]),
		scanlineBegin: v.xregs[5],
		scanlineEnd:   v.xregs[6],
	}
}

// programMode installs a plane descriptor for the requested graphics
// mode, reporting whether the program succeeded.
func (v *Vga) programMode(mode uint16) bool {
	args := v.stagedArgs()
	if args.planeIdx >= 3 || args.configPtr&1 != 0 {
		return false
	}

	switch mode {
	case 1:
		format, ok := Mode1FormatFromAttr(args.attr)
		if !ok {
			return false
		}
		cfg := Mode1ConfigFromXram(v.Xram, args.configPtr)
		v.Planes[args.planeIdx] = plane{mode1: &Mode1Plane{
			Config:        cfg,
			Format:        format,
			ScanlineBegin: args.scanlineBegin,
			ScanlineEnd:   args.scanlineEnd,
			ConfigPtr:     args.configPtr,
		}}
		return true

	case 2:
		format, ok := Mode2FormatFromAttr(args.attr)
		if !ok {
			return false
		}
		cfg := Mode2ConfigFromXram(v.Xram, args.configPtr)
		v.Planes[args.planeIdx] = plane{mode2: &Mode2Plane{
			Config:        cfg,
			Format:        format,
			ScanlineBegin: args.scanlineBegin,
			ScanlineEnd:   args.scanlineEnd,
			ConfigPtr:     args.configPtr,
		}}
		return true

	case 3:
		format, ok := ColorFormatFromAttr(args.attr)
		if !ok {
			return false
		}
		cfg := Mode3ConfigFromXram(v.Xram, args.configPtr)
		v.Planes[args.planeIdx] = plane{mode3: &Mode3Plane{
			Config:        cfg,
			Format:        format,
			ScanlineBegin: args.scanlineBegin,
			ScanlineEnd:   args.scanlineEnd,
			ConfigPtr:     args.configPtr,
		}}
		return true

	default:
		return false
	}
}

// renderFrame composites every programmed plane into a canvas-sized
// buffer, then upscales into the fixed 640x480 display surface.
func (v *Vga) renderFrame() {
	w, h := v.CanvasWidth, v.CanvasHeight
	canvas := make([]uint32, int(w)*int(h))

	for _, p := range v.Planes {
		if p.empty() {
			continue
		}
		switch {
		case p.mode1 != nil:
			fresh := *p.mode1
			fresh.Config = Mode1ConfigFromXram(v.Xram, p.mode1.ConfigPtr)
			renderMode1(&fresh, v.Xram, canvas, w, h)
		case p.mode2 != nil:
			fresh := *p.mode2
			fresh.Config = Mode2ConfigFromXram(v.Xram, p.mode2.ConfigPtr)
			renderMode2(&fresh, v.Xram, canvas, w, h)
		case p.mode3 != nil:
			fresh := *p.mode3
			fresh.Config = Mode3ConfigFromXram(v.Xram, p.mode3.ConfigPtr)
			renderMode3(&fresh, v.Xram, canvas, w, h)
		}
	}

	display := make([]byte, displayWidth*displayHeight*4)
	upscale(canvas, w, h, display)
	v.framebuffer.Publish(display)
}

// upscale block-replicates a canvas-sized RGBA buffer into the fixed
// 640x480 display surface. Canvases narrower or shorter than the
// display are integer-scaled (2x for 320-wide, 1x for 640-wide; 2x
// for 240/180-tall, 1x for 480/360-tall); any remaining rows form a
// black letterbox at the bottom.
func upscale(canvas []uint32, canvasWidth, canvasHeight uint16, display []byte) {
	if canvasWidth == 0 || canvasHeight == 0 {
		return
	}
	sx := int(displayWidth / canvasWidth)
	sy := int(displayHeight / canvasHeight)

	for y := 0; y < int(canvasHeight); y++ {
		for x := 0; x < int(canvasWidth); x++ {
			pixel := canvas[y*int(canvasWidth)+x]
			r := byte(pixel >> 24)
			g := byte(pixel >> 16)
			b := byte(pixel >> 8)
			a := byte(pixel)

			for dy := 0; dy < sy; dy++ {
				destY := y*sy + dy
				for dx := 0; dx < sx; dx++ {
					destX := x*sx + dx
					idx := (destY*displayWidth + destX) * 4
					display[idx] = r
					display[idx+1] = g
					display[idx+2] = b
					display[idx+3] = a
				}
			}
		}
	}
}
