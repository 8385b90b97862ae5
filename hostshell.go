// hostshell.go - ebiten-backed GUI window blitting the live framebuffer

package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

// HostShell presents the Engine's published Framebuffer in a resizable
// window at display refresh, independent of the emulated 60Hz cadence
// producing new frames.
type HostShell struct {
	fb *Framebuffer

	window     *ebiten.Image
	fullscreen bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

// NewHostShell builds a shell reading frames from fb.
func NewHostShell(fb *Framebuffer) *HostShell {
	return &HostShell{fb: fb}
}

// Run opens the window and blocks until it is closed.
func (h *HostShell) Run(title string) error {
	ebiten.SetWindowSize(displayWidth, displayHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(h)
}

func (h *HostShell) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		h.fullscreen = !h.fullscreen
		ebiten.SetFullscreen(h.fullscreen)
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		h.copyFramebufferDimensions()
	}
	return nil
}

func (h *HostShell) Draw(screen *ebiten.Image) {
	if h.window == nil {
		h.window = ebiten.NewImage(displayWidth, displayHeight)
	}
	h.window.WritePixels(h.fb.Snapshot())
	screen.DrawImage(h.window, nil)
}

func (h *HostShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return displayWidth, displayHeight
}

// copyFramebufferDimensions writes the fixed display surface size
// ("640x480") to the system clipboard as text. It does not report the
// active canvas size, which the shell has no access to.
func (h *HostShell) copyFramebufferDimensions() {
	h.clipboardOnce.Do(func() {
		h.clipboardOK = clipboard.Init() == nil
	})
	if !h.clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(fmt.Sprintf("%dx%d", displayWidth, displayHeight)))
}
