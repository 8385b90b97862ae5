// screenshot.go - PNG framebuffer writer

package main

import (
	"image"
	"image/png"
	"os"
)

// SavePNG encodes a displayWidth x displayHeight RGBA8888 framebuffer
// snapshot and writes it to path.
func SavePNG(path string, rgba []byte, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img := &image.RGBA{
		Pix:    rgba,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return png.Encode(f, img)
}
