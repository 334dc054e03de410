package raster

import (
	"bytes"
	"image"
	"image/color"
)

// Snapshot is an immutable copy of a Buffer's pixels. It implements
// image.Image so it can be passed wherever the page accepts images.
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

// Width returns the width in pixels.
func (s *Snapshot) Width() int { return s.width }

// Height returns the height in pixels.
func (s *Snapshot) Height() int { return s.height }

// ColorModel implements image.Image.
func (s *Snapshot) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (s *Snapshot) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// At implements image.Image.
func (s *Snapshot) At(x, y int) color.Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return color.RGBA{}
	}
	return pixelAt(s.pix, s.width, x, y)
}

// Image returns the snapshot as a new *image.RGBA the caller may modify.
func (s *Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	copy(img.Pix, s.pix)
	return img
}

// Equal reports whether both snapshots hold bit-identical pixels.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.width == o.width && s.height == o.height && bytes.Equal(s.pix, o.pix)
}
