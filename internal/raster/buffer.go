// Package raster implements the pixel buffer behind a flipbook page, its
// immutable snapshots, the bounded flood fill and the translucent shadow
// derivation.
package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"LocalFlipbook/internal/errors"
)

// Buffer is a fixed-size RGBA raster plus the gg context that draws into it.
// Pixels are stored as 4 bytes per pixel in row-major order.
type Buffer struct {
	width      int
	height     int
	background color.RGBA
	pixmap     *gg.Pixmap
	dc         *gg.Context
}

// New allocates a width x height buffer filled with background.
func New(width, height int, background color.Color) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Newf("raster.New", errors.KindInvalidArgument, "invalid size %dx%d", width, height)
	}
	pm := gg.NewPixmap(width, height)
	b := &Buffer{
		width:  width,
		height: height,
		pixmap: pm,
		dc:     gg.NewContext(width, height, gg.WithPixmap(pm)),
	}
	b.Reset(background)
	return b, nil
}

// Reset fills the whole raster with background and makes it the buffer's
// background colour.
func (b *Buffer) Reset(background color.Color) {
	b.background = toRGBA(background)
	b.FillRect(0, 0, b.width, b.height, b.background)
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the raster rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Background returns the colour the buffer was last reset to.
func (b *Buffer) Background() color.RGBA { return b.background }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Pixel returns the colour at (x, y). ok is false outside the raster.
func (b *Buffer) Pixel(x, y int) (c color.RGBA, ok bool) {
	if !b.inBounds(x, y) {
		return color.RGBA{}, false
	}
	return pixelAt(b.pixmap.Data(), b.width, x, y), true
}

// SetPixel writes c at (x, y). Coordinates outside the raster are ignored.
func (b *Buffer) SetPixel(x, y int, c color.Color) {
	if !b.inBounds(x, y) {
		return
	}
	setPixelAt(b.pixmap.Data(), b.width, x, y, toRGBA(c))
}

// FillRect writes an exact, non anti-aliased block clipped to the raster.
func (b *Buffer) FillRect(x, y, w, h int, c color.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(b.Bounds())
	if r.Empty() {
		return
	}
	rgba := toRGBA(c)
	data := b.pixmap.Data()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			setPixelAt(data, b.width, px, py, rgba)
		}
	}
}

// DrawFilledCircle paints a filled, anti-aliased disc.
func (b *Buffer) DrawFilledCircle(cx, cy int, r float64, c color.Color) error {
	b.dc.SetColor(c)
	b.dc.DrawCircle(float64(cx), float64(cy), r)
	return b.dc.Fill()
}

// DrawLine strokes a segment of the given width with round caps and joins.
func (b *Buffer) DrawLine(x1, y1, x2, y2 int, width float64, c color.Color) error {
	b.dc.SetColor(c)
	b.dc.SetStroke(gg.RoundStroke().WithWidth(width))
	b.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	return b.dc.Stroke()
}

// Snapshot returns an independent copy of the current contents.
func (b *Buffer) Snapshot() *Snapshot {
	pix := make([]uint8, len(b.pixmap.Data()))
	copy(pix, b.pixmap.Data())
	return &Snapshot{width: b.width, height: b.height, pix: pix}
}

// Restore replaces the contents wholesale with s.
func (b *Buffer) Restore(s *Snapshot) error {
	if s == nil {
		return errors.Newf("raster.Restore", errors.KindInvalidArgument, "nil snapshot")
	}
	if s.width != b.width || s.height != b.height {
		return dimensionError("raster.Restore", s.Bounds(), b)
	}
	copy(b.pixmap.Data(), s.pix)
	return nil
}

// Image returns a fresh copy of the contents.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	copy(img.Pix, b.pixmap.Data())
	return img
}

func dimensionError(op string, r image.Rectangle, b *Buffer) error {
	return errors.Newf(op, errors.KindDimension, "%dx%d does not fit buffer %dx%d", r.Dx(), r.Dy(), b.width, b.height)
}

func pixelAt(data []uint8, stride, x, y int) color.RGBA {
	i := (y*stride + x) * 4
	return color.RGBA{R: data[i], G: data[i+1], B: data[i+2], A: data[i+3]}
}

func setPixelAt(data []uint8, stride, x, y int, c color.RGBA) {
	i := (y*stride + x) * 4
	data[i+0] = c.R
	data[i+1] = c.G
	data[i+2] = c.B
	data[i+3] = c.A
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
