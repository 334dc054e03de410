package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalFlipbook/internal/errors"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func newTestBuffer(t *testing.T, w, h int) *Buffer {
	t.Helper()
	b, err := New(w, h, white)
	require.NoError(t, err)
	return b
}

func TestBuffer_New(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 20, 10)
	assert.Equal(20, b.Width())
	assert.Equal(10, b.Height())
	assert.Equal(white, b.Background())
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c, ok := b.Pixel(x, y)
			assert.True(ok)
			assert.Equal(white, c)
		}
	}

	_, err := New(0, 10, white)
	assert.ErrorIs(err, errors.ErrInvalidArgument)
	_, err = New(10, -1, white)
	assert.ErrorIs(err, errors.ErrInvalidArgument)
}

func TestBuffer_OutOfBoundsIsSilent(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 10, 10)
	before := b.Snapshot()
	for _, p := range []image.Point{{-1, 5}, {10, 5}, {5, -1}, {5, 10}, {-100, -100}, {100, 100}} {
		b.SetPixel(p.X, p.Y, red)
		_, ok := b.Pixel(p.X, p.Y)
		assert.False(ok)
	}
	b.FillRect(-20, -20, 5, 5, red)
	assert.True(before.Equal(b.Snapshot()))

	b.FillRect(-2, -2, 4, 4, red)
	c, _ := b.Pixel(0, 0)
	assert.Equal(red, c)
	c, _ = b.Pixel(2, 2)
	assert.Equal(white, c)
}

func TestBuffer_SnapshotIsIndependent(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 8, 8)
	snap := b.Snapshot()
	b.SetPixel(3, 3, red)

	assert.Equal(white, snap.At(3, 3))
	assert.False(snap.Equal(b.Snapshot()))

	img := snap.Image()
	img.SetRGBA(0, 0, black)
	assert.Equal(white, snap.At(0, 0))

	require.NoError(t, b.Restore(snap))
	c, _ := b.Pixel(3, 3)
	assert.Equal(white, c)
	assert.True(snap.Equal(b.Snapshot()))
}

func TestBuffer_RestoreRejectsOtherSizes(t *testing.T) {
	b := newTestBuffer(t, 8, 8)
	other := newTestBuffer(t, 9, 8)

	err := b.Restore(other.Snapshot())
	assert.ErrorIs(t, err, errors.ErrDimension)
	assert.ErrorIs(t, b.Restore(nil), errors.ErrInvalidArgument)
}

func TestBuffer_DrawFilledCircle(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 100, 100)
	require.NoError(t, b.DrawFilledCircle(50, 50, 5, black))

	c, _ := b.Pixel(50, 50)
	assert.Less(c.R, uint8(64), "centre of the dot should be inked")
	c, _ = b.Pixel(50, 60)
	assert.Equal(white, c)
	c, _ = b.Pixel(10, 10)
	assert.Equal(white, c)
}

func TestBuffer_DrawLine(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 100, 100)
	require.NoError(t, b.DrawLine(10, 50, 90, 50, 16, black))

	for _, x := range []int{10, 30, 50, 70, 90} {
		c, _ := b.Pixel(x, 50)
		assert.Less(c.R, uint8(64), "x=%d", x)
	}
	// Round caps extend past the end points.
	c, _ := b.Pixel(4, 50)
	assert.Less(c.R, uint8(64))
	c, _ = b.Pixel(50, 20)
	assert.Equal(white, c)
	c, _ = b.Pixel(50, 80)
	assert.Equal(white, c)
}

func TestBuffer_ResetAndImage(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 4, 4)
	b.Reset(black)
	assert.Equal(black, b.Background())

	img := b.Image()
	assert.Equal(black, img.RGBAAt(3, 3))
	img.SetRGBA(3, 3, red)
	c, _ := b.Pixel(3, 3)
	assert.Equal(black, c)
}

func TestBuffer_BlitAndFit(t *testing.T) {
	assert := assert.New(t)

	b := newTestBuffer(t, 4, 4)
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetNRGBA(1, 2, color.NRGBA{255, 0, 0, 255})
	require.NoError(t, b.Blit(src))
	c, _ := b.Pixel(1, 2)
	assert.Equal(red, c)

	assert.ErrorIs(b.Blit(image.NewRGBA(image.Rect(0, 0, 5, 4))), errors.ErrDimension)

	fit := Fit(src, 4, 4)
	assert.Equal(red, fit.RGBAAt(1, 2))
	fit.SetRGBA(1, 2, black)
	assert.Equal(color.NRGBA{255, 0, 0, 255}, src.NRGBAAt(1, 2), "Fit must not alias its source")

	large := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			large.SetRGBA(x, y, black)
		}
	}
	fit = Fit(large, 4, 4)
	assert.Equal(black, fit.RGBAAt(2, 2))
}
