package raster

import (
	"image"
	"image/color"
	"math"

	"LocalFlipbook/internal/errors"
)

// Translucent derives the shadow of src: every pixel that differs from
// background keeps its RGB with the given alpha, background pixels become
// fully transparent. alpha is a fraction in [0, 1].
//
// Only the buffer's own image types are accepted: *Snapshot, *image.RGBA
// and *image.NRGBA.
func Translucent(src image.Image, background color.Color, alpha float64) (*image.NRGBA, error) {
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return nil, errors.Newf("raster.Translucent", errors.KindInvalidArgument, "alpha %v not in [0,1]", alpha)
	}

	var at func(x, y int) color.RGBA
	switch img := src.(type) {
	case *Snapshot:
		at = func(x, y int) color.RGBA { return pixelAt(img.pix, img.width, x, y) }
	case *image.RGBA:
		at = func(x, y int) color.RGBA { return img.RGBAAt(x, y) }
	case *image.NRGBA:
		at = func(x, y int) color.RGBA { return toRGBA(img.NRGBAAt(x, y)) }
	default:
		return nil, errors.Newf("raster.Translucent", errors.KindUnsupportedImage, "cannot sample %T", src)
	}

	bg := toRGBA(background)
	a := uint8(alpha * 255)
	bounds := src.Bounds()
	result := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := at(x, y)
			if c == bg {
				continue
			}
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			n.A = a
			result.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, n)
		}
	}
	return result, nil
}
