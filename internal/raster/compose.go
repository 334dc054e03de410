package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// DrawOverlay composites overlay over dst, scaled to dst's bounds.
func DrawOverlay(dst *image.RGBA, overlay image.Image) {
	if overlay == nil || overlay.Bounds().Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), overlay, overlay.Bounds(), draw.Over, nil)
}

// DrawOutlineCircle strokes a one pixel circle of the given diameter centred
// on (cx, cy) into dst.
func DrawOutlineCircle(dst *image.RGBA, cx, cy int, diameter float64, c color.Color) error {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	pm := gg.NewPixmap(w, h)
	copy(pm.Data(), dst.Pix)

	dc := gg.NewContext(w, h, gg.WithPixmap(pm))
	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.DrawCircle(float64(cx), float64(cy), diameter/2)
	if err := dc.Stroke(); err != nil {
		return err
	}
	copy(dst.Pix, pm.Data())
	return nil
}

// Fit returns an independent copy of src scaled to w x h. Sources that
// already have the requested size are copied without resampling.
func Fit(src image.Image, w, h int) *image.RGBA {
	clone := imaging.Clone(src)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if clone.Bounds().Dx() == w && clone.Bounds().Dy() == h {
		draw.Draw(dst, dst.Bounds(), clone, clone.Bounds().Min, draw.Src)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), clone, clone.Bounds(), draw.Src, nil)
	return dst
}

// Blit copies img into the buffer pixel for pixel. The image must have the
// buffer's dimensions.
func (b *Buffer) Blit(img image.Image) error {
	if img.Bounds().Dx() != b.width || img.Bounds().Dy() != b.height {
		return dimensionError("raster.Blit", img.Bounds(), b)
	}
	if s, ok := img.(*Snapshot); ok {
		return b.Restore(s)
	}
	rgba := image.NewRGBA(b.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	copy(b.pixmap.Data(), rgba.Pix)
	return nil
}
