// Package export writes flipbook pages out as PDF documents and PNG images.
package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"LocalFlipbook/internal/errors"
	"LocalFlipbook/internal/logging"
)

const margin = 10.0 // mm

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return errors.Newf("export.EncodePNG", errors.KindInvalidArgument, "nil image")
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return errors.New("export.EncodePNG", errors.KindIO, err)
	}
	return nil
}

// WritePDF writes one A4 page per frame. Each frame is centred and scaled to
// fit inside the margins; wide frames get a landscape page.
func WritePDF(w io.Writer, frames []image.Image) error {
	if len(frames) == 0 {
		return errors.Newf("export.WritePDF", errors.KindInvalidArgument, "no frames to export")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	a4 := pdf.GetPageSizeStr("A4")

	for i, frame := range frames {
		bounds := frame.Bounds()
		if bounds.Empty() {
			return errors.Newf("export.WritePDF", errors.KindInvalidArgument, "frame %d is empty", i)
		}

		orientation := "P"
		if bounds.Dx() > bounds.Dy() {
			orientation = "L"
		}
		pdf.AddPageFormat(orientation, a4)

		var buf bytes.Buffer
		if err := EncodePNG(&buf, frame); err != nil {
			return err
		}
		name := fmt.Sprintf("frame-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)

		pageW, pageH := pdf.GetPageSize()
		x, y, wmm, hmm := fitRect(bounds.Dx(), bounds.Dy(), pageW-2*margin, pageH-2*margin)
		pdf.ImageOptions(name, margin+x, margin+y, wmm, hmm, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return errors.New("export.WritePDF", errors.KindIO, err)
	}
	logging.Logger().Info("pdf written", "pages", len(frames))
	return nil
}

// fitRect scales a w x h pixel frame into a box, keeping its aspect ratio,
// and returns the offset that centres it.
func fitRect(w, h int, boxW, boxH float64) (x, y, fw, fh float64) {
	scale := min(boxW/float64(w), boxH/float64(h))
	fw, fh = float64(w)*scale, float64(h)*scale
	return (boxW - fw) / 2, (boxH - fh) / 2, fw, fh
}
