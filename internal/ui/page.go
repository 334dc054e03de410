package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalFlipbook/internal/state"
)

// PageWidget shows the selected page of a book and turns pointer input into
// page gestures.
type PageWidget struct {
	widget.BaseWidget
	book   *state.Book
	raster *canvas.Raster

	// last position seen while dragging, in page pixels
	lastX, lastY int
}

var _ fyne.Widget = (*PageWidget)(nil)
var _ fyne.Draggable = (*PageWidget)(nil)
var _ desktop.Mouseable = (*PageWidget)(nil)
var _ desktop.Hoverable = (*PageWidget)(nil)

func NewPageWidget(book *state.Book) *PageWidget {
	w := &PageWidget{book: book}
	w.raster = canvas.NewRaster(func(int, int) image.Image {
		return w.book.Current().Frame()
	})
	w.raster.ScaleMode = canvas.ImageScalePixels
	w.ExtendBaseWidget(w)
	return w
}

func (w *PageWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

func (w *PageWidget) MinSize() fyne.Size {
	p := w.book.Current()
	return fyne.NewSize(float32(p.Width()), float32(p.Height()))
}

// Repaint redraws the current frame.
func (w *PageWidget) Repaint() {
	w.raster.Refresh()
}

// toPixel maps a widget position onto the page's pixel grid.
func (w *PageWidget) toPixel(pos fyne.Position) (int, int) {
	p := w.book.Current()
	size := w.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return int(pos.X), int(pos.Y)
	}
	x := pos.X * float32(p.Width()) / size.Width
	y := pos.Y * float32(p.Height()) / size.Height
	return int(x), int(y)
}

func (w *PageWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.lastX, w.lastY = w.toPixel(e.Position)
	w.book.Current().Press(w.lastX, w.lastY)
}

func (w *PageWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.book.Current().Release(w.toPixel(e.Position))
}

func (w *PageWidget) Dragged(e *fyne.DragEvent) {
	w.lastX, w.lastY = w.toPixel(e.Position)
	w.book.Current().Drag(w.lastX, w.lastY)
}

// DragEnd commits the gesture when the pointer was released away from the
// widget, where no MouseUp is delivered.
func (w *PageWidget) DragEnd() {
	if p := w.book.Current(); p.Pressed() {
		p.Release(w.lastX, w.lastY)
	}
}

func (w *PageWidget) MouseIn(e *desktop.MouseEvent) {
	w.book.Current().Move(w.toPixel(e.Position))
}

func (w *PageWidget) MouseMoved(e *desktop.MouseEvent) {
	w.book.Current().Move(w.toPixel(e.Position))
}

func (w *PageWidget) MouseOut() {
	w.book.Current().Leave()
}
