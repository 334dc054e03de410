package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalFlipbook/internal/logging"
	"LocalFlipbook/internal/state"
)

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},         // Red
	color.NRGBA{G: 255, A: 255},         // Green
	color.NRGBA{B: 255, A: 255},         // Blue
	color.NRGBA{R: 255, G: 255, A: 255}, // Yellow
}

// swatch is a tappable palette entry. The entry matching the brush colour
// is outlined.
type swatch struct {
	widget.BaseWidget
	fill     color.RGBA
	selected bool
	onPick   func(color.Color)
}

func newSwatch(c color.Color, onPick func(color.Color)) *swatch {
	s := &swatch{fill: color.RGBAModel.Convert(c).(color.RGBA), onPick: onPick}
	s.ExtendBaseWidget(s)
	return s
}

func (s *swatch) setSelected(selected bool) {
	if s.selected == selected {
		return
	}
	s.selected = selected
	s.Refresh()
}

func (s *swatch) Tapped(*fyne.PointEvent) {
	if s.onPick != nil {
		s.onPick(s.fill)
	}
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	r := &swatchRenderer{
		s:       s,
		chip:    canvas.NewRectangle(s.fill),
		outline: canvas.NewRectangle(color.Transparent),
	}
	r.chip.SetMinSize(fyne.NewSize(28, 28))
	r.Refresh()
	return r
}

type swatchRenderer struct {
	s       *swatch
	chip    *canvas.Rectangle
	outline *canvas.Rectangle
}

func (r *swatchRenderer) Layout(size fyne.Size) {
	r.outline.Resize(size)
	r.chip.Move(fyne.NewPos(2, 2))
	r.chip.Resize(size.SubtractWidthHeight(4, 4))
}

func (r *swatchRenderer) MinSize() fyne.Size {
	return r.chip.MinSize().AddWidthHeight(4, 4)
}

func (r *swatchRenderer) Refresh() {
	if r.s.selected {
		r.outline.StrokeColor = theme.Color(theme.ColorNamePrimary)
		r.outline.StrokeWidth = 2
	} else {
		r.outline.StrokeColor = color.Gray{Y: 150}
		r.outline.StrokeWidth = 1
	}
	r.outline.Refresh()
	r.chip.Refresh()
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.chip, r.outline}
}

func (r *swatchRenderer) Destroy() {}

// toolbar drives the selected page of a book from buttons.
type toolbar struct {
	book     *state.Book
	status   *widget.Label
	size     *widget.Slider
	swatches []*swatch
}

func newToolbar(book *state.Book) *toolbar {
	t := &toolbar{book: book, status: widget.NewLabel("")}
	for _, c := range palette {
		t.swatches = append(t.swatches, newSwatch(c, t.setColor))
	}
	t.size = widget.NewSlider(1, 64)
	t.size.Step = 1
	t.size.SetValue(float64(book.Current().Brush().Width))
	t.size.OnChanged = func(v float64) { t.setSize(int(v)) }
	t.refresh()
	return t
}

func (t *toolbar) page() *state.Page { return t.book.Current() }

func (t *toolbar) pen() { t.page().SetPaintMode() }
func (t *toolbar) erase() { t.page().SetEraseMode() }
func (t *toolbar) fill() { t.page().ToggleFillMode() }
func (t *toolbar) pick() { t.page().EnterColorPickMode() }
func (t *toolbar) undo() { t.page().Undo() }
func (t *toolbar) clear() { t.page().ClearCanvas() }
func (t *toolbar) reset() { t.page().ResetCanvas() }

func (t *toolbar) redo() {
	if _, ok := t.page().Redo(); !ok {
		t.status.SetText("Nothing to redo")
	}
}

func (t *toolbar) setColor(c color.Color) { t.page().SetBrushColor(c) }

func (t *toolbar) setSize(n int) {
	if err := t.page().SetBrushSize(n); err != nil {
		logging.Logger().Warn("brush size rejected", "size", n, "error", err)
		t.status.SetText(err.Error())
	}
}

func (t *toolbar) addPage() {
	if _, err := t.book.AddPage(); err != nil {
		t.status.SetText(err.Error())
	}
}

func (t *toolbar) duplicatePage() {
	if _, err := t.book.DuplicatePage(); err != nil {
		t.status.SetText(err.Error())
	}
}

func (t *toolbar) removePage() {
	if err := t.book.RemovePage(); err != nil {
		t.status.SetText(err.Error())
	}
}

func (t *toolbar) toggleShadow() { t.book.SetShadowVisible(!t.book.ShadowVisible()) }

// refresh shows the state of the selected page in the status label, the
// palette and the size slider.
func (t *toolbar) refresh() {
	t.status.SetText(statusText(t.book))
	brush := t.page().Brush()
	for _, s := range t.swatches {
		s.setSelected(!brush.Erase && s.fill == brush.Color)
	}
	if int(t.size.Value) != brush.Width {
		t.size.Value = float64(brush.Width)
		t.size.Refresh()
	}
}

func statusText(b *state.Book) string {
	p := b.Current()
	tool := p.Mode().String()
	if p.Mode() == state.ModeFreehand && p.Brush().Erase {
		tool = "eraser"
	}
	return fmt.Sprintf("Page %d/%d | %s | size %d | undo %d", b.Index()+1, b.Len(), tool, p.Brush().Width, p.UndoDepth())
}

// build lays out the tool row and the page row.
func (t *toolbar) build(exportPDF, importImage func()) fyne.CanvasObject {
	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), t.pen),   // Pen
		widget.NewToolbarAction(theme.ContentClearIcon(), t.erase),   // Eraser
		widget.NewToolbarAction(theme.ColorPaletteIcon(), t.fill),    // Fill
		widget.NewToolbarAction(theme.VisibilityIcon(), t.pick),      // Colour pick
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), t.undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), t.redo),
		widget.NewToolbarAction(theme.DeleteIcon(), t.clear),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), t.reset),
	)
	pages := widget.NewToolbar(
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { t.book.Prev() }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { t.book.Next() }),
		widget.NewToolbarAction(theme.ContentAddIcon(), t.addPage),
		widget.NewToolbarAction(theme.ContentCopyIcon(), t.duplicatePage),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), t.removePage),
		widget.NewToolbarAction(theme.VisibilityOffIcon(), t.toggleShadow), // Shadow
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), importImage),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), exportPDF),
	)

	colorBox := container.NewHBox()
	for _, s := range t.swatches {
		colorBox.Add(s)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.size)

	row := container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
	return container.NewVBox(row, container.NewHBox(pages, layout.NewSpacer(), t.status))
}
