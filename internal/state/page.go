// Package state holds the canvas state machine of a flipbook page: brush and
// interaction mode, stroke rendering, flood fill, undo/redo history and the
// shadow overlay, plus the book that orders pages.
package state

import (
	"image"
	"image/color"

	"LocalFlipbook/internal/config"
	"LocalFlipbook/internal/errors"
	"LocalFlipbook/internal/logging"
	"LocalFlipbook/internal/raster"
)

// ImportMode selects how ImportImage brings pixels into the page.
type ImportMode int

const (
	// ImportCopy deep-copies the image, scaling it to the canvas size.
	ImportCopy ImportMode = iota
	// ImportDirect blits the image 1:1; its size must match the canvas.
	ImportDirect
)

var previewColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Page is the controller of a single canvas. All methods must be called from
// the goroutine that delivers input events.
type Page struct {
	id       string
	revision uint64

	buf     *raster.Buffer
	history *History

	brush       Brush
	mode        Mode
	dotRadius   float64
	fillBounds  raster.FillBounds
	shadowAlpha float64

	shadow        *image.NRGBA
	shadowVisible bool

	pressed   bool
	anchor    image.Point
	cursor    image.Point
	hasCursor bool

	// OnChange is the repaint trigger, called after every mutation.
	OnChange func(p *Page, c Change)
}

// NewPage creates a blank page whose history holds only the blank baseline.
func NewPage(cfg config.Canvas) (*Page, error) {
	bg := cfg.Background()
	buf, err := raster.New(cfg.Width, cfg.Height, bg)
	if err != nil {
		return nil, err
	}
	if cfg.BrushSize <= 0 {
		return nil, errors.Newf("state.NewPage", errors.KindInvalidArgument, "invalid size selected: %d", cfg.BrushSize)
	}
	p := &Page{
		id:          newPageID(),
		revision:    nextRevision(),
		buf:         buf,
		history:     NewHistory(buf.Snapshot(), cfg.HistoryLimit),
		brush:       Brush{Color: cfg.BrushColor(), Background: bg, Width: cfg.BrushSize},
		dotRadius:   cfg.DotRadius,
		shadowAlpha: cfg.ShadowAlpha,
		fillBounds: raster.FillBounds{
			Budget: cfg.Fill.Budget,
			Radius: cfg.Fill.Radius,
			Step:   cfg.Fill.Step,
		},
	}
	if p.fillBounds == (raster.FillBounds{}) {
		p.fillBounds = raster.DefaultFillBounds
	}
	return p, nil
}

// ID returns the page's unique identifier.
func (p *Page) ID() string { return p.id }

// Revision increases on every mutation of the page.
func (p *Page) Revision() uint64 { return p.revision }

// Width returns the canvas width.
func (p *Page) Width() int { return p.buf.Width() }

// Height returns the canvas height.
func (p *Page) Height() int { return p.buf.Height() }

func (p *Page) changed(c Change) {
	p.revision = nextRevision()
	if p.OnChange != nil {
		p.OnChange(p, c)
	}
}

// Brush

// Brush returns the current brush state.
func (p *Page) Brush() Brush { return p.brush }

// SetBrushColor sets the paint colour and leaves erase mode.
func (p *Page) SetBrushColor(c color.Color) {
	p.brush.Color = color.RGBAModel.Convert(c).(color.RGBA)
	p.brush.Erase = false
	p.changed(ChangeView)
}

// SetBrushSize sets the stroke diameter. n must be positive.
func (p *Page) SetBrushSize(n int) error {
	if n <= 0 {
		return errors.Newf("state.SetBrushSize", errors.KindInvalidArgument, "invalid size selected: %d", n)
	}
	p.brush.Width = n
	p.changed(ChangeView)
	return nil
}

// SetEraseMode makes strokes draw with the background colour.
func (p *Page) SetEraseMode() {
	p.brush.Erase = true
	p.changed(ChangeView)
}

// SetPaintMode makes strokes draw with the brush colour.
func (p *Page) SetPaintMode() {
	p.brush.Erase = false
	p.changed(ChangeView)
}

// Modes

// Mode returns the active interaction mode.
func (p *Page) Mode() Mode { return p.mode }

// EnterColorPickMode makes the next release sample the canvas.
func (p *Page) EnterColorPickMode() {
	p.mode = ModeColorPick
	p.changed(ChangeView)
}

// ToggleFillMode switches between fill and freehand.
func (p *Page) ToggleFillMode() {
	if p.mode == ModeFill {
		p.mode = ModeFreehand
	} else {
		p.mode = ModeFill
	}
	p.changed(ChangeView)
}

// Pointer input

// Pressed reports whether a gesture is in progress.
func (p *Page) Pressed() bool { return p.pressed }

// Press starts a gesture. In freehand mode it marks a dot so a tap without
// drag still inks the canvas.
func (p *Page) Press(x, y int) {
	p.pressed = true
	if p.mode != ModeFreehand {
		return
	}
	p.anchor = image.Pt(x, y)
	if err := p.buf.DrawFilledCircle(x, y, p.dotRadius, p.brush.Current()); err != nil {
		logging.Logger().Warn("dot rendering failed", "page", p.id, "error", err)
	}
	p.changed(ChangeStroke)
}

// Drag extends the stroke from the previous anchor to (x, y).
func (p *Page) Drag(x, y int) {
	if !p.pressed || p.mode != ModeFreehand {
		return
	}
	err := p.buf.DrawLine(p.anchor.X, p.anchor.Y, x, y, float64(p.brush.Width), p.brush.Current())
	if err != nil {
		logging.Logger().Warn("stroke rendering failed", "page", p.id, "error", err)
	}
	p.anchor = image.Pt(x, y)
	p.changed(ChangeStroke)
}

// Release ends the gesture: a stroke is checkpointed, a colour is picked or
// a fill runs, depending on the mode. A fill that changes no pixel records
// no checkpoint. Releases without a preceding Press are ignored, so a
// gesture ends at most once.
func (p *Page) Release(x, y int) {
	if !p.pressed {
		return
	}
	p.pressed = false

	switch p.mode {
	case ModeFreehand:
		p.checkpoint()
	case ModeColorPick:
		p.pickColor(x, y)
	case ModeFill:
		p.floodFill(x, y)
	}
}

// Move tracks the pointer for the brush preview while no gesture is active.
func (p *Page) Move(x, y int) {
	if p.pressed {
		return
	}
	p.cursor = image.Pt(x, y)
	p.hasCursor = true
	p.changed(ChangeView)
}

// Leave hides the brush preview.
func (p *Page) Leave() {
	p.hasCursor = false
	p.changed(ChangeView)
}

func (p *Page) pickColor(x, y int) {
	c, ok := p.buf.Pixel(x, y)
	if !ok {
		return
	}
	p.brush.Color = c
	p.brush.Erase = false
	p.mode = ModeFreehand
	p.changed(ChangeView)
}

func (p *Page) floodFill(x, y int) {
	res := raster.FloodFill(p.buf, x, y, p.brush.Color, p.fillBounds)
	logging.Logger().Debug("flood fill",
		"page", p.id, "x", x, "y", y,
		"visited", res.Visited, "filled", res.Filled, "truncated", res.Truncated)
	if res.Filled > 0 {
		p.checkpoint()
	}
}

func (p *Page) checkpoint() {
	p.history.Record(p.buf.Snapshot())
	logging.Logger().Debug("checkpoint", "page", p.id, "depth", p.history.UndoDepth())
	p.changed(ChangeCommit)
}

// History

// Undo restores the previous checkpoint and returns it. At the baseline it
// returns the baseline unchanged.
func (p *Page) Undo() *raster.Snapshot {
	s := p.history.Undo()
	p.restore(s)
	return s
}

// Redo restores the most recently undone checkpoint. ok is false when there
// is nothing to redo.
func (p *Page) Redo() (s *raster.Snapshot, ok bool) {
	s, ok = p.history.Redo()
	if !ok {
		return nil, false
	}
	p.restore(s)
	return s, true
}

func (p *Page) restore(s *raster.Snapshot) {
	if err := p.buf.Restore(s); err != nil {
		// History only ever holds snapshots of this buffer.
		logging.Logger().Error("restore failed", "page", p.id, "error", err)
		return
	}
	p.changed(ChangeCommit)
}

// UndoDepth is the number of retained undo snapshots, baseline included.
func (p *Page) UndoDepth() int { return p.history.UndoDepth() }

// RedoDepth is the number of states available to redo.
func (p *Page) RedoDepth() int { return p.history.RedoDepth() }

// UndoSnapshots returns the undo stack, oldest first. Snapshots are
// immutable, so holders cannot alter the live history.
func (p *Page) UndoSnapshots() []*raster.Snapshot { return p.history.UndoEntries() }

// RedoSnapshots returns the redo stack, oldest first.
func (p *Page) RedoSnapshots() []*raster.Snapshot { return p.history.RedoEntries() }

// CompactHistory collapses both stacks to their bottom entry.
func (p *Page) CompactHistory() { p.history.Compact() }

// CommitBaseline replaces the most recent history entry with the current
// contents. After ResetCanvas and ImportImage this makes the imported image
// the floor that undo returns to.
func (p *Page) CommitBaseline() { p.history.ReplaceBaseline(p.buf.Snapshot()) }

// Canvas

// ClearCanvas paints the background over everything and records it.
func (p *Page) ClearCanvas() {
	p.buf.FillRect(0, 0, p.buf.Width(), p.buf.Height(), p.buf.Background())
	p.checkpoint()
}

// ResetCanvas reinitialises the buffer and discards all history down to the
// new blank baseline.
func (p *Page) ResetCanvas() {
	p.buf.Reset(p.buf.Background())
	p.history.Reset(p.buf.Snapshot())
	p.pressed = false
	p.changed(ChangeCommit)
}

// Transfer

// Snapshot returns an immutable copy of the current contents.
func (p *Page) Snapshot() *raster.Snapshot { return p.buf.Snapshot() }

// ExportCurrentImage returns a copy of the current contents.
func (p *Page) ExportCurrentImage() *image.RGBA { return p.buf.Image() }

// ImportImage replaces the canvas contents with img. The page never keeps a
// reference to img. History is untouched; call CommitBaseline to make the
// import the undo floor.
func (p *Page) ImportImage(img image.Image, mode ImportMode) error {
	if img == nil {
		return errors.Newf("state.ImportImage", errors.KindInvalidArgument, "nil image")
	}
	var err error
	switch mode {
	case ImportCopy:
		err = p.buf.Blit(raster.Fit(img, p.buf.Width(), p.buf.Height()))
	case ImportDirect:
		err = p.buf.Blit(img)
	default:
		err = errors.Newf("state.ImportImage", errors.KindInvalidArgument, "unknown import mode %d", mode)
	}
	if err != nil {
		return err
	}
	p.changed(ChangeCommit)
	return nil
}

// Shadow

// SetShadowSource derives the translucent shadow of img against this
// page's background. Only the derivative is kept.
func (p *Page) SetShadowSource(img image.Image) error {
	shadow, err := raster.Translucent(img, p.buf.Background(), p.shadowAlpha)
	if err != nil {
		return err
	}
	p.shadow = shadow
	p.changed(ChangeView)
	return nil
}

// ClearShadowSource drops the shadow.
func (p *Page) ClearShadowSource() {
	p.shadow = nil
	p.changed(ChangeView)
}

// SetShadowVisible toggles drawing the shadow in Frame.
func (p *Page) SetShadowVisible(visible bool) {
	p.shadowVisible = visible
	p.changed(ChangeView)
}

// ShadowVisible reports whether the shadow is drawn.
func (p *Page) ShadowVisible() bool { return p.shadowVisible }

// HasShadow reports whether a shadow source is set.
func (p *Page) HasShadow() bool { return p.shadow != nil }

// Render

// Frame composes what is displayed: the canvas, the shadow when visible and
// the brush preview when no gesture is active. The canvas is not modified.
func (p *Page) Frame() *image.RGBA {
	img := p.buf.Image()
	if p.shadowVisible && p.shadow != nil {
		raster.DrawOverlay(img, p.shadow)
	}
	if !p.pressed && p.hasCursor {
		if err := raster.DrawOutlineCircle(img, p.cursor.X, p.cursor.Y, float64(p.brush.Width), previewColor); err != nil {
			logging.Logger().Warn("brush preview failed", "page", p.id, "error", err)
		}
	}
	return img
}
