package state

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalFlipbook/internal/config"
	"LocalFlipbook/internal/errors"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func testCanvas(w, h int) config.Canvas {
	c := config.Default().Canvas
	c.Width, c.Height = w, h
	return c
}

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := NewPage(testCanvas(100, 100))
	require.NoError(t, err)
	return p
}

func pixel(p *Page, x, y int) color.RGBA {
	return p.ExportCurrentImage().RGBAAt(x, y)
}

func isBlank(img *image.RGBA) bool {
	for i := 0; i < len(img.Pix); i++ {
		if img.Pix[i] != 255 {
			return false
		}
	}
	return true
}

func TestPage_New(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	assert.NotEmpty(p.ID())
	assert.Equal(100, p.Width())
	assert.Equal(100, p.Height())
	assert.Equal(1, p.UndoDepth())
	assert.Equal(ModeFreehand, p.Mode())
	assert.Equal(16, p.Brush().Width)
	assert.True(isBlank(p.ExportCurrentImage()))

	other := newTestPage(t)
	assert.NotEqual(p.ID(), other.ID())

	cfg := testCanvas(0, 100)
	_, err := NewPage(cfg)
	assert.ErrorIs(err, errors.ErrInvalidArgument)
}

func TestPage_TapUndoRedo(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.Press(50, 50)
	p.Release(50, 50)
	assert.Equal(2, p.UndoDepth())
	assert.Equal(black, pixel(p, 50, 50))
	drawn := p.Snapshot()

	p.Undo()
	assert.True(isBlank(p.ExportCurrentImage()))
	assert.Equal(1, p.UndoDepth())

	s, ok := p.Redo()
	assert.True(ok)
	assert.True(drawn.Equal(s))
	assert.True(drawn.Equal(p.Snapshot()))
}

func TestPage_UndoAtBaseline(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	base := p.Undo()
	assert.NotNil(base)
	assert.Equal(1, p.UndoDepth())
	assert.True(isBlank(p.ExportCurrentImage()))

	_, ok := p.Redo()
	assert.False(ok)
}

func TestPage_StrokeIsOneCheckpoint(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	var strokes, commits int
	p.OnChange = func(_ *Page, c Change) {
		switch c {
		case ChangeStroke:
			strokes++
		case ChangeCommit:
			commits++
		}
	}

	p.Press(10, 10)
	for _, pt := range []image.Point{{20, 10}, {30, 20}, {40, 30}, {50, 40}, {60, 50}} {
		p.Drag(pt.X, pt.Y)
	}
	p.Release(60, 50)

	assert.Equal(2, p.UndoDepth())
	assert.Equal(6, strokes)
	assert.Equal(1, commits)
	assert.Equal(black, pixel(p, 35, 25))
	assert.Equal(black, pixel(p, 60, 50))
	assert.Equal(white, pixel(p, 90, 10))
}

func TestPage_NewCheckpointClearsRedo(t *testing.T) {
	p := newTestPage(t)
	p.Press(10, 10)
	p.Release(10, 10)
	p.Undo()

	p.Press(80, 80)
	p.Release(80, 80)
	_, ok := p.Redo()
	assert.False(t, ok)
	assert.Equal(t, 2, p.UndoDepth())
}

func TestPage_ReleaseWithoutPress(t *testing.T) {
	p := newTestPage(t)
	p.Drag(20, 20)
	p.Release(20, 20)
	assert.Equal(t, 1, p.UndoDepth())
	assert.True(t, isBlank(p.ExportCurrentImage()))
}

func TestPage_SetBrushSize(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	for _, n := range []int{0, -5} {
		err := p.SetBrushSize(n)
		assert.ErrorIs(err, errors.ErrInvalidArgument)
		assert.Equal(errors.KindInvalidArgument, errors.KindOf(err))
		assert.Equal(16, p.Brush().Width)
	}
	assert.NoError(p.SetBrushSize(4))
	assert.Equal(4, p.Brush().Width)
	assert.NoError(p.SetBrushSize(16))
	assert.Equal(16, p.Brush().Width)
}

func TestPage_EraseMode(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.Press(50, 50)
	p.Release(50, 50)

	p.SetEraseMode()
	assert.True(p.Brush().Erase)
	assert.Equal(white, p.Brush().Current())
	p.Press(50, 50)
	p.Drag(51, 50)
	p.Release(51, 50)
	assert.Equal(white, pixel(p, 50, 50))
	assert.Equal(3, p.UndoDepth())

	p.SetPaintMode()
	assert.Equal(black, p.Brush().Current())

	p.SetEraseMode()
	p.SetBrushColor(red)
	assert.False(p.Brush().Erase)
	assert.Equal(red, p.Brush().Current())
}

func TestPage_ColorPick(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.SetBrushColor(red)
	p.Press(50, 50)
	p.Release(50, 50)
	p.SetBrushColor(black)

	p.EnterColorPickMode()
	assert.Equal(ModeColorPick, p.Mode())
	p.Press(50, 50)
	p.Release(50, 50)

	assert.Equal(red, p.Brush().Color)
	assert.Equal(ModeFreehand, p.Mode())
	assert.Equal(2, p.UndoDepth())

	p.EnterColorPickMode()
	p.Press(500, 500)
	p.Release(500, 500)
	assert.Equal(red, p.Brush().Color)
	assert.Equal(ModeColorPick, p.Mode())
}

func TestPage_Fill(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.SetBrushColor(red)
	p.ToggleFillMode()
	assert.Equal(ModeFill, p.Mode())

	p.Press(50, 50)
	p.Drag(60, 60)
	p.Release(50, 50)
	assert.Equal(2, p.UndoDepth())
	assert.Equal(red, pixel(p, 50, 50))
	assert.Equal(red, pixel(p, 10, 10))
	assert.Equal(ModeFill, p.Mode())

	// Filling with the colour already there changes nothing.
	p.Press(50, 50)
	p.Release(50, 50)
	assert.Equal(2, p.UndoDepth())

	p.Undo()
	assert.True(isBlank(p.ExportCurrentImage()))

	p.ToggleFillMode()
	assert.Equal(ModeFreehand, p.Mode())
}

func TestPage_FillUsesBrushColourWhileErasing(t *testing.T) {
	p := newTestPage(t)
	p.SetBrushColor(red)
	p.SetEraseMode()
	p.ToggleFillMode()
	p.Press(50, 50)
	p.Release(50, 50)
	assert.Equal(t, red, pixel(p, 50, 50))
}

func TestPage_ClearAndReset(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.Press(20, 20)
	p.Release(20, 20)
	p.Press(70, 70)
	p.Release(70, 70)

	p.ClearCanvas()
	assert.Equal(4, p.UndoDepth())
	assert.True(isBlank(p.ExportCurrentImage()))
	p.Undo()
	assert.Equal(black, pixel(p, 70, 70))

	p.ResetCanvas()
	assert.Equal(1, p.UndoDepth())
	assert.Empty(p.RedoSnapshots())
	assert.True(isBlank(p.ExportCurrentImage()))
}

func TestPage_CompactHistory(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	for i := 0; i < 4; i++ {
		p.Press(10*i+10, 10)
		p.Release(10*i+10, 10)
	}
	p.Undo()
	p.CompactHistory()
	assert.Len(p.UndoSnapshots(), 1)
	assert.Len(p.RedoSnapshots(), 1)
}

func TestPage_Import(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetRGBA(5, 5, red)

	require.NoError(t, p.ImportImage(src, ImportDirect))
	assert.Equal(red, pixel(p, 5, 5))
	assert.Equal(1, p.UndoDepth())

	src.SetRGBA(5, 5, black)
	assert.Equal(red, pixel(p, 5, 5))

	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	err := p.ImportImage(small, ImportDirect)
	assert.ErrorIs(err, errors.ErrDimension)
	assert.Equal(red, pixel(p, 5, 5))

	for i := range small.Pix {
		small.Pix[i] = 255
	}
	require.NoError(t, p.ImportImage(small, ImportCopy))
	assert.True(isBlank(p.ExportCurrentImage()))

	assert.ErrorIs(p.ImportImage(nil, ImportCopy), errors.ErrInvalidArgument)
}

func TestPage_CommitBaseline(t *testing.T) {
	assert := assert.New(t)

	src := newTestPage(t)
	src.Press(30, 30)
	src.Release(30, 30)

	p := newTestPage(t)
	require.NoError(t, p.ImportImage(src.Snapshot(), ImportCopy))
	p.CommitBaseline()
	assert.Equal(1, p.UndoDepth())

	p.Press(80, 80)
	p.Release(80, 80)
	p.Undo()
	assert.True(src.Snapshot().Equal(p.Snapshot()))
	p.Undo()
	assert.True(src.Snapshot().Equal(p.Snapshot()))
}

func TestPage_Shadow(t *testing.T) {
	assert := assert.New(t)

	prev := newTestPage(t)
	require.NoError(t, prev.ImportImage(checker(), ImportDirect))

	p := newTestPage(t)
	require.NoError(t, p.SetShadowSource(prev.Snapshot()))
	assert.True(p.HasShadow())
	assert.False(p.ShadowVisible())
	assert.True(isBlank(p.Frame()))

	p.SetShadowVisible(true)
	frame := p.Frame()
	ink := frame.RGBAAt(25, 25)
	assert.Less(ink.R, uint8(255))
	assert.Greater(ink.R, uint8(0))
	assert.Equal(white, frame.RGBAAt(75, 75))
	assert.True(isBlank(p.ExportCurrentImage()))

	err := p.SetShadowSource(image.NewGray(image.Rect(0, 0, 100, 100)))
	assert.ErrorIs(err, errors.ErrUnsupportedImage)
	assert.True(p.HasShadow())

	p.ClearShadowSource()
	assert.False(p.HasShadow())
	assert.True(isBlank(p.Frame()))
}

// checker returns a white 100x100 image with a black top-left quadrant.
func checker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 && y < 50 {
				img.SetRGBA(x, y, black)
			} else {
				img.SetRGBA(x, y, white)
			}
		}
	}
	return img
}

func TestPage_CursorPreview(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.Move(50, 50)
	assert.False(isBlank(p.Frame()))
	assert.True(isBlank(p.ExportCurrentImage()))

	p.Leave()
	assert.True(isBlank(p.Frame()))

	p.Move(50, 50)
	p.Press(50, 50)
	assert.Equal(p.ExportCurrentImage().Pix, p.Frame().Pix)
	p.Release(50, 50)
	assert.NotEqual(p.ExportCurrentImage().Pix, p.Frame().Pix)
}

func TestPage_RevisionAdvances(t *testing.T) {
	p := newTestPage(t)
	r := p.Revision()
	p.SetBrushColor(red)
	assert.Greater(t, p.Revision(), r)
}

func TestPage_StrokeUsesBrushSize(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	require.NoError(t, p.SetBrushSize(4))
	p.Press(20, 30)
	p.Drag(80, 30)
	p.Release(80, 30)
	assert.Equal(black, pixel(p, 50, 30))
	assert.Equal(white, pixel(p, 50, 37))

	require.NoError(t, p.SetBrushSize(16))
	p.Press(20, 70)
	p.Drag(80, 70)
	p.Release(80, 70)
	assert.Equal(black, pixel(p, 50, 77))
	assert.Equal(white, pixel(p, 50, 80))
}

func TestPage_UnconfiguredFillUsesDefaults(t *testing.T) {
	cfg := testCanvas(100, 100)
	cfg.Fill = config.Fill{}
	p, err := NewPage(cfg)
	require.NoError(t, err)

	p.SetBrushColor(red)
	p.ToggleFillMode()
	p.Press(50, 50)
	p.Release(50, 50)
	assert.Equal(t, red, pixel(p, 50, 50))
	assert.Equal(t, 2, p.UndoDepth())
}

func TestPage_GestureEndsOnce(t *testing.T) {
	assert := assert.New(t)

	p := newTestPage(t)
	p.Press(10, 10)
	p.Drag(20, 20)
	p.Release(20, 20)
	p.Release(20, 20)
	assert.Equal(2, p.UndoDepth())
	assert.False(p.Pressed())

	p.SetBrushColor(red)
	p.ToggleFillMode()
	p.Release(50, 50)
	assert.Equal(2, p.UndoDepth())
	assert.Equal(white, pixel(p, 50, 50))
}
