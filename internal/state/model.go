package state

import (
	"image/color"
)

// Mode selects what pointer input does. Exactly one mode is active.
type Mode int

const (
	// ModeFreehand draws strokes.
	ModeFreehand Mode = iota
	// ModeColorPick samples the canvas on release.
	ModeColorPick
	// ModeFill flood fills on release.
	ModeFill
)

func (m Mode) String() string {
	switch m {
	case ModeFreehand:
		return "freehand"
	case ModeColorPick:
		return "color-pick"
	case ModeFill:
		return "fill"
	default:
		return "unknown"
	}
}

// Brush is the drawing state read by the stroke renderer.
type Brush struct {
	Color      color.RGBA // paint colour, also used by fills
	Background color.RGBA // erase colour
	Width      int        // stroke diameter in pixels, > 0
	Erase      bool
}

// Current returns the colour strokes are drawn with.
func (b Brush) Current() color.RGBA {
	if b.Erase {
		return b.Background
	}
	return b.Color
}

// Change tells OnChange listeners what kind of mutation happened.
type Change int

const (
	// ChangeStroke is an in-progress gesture drawing into the canvas.
	ChangeStroke Change = iota
	// ChangeCommit is a committed content change: a checkpoint, undo,
	// redo, clear, reset or import.
	ChangeCommit
	// ChangeView affects only what is displayed: cursor, shadow, mode or
	// page selection.
	ChangeView
)

func (c Change) String() string {
	switch c {
	case ChangeStroke:
		return "stroke"
	case ChangeCommit:
		return "commit"
	case ChangeView:
		return "view"
	default:
		return "unknown"
	}
}
