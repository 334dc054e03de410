package state

import (
	"slices"

	"LocalFlipbook/internal/raster"
)

// History is the pair of undo/redo stacks. The top of the undo stack is
// always the current canvas state and its bottom entry is the baseline,
// which undo never removes. Most recent entries are last.
type History struct {
	undo  []*raster.Snapshot
	redo  []*raster.Snapshot
	limit int // maximum undo entries, 0 means unbounded
}

// NewHistory starts a history whose only entry is baseline.
func NewHistory(baseline *raster.Snapshot, limit int) *History {
	h := &History{limit: limit}
	h.Reset(baseline)
	return h
}

// Reset discards both stacks and keeps baseline as the only entry.
func (h *History) Reset(baseline *raster.Snapshot) {
	h.undo = []*raster.Snapshot{baseline}
	h.redo = nil
}

// Record pushes a checkpoint and discards every redo state. When the limit
// is exceeded the oldest entry above the baseline is evicted.
func (h *History) Record(s *raster.Snapshot) {
	h.undo = append(h.undo, s)
	h.redo = nil
	if h.limit > 1 && len(h.undo) > h.limit {
		h.undo = slices.Delete(h.undo, 1, 2)
	}
}

// Undo moves the current state to the redo stack and returns the state to
// restore. At the baseline it is a no-op returning the baseline.
func (h *History) Undo() *raster.Snapshot {
	if len(h.undo) > 1 {
		h.redo = append(h.redo, pop(&h.undo))
	}
	return h.top()
}

// Redo moves the most recently undone state back onto the undo stack and
// returns it. ok is false when there is nothing to redo.
func (h *History) Redo() (s *raster.Snapshot, ok bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	s = pop(&h.redo)
	h.undo = append(h.undo, s)
	return s, true
}

// Compact collapses both stacks to their bottom entry.
func (h *History) Compact() {
	if len(h.undo) > 1 {
		h.undo = slices.Delete(h.undo, 1, len(h.undo))
	}
	if len(h.redo) > 1 {
		h.redo = slices.Delete(h.redo, 1, len(h.redo))
	}
}

// ReplaceBaseline swaps the most recent entry for s. On a freshly reset
// history that entry is the baseline.
func (h *History) ReplaceBaseline(s *raster.Snapshot) {
	if len(h.undo) > 0 {
		pop(&h.undo)
	}
	h.undo = append(h.undo, s)
}

// UndoDepth is the number of retained undo snapshots, baseline included.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth is the number of states available to redo.
func (h *History) RedoDepth() int { return len(h.redo) }

// UndoEntries returns a copy of the undo stack, oldest first.
func (h *History) UndoEntries() []*raster.Snapshot {
	return append([]*raster.Snapshot(nil), h.undo...)
}

// RedoEntries returns a copy of the redo stack, oldest first.
func (h *History) RedoEntries() []*raster.Snapshot {
	return append([]*raster.Snapshot(nil), h.redo...)
}

func (h *History) top() *raster.Snapshot {
	if len(h.undo) == 0 {
		return nil
	}
	return h.undo[len(h.undo)-1]
}

// pop removes and returns the last element, clearing its slot so the
// snapshot can be collected.
func pop(stack *[]*raster.Snapshot) *raster.Snapshot {
	st := *stack
	s := st[len(st)-1]
	st[len(st)-1] = nil
	*stack = st[:len(st)-1]
	return s
}
