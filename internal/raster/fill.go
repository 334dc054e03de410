package raster

import (
	"image"
	"image/color"
)

// FillBounds keeps a flood fill interactive.
type FillBounds struct {
	// Budget is the number of cells that may be examined before the
	// frontier is abandoned.
	Budget int
	// Radius rejects cells further than this many pixels from the seed
	// along either axis.
	Radius int
	// Step is the traversal stride in pixels. Each filled cell paints a
	// (Step+1)-sided block so the stride leaves no gaps.
	Step int
}

// DefaultFillBounds are the bounds used when a page is not configured.
var DefaultFillBounds = FillBounds{Budget: 10000, Radius: 70, Step: 2}

// FillResult reports how a flood fill terminated.
type FillResult struct {
	Visited   int  // cells examined
	Filled    int  // cells that matched and were painted
	Truncated bool // the budget ran out with cells still queued
}

type cell struct{ x, y int }

// FloodFill replaces the 4-connected region around (x0, y0) whose colour
// exactly equals the colour sampled at the seed. Matching is done against a
// snapshot taken before the fill starts; writes go to the live buffer.
func FloodFill(b *Buffer, x0, y0 int, fill color.Color, bounds FillBounds) FillResult {
	var res FillResult
	target, ok := b.Pixel(x0, y0)
	fillRGBA := toRGBA(fill)
	if !ok || target == fillRGBA {
		return res
	}
	if bounds.Step <= 0 {
		bounds.Step = 1
	}

	sample := b.Snapshot()
	window := image.Rect(x0-bounds.Radius, y0-bounds.Radius, x0+bounds.Radius+1, y0+bounds.Radius+1).
		Intersect(b.Bounds())
	visited := make(map[cell]struct{})
	queue := []cell{{x0, y0}}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if !image.Pt(c.x, c.y).In(window) {
			continue
		}
		if _, seen := visited[c]; seen {
			continue
		}
		if res.Visited >= bounds.Budget {
			res.Truncated = true
			break
		}
		visited[c] = struct{}{}
		res.Visited++

		if pixelAt(sample.pix, sample.width, c.x, c.y) != target {
			continue
		}
		res.Filled++
		paintBlock(b, sample, c, bounds.Step, window, target, fillRGBA)

		queue = append(queue,
			cell{c.x + bounds.Step, c.y},
			cell{c.x, c.y + bounds.Step},
			cell{c.x - bounds.Step, c.y},
			cell{c.x, c.y - bounds.Step},
		)
	}
	return res
}

// paintBlock paints the target-coloured pixels of the block anchored at c.
// Pixels of any other colour inside the block are left alone.
func paintBlock(b *Buffer, sample *Snapshot, c cell, step int, window image.Rectangle, target, fill color.RGBA) {
	block := image.Rect(c.x, c.y, c.x+step+1, c.y+step+1).Intersect(window)
	data := b.pixmap.Data()
	for y := block.Min.Y; y < block.Max.Y; y++ {
		for x := block.Min.X; x < block.Max.X; x++ {
			if pixelAt(sample.pix, sample.width, x, y) == target {
				setPixelAt(data, b.width, x, y, fill)
			}
		}
	}
}
