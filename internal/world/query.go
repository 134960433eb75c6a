package world

import "math"

// Rect is an axis-aligned box in world-pixel units.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Right() float64 {
	return r.X + r.W
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects reports whether the interiors of both rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// TileSpan is an inclusive range of tile coordinates.
type TileSpan struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Count returns the number of tiles in the span.
func (s TileSpan) Count() int {
	if s.MaxX < s.MinX || s.MaxY < s.MinY {
		return 0
	}
	return (s.MaxX - s.MinX + 1) * (s.MaxY - s.MinY + 1)
}

// SpanForView returns the tiles overlapping view plus one tile of margin on
// every side.
func SpanForView(view Rect, tileSize int) TileSpan {
	ts := float64(tileSize)
	return TileSpan{
		MinX: int(math.Floor(view.X/ts)) - 1,
		MaxX: int(math.Floor(view.Right()/ts)) + 1,
		MinY: int(math.Floor(view.Y/ts)) - 1,
		MaxY: int(math.Floor(view.Bottom()/ts)) + 1,
	}
}

// TileRect returns the world-pixel box of a tile.
func (w *World) TileRect(x, y int) Rect {
	ts := float64(w.store.TileSize())
	return Rect{X: float64(x) * ts, Y: float64(y) * ts, W: ts, H: ts}
}

// TileAtPoint returns the tile containing a world-pixel position.
func (w *World) TileAtPoint(px, py float64) TileCoord {
	ts := float64(w.store.TileSize())
	return TileCoord{X: int(math.Floor(px / ts)), Y: int(math.Floor(py / ts))}
}

// ObstaclesInArea returns one rectangle per effectively solid tile around the
// view, scanning x-major then y. The overlay is read under one lock so each
// edit is either fully visible to the query or not at all.
func (w *World) ObstaclesInArea(view Rect) []Rect {
	span := SpanForView(view, w.store.TileSize())
	size := w.store.ChunkSize()

	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []Rect
	for x := span.MinX; x <= span.MaxX; x++ {
		for y := span.MinY; y <= span.MaxY; y++ {
			key := KeyForTile(x, y, size)
			if w.overlay.Solid(key, w.store.TileAt(x, y)) {
				out = append(out, w.TileRect(x, y))
			}
		}
	}
	return out
}
