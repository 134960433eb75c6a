package world

import "iter"

// RenderTile is one drawable cell of a frame.
type RenderTile struct {
	ScreenX float64
	ScreenY float64
	Tile    TileCoord
	Type    TileType
	Variant int
	// Broken asks the renderer for a faded draw; the tile is not solid.
	Broken bool
}

// RenderTiles lazily yields the visible tiles of view, x-major then y. Air is
// skipped unless a block was placed there, which renders as TileWood. The
// sequence can be ranged over again for the next frame.
func (w *World) RenderTiles(view Rect, atlas Atlas) iter.Seq[RenderTile] {
	return func(yield func(RenderTile) bool) {
		span := SpanForView(view, w.store.TileSize())
		size := w.store.ChunkSize()
		ts := float64(w.store.TileSize())

		for x := span.MinX; x <= span.MaxX; x++ {
			for y := span.MinY; y <= span.MaxY; y++ {
				generated := w.store.TileAt(x, y)
				key := KeyForTile(x, y, size)

				w.mu.RLock()
				broken := w.overlay.IsBroken(key)
				added := w.overlay.IsAdded(key)
				w.mu.RUnlock()

				tile := generated
				if !generated.Solid() {
					if !added {
						continue
					}
					tile = TileWood
				}

				entry := RenderTile{
					ScreenX: float64(x)*ts - view.X,
					ScreenY: float64(y)*ts - view.Y,
					Tile:    TileCoord{X: x, Y: y},
					Type:    tile,
					Variant: w.VariantFor(x, y, tile, atlas),
					Broken:  broken,
				}
				if !yield(entry) {
					return
				}
			}
		}
	}
}
