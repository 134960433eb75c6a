package world

import (
	"context"
	"sync"
)

// World owns the seed, the chunk cache and the edit overlay. It is the single
// object passed to physics and render consumers; there is no package state.
type World struct {
	seed      int64
	generator Generator
	store     *Store

	mu      sync.RWMutex
	overlay *Overlay
}

func New(seed int64, generator Generator, opts StoreOptions) *World {
	store := NewStore(generator, opts)
	return &World{
		seed:      seed,
		generator: generator,
		store:     store,
		overlay:   NewOverlay(store.ChunkSize()),
	}
}

func (w *World) Seed() int64 {
	return w.seed
}

func (w *World) Store() *Store {
	return w.store
}

func (w *World) ChunkSize() int {
	return w.store.ChunkSize()
}

func (w *World) TileSize() int {
	return w.store.TileSize()
}

// UpdateAroundPlayer refreshes the chunk cache for the player's world-pixel
// position. Call it once per tick before querying.
func (w *World) UpdateAroundPlayer(ctx context.Context, px, py float64) (Update, error) {
	return w.store.UpdateAroundPlayer(ctx, px, py)
}

// HeightAt returns the surface row of column x, used to spawn entities.
func (w *World) HeightAt(x int) int {
	return w.generator.HeightAt(x)
}

// TileAt returns the generated tile type. Overlay edits never change it.
func (w *World) TileAt(x, y int) TileType {
	return w.store.TileAt(x, y)
}

// IsSolid composes the generated tile with the overlay.
func (w *World) IsSolid(x, y int) bool {
	key := KeyForTile(x, y, w.store.ChunkSize())
	generated := w.store.TileAt(x, y)
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overlay.Solid(key, generated)
}

func (w *World) IsBroken(x, y int) bool {
	key := KeyForTile(x, y, w.store.ChunkSize())
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overlay.IsBroken(key)
}

// BreakBlock makes the tile non-solid. Repeating it has no further effect.
func (w *World) BreakBlock(x, y int) Edit {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.overlay.Break(x, y)
}

// PlaceBlock makes the tile solid, also over air. Repeating it has no further effect.
func (w *World) PlaceBlock(x, y int) Edit {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.overlay.Place(x, y)
}

// Edits returns the overlay contents.
func (w *World) Edits() []Edit {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overlay.Edits()
}

// EditCounts returns the number of broken and added keys.
func (w *World) EditCounts() (broken, added int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overlay.BrokenCount(), w.overlay.AddedCount()
}
