package world

import (
	"context"
	"sync"
	"sync/atomic"
)

// stripeGenerator is a deterministic terrain: a sloped surface, three rows of
// ground, stone below and a diagonal lattice of pockets underground.
type stripeGenerator struct {
	calls atomic.Int64
}

func (g *stripeGenerator) HeightAt(x int) int {
	return FloorDiv(x, 3)
}

func (g *stripeGenerator) Classify(x, y int) TileType {
	h := g.HeightAt(x)
	switch {
	case y < h:
		return TileAir
	case y == h:
		if FloorMod(x, 11) == 0 {
			return TileTree
		}
		return TileSurface
	case FloorMod(x+y, 7) == 0:
		return TileAir
	case y < h+3:
		return TileGround
	default:
		return TileStone
	}
}

func (g *stripeGenerator) Generate(ctx context.Context, coord ChunkCoord, size int) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.calls.Add(1)
	chunk := NewChunk(coord, size)
	origin := chunk.Origin()
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			chunk.SetLocalTile(lx, ly, g.Classify(origin.X+lx, origin.Y+ly))
		}
	}
	return chunk, nil
}

// blockingGenerator holds every Generate call until released.
type blockingGenerator struct {
	stripeGenerator
	mu      sync.Mutex
	started chan ChunkCoord
	gate    chan struct{}
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		started: make(chan ChunkCoord, 64),
		gate:    make(chan struct{}),
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, coord ChunkCoord, size int) (*Chunk, error) {
	g.started <- coord
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.gate:
	}
	return g.stripeGenerator.Generate(ctx, coord, size)
}

func (g *blockingGenerator) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.gate:
	default:
		close(g.gate)
	}
}

func newTestWorld(seed int64) (*World, *stripeGenerator) {
	gen := &stripeGenerator{}
	w := New(seed, gen, StoreOptions{ChunkSize: 8, TileSize: 10, Workers: 3, Logger: discardLogger()})
	return w, gen
}
