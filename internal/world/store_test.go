package world

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore(gen Generator) *Store {
	return NewStore(gen, StoreOptions{ChunkSize: 8, TileSize: 10, LoadRadius: 1, UnloadRadius: 2, Workers: 4, Logger: discardLogger()})
}

func TestStorePlayerChunkUsesFloor(t *testing.T) {
	s := newTestStore(&stripeGenerator{})
	tests := []struct {
		px, py float64
		want   ChunkCoord
	}{
		{px: 0, py: 0, want: ChunkCoord{X: 0, Y: 0}},
		{px: 79.9, py: 80, want: ChunkCoord{X: 0, Y: 1}},
		{px: -0.5, py: -80, want: ChunkCoord{X: -1, Y: -1}},
		{px: -80.5, py: 5, want: ChunkCoord{X: -2, Y: 0}},
	}
	for _, tt := range tests {
		if got := s.PlayerChunk(tt.px, tt.py); got != tt.want {
			t.Fatalf("PlayerChunk(%v,%v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestStoreLoadsAndEvictsAroundPlayer(t *testing.T) {
	gen := &stripeGenerator{}
	s := newTestStore(gen)
	ctx := context.Background()

	update, err := s.UpdateAroundPlayer(ctx, 5, 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(update.Loaded) != 9 || s.Len() != 9 {
		t.Fatalf("expected 3x3 window, loaded %d resident %d", len(update.Loaded), s.Len())
	}
	if gen.calls.Load() != 9 {
		t.Fatalf("expected 9 generator calls, got %d", gen.calls.Load())
	}

	update, err = s.UpdateAroundPlayer(ctx, 40, 60)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(update.Loaded) != 0 || len(update.Evicted) != 0 || gen.calls.Load() != 9 {
		t.Fatalf("expected no work while the player stays in the same chunk, got %+v", update)
	}

	// One chunk right: three new columns, nothing beyond the unload radius yet.
	update, err = s.UpdateAroundPlayer(ctx, 85, 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(update.Loaded) != 3 || len(update.Evicted) != 0 || s.Len() != 12 {
		t.Fatalf("unexpected update after one step: %+v (resident %d)", update, s.Len())
	}

	// Two chunks right: column x=-1 is now at distance 3.
	update, err = s.UpdateAroundPlayer(ctx, 165, 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(update.Evicted) != 3 {
		t.Fatalf("expected 3 evictions, got %+v", update.Evicted)
	}
	for _, coord := range update.Evicted {
		if coord.X != -1 {
			t.Fatalf("unexpected eviction of %v", coord)
		}
	}
	for _, coord := range s.LoadedChunks() {
		if Chebyshev(coord, ChunkCoord{X: 2, Y: 0}) > 2 {
			t.Fatalf("chunk %v should have been evicted", coord)
		}
	}
	if center, ok := s.Center(); !ok || center != (ChunkCoord{X: 2, Y: 0}) {
		t.Fatalf("unexpected center %v (%v)", center, ok)
	}
}

func TestStoreTileAtIsCacheTransparent(t *testing.T) {
	gen := &stripeGenerator{}
	s := newTestStore(gen)

	before := make(map[TileCoord]TileType)
	for x := -12; x < 12; x++ {
		for y := -12; y < 12; y++ {
			before[TileCoord{X: x, Y: y}] = s.TileAt(x, y)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("TileAt must not populate the cache")
	}

	if _, err := s.UpdateAroundPlayer(context.Background(), 0, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	for coord, want := range before {
		if got := s.TileAt(coord.X, coord.Y); got != want {
			t.Fatalf("TileAt%v = %s after load, %s before", coord, got, want)
		}
	}
}

func TestStoreEvictionRoundTrip(t *testing.T) {
	s := newTestStore(&stripeGenerator{})
	ctx := context.Background()
	coord := ChunkCoord{X: -1, Y: 2}

	first, err := s.EnsureLoaded(ctx, coord)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	again, err := s.EnsureLoaded(ctx, coord)
	if err != nil || again != first {
		t.Fatalf("expected EnsureLoaded to be idempotent")
	}
	if !s.Evict(coord) || s.Loaded(coord) {
		t.Fatalf("expected chunk %v to be evicted", coord)
	}
	if s.Evict(coord) {
		t.Fatalf("second eviction should report nothing removed")
	}

	reloaded, err := s.EnsureLoaded(ctx, coord)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded == first || !reloaded.Equal(first) {
		t.Fatalf("expected regenerated chunk to match the evicted one")
	}
}

func TestStoreUpdateHonoursCancellation(t *testing.T) {
	gen := newBlockingGenerator()
	defer gen.release()
	s := NewStore(gen, StoreOptions{ChunkSize: 4, TileSize: 10, LoadRadius: 1, UnloadRadius: 2, Workers: 2, Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.UpdateAroundPlayer(ctx, 0, 0)
		done <- err
	}()

	select {
	case <-gen.started:
	case <-time.After(time.Second):
		t.Fatalf("generation never started")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("update did not return after cancellation")
	}
	if s.Len() != 0 {
		t.Fatalf("cancelled update must not insert chunks, got %d", s.Len())
	}
}

func TestStoreServesReadsDuringGeneration(t *testing.T) {
	gen := newBlockingGenerator()
	s := NewStore(gen, StoreOptions{ChunkSize: 4, TileSize: 10, LoadRadius: 1, UnloadRadius: 2, Workers: 2, Logger: discardLogger()})

	done := make(chan error, 1)
	go func() {
		_, err := s.UpdateAroundPlayer(context.Background(), 0, 0)
		done <- err
	}()
	<-gen.started

	// The store lock is free while chunks generate.
	if got, want := s.TileAt(3, 1), gen.Classify(3, 1); got != want {
		t.Fatalf("TileAt during generation = %s, want %s", got, want)
	}

	gen.release()
	if err := <-done; err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Len() != 9 {
		t.Fatalf("expected 9 resident chunks, got %d", s.Len())
	}
}
