package world

import "testing"

type countAtlas map[TileType]int

func (a countAtlas) Variants(tile TileType) int {
	return a[tile]
}

func TestVariantIndexValues(t *testing.T) {
	tests := []struct {
		x, y  int
		seed  int64
		count int
		want  int
	}{
		{x: 1, y: 2, seed: 0, count: 3, want: 0},
		{x: -1, y: 0, seed: 0, count: 5, want: 3},
		{x: 0, y: 0, seed: 7, count: 4, want: 3},
		{x: 9, y: 9, seed: 1, count: 0, want: 0},
		{x: 9, y: 9, seed: 1, count: -2, want: 0},
		{x: 5, y: 5, seed: 1, count: 1, want: 0},
	}
	for _, tt := range tests {
		if got := VariantIndex(tt.x, tt.y, tt.seed, tt.count); got != tt.want {
			t.Fatalf("VariantIndex(%d,%d,%d,%d) = %d, want %d", tt.x, tt.y, tt.seed, tt.count, got, tt.want)
		}
	}
}

func TestVariantIndexStableAndInRange(t *testing.T) {
	for x := -300; x <= 300; x += 17 {
		for y := -300; y <= 300; y += 23 {
			a := VariantIndex(x, y, 12345, 7)
			b := VariantIndex(x, y, 12345, 7)
			if a != b {
				t.Fatalf("variant for (%d,%d) is not stable", x, y)
			}
			if a < 0 || a >= 7 {
				t.Fatalf("variant for (%d,%d) out of range: %d", x, y, a)
			}
		}
	}
}

func TestVariantForUsesAtlasCounts(t *testing.T) {
	w, _ := newTestWorld(99)
	atlas := countAtlas{TileStone: 4}

	if got := w.VariantFor(3, 8, TileStone, atlas); got != VariantIndex(3, 8, 99, 4) {
		t.Fatalf("unexpected stone variant %d", got)
	}
	if got := w.VariantFor(3, 8, TileBush, atlas); got != 0 {
		t.Fatalf("tile without variants must use 0, got %d", got)
	}
	if got := w.VariantFor(3, 8, TileStone, nil); got != 0 {
		t.Fatalf("nil atlas must use 0, got %d", got)
	}
}
