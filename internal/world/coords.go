package world

import "fmt"

// TileCoord identifies a single tile in global tile space. Y grows downward.
type TileCoord struct {
	X int
	Y int
}

func (t TileCoord) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// ChunkCoord identifies a chunk in global chunk space.
type ChunkCoord struct {
	X int
	Y int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("[%d,%d]", c.X, c.Y)
}

// BlockKey addresses a tile by owning chunk and local offset. It is the key
// type of the edit overlay.
type BlockKey struct {
	ChunkX int
	ChunkY int
	LocalX int
	LocalY int
}

// KeyForTile splits a global tile coordinate into its chunk and local parts.
func KeyForTile(x, y, chunkSize int) BlockKey {
	return BlockKey{
		ChunkX: FloorDiv(x, chunkSize),
		ChunkY: FloorDiv(y, chunkSize),
		LocalX: FloorMod(x, chunkSize),
		LocalY: FloorMod(y, chunkSize),
	}
}

// Chunk returns the coordinate of the chunk owning the key.
func (k BlockKey) Chunk() ChunkCoord {
	return ChunkCoord{X: k.ChunkX, Y: k.ChunkY}
}

// Tile converts the key back into a global tile coordinate.
func (k BlockKey) Tile(chunkSize int) TileCoord {
	return TileCoord{
		X: k.ChunkX*chunkSize + k.LocalX,
		Y: k.ChunkY*chunkSize + k.LocalY,
	}
}

// ChunkOf returns the chunk holding the tile.
func ChunkOf(x, y, chunkSize int) ChunkCoord {
	return ChunkCoord{
		X: FloorDiv(x, chunkSize),
		Y: FloorDiv(y, chunkSize),
	}
}

// Chebyshev returns the chessboard distance between two chunks.
func Chebyshev(a, b ChunkCoord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// FloorDiv divides rounding toward negative infinity, so -1/32 is -1 and not 0.
// A non-positive size yields 0.
func FloorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}

// FloorMod is the remainder matching FloorDiv; the result is always in [0, size).
func FloorMod(value, size int) int {
	if size <= 0 {
		return 0
	}
	return value - FloorDiv(value, size)*size
}
