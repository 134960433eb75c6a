package world

// Chunk stores the generated tile grid of one chunk. The grid is written once
// by the generator before the chunk is published to the store and is read-only
// afterwards, so readers need no locking.
type Chunk struct {
	Key   ChunkCoord
	size  int
	tiles []TileType
}

func NewChunk(key ChunkCoord, size int) *Chunk {
	if size < 0 {
		size = 0
	}
	return &Chunk{
		Key:   key,
		size:  size,
		tiles: make([]TileType, size*size),
	}
}

func (c *Chunk) index(localX, localY int) int {
	return localY*c.size + localX
}

func (c *Chunk) inBounds(localX, localY int) bool {
	return localX >= 0 && localY >= 0 && localX < c.size && localY < c.size
}

// Size returns the edge length of the chunk in tiles.
func (c *Chunk) Size() int {
	return c.size
}

// Origin returns the global coordinate of the chunk's top-left tile.
func (c *Chunk) Origin() TileCoord {
	return TileCoord{X: c.Key.X * c.size, Y: c.Key.Y * c.size}
}

func (c *Chunk) LocalTile(localX, localY int) (TileType, bool) {
	if !c.inBounds(localX, localY) {
		return TileAir, false
	}
	return c.tiles[c.index(localX, localY)], true
}

func (c *Chunk) SetLocalTile(localX, localY int, tile TileType) bool {
	if !c.inBounds(localX, localY) {
		return false
	}
	c.tiles[c.index(localX, localY)] = tile
	return true
}

// SetRow replaces one row of the grid. Rows shorter than the chunk leave the
// remaining cells untouched.
func (c *Chunk) SetRow(localY int, row []TileType) bool {
	if localY < 0 || localY >= c.size {
		return false
	}
	start := c.index(0, localY)
	copy(c.tiles[start:start+c.size], row)
	return true
}

// ForEachTile visits every cell in row-major order with its global coordinate.
func (c *Chunk) ForEachTile(fn func(global TileCoord, tile TileType) bool) {
	origin := c.Origin()
	for localY := 0; localY < c.size; localY++ {
		for localX := 0; localX < c.size; localX++ {
			global := TileCoord{X: origin.X + localX, Y: origin.Y + localY}
			if !fn(global, c.tiles[c.index(localX, localY)]) {
				return
			}
		}
	}
}

// Equal reports whether both chunks hold identical grids for the same key.
func (c *Chunk) Equal(other *Chunk) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Key != other.Key || c.size != other.size || len(c.tiles) != len(other.tiles) {
		return false
	}
	for i := range c.tiles {
		if c.tiles[i] != other.tiles[i] {
			return false
		}
	}
	return true
}

// CountSolid returns how many generated tiles are not air.
func (c *Chunk) CountSolid() int {
	n := 0
	for _, t := range c.tiles {
		if t.Solid() {
			n++
		}
	}
	return n
}
