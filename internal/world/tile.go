package world

import "fmt"

// TileType enumerates the closed set of tile classifications.
type TileType uint8

const (
	// TileAir marks an empty cell. It is not a physical tile.
	TileAir TileType = iota
	TileSurface
	TileGround
	TileStone
	TileTree
	TileBush
	// TileWood is the material of player placed blocks; terrain never generates it.
	TileWood
)

var tileNames = [...]string{
	TileAir:     "air",
	TileSurface: "surface",
	TileGround:  "ground",
	TileStone:   "stone",
	TileTree:    "tree",
	TileBush:    "bush",
	TileWood:    "wood",
}

// TileTypes lists every tile type in declaration order.
func TileTypes() []TileType {
	return []TileType{TileAir, TileSurface, TileGround, TileStone, TileTree, TileBush, TileWood}
}

func (t TileType) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// Solid reports whether the generated type blocks movement before overlay edits.
func (t TileType) Solid() bool {
	return t != TileAir
}

// Vegetation reports whether the tile is a tree or bush.
func (t TileType) Vegetation() bool {
	return t == TileTree || t == TileBush
}

// ParseTileType resolves a tile name as produced by String.
func ParseTileType(name string) (TileType, error) {
	for i, n := range tileNames {
		if n == name {
			return TileType(i), nil
		}
	}
	return TileAir, fmt.Errorf("unknown tile type %q", name)
}
