package world

import (
	"fmt"
	"image/color"
)

// TileAppearance captures the flat-color variants of one tile type.
type TileAppearance struct {
	Material string
	Colors   []string
}

// DefaultAppearances enumerates the built-in tile visuals. Air has none.
var DefaultAppearances = map[TileType]TileAppearance{
	TileSurface: {Material: "grass", Colors: []string{"#5d9b3d", "#66a443", "#548f36"}},
	TileGround:  {Material: "dirt", Colors: []string{"#8b5a2b", "#7f5227", "#956232"}},
	TileStone:   {Material: "stone", Colors: []string{"#7a7a80", "#6e6e74", "#85858b"}},
	TileTree:    {Material: "tree", Colors: []string{"#2f8f3f", "#3ca064"}},
	TileBush:    {Material: "bush", Colors: []string{"#42a95f", "#4fb86a"}},
	TileWood:    {Material: "wood", Colors: []string{"#c9a86a"}},
}

// PaletteAtlas is an Atlas backed by hex colors instead of textures.
type PaletteAtlas struct {
	colors map[TileType][]color.NRGBA
}

// NewPaletteAtlas parses the appearances. Invalid colors are reported rather
// than silently dropped.
func NewPaletteAtlas(appearances map[TileType]TileAppearance) (*PaletteAtlas, error) {
	atlas := &PaletteAtlas{colors: make(map[TileType][]color.NRGBA, len(appearances))}
	for tile, appearance := range appearances {
		parsed := make([]color.NRGBA, 0, len(appearance.Colors))
		for _, hex := range appearance.Colors {
			c, ok := parseHexColor(hex)
			if !ok {
				return nil, fmt.Errorf("appearance %s: invalid color %q", tile, hex)
			}
			parsed = append(parsed, c)
		}
		atlas.colors[tile] = parsed
	}
	return atlas, nil
}

// DefaultPaletteAtlas returns the atlas for DefaultAppearances.
func DefaultPaletteAtlas() *PaletteAtlas {
	atlas, err := NewPaletteAtlas(DefaultAppearances)
	if err != nil {
		panic(err)
	}
	return atlas
}

func (a *PaletteAtlas) Variants(tile TileType) int {
	if a == nil {
		return 0
	}
	return len(a.colors[tile])
}

// Color looks up a variant. Out of range variants use the first color and
// unknown tiles come back transparent.
func (a *PaletteAtlas) Color(tile TileType, variant int) color.NRGBA {
	if a == nil {
		return color.NRGBA{}
	}
	colors := a.colors[tile]
	if len(colors) == 0 {
		return color.NRGBA{}
	}
	if variant < 0 || variant >= len(colors) {
		variant = 0
	}
	return colors[variant]
}
