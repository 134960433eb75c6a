package terrain

import "tileworld/internal/world"

const (
	vegetationOctaves     = 2
	vegetationPersistence = 0.5
	speciesScale          = 0.03
)

// vegetationAt decides whether the surface cell at (x, y) grows a plant and,
// if so, which kind. Plants occupy exactly one cell.
func (g *Generator) vegetationAt(x, y int) (world.TileType, bool) {
	density := g.vegetation.Density
	n := g.field.Sample(float64(x)*density, float64(y)*density, Octaves{
		Count:       vegetationOctaves,
		Persistence: vegetationPersistence,
		Lacunarity:  g.terrain.Lacunarity,
	})
	if n <= g.vegetation.Threshold {
		return world.TileAir, false
	}

	species := g.field.Sample(float64(x)*speciesScale, float64(y)*speciesScale, Octaves{
		Count:       1,
		Persistence: g.terrain.Persistence,
		Lacunarity:  g.terrain.Lacunarity,
	})
	if species > g.vegetation.TreeVsBushThreshold {
		return world.TileTree, true
	}
	return world.TileBush, true
}
