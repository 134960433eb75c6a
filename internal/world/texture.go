package world

const (
	variantMulX int64 = 374761393
	variantMulY int64 = 668265263
)

// Atlas reports how many texture variants exist per tile type. The core only
// deals in indices; drawables stay with the renderer.
type Atlas interface {
	Variants(tile TileType) int
}

// VariantIndex picks a stable texture variant for a tile. It is a pure hash of
// the position and seed, so call order never changes the result. A
// non-positive variant count yields 0.
func VariantIndex(tileX, tileY int, seed int64, variantCount int) int {
	if variantCount <= 0 {
		return 0
	}
	h := int64(tileX)*variantMulX + int64(tileY)*variantMulY + seed
	if h < 0 {
		h = -h
		if h < 0 {
			// math.MinInt64 has no positive counterpart.
			return 0
		}
	}
	return int(h % int64(variantCount))
}

// VariantFor resolves the variant of a tile against an atlas. Missing or empty
// atlas entries fall back to variant 0.
func (w *World) VariantFor(x, y int, tile TileType, atlas Atlas) int {
	if atlas == nil {
		return 0
	}
	return VariantIndex(x, y, w.seed, atlas.Variants(tile))
}
