package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise backends selectable through configuration.
const (
	BackendPerlin  = "perlin"
	BackendSimplex = "simplex"
	BackendValue   = "value"
)

// Octaves parameterises fractal sampling.
type Octaves struct {
	Count       int
	Persistence float64
	Lacunarity  float64
}

// Field samples deterministic coherent noise in [-1, 1]. Implementations hold
// no mutable state and may be shared between goroutines.
type Field interface {
	Sample(x, y float64, o Octaves) float64
}

// NewField builds a seeded field for the named backend.
func NewField(backend string, seed int64) (Field, error) {
	switch backend {
	case "", BackendPerlin:
		// alpha and beta only matter across octaves, which fractalField drives itself.
		p := perlin.NewPerlin(2, 2, 1, seed)
		return fractalField{basis: p.Noise2D}, nil
	case BackendSimplex:
		n := opensimplex.New(seed)
		return fractalField{basis: n.Eval2}, nil
	case BackendValue:
		v := valueNoise{seed: seed}
		return fractalField{basis: v.at}, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}

type fractalField struct {
	basis func(x, y float64) float64
}

func (f fractalField) Sample(x, y float64, o Octaves) float64 {
	count := o.Count
	if count <= 0 {
		count = 1
	}
	frequency := 1.0
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < count; i++ {
		noiseSum += f.basis(x*frequency, y*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= o.Persistence
		frequency *= o.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return clampUnit(noiseSum / maxAmplitude)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// valueNoise is hashed lattice noise with smoothstep interpolation.
type valueNoise struct {
	seed int64
}

func (v valueNoise) at(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	n0 := random2D(x0, y0, v.seed)
	n1 := random2D(x1, y0, v.seed)
	ix0 := lerp(n0, n1, sx)

	n2 := random2D(x0, y1, v.seed)
	n3 := random2D(x1, y1, v.seed)
	ix1 := lerp(n2, n3, sx)

	return lerp(ix0, ix1, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random2D(x, y int, seed int64) float64 {
	return float64(hash3(x, y, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
