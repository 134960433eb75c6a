package terrain

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	"tileworld/internal/config"
	"tileworld/internal/world"
)

const (
	heightOctaves     = 4
	heightLacunarity  = 2.5
	shallowBand       = 5
	shallowCaveScale  = 0.05
	deepCaveScaleX    = 0.03
	deepCaveScaleY    = 0.05
	deepCaveThreshold = 0.1
)

// Generator classifies tiles from a noise field. It holds no mutable state
// after construction, so every method is a pure function of the seed baked
// into the field and the coordinates passed in.
type Generator struct {
	field      Field
	terrain    config.TerrainConfig
	caves      config.CaveConfig
	vegetation config.VegetationConfig
	logger     *log.Logger
}

// NewGenerator wires a field to the terrain parameters. A nil logger falls
// back to the standard logger.
func NewGenerator(field Field, terrain config.TerrainConfig, caves config.CaveConfig, vegetation config.VegetationConfig, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		field:      field,
		terrain:    terrain,
		caves:      caves,
		vegetation: vegetation,
		logger:     logger,
	}
}

// FromConfig builds the field named by cfg.Noise.Backend and the generator on
// top of it.
func FromConfig(cfg *config.Config, logger *log.Logger) (*Generator, error) {
	field, err := NewField(cfg.Noise.Backend, cfg.World.Seed)
	if err != nil {
		return nil, err
	}
	return NewGenerator(field, cfg.Terrain, cfg.Cave, cfg.Vegetation, logger), nil
}

// HeightAt returns the surface row for column x. Rows above it are air.
func (g *Generator) HeightAt(x int) int {
	n := g.field.Sample(float64(x)*g.terrain.NoiseScale, 0, Octaves{
		Count:       heightOctaves,
		Persistence: g.terrain.Persistence,
		Lacunarity:  heightLacunarity,
	})
	return int(math.Floor(g.terrain.BaseHeight + n*g.terrain.HeightMultiplier))
}

// Classify returns the generated tile type at (x, y).
func (g *Generator) Classify(x, y int) world.TileType {
	return g.classifyWithHeight(x, y, g.HeightAt(x))
}

func (g *Generator) classifyWithHeight(x, y, height int) world.TileType {
	switch {
	case y < height:
		return world.TileAir
	case y == height:
		if veg, ok := g.vegetationAt(x, y); ok {
			return veg
		}
		return world.TileSurface
	case y < height+shallowBand:
		if g.caveNoise(float64(x)*shallowCaveScale, float64(y)*shallowCaveScale, 3) > g.caves.Threshold {
			return world.TileAir
		}
		return world.TileGround
	default:
		if g.caveNoise(float64(x)*deepCaveScaleX, float64(y)*deepCaveScaleY, 2) > g.caves.Threshold+deepCaveThreshold {
			return world.TileAir
		}
		return world.TileStone
	}
}

func (g *Generator) caveNoise(x, y float64, octaves int) float64 {
	return g.field.Sample(x, y, Octaves{
		Count:       octaves,
		Persistence: g.terrain.Persistence,
		Lacunarity:  g.terrain.Lacunarity,
	})
}

// Generate fills a size×size chunk at coord. Rows are classified by a pool of
// workers; column heights are computed once per chunk and shared.
func (g *Generator) Generate(ctx context.Context, coord world.ChunkCoord, size int) (*world.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("generate chunk %v: size must be positive", coord)
	}
	started := time.Now()
	chunk := world.NewChunk(coord, size)
	origin := chunk.Origin()

	heights := make([]int, size)
	for lx := range heights {
		heights[lx] = g.HeightAt(origin.X + lx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type rowTask struct {
		localY int
	}

	type rowResult struct {
		localY int
		row    []world.TileType
		err    error
	}

	workers := g.workerCount(size)
	tasks := make(chan rowTask, workers)
	results := make(chan rowResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				if err := ctx.Err(); err != nil {
					select {
					case results <- rowResult{err: err}:
					default:
					}
					return
				}

				y := origin.Y + task.localY
				row := make([]world.TileType, size)
				for lx := range row {
					row[lx] = g.classifyWithHeight(origin.X+lx, y, heights[lx])
				}

				select {
				case results <- rowResult{localY: task.localY, row: row}:
				case <-ctx.Done():
					select {
					case results <- rowResult{err: ctx.Err()}:
					default:
					}
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(tasks)
		for ly := 0; ly < size; ly++ {
			select {
			case <-ctx.Done():
				return
			case tasks <- rowTask{localY: ly}:
			}
		}
	}()

	rows := 0
	for result := range results {
		if result.err != nil {
			cancel()
			return nil, fmt.Errorf("generate chunk %v: %w", coord, result.err)
		}
		chunk.SetRow(result.localY, result.row)
		rows++
	}

	if rows != size {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate chunk %v: %w", coord, err)
		}
		return nil, fmt.Errorf("generate chunk %v: produced %d of %d rows", coord, rows, size)
	}

	g.logger.Printf("chunk %v generated in %s", coord, time.Since(started))
	return chunk, nil
}

func (g *Generator) workerCount(rows int) int {
	if rows <= 0 {
		return 1
	}

	if g.terrain.Workers > 0 {
		if g.terrain.Workers < rows {
			return g.terrain.Workers
		}
		return rows
	}

	workers := runtime.GOMAXPROCS(0) * 2
	if workers <= 0 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	return workers
}
