package world

import (
	"context"
	"log"
	"math"
	"runtime"
	"sort"
	"sync"
)

// Generator describes terrain population for chunks. Classify and HeightAt
// must be pure functions of the seed and their arguments.
type Generator interface {
	HeightAt(x int) int
	Classify(x, y int) TileType
	Generate(ctx context.Context, coord ChunkCoord, size int) (*Chunk, error)
}

// StoreOptions configures a Store. Zero values fall back to the defaults of
// a 32 tile chunk, 48 px tiles, a 3x3 load window and unload radius 2.
type StoreOptions struct {
	ChunkSize    int
	TileSize     int
	LoadRadius   int
	UnloadRadius int
	// Workers bounds concurrent chunk generation; 0 uses GOMAXPROCS.
	Workers int
	Logger  *log.Logger
}

func (o StoreOptions) withDefaults() StoreOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 32
	}
	if o.TileSize <= 0 {
		o.TileSize = 48
	}
	if o.LoadRadius < 0 {
		o.LoadRadius = 0
	}
	if o.UnloadRadius < o.LoadRadius {
		o.UnloadRadius = o.LoadRadius
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Update describes what one UpdateAroundPlayer call changed.
type Update struct {
	Center  ChunkCoord
	Loaded  []ChunkCoord
	Evicted []ChunkCoord
}

// Store caches generated chunks around the player. Evicting is always safe:
// chunk content can be regenerated and edits live in the overlay.
type Store struct {
	generator Generator
	opts      StoreOptions
	logger    *log.Logger

	mu        sync.RWMutex
	chunks    map[ChunkCoord]*Chunk
	center    ChunkCoord
	hasCenter bool
}

func NewStore(generator Generator, opts StoreOptions) *Store {
	opts = opts.withDefaults()
	return &Store{
		generator: generator,
		opts:      opts,
		logger:    opts.Logger,
		chunks:    make(map[ChunkCoord]*Chunk),
	}
}

func (s *Store) ChunkSize() int {
	return s.opts.ChunkSize
}

func (s *Store) TileSize() int {
	return s.opts.TileSize
}

// PlayerChunk maps a world-pixel position to the chunk containing it.
func (s *Store) PlayerChunk(px, py float64) ChunkCoord {
	span := float64(s.opts.ChunkSize * s.opts.TileSize)
	return ChunkCoord{
		X: int(math.Floor(px / span)),
		Y: int(math.Floor(py / span)),
	}
}

// Chunk returns the resident chunk for coord without generating it.
func (s *Store) Chunk(coord ChunkCoord) (*Chunk, bool) {
	s.mu.RLock()
	ch, ok := s.chunks[coord]
	s.mu.RUnlock()
	return ch, ok
}

func (s *Store) Loaded(coord ChunkCoord) bool {
	_, ok := s.Chunk(coord)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// LoadedChunks returns resident chunk coordinates in x-major order.
func (s *Store) LoadedChunks() []ChunkCoord {
	s.mu.RLock()
	out := make([]ChunkCoord, 0, len(s.chunks))
	for coord := range s.chunks {
		out = append(out, coord)
	}
	s.mu.RUnlock()
	sortChunkCoords(out)
	return out
}

// Center returns the player chunk of the last update.
func (s *Store) Center() (ChunkCoord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.center, s.hasCenter
}

// EnsureLoaded generates and inserts the chunk if it is not resident.
func (s *Store) EnsureLoaded(ctx context.Context, coord ChunkCoord) (*Chunk, error) {
	if ch, ok := s.Chunk(coord); ok {
		return ch, nil
	}

	ch, err := s.generator.Generate(ctx, coord, s.opts.ChunkSize)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.chunks[coord]; ok {
		return existing, nil
	}
	s.chunks[coord] = ch
	return ch, nil
}

// Evict drops a resident chunk and reports whether it was loaded.
func (s *Store) Evict(coord ChunkCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[coord]; !ok {
		return false
	}
	delete(s.chunks, coord)
	return true
}

// UpdateAroundPlayer loads the window around the player's chunk and evicts
// chunks beyond the unload radius. It returns quickly when the player stays
// inside an already resident window.
func (s *Store) UpdateAroundPlayer(ctx context.Context, px, py float64) (Update, error) {
	center := s.PlayerChunk(px, py)
	update := Update{Center: center}

	s.mu.RLock()
	missing := s.missingAroundLocked(center)
	settled := s.hasCenter && s.center == center && len(missing) == 0
	s.mu.RUnlock()
	if settled {
		return update, nil
	}

	generated, err := s.generateAll(ctx, missing)
	if err != nil {
		return update, err
	}

	s.mu.Lock()
	for _, ch := range generated {
		if _, ok := s.chunks[ch.Key]; ok {
			continue
		}
		s.chunks[ch.Key] = ch
		update.Loaded = append(update.Loaded, ch.Key)
	}
	for coord := range s.chunks {
		if Chebyshev(coord, center) > s.opts.UnloadRadius {
			delete(s.chunks, coord)
			update.Evicted = append(update.Evicted, coord)
		}
	}
	s.center = center
	s.hasCenter = true
	resident := len(s.chunks)
	s.mu.Unlock()

	sortChunkCoords(update.Loaded)
	sortChunkCoords(update.Evicted)
	if len(update.Loaded) > 0 || len(update.Evicted) > 0 {
		s.logger.Printf("player chunk %v: loaded %d, evicted %d, resident %d",
			center, len(update.Loaded), len(update.Evicted), resident)
	}
	return update, nil
}

func (s *Store) missingAroundLocked(center ChunkCoord) []ChunkCoord {
	r := s.opts.LoadRadius
	var missing []ChunkCoord
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			coord := ChunkCoord{X: center.X + dx, Y: center.Y + dy}
			if _, ok := s.chunks[coord]; !ok {
				missing = append(missing, coord)
			}
		}
	}
	return missing
}

// generateAll fans generation out to workers. Results are only collected
// here; insertion happens under the store lock by the caller.
func (s *Store) generateAll(ctx context.Context, coords []ChunkCoord) ([]*Chunk, error) {
	if len(coords) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		chunk *Chunk
		err   error
	}

	workers := s.opts.Workers
	if workers > len(coords) {
		workers = len(coords)
	}

	tasks := make(chan ChunkCoord)
	results := make(chan result, len(coords))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coord := range tasks {
				ch, err := s.generator.Generate(ctx, coord, s.opts.ChunkSize)
				results <- result{chunk: ch, err: err}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, coord := range coords {
			select {
			case <-ctx.Done():
				return
			case tasks <- coord:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	chunks := make([]*Chunk, 0, len(coords))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		chunks = append(chunks, res.chunk)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(chunks) < len(coords) {
		return nil, err
	}
	return chunks, nil
}

// TileAt returns the generated tile, from the cache when the owning chunk is
// resident and computed directly otherwise. Both paths agree.
func (s *Store) TileAt(x, y int) TileType {
	size := s.opts.ChunkSize
	if ch, ok := s.Chunk(ChunkOf(x, y, size)); ok {
		if tile, ok := ch.LocalTile(FloorMod(x, size), FloorMod(y, size)); ok {
			return tile
		}
	}
	return s.generator.Classify(x, y)
}

func sortChunkCoords(coords []ChunkCoord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Y < coords[j].Y
	})
}
