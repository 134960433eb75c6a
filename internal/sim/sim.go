// Package sim owns a world for the lifetime of a session. It is the only
// caller that mutates the world: each tick it follows the player, applies
// queued edits that pass interaction gating and publishes an immutable Frame.
package sim

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"tileworld/internal/config"
	"tileworld/internal/interaction"
	"tileworld/internal/terrain"
	"tileworld/internal/world"
)

// Denial records an edit request that failed gating.
type Denial struct {
	Request interaction.Request
	Result  interaction.Result
}

// Frame is the published outcome of one tick. Frames are never modified
// after publication.
type Frame struct {
	Tick         uint64
	Delta        time.Duration
	Player       mgl64.Vec2
	View         world.Rect
	Center       world.ChunkCoord
	LoadedChunks []world.ChunkCoord
	Loaded       []world.ChunkCoord
	Evicted      []world.ChunkCoord
	Obstacles    []world.Rect
	Edits        []world.Edit
	EditSeq      uint64
	Denied       []Denial
}

type Simulation struct {
	cfg    *config.Config
	world  *world.World
	rules  interaction.Rules
	logger *log.Logger

	mu      sync.Mutex
	player  mgl64.Vec2
	view    world.Rect
	hasView bool
	pending []interaction.Request
	latest  Frame

	// Touched only by the stepping goroutine.
	tick    uint64
	journal *editJournal
}

// New wires a noise field, terrain generator and world from cfg.
func New(cfg *config.Config, logger *log.Logger) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if logger == nil {
		logger = log.New(log.Writer(), "tileworld ", log.LstdFlags|log.Lmicroseconds)
	}

	gen, err := terrain.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	w := world.New(cfg.World.Seed, gen, world.StoreOptions{
		ChunkSize:    cfg.Chunk.Size,
		TileSize:     cfg.Tile.Size,
		LoadRadius:   cfg.Chunk.LoadRadius,
		UnloadRadius: cfg.Chunk.UnloadRadius,
		Workers:      cfg.Chunk.GenerationWorkers,
		Logger:       logger,
	})

	rules := interaction.Rules{
		Range:           cfg.Interaction.Range,
		TileSize:        cfg.Tile.Size,
		MaxObstructions: cfg.Interaction.MaxObstructions,
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &Simulation{
		cfg:     cfg,
		world:   w,
		rules:   rules,
		logger:  logger,
		journal: newEditJournal(),
	}, nil
}

// World exposes the simulated world for read-only consumers such as
// renderers. Mutations must go through the request methods.
func (s *Simulation) World() *world.World {
	return s.world
}

func (s *Simulation) Rules() interaction.Rules {
	return s.rules
}

// SpawnPoint returns a player position standing on the surface of column x.
func (s *Simulation) SpawnPoint(x int) mgl64.Vec2 {
	ts := float64(s.world.TileSize())
	return mgl64.Vec2{float64(x)*ts + ts/2, float64(s.world.HeightAt(x)) * ts}
}

func (s *Simulation) SetPlayer(x, y float64) {
	s.mu.Lock()
	s.player = mgl64.Vec2{x, y}
	s.mu.Unlock()
}

func (s *Simulation) Player() mgl64.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// SetView fixes the camera rect. Until it is called the view is centred on
// the player with the configured dimensions.
func (s *Simulation) SetView(view world.Rect) {
	s.mu.Lock()
	s.view = view
	s.hasView = true
	s.mu.Unlock()
}

func (s *Simulation) RequestBreak(actor mgl64.Vec2, tile world.TileCoord) {
	s.enqueue(interaction.Request{Actor: actor, Tile: tile, Kind: interaction.Break})
}

func (s *Simulation) RequestPlace(actor mgl64.Vec2, tile world.TileCoord) {
	s.enqueue(interaction.Request{Actor: actor, Tile: tile, Kind: interaction.Place})
}

func (s *Simulation) enqueue(req interaction.Request) {
	s.mu.Lock()
	s.pending = append(s.pending, req)
	s.mu.Unlock()
}

// Pending reports how many edit requests wait for a tick.
func (s *Simulation) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Latest returns the most recently published frame.
func (s *Simulation) Latest() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Step runs a single tick of the configured duration. Step and Run must not
// be used concurrently.
func (s *Simulation) Step(ctx context.Context) (Frame, error) {
	return s.step(ctx, s.cfg.Simulation.TickRate.Duration())
}

// Run steps the simulation at the configured tick rate until ctx is done.
func (s *Simulation) Run(ctx context.Context) error {
	engine := newTickEngine(s, s.cfg.Simulation.TickRate.Duration())
	engine.Start(ctx)
	return engine.Wait()
}

func (s *Simulation) advance(ctx context.Context, delta time.Duration) error {
	_, err := s.step(ctx, delta)
	return err
}

func (s *Simulation) step(ctx context.Context, delta time.Duration) (Frame, error) {
	player, view, requests := s.drainInputs()

	update, err := s.world.UpdateAroundPlayer(ctx, player.X(), player.Y())
	if err != nil {
		return Frame{}, fmt.Errorf("tick %d: %w", s.tick+1, err)
	}

	var denied []Denial
	for _, req := range requests {
		result := s.rules.Check(req, s.world.ObstaclesInArea(segmentBounds(req.Actor, s.rules.TileCenter(req.Tile))))
		if !result.Allowed {
			denied = append(denied, Denial{Request: req, Result: result})
			s.logger.Printf("denied %v: %s (distance %.1f, obstructions %d)", req, result.Reason, result.Distance, result.Obstructions)
			continue
		}

		var edit world.Edit
		switch req.Kind {
		case interaction.Place:
			edit = s.world.PlaceBlock(req.Tile.X, req.Tile.Y)
		default:
			edit = s.world.BreakBlock(req.Tile.X, req.Tile.Y)
		}
		if edit.Changed {
			s.journal.add(edit)
			s.logger.Printf("applied %s at %v", edit.Kind, edit.Tile)
		}
	}

	edits, seq := s.journal.flush()
	s.tick++
	frame := Frame{
		Tick:         s.tick,
		Delta:        delta,
		Player:       player,
		View:         view,
		Center:       update.Center,
		LoadedChunks: s.world.Store().LoadedChunks(),
		Loaded:       update.Loaded,
		Evicted:      update.Evicted,
		Obstacles:    s.world.ObstaclesInArea(view),
		Edits:        edits,
		EditSeq:      seq,
		Denied:       denied,
	}

	s.mu.Lock()
	s.latest = frame
	s.mu.Unlock()
	return frame, nil
}

// drainInputs snapshots the player, the view and up to maxEditsPerTick
// queued requests. Requests beyond the limit wait for the next tick.
func (s *Simulation) drainInputs() (mgl64.Vec2, world.Rect, []interaction.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.view
	if !s.hasView {
		w := float64(s.cfg.View.Width)
		h := float64(s.cfg.View.Height)
		view = world.Rect{X: s.player.X() - w/2, Y: s.player.Y() - h/2, W: w, H: h}
	}

	n := len(s.pending)
	if limit := s.cfg.Simulation.MaxEditsPerTick; n > limit {
		n = limit
	}
	requests := make([]interaction.Request, n)
	copy(requests, s.pending[:n])
	s.pending = append(s.pending[:0], s.pending[n:]...)
	return s.player, view, requests
}

func segmentBounds(a, b mgl64.Vec2) world.Rect {
	minX := math.Min(a.X(), b.X())
	minY := math.Min(a.Y(), b.Y())
	return world.Rect{
		X: minX,
		Y: minY,
		W: math.Abs(a.X() - b.X()),
		H: math.Abs(a.Y() - b.Y()),
	}
}
