// Package interaction decides whether an actor may break or place a tile.
//
// A request is allowed when the tile centre lies within reach of the actor
// and the straight line between them crosses few enough solid tiles. The
// target's own rect counts when it is solid. Placing starts with one
// obstruction already counted and breaking starts at zero, so with the
// default budget of one a solid tile can be broken and an empty cell filled
// only when nothing else lies on the line.
package interaction

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"tileworld/internal/world"
)

// Kind is the edit an actor requests.
type Kind string

const (
	Break Kind = "break"
	Place Kind = "place"
)

// start returns the obstruction count a request begins with.
func (k Kind) start() int {
	if k == Place {
		return 1
	}
	return 0
}

// Rules are the reach and obstruction limits for interaction.
type Rules struct {
	Range           float64
	TileSize        int
	MaxObstructions int
}

// DefaultRules matches the default configuration.
func DefaultRules() Rules {
	return Rules{Range: 160, TileSize: 48, MaxObstructions: 1}
}

// Validate reports whether the rules can be applied.
func (r Rules) Validate() error {
	if r.Range <= 0 {
		return errors.New("interaction range must be positive")
	}
	if r.TileSize <= 0 {
		return errors.New("interaction tile size must be positive")
	}
	if r.MaxObstructions < 0 {
		return errors.New("interaction max obstructions cannot be negative")
	}
	return nil
}

// Request is one edit attempt from an actor reference point in world pixels.
type Request struct {
	Actor mgl64.Vec2
	Tile  world.TileCoord
	Kind  Kind
}

func (r Request) String() string {
	return fmt.Sprintf("%s %v from (%.1f,%.1f)", r.Kind, r.Tile, r.Actor.X(), r.Actor.Y())
}

// Result explains a Check decision.
type Result struct {
	Allowed      bool
	Distance     float64
	Obstructions int
	Reason       string
}

// TileCenter returns the world-pixel centre of a tile.
func (r Rules) TileCenter(tile world.TileCoord) mgl64.Vec2 {
	ts := float64(r.TileSize)
	return mgl64.Vec2{float64(tile.X)*ts + ts/2, float64(tile.Y)*ts + ts/2}
}

// Check evaluates req against obstacles, the solid tile rects near the actor.
func (r Rules) Check(req Request, obstacles []world.Rect) Result {
	target := r.TileCenter(req.Tile)
	distance := target.Sub(req.Actor).Len()
	res := Result{Distance: distance}

	if distance > r.Range {
		res.Reason = "out of range"
		return res
	}

	res.Obstructions = req.Kind.start()
	for _, rect := range obstacles {
		if SegmentCrossesRect(req.Actor, target, rect) {
			res.Obstructions++
		}
	}

	if res.Obstructions > r.MaxObstructions {
		res.Reason = "line of sight blocked"
		return res
	}
	res.Allowed = true
	return res
}

// SegmentCrossesRect reports whether the segment from a to b has a
// non-degenerate overlap with rect, using Liang-Barsky clipping. Segments that
// only touch an edge or corner do not count.
func SegmentCrossesRect(a, b mgl64.Vec2, rect world.Rect) bool {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0

	edges := [4]struct{ p, q float64 }{
		{-d.X(), a.X() - rect.X},
		{d.X(), rect.Right() - a.X()},
		{-d.Y(), a.Y() - rect.Y},
		{d.Y(), rect.Bottom() - a.Y()},
	}
	for _, e := range edges {
		if e.p == 0 {
			// Parallel to this edge: outside or grazing means no crossing.
			if e.q <= 0 {
				return false
			}
			continue
		}
		t := e.q / e.p
		if e.p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 >= t1 {
			return false
		}
	}
	return t1-t0 > mgl64.Epsilon
}
