package escape

import (
	"math"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// EntityKind tags the role of a world entity.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindMonster
	KindProjectile
	KindPickup
	KindHazard
	KindDecoration
)

// String returns the entity kind name.
func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindMonster:
		return "monster"
	case KindProjectile:
		return "projectile"
	case KindPickup:
		return "pickup"
	case KindHazard:
		return "hazard"
	case KindDecoration:
		return "decoration"
	}
	return "unknown"
}

// Entity holds the fields shared by everything that lives in the world.
// Velocities are in tiles per millisecond. BBox and HitBox are relative
// to Pos; a zero HitBox means the bounding box is used for combat too.
type Entity struct {
	Pos, Vel       core.Vec2
	OldPos, OldVel core.Vec2
	Facing         float64
	Angle          float64
	BBox           core.Rect
	HitBox         core.Rect
	Dead           bool
	Falling        bool
	CanFall        bool

	// Frame advances with distance travelled, not with time.
	Frame float64
}

func newEntity(pos core.Vec2, bbox core.Rect) Entity {
	return Entity{
		Pos:     pos,
		OldPos:  pos,
		Facing:  1,
		BBox:    bbox,
		CanFall: true,
	}
}

// Position implements tilemap.Body.
func (e *Entity) Position() core.Vec2 { return e.Pos }

// SetPosition implements tilemap.Body.
func (e *Entity) SetPosition(p core.Vec2) { e.Pos = p }

// Velocity implements tilemap.Body.
func (e *Entity) Velocity() core.Vec2 { return e.Vel }

// SetVelocity implements tilemap.Body.
func (e *Entity) SetVelocity(v core.Vec2) { e.Vel = v }

// BoundsAt implements tilemap.Body.
func (e *Entity) BoundsAt(p core.Vec2) core.Rect { return e.BBox.Shift(p) }

// Bounds returns the bounding box at the current position.
func (e *Entity) Bounds() core.Rect { return e.BBox.Shift(e.Pos) }

// HitBounds returns the combat box at the current position.
func (e *Entity) HitBounds() core.Rect {
	if e.HitBox.W == 0 && e.HitBox.H == 0 {
		return e.Bounds()
	}
	return e.HitBox.Shift(e.Pos)
}

// Center returns the center of the bounding box.
func (e *Entity) Center() core.Vec2 { return e.Bounds().Center() }

// snapshot records the previous-frame position and velocity.
func (e *Entity) snapshot() {
	e.OldPos = e.Pos
	e.OldVel = e.Vel
}

// animate advances the animation frame by the distance moved since the
// last snapshot.
func (e *Entity) animate() {
	e.Frame += e.Pos.Dist(e.OldPos) * 8
}

// AnimFrame returns the current animation frame index modulo n.
func (e *Entity) AnimFrame(n int) int {
	if n <= 0 {
		return 0
	}
	return int(e.Frame) % n
}

const standEps = 1e-6

// move runs the tile resolver and then catches the body on any ledge top
// it crossed while falling. Holding drop skips the ledge catch.
func (g *Game) move(e *Entity, millis float64, drop bool) {
	prev := e.BoundsAt(e.Pos)
	g.Tiles.Move(e, millis)
	if drop || e.Vel.Y < 0 {
		return
	}
	b := e.Bounds()
	for t := range g.Tiles.Colliders(b) {
		if !t.Passable || !t.Standable {
			continue
		}
		top := float64(t.Y)
		if prev.Bottom() <= top+standEps && b.Bottom() > top {
			e.Pos.Y -= b.Bottom() - top
			e.Vel.Y = 0
			return
		}
	}
}

// supported reports whether a standable tile's top touches e's bottom edge.
func (g *Game) supported(e *Entity) bool {
	b := e.Bounds()
	for t := range g.Tiles.Contacters(b) {
		if !t.Standable {
			continue
		}
		if math.Abs(float64(t.Y)-b.Bottom()) > standEps {
			continue
		}
		if float64(t.X) < b.Right() && float64(t.X+1) > b.X {
			return true
		}
	}
	return false
}

// applyGravity accelerates a falling body toward maxFall.
func applyGravity(e *Entity, gravity, maxFall, millis float64) {
	e.Vel.Y = math.Min(maxFall, e.Vel.Y+gravity*millis/15)
}

// closestTile returns the tile under the center of e.
func (g *Game) closestTile(e *Entity) tilemap.Tile {
	return g.Tiles.ClosestTile(e.Bounds())
}

// Target is anything combat can damage: monsters and players.
type Target interface {
	Body() *Entity
	HitFrom(g *Game, src core.Vec2, damage, knockback float64)
	Stun(millis float64)
	Alive() bool
}

// overlapping returns the live targets whose hit box collides with r.
func overlapping(targets []Target, r core.Rect) []Target {
	var out []Target
	for _, t := range targets {
		if t.Alive() && t.Body().HitBounds().Collide(r) {
			out = append(out, t)
		}
	}
	return out
}

// firstOverlapping returns the first live target colliding with r, or nil.
func firstOverlapping(targets []Target, r core.Rect) Target {
	for _, t := range targets {
		if t.Alive() && t.Body().HitBounds().Collide(r) {
			return t
		}
	}
	return nil
}

// blast damages every target within radius of center, doubling damage
// inside half a tile, stunning and pushing them away. Shared by grenades,
// rockets and drones.
func blast(g *Game, targets []Target, center core.Vec2, radius, damage float64) {
	for _, t := range targets {
		if !t.Alive() {
			continue
		}
		e := t.Body()
		d := center.Dist(e.Pos)
		if d > radius {
			continue
		}
		d = math.Max(0.1, d)
		dmg := damage
		if d <= 0.5 {
			dmg *= 2
		}
		t.HitFrom(g, center, dmg, 0)
		t.Stun(500 * damage)
		power := 1.0/1600 + (radius-d)/3200
		delta := core.V(e.Pos.X-center.X, e.Pos.Y-(center.Y+1))
		e.Vel = e.Vel.Add(delta.Scale(power / d))
		e.Falling = true
	}
}
