package tilemap

import "github.com/vovakirdan/tui-escape/internal/core"

// Body is anything the resolver can move: a position, a velocity in
// tiles per millisecond, and a bounding box derived from a position.
type Body interface {
	Position() core.Vec2
	SetPosition(p core.Vec2)
	Velocity() core.Vec2
	SetVelocity(v core.Vec2)
	BoundsAt(p core.Vec2) core.Rect
}

// Move integrates the body's own velocity over millis against the grid.
func (m *Map) Move(b Body, millis float64) {
	m.MoveVel(b, millis, b.Velocity())
}

// MoveVel integrates vel over millis and resolves collisions with
// impassable tiles. Y is resolved first against the unmoved X, then X
// against the resolved Y. A blocked axis is zeroed in both vel and the
// body's velocity. There is no sub-stepping: a move longer than a tile in
// one frame can tunnel through thin geometry.
func (m *Map) MoveVel(b Body, millis float64, vel core.Vec2) {
	bodyVel := b.Velocity()

	posY := b.Position().Add(core.V(0, vel.Y*millis))
	bounds := b.BoundsAt(posY)
	for t := range m.Colliders(bounds) {
		if t.Passable {
			continue
		}
		cell := t.Rect()
		if vel.Y > 0 && bounds.Bottom() > cell.Y {
			posY.Y -= bounds.Bottom() - cell.Y
			vel.Y = 0
			bodyVel.Y = 0
			bounds = b.BoundsAt(posY)
		}
		if vel.Y < 0 && bounds.Y < cell.Bottom() {
			posY.Y += cell.Bottom() - bounds.Y
			vel.Y = 0
			bodyVel.Y = 0
			bounds = b.BoundsAt(posY)
		}
	}

	posX := posY.Add(core.V(vel.X*millis, 0))
	bounds = b.BoundsAt(posX)
	for t := range m.Colliders(bounds) {
		if t.Passable {
			continue
		}
		cell := t.Rect()
		if vel.X > 0 && bounds.Right() > cell.X {
			posX.X -= bounds.Right() - cell.X
			vel.X = 0
			bodyVel.X = 0
			bounds = b.BoundsAt(posX)
		}
		if vel.X < 0 && bounds.X < cell.Right() {
			posX.X += cell.Right() - bounds.X
			vel.X = 0
			bodyVel.X = 0
			bounds = b.BoundsAt(posX)
		}
	}

	b.SetVelocity(bodyVel)
	b.SetPosition(core.V(posX.X, posY.Y))
}
