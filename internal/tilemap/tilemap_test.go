package tilemap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-escape/internal/core"
)

// box is a minimal Body for resolver tests.
type box struct {
	pos, vel core.Vec2
	bb       core.Rect
}

func newBox(x, y, vx, vy float64) *box {
	return &box{pos: core.V(x, y), vel: core.V(vx, vy), bb: core.R(0.25, 0.5, 0.5, 0.5)}
}

func (b *box) Position() core.Vec2            { return b.pos }
func (b *box) SetPosition(p core.Vec2)        { b.pos = p }
func (b *box) Velocity() core.Vec2            { return b.vel }
func (b *box) SetVelocity(v core.Vec2)        { b.vel = v }
func (b *box) BoundsAt(p core.Vec2) core.Rect { return b.bb.Shift(p) }

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAtOutOfBoundsIsVoid(t *testing.T) {
	m := NewMap(4, 3)
	tests := []struct{ x, y int }{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}}
	for _, tc := range tests {
		tile := m.At(tc.x, tc.y)
		if tile.Kind != Void {
			t.Errorf("At(%d, %d).Kind = %v, expected void", tc.x, tc.y, tile.Kind)
		}
		if !tile.Passable {
			t.Errorf("At(%d, %d) void should be passable", tc.x, tc.y)
		}
		if tile.X != tc.x || tile.Y != tc.y {
			t.Errorf("At(%d, %d) void position = (%d, %d)", tc.x, tc.y, tile.X, tile.Y)
		}
	}
}

func TestSetAndReplace(t *testing.T) {
	m := NewMap(4, 3)
	if _, ok := m.Set(9, 9, Wall); ok {
		t.Error("Set() out of bounds should return false")
	}

	wall, ok := m.Set(1, 1, Wall)
	if !ok || wall.Kind != Wall || wall.Passable {
		t.Fatalf("Set() = %+v, %v", wall, ok)
	}
	if got := m.At(1, 1); got.Kind != Wall || !got.Standable {
		t.Errorf("At(1, 1) = %+v, expected standable wall", got)
	}

	floor, _ := m.Replace(wall, Floor)
	if floor.X != 1 || floor.Y != 1 || m.At(1, 1).Kind != Floor {
		t.Errorf("Replace() should keep position, got %+v", floor)
	}
}

func TestTileDefaults(t *testing.T) {
	tests := []struct {
		kind      Kind
		passable  bool
		standable bool
	}{
		{Floor, true, false},
		{Wall, false, true},
		{Ledge, true, true},
		{TrapBlock, false, true},
		{Palm, false, true},
		{Exit, true, false},
		{KioskDispenser, true, false},
		{Void, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			tile := New(tc.kind, 0, 0)
			if tile.Passable != tc.passable {
				t.Errorf("Passable = %v, expected %v", tile.Passable, tc.passable)
			}
			if tile.Standable != tc.standable {
				t.Errorf("Standable = %v, expected %v", tile.Standable, tc.standable)
			}
		})
	}
}

func TestWallBoundsTopQuarter(t *testing.T) {
	w := New(Wall, 2, 3)
	if b := w.Bounds(); b != core.R(2, 3, 1, 0.25) {
		t.Errorf("Bounds() = %v, expected top quarter", b)
	}
	if r := w.Rect(); r != core.R(2, 3, 1, 1) {
		t.Errorf("Rect() = %v, expected full cell", r)
	}
}

func TestIterRange(t *testing.T) {
	m := NewMap(10, 10)
	count := 0
	for range m.IterRange(core.V(5, 5), 1) {
		count++
	}
	if count != 5 {
		t.Errorf("IterRange(r=1) yielded %d tiles, expected 5", count)
	}

	count = 0
	for range m.IterRange(core.V(0, 0), 1.5) {
		count++
	}
	if count != 4 {
		t.Errorf("IterRange at corner yielded %d tiles, expected 4", count)
	}
}

func TestIterRangeStopsEarly(t *testing.T) {
	m := NewMap(10, 10)
	n := 0
	for range m.IterRange(core.V(5, 5), 3) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("break after 2 tiles, got %d", n)
	}
}

func TestIterRectBorder(t *testing.T) {
	m := NewMap(6, 6)
	tests := []struct {
		name       string
		x, y, w, h int
		expected   int
	}{
		{"inside", 1, 1, 4, 3, 10},
		{"single row", 0, 0, 5, 1, 5},
		{"single cell", 2, 2, 1, 1, 1},
		{"clipped", -1, -1, 3, 3, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := 0
			for range m.IterRectBorder(tc.x, tc.y, tc.w, tc.h) {
				n++
			}
			if n != tc.expected {
				t.Errorf("IterRectBorder() yielded %d, expected %d", n, tc.expected)
			}
		})
	}
}

func TestIterRectSkipsOutOfBounds(t *testing.T) {
	m := NewMap(3, 3)
	n := 0
	for tile := range m.IterRect(-2, -2, 10, 10) {
		if tile.IsVoid() {
			t.Fatal("IterRect() yielded a void tile")
		}
		n++
	}
	if n != 9 {
		t.Errorf("IterRect() yielded %d, expected 9", n)
	}
}

func TestIterRandomNeighborCap(t *testing.T) {
	m := NewMap(8, 8)
	m.FillRect(0, 0, 8, 1, Wall)
	rng := rand.New(rand.NewSource(3))

	for tile := range m.IterRandom(rng, 0, 0, 8, 8, Floor, Wall, 0) {
		if tile.Kind != Floor {
			t.Fatalf("IterRandom() yielded %v", tile.Kind)
		}
		if tile.Y <= 1 {
			t.Errorf("IterRandom() yielded (%d, %d) next to a wall", tile.X, tile.Y)
		}
	}
}

func TestConnected(t *testing.T) {
	m := NewMap(5, 3)
	m.FillRect(2, 0, 1, 3, Wall)
	got := m.Connected(m.At(0, 0))
	if len(got) != 6 {
		t.Errorf("Connected() = %d tiles, expected 6", len(got))
	}
}

func TestColliders(t *testing.T) {
	m := NewMap(5, 5)
	r := core.R(1.5, 1.5, 1, 1)
	n := 0
	for range m.Colliders(r) {
		n++
	}
	if n != 4 {
		t.Errorf("Colliders() = %d, expected 4", n)
	}

	n = 0
	for range m.Contacters(core.R(1, 1, 1, 1)) {
		n++
	}
	if n != 9 {
		t.Errorf("Contacters() = %d, expected 9", n)
	}
}

func TestClosestTile(t *testing.T) {
	m := NewMap(5, 5)
	got := m.ClosestTile(core.R(2.3, 1.1, 0.5, 0.5))
	if got.X != 2 || got.Y != 1 {
		t.Errorf("ClosestTile() = (%d, %d), expected (2, 1)", got.X, got.Y)
	}
}

func TestMarkedTiles(t *testing.T) {
	m := NewMap(5, 5)
	if !m.StartTile().IsVoid() {
		t.Error("unset StartTile() should be void")
	}
	m.SetStart(m.At(1, 2))
	m.Set(1, 2, Entrance)
	if s := m.StartTile(); s.Kind != Entrance || s.X != 1 || s.Y != 2 {
		t.Errorf("StartTile() = %+v", s)
	}
}

func TestMoveZeroVelocity(t *testing.T) {
	m := NewMap(5, 5)
	m.FillRect(0, 4, 5, 1, Wall)
	for _, ms := range []float64{0, 15, 30, 1000} {
		b := newBox(2, 2.5, 0, 0)
		m.Move(b, ms)
		if b.pos != core.V(2, 2.5) {
			t.Errorf("Move(%v) moved a still body to %v", ms, b.pos)
		}
	}
}

func TestMoveLandsOnFloor(t *testing.T) {
	m := NewMap(5, 5)
	m.FillRect(0, 3, 5, 1, Wall)
	b := newBox(2, 1.9, 0, 0.02)
	m.Move(b, 15)
	if !near(b.pos.Y, 2) {
		t.Errorf("pos.Y = %v, expected 2 (bottom resting on y=3)", b.pos.Y)
	}
	if b.vel.Y != 0 {
		t.Errorf("vel.Y = %v, expected 0", b.vel.Y)
	}
}

func TestMoveHitsCeiling(t *testing.T) {
	m := NewMap(5, 5)
	m.Set(2, 1, Wall)
	b := newBox(2, 1.6, 0, -0.02)
	m.Move(b, 15)
	if !near(b.BoundsAt(b.pos).Y, 2) {
		t.Errorf("top = %v, expected 2", b.BoundsAt(b.pos).Y)
	}
	if b.vel.Y != 0 {
		t.Errorf("vel.Y = %v, expected 0", b.vel.Y)
	}
}

func TestMoveInsideCornerStopsBothAxes(t *testing.T) {
	m := NewMap(5, 4)
	m.FillRect(0, 2, 5, 1, Wall)
	m.Set(2, 1, Wall)

	b := newBox(1.0, 0.95, 0.04, 0.01)
	m.Move(b, 15)

	if b.vel.Y != 0 || b.vel.X != 0 {
		t.Errorf("vel = %v, expected both axes zeroed on the same step", b.vel)
	}
	if !near(b.pos.Y, 1.0) {
		t.Errorf("pos.Y = %v, expected 1.0 (landed)", b.pos.Y)
	}
	if !near(b.pos.X, 1.25) {
		t.Errorf("pos.X = %v, expected 1.25 (against the wall)", b.pos.X)
	}
}

func TestMoveResolvesYBeforeX(t *testing.T) {
	m := NewMap(5, 5)
	m.Set(2, 2, Wall)

	// Approaching the wall's top-left corner diagonally. Resolving Y first
	// against the unmoved X misses the wall, so X is the blocked axis.
	b := newBox(1.2, 0.95, 0.01, 0.01)
	m.Move(b, 10)

	if b.vel.X != 0 {
		t.Errorf("vel.X = %v, expected 0", b.vel.X)
	}
	if b.vel.Y != 0.01 {
		t.Errorf("vel.Y = %v, expected 0.01 (still falling)", b.vel.Y)
	}
	if !near(b.pos.X, 1.25) || !near(b.pos.Y, 1.05) {
		t.Errorf("pos = %v, expected (1.25, 1.05)", b.pos)
	}
}

func TestMoveVelOverride(t *testing.T) {
	m := NewMap(5, 5)
	b := newBox(1, 1, 0.5, 0.5)
	m.MoveVel(b, 10, core.V(0.01, 0))
	if !near(b.pos.X, 1.1) || b.pos.Y != 1 {
		t.Errorf("pos = %v, expected (1.1, 1)", b.pos)
	}
	if b.vel != core.V(0.5, 0.5) {
		t.Errorf("unblocked MoveVel() changed body velocity to %v", b.vel)
	}
}
