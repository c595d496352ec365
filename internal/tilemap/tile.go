// Package tilemap holds the tile grid of a level and the axis-separated
// movement resolver that moves bodies against it.
package tilemap

import "github.com/vovakirdan/tui-escape/internal/core"

// Kind tags a tile variant.
type Kind uint8

const (
	Void Kind = iota // out-of-bounds sentinel
	Floor
	Wall
	Ledge
	WaterShallow
	WaterDeep
	BeachLower
	BeachUpper
	Entrance
	Exit
	KioskScreen
	KioskDispenser
	TrapBlock
	GunPlatformJunction
	Palm

	// Any matches every kind in filters.
	Any Kind = 255
)

var kindNames = [...]string{
	Void:                "void",
	Floor:               "floor",
	Wall:                "wall",
	Ledge:               "ledge",
	WaterShallow:        "water-shallow",
	WaterDeep:           "water-deep",
	BeachLower:          "beach-lower",
	BeachUpper:          "beach-upper",
	Entrance:            "entrance",
	Exit:                "exit",
	KioskScreen:         "kiosk-screen",
	KioskDispenser:      "kiosk-dispenser",
	TrapBlock:           "trap-block",
	GunPlatformJunction: "gun-platform-junction",
	Palm:                "palm",
}

// String returns the tile kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsKiosk reports whether k is either half of the kiosk pair.
func (k Kind) IsKiosk() bool {
	return k == KioskScreen || k == KioskDispenser
}

// TrapMode selects how a TrapBlock drives its blade.
type TrapMode uint8

const (
	TrapCycling TrapMode = iota // extends and retracts forever
	TrapContact                 // extends when a player stands on the block
	TrapStatic                  // blade stays extended
)

// String returns the trap mode name.
func (m TrapMode) String() string {
	switch m {
	case TrapCycling:
		return "cycling"
	case TrapContact:
		return "contact"
	case TrapStatic:
		return "static"
	}
	return "unknown"
}

// DefaultClimbSpeed is the climb speed of climbable tiles in tiles/ms.
const DefaultClimbSpeed = 1.0 / 300

// DefaultHP is the hit points a tile starts with.
const DefaultHP = 100

// Tile is the value stored in one grid cell. Kind-specific fields are
// zero for kinds that do not use them.
type Tile struct {
	Kind       Kind
	X, Y       int
	Passable   bool
	Climbable  bool
	Standable  bool
	ClimbSpeed float64
	HP         float64
	// Variant picks between alternative glyphs of the same kind.
	Variant int

	Locked bool     // Exit
	Trap   TrapMode // TrapBlock
}

// New builds a tile of the given kind at (x, y) with the kind's defaults.
func New(kind Kind, x, y int) Tile {
	t := Tile{
		Kind:       kind,
		X:          x,
		Y:          y,
		Passable:   true,
		ClimbSpeed: DefaultClimbSpeed,
		HP:         DefaultHP,
	}
	switch kind {
	case Wall, TrapBlock, GunPlatformJunction, Palm:
		t.Passable = false
	}
	t.Standable = !t.Passable || t.Climbable
	if kind == Ledge {
		t.Standable = true
	}
	return t
}

// NewExit builds an exit tile, optionally locked.
func NewExit(x, y int, locked bool) Tile {
	t := New(Exit, x, y)
	t.Locked = locked
	return t
}

// NewTrap builds a trap block with the given blade mode.
func NewTrap(x, y int, mode TrapMode) Tile {
	t := New(TrapBlock, x, y)
	t.Trap = mode
	return t
}

// Pos returns the cell position as a vector.
func (t Tile) Pos() core.Vec2 {
	return core.V(float64(t.X), float64(t.Y))
}

// Rect returns the full unit cell. The movement resolver collides against it.
func (t Tile) Rect() core.Rect {
	return core.R(float64(t.X), float64(t.Y), 1, 1)
}

// Bounds returns the visual/contact bound. Walls only occupy the top
// quarter so entities may overlap them from below.
func (t Tile) Bounds() core.Rect {
	if t.Kind == Wall {
		return core.R(float64(t.X), float64(t.Y), 1, 0.25)
	}
	return t.Rect()
}

// IsVoid reports whether t is the out-of-bounds sentinel.
func (t Tile) IsVoid() bool {
	return t.Kind == Void
}

// ManhattanDist returns |dx|+|dy| between two cells.
func (t Tile) ManhattanDist(o Tile) int {
	return core.Abs(t.X-o.X) + core.Abs(t.Y-o.Y)
}

// Dist returns the Euclidean distance from the cell origin to p.
func (t Tile) Dist(p core.Vec2) float64 {
	return t.Pos().Dist(p)
}
