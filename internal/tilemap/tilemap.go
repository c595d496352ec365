package tilemap

import (
	"iter"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-escape/internal/core"
)

// queryRadius is the neighbourhood searched by Colliders and Contacters.
// Bodies larger than about one tile can miss collisions.
const queryRadius = 1.5

// Map is a dense W×H grid of tiles stored in a flat slice.
type Map struct {
	W, H  int
	cells []Tile

	start, end, kiosk int // cell indexes, -1 when unset
}

// NewMap returns a grid where every cell is a Floor tile.
func NewMap(w, h int) *Map {
	m := &Map{
		W:     w,
		H:     h,
		cells: make([]Tile, w*h),
		start: -1,
		end:   -1,
		kiosk: -1,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.cells[m.index(x, y)] = New(Floor, x, y)
		}
	}
	return m
}

func (m *Map) index(x, y int) int {
	return y*m.W + x
}

// InBounds reports whether (x, y) is a cell of the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.W && y >= 0 && y < m.H
}

// At returns the tile at (x, y), or a fresh Void tile out of bounds.
func (m *Map) At(x, y int) Tile {
	if !m.InBounds(x, y) {
		return New(Void, x, y)
	}
	return m.cells[m.index(x, y)]
}

// Set places a new tile of kind at (x, y). Out of bounds it does nothing
// and returns false.
func (m *Map) Set(x, y int, kind Kind) (Tile, bool) {
	return m.Put(New(kind, x, y))
}

// Put stores t at its own cell, overwriting whatever was there.
func (m *Map) Put(t Tile) (Tile, bool) {
	if !m.InBounds(t.X, t.Y) {
		return Tile{}, false
	}
	m.cells[m.index(t.X, t.Y)] = t
	return t, true
}

// Replace swaps the tile at t's cell for a new tile of kind.
func (m *Map) Replace(t Tile, kind Kind) (Tile, bool) {
	return m.Set(t.X, t.Y, kind)
}

// Update applies fn to the live tile at (x, y). It is a no-op out of bounds.
func (m *Map) Update(x, y int, fn func(t *Tile)) {
	if !m.InBounds(x, y) {
		return
	}
	fn(&m.cells[m.index(x, y)])
}

// SetStart marks the start tile.
func (m *Map) SetStart(t Tile) { m.start = m.mark(t) }

// SetEnd marks the end (exit) tile.
func (m *Map) SetEnd(t Tile) { m.end = m.mark(t) }

// SetKiosk marks the kiosk dispenser tile.
func (m *Map) SetKiosk(t Tile) { m.kiosk = m.mark(t) }

func (m *Map) mark(t Tile) int {
	if !m.InBounds(t.X, t.Y) {
		return -1
	}
	return m.index(t.X, t.Y)
}

func (m *Map) marked(i int) Tile {
	if i < 0 {
		return New(Void, 0, 0)
	}
	return m.cells[i]
}

// StartTile returns the level entrance, or Void when unset.
func (m *Map) StartTile() Tile { return m.marked(m.start) }

// EndTile returns the level exit, or Void when unset.
func (m *Map) EndTile() Tile { return m.marked(m.end) }

// KioskTile returns the kiosk dispenser, or Void when unset.
func (m *Map) KioskTile() Tile { return m.marked(m.kiosk) }

// FillRect sets every in-bounds cell of the rectangle to kind.
func (m *Map) FillRect(x, y, w, h int, kind Kind) {
	for t := range m.IterRect(x, y, w, h) {
		m.Set(t.X, t.Y, kind)
	}
}

// IterAll yields every tile in row-major order.
func (m *Map) IterAll() iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for _, t := range m.cells {
			if !yield(t) {
				return
			}
		}
	}
}

// IterRect yields the in-bounds tiles of a rectangle.
func (m *Map) IterRect(x, y, w, h int) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for j := max(y, 0); j < min(y+h, m.H); j++ {
			for i := max(x, 0); i < min(x+w, m.W); i++ {
				if !yield(m.cells[m.index(i, j)]) {
					return
				}
			}
		}
	}
}

// IterRectBorder yields the in-bounds tiles on the rectangle's border, each once.
func (m *Map) IterRectBorder(x, y, w, h int) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		if w <= 0 || h <= 0 {
			return
		}
		emit := func(i, j int) bool {
			if !m.InBounds(i, j) {
				return true
			}
			return yield(m.cells[m.index(i, j)])
		}
		right, bottom := x+w-1, y+h-1
		for i := x; i <= right; i++ {
			if !emit(i, y) {
				return
			}
			if bottom != y && !emit(i, bottom) {
				return
			}
		}
		for j := y + 1; j < bottom; j++ {
			if !emit(x, j) {
				return
			}
			if right != x && !emit(right, j) {
				return
			}
		}
	}
}

// IterRange yields in-bounds tiles whose cell origin lies within radius
// of center (inclusive).
func (m *Map) IterRange(center core.Vec2, radius float64) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		x0, x1 := int(math.Floor(center.X-radius)), int(math.Ceil(center.X+radius))
		y0, y1 := int(math.Floor(center.Y-radius)), int(math.Ceil(center.Y+radius))
		for i := x0; i <= x1; i++ {
			for j := y0; j <= y1; j++ {
				if math.Hypot(center.X-float64(i), center.Y-float64(j)) > radius {
					continue
				}
				if !m.InBounds(i, j) {
					continue
				}
				if !yield(m.cells[m.index(i, j)]) {
					return
				}
			}
		}
	}
}

func (m *Map) near(r core.Rect) iter.Seq[Tile] {
	c := r.Center()
	return m.IterRange(core.V(c.X-0.5, c.Y-0.5), queryRadius)
}

// Colliders yields tiles near r whose cell strictly overlaps r.
func (m *Map) Colliders(r core.Rect) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for t := range m.near(r) {
			if t.Rect().Collide(r) && !yield(t) {
				return
			}
		}
	}
}

// Contacters yields tiles near r whose cell touches or overlaps r.
func (m *Map) Contacters(r core.Rect) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for t := range m.near(r) {
			if t.Rect().Contact(r) && !yield(t) {
				return
			}
		}
	}
}

// NumNeighbors counts tiles of kind within 1.5 of (x, y), the cell itself included.
func (m *Map) NumNeighbors(x, y int, kind Kind) int {
	n := 0
	for t := range m.IterRange(core.V(float64(x), float64(y)), queryRadius) {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// IterRandom yields the tiles of a rectangle in shuffled order, keeping
// tiles of kind that have at most maxNeighbors tiles of neighbor around
// them. Pass Any to skip either check. The neighbour count is evaluated
// lazily, so tiles placed while iterating influence later candidates.
func (m *Map) IterRandom(rng *rand.Rand, x, y, w, h int, kind, neighbor Kind, maxNeighbors int) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		var cells []Tile
		for t := range m.IterRect(x, y, w, h) {
			cells = append(cells, t)
		}
		core.Shuffle(rng, cells)
		for _, c := range cells {
			t := m.At(c.X, c.Y)
			if kind != Any && t.Kind != kind {
				continue
			}
			if neighbor != Any && m.NumNeighbors(t.X, t.Y, neighbor) > maxNeighbors {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// ClosestTile returns the tile whose cell best matches r's center.
func (m *Map) ClosestTile(r core.Rect) Tile {
	c := r.Center()
	return m.At(int(math.Round(c.X-0.5)), int(math.Round(c.Y-0.5)))
}

// Above returns the tile above t.
func (m *Map) Above(t Tile) Tile { return m.At(t.X, t.Y-1) }

// Below returns the tile below t.
func (m *Map) Below(t Tile) Tile { return m.At(t.X, t.Y+1) }

// LeftOf returns the tile left of t.
func (m *Map) LeftOf(t Tile) Tile { return m.At(t.X-1, t.Y) }

// RightOf returns the tile right of t.
func (m *Map) RightOf(t Tile) Tile { return m.At(t.X+1, t.Y) }

// Neighbors4 returns the four edge-adjacent tiles (Void out of bounds).
func (m *Map) Neighbors4(t Tile) [4]Tile {
	return [4]Tile{m.Above(t), m.Below(t), m.LeftOf(t), m.RightOf(t)}
}

// Connected returns the passable tiles reachable from t through
// edge-adjacent passable tiles, t included.
func (m *Map) Connected(t Tile) []Tile {
	seen := map[int]bool{}
	out := []Tile{t}
	if m.InBounds(t.X, t.Y) {
		seen[m.index(t.X, t.Y)] = true
	}
	frontier := []Tile{t}
	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, n := range m.Neighbors4(cur) {
			if !n.Passable || n.IsVoid() {
				continue
			}
			i := m.index(n.X, n.Y)
			if seen[i] {
				continue
			}
			seen[i] = true
			out = append(out, n)
			frontier = append(frontier, n)
		}
	}
	return out
}
