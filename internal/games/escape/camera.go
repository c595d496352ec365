package escape

import (
	"math"

	"github.com/vovakirdan/tui-escape/internal/core"
)

// Camera is the viewport over the tile map. Pos is the top-left tile.
type Camera struct {
	Pos          core.Vec2
	ViewW, ViewH int
	MapW, MapH   int
	Focus        *Player
}

// NewCamera returns a camera for a view of viewW×viewH tiles.
func NewCamera(viewW, viewH, mapW, mapH int) *Camera {
	return &Camera{ViewW: viewW, ViewH: viewH, MapW: mapW, MapH: mapH}
}

// Scrollable reports whether the map is larger than the view.
func (c *Camera) Scrollable() bool {
	return c.ViewW < c.MapW || c.ViewH < c.MapH
}

// Reset snaps the camera to its target.
func (c *Camera) Reset(players []*Player) {
	c.Focus = nil
	if t, ok := c.target(players); ok {
		c.Pos = t
	} else {
		c.Pos = core.Vec2{}
	}
}

// Update moves the camera toward its target by at most 0.2 tiles per
// 15ms on the dominant axis, snapping when closer than that.
func (c *Camera) Update(players []*Player, millis float64) {
	if !c.Scrollable() {
		c.Pos = core.Vec2{}
		return
	}
	t, ok := c.target(players)
	if !ok {
		return
	}
	k := 0.2 * millis / 15
	d := t.Sub(c.Pos)
	dominant := math.Max(math.Abs(d.X), math.Abs(d.Y))
	if dominant <= k {
		c.Pos = t
		return
	}
	c.Pos = c.Pos.Add(d.Scale(k / dominant))
}

// target picks the clamped top-left for the living players. The focus
// player wins when it strays more than half a view from the group.
func (c *Camera) target(players []*Player) (core.Vec2, bool) {
	var living []*Player
	for _, p := range players {
		if p.Alive() {
			living = append(living, p)
		}
	}
	if len(living) == 0 {
		return core.Vec2{}, false
	}
	if c.Focus == nil || !c.Focus.Alive() {
		c.Focus = living[0]
	}
	var avg core.Vec2
	for _, p := range living {
		avg = avg.Add(p.Center())
	}
	avg = avg.Scale(1 / float64(len(living)))
	fc := c.Focus.Center()
	if math.Abs(fc.X-avg.X) > float64(c.ViewW)/2 || math.Abs(fc.Y-avg.Y) > float64(c.ViewH)/2 {
		avg = fc
	}
	return core.V(
		core.ClampF(avg.X-float64(c.ViewW)/2, 0, math.Max(0, float64(c.MapW-c.ViewW))),
		core.ClampF(avg.Y-float64(c.ViewH)/2, 0, math.Max(0, float64(c.MapH-c.ViewH))),
	), true
}

// Origin returns the integer top-left tile for drawing.
func (c *Camera) Origin() (int, int) {
	return int(math.Round(c.Pos.X)), int(math.Round(c.Pos.Y))
}
