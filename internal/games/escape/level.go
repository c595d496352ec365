package escape

import (
	"fmt"
	"iter"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// platformSpacing is the number of rows between platform layers. A full
// jump clears it with a little to spare.
const platformSpacing = 3

// generateLevel builds the tiles, monsters and items of a level. Placement
// uses bounded retries; running out of attempts is returned as an error
// wrapping core.ErrTimeout.
func (g *Game) generateLevel(level int) error {
	w, h := g.cfg.Game.DimW, g.cfg.Game.DimH
	m := tilemap.NewMap(w, h)
	g.Tiles = m
	g.Monsters = g.Monsters[:0]
	g.Items = g.Items[:0]
	g.cellsCollected = 0

	m.FillRect(0, 0, w, 1, tilemap.Wall)
	m.FillRect(0, h-1, w, 1, tilemap.Wall)
	m.FillRect(0, 0, 1, h, tilemap.Wall)
	m.FillRect(w-1, 0, 1, h, tilemap.Wall)
	g.layPlatforms(m)

	start, _ := m.Set(core.RandomRange(g.rng, 1, max(1, w/8)), h-2, tilemap.Entrance)
	m.SetStart(start)

	reach := reachable(m, start)
	exit, err := g.placeOnFloor("place the exit", 1, 1, w-2, max(1, h/3), func(t tilemap.Tile) bool {
		return reach[cell(t)]
	})
	if err != nil {
		return err
	}
	locked := g.mode == ModeCompetitive || (level%3 == 0 && g.mode != ModeSandbox)
	exit = tilemap.NewExit(exit.X, exit.Y, locked)
	m.Put(exit)
	m.SetEnd(exit)

	kiosk, err := g.placeOnFloor("place the kiosk", 2, h/3, w-3, h-2, func(t tilemap.Tile) bool {
		return m.Above(t).Kind == tilemap.Floor && t.ManhattanDist(start) > 3 && reach[cell(t)]
	})
	if err != nil {
		return err
	}
	dispenser, _ := m.Set(kiosk.X, kiosk.Y, tilemap.KioskDispenser)
	m.Set(kiosk.X, kiosk.Y-1, tilemap.KioskScreen)
	m.SetKiosk(dispenser)

	g.decorate(m, level, start, exit, dispenser)

	farFromStart := func(t tilemap.Tile) bool { return t.ManhattanDist(start) > 3 }
	cells := g.cfg.Game.CellsBase + level/5
	for i := 0; i < cells; i++ {
		t, err := g.placeOnFloor("place a data cell", 1, 1, w-2, h-2, farFromStart)
		if err != nil {
			return err
		}
		g.addItem(newTreasure(t.Pos()))
	}
	if exit.Locked && g.mode != ModeCompetitive {
		t, err := g.placeOnFloor("place the key", 1, 1, w-2, h-2, farFromStart)
		if err != nil {
			return err
		}
		g.addItem(newKey(t.Pos()))
	}
	if level%2 == 0 {
		if t, err := g.placeOnFloor("place boots", 1, 1, w-2, h-2, farFromStart); err == nil {
			g.addItem(newBootsPickup(t.Pos(), BootsKind(g.rng.Intn(2))))
		}
	}
	if level%4 == 0 {
		if t, err := g.placeOnFloor("place an upgrade", 1, 1, w-2, h-2, farFromStart); err == nil {
			g.addItem(newUpgradePickup(t.Pos(), 1+g.rng.Intn(2)))
		}
	}

	count := min(2*level, 15) + 5 + g.difficulty.ExtraMonsters(level-1)
	kinds := monsterKindsFor(level)
	for i := 0; i < count; i++ {
		t, err := g.placeOnFloor("place a monster", 1, 1, w-2, h-2, farFromStart)
		if err != nil {
			return err
		}
		g.Monsters = append(g.Monsters, g.newMonster(core.Choose(g.rng, kinds), t.Pos()))
	}

	g.spawnCompanions()
	return nil
}

// layPlatforms fills every third row with runs of wall or ledge separated
// by gaps at least two tiles wide.
func (g *Game) layPlatforms(m *tilemap.Map) {
	for y := m.H - 1 - platformSpacing; y >= platformSpacing; y -= platformSpacing {
		x := 1 + g.rng.Intn(3)
		for x < m.W-1 {
			run := min(core.RandomRange(g.rng, 3, 8), m.W-1-x)
			kind := tilemap.Wall
			if g.rng.Intn(4) == 0 {
				kind = tilemap.Ledge
			}
			m.FillRect(x, y, run, 1, kind)
			x += run + core.RandomRange(g.rng, 2, 3)
		}
	}
}

// decorate adds water, palms, traps and gun platforms. These are
// optional, so a failed placement is skipped. Candidates are drawn with
// IterRandom so that decorations of one kind never touch each other.
func (g *Game) decorate(m *tilemap.Map, level int, start, exit, kiosk tilemap.Tile) {
	away := func(t tilemap.Tile) bool { return t.ManhattanDist(start) > 3 }
	onGround := func(t tilemap.Tile) bool { return m.Below(t).Standable && away(t) }

	// Beaches flank every pool, so a beach neighbour means another pool.
	for i := range 2 {
		t, ok := first(m.IterRandom(g.rng, 1, m.H-2, m.W-2, 1, tilemap.Floor, tilemap.BeachLower, 0), onGround)
		if !ok {
			break
		}
		kind := tilemap.WaterShallow
		if i == 1 {
			kind = tilemap.WaterDeep
		}
		m.Set(t.X, t.Y, kind)
		for _, side := range []tilemap.Tile{m.LeftOf(t), m.RightOf(t)} {
			if side.Kind == tilemap.Floor {
				m.Set(side.X, side.Y, tilemap.BeachLower)
				if m.Above(side).Kind == tilemap.Floor {
					m.Set(side.X, side.Y-1, tilemap.BeachUpper)
				}
			}
		}
	}

	if t, ok := first(m.IterRandom(g.rng, 1, 1, m.W-2, m.H-2, tilemap.Floor, tilemap.Palm, 0), onGround); ok {
		m.Set(t.X, t.Y, tilemap.Palm)
		if r := reachable(m, start); !r[cell(exit)] || !r[cell(kiosk)] {
			m.Set(t.X, t.Y, tilemap.Floor)
		}
	}

	platform := func(t tilemap.Tile) bool { return m.Above(t).Kind == tilemap.Floor && away(t) }
	inner := func(kind, neighbor tilemap.Kind) iter.Seq[tilemap.Tile] {
		return m.IterRandom(g.rng, 2, platformSpacing, m.W-4, m.H-2-platformSpacing, kind, neighbor, 0)
	}
	if level >= 2 {
		modes := []tilemap.TrapMode{tilemap.TrapCycling, tilemap.TrapContact, tilemap.TrapStatic}
		n := min(level/2, 6)
		for t := range inner(tilemap.Wall, tilemap.TrapBlock) {
			if n == 0 {
				break
			}
			if !platform(t) {
				continue
			}
			m.Put(tilemap.NewTrap(t.X, t.Y, core.Choose(g.rng, modes)))
			n--
		}
	}
	if level >= 5 {
		if t, ok := first(inner(tilemap.Wall, tilemap.TrapBlock), platform); ok {
			m.Set(t.X, t.Y, tilemap.GunPlatformJunction)
		}
	}
}

// first returns the first tile of seq accepted by ok.
func first(seq iter.Seq[tilemap.Tile], ok func(tilemap.Tile) bool) (tilemap.Tile, bool) {
	for t := range seq {
		if ok(t) {
			return t, true
		}
	}
	return tilemap.Tile{}, false
}

func cell(t tilemap.Tile) [2]int { return [2]int{t.X, t.Y} }

// reachable returns the cells connected to from through passable tiles.
func reachable(m *tilemap.Map, from tilemap.Tile) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for _, t := range m.Connected(from) {
		out[cell(t)] = true
	}
	return out
}

// placeOnFloor picks a random floor tile in the rectangle (x0,y0)-(x1,y1)
// that has standable ground below and satisfies ok.
func (g *Game) placeOnFloor(desc string, x0, y0, x1, y1 int, ok func(tilemap.Tile) bool) (tilemap.Tile, error) {
	var found tilemap.Tile
	err := core.TryTo(desc, func() bool {
		t := g.Tiles.At(core.RandomRange(g.rng, x0, x1), core.RandomRange(g.rng, y0, y1))
		if t.Kind != tilemap.Floor || !g.Tiles.Below(t).Standable || !ok(t) {
			return false
		}
		found = t
		return true
	})
	if err != nil {
		return found, fmt.Errorf("escape: %w", err)
	}
	return found, nil
}

// monsterKindsFor returns the monster kinds that appear on a level.
func monsterKindsFor(level int) []MonsterKind {
	kinds := []MonsterKind{MonsterJelly, MonsterCrawler, MonsterCrawler}
	if level >= 3 {
		kinds = append(kinds, MonsterHunter)
	}
	if level >= 5 {
		kinds = append(kinds, MonsterCrabby)
	}
	if level >= 7 {
		kinds = append(kinds, MonsterOarstrong)
	}
	return kinds
}

func (g *Game) newMonster(kind MonsterKind, pos core.Vec2) *Monster {
	speed := g.difficulty.Speed(g.cfg.Monster.TopSpeed, g.level-1)
	return NewMonster(kind, pos, g.cfg.Monster, speed, g.rng)
}

// spawnMonster drops one monster a few tiles away from the first living
// player. A failed placement is skipped.
func (g *Game) spawnMonster() {
	ref := g.firstLiving()
	if ref == nil {
		return
	}
	rt := g.closestTile(&ref.Entity)
	t, err := g.placeOnFloor("spawn a monster", 1, 1, g.Tiles.W-2, g.Tiles.H-2, func(t tilemap.Tile) bool {
		d := t.ManhattanDist(rt)
		return d > 3 && d < 16
	})
	if err != nil {
		g.logger.Debug("monster spawn skipped", "err", err)
		return
	}
	g.Monsters = append(g.Monsters, g.newMonster(core.Choose(g.rng, monsterKindsFor(g.level)), t.Pos()))
}
