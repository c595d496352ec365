package escape

import (
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// interactTile runs the context action of t for a held up or down.
func (g *Game) interactTile(p *Player, t tilemap.Tile, a core.Action) {
	switch t.Kind {
	case tilemap.Exit:
		if a != core.ActionUp || t.Locked || p.Escaped {
			return
		}
		p.Escaped = true
		p.releaseActive(g)
		if g.mode == ModeCompetitive {
			p.Score += 2
		}
		g.play("exitLevel")
		g.logger.Info("player escaped", "player", p.ID, "level", g.level)
	case tilemap.Entrance:
		if a == core.ActionUp && g.level == 1 && p.pad.Pressed(core.ActionUp) {
			p.Sprite = (p.Sprite + 1) % len(playerColors)
		}
	case tilemap.KioskDispenser:
		if g.Kiosk != nil {
			g.Kiosk.Interact(g, p, a)
		}
	}
}

// hitTile damages a tile. Walls and palms worn to zero hit points are
// cleared to floor; blades cut palms quickly.
func (g *Game) hitTile(t tilemap.Tile, src core.Vec2, damage float64, kind string) {
	if t.IsVoid() {
		return
	}
	switch t.Kind {
	case tilemap.Wall, tilemap.Palm:
	default:
		return
	}
	if kind == "cut" && t.Kind == tilemap.Palm {
		damage *= 20
	}
	hp := t.HP - damage
	if hp > 0 {
		g.Tiles.Update(t.X, t.Y, func(c *tilemap.Tile) { c.HP = hp })
		return
	}
	g.Tiles.Replace(t, tilemap.Floor)
	g.play("crumble")
	g.logger.Debug("tile destroyed", "kind", t.Kind, "x", t.X, "y", t.Y, "from", src)
}

// spawnCompanions creates the entities owned by tiles: blades on trap
// blocks and turrets on gun platforms.
func (g *Game) spawnCompanions() {
	for t := range g.Tiles.IterAll() {
		switch t.Kind {
		case tilemap.TrapBlock:
			if g.Tiles.Above(t).Passable {
				g.addItem(newTrapBlade(t))
			}
		case tilemap.GunPlatformJunction:
			above := g.Tiles.Above(t)
			if above.Passable && !above.IsVoid() {
				g.Monsters = append(g.Monsters, g.newMonster(MonsterFlakBomb, above.Pos()))
			}
		}
	}
}
