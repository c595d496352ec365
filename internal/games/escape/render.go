package escape

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// Each tile is drawn two cells wide so the map keeps a square aspect.
const cellW = 2

// Screen rows reserved above and below the map.
const (
	hudTop    = 1
	hudBottom = 1
)

// playerColors is indexed by Player.Sprite.
var playerColors = []core.Color{
	core.ColorBrightGreen,
	core.ColorBrightBlue,
	core.ColorBrightMagenta,
	core.ColorOrange,
	core.ColorBrightWhite,
}

func playerColor(id core.PlayerID) core.Color {
	return playerColors[(int(id)-1+len(playerColors))%len(playerColors)]
}

type screenLayout struct {
	w, h         int
	viewW, viewH int
	offX, offY   int
}

// layout sizes the viewport from the runtime screen. A configured view
// size wins over the derived one.
func (g *Game) layout() {
	w, h := g.runtime.ScreenW, g.runtime.ScreenH
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	vw := max(1, w/cellW)
	vh := max(1, h-hudTop-hudBottom)
	if g.cfg.Game.ViewW > 0 {
		vw = g.cfg.Game.ViewW
	}
	if g.cfg.Game.ViewH > 0 {
		vh = g.cfg.Game.ViewH
	}
	vw = min(vw, g.cfg.Game.DimW)
	vh = min(vh, g.cfg.Game.DimH)
	g.screen = screenLayout{
		w: w, h: h,
		viewW: vw, viewH: vh,
		offX: max(0, (w-vw*cellW)/2),
		offY: hudTop,
	}
}

type tileGlyph struct {
	text  string
	color core.Color
}

var tileGlyphs = map[tilemap.Kind]tileGlyph{
	tilemap.Floor:               {"  ", core.ColorDefault},
	tilemap.Wall:                {"██", core.ColorGray},
	tilemap.Ledge:               {"▔▔", core.ColorSand},
	tilemap.WaterShallow:        {"~~", core.ColorCyan},
	tilemap.WaterDeep:           {"≈≈", core.ColorBlue},
	tilemap.BeachLower:          {"▄▄", core.ColorSand},
	tilemap.BeachUpper:          {"..", core.ColorSand},
	tilemap.Entrance:            {"[]", core.ColorGreen},
	tilemap.Exit:                {"[]", core.ColorBrightYellow},
	tilemap.KioskScreen:         {"▣▣", core.ColorBrightCyan},
	tilemap.KioskDispenser:      {"╤╤", core.ColorCyan},
	tilemap.TrapBlock:           {"▓▓", core.ColorRed},
	tilemap.GunPlatformJunction: {"╬╬", core.ColorOrange},
	tilemap.Palm:                {"¥¥", core.ColorDarkGreen},
}

func tileLook(t tilemap.Tile) tileGlyph {
	look, ok := tileGlyphs[t.Kind]
	if !ok {
		return tileGlyph{"??", core.ColorRed}
	}
	switch {
	case t.Kind == tilemap.Exit && t.Locked:
		look.text, look.color = "##", core.ColorYellow
	case t.Kind == tilemap.Wall && t.HP < 50:
		look.text = "▓▓"
	}
	return look
}

var monsterGlyphs = map[MonsterKind]rune{
	MonsterJelly:     'j',
	MonsterCrawler:   'c',
	MonsterHunter:    'h',
	MonsterOarstrong: 'O',
	MonsterCrabby:    'C',
	MonsterFlakBomb:  'F',
}

var playerGlyphs = map[PlayerState]rune{
	StateStand: '@',
	StateWalk:  '@',
	StateStun:  '&',
	StateDash:  '>',
	StateDodge: '^',
	StateDead:  'x',
}

// Render draws the current frame to dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.runtime.ScreenW != dst.Width() || g.runtime.ScreenH != dst.Height() {
		g.runtime.ScreenW, g.runtime.ScreenH = dst.Width(), dst.Height()
		g.layout()
		if g.Camera != nil {
			g.Camera.ViewW, g.Camera.ViewH = g.screen.viewW, g.screen.viewH
		}
	}

	switch g.phase {
	case PhaseTitle:
		g.renderTitle(dst)
		return
	case PhaseScores:
		g.renderScores(dst)
		return
	}

	g.renderTiles(dst)
	g.renderItems(dst)
	g.renderMonsters(dst)
	g.renderPlayers(dst)
	g.renderHUD(dst)
	g.renderOverlay(dst)
}

// toScreen maps a world position to a screen cell. ok is false off view.
func (g *Game) toScreen(pos core.Vec2) (int, int, bool) {
	ox, oy := g.Camera.Origin()
	tx := int(math.Floor(pos.X)) - ox
	ty := int(math.Floor(pos.Y)) - oy
	if tx < 0 || ty < 0 || tx >= g.screen.viewW || ty >= g.screen.viewH {
		return 0, 0, false
	}
	sx := g.screen.offX + tx*cellW
	if pos.X-math.Floor(pos.X) >= 0.5 {
		sx++
	}
	return sx, g.screen.offY + ty, true
}

func (g *Game) renderTiles(dst *core.Screen) {
	ox, oy := g.Camera.Origin()
	for vy := range g.screen.viewH {
		for vx := range g.screen.viewW {
			t := g.Tiles.At(ox+vx, oy+vy)
			if t.IsVoid() {
				continue
			}
			look := tileLook(t)
			dst.DrawTextColor(g.screen.offX+vx*cellW, g.screen.offY+vy, look.text, look.color)
		}
	}
}

func (g *Game) renderItems(dst *core.Screen) {
	for _, it := range g.Items {
		r, c := it.Glyph()
		if r == 0 {
			continue
		}
		if x, y, ok := g.toScreen(it.Base().Center()); ok {
			dst.SetColor(x, y, r, c)
		}
	}
}

func (g *Game) renderMonsters(dst *core.Screen) {
	for _, m := range g.Monsters {
		r := monsterGlyphs[m.Kind]
		c := core.ColorRed
		switch {
		case m.Dying:
			r, c = '*', core.ColorGray
		case m.Flashing():
			c = core.ColorBrightWhite
		case m.Stunned():
			c = core.ColorYellow
		case m.Stance == StanceTargeting:
			c = core.ColorBrightRed
		}
		if x, y, ok := g.toScreen(m.Center()); ok {
			dst.SetColor(x, y, r, c)
		}
	}
}

func (g *Game) renderPlayers(dst *core.Screen) {
	for _, p := range g.Players {
		if p.Dead || p.Escaped {
			continue
		}
		c := playerColors[p.Sprite%len(playerColors)]
		if p.Flashing() {
			c = core.ColorBrightRed
		}
		if x, y, ok := g.toScreen(p.Center()); ok {
			dst.SetColor(x, y, playerGlyphs[p.State], c)
		}
	}
}

// renderHUD draws level, timer and score on the top row and each
// player's health, resources and active item on the bottom row.
func (g *Game) renderHUD(dst *core.Screen) {
	left := fmt.Sprintf("Level %d/%d", g.level, g.cfg.Game.NumLevels)
	dst.DrawTextColor(1, 0, left, core.ColorBrightWhite)

	secs := int(math.Ceil(g.levelTimer.Remaining() / 1000))
	timer := fmt.Sprintf("%d:%02d", secs/60, secs%60)
	c := core.ColorWhite
	if secs <= 10 {
		c = core.ColorBrightRed
	}
	dst.DrawTextCentered(0, timer, c)

	score := fmt.Sprintf("Score %d", g.Score())
	dst.DrawTextColor(dst.Width()-len(score)-1, 0, score, core.ColorBrightYellow)

	x := 1
	y := dst.Height() - 1
	for _, p := range g.Players {
		text := g.playerStatus(p)
		dst.DrawTextColor(x, y, text, playerColors[p.Sprite%len(playerColors)])
		x += len([]rune(text)) + 1
		if !p.Dead && !p.Escaped {
			x = g.renderInventory(dst, p, x, y)
		}
		x++
	}
	if k := g.Kiosk; k != nil {
		if pick, ok := k.Browsing(); ok {
			label := "kiosk: " + pick.Name()
			dst.DrawTextColor(dst.Width()-len(label)-1, y, label, core.ColorBrightCyan)
		}
	}
}

func (g *Game) playerStatus(p *Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "P%d ", p.ID)
	switch {
	case p.Dead:
		b.WriteString("dead")
		return b.String()
	case p.Escaped:
		b.WriteString("out")
		return b.String()
	}
	hp := int(math.Ceil(p.HP))
	b.WriteString(strings.Repeat("♥", max(0, hp)))
	have := p.Resources.Have
	fmt.Fprintf(&b, " e%d a%d b%d", int(have.Energy), int(have.Alloy), int(have.Biotic))
	if s, ok := p.Item(ItemShield).(*Shield); ok {
		fmt.Fprintf(&b, " sh%d", int(s.Charge))
	}
	if g.mode == ModeCompetitive {
		fmt.Fprintf(&b, " %.1f", p.Score)
	}
	return b.String()
}

// itemGlyphs are the one-cell HUD icons of active items.
var itemGlyphs = [...]rune{
	ItemFist:           'f',
	ItemGun:            'g',
	ItemGrenade:        'o',
	ItemWrench:         'w',
	ItemJetPack:        'j',
	ItemGrappleGun:     'h',
	ItemRocketLauncher: 'r',
	ItemRifle:          'i',
	ItemShotgun:        's',
	ItemPowerSaber:     '/',
	ItemDrone:          'd',
	ItemShield:         'S',
	ItemGlider:         'G',
}

// renderInventory draws p's items as icons from (x, y), the selected one
// highlighted and followed by its readout. It returns the next free column.
func (g *Game) renderInventory(dst *core.Screen, p *Player, x, y int) int {
	p.Inventory.SetPositions(x, y, 1)
	for _, it := range p.Inventory.Items() {
		s := it.slot()
		c := core.ColorGray
		if it.Selected() {
			c = core.ColorBrightYellow
		}
		dst.SetColor(s.HUDX, s.HUDY, itemGlyphs[it.Kind()], c)
	}
	x += p.Inventory.Len()
	if it := p.Inventory.Active(); it != nil {
		if v, ok := it.Value(p); ok {
			label := fmt.Sprintf(":%d", int(v))
			dst.DrawTextColor(x, y, label, core.ColorBrightYellow)
			x += len(label)
		}
	}
	return x
}

func (g *Game) renderTitle(dst *core.Screen) {
	mid := dst.Height() / 2
	dst.DrawTextCentered(mid-3, strings.ToUpper(g.Title()), core.ColorBrightGreen)
	dst.DrawTextCentered(mid-1, "Reach the exit before the floor falls away", core.ColorWhite)
	dst.DrawTextCentered(mid+1, "Press DASH or USE to start", core.ColorBrightYellow)
	dst.DrawTextCentered(mid+2, "Other players press DASH to join", core.ColorGray)
}

func (g *Game) renderScores(dst *core.Screen) {
	mid := dst.Height() / 2
	dst.DrawTextCentered(mid-2, "RUN OVER", core.ColorBrightRed)
	dst.DrawTextCentered(mid, fmt.Sprintf("Score %d  Level %d", g.Score(), g.level), core.ColorBrightYellow)
	dst.DrawTextCentered(mid+2, "Press DASH to play again", core.ColorWhite)
}

func (g *Game) renderOverlay(dst *core.Screen) {
	mid := dst.Height() / 2
	switch g.phase {
	case PhasePaused:
		dst.DrawTextCentered(mid, " PAUSED ", core.ColorBrightWhite)
	case PhaseDead:
		dst.DrawTextCentered(mid, " GAME OVER ", core.ColorBrightRed)
		dst.DrawTextCentered(mid+1, " Press DASH ", core.ColorWhite)
	case PhaseWon:
		dst.DrawTextCentered(mid, " ESCAPED! ", core.ColorBrightGreen)
		dst.DrawTextCentered(mid+1, fmt.Sprintf(" Score %d ", g.Score()), core.ColorBrightYellow)
	}
}
