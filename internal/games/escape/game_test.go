package escape

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-escape/internal/config"
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

var testRuntime = core.RuntimeConfig{
	ScreenW:  80,
	ScreenH:  24,
	TickRate: 60,
	Seed:     12345,
}

func frame(actions ...core.Action) core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	in.SetPlayer(core.Player1, core.NewInputFrame(actions...))
	return in
}

// startedGame returns a game of the given mode already past the title.
func startedGame(t *testing.T, g *Game) *Game {
	t.Helper()
	g.ResetWith(testRuntime, config.DefaultEscapeConfig())
	g.Step(frame(core.ActionDash), 15)
	g.Step(frame(), 15)
	if g.Phase() != PhaseRunning {
		t.Fatalf("Phase() = %q, expected %q", g.Phase(), PhaseRunning)
	}
	return g
}

func TestGameStart(t *testing.T) {
	g := startedGame(t, New())

	if g.Level() != 1 {
		t.Errorf("Level() = %d, expected 1", g.Level())
	}
	if len(g.Players) != 1 {
		t.Fatalf("len(Players) = %d, expected 1", len(g.Players))
	}
	p := g.Players[0]
	if p.ID != core.Player1 {
		t.Errorf("player ID = %d, expected %d", p.ID, core.Player1)
	}
	if !p.Has(ItemFist) {
		t.Error("new player should carry a fist")
	}
	if g.Tiles.EndTile().Kind != tilemap.Exit {
		t.Errorf("EndTile().Kind = %v, expected exit", g.Tiles.EndTile().Kind)
	}
	if g.Tiles.KioskTile().Kind != tilemap.KioskDispenser {
		t.Errorf("KioskTile().Kind = %v, expected kiosk dispenser", g.Tiles.KioskTile().Kind)
	}
	if len(g.Monsters) == 0 {
		t.Error("level should start with monsters")
	}
}

func TestGameJoin(t *testing.T) {
	g := startedGame(t, New())

	in := core.NewMultiInputFrame()
	in.SetPlayer(core.Player2, core.NewInputFrame(core.ActionDash))
	g.Step(in, 15)

	if len(g.Players) != 2 {
		t.Fatalf("len(Players) = %d, expected 2", len(g.Players))
	}
	if g.Players[1].ID != core.Player2 {
		t.Errorf("joined player ID = %d, expected %d", g.Players[1].ID, core.Player2)
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.MultiInputFrame, 400)
	for i := range inputs {
		switch {
		case i == 0:
			inputs[i] = frame(core.ActionDash)
		case i%40 == 5:
			inputs[i] = frame(core.ActionRight, core.ActionDodge)
		case i%7 < 4:
			inputs[i] = frame(core.ActionRight)
		case i%11 == 0:
			inputs[i] = frame(core.ActionUse)
		default:
			inputs[i] = frame(core.ActionLeft)
		}
	}

	run := func() Snapshot {
		g := New()
		g.ResetWith(testRuntime, config.DefaultEscapeConfig())
		for _, in := range inputs {
			g.Step(in, 15)
		}
		return g.Snapshot()
	}

	snap1, snap2 := run(), run()
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Tick != snap2.Tick {
		t.Errorf("Determinism failed: tick counts differ. Run1=%d, Run2=%d", snap1.Tick, snap2.Tick)
	}
	if len(snap1.MonsterData) != len(snap2.MonsterData) {
		t.Errorf("Determinism failed: monster counts differ")
	}
}

func TestStepClampsFrame(t *testing.T) {
	g := startedGame(t, New())
	before := g.levelTimer.Elapsed

	g.Step(frame(), 500)
	if got := g.levelTimer.Elapsed - before; got != g.cfg.Game.MaxFrameMs {
		t.Errorf("long frame advanced %v ms, expected %v", got, g.cfg.Game.MaxFrameMs)
	}

	before = g.levelTimer.Elapsed
	g.Step(frame(), 0)
	if got := g.levelTimer.Elapsed - before; got != g.cfg.Game.DefaultFrameMs {
		t.Errorf("zero frame advanced %v ms, expected %v", got, g.cfg.Game.DefaultFrameMs)
	}
}

func TestFatalFall(t *testing.T) {
	g := startedGame(t, New())
	p := g.Players[0]
	p.Pos = core.V(5, float64(g.Tiles.H)+3.5)
	p.Vel = core.Vec2{}

	res := g.Step(frame(), 15)

	if !p.Dead {
		t.Fatal("player below the map should die")
	}
	if g.Phase() != PhaseDead {
		t.Errorf("Phase() = %q, expected %q", g.Phase(), PhaseDead)
	}
	if !res.RunEnded {
		t.Error("RunEnded = false, expected true when the last player dies")
	}
	if !res.State.GameOver {
		t.Error("State.GameOver = false, expected true")
	}
}

func TestFloorCollapse(t *testing.T) {
	g := startedGame(t, New())
	g.levelTimer.Elapsed = g.levelTimer.Duration - 1

	g.Step(frame(), 15)

	seen := map[[2]int]bool{}
	for _, it := range g.Items {
		b, ok := it.(*Boom)
		if !ok {
			continue
		}
		if b.Y != g.Tiles.H-1 {
			t.Errorf("boom at row %d, expected bottom row %d", b.Y, g.Tiles.H-1)
		}
		key := [2]int{b.X, b.Y}
		if seen[key] {
			t.Errorf("duplicate boom at %v", key)
		}
		seen[key] = true
	}
	if len(seen) != g.Tiles.W-2 {
		t.Errorf("booms = %d, expected %d", len(seen), g.Tiles.W-2)
	}

	// The level timer fires once; later frames add no more booms.
	g.Step(frame(), 15)
	count := 0
	for _, it := range g.Items {
		if _, ok := it.(*Boom); ok {
			count++
		}
	}
	if count != g.Tiles.W-2 {
		t.Errorf("booms after next frame = %d, expected %d", count, g.Tiles.W-2)
	}

	for range 100 {
		g.Step(frame(), 30)
	}
	for x := 1; x < g.Tiles.W-1; x++ {
		if k := g.Tiles.At(x, g.Tiles.H-1).Kind; k != tilemap.Floor {
			t.Errorf("bottom tile %d = %v, expected floor", x, k)
		}
	}
}

func TestLevelClear(t *testing.T) {
	g := startedGame(t, New())
	p := g.Players[0]
	p.Escaped = true

	g.Step(frame(), 15)

	if g.Level() != 2 {
		t.Errorf("Level() = %d, expected 2", g.Level())
	}
	if p.Escaped {
		t.Error("players should re-enter on the next level")
	}
	if p.Pos != g.Tiles.StartTile().Pos() {
		t.Errorf("player at %v, expected start %v", p.Pos, g.Tiles.StartTile().Pos())
	}
}

func TestFinalLevelWins(t *testing.T) {
	tests := []struct {
		name      string
		game      *Game
		wantEnded bool
	}{
		{"campaign", New(), true},
		{"sandbox", NewSandbox(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := startedGame(t, tt.game)
			g.level = g.cfg.Game.NumLevels
			g.Players[0].Escaped = true

			res := g.Step(frame(), 15)

			if g.Phase() != PhaseWon {
				t.Errorf("Phase() = %q, expected %q", g.Phase(), PhaseWon)
			}
			if !res.State.Won {
				t.Error("State.Won = false, expected true")
			}
			if res.RunEnded != tt.wantEnded {
				t.Errorf("RunEnded = %v, expected %v", res.RunEnded, tt.wantEnded)
			}
		})
	}
}

func TestPauseToggle(t *testing.T) {
	g := startedGame(t, New())

	g.Step(frame(core.ActionMenu), 15)
	if !g.State().Paused {
		t.Fatal("menu should pause")
	}
	tick := g.levelTimer.Elapsed
	g.Step(frame(), 15)
	if g.levelTimer.Elapsed != tick {
		t.Error("paused game should not advance the level timer")
	}
	g.Step(frame(core.ActionMenu), 15)
	if g.State().Paused {
		t.Error("second menu press should resume")
	}
}

func TestSweep(t *testing.T) {
	g := startedGame(t, New())
	g.Items = nil
	g.Monsters = nil

	live := newTreasure(core.V(2, 2))
	dead := newTreasure(core.V(3, 2))
	dead.Dead = true
	g.addItem(live)
	g.addItem(dead)

	m1 := g.newMonster(MonsterJelly, core.V(4, 2))
	m2 := g.newMonster(MonsterJelly, core.V(5, 2))
	m2.Dead = true
	g.Monsters = append(g.Monsters, m1, m2)

	g.sweep()

	if len(g.Items) != 1 || g.Items[0] != Item(live) {
		t.Errorf("Items after sweep = %d, expected only the live item", len(g.Items))
	}
	if len(g.Monsters) != 1 || g.Monsters[0] != m1 {
		t.Errorf("Monsters after sweep = %d, expected only the live monster", len(g.Monsters))
	}
}

func TestGrenadeExplosion(t *testing.T) {
	g, p := arena(t)
	lg := newLiveGrenade(g, p, core.Vec2{}, 2000, 1.5, 3)
	lg.player = nil
	g.addItem(lg)
	p.Pos = core.V(1, 6)

	near := g.newMonster(MonsterOarstrong, core.V(5, 6))
	far := g.newMonster(MonsterOarstrong, core.V(10, 6))
	g.Monsters = []*Monster{near, far}

	ticks := 0
	for !lg.Dead && ticks < 1000 {
		lg.Update(g, 15)
		ticks++
	}
	if ticks != 134 {
		t.Errorf("ticks to explode = %d, expected 134", ticks)
	}
	if lg.timer.Elapsed < lg.timer.Duration {
		t.Errorf("Elapsed = %v, expected at least %v", lg.timer.Elapsed, lg.timer.Duration)
	}
	if n := countEvents(g, "boom"); n != 1 {
		t.Errorf("boom cues = %d, expected 1", n)
	}

	want := 0
	for range g.Tiles.IterRange(g.closestTile(&lg.Entity).Pos(), lg.Radius) {
		want++
	}
	seen := map[[2]int]bool{}
	for _, it := range g.Items {
		b, ok := it.(*Boom)
		if !ok {
			continue
		}
		key := [2]int{b.X, b.Y}
		if seen[key] {
			t.Errorf("duplicate boom at %v", key)
		}
		seen[key] = true
	}
	if len(seen) != want || want == 0 {
		t.Errorf("booms = %d, expected %d", len(seen), want)
	}

	if near.HP >= near.MaxHP {
		t.Errorf("HP inside the radius = %v, expected below %v", near.HP, near.MaxHP)
	}
	if near.Vel == (core.Vec2{}) {
		t.Error("monster inside the radius was not knocked back")
	}
	if !near.Stunned() {
		t.Error("monster inside the radius was not stunned")
	}
	if far.HP != far.MaxHP || far.Vel != (core.Vec2{}) {
		t.Errorf("monster outside the radius: HP %v, Vel %v; expected untouched", far.HP, far.Vel)
	}
	if p.HP != 3 {
		t.Errorf("thrower HP = %v, expected 3", p.HP)
	}
}

func TestKioskPurchase(t *testing.T) {
	g := startedGame(t, New())
	p := g.Players[0]
	pad := p.Controls()
	k := NewKiosk(g, 2)

	if len(k.Items) != 3 {
		t.Fatalf("len(Items) = %d, expected 3", len(k.Items))
	}
	if !k.Items[2].Health {
		t.Error("last kiosk pickup should be health")
	}

	pad.Load(core.NewInputFrame(core.ActionDown))
	k.Interact(g, p, core.ActionDown)
	pad.Snapshot()
	if k.Active != 0 {
		t.Fatalf("Active = %d, expected 0", k.Active)
	}

	// Holding down does not browse again.
	k.Interact(g, p, core.ActionDown)
	if k.Active != 0 {
		t.Errorf("held down moved Active to %d", k.Active)
	}

	want := k.Items[0].Item
	pad.Load(core.NewInputFrame(core.ActionUp))
	k.Interact(g, p, core.ActionUp)
	pad.Snapshot()

	if !p.Has(want) {
		t.Errorf("player missing %v after purchase", want)
	}
	if !k.Used(p) {
		t.Error("Used() = false, expected true after purchase")
	}

	pad.Load(core.NewInputFrame(core.ActionDown))
	k.Interact(g, p, core.ActionDown)
	if k.Active != -1 {
		t.Errorf("kiosk browsable after purchase, Active = %d", k.Active)
	}
}

func TestKioskHealth(t *testing.T) {
	g := startedGame(t, New())
	p := g.Players[0]
	p.HP = 1
	maxHP := p.MaxHP

	KioskPickup{Health: true}.Activate(g, p)

	if p.MaxHP != maxHP+1 {
		t.Errorf("MaxHP = %v, expected %v", p.MaxHP, maxHP+1)
	}
	if p.HP != p.MaxHP {
		t.Errorf("HP = %v, expected %v", p.HP, p.MaxHP)
	}
}

func TestSandboxEquipsEverything(t *testing.T) {
	g := startedGame(t, NewSandbox())
	p := g.Players[0]
	for _, k := range AllItemKinds() {
		if !p.Has(k) {
			t.Errorf("sandbox player missing %v", k)
		}
	}
}

func TestRenderDoesNotPanic(t *testing.T) {
	g := New()
	g.ResetWith(testRuntime, config.DefaultEscapeConfig())
	scr := core.NewScreen(80, 24)

	g.Render(scr)
	g.Step(frame(core.ActionDash), 15)
	for range 30 {
		g.Step(frame(core.ActionRight), 15)
		g.Render(scr)
	}
	if !strings.Contains(scr.Row(0), "Level 1/") {
		t.Errorf("HUD row = %q, expected the level counter", scr.Row(0))
	}
}

func TestHUDInventory(t *testing.T) {
	g := startedGame(t, New())
	p := g.Players[0]
	s := p.Equip(ItemPowerSaber).(*PowerSaber)
	p.Inventory.Select(ItemPowerSaber)
	s.charge = 500

	scr := core.NewScreen(80, 24)
	g.Render(scr)

	row := scr.Row(23)
	if !strings.Contains(row, "f/:50") {
		t.Errorf("HUD row = %q, expected the item icons and a 50%% charge", row)
	}
	if s.HUDY != 23 || scr.Get(s.HUDX, s.HUDY) != '/' {
		t.Errorf("saber icon at (%d,%d) = %q, expected '/'", s.HUDX, s.HUDY, scr.Get(s.HUDX, s.HUDY))
	}
}

func TestRegistered(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{"campaign", "Escape"},
		{"competitive", "Escape: Competitive"},
		{"sandbox", "Escape: Sandbox"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			var g *Game
			switch tt.id {
			case "campaign":
				g = New()
			case "competitive":
				g = NewCompetitive()
			default:
				g = NewSandbox()
			}
			if g.ID() != tt.id {
				t.Errorf("ID() = %q, expected %q", g.ID(), tt.id)
			}
			if g.Title() != tt.title {
				t.Errorf("Title() = %q, expected %q", g.Title(), tt.title)
			}
		})
	}
}
