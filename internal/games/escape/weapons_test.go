package escape

import (
	"testing"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// useItem runs one 15ms item update with actions held.
func useItem(g *Game, p *Player, it InventoryItem, actions ...core.Action) {
	p.Controls().Load(core.NewInputFrame(actions...))
	it.Update(g, 15, p)
	p.Controls().Snapshot()
}

func countItems[T Item](g *Game) int {
	n := 0
	for _, it := range g.Items {
		if _, ok := it.(T); ok {
			n++
		}
	}
	return n
}

func TestGunCooldown(t *testing.T) {
	g, p := arena(t)
	gun := p.Equip(ItemGun).(*Gun)

	useItem(g, p, gun, core.ActionUse)
	if n := countItems[*Shot](g); n != 1 {
		t.Fatalf("shots after first use = %d, expected 1", n)
	}
	if countEvents(g, "gunReload") != 1 {
		t.Errorf("reload cues = %d, expected 1", countEvents(g, "gunReload"))
	}
	if gun.loaded {
		t.Error("gun still loaded after firing")
	}
	if v, _ := gun.Value(p); v != 9 {
		t.Errorf("Value() = %v, expected 9", v)
	}

	// 1000ms reload is reached on the 67th 15ms frame.
	for range 66 {
		useItem(g, p, gun, core.ActionUse)
	}
	if n := countItems[*Shot](g); n != 1 {
		t.Errorf("shots inside reload = %d, expected 1", n)
	}
	useItem(g, p, gun, core.ActionUse)
	if n := countItems[*Shot](g); n != 2 {
		t.Errorf("shots after reload = %d, expected 2", n)
	}
	if p.Resources.Have.Energy != 8 {
		t.Errorf("Energy = %v, expected 8", p.Resources.Have.Energy)
	}
}

func TestGunEmpty(t *testing.T) {
	g, p := arena(t)
	gun := p.Equip(ItemGun).(*Gun)
	p.Resources.Have.Energy = 0

	for range 3 {
		useItem(g, p, gun, core.ActionUse)
	}
	if n := countItems[*Shot](g); n != 0 {
		t.Errorf("shots without energy = %d, expected 0", n)
	}
	if !gun.loaded {
		t.Error("empty gun should stay loaded")
	}
	if n := countEvents(g, "gunReload"); n != 1 {
		t.Errorf("reload cues = %d, expected 1", n)
	}
	if v, _ := gun.Value(p); v != 0 {
		t.Errorf("Value() = %v, expected 0", v)
	}
}

func TestGrenadeThrow(t *testing.T) {
	g, p := arena(t)
	gr := p.Equip(ItemGrenade).(*Grenade)

	if v, _ := gr.Value(p); v != 1 {
		t.Errorf("Value() = %v, expected 1", v)
	}
	useItem(g, p, gr, core.ActionUse)
	useItem(g, p, gr)
	useItem(g, p, gr, core.ActionUse)

	if n := countItems[*LiveGrenade](g); n != 1 {
		t.Errorf("grenades = %d, expected 1", n)
	}
	want := Resources{Energy: 9}
	if p.Resources.Have != want {
		t.Errorf("Have = %+v, expected %+v", p.Resources.Have, want)
	}
	if v, _ := gr.Value(p); v != 0 {
		t.Errorf("Value() after throw = %v, expected 0", v)
	}
}

func TestWrench(t *testing.T) {
	tests := []struct {
		name       string
		right      tilemap.Kind
		wantBooms  int
		wantEnergy float64
	}{
		{"rigs a wall", tilemap.Wall, 1, 8},
		{"ignores floor", tilemap.Floor, 0, 10},
		{"ignores the exit", tilemap.Exit, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := arena(t)
			g.Tiles.Set(6, 6, tt.right)
			w := p.Equip(ItemWrench).(*Wrench)

			useItem(g, p, w, core.ActionUse)
			if n := countItems[*Boom](g); n != tt.wantBooms {
				t.Errorf("booms = %d, expected %d", n, tt.wantBooms)
			}
			if p.Resources.Have.Energy != tt.wantEnergy {
				t.Errorf("Energy = %v, expected %v", p.Resources.Have.Energy, tt.wantEnergy)
			}
		})
	}
}

func TestWrenchCooldown(t *testing.T) {
	g, p := arena(t)
	g.Tiles.Set(6, 6, tilemap.Wall)
	w := p.Equip(ItemWrench).(*Wrench)

	useItem(g, p, w, core.ActionUse)
	useItem(g, p, w)
	useItem(g, p, w, core.ActionUse)
	if n := countItems[*Boom](g); n != 1 {
		t.Errorf("booms inside cooldown = %d, expected 1", n)
	}
}

func TestPowerSaber(t *testing.T) {
	tests := []struct {
		name       string
		held       int
		wantValue  float64
		wantDamage float64
		wantEnergy float64
	}{
		{"tap", 1, 1, 1, 10},
		{"half charge", 34, 51, 1, 10},
		{"full charge", 67, 100, 2, 8},
		{"overcharge", 100, 100, 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := arena(t)
			s := p.Equip(ItemPowerSaber).(*PowerSaber)

			for range tt.held {
				useItem(g, p, s, core.ActionUse)
			}
			if v, _ := s.Value(p); v != tt.wantValue {
				t.Errorf("Value() = %v, expected %v", v, tt.wantValue)
			}

			useItem(g, p, s)
			var strike *SaberStrike
			for _, it := range g.Items {
				if st, ok := it.(*SaberStrike); ok {
					strike = st
				}
			}
			if strike == nil {
				t.Fatal("release did not strike")
			}
			if strike.Damage != tt.wantDamage {
				t.Errorf("Damage = %v, expected %v", strike.Damage, tt.wantDamage)
			}
			if p.Resources.Have.Energy != tt.wantEnergy {
				t.Errorf("Energy = %v, expected %v", p.Resources.Have.Energy, tt.wantEnergy)
			}
			if v, _ := s.Value(p); v != 0 {
				t.Errorf("Value() after release = %v, expected 0", v)
			}
		})
	}
}

func TestDroneValue(t *testing.T) {
	g, p := arena(t)
	d := p.Equip(ItemDrone).(*Drone)

	if v, _ := d.Value(p); v != 0 {
		t.Errorf("Value() when built = %v, expected 0", v)
	}
	d.landed(p)
	if v, _ := d.Value(p); v != 5 {
		t.Errorf("Value() after landing = %v, expected 5", v)
	}
	for range 67 {
		useItem(g, p, d)
	}
	if v, _ := d.Value(p); !approx(v, 3.995) {
		t.Errorf("Value() after 1005ms = %v, expected 3.995", v)
	}
}

func TestItemUpgrades(t *testing.T) {
	tests := []struct {
		kind ItemKind
		tier int
		get  func(InventoryItem) float64
		want float64
	}{
		{ItemGun, 1, func(it InventoryItem) float64 { return it.(*Gun).Reload }, 500},
		{ItemGun, 2, func(it InventoryItem) float64 { return it.(*Gun).Damage }, 2},
		{ItemGrenade, 1, func(it InventoryItem) float64 { return it.(*Grenade).Radius }, 2.5},
		{ItemWrench, 1, func(it InventoryItem) float64 { return it.(*Wrench).BoomTime }, 1000},
		{ItemPowerSaber, 1, func(it InventoryItem) float64 { return it.(*PowerSaber).ChargeTime }, 900},
		{ItemDrone, 2, func(it InventoryItem) float64 { return it.(*Drone).FlightTime }, 6000},
		{ItemShield, 1, func(it InventoryItem) float64 { return it.(*Shield).MaxCharge }, 2},
		{ItemGlider, 1, func(it InventoryItem) float64 { return it.(*Glider).ArrestRate }, 2},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			it := testPlayer().Equip(tt.kind)
			it.Upgrade(tt.tier)
			if got := tt.get(it); !approx(got, tt.want) {
				t.Errorf("after Upgrade(%d) = %v, expected %v", tt.tier, got, tt.want)
			}
		})
	}
}

func TestUpgradePickup(t *testing.T) {
	tests := []struct {
		name   string
		equip  []ItemKind
		active ItemKind
		check  func(p *Player) bool
	}{
		{"upgrades the active gun", []ItemKind{ItemGun}, ItemGun, func(p *Player) bool {
			return p.Item(ItemGun).(*Gun).Reload == 500
		}},
		{"fist passes the upgrade on", []ItemKind{ItemGun}, ItemFist, func(p *Player) bool {
			return p.Item(ItemGun).(*Gun).Reload == 500 && p.Item(ItemFist).(*Fist).HitPower == 1
		}},
		{"fist alone takes it", nil, ItemFist, func(p *Player) bool {
			return approx(p.Item(ItemFist).(*Fist).HitPower, 1.2)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := arena(t)
			for _, k := range tt.equip {
				p.Equip(k)
			}
			p.Inventory.Select(tt.active)
			u := newUpgradePickup(p.Pos, 1)

			u.Touch(g, p)
			if !u.Dead {
				t.Error("pickup not consumed")
			}
			if !tt.check(p) {
				t.Error("upgrade landed on the wrong item")
			}
		})
	}
}
