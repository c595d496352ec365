package escape

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/vovakirdan/tui-escape/internal/config"
	"github.com/vovakirdan/tui-escape/internal/core"
)

func testPlayer() *Player {
	pad := core.NewControls()
	return NewPlayer(core.Player1, &pad, config.DefaultEscapeConfig())
}

func selectedCount(inv *ActiveInventory) int {
	n := 0
	for _, it := range inv.Items() {
		if it.Selected() {
			n++
		}
	}
	return n
}

func TestActiveInventorySelection(t *testing.T) {
	p := testPlayer()
	inv := &p.Inventory

	if inv.Active() == nil || inv.Active().Kind() != ItemFist {
		t.Fatalf("Active() = %v, expected fist", inv.Active())
	}

	p.Equip(ItemGun)
	p.Equip(ItemGrenade)
	if got := inv.Active().Kind(); got != ItemFist {
		t.Errorf("Active() after equip = %v, expected fist", got)
	}
	if n := selectedCount(inv); n != 1 {
		t.Errorf("selected items = %d, expected 1", n)
	}

	inv.Next()
	if got := inv.Active().Kind(); got != ItemGun {
		t.Errorf("Active() after Next = %v, expected gun", got)
	}
	inv.Next()
	inv.Next()
	if got := inv.Active().Kind(); got != ItemFist {
		t.Errorf("Active() after wrap = %v, expected fist", got)
	}

	inv.Select(ItemGrenade)
	inv.Remove(ItemGrenade)
	if inv.Active() == nil {
		t.Fatal("removing the selected item left nothing selected")
	}
	if n := selectedCount(inv); n != 1 {
		t.Errorf("selected items after remove = %d, expected 1", n)
	}
}

func TestInventoryGetIsIdempotent(t *testing.T) {
	p := testPlayer()
	a := p.Equip(ItemGun)
	b := p.Equip(ItemGun)
	if a != b {
		t.Error("Equip twice should return the same item")
	}
	if p.Inventory.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", p.Inventory.Len())
	}
}

func TestPassiveInventory(t *testing.T) {
	p := testPlayer()
	p.Equip(ItemShield)

	if !p.Passive.Contains(ItemShield) {
		t.Error("shield should go to the passive inventory")
	}
	if p.Inventory.Contains(ItemShield) {
		t.Error("shield should not be selectable")
	}
	if len(p.hitModifiers) != 1 {
		t.Errorf("hit modifiers = %d, expected 1", len(p.hitModifiers))
	}

	p.Passive.Remove(ItemShield)
	if len(p.hitModifiers) != 0 || len(p.updateHooks) != 0 {
		t.Error("removing the shield should drop its hooks")
	}
}

func TestResourcePool(t *testing.T) {
	tests := []struct {
		name     string
		have     Resources
		cost     Resources
		wantUse  bool
		wantMax  float64
		wantLeft Resources
	}{
		{
			name:     "affordable",
			have:     Resources{Energy: 10, Alloy: 2},
			cost:     Resources{Energy: 3, Alloy: 1},
			wantUse:  true,
			wantMax:  2,
			wantLeft: Resources{Energy: 7, Alloy: 1},
		},
		{
			name:     "short on one component",
			have:     Resources{Energy: 10, Alloy: 0},
			cost:     Resources{Energy: 1, Alloy: 1},
			wantUse:  false,
			wantMax:  0,
			wantLeft: Resources{Energy: 10},
		},
		{
			name:     "free",
			have:     Resources{Energy: 1},
			cost:     Resources{},
			wantUse:  true,
			wantMax:  math.Inf(1),
			wantLeft: Resources{Energy: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := ResourcePool{Have: tt.have, Max: Resources{30, 20, 10}}
			if got := pool.MaxUse(tt.cost); got != tt.wantMax {
				t.Errorf("MaxUse() = %v, expected %v", got, tt.wantMax)
			}
			if got := pool.Use(tt.cost); got != tt.wantUse {
				t.Errorf("Use() = %v, expected %v", got, tt.wantUse)
			}
			if pool.Have != tt.wantLeft {
				t.Errorf("Have = %+v, expected %+v", pool.Have, tt.wantLeft)
			}
		})
	}
}

func TestResourcePoolAddCaps(t *testing.T) {
	pool := ResourcePool{Have: Resources{Energy: 28}, Max: Resources{30, 20, 10}}
	pool.Add(Resources{Energy: 5, Biotic: 3})

	want := Resources{Energy: 30, Biotic: 3}
	if pool.Have != want {
		t.Errorf("Have = %+v, expected %+v", pool.Have, want)
	}
}

func TestInventorySetPositions(t *testing.T) {
	p := testPlayer()
	p.Equip(ItemGun)
	p.Equip(ItemWrench)

	p.Inventory.SetPositions(10, 2, 2)
	for i, it := range p.Inventory.Items() {
		s := it.slot()
		if s.HUDX != 10+2*i || s.HUDY != 2 {
			t.Errorf("%v at (%d,%d), expected (%d,2)", it.Kind(), s.HUDX, s.HUDY, 10+2*i)
		}
	}
}

func TestInventoryRandomExcluding(t *testing.T) {
	tests := []struct {
		name    string
		equip   []ItemKind
		exclude []ItemKind
		wantNil bool
	}{
		{"only the fist", nil, []ItemKind{ItemFist}, true},
		{"everything excluded", []ItemKind{ItemGun}, []ItemKind{ItemFist, ItemGun}, true},
		{"picks among the rest", []ItemKind{ItemGun, ItemGrenade, ItemWrench}, []ItemKind{ItemFist}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlayer()
			for _, k := range tt.equip {
				p.Equip(k)
			}
			rng := rand.New(rand.NewSource(7))
			for range 50 {
				it := p.Inventory.RandomExcluding(rng, tt.exclude...)
				if tt.wantNil {
					if it != nil {
						t.Fatalf("RandomExcluding() = %v, expected nil", it.Kind())
					}
					continue
				}
				if it == nil || slices.Contains(tt.exclude, it.Kind()) {
					t.Fatalf("RandomExcluding() = %v, expected an item outside %v", it, tt.exclude)
				}
			}
		})
	}
}
