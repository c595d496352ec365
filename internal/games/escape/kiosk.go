package escape

import (
	"github.com/vovakirdan/tui-escape/internal/core"
)

// KioskPickup is one thing a kiosk can dispense: health or an item.
type KioskPickup struct {
	Health bool
	Item   ItemKind
}

// Name returns the HUD label.
func (k KioskPickup) Name() string {
	if k.Health {
		return "health"
	}
	return k.Item.String()
}

// Activate gives the pickup to p. An item the player already owns is
// upgraded at a random tier instead.
func (k KioskPickup) Activate(g *Game, p *Player) {
	if k.Health {
		p.MaxHP++
		p.HP = p.MaxHP
		return
	}
	if it := p.Item(k.Item); it != nil {
		it.Upgrade(1 + g.rng.Intn(2))
	} else {
		p.Equip(k.Item)
	}
	if s, ok := p.Item(ItemShield).(*Shield); ok && k.Item == ItemShield {
		s.Charge = s.MaxCharge
	}
}

// kioskStock lists every item a kiosk can offer.
func kioskStock() []KioskPickup {
	var out []KioskPickup
	for _, k := range AllItemKinds() {
		if k != ItemFist {
			out = append(out, KioskPickup{Item: k})
		}
	}
	return out
}

// Kiosk is the shop of a level. Each player may take one pickup.
type Kiosk struct {
	Items  []KioskPickup
	Active int // browsed index, -1 when idle
	used   map[*Player]bool
}

// NewKiosk offers up to n random items plus health.
func NewKiosk(g *Game, n int) *Kiosk {
	stock := kioskStock()
	core.Shuffle(g.rng, stock)
	n = core.Clamp(n, 0, len(stock))
	items := append(stock[:n:n], KioskPickup{Health: true})
	return &Kiosk{Items: items, Active: -1, used: map[*Player]bool{}}
}

// Used reports whether p already took a pickup here.
func (k *Kiosk) Used(p *Player) bool { return k.used[p] }

// Browsing returns the browsed pickup, if any.
func (k *Kiosk) Browsing() (KioskPickup, bool) {
	if k.Active < 0 || k.Active >= len(k.Items) {
		return KioskPickup{}, false
	}
	return k.Items[k.Active], true
}

// Interact handles a held up or down from p at the dispenser. Only
// fresh presses count: down browses to the next pickup, up dispenses the
// browsed one.
func (k *Kiosk) Interact(g *Game, p *Player, a core.Action) {
	if k.used[p] || len(k.Items) == 0 {
		return
	}
	switch a {
	case core.ActionDown:
		if !p.pad.Pressed(core.ActionDown) {
			return
		}
		k.Active = (k.Active + 1) % len(k.Items)
		g.play("kioskInteract")
	case core.ActionUp:
		if !p.pad.Pressed(core.ActionUp) || k.Active < 0 {
			return
		}
		k.Items[k.Active].Activate(g, p)
		k.used[p] = true
		k.Active = -1
		g.play("kioskDispense")
		g.logger.Debug("kiosk dispensed", "player", p.ID)
	}
}
