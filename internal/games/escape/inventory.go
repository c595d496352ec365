package escape

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/tui-escape/internal/config"
)

// ItemKind identifies an inventory item type.
type ItemKind uint8

const (
	ItemFist ItemKind = iota
	ItemGun
	ItemGrenade
	ItemWrench
	ItemJetPack
	ItemGrappleGun
	ItemRocketLauncher
	ItemRifle
	ItemShotgun
	ItemPowerSaber
	ItemDrone
	ItemShield
	ItemGlider
	numItemKinds
)

var itemNames = [...]string{
	ItemFist:           "fist",
	ItemGun:            "gun",
	ItemGrenade:        "grenade",
	ItemWrench:         "wrench",
	ItemJetPack:        "jetpack",
	ItemGrappleGun:     "grapple",
	ItemRocketLauncher: "rocket",
	ItemRifle:          "rifle",
	ItemShotgun:        "shotgun",
	ItemPowerSaber:     "saber",
	ItemDrone:          "drone",
	ItemShield:         "shield",
	ItemGlider:         "glider",
}

// String returns the item name.
func (k ItemKind) String() string {
	if int(k) < len(itemNames) {
		return itemNames[k]
	}
	return "unknown"
}

// Passive reports whether items of this kind live in the passive inventory.
func (k ItemKind) Passive() bool {
	return k == ItemShield || k == ItemGlider
}

// AllItemKinds returns every item kind in declaration order.
func AllItemKinds() []ItemKind {
	out := make([]ItemKind, 0, numItemKinds)
	for k := ItemKind(0); k < numItemKinds; k++ {
		out = append(out, k)
	}
	return out
}

// InventoryItem is an item held by a player. Active items are updated
// only while selected; passive items act through player hooks.
type InventoryItem interface {
	Kind() ItemKind
	Selected() bool
	Update(g *Game, millis float64, p *Player)
	Upgrade(tier int)
	// Value is the HUD readout; ok is false when the item has none.
	Value(p *Player) (v float64, ok bool)
	slot() *itemSlot
}

// attacher items register hooks on their owner when added.
type attacher interface {
	attach(p *Player)
}

// detacher items release resources (looping sounds, live entities) when
// removed or deselected.
type detacher interface {
	detach(g *Game, p *Player)
}

type itemSlot struct {
	kind     ItemKind
	selected bool
	// HUD cell assigned by SetPositions.
	HUDX, HUDY int
}

func (s *itemSlot) Kind() ItemKind                { return s.kind }
func (s *itemSlot) Selected() bool                { return s.selected }
func (s *itemSlot) slot() *itemSlot               { return s }
func (s *itemSlot) Upgrade(tier int)              {}
func (s *itemSlot) Value(*Player) (float64, bool) { return 0, false }

// Inventory is an ordered list of items owned by one player.
type Inventory struct {
	owner *Player
	cfg   config.ItemSettings
	items []InventoryItem
}

// NewInventory returns an empty inventory. owner may be nil for
// inventories that never run hooks.
func NewInventory(owner *Player, cfg config.ItemSettings) Inventory {
	return Inventory{owner: owner, cfg: cfg}
}

// Items returns the items in insertion order.
func (inv *Inventory) Items() []InventoryItem { return inv.items }

// Len returns the number of items.
func (inv *Inventory) Len() int { return len(inv.items) }

// Contains reports whether an item of kind is held.
func (inv *Inventory) Contains(kind ItemKind) bool {
	return inv.Find(kind) != nil
}

// Find returns the held item of kind, or nil.
func (inv *Inventory) Find(kind ItemKind) InventoryItem {
	for _, it := range inv.items {
		if it.Kind() == kind {
			return it
		}
	}
	return nil
}

// Get returns the held item of kind, constructing and adding it first
// if needed. Equipping is idempotent.
func (inv *Inventory) Get(kind ItemKind) InventoryItem {
	if it := inv.Find(kind); it != nil {
		return it
	}
	it := newItem(kind, inv.cfg)
	inv.items = append(inv.items, it)
	if a, ok := it.(attacher); ok && inv.owner != nil {
		a.attach(inv.owner)
	}
	return it
}

// Remove drops the item of kind and deregisters its hooks.
func (inv *Inventory) Remove(kind ItemKind) bool {
	i := slices.IndexFunc(inv.items, func(it InventoryItem) bool { return it.Kind() == kind })
	if i < 0 {
		return false
	}
	if inv.owner != nil {
		inv.owner.removeHooks(kind)
	}
	inv.items = slices.Delete(inv.items, i, i+1)
	return true
}

// RandomExcluding returns a random held item whose kind is not in
// exclude, or nil.
func (inv *Inventory) RandomExcluding(rng *rand.Rand, exclude ...ItemKind) InventoryItem {
	var pool []InventoryItem
	for _, it := range inv.items {
		if !slices.Contains(exclude, it.Kind()) {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	return pool[rng.Intn(len(pool))]
}

// SetPositions lays the items out on the HUD from (x, y), step cells apart.
func (inv *Inventory) SetPositions(x, y, step int) {
	for i, it := range inv.items {
		s := it.slot()
		s.HUDX = x + i*step
		s.HUDY = y
	}
}

// ActiveInventory is an inventory with at most one selected item.
type ActiveInventory struct {
	Inventory
}

// NewActiveInventory returns an empty active inventory.
func NewActiveInventory(owner *Player, cfg config.ItemSettings) ActiveInventory {
	return ActiveInventory{Inventory: NewInventory(owner, cfg)}
}

// Get equips an item of kind. The first item added becomes selected.
func (a *ActiveInventory) Get(kind ItemKind) InventoryItem {
	it := a.Inventory.Get(kind)
	if a.Active() == nil {
		a.Select(kind)
	}
	return it
}

// Remove drops an item; if it was selected the first remaining item is
// selected instead.
func (a *ActiveInventory) Remove(kind ItemKind) bool {
	wasActive := false
	if it := a.Find(kind); it != nil {
		wasActive = it.Selected()
	}
	if !a.Inventory.Remove(kind) {
		return false
	}
	if wasActive && len(a.items) > 0 {
		a.items[0].slot().selected = true
	}
	return true
}

// Select makes the item of kind the only selected one.
func (a *ActiveInventory) Select(kind ItemKind) bool {
	if !a.Contains(kind) {
		return false
	}
	for _, it := range a.items {
		it.slot().selected = it.Kind() == kind
	}
	return true
}

// Next selects the item after the current one, wrapping around.
func (a *ActiveInventory) Next() {
	if len(a.items) == 0 {
		return
	}
	cur := slices.IndexFunc(a.items, func(it InventoryItem) bool { return it.Selected() })
	for _, it := range a.items {
		it.slot().selected = false
	}
	a.items[(cur+1)%len(a.items)].slot().selected = true
}

// Active returns the selected item, or nil when empty.
func (a *ActiveInventory) Active() InventoryItem {
	for _, it := range a.items {
		if it.Selected() {
			return it
		}
	}
	return nil
}

func newItem(kind ItemKind, cfg config.ItemSettings) InventoryItem {
	s := itemSlot{kind: kind}
	switch kind {
	case ItemFist:
		return newFist(s)
	case ItemGun:
		return newGun(s, cfg)
	case ItemGrenade:
		return newGrenade(s, cfg)
	case ItemWrench:
		return newWrench(s)
	case ItemJetPack:
		return newJetPack(s)
	case ItemGrappleGun:
		return newGrappleGun(s)
	case ItemRocketLauncher:
		return newRocketLauncher(s)
	case ItemRifle:
		return newRifle(s, cfg)
	case ItemShotgun:
		return newShotgun(s)
	case ItemPowerSaber:
		return newPowerSaber(s)
	case ItemDrone:
		return newDrone(s)
	case ItemShield:
		return newShield(s)
	case ItemGlider:
		return newGlider(s)
	}
	panic("escape: unknown item kind " + kind.String())
}
