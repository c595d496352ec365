package escape

import (
	"math"

	"github.com/vovakirdan/tui-escape/internal/core"
)

// Shield absorbs whole points of damage and recharges over time.
type Shield struct {
	itemSlot
	ChargeTime float64 // ms per point
	MaxCharge  float64
	Charge     float64
}

func newShield(s itemSlot) *Shield {
	return &Shield{itemSlot: s, ChargeTime: 5000, MaxCharge: 1, Charge: 1}
}

func (s *Shield) Update(*Game, float64, *Player) {}

func (s *Shield) attach(p *Player) {
	p.addHitModifier(ItemShield, s.absorb)
	p.addUpdateHook(ItemShield, s.recharge)
}

func (s *Shield) absorb(damage float64) float64 {
	absorbed := math.Floor(math.Min(damage, s.Charge))
	s.Charge -= absorbed
	return damage - absorbed
}

func (s *Shield) recharge(_ *Game, millis float64, _ *Player) {
	if s.Charge < s.MaxCharge {
		s.Charge = math.Min(s.MaxCharge, s.Charge+millis/s.ChargeTime)
	}
}

func (s *Shield) Upgrade(tier int) {
	switch tier {
	case 1:
		s.MaxCharge++
	case 2:
		s.ChargeTime *= 0.9
	}
}

func (s *Shield) Value(*Player) (float64, bool) {
	return math.Floor(s.Charge), true
}

// Glider slows the fall while jump is held.
type Glider struct {
	itemSlot
	GlideCoef  float64
	ArrestRate float64
}

func newGlider(s itemSlot) *Glider {
	return &Glider{itemSlot: s, GlideCoef: 0.15, ArrestRate: 1}
}

func (gl *Glider) Update(*Game, float64, *Player) {}

func (gl *Glider) attach(p *Player) {
	p.addUpdateHook(ItemGlider, gl.glide)
}

func (gl *Glider) glide(_ *Game, millis float64, p *Player) {
	if !p.pad.Held(core.ActionDodge) || p.Vel.Y <= gl.GlideCoef*p.MaxFallSpeed {
		return
	}
	p.Vel.Y = math.Min(p.MaxFallSpeed, p.Vel.Y-1.0/1000*(1+gl.ArrestRate)*millis/15)
	p.Vel.Y = math.Max(p.Vel.Y, gl.GlideCoef*p.MaxFallSpeed)
}

func (gl *Glider) Upgrade(tier int) {
	switch tier {
	case 1:
		gl.ArrestRate++
	case 2:
		gl.GlideCoef *= 0.85
	}
}
