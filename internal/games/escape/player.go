package escape

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-escape/internal/config"
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// PlayerState is the player motion state.
type PlayerState uint8

const (
	StateStand PlayerState = iota
	StateWalk
	StateStun // airborne or knocked back
	StateDash
	StateDodge // jump
	StateDead
)

func (s PlayerState) String() string {
	switch s {
	case StateStand:
		return "stand"
	case StateWalk:
		return "walk"
	case StateStun:
		return "stun"
	case StateDash:
		return "dash"
	case StateDodge:
		return "dodge"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

type updateHook struct {
	owner ItemKind
	fn    func(g *Game, millis float64, p *Player)
}

type hitHook struct {
	owner ItemKind
	fn    func(damage float64) float64
}

// Player is an actor driven by one controller.
type Player struct {
	Actor
	ID     core.PlayerID
	Sprite int

	State     PlayerState
	Inventory ActiveInventory
	Passive   Inventory
	Resources ResourcePool

	Score    float64
	Chips    float64
	Deaths   int
	Escaped  bool
	Aiming   bool
	Piloting bool
	AirJumps int

	Immunity core.Timer

	pad          *core.Controls
	cfg          config.PlayerSettings
	stateTimer   core.Timer
	airJumpsLeft int
	shortHopped  bool
	updateHooks  []updateHook
	hitModifiers []hitHook
}

// NewPlayer builds a player reading input from pad.
func NewPlayer(id core.PlayerID, pad *core.Controls, cfg config.EscapeConfig) *Player {
	ps := cfg.Player
	p := &Player{
		Actor: Actor{
			Entity:       newEntity(core.Vec2{}, core.R(0.25, 0.125, 0.5, 0.875)),
			HP:           cfg.Game.StartingHP,
			MaxHP:        cfg.Game.StartingHP + 1,
			TopSpeed:     ps.TopSpeed,
			JumpSpeed:    ps.JumpSpeed,
			MaxFallSpeed: ps.MaxFallSpeed,
			Gravity:      ps.Gravity,
			HitTimer:     core.NewTimer(500, 500),
			StunTimer:    core.NewTimer(500, 500),
		},
		ID:        id,
		Sprite:    int(id) - 1,
		State:     StateStand,
		Resources: NewResourcePool(ps.Resources),
		Immunity:  core.NewTimer(ps.ImmunityMs, ps.ImmunityMs),
		pad:       pad,
		cfg:       ps,
	}
	p.Inventory = NewActiveInventory(p, cfg.Items)
	p.Passive = NewInventory(p, cfg.Items)
	p.Inventory.Get(ItemFist)
	return p
}

// Controls returns the controller state the player reads.
func (p *Player) Controls() *core.Controls { return p.pad }

// Alive reports whether the player is in play.
func (p *Player) Alive() bool { return !p.Dead && !p.Escaped }

// Equip adds an item to the matching inventory and returns it.
func (p *Player) Equip(kind ItemKind) InventoryItem {
	if kind.Passive() {
		return p.Passive.Get(kind)
	}
	return p.Inventory.Get(kind)
}

// Has reports whether the player owns an item of kind.
func (p *Player) Has(kind ItemKind) bool {
	return p.Inventory.Contains(kind) || p.Passive.Contains(kind)
}

// Item returns the owned item of kind, or nil.
func (p *Player) Item(kind ItemKind) InventoryItem {
	if it := p.Inventory.Find(kind); it != nil {
		return it
	}
	return p.Passive.Find(kind)
}

func (p *Player) addUpdateHook(owner ItemKind, fn func(*Game, float64, *Player)) {
	p.updateHooks = append(p.updateHooks, updateHook{owner, fn})
}

func (p *Player) addHitModifier(owner ItemKind, fn func(float64) float64) {
	p.hitModifiers = append(p.hitModifiers, hitHook{owner, fn})
}

func (p *Player) removeHooks(owner ItemKind) {
	var u []updateHook
	for _, h := range p.updateHooks {
		if h.owner != owner {
			u = append(u, h)
		}
	}
	var m []hitHook
	for _, h := range p.hitModifiers {
		if h.owner != owner {
			m = append(m, h)
		}
	}
	p.updateHooks, p.hitModifiers = u, m
}

func (p *Player) setState(s PlayerState, millis float64) {
	p.State = s
	p.stateTimer.Set(millis, 0)
}

// Stun knocks the player into the stun state for millis.
func (p *Player) Stun(millis float64) {
	if p.Dead {
		return
	}
	p.StunTimer.Set(millis, 0)
	p.State = StateStun
}

// HitFrom applies damage through the hit modifiers. Players are immune
// while dashing, dead, escaped or inside the immunity window.
func (p *Player) HitFrom(g *Game, src core.Vec2, damage, knockback float64) {
	if p.Dead || p.Escaped || !p.Immunity.Finished() || p.State == StateDash {
		return
	}
	for _, h := range p.hitModifiers {
		damage = h.fn(damage)
	}
	p.HP -= damage
	p.Immunity.Reset()
	p.HitTimer.Reset()
	g.play("hit1")
	if knockback != 0 {
		p.Vel = p.Pos.Sub(src).Unit().Scale(knockback / 200)
	}
	p.Falling = true
	p.State = StateStun
	if p.HP <= 0 {
		p.Die(g)
	}
}

// Die kills the player and leaves a corpse. It is idempotent.
func (p *Player) Die(g *Game) {
	if p.Dead {
		return
	}
	p.Dead = true
	p.Deaths++
	p.State = StateDead
	p.Vel = core.Vec2{}
	p.releaseActive(g)
	g.play(fmt.Sprintf("dead%d", 1+g.rng.Intn(8)))
	g.addItem(newDeadPlayer(p))
	g.logger.Debug("player died", "player", p.ID, "deaths", p.Deaths)
}

// Revive brings a dead player back: full health in competitive play,
// one point otherwise.
func (p *Player) Revive(competitive bool) {
	p.Dead = false
	p.Dying = false
	p.setState(StateWalk, 0)
	p.StunTimer.Set(p.StunTimer.Duration, p.StunTimer.Duration)
	if competitive {
		p.HP = p.MaxHP
	} else {
		p.HP = 1
	}
}

func (p *Player) releaseActive(g *Game) {
	if d, ok := p.Inventory.Active().(detacher); ok {
		d.detach(g, p)
	}
	p.Aiming = false
}

// Update advances the player by one frame.
func (p *Player) Update(g *Game, millis float64) {
	p.snapshot()
	if p.Escaped {
		return
	}
	p.Immunity.Tick(millis)
	p.HitTimer.Tick(millis)
	p.StunTimer.Tick(millis)
	p.stateTimer.Tick(millis)
	if p.Dead {
		return
	}

	grounded := p.Vel.Y >= 0 && g.supported(&p.Entity)
	p.Falling = !grounded

	switch p.State {
	case StateStand, StateWalk:
		switch {
		case !grounded:
			p.setState(StateStun, 0)
		case p.pad.Pressed(core.ActionDodge) && !p.Piloting:
			p.jump(g)
		case p.pad.Pressed(core.ActionDash) && p.moving():
			p.startDash(g)
		}
	case StateDodge:
		// The dodge window keeps the boosted air control for DodgeMs.
		switch {
		case p.pad.Pressed(core.ActionDash):
			p.startDash(g)
		case p.stateTimer.Finished() && grounded:
			p.setState(StateStand, 0)
		case p.stateTimer.Finished():
			p.setState(StateStun, 0)
		case grounded:
			p.setState(StateWalk, 0)
		}
	case StateDash:
		if p.stateTimer.Finished() {
			if grounded {
				p.setState(StateWalk, 0)
			} else {
				p.setState(StateStun, 0)
			}
		}
	case StateStun:
		switch {
		case grounded && !p.Stunned():
			p.setState(StateWalk, 0)
		case !grounded && !p.Stunned() && p.airJumpsLeft > 0 && p.pad.Pressed(core.ActionDodge):
			p.airJumpsLeft--
			p.jump(g)
		}
	}
	if grounded {
		p.airJumpsLeft = p.AirJumps
	}

	p.entityInteract(g)
	switch {
	case p.State == StateDash:
		p.dash(g)
	case p.Stunned() || p.Piloting:
		p.Vel.X *= math.Pow(0.9, millis/15)
	default:
		p.moveCheck(millis)
	}
	if p.State == StateDodge {
		p.shortHop()
	}
	p.cycleInventoryCheck(g)
	p.tileInteract(g, grounded)

	if p.Falling && p.State != StateDash {
		applyGravity(&p.Entity, p.Gravity, p.MaxFallSpeed, millis)
	}
	if it := p.Inventory.Active(); it != nil {
		it.Update(g, millis, p)
	}
	for _, h := range p.updateHooks {
		h.fn(g, millis, p)
	}
	g.move(&p.Entity, millis, p.pad.Held(core.ActionDown))
	p.animate()

	if p.Pos.Y > float64(g.Tiles.H+3) {
		p.Die(g)
	}
}

func (p *Player) moving() bool {
	return p.pad.Held(core.ActionLeft) || p.pad.Held(core.ActionRight)
}

func (p *Player) jump(g *Game) {
	p.Vel.Y = -p.JumpSpeed
	p.Falling = true
	p.shortHopped = false
	p.setState(StateDodge, p.cfg.DodgeMs)
	g.play("jump")
}

// shortHop cuts the rise when jump is released early.
func (p *Player) shortHop() {
	if p.shortHopped || p.pad.Held(core.ActionDodge) || p.Vel.Y >= 0 {
		return
	}
	if p.stateTimer.Elapsed < p.cfg.ShortHopMs {
		p.Vel.Y *= 0.5
	}
	p.shortHopped = true
}

func (p *Player) startDash(g *Game) {
	p.setState(StateDash, p.cfg.DashMs)
	g.play("dash")
}

// dash moves at boosted speed and bowls over monsters in front.
func (p *Player) dash(g *Game) {
	p.Vel.X = p.Facing * p.TopSpeed * p.cfg.DashSpeedMultiplier
	p.Vel.Y = 0
	box := p.Bounds().Shift(core.V(p.Facing*0.5, 0))
	for _, m := range g.Monsters {
		if m.Alive() && !m.Stunned() && m.HitBounds().Collide(box) {
			m.Stun(p.cfg.DashStunMs)
			m.HitFrom(g, p.Pos, 0, p.cfg.DashKnockback)
		}
	}
}

// moveCheck accelerates toward the held direction and brakes when released.
func (p *Player) moveCheck(millis float64) {
	dir := axis(p.pad, core.ActionLeft, core.ActionRight)
	step := p.cfg.Accel * millis / 15
	if dir != 0 {
		p.Facing = dir
		mult := 1.0
		if p.State == StateDodge {
			mult = p.cfg.DodgeMultiplier
		}
		target := dir * p.TopSpeed * mult
		if p.Vel.X < target {
			p.Vel.X = math.Min(target, p.Vel.X+step)
		} else {
			p.Vel.X = math.Max(target, p.Vel.X-step)
		}
		if p.State == StateStand {
			p.State = StateWalk
		}
		return
	}
	if p.State != StateDodge {
		if p.Vel.X > 0 {
			p.Vel.X = math.Max(0, p.Vel.X-step)
		} else {
			p.Vel.X = math.Min(0, p.Vel.X+step)
		}
	}
	if p.State == StateWalk && p.Vel.X == 0 {
		p.State = StateStand
	}
}

func (p *Player) cycleInventoryCheck(g *Game) {
	if !p.pad.Pressed(core.ActionCycle) || p.Piloting {
		return
	}
	p.releaseActive(g)
	p.Inventory.Next()
	g.play("cycle")
}

// entityInteract lets overlapping pickups react to the player.
func (p *Player) entityInteract(g *Game) {
	b := p.Bounds()
	for _, it := range g.Items {
		e := it.Base()
		if e.Dead || !e.Bounds().Collide(b) {
			continue
		}
		if t, ok := it.(toucher); ok {
			t.Touch(g, p)
		}
	}
}

// tileInteract fires tile actions for held up/down. Holding down on a
// ledge nudges the player through it.
func (p *Player) tileInteract(g *Game, grounded bool) {
	if p.Aiming || p.Piloting {
		return
	}
	t := g.closestTile(&p.Entity)
	if p.pad.Held(core.ActionUp) {
		g.interactTile(p, t, core.ActionUp)
	}
	if p.pad.Held(core.ActionDown) {
		below := g.Tiles.Below(t)
		g.interactTile(p, t, core.ActionDown)
		g.interactTile(p, below, core.ActionDown)
		if grounded && below.Passable && below.Standable {
			p.Pos.Y += 0.01
			p.Falling = true
		}
	}
}

// standingOn reports whether the player rests on top of tile t.
func (p *Player) standingOn(t tilemap.Tile) bool {
	b := p.Bounds()
	return math.Abs(b.Bottom()-float64(t.Y)) < standEps &&
		b.Right() > float64(t.X) && b.X < float64(t.X+1)
}
