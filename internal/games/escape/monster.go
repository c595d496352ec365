package escape

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-escape/internal/config"
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// Actor is the state shared by monsters and players.
type Actor struct {
	Entity
	HP, MaxHP    float64
	TopSpeed     float64
	JumpSpeed    float64
	MaxFallSpeed float64
	Gravity      float64
	HitTimer     core.Timer // hit flash
	StunTimer    core.Timer
	Dying        bool
}

// Body returns the embedded entity.
func (a *Actor) Body() *Entity { return &a.Entity }

// Stunned reports whether the stun window is still running.
func (a *Actor) Stunned() bool { return !a.StunTimer.Finished() }

// Flashing reports whether the hit flash is showing.
func (a *Actor) Flashing() bool { return !a.HitTimer.Finished() }

// MonsterKind selects a monster's stats and behaviour.
type MonsterKind uint8

const (
	MonsterJelly MonsterKind = iota
	MonsterCrawler
	MonsterHunter
	MonsterOarstrong
	MonsterCrabby
	MonsterFlakBomb
)

func (k MonsterKind) String() string {
	switch k {
	case MonsterJelly:
		return "jelly"
	case MonsterCrawler:
		return "crawler"
	case MonsterHunter:
		return "hunter"
	case MonsterOarstrong:
		return "oarstrong"
	case MonsterCrabby:
		return "crabby"
	case MonsterFlakBomb:
		return "flakbomb"
	}
	return "unknown"
}

// Stance is a monster's behaviour mode.
type Stance uint8

const (
	StancePassive    Stance = iota // walk, turn at walls
	StanceAggressive               // turn toward players on the same row
	StanceTargeting                // pursue the nearest player
	StancePreLeap
	StanceLeap
	StancePostLeap
)

const (
	// monsterClimbSpeed is the upward kick used to hop onto a one-tile step.
	monsterClimbSpeed = 1.0 / 150
	monsterGapKick    = 1.0 / 400
	leapSpeed         = 10.0 / 1000
	leapMaxDist       = 10
	leapHeight        = 2
)

// Monster is a hostile actor.
type Monster struct {
	Actor
	Kind       MonsterKind
	Stance     Stance
	Intel      int
	HitDamage  float64
	Knockback  bool
	Stunnable  bool
	Immune     bool
	Drone      bool // steered by a MonsterBoom, AI off
	SpawnTimer core.Timer

	cfg       config.MonsterSettings
	attack    core.Timer
	shots     int
	leapFrom  core.Vec2
	leapDelta core.Vec2
	leapTimer core.Timer
}

// NewMonster builds a monster of kind at pos. topSpeed is the already
// difficulty-scaled walking speed.
func NewMonster(kind MonsterKind, pos core.Vec2, cfg config.MonsterSettings, topSpeed float64, rng *rand.Rand) *Monster {
	m := &Monster{
		Actor: Actor{
			Entity:       newEntity(pos, core.R(0.125, 0.25, 0.75, 0.75)),
			HP:           2,
			TopSpeed:     topSpeed,
			JumpSpeed:    cfg.JumpSpeed,
			MaxFallSpeed: cfg.MaxFallSpeed,
			Gravity:      cfg.Gravity,
		},
		Kind:       kind,
		Stance:     StanceAggressive,
		Intel:      1,
		HitDamage:  cfg.HitDamage,
		Knockback:  true,
		Stunnable:  true,
		SpawnTimer: core.NewTimer(cfg.SpawnGraceMs, 0),
		cfg:        cfg,
	}
	if rng.Intn(2) == 0 {
		m.Facing = -1
	}
	switch kind {
	case MonsterJelly:
		m.HP = 1
		m.TopSpeed /= 2
		m.Stance = StancePassive
		m.Intel = 0
	case MonsterHunter:
		m.HP = 3
		m.Stance = StanceTargeting
		m.Intel = 2
	case MonsterOarstrong:
		m.HP = 10
		m.TopSpeed /= 2
		m.Stance = StancePassive
		m.attack = core.NewTimer(10000, rng.Float64()*5000)
	case MonsterCrabby:
		m.HP = 3
		m.TopSpeed /= 2
		m.Stance = StancePassive
		m.attack = core.NewTimer(10000, rng.Float64()*5000)
	case MonsterFlakBomb:
		m.HP = 10
		m.TopSpeed = 0
		m.HitDamage = 0
		m.Knockback = false
		m.Stunnable = false
		m.CanFall = false
		m.Stance = StancePassive
		m.SpawnTimer = core.NewTimer(0, 0)
		m.attack = core.NewTimer(250, 0)
	}
	m.MaxHP = m.HP
	return m
}

// Alive reports whether the monster can still act and be hit.
func (m *Monster) Alive() bool { return !m.Dead && !m.Dying }

// Stun starts the stun window. Dying and unstunnable monsters ignore it.
func (m *Monster) Stun(millis float64) {
	if !m.Stunnable || m.Dying {
		return
	}
	m.StunTimer.Set(millis, 0)
}

// HitFrom applies damage from src and knocks the monster away from it.
func (m *Monster) HitFrom(g *Game, src core.Vec2, damage, knockback float64) {
	if m.Dead || m.Immune {
		return
	}
	m.HP -= damage
	if damage > 0 {
		m.HitTimer.Set(200, 0)
	}
	if m.HP <= 0 {
		m.Die(g)
	}
	if m.Knockback && knockback != 0 {
		m.Vel = m.Pos.Sub(src).Unit().Scale(knockback / 200)
	}
	m.Falling = m.CanFall
}

// Die starts the dying window. It is idempotent.
func (m *Monster) Die(g *Game) {
	if m.Dying || m.Dead {
		return
	}
	m.Dying = true
	m.Immune = false
	m.StunTimer.Set(m.cfg.DeathStunMs, 0)
	m.CanFall = true
	if m.Kind == MonsterFlakBomb {
		m.fallBoom(g, 1.5)
	}
}

// finishDeath removes the monster and drops chips unless it is over the void.
func (m *Monster) finishDeath(g *Game) {
	m.Dead = true
	if t := g.closestTile(&m.Entity); !t.IsVoid() {
		g.addItem(newChips(t.Pos(), 1))
	}
}

// Update advances the monster by one frame.
func (m *Monster) Update(g *Game, millis float64) {
	m.snapshot()
	if !m.SpawnTimer.Finished() {
		m.SpawnTimer.Tick(millis)
		return
	}
	m.HitTimer.Tick(millis)
	m.StunTimer.Tick(millis)

	if m.Dying {
		if m.StunTimer.Finished() {
			m.finishDeath(g)
			return
		}
		m.Vel = m.Vel.Scale(math.Pow(0.9, millis/15))
	}

	m.Falling = m.CanFall && (m.Vel.Y < 0 || !g.supported(&m.Entity))

	if !m.Dying && !m.Drone {
		if m.think(g, millis) {
			m.animate()
			return
		}
		if !m.Falling || math.Abs(m.Vel.X) < m.TopSpeed {
			m.Vel.X = m.Facing * m.TopSpeed
		}
	}
	if m.Stunned() && !m.Dying {
		m.Vel.X *= math.Pow(1/1.5, millis/15)
	}
	if !m.Dying && !m.Stunned() && !m.Drone && !g.levelTimer.Finished() && !m.Falling {
		m.navigate(g)
	}
	if m.Falling {
		applyGravity(&m.Entity, m.Gravity, m.MaxFallSpeed, millis)
	}
	g.move(&m.Entity, millis, false)
	m.animate()

	if !m.Dying && !m.Stunned() && m.HitDamage > 0 {
		for _, p := range g.Players {
			if p.Alive() && p.HitBounds().Collide(m.HitBounds()) {
				p.HitFrom(g, m.Pos, m.HitDamage, m.HitDamage)
				p.Stun(500 * m.HitDamage)
			}
		}
	}
	if m.Pos.Y > float64(g.Tiles.H) {
		m.Die(g)
	}
}

// think runs the stance and kind specific behaviour. It returns true when
// the monster positioned itself and skips physics this frame.
func (m *Monster) think(g *Game, millis float64) bool {
	switch m.Stance {
	case StanceAggressive:
		if p, d := g.nearestPlayer(m.Pos); p != nil && d < 5 && math.Abs(p.Pos.Y-m.Pos.Y) < 0.5 {
			m.faceToward(p.Pos)
		}
	case StanceTargeting:
		if p, d := g.nearestPlayer(m.Pos); p != nil && d < 10 {
			m.faceToward(p.Pos)
		}
	}

	switch m.Kind {
	case MonsterOarstrong:
		return m.leap(g, millis)
	case MonsterCrabby:
		if m.attack.Tick(millis) {
			m.fireCrab(g)
		}
	case MonsterFlakBomb:
		m.Angle = math.Mod(m.Angle+millis/15, 360)
		if m.attack.Tick(millis) {
			g.addItem(newMonsterShot(m, m.Angle, ShotFlak))
			m.attack.Reset()
		}
	}
	return false
}

func (m *Monster) faceToward(p core.Vec2) {
	if dx := p.X - m.Pos.X; math.Abs(dx) > 0.5 {
		m.Facing = core.Sign(dx)
	}
}

func (m *Monster) fireCrab(g *Game) {
	if m.shots == 0 {
		m.shots = 3
	}
	if p, _ := g.nearestPlayer(m.Pos); p != nil {
		d := p.Pos.Sub(m.Pos)
		angle := math.Atan2(d.Y, d.X) * 180 / math.Pi
		angle = math.Mod(math.Round(angle/45)*45+360, 360)
		g.addItem(newMonsterShot(m, angle, ShotCrab))
		g.play("crabShot")
	}
	m.shots--
	if m.shots > 0 {
		m.attack.Set(500, 0)
	} else {
		m.attack.Set(10000, 0)
	}
}

// leap drives the Oarstrong stance cycle.
func (m *Monster) leap(g *Game, millis float64) bool {
	switch m.Stance {
	case StancePassive:
		if m.attack.Tick(millis) {
			if p, _ := g.nearestPlayer(m.Pos); p != nil {
				m.Stance = StancePreLeap
				m.Immune = true
				m.attack.Set(1000, 0)
			} else {
				m.attack.Set(5000, 0)
			}
		}
	case StancePreLeap:
		m.Vel.X = 0
		if !m.attack.Tick(millis) {
			return false
		}
		p, _ := g.nearestPlayer(m.Pos)
		if p == nil {
			m.Stance = StancePassive
			m.Immune = false
			m.attack.Set(5000, 0)
			return false
		}
		delta := p.Pos.Sub(m.Pos)
		dist := delta.Len()
		if dist > leapMaxDist {
			delta = delta.Scale(leapMaxDist / dist)
			dist = leapMaxDist
		}
		m.leapFrom = m.Pos
		m.leapDelta = delta
		m.leapTimer.Set(math.Max(dist, 0.5)/leapSpeed, 0)
		m.faceToward(p.Pos)
		m.Stance = StanceLeap
	case StanceLeap:
		m.leapTimer.Tick(millis)
		f := math.Min(1, m.leapTimer.Elapsed/m.leapTimer.Duration)
		elevation := -4*leapHeight*f*f + 4*leapHeight*f
		m.Pos = m.leapFrom.Add(m.leapDelta.Scale(f)).Sub(core.V(0, elevation))
		m.Vel = core.Vec2{}
		if f >= 1 {
			m.Stance = StancePostLeap
			m.attack.Set(1000, 0)
			m.Falling = true
			m.splash(g, 1.5)
		}
		return true
	case StancePostLeap:
		m.Vel.X = 0
		if m.attack.Tick(millis) {
			m.Stance = StancePassive
			m.Immune = false
			m.attack.Set(5000, 0)
		}
	}
	return false
}

// splash blows up non-wall tiles around the monster and hits every other
// actor within radius.
func (m *Monster) splash(g *Game, radius float64) {
	g.play("boom")
	for t := range g.Tiles.IterRange(m.Pos, radius) {
		if t.Kind != tilemap.Wall {
			g.addItem(newBoom(t, 500))
		}
	}
	for _, o := range g.Monsters {
		if o != m && o.Alive() && o.Pos.Dist(m.Pos) <= radius {
			o.HitFrom(g, m.Pos, 3*math.Max(1, m.HitDamage), 1)
		}
	}
	for _, p := range g.Players {
		if p.Alive() && p.Pos.Dist(m.Pos) <= radius {
			p.HitFrom(g, m.Pos, 3*math.Max(1, m.HitDamage), 1)
		}
	}
}

// fallBoom kills the monster in a splash.
func (m *Monster) fallBoom(g *Game, radius float64) {
	m.Die(g)
	m.splash(g, radius)
}

// navigate handles walls, steps, gaps and drops ahead of a grounded monster.
func (m *Monster) navigate(g *Game) {
	if m.TopSpeed == 0 {
		return
	}
	b := m.Bounds()
	row := int(math.Floor(b.Bottom() - 0.5))
	fx := b.X - 0.05
	if m.Facing > 0 {
		fx = b.Right() + 0.05
	}
	col := int(math.Floor(fx))
	step := int(m.Facing)

	ahead := g.Tiles.At(col, row)
	if !ahead.Passable {
		over := g.Tiles.At(int(math.Floor(b.Center().X)), row-1)
		if m.Intel > 0 && g.Tiles.At(col, row-1).Passable && over.Passable {
			m.Vel.Y = -monsterClimbSpeed
			m.Falling = true
		} else {
			m.Facing = -m.Facing
		}
		return
	}
	if g.Tiles.At(col, row+1).Standable {
		return
	}
	if m.Intel > 1 && g.Tiles.At(col+step, row+1).Standable && g.Tiles.At(col+step, row).Passable {
		m.Vel.Y = -monsterGapKick
		m.Vel.X = m.Facing * math.Max(m.JumpSpeed, m.TopSpeed)
		m.Falling = true
		return
	}
	if !g.Tiles.At(col, row+2).Standable {
		m.Facing = -m.Facing
	}
}
