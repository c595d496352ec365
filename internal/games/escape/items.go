package escape

import (
	"math"

	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// Item is a transient world entity: a projectile, explosion, pickup or
// hazard. Items never remove themselves; they set Dead and the game
// sweeps them after the update pass.
type Item interface {
	Base() *Entity
	Kind() EntityKind
	Update(g *Game, millis float64)
	// Glyph is the render key. A zero rune is not drawn.
	Glyph() (rune, core.Color)
}

// toucher items react to a player overlapping them.
type toucher interface {
	Touch(g *Game, p *Player)
}

type itemBase struct {
	Entity
}

func (b *itemBase) Base() *Entity { return &b.Entity }

// Treasure is a data cell. Collecting it scores and refills energy.
type Treasure struct {
	itemBase
}

func newTreasure(pos core.Vec2) *Treasure {
	return &Treasure{itemBase{newEntity(pos, core.R(0.25, 0.25, 0.5, 0.75))}}
}

func (t *Treasure) Kind() EntityKind          { return KindPickup }
func (t *Treasure) Update(*Game, float64)     {}
func (t *Treasure) Glyph() (rune, core.Color) { return '$', core.ColorBrightYellow }

func (t *Treasure) Touch(g *Game, p *Player) {
	t.Dead = true
	if g.mode == ModeCompetitive {
		p.Score++
	} else {
		g.score++
		g.cellsCollected++
	}
	p.Resources.Add(Resources{Energy: g.cfg.Items.TreasureEnergy})
	g.play("pickup1")
}

// Chips are dropped by dead monsters and fall to the floor.
type Chips struct {
	itemBase
	Value float64
}

func newChips(pos core.Vec2, value float64) *Chips {
	c := &Chips{itemBase{newEntity(pos, core.R(0.25, 0.5, 0.5, 0.5))}, value}
	c.Falling = true
	return c
}

func (c *Chips) Kind() EntityKind          { return KindPickup }
func (c *Chips) Glyph() (rune, core.Color) { return '¢', core.ColorBrightCyan }

func (c *Chips) Update(g *Game, millis float64) {
	fall(g, &c.Entity, millis)
	if c.Pos.Y > float64(g.Tiles.H) {
		c.Dead = true
	}
}

func (c *Chips) Touch(g *Game, p *Player) {
	c.Dead = true
	if g.mode == ModeCompetitive {
		p.Score += 0.2
	} else {
		g.score++
	}
	p.Chips += c.Value
	p.Resources.Add(Resources{Alloy: c.Value, Biotic: c.Value})
	g.play("pickup2")
}

// fall applies item gravity and moves e.
func fall(g *Game, e *Entity, millis float64) {
	e.Falling = !g.supported(e)
	if e.Falling {
		applyGravity(e, 1.0/4800, 1.0/50, millis)
	}
	g.move(e, millis, false)
}

// DeadPlayer is a corpse that fades after a few seconds.
type DeadPlayer struct {
	itemBase
	player *Player
	timer  core.Timer
}

func newDeadPlayer(p *Player) *DeadPlayer {
	e := newEntity(p.Pos, p.BBox)
	e.Facing = p.Facing
	return &DeadPlayer{itemBase{e}, p, core.NewTimer(3000, 0)}
}

func (d *DeadPlayer) Kind() EntityKind          { return KindDecoration }
func (d *DeadPlayer) Glyph() (rune, core.Color) { return 'x', playerColor(d.player.ID) }

func (d *DeadPlayer) Update(g *Game, millis float64) {
	fall(g, &d.Entity, millis)
	if d.timer.Tick(millis) {
		d.Dead = true
	}
}

// Key unlocks the level exit.
type Key struct {
	itemBase
}

func newKey(pos core.Vec2) *Key {
	return &Key{itemBase{newEntity(pos, core.R(0.25, 0.25, 0.5, 0.75))}}
}

func (k *Key) Kind() EntityKind          { return KindPickup }
func (k *Key) Update(*Game, float64)     {}
func (k *Key) Glyph() (rune, core.Color) { return 'k', core.ColorBrightYellow }

func (k *Key) Touch(g *Game, p *Player) {
	k.Dead = true
	end := g.Tiles.EndTile()
	g.Tiles.Update(end.X, end.Y, func(t *tilemap.Tile) { t.Locked = false })
	g.play("pickup2")
}

// DelayedSound plays a cue once its timer runs out.
type DelayedSound struct {
	itemBase
	Name  string
	timer core.Timer
}

func newDelayedSound(name string, delay float64) *DelayedSound {
	return &DelayedSound{Name: name, timer: core.NewTimer(delay, 0)}
}

func (d *DelayedSound) Kind() EntityKind          { return KindDecoration }
func (d *DelayedSound) Glyph() (rune, core.Color) { return 0, core.ColorDefault }

func (d *DelayedSound) Update(g *Game, millis float64) {
	if d.timer.Tick(millis) || d.timer.Finished() {
		g.play(d.Name)
		d.Dead = true
	}
}

// BootsKind selects the boots effect.
type BootsKind uint8

const (
	BootsJump BootsKind = iota // higher jumps
	BootsAir                   // one more air jump
)

// BootsPickup improves jumping.
type BootsPickup struct {
	itemBase
	Type BootsKind
}

func newBootsPickup(pos core.Vec2, kind BootsKind) *BootsPickup {
	return &BootsPickup{itemBase{newEntity(pos, core.R(0.25, 0.25, 0.5, 0.75))}, kind}
}

func (b *BootsPickup) Kind() EntityKind          { return KindPickup }
func (b *BootsPickup) Update(*Game, float64)     {}
func (b *BootsPickup) Glyph() (rune, core.Color) { return 'b', core.ColorBrightGreen }

func (b *BootsPickup) Touch(g *Game, p *Player) {
	b.Dead = true
	if b.Type == BootsJump {
		p.JumpSpeed *= 1.2
	} else {
		p.AirJumps++
	}
	g.play("pickup2")
}

// UpgradePickup upgrades the active item. A player holding the fist gets
// one of their other items upgraded instead, when they have any.
type UpgradePickup struct {
	itemBase
	Tier int
}

func newUpgradePickup(pos core.Vec2, tier int) *UpgradePickup {
	return &UpgradePickup{itemBase{newEntity(pos, core.R(0.25, 0.25, 0.5, 0.75))}, tier}
}

func (u *UpgradePickup) Kind() EntityKind          { return KindPickup }
func (u *UpgradePickup) Update(*Game, float64)     {}
func (u *UpgradePickup) Glyph() (rune, core.Color) { return 'u', core.ColorBrightMagenta }

func (u *UpgradePickup) Touch(g *Game, p *Player) {
	it := p.Inventory.Active()
	if it == nil {
		return
	}
	if it.Kind() == ItemFist {
		if other := p.Inventory.RandomExcluding(g.rng, ItemFist); other != nil {
			it = other
		}
	}
	u.Dead = true
	it.Upgrade(u.Tier)
	g.play("pickup2")
}

// Boom turns its tile into floor when the fuse runs out.
type Boom struct {
	itemBase
	X, Y  int
	timer core.Timer
}

func newBoom(t tilemap.Tile, fuse float64) *Boom {
	return &Boom{itemBase{newEntity(t.Pos(), core.R(0, 0, 1, 1))}, t.X, t.Y, core.NewTimer(fuse, 0)}
}

func (b *Boom) Kind() EntityKind { return KindHazard }

func (b *Boom) Glyph() (rune, core.Color) {
	if b.timer.Remaining() < 250 {
		return '*', core.ColorOrange
	}
	return 0, core.ColorDefault
}

func (b *Boom) Update(g *Game, millis float64) {
	if !b.timer.Tick(millis) && !b.timer.Finished() {
		return
	}
	b.Dead = true
	t := g.Tiles.At(b.X, b.Y)
	if t.IsVoid() || t.Kind == tilemap.Floor || t.Kind == tilemap.Exit || t.Kind.IsKiosk() {
		return
	}
	g.Tiles.Replace(t, tilemap.Floor)
}

// MonsterBoom turns a monster into a guided bomb.
type MonsterBoom struct {
	itemBase
	monster *Monster
	player  *Player
	timer   core.Timer
}

func newMonsterBoom(m *Monster, p *Player, fuse, facing float64) *MonsterBoom {
	m.Vel.X = facing * m.TopSpeed * 5
	m.Facing = facing
	m.Drone = true
	return &MonsterBoom{monster: m, player: p, timer: core.NewTimer(fuse, 0)}
}

func (b *MonsterBoom) Kind() EntityKind          { return KindHazard }
func (b *MonsterBoom) Glyph() (rune, core.Color) { return 0, core.ColorDefault }

func (b *MonsterBoom) Update(g *Game, millis float64) {
	m := b.monster
	b.Pos = m.Pos
	fire := b.timer.Tick(millis) || !m.Alive()
	if b.player != nil && b.player.pad.Released(core.ActionUse) {
		if b.timer.Elapsed < 250 {
			b.player = nil
		} else {
			fire = true
		}
	}
	if !fire {
		return
	}
	b.Dead = true
	t := g.closestTile(&m.Entity)
	if m.Alive() {
		m.Immune = false
		m.HitFrom(g, m.Pos, m.HP+1, 0)
	}
	for _, n := range []tilemap.Tile{g.Tiles.LeftOf(t), t, g.Tiles.RightOf(t)} {
		if n.Kind != tilemap.Wall {
			g.addItem(newBoom(n, 250))
		}
	}
	area := core.R(float64(t.X-1), float64(t.Y), 3, 1)
	for _, o := range g.Monsters {
		if o != m && o.Alive() && o.HitBounds().Collide(area) {
			o.HitFrom(g, t.Pos(), 3, 1)
		}
	}
	for _, p := range g.Players {
		if p.Alive() && p.HitBounds().Collide(area) {
			p.HitFrom(g, t.Pos(), 3, 1)
		}
	}
	g.play("boom")
}

// ShotKind tags the source and look of a Shot.
type ShotKind uint8

const (
	ShotBullet ShotKind = iota
	ShotCrab
	ShotFlak
)

// Shot is a straight, gravity-free projectile. It dies on any wall contact.
type Shot struct {
	itemBase
	Damage float64
	Type   ShotKind
	player *Player
	owner  *Monster
}

func newShot(p *Player, m *Monster, damage, angle, facing, speed float64) *Shot {
	var origin core.Vec2
	if p != nil {
		origin = p.Pos
	} else {
		origin = m.Pos
	}
	dir := angleVec(angle)
	off := core.V(0.4*dir.X, 0.4*dir.Y)
	if angle == 90 {
		off.X += 0.2 * facing
	}
	s := &Shot{
		itemBase: itemBase{newEntity(origin.Add(off), core.R(7.0/16, 7.0/16, 2.0/16, 2.0/16))},
		Damage:   damage,
		player:   p,
		owner:    m,
	}
	s.Vel = dir.Scale(speed)
	s.Angle = angle
	s.Facing = facing
	s.CanFall = false
	return s
}

func newMonsterShot(m *Monster, angle float64, kind ShotKind) *Shot {
	s := newShot(nil, m, 1, angle, m.Facing, 1.0/120)
	s.Type = kind
	return s
}

func (s *Shot) Kind() EntityKind { return KindProjectile }

func (s *Shot) Glyph() (rune, core.Color) {
	switch s.Type {
	case ShotCrab:
		return '•', core.ColorRed
	case ShotFlak:
		return '∘', core.ColorOrange
	}
	if math.Abs(s.Vel.X) >= math.Abs(s.Vel.Y) {
		return '-', core.ColorBrightWhite
	}
	return '|', core.ColorBrightWhite
}

func (s *Shot) Update(g *Game, millis float64) {
	s.snapshot()
	before := s.Vel
	g.move(&s.Entity, millis, true)
	if s.Vel != before || !g.Tiles.InBounds(int(s.Pos.X), int(s.Pos.Y)) || s.Pos.X < 0 || s.Pos.Y < 0 {
		s.Dead = true
		return
	}
	var targets []Target
	if s.player != nil {
		targets = g.targetsFor(s.player)
	} else {
		targets = g.targetsForMonster(s.owner)
	}
	if t := firstOverlapping(targets, s.Bounds()); t != nil {
		t.HitFrom(g, s.Pos, s.Damage, 1)
		s.Dead = true
	}
}

// LiveGrenade bounces around and explodes on its fuse, or when its
// thrower releases use after the first 250ms.
type LiveGrenade struct {
	itemBase
	Radius float64
	Damage float64
	player *Player
	timer  core.Timer
}

func newLiveGrenade(g *Game, p *Player, vel core.Vec2, fuse, radius, damage float64) *LiveGrenade {
	e := newEntity(p.Pos, core.R(0.4, 0.4, 0.2, 0.2))
	e.Pos.X += p.Facing * p.BBox.W * 0.75
	if !g.Tiles.ClosestTile(e.Bounds()).Passable {
		e.Pos = p.Pos
	}
	e.Vel = vel
	e.Falling = true
	return &LiveGrenade{itemBase{e}, radius, damage, p, core.NewTimer(fuse, 0)}
}

func (lg *LiveGrenade) Kind() EntityKind          { return KindProjectile }
func (lg *LiveGrenade) Glyph() (rune, core.Color) { return 'o', core.ColorGreen }

func (lg *LiveGrenade) Update(g *Game, millis float64) {
	lg.snapshot()
	fire := lg.timer.Tick(millis)
	if lg.player != nil && lg.player.pad.Released(core.ActionUse) {
		if lg.timer.Elapsed < 250 {
			lg.player = nil
		} else {
			fire = true
		}
	}
	if fire {
		lg.explode(g)
		return
	}
	if lg.Pos.Y > float64(g.Tiles.H+4) {
		lg.Dead = true
		return
	}
	lg.bounce(g, millis)
}

func (lg *LiveGrenade) explode(g *Game) {
	lg.Dead = true
	t0 := g.closestTile(&lg.Entity)
	if t0.IsVoid() {
		return
	}
	for t := range g.Tiles.IterRange(t0.Pos(), lg.Radius) {
		g.addItem(newBoom(t, g.cfg.Items.BoomFuseMs))
	}
	blast(g, g.allTargets(), t0.Pos(), lg.Radius, lg.Damage)
	g.play("boom")
}

// bounce integrates grenade physics: friction, gravity, and damped
// bounces off walls and floors.
func (lg *LiveGrenade) bounce(g *Game, millis float64) {
	frames := millis / 15
	if frames > 0 {
		lg.Vel.X *= math.Pow(0.9, frames)
	}
	lg.Falling = !g.supported(&lg.Entity)
	if lg.Falling {
		applyGravity(&lg.Entity, 1.0/4800, 1.0/50, millis)
	}
	old := lg.Vel
	g.move(&lg.Entity, millis, false)
	if lg.Vel.X == 0 && old.X != 0 {
		lg.Vel.X = -old.X / 2
		if math.Abs(lg.Vel.X) < 1.0/3200 {
			lg.Vel.X = 0
		}
	}
	if lg.Vel.Y == 0 && old.Y > 1.0/3200 {
		lg.Vel.Y = -old.Y / 3
	}
}

// ShotFrags is a short-lived shotgun spray of three rotated boxes. It
// checks its own overlaps since the spray is larger than a tile.
type ShotFrags struct {
	itemBase
	Damage float64
	Boxes  [3]core.Rect
	player *Player
	timer  core.Timer
	fired  bool
}

func newShotFrags(p *Player, angle, damage, reach float64) *ShotFrags {
	origin := p.Center()
	if angle == 90 {
		origin.X += 0.2 * p.Facing
	}
	f := &ShotFrags{
		itemBase: itemBase{newEntity(p.Pos, core.R(0, 0, 1, 1))},
		Damage:   damage,
		player:   p,
		timer:    core.NewTimer(100, 0),
	}
	f.Angle = angle
	for i, spread := range []float64{-20, 0, 20} {
		c := origin.Add(angleVec(angle + spread).Scale(reach * 0.6))
		f.Boxes[i] = core.R(c.X-0.5, c.Y-0.5, 1, 1)
	}
	return f
}

func (f *ShotFrags) Kind() EntityKind          { return KindProjectile }
func (f *ShotFrags) Glyph() (rune, core.Color) { return '∴', core.ColorYellow }

func (f *ShotFrags) Update(g *Game, millis float64) {
	if !f.fired {
		f.fired = true
		hit := map[Target]bool{}
		for _, box := range f.Boxes {
			for _, t := range overlapping(g.targetsFor(f.player), box) {
				if !hit[t] {
					hit[t] = true
					t.HitFrom(g, f.player.Pos, f.Damage, 1)
				}
			}
		}
	}
	if f.timer.Tick(millis) {
		f.Dead = true
	}
}

// LiveRocket accelerates along its angle and explodes on contact.
type LiveRocket struct {
	itemBase
	Damage float64
	Blast  float64
	player *Player
	accel  core.Timer
}

func newLiveRocket(p *Player, angle, damage, blastRadius, accelTime float64) *LiveRocket {
	e := newEntity(p.Pos, core.R(0.35, 0.35, 0.3, 0.3))
	e.Angle = angle
	e.CanFall = false
	e.Vel = p.Vel
	return &LiveRocket{itemBase{e}, damage, blastRadius, p, core.NewTimer(accelTime, 0)}
}

func (r *LiveRocket) Kind() EntityKind          { return KindProjectile }
func (r *LiveRocket) Glyph() (rune, core.Color) { return '►', core.ColorBrightRed }

func (r *LiveRocket) Update(g *Game, millis float64) {
	r.snapshot()
	if !r.accel.Finished() {
		r.accel.Tick(millis)
		r.Vel = r.Vel.Add(angleVec(r.Angle).Scale(1.0 / 720 * millis / 15))
	}
	before := r.Vel
	g.move(&r.Entity, millis, true)
	hitWall := (before.X != 0 && r.Vel.X == 0) || (before.Y != 0 && r.Vel.Y == 0)
	targets := g.targetsFor(r.player)
	if hitWall || firstOverlapping(targets, r.Bounds()) != nil {
		r.Dead = true
		for t := range g.Tiles.IterRange(r.Pos, r.Blast) {
			g.addItem(newBoom(t, g.cfg.Items.BoomFuseMs))
		}
		blast(g, g.allTargets(), r.Pos, r.Blast, r.Damage)
		g.play("boomBig")
		return
	}
	if r.Pos.X < -4 || r.Pos.Y < -4 || r.Pos.X > float64(g.Tiles.W+4) || r.Pos.Y > float64(g.Tiles.H+4) {
		r.Dead = true
	}
}

// LiveDrone is flown by its owner's controls until it hits something,
// runs out of flight time, or use is released.
type LiveDrone struct {
	itemBase
	player *Player
	item   *Drone
	flight core.Timer
}

func newLiveDrone(p *Player, d *Drone) *LiveDrone {
	e := newEntity(p.Pos.Sub(core.V(0, 0.5)), core.R(0.3, 0.3, 0.4, 0.4))
	e.CanFall = false
	return &LiveDrone{itemBase{e}, p, d, core.NewTimer(d.FlightTime, 0)}
}

func (d *LiveDrone) Kind() EntityKind          { return KindProjectile }
func (d *LiveDrone) Glyph() (rune, core.Color) { return '¤', playerColor(d.player.ID) }

func (d *LiveDrone) Update(g *Game, millis float64) {
	d.snapshot()
	p := d.player
	d.flight.Tick(millis)
	if d.flight.Finished() || !p.pad.Held(core.ActionUse) || !p.Alive() || !g.Tiles.InBounds(int(d.Pos.X), int(d.Pos.Y)) {
		d.end()
		return
	}
	ax := axis(p.pad, core.ActionLeft, core.ActionRight)
	ay := axis(p.pad, core.ActionUp, core.ActionDown)
	if ax == 0 && ay == 0 {
		d.Vel = core.Vec2{}
	} else {
		step := 1.0 / 3200 * millis / 15
		d.Vel.X = core.ClampF(d.Vel.X+ax*step, -1.0/50, 1.0/50)
		d.Vel.Y = core.ClampF(d.Vel.Y+ay*step, -1.0/50, 1.0/50)
	}
	before := d.Vel
	g.move(&d.Entity, millis, true)
	hitWall := (before.X != 0 && d.Vel.X == 0) || (before.Y != 0 && d.Vel.Y == 0)
	if !hitWall && firstOverlapping(monsterTargets(g.Monsters), d.Bounds()) == nil {
		return
	}
	t0 := g.closestTile(&d.Entity)
	for t := range g.Tiles.IterRange(t0.Pos(), d.item.Radius) {
		g.addItem(newBoom(t, g.cfg.Items.BoomFuseMs))
	}
	for _, m := range g.Monsters {
		if m.Alive() && m.Pos.Dist(t0.Pos()) <= d.item.Radius {
			m.HitFrom(g, t0.Pos(), d.item.Damage, 1)
		}
	}
	g.play("boom")
	d.end()
}

func (d *LiveDrone) end() {
	d.Dead = true
	d.item.landed(d.player)
}

// SaberStrike is the one-frame hit of a power saber swing.
type SaberStrike struct {
	itemBase
	Damage float64
	Power  float64
	StunMs float64
	player *Player
	timer  core.Timer
	struck bool
}

func newSaberStrike(p *Player, damage, power, stun float64) *SaberStrike {
	e := newEntity(p.Pos.Add(core.V(0.75*p.Facing, 0)), p.BBox)
	e.Facing = p.Facing
	return &SaberStrike{itemBase{e}, damage, power, stun, p, core.NewTimer(100, 0), false}
}

func (s *SaberStrike) Kind() EntityKind          { return KindHazard }
func (s *SaberStrike) Glyph() (rune, core.Color) { return '/', core.ColorBrightCyan }

func (s *SaberStrike) Update(g *Game, millis float64) {
	if !s.struck {
		s.struck = true
		hits := overlapping(g.targetsFor(s.player), s.Bounds())
		for _, t := range hits {
			t.Stun(s.StunMs)
			t.HitFrom(g, s.player.Pos, s.Damage, s.Power)
		}
		if len(hits) == 0 {
			g.hitTile(g.closestTile(&s.Entity), s.player.Pos, s.Damage, "cut")
		}
	}
	if s.timer.Tick(millis) {
		s.Dead = true
	}
}

// Reticle marks where an aimed weapon points.
type Reticle struct {
	itemBase
	player *Player
	angle  *float64
}

func newReticle(p *Player, angle *float64) *Reticle {
	r := &Reticle{itemBase{newEntity(p.Pos, core.R(0.4, 0.4, 0.2, 0.2))}, p, angle}
	r.CanFall = false
	return r
}

func (r *Reticle) Kind() EntityKind          { return KindDecoration }
func (r *Reticle) Glyph() (rune, core.Color) { return '+', playerColor(r.player.ID) }

func (r *Reticle) Update(*Game, float64) {
	if !r.player.Aiming || !r.player.Alive() {
		r.Dead = true
		return
	}
	r.Pos = r.player.Pos.Add(angleVec(*r.angle).Scale(2))
}

const (
	bladeExtendMs   = 500
	bladeExtendedMs = 2000
	bladeRetractMs  = 2000
	bladeContactMs  = 500
)

// TrapBlade is the blade companion of a TrapBlock. Extension runs from 0
// (inside the block) to 1 (the cell above).
type TrapBlade struct {
	itemBase
	X, Y      int
	Mode      tilemap.TrapMode
	Extension float64
	extending bool
	hold      core.Timer
	contact   core.Timer
}

func newTrapBlade(t tilemap.Tile) *TrapBlade {
	b := &TrapBlade{
		itemBase: itemBase{newEntity(t.Pos(), core.R(0.125, 0.25, 0.75, 0.75))},
		X:        t.X,
		Y:        t.Y,
		Mode:     t.Trap,
		hold:     core.NewTimer(bladeRetractMs, 0),
		contact:  core.NewTimer(bladeContactMs, bladeContactMs),
	}
	b.CanFall = false
	if t.Trap == tilemap.TrapStatic {
		b.Extension = 1
	}
	b.place()
	return b
}

func (b *TrapBlade) Kind() EntityKind { return KindHazard }

func (b *TrapBlade) Glyph() (rune, core.Color) {
	if b.Extension < 0.5 {
		return 0, core.ColorDefault
	}
	return '▲', core.ColorBrightWhite
}

func (b *TrapBlade) place() {
	b.Pos = core.V(float64(b.X), core.ClampF(float64(b.Y)-b.Extension, float64(b.Y-1), float64(b.Y)))
}

func (b *TrapBlade) Update(g *Game, millis float64) {
	if g.Tiles.At(b.X, b.Y).Kind != tilemap.TrapBlock {
		b.Dead = true
		return
	}
	switch b.Mode {
	case tilemap.TrapStatic:
		b.Extension = 1
	case tilemap.TrapCycling:
		b.cycle(millis)
	case tilemap.TrapContact:
		block := g.Tiles.At(b.X, b.Y)
		if b.Extension == 0 && !b.extending {
			for _, p := range g.Players {
				if p.Alive() && p.standingOn(block) && b.contact.Finished() {
					b.contact.Reset()
				}
			}
			if b.contact.Tick(millis) {
				b.extending = true
			}
		} else {
			b.cycle(millis)
		}
	}
	b.place()
	if b.Extension < 0.5 {
		return
	}
	r := b.Bounds()
	for _, m := range g.Monsters {
		if m.Alive() && m.HitBounds().Collide(r) {
			m.HitFrom(g, b.Pos, 1, 0)
			m.Stun(500)
		}
	}
	for _, p := range g.Players {
		if p.Alive() && p.HitBounds().Collide(r) {
			p.HitFrom(g, b.Pos, 1, 0)
		}
	}
}

// cycle runs retracted -> extending -> extended -> retracting. Contact
// blades stop once retracted and wait for the next trigger.
func (b *TrapBlade) cycle(millis float64) {
	speed := millis / bladeExtendMs
	switch {
	case b.extending:
		b.Extension = math.Min(1, b.Extension+speed)
		if b.Extension == 1 {
			b.extending = false
			b.hold.Set(bladeExtendedMs, 0)
		}
	case b.Extension == 1:
		if b.hold.Tick(millis) {
			b.Extension -= speed
		}
	case b.Extension > 0:
		b.Extension = math.Max(0, b.Extension-speed)
		if b.Extension == 0 {
			b.hold.Set(bladeRetractMs, 0)
		}
	default:
		if b.Mode == tilemap.TrapCycling && b.hold.Tick(millis) {
			b.extending = true
		}
	}
}
