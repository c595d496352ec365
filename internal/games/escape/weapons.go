package escape

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-escape/internal/config"
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// aimAngle maps the held directions to one of eight angles in degrees.
// 0 points right and 90 points down.
func aimAngle(c *core.Controls, facing float64) float64 {
	up, down := c.Held(core.ActionUp), c.Held(core.ActionDown)
	left, right := c.Held(core.ActionLeft), c.Held(core.ActionRight)
	switch {
	case up && left:
		return 225
	case up && right:
		return 315
	case up:
		return 270
	case down && left:
		return 135
	case down && right:
		return 45
	case down:
		return 90
	case facing < 0:
		return 180
	}
	return 0
}

func angleVec(deg float64) core.Vec2 {
	r := deg * math.Pi / 180
	return core.V(math.Cos(r), math.Sin(r))
}

func axis(c *core.Controls, neg, pos core.Action) float64 {
	v := 0.0
	if c.Held(neg) {
		v--
	}
	if c.Held(pos) {
		v++
	}
	return v
}

// aim is the shared aim-and-release flow of the grapple, rifle and rocket
// launcher: a use press starts aiming, up/down sweep the angle, release fires.
type aim struct {
	angle   float64
	aiming  bool
	reticle *Reticle
}

func (a *aim) start(g *Game, p *Player, angle float64) {
	a.angle = angle
	a.aiming = true
	p.Aiming = true
	a.reticle = newReticle(p, &a.angle)
	g.addItem(a.reticle)
}

func (a *aim) steer(p *Player, millis float64) {
	step := 3 * millis / 15 * p.Facing
	if p.pad.Held(core.ActionUp) {
		a.angle -= step
	}
	if p.pad.Held(core.ActionDown) {
		a.angle += step
	}
	a.angle = math.Mod(a.angle+360, 360)
}

func (a *aim) stop(p *Player) {
	a.aiming = false
	p.Aiming = false
}

func (a *aim) detach(_ *Game, p *Player) {
	if a.aiming {
		a.stop(p)
	}
}

// Fist punches the first target in reach, or the tile there.
type Fist struct {
	itemSlot
	HitPower  float64
	HitDamage float64
	StunMs    float64
	cooldown  core.Timer
}

func newFist(s itemSlot) *Fist {
	return &Fist{itemSlot: s, HitPower: 1, HitDamage: 0.5, StunMs: 2000, cooldown: core.NewTimer(500, 500)}
}

func (f *Fist) Update(g *Game, millis float64, p *Player) {
	f.cooldown.Tick(millis)
	if !p.pad.Pressed(core.ActionUse) || !f.cooldown.Finished() {
		return
	}
	b := p.Bounds()
	vt := axis(p.pad, core.ActionUp, core.ActionDown)
	hz := p.Facing
	if vt != 0 && axis(p.pad, core.ActionLeft, core.ActionRight) == 0 {
		hz = 0
	}
	box := b.Shift(core.V(hz*b.W, vt*b.H*0.5))
	if t := firstOverlapping(g.targetsFor(p), box); t != nil {
		if m, ok := t.(*Monster); ok {
			m.Facing = -p.Facing
			m.Falling = true
		}
		t.Stun(f.StunMs)
		t.HitFrom(g, p.Pos, f.HitDamage, f.HitPower)
		f.cooldown.Reset()
		g.play("punch")
		return
	}
	g.hitTile(g.Tiles.ClosestTile(box), p.Pos, 0.5, "blunt")
}

func (f *Fist) Upgrade(tier int) {
	switch tier {
	case 1:
		f.HitPower *= 1.2
	case 2:
		f.HitDamage += 0.5
	}
}

// Gun fires straight shots in one of eight directions while use is held.
type Gun struct {
	itemSlot
	Reload   float64
	Damage   float64
	Cost     Resources
	speed    float64
	lastShot core.Timer
	loaded   bool
}

func newGun(s itemSlot, cfg config.ItemSettings) *Gun {
	return &Gun{itemSlot: s, Reload: 1000, Damage: 1, Cost: Resources{Energy: 1}, speed: cfg.ShotSpeed, lastShot: core.NewTimer(1000, 2000)}
}

func (gn *Gun) Update(g *Game, millis float64, p *Player) {
	gn.lastShot.Tick(millis)
	if !p.pad.Held(core.ActionUse) || !gn.lastShot.Finished() {
		return
	}
	if !gn.loaded {
		g.play("gunReload")
		gn.loaded = true
	}
	if !p.Resources.Use(gn.Cost) {
		return
	}
	angle := aimAngle(p.pad, p.Facing)
	g.addItem(newShot(p, nil, gn.Damage, angle, p.Facing, gn.speed))
	gn.lastShot.Set(gn.Reload, 0)
	gn.loaded = false
	g.play(fmt.Sprintf("gunFire%d", core.Clamp(int(gn.Damage), 1, 3)))
}

func (gn *Gun) Upgrade(tier int) {
	switch tier {
	case 1:
		gn.Reload /= 2
	case 2:
		gn.Damage++
	}
}

func (gn *Gun) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(gn.Cost), true
}

// Grenade throws a LiveGrenade on a use press.
type Grenade struct {
	itemSlot
	Damage float64
	Radius float64
	Cost   Resources
	fuse   float64
}

func newGrenade(s itemSlot, cfg config.ItemSettings) *Grenade {
	return &Grenade{
		itemSlot: s,
		Damage:   cfg.GrenadeDamage,
		Radius:   cfg.GrenadeRadius,
		Cost:     Resources{Energy: 1, Alloy: 2, Biotic: 1},
		fuse:     cfg.GrenadeTimerMs,
	}
}

func (gr *Grenade) Update(g *Game, millis float64, p *Player) {
	if !p.pad.Pressed(core.ActionUse) || !p.Resources.CanUse(gr.Cost) {
		return
	}
	var vel core.Vec2
	switch {
	case p.pad.Held(core.ActionDown):
		vel = p.Vel
	case p.pad.Held(core.ActionUp):
		vel = p.Vel.Add(core.V(p.Facing/250, -1.0/80))
	default:
		vel = p.Vel.Add(core.V(p.Facing/80, -1.0/300))
	}
	g.addItem(newLiveGrenade(g, p, vel, gr.fuse, gr.Radius, gr.Damage))
	p.Resources.Use(gr.Cost)
	g.play("throw")
}

func (gr *Grenade) Upgrade(tier int) {
	switch tier {
	case 1:
		gr.Radius++
	case 2:
		gr.Damage++
	}
}

func (gr *Grenade) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(gr.Cost), true
}

// Wrench rigs the adjacent tile, or a monster in front, to blow up.
type Wrench struct {
	itemSlot
	BreakTime float64
	BoomTime  float64
	Cost      Resources
	cooldown  core.Timer
}

func newWrench(s itemSlot) *Wrench {
	return &Wrench{itemSlot: s, BreakTime: 1000, BoomTime: 2000, Cost: Resources{Energy: 2}, cooldown: core.NewTimer(2000, 4000)}
}

func (w *Wrench) Update(g *Game, millis float64, p *Player) {
	w.cooldown.Tick(millis)
	if p.Falling || !p.pad.Pressed(core.ActionUse) || !p.Resources.CanUse(w.Cost) || !w.cooldown.Finished() {
		return
	}
	t := g.closestTile(&p.Entity)
	switch {
	case p.pad.Held(core.ActionUp):
		t = g.Tiles.Above(t)
	case p.pad.Held(core.ActionDown):
		t = g.Tiles.Below(t)
	default:
		b := p.Bounds()
		box := b.Shift(core.V(p.Facing*b.W, 0))
		for _, m := range g.Monsters {
			if m.Alive() && !m.Drone && m.HitBounds().Collide(box) {
				g.addItem(newMonsterBoom(m, p, w.BoomTime, p.Facing))
				p.Resources.Use(w.Cost)
				w.cooldown.Set(w.cooldown.Duration, -w.BoomTime)
				g.play("wrench")
				return
			}
		}
		if p.Facing < 0 {
			t = g.Tiles.LeftOf(t)
		} else {
			t = g.Tiles.RightOf(t)
		}
	}
	if t.IsVoid() || t.Kind == tilemap.Floor || t.Kind == tilemap.Exit || t.Kind.IsKiosk() {
		return
	}
	g.addItem(newBoom(t, w.BreakTime))
	p.Resources.Use(w.Cost)
	w.cooldown.Set(w.cooldown.Duration, -w.BreakTime)
	g.play("wrench")
}

func (w *Wrench) Upgrade(tier int) {
	switch tier {
	case 1:
		w.BoomTime /= 2
	case 2:
		w.BreakTime /= 2
	}
}

func (w *Wrench) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(w.Cost), true
}

// JetPack burns energy for lift while use is held.
type JetPack struct {
	itemSlot
	Power     float64
	EnergyUse float64 // per millisecond
	handle    core.SoundHandle
}

func newJetPack(s itemSlot) *JetPack {
	return &JetPack{itemSlot: s, Power: 1.0 / 400, EnergyUse: 1.0 / 1000}
}

func (j *JetPack) Update(g *Game, millis float64, p *Player) {
	if !p.pad.Held(core.ActionUse) || !p.Resources.Use(Resources{Energy: j.EnergyUse * millis}) {
		j.idle()
		return
	}
	p.Vel.Y -= 1.0 / 2400 * millis / 15
	t := g.closestTile(&p.Entity)
	lifting := p.pad.Held(core.ActionUp) || (t.Passable && !g.Tiles.Below(t).Passable)
	if lifting {
		p.Vel.Y = math.Max(p.Vel.Y, -j.Power)
	} else {
		p.Vel.Y = math.Max(p.Vel.Y, 0)
	}
	p.Falling = true
	if j.handle == nil {
		j.handle = g.playLoop("jetpack")
	} else if j.handle.Paused() {
		j.handle.Resume()
	}
}

func (j *JetPack) idle() {
	if j.handle != nil && !j.handle.Paused() {
		j.handle.Pause()
	}
}

func (j *JetPack) detach(*Game, *Player) { j.idle() }

func (j *JetPack) Upgrade(tier int) {
	switch tier {
	case 1:
		j.EnergyUse *= 0.9
	case 2:
		j.Power *= 1.2
	}
}

func (j *JetPack) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(Resources{Energy: j.EnergyUse}) / 1000, true
}

// GrappleGun aims a reticle. The grapple line itself is not fired.
type GrappleGun struct {
	itemSlot
	aim
	Power float64
	Cost  Resources
}

func newGrappleGun(s itemSlot) *GrappleGun {
	return &GrappleGun{itemSlot: s, Power: 1.0 / 200, Cost: Resources{Alloy: 1}}
}

func (gg *GrappleGun) Update(g *Game, millis float64, p *Player) {
	if p.pad.Pressed(core.ActionUse) && !gg.aiming && p.Resources.CanUse(gg.Cost) {
		gg.start(g, p, 270)
	}
	if gg.aiming && p.pad.Held(core.ActionUse) {
		gg.steer(p, millis)
	}
	if gg.aiming && p.pad.Released(core.ActionUse) {
		gg.stop(p)
	}
}

func (gg *GrappleGun) Upgrade(int) { gg.Power *= 1.2 }

func (gg *GrappleGun) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(gg.Cost), true
}

// RocketLauncher aims on press and launches a LiveRocket on release.
type RocketLauncher struct {
	itemSlot
	aim
	Reload    float64
	Damage    float64
	Blast     float64
	AccelTime float64
	Cost      Resources
	lastShot  core.Timer
}

func newRocketLauncher(s itemSlot) *RocketLauncher {
	return &RocketLauncher{
		itemSlot:  s,
		Reload:    5000,
		Damage:    3,
		Blast:     2,
		AccelTime: 300,
		Cost:      Resources{Energy: 2, Alloy: 2, Biotic: 1},
		lastShot:  core.NewTimer(5000, 6000),
	}
}

func (r *RocketLauncher) Update(g *Game, millis float64, p *Player) {
	if r.lastShot.Tick(millis) {
		g.play("rocketReload")
	}
	if p.pad.Pressed(core.ActionUse) && !r.aiming && r.lastShot.Finished() && p.Resources.CanUse(r.Cost) {
		r.start(g, p, facingAngle(p.Facing))
	}
	if !r.aiming {
		return
	}
	if p.pad.Held(core.ActionUse) {
		r.steer(p, millis)
		return
	}
	r.stop(p)
	if !p.Resources.Use(r.Cost) {
		return
	}
	g.addItem(newLiveRocket(p, r.angle, r.Damage, r.Blast, r.AccelTime))
	r.lastShot.Set(r.Reload, 0)
	g.play("rocketFire")
}

func (r *RocketLauncher) Upgrade(tier int) {
	switch tier {
	case 1:
		r.Reload /= 2
	case 2:
		r.Damage++
	}
}

func (r *RocketLauncher) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(r.Cost), true
}

// Rifle aims like the rocket launcher but fires a fast Shot.
type Rifle struct {
	itemSlot
	aim
	Reload   float64
	Damage   float64
	Cost     Resources
	speed    float64
	lastShot core.Timer
}

func newRifle(s itemSlot, cfg config.ItemSettings) *Rifle {
	return &Rifle{itemSlot: s, Reload: 1000, Damage: 1, Cost: Resources{Energy: 1}, speed: cfg.ShotSpeed, lastShot: core.NewTimer(1000, 2000)}
}

func (r *Rifle) Update(g *Game, millis float64, p *Player) {
	if r.lastShot.Tick(millis) {
		g.play("rifleReload")
	}
	if p.pad.Pressed(core.ActionUse) && !r.aiming && r.lastShot.Finished() && p.Resources.CanUse(r.Cost) {
		r.start(g, p, facingAngle(p.Facing))
	}
	if !r.aiming {
		return
	}
	if p.pad.Held(core.ActionUse) {
		r.steer(p, millis)
		return
	}
	r.stop(p)
	if !p.Resources.Use(r.Cost) {
		return
	}
	g.addItem(newShot(p, nil, r.Damage, r.angle, p.Facing, r.speed*2))
	r.lastShot.Set(r.Reload, 0)
	g.play("rifleFire")
}

func (r *Rifle) Upgrade(tier int) {
	switch tier {
	case 1:
		r.Reload /= 2
	case 2:
		r.Damage++
	}
}

func (r *Rifle) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(r.Cost), true
}

// Shotgun sprays ShotFrags in the aimed direction.
type Shotgun struct {
	itemSlot
	Reload   float64
	Damage   float64
	Range    float64
	Cost     Resources
	lastShot core.Timer
}

func newShotgun(s itemSlot) *Shotgun {
	return &Shotgun{itemSlot: s, Reload: 1000, Damage: 2, Range: 2, Cost: Resources{Energy: 1, Alloy: 1}, lastShot: core.NewTimer(1000, 2000)}
}

func (sg *Shotgun) Update(g *Game, millis float64, p *Player) {
	if sg.lastShot.Tick(millis) {
		g.play("shotgunReload")
	}
	if !p.pad.Held(core.ActionUse) || !sg.lastShot.Finished() || !p.Resources.Use(sg.Cost) {
		return
	}
	g.addItem(newShotFrags(p, aimAngle(p.pad, p.Facing), sg.Damage, sg.Range))
	sg.lastShot.Set(sg.Reload, 0)
	g.play("shotgunFire")
}

func (sg *Shotgun) Upgrade(tier int) {
	switch tier {
	case 1:
		sg.Reload *= 0.8
	case 2:
		sg.Damage++
	}
}

func (sg *Shotgun) Value(p *Player) (float64, bool) {
	return p.Resources.MaxUse(sg.Cost), true
}

// PowerSaber charges while use is held and strikes on release.
type PowerSaber struct {
	itemSlot
	Power       float64
	Damage      float64
	ChargeBonus float64
	ChargeTime  float64
	StunMs      float64
	Cost        Resources
	charge      float64
	cooldown    core.Timer
}

func newPowerSaber(s itemSlot) *PowerSaber {
	return &PowerSaber{
		itemSlot:    s,
		Power:       0.25,
		Damage:      1,
		ChargeBonus: 1,
		ChargeTime:  1000,
		StunMs:      500,
		Cost:        Resources{Energy: 2},
		cooldown:    core.NewTimer(500, 500),
	}
}

func (s *PowerSaber) Update(g *Game, millis float64, p *Player) {
	s.cooldown.Tick(millis)
	if p.pad.Held(core.ActionUse) && p.Resources.CanUse(s.Cost) {
		s.charge += millis
	}
	if !p.pad.Released(core.ActionUse) {
		return
	}
	if s.cooldown.Finished() {
		dmg := s.Damage
		if s.charge >= s.ChargeTime && p.Resources.Use(s.Cost) {
			dmg += s.ChargeBonus
		}
		g.addItem(newSaberStrike(p, dmg, s.Power, s.StunMs))
		s.cooldown.Reset()
		g.play("saber")
	}
	s.charge = 0
}

func (s *PowerSaber) Upgrade(tier int) {
	switch tier {
	case 1:
		s.ChargeTime *= 0.9
	case 2:
		s.ChargeBonus++
	}
}

// Value is the charge in percent.
func (s *PowerSaber) Value(*Player) (float64, bool) {
	return math.Floor(100 * math.Min(s.charge, s.ChargeTime) / s.ChargeTime), true
}

// Drone launches a player-steered LiveDrone that explodes on contact.
type Drone struct {
	itemSlot
	BuildTime  float64
	FlightTime float64
	Damage     float64
	Radius     float64
	Cost       Resources
	lastBuild  core.Timer
	live       *LiveDrone
}

func newDrone(s itemSlot) *Drone {
	return &Drone{
		itemSlot:   s,
		BuildTime:  5000,
		FlightTime: 5000,
		Damage:     1,
		Radius:     1,
		Cost:       Resources{Alloy: 1, Biotic: 1},
		lastBuild:  core.NewTimer(5000, 11000),
	}
}

func (d *Drone) Update(g *Game, millis float64, p *Player) {
	if d.live == nil {
		d.lastBuild.Tick(millis)
	}
	if !p.pad.Held(core.ActionUse) || d.live != nil || !d.lastBuild.Finished() {
		return
	}
	if !p.Resources.Use(d.Cost) {
		return
	}
	d.live = newLiveDrone(p, d)
	p.Piloting = true
	g.addItem(d.live)
	g.play("droneLaunch")
}

// landed is called by the live drone when its flight ends.
func (d *Drone) landed(p *Player) {
	d.live = nil
	d.lastBuild.Set(d.BuildTime, 0)
	p.Piloting = false
	p.Falling = true
}

func (d *Drone) Upgrade(tier int) {
	switch tier {
	case 1:
		d.BuildTime *= 0.8
	case 2:
		d.FlightTime += 1000
	}
}

func (d *Drone) Value(*Player) (float64, bool) {
	return d.lastBuild.Remaining() / 1000, true
}

func facingAngle(facing float64) float64 {
	if facing < 0 {
		return 180
	}
	return 0
}
