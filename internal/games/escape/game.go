// Package escape implements the Escape platformer: players cross a tile
// map full of monsters to reach the exit before the floor falls away.
// The package is pure logic; the platform drives Step and draws Render.
package escape

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-escape/internal/config"
	"github.com/vovakirdan/tui-escape/internal/core"
	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/tilemap"
)

// Phase constants
const (
	PhaseTitle   = "title"
	PhaseRunning = "running"
	PhasePaused  = "paused"
	PhaseDead    = "dead"
	PhaseScores  = "scores"
	PhaseWon     = "won"
)

// Mode represents the game mode.
type Mode int

const (
	ModeCampaign    Mode = iota // Cooperative run through every level
	ModeCompetitive             // Players race each other for score
	ModeSandbox                 // Everything unlocked, nothing persisted
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game implements the Escape simulation.
type Game struct {
	mode Mode

	// World
	Tiles    *tilemap.Map
	Players  []*Player
	Monsters []*Monster
	Items    []Item
	Camera   *Camera
	Kiosk    *Kiosk

	// Run state
	phase          string
	level          int
	score          int
	cellsCollected int
	levelTimer     core.Timer
	spawnTimer     core.Timer
	scoreAdded     bool
	runEnded       bool
	won            bool
	tick           uint64

	// Controllers, indexed by core.PlayerID
	pads   [core.MaxPlayers + 1]core.Controls
	global core.Controls

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.EscapeConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand

	// Output
	logger *log.Logger
	sound  core.SoundSink
	silent core.NopSound
	events []string
	screen screenLayout
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewCompetitive creates a competitive game.
func NewCompetitive() *Game {
	return &Game{mode: ModeCompetitive}
}

// NewSandbox creates a sandbox game.
func NewSandbox() *Game {
	return &Game{mode: ModeSandbox}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	switch g.mode {
	case ModeCompetitive:
		return "competitive"
	case ModeSandbox:
		return "sandbox"
	}
	return "campaign"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	switch g.mode {
	case ModeCompetitive:
		return "Escape: Competitive"
	case ModeSandbox:
		return "Escape: Sandbox"
	}
	return "Escape"
}

// Mode returns the game mode.
func (g *Game) Mode() Mode { return g.mode }

// SetLogger routes game logs to l. A nil logger discards them.
func (g *Game) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	g.logger = l
}

// SetSound routes sound cues to s in addition to Events.
func (g *Game) SetSound(s core.SoundSink) {
	g.sound = s
}

// Events returns the sound cues played during the last Step.
func (g *Game) Events() []string {
	return slices.Clone(g.events)
}

// Config returns the tuning in effect.
func (g *Game) Config() config.EscapeConfig { return g.cfg }

// Reset initializes or restarts the game at the title screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.logger == nil {
		g.SetLogger(nil)
	}

	// Load game config
	cfg, err := config.LoadEscape(configPath)
	if err != nil {
		g.logger.Warn("using default config", "err", err)
		cfg = config.DefaultEscapeConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyEscapePreset(&cfg, difficultyPreset)
	}
	g.ResetWith(runtime, cfg)
}

// ResetWith restarts the game with explicit tuning.
func (g *Game) ResetWith(runtime core.RuntimeConfig, cfg config.EscapeConfig) {
	g.runtime = runtime
	g.cfg = cfg
	if g.logger == nil {
		g.SetLogger(nil)
	}
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed)) //#nosec G404 -- gameplay randomness

	g.phase = PhaseTitle
	g.level = 0
	g.score = 0
	g.tick = 0
	g.Players = nil
	g.Monsters = nil
	g.Items = nil
	g.Kiosk = nil
	g.events = g.events[:0]
	g.scoreAdded = false
	g.won = false
	for i := range g.pads {
		g.pads[i] = core.NewControls()
	}
	g.global = core.NewControls()
	g.Tiles = tilemap.NewMap(cfg.Game.DimW, cfg.Game.DimH)
	g.layout()
	g.Camera = NewCamera(g.screen.viewW, g.screen.viewH, cfg.Game.DimW, cfg.Game.DimH)
}

// Step advances the game by one frame of millis milliseconds.
func (g *Game) Step(in core.MultiInputFrame, millis float64) core.StepResult {
	if millis <= 0 {
		millis = g.cfg.Game.DefaultFrameMs
	}
	millis = math.Min(millis, g.cfg.Game.MaxFrameMs)
	g.events = g.events[:0]
	g.runEnded = false
	g.tick++

	g.global.Load(in.Merged())
	for id := core.Player1; id <= core.MaxPlayers; id++ {
		g.pads[id].Load(in.Player(id))
	}

	switch g.phase {
	case PhaseTitle, PhaseScores, PhaseWon:
		if g.global.Pressed(core.ActionDash) || g.global.Pressed(core.ActionUse) {
			g.startGame()
		}
	case PhasePaused:
		if g.global.Pressed(core.ActionMenu) {
			g.phase = PhaseRunning
		}
	case PhaseRunning, PhaseDead:
		if g.phase == PhaseRunning && g.global.Pressed(core.ActionMenu) {
			g.phase = PhasePaused
			break
		}
		if g.phase == PhaseDead && g.global.Pressed(core.ActionDash) {
			g.phase = PhaseScores
			break
		}
		g.simulate(millis)
	}

	g.global.Snapshot()
	for i := range g.pads {
		g.pads[i].Snapshot()
	}
	return core.StepResult{State: g.State(), RunEnded: g.runEnded}
}

// simulate runs one simulation step in phase order: players, level timer,
// items, monsters, sweep, termination, spawning, camera.
func (g *Game) simulate(millis float64) {
	if g.phase == PhaseRunning {
		g.joinCheck()
	}
	for _, p := range g.Players {
		p.Update(g, millis)
		if p.pad.Pressed(core.ActionCamera) && p.Alive() {
			g.Camera.Focus = p
		}
	}

	if g.levelTimer.Tick(millis) {
		g.collapseFloor()
	}
	if g.mode == ModeCompetitive && g.levelTimer.Elapsed >= g.levelTimer.Duration/2 {
		end := g.Tiles.EndTile()
		if end.Locked {
			g.Tiles.Update(end.X, end.Y, func(t *tilemap.Tile) { t.Locked = false })
		}
	}

	for i := 0; i < len(g.Items); i++ {
		if it := g.Items[i]; !it.Base().Dead {
			it.Update(g, millis)
		}
	}
	for _, m := range g.Monsters {
		if !m.Dead {
			m.Update(g, millis)
		}
	}
	g.sweep()

	if g.phase == PhaseRunning {
		g.checkTermination()
	}
	if g.phase == PhaseRunning && g.spawnTimer.Tick(millis) {
		g.spawnTimer.Set(g.difficulty.SpawnInterval(g.cfg.Game.SpawnRateMs, g.level-1), 0)
		if len(g.Monsters) < g.cfg.Game.PopulationCap {
			g.spawnMonster()
		}
	}
	g.Camera.Update(g.Players, millis)
}

// sweep drops dead items then dead monsters.
func (g *Game) sweep() {
	g.Items = slices.DeleteFunc(g.Items, func(it Item) bool { return it.Base().Dead })
	g.Monsters = slices.DeleteFunc(g.Monsters, func(m *Monster) bool { return m.Dead })
}

func (g *Game) checkTermination() {
	allDead, allOut := true, true
	for _, p := range g.Players {
		if !p.Dead {
			allDead = false
		}
		if !p.Dead && !p.Escaped {
			allOut = false
		}
	}
	if len(g.Players) == 0 {
		return
	}
	if allDead && g.mode != ModeCompetitive {
		g.addScore(false)
		g.phase = PhaseDead
		g.addItem(newDelayedSound("gameOver", 1000))
		g.logger.Info("game over", "level", g.level, "score", g.score)
		return
	}
	if !allOut {
		return
	}
	if g.level >= g.cfg.Game.NumLevels {
		if g.mode != ModeCompetitive {
			g.addScore(true)
		}
		g.won = true
		g.phase = PhaseWon
		g.logger.Info("run won", "score", g.State().Score)
		return
	}
	g.level++
	g.startLevel()
}

// collapseFloor queues booms along the bottom row, left to right.
func (g *Game) collapseFloor() {
	for x := 1; x < g.Tiles.W-1; x++ {
		t := g.Tiles.At(x, g.Tiles.H-1)
		g.addItem(newBoom(t, 1000+20*float64(x-1)))
	}
	g.play("alarm")
	g.logger.Debug("level time up", "level", g.level)
}

// joinCheck attaches a new player for a controller that presses dash.
func (g *Game) joinCheck() {
	for id := core.Player1; id <= core.MaxPlayers; id++ {
		if g.pads[id].Pressed(core.ActionDash) && g.playerFor(id) == nil {
			p := g.newPlayer(id)
			if start := g.Tiles.StartTile(); !start.IsVoid() {
				p.Pos = start.Pos()
			}
			g.Players = append(g.Players, p)
			g.logger.Info("player joined", "player", id)
		}
	}
}

func (g *Game) playerFor(id core.PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) newPlayer(id core.PlayerID) *Player {
	p := NewPlayer(id, &g.pads[id], g.cfg)
	if g.mode == ModeSandbox {
		for _, k := range AllItemKinds() {
			p.Equip(k)
		}
		p.Resources.Have = p.Resources.Max
	}
	if g.mode == ModeCompetitive {
		if f, ok := p.Item(ItemFist).(*Fist); ok {
			f.HitDamage = 1
		}
	}
	return p
}

// startGame begins a run with every controller that pressed start, or
// player one when none did.
func (g *Game) startGame() {
	g.Players = nil
	for id := core.Player1; id <= core.MaxPlayers; id++ {
		if g.pads[id].Pressed(core.ActionDash) || g.pads[id].Pressed(core.ActionUse) {
			g.Players = append(g.Players, g.newPlayer(id))
		}
	}
	if len(g.Players) == 0 {
		g.Players = append(g.Players, g.newPlayer(core.Player1))
	}
	g.level = 1
	g.score = 0
	g.scoreAdded = false
	g.won = false
	g.cellsCollected = 2
	g.phase = PhaseRunning
	g.logger.Info("run started", "mode", g.ID(), "players", len(g.Players))
	g.startLevel()
}

// startLevel generates the current level and moves every player to its
// entrance. Generation failure is fatal.
func (g *Game) startLevel() {
	g.levelTimer = core.NewTimer(g.cfg.Game.StartLevelTimeMs, 0)
	g.spawnTimer = core.NewTimer(g.difficulty.SpawnInterval(g.cfg.Game.SpawnRateMs, g.level-1), 0)

	cc := g.cellsCollected
	if g.mode == ModeCompetitive {
		cc = 1
	}
	g.Kiosk = NewKiosk(g, cc)

	if err := g.generateLevel(g.level); err != nil {
		g.logger.Error("level generation failed", "level", g.level, "err", err)
		panic(fmt.Errorf("escape: generate level %d: %w", g.level, err))
	}

	start := g.Tiles.StartTile()
	for _, p := range g.Players {
		p.Pos = start.Pos()
		p.OldPos = p.Pos
		p.Vel = core.Vec2{}
		p.Escaped = false
		p.Piloting = false
		p.Aiming = false
		if p.Dead {
			p.Revive(g.mode == ModeCompetitive)
		}
	}
	g.Camera = NewCamera(g.screen.viewW, g.screen.viewH, g.Tiles.W, g.Tiles.H)
	g.Camera.Reset(g.Players)
	g.logger.Info("level started", "level", g.level, "monsters", len(g.Monsters))
}

// addScore marks the run for persistence once. Sandbox runs never count.
func (g *Game) addScore(won bool) {
	if g.mode == ModeSandbox || g.scoreAdded {
		return
	}
	g.scoreAdded = true
	g.runEnded = true
	g.won = won
}

func (g *Game) addItem(it Item) {
	g.Items = append(g.Items, it)
}

// play emits a one-shot sound cue.
func (g *Game) play(name string) {
	g.events = append(g.events, name)
	if g.sound != nil {
		g.sound.Play(name, 0, false, true)
	}
}

// playLoop starts a looping cue and returns its handle.
func (g *Game) playLoop(name string) core.SoundHandle {
	g.events = append(g.events, name)
	if g.sound != nil {
		return g.sound.Play(name, 0, true, true)
	}
	return g.silent.Play(name, 0, true, true)
}

// nearestPlayer returns the closest living player to pos, or nil.
func (g *Game) nearestPlayer(pos core.Vec2) (*Player, float64) {
	var best *Player
	bestD := math.Inf(1)
	for _, p := range g.Players {
		if !p.Alive() {
			continue
		}
		if d := p.Pos.Dist(pos); d < bestD {
			best, bestD = p, d
		}
	}
	return best, bestD
}

func (g *Game) firstLiving() *Player {
	for _, p := range g.Players {
		if p.Alive() {
			return p
		}
	}
	return nil
}

// targetsFor returns what a player's attacks can hit: every monster, plus
// the other players in competitive play once ten seconds have passed.
func (g *Game) targetsFor(owner *Player) []Target {
	out := monsterTargets(g.Monsters)
	if g.mode == ModeCompetitive && g.levelTimer.Elapsed >= 10000 {
		for _, p := range g.Players {
			if p != owner {
				out = append(out, p)
			}
		}
	}
	return out
}

// targetsForMonster returns what a monster's shots can hit.
func (g *Game) targetsForMonster(owner *Monster) []Target {
	var out []Target
	for _, m := range g.Monsters {
		if m != owner {
			out = append(out, m)
		}
	}
	for _, p := range g.Players {
		out = append(out, p)
	}
	return out
}

func (g *Game) allTargets() []Target {
	out := monsterTargets(g.Monsters)
	for _, p := range g.Players {
		out = append(out, p)
	}
	return out
}

func monsterTargets(ms []*Monster) []Target {
	out := make([]Target, 0, len(ms))
	for _, m := range ms {
		out = append(out, m)
	}
	return out
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		Level:    g.level,
		Phase:    g.phase,
		GameOver: g.phase == PhaseDead || g.phase == PhaseWon || g.phase == PhaseScores,
		Won:      g.won,
		Paused:   g.phase == PhasePaused,
	}
}

// Score returns the run score. Competitive runs report the best player.
func (g *Game) Score() int {
	if g.mode != ModeCompetitive {
		return g.score
	}
	best := 0.0
	for _, p := range g.Players {
		best = math.Max(best, p.Score)
	}
	return int(best)
}

// Level returns the current 1-based level, 0 before a run starts.
func (g *Game) Level() int { return g.level }

// Phase returns the current phase name.
func (g *Game) Phase() string { return g.phase }

// LevelTimeLeft returns the milliseconds before the floor collapses.
func (g *Game) LevelTimeLeft() float64 { return g.levelTimer.Remaining() }

// CellsCollected returns the data cells picked up this level.
func (g *Game) CellsCollected() int { return g.cellsCollected }

func init() {
	registry.Register("campaign", func() registry.Game {
		return New()
	})
	registry.Register("competitive", func() registry.Game {
		return NewCompetitive()
	})
	registry.Register("sandbox", func() registry.Game {
		return NewSandbox()
	})
}
