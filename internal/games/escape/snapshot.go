package escape

import "math"

// Snapshot contains the observable game state for replay verification.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick      uint64
	Phase     string
	Level     int
	Score     int
	LevelTime float64

	// Each player is 7 values: ID, X, Y, VX, VY, HP, State
	PlayerData []float64

	// Each monster is 5 values: Kind, X, Y, HP, Stance
	MonsterData []float64

	ItemCount int

	// Tile kinds, row-major
	TileData []uint8
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:      g.tick,
		Phase:     g.phase,
		Level:     g.level,
		Score:     g.Score(),
		LevelTime: g.levelTimer.Elapsed,
		ItemCount: len(g.Items),
	}
	for _, p := range g.Players {
		s.PlayerData = append(s.PlayerData,
			float64(p.ID), p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y, p.HP, float64(p.State))
	}
	for _, m := range g.Monsters {
		s.MonsterData = append(s.MonsterData,
			float64(m.Kind), m.Pos.X, m.Pos.Y, m.HP, float64(m.Stance))
	}
	if g.Tiles != nil {
		s.TileData = make([]uint8, 0, g.Tiles.W*g.Tiles.H)
		for t := range g.Tiles.IterAll() {
			s.TileData = append(s.TileData, uint8(t.Kind))
		}
	}
	return s
}

// Hash returns a hash of the snapshot for determinism comparison.
func (s Snapshot) Hash() uint64 {
	h := s.Tick
	h = h*31 + uint64(s.Level)
	h = h*31 + uint64(s.Score)
	h = h*31 + math.Float64bits(s.LevelTime)
	for _, c := range s.Phase {
		h = h*31 + uint64(c)
	}
	for _, v := range s.PlayerData {
		h = h*31 + math.Float64bits(v)
	}
	for _, v := range s.MonsterData {
		h = h*31 + math.Float64bits(v)
	}
	h = h*31 + uint64(s.ItemCount)
	for _, k := range s.TileData {
		h = h*31 + uint64(k)
	}
	return h
}
