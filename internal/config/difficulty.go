package config

import "math"

// DifficultyManager calculates level-dependent game parameters.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty (0.0 to 1.0) for a zero-based game level.
func (d *DifficultyManager) Level(gameLevel int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "level":
		progress = float64(gameLevel) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed scales a monster speed from base to base * (1 + speedMultiplier).
func (d *DifficultyManager) Speed(baseSpeed float64, gameLevel int) float64 {
	return baseSpeed * (1.0 + d.Level(gameLevel)*d.cfg.Scaling.SpeedMultiplier)
}

// SpawnInterval shortens the monster spawn interval as difficulty rises.
func (d *DifficultyManager) SpawnInterval(baseMs float64, gameLevel int) float64 {
	reduction := clampF(d.Level(gameLevel)*d.cfg.Scaling.SpawnReduction, 0, 0.9)
	result := baseMs * (1 - reduction)
	if result < 1000 { // Minimum sane interval
		result = 1000
	}
	return result
}

// ExtraMonsters returns how many monsters to add on top of a level's base count.
func (d *DifficultyManager) ExtraMonsters(gameLevel int) int {
	return int(d.Level(gameLevel) * float64(d.cfg.Scaling.ExtraMonsters))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
