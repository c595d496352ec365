// Package config provides YAML-based tuning for the escape game and
// difficulty management across levels.
package config

// EscapeConfig contains all tuning for the escape simulation.
type EscapeConfig struct {
	Game       GameSettings     `yaml:"game"`
	Player     PlayerSettings   `yaml:"player"`
	Monster    MonsterSettings  `yaml:"monster"`
	Items      ItemSettings     `yaml:"items"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GameSettings defines level, timer and population parameters.
type GameSettings struct {
	DimW             int     `yaml:"dim_w"`
	DimH             int     `yaml:"dim_h"`
	ViewW            int     `yaml:"view_w"` // 0 derives the viewport from the screen
	ViewH            int     `yaml:"view_h"`
	StartLevelTimeMs float64 `yaml:"start_level_time_ms"`
	NumLevels        int     `yaml:"num_levels"`
	SpawnRateMs      float64 `yaml:"spawn_rate_ms"`
	PopulationCap    int     `yaml:"population_cap"`
	MaxFrameMs       float64 `yaml:"max_frame_ms"`
	DefaultFrameMs   float64 `yaml:"default_frame_ms"`
	StartingHP       float64 `yaml:"starting_hp"`
	CellsBase        int     `yaml:"cells_base"`
}

// PlayerSettings defines player motion. Speeds are in tiles per
// millisecond; accel and gravity are per 15ms frame.
type PlayerSettings struct {
	TopSpeed            float64          `yaml:"top_speed"`
	JumpSpeed           float64          `yaml:"jump_speed"`
	MaxFallSpeed        float64          `yaml:"max_fall_speed"`
	Accel               float64          `yaml:"accel"`
	Gravity             float64          `yaml:"gravity"`
	DodgeMultiplier     float64          `yaml:"dodge_multiplier"`
	DodgeMs             float64          `yaml:"dodge_ms"`
	DashMs              float64          `yaml:"dash_ms"`
	DashSpeedMultiplier float64          `yaml:"dash_speed_multiplier"`
	DashStunMs          float64          `yaml:"dash_stun_ms"`
	DashKnockback       float64          `yaml:"dash_knockback"`
	ImmunityMs          float64          `yaml:"immunity_ms"`
	ShortHopMs          float64          `yaml:"short_hop_ms"`
	Resources           ResourceSettings `yaml:"resources"`
}

// ResourceSettings defines the starting resource pool and its caps.
type ResourceSettings struct {
	Energy    float64 `yaml:"energy"`
	Alloy     float64 `yaml:"alloy"`
	Biotic    float64 `yaml:"biotic"`
	MaxEnergy float64 `yaml:"max_energy"`
	MaxAlloy  float64 `yaml:"max_alloy"`
	MaxBiotic float64 `yaml:"max_biotic"`
}

// MonsterSettings defines the baseline monster stats.
type MonsterSettings struct {
	TopSpeed     float64 `yaml:"top_speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	Gravity      float64 `yaml:"gravity"`
	SpawnGraceMs float64 `yaml:"spawn_grace_ms"`
	HitDamage    float64 `yaml:"hit_damage"`
	DeathStunMs  float64 `yaml:"death_stun_ms"`
}

// ItemSettings defines transient item parameters.
type ItemSettings struct {
	GrenadeTimerMs float64 `yaml:"grenade_timer_ms"`
	GrenadeRadius  float64 `yaml:"grenade_radius"`
	GrenadeDamage  float64 `yaml:"grenade_damage"`
	BoomFuseMs     float64 `yaml:"boom_fuse_ms"`
	ShotSpeed      float64 `yaml:"shot_speed"`
	TreasureEnergy float64 `yaml:"treasure_energy"`
}

// DifficultyConfig defines how the game hardens as levels advance.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Level at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to monster speed at max difficulty
	SpawnReduction  float64 `yaml:"spawn_reduction"`  // Fraction cut from the spawn interval at max difficulty
	ExtraMonsters   int     `yaml:"extra_monsters"`   // Monsters added per level at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI name to a preset. Unknown names yield "".
func ParsePreset(name string) DifficultyPreset {
	switch DifficultyPreset(name) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(name)
	}
	return ""
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
