package config

import (
	_ "embed"
)

//go:embed defaults/escape.yaml
var defaultEscapeYAML []byte

// DefaultEscapeConfig returns the default escape game configuration.
func DefaultEscapeConfig() EscapeConfig {
	return EscapeConfig{
		Game: GameSettings{
			DimW:             44,
			DimH:             26,
			StartLevelTimeMs: 60000,
			NumLevels:        30,
			SpawnRateMs:      10000,
			PopulationCap:    20,
			MaxFrameMs:       30,
			DefaultFrameMs:   15,
			StartingHP:       3,
			CellsBase:        3,
		},
		Player: PlayerSettings{
			TopSpeed:            1.0 / 400,
			JumpSpeed:           0.0096,
			MaxFallSpeed:        1.0 / 50,
			Accel:               1.0 / 1600,
			Gravity:             1.0 / 4800,
			DodgeMultiplier:     1.5,
			DodgeMs:             500,
			DashMs:              100,
			DashSpeedMultiplier: 3,
			DashStunMs:          1000,
			DashKnockback:       1,
			ImmunityMs:          1000,
			ShortHopMs:          200,
			Resources: ResourceSettings{
				Energy:    10,
				Alloy:     2,
				Biotic:    1,
				MaxEnergy: 30,
				MaxAlloy:  20,
				MaxBiotic: 10,
			},
		},
		Monster: MonsterSettings{
			TopSpeed:     1.0 / 600,
			JumpSpeed:    1.0 / 350,
			MaxFallSpeed: 1.0 / 50,
			Gravity:      1.0 / 4800,
			SpawnGraceMs: 1000,
			HitDamage:    1,
			DeathStunMs:  2000,
		},
		Items: ItemSettings{
			GrenadeTimerMs: 2000,
			GrenadeRadius:  1.5,
			GrenadeDamage:  3,
			BoomFuseMs:     250,
			ShotSpeed:      1.0 / 60,
			TreasureEnergy: 5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 30,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				SpawnReduction:  0.5,
				ExtraMonsters:   5,
			},
		},
	}
}
