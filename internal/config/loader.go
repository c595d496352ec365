package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadEscape loads the escape game configuration.
// Search order: customPath -> ~/.escape/configs/escape.yaml -> ./configs/escape.yaml -> embedded default
func LoadEscape(customPath string) (EscapeConfig, error) {
	cfg := DefaultEscapeConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("escape.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultEscapeConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/escape.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultEscapeConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultEscapeYAML, &cfg); err != nil {
		return DefaultEscapeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".escape", "configs", filename)
}

// ApplyEscapePreset modifies the config based on a difficulty preset.
func ApplyEscapePreset(cfg *EscapeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Game.StartLevelTimeMs = 90000
		cfg.Game.SpawnRateMs = 15000
		cfg.Game.PopulationCap = 12
		cfg.Game.StartingHP = 5
	case DifficultyHard:
		cfg.Game.StartLevelTimeMs = 45000
		cfg.Game.SpawnRateMs = 7000
		cfg.Game.PopulationCap = 28
		cfg.Game.StartingHP = 2
	}
}
