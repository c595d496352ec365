package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg EscapeConfig
	if err := yaml.Unmarshal(defaultEscapeYAML, &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	def := DefaultEscapeConfig()
	if cfg.Game != def.Game {
		t.Errorf("embedded game = %+v, expected %+v", cfg.Game, def.Game)
	}
	if cfg.Player.Resources != def.Player.Resources {
		t.Errorf("embedded resources = %+v, expected %+v", cfg.Player.Resources, def.Player.Resources)
	}
	if cfg.Difficulty.Progression != def.Difficulty.Progression {
		t.Errorf("embedded progression = %+v, expected %+v", cfg.Difficulty.Progression, def.Difficulty.Progression)
	}
}

func TestLoadEscapeCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("game:\n  num_levels: 5\n  population_cap: 8\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEscape(path)
	if err != nil {
		t.Fatalf("LoadEscape() error = %v", err)
	}
	if cfg.Game.NumLevels != 5 {
		t.Errorf("NumLevels = %d, expected 5", cfg.Game.NumLevels)
	}
	if cfg.Game.PopulationCap != 8 {
		t.Errorf("PopulationCap = %d, expected 8", cfg.Game.PopulationCap)
	}
	if cfg.Game.StartLevelTimeMs != 60000 {
		t.Errorf("StartLevelTimeMs = %v, expected default 60000", cfg.Game.StartLevelTimeMs)
	}
}

func TestLoadEscapeErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadEscape(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadEscape() on a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("game: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEscape(bad); err == nil {
		t.Error("LoadEscape() on malformed yaml should fail")
	}
}

func TestLoadEscapeSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := LoadEscape("")
	if err != nil {
		t.Fatalf("LoadEscape() error = %v", err)
	}
	if cfg.Game.NumLevels != 30 {
		t.Errorf("embedded NumLevels = %d, expected 30", cfg.Game.NumLevels)
	}

	if err := os.MkdirAll(filepath.Join(work, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "configs", "escape.yaml"), []byte("game:\n  num_levels: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadEscape("")
	if cfg.Game.NumLevels != 7 {
		t.Errorf("local NumLevels = %d, expected 7", cfg.Game.NumLevels)
	}

	userDir := filepath.Join(home, ".escape", "configs")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "escape.yaml"), []byte("game:\n  num_levels: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = LoadEscape("")
	if cfg.Game.NumLevels != 9 {
		t.Errorf("user NumLevels = %d, expected 9", cfg.Game.NumLevels)
	}
}

func TestApplyEscapePreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		enabled   bool
		levelTime float64
		cap       int
	}{
		{DifficultyEasy, true, 90000, 12},
		{DifficultyNormal, true, 60000, 20},
		{DifficultyHard, true, 45000, 28},
		{DifficultyFixed, false, 60000, 20},
	}
	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultEscapeConfig()
			ApplyEscapePreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Game.StartLevelTimeMs != tc.levelTime {
				t.Errorf("StartLevelTimeMs = %v, expected %v", cfg.Game.StartLevelTimeMs, tc.levelTime)
			}
			if cfg.Game.PopulationCap != tc.cap {
				t.Errorf("PopulationCap = %d, expected %d", cfg.Game.PopulationCap, tc.cap)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if got := ParsePreset("hard"); got != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q", got)
	}
	if got := ParsePreset("nightmare"); got != "" {
		t.Errorf("ParsePreset(nightmare) = %q, expected empty", got)
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultEscapeConfig().Difficulty
	d := NewDifficultyManager(cfg)

	if got := d.Level(0); got != 0 {
		t.Errorf("Level(0) = %v, expected 0", got)
	}
	if got := d.Level(15); got != 0.5 {
		t.Errorf("Level(15) = %v, expected 0.5", got)
	}
	if got := d.Level(100); got != 1 {
		t.Errorf("Level(100) = %v, expected 1 (clamped)", got)
	}
	if got := d.Speed(2, 30); got != 3 {
		t.Errorf("Speed(2, 30) = %v, expected 3", got)
	}
	if got := d.SpawnInterval(10000, 30); got != 5000 {
		t.Errorf("SpawnInterval(10000, 30) = %v, expected 5000", got)
	}
	if got := d.SpawnInterval(1500, 30); got != 1000 {
		t.Errorf("SpawnInterval floor = %v, expected 1000", got)
	}
	if got := d.ExtraMonsters(30); got != 5 {
		t.Errorf("ExtraMonsters(30) = %d, expected 5", got)
	}

	d.SetEnabled(false)
	d.SetInitialLevel(0.7)
	if got := d.Level(30); got != 0.7 {
		t.Errorf("disabled Level() = %v, expected initial 0.7", got)
	}
}
