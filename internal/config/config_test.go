package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultStompConfigIsValid(t *testing.T) {
	if err := DefaultStompConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	cfg, err := parseStomp(defaultStompYAML)
	if err != nil {
		t.Fatalf("embedded config failed to parse: %v", err)
	}
	if cfg != DefaultStompConfig() {
		t.Errorf("embedded config = %+v, expected %+v", cfg, DefaultStompConfig())
	}
}

func TestLoadStompCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stomp.yaml")
	data := "physics:\n  gravity: 0.2\nenemies:\n  max_count: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadStomp(path)
	if err != nil {
		t.Fatalf("LoadStomp() failed: %v", err)
	}
	if cfg.Physics.Gravity != 0.2 {
		t.Errorf("Gravity = %f, expected 0.2", cfg.Physics.Gravity)
	}
	if cfg.Enemies.MaxCount != 3 {
		t.Errorf("MaxCount = %d, expected 3", cfg.Enemies.MaxCount)
	}
	// Keys absent from the file keep their defaults
	if cfg.Physics.JumpPower != -1.8 {
		t.Errorf("JumpPower = %f, expected default -1.8", cfg.Physics.JumpPower)
	}
}

func TestLoadStompErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadStomp(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("physics: [nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStomp(bad); err == nil {
		t.Error("malformed YAML should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("physics:\n  jump_power: 1.8\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadStomp(invalid)
	if err == nil || !strings.Contains(err.Error(), "jump_power") {
		t.Errorf("downward jump power should fail validation, got %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultStompConfig()
	cfg.Physics.Gravity = 0
	cfg.Enemies.MaxCount = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"gravity", "max_count"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestDifficultyPresets(t *testing.T) {
	tests := []struct {
		preset   DifficultyPreset
		maxCount int
		interval int
	}{
		{"", 5, 120},
		{DifficultyNormal, 5, 120},
		{DifficultyEasy, 3, 180},
		{DifficultyHard, 7, 75},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultStompConfig()
			ApplyStompPreset(&cfg, tc.preset)
			if cfg.Enemies.MaxCount != tc.maxCount {
				t.Errorf("MaxCount = %d, expected %d", cfg.Enemies.MaxCount, tc.maxCount)
			}
			if cfg.Enemies.SpawnInterval != tc.interval {
				t.Errorf("SpawnInterval = %d, expected %d", cfg.Enemies.SpawnInterval, tc.interval)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset config should stay valid: %v", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, ok := range []string{"", "easy", "normal", "hard"} {
		if _, err := ParseDifficulty(ok); err != nil {
			t.Errorf("ParseDifficulty(%q) failed: %v", ok, err)
		}
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("unknown difficulty should fail")
	}
}
