package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty maps a CLI value to a preset. Empty means "use the config".
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyStompPreset modifies the config based on a difficulty preset.
// Normal and empty presets leave the config untouched.
func ApplyStompPreset(cfg *StompConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Enemies.Speed = 0.2
		cfg.Enemies.SpawnInterval = 180
		cfg.Enemies.MaxCount = 3
	case DifficultyHard:
		cfg.Enemies.Speed = 0.45
		cfg.Enemies.SpawnInterval = 75
		cfg.Enemies.MaxCount = 7
	}
}
