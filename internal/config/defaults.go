package config

import (
	_ "embed"
)

//go:embed defaults/stomp.yaml
var defaultStompYAML []byte

// DefaultStompConfig returns the default Stomp configuration.
func DefaultStompConfig() StompConfig {
	return StompConfig{
		Screen: StompScreen{
			Width:  40,
			Height: 30,
		},
		Physics: StompPhysics{
			Gravity:     0.15,
			JumpPower:   -1.8,
			MoveSpeed:   0.5,
			GroundY:     25,
			StompBounce: 0.7,
		},
		Player: StompPlayer{
			StartX: 18,
			MaxX:   37,
		},
		Enemies: StompEnemies{
			Speed:         0.3,
			MaxX:          37,
			SpawnInterval: 120,
			MaxCount:      5,
		},
	}
}
