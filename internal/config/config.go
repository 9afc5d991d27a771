// Package config provides YAML-based cartridge configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// StompConfig contains all configuration for the Stomp cartridge.
type StompConfig struct {
	Screen  StompScreen  `yaml:"screen"`
	Physics StompPhysics `yaml:"physics"`
	Player  StompPlayer  `yaml:"player"`
	Enemies StompEnemies `yaml:"enemies"`
}

// StompScreen defines the logical playfield.
type StompScreen struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// StompPhysics defines physics parameters for Stomp.
type StompPhysics struct {
	Gravity     float64 `yaml:"gravity"`
	JumpPower   float64 `yaml:"jump_power"` // Negative is upward
	MoveSpeed   float64 `yaml:"move_speed"`
	GroundY     float64 `yaml:"ground_y"`
	StompBounce float64 `yaml:"stomp_bounce"` // Fraction of jump power after a stomp
}

// StompPlayer defines player parameters for Stomp.
type StompPlayer struct {
	StartX float64 `yaml:"start_x"`
	MaxX   float64 `yaml:"max_x"` // Screen width minus sprite width
}

// StompEnemies defines enemy parameters for Stomp.
type StompEnemies struct {
	Speed         float64 `yaml:"speed"`
	MaxX          float64 `yaml:"max_x"`
	SpawnInterval int     `yaml:"spawn_interval"` // Ticks; spawn happens once the timer exceeds this
	MaxCount      int     `yaml:"max_count"`
}

// Validate checks that the configuration describes a playable game.
func (c StompConfig) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen must be positive, got %gx%g", c.Screen.Width, c.Screen.Height))
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("gravity must be positive, got %g", c.Physics.Gravity))
	}
	if c.Physics.JumpPower >= 0 {
		errs = append(errs, fmt.Errorf("jump_power must be negative (upward), got %g", c.Physics.JumpPower))
	}
	if c.Physics.GroundY <= 0 || c.Physics.GroundY >= c.Screen.Height {
		errs = append(errs, fmt.Errorf("ground_y must lie inside the screen, got %g", c.Physics.GroundY))
	}
	if c.Player.MaxX <= 0 || c.Player.StartX < 0 || c.Player.StartX > c.Player.MaxX {
		errs = append(errs, fmt.Errorf("player start_x %g must lie in [0, %g]", c.Player.StartX, c.Player.MaxX))
	}
	if c.Enemies.MaxX <= 0 {
		errs = append(errs, fmt.Errorf("enemies max_x must be positive, got %g", c.Enemies.MaxX))
	}
	if c.Enemies.SpawnInterval < 0 {
		errs = append(errs, fmt.Errorf("spawn_interval must not be negative, got %d", c.Enemies.SpawnInterval))
	}
	if c.Enemies.MaxCount < 1 {
		errs = append(errs, fmt.Errorf("max_count must be at least 1, got %d", c.Enemies.MaxCount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid stomp config: %w", errors.Join(errs...))
	}
	return nil
}
