package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadStomp loads Stomp configuration.
// Search order: customPath -> ~/.arcade/configs/stomp.yaml -> ./configs/stomp.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadStomp(customPath string) (StompConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return StompConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseStomp(data)
		if err != nil {
			return StompConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("stomp.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseStomp(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/stomp.yaml"); err == nil {
		if cfg, err := parseStomp(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseStomp(defaultStompYAML)
	if err != nil {
		return DefaultStompConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseStomp decodes data over the hardcoded defaults and validates the result.
func parseStomp(data []byte) (StompConfig, error) {
	cfg := DefaultStompConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return StompConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return StompConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
