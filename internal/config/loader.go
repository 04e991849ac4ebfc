package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvAddr       = "DROPDUEL_ADDR"
	EnvSSHAddr    = "DROPDUEL_SSH_ADDR"
	EnvDB         = "DROPDUEL_DB"
	EnvLogLevel   = "DROPDUEL_LOG_LEVEL"
	EnvSeed       = "DROPDUEL_SEED"
	EnvDifficulty = "DROPDUEL_DIFFICULTY"
)

// Load reads the configuration.
// Search order: customPath -> ~/.dropduel/config.yaml -> ./configs/dropduel.yaml -> embedded default.
// Values missing from the chosen file keep their defaults. A .env file in the
// working directory is loaded first, then DROPDUEL_* variables are applied.
func Load(customPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: cannot load .env: %w", err)
	}

	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if cfg.Game.Difficulty != "" && !ApplyPreset(&cfg.Game, cfg.Game.Difficulty) {
		return cfg, fmt.Errorf("config: unknown game.difficulty %q", cfg.Game.Difficulty)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile returns the first readable YAML configuration layered over Default().
func loadFile(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "dropduel.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dropduel", filename)
}

// applyEnv overrides cfg with any DROPDUEL_* variables that are set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Server.Address = v
	}
	if v, ok := lookup(EnvSSHAddr); ok {
		cfg.SSH.Address = v
	}
	if v, ok := lookup(EnvDB); ok {
		cfg.Storage.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvDifficulty); ok && v != "" {
		cfg.Game.Difficulty = Preset(v)
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.Game.Seed = seed
	}
	return nil
}
