// Package config provides YAML-based configuration loading for the duel
// server and clients, with .env and environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	SSH     SSHConfig     `yaml:"ssh"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Game    GameConfig    `yaml:"game"`
}

// ServerConfig defines the HTTP/websocket gateway.
type ServerConfig struct {
	Address        string        `yaml:"address"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // Empty allows any origin
	WriteWait      time.Duration `yaml:"write_wait"`
	PongWait       time.Duration `yaml:"pong_wait"`
	PingPeriod     time.Duration `yaml:"ping_period"` // Must be shorter than pong_wait
	MaxMessageSize int64         `yaml:"max_message_size"`
	SendBuffer     int           `yaml:"send_buffer"`
}

// SSHConfig defines the optional Wish SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"` // Empty disables the SSH server
	HostKeyPath string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// StorageConfig defines match history persistence.
type StorageConfig struct {
	Path string `yaml:"path"` // Empty disables match history
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// GameConfig holds the rules every new session is created with.
type GameConfig struct {
	Difficulty     Preset `yaml:"difficulty"` // Optional; overrides fill and garbage rules
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	MinFill        int    `yaml:"min_fill"`
	MaxFill        int    `yaml:"max_fill"`
	PointsPerPiece int    `yaml:"points_per_piece"`
	GarbageDivisor int    `yaml:"garbage_divisor"`
	GarbageMatches bool   `yaml:"garbage_matches"`
	Seed           int64  `yaml:"seed"` // 0 seeds from the clock
}

// Rules converts the game section to session rules.
func (g GameConfig) Rules() drop.Rules {
	return drop.Rules{
		Width:          g.Width,
		Height:         g.Height,
		MinFill:        g.MinFill,
		MaxFill:        g.MaxFill,
		PointsPerPiece: g.PointsPerPiece,
		GarbageDivisor: g.GarbageDivisor,
		GarbageMatches: g.GarbageMatches,
	}
}

// Validate rejects configurations the game or server cannot run with.
func (c Config) Validate() error {
	g := c.Game
	if g.Width < 3 {
		return fmt.Errorf("config: game.width must be at least 3, got %d", g.Width)
	}
	if g.Height < 3 {
		return fmt.Errorf("config: game.height must be at least 3, got %d", g.Height)
	}
	if g.MinFill < 0 || g.MinFill > g.Height {
		return fmt.Errorf("config: game.min_fill must be within [0, %d], got %d", g.Height, g.MinFill)
	}
	if g.MaxFill < g.MinFill || g.MaxFill > g.Height {
		return fmt.Errorf("config: game.max_fill must be within [%d, %d], got %d", g.MinFill, g.Height, g.MaxFill)
	}
	if g.GarbageDivisor < 1 {
		return fmt.Errorf("config: game.garbage_divisor must be at least 1, got %d", g.GarbageDivisor)
	}
	if g.PointsPerPiece < 0 {
		return fmt.Errorf("config: game.points_per_piece must not be negative, got %d", g.PointsPerPiece)
	}
	if _, ok := presets[g.Difficulty]; g.Difficulty != "" && !ok {
		return fmt.Errorf("config: unknown game.difficulty %q", g.Difficulty)
	}

	s := c.Server
	if s.PongWait <= 0 || s.PingPeriod <= 0 || s.WriteWait <= 0 {
		return fmt.Errorf("config: server timeouts must be positive")
	}
	if s.PingPeriod >= s.PongWait {
		return fmt.Errorf("config: server.ping_period (%s) must be shorter than pong_wait (%s)", s.PingPeriod, s.PongWait)
	}
	if s.MaxMessageSize <= 0 {
		return fmt.Errorf("config: server.max_message_size must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}
