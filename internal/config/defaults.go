package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/dropduel.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration used when no YAML is readable.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:        ":8000",
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			PingPeriod:     54 * time.Second,
			MaxMessageSize: 4096,
			SendBuffer:     16,
		},
		SSH: SSHConfig{
			HostKeyPath: "~/.dropduel/host_key",
			IdleTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			Path: "~/.dropduel/matches.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Game: GameConfig{
			Width:          8,
			Height:         12,
			MinFill:        6,
			MaxFill:        8,
			PointsPerPiece: 10,
			GarbageDivisor: 3,
			GarbageMatches: true,
		},
	}
}
