package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ArenaConfig describes one arena and its fixed difficulty level.
type ArenaConfig struct {
	ID    string
	Level int
}

// ServerConfig holds runtime settings loaded from the environment.
type ServerConfig struct {
	Port         string
	GRPCPort     string
	Arenas       []ArenaConfig
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string // optional client bundle served at /
}

// Load reads an optional dotenv file and then the process environment.
// A missing file is not an error; a malformed one is.
func Load(envFile string) (ServerConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return ServerConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	arenas, err := ParseArenas(getEnv("SNAKE_ARENAS", fmt.Sprintf("%s:%d", DefaultArenaID, DefaultLevel)))
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Port:         getEnv("PORT", "8080"),
		GRPCPort:     getEnv("GRPC_PORT", "9090"),
		Arenas:       arenas,
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		ReadTimeout:  parseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("HTTP_WRITE_TIMEOUT", "15s"), 15*time.Second),
		StaticDir:    getEnv("STATIC_DIR", ""),
	}, nil
}

// ParseArenas parses "id:level" pairs separated by commas, e.g.
// "classic:1,maze:5". A bare id gets DefaultLevel.
func ParseArenas(s string) ([]ArenaConfig, error) {
	var out []ArenaConfig
	seen := make(map[string]bool)
	for _, part := range splitList(s) {
		id, levelStr, hasLevel := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("arena %q: empty id", part)
		}
		level := DefaultLevel
		if hasLevel {
			n, err := strconv.Atoi(strings.TrimSpace(levelStr))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("arena %q: invalid level %q", id, levelStr)
			}
			level = n
		}
		if seen[id] {
			return nil, fmt.Errorf("arena %q configured twice", id)
		}
		seen[id] = true
		out = append(out, ArenaConfig{ID: id, Level: level})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no arenas configured")
	}
	return out, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
