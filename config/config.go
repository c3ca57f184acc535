package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"

	"chessai/bots"
)

type Config struct {
	Logs LogConfig
	Game GameConfig
	AI   AIConfig
}

type LogConfig struct {
	Style string // "console" or "json"
	Level string
}

type GameConfig struct {
	Mode    string // "pvp" or "ai"
	AIColor string // "white" or "black"
}

type AIConfig struct {
	Level    int
	MinDelay time.Duration
	MaxDelay time.Duration
	Strict   bool // panic on a rejected computer move instead of skipping it
}

func Default() Config {
	return Config{
		Logs: LogConfig{Style: "console", Level: "info"},
		Game: GameConfig{Mode: "ai", AIColor: "black"},
		AI: AIConfig{
			Level:    3,
			MinDelay: 500 * time.Millisecond,
			MaxDelay: 1500 * time.Millisecond,
		},
	}
}

// LoadConfig reads the environment (and .env, if present) on top of Default.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("LOG_STYLE"); v != "" {
		cfg.Logs.Style = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
	if v := os.Getenv("GAME_MODE"); v != "" {
		cfg.Game.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("AI_COLOR"); v != "" {
		cfg.Game.AIColor = strings.ToLower(v)
	}

	var err error
	if cfg.AI.Level, err = intEnv("AI_LEVEL", cfg.AI.Level); err != nil {
		return nil, err
	}
	if cfg.AI.MinDelay, err = msEnv("AI_MIN_DELAY_MS", cfg.AI.MinDelay); err != nil {
		return nil, err
	}
	if cfg.AI.MaxDelay, err = msEnv("AI_MAX_DELAY_MS", cfg.AI.MaxDelay); err != nil {
		return nil, err
	}
	if v := os.Getenv("STRICT_MOVES"); v != "" {
		if cfg.AI.Strict, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("parsing STRICT_MOVES: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	switch c.Game.Mode {
	case "pvp", "ai":
	default:
		return fmt.Errorf("GAME_MODE must be pvp or ai, got %q", c.Game.Mode)
	}
	switch c.Game.AIColor {
	case "white", "black":
	default:
		return fmt.Errorf("AI_COLOR must be white or black, got %q", c.Game.AIColor)
	}
	if c.AI.Level < bots.MinLevel || c.AI.Level > bots.MaxLevel {
		return fmt.Errorf("AI_LEVEL must be in %d..%d, got %d", bots.MinLevel, bots.MaxLevel, c.AI.Level)
	}
	if c.AI.MinDelay < 0 || c.AI.MaxDelay < c.AI.MinDelay {
		return fmt.Errorf("AI delay bounds must satisfy 0 <= min <= max, got %v..%v", c.AI.MinDelay, c.AI.MaxDelay)
	}
	return nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("converting string to int: %s: %w", key, err)
	}
	return n, nil
}

func msEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("converting string to int: %s: %w", key, err)
	}
	return time.Duration(n) * time.Millisecond, nil
}
