package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mdevers/yachtroom/internal/session"
)

// Config is the optional YAML game settings file. Every field has a
// sensible default so the server runs without one.
type Config struct {
	Game struct {
		TurnSeconds     int `yaml:"turn_seconds"`
		MaxParticipants int `yaml:"max_participants"`
		CodeLength      int `yaml:"code_length"`
		IdleMinutes     int `yaml:"idle_minutes"`
	} `yaml:"game"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// sessionConfig merges the YAML file (when present) over the defaults.
func sessionConfig(cfg *Config) session.Config {
	out := session.DefaultConfig()
	if cfg == nil {
		return out
	}
	if cfg.Game.TurnSeconds > 0 {
		out.TurnSeconds = cfg.Game.TurnSeconds
	}
	if cfg.Game.MaxParticipants > 0 {
		out.MaxParticipants = cfg.Game.MaxParticipants
	}
	if cfg.Game.CodeLength > 0 {
		out.CodeLength = cfg.Game.CodeLength
	}
	if cfg.Game.IdleMinutes > 0 {
		out.IdleTimeout = time.Duration(cfg.Game.IdleMinutes) * time.Minute
	}
	return out
}
