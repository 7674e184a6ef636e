package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridchain/fantasydraft/internal/models"
)

// Config is the on-disk draft room configuration. Store connection details
// come from the environment so the same file works across deployments.
type Config struct {
	Draft struct {
		ID                 string   `yaml:"id"`
		TotalTeams         int      `yaml:"total_teams"`
		TotalRounds        int      `yaml:"total_rounds"`
		SecondsPerPick     int      `yaml:"seconds_per_pick"`
		ThirdRoundReversal bool     `yaml:"third_round_reversal"`
		OrderMode          string   `yaml:"order_mode"`
		ManualOrder        []string `yaml:"manual_order"`
		ScheduledStart     string   `yaml:"scheduled_start"` // RFC 3339, empty = unscheduled
	} `yaml:"draft"`
	Teams []struct {
		ID          string `yaml:"id"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"teams"`
	PlayersFile string `yaml:"players_file"`
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
	if config.Draft.ID == "" {
		return nil, fmt.Errorf("draft.id is required")
	}
	return &config, nil
}

func (c *Config) draftConfig() (models.DraftConfig, error) {
	cfg := models.DraftConfig{
		TotalTeams:         c.Draft.TotalTeams,
		TotalRounds:        c.Draft.TotalRounds,
		SecondsPerPick:     c.Draft.SecondsPerPick,
		ThirdRoundReversal: c.Draft.ThirdRoundReversal,
		OrderMode:          models.OrderMode(c.Draft.OrderMode),
		ManualOrder:        c.Draft.ManualOrder,
	}
	if cfg.OrderMode != models.OrderModeRandom && cfg.OrderMode != models.OrderModeManual {
		return cfg, fmt.Errorf("unknown order_mode %q", c.Draft.OrderMode)
	}
	if c.Draft.ScheduledStart != "" {
		start, err := time.Parse(time.RFC3339, c.Draft.ScheduledStart)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse scheduled_start: %w", err)
		}
		cfg.ScheduledStart = start
	}
	return cfg, nil
}

func (c *Config) teams() []models.Team {
	out := make([]models.Team, 0, len(c.Teams))
	for _, t := range c.Teams {
		out = append(out, models.Team{ID: t.ID, DisplayName: t.DisplayName})
	}
	return out
}

// loadPlayers reads the ranked player reference list (JSON array).
func loadPlayers(path string) ([]models.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read players file: %w", err)
	}

	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("failed to parse players file: %w", err)
	}
	return players, nil
}
