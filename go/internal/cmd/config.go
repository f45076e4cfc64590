package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridironlabs/mockdraft/go/internal/engine/cpu"
	"github.com/gridironlabs/mockdraft/go/internal/engine/trade"
	"github.com/gridironlabs/mockdraft/go/internal/models"
	"github.com/gridironlabs/mockdraft/go/internal/needsdata"
)

// Config is the server's YAML configuration. Every field has a default, so an
// absent config file still yields a runnable server.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	NATS struct {
		URL           string `yaml:"url"`
		Stream        string `yaml:"stream"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`

	Trades struct {
		ProposalTTLSeconds int     `yaml:"proposal_ttl_seconds"`
		MinAcceptFraction  float64 `yaml:"min_accept_fraction"`
	} `yaml:"trades"`

	Draft struct {
		// Order overrides the stock first-round order template.
		Order []string `yaml:"order"`
		// Needs overrides per-team preseason needs; teams not listed keep
		// the stock list.
		Needs map[string][]string `yaml:"needs"`
		// Tuning overrides the stock CPU personality for drafts created
		// without one.
		Tuning *models.CPUTuning `yaml:"tuning"`
	} `yaml:"draft"`
}

func defaultConfig() *Config {
	var cfg Config
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.NATS.URL = getEnv("NATS_URL", "nats://localhost:4222")
	cfg.NATS.Stream = "DRAFT_EVENTS"
	cfg.NATS.SubjectPrefix = "draft.events"
	cfg.Trades.ProposalTTLSeconds = 120
	cfg.Trades.MinAcceptFraction = trade.DefaultEvalProfile().MinAcceptFraction
	return &cfg
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ProposalTTL returns how long a pending trade proposal stays open.
func (c *Config) ProposalTTL() time.Duration {
	return time.Duration(c.Trades.ProposalTTLSeconds) * time.Second
}

// EvalProfile returns the CPU trade-acceptance thresholds.
func (c *Config) EvalProfile() trade.EvalProfile {
	return trade.EvalProfile{MinAcceptFraction: c.Trades.MinAcceptFraction}
}

// DraftOrder returns the configured order template, falling back to the
// stock 32-team template.
func (c *Config) DraftOrder() []string {
	if len(c.Draft.Order) > 0 {
		return c.Draft.Order
	}
	return needsdata.DefaultDraftOrder()
}

// DefaultTuning returns the CPU personality applied to drafts created
// without one: the configured profile if set, the stock profile otherwise.
func (c *Config) DefaultTuning() models.CPUTuning {
	if c.Draft.Tuning != nil {
		return *c.Draft.Tuning
	}
	return cpu.DefaultTuning()
}

// TeamNeeds merges configured overrides over the stock need lists.
func (c *Config) TeamNeeds() map[string][]models.Position {
	needs := needsdata.DefaultTeamNeeds()
	for team, positions := range c.Draft.Needs {
		override := make([]models.Position, 0, len(positions))
		for _, p := range positions {
			override = append(override, models.Position(p))
		}
		needs[team] = override
	}
	return needs
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
