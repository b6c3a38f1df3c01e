package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Orchestrator struct {
		BatchSize int32 `yaml:"batch_size"`
	} `yaml:"orchestrator"`
	CPU struct {
		Randomness  float64 `yaml:"randomness"`
		NeedsWeight float64 `yaml:"needs_weight"`
		// PositionalValue maps position abbreviations to value multipliers
		// (>1 = premium position).
		PositionalValue map[string]float64 `yaml:"positional_value"`
	} `yaml:"cpu"`
	// Board weights enable custom-board CPU selection when any are non-zero.
	Board struct {
		Production  float64 `yaml:"production"`
		Athleticism float64 `yaml:"athleticism"`
		Conference  float64 `yaml:"conference"`
		Consensus   float64 `yaml:"consensus"`
	} `yaml:"board"`
	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	Outbox struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		BatchSize    int32         `yaml:"batch_size"`
	} `yaml:"outbox"`
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

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Orchestrator.BatchSize <= 0 {
		c.Orchestrator.BatchSize = 16
	}
	if c.CPU.Randomness == 0 {
		c.CPU.Randomness = 0.5
	}
	if c.CPU.NeedsWeight == 0 {
		c.CPU.NeedsWeight = 0.5
	}
	if len(c.CPU.PositionalValue) == 0 {
		c.CPU.PositionalValue = map[string]float64{
			"QB": 1.5,
			"OT": 1.25,
			"DE": 1.3,
			"CB": 1.2,
			"WR": 1.1,
		}
	}
	if c.NATS.URL == "" {
		c.NATS.URL = "nats://localhost:4222"
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "mockdraft"
	}
	if c.Outbox.PollInterval <= 0 {
		c.Outbox.PollInterval = 5 * time.Second
	}
	if c.Outbox.BatchSize <= 0 {
		c.Outbox.BatchSize = 100
	}
}
