package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Generator holds the synthetic-source settings. Counts are attempt counts;
// the transaction count is an upper bound (attempts predating a customer's
// join date are discarded).
type Generator struct {
	Seed         int64    `yaml:"seed"`
	Products     int      `yaml:"products"`
	Customers    int      `yaml:"customers"`
	Transactions int      `yaml:"transactions"`
	Categories   []string `yaml:"categories"`
	Channels     []string `yaml:"channels"`
	Campaigns    []string `yaml:"campaigns"`
}

// Config is the tool configuration. A missing file yields pure defaults;
// CLI flags override individual fields in main.
type Config struct {
	DSN           string    `yaml:"dsn"`
	ReferenceDate string    `yaml:"reference_date"` // "YYYY-MM-DD", the engine's "now"
	LogMode       string    `yaml:"log_mode"`
	Generator     Generator `yaml:"generator"`
}

// Default returns the built-in configuration: the synthetic source sized and
// dated like the reference dataset (two years of orders observed from
// 2024-12-31).
func Default() Config {
	return Config{
		ReferenceDate: "2024-12-31",
		LogMode:       "dev",
		Generator: Generator{
			Seed:         1,
			Products:     100,
			Customers:    10000,
			Transactions: 50000,
			Categories:   []string{"Electronics", "Clothing", "Home & Garden", "Sports", "Books", "Beauty", "Toys"},
			Channels:     []string{"Organic Search", "Paid Search", "Social Media", "Email", "Direct", "Referral"},
			Campaigns:    []string{"Summer Sale", "Black Friday", "New Year", "Spring Collection", "Flash Deal"},
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := c.Reference(); err != nil {
		return err
	}
	g := c.Generator
	if g.Products < 0 || g.Customers < 0 || g.Transactions < 0 {
		return fmt.Errorf("generator counts must be >= 0")
	}
	if len(g.Categories) == 0 || len(g.Channels) == 0 {
		return fmt.Errorf("generator needs at least one category and one channel")
	}
	return nil
}

// Reference parses the reference date as the UTC instant the engine treats
// as "now".
func (c Config) Reference() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", c.ReferenceDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("reference_date: %w", err)
	}
	return t, nil
}
