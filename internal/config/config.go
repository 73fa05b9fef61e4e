package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Database DatabaseConfig    `yaml:"database"`
	Hermes   HermesConfig      `yaml:"hermes"`
	Ranking  RankingConfig     `yaml:"ranking"`
	Criteria []CriterionConfig `yaml:"criteria"`
	Logging  LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit_per_minute"`
}

// DatabaseConfig selects the session store. An empty URL keeps candidates
// and criteria in memory for the lifetime of the process.
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type RankingConfig struct {
	TierThreshold       float64 `yaml:"tier_threshold"`
	RecomputeDebounceMs int     `yaml:"recompute_debounce_ms"`
	ParetoEnabled       bool    `yaml:"pareto_enabled"`
	RunLogSize          int     `yaml:"run_log_size"`
}

// CriterionConfig seeds the criteria of a fresh session and is the target
// of a criteria reset.
type CriterionConfig struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Unit        string  `yaml:"unit"`
	Direction   string  `yaml:"direction"`
	Weight      float64 `yaml:"weight"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func (c *Config) RecomputeDebounce() time.Duration {
	return time.Duration(c.Ranking.RecomputeDebounceMs) * time.Millisecond
}

// DefaultCriteria returns the influencer criteria used when the config file
// does not define any.
func DefaultCriteria() []CriterionConfig {
	return []CriterionConfig{
		{ID: "C1", Name: "Followers", Description: "Total followers across social platforms", Unit: "followers", Direction: "benefit", Weight: 0.20},
		{ID: "C2", Name: "Engagement rate", Description: "Interaction rate on published content", Unit: "%", Direction: "benefit", Weight: 0.30},
		{ID: "C3", Name: "Brand fit", Description: "Fit with the fashion brand", Unit: "score", Direction: "benefit", Weight: 0.25},
		{ID: "C4", Name: "Endorsement cost", Description: "Fee charged per endorsement", Unit: "IDR", Direction: "cost", Weight: 0.15},
		{ID: "C5", Name: "Endorsement experience", Description: "Track record with previous endorsements", Unit: "score", Direction: "benefit", Weight: 0.10},
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
		Ranking: RankingConfig{
			TierThreshold:       0.6,
			RecomputeDebounceMs: 250,
			ParetoEnabled:       false,
			RunLogSize:          50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if len(cfg.Criteria) == 0 {
		cfg.Criteria = DefaultCriteria()
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the ranking policy and the default criteria. Weights that
// do not sum to 1.0 are allowed here; the ranking endpoint reports them.
func (c *Config) Validate() error {
	t := c.Ranking.TierThreshold
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("ranking.tier_threshold %v outside [0, 1]", t)
	}
	if c.Ranking.RunLogSize <= 0 {
		return fmt.Errorf("ranking.run_log_size must be positive, got %d", c.Ranking.RunLogSize)
	}
	seen := make(map[string]bool, len(c.Criteria))
	for i, cr := range c.Criteria {
		if cr.ID == "" {
			return fmt.Errorf("criteria[%d]: id required", i)
		}
		if seen[cr.ID] {
			return fmt.Errorf("criteria[%d]: duplicate id %q", i, cr.ID)
		}
		seen[cr.ID] = true
		if cr.Direction != "benefit" && cr.Direction != "cost" {
			return fmt.Errorf("criteria[%d]: direction %q must be benefit or cost", i, cr.Direction)
		}
		if cr.Weight < 0 || cr.Weight > 1 {
			return fmt.Errorf("criteria[%d]: weight %v outside [0, 1]", i, cr.Weight)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ENDORSE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ENDORSE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ENDORSE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ENDORSE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ENDORSE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("ENDORSE_TIER_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.TierThreshold = f
		}
	}
	if v := os.Getenv("ENDORSE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.RecomputeDebounceMs = n
		}
	}
	if v := os.Getenv("ENDORSE_PARETO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ranking.ParetoEnabled = b
		}
	}
	if v := os.Getenv("ENDORSE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ENDORSE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ENDORSE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
