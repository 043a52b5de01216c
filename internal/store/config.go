package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"swing-trade-engine/internal/scoring"
)

// Config is the engine configuration loaded from config.yaml. The API key
// itself never lives here; only the name of the environment variable that
// holds it.
type Config struct {
	DataSource string `yaml:"data_source"` // LIVE or FILE
	APIKeyEnv  string `yaml:"api_key_env"`

	Benchmark string `yaml:"benchmark"`

	Scoring struct {
		Weights scoring.Weights `yaml:"weights"`
	} `yaml:"scoring"`

	Output struct {
		Format string `yaml:"format"` // text or json
	} `yaml:"output"`
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.DataSource != "LIVE" && c.DataSource != "FILE" {
		return fmt.Errorf("invalid data_source '%s': must be 'LIVE' or 'FILE'", c.DataSource)
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("invalid output.format '%s': must be 'text' or 'json'", c.Output.Format)
	}
	// the score is bounded by the weight total
	if total := c.Scoring.Weights.Total(); total != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", total)
	}
	return nil
}

// LoadConfig reads, defaults and validates the config file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "LIVE"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "ALPHAVANTAGE_API_KEY"
	}
	if c.Benchmark == "" {
		c.Benchmark = "^GSPC"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Scoring.Weights == (scoring.Weights{}) {
		c.Scoring.Weights = scoring.DefaultWeights()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
