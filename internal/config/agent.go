package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadAgentConfig reads the YAML file at path. A missing file is not an
// error: the defaults are returned instead.
func LoadAgentConfig(path string) (*AgentConfig, error) {
	var cfg AgentConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse agent config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read agent config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *AgentConfig {
	var cfg AgentConfig
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *AgentConfig) {
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 2048
	}
	if cfg.Agent.MaxSteps == 0 {
		cfg.Agent.MaxSteps = 6
	}
	if cfg.Agent.HistoryMessages == 0 {
		cfg.Agent.HistoryMessages = 10
	}
	if cfg.Tools.Search.MaxResults == 0 {
		cfg.Tools.Search.MaxResults = 5
	}
	if cfg.Tools.Search.CacheTTL == 0 {
		cfg.Tools.Search.CacheTTL = time.Hour
	}
	if cfg.Tools.Explore.MaxRows == 0 {
		cfg.Tools.Explore.MaxRows = 50
	}
	if cfg.Tools.RunSQL.DefaultLimit == 0 {
		cfg.Tools.RunSQL.DefaultLimit = 200
	}
	if cfg.Tools.RunSQL.MaxLimit == 0 {
		cfg.Tools.RunSQL.MaxLimit = 1000
	}
	if cfg.Tools.Transcript.Language == "" {
		cfg.Tools.Transcript.Language = "en"
	}
	if cfg.Tools.Fetch.MaxChars == 0 {
		cfg.Tools.Fetch.MaxChars = 20000
	}
	if cfg.Tools.Fetch.Timeout == 0 {
		cfg.Tools.Fetch.Timeout = 15 * time.Second
	}
	if cfg.Images.Model == "" {
		cfg.Images.Model = "gemini-2.0-flash-exp"
	}
	if cfg.Images.SignedURLTTL == 0 {
		cfg.Images.SignedURLTTL = 7 * 24 * time.Hour
	}
}

func (c *AgentConfig) Validate() error {
	if c.Model.MaxTokens < 0 {
		return fmt.Errorf("model.max_tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1, got %.2f", c.Model.Temperature)
	}
	if c.Agent.MaxSteps < 1 || c.Agent.MaxSteps > 20 {
		return fmt.Errorf("agent.max_steps must be between 1 and 20, got %d", c.Agent.MaxSteps)
	}
	if c.Agent.HistoryMessages < 0 {
		return fmt.Errorf("agent.history_messages must not be negative, got %d", c.Agent.HistoryMessages)
	}
	if c.Tools.RunSQL.DefaultLimit < 1 || c.Tools.RunSQL.DefaultLimit > c.Tools.RunSQL.MaxLimit {
		return fmt.Errorf("tools.run_sql.default_limit must be between 1 and max_limit (%d), got %d",
			c.Tools.RunSQL.MaxLimit, c.Tools.RunSQL.DefaultLimit)
	}
	if c.Tools.Explore.MaxRows < 1 {
		return fmt.Errorf("tools.explore.max_rows must be positive, got %d", c.Tools.Explore.MaxRows)
	}
	return nil
}
