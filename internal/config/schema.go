package config

import "time"

// AgentConfig represents the complete agent configuration
type AgentConfig struct {
	Model      ModelParams      `yaml:"model"`
	Agent      LoopConfig       `yaml:"agent"`
	Tools      ToolsConfig      `yaml:"tools"`
	Guardrails GuardrailsConfig `yaml:"guardrails"`
	Images     ImagesConfig     `yaml:"images"`
}

// ModelParams are the invocation parameters shared by every LLM call the agent makes
type ModelParams struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

// LoopConfig bounds the tool-calling loop
type LoopConfig struct {
	MaxSteps        int  `yaml:"max_steps"`
	HistoryMessages int  `yaml:"history_messages"`
	InputGuardrails bool `yaml:"input_guardrails"`
	LLMGuardrails   bool `yaml:"llm_guardrails"`
}

type ToolsConfig struct {
	Search     SearchConfig     `yaml:"search"`
	Explore    ExploreConfig    `yaml:"explore"`
	RunSQL     RunSQLConfig     `yaml:"run_sql"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Fetch      FetchConfig      `yaml:"fetch"`
}

type SearchConfig struct {
	MaxResults int           `yaml:"max_results"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

type ExploreConfig struct {
	MaxRows int `yaml:"max_rows"`
}

// RunSQLConfig limits how many rows the MCP run_sql tool returns
type RunSQLConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

type TranscriptConfig struct {
	Language string `yaml:"language"`
}

type FetchConfig struct {
	MaxChars int           `yaml:"max_chars"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GuardrailsConfig struct {
	RejectVacuousWhere bool `yaml:"reject_vacuous_where"`
}

type ImagesConfig struct {
	Model        string        `yaml:"model"`
	SignedURLTTL time.Duration `yaml:"signed_url_ttl"`
}
