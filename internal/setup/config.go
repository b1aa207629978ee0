package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/database"
)

const DefaultModel = "anthropic:claude-sonnet-4-5-20250929"

type Config struct {
	Model           string
	PromptFile      string
	AgentConfigFile string
	ImagePromptFile string

	AWSRegion        string
	AnthropicKey     string
	OpenAIKey        string
	TavilyKey        string
	LangSmithKey     string
	LangSmithProject string

	DatabaseURL string
	Postgres    database.Config

	GoogleAIKey        string
	GCSBucket          string
	GoogleCloudProject string
	ImagesDir          string

	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration

	APIPort      string
	SaveApproval string
	LogLevel     string
	LogFormat    string
}

func LoadConfig() *Config {
	return &Config{
		Model:           getEnv("RECIPE_AGENT_MODEL", DefaultModel),
		PromptFile:      getEnv("RECIPE_AGENT_PROMPT_FILE", "prompts/default_prompt.txt"),
		AgentConfigFile: getEnv("RECIPE_AGENT_CONFIG", "configs/agent.yaml"),
		ImagePromptFile: getEnv("RECIPE_AGENT_IMAGE_PROMPT_FILE", "prompts/image_prompt.txt"),

		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		TavilyKey:        getEnv("TAVILY_API_KEY", ""),
		LangSmithKey:     getEnv("LANGSMITH_API_KEY", ""),
		LangSmithProject: getEnv("LANGSMITH_PROJECT", "recipe-agent"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		Postgres: database.Config{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "recipes"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},

		GoogleAIKey:        getEnv("GOOGLE_AI_API_KEY", ""),
		GCSBucket:          getEnv("GCS_BUCKET_NAME", ""),
		GoogleCloudProject: getEnv("GOOGLE_CLOUD_PROJECT", ""),
		ImagesDir:          getEnv("IMAGES_DIR", "images"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTTL:      getEnvDuration("REDIS_TTL", 30*time.Minute),

		APIPort:      getEnv("AGENT_API_PORT", "8081"),
		SaveApproval: getEnv("SAVE_APPROVAL", "ask"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
	}
}

// DatabaseConnString prefers DATABASE_URL and falls back to the POSTGRES_*
// variables. Empty means no database is configured.
func (c *Config) DatabaseConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.Postgres.Host == "" {
		return ""
	}
	return c.Postgres.ConnectionString()
}

// ModelSpec is a parsed RECIPE_AGENT_MODEL value.
type ModelSpec struct {
	Provider string
	ModelID  string
}

func (m ModelSpec) String() string {
	return m.Provider + ":" + m.ModelID
}

// ParseModel splits "provider:model-id" on the first colon. A value without
// a known provider prefix is treated as a Bedrock model id, since Bedrock ids
// may themselves contain colons.
func ParseModel(value string) (ModelSpec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ModelSpec{}, fmt.Errorf("model must not be empty")
	}

	provider, model, found := strings.Cut(value, ":")
	if !found {
		return ModelSpec{Provider: "bedrock", ModelID: value}, nil
	}

	provider = strings.ToLower(provider)
	switch provider {
	case "bedrock", "anthropic", "openai":
	default:
		return ModelSpec{Provider: "bedrock", ModelID: value}, nil
	}

	if model == "" {
		return ModelSpec{}, fmt.Errorf("model id missing in %q", value)
	}
	return ModelSpec{Provider: provider, ModelID: model}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// bare integers are seconds
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
