package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/approval"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/config"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/conversation"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/database"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/imagegen"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/imagestore"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm/anthropic"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/recipe"
	redisconn "github.com/povarna/generative-ai-agents/recipe-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/tools"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const connectRetries = 5

// fallbackSystemPrompt is used when the prompt file is missing.
const fallbackSystemPrompt = "You are a helpful recipe assistant. Help users find, adapt and save recipes."

// Toolkit holds what every entry point needs: the guarded SQL path, research
// tools and session storage. No LLM client is created here.
type Toolkit struct {
	AgentConfig *config.AgentConfig
	Metrics     *metrics.Metrics
	DB          *database.DB
	Redis       *redis.Client
	Store       conversation.Store
	SQL         *tools.GuardedSQL
	Search      *tools.WebSearch
	Transcripts *tools.YouTubeTranscript
	Logger      *zerolog.Logger
}

type Dependencies struct {
	*Toolkit
	Model       ModelSpec
	LLMClient   llm.LLMClient
	Images      imagestore.Store
	Tools       *tools.Registry
	Service     *agent.Service
	PromptFound bool
	closers     []func()
}

// WireTools connects the optional backends. An empty connection string or
// Redis address leaves that backend out rather than failing.
func WireTools(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Toolkit, error) {
	agentCfg, err := config.LoadAgentConfig(cfg.AgentConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent config: %w", err)
	}

	m := metrics.New()
	tk := &Toolkit{
		AgentConfig: agentCfg,
		Metrics:     m,
		Store:       conversation.NewMemoryStore(),
		Logger:      logger,
	}

	if connString := cfg.DatabaseConnString(); connString != "" {
		db, err := database.NewWithBackoff(ctx, connString, connectRetries)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		tk.DB = db
	} else {
		logger.Warn().Msg("No database configured, recipe storage and SQL tools are disabled")
	}

	var searchCache tools.ResultCache
	if cfg.RedisAddr != "" {
		client, err := redisconn.ConnectRedis(ctx, redisconn.Options{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			MaxRetries: connectRetries,
		})
		if err != nil {
			tk.Close()
			return nil, err
		}
		tk.Redis = client
		tk.Store = conversation.NewRedisStore(client, cfg.RedisTTL, logger)
		searchCache = cache.New(client, agentCfg.Tools.Search.CacheTTL)
	} else {
		logger.Info().Msg("REDIS_ADDR not set, using in-memory sessions without search cache")
	}

	guard := guardrails.NewSQLGuard(guardrails.Options{
		RejectVacuousWhere: agentCfg.Guardrails.RejectVacuousWhere,
	})
	var executor tools.SQLExecutor
	if tk.DB != nil {
		executor = tk.DB
	}
	tk.SQL = tools.NewGuardedSQL(guard, executor, m, logger)

	tk.Search = tools.NewWebSearch(cfg.TavilyKey, agentCfg.Tools.Search.MaxResults, searchCache, logger)
	tk.Transcripts = tools.NewYouTubeTranscript(tools.NewYouTubeFetcher(), agentCfg.Tools.Transcript.Language, logger)

	return tk, nil
}

func (tk *Toolkit) Close() {
	if tk.Redis != nil {
		_ = tk.Redis.Close()
	}
	if tk.DB != nil {
		tk.DB.Close()
	}
}

// Wire builds the full agent on top of WireTools. approver decides on
// save_recipe requests.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger, approver approval.Approver) (*Dependencies, error) {
	model, err := ParseModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("invalid RECIPE_AGENT_MODEL: %w", err)
	}

	tk, err := WireTools(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Toolkit: tk, Model: model}

	llmClient, err := createLLMClient(ctx, model, cfg)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create %s client: %w", model.Provider, err)
	}
	if !tk.AgentConfig.Model.Retry {
		llmClient = llm.NoRetry{LLMClient: llmClient}
	}
	deps.LLMClient = llmClient

	params := tk.AgentConfig.Model
	registry := tools.NewRegistry(tk.Metrics,
		tk.Search,
		tk.Transcripts,
		tools.NewFetchRecipePage(tk.AgentConfig.Tools.Fetch.Timeout, tk.AgentConfig.Tools.Fetch.MaxChars, logger),
	)

	if tk.DB != nil {
		structurer, err := recipe.NewStructurer(llmClient, readOptional(cfg.ImagePromptFile, logger),
			recipe.ModelParams{MaxTokens: params.MaxTokens, Temperature: params.Temperature}, logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to create recipe structurer: %w", err)
		}

		images, err := deps.wireImages(ctx, cfg)
		if err != nil {
			deps.Close()
			return nil, err
		}

		var generator tools.ImageGenerator
		if cfg.GoogleAIKey != "" {
			gen, err := imagegen.NewGenerator(ctx, cfg.GoogleAIKey, tk.AgentConfig.Images.Model, logger)
			if err != nil {
				logger.Warn().Err(err).Msg("Image generation disabled")
			} else {
				generator = gen
			}
		}

		registry.Register(tools.NewSaveRecipe(approver, structurer, generator, images, tk.DB, tk.Metrics, logger))
		registry.Register(tools.NewExecuteRecipeSQL(tk.SQL, tk.AgentConfig.Tools.Explore.MaxRows))
		registry.Register(tools.NewExploreRecipesDB(tk.SQL, tk.AgentConfig.Tools.Explore.MaxRows))
	}
	deps.Tools = registry

	var validator agent.InputValidator
	if tk.AgentConfig.Agent.InputGuardrails {
		validator = guardrails.NewGuardrails(llmClient, tk.AgentConfig.Agent.LLMGuardrails)
	}

	systemPrompt, found := LoadSystemPrompt(cfg.PromptFile)
	if !found {
		logger.Warn().Str("path", cfg.PromptFile).Msg("Prompt file not found, using built-in prompt")
	}
	deps.PromptFound = found

	deps.Service = agent.NewService(llmClient, registry, tk.Store, validator, tk.Metrics, agent.Options{
		Model:           model.String(),
		SystemPrompt:    systemPrompt,
		MaxSteps:        tk.AgentConfig.Agent.MaxSteps,
		HistoryMessages: tk.AgentConfig.Agent.HistoryMessages,
		MaxTokens:       params.MaxTokens,
		Temperature:     params.Temperature,
	}, logger)

	logger.Info().
		Str("model", model.String()).
		Int("tools", len(registry.List())).
		Bool("database", tk.DB != nil).
		Bool("redis", tk.Redis != nil).
		Msg("Recipe agent wired")

	return deps, nil
}

// wireImages stores images on GCS when a bucket is configured and falls back
// to the local directory.
func (d *Dependencies) wireImages(ctx context.Context, cfg *Config) (imagestore.Store, error) {
	local := imagestore.NewLocalStore(cfg.ImagesDir)
	d.Images = local
	if cfg.GCSBucket == "" {
		return local, nil
	}

	gcs, err := imagestore.NewGCSStore(ctx, cfg.GCSBucket, cfg.GoogleCloudProject, d.AgentConfig.Images.SignedURLTTL, d.Logger)
	if err != nil {
		d.Logger.Warn().Err(err).Msg("GCS unavailable, storing images locally")
		return local, nil
	}
	d.closers = append(d.closers, func() { _ = gcs.Close() })

	d.Images = imagestore.NewFallbackStore(gcs, local, d.Logger)
	return d.Images, nil
}

// RecipeStore returns the database as the handler's recipe store, or nil
// when no database is configured.
func (d *Dependencies) RecipeStore() agent.RecipeStore {
	if d.DB == nil {
		return nil
	}
	return d.DB
}

func (d *Dependencies) ImageRemover() agent.ImageRemover {
	if d.Images == nil {
		return nil
	}
	return d.Images
}

// HealthChecks lists the backends that are configured.
func (d *Dependencies) HealthChecks() map[string]agent.HealthChecker {
	checks := map[string]agent.HealthChecker{}
	if d.DB != nil {
		checks["postgres"] = d.DB
	}
	if d.Redis != nil {
		checks["redis"] = redisconn.Checker{Client: d.Redis}
	}
	return checks
}

func (d *Dependencies) Close() {
	for _, c := range d.closers {
		c()
	}
	d.Toolkit.Close()
}

// LoadSystemPrompt reads the prompt file. The second value reports whether
// the file was found.
func LoadSystemPrompt(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return fallbackSystemPrompt, false
	}
	return string(data), true
}

// APIApprover maps SAVE_APPROVAL for entry points without a terminal: only
// "approve" saves, everything else rejects.
func APIApprover(mode string) approval.Approver {
	if strings.EqualFold(strings.TrimSpace(mode), "approve") {
		return approval.NewPolicyApprover(approval.Approve)
	}
	return approval.NewPolicyApprover(approval.Reject)
}

func readOptional(path string, logger *zerolog.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to read file, using default")
		}
		return ""
	}
	return string(data)
}

func createLLMClient(ctx context.Context, model ModelSpec, cfg *Config) (llm.LLMClient, error) {
	switch model.Provider {
	case "anthropic":
		return anthropic.NewClient(cfg.AnthropicKey, model.ModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, model.ModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, model.ModelID)
	}
}
