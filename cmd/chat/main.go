package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/approval"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/cli"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	appLogger := logger.NewForFormat("console", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the approver and the chat loop read from the same buffer
	in := bufio.NewReader(os.Stdin)
	approver, err := approval.FromMode(cfg.SaveApproval, in, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid SAVE_APPROVAL")
	}

	deps, err := setup.Wire(ctx, cfg, &appLogger, approver)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to wire dependencies")
	}
	defer deps.Close()

	theme := cli.DetectTheme()
	fmt.Println(cli.Banner(theme, cli.Status{
		Model:            deps.Model.String(),
		PromptFile:       cfg.PromptFile,
		PromptFound:      deps.PromptFound,
		Anthropic:        cfg.AnthropicKey != "",
		OpenAI:           cfg.OpenAIKey != "",
		Tavily:           cfg.TavilyKey != "",
		LangSmith:        cfg.LangSmithKey != "",
		LangSmithProject: cfg.LangSmithProject,
	}))

	if err := cli.NewLoop(deps.Service, in, os.Stdout, theme).Run(ctx); err != nil {
		log.Error().Err(err).Msg("Chat loop failed")
		os.Exit(1)
	}
}
