package main

import (
	"github.com/xaenox/helpdesk-bot/internal/analytics"
	"github.com/xaenox/helpdesk-bot/internal/bot"
	"github.com/xaenox/helpdesk-bot/internal/knowledge"
	"github.com/xaenox/helpdesk-bot/internal/llm"
	"github.com/xaenox/helpdesk-bot/internal/memory"
	"github.com/xaenox/helpdesk-bot/internal/orchestrator"
	"github.com/xaenox/helpdesk-bot/internal/session"
	"github.com/xaenox/helpdesk-bot/internal/tagging"
	"github.com/xaenox/helpdesk-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	if cfg.Telegram.Token == "" {
		logger.Fatal("Missing required setting: telegram token")
	}

	// Initialize analytics sink
	var sink analytics.Sink
	if cfg.Analytics.UseDatabase {
		logger.Info("Using PostgreSQL analytics sink")
		sink, err = analytics.NewPostgresSink(analytics.DatabaseConfig{
			Host:     cfg.Analytics.Database.Host,
			Port:     cfg.Analytics.Database.Port,
			User:     cfg.Analytics.Database.User,
			Password: cfg.Analytics.Database.Password,
			DBName:   cfg.Analytics.Database.DBName,
			SSLMode:  cfg.Analytics.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize analytics sink", zap.Error(err))
		}
	} else {
		logger.Info("Using log analytics sink")
		sink = analytics.NewLogSink(logger)
	}
	defer sink.Close()

	// Initialize completion client
	completer, err := llm.NewClient(cfg.OpenAI.APIKey, llm.Options{
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: float32(cfg.OpenAI.Temperature),
		TopP:        float32(cfg.OpenAI.TopP),
		Timeout:     cfg.OpenAI.RequestTimeoutDuration(),
		Retries:     cfg.OpenAI.Retries,
		Fallback:    cfg.Bot.FallbackText,
		Stub:        cfg.OpenAI.Stub,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}

	// Initialize the orchestrator with its core components
	orch := orchestrator.New(
		knowledge.NewMatcher("FAQ — quick answers:", knowledge.DefaultEntries()),
		tagging.NewClassifier(tagging.DefaultRules()),
		memory.NewStore(cfg.Memory.Capacity),
		session.NewCounters(),
		completer,
		sink,
		cfg.Bot.RenderedSystemPrompt(),
		logger,
	)

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, cfg.Bot.BotName, orch, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
