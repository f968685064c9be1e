package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"talentscout/internal/config"
	"talentscout/internal/console"
	"talentscout/internal/interview"
	"talentscout/internal/llm"
	"talentscout/internal/logging"
	"talentscout/internal/metrics"
	"talentscout/internal/questions"
	"talentscout/internal/telegram"
)

// app - общие зависимости команд
type app struct {
	appConfig  *config.AppConfig
	config     *config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	newSession func() *interview.Session
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "talentscout",
		Short:         "TalentScout hiring assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/interview.yaml", "interview config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "console",
		Short: "Run one interview in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			return runConsole(cmd.Context(), a)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "telegram",
		Short: "Serve interviews through a Telegram bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			return runTelegram(cmd.Context(), a)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup загружает окружение и конфигурацию и собирает генератор вопросов
func setup(ctx context.Context, configPath string) (*app, error) {
	// .env необязателен: ключи могут прийти из окружения
	envErr := godotenv.Load()

	appConfig := config.LoadAppConfig()
	logger := logging.New(logging.ParseLevel(appConfig.LogLevel))
	if envErr != nil {
		logger.Debug(".env not loaded", "error", envErr)
	}

	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("load interview config: %w", err)
	}
	fields, err := cfg.SchemaFields()
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics()

	var generator questions.Generator
	if appConfig.LLM.Provider == config.ProviderStatic {
		generator = questions.Offline{Count: cfg.GetTechQuestions()}
	} else {
		client, err := llm.New(ctx, appConfig.LLMSettings(cfg.Messages.SystemPrompt))
		if err != nil {
			return nil, fmt.Errorf("create llm client: %w", err)
		}
		logger.Info("question service ready", "provider", appConfig.LLM.Provider, "model", client.ModelName())

		generator = questions.NewAdapter(client,
			questions.WithCount(cfg.GetTechQuestions()),
			questions.WithTimeout(appConfig.Generation.Timeout),
			questions.WithLogger(logger),
			questions.WithMetrics(m),
		)
	}

	logger.Info("interview config loaded", "fields", cfg.GetTotalFields(), "tech_questions", cfg.GetTechQuestions())

	opts := cfg.SessionOptions()
	return &app{
		appConfig: appConfig,
		config:    cfg,
		logger:    logger,
		metrics:   m,
		newSession: func() *interview.Session {
			return interview.New(fields, generator, opts...)
		},
	}, nil
}

func runConsole(ctx context.Context, a *app) error {
	host := console.New(os.Stdin, os.Stdout, a.newSession, a.config.Messages.Welcome, a.logger, a.metrics)

	_, err := host.Run(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func runTelegram(ctx context.Context, a *app) error {
	if err := a.appConfig.ValidateTelegram(); err != nil {
		return err
	}

	bot := telegram.New(a.appConfig.Telegram.Token)
	handler := telegram.NewHandler(bot, a.config, a.appConfig.Telegram, a.newSession, a.logger, a.metrics)
	handler.StartSessionCleanup(ctx)

	a.logger.Info("telegram bot started, waiting for messages")

	err := bot.StartPolling(ctx, a.logger, handler.HandleUpdate)
	if errors.Is(err, context.Canceled) {
		s := a.metrics.Snapshot()
		a.logger.Info("telegram bot stopped",
			"started", s.SessionsStarted, "completed", s.SessionsCompleted, "exited", s.SessionsExited,
			"fallbacks", s.FallbacksUsed)
		return nil
	}
	return err
}
