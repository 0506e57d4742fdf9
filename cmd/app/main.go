// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"telegram-door-intercom/internal/config"
	"telegram-door-intercom/internal/domain"
	tele "telegram-door-intercom/internal/infra/adapters/telegram"
	"telegram-door-intercom/internal/infra/adapters/zadarma"
	"telegram-door-intercom/internal/infra/api"
	"telegram-door-intercom/internal/infra/i18n"
	"telegram-door-intercom/internal/infra/logging"
	"telegram-door-intercom/internal/infra/metrics"
	"telegram-door-intercom/internal/usecase"
)

// Set at link time: -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted numbers)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Zadarma ----
	if cfg.Zadarma.Key == "" || cfg.Zadarma.Secret == "" {
		logger.Warn().Msgf("%s or %s is empty; calls will be rejected by the provider", config.EnvZadarmaKey, config.EnvZadarmaSecret)
	}
	zd := zadarma.NewClient(cfg.Zadarma.Key, cfg.Zadarma.Secret, cfg.Zadarma.Sandbox,
		zadarma.WithTimeout(cfg.Zadarma.Timeout),
		zadarma.WithBaseURL(cfg.Zadarma.BaseURL),
		zadarma.WithLogger(logger),
	)
	logger.Info().Str("base_url", zd.BaseURL()).Bool("sandbox", cfg.Zadarma.Sandbox).Msg("zadarma client ready")

	// ---- Use cases ----
	dir, err := domain.NewDirectory(cfg.Intercom.InternalNumber, cfg.Intercom.EntryNumber, cfg.Intercom.ExitNumber)
	if err != nil {
		logger.Fatal().Err(err).Msg("intercom numbers")
	}
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}
	intercomUC := usecase.NewIntercomUseCase(dir, zd, logger, cfg.Runtime.Dev)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, intercomUC, translator, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot.mode not implemented; falling back to polling")
	}

	// ---- Run until SIGINT/SIGTERM ----
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return botAdapter.StartPolling(ctx)
	})
	if cfg.Admin.Port > 0 {
		admin := api.NewServer(cfg.Admin.Port, nil, logger)
		g.Go(func() error { return admin.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("shutdown complete")
}
