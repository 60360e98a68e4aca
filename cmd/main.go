package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"face-assess-bot/config"
	telegram "face-assess-bot/internal/api"
	"face-assess-bot/internal/api/rest"
	"face-assess-bot/internal/container"
	"face-assess-bot/internal/infrastructure/storage"
)

const startupPingTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Адаптеры: провайдер, словарь, рендеры, кэш, рабочие каталоги
	infra, err := container.NewInfrastructure(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to init infrastructure: %v", err)
	}
	defer infra.Close()

	// Собираем сервисы приложения
	userRepo := storage.NewMemoryUserRepository()
	appContainer, err := container.New(userRepo, infra.Deps)
	if err != nil {
		infra.Close()
		log.Fatalf("Failed to build container: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	if err := appContainer.AssessmentService.Ping(pingCtx); err != nil {
		slog.Warn("Provider is not reachable at startup", "model", appContainer.AssessmentService.ProviderName(), "error", err)
	}
	cancel()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg.MaxImageBytes)
		if err != nil {
			infra.Close()
			log.Fatalf("Failed to create bot: %v", err)
		}
		g.Go(func() error {
			log.Println("Bot is running...")
			return bot.Run(ctx)
		})
	}

	if cfg.HTTPEnabled() {
		server := rest.NewServer(appContainer.AssessmentService, cfg.MaxImageBytes)
		g.Go(func() error {
			return server.Run(ctx, cfg.HTTPAddr)
		})
	}

	// Просроченные каталоги запросов удаляются в фоне
	g.Go(func() error {
		infra.Workspaces.RunSweeper(ctx, cfg.WorkspaceTTL/2)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Stopped with error: %v", err)
		infra.Close()
		os.Exit(1)
	}
	log.Println("Shutdown complete")
}
