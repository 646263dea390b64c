package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vision-mcp/config"
	"vision-mcp/internal/api/mcpserver"
	"vision-mcp/internal/api/telegram"
	"vision-mcp/internal/container"
	"vision-mcp/internal/infrastructure/storage"
	"vision-mcp/internal/infrastructure/tracing"
	"vision-mcp/internal/logger"
)

// version подставляется при сборке через -ldflags
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp-image-recognition: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closer := logger.New(cfg.LogLevel, cfg.LogFile)
	defer closer.Close()
	slog.SetDefault(log)

	log.Info("starting mcp server", "version", version, "provider", cfg.VisionProvider, "fallback", cfg.FallbackProvider, "ocr", cfg.EnableOCR)
	log.Info("using encoding", "encoding", cfg.OutputEncoding)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    mcpserver.ServerName,
		ExportEndpoint: cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		log.Warn("tracing disabled", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				log.Warn("failed to flush traces", "err", err)
			}
		}()
	}

	// Хранилище пользователей нужно только Telegram-боту
	userRepo := storage.NewMemoryUserRepository()
	appContainer := container.New(cfg, log, userRepo)

	if cfg.MetricsAddr != "" {
		srv := startMetrics(cfg.MetricsAddr, appContainer.Metrics.Handler(), log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.DescriptionService, log)
		if err != nil {
			log.Error("failed to create telegram bot", "err", err)
		} else {
			go func() {
				if err := bot.Run(ctx); err != nil {
					log.Error("telegram bot stopped", "err", err)
				}
			}()
		}
	}

	s := mcpserver.New(appContainer.DescriptionService, version, log)
	if err := mcpserver.Serve(s); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("mcp server stopped", "err", err)
		return err
	}
	log.Info("mcp server stopped")
	return nil
}

func startMetrics(addr string, handler http.Handler, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("metrics listener started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics listener failed", "err", err)
		}
	}()
	return srv
}
