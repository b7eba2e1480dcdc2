package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/shouni/project-sheet-analyzer/pkg/adapters"
	"github.com/shouni/project-sheet-analyzer/pkg/analyzer"
	"github.com/shouni/project-sheet-analyzer/pkg/config"
	"github.com/shouni/project-sheet-analyzer/pkg/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("起動に失敗しました", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})))

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := adapters.NewVisionModel(ctx, adapters.Config{
		Provider: cfg.Analyzer.Provider,
		OpenAI: adapters.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		},
		Gemini: adapters.GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
		},
	})
	if err != nil {
		return err
	}

	flow, err := analyzer.NewFlow(model, analyzer.FlowConfig{
		JPEGQuality:  cfg.Analyzer.JPEGQuality,
		MaxDimension: cfg.Analyzer.MaxDimension,
	})
	if err != nil {
		return err
	}

	handler, err := web.NewHandler(flow, cfg.Server.MaxUploadBytes)
	if err != nil {
		return err
	}

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := web.NewServer(cfg.Server.Port, web.NewRouter(handler, cfg.Analyzer.Timeout), cfg.Analyzer.Timeout)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	slog.Info("App Started", "provider", cfg.Analyzer.Provider, "port", cfg.Server.Port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("App Shutting Down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
