package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"promptscore/internal/app"
	"promptscore/internal/config"
	"promptscore/internal/logging"
	"promptscore/internal/transport/rest"
)

// @title Prompt Score API
// @version 1.0
// @description Scores prompts by fusing a heuristic gate, a BERT classifier and an LLM judge
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build pipeline", zap.Error(err))
	}
	application.LogSettings()

	router := rest.NewRouter(&rest.Container{
		Pipeline:    application.Pipeline,
		AuthService: application.Auth,
		Gatherer:    application.Registry,
		Server:      cfg.Server,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		logger.Info("endpoints",
			zap.Strings("routes", []string{
				"POST /v1/analyze",
				"POST /v1/validate",
				"POST /v1/auth/login",
				"WS   /v1/ws/analyze",
				"GET  /health",
				"GET  /metrics",
			}))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
