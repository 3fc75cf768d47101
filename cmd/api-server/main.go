// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"permitcheck/internal/common/config"
	"permitcheck/internal/common/logger"
	"permitcheck/internal/server"
	"permitcheck/internal/services/ai"
	"permitcheck/internal/services/document"
	"permitcheck/internal/services/export"
	"permitcheck/internal/services/zoning"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting PermitCheck API", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	resolver, err := zoning.NewResolver(&zoning.Config{
		GeocodingAPIKey:  cfg.APIs.Geocoding.APIKey,
		GeocodeTimeout:   time.Duration(cfg.APIs.Geocoding.Timeout) * time.Millisecond,
		MunicipalTimeout: time.Duration(cfg.Zoning.MunicipalTimeout) * time.Millisecond,
	}, log)
	if err != nil {
		log.Error("failed to build zoning resolver", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	aiClient := ai.NewClient(&ai.Config{
		APIKey:     cfg.APIs.OpenAI.APIKey,
		BaseURL:    cfg.APIs.OpenAI.BaseURL,
		Model:      cfg.APIs.OpenAI.Model,
		ImageModel: cfg.APIs.OpenAI.ImageModel,
	}, log)

	srv := server.New(cfg, log, resolver, aiClient, document.NewExtractor(log), export.NewExporter(log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped unexpectedly", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}

	log.Info("shutdown complete", nil)
}
