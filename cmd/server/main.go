// Package main provides the HTTP server exposing the directory as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"deliverydir/internal/api"
	"deliverydir/internal/config"
	"deliverydir/internal/directory"
	"deliverydir/internal/logger"
	"deliverydir/internal/normalizer"
	"deliverydir/internal/source"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/directory.yaml if present)")
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	debug := flag.Bool("debug", false, "Run gin in debug mode and log at debug level")

	flag.Parse()

	cfg, usedPath, err := config.LoadOrDefault(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.NewLogger(cfg.Logging.Level)

	if usedPath != "" {
		log.Info(fmt.Sprintf("⚙️  Loaded configuration from: %s", usedPath))
	}

	if *debug {
		log.SetLevel("debug")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	routes, err := api.RoutesFromConfig(cfg)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Invalid routes: %v", err))
		os.Exit(1)
	}

	svc := directory.NewService(normalizer.NewProcessor(cfg.Normalizer.Rules()), log).
		WithFetcher(source.NewFetcher(cfg.Fetch))
	router := api.NewRouter(svc, routes, api.Options{AllowOrigins: cfg.Server.AllowOrigins}, log)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("🚀 Listening on %s", cfg.Server.Addr))

		for _, route := range routes {
			log.Info(fmt.Sprintf("📍 GET %s", route.Path), "sources", len(route.Bindings))
		}

		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("❌ Server failed: %v", serveErr))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(fmt.Sprintf("❌ Forced shutdown: %v", err))
		os.Exit(1)
	}

	log.Info("✅ Server stopped")
}
