package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/config"
	"github.com/qyinm/jamemart/logging"
	"github.com/qyinm/jamemart/web"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := web.LoadConfig()

	flag.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "catalog file or URL (default: bundled)")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := catalog.NewLoader().Load(ctx, cfg.Catalog)
	if err != nil {
		logger.Fatal("load catalog", zap.String("location", cfg.Catalog), zap.Error(err))
	}
	for _, r := range store.Rejected() {
		logger.Warn("catalog record rejected", zap.Int("index", r.Index), zap.String("id", r.ID), zap.String("reason", r.Reason))
	}

	handler, err := web.NewHandler(store, web.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Timeout:        cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("build handler", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("jamemart-web listening", zap.String("addr", httpServer.Addr), zap.Int("games", store.Len()))
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
