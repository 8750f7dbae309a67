package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/config"
	"github.com/qyinm/jamemart/logging"
	"github.com/qyinm/jamemart/mcpsrv"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := mcpsrv.LoadConfig()
	source, err := catalog.NewLive(ctx, catalog.NewLoader(), cfg.Catalog)
	if err != nil {
		logger.Fatal("load catalog", zap.String("location", cfg.Catalog), zap.Error(err))
	}
	for _, r := range source.Snapshot().Rejected() {
		logger.Warn("catalog record rejected", zap.Int("index", r.Index), zap.String("id", r.ID), zap.String("reason", r.Reason))
	}

	server := mcpsrv.NewServer(source, "dev", &mcpsrv.ServerOptions{
		EnableAdmin:   cfg.EnableAdmin && cfg.APIKey != "",
		APIKey:        cfg.APIKey,
		PlayerBaseURL: cfg.PlayerURL,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mcpHandler := mcpsrv.NewHandler(server, mcpsrv.StreamableOptions(cfg))
	mux.Handle("/mcp", logging.RequestLogger(logger)(mcpsrv.WrapMCPHandler(mcpHandler, cfg)))

	if cfg.ReloadInterval > 0 {
		go reloadLoop(ctx, source, cfg.ReloadInterval, logger)
	}

	httpServer := &http.Server{
		Addr:              ":" + strings.TrimSpace(cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
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

	logger.Info("jamemart-mcp listening", zap.String("addr", httpServer.Addr), zap.Int("games", source.Snapshot().Len()))
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func reloadLoop(ctx context.Context, source *catalog.Live, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := source.Reload(ctx); err != nil {
				logger.Warn("catalog reload failed", zap.Error(err))
				continue
			}
			logger.Info("catalog reloaded", zap.Int("games", source.Snapshot().Len()))
		case <-ctx.Done():
			return
		}
	}
}
