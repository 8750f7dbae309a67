package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
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
	// stdout carries the protocol
	logger, err := logging.NewWithOutput("stderr")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := mcpsrv.LoadConfig()
	source, err := catalog.NewLive(ctx, catalog.NewLoader(), cfg.Catalog)
	if err != nil {
		logger.Fatal("load catalog", zap.String("location", cfg.Catalog), zap.Error(err))
	}
	server := mcpsrv.NewServer(source, "dev", &mcpsrv.ServerOptions{
		EnableAdmin:   cfg.EnableAdmin,
		APIKey:        cfg.APIKey,
		PlayerBaseURL: cfg.PlayerURL,
	})

	if cfg.ReloadInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.ReloadInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := source.Reload(ctx); err != nil {
						logger.Warn("catalog reload failed", zap.Error(err))
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Fatal("stdio mcp server failed", zap.Error(err))
	}
}
