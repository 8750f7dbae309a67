package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	webbrowser "github.com/cli/browser"
	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/config"
	"github.com/qyinm/jamemart/logging"
	"github.com/qyinm/jamemart/ui"
	"github.com/qyinm/jamemart/web"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	location := flag.String("catalog", config.String("JAMEMART_CATALOG", ""), "catalog file or URL (default: bundled)")
	addr := flag.String("addr", config.String("JAMEMART_ADDR", "127.0.0.1:0"), "web player listen address")
	noPlayer := flag.Bool("no-player", config.Bool("JAMEMART_NO_PLAYER", false), "open games at their embed URL instead of the local player")
	flag.Parse()

	logger := zap.NewNop()
	if path := config.String("JAMEMART_LOG", ""); path != "" {
		l, err := logging.NewWithOutput(path)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	// keep the browser launcher off the alternate screen
	webbrowser.Stdout = io.Discard
	webbrowser.Stderr = io.Discard

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := catalog.NewLoader().Load(ctx, *location)
	cancel()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	for _, r := range store.Rejected() {
		logger.Warn("catalog record rejected", zap.Int("index", r.Index), zap.String("id", r.ID), zap.String("reason", r.Reason))
	}

	opts := ui.Options{
		LoadTimeout: config.Duration("JAMEMART_LOAD_TIMEOUT", 15*time.Second),
	}

	if !*noPlayer {
		notifier := web.NewNotifier()
		base, shutdown, err := startPlayer(store, notifier, *addr, logger)
		if err != nil {
			return err
		}
		defer shutdown()

		loads, unsubscribe := notifier.Subscribe()
		defer unsubscribe()
		opts.PlayerBaseURL = config.String("JAMEMART_PLAYER_URL", base)
		opts.Loads = loads
	}

	p := tea.NewProgram(ui.NewModel(store, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// startPlayer serves the web player in the background and returns its base
// URL and a shutdown func.
func startPlayer(store *catalog.Catalog, notifier *web.Notifier, addr string, logger *zap.Logger) (string, func(), error) {
	handler, err := web.NewHandler(store, web.Options{Logger: logger, Notifier: notifier})
	if err != nil {
		return "", nil, fmt.Errorf("build player: %w", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("player server failed", zap.Error(err))
		}
	}()
	logger.Info("player listening", zap.String("addr", ln.Addr().String()))

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return web.LocalURL(ln.Addr().String()), shutdown, nil
}
