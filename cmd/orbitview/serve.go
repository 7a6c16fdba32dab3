package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"orbitview/internal/events"
	"orbitview/internal/handler"
	"orbitview/internal/hub"
	"orbitview/internal/repository/sqlite"
	"orbitview/internal/service"
	"orbitview/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and frame loop",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if path != "" {
		logger.Info("config loaded", "path", path)
	}
	logger.Debug("config", "summary", cfg.Summary())

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer repo.Close()
	logger.Info("database opened", "path", cfg.Database.Path)

	var publisher events.Publisher
	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL)
		if err != nil {
			return err
		}
		publisher = pub
		logger.Info("events enabled", "nats_url", cfg.Events.NATSURL, "subject", cfg.Events.Subject)
	} else {
		publisher = &events.NoopPublisher{}
		logger.Info("events disabled (ORBITVIEW_NATS_URL not set)")
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := service.NewEventBus()

	sseHub := hub.New(logger)
	go sseHub.Run(ctx)

	// Node tree changes reach every browser; selection changes travel
	// inside each session's frames.
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go forwardTreeEvents(ctx, eventChan, sseHub)

	scenes := service.NewSceneService(cfg, sseHub, publisher, eventBus, logger)
	nodes := service.NewNodeService(repo, eventBus, scenes)

	if cfg.Seed.Path != "" {
		if err := nodes.ReloadSeed(ctx, cfg.Seed.Path); err != nil {
			return err
		}
		logger.Info("seed imported", "path", cfg.Seed.Path)

		if cfg.Seed.Watch {
			w := watcher.New(cfg.Seed.Path, func() {
				if err := nodes.ReloadSeed(ctx, cfg.Seed.Path); err != nil {
					logger.Warn("seed reload failed", "path", cfg.Seed.Path, "err", err)
				}
			}).WithLogger(logger)
			go func() {
				if err := w.Watch(ctx); err != nil {
					logger.Error("seed watcher stopped", "err", err)
				}
			}()
		}
	} else if err := nodes.Refresh(ctx); err != nil {
		return err
	}

	go func() {
		if err := scenes.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("frame loop stopped", "err", err)
		}
	}()

	mux := handler.Routes(handler.NewNodeHandler(nodes), handler.NewSceneHandler(scenes), sseHub)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Chain(mux, handler.Recover, handler.CORS, handler.Logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
	logger.Info("server stopped")
	return nil
}

func forwardTreeEvents(ctx context.Context, in <-chan service.Event, h *hub.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-in:
			if ev.Type.TreeChange() {
				h.Publish(hub.Message{Event: string(ev.Type), Data: ev.Payload})
			}
		}
	}
}
