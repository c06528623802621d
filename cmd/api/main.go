package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goa.design/clue/log"

	"palaksingh/internal/config"
	"palaksingh/internal/server"
	"palaksingh/internal/services"
	"palaksingh/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if cfg.App.Debug {
		ctx = log.Context(ctx, log.WithDebug())
	}

	if err := run(ctx, cfg); err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "server exited"})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Print(ctx, log.KV{K: "msg", V: "starting"}, log.KV{K: "app", V: cfg.App.Name}, log.KV{K: "version", V: cfg.App.Version})
	log.Print(ctx, log.KV{K: "debug", V: cfg.App.Debug}, log.KV{K: "host", V: cfg.App.Host}, log.KV{K: "port", V: cfg.App.Port},
		log.KV{K: "driver", V: cfg.Database.Driver()}, log.KV{K: "auto_approve", V: cfg.Testimonials.AutoApprove})

	st, err := store.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		log.Print(ctx, log.KV{K: "msg", V: "closing store"})
		if err := st.Close(context.Background()); err != nil {
			log.Error(ctx, err, log.KV{K: "msg", V: "error closing store"})
		}
	}()

	notifier := services.NewBookingNotifier(&cfg.Notify,
		services.NewEmailService(&cfg.Email),
		services.NewSMSService(&cfg.SMS))
	srv := server.New(cfg,
		services.NewBookingService(st, notifier),
		services.NewTestimonialService(st, cfg.Testimonials.AutoApprove),
		services.NewHealthService(cfg.App.Name, st),
	)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(ctx),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Print(ctx, log.KV{K: "msg", V: "listening"}, log.KV{K: "addr", V: addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Print(ctx, log.KV{K: "msg", V: "graceful shutdown"}, log.KV{K: "signal", V: sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "graceful shutdown failed, forcing close"})
		_ = httpServer.Close()
	}

	log.Print(ctx, log.KV{K: "msg", V: "shutdown complete"})
	return nil
}
