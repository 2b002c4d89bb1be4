package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/tablodb/tablo/internal/conn"
	"github.com/tablodb/tablo/internal/engine"
	"github.com/tablodb/tablo/internal/schema"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintln(os.Stderr, "tablo:", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	port := flag.Int("port", 7433, "listening port")
	config_path := flag.String("config", "", "path to schema config; empty uses the built-in users/orders sample")
	debug := flag.Bool("debug", false, "show debug logs")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	cfg := schema.Default()
	if *config_path != "" {
		var err error
		if cfg, err = schema.Load(*config_path); err != nil {
			return err
		}
	}

	e, err := engine.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: conn.Handler(e, logger),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("tablo listening", "port", *port, "tables", len(cfg.Tables))
		if err := s.ListenAndServe(); err != http.ErrServerClosed {
			errs <- err
			return
		}
		errs <- nil
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdown_ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdown_ctx)
}
