package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	wranglebase "github.com/wranglebase/wranglebase"
)

func main() {
	cfg, err := wranglebase.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := wranglebase.OpenStore(ctx, cfg)
	if err != nil {
		cancel()
		slog.Error("store connect failed", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	app := wranglebase.New(cfg, st)
	if err := app.Bootstrap(ctx); err != nil {
		cancel()
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	cancel()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           wranglebase.RequestLogger(app.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("listening", "addr", srv.Addr, "backend", cfg.Backend, "base_path", cfg.BasePath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
