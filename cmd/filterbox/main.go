package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/eringen/filterbox"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("filterbox %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	app := filterbox.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	app.Log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil {
		app.Log.Error().Err(err).Msg("shutdown")
	}
	return app.Close()
}

func configFromEnv() (filterbox.Config, error) {
	cfg := filterbox.Config{
		Name:          filterbox.EnvOr("SITE_NAME", "Image Filters"),
		Addr:          filterbox.EnvOr("ADDR", ":3000"),
		DatabasePath:  filterbox.EnvOr("DATABASE_PATH", "data/filterbox.db"),
		SessionSecret: filterbox.MustEnv("SESSION_SECRET"),
		LogLevel:      filterbox.EnvOr("LOG_LEVEL", "info"),
		LogFormat:     filterbox.EnvOr("LOG_FORMAT", "console"),
	}

	var err error
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if cfg.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb <= 0 {
			return cfg, fmt.Errorf("MAX_UPLOAD_MB: want a positive integer, got %q", v)
		}
		cfg.MaxUploadSize = mb << 20
	}
	if v := os.Getenv("MAX_PIXELS"); v != "" {
		if cfg.MaxPixels, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("MAX_PIXELS: %w", err)
		}
	}
	if v := os.Getenv("WORKSPACE_TTL"); v != "" {
		if cfg.WorkspaceTTL, err = time.ParseDuration(v); err != nil {
			return cfg, fmt.Errorf("WORKSPACE_TTL: %w", err)
		}
	}
	if v := os.Getenv("EXPORTS_PER_MINUTE"); v != "" {
		if cfg.ExportsPerMinute, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("EXPORTS_PER_MINUTE: %w", err)
		}
	}
	return cfg, nil
}

func printUsage() {
	fmt.Println(`filterbox - A single-image filter editor built with Go, Echo, and templ

Usage:
  filterbox [command]

Commands:
  serve         Start the HTTP server (default)
  version       Print the filterbox version
  help          Show this help message

Environment:
  SESSION_SECRET      Cookie signing secret (required)
  SITE_NAME           Page title (default "Image Filters")
  ADDR                Listen address (default ":3000")
  DATABASE_PATH       SQLite export log (default "data/filterbox.db")
  COOKIE_SECURE       Mark cookies Secure (default false)
  MAX_UPLOAD_MB       Largest accepted image (default 20)
  MAX_PIXELS          Largest decoded export in pixels (default 24000000)
  WORKSPACE_TTL       Idle time before an image is released (default 30m)
  EXPORTS_PER_MINUTE  Per-IP upload and export budget (default 30)
  LOG_LEVEL           debug, info, warn, error (default info)
  LOG_FORMAT          console or json (default console)`)
}
