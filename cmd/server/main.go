// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey-server.
//
// go-passkey-server is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// The passkey demo server: a WebAuthn relying party with server-rendered
// pages, cookie-bound ceremony sessions, and an in-memory credential store.
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

	"github.com/jeremyhahn/go-passkey-server/internal/config"
	"github.com/jeremyhahn/go-passkey-server/pkg/passkey"
	passkeyhttp "github.com/jeremyhahn/go-passkey-server/pkg/passkey/http"
)

var (
	// Version information (set during build)
	version = "dev"
	commit  = "none"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("go-passkey-server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Git Commit: %s\n", commit)
		os.Exit(0)
	}

	if envConfig := os.Getenv("PASSKEY_CONFIG"); envConfig != "" {
		*configPath = envConfig
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	setupLogger(cfg.Logging)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		slog.Warn("Using the default session secret; set SESSION_SECRET in production")
	}

	slog.Info("Starting passkey server",
		"version", version,
		"rp_id", cfg.Passkey.RPID,
		"rp_origins", cfg.Passkey.RPOrigins,
		"addr", cfg.Addr())

	store := passkey.NewMemoryUserStore()

	var tokenTTL time.Duration
	if cfg.TokenTTL != "" {
		if tokenTTL, err = time.ParseDuration(cfg.TokenTTL); err != nil {
			slog.Error("Invalid token_ttl", slog.Any("error", err))
			os.Exit(1)
		}
	}

	tokens, err := passkey.NewJWTIssuer(&passkey.JWTIssuerConfig{
		Secret:    []byte(cfg.Session.Secret),
		ExpiresIn: tokenTTL,
	})
	if err != nil {
		slog.Error("Failed to create token issuer", slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := passkey.NewService(passkey.ServiceParams{
		Config:      &cfg.Passkey,
		UserStore:   store,
		TokenIssuer: tokens,
	})
	if err != nil {
		slog.Error("Failed to create passkey service", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := passkeyhttp.NewSessionManager([]byte(cfg.Session.Secret))
	handler := passkeyhttp.NewHandler(svc, sessions)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: passkeyhttp.Router(handler),
	}

	shutdownCtx := setupSignalHandler()

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	slog.Info("Server listening", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))

	select {
	case <-shutdownCtx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errChan:
		slog.Error("Server error", slog.Any("error", err))
	}

	shutdownTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownTimeout); err != nil {
		slog.Error("Error during server shutdown", slog.Any("error", err))
	}
	slog.Info("Server stopped")
}

// setupLogger installs the default slog logger per the logging config.
func setupLogger(cfg config.LoggingConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// setupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx
}
