// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Transtrings serves the translatable strings admin: it extracts translatable
strings from a project on disk and stores their translations in CSV files.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/core/admin"
	"codeberg.org/transtrings/transtrings/core/audit"
	"codeberg.org/transtrings/transtrings/server/router"
	"codeberg.org/transtrings/transtrings/server/routes"
)

// http.Server timeouts (gosec G112). Loads scan the whole project, hence the
// longer write timeout.
const (
	readHeaderTimeout = 15 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 30 * time.Second

	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run loads the configuration, serves until SIGINT or SIGTERM and then shuts
// the server down.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	handler, err := newHandler(admin.New(&config.Global))
	if err != nil {
		return err
	}

	listener, err := listen(&config.Global)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received, shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// newHandler checks that the catalogues can be opened and returns the router
// serving the admin actions.
func newHandler(services *admin.Services) (http.Handler, error) {
	if err := services.Check(); err != nil {
		return nil, fmt.Errorf("failed to open translations: %w", err)
	}

	log.Info().
		Strs("locales", services.Locales).
		Str("storage", services.Store.Dir()).
		Msg("Translations ready")

	r := router.NewRouter()
	r.DefineRoutes(&routes.TranslatableStrings{Services: services})

	if err := r.RegisterMiddleware(services.Matcher()); err != nil {
		return nil, fmt.Errorf("failed to register middleware: %w", err)
	}

	return r, nil
}
