// Package http exposes the query API over built region stores: full-text
// place search, category/spatial POI lookup, the category list and the
// region catalog.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Port    int
	Timeout time.Duration
	Addr    string // explicit listen address; overrides Port when set
}

// ListenAddr returns the explicit address when one is set, otherwise ":Port".
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// ConfigFromEnv reads the server settings through viper with defaults.
func ConfigFromEnv() Config {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	return Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}
}

// Handler builds the full middleware-wrapped API handler.
func Handler(service SearchService, log *zap.Logger) http.Handler {
	router := httprouter.New()
	newSearchAPI(service, log).routes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	return alice.New(
		corsHandler.Handler,
		recoverPanic,
		heartbeat("/healthz"),
		requestLogger(log),
	).Then(router)
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, config Config, service SearchService, log *zap.Logger) error {
	srv := &http.Server{
		Addr:         config.ListenAddr(),
		Handler:      Handler(service, log),
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
