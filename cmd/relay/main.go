package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"veilchat/internal/config"
	"veilchat/internal/server"
)

// devTokenSecret is only ever used outside production, where config.Load
// refuses to start without a real secret.
const devTokenSecret = "veilchat-dev-secret"

func main() {
	cfg := config.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	secret := cfg.TokenSecret
	if secret == "" {
		secret = devTokenSecret
		logger.Warn().Msg("RELAY_TOKEN_SECRET not set, using development secret")
	}

	var keys server.KeyStore
	if cfg.KeyDBPath != "" {
		boltKeys, err := server.OpenBoltKeyStore(cfg.KeyDBPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.KeyDBPath).Msg("open key store")
		}
		keys = boltKeys
		logger.Info().Str("path", cfg.KeyDBPath).Msg("key directory persisted with bbolt")
	} else {
		keys = server.NewMemoryKeyStore()
		logger.Info().Msg("key directory held in memory")
	}
	defer keys.Close()

	srv := server.New(logger, cfg, server.NewHMACVerifier(secret), keys)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("relay listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
