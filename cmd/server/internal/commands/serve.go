package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/BuDozKeN/aicouncil/internal/config"
	"github.com/BuDozKeN/aicouncil/internal/logger"
	"github.com/BuDozKeN/aicouncil/internal/server"
	"github.com/BuDozKeN/aicouncil/internal/store/postgres"
)

type ServeCmd struct {
	Config string `help:"Path to YAML config file." type:"existingfile" optional:""`
	Addr   string `help:"Listen address (overrides config)." default:""`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}

	log := logger.Setup(globals.Dev || cfg.Dev)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, &postgres.PoolConfig{
		ConnString:  cfg.Database.ConnString,
		MaxConns:    cfg.Database.MaxConns,
		AutoMigrate: cfg.Database.AutoMigrate,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	srv := server.New(
		postgres.NewCompanyStore(pool),
		postgres.NewContentStore(pool),
		postgres.NewConversationStore(pool),
	)

	handler := srv.Handler(server.Options{
		TokenSecret: []byte(cfg.Auth.TokenSecret),
		Logger:      log,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "If-None-Match"},
		AllowCredentials: true,
	}).Handler(handler)

	httpServer := configureHTTPServer(cfg.Addr, corsHandler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("version", globals.Version).Msg("Starting API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
