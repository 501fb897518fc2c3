package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/bus-fare-terminal/config"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/handler"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/server"
	repo "github.com/Temutjin2k/bus-fare-terminal/internal/adapter/postgres"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/auth"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/location"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
)

// FleetTracker records bus positions and serves the fleet board.
type FleetTracker struct {
	postgresDB *postgres.PostgreDB
	httpServer *server.API
	cfg        config.Config
	log        logger.Logger
}

func NewFleetTracker(ctx context.Context, cfg config.Config, log logger.Logger) (*FleetTracker, error) {
	postgresDB, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	feed := location.NewFeed(repo.NewBusLocationRepo(postgresDB.Pool), log)

	httpServer, err := server.New(cfg, server.Services{
		Auth:      auth.NewVerifier(cfg.Auth.JWTSecret, log),
		Locations: feed,
		Health:    map[string]handler.Pinger{"postgres": postgresDB.Pool},
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		postgresDB.Close()
		return nil, err
	}

	return &FleetTracker{
		httpServer: httpServer,
		postgresDB: postgresDB,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *FleetTracker) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "fleet tracker service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "Fleet tracker service has been started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *FleetTracker) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.postgresDB != nil {
		s.postgresDB.Close()
	}
}
