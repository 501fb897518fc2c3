package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/bus-fare-terminal/config"
	"github.com/Temutjin2k/bus-fare-terminal/internal/app/microservices"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
)

var (
	ErrInvalidMode           = errors.New("invalid mode")
	ErrServiceNotInitialized = errors.New("service not initialized")
)

type Service interface {
	Start(ctx context.Context) error
}

type App struct {
	mode    types.ServiceMode
	service Service

	cfg config.Config
	log logger.Logger
}

// NewApplication
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	app := &App{
		mode: cfg.Mode,
		cfg:  cfg,
		log:  log,
	}

	if err := app.initService(ctx, app.mode); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}

	if err := a.service.Start(ctx); err != nil {
		return err
	}

	return nil
}

func (a *App) initService(ctx context.Context, mode types.ServiceMode) error {
	var (
		service Service
		err     error
	)
	switch mode {
	case types.FareTerminalService:
		service, err = microservices.NewFareTerminal(ctx, a.cfg, a.log)
	case types.FleetTrackerService:
		service, err = microservices.NewFleetTracker(ctx, a.cfg, a.log)
	default:
		return ErrInvalidMode
	}

	if err != nil {
		return fmt.Errorf("failed to init service: %w", err)
	}
	if service == nil {
		return fmt.Errorf("failed to initialize: %s", mode)
	}

	a.service = service

	return nil
}

// Migrate applies the schema migrations and exits, for deployments that
// disable migrations at startup.
func Migrate(ctx context.Context, cfg config.Config, log logger.Logger) error {
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return microservices.Migrate(ctx, db, log)
}
