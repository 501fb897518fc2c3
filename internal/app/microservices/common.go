package microservices

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/bus-fare-terminal/config"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/migrations"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
)

// setupDatabase connects to PostgreSQL and applies pending migrations when enabled.
func setupDatabase(ctx context.Context, cfg config.Config, log logger.Logger) (*postgres.PostgreDB, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	if cfg.Migrations.AutoMigrate {
		if err := Migrate(ctx, postgresDB, log); err != nil {
			postgresDB.Close()
			return nil, err
		}
	}
	return postgresDB, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *postgres.PostgreDB, log logger.Logger) error {
	ctx = wrap.WithAction(ctx, types.ActionMigrationsApplied)

	results, err := migrations.Up(ctx, db.Pool)
	if err != nil {
		log.Error(ctx, "Failed to apply migrations", err)
		return err
	}
	for _, r := range results {
		log.Info(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration.String())
	}
	if len(results) == 0 {
		log.Debug(ctx, "schema is up to date")
	}
	return nil
}
