package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Temutjin2k/bus-fare-terminal/config"
	_ "github.com/Temutjin2k/bus-fare-terminal/docs"
	"github.com/Temutjin2k/bus-fare-terminal/internal/app"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/auth"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the config yaml file",
	Value:   "config.yaml",
	EnvVars: []string{"CONFIG_PATH"},
}

func main() {
	cliApp := &cli.App{
		Name:  "fare",
		Usage: "bus fare quoting and confirmation engine",

		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration, mode overrides it when set.
func loadConfig(c *cli.Context, mode string) (*config.Config, error) {
	cfg, err := config.NewConfig(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if mode != "" {
		cfg.Mode = types.ServiceMode(mode)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the fare terminal or the fleet tracker service",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "service mode: terminal or tracker",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			cfg, err := loadConfig(c, c.String("mode"))
			if err != nil {
				return fmt.Errorf("failed to configure application: %w", err)
			}

			log := logger.InitLogger(string(cfg.Mode), cfg.LogLevel)

			// Printing configuration
			config.PrintConfig(ctx, cfg, log)

			// Creating application
			application, err := app.NewApplication(ctx, *cfg, log)
			if err != nil {
				log.Error(ctx, "failed to init application", err)
				return err
			}

			// Running the apllication
			if err = application.Run(ctx); err != nil {
				log.Error(ctx, "failed to run application", err)
				return err
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the database migrations and exit",
		Flags: []cli.Flag{configFlag},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			cfg, err := loadConfig(c, "")
			if err != nil {
				return fmt.Errorf("failed to configure application: %w", err)
			}
			log := logger.InitLogger("migrate", cfg.LogLevel)

			return app.Migrate(ctx, *cfg, log)
		},
	}
}

// tokenCommand issues a bearer token signed with the configured secret, for
// local runs without the identity service.
func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a development bearer token",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "user", Usage: "user id", Required: true},
			&cli.StringFlag{Name: "role", Usage: "DRIVER or ADMIN", Value: string(types.RoleDriver)},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, "")
			if err != nil {
				return fmt.Errorf("failed to configure application: %w", err)
			}

			role := strings.ToUpper(c.String("role"))
			if role != string(types.RoleDriver) && role != string(types.RoleAdmin) {
				return fmt.Errorf("unknown role %q", role)
			}

			verifier := auth.NewVerifier(cfg.Auth.JWTSecret, logger.Nop())
			token, err := verifier.Issue(models.User{ID: c.String("user"), Role: role}, cfg.Auth.AccessTokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
