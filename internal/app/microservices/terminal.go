package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/bus-fare-terminal/config"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/device"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/handler"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/server"
	repo "github.com/Temutjin2k/bus-fare-terminal/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/bus-fare-terminal/internal/adapter/rabbit"
	redisadapter "github.com/Temutjin2k/bus-fare-terminal/internal/adapter/redis"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/auth"
	farecalc "github.com/Temutjin2k/bus-fare-terminal/internal/service/calculator"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/destination"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/display"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/location"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/notifier"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/quote"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/terminal"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/ticket"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/rabbit"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/redis"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/trm"
	ws "github.com/Temutjin2k/bus-fare-terminal/pkg/wsHub"
)

// FareTerminal runs the driver terminals, the fare store API and the
// passenger display push.
type FareTerminal struct {
	postgresDB *postgres.PostgreDB
	redis      *redis.Client
	rabbit     *rabbit.RabbitMQ

	terminalCh *notifier.Channel
	displayCh  *notifier.Channel
	registry   *terminal.Registry
	board      *display.Board
	hub        *ws.ConnectionHub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewFareTerminal(ctx context.Context, cfg config.Config, log logger.Logger) (*FareTerminal, error) {
	s := &FareTerminal{cfg: cfg, log: log}

	postgresDB, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	s.postgresDB = postgresDB

	if err := s.connectBrokers(ctx); err != nil {
		s.close(ctx)
		return nil, err
	}

	// Stores
	txManager := trm.New(postgresDB.Pool)
	quoteRepo := repo.NewQuoteRepo(postgresDB.Pool)
	ticketRepo := repo.NewTicketRepo(postgresDB.Pool)
	locationRepo := repo.NewBusLocationRepo(postgresDB.Pool)

	var destinationRepo destination.Repo = repo.NewDestinationRepo(postgresDB.Pool)
	if cfg.Cache.Enabled && s.redis != nil {
		destinationRepo = redisadapter.NewDestinationCache(s.redis.Client, destinationRepo, cfg.Cache.DestinationTTL, log)
	}

	// Services
	policy := farecalc.Policy{
		BaseFare:        cfg.Fare.BaseFare,
		PerKmRate:       cfg.Fare.PerKmRate,
		Currency:        cfg.Fare.Currency,
		AverageSpeedKmh: cfg.Fare.AverageSpeedKmh,
	}
	catalog := destination.NewCatalog(destinationRepo, log)
	quoteService := quote.New(catalog, quoteRepo, policy, log)
	ticketService := ticket.New(quoteRepo, ticketRepo, txManager, log)
	feed := location.NewFeed(locationRepo, log)
	fixes := device.NewFixStore(cfg.Terminal.DeviceFixTTL)

	// Cross-surface notifier: the terminals and the displays hold their own handles
	transport := s.transport(ctx)
	s.terminalCh = notifier.Open(ctx, cfg.Notifier.Channel, transport, log)
	s.displayCh = notifier.Open(ctx, cfg.Notifier.Channel, transport, log)

	s.registry = terminal.NewRegistry(terminal.Deps{
		Quotes:    quoteService,
		Tickets:   ticketService,
		Locator:   terminal.NewLocator(fixes, feed, cfg.Terminal.DefaultLocation(), log),
		Publisher: s.terminalCh,
		Logger:    log,
	}, cfg.Terminal.AutoResetDelay)

	s.hub = ws.NewConnHub(log)
	s.board = display.NewBoard(s.displayCh, handler.ViewPusher(s.hub, log), log)

	health := map[string]handler.Pinger{"postgres": postgresDB.Pool}
	if s.redis != nil {
		health["redis"] = redisPinger{s.redis}
	}

	s.httpServer, err = server.New(cfg, server.Services{
		Auth:         auth.NewVerifier(cfg.Auth.JWTSecret, log),
		Destinations: catalog,
		Quotes:       quoteService,
		Tickets:      ticketService,
		Terminals:    s.registry,
		Device:       fixes,
		Displays:     s.board,
		Hub:          s.hub,
		Health:       health,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		s.close(ctx)
		return nil, err
	}

	return s, nil
}

// connectBrokers connects to Redis and RabbitMQ when the configuration needs them.
func (s *FareTerminal) connectBrokers(ctx context.Context) error {
	if s.cfg.Cache.Enabled || s.cfg.Notifier.Transport == types.TransportRedis {
		client, err := redis.New(ctx, s.cfg.Redis)
		if err != nil {
			if s.cfg.Cache.Enabled {
				s.log.Error(ctx, "Failed to connect to redis", err)
				return err
			}
			// the notifier degrades without its transport
			s.log.Warn(ctx, "redis is unreachable, passenger displays are disabled", "error", err.Error())
		} else {
			s.redis = client
			s.log.Info(wrap.WithAction(ctx, types.ActionRedisConnected), "connected to redis", "addr", s.cfg.Redis.GetAddr())
		}
	}

	if s.cfg.Notifier.Transport == types.TransportRabbitMQ {
		client, err := rabbit.New(ctx, s.cfg.RabbitMQ.GetDSN(), s.cfg.RabbitMQ.ConnectRetries, s.log)
		if err != nil {
			s.log.Warn(ctx, "rabbitmq is unreachable, passenger displays are disabled", "error", err.Error())
		} else {
			s.rabbit = client
		}
	}
	return nil
}

// transport picks the notifier transport. nil means a degraded channel.
func (s *FareTerminal) transport(ctx context.Context) notifier.Transport {
	switch s.cfg.Notifier.Transport {
	case types.TransportLocal:
		return notifier.NewLocalBus()
	case types.TransportRedis:
		if s.redis != nil {
			return redisadapter.NewPubSubTransport(s.redis.Client, s.log)
		}
	case types.TransportRabbitMQ:
		if s.rabbit != nil {
			return rabbitadapter.NewFanoutTransport(s.rabbit, s.log)
		}
	case types.TransportNone:
		s.log.Info(ctx, "fare notifier disabled")
	}
	return nil
}

func (s *FareTerminal) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "fare terminal service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "Fare terminal service has been started",
		"notifier", s.cfg.Notifier.Transport, "degraded", s.terminalCh.Degraded())

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

func (s *FareTerminal) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}
	if s.registry != nil {
		s.registry.Close()
	}
	if s.board != nil {
		s.board.Close()
	}
	if s.hub != nil {
		s.hub.Close()
	}
	if s.terminalCh != nil {
		s.terminalCh.Close()
	}
	if s.displayCh != nil {
		s.displayCh.Close()
	}
	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq connection", "error", err.Error())
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close redis client", "error", err.Error())
		}
	}
	if s.postgresDB != nil {
		s.postgresDB.Close()
	}
}

type redisPinger struct{ c *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Client.Ping(ctx).Err() }
