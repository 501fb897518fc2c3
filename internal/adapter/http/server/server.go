package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/config"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/handler"
	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/middleware"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/bus-fare-terminal/pkg/wsHub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health   *handler.Health
	catalog  *handler.Catalog
	terminal *handler.Terminal
	display  *handler.Display
	tracker  *handler.Tracker
}

// Destinations is the destination catalog as the terminal API uses it.
type Destinations interface {
	handler.DestinationLister
	handler.DestinationGetter
}

// Services are the dependencies of the handlers. Only the ones of the
// configured mode are required.
type Services struct {
	Auth middleware.AuthService

	// terminal mode
	Destinations Destinations
	Quotes       handler.QuoteReader
	Tickets      handler.TicketReader
	Terminals    handler.TerminalRegistry
	Device       handler.DeviceReporter
	Displays     handler.DisplaySource
	Hub          *ws.ConnectionHub

	// tracker mode
	Locations handler.LocationService

	// Health lists the dependencies probed by /health.
	Health map[string]handler.Pinger
}

func New(cfg config.Config, svc Services, logger logger.Logger) (*API, error) {
	var addr string
	handlers := &handlers{}

	if svc.Auth == nil {
		return nil, errors.New("auth service is required")
	}

	switch cfg.Mode {
	case types.FareTerminalService:
		if svc.Destinations == nil || svc.Quotes == nil || svc.Tickets == nil ||
			svc.Terminals == nil || svc.Device == nil || svc.Displays == nil || svc.Hub == nil {
			return nil, errors.New("terminal services are not complete")
		}
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.FareTerminal)
		handlers.health = handler.NewHealth("fare-terminal", svc.Health, logger)
		handlers.catalog = handler.NewCatalog(svc.Destinations, svc.Quotes, svc.Tickets, logger)
		handlers.terminal = handler.NewTerminal(svc.Terminals, svc.Destinations, svc.Device, logger)
		handlers.display = handler.NewDisplay(svc.Displays, svc.Hub, logger)
	case types.FleetTrackerService:
		if svc.Locations == nil {
			return nil, errors.New("location service is required")
		}
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.FleetTracker)
		handlers.health = handler.NewHealth("fleet-tracker", svc.Health, logger)
		handlers.tracker = handler.NewTracker(svc.Locations, logger)
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	mid := middleware.NewMiddleware(svc.Auth, logger)

	api := &API{
		mode: cfg.Mode,

		mux:    http.NewServeMux(),
		routes: handlers,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    logger,
	}

	setupRoutes(api.mux, api.routes, api.m, api.mode, api.log)

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api, nil
}

// Handler returns the routed mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr, "mode", a.mode)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux. Metrics sits next to the
// mux so it sees the matched route pattern.
func (a *API) withMiddleware() http.Handler {
	metrics := a.m.Metrics(string(a.mode))
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Auth(metrics(a.mux)))))
}
