package server

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/middleware"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware, mode types.ServiceMode, log logger.Logger) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux, mode, log)
	setupMetricsRoute(mux)

	switch mode {
	case types.FareTerminalService:
		setupCatalogRoutes(mux, routes)
		setupTerminalRoutes(mux, routes, m)
		setupDisplayRoutes(mux, routes)
	case types.FleetTrackerService:
		setupTrackerRoutes(mux, routes, m)
	}
}

func setupCatalogRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("GET /destinations", routes.catalog.ListDestinations) // Destination picker
	mux.HandleFunc("GET /quotes/{quote_id}", routes.catalog.GetQuote)
	mux.HandleFunc("GET /tickets/{ticket_id}", routes.catalog.GetTicket)
}

// setupTerminalRoutes setups routes of the driver terminal
func setupTerminalRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	t := routes.terminal
	mux.Handle("GET /terminals/{bus_id}", m.RequireRoles(t.GetTerminal, types.RoleDriver))
	mux.Handle("POST /terminals/{bus_id}/position", m.RequireRoles(t.ReportPosition, types.RoleDriver))       // Device geolocation
	mux.Handle("POST /terminals/{bus_id}/destination", m.RequireRoles(t.SelectDestination, types.RoleDriver)) // Select destination and quote
	mux.Handle("POST /terminals/{bus_id}/retry", m.RequireRoles(t.Retry, types.RoleDriver))
	mux.Handle("POST /terminals/{bus_id}/confirm", m.RequireRoles(t.Confirm, types.RoleDriver))
	mux.Handle("POST /terminals/{bus_id}/cancel", m.RequireRoles(t.Cancel, types.RoleDriver))
	mux.Handle("POST /terminals/{bus_id}/reset", m.RequireRoles(t.Reset, types.RoleDriver))
	mux.Handle("DELETE /terminals/{bus_id}/error", m.RequireRoles(t.DismissError, types.RoleDriver))
}

// setupDisplayRoutes setups the public passenger display routes
func setupDisplayRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("GET /displays/{bus_id}", routes.display.GetDisplay)
	mux.HandleFunc("GET /ws/displays/{bus_id}", routes.display.Subscribe) // WebSocket push of display changes
}

// setupTrackerRoutes setups routes of the fleet tracker
func setupTrackerRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /buses/{bus_id}/locations", m.RequireRoles(routes.tracker.RecordLocation, types.RoleDriver, types.RoleAdmin))
	mux.HandleFunc("GET /buses/{bus_id}/location", routes.tracker.CurrentLocation)
	mux.HandleFunc("GET /buses/locations", routes.tracker.FleetPositions)
}

// setupSwaggerRoutes configures Swagger UI endpoints based on service mode
func setupSwaggerRoutes(mux *http.ServeMux, mode types.ServiceMode, log logger.Logger) {
	var instanceName string

	switch mode {
	case types.FareTerminalService:
		instanceName = "terminal"
	case types.FleetTrackerService:
		instanceName = "tracker"
	default:
		log.Warn(wrap.WithAction(context.Background(), "setup swagger routes"), "unknown service mode for swagger setup", "mode", mode)
		return
	}

	// Swagger UI endpoint
	swaggerURL := httpSwagger.InstanceName(instanceName)
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
