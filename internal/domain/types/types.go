package types

type ServiceMode string

// Fare Terminal - driver terminal state machines, quotes, tickets and the passenger display push
// Fleet Tracker - bus location samples and the fleet positions board
const (
	FareTerminalService ServiceMode = "terminal"
	FleetTrackerService ServiceMode = "tracker"
)

func (m ServiceMode) Valid() bool {
	switch m {
	case FareTerminalService, FleetTrackerService:
		return true
	}
	return false
}

// Enum для роли пользователя
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RoleDriver UserRole = "DRIVER"
	RoleAdmin  UserRole = "ADMIN"
)

// Transport used by the cross-surface notifier
type NotifierTransport string

const (
	TransportLocal    NotifierTransport = "local"
	TransportRedis    NotifierTransport = "redis"
	TransportRabbitMQ NotifierTransport = "rabbitmq"
	TransportNone     NotifierTransport = "none"
)

const (
	CurrencyPYG = "PYG"

	TicketStatusConfirmed = "confirmed"
)
