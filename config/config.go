package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/configparser"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
)

// Errors
var (
	ErrInvalidMode      = errors.New("invalid application mode")
	ErrInvalidTransport = errors.New("invalid notifier transport")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode     types.ServiceMode `env:"MODE" default:"terminal"`
		LogLevel string            `env:"LOG_LEVEL" default:"INFO"`

		Database   DatabaseConfig
		Migrations MigrationsConfig
		Redis      RedisConfig
		RabbitMQ   RabbitMQConfig
		Notifier   NotifierConfig
		Fare       FareConfig
		Terminal   TerminalConfig
		Cache      CacheConfig
		Services   ServicesConfig
		Auth       Auth
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"fare_user"`
		Password string `env:"DATABASE_PASSWORD" default:"fare_pass"`
		Database string `env:"DATABASE_DATABASE" default:"fare_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`         // максимум открытых соединений
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`          // минимум соединений в пуле
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"` // макс. "время жизни" соединения
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`  // макс. "время простоя" соединения
		ConnectRetries  uint64        `env:"DATABASE_CONNECT_RETRIES" default:"5"`
	}

	MigrationsConfig struct {
		AutoMigrate bool `env:"MIGRATIONS_AUTO_MIGRATE" default:"true"`
	}

	RedisConfig struct {
		Host           string `env:"REDIS_HOST" default:"localhost"`
		Port           string `env:"REDIS_PORT" default:"6379"`
		Password       string `env:"REDIS_PASSWORD"`
		DB             int    `env:"REDIS_DB" default:"0"`
		ConnectRetries uint64 `env:"REDIS_CONNECT_RETRIES" default:"3"`
	}

	RabbitMQConfig struct {
		Host           string `env:"RABBITMQ_HOST" default:"localhost"`
		Port           string `env:"RABBITMQ_PORT" default:"5672"`
		User           string `env:"RABBITMQ_USER" default:"guest"`
		Password       string `env:"RABBITMQ_PASSWORD" default:"guest"`
		ConnectRetries uint64 `env:"RABBITMQ_CONNECT_RETRIES" default:"5"`
	}

	// NotifierConfig selects how fare events reach the passenger displays.
	// local keeps them in process, redis and rabbitmq fan them out to every
	// instance, none disables the displays.
	NotifierConfig struct {
		Transport types.NotifierTransport `env:"NOTIFIER_TRANSPORT" default:"local"`
		Channel   string                  `env:"NOTIFIER_CHANNEL" default:"fare-updates"`
	}

	FareConfig struct {
		BaseFare        int64   `env:"FARE_BASE_FARE" default:"5000"`
		PerKmRate       int64   `env:"FARE_PER_KM_RATE" default:"1500"`
		Currency        string  `env:"FARE_CURRENCY" default:"PYG"`
		AverageSpeedKmh float64 `env:"FARE_AVERAGE_SPEED_KMH" default:"30"`
	}

	TerminalConfig struct {
		AutoResetDelay time.Duration `env:"TERMINAL_AUTO_RESET_DELAY" default:"5s"`
		DeviceFixTTL   time.Duration `env:"TERMINAL_DEVICE_FIX_TTL" default:"2m"`

		// The default location is the last resort origin, Asunción downtown.
		UseDefaultLocation bool    `env:"TERMINAL_USE_DEFAULT_LOCATION" default:"true"`
		DefaultLatitude    float64 `env:"TERMINAL_DEFAULT_LATITUDE" default:"-25.2808"`
		DefaultLongitude   float64 `env:"TERMINAL_DEFAULT_LONGITUDE" default:"-57.6312"`
	}

	// CacheConfig of the destination cache. Disabled keeps the catalog on the database only.
	CacheConfig struct {
		Enabled        bool          `env:"CACHE_ENABLED" default:"false"`
		DestinationTTL time.Duration `env:"CACHE_DESTINATION_TTL" default:"10m"`
	}

	ServicesConfig struct {
		FareTerminal string `env:"SERVICES_FARE_TERMINAL" default:"3000"`
		FleetTracker string `env:"SERVICES_FLEET_TRACKER" default:"3001"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"12h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetPoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
		ConnectRetries:  c.ConnectRetries,
	}
}

func (c RedisConfig) GetAddr() string           { return net.JoinHostPort(c.Host, c.Port) }
func (c RedisConfig) GetPassword() string       { return c.Password }
func (c RedisConfig) GetDB() int                { return c.DB }
func (c RedisConfig) GetConnectRetries() uint64 { return c.ConnectRetries }

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// DefaultLocation returns the configured fallback origin, nil when disabled.
func (c TerminalConfig) DefaultLocation() *models.Coordinate {
	if !c.UseDefaultLocation {
		return nil
	}
	return &models.Coordinate{Latitude: c.DefaultLatitude, Longitude: c.DefaultLongitude}
}

// NewConfig loads the optional YAML file, then env and defaults.
func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if !logger.ValidateLogLevel(c.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	switch c.Notifier.Transport {
	case types.TransportLocal, types.TransportRedis, types.TransportRabbitMQ, types.TransportNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Notifier.Transport)
	}

	if c.Fare.BaseFare < 0 || c.Fare.PerKmRate < 0 {
		return errors.New("fare rates must not be negative")
	}
	if c.Fare.Currency == "" {
		return errors.New("fare currency is required")
	}
	if d := c.Terminal.DefaultLocation(); d != nil {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("terminal default location: %w", err)
		}
	}
	return nil
}
