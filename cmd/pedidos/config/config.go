package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap/zapcore"

	"simblissima-pedidos/internal/pedidos"
	"simblissima-pedidos/internal/pedidos/backend"
	"simblissima-pedidos/internal/pedidos/data/database"
	"simblissima-pedidos/internal/pedidos/handlers"
	"simblissima-pedidos/internal/pedidos/refresh"
	"simblissima-pedidos/internal/pedidos/view"
	"simblissima-pedidos/pkg/logging"
)

const (
	serverAddressFlag         = "a"
	serverAddressEnv          = "RUN_ADDRESS"
	serverAddressDefault      = "localhost:8080"
	backendAddressFlag        = "b"
	backendAddressEnv         = "BACKEND_ADDRESS"
	backendAddressDefault     = "http://localhost:8000/api"
	dbConnectionStringFlag    = "d"
	dbConnectionStringEnv     = "DATABASE_URI"
	dbConnectionStringDefault = ""
	refreshPeriodFlag         = "p"
	refreshPeriodEnv          = "REFRESH_PERIOD"

	backendTimeoutEnv      = "BACKEND_TIMEOUT"
	backendTimeoutDefault  = 10 * time.Second
	jwtSecretEnv           = "JWT_SECRET"
	jwtAlgorithmEnv        = "JWT_ALGORITHM"
	jwtAlgorithmDefault    = "HS256"
	loginURLEnv            = "LOGIN_URL"
	loginURLDefault        = "/login/"
	homeURLEnv             = "HOME_URL"
	homeURLDefault         = "/"
	managerURLEnv          = "MANAGER_DASHBOARD_URL"
	managerURLDefault      = "/gerente/"
	timezoneEnv            = "TIMEZONE"
	timezoneDefault        = "America/Sao_Paulo"
	logLevelEnv            = "LOG_LEVEL"
	logLevelDefault        = "info"
	logFormatEnv           = "LOG_FORMAT"
	secureCookiesEnv       = "SECURE_COOKIES"
	idleTimeoutEnv         = "IDLE_TIMEOUT"
	shutdownTimeoutDefault = 5 * time.Second
)

var (
	ErrBadValue     = errors.New("bad configuration value")
	ErrMissingValue = errors.New("missing configuration value")
)

type Config struct {
	Server          pedidos.Config
	Backend         backend.Config
	Views           view.RegistryConfig
	JWTConfig       JWTConfig
	DB              database.Config
	Location        *time.Location
	Logging         logging.Options
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Algorithm string
	Secret    string
}

func Load() (*Config, error) {
	return load(flag.CommandLine, os.Args[1:], os.LookupEnv)
}

func load(fs *flag.FlagSet, args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	serverAddress := fs.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	backendAddress := fs.String(
		backendAddressFlag,
		backendAddressDefault,
		"Orders backend base URL",
	)

	dbConnectionString := fs.String(
		dbConnectionStringFlag,
		dbConnectionStringDefault,
		"PostgreSQL connection string, in-memory storage when empty",
	)

	refreshPeriod := fs.Duration(
		refreshPeriodFlag,
		refresh.DefaultTickPeriod,
		"Order list refresh period",
	)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if valStr, ok := lookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := lookupEnv(backendAddressEnv); ok {
		*backendAddress = valStr
	}

	if valStr, ok := lookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}

	if valStr, ok := lookupEnv(refreshPeriodEnv); ok {
		val, err := parsePositiveDuration(refreshPeriodEnv, valStr)
		if err != nil {
			return nil, err
		}
		*refreshPeriod = val
	}

	backendTimeout := backendTimeoutDefault
	if valStr, ok := lookupEnv(backendTimeoutEnv); ok {
		val, err := parsePositiveDuration(backendTimeoutEnv, valStr)
		if err != nil {
			return nil, err
		}
		backendTimeout = val
	}

	idleTimeout := view.DefaultIdleTimeout
	if valStr, ok := lookupEnv(idleTimeoutEnv); ok {
		val, err := parsePositiveDuration(idleTimeoutEnv, valStr)
		if err != nil {
			return nil, err
		}
		idleTimeout = val
	}

	jwtSecret, ok := lookupEnv(jwtSecretEnv)
	if !ok || jwtSecret == "" {
		return nil, fmt.Errorf("%w: %s must be set to the backend token signing secret", ErrMissingValue, jwtSecretEnv)
	}

	timezone := envOr(lookupEnv, timezoneEnv, timezoneDefault)
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %w", ErrBadValue, timezoneEnv, timezone, err)
	}

	logLevelStr := envOr(lookupEnv, logLevelEnv, logLevelDefault)
	logLevel, err := zapcore.ParseLevel(logLevelStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %w", ErrBadValue, logLevelEnv, logLevelStr, err)
	}

	logFormatStr, _ := lookupEnv(logFormatEnv)
	logFormat, err := logging.ParseFormat(logFormatStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadValue, logFormatEnv, err)
	}

	_, secureCookies := lookupEnv(secureCookiesEnv)

	return &Config{
		Server: pedidos.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: shutdownTimeoutDefault,
			SecureCookies:   secureCookies,
			Redirects: handlers.RedirectConfig{
				LoginURL:            envOr(lookupEnv, loginURLEnv, loginURLDefault),
				HomeURL:             envOr(lookupEnv, homeURLEnv, homeURLDefault),
				ManagerDashboardURL: envOr(lookupEnv, managerURLEnv, managerURLDefault),
			},
		},
		Backend: backend.Config{
			ServerAddress: withScheme(*backendAddress),
			Timeout:       backendTimeout,
		},
		Views: view.RegistryConfig{
			Refresh: refresh.Config{
				TickPeriod: *refreshPeriod,
			},
			IdleTimeout: idleTimeout,
		},
		JWTConfig: JWTConfig{
			Algorithm: envOr(lookupEnv, jwtAlgorithmEnv, jwtAlgorithmDefault),
			Secret:    jwtSecret,
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
			RetryAttemptDelays: []time.Duration{
				time.Second,
				3 * time.Second,
				5 * time.Second,
			},
		},
		Location:        location,
		Logging: logging.Options{
			Level:  logLevel,
			Format: logFormat,
		},
		ShutdownTimeout: shutdownTimeoutDefault,
	}, nil
}

func envOr(lookupEnv func(string) (string, bool), key, fallback string) string {
	if valStr, ok := lookupEnv(key); ok && valStr != "" {
		return valStr
	}
	return fallback
}

func parsePositiveDuration(key, valStr string) (time.Duration, error) {
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrBadValue, key, valStr, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrBadValue, key)
	}
	return val, nil
}

// withScheme accepts the host:port form used by the other addresses.
func withScheme(address string) string {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}
	return "http://" + address
}
