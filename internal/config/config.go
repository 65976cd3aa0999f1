// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Filter  FilterConfig
	Run     RunConfig
	Session SessionConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to. The server reads and writes local
	// paths, so it binds to loopback unless told otherwise.
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on; PORT is accepted as well (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`

	// APIKeys are accepted X-API-Key values for /api routes, comma-separated.
	// When empty the API is open.
	APIKeys []string `env:"SERVER_API_KEYS"`
}

// RequireAPIKey reports whether /api routes check X-API-Key.
func (c *ServerConfig) RequireAPIKey() bool {
	return len(c.APIKeys) > 0
}

// FilterConfig holds header detection and output settings.
type FilterConfig struct {
	// HeaderSearchLimit is how many leading rows are scored as header candidates (default: 25)
	HeaderSearchLimit int `env:"FILTER_HEADER_SEARCH_LIMIT" default:"25"`

	// DateFormats are the accepted text date formats in priority order,
	// written with DD, MM and YYYY tokens.
	DateFormats []string `env:"FILTER_DATE_FORMATS" default:"DD.MM.YYYY,YYYY-MM-DD,DD/MM/YYYY"`

	// OutputDateFormat is the display format of the date column (default: DD.MM.YYYY)
	OutputDateFormat string `env:"FILTER_OUTPUT_DATE_FORMAT" default:"DD.MM.YYYY"`

	// ResultSheet is the worksheet name of output files (default: Результат)
	ResultSheet string `env:"FILTER_RESULT_SHEET" default:"Результат"`

	// ColumnsFile is an optional YAML file with the required output columns.
	// When empty the built-in column set is used.
	ColumnsFile string `env:"FILTER_COLUMNS_FILE"`

	// Locale selects the language of status lines: ru or en (default: ru)
	Locale string `env:"FILTER_LOCALE" default:"ru"`
}

// RunConfig bounds concurrent filter runs across all sessions.
type RunConfig struct {
	// MaxConcurrent is the maximum number of parallel runs (default: 4)
	MaxConcurrent int `env:"RUN_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a run waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"RUN_MAX_WAIT_TIME" default:"30s"`
}

// SessionConfig holds web session settings.
type SessionConfig struct {
	// Max is the maximum number of live sessions (default: 100)
	Max int `env:"SESSION_MAX" default:"100"`

	// IdleTimeout is how long an unused session is kept (default: 30m)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"30m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
