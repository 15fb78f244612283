// Package config reads the server configuration from the process
// environment.
//
// The configuration is built once in main and passed down explicitly; no
// other package reads environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults for optional variables.
const (
	DefaultBaseURL         = "https://kanbanflow.com/api/v1"
	DefaultTimeout         = 30 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
	DefaultServerName      = "kanbanflow-mcp"
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 3000
	DefaultLogLevel        = "info"
)

// Config holds every setting the binary needs.
type Config struct {
	KanbanFlow KanbanFlow
	Server     Server
}

// KanbanFlow configures the remote API client.
type KanbanFlow struct {
	// APIKey may be empty here; the client refuses to start without one.
	APIKey          string
	BaseURL         string        `validate:"required,url"`
	Timeout         time.Duration `validate:"gt=0"`
	BreakerFailures uint32
	BreakerTimeout  time.Duration `validate:"gt=0"`
}

// Server configures the MCP server and its HTTP transport.
type Server struct {
	Name       string `validate:"required"`
	Host       string `validate:"required"`
	Port       int    `validate:"min=1,max=65535"`
	LogLevel   string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile    string
	AuthSecret string
}

// Addr returns host:port for the HTTP listener.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Load reads an optional .env file from the working directory and then
// builds the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from lookup, which has the signature of
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		KanbanFlow: KanbanFlow{
			APIKey:  get("KANBANFLOW_API_KEY", ""),
			BaseURL: strings.TrimRight(get("KANBANFLOW_BASE_URL", DefaultBaseURL), "/"),
		},
		Server: Server{
			Name:       get("MCP_SERVER_NAME", DefaultServerName),
			Host:       get("MCP_SERVER_HOST", DefaultHost),
			LogLevel:   strings.ToLower(get("MCP_SERVER_LOG_LEVEL", DefaultLogLevel)),
			LogFile:    get("MCP_SERVER_LOG_FILE", ""),
			AuthSecret: get("MCP_SERVER_AUTH_SECRET", ""),
		},
	}

	var err error
	if cfg.KanbanFlow.Timeout, err = parseDuration("KANBANFLOW_TIMEOUT", get("KANBANFLOW_TIMEOUT", ""), DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.KanbanFlow.BreakerTimeout, err = parseDuration("KANBANFLOW_BREAKER_TIMEOUT", get("KANBANFLOW_BREAKER_TIMEOUT", ""), DefaultBreakerTimeout); err != nil {
		return nil, err
	}

	failures := uint64(DefaultBreakerFailures)
	if v := get("KANBANFLOW_BREAKER_FAILURES", ""); v != "" {
		if failures, err = strconv.ParseUint(v, 10, 32); err != nil {
			return nil, fmt.Errorf("KANBANFLOW_BREAKER_FAILURES: %w", err)
		}
	}
	cfg.KanbanFlow.BreakerFailures = uint32(failures)

	cfg.Server.Port = DefaultPort
	if v := get("MCP_SERVER_PORT", ""); v != "" {
		if cfg.Server.Port, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("MCP_SERVER_PORT: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func parseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
