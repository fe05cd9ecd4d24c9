package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/fullbor/finance-mcp/internal/common"
)

// Transport names accepted by Server.Transport.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	API         APIConfig            `toml:"api"`
	Auth        AuthConfig           `toml:"auth"`
	Server      ServerConfig         `toml:"server"`
	User        UserConfig           `toml:"user"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// APIConfig configures the upstream finance API client.
// RateLimit is requests per second; 0 disables limiting.
type APIConfig struct {
	BaseURL    string  `toml:"base_url"`
	TimeoutMS  int     `toml:"timeout_ms"`
	RetryCount int     `toml:"retry_count"`
	RateLimit  float64 `toml:"rate_limit"`
	RateBurst  int     `toml:"rate_burst"`
}

// AuthConfig holds Cognito credentials, or a static bearer token that
// bypasses Cognito entirely.
type AuthConfig struct {
	Region     string `toml:"region"`
	UserPoolID string `toml:"user_pool_id"`
	ClientID   string `toml:"client_id"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	Token      string `toml:"token"`
}

// ServerConfig contains transport and HTTP listener settings.
type ServerConfig struct {
	Transport string `toml:"transport"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
}

// UserConfig scopes upstream queries to a client.
type UserConfig struct {
	DefaultUserID int64 `toml:"default_user_id"`
}

// Address returns host:port for the HTTP transports.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UsesStaticToken reports whether a configured token replaces Cognito.
func (c *Config) UsesStaticToken() bool {
	return c.Auth.Token != ""
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Missing files are skipped; unreadable or malformed ones are errors.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// .env never overrides variables already present in the process environment.
	_ = godotenv.Load()

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	setString(&config.API.BaseURL, "API_BASE_URL")
	setInt(&config.API.TimeoutMS, "API_TIMEOUT_MS")
	setInt(&config.API.RetryCount, "API_RETRY_COUNT")
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.API.RateLimit = f
		}
	}

	setString(&config.Auth.Region, "AWS_REGION")
	setString(&config.Auth.UserPoolID, "USER_POOL_ID")
	setString(&config.Auth.ClientID, "CLIENT_ID")
	setString(&config.Auth.Username, "TEST_USERNAME")
	setString(&config.Auth.Password, "TEST_PASSWORD")
	setString(&config.Auth.Token, "API_TOKEN")

	setString(&config.Server.Host, "HOST")
	setInt(&config.Server.Port, "PORT")
	setString(&config.Environment, "NODE_ENV")

	// Hosted deployments imply SSE unless a transport is named explicitly.
	if t := os.Getenv("MCP_TRANSPORT"); t != "" {
		config.Server.Transport = strings.ToLower(t)
	} else if config.Environment == "production" || os.Getenv("PORT") != "" {
		config.Server.Transport = TransportSSE
	}

	if v := os.Getenv("DEFAULT_USER_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.User.DefaultUserID = id
		}
	}

	setString(&config.Logging.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, transport string, port int, host string) {
	if transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	var problems []string

	if c.API.BaseURL == "" {
		problems = append(problems, "api.base_url is required")
	}
	if c.API.TimeoutMS <= 0 {
		problems = append(problems, "api.timeout_ms must be positive")
	}
	if c.API.RetryCount < 1 {
		problems = append(problems, "api.retry_count must be at least 1")
	}
	if c.API.RateLimit < 0 {
		problems = append(problems, "api.rate_limit must not be negative")
	}

	if !c.UsesStaticToken() {
		if c.Auth.Username == "" {
			problems = append(problems, "TEST_USERNAME is required")
		}
		if c.Auth.Password == "" {
			problems = append(problems, "TEST_PASSWORD is required")
		}
		if c.Auth.UserPoolID == "" || c.Auth.ClientID == "" {
			problems = append(problems, "auth.user_pool_id and auth.client_id are required")
		}
	}

	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		problems = append(problems, fmt.Sprintf("unknown transport %q (want stdio, sse or http)", c.Server.Transport))
	}
	if c.Server.Transport != TransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		problems = append(problems, fmt.Sprintf("invalid port %d", c.Server.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
