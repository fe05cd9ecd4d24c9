package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv unsets every variable the loader reads so host settings
// do not leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "API_TIMEOUT_MS", "API_RETRY_COUNT", "API_RATE_LIMIT",
		"AWS_REGION", "USER_POOL_ID", "CLIENT_ID", "TEST_USERNAME", "TEST_PASSWORD", "API_TOKEN",
		"HOST", "PORT", "MCP_TRANSPORT", "DEFAULT_USER_ID", "NODE_ENV", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.API.BaseURL != "https://api.fullbor.ai/v2" {
		t.Errorf("expected default base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMS != 10000 {
		t.Errorf("expected default timeout 10000, got %d", cfg.API.TimeoutMS)
	}
	if cfg.API.RetryCount != 3 {
		t.Errorf("expected default retry count 3, got %d", cfg.API.RetryCount)
	}
	if cfg.Auth.Region != "us-east-2" {
		t.Errorf("expected default region us-east-2, got %s", cfg.Auth.Region)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Transport != TransportStdio {
		t.Errorf("expected stdio transport by default, got %s", cfg.Server.Transport)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_MissingFileIsSkipped(t *testing.T) {
	clearEnv(t)

	if _, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Fatalf("missing file should be skipped, got %v", err)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	clearEnv(t)
	tomlPath := filepath.Join(t.TempDir(), "test.toml")

	content := `
[api]
base_url = "http://localhost:9999/v2"
retry_count = 5
rate_limit = 2.5

[auth]
token = "static-token"

[server]
transport = "http"
port = 9090

[logging]
level = "debug"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:9999/v2" {
		t.Errorf("expected base URL from file, got %s", cfg.API.BaseURL)
	}
	if cfg.API.RetryCount != 5 {
		t.Errorf("expected retry count 5, got %d", cfg.API.RetryCount)
	}
	if cfg.API.RateLimit != 2.5 {
		t.Errorf("expected rate limit 2.5, got %v", cfg.API.RateLimit)
	}
	if !cfg.UsesStaticToken() {
		t.Error("expected static token from file")
	}
	if cfg.Server.Transport != TransportHTTP || cfg.Server.Port != 9090 {
		t.Errorf("expected http:9090, got %s:%d", cfg.Server.Transport, cfg.Server.Port)
	}
	if cfg.API.TimeoutMS != 10000 {
		t.Errorf("unset keys should keep defaults, got timeout %d", cfg.API.TimeoutMS)
	}
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	os.WriteFile(base, []byte("[api]\ntimeout_ms = 1000\nretry_count = 2\n"), 0644)
	os.WriteFile(local, []byte("[api]\ntimeout_ms = 2000\n"), 0644)

	cfg, err := LoadFromFiles(base, local)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.TimeoutMS != 2000 {
		t.Errorf("expected later file to win, got %d", cfg.API.TimeoutMS)
	}
	if cfg.API.RetryCount != 2 {
		t.Errorf("expected earlier value to survive, got %d", cfg.API.RetryCount)
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[api\nbase_url = "), 0644)

	if _, err := LoadFromFiles(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://env:1/v2")
	t.Setenv("API_TIMEOUT_MS", "500")
	t.Setenv("API_RETRY_COUNT", "1")
	t.Setenv("API_RATE_LIMIT", "0")
	t.Setenv("TEST_USERNAME", "alice")
	t.Setenv("TEST_PASSWORD", "secret")
	t.Setenv("DEFAULT_USER_ID", "17")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MCP_TRANSPORT", "HTTP")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "http://env:1/v2" || cfg.API.TimeoutMS != 500 || cfg.API.RetryCount != 1 {
		t.Errorf("api overrides not applied: %+v", cfg.API)
	}
	if cfg.API.RateLimit != 0 {
		t.Errorf("expected rate limit disabled, got %v", cfg.API.RateLimit)
	}
	if cfg.Auth.Username != "alice" || cfg.Auth.Password != "secret" {
		t.Errorf("credential overrides not applied: %+v", cfg.Auth)
	}
	if cfg.User.DefaultUserID != 17 {
		t.Errorf("expected default user 17, got %d", cfg.User.DefaultUserID)
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("expected lower-cased transport http, got %s", cfg.Server.Transport)
	}
}

func TestEnvOverrides_ProductionImpliesSSE(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Transport != TransportSSE {
		t.Errorf("expected sse in production, got %s", cfg.Server.Transport)
	}
}

func TestEnvOverrides_DotEnvFile(t *testing.T) {
	clearEnv(t)
	if err := os.WriteFile(".env", []byte("TEST_USERNAME=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("TEST_USERNAME")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.Username != "from-dotenv" {
		t.Errorf("expected username from .env, got %q", cfg.Auth.Username)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, "SSE", 8080, "127.0.0.1")

	if cfg.Server.Transport != TransportSSE {
		t.Errorf("expected sse, got %s", cfg.Server.Transport)
	}
	if cfg.Server.Address() != "127.0.0.1:8080" {
		t.Errorf("unexpected address %s", cfg.Server.Address())
	}

	ApplyFlagOverrides(cfg, "", 0, "")
	if cfg.Server.Port != 8080 {
		t.Errorf("zero flags must not override, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"cognito credentials", func(c *Config) { c.Auth.Username, c.Auth.Password = "u", "p" }, ""},
		{"static token", func(c *Config) { c.Auth.Token = "t" }, ""},
		{"missing credentials", func(c *Config) {}, "TEST_USERNAME is required"},
		{"bad transport", func(c *Config) { c.Auth.Token = "t"; c.Server.Transport = "grpc" }, "unknown transport"},
		{"bad port", func(c *Config) { c.Auth.Token = "t"; c.Server.Transport = TransportSSE; c.Server.Port = 0 }, "invalid port"},
		{"stdio ignores port", func(c *Config) { c.Auth.Token = "t"; c.Server.Port = 0 }, ""},
		{"zero retries", func(c *Config) { c.Auth.Token = "t"; c.API.RetryCount = 0 }, "retry_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
