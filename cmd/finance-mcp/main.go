package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/app"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/config"
	"github.com/fullbor/finance-mcp/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	transport   = flag.String("transport", "", "MCP transport: stdio, sse or http (overrides config)")
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP = flag.Int("p", 0, "Server port (shorthand)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.LoadVersionFromFile()
	if *showVersion {
		fmt.Printf("%s version %s\n", common.ServiceName, common.GetFullVersion())
		os.Exit(0)
	}

	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *transport, finalPort, *serverHost)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Configuration error:")
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set TEST_USERNAME/TEST_PASSWORD (or API_TOKEN) in the environment or a .env file.")
		fmt.Fprintln(os.Stderr, "")
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("environment", cfg.Environment).
		Str("api_url", cfg.API.BaseURL).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		os.Exit(1)
	}
	mcpSrv := application.MCPServer

	if cfg.Server.Transport == config.TransportStdio {
		logger.Info().Msg("serving MCP over stdio")
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			logger.Error().Str("error", err.Error()).Msg("stdio server error")
			os.Exit(1)
		}
		return
	}

	if err := serveHTTP(ctx, cfg, mcpSrv, logger); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server failed")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

// serveHTTP runs the sse or http transport until ctx is cancelled.
func serveHTTP(ctx context.Context, cfg *config.Config, mcpSrv *mcpserver.MCPServer, logger *common.Logger) error {
	srv, err := server.New(cfg.Server, mcpSrv, logger)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		"finance-mcp.toml",
		"config/finance-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "finance-mcp.toml"),
		filepath.Join(binDir, "config", "finance-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
