package app

import (
	"context"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/auth"
	"github.com/fullbor/finance-mcp/internal/client"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/config"
	"github.com/fullbor/finance-mcp/internal/mcp"
	"github.com/fullbor/finance-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Tokens    auth.TokenSource
	API       *client.Client
	Registry  *mcp.Registry
	MCPServer *mcpserver.MCPServer
}

// New initializes the application with all dependencies.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Environment)) {
	case "", "development", "production", "test":
	default:
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value")
	}

	tokens, err := TokenSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Tokens = tokens
	a.initTools()

	logger.Info().Int("tools", a.Registry.Len()).Msg("application initialization complete")

	return a, nil
}

// NewWithTokens builds the application around an existing token source.
func NewWithTokens(cfg *config.Config, tokens auth.TokenSource, logger *common.Logger) *App {
	a := &App{
		Config: cfg,
		Logger: logger,
		Tokens: tokens,
	}
	a.initTools()
	return a
}

func (a *App) initTools() {
	a.API = client.NewFromConfig(a.Config.API, a.Config.User.DefaultUserID, a.Tokens, a.Logger)
	a.Registry = mcp.NewRegistry(tools.All(tools.NewService(a.API, a.Logger)), a.Logger)
	a.MCPServer = mcp.NewServer(a.Registry, mcp.Options{
		APIBaseURL: a.API.BaseURL(),
		Logger:     a.Logger,
	})
}

// TokenSource picks a static token when configured, otherwise Cognito.
func TokenSource(ctx context.Context, cfg *config.Config, logger *common.Logger) (auth.TokenSource, error) {
	if cfg.UsesStaticToken() {
		logger.Info().Msg("using static API token")
		return auth.Static(cfg.Auth.Token), nil
	}
	cognito, err := auth.NewCognito(ctx, cfg.Auth, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("region", cfg.Auth.Region).Str("user_pool_id", cfg.Auth.UserPoolID).Msg("using Cognito authentication")
	return cognito, nil
}
