package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullbor/finance-mcp/internal/auth"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/config"
)

func TestTokenSource_PrefersStaticToken(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Auth.Token = "pre-issued"

	ts, err := TokenSource(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	assert.Equal(t, auth.Static("pre-issued"), ts)

	tok, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pre-issued", tok)
}

func TestNew_WiresRegistryAndServer(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Auth.Token = "pre-issued"

	a, err := New(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)

	require.NotNil(t, a.API)
	require.NotNil(t, a.MCPServer)
	assert.Equal(t, 12, a.Registry.Len())
	assert.Equal(t, cfg.API.BaseURL, a.API.BaseURL())
}

func TestNewWithTokens_UsesGivenSource(t *testing.T) {
	cfg := config.NewDefaultConfig()
	a := NewWithTokens(cfg, auth.Static("abc"), common.NewSilentLogger())

	assert.Equal(t, auth.Static("abc"), a.Tokens)
	assert.Equal(t, 12, a.Registry.Len())
}
