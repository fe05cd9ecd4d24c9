// Package auth supplies bearer tokens for the finance API.
package auth

import (
	"context"

	"github.com/fullbor/finance-mcp/internal/apperrors"
)

// TokenSource returns a bearer token valid for at least the next request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static serves a fixed, pre-issued token.
type Static string

// Token returns the configured token, or an Auth error when it is empty.
func (s Static) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", apperrors.Auth("no API token configured", nil)
	}
	return string(s), nil
}
