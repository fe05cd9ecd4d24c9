// Package tools implements the finance MCP tools: input schemas, parameter
// resolution and the handlers that shape upstream data into tool results.
package tools

import (
	"context"
	"time"

	"github.com/fullbor/finance-mcp/internal/client"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/models"
)

// API is the finance API surface the tools consume.
type API interface {
	Positions(ctx context.Context, q models.PositionQuery) ([]models.Position, error)
	Transactions(ctx context.Context, q models.TransactionQuery) ([]models.Transaction, error)
	Entities(ctx context.Context, q models.EntityQuery) ([]models.Entity, error)
	PositionByID(ctx context.Context, id int64) client.Lookup[models.Position]
	TransactionByID(ctx context.Context, id int64) client.Lookup[models.Transaction]
}

// Service holds the collaborators shared by every tool handler.
// Handlers keep no state between calls.
type Service struct {
	api    API
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a tool service over api.
func NewService(api API, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) log(ctx context.Context) *common.Logger {
	return common.LoggerFromContext(ctx, s.logger)
}

func (s *Service) today() time.Time {
	return s.now().UTC()
}
