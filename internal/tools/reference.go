package tools

import (
	"context"

	"github.com/fullbor/finance-mcp/internal/models"
)

const defaultSearchLimit = 25

// EntityView is a directory entry as returned to the assistant.
type EntityView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

func toEntityViews(entities []models.Entity, limit int) []EntityView {
	n := len(entities)
	if limit > 0 && limit < n {
		n = limit
	}
	views := make([]EntityView, 0, n)
	for _, e := range entities[:n] {
		views = append(views, EntityView{ID: e.EntityID, Name: e.EntityName, Category: e.EntityCategory})
	}
	return views
}

// ListPortfoliosInput takes no arguments.
type ListPortfoliosInput struct{}

type ListPortfoliosResult struct {
	Success    bool         `json:"success"`
	Count      int          `json:"count"`
	Portfolios []EntityView `json:"portfolios"`
}

func (s *Service) ListPortfolios(ctx context.Context, _ ListPortfoliosInput) (*ListPortfoliosResult, error) {
	entities, err := s.api.Entities(ctx, models.EntityQuery{
		Category:    models.CategoryPortfolio,
		ShowDeleted: models.ShowActive,
	})
	if err != nil {
		return nil, err
	}
	views := toEntityViews(entities, 0)
	return &ListPortfoliosResult{Success: true, Count: len(views), Portfolios: views}, nil
}

// SearchEntitiesInput searches the entity directory.
type SearchEntitiesInput struct {
	Search   string `json:"search" validate:"required"`
	Category string `json:"category" validate:"omitempty,oneof=Portfolio Account Instrument Currency Person"`
	Limit    int    `json:"limit" validate:"min=1,max=1000"`
}

type SearchEntitiesResult struct {
	Success  bool         `json:"success"`
	Count    int          `json:"count"`
	Entities []EntityView `json:"entities"`
}

func (s *Service) SearchEntities(ctx context.Context, in SearchEntitiesInput) (*SearchEntitiesResult, error) {
	entities, err := s.api.Entities(ctx, models.EntityQuery{
		Category:    models.EntityCategory(in.Category),
		Search:      in.Search,
		ShowDeleted: models.ShowActive,
	})
	if err != nil {
		return nil, err
	}
	views := toEntityViews(entities, in.Limit)
	return &SearchEntitiesResult{Success: true, Count: len(views), Entities: views}, nil
}
