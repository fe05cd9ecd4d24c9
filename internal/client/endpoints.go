package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/models"
)

// Status tags the outcome of a single-record lookup.
type Status int

const (
	Found Status = iota + 1
	NotFound
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Lookup is the result of fetching one record by key. Value is set only
// when Status is Found; Err only when Status is Failed.
type Lookup[T any] struct {
	Status Status
	Value  T
	Err    error
}

func lookup[T any](value T, err error) Lookup[T] {
	switch {
	case err == nil:
		return Lookup[T]{Status: Found, Value: value}
	case apperrors.Is(err, apperrors.KindNotFound):
		return Lookup[T]{Status: NotFound}
	default:
		return Lookup[T]{Status: Failed, Err: err}
	}
}

// Positions fetches GET /positions.
func (c *Client) Positions(ctx context.Context, q models.PositionQuery) ([]models.Position, error) {
	if q.ClientID == 0 {
		q.ClientID = c.clientID
	}
	var resp models.ListResponse[models.Position]
	if err := c.get(ctx, "/positions", q.Values(), &resp); err != nil {
		return nil, err
	}
	c.logger.Info().Int("count", resp.Count).Msg("positions fetched")
	return resp.Data, nil
}

// Transactions fetches GET /transactions.
func (c *Client) Transactions(ctx context.Context, q models.TransactionQuery) ([]models.Transaction, error) {
	if q.ClientID == 0 {
		q.ClientID = c.clientID
	}
	var resp models.ListResponse[models.Transaction]
	if err := c.get(ctx, "/transactions", q.Values(), &resp); err != nil {
		return nil, err
	}
	c.logger.Info().Int("count", resp.Count).Msg("transactions fetched")
	return resp.Data, nil
}

// Entities fetches GET /entities.
func (c *Client) Entities(ctx context.Context, q models.EntityQuery) ([]models.Entity, error) {
	if q.ClientID == 0 {
		q.ClientID = c.clientID
	}
	var resp models.ListResponse[models.Entity]
	if err := c.get(ctx, "/entities", q.Values(), &resp); err != nil {
		return nil, err
	}
	c.logger.Info().Int("count", resp.Count).Msg("entities fetched")
	return resp.Data, nil
}

// PositionByID fetches GET /positions/{id}.
func (c *Client) PositionByID(ctx context.Context, id int64) Lookup[models.Position] {
	var p models.Position
	err := c.get(ctx, "/positions/"+strconv.FormatInt(id, 10), nil, &p)
	return lookup(p, err)
}

// TransactionByID fetches GET /transactions/{id} with descriptive names.
func (c *Client) TransactionByID(ctx context.Context, id int64) Lookup[models.Transaction] {
	var t models.Transaction
	q := url.Values{"descriptive": {"true"}}
	err := c.get(ctx, "/transactions/"+strconv.FormatInt(id, 10), q, &t)
	return lookup(t, err)
}

// EntityByName fetches GET /entities/{name}.
func (c *Client) EntityByName(ctx context.Context, name string) Lookup[models.Entity] {
	if name == "" {
		return Lookup[models.Entity]{Status: Failed, Err: apperrors.Validation("name", "entity name is required")}
	}
	var e models.Entity
	err := c.get(ctx, fmt.Sprintf("/entities/%s", url.PathEscape(name)), nil, &e)
	return lookup(e, err)
}
