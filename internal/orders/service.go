package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/pagination"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

// RecordStore is the slice of the records surface the service reads.
type RecordStore interface {
	LoadOrders(ctx context.Context, ownerID uuid.UUID) ([]types.Order, error)
}

// Service reads the owner's order history.
type Service interface {
	List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, ownerID uuid.UUID, orderID string) (*types.Order, error)
}

// ListResult wraps one page of orders and the cursor for the next page.
type ListResult struct {
	Items  []types.Order `json:"items"`
	Cursor string        `json:"cursor"`
}

type service struct {
	records RecordStore
}

// NewService builds an orders service over the record store.
func NewService(records RecordStore) (Service, error) {
	if records == nil {
		return nil, fmt.Errorf("orders record store required")
	}
	return &service{records: records}, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	cursorID, err := pagination.ParseIDCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	history, err := s.records.LoadOrders(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders record")
	}

	// The record stores orders oldest to newest; pages walk newest first.
	// New orders land in front of the first page, so a held cursor stays
	// stable while the history grows.
	view := make([]types.Order, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		view = append(view, history[i])
	}

	start := 0
	if cursorID != "" {
		idx := -1
		for i := range view {
			if view[i].ID == cursorID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cursor")
		}
		start = idx + 1
	}

	limit := pagination.NormalizeLimit(params.Limit)
	end := start + limit
	if end > len(view) {
		end = len(view)
	}

	items := view[start:end]
	cursor := ""
	if end < len(view) && len(items) > 0 {
		cursor = pagination.EncodeIDCursor(items[len(items)-1].ID)
	}

	return &ListResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Get(ctx context.Context, ownerID uuid.UUID, orderID string) (*types.Order, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	history, err := s.records.LoadOrders(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders record")
	}

	for i := range history {
		if history[i].ID == orderID {
			order := history[i]
			return &order, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}
