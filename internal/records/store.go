package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

// RecordStore defines the typed record surface consumed by the domain
// services.
type RecordStore interface {
	WithTx(tx *gorm.DB) RecordStore
	LoadCartItems(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error)
	SaveCartItems(ctx context.Context, ownerID uuid.UUID, items []types.CartItem) error
	LoadOrders(ctx context.Context, ownerID uuid.UUID) ([]types.Order, error)
	SaveOrders(ctx context.Context, ownerID uuid.UUID, orders []types.Order) error
}

// Store reads and writes the typed collections behind the named records.
// A malformed stored payload loads as an empty collection with a warning;
// the row stays in place and is replaced wholesale on the next save.
type Store struct {
	repo *Repository
	logg *logger.Logger
}

// NewStore binds the typed store to the repository.
func NewStore(repo *Repository, logg *logger.Logger) *Store {
	return &Store{repo: repo, logg: logg}
}

// WithTx scopes the store to the provided transaction.
func (s *Store) WithTx(tx *gorm.DB) RecordStore {
	if tx == nil {
		return s
	}
	return &Store{repo: s.repo.WithTx(tx), logg: s.logg}
}

// LoadCartItems returns the owner's cart lines. Missing records load as an
// empty cart.
func (s *Store) LoadCartItems(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error) {
	record, err := s.repo.Find(ctx, ownerID, enums.RecordCartItems)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []types.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []types.CartItem
	if err := json.Unmarshal(record.Payload, &items); err != nil {
		s.warnMalformed(ctx, ownerID, enums.RecordCartItems, err)
		return []types.CartItem{}, nil
	}
	if items == nil {
		items = []types.CartItem{}
	}
	return items, nil
}

// SaveCartItems replaces the owner's cart record with the provided lines.
func (s *Store) SaveCartItems(ctx context.Context, ownerID uuid.UUID, items []types.CartItem) error {
	if items == nil {
		items = []types.CartItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cartItems record: %w", err)
	}
	_, err = s.repo.Save(ctx, ownerID, enums.RecordCartItems, payload)
	return err
}

// LoadOrders returns the owner's order history. Missing records load as an
// empty history.
func (s *Store) LoadOrders(ctx context.Context, ownerID uuid.UUID) ([]types.Order, error) {
	record, err := s.repo.Find(ctx, ownerID, enums.RecordOrders)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []types.Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	if err := json.Unmarshal(record.Payload, &orders); err != nil {
		s.warnMalformed(ctx, ownerID, enums.RecordOrders, err)
		return []types.Order{}, nil
	}
	if orders == nil {
		orders = []types.Order{}
	}
	return orders, nil
}

// SaveOrders replaces the owner's order record with the provided history.
func (s *Store) SaveOrders(ctx context.Context, ownerID uuid.UUID, orders []types.Order) error {
	if orders == nil {
		orders = []types.Order{}
	}
	payload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encoding orders record: %w", err)
	}
	_, err = s.repo.Save(ctx, ownerID, enums.RecordOrders, payload)
	return err
}

func (s *Store) warnMalformed(ctx context.Context, ownerID uuid.UUID, name enums.RecordName, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"owner_id": ownerID.String(),
		"record":   name.String(),
		"error":    err.Error(),
	})
	s.logg.Warn(ctx, "malformed storage record, treating as empty")
}
