package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

// RecordStore abstracts the persisted cart record behind the service.
type RecordStore interface {
	LoadCartItems(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error)
	SaveCartItems(ctx context.Context, ownerID uuid.UUID, items []types.CartItem) error
}

// Service exposes the owner-scoped cart operations.
type Service interface {
	Get(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error)
	AddItem(ctx context.Context, ownerID uuid.UUID, input AddItemInput) ([]types.CartItem, error)
	RemoveItem(ctx context.Context, ownerID uuid.UUID, productID int64) ([]types.CartItem, error)
	UpdateQuantity(ctx context.Context, ownerID uuid.UUID, productID int64, quantity int) ([]types.CartItem, error)
	SelectSupplier(ctx context.Context, ownerID uuid.UUID, productID int64, supplier string) ([]types.CartItem, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

type service struct {
	records RecordStore
}

// NewService builds a cart service backed by the provided record store.
func NewService(records RecordStore) (Service, error) {
	if records == nil {
		return nil, fmt.Errorf("cart record store required")
	}
	return &service{records: records}, nil
}

// AddItemInput captures the line to add or merge into the cart.
type AddItemInput struct {
	ProductID          int64
	Name               string
	Quantity           int
	AvailableSuppliers []types.SupplierOffer
	SelectedSupplier   string
}

// Normalize applies the default supplier selection to every line: items with
// offers but no selection point at the cheapest offer. Explicit selections
// are kept, resolvable or not; checkout decides what to do with them.
func Normalize(items []types.CartItem) {
	for i := range items {
		items[i].NormalizeSelection()
	}
}

func (s *service) Get(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	return s.load(ctx, ownerID)
}

func (s *service) AddItem(ctx context.Context, ownerID uuid.UUID, input AddItemInput) ([]types.CartItem, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := validateOffers(input.AvailableSuppliers); err != nil {
		return nil, err
	}

	items, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Merge key is the literal (product_id, selected_supplier) pair of the
	// incoming line, compared before any auto-selection on append.
	merged := false
	for i := range items {
		if items[i].ProductID == input.ProductID && items[i].SelectedSupplier == input.SelectedSupplier {
			items[i].Quantity += input.Quantity
			merged = true
			break
		}
	}

	if !merged {
		entry := types.CartItem{
			ProductID:          input.ProductID,
			Name:               input.Name,
			Quantity:           input.Quantity,
			AvailableSuppliers: input.AvailableSuppliers,
			SelectedSupplier:   input.SelectedSupplier,
		}
		entry.NormalizeSelection()
		items = append(items, entry)
	}

	return s.save(ctx, ownerID, items)
}

func (s *service) RemoveItem(ctx context.Context, ownerID uuid.UUID, productID int64) ([]types.CartItem, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	items, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	kept := make([]types.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	return s.save(ctx, ownerID, kept)
}

func (s *service) UpdateQuantity(ctx context.Context, ownerID uuid.UUID, productID int64, quantity int) ([]types.CartItem, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, ownerID, productID)
	}

	items, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
		}
	}

	return s.save(ctx, ownerID, items)
}

func (s *service) SelectSupplier(ctx context.Context, ownerID uuid.UUID, productID int64, supplier string) ([]types.CartItem, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	items, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// An empty name clears the selection; the next load re-applies the
	// cheapest-offer default. Names are not checked against the offer list,
	// checkout validation reports unresolvable selections.
	for i := range items {
		if items[i].ProductID == productID {
			items[i].SelectedSupplier = supplier
		}
	}

	return s.save(ctx, ownerID, items)
}

func (s *service) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	_, err := s.save(ctx, ownerID, []types.CartItem{})
	return err
}

func (s *service) load(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error) {
	items, err := s.records.LoadCartItems(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart record")
	}
	Normalize(items)
	return items, nil
}

func (s *service) save(ctx context.Context, ownerID uuid.UUID, items []types.CartItem) ([]types.CartItem, error) {
	if err := s.records.SaveCartItems(ctx, ownerID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart record")
	}
	return items, nil
}

func validateOffers(offers []types.SupplierOffer) error {
	seen := make(map[string]struct{}, len(offers))
	for _, offer := range offers {
		if strings.TrimSpace(offer.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "supplier offer name required")
		}
		if offer.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "supplier offer price must not be negative")
		}
		if _, dup := seen[offer.Name]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate supplier offer name")
		}
		seen[offer.Name] = struct{}{}
	}
	return nil
}
