package checkout

import (
	"fmt"

	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

// SelectionViolationDetail exposes the data returned to callers when a
// supplier selection fails checkout validation.
type SelectionViolationDetail struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Supplier    string `json:"supplier,omitempty"`
}

// ValidateNotEmpty rejects checkout attempts on an empty cart.
func ValidateNotEmpty(items []types.CartItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	return nil
}

// ValidateSelections ensures every cart entry carries a supplier selection.
func ValidateSelections(items []types.CartItem) error {
	var violations []SelectionViolationDetail
	for _, item := range items {
		if item.SelectedSupplier == "" {
			violations = append(violations, SelectionViolationDetail{
				ProductID:   item.ProductID,
				ProductName: item.Name,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("supplier not selected for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}

// ValidateResolvable ensures each selected supplier still exists in the item's
// offer list. An unresolvable selection fails the whole checkout so an order
// can never silently lose lines.
func ValidateResolvable(items []types.CartItem) error {
	var violations []SelectionViolationDetail
	for _, item := range items {
		if item.SelectedSupplier == "" {
			continue
		}
		if _, ok := item.OfferByName(item.SelectedSupplier); !ok {
			violations = append(violations, SelectionViolationDetail{
				ProductID:   item.ProductID,
				ProductName: item.Name,
				Supplier:    item.SelectedSupplier,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("selected supplier unavailable for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
