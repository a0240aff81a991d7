package types

import "github.com/shopspring/decimal"

// SupplierOffer is one vendor's price for a product. Offers are immutable
// once attached to a cart item; names are unique within an item's list.
type SupplierOffer struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CartItem is one product line in an active cart. The JSON shape doubles as
// the persisted record format, so tags must stay stable.
type CartItem struct {
	ProductID          int64           `json:"product_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	AvailableSuppliers []SupplierOffer `json:"available_suppliers,omitempty"`
	SelectedSupplier   string          `json:"selected_supplier,omitempty"`
}

// CheapestOffer returns the lowest-priced offer, ties broken by first
// occurrence in list order.
func (c CartItem) CheapestOffer() (SupplierOffer, bool) {
	if len(c.AvailableSuppliers) == 0 {
		return SupplierOffer{}, false
	}
	best := c.AvailableSuppliers[0]
	for _, offer := range c.AvailableSuppliers[1:] {
		if offer.Price.LessThan(best.Price) {
			best = offer
		}
	}
	return best, true
}

// OfferByName resolves a supplier name against the item's offer list.
func (c CartItem) OfferByName(name string) (SupplierOffer, bool) {
	for _, offer := range c.AvailableSuppliers {
		if offer.Name == name {
			return offer, true
		}
	}
	return SupplierOffer{}, false
}

// NormalizeSelection fills an empty selection with the cheapest offer and
// reports whether the item changed. Explicit selections and items without
// offers are left untouched.
func (c *CartItem) NormalizeSelection() bool {
	if c.SelectedSupplier != "" {
		return false
	}
	best, ok := c.CheapestOffer()
	if !ok {
		return false
	}
	c.SelectedSupplier = best.Name
	return true
}
