package types

import "github.com/shopspring/decimal"

// OrderTimestampLayout renders the human-readable placed_at timestamp.
const OrderTimestampLayout = "Jan 2, 2006 3:04 PM"

// OrderItem is an immutable snapshot of a cart line taken at checkout.
type OrderItem struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	SupplierName  string          `json:"supplier_name"`
	SupplierPrice decimal.Decimal `json:"supplier_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// Order is an immutable historical record appended at checkout. The JSON
// shape doubles as the persisted record format.
type Order struct {
	ID          string          `json:"id"`
	PlacedAt    string          `json:"placed_at"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderTotal sums the line totals and rounds to 2 decimal places.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(2)
}
