package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func offer(name string, price string) SupplierOffer {
	return SupplierOffer{Name: name, Price: decimal.RequireFromString(price)}
}

func TestCheapestOfferPicksMinimum(t *testing.T) {
	item := CartItem{
		ProductID:          1,
		Name:               "Widget",
		Quantity:           2,
		AvailableSuppliers: []SupplierOffer{offer("A", "10"), offer("B", "8"), offer("C", "9.50")},
	}

	best, ok := item.CheapestOffer()
	if !ok {
		t.Fatal("expected an offer")
	}
	if best.Name != "B" {
		t.Fatalf("expected supplier B, got %s", best.Name)
	}
}

func TestCheapestOfferTieKeepsFirst(t *testing.T) {
	item := CartItem{
		ProductID:          2,
		AvailableSuppliers: []SupplierOffer{offer("first", "5"), offer("second", "5.00")},
	}

	best, ok := item.CheapestOffer()
	if !ok {
		t.Fatal("expected an offer")
	}
	if best.Name != "first" {
		t.Fatalf("tie should keep first occurrence, got %s", best.Name)
	}
}

func TestCheapestOfferEmptyList(t *testing.T) {
	item := CartItem{ProductID: 3}
	if _, ok := item.CheapestOffer(); ok {
		t.Fatal("expected no offer for empty list")
	}
}

func TestNormalizeSelection(t *testing.T) {
	item := CartItem{
		ProductID:          4,
		AvailableSuppliers: []SupplierOffer{offer("A", "10"), offer("B", "8")},
	}

	if changed := item.NormalizeSelection(); !changed {
		t.Fatal("expected empty selection to default to cheapest offer")
	}
	if item.SelectedSupplier != "B" {
		t.Fatalf("expected B selected, got %s", item.SelectedSupplier)
	}

	if changed := item.NormalizeSelection(); changed {
		t.Fatal("second pass should be a no-op")
	}

	chosen := CartItem{
		ProductID:          5,
		AvailableSuppliers: []SupplierOffer{offer("A", "10"), offer("B", "8")},
		SelectedSupplier:   "A",
	}
	if changed := chosen.NormalizeSelection(); changed {
		t.Fatal("explicit selections must be kept")
	}
	if chosen.SelectedSupplier != "A" {
		t.Fatalf("expected A kept, got %s", chosen.SelectedSupplier)
	}

	bare := CartItem{ProductID: 6, SelectedSupplier: "ghost"}
	if changed := bare.NormalizeSelection(); changed {
		t.Fatal("items without offers must be left untouched")
	}
	if bare.SelectedSupplier != "ghost" {
		t.Fatalf("selection must survive normalize, got %q", bare.SelectedSupplier)
	}
}

func TestOfferByName(t *testing.T) {
	item := CartItem{AvailableSuppliers: []SupplierOffer{offer("A", "10"), offer("B", "8")}}

	got, ok := item.OfferByName("B")
	if !ok || !got.Price.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("expected offer B at 8, got %+v ok=%v", got, ok)
	}
	if _, ok := item.OfferByName("missing"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestOrderTotalRoundsToTwoPlaces(t *testing.T) {
	items := []OrderItem{
		{LineTotal: decimal.RequireFromString("16")},
		{LineTotal: decimal.RequireFromString("0.005")},
	}

	total := OrderTotal(items)
	if total.String() != "16.01" {
		t.Fatalf("expected 16.01, got %s", total.String())
	}

	if !OrderTotal(nil).Equal(decimal.Zero) {
		t.Fatal("empty order should total zero")
	}
}
