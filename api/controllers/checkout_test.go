package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

type stubCheckoutService struct {
	executeFn func(ctx context.Context, ownerID uuid.UUID, actor *outbox.ActorRef) (*types.Order, error)
}

func (s *stubCheckoutService) Execute(ctx context.Context, ownerID uuid.UUID, actor *outbox.ActorRef) (*types.Order, error) {
	if s.executeFn != nil {
		return s.executeFn(ctx, ownerID, actor)
	}
	return nil, nil
}

func TestCheckoutCreatesOrder(t *testing.T) {
	ownerID := uuid.New()
	order := &types.Order{
		ID:       uuid.NewString(),
		PlacedAt: "Aug 25, 2026 9:30 AM",
		Items: []types.OrderItem{
			{
				ProductID:     1,
				Name:          "Widget",
				Quantity:      2,
				SupplierName:  "Supplier B",
				SupplierPrice: decimal.NewFromInt(8),
				LineTotal:     decimal.NewFromInt(16),
			},
		},
		TotalAmount: decimal.NewFromInt(16),
	}

	var gotActor *outbox.ActorRef
	svc := &stubCheckoutService{
		executeFn: func(ctx context.Context, oid uuid.UUID, actor *outbox.ActorRef) (*types.Order, error) {
			if oid != ownerID {
				t.Fatalf("unexpected owner %s", oid)
			}
			gotActor = actor
			return order, nil
		},
	}

	req := withUserContext(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil), ownerID)
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if gotActor == nil || gotActor.UserID != ownerID {
		t.Fatalf("expected actor for owner got %+v", gotActor)
	}

	var envelope struct {
		Data types.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("expected order %s got %s", order.ID, envelope.Data.ID)
	}
	if !envelope.Data.TotalAmount.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("expected total 16 got %s", envelope.Data.TotalAmount)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubCheckoutService{
		executeFn: func(ctx context.Context, oid uuid.UUID, actor *outbox.ActorRef) (*types.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		},
	}

	req := withUserContext(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil), ownerID)
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCheckoutRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	Checkout(&stubCheckoutService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
