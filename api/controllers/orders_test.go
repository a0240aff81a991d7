package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordersvc "github.com/rmarquezdev/supplycart-backend/internal/orders"
	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/pagination"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

type stubOrdersService struct {
	listFn func(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error)
	getFn  func(ctx context.Context, ownerID uuid.UUID, orderID string) (*types.Order, error)
}

func (s *stubOrdersService) List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, ownerID, params)
	}
	return &ordersvc.ListResult{}, nil
}

func (s *stubOrdersService) Get(ctx context.Context, ownerID uuid.UUID, orderID string) (*types.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, ownerID, orderID)
	}
	return nil, nil
}

func TestOrdersListPassesPagination(t *testing.T) {
	ownerID := uuid.New()
	var gotParams pagination.Params
	svc := &stubOrdersService{
		listFn: func(ctx context.Context, oid uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error) {
			if oid != ownerID {
				t.Fatalf("unexpected owner %s", oid)
			}
			gotParams = params
			return &ordersvc.ListResult{
				Items: []types.Order{
					{ID: "ord-1", PlacedAt: "Aug 25, 2026 9:30 AM", TotalAmount: decimal.NewFromInt(40)},
				},
				Cursor: "next-cursor",
			}, nil
		},
	}

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=5&cursor=abc", nil), ownerID)
	resp := httptest.NewRecorder()
	OrdersList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotParams.Limit != 5 || gotParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", gotParams)
	}

	var envelope struct {
		Data ordersvc.ListResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].ID != "ord-1" {
		t.Fatalf("unexpected items %+v", envelope.Data.Items)
	}
	if envelope.Data.Cursor != "next-cursor" {
		t.Fatalf("unexpected cursor %q", envelope.Data.Cursor)
	}
}

func TestOrdersListDefaultsLimit(t *testing.T) {
	ownerID := uuid.New()
	var gotParams pagination.Params
	svc := &stubOrdersService{
		listFn: func(ctx context.Context, oid uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error) {
			gotParams = params
			return &ordersvc.ListResult{}, nil
		},
	}

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), ownerID)
	resp := httptest.NewRecorder()
	OrdersList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotParams.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit got %d", gotParams.Limit)
	}
}

func TestOrdersListRejectsInvalidLimit(t *testing.T) {
	req := withUserContext(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=nope", nil), uuid.New())
	resp := httptest.NewRecorder()
	OrdersList(&stubOrdersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderDetail(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubOrdersService{
		getFn: func(ctx context.Context, oid uuid.UUID, orderID string) (*types.Order, error) {
			if orderID != "ord-7" {
				t.Fatalf("unexpected order id %q", orderID)
			}
			return &types.Order{ID: "ord-7", TotalAmount: decimal.NewFromInt(12)}, nil
		},
	}

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/api/v1/orders/ord-7", nil), ownerID)
	req = addRouteParam(req, "orderId", "ord-7")
	resp := httptest.NewRecorder()
	OrderDetail(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data types.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != "ord-7" {
		t.Fatalf("unexpected order %+v", envelope.Data)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{
		getFn: func(ctx context.Context, oid uuid.UUID, orderID string) (*types.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil), uuid.New())
	req = addRouteParam(req, "orderId", "missing")
	resp := httptest.NewRecorder()
	OrderDetail(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
