package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquezdev/supplycart-backend/internal/auth"
	"github.com/rmarquezdev/supplycart-backend/internal/cart"
	"github.com/rmarquezdev/supplycart-backend/internal/notifications"
	ordersvc "github.com/rmarquezdev/supplycart-backend/internal/orders"
	"github.com/rmarquezdev/supplycart-backend/internal/users"
	pkgAuth "github.com/rmarquezdev/supplycart-backend/pkg/auth"
	"github.com/rmarquezdev/supplycart-backend/pkg/auth/session"
	"github.com/rmarquezdev/supplycart-backend/pkg/config"
	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox"
	"github.com/rmarquezdev/supplycart-backend/pkg/pagination"
	"github.com/rmarquezdev/supplycart-backend/pkg/redis"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct {
	loginFn func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &auth.LoginResponse{AccessToken: "stub-access", RefreshToken: "stub-refresh", User: &users.UserDTO{}}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return &auth.TokenPair{AccessToken: "stub-access", RefreshToken: "stub-refresh"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{User: &users.UserDTO{}}, nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubCartService struct {
	getFn func(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error)
}

func (s stubCartService) Get(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error) {
	if s.getFn != nil {
		return s.getFn(ctx, ownerID)
	}
	return nil, nil
}

func (stubCartService) AddItem(ctx context.Context, ownerID uuid.UUID, input cart.AddItemInput) ([]types.CartItem, error) {
	return nil, nil
}

func (stubCartService) RemoveItem(ctx context.Context, ownerID uuid.UUID, productID int64) ([]types.CartItem, error) {
	return nil, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, ownerID uuid.UUID, productID int64, quantity int) ([]types.CartItem, error) {
	return nil, nil
}

func (stubCartService) SelectSupplier(ctx context.Context, ownerID uuid.UUID, productID int64, supplier string) ([]types.CartItem, error) {
	return nil, nil
}

func (stubCartService) Clear(ctx context.Context, ownerID uuid.UUID) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Execute(ctx context.Context, ownerID uuid.UUID, actor *outbox.ActorRef) (*types.Order, error) {
	return &types.Order{ID: uuid.NewString()}, nil
}

type stubOrdersService struct {
	listFn func(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error)
}

func (s stubOrdersService) List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, ownerID, params)
	}
	return &ordersvc.ListResult{}, nil
}

func (stubOrdersService) Get(ctx context.Context, ownerID uuid.UUID, orderID string) (*types.Order, error) {
	return &types.Order{ID: orderID}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionChecker{},
		stubAuthService{},
		stubRegisterService{},
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
		stubNotificationsService{},
	)
}

func TestHealthLiveRoute(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestCartRouteRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartFetchThroughRouter(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	cartService := stubCartService{
		getFn: func(ctx context.Context, ownerID uuid.UUID) ([]types.CartItem, error) {
			if ownerID != userID {
				t.Fatalf("unexpected owner %s", ownerID)
			}
			return []types.CartItem{
				{
					ProductID: 1,
					Name:      "Widget",
					Quantity:  2,
					AvailableSuppliers: []types.SupplierOffer{
						{Name: "Supplier A", Price: decimal.NewFromInt(10)},
					},
					SelectedSupplier: "Supplier A",
				},
			}, nil
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionChecker{},
		stubAuthService{},
		stubRegisterService{},
		cartService,
		stubCheckoutService{},
		stubOrdersService{},
		stubNotificationsService{},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildTokenWithUserID(t, cfg, userID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart fetch got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Items    []types.CartItem `json:"items"`
			Subtotal decimal.Decimal  `json:"subtotal"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected items %+v", envelope.Data.Items)
	}
	if !envelope.Data.Subtotal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected subtotal 20 got %s", envelope.Data.Subtotal)
	}
}

func TestOrdersRouteThroughRouter(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for orders list got %d", resp.Code)
	}
}

func TestLoginAliasRoutes(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"email":"buyer@example.com","password":"pass1234"}`

	for _, path := range []string{"/login", "/api/v1/auth/login"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
		if got := resp.Header().Get("X-SC-Token"); got != "stub-access" {
			t.Fatalf("expected access token header on %s got %q", path, got)
		}
	}
}

func TestPublicValidateRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/public/validate", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestPublicValidateAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"name":"Zed","email":"zed@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid payload got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	return buildTokenWithUserID(t, cfg, uuid.New())
}

func buildTokenWithUserID(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  "buyer@example.com",
		Role:   enums.SystemRoleUser,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
