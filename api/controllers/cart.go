package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquezdev/supplycart-backend/api/middleware"
	"github.com/rmarquezdev/supplycart-backend/api/responses"
	"github.com/rmarquezdev/supplycart-backend/api/validators"
	cartsvc "github.com/rmarquezdev/supplycart-backend/internal/cart"
	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

// CartFetch returns the caller's cart with supplier selections applied.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Get(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartAddItem adds a line to the cart or merges it into an existing one.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.AddItem(r.Context(), ownerID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartUpdateItem sets a line's quantity; zero or below removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.UpdateQuantity(r.Context(), ownerID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartSelectSupplier pins a line to one of its listed supplier offers.
func CartSelectSupplier(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.SelectSupplier(r.Context(), ownerID, productID, payload.Supplier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.RemoveItem(r.Context(), ownerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), ownerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(nil))
	}
}

func ownerIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	ownerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return ownerID, nil
}

func productIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productId")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}

type addCartItemRequest struct {
	ProductID          int64                  `json:"product_id" validate:"required"`
	Name               string                 `json:"name" validate:"required"`
	Quantity           *int                   `json:"quantity" validate:"omitempty,min=1"`
	AvailableSuppliers []supplierOfferPayload `json:"available_suppliers" validate:"omitempty,dive"`
	SelectedSupplier   string                 `json:"selected_supplier"`
}

type supplierOfferPayload struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

func (r addCartItemRequest) toInput() cartsvc.AddItemInput {
	offers := make([]types.SupplierOffer, len(r.AvailableSuppliers))
	for i, offer := range r.AvailableSuppliers {
		offers[i] = types.SupplierOffer{Name: offer.Name, Price: offer.Price}
	}
	// Omitted quantity means one unit.
	quantity := 1
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	return cartsvc.AddItemInput{
		ProductID:          r.ProductID,
		Name:               r.Name,
		Quantity:           quantity,
		AvailableSuppliers: offers,
		SelectedSupplier:   r.SelectedSupplier,
	}
}

type updateCartItemRequest struct {
	// Zero and negative quantities remove the line, so no min constraint.
	Quantity int `json:"quantity"`
}

type selectSupplierRequest struct {
	Supplier string `json:"supplier" validate:"required"`
}

type cartResponse struct {
	Items    []types.CartItem `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// newCartResponse totals the lines whose selected supplier resolves to an
// offer. Lines with stale selections still appear but contribute nothing.
func newCartResponse(items []types.CartItem) cartResponse {
	subtotal := decimal.Zero
	for _, item := range items {
		offer, ok := item.OfferByName(item.SelectedSupplier)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(offer.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if items == nil {
		items = []types.CartItem{}
	}
	return cartResponse{Items: items, Subtotal: subtotal.Round(2)}
}
