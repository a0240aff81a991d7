package controllers

import (
	"net/http"

	"github.com/rmarquezdev/supplycart-backend/api/middleware"
	"github.com/rmarquezdev/supplycart-backend/api/responses"
	checkoutsvc "github.com/rmarquezdev/supplycart-backend/internal/checkout"
	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox"
)

// Checkout converts the caller's cart into an order. The cart body is already
// on the server, so the request carries no payload.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		ownerID, err := ownerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := &outbox.ActorRef{
			UserID: ownerID,
			Role:   middleware.RoleFromContext(r.Context()),
		}

		order, err := svc.Execute(r.Context(), ownerID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
