package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/rmarquezdev/supplycart-backend/api/responses"
	"github.com/rmarquezdev/supplycart-backend/pkg/config"
	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type readinessPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SupplyCart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache readinessPinger) http.HandlerFunc {
	checks := []struct {
		name   string
		pinger readinessPinger
	}{
		{"database", database},
		{"redis", cache},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SupplyCart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for _, check := range checks {
			if check.pinger == nil {
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
