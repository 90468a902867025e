package controllers

import (
	"context"
	"net/http"

	"github.com/adeyemimuse/sproutvest-backend/api/responses"
	"github.com/adeyemimuse/sproutvest-backend/pkg/config"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SproutVest-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the database answers. Redis is
// deliberately excluded: the webhook pipeline degrades gracefully without it.
func HealthReady(cfg *config.Config, db pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SproutVest-Env", cfg.App.Env)
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
