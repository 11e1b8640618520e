package controllers

import (
	"net/http"

	"github.com/leafline-ai/leafline-backend/api/responses"
	"github.com/leafline-ai/leafline-backend/pkg/config"
	"github.com/leafline-ai/leafline-backend/pkg/db"
	pkgerrors "github.com/leafline-ai/leafline-backend/pkg/errors"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
	"github.com/leafline-ai/leafline-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Leafline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the wired dependencies. A nil pinger means the
// dependency is not configured and is reported as skipped, not failed.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Leafline-Env", cfg.App.Env)

		statuses := map[string]string{}

		if dbP == nil {
			statuses["database"] = "skipped"
		} else if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
			return
		} else {
			statuses["database"] = "ok"
		}

		if redisP == nil {
			statuses["redis"] = "skipped"
		} else if err := redisP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready"))
			return
		} else {
			statuses["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": statuses,
		})
	}
}
