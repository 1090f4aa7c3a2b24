package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/funnelsight-backend/pkg/errors"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is the connectivity probe surface readiness checks use.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FunnelSight-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FunnelSight-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := []struct {
			name   string
			pinger Pinger
		}{
			{"database", dbPinger},
			{"redis", redisPinger},
		}
		for _, check := range checks {
			if check.pinger == nil {
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
