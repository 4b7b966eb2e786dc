package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/api/responses"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

// Pinger is the health-check surface a backing dependency exposes.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FlowerMarket-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the graph and cache backends so orchestrators only route
// traffic once both are reachable. A nil dependency is skipped, which keeps
// local setups without Redis green.
func HealthReady(cfg *config.Config, logg *logger.Logger, graphDB, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FlowerMarket-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		if graphDB != nil {
			if err := graphDB.Ping(ctx); err != nil {
				checks["neo4j"] = "down"
				failed = true
			} else {
				checks["neo4j"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = "down"
				failed = true
			} else {
				checks["redis"] = "ok"
			}
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
