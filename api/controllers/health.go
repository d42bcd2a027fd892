package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dwiprasetya/laundrypos-backend/api/responses"
	"github.com/dwiprasetya/laundrypos-backend/pkg/config"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LaundryPOS-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each wired dependency. Nil pingers are skipped so the
// same handler serves deployments without the optional GCP services.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, pubsubP, bigqueryP pinger) http.HandlerFunc {
	checks := []struct {
		name string
		ping pinger
	}{
		{"database", dbP},
		{"redis", redisP},
		{"pubsub", pubsubP},
		{"bigquery", bigqueryP},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LaundryPOS-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		statuses := map[string]string{}
		ready := true
		for _, check := range checks {
			if check.ping == nil {
				continue
			}
			if err := check.ping.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", check.name), "readiness check failed", err)
				}
				statuses[check.name] = "down"
				ready = false
				continue
			}
			statuses[check.name] = "up"
		}

		if !ready {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"checks": statuses,
			})
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": statuses,
		})
	}
}
