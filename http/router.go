package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Pinger is a dependency checked by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDependencies struct {
	Debts   *DebtHandler
	Limiter *RateLimiter
	Health  map[string]Pinger
}

// NewRouter wires the API routes. Rate limiting applies to the calculation
// endpoints only; /healthz is always reachable.
func NewRouter(log *logrus.Logger, deps RouterDependencies) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(log))

	r.HandleFunc("/healthz", healthHandler(log, deps.Health)).Methods(http.MethodGet)

	limited := func(h http.HandlerFunc) http.Handler {
		if deps.Limiter == nil {
			return h
		}
		return RateLimitMiddleware(deps.Limiter)(h)
	}
	r.Handle("/debts/compare", limited(deps.Debts.Compare)).Methods(http.MethodPost)
	r.Handle("/debts/simulate", limited(deps.Debts.Simulate)).Methods(http.MethodPost)
	r.Handle("/debts/required-payment", limited(deps.Debts.RequiredPayment)).Methods(http.MethodPost)
	r.Handle("/plans/{id}", limited(deps.Debts.GetPlan)).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

func healthHandler(log *logrus.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				log.WithError(err).WithField("dependency", name).Warn("health probe failed")
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		writeJSON(w, status, map[string]any{"status": state, "checks": checks})
	}
}
