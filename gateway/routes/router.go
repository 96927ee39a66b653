package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"fundchain/gateway/middleware"
)

// Rate limit keys.
const (
	RateLimitCalls   = "calls"
	RateLimitQueries = "queries"
)

// Config wires the gateway handlers to the ledger processor. Events and
// RateLimiter are optional; without an EventLog the events endpoint answers 503.
type Config struct {
	Ledger        Ledger
	Events        EventLog
	Authenticator *middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
	CORS          middleware.CORSConfig
	Logger        *slog.Logger
	// Gatherer backs /metrics. Defaults to the global prometheus registry.
	Gatherer prometheus.Gatherer
}

// New builds the gateway handler: health and metrics endpoints plus the /v1
// call and query routes. Calls require a bearer token.
func New(cfg Config) (http.Handler, error) {
	if cfg.Ledger == nil {
		return nil, errors.New("routes: ledger required")
	}
	if cfg.Authenticator == nil {
		return nil, errors.New("routes: authenticator required")
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	fr := &fundraiseRoutes{ledger: cfg.Ledger, events: cfg.Events}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Observe(cfg.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(calls chi.Router) {
			calls.Use(cfg.Authenticator.Middleware())
			if cfg.RateLimiter != nil {
				calls.Use(cfg.RateLimiter.Middleware(RateLimitCalls))
			}
			fr.mountCalls(calls)
		})
		v1.Group(func(queries chi.Router) {
			if cfg.RateLimiter != nil {
				queries.Use(cfg.RateLimiter.Middleware(RateLimitQueries))
			}
			fr.mountQueries(queries)
		})
	})

	return otelhttp.NewHandler(r, "fund-gateway"), nil
}
