package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mafia-game/mafia-backend/internal/health"
)

var (
	// Auth metrics

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mafia",
		Name:      "registrations_total",
		Help:      "Total accounts created.",
	})

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mafia",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	EmailTokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mafia",
		Name:      "email_tokens_issued_total",
		Help:      "Email tokens issued, by purpose.",
	}, []string{"purpose"})

	EmailTokensRedeemedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mafia",
		Name:      "email_tokens_redeemed_total",
		Help:      "Email token redemption attempts, by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	// Sweeper metrics

	SweeperPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mafia",
		Name:      "sweeper_purged_total",
		Help:      "Expired email token rows removed by the sweeper.",
	})

	SweeperCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mafia",
		Name:      "sweeper_cycle_duration_seconds",
		Help:      "Time taken for one sweeper cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mafia",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mafia",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		EmailTokensIssuedTotal,
		EmailTokensRedeemedTotal,
		SweeperPurgedTotal,
		SweeperCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness probes on a
// dedicated port, away from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
