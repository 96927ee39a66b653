package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FundraiseMetrics tracks ledger transitions.
type FundraiseMetrics struct {
	calls         *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	contributed   prometheus.Counter
	commission    prometheus.Counter
	withdrawn     *prometheus.CounterVec
	redistributed prometheus.Counter
	payouts       prometheus.Counter
}

var (
	fundraiseOnce     sync.Once
	fundraiseRegistry *FundraiseMetrics
)

// Fundraise returns the singleton ledger metrics registry.
func Fundraise() *FundraiseMetrics {
	fundraiseOnce.Do(func() {
		fundraiseRegistry = &FundraiseMetrics{
			calls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fundraise_calls_total",
				Help: "Count of applied ledger calls by kind and outcome.",
			}, []string{"call", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "fundraise_call_duration_seconds",
				Help:    "Latency of ledger calls including commit.",
				Buckets: prometheus.DefBuckets,
			}, []string{"call"}),
			contributed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "fundraise_contributed_units_total",
				Help: "Native units contributed across all platforms.",
			}),
			commission: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "fundraise_commission_units_total",
				Help: "Commission units accrued across all platforms.",
			}),
			withdrawn: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "fundraise_withdrawn_units_total",
				Help: "Native units paid out by withdrawal kind.",
			}, []string{"kind"}),
			redistributed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "fundraise_redistributed_units_total",
				Help: "Units redistributed across campaigns on closure.",
			}),
			payouts: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "fundraise_leaderboard_payouts_total",
				Help: "Leaderboard members rewarded at period end.",
			}),
		}
		prometheus.MustRegister(
			fundraiseRegistry.calls,
			fundraiseRegistry.latency,
			fundraiseRegistry.contributed,
			fundraiseRegistry.commission,
			fundraiseRegistry.withdrawn,
			fundraiseRegistry.redistributed,
			fundraiseRegistry.payouts,
		)
	})
	return fundraiseRegistry
}

func (m *FundraiseMetrics) ObserveCall(call string, d time.Duration, err error) {
	if m == nil {
		return
	}
	if call == "" {
		call = "unknown"
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(call, outcome).Inc()
	m.latency.WithLabelValues(call).Observe(d.Seconds())
}

func (m *FundraiseMetrics) ObserveContribution(amount, fee uint64, payouts int) {
	if m == nil {
		return
	}
	m.contributed.Add(float64(amount))
	m.commission.Add(float64(fee))
	if payouts > 0 {
		m.payouts.Add(float64(payouts))
	}
}

func (m *FundraiseMetrics) ObserveWithdrawal(kind string, amount uint64) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.withdrawn.WithLabelValues(kind).Add(float64(amount))
}

func (m *FundraiseMetrics) ObserveRedistribution(amount uint64) {
	if m == nil {
		return
	}
	m.redistributed.Add(float64(amount))
}
