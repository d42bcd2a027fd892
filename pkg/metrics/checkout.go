package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics tracks order commits at the POS counter.
type CheckoutMetrics struct {
	committed *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	replayed  prometheus.Counter
	duration  prometheus.Histogram
	revenue   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_committed_total",
		Help: "Orders successfully committed, by outlet.",
	}, []string{"outlet"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_rejected_total",
		Help: "Checkout attempts rejected before commit, by reason.",
	}, []string{"reason"})
	replayed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_idempotent_replays_total",
		Help: "Checkout requests answered from a prior commit via idempotency key.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_commit_duration_seconds",
		Help:    "Duration of the order commit transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_revenue_rupiah_total",
		Help: "Grand total rupiah committed, by outlet.",
	}, []string{"outlet"})
	reg.MustRegister(committed, rejected, replayed, duration, revenue)
	return &CheckoutMetrics{
		committed: committed,
		rejected:  rejected,
		replayed:  replayed,
		duration:  duration,
		revenue:   revenue,
	}
}

// ObserveCommit records a successful commit with its duration and revenue.
func (c *CheckoutMetrics) ObserveCommit(outletCode string, grandTotalRupiah int, duration time.Duration) {
	if c == nil || c.committed == nil {
		return
	}
	label := normalizeLabel(outletCode)
	c.committed.WithLabelValues(label).Inc()
	c.revenue.WithLabelValues(label).Add(float64(grandTotalRupiah))
	c.duration.Observe(duration.Seconds())
}

// IncRejected counts a checkout rejected before commit.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncReplayed counts a checkout answered from a previous commit.
func (c *CheckoutMetrics) IncReplayed() {
	if c == nil || c.replayed == nil {
		return
	}
	c.replayed.Inc()
}
