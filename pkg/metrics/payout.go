package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PayoutMetrics records the outcomes of payout calculations and refund
// reversals. Methods are nil-safe so callers can pass an unregistered
// instance in tests.
type PayoutMetrics struct {
	snapshots  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	reversals  *prometheus.CounterVec
	violations *prometheus.CounterVec
}

// NewPayoutMetrics registers the payout metrics on the provided registerer.
func NewPayoutMetrics(reg prometheus.Registerer) *PayoutMetrics {
	if reg == nil {
		return &PayoutMetrics{}
	}
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_snapshots_total",
		Help: "Payout snapshots persisted, by entry type.",
	}, []string{"entry"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_failures_total",
		Help: "Payout calculations rejected, by reason.",
	}, []string{"reason"})
	reversals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_reversals_total",
		Help: "Refund reversal rows created, by refund shape.",
	}, []string{"shape"})
	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invariant_violations_total",
		Help: "Accounting invariant checks that failed before persistence.",
	}, []string{"check"})
	reg.MustRegister(snapshots, failures, reversals, violations)
	return &PayoutMetrics{
		snapshots:  snapshots,
		failures:   failures,
		reversals:  reversals,
		violations: violations,
	}
}

// IncSnapshots counts persisted snapshot rows for the given entry type.
func (p *PayoutMetrics) IncSnapshots(entry string, n int) {
	if p == nil || p.snapshots == nil {
		return
	}
	p.snapshots.WithLabelValues(normalizeLabel(entry)).Add(float64(n))
}

// IncFailure counts a rejected payout calculation.
func (p *PayoutMetrics) IncFailure(reason string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncReversals counts created reversal rows for the given refund shape.
func (p *PayoutMetrics) IncReversals(shape string, n int) {
	if p == nil || p.reversals == nil {
		return
	}
	p.reversals.WithLabelValues(normalizeLabel(shape)).Add(float64(n))
}

// IncViolation counts a failed invariant check.
func (p *PayoutMetrics) IncViolation(check string) {
	if p == nil || p.violations == nil {
		return
	}
	p.violations.WithLabelValues(normalizeLabel(check)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
