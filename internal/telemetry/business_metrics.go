// Package telemetry exposes business-level Prometheus metrics, separate
// from the HTTP-layer metrics so dashboards can track product usage
// without parsing route labels.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Calculations
	CalculationsCreated *prometheus.CounterVec
	LandedCostBRL       prometheus.Histogram
	EffectiveTaxRate    prometheus.Histogram

	// Scenarios
	ScenariosCreated prometheus.Counter

	// Classification lookups
	NCMSearches prometheus.Counter
	NCMLookups  *prometheus.CounterVec

	// Exchange rate providers
	ExchangeRateFetches *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "landed"
	}

	subsystem := "business"

	return &BusinessMetrics{
		CalculationsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "calculations_created_total",
				Help:      "Total landed cost calculations created",
			},
			[]string{"exchange_source"},
		),
		LandedCostBRL: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "landed_cost_brl",
				Help:      "Total landed cost per calculation in BRL",
				Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
			},
		),
		EffectiveTaxRate: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "effective_tax_rate",
				Help:      "Effective tax rate per calculation (total tax over CIF)",
				Buckets:   []float64{0.1, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 2},
			},
		),
		ScenariosCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "scenarios_created_total",
				Help:      "Total profitability scenarios saved",
			},
		),
		NCMSearches: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ncm_searches_total",
				Help:      "Total classification catalog searches",
			},
		),
		NCMLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ncm_lookups_total",
				Help:      "Total classification code lookups",
			},
			[]string{"outcome"}, // found, not_found
		),
		ExchangeRateFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "exchange_rate_fetches_total",
				Help:      "Exchange rate fetch attempts by provider",
			},
			[]string{"provider", "outcome"}, // outcome: success, error
		),
	}
}

// Record helpers are nil-safe so services can run without metrics in tests.

// RecordCalculation records one created calculation. The effective rate
// arrives as a percentage (the engine reports 92.17 for 92.17%) and is
// scaled to a fraction to match the histogram buckets.
func (m *BusinessMetrics) RecordCalculation(exchangeSource string, landedCostBRL, effectiveRatePercent float64) {
	if m == nil {
		return
	}
	m.CalculationsCreated.WithLabelValues(exchangeSource).Inc()
	m.LandedCostBRL.Observe(landedCostBRL)
	m.EffectiveTaxRate.Observe(effectiveRatePercent / 100)
}

// RecordScenario records one saved scenario.
func (m *BusinessMetrics) RecordScenario() {
	if m == nil {
		return
	}
	m.ScenariosCreated.Inc()
}

// RecordNCMSearch records one catalog search.
func (m *BusinessMetrics) RecordNCMSearch() {
	if m == nil {
		return
	}
	m.NCMSearches.Inc()
}

// RecordNCMLookup records one code lookup.
func (m *BusinessMetrics) RecordNCMLookup(found bool) {
	if m == nil {
		return
	}
	outcome := "found"
	if !found {
		outcome = "not_found"
	}
	m.NCMLookups.WithLabelValues(outcome).Inc()
}

// RecordExchangeRateFetch records one provider fetch attempt.
func (m *BusinessMetrics) RecordExchangeRateFetch(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ExchangeRateFetches.WithLabelValues(provider, outcome).Inc()
}
