// Package metrics exposes the engine's observable state as Prometheus
// gauges and counters, grounded on the teacher's observability/metrics.go
// CounterVec/GaugeVec idiom. Unlike the teacher's process-wide singleton
// registries (appropriate for a single long-running node), this package
// hands back one Registry per construction: the engine is a library a test
// binary or demo CLI may construct many times over, and MustRegister
// against the global prometheus.DefaultRegisterer would panic the second
// time a test built an Engine. Callers wire Registry.Gatherer() into
// whatever /metrics handler (promhttp.HandlerFor) their own process runs;
// this package never starts a listener of its own.
package metrics

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the engine's Prometheus collectors, registered against a
// private prometheus.Registry rather than the process-wide default.
type Registry struct {
	reg *prometheus.Registry

	healthFactor       *prometheus.GaugeVec
	frozenAssets       prometheus.Gauge
	systemFrozen       prometheus.Gauge
	liquidationsTotal prometheus.Counter
	depositsTotal     *prometheus.CounterVec
	mintsTotal        prometheus.Counter
}

// New constructs a Registry with every collector registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		healthFactor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dscengine",
			Name:      "health_factor",
			Help:      "Most recently computed health factor (18-decimal fixed point) per account.",
		}, []string{"account"}),
		frozenAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dscengine",
			Name:      "frozen_assets",
			Help:      "Count of assets currently frozen by the FreezeController.",
		}),
		systemFrozen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dscengine",
			Name:      "system_frozen",
			Help:      "1 if the global freeze flag is set, else 0.",
		}),
		liquidationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dscengine",
			Name:      "liquidations_total",
			Help:      "Total successful liquidations processed.",
		}),
		depositsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dscengine",
			Name:      "deposits_total",
			Help:      "Total successful deposits segmented by asset.",
		}, []string{"asset"}),
		mintsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dscengine",
			Name:      "mints_total",
			Help:      "Total successful DSC mints.",
		}),
	}
	r.reg.MustRegister(
		r.healthFactor,
		r.frozenAssets,
		r.systemFrozen,
		r.liquidationsTotal,
		r.depositsTotal,
		r.mintsTotal,
	)
	return r
}

// Gatherer exposes the private registry for wiring into an existing
// /metrics HTTP handler (promhttp.HandlerFor(reg.Gatherer(), ...)).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// ObserveHealthFactor records the latest HF computed for an account,
// called by the engine after every mutating operation.
func (r *Registry) ObserveHealthFactor(account string, hf *uint256.Int) {
	f, _ := new(big.Float).SetInt(hf.ToBig()).Float64()
	r.healthFactor.WithLabelValues(account).Set(f)
}

// ObserveFreezeState records the current frozen-asset count and global
// freeze flag, called after every FreezeController state transition.
func (r *Registry) ObserveFreezeState(frozenCount int, systemFrozen bool) {
	r.frozenAssets.Set(float64(frozenCount))
	if systemFrozen {
		r.systemFrozen.Set(1)
	} else {
		r.systemFrozen.Set(0)
	}
}

// IncLiquidation increments the liquidations counter.
func (r *Registry) IncLiquidation() { r.liquidationsTotal.Inc() }

// IncDeposit increments the per-asset deposits counter.
func (r *Registry) IncDeposit(assetID string) { r.depositsTotal.WithLabelValues(assetID).Inc() }

// IncMint increments the mints counter.
func (r *Registry) IncMint() { r.mintsTotal.Inc() }
