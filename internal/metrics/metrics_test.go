package metrics

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, r *Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestObserveHealthFactorSetsGauge(t *testing.T) {
	r := New()
	r.ObserveHealthFactor("dsc1abc", uint256.NewInt(1_000_000_000_000_000_000))

	f := gather(t, r, "dscengine_health_factor")
	require.NotNil(t, f)
	require.Len(t, f.GetMetric(), 1)
	require.Equal(t, float64(1_000_000_000_000_000_000), f.GetMetric()[0].GetGauge().GetValue())
}

func TestObserveFreezeStateSetsGauges(t *testing.T) {
	r := New()
	r.ObserveFreezeState(2, true)

	frozen := gather(t, r, "dscengine_frozen_assets")
	require.Equal(t, float64(2), frozen.GetMetric()[0].GetGauge().GetValue())

	system := gather(t, r, "dscengine_system_frozen")
	require.Equal(t, float64(1), system.GetMetric()[0].GetGauge().GetValue())
}

func TestIncrementCounters(t *testing.T) {
	r := New()
	r.IncLiquidation()
	r.IncDeposit("ETH")
	r.IncDeposit("ETH")
	r.IncMint()

	liq := gather(t, r, "dscengine_liquidations_total")
	require.Equal(t, float64(1), liq.GetMetric()[0].GetCounter().GetValue())

	deposits := gather(t, r, "dscengine_deposits_total")
	require.Equal(t, float64(2), deposits.GetMetric()[0].GetCounter().GetValue())

	mints := gather(t, r, "dscengine_mints_total")
	require.Equal(t, float64(1), mints.GetMetric()[0].GetCounter().GetValue())
}

func TestNewRegistryIsIndependentPerInstance(t *testing.T) {
	require.NotPanics(t, func() {
		New()
		New()
	}, "constructing a second Engine's Registry must not collide with the first's registration")
}
