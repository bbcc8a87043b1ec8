package health

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"dscengine/fixedpoint"
)

func dec18(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), fixedpoint.PRECISION)
}

func TestFactorZeroDebtIsMax(t *testing.T) {
	hf, err := Factor(dec18(100), nil)
	require.NoError(t, err)
	require.Equal(t, Max, hf)

	hf, err = Factor(dec18(100), uint256.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, Max, hf)
}

// TestFactorScenarioS2 matches spec §8 S2: 20000 USD collateral, 10000 DSC
// debt -> HF = 1.0.
func TestFactorScenarioS2(t *testing.T) {
	hf, err := Factor(dec18(20000), dec18(10000))
	require.NoError(t, err)
	require.Equal(t, dec18(1), hf)
	require.True(t, IsHealthy(hf))
}

// TestFactorScenarioS3 matches spec §8 S3: ETH drops to $18, collateral USD
// becomes 180 (10 ETH * 18), debt stays 100 -> HF = 0.9.
func TestFactorScenarioS3(t *testing.T) {
	hf, err := Factor(dec18(180), dec18(100))
	require.NoError(t, err)

	nineTenths := new(uint256.Int).Mul(fixedpoint.PRECISION, uint256.NewInt(9))
	nineTenths.Div(nineTenths, uint256.NewInt(10))
	require.Equal(t, nineTenths, hf)
	require.False(t, IsHealthy(hf))
}

func TestIsHealthyBoundary(t *testing.T) {
	require.True(t, IsHealthy(MinHealthFactor))
	below := new(uint256.Int).Sub(MinHealthFactor, uint256.NewInt(1))
	require.False(t, IsHealthy(below))
	require.False(t, IsHealthy(nil))
}
