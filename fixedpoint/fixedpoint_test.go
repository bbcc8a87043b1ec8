package fixedpoint

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func dec18(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), PRECISION)
}

func dec8(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(100_000_000))
}

// TestUSDValueScenarioS1 matches spec §8 S1: ETH=$2000, 10 ETH deposited ->
// 20000 USD (18-decimal).
func TestUSDValueScenarioS1(t *testing.T) {
	price := dec8(2000)
	amount := dec18(10)

	usd, err := USDValue(price, amount)
	require.NoError(t, err)
	require.Equal(t, dec18(20000), usd)
}

func TestAssetAmountInverseOfUSDValue(t *testing.T) {
	price := dec8(1800)
	amount := dec18(5)

	usd, err := USDValue(price, amount)
	require.NoError(t, err)

	back, err := AssetAmount(price, usd)
	require.NoError(t, err)
	require.Equal(t, amount, back)
}

func TestAssetAmountZeroPriceIsFault(t *testing.T) {
	_, err := AssetAmount(uint256.NewInt(0), dec18(100))
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestUSDValueTruncatesTowardZero(t *testing.T) {
	price := uint256.NewInt(3)
	amount := uint256.NewInt(1)

	usd, err := USDValue(price, amount)
	require.NoError(t, err)
	require.True(t, usd.IsZero(), "expected truncation to zero for tiny inputs")
}

func TestMulDivRejectsDivisionByZero(t *testing.T) {
	_, err := MulDiv(uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0))
	require.ErrorIs(t, err, ErrDivideByZero)
}
