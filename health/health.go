// Package health implements the pure HealthFactor evaluator. It has no
// knowledge of the ledger, oracle, or freeze state beyond the USD values it
// is handed; callers (the engine) own sourcing those values. Grounded on
// native/lending/engine.go's positionHealthy, generalized from a boolean
// threshold check into a ratio-returning function per spec §4.4.
package health

import (
	"github.com/holiman/uint256"

	"dscengine/fixedpoint"
)

// LiqThreshold and LiqPrecision implement the spec's 50% collateral haircut:
// collateral is credited at LiqThreshold/LiqPrecision of its market value.
var (
	LiqThreshold = uint256.NewInt(50)
	LiqPrecision = uint256.NewInt(100)
)

// MinHealthFactor is the solvency floor, 1.0 in 18-decimal fixed point.
var MinHealthFactor = new(uint256.Int).Set(fixedpoint.PRECISION)

// Max is the sentinel HealthFactor for a zero-debt account: spec §3 requires
// debt=0 to report the type's maximum, representing +infinity.
var Max = new(uint256.Int).SetAllOne()

// Factor computes the health factor given the account's total collateral
// USD value (already haircut-free, 18-decimal) and outstanding debt
// (18-decimal). It is pure and reentrancy-free: no I/O, no mutation.
//
// HF = (collateralUSD * LiqThreshold / LiqPrecision * PRECISION) / debt
//
// debt = 0 returns Max. A nil collateralUSD is treated as zero.
func Factor(collateralUSD, debt *uint256.Int) (*uint256.Int, error) {
	if debt == nil || debt.IsZero() {
		return new(uint256.Int).Set(Max), nil
	}
	if collateralUSD == nil {
		collateralUSD = uint256.NewInt(0)
	}

	haircut, err := fixedpoint.MulDiv(collateralUSD, LiqThreshold, LiqPrecision)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(haircut, fixedpoint.PRECISION, debt)
}

// IsHealthy reports whether hf satisfies the solvency invariant HF >= 1.0.
func IsHealthy(hf *uint256.Int) bool {
	if hf == nil {
		return false
	}
	return hf.Cmp(MinHealthFactor) >= 0
}
