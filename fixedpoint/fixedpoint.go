// Package fixedpoint implements the 256-bit fixed-point arithmetic the debt
// engine uses to convert between oracle prices and USD-denominated
// collateral/debt values.
//
// Two scaling constants are in play: PRECISION is the 18-decimal scale used
// for the stablecoin, collateral amounts, and USD values; FEED_SCALE lifts
// an 8-decimal oracle price up to the 18-decimal USD scale.
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

// PRECISION is the 18-decimal fixed-point scale used for DSC and USD values.
var PRECISION = uint256.NewInt(1_000_000_000_000_000_000)

// FEED_SCALE lifts an 8-decimal oracle price to the 18-decimal USD scale.
var FEED_SCALE = uint256.NewInt(10_000_000_000)

// ErrDivideByZero is returned when a caller asks this package to divide by a
// zero price. Per the spec this is a programming fault: callers must have
// already validated that the price is strictly positive before calling
// AssetAmount.
var ErrDivideByZero = errors.New("fixedpoint: division by zero")

// ErrOverflow indicates an intermediate product could not be represented
// even in the 512-bit working width uint256.MulDivOverflow uses internally,
// or that the final result does not fit in 256 bits.
var ErrOverflow = errors.New("fixedpoint: arithmetic overflow")

// USDValue computes price * FEED_SCALE * amount / PRECISION, truncating
// toward zero. price is an 8-decimal oracle price already checked
// non-negative by the caller; amount is an 18-decimal asset quantity.
func USDValue(price8dec, amount18dec *uint256.Int) (*uint256.Int, error) {
	if price8dec == nil || amount18dec == nil {
		return nil, ErrOverflow
	}
	scaledPrice, overflow := new(uint256.Int).MulOverflow(price8dec, FEED_SCALE)
	if overflow {
		return nil, ErrOverflow
	}
	result, overflow := new(uint256.Int).MulDivOverflow(scaledPrice, amount18dec, PRECISION)
	if overflow {
		return nil, ErrOverflow
	}
	return result, nil
}

// AssetAmount computes usd * PRECISION / (price * FEED_SCALE), truncating
// toward zero. usd18dec is an 18-decimal USD value; price8dec must be
// strictly positive, or ErrDivideByZero is returned.
func AssetAmount(price8dec, usd18dec *uint256.Int) (*uint256.Int, error) {
	if price8dec == nil || usd18dec == nil {
		return nil, ErrOverflow
	}
	if price8dec.IsZero() {
		return nil, ErrDivideByZero
	}
	denom, overflow := new(uint256.Int).MulOverflow(price8dec, FEED_SCALE)
	if overflow {
		return nil, ErrOverflow
	}
	if denom.IsZero() {
		return nil, ErrDivideByZero
	}
	result, overflow := new(uint256.Int).MulDivOverflow(usd18dec, PRECISION, denom)
	if overflow {
		return nil, ErrOverflow
	}
	return result, nil
}

// MulDiv computes x*y/d truncating toward zero, surfacing overflow as
// ErrOverflow and division-by-zero as ErrDivideByZero. It is the shared
// primitive behind the percentage scaling in the health package (liquidation
// threshold) and the engine (liquidation bonus).
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if x == nil || y == nil || d == nil {
		return nil, ErrOverflow
	}
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	result, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return result, nil
}
