// Package oracle abstracts a per-asset USD price source with a staleness
// guarantee. It deliberately does not implement any real price feed
// transport — that is peripheral to this engine — only the narrow contract
// the debt engine consumes, grounded on the pack's common idiom of modeling
// an oracle as a small interface over a numeric quote (see
// core/pricing.PriceFeed and other_examples' PriceOracle interfaces in the
// teacher pack).
package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"
)

// ErrNoSuchOracle is returned when an operation names an oracle identifier
// the client has no binding for.
var ErrNoSuchOracle = errors.New("oracle: no such oracle")

// ErrStalePrice is returned when the most recent quote for an oracle is
// older than the configured staleness timeout.
var ErrStalePrice = errors.New("oracle: stale price")

// ErrOracleFault wraps any downstream failure retrieving a quote, including
// a negative reported price (which the client treats as a transport fault,
// never as a valid quote).
var ErrOracleFault = errors.New("oracle: fault")

// Quote is a single price observation: an 8-decimal unsigned price and the
// wall-clock time it was observed.
type Quote struct {
	Price8Dec *uint256.Int
	UpdatedAt time.Time
}

// Client is the PriceOracleClient contract. LatestPrice applies the
// staleness guard itself, comparing the quote's UpdatedAt against the clock
// the implementation was configured with; it fails with ErrStalePrice when
// now-UpdatedAt exceeds the configured timeout, ErrNoSuchOracle when
// oracleID is unbound, and ErrOracleFault on any downstream failure
// (including a negative raw price, which a Client must reject before
// returning).
type Client interface {
	LatestPrice(ctx context.Context, oracleID string) (Quote, error)
}
