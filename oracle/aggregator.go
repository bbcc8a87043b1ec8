package oracle

import (
	"context"
	"errors"
)

// Aggregator consults a list of registered clients in priority order and
// returns the first fresh quote, matching the teacher's
// swap.OracleAggregator fallback idiom (native/swap/oracle.go) generalized
// to this engine's single-price (not TWAP) contract. This lets a caller
// configure a primary feed with one or more fallbacks without changing the
// DebtEngine's narrow Client dependency.
type Aggregator struct {
	clients []Client
}

// NewAggregator builds an Aggregator over clients in priority order.
func NewAggregator(clients ...Client) *Aggregator {
	return &Aggregator{clients: clients}
}

// LatestPrice implements Client, returning the first client's quote that
// does not fail with ErrStalePrice or ErrNoSuchOracle. Any ErrOracleFault is
// returned immediately without falling through, since a fault indicates a
// transport failure rather than merely a missing or stale quote.
func (a *Aggregator) LatestPrice(ctx context.Context, oracleID string) (Quote, error) {
	if len(a.clients) == 0 {
		return Quote{}, ErrNoSuchOracle
	}
	var lastErr error
	for _, client := range a.clients {
		quote, err := client.LatestPrice(ctx, oracleID)
		if err == nil {
			return quote, nil
		}
		if errors.Is(err, ErrOracleFault) {
			return Quote{}, err
		}
		lastErr = err
	}
	return Quote{}, lastErr
}
