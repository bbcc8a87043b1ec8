package oracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// Clock returns the current time; tests inject a fixed clock so staleness
// checks are deterministic.
type Clock func() time.Time

// StaticFeed is a manually-updated price feed, grounded on the teacher's
// test/demo oracle pattern. It is suitable for unit tests and the demo CLI;
// production deployments supply their own Client implementation against a
// real quote provider.
type StaticFeed struct {
	mu     sync.RWMutex
	clock  Clock
	maxAge time.Duration
	quotes map[string]Quote
}

// NewStaticFeed constructs a feed with the given staleness timeout. clock
// defaults to time.Now when nil.
func NewStaticFeed(maxAge time.Duration, clock Clock) *StaticFeed {
	if clock == nil {
		clock = time.Now
	}
	return &StaticFeed{
		clock:  clock,
		maxAge: maxAge,
		quotes: make(map[string]Quote),
	}
}

// SetPrice records a new quote for oracleID, observed at the feed's current
// clock time. A negative price cannot be represented by uint256.Int, so
// callers pass the raw non-negative magnitude; SetPriceAt lets tests control
// the observation timestamp directly.
func (f *StaticFeed) SetPrice(oracleID string, price8dec *uint256.Int) {
	f.SetPriceAt(oracleID, price8dec, f.clock())
}

// SetPriceAt records a quote observed at an explicit timestamp, used by
// tests that need to simulate stale data.
func (f *StaticFeed) SetPriceAt(oracleID string, price8dec *uint256.Int, observedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[oracleID] = Quote{Price8Dec: price8dec, UpdatedAt: observedAt}
}

// LatestPrice implements Client.
func (f *StaticFeed) LatestPrice(ctx context.Context, oracleID string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrOracleFault, err)
	}
	f.mu.RLock()
	quote, ok := f.quotes[oracleID]
	f.mu.RUnlock()
	if !ok {
		return Quote{}, ErrNoSuchOracle
	}
	if quote.Price8Dec == nil {
		return Quote{}, fmt.Errorf("%w: nil price for %s", ErrOracleFault, oracleID)
	}
	now := f.clock()
	if f.maxAge > 0 && now.Sub(quote.UpdatedAt) > f.maxAge {
		return Quote{}, ErrStalePrice
	}
	return quote, nil
}
