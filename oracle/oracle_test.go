package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestStaticFeedFreshQuote(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feed := NewStaticFeed(time.Hour, func() time.Time { return now })
	feed.SetPrice("ETH-USD", uint256.NewInt(200_000_000_000))

	quote, err := feed.LatestPrice(context.Background(), "ETH-USD")
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(200_000_000_000), quote.Price8Dec)
}

func TestStaticFeedStaleQuote(t *testing.T) {
	observed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := observed.Add(2 * time.Hour)
	feed := NewStaticFeed(time.Hour, func() time.Time { return now })
	feed.SetPriceAt("ETH-USD", uint256.NewInt(1), observed)

	_, err := feed.LatestPrice(context.Background(), "ETH-USD")
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestStaticFeedUnknownOracle(t *testing.T) {
	feed := NewStaticFeed(time.Hour, nil)
	_, err := feed.LatestPrice(context.Background(), "UNKNOWN")
	require.ErrorIs(t, err, ErrNoSuchOracle)
}

func TestAggregatorFallsThroughOnMissingOracle(t *testing.T) {
	now := time.Now()
	primary := NewStaticFeed(time.Hour, func() time.Time { return now })
	fallback := NewStaticFeed(time.Hour, func() time.Time { return now })
	fallback.SetPrice("ETH-USD", uint256.NewInt(42))

	agg := NewAggregator(primary, fallback)
	quote, err := agg.LatestPrice(context.Background(), "ETH-USD")
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(42), quote.Price8Dec)
}

func TestAggregatorPropagatesFault(t *testing.T) {
	now := time.Now()
	faulty := NewStaticFeed(time.Hour, func() time.Time { return now })
	faulty.SetPrice("ETH-USD", nil)

	agg := NewAggregator(faulty)
	_, err := agg.LatestPrice(context.Background(), "ETH-USD")
	require.ErrorIs(t, err, ErrOracleFault)
}
