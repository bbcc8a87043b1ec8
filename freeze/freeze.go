// Package freeze implements the FreezeController circuit breaker: per-asset
// and global freeze state driven by oracle-observed price drops, gating all
// DebtEngine mutations. Grounded in shape on native/common/guard.go's
// PauseView/Guard idiom (a narrow "is this scope paused" check consulted by
// every mutating operation), extended with the per-asset drop-detection
// state machine spec §4.6 describes.
package freeze

import (
	"errors"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// AssetFreezeThreshold is the number of frozen assets that trips the global
// system freeze.
const AssetFreezeThreshold = 2

// MinFreezeDuration is the minimum time the system must stay frozen before
// an admin-driven thaw is even eligible.
const MinFreezeDuration = 24 * time.Hour

var (
	// ErrAssetFrozen is returned by CheckPriceDrop when the asset is
	// already frozen, and by the engine's guards when a mutation names a
	// frozen asset.
	ErrAssetFrozen = errors.New("freeze: asset frozen")
	// ErrSystemFrozen gates every mutating operation while the global
	// freeze is active.
	ErrSystemFrozen = errors.New("freeze: system frozen")
	// ErrCheckTooSoon is returned when CheckPriceDrop is called again
	// before CheckInterval has elapsed since the asset's last check.
	ErrCheckTooSoon = errors.New("freeze: check too soon")
	// ErrAssetNotFrozen is returned when UnfreezeAsset names an asset that
	// is not currently frozen.
	ErrAssetNotFrozen = errors.New("freeze: asset not frozen")
	// ErrNotRecovered is returned when an admin thaw is attempted before
	// the asset's (or, for the system, every frozen asset's) price has
	// recovered to at least 90% of the preserved baseline.
	ErrNotRecovered = errors.New("freeze: price has not recovered")
	// ErrSystemNotFrozen is returned by UnfreezeSystem when the system is
	// not currently frozen.
	ErrSystemNotFrozen = errors.New("freeze: system not frozen")
	// ErrTooEarly is returned by UnfreezeSystem before MinFreezeDuration
	// has elapsed since the system froze.
	ErrTooEarly = errors.New("freeze: too early to unfreeze")
	// ErrBadConfig is returned by UpdateParameters for out-of-range
	// values. Per spec Design Notes (d), a zero MaxDropPct is rejected as
	// misconfiguration rather than silently freezing every asset on the
	// next check.
	ErrBadConfig = errors.New("freeze: bad configuration")
)

// recoveryNumerator/recoveryDenominator implement the 90% recovery
// threshold (current >= last * 90/100) spec §4.6 requires for a thaw.
var (
	recoveryNumerator   = uint256.NewInt(90)
	recoveryDenominator = uint256.NewInt(100)
)

type assetState struct {
	frozen            bool
	lastObservedPrice *uint256.Int
	lastCheckTime     time.Time
}

// Controller holds the FreezeController's SystemState: per-asset frozen
// flags and observed prices, plus the global freeze flag, freeze time, and
// tunable parameters. Every method holds mu for its whole duration, so
// single calls are safe for concurrent use; a sequence of calls is not
// atomic as a whole.
type Controller struct {
	mu sync.Mutex

	assets map[string]*assetState

	systemFrozen  bool
	freezeTime    time.Time
	frozenCount   int
	maxDropPct    *uint256.Int
	checkInterval time.Duration
}

// New constructs a Controller with the given tunables. maxDropPct must be in
// (0, 50]; checkInterval must be >= 1 hour, matching spec §4.6's bounds.
func New(maxDropPct *uint256.Int, checkInterval time.Duration) (*Controller, error) {
	c := &Controller{assets: make(map[string]*assetState)}
	if err := c.validateParameters(maxDropPct, checkInterval); err != nil {
		return nil, err
	}
	c.maxDropPct = new(uint256.Int).Set(maxDropPct)
	c.checkInterval = checkInterval
	return c, nil
}

func (c *Controller) validateParameters(maxDropPct *uint256.Int, checkInterval time.Duration) error {
	if maxDropPct == nil || maxDropPct.IsZero() || maxDropPct.Gt(uint256.NewInt(50)) {
		return ErrBadConfig
	}
	if checkInterval < time.Hour {
		return ErrBadConfig
	}
	return nil
}

// UpdateParameters is the admin surface's update_parameters operation.
func (c *Controller) UpdateParameters(maxDropPct *uint256.Int, checkInterval time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.validateParameters(maxDropPct, checkInterval); err != nil {
		return err
	}
	c.maxDropPct = new(uint256.Int).Set(maxDropPct)
	c.checkInterval = checkInterval
	return nil
}

func (c *Controller) state(assetID string) *assetState {
	st, ok := c.assets[assetID]
	if !ok {
		st = &assetState{}
		c.assets[assetID] = st
	}
	return st
}

// IsAssetFrozen reports whether assetID currently has its per-asset freeze
// flag set.
func (c *Controller) IsAssetFrozen(assetID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.assets[assetID]
	return ok && st.frozen
}

// IsSystemFrozen reports the global freeze flag.
func (c *Controller) IsSystemFrozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.systemFrozen
}

// FrozenAssetCount returns the number of currently frozen assets.
func (c *Controller) FrozenAssetCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozenCount
}

// LastObservedPrice returns the preserved baseline price recorded for
// assetID, and whether one has ever been observed. Exposed so callers can
// build advisory freeze events without reaching into Controller internals.
func (c *Controller) LastObservedPrice(assetID string) (*uint256.Int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.assets[assetID]
	if !ok || st.lastObservedPrice == nil {
		return nil, false
	}
	return new(uint256.Int).Set(st.lastObservedPrice), true
}

// DropPercent exports the checked (saturating) drop computation so callers
// building advisory events can reproduce the same percentage CheckPriceDrop
// used to decide whether to freeze.
func DropPercent(last, current *uint256.Int) *uint256.Int {
	return dropPercent(last, current)
}

// Guard returns ErrSystemFrozen if the system is frozen, else ErrAssetFrozen
// if assetID is frozen, else nil. Every DebtEngine mutation that names an
// asset calls this before touching the ledger (spec §4.5 guards G3/G4).
func (c *Controller) Guard(assetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.systemFrozen {
		return ErrSystemFrozen
	}
	if st, ok := c.assets[assetID]; ok && st.frozen {
		return ErrAssetFrozen
	}
	return nil
}

// GuardSystem returns ErrSystemFrozen if the system is frozen. Used by
// operations (mint, burn) that are not scoped to a single asset.
func (c *Controller) GuardSystem() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.systemFrozen {
		return ErrSystemFrozen
	}
	return nil
}

// CheckPriceDrop implements spec §4.6's check_price_drop. currentPrice is
// the 8-decimal oracle quote just fetched by the caller (the engine, via
// PriceOracleClient); now is the host's monotonic clock. It returns true if
// this call froze the asset.
func (c *Controller) CheckPriceDrop(assetID string, currentPrice *uint256.Int, now time.Time) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state(assetID)
	if st.frozen {
		return false, ErrAssetFrozen
	}
	if !st.lastCheckTime.IsZero() && now.Sub(st.lastCheckTime) < c.checkInterval {
		return false, ErrCheckTooSoon
	}

	if st.lastObservedPrice == nil || st.lastObservedPrice.IsZero() {
		st.lastObservedPrice = new(uint256.Int).Set(currentPrice)
		st.lastCheckTime = now
		return false, nil
	}

	dropPct := dropPercent(st.lastObservedPrice, currentPrice)
	if dropPct.Cmp(c.maxDropPct) >= 0 {
		st.frozen = true
		c.frozenCount++
		// Open Question (a): the baseline is preserved on a freeze, not
		// overwritten with the crashed price, so unfreezeAsset's recovery
		// check is measured against the pre-drop price.
		if c.frozenCount >= AssetFreezeThreshold && !c.systemFrozen {
			c.systemFrozen = true
			c.freezeTime = now
		}
		return true, nil
	}

	st.lastObservedPrice = new(uint256.Int).Set(currentPrice)
	st.lastCheckTime = now
	return false, nil
}

// dropPercent computes (last-current)*100/last with a checked (saturating)
// subtraction: per spec Design Notes (b), a price increase is treated as a
// 0% drop rather than underflowing.
func dropPercent(last, current *uint256.Int) *uint256.Int {
	if last == nil || last.IsZero() || current.Cmp(last) >= 0 {
		return uint256.NewInt(0)
	}
	diff := new(uint256.Int).Sub(last, current)
	pct := new(uint256.Int).Mul(diff, uint256.NewInt(100))
	return pct.Div(pct, last)
}

func recovered(lastObserved, current *uint256.Int) bool {
	if lastObserved == nil || lastObserved.IsZero() {
		return true
	}
	threshold := new(uint256.Int).Mul(lastObserved, recoveryNumerator)
	threshold.Div(threshold, recoveryDenominator)
	return current.Cmp(threshold) >= 0
}

// UnfreezeAsset implements the admin-only unfreeze_asset operation.
// currentPrice is the latest oracle quote the admin (or the caller on the
// admin's behalf) has fetched to evidence recovery.
func (c *Controller) UnfreezeAsset(assetID string, currentPrice *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.assets[assetID]
	if !ok || !st.frozen {
		return ErrAssetNotFrozen
	}
	if !recovered(st.lastObservedPrice, currentPrice) {
		return ErrNotRecovered
	}

	st.frozen = false
	c.frozenCount--
	if c.frozenCount < 0 {
		c.frozenCount = 0
	}
	if c.frozenCount == 0 && c.systemFrozen {
		c.systemFrozen = false
		c.freezeTime = time.Time{}
	}
	return nil
}

// UnfreezeSystem implements the admin-only unfreeze_system operation.
// currentPrices must supply a fresh quote for every currently-frozen asset;
// a missing entry is treated as unrecovered.
func (c *Controller) UnfreezeSystem(now time.Time, currentPrices map[string]*uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.systemFrozen {
		return ErrSystemNotFrozen
	}
	if now.Before(c.freezeTime.Add(MinFreezeDuration)) {
		return ErrTooEarly
	}
	for assetID, st := range c.assets {
		if !st.frozen {
			continue
		}
		price, ok := currentPrices[assetID]
		if !ok || !recovered(st.lastObservedPrice, price) {
			return ErrNotRecovered
		}
	}

	for _, st := range c.assets {
		st.frozen = false
	}
	c.frozenCount = 0
	c.systemFrozen = false
	c.freezeTime = time.Time{}
	return nil
}
