// Package collateral defines the narrow capability set the DebtEngine
// consumes for an exogenous collateral asset — {pull, push, balance_of} in
// spec terms, {transfer_from, transfer, balance_of} on the wire — plus an
// in-memory reference implementation for tests and the demo CLI. Grounded
// on native/lending/engine.go's treatment of ZNHB transfers via
// types.Account balances, abstracted into an interface since the spec
// excludes the token implementation itself.
package collateral

import (
	"context"
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"dscengine/address"
)

// ErrInsufficientBalance is returned by InMemoryAsset when a transfer would
// drive a balance negative.
var ErrInsufficientBalance = errors.New("collateral: insufficient balance")

// Asset is the engine's dependency on an external collateral token. A false
// return from TransferFrom/Transfer is a transfer failure, surfaced by the
// engine as ErrTransferFailed; it is not an error return from this
// interface itself, matching spec §6's "A false return is a transfer
// failure."
type Asset interface {
	// TransferFrom pulls amount of the asset from owner into the engine
	// (self). Used by deposit.
	TransferFrom(ctx context.Context, owner address.ID, amount *uint256.Int) (bool, error)
	// Transfer pushes amount of the asset from the engine to recipient.
	// Used by redeem and liquidation seizure payout.
	Transfer(ctx context.Context, recipient address.ID, amount *uint256.Int) (bool, error)
	// BalanceOf returns the asset's balance held by account, a pure view.
	BalanceOf(ctx context.Context, account address.ID) (*uint256.Int, error)
}

// InMemoryAsset is a map-backed Asset, the same shape as the teacher's
// types.Account.BalanceZNHB bookkeeping. The engine's own address (self) is
// passed at construction so transfers in and out of the engine's holding
// account are modeled explicitly, letting tests assert property P2 (asset
// conservation) against it directly.
type InMemoryAsset struct {
	mu       sync.Mutex
	self     address.ID
	balances map[address.ID]*uint256.Int
}

// NewInMemoryAsset constructs an asset with the engine's own holding
// account identifier.
func NewInMemoryAsset(self address.ID) *InMemoryAsset {
	return &InMemoryAsset{
		self:     self,
		balances: make(map[address.ID]*uint256.Int),
	}
}

// Credit funds an account's balance out of band, used by tests to seed a
// user's wallet before exercising deposit.
func (a *InMemoryAsset) Credit(account address.ID, amount *uint256.Int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balances[account] = new(uint256.Int).Add(a.balanceLocked(account), amount)
}

func (a *InMemoryAsset) balanceLocked(account address.ID) *uint256.Int {
	if bal, ok := a.balances[account]; ok {
		return new(uint256.Int).Set(bal)
	}
	return uint256.NewInt(0)
}

// TransferFrom implements Asset.
func (a *InMemoryAsset) TransferFrom(_ context.Context, owner address.ID, amount *uint256.Int) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	bal := a.balanceLocked(owner)
	if bal.Lt(amount) {
		return false, nil
	}
	a.balances[owner] = new(uint256.Int).Sub(bal, amount)
	a.balances[a.self] = new(uint256.Int).Add(a.balanceLocked(a.self), amount)
	return true, nil
}

// Transfer implements Asset.
func (a *InMemoryAsset) Transfer(_ context.Context, recipient address.ID, amount *uint256.Int) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	bal := a.balanceLocked(a.self)
	if bal.Lt(amount) {
		return false, nil
	}
	a.balances[a.self] = new(uint256.Int).Sub(bal, amount)
	a.balances[recipient] = new(uint256.Int).Add(a.balanceLocked(recipient), amount)
	return true, nil
}

// BalanceOf implements Asset.
func (a *InMemoryAsset) BalanceOf(_ context.Context, account address.ID) (*uint256.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balanceLocked(account), nil
}
