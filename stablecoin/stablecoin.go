// Package stablecoin defines the narrow mint/burn/transfer_from adapter the
// DebtEngine drives to move DSC, plus an in-memory reference token for
// tests and the demo CLI. Spec §1 excludes the stablecoin token itself from
// this repo's scope ("treated as an external mint/burn/transfer
// collaborator"); this package supplies only the contract and a fake good
// enough to exercise the engine end to end.
package stablecoin

import (
	"context"
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"dscengine/address"
)

// ErrInsufficientBalance is returned by InMemoryToken when a burn or
// transfer would drive a balance negative.
var ErrInsufficientBalance = errors.New("stablecoin: insufficient balance")

// ErrUnauthorized is returned by InMemoryToken when Mint or Burn is called
// by a principal other than the configured engine owner. Spec §6: "Only
// the engine may mint or burn; the underlying token must reject calls from
// other principals."
var ErrUnauthorized = errors.New("stablecoin: unauthorized caller")

// Adapter is the engine's dependency on the DSC token.
type Adapter interface {
	// Mint creates amount of DSC credited to to. Used by mint and
	// deposit_and_mint.
	Mint(ctx context.Context, to address.ID, amount *uint256.Int) (bool, error)
	// Burn destroys amount of DSC already pulled via TransferFrom. Used by
	// burn, redeem_for_dsc, and liquidation.
	Burn(ctx context.Context, amount *uint256.Int) error
	// TransferFrom pulls amount of DSC from owner into the adapter ahead
	// of a Burn.
	TransferFrom(ctx context.Context, owner address.ID, amount *uint256.Int) (bool, error)
	// TotalSupply returns the current DSC total supply, a pure view used
	// by property test P3 (debt conservation).
	TotalSupply(ctx context.Context) (*uint256.Int, error)
}

// InMemoryToken is a map-backed Adapter. owner is the sole principal (the
// engine's own address) permitted to Mint or Burn, following the teacher's
// single-owner capability idiom.
type InMemoryToken struct {
	mu          sync.Mutex
	owner       address.ID
	balances    map[address.ID]*uint256.Int
	totalSupply *uint256.Int
	// pulled tracks DSC this adapter currently holds after a TransferFrom,
	// awaiting Burn; it is the adapter's own balance, not a user's.
	pulled *uint256.Int
}

// NewInMemoryToken constructs a token with owner as the only principal
// authorized to Mint/Burn.
func NewInMemoryToken(owner address.ID) *InMemoryToken {
	return &InMemoryToken{
		owner:       owner,
		balances:    make(map[address.ID]*uint256.Int),
		totalSupply: uint256.NewInt(0),
		pulled:      uint256.NewInt(0),
	}
}

func (t *InMemoryToken) balanceLocked(account address.ID) *uint256.Int {
	if bal, ok := t.balances[account]; ok {
		return new(uint256.Int).Set(bal)
	}
	return uint256.NewInt(0)
}

// BalanceOf returns account's DSC balance, a pure view.
func (t *InMemoryToken) BalanceOf(account address.ID) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balanceLocked(account)
}

// callerKeyType is the context key type for the calling principal: ctx
// carries it under callerKey (set by WithCaller) so the adapter can enforce
// spec §6's owner-only rule in Mint/Burn without threading an extra
// parameter through the narrow Adapter interface the engine is coded against.
type callerKeyType struct{}

var callerKey = callerKeyType{}

// WithCaller returns a context carrying caller as the principal invoking
// the adapter, for the owner check in Mint/Burn.
func WithCaller(ctx context.Context, caller address.ID) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func callerFrom(ctx context.Context) (address.ID, bool) {
	v := ctx.Value(callerKey)
	if v == nil {
		return address.ID{}, false
	}
	id, ok := v.(address.ID)
	return id, ok
}

// Mint implements Adapter.
func (t *InMemoryToken) Mint(ctx context.Context, to address.ID, amount *uint256.Int) (bool, error) {
	if caller, ok := callerFrom(ctx); !ok || caller != t.owner {
		return false, ErrUnauthorized
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[to] = new(uint256.Int).Add(t.balanceLocked(to), amount)
	t.totalSupply = new(uint256.Int).Add(t.totalSupply, amount)
	return true, nil
}

// TransferFrom implements Adapter, pulling amount into the adapter's own
// holding balance ahead of a subsequent Burn.
func (t *InMemoryToken) TransferFrom(_ context.Context, owner address.ID, amount *uint256.Int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bal := t.balanceLocked(owner)
	if bal.Lt(amount) {
		return false, nil
	}
	t.balances[owner] = new(uint256.Int).Sub(bal, amount)
	t.pulled = new(uint256.Int).Add(t.pulled, amount)
	return true, nil
}

// Burn implements Adapter, destroying amount previously pulled via
// TransferFrom.
func (t *InMemoryToken) Burn(ctx context.Context, amount *uint256.Int) error {
	if caller, ok := callerFrom(ctx); !ok || caller != t.owner {
		return ErrUnauthorized
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pulled.Lt(amount) {
		return ErrInsufficientBalance
	}
	t.pulled = new(uint256.Int).Sub(t.pulled, amount)
	t.totalSupply = new(uint256.Int).Sub(t.totalSupply, amount)
	return nil
}

// TotalSupply implements Adapter.
func (t *InMemoryToken) TotalSupply(context.Context) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(uint256.Int).Set(t.totalSupply), nil
}
