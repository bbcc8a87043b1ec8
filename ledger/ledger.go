// Package ledger holds the per-account, per-asset collateral balances and
// per-account DSC debt the debt engine mutates. It has no notion of price,
// health, or freezing — those are layered on top by the health and engine
// packages — only the bookkeeping invariant that a balance or debt can never
// go negative.
package ledger

import (
	"errors"
	"time"

	"github.com/holiman/uint256"

	"dscengine/address"
)

// ErrInsufficientBalance is returned when a decrement would drive a
// collateral balance below zero. Per spec §4.3 this is a fault: the
// engine's preconditions must prevent it from ever firing in practice.
var ErrInsufficientBalance = errors.New("ledger: insufficient collateral balance")

// ErrInsufficientDebt is returned when a decrement would drive an account's
// debt below zero.
var ErrInsufficientDebt = errors.New("ledger: insufficient debt")

// Account is the per-account ledger row: DSC debt plus per-asset collateral
// balances. A removed collateral entry is indistinguishable from zero, so
// the map is pruned of zero balances on decrement.
type Account struct {
	Debt          *uint256.Int
	Collateral    map[string]*uint256.Int
	LastUpdatedAt time.Time
}

func newAccount() *Account {
	return &Account{
		Debt:       uint256.NewInt(0),
		Collateral: make(map[string]*uint256.Int),
	}
}

// CollateralBalance returns the account's balance of assetID, or zero if the
// account has never deposited that asset.
func (a *Account) CollateralBalance(assetID string) *uint256.Int {
	if a == nil {
		return uint256.NewInt(0)
	}
	if bal, ok := a.Collateral[assetID]; ok {
		return new(uint256.Int).Set(bal)
	}
	return uint256.NewInt(0)
}

// Ledger is the engine's exclusive store of account state. It is not
// reentrancy-safe by itself — callers (the engine) serialize access via
// their own non-reentrancy guard, per spec §5.
type Ledger struct {
	accounts map[address.ID]*Account
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{accounts: make(map[address.ID]*Account)}
}

// Account returns the account row for id, creating it (implicitly, as spec
// §3 requires) if it does not yet exist. The returned pointer is owned by
// the ledger: later ledger mutations of id change the row it points to.
func (l *Ledger) Account(id address.ID) *Account {
	acc, ok := l.accounts[id]
	if !ok {
		acc = newAccount()
		l.accounts[id] = acc
	}
	return acc
}

// Peek returns the account row for id without creating it, and false if the
// account has never been touched. Used by pure view operations (P7) so they
// never mutate the ledger.
func (l *Ledger) Peek(id address.ID) (*Account, bool) {
	acc, ok := l.accounts[id]
	return acc, ok
}

// IncrementCollateral adds amount of assetID to id's balance.
func (l *Ledger) IncrementCollateral(id address.ID, assetID string, amount *uint256.Int, now time.Time) {
	acc := l.Account(id)
	current := acc.CollateralBalance(assetID)
	acc.Collateral[assetID] = new(uint256.Int).Add(current, amount)
	acc.LastUpdatedAt = now
}

// DecrementCollateral subtracts amount of assetID from id's balance. It
// faults with ErrInsufficientBalance rather than underflow, per spec §4.3.
func (l *Ledger) DecrementCollateral(id address.ID, assetID string, amount *uint256.Int, now time.Time) error {
	acc := l.Account(id)
	current := acc.CollateralBalance(assetID)
	if current.Lt(amount) {
		return ErrInsufficientBalance
	}
	remaining := new(uint256.Int).Sub(current, amount)
	if remaining.IsZero() {
		delete(acc.Collateral, assetID)
	} else {
		acc.Collateral[assetID] = remaining
	}
	acc.LastUpdatedAt = now
	return nil
}

// IncrementDebt adds amount to id's DSC debt.
func (l *Ledger) IncrementDebt(id address.ID, amount *uint256.Int, now time.Time) {
	acc := l.Account(id)
	acc.Debt = new(uint256.Int).Add(acc.Debt, amount)
	acc.LastUpdatedAt = now
}

// DecrementDebt subtracts amount from id's DSC debt, faulting with
// ErrInsufficientDebt rather than underflow.
func (l *Ledger) DecrementDebt(id address.ID, amount *uint256.Int, now time.Time) error {
	acc := l.Account(id)
	if acc.Debt.Lt(amount) {
		return ErrInsufficientDebt
	}
	acc.Debt = new(uint256.Int).Sub(acc.Debt, amount)
	acc.LastUpdatedAt = now
	return nil
}

// TotalCollateral sums every account's balance of assetID, used by property
// test P2 (asset conservation) to check against the engine's externally
// held balance.
func (l *Ledger) TotalCollateral(assetID string) *uint256.Int {
	total := uint256.NewInt(0)
	for _, acc := range l.accounts {
		total = new(uint256.Int).Add(total, acc.CollateralBalance(assetID))
	}
	return total
}

// TotalDebt sums every account's DSC debt, used by property test P3 (debt
// conservation) to check against stablecoin total supply.
func (l *Ledger) TotalDebt() *uint256.Int {
	total := uint256.NewInt(0)
	for _, acc := range l.accounts {
		total = new(uint256.Int).Add(total, acc.Debt)
	}
	return total
}
