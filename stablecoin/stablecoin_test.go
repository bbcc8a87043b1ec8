package stablecoin

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"dscengine/address"
)

func TestMintRequiresOwnerCaller(t *testing.T) {
	owner := address.ID{0xEE}
	other := address.ID{0x01}
	tok := NewInMemoryToken(owner)

	to := address.ID{1}
	ok, err := tok.Mint(WithCaller(context.Background(), other), to, uint256.NewInt(10))
	require.ErrorIs(t, err, ErrUnauthorized)
	require.False(t, ok)

	ok, err = tok.Mint(context.Background(), to, uint256.NewInt(10))
	require.ErrorIs(t, err, ErrUnauthorized, "a caller-less context must also be rejected")
	require.False(t, ok)

	ok, err = tok.Mint(WithCaller(context.Background(), owner), to, uint256.NewInt(10))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint256.NewInt(10), tok.BalanceOf(to))
}

func TestMintIncreasesTotalSupply(t *testing.T) {
	owner := address.ID{0xEE}
	tok := NewInMemoryToken(owner)
	ctx := WithCaller(context.Background(), owner)

	_, err := tok.Mint(ctx, address.ID{1}, uint256.NewInt(100))
	require.NoError(t, err)
	_, err = tok.Mint(ctx, address.ID{2}, uint256.NewInt(50))
	require.NoError(t, err)

	supply, err := tok.TotalSupply(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(150), supply)
}

func TestTransferFromThenBurn(t *testing.T) {
	owner := address.ID{0xEE}
	tok := NewInMemoryToken(owner)
	ownerCtx := WithCaller(context.Background(), owner)

	user := address.ID{1}
	_, err := tok.Mint(ownerCtx, user, uint256.NewInt(100))
	require.NoError(t, err)

	ok, err := tok.TransferFrom(context.Background(), user, uint256.NewInt(40))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint256.NewInt(60), tok.BalanceOf(user))

	require.NoError(t, tok.Burn(ownerCtx, uint256.NewInt(40)))
	supply, err := tok.TotalSupply(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(60), supply)
}

func TestBurnRequiresOwnerCaller(t *testing.T) {
	owner := address.ID{0xEE}
	other := address.ID{0x01}
	tok := NewInMemoryToken(owner)

	err := tok.Burn(WithCaller(context.Background(), other), uint256.NewInt(1))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestBurnInsufficientPulledFaults(t *testing.T) {
	owner := address.ID{0xEE}
	tok := NewInMemoryToken(owner)
	err := tok.Burn(WithCaller(context.Background(), owner), uint256.NewInt(1))
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestTransferFromInsufficientBalanceReturnsFalse(t *testing.T) {
	owner := address.ID{0xEE}
	tok := NewInMemoryToken(owner)
	ok, err := tok.TransferFrom(context.Background(), address.ID{1}, uint256.NewInt(1))
	require.NoError(t, err)
	require.False(t, ok)
}
