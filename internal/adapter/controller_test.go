package adapter

import (
	"context"
	"math/big"
	"testing"

	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/ledger"
	"go-bridge/internal/token/tokentest"
	"go-bridge/internal/wire"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var controllerAddr = common.HexToAddress("0xDDD0000000000000000000000000000000000004")

func TestControllerFungibleMintBurn(t *testing.T) {
	store := ledger.NewStore()
	mock := tokentest.NewMockTokenClient()
	c := NewControllerAdapter(assetkind.Fungible, controllerAddr, store, mock, nil, nil)

	require.NoError(t, c.MintTo(context.Background(), userAddr, big.NewInt(500), nil))
	require.Equal(t, int64(500), store.Supply().Int64())
	calls := mock.CallsFor("mint")
	require.Len(t, calls, 1)
	assert.Equal(t, userAddr, calls[0].To)

	require.NoError(t, c.BurnFrom(context.Background(), userAddr, big.NewInt(200), nil))
	require.Equal(t, int64(300), store.Supply().Int64())
	calls = mock.CallsFor("burn")
	require.Len(t, calls, 1)
	assert.Equal(t, userAddr, calls[0].From)
	assert.Equal(t, int64(200), calls[0].Amount.Int64())
}

func TestControllerBurnSupplyUnderflow(t *testing.T) {
	store := ledger.NewStore()
	mock := tokentest.NewMockTokenClient()
	c := NewControllerAdapter(assetkind.Fungible, controllerAddr, store, mock, nil, nil)

	store.CreditSupply(big.NewInt(100))
	err := c.BurnFrom(context.Background(), userAddr, big.NewInt(101), nil)
	require.ErrorIs(t, err, bridge.ErrSupplyUnderflow)
	// the supply check runs before any token call
	require.Empty(t, mock.CallsFor("burn"))
	require.Equal(t, int64(100), store.Supply().Int64())
}

func TestControllerNFTBurnMovesOwnershipFirst(t *testing.T) {
	store := ledger.NewStore()
	store.CreditSupply(big.NewInt(1))
	base := tokentest.NewMockTokenClient()
	nft := tokentest.NewMockNFTClient(base)
	c := NewControllerAdapter(assetkind.NonFungibleSingle, controllerAddr, store, nil, nft, nil)

	extra := wire.EncodeUnitID(big.NewInt(42))
	require.NoError(t, c.BurnFrom(context.Background(), userAddr, big.NewInt(1), extra))

	// unit moves into the controller, then gets burned
	require.Len(t, base.Calls, 2)
	assert.Equal(t, "nft.transferFrom", base.Calls[0].Method)
	assert.Equal(t, userAddr, base.Calls[0].From)
	assert.Equal(t, controllerAddr, base.Calls[0].To)
	assert.Equal(t, "nft.burn", base.Calls[1].Method)
	assert.Equal(t, int64(42), base.Calls[1].ID.Int64())
	require.Zero(t, store.Supply().Sign())
}

func TestControllerNFTMintPreservesUnitID(t *testing.T) {
	store := ledger.NewStore()
	base := tokentest.NewMockTokenClient()
	nft := tokentest.NewMockNFTClient(base)
	c := NewControllerAdapter(assetkind.NonFungibleSingle, controllerAddr, store, nil, nft, nil)

	extra := wire.EncodeUnitID(big.NewInt(77))
	require.NoError(t, c.MintTo(context.Background(), userAddr, big.NewInt(1), extra))
	calls := base.CallsFor("nft.mint")
	require.Len(t, calls, 1)
	assert.Equal(t, int64(77), calls[0].ID.Int64())
	assert.Equal(t, userAddr, calls[0].To)
}

func TestControllerMultiTokenMintBurn(t *testing.T) {
	store := ledger.NewStore()
	base := tokentest.NewMockTokenClient()
	multi := tokentest.NewMockMultiTokenClient(base)
	c := NewControllerAdapter(assetkind.NonFungibleMulti, controllerAddr, store, nil, nil, multi)

	extra := wire.EncodeUnitID(big.NewInt(3))
	require.NoError(t, c.MintTo(context.Background(), userAddr, big.NewInt(10), extra))
	require.Equal(t, int64(10), store.Supply().Int64())
	calls := base.CallsFor("multi.mint")
	require.Len(t, calls, 1)
	assert.Equal(t, int64(3), calls[0].ID.Int64())
	assert.Equal(t, int64(10), calls[0].Amount.Int64())

	require.NoError(t, c.BurnFrom(context.Background(), userAddr, big.NewInt(4), extra))
	require.Equal(t, int64(6), store.Supply().Int64())
	require.Len(t, base.CallsFor("multi.burn"), 1)
}

func TestControllerMissingClientFailsLoudly(t *testing.T) {
	store := ledger.NewStore()
	store.CreditSupply(big.NewInt(10))

	for _, kind := range []assetkind.Kind{assetkind.Fungible, assetkind.NonFungibleSingle, assetkind.NonFungibleMulti} {
		c := NewControllerAdapter(kind, controllerAddr, store, nil, nil, nil)
		extra := wire.EncodeUnitID(big.NewInt(1))
		require.ErrorIs(t, c.MintTo(context.Background(), userAddr, big.NewInt(1), extra), bridge.ErrUnsupportedAssetKind, kind.String())
		require.ErrorIs(t, c.BurnFrom(context.Background(), userAddr, big.NewInt(1), extra), bridge.ErrUnsupportedAssetKind, kind.String())
	}
}

func TestControllerNativeKindUnsupported(t *testing.T) {
	store := ledger.NewStore()
	c := NewControllerAdapter(assetkind.Native, controllerAddr, store, nil, nil, nil)

	require.ErrorIs(t, c.MintTo(context.Background(), userAddr, big.NewInt(1), nil), bridge.ErrUnsupportedAssetKind)
	require.ErrorIs(t, c.BurnFrom(context.Background(), userAddr, big.NewInt(1), nil), bridge.ErrUnsupportedAssetKind)
}

func TestControllerZeroAmountIsNoOp(t *testing.T) {
	store := ledger.NewStore()
	mock := tokentest.NewMockTokenClient()
	c := NewControllerAdapter(assetkind.Fungible, controllerAddr, store, mock, nil, nil)

	require.NoError(t, c.MintTo(context.Background(), userAddr, big.NewInt(0), nil))
	require.NoError(t, c.BurnFrom(context.Background(), userAddr, nil, nil))
	require.Empty(t, mock.Calls)
	require.Zero(t, store.Supply().Sign())
}
