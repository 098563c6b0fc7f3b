package adapter

import (
	"context"
	"math/big"
	"testing"

	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/token/tokentest"
	"go-bridge/internal/wire"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vaultAddr = common.HexToAddress("0xAAA0000000000000000000000000000000000001")
	userAddr  = common.HexToAddress("0xBBB0000000000000000000000000000000000002")
)

func TestVaultFungibleCustody(t *testing.T) {
	mock := tokentest.NewMockTokenClient()
	v := NewVaultAdapter(assetkind.Fungible, vaultAddr, nil, mock, nil, nil)

	require.NoError(t, v.TakeCustody(context.Background(), userAddr, big.NewInt(100), nil))
	calls := mock.CallsFor("transferFrom")
	require.Len(t, calls, 1)
	assert.Equal(t, userAddr, calls[0].From)
	assert.Equal(t, vaultAddr, calls[0].To)
	assert.Equal(t, int64(100), calls[0].Amount.Int64())

	require.NoError(t, v.ReleaseCustody(context.Background(), userAddr, big.NewInt(60), nil))
	calls = mock.CallsFor("transfer")
	require.Len(t, calls, 1)
	assert.Equal(t, userAddr, calls[0].To)
	assert.Equal(t, int64(60), calls[0].Amount.Int64())
}

func TestVaultNativeCustody(t *testing.T) {
	mock := tokentest.NewMockTokenClient()
	v := NewVaultAdapter(assetkind.Native, vaultAddr, mock, nil, nil, nil)

	// taking custody of the native asset is value-attached, not a token call
	require.NoError(t, v.TakeCustody(context.Background(), userAddr, big.NewInt(100), nil))
	require.Empty(t, mock.Calls)

	require.NoError(t, v.ReleaseCustody(context.Background(), userAddr, big.NewInt(100), nil))
	require.Len(t, mock.CallsFor("transfer"), 1)

	mock.FailNext = true
	err := v.ReleaseCustody(context.Background(), userAddr, big.NewInt(1), nil)
	require.Error(t, err)
}

func TestVaultNFTCustodyUsesUnitID(t *testing.T) {
	base := tokentest.NewMockTokenClient()
	nft := tokentest.NewMockNFTClient(base)
	v := NewVaultAdapter(assetkind.NonFungibleSingle, vaultAddr, nil, nil, nft, nil)

	extra := wire.EncodeUnitID(big.NewInt(42))
	require.NoError(t, v.TakeCustody(context.Background(), userAddr, big.NewInt(1), extra))
	calls := base.CallsFor("nft.transferFrom")
	require.Len(t, calls, 1)
	assert.Equal(t, userAddr, calls[0].From)
	assert.Equal(t, vaultAddr, calls[0].To)
	assert.Equal(t, int64(42), calls[0].ID.Int64())

	require.NoError(t, v.ReleaseCustody(context.Background(), userAddr, big.NewInt(1), extra))
	calls = base.CallsFor("nft.transferFrom")
	require.Len(t, calls, 2)
	assert.Equal(t, vaultAddr, calls[1].From)
	assert.Equal(t, userAddr, calls[1].To)
}

func TestVaultNFTRejectsMalformedExtraData(t *testing.T) {
	base := tokentest.NewMockTokenClient()
	v := NewVaultAdapter(assetkind.NonFungibleSingle, vaultAddr, nil, nil, tokentest.NewMockNFTClient(base), nil)

	err := v.TakeCustody(context.Background(), userAddr, big.NewInt(1), nil)
	require.ErrorIs(t, err, bridge.ErrMalformedExtraData)
	require.Empty(t, base.Calls)
}

func TestVaultMultiTokenCustody(t *testing.T) {
	base := tokentest.NewMockTokenClient()
	multi := tokentest.NewMockMultiTokenClient(base)
	v := NewVaultAdapter(assetkind.NonFungibleMulti, vaultAddr, nil, nil, nil, multi)

	extra := wire.EncodeUnitID(big.NewInt(9))
	require.NoError(t, v.TakeCustody(context.Background(), userAddr, big.NewInt(5), extra))
	calls := base.CallsFor("multi.safeTransferFrom")
	require.Len(t, calls, 1)
	assert.Equal(t, int64(9), calls[0].ID.Int64())
	assert.Equal(t, int64(5), calls[0].Amount.Int64())
}

func TestVaultZeroAmountIsNoOp(t *testing.T) {
	mock := tokentest.NewMockTokenClient()
	v := NewVaultAdapter(assetkind.Fungible, vaultAddr, nil, mock, nil, nil)

	require.NoError(t, v.TakeCustody(context.Background(), userAddr, big.NewInt(0), nil))
	require.NoError(t, v.TakeCustody(context.Background(), userAddr, nil, nil))
	require.NoError(t, v.ReleaseCustody(context.Background(), userAddr, big.NewInt(0), nil))
	require.Empty(t, mock.Calls)
}

func TestVaultMissingClientFailsLoudly(t *testing.T) {
	v := NewVaultAdapter(assetkind.Fungible, vaultAddr, nil, nil, nil, nil)

	err := v.TakeCustody(context.Background(), userAddr, big.NewInt(1), nil)
	require.ErrorIs(t, err, bridge.ErrUnsupportedAssetKind)
	err = v.ReleaseCustody(context.Background(), userAddr, big.NewInt(1), nil)
	require.ErrorIs(t, err, bridge.ErrUnsupportedAssetKind)
}

func TestVaultApproveOperator(t *testing.T) {
	mock := tokentest.NewMockTokenClient()
	v := NewVaultAdapter(assetkind.Fungible, vaultAddr, nil, mock, nil, nil)

	operator := common.HexToAddress("0xCCC0000000000000000000000000000000000003")
	require.NoError(t, v.ApproveOperator(context.Background(), operator))
	calls := mock.CallsFor("approve")
	require.Len(t, calls, 1)
	assert.Equal(t, operator, calls[0].To)
	// unlimited allowance
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Zero(t, max.Cmp(calls[0].Amount))

	base := tokentest.NewMockTokenClient()
	nv := NewVaultAdapter(assetkind.NonFungibleSingle, vaultAddr, nil, nil, tokentest.NewMockNFTClient(base), nil)
	require.NoError(t, nv.ApproveOperator(context.Background(), operator))
	require.Len(t, base.CallsFor("nft.setApprovalForAll"), 1)
}
