// Package adapter implements the kind-specific transfer mechanics beneath
// the bridge endpoint: a custody vault that escrows real assets and a
// mint/burn controller that manages a synthetic representative asset. The
// asset kind is fixed at construction and never re-derived per call.
package adapter

import (
	"context"
	"fmt"
	"math/big"

	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/token"
	"go-bridge/internal/wire"

	"github.com/ethereum/go-ethereum/common"
)

// VaultAdapter escrows real assets: custody is taken from the sender on
// bridge-out and released to the receiver on bridge-in.
type VaultAdapter struct {
	kind  assetkind.Kind
	vault common.Address

	native   token.NativeClient
	fungible token.FungibleClient
	nft      token.NFTClient
	multi    token.MultiTokenClient
}

// NewVaultAdapter builds a vault for one asset kind. Only the client for
// the configured kind needs to be non-nil; a kind whose client is missing
// fails loudly at transfer time instead of silently no-opping.
func NewVaultAdapter(kind assetkind.Kind, vault common.Address, native token.NativeClient, fungible token.FungibleClient, nft token.NFTClient, multi token.MultiTokenClient) *VaultAdapter {
	return &VaultAdapter{
		kind:     kind,
		vault:    vault,
		native:   native,
		fungible: fungible,
		nft:      nft,
		multi:    multi,
	}
}

// Kind returns the configured asset kind.
func (a *VaultAdapter) Kind() assetkind.Kind { return a.kind }

// TakeCustody pulls amount from the sender into the vault. No-op when
// amount is zero. For native assets the value is attached out-of-band and
// the amount is informational only.
func (a *VaultAdapter) TakeCustody(ctx context.Context, from common.Address, amount *big.Int, extraData []byte) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	switch a.kind {
	case assetkind.Native:
		return nil
	case assetkind.Fungible:
		if a.fungible == nil {
			return fmt.Errorf("%w: no fungible client", bridge.ErrUnsupportedAssetKind)
		}
		return a.fungible.TransferFrom(ctx, from, a.vault, amount)
	case assetkind.NonFungibleSingle:
		if a.nft == nil {
			return fmt.Errorf("%w: no nft client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		return a.nft.TransferFrom(ctx, from, a.vault, id)
	case assetkind.NonFungibleMulti:
		if a.multi == nil {
			return fmt.Errorf("%w: no multi-token client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		return a.multi.SafeTransferFrom(ctx, from, a.vault, id, amount, nil)
	default:
		return fmt.Errorf("%w: kind %s", bridge.ErrUnsupportedAssetKind, a.kind)
	}
}

// ReleaseCustody moves amount from the vault to the receiver. No-op when
// amount is zero. A failed native transfer is fatal to the call.
func (a *VaultAdapter) ReleaseCustody(ctx context.Context, receiver common.Address, amount *big.Int, extraData []byte) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	switch a.kind {
	case assetkind.Native:
		if a.native == nil {
			return fmt.Errorf("%w: no native client", bridge.ErrUnsupportedAssetKind)
		}
		if err := a.native.Transfer(ctx, receiver, amount); err != nil {
			return fmt.Errorf("native transfer to %s failed: %w", receiver.Hex(), err)
		}
		return nil
	case assetkind.Fungible:
		if a.fungible == nil {
			return fmt.Errorf("%w: no fungible client", bridge.ErrUnsupportedAssetKind)
		}
		return a.fungible.Transfer(ctx, receiver, amount)
	case assetkind.NonFungibleSingle:
		if a.nft == nil {
			return fmt.Errorf("%w: no nft client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		return a.nft.TransferFrom(ctx, a.vault, receiver, id)
	case assetkind.NonFungibleMulti:
		if a.multi == nil {
			return fmt.Errorf("%w: no multi-token client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		return a.multi.SafeTransferFrom(ctx, a.vault, receiver, id, amount, nil)
	default:
		return fmt.Errorf("%w: kind %s", bridge.ErrUnsupportedAssetKind, a.kind)
	}
}

// ApproveOperator pre-approves an operator (a newly installed hook) to move
// the vault's held assets.
func (a *VaultAdapter) ApproveOperator(ctx context.Context, operator common.Address) error {
	switch a.kind {
	case assetkind.Native:
		return nil
	case assetkind.Fungible:
		if a.fungible == nil {
			return fmt.Errorf("%w: no fungible client", bridge.ErrUnsupportedAssetKind)
		}
		// max uint256, the conventional unlimited allowance
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
		return a.fungible.Approve(ctx, operator, max)
	case assetkind.NonFungibleSingle:
		if a.nft == nil {
			return fmt.Errorf("%w: no nft client", bridge.ErrUnsupportedAssetKind)
		}
		return a.nft.SetApprovalForAll(ctx, operator, true)
	case assetkind.NonFungibleMulti:
		if a.multi == nil {
			return fmt.Errorf("%w: no multi-token client", bridge.ErrUnsupportedAssetKind)
		}
		return a.multi.SetApprovalForAll(ctx, operator, true)
	default:
		return fmt.Errorf("%w: kind %s", bridge.ErrUnsupportedAssetKind, a.kind)
	}
}
