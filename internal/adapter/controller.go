package adapter

import (
	"context"
	"fmt"
	"math/big"

	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/ledger"
	"go-bridge/internal/token"
	"go-bridge/internal/wire"

	"github.com/ethereum/go-ethereum/common"
)

// ControllerAdapter manages a synthetic representative of the asset via the
// token's mint/burn capability, keeping the circulating-supply ledger in
// step. Every kind is gated behind its capability client: a kind whose
// client is absent fails with ErrUnsupportedAssetKind rather than silently
// no-opping.
type ControllerAdapter struct {
	kind       assetkind.Kind
	controller common.Address
	store      *ledger.Store

	fungible token.FungibleClient
	nft      token.NFTClient
	multi    token.MultiTokenClient
}

// NewControllerAdapter builds a controller for one asset kind. Native
// assets have no representative to mint, so constructing a controller for
// kind native is rejected at transfer time.
func NewControllerAdapter(kind assetkind.Kind, controller common.Address, store *ledger.Store, fungible token.FungibleClient, nft token.NFTClient, multi token.MultiTokenClient) *ControllerAdapter {
	return &ControllerAdapter{
		kind:       kind,
		controller: controller,
		store:      store,
		fungible:   fungible,
		nft:        nft,
		multi:      multi,
	}
}

// Kind returns the configured asset kind.
func (a *ControllerAdapter) Kind() assetkind.Kind { return a.kind }

// BurnFrom decreases the circulating supply by amount, then invokes the
// representative asset's burn capability for the user. Supply underflow is
// an accounting invariant violation and fails the whole call. No-op when
// amount is zero.
func (a *ControllerAdapter) BurnFrom(ctx context.Context, user common.Address, amount *big.Int, extraData []byte) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	switch a.kind {
	case assetkind.Fungible:
		if a.fungible == nil {
			return fmt.Errorf("%w: no fungible client", bridge.ErrUnsupportedAssetKind)
		}
		if err := a.store.DebitSupply(amount); err != nil {
			return err
		}
		return a.fungible.Burn(ctx, user, amount)
	case assetkind.NonFungibleSingle:
		if a.nft == nil {
			return fmt.Errorf("%w: no nft client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		if err := a.store.DebitSupply(amount); err != nil {
			return err
		}
		// ownership moves into the controller before the unit is burned, so
		// a burn capability that checks ownership sees the controller
		if err := a.nft.TransferFrom(ctx, user, a.controller, id); err != nil {
			return err
		}
		return a.nft.Burn(ctx, id)
	case assetkind.NonFungibleMulti:
		if a.multi == nil {
			return fmt.Errorf("%w: no multi-token client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		if err := a.store.DebitSupply(amount); err != nil {
			return err
		}
		return a.multi.Burn(ctx, user, id, amount)
	default:
		return fmt.Errorf("%w: kind %s", bridge.ErrUnsupportedAssetKind, a.kind)
	}
}

// MintTo increases the circulating supply by amount, then invokes the mint
// capability for the user. The unit id carried in extraData is preserved
// for non-fungible kinds. No-op when amount is zero.
func (a *ControllerAdapter) MintTo(ctx context.Context, user common.Address, amount *big.Int, extraData []byte) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	switch a.kind {
	case assetkind.Fungible:
		if a.fungible == nil {
			return fmt.Errorf("%w: no fungible client", bridge.ErrUnsupportedAssetKind)
		}
		a.store.CreditSupply(amount)
		return a.fungible.Mint(ctx, user, amount)
	case assetkind.NonFungibleSingle:
		if a.nft == nil {
			return fmt.Errorf("%w: no nft client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		a.store.CreditSupply(amount)
		return a.nft.Mint(ctx, user, id)
	case assetkind.NonFungibleMulti:
		if a.multi == nil {
			return fmt.Errorf("%w: no multi-token client", bridge.ErrUnsupportedAssetKind)
		}
		id, err := wire.DecodeUnitID(extraData)
		if err != nil {
			return err
		}
		a.store.CreditSupply(amount)
		return a.multi.Mint(ctx, user, id, amount, nil)
	default:
		return fmt.Errorf("%w: kind %s", bridge.ErrUnsupportedAssetKind, a.kind)
	}
}
