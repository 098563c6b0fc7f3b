package token

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeClient moves the chain's native asset.
type NativeClient interface {
	// Transfer sends amount of native value to the receiver. A failed
	// transfer is fatal to the surrounding call, never swallowed.
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error
}

// FungibleClient is the capability surface of a fungible token: custody
// moves for vault mode, mint/burn for controller mode. Mint and burn are
// gated behind a controller-only capability check on the contract's side.
type FungibleClient interface {
	TransferFrom(ctx context.Context, from, to common.Address, amount *big.Int) error
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error
	Approve(ctx context.Context, spender common.Address, amount *big.Int) error
	Mint(ctx context.Context, to common.Address, amount *big.Int) error
	Burn(ctx context.Context, from common.Address, amount *big.Int) error
}

// NFTClient is the capability surface of a one-of-a-kind token family.
type NFTClient interface {
	TransferFrom(ctx context.Context, from, to common.Address, id *big.Int) error
	SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error
	Mint(ctx context.Context, to common.Address, id *big.Int) error
	Burn(ctx context.Context, id *big.Int) error
}

// MultiTokenClient is the capability surface of a semi-fungible token family
// with per-id balances.
type MultiTokenClient interface {
	SafeTransferFrom(ctx context.Context, from, to common.Address, id, amount *big.Int, data []byte) error
	SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error
	Mint(ctx context.Context, to common.Address, id, amount *big.Int, data []byte) error
	Burn(ctx context.Context, from common.Address, id, amount *big.Int) error
}
