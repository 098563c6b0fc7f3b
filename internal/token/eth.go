package token

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// minimal ABI fragments for the capability calls the endpoint issues
const (
	erc20ABIJSON = `[
		{"name":"transfer","type":"function","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]},
		{"name":"transferFrom","type":"function","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]},
		{"name":"approve","type":"function","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]},
		{"name":"mint","type":"function","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
		{"name":"burn","type":"function","inputs":[{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}
	]`
	erc721ABIJSON = `[
		{"name":"transferFrom","type":"function","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
		{"name":"setApprovalForAll","type":"function","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
		{"name":"mint","type":"function","inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
		{"name":"burn","type":"function","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]}
	]`
	erc1155ABIJSON = `[
		{"name":"safeTransferFrom","type":"function","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
		{"name":"setApprovalForAll","type":"function","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
		{"name":"mint","type":"function","inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
		{"name":"burn","type":"function","inputs":[{"name":"from","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"}],"outputs":[]}
	]`
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI definition: %v", err))
	}
	return parsed
}

var (
	erc20ABI   = mustParseABI(erc20ABIJSON)
	erc721ABI  = mustParseABI(erc721ABIJSON)
	erc1155ABI = mustParseABI(erc1155ABIJSON)
)

// EthSender signs and submits contract calls for the endpoint's operator
// account. Gas is estimated per call; a mined receipt with failed status is
// surfaced as an error so ledger accounting never records a reverted move.
type EthSender struct {
	client *ethclient.Client
	opts   *bind.TransactOpts
}

// NewEthSender wraps an eth client and the operator's transact opts.
func NewEthSender(client *ethclient.Client, opts *bind.TransactOpts) *EthSender {
	return &EthSender{client: client, opts: opts}
}

// SendCall builds, signs, submits and waits for one contract call.
func (s *EthSender) SendCall(ctx context.Context, to common.Address, value *big.Int, data []byte) error {
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := s.client.PendingNonceAt(ctx, s.opts.From)
	if err != nil {
		return fmt.Errorf("failed to get pending nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.opts.From,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := s.opts.Signer(s.opts.From, tx)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, s.client, signedTx)
	if err != nil {
		return fmt.Errorf("failed waiting for transaction %s: %w", signedTx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted", signedTx.Hash().Hex())
	}

	log.Printf("✅ contract call mined: to=%s tx=%s gas=%d", to.Hex(), signedTx.Hash().Hex(), receipt.GasUsed)
	return nil
}

// ContractSender is the submit surface the eth-backed clients use. EthSender
// implements it; tests substitute a recorder.
type ContractSender interface {
	SendCall(ctx context.Context, to common.Address, value *big.Int, data []byte) error
}

// EthNativeClient moves native value through the sender account.
type EthNativeClient struct {
	sender ContractSender
}

func NewEthNativeClient(sender ContractSender) *EthNativeClient {
	return &EthNativeClient{sender: sender}
}

func (c *EthNativeClient) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	return c.sender.SendCall(ctx, to, amount, nil)
}

// EthFungibleClient issues ERC-20-shaped capability calls.
type EthFungibleClient struct {
	token  common.Address
	sender ContractSender
}

func NewEthFungibleClient(token common.Address, sender ContractSender) *EthFungibleClient {
	return &EthFungibleClient{token: token, sender: sender}
}

func (c *EthFungibleClient) call(ctx context.Context, method string, args ...interface{}) error {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return c.sender.SendCall(ctx, c.token, nil, data)
}

func (c *EthFungibleClient) TransferFrom(ctx context.Context, from, to common.Address, amount *big.Int) error {
	return c.call(ctx, "transferFrom", from, to, amount)
}

func (c *EthFungibleClient) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	return c.call(ctx, "transfer", to, amount)
}

func (c *EthFungibleClient) Approve(ctx context.Context, spender common.Address, amount *big.Int) error {
	return c.call(ctx, "approve", spender, amount)
}

func (c *EthFungibleClient) Mint(ctx context.Context, to common.Address, amount *big.Int) error {
	return c.call(ctx, "mint", to, amount)
}

func (c *EthFungibleClient) Burn(ctx context.Context, from common.Address, amount *big.Int) error {
	return c.call(ctx, "burn", from, amount)
}

// EthNFTClient issues ERC-721-shaped capability calls.
type EthNFTClient struct {
	token  common.Address
	sender ContractSender
}

func NewEthNFTClient(token common.Address, sender ContractSender) *EthNFTClient {
	return &EthNFTClient{token: token, sender: sender}
}

func (c *EthNFTClient) call(ctx context.Context, method string, args ...interface{}) error {
	data, err := erc721ABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return c.sender.SendCall(ctx, c.token, nil, data)
}

func (c *EthNFTClient) TransferFrom(ctx context.Context, from, to common.Address, id *big.Int) error {
	return c.call(ctx, "transferFrom", from, to, id)
}

func (c *EthNFTClient) SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error {
	return c.call(ctx, "setApprovalForAll", operator, approved)
}

func (c *EthNFTClient) Mint(ctx context.Context, to common.Address, id *big.Int) error {
	return c.call(ctx, "mint", to, id)
}

func (c *EthNFTClient) Burn(ctx context.Context, id *big.Int) error {
	return c.call(ctx, "burn", id)
}

// EthMultiTokenClient issues ERC-1155-shaped capability calls.
type EthMultiTokenClient struct {
	token  common.Address
	sender ContractSender
}

func NewEthMultiTokenClient(token common.Address, sender ContractSender) *EthMultiTokenClient {
	return &EthMultiTokenClient{token: token, sender: sender}
}

func (c *EthMultiTokenClient) call(ctx context.Context, method string, args ...interface{}) error {
	data, err := erc1155ABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return c.sender.SendCall(ctx, c.token, nil, data)
}

func (c *EthMultiTokenClient) SafeTransferFrom(ctx context.Context, from, to common.Address, id, amount *big.Int, data []byte) error {
	return c.call(ctx, "safeTransferFrom", from, to, id, amount, data)
}

func (c *EthMultiTokenClient) SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error {
	return c.call(ctx, "setApprovalForAll", operator, approved)
}

func (c *EthMultiTokenClient) Mint(ctx context.Context, to common.Address, id, amount *big.Int, data []byte) error {
	return c.call(ctx, "mint", to, id, amount, data)
}

func (c *EthMultiTokenClient) Burn(ctx context.Context, from common.Address, id, amount *big.Int) error {
	return c.call(ctx, "burn", from, id, amount)
}
