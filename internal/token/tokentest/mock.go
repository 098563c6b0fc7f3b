// Package tokentest provides controllable in-memory token clients for
// adapter and endpoint tests.
package tokentest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Call records one capability invocation.
type Call struct {
	Method string
	From   common.Address
	To     common.Address
	ID     *big.Int
	Amount *big.Int
	Data   []byte
}

// MockTokenClient implements token.NativeClient, token.FungibleClient,
// token.NFTClient and token.MultiTokenClient at once, recording every call.
// Set FailNext to make the next capability call fail.
type MockTokenClient struct {
	mu       sync.Mutex
	Calls    []Call
	FailNext bool

	// OnCall, when set, runs before the call is recorded. Used by reentrancy
	// tests to call back into the endpoint from inside a token operation.
	OnCall func(method string) error
}

// NewMockTokenClient creates an empty recorder.
func NewMockTokenClient() *MockTokenClient {
	return &MockTokenClient{}
}

func (m *MockTokenClient) record(c Call) error {
	m.mu.Lock()
	failNext := m.FailNext
	m.FailNext = false
	onCall := m.OnCall
	m.mu.Unlock()

	if onCall != nil {
		if err := onCall(c.Method); err != nil {
			return err
		}
	}
	if failNext {
		return fmt.Errorf("mock token client: %s forced to fail", c.Method)
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, c)
	m.mu.Unlock()
	return nil
}

// CallsFor returns the recorded calls for one method.
func (m *MockTokenClient) CallsFor(method string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// native

func (m *MockTokenClient) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	return m.record(Call{Method: "transfer", To: to, Amount: amount})
}

// fungible

func (m *MockTokenClient) TransferFrom(ctx context.Context, from, to common.Address, amount *big.Int) error {
	return m.record(Call{Method: "transferFrom", From: from, To: to, Amount: amount})
}

func (m *MockTokenClient) Approve(ctx context.Context, spender common.Address, amount *big.Int) error {
	return m.record(Call{Method: "approve", To: spender, Amount: amount})
}

func (m *MockTokenClient) Mint(ctx context.Context, to common.Address, amount *big.Int) error {
	return m.record(Call{Method: "mint", To: to, Amount: amount})
}

func (m *MockTokenClient) Burn(ctx context.Context, from common.Address, amount *big.Int) error {
	return m.record(Call{Method: "burn", From: from, Amount: amount})
}

// MockNFTClient implements token.NFTClient.
type MockNFTClient struct {
	*MockTokenClient
}

// NewMockNFTClient creates an NFT recorder sharing the given call log.
func NewMockNFTClient(base *MockTokenClient) *MockNFTClient {
	return &MockNFTClient{MockTokenClient: base}
}

func (m *MockNFTClient) TransferFrom(ctx context.Context, from, to common.Address, id *big.Int) error {
	return m.record(Call{Method: "nft.transferFrom", From: from, To: to, ID: id})
}

func (m *MockNFTClient) SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error {
	return m.record(Call{Method: "nft.setApprovalForAll", To: operator})
}

func (m *MockNFTClient) Mint(ctx context.Context, to common.Address, id *big.Int) error {
	return m.record(Call{Method: "nft.mint", To: to, ID: id})
}

func (m *MockNFTClient) Burn(ctx context.Context, id *big.Int) error {
	return m.record(Call{Method: "nft.burn", ID: id})
}

// MockMultiTokenClient implements token.MultiTokenClient.
type MockMultiTokenClient struct {
	*MockTokenClient
}

// NewMockMultiTokenClient creates a multi-token recorder sharing the given call log.
func NewMockMultiTokenClient(base *MockTokenClient) *MockMultiTokenClient {
	return &MockMultiTokenClient{MockTokenClient: base}
}

func (m *MockMultiTokenClient) SafeTransferFrom(ctx context.Context, from, to common.Address, id, amount *big.Int, data []byte) error {
	return m.record(Call{Method: "multi.safeTransferFrom", From: from, To: to, ID: id, Amount: amount, Data: data})
}

func (m *MockMultiTokenClient) SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error {
	return m.record(Call{Method: "multi.setApprovalForAll", To: operator})
}

func (m *MockMultiTokenClient) Mint(ctx context.Context, to common.Address, id, amount *big.Int, data []byte) error {
	return m.record(Call{Method: "multi.mint", To: to, ID: id, Amount: amount, Data: data})
}

func (m *MockMultiTokenClient) Burn(ctx context.Context, from common.Address, id, amount *big.Int) error {
	return m.record(Call{Method: "multi.burn", From: from, ID: id, Amount: amount})
}
