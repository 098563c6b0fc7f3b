package bridge

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Hook is the external policy collaborator invoked at the four lifecycle
// points around every bridge/mint/retry operation (rate limiting, fee and
// yield adjustment). Hooks may rewrite the TransferInfo; whatever they return
// is what the custody/mint actions execute. HookData is opaque to the
// endpoint and is threaded from each pre point to its matching post point.
type Hook interface {
	// Address identifies the hook for events and for vault-side asset
	// pre-approval when the hook is updated.
	Address() common.Address

	PreBridge(ctx context.Context, sender common.Address, info TransferInfo) (TransferInfo, []byte, error)
	PostBridge(ctx context.Context, sender common.Address, info TransferInfo, hookData []byte) error

	// PreMint may reduce the honored amount by declaring part (or all) of the
	// adjusted transfer deferred. The deferred portion is recorded by the
	// endpoint and completed later via Retry.
	PreMint(ctx context.Context, connector common.Address, messageID common.Hash, info TransferInfo) (HookDecision, error)
	PostMint(ctx context.Context, connector common.Address, messageID common.Hash, info TransferInfo, hookData []byte) error

	PreRetry(ctx context.Context, connector common.Address, messageID common.Hash, pending PendingHookResult) (TransferInfo, []byte, error)
	PostRetry(ctx context.Context, connector common.Address, messageID common.Hash, info TransferInfo, hookData []byte) error
}

// Connector is the external message-delivery collaborator. The endpoint
// dispatches outbound transfers through it and receives inbound payloads
// from it; message authentication is the connector layer's problem.
type Connector interface {
	Address() common.Address

	// Dispatch hands an outbound transfer to the message layer. GasLimit and
	// options are carried verbatim; the returned message id is assigned by
	// the message layer, never by the endpoint.
	Dispatch(ctx context.Context, gasLimit uint64, options []byte, info TransferInfo) (common.Hash, error)
}
