package bridge

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// NopHook is the identity policy: it honors every transfer in full and
// defers nothing. Deployments without a rate limiter or yield policy run
// with it; tests use it as a base to embed.
type NopHook struct {
	Addr common.Address
}

// NewNopHook creates a passthrough hook with the given identity.
func NewNopHook(addr common.Address) *NopHook {
	return &NopHook{Addr: addr}
}

func (h *NopHook) Address() common.Address { return h.Addr }

func (h *NopHook) PreBridge(ctx context.Context, sender common.Address, info TransferInfo) (TransferInfo, []byte, error) {
	return info, nil, nil
}

func (h *NopHook) PostBridge(ctx context.Context, sender common.Address, info TransferInfo, hookData []byte) error {
	return nil
}

func (h *NopHook) PreMint(ctx context.Context, connector common.Address, messageID common.Hash, info TransferInfo) (HookDecision, error) {
	return HookDecision{Info: info}, nil
}

func (h *NopHook) PostMint(ctx context.Context, connector common.Address, messageID common.Hash, info TransferInfo, hookData []byte) error {
	return nil
}

func (h *NopHook) PreRetry(ctx context.Context, connector common.Address, messageID common.Hash, pending PendingHookResult) (TransferInfo, []byte, error) {
	return pending.Info, pending.HookData, nil
}

func (h *NopHook) PostRetry(ctx context.Context, connector common.Address, messageID common.Hash, info TransferInfo, hookData []byte) error {
	return nil
}
