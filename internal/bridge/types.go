package bridge

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferInfo describes one transfer moving through the endpoint pipeline.
// ExtraData carries kind-specific addressing (an encoded unit identifier for
// non-fungible kinds); it is empty for native and fungible transfers.
// Hooks may rewrite Amount and ExtraData before custody/mint actions execute.
type TransferInfo struct {
	Receiver  common.Address `json:"receiver"`
	Amount    *big.Int       `json:"amount"`
	ExtraData []byte         `json:"extra_data"`
}

// Clone returns a deep copy so hook adjustments never alias caller state.
func (t TransferInfo) Clone() TransferInfo {
	out := TransferInfo{Receiver: t.Receiver}
	if t.Amount != nil {
		out.Amount = new(big.Int).Set(t.Amount)
	} else {
		out.Amount = new(big.Int)
	}
	if len(t.ExtraData) > 0 {
		out.ExtraData = append([]byte(nil), t.ExtraData...)
	}
	return out
}

// PendingHookResult is the hook layer's output for a deferred inbound
// transfer: the possibly-adjusted TransferInfo plus opaque data threaded to
// the matching post-hook or to a later retry.
type PendingHookResult struct {
	Info     TransferInfo `json:"info"`
	HookData []byte       `json:"hook_data"`
}

// HookDecision is returned by the pre-mint hook point. Info carries the full
// hook-adjusted transfer (pool accounting covers all of it); Deferred is the
// portion the hook declines to complete now, recorded as a pending transfer
// and resolved later by an explicit retry.
type HookDecision struct {
	Info     TransferInfo
	HookData []byte
	Deferred *big.Int
}

// DeferredAmount returns the deferred portion, treating nil as zero.
func (d HookDecision) DeferredAmount() *big.Int {
	if d.Deferred == nil {
		return new(big.Int)
	}
	return d.Deferred
}
