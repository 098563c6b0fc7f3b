// Package endpoint implements the chain-side bridge endpoint: one outbound
// operation (Bridge), one inbound operation (ReceiveInbound) and one retry
// operation (Retry), orchestrating the transfer adapters, the ledger and
// the external hook and connector collaborators. Every entry point is a
// single atomic unit of work: any failure restores the ledger snapshot
// taken on entry so no partial state change is ever observable.
//
// The rollback covers the ledger only. A token call that already mined
// when a later stage fails is not compensated on-chain, so after such a
// failure operators reconcile ledger totals against the token contract
// before retrying the transfer.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"go-bridge/internal/adapter"
	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/events"
	"go-bridge/internal/ledger"
	"go-bridge/internal/metrics"
	"go-bridge/internal/repository"
	"go-bridge/internal/wire"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Mode selects the lock/mint accounting flavor of the endpoint.
type Mode uint8

const (
	// ModeVault escrows real assets and releases/takes custody.
	ModeVault Mode = iota + 1
	// ModeController manages a synthetic representative asset via mint/burn.
	ModeController
)

// String returns the canonical config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeVault:
		return "vault"
	case ModeController:
		return "controller"
	default:
		return "unknown"
	}
}

// ParseMode parses a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "vault":
		return ModeVault, nil
	case "controller":
		return ModeController, nil
	default:
		return 0, fmt.Errorf("unknown endpoint mode %q (want vault|controller)", s)
	}
}

// Params collects the endpoint's collaborators. Repository and Events are
// optional; everything else is required for the chosen mode.
type Params struct {
	Mode   Mode
	Pooled bool // pooled liability accounting, controller mode only

	Vault      *adapter.VaultAdapter
	Controller *adapter.ControllerAdapter
	Store      *ledger.Store
	Hook       bridge.Hook
	Repository repository.BridgeRepository
	Events     *events.Publisher
	Logger     *logrus.Logger
}

// Endpoint is one chain-side bridge endpoint. All value-moving entry points
// share a call-scoped execution lock: hooks, connectors and token contracts
// run arbitrary code and may try to re-enter before the current call
// returns, and any such nested entry fails immediately with
// ErrReentrancyDetected.
type Endpoint struct {
	mode   Mode
	pooled bool

	vault      *adapter.VaultAdapter
	controller *adapter.ControllerAdapter
	store      *ledger.Store
	repo       repository.BridgeRepository
	events     *events.Publisher
	logger     *logrus.Logger

	hookMu sync.RWMutex
	hook   bridge.Hook

	connMu     sync.RWMutex
	connectors map[common.Address]bridge.Connector

	// callMu is only ever acquired with TryLock; a blocked acquisition is a
	// reentrant call and must fail, never wait.
	callMu sync.Mutex
}

// New validates the parameter set and builds the endpoint.
func New(p Params) (*Endpoint, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("endpoint requires a ledger store")
	}
	if p.Hook == nil {
		return nil, fmt.Errorf("endpoint requires a hook")
	}
	switch p.Mode {
	case ModeVault:
		if p.Vault == nil {
			return nil, fmt.Errorf("vault endpoint requires a vault adapter")
		}
		if p.Pooled {
			return nil, fmt.Errorf("pooled accounting is a controller-mode feature")
		}
	case ModeController:
		if p.Controller == nil {
			return nil, fmt.Errorf("controller endpoint requires a controller adapter")
		}
	default:
		return nil, fmt.Errorf("unknown endpoint mode %d", p.Mode)
	}

	logger := p.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Endpoint{
		mode:       p.Mode,
		pooled:     p.Pooled,
		vault:      p.Vault,
		controller: p.Controller,
		store:      p.Store,
		repo:       p.Repository,
		events:     p.Events,
		logger:     logger,
		hook:       p.Hook,
		connectors: make(map[common.Address]bridge.Connector),
	}, nil
}

// Mode returns the endpoint's accounting mode.
func (e *Endpoint) Mode() Mode { return e.mode }

// Kind returns the configured asset kind.
func (e *Endpoint) Kind() assetkind.Kind {
	if e.mode == ModeVault {
		return e.vault.Kind()
	}
	return e.controller.Kind()
}

// Store exposes the ledger for read-only status queries.
func (e *Endpoint) Store() *ledger.Store { return e.store }

// RegisterConnector makes a connector available for dispatch and inbound
// delivery.
func (e *Endpoint) RegisterConnector(c bridge.Connector) {
	e.connMu.Lock()
	defer e.connMu.Unlock()
	e.connectors[c.Address()] = c
}

func (e *Endpoint) connector(addr common.Address) (bridge.Connector, bool) {
	e.connMu.RLock()
	defer e.connMu.RUnlock()
	c, ok := e.connectors[addr]
	return c, ok
}

func (e *Endpoint) currentHook() bridge.Hook {
	e.hookMu.RLock()
	defer e.hookMu.RUnlock()
	return e.hook
}

// enter acquires the call-scoped execution lock without blocking.
func (e *Endpoint) enter() error {
	if !e.callMu.TryLock() {
		metrics.ReentrancyRejections.Inc()
		return bridge.ErrReentrancyDetected
	}
	return nil
}

// Bridge moves amount from sender to a sibling chain: pre-hook, custody
// taken (vault) or representative burned (controller), ledger update,
// post-hook, then dispatch through the connector. gasLimit and options are
// carried to the connector verbatim.
func (e *Endpoint) Bridge(ctx context.Context, sender, receiver common.Address, amount *big.Int, gasLimit uint64, connector common.Address, extraData, options []byte) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.callMu.Unlock()

	snap := e.store.Snapshot()
	msgID, poolID, info, err := e.bridgeLocked(ctx, sender, receiver, amount, gasLimit, connector, extraData, options)
	if err != nil {
		e.store.Restore(snap)
		e.recordFailure("bridge", err)
		return err
	}

	metrics.BridgeOperationsTotal.WithLabelValues("bridge", "success").Inc()
	e.updateLedgerGauges()
	e.events.PublishTokensBridged(events.TokensBridged{
		Connector: connector.Hex(),
		Sender:    sender.Hex(),
		Receiver:  info.Receiver.Hex(),
		Amount:    info.Amount.String(),
		MessageID: msgID.Hex(),
		PoolID:    poolID,
	})
	e.logger.WithFields(logrus.Fields{
		"connector":  connector.Hex(),
		"receiver":   info.Receiver.Hex(),
		"amount":     info.Amount.String(),
		"message_id": msgID.Hex(),
		"pool_id":    poolID,
	}).Info("🌉 bridged out")
	return nil
}

func (e *Endpoint) bridgeLocked(ctx context.Context, sender, receiver common.Address, amount *big.Int, gasLimit uint64, connector common.Address, extraData, options []byte) (common.Hash, uint64, bridge.TransferInfo, error) {
	var zero common.Hash

	conn, ok := e.connector(connector)
	if !ok {
		return zero, 0, bridge.TransferInfo{}, fmt.Errorf("%w: %s", bridge.ErrUnknownConnector, connector.Hex())
	}

	// pool binding is a precondition, checked before any value moves
	var poolID uint64
	if e.pooled {
		poolID = e.store.BindingFor(connector)
		if poolID == 0 {
			return zero, 0, bridge.TransferInfo{}, fmt.Errorf("%w: connector %s", bridge.ErrInvalidPoolID, connector.Hex())
		}
	}

	info := bridge.TransferInfo{Receiver: receiver, Amount: amount, ExtraData: extraData}.Clone()
	hook := e.currentHook()

	info, hookData, err := hook.PreBridge(ctx, sender, info)
	if err != nil {
		return zero, 0, bridge.TransferInfo{}, fmt.Errorf("pre-bridge hook rejected transfer: %w", err)
	}

	switch e.mode {
	case ModeVault:
		err = e.vault.TakeCustody(ctx, sender, info.Amount, info.ExtraData)
	case ModeController:
		err = e.controller.BurnFrom(ctx, sender, info.Amount, info.ExtraData)
	}
	if err != nil {
		return zero, 0, bridge.TransferInfo{}, err
	}

	if e.pooled {
		if err := e.store.DebitPool(poolID, info.Amount); err != nil {
			return zero, 0, bridge.TransferInfo{}, err
		}
	}

	if err := hook.PostBridge(ctx, sender, info, hookData); err != nil {
		return zero, 0, bridge.TransferInfo{}, fmt.Errorf("post-bridge hook failed: %w", err)
	}

	start := time.Now()
	msgID, err := conn.Dispatch(ctx, gasLimit, options, info)
	metrics.ConnectorDispatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return zero, 0, bridge.TransferInfo{}, fmt.Errorf("connector dispatch failed: %w", err)
	}

	return msgID, poolID, info, nil
}

// ReceiveInbound is the entry point a connector invokes on delivery of an
// authenticated cross-chain message. The honored portion of the transfer is
// credited and minted/released; any portion the pre-mint hook defers is
// recorded for a later explicit Retry.
func (e *Endpoint) ReceiveInbound(ctx context.Context, siblingChainID uint64, connector common.Address, payload []byte) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.callMu.Unlock()

	snap := e.store.Snapshot()
	result, err := e.receiveLocked(ctx, siblingChainID, connector, payload)
	if err != nil {
		e.store.Restore(snap)
		e.recordFailure("receive_inbound", err)
		metrics.InboundMessagesTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.BridgeOperationsTotal.WithLabelValues("receive_inbound", "success").Inc()
	metrics.InboundMessagesTotal.WithLabelValues("processed").Inc()
	e.updateLedgerGauges()

	e.events.PublishTokensMinted(events.TokensMinted{
		Connector: connector.Hex(),
		Receiver:  result.minted.Receiver.Hex(),
		Amount:    result.minted.Amount.String(),
		MessageID: result.messageID.Hex(),
		PoolID:    result.poolID,
	})
	if result.deferred.Sign() > 0 {
		e.events.PublishTransferDeferred(events.TransferDeferred{
			Connector: connector.Hex(),
			Receiver:  result.minted.Receiver.Hex(),
			Deferred:  result.deferred.String(),
			MessageID: result.messageID.Hex(),
		})
	}
	e.logger.WithFields(logrus.Fields{
		"connector":  connector.Hex(),
		"chain":      siblingChainID,
		"receiver":   result.minted.Receiver.Hex(),
		"minted":     result.minted.Amount.String(),
		"deferred":   result.deferred.String(),
		"message_id": result.messageID.Hex(),
	}).Info("📥 inbound transfer settled")
	return nil
}

type inboundResult struct {
	messageID common.Hash
	poolID    uint64
	minted    bridge.TransferInfo
	deferred  *big.Int
}

func (e *Endpoint) receiveLocked(ctx context.Context, siblingChainID uint64, connector common.Address, payload []byte) (inboundResult, error) {
	var out inboundResult

	p, err := wire.DecodePayload(payload)
	if err != nil {
		return out, err
	}
	out.messageID = p.MessageID

	if e.store.IsProcessed(connector, p.MessageID) {
		return out, fmt.Errorf("%w: %s", bridge.ErrMessageAlreadyProcessed, p.MessageID.Hex())
	}

	// pool binding precondition, before hooks or value moves
	if e.pooled {
		out.poolID = e.store.BindingFor(connector)
		if out.poolID == 0 {
			return out, fmt.Errorf("%w: connector %s", bridge.ErrInvalidPoolID, connector.Hex())
		}
	}

	info := bridge.TransferInfo{
		Receiver:  p.Receiver,
		Amount:    p.Amount,
		ExtraData: e.extraDataFor(p),
	}.Clone()

	hook := e.currentHook()
	decision, err := hook.PreMint(ctx, connector, p.MessageID, info)
	if err != nil {
		return out, fmt.Errorf("pre-mint hook rejected transfer: %w", err)
	}

	adjusted := decision.Info.Clone()
	deferred := decision.DeferredAmount()
	if deferred.Sign() < 0 || deferred.Cmp(adjusted.Amount) > 0 {
		return out, fmt.Errorf("hook deferred %s of a %s transfer", deferred, adjusted.Amount)
	}
	honored := new(big.Int).Sub(adjusted.Amount, deferred)

	// pool accounting covers the full adjusted amount; a later retry only
	// completes the mint side
	if e.pooled {
		if err := e.store.CreditPool(out.poolID, adjusted.Amount); err != nil {
			return out, err
		}
	}

	minted := adjusted.Clone()
	minted.Amount = honored
	switch e.mode {
	case ModeVault:
		err = e.vault.ReleaseCustody(ctx, minted.Receiver, minted.Amount, minted.ExtraData)
	case ModeController:
		err = e.controller.MintTo(ctx, minted.Receiver, minted.Amount, minted.ExtraData)
	}
	if err != nil {
		return out, err
	}

	if deferred.Sign() > 0 {
		pendingInfo := adjusted.Clone()
		pendingInfo.Amount = deferred
		pending := bridge.PendingHookResult{Info: pendingInfo, HookData: decision.HookData}
		e.store.RecordPending(connector, p.MessageID, pending)
		if e.repo != nil {
			if err := e.repo.SavePending(ctx, connector, p.MessageID, pending); err != nil {
				return out, fmt.Errorf("failed to persist pending transfer: %w", err)
			}
		}
	}

	if err := hook.PostMint(ctx, connector, p.MessageID, minted, decision.HookData); err != nil {
		return out, fmt.Errorf("post-mint hook failed: %w", err)
	}

	e.store.MarkProcessed(connector, p.MessageID)
	if e.repo != nil {
		if err := e.repo.MarkProcessed(ctx, connector, p.MessageID); err != nil {
			return out, fmt.Errorf("failed to persist processed message: %w", err)
		}
	}

	out.minted = minted
	out.deferred = deferred
	return out, nil
}

// Retry re-presents a previously deferred inbound transfer to the hook
// layer and, on success, completes the mint/release side that the hook had
// deferred. Pool accounting was already applied at the original inbound
// attempt and is not touched again.
func (e *Endpoint) Retry(ctx context.Context, connector common.Address, messageID common.Hash) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.callMu.Unlock()

	snap := e.store.Snapshot()
	info, err := e.retryLocked(ctx, connector, messageID)
	if err != nil {
		e.store.Restore(snap)
		e.recordFailure("retry", err)
		if e.repo != nil && !isUnknownMessage(err) {
			if touchErr := e.repo.TouchPendingRetry(ctx, connector, messageID); touchErr != nil {
				e.logger.WithError(touchErr).Warn("failed to record retry attempt")
			}
		}
		return err
	}

	metrics.BridgeOperationsTotal.WithLabelValues("retry", "success").Inc()
	e.updateLedgerGauges()
	e.events.PublishTokensMinted(events.TokensMinted{
		Connector: connector.Hex(),
		Receiver:  info.Receiver.Hex(),
		Amount:    info.Amount.String(),
		MessageID: messageID.Hex(),
	})
	e.logger.WithFields(logrus.Fields{
		"connector":  connector.Hex(),
		"receiver":   info.Receiver.Hex(),
		"amount":     info.Amount.String(),
		"message_id": messageID.Hex(),
	}).Info("🔄 deferred transfer completed")
	return nil
}

func (e *Endpoint) retryLocked(ctx context.Context, connector common.Address, messageID common.Hash) (bridge.TransferInfo, error) {
	pending, ok := e.store.PendingFor(connector, messageID)
	if !ok {
		return bridge.TransferInfo{}, fmt.Errorf("%w: %s", bridge.ErrUnknownOrCompletedMessage, messageID.Hex())
	}

	hook := e.currentHook()
	info, hookData, err := hook.PreRetry(ctx, connector, messageID, pending)
	if err != nil {
		return bridge.TransferInfo{}, fmt.Errorf("pre-retry hook rejected transfer: %w", err)
	}

	switch e.mode {
	case ModeVault:
		err = e.vault.ReleaseCustody(ctx, info.Receiver, info.Amount, info.ExtraData)
	case ModeController:
		err = e.controller.MintTo(ctx, info.Receiver, info.Amount, info.ExtraData)
	}
	if err != nil {
		return bridge.TransferInfo{}, err
	}

	if err := hook.PostRetry(ctx, connector, messageID, info, hookData); err != nil {
		return bridge.TransferInfo{}, fmt.Errorf("post-retry hook failed: %w", err)
	}

	e.store.ClearPending(connector, messageID)
	if e.repo != nil {
		if err := e.repo.MarkPendingCompleted(ctx, connector, messageID); err != nil {
			return bridge.TransferInfo{}, fmt.Errorf("failed to persist retry completion: %w", err)
		}
	}
	return info, nil
}

func isUnknownMessage(err error) bool {
	return errors.Is(err, bridge.ErrUnknownOrCompletedMessage)
}

func (e *Endpoint) recordFailure(operation string, err error) {
	metrics.BridgeOperationsTotal.WithLabelValues(operation, "failed").Inc()
	metrics.BridgeOperationFailures.WithLabelValues(operation, classify(err)).Inc()
	e.logger.WithError(err).WithField("operation", operation).Warn("❌ bridge operation failed")
}

func (e *Endpoint) updateLedgerGauges() {
	supply, _ := new(big.Float).SetInt(e.store.Supply()).Float64()
	metrics.CirculatingSupply.Set(supply)
	for id, v := range e.store.Pools() {
		locked, _ := new(big.Float).SetInt(v).Float64()
		metrics.PoolLockedAmount.WithLabelValues(strconv.FormatUint(id, 10)).Set(locked)
	}
	metrics.PendingTransfers.Set(float64(e.store.PendingCount()))
}
