package endpoint

import (
	"context"
	"fmt"

	"go-bridge/internal/bridge"
	"go-bridge/internal/events"
	"go-bridge/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// UpdateConnectorPools bulk-rebinds connectors to pools. The batch is
// atomic: any zero pool id rejects the whole batch and nothing is applied,
// neither in memory nor in the database. Not a value-moving operation, so
// it does not take the call lock; on a persistence failure only the
// bindings map is rolled back, never the rest of the ledger, which
// concurrent value-moving calls own.
func (e *Endpoint) UpdateConnectorPools(ctx context.Context, connectors []common.Address, poolIDs []uint64) error {
	if !e.pooled {
		return fmt.Errorf("endpoint has no pooled accounting")
	}

	prev := e.store.Bindings()
	if err := e.store.UpdateConnectorPools(connectors, poolIDs); err != nil {
		return err
	}
	if e.repo != nil {
		if err := e.repo.SaveBindings(ctx, connectors, poolIDs); err != nil {
			e.store.SetBindings(prev)
			return fmt.Errorf("failed to persist pool bindings: %w", err)
		}
	}

	for i, c := range connectors {
		e.events.PublishPoolIDUpdated(events.PoolIDUpdated{Connector: c.Hex(), PoolID: poolIDs[i]})
		e.logger.WithFields(logrus.Fields{
			"connector": c.Hex(),
			"pool_id":   poolIDs[i],
		}).Info("🔗 connector pool rebound")
	}
	return nil
}

// UpdateHook replaces the policy hook. In vault mode, approve additionally
// pre-approves the new hook to move the endpoint's held assets.
func (e *Endpoint) UpdateHook(ctx context.Context, hook bridge.Hook, approve bool) error {
	if hook == nil {
		return fmt.Errorf("hook must not be nil")
	}

	if approve && e.mode == ModeVault {
		if err := e.vault.ApproveOperator(ctx, hook.Address()); err != nil {
			return fmt.Errorf("failed to approve hook for held assets: %w", err)
		}
	}

	e.hookMu.Lock()
	e.hook = hook
	e.hookMu.Unlock()

	e.events.PublishHookUpdated(events.HookUpdated{Hook: hook.Address().Hex(), Approved: approve})
	e.logger.WithFields(logrus.Fields{
		"hook":     hook.Address().Hex(),
		"approved": approve,
	}).Info("🪝 hook updated")
	return nil
}

// Status is the endpoint's observable accounting state.
type Status struct {
	Mode         string            `json:"mode"`
	Kind         string            `json:"kind"`
	Pooled       bool              `json:"pooled"`
	Supply       string            `json:"circulating_supply"`
	Pools        map[uint64]string `json:"pools,omitempty"`
	Bindings     map[string]uint64 `json:"bindings,omitempty"`
	PendingCount int               `json:"pending_transfers"`
}

// CurrentStatus snapshots the accounting state for the status API.
func (e *Endpoint) CurrentStatus() Status {
	st := Status{
		Mode:         e.mode.String(),
		Kind:         e.Kind().String(),
		Pooled:       e.pooled,
		Supply:       e.store.Supply().String(),
		PendingCount: e.store.PendingCount(),
	}
	if e.pooled {
		st.Pools = make(map[uint64]string)
		for id, v := range e.store.Pools() {
			st.Pools[id] = v.String()
		}
		st.Bindings = make(map[string]uint64)
		for c, id := range e.store.Bindings() {
			st.Bindings[c.Hex()] = id
		}
	}
	return st
}

// RestoreFromRepository reloads persistent state (pool bindings, pending
// transfers, processed messages, latest ledger checkpoint) into the store
// after a restart. Called once before the endpoint starts serving.
func (e *Endpoint) RestoreFromRepository(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}

	bindings, err := e.repo.LoadBindings(ctx)
	if err != nil {
		return err
	}
	pending, err := e.repo.LoadPending(ctx)
	if err != nil {
		return err
	}
	processed, err := e.repo.LoadProcessed(ctx)
	if err != nil {
		return err
	}
	checkpoint, err := e.repo.LatestCheckpoint(ctx)
	if err != nil {
		return err
	}

	e.store.Seed(ledger.SeedState{
		Bindings:   bindings,
		Pending:    pending,
		Processed:  processed,
		Checkpoint: checkpoint,
	})

	e.logger.WithFields(logrus.Fields{
		"bindings":  len(bindings),
		"pending":   len(pending),
		"processed": len(processed),
	}).Info("✅ ledger state restored from database")
	e.updateLedgerGauges()
	return nil
}

// Checkpoint persists the current supply and pool balances.
func (e *Endpoint) Checkpoint(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}
	return e.repo.SaveCheckpoint(ctx, e.store.Supply(), e.store.Pools())
}
