// Package ledger holds the endpoint's accounting state: circulating supply
// of the representative asset, per-pool locked amounts, connector→pool
// bindings and pending retry records. The store is the single source of
// truth within a call; all mutation happens under the endpoint's call lock
// and is rolled back wholesale when a call fails.
package ledger

import (
	"fmt"
	"math/big"
	"sync"

	"go-bridge/internal/bridge"

	"github.com/ethereum/go-ethereum/common"
)

// PendingKey identifies one deferred inbound transfer.
type PendingKey struct {
	Connector common.Address
	MessageID common.Hash
}

// Store is the in-memory ledger. Maps are guarded by an RWMutex so admin
// reads never race value-moving calls; value-moving mutation ordering is
// still serialized by the endpoint's call-scoped lock.
type Store struct {
	mu        sync.RWMutex
	supply    *big.Int
	locked    map[uint64]*big.Int
	bindings  map[common.Address]uint64
	pending   map[PendingKey]bridge.PendingHookResult
	processed map[PendingKey]struct{}
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{
		supply:    new(big.Int),
		locked:    make(map[uint64]*big.Int),
		bindings:  make(map[common.Address]uint64),
		pending:   make(map[PendingKey]bridge.PendingHookResult),
		processed: make(map[PendingKey]struct{}),
	}
}

// Supply returns a copy of the circulating supply (totalMinted).
func (s *Store) Supply() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(big.Int).Set(s.supply)
}

// LockedAmount returns a copy of one pool's locked amount.
func (s *Store) LockedAmount(poolID uint64) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.locked[poolID]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// Pools returns a copy of the per-pool locked amounts.
func (s *Store) Pools() map[uint64]*big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint64]*big.Int, len(s.locked))
	for id, v := range s.locked {
		out[id] = new(big.Int).Set(v)
	}
	return out
}

// BindingFor resolves a connector's pool id; zero means unconfigured.
func (s *Store) BindingFor(connector common.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bindings[connector]
}

// Bindings returns a copy of the connector→pool map.
func (s *Store) Bindings() map[common.Address]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[common.Address]uint64, len(s.bindings))
	for c, id := range s.bindings {
		out[c] = id
	}
	return out
}

// SetBindings replaces the connector→pool map wholesale. The admin rollback
// path uses it so a failed rebinding never touches supply, pool or pending
// state that concurrent value-moving calls may have committed meanwhile.
func (s *Store) SetBindings(bindings map[common.Address]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = make(map[common.Address]uint64, len(bindings))
	for c, id := range bindings {
		s.bindings[c] = id
	}
}

// UpdateConnectorPools bulk-updates the connector→pool map. The batch is
// atomic: any zero pool id rejects the whole batch with ErrInvalidPoolID and
// no entry is applied.
func (s *Store) UpdateConnectorPools(connectors []common.Address, poolIDs []uint64) error {
	if len(connectors) != len(poolIDs) {
		return fmt.Errorf("connector/pool length mismatch: %d vs %d", len(connectors), len(poolIDs))
	}
	for i, id := range poolIDs {
		if id == 0 {
			return fmt.Errorf("%w: entry %d (%s)", bridge.ErrInvalidPoolID, i, connectors[i].Hex())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range connectors {
		s.bindings[c] = poolIDs[i]
	}
	return nil
}

// CreditSupply increases the circulating supply. Zero amounts are no-ops.
func (s *Store) CreditSupply(amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supply.Add(s.supply, amount)
}

// DebitSupply decreases the circulating supply. Underflow is an accounting
// invariant violation and must abort the whole call; the supply is never
// clamped to zero.
func (s *Store) DebitSupply(amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.supply.Cmp(amount) < 0 {
		return fmt.Errorf("%w: supply=%s burn=%s", bridge.ErrSupplyUnderflow, s.supply, amount)
	}
	s.supply.Sub(s.supply, amount)
	return nil
}

// CreditPool increases one pool's locked amount. Zero amounts are no-ops.
func (s *Store) CreditPool(poolID uint64, amount *big.Int) error {
	if poolID == 0 {
		return bridge.ErrInvalidPoolID
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.locked[poolID]
	if !ok {
		v = new(big.Int)
		s.locked[poolID] = v
	}
	v.Add(v, amount)
	return nil
}

// DebitPool decreases one pool's locked amount, failing on underflow.
func (s *Store) DebitPool(poolID uint64, amount *big.Int) error {
	if poolID == 0 {
		return bridge.ErrInvalidPoolID
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.locked[poolID]
	if !ok || v.Cmp(amount) < 0 {
		cur := new(big.Int)
		if ok {
			cur.Set(v)
		}
		return fmt.Errorf("%w: pool=%d locked=%s debit=%s", bridge.ErrPoolUnderflow, poolID, cur, amount)
	}
	v.Sub(v, amount)
	return nil
}

// RecordPending stores a deferred inbound transfer for a later retry.
func (s *Store) RecordPending(connector common.Address, messageID common.Hash, pending bridge.PendingHookResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[PendingKey{Connector: connector, MessageID: messageID}] = pending
}

// PendingFor looks up a deferred transfer by connector and message id.
func (s *Store) PendingFor(connector common.Address, messageID common.Hash) (bridge.PendingHookResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[PendingKey{Connector: connector, MessageID: messageID}]
	return p, ok
}

// ClearPending removes a deferred transfer once its retry completed.
func (s *Store) ClearPending(connector common.Address, messageID common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, PendingKey{Connector: connector, MessageID: messageID})
}

// PendingCount returns the number of outstanding deferred transfers.
func (s *Store) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// MarkProcessed records that an inbound message id was fully handled, so an
// at-least-once message layer redelivering it is rejected instead of
// double-minting.
func (s *Store) MarkProcessed(connector common.Address, messageID common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[PendingKey{Connector: connector, MessageID: messageID}] = struct{}{}
}

// IsProcessed reports whether an inbound message id was already handled.
func (s *Store) IsProcessed(connector common.Address, messageID common.Hash) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[PendingKey{Connector: connector, MessageID: messageID}]
	return ok
}
