package ledger

import (
	"math/big"

	"go-bridge/internal/bridge"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is a deep copy of the store taken on entry to a value-moving
// call. A call that fails at any stage restores its snapshot so no partial
// ledger mutation is ever observable.
type Snapshot struct {
	supply    *big.Int
	locked    map[uint64]*big.Int
	bindings  map[common.Address]uint64
	pending   map[PendingKey]bridge.PendingHookResult
	processed map[PendingKey]struct{}
}

// Snapshot captures the full ledger state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		supply:    new(big.Int).Set(s.supply),
		locked:    make(map[uint64]*big.Int, len(s.locked)),
		bindings:  make(map[common.Address]uint64, len(s.bindings)),
		pending:   make(map[PendingKey]bridge.PendingHookResult, len(s.pending)),
		processed: make(map[PendingKey]struct{}, len(s.processed)),
	}
	for id, v := range s.locked {
		snap.locked[id] = new(big.Int).Set(v)
	}
	for c, id := range s.bindings {
		snap.bindings[c] = id
	}
	for k, p := range s.pending {
		snap.pending[k] = bridge.PendingHookResult{Info: p.Info.Clone(), HookData: append([]byte(nil), p.HookData...)}
	}
	for k := range s.processed {
		snap.processed[k] = struct{}{}
	}
	return snap
}

// Restore replaces the ledger state with a snapshot. The snapshot stays
// valid afterwards; restoring copies, it does not alias.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supply = new(big.Int).Set(snap.supply)
	s.locked = make(map[uint64]*big.Int, len(snap.locked))
	for id, v := range snap.locked {
		s.locked[id] = new(big.Int).Set(v)
	}
	s.bindings = make(map[common.Address]uint64, len(snap.bindings))
	for c, id := range snap.bindings {
		s.bindings[c] = id
	}
	s.pending = make(map[PendingKey]bridge.PendingHookResult, len(snap.pending))
	for k, p := range snap.pending {
		s.pending[k] = bridge.PendingHookResult{Info: p.Info.Clone(), HookData: append([]byte(nil), p.HookData...)}
	}
	s.processed = make(map[PendingKey]struct{}, len(snap.processed))
	for k := range snap.processed {
		s.processed[k] = struct{}{}
	}
}

// Equal reports whether the current state matches a snapshot. Used by tests
// asserting failed-call atomicity.
func (s *Store) Equal(snap Snapshot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.supply.Cmp(snap.supply) != 0 {
		return false
	}
	if len(s.bindings) != len(snap.bindings) || len(s.pending) != len(snap.pending) || len(s.processed) != len(snap.processed) {
		return false
	}
	for id, v := range snap.locked {
		cur, ok := s.locked[id]
		if !ok {
			if v.Sign() != 0 {
				return false
			}
			continue
		}
		if cur.Cmp(v) != 0 {
			return false
		}
	}
	for id, v := range s.locked {
		if _, ok := snap.locked[id]; !ok && v.Sign() != 0 {
			return false
		}
	}
	for c, id := range snap.bindings {
		if s.bindings[c] != id {
			return false
		}
	}
	for k := range snap.pending {
		if _, ok := s.pending[k]; !ok {
			return false
		}
	}
	for k := range snap.processed {
		if _, ok := s.processed[k]; !ok {
			return false
		}
	}
	return true
}
