package ledger

import (
	"encoding/json"
	"log"
	"math/big"
	"strconv"

	"go-bridge/internal/bridge"
	"go-bridge/internal/models"

	"github.com/ethereum/go-ethereum/common"
)

// SeedState is the persistent state reloaded into the store on startup.
type SeedState struct {
	Bindings   map[common.Address]uint64
	Pending    map[PendingKey]bridge.PendingHookResult
	Processed  []PendingKey
	Checkpoint *models.LedgerCheckpoint
}

// Seed replaces the store contents with reloaded persistent state. Only
// called before the endpoint starts serving calls.
func (s *Store) Seed(state SeedState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.Bindings != nil {
		s.bindings = make(map[common.Address]uint64, len(state.Bindings))
		for c, id := range state.Bindings {
			s.bindings[c] = id
		}
	}
	if state.Pending != nil {
		s.pending = make(map[PendingKey]bridge.PendingHookResult, len(state.Pending))
		for k, p := range state.Pending {
			s.pending[k] = bridge.PendingHookResult{Info: p.Info.Clone(), HookData: append([]byte(nil), p.HookData...)}
		}
	}
	if state.Processed != nil {
		s.processed = make(map[PendingKey]struct{}, len(state.Processed))
		for _, k := range state.Processed {
			s.processed[k] = struct{}{}
		}
	}

	if state.Checkpoint != nil {
		if supply, ok := new(big.Int).SetString(state.Checkpoint.Supply, 10); ok {
			s.supply = supply
		} else {
			log.Printf("⚠️ checkpoint %d has malformed supply %q, keeping zero", state.Checkpoint.ID, state.Checkpoint.Supply)
		}

		var pools map[string]string
		if err := json.Unmarshal([]byte(state.Checkpoint.Pools), &pools); err != nil {
			log.Printf("⚠️ checkpoint %d has malformed pools: %v", state.Checkpoint.ID, err)
			return
		}
		s.locked = make(map[uint64]*big.Int, len(pools))
		for idStr, amountStr := range pools {
			id, err := strconv.ParseUint(idStr, 10, 64)
			if err != nil {
				log.Printf("⚠️ checkpoint %d has malformed pool id %q", state.Checkpoint.ID, idStr)
				continue
			}
			amount, ok := new(big.Int).SetString(amountStr, 10)
			if !ok {
				log.Printf("⚠️ checkpoint %d has malformed pool amount %q", state.Checkpoint.ID, amountStr)
				continue
			}
			s.locked[id] = amount
		}
	}
}
