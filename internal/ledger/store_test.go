package ledger

import (
	"math/big"
	"testing"

	"go-bridge/internal/bridge"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplyAccounting(t *testing.T) {
	s := NewStore()

	s.CreditSupply(big.NewInt(1000))
	require.Equal(t, int64(1000), s.Supply().Int64())

	require.NoError(t, s.DebitSupply(big.NewInt(400)))
	require.Equal(t, int64(600), s.Supply().Int64())

	err := s.DebitSupply(big.NewInt(601))
	require.ErrorIs(t, err, bridge.ErrSupplyUnderflow)
	// a failed debit leaves the supply untouched
	require.Equal(t, int64(600), s.Supply().Int64())
}

func TestSupplyZeroAmountsAreNoOps(t *testing.T) {
	s := NewStore()

	s.CreditSupply(nil)
	s.CreditSupply(big.NewInt(0))
	require.NoError(t, s.DebitSupply(nil))
	require.NoError(t, s.DebitSupply(big.NewInt(0)))
	require.Zero(t, s.Supply().Sign())
}

func TestPoolAccounting(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.CreditPool(7, big.NewInt(1000)))
	require.Equal(t, int64(1000), s.LockedAmount(7).Int64())

	require.NoError(t, s.DebitPool(7, big.NewInt(200)))
	require.Equal(t, int64(800), s.LockedAmount(7).Int64())

	err := s.DebitPool(7, big.NewInt(900))
	require.ErrorIs(t, err, bridge.ErrPoolUnderflow)
	require.Equal(t, int64(800), s.LockedAmount(7).Int64())

	// debiting a pool that was never credited underflows too
	err = s.DebitPool(9, big.NewInt(1))
	require.ErrorIs(t, err, bridge.ErrPoolUnderflow)
}

func TestPoolZeroIDRejected(t *testing.T) {
	s := NewStore()

	require.ErrorIs(t, s.CreditPool(0, big.NewInt(1)), bridge.ErrInvalidPoolID)
	require.ErrorIs(t, s.DebitPool(0, big.NewInt(1)), bridge.ErrInvalidPoolID)
}

func TestUpdateConnectorPoolsAtomicBatch(t *testing.T) {
	s := NewStore()
	a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	b := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, s.UpdateConnectorPools([]common.Address{a, b}, []uint64{1, 2}))
	require.Equal(t, uint64(1), s.BindingFor(a))
	require.Equal(t, uint64(2), s.BindingFor(b))

	// one zero entry rejects the whole batch
	err := s.UpdateConnectorPools([]common.Address{a, b}, []uint64{3, 0})
	require.ErrorIs(t, err, bridge.ErrInvalidPoolID)
	require.Equal(t, uint64(1), s.BindingFor(a))
	require.Equal(t, uint64(2), s.BindingFor(b))

	err = s.UpdateConnectorPools([]common.Address{a}, []uint64{1, 2})
	require.Error(t, err)
}

func TestSetBindingsReplacesOnlyBindings(t *testing.T) {
	s := NewStore()
	a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	b := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, s.UpdateConnectorPools([]common.Address{a}, []uint64{1}))
	prev := s.Bindings()

	require.NoError(t, s.UpdateConnectorPools([]common.Address{a, b}, []uint64{3, 4}))
	s.CreditSupply(big.NewInt(100))
	require.NoError(t, s.CreditPool(1, big.NewInt(50)))

	s.SetBindings(prev)
	require.Equal(t, uint64(1), s.BindingFor(a))
	require.Zero(t, s.BindingFor(b))
	// supply and pool state are untouched
	require.Equal(t, int64(100), s.Supply().Int64())
	require.Equal(t, int64(50), s.LockedAmount(1).Int64())

	// the caller's map is copied, not aliased
	prev[b] = 9
	require.Zero(t, s.BindingFor(b))
}

func TestPendingLifecycle(t *testing.T) {
	s := NewStore()
	conn := common.HexToAddress("0x3333333333333333333333333333333333333333")
	msg := common.HexToHash("0xaa")

	_, ok := s.PendingFor(conn, msg)
	require.False(t, ok)

	pending := bridge.PendingHookResult{
		Info:     bridge.TransferInfo{Receiver: conn, Amount: big.NewInt(30)},
		HookData: []byte{0x01},
	}
	s.RecordPending(conn, msg, pending)
	require.Equal(t, 1, s.PendingCount())

	got, ok := s.PendingFor(conn, msg)
	require.True(t, ok)
	assert.Equal(t, int64(30), got.Info.Amount.Int64())
	assert.Equal(t, []byte{0x01}, got.HookData)

	// keyed by (connector, messageId), not message id alone
	_, ok = s.PendingFor(common.HexToAddress("0x04"), msg)
	require.False(t, ok)

	s.ClearPending(conn, msg)
	_, ok = s.PendingFor(conn, msg)
	require.False(t, ok)
	require.Zero(t, s.PendingCount())
}

func TestProcessedMessages(t *testing.T) {
	s := NewStore()
	conn := common.HexToAddress("0x05")
	msg := common.HexToHash("0xbb")

	require.False(t, s.IsProcessed(conn, msg))
	s.MarkProcessed(conn, msg)
	require.True(t, s.IsProcessed(conn, msg))
	require.False(t, s.IsProcessed(common.HexToAddress("0x06"), msg))
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	conn := common.HexToAddress("0x07")
	msg := common.HexToHash("0xcc")

	s.CreditSupply(big.NewInt(500))
	require.NoError(t, s.CreditPool(1, big.NewInt(100)))
	require.NoError(t, s.UpdateConnectorPools([]common.Address{conn}, []uint64{1}))
	s.RecordPending(conn, msg, bridge.PendingHookResult{Info: bridge.TransferInfo{Amount: big.NewInt(5)}})
	s.MarkProcessed(conn, msg)

	snap := s.Snapshot()
	require.True(t, s.Equal(snap))

	// mutate everything, then roll back
	s.CreditSupply(big.NewInt(999))
	require.NoError(t, s.CreditPool(2, big.NewInt(50)))
	s.ClearPending(conn, msg)
	s.MarkProcessed(conn, common.HexToHash("0xdd"))
	require.False(t, s.Equal(snap))

	s.Restore(snap)
	require.True(t, s.Equal(snap))
	require.Equal(t, int64(500), s.Supply().Int64())
	require.Equal(t, int64(100), s.LockedAmount(1).Int64())
	require.Zero(t, s.LockedAmount(2).Sign())
	_, ok := s.PendingFor(conn, msg)
	require.True(t, ok)
	require.False(t, s.IsProcessed(conn, common.HexToHash("0xdd")))
}

func TestSnapshotDoesNotAliasStore(t *testing.T) {
	s := NewStore()
	s.CreditSupply(big.NewInt(10))
	snap := s.Snapshot()

	s.CreditSupply(big.NewInt(90))
	s.Restore(snap)
	require.Equal(t, int64(10), s.Supply().Int64())

	// the snapshot survives a restore and can be restored again
	s.CreditSupply(big.NewInt(5))
	s.Restore(snap)
	require.Equal(t, int64(10), s.Supply().Int64())
}

func TestCopiesAreDetached(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.CreditPool(3, big.NewInt(42)))

	s.Supply().Add(s.Supply(), big.NewInt(1))
	require.Zero(t, s.Supply().Sign())

	pools := s.Pools()
	pools[3].SetInt64(0)
	require.Equal(t, int64(42), s.LockedAmount(3).Int64())
}
