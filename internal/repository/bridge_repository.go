package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"go-bridge/internal/bridge"
	"go-bridge/internal/ledger"
	"go-bridge/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BridgeRepository defines the data access surface the endpoint uses to
// persist pending transfers, pool bindings, processed messages and ledger
// checkpoints.
type BridgeRepository interface {
	// Pending transfers
	SavePending(ctx context.Context, connector common.Address, messageID common.Hash, pending bridge.PendingHookResult) error
	MarkPendingCompleted(ctx context.Context, connector common.Address, messageID common.Hash) error
	TouchPendingRetry(ctx context.Context, connector common.Address, messageID common.Hash) error
	LoadPending(ctx context.Context) (map[ledger.PendingKey]bridge.PendingHookResult, error)

	// Connector pool bindings (atomic batch)
	SaveBindings(ctx context.Context, connectors []common.Address, poolIDs []uint64) error
	LoadBindings(ctx context.Context) (map[common.Address]uint64, error)

	// Processed messages
	MarkProcessed(ctx context.Context, connector common.Address, messageID common.Hash) error
	LoadProcessed(ctx context.Context) ([]ledger.PendingKey, error)

	// Ledger checkpoints
	SaveCheckpoint(ctx context.Context, supply *big.Int, pools map[uint64]*big.Int) error
	LatestCheckpoint(ctx context.Context) (*models.LedgerCheckpoint, error)
}

// bridgeRepository implements BridgeRepository
type bridgeRepository struct {
	db *gorm.DB
}

// NewBridgeRepository creates a new BridgeRepository instance
func NewBridgeRepository(db *gorm.DB) BridgeRepository {
	return &bridgeRepository{db: db}
}

// SavePending upserts a deferred transfer record.
func (r *bridgeRepository) SavePending(ctx context.Context, connector common.Address, messageID common.Hash, pending bridge.PendingHookResult) error {
	record := models.PendingTransferRecord{
		Connector: connector.Hex(),
		MessageID: messageID.Hex(),
		Receiver:  pending.Info.Receiver.Hex(),
		Amount:    pending.Info.Amount.String(),
		ExtraData: hex.EncodeToString(pending.Info.ExtraData),
		HookData:  hex.EncodeToString(pending.HookData),
		Status:    models.PendingTransferStatusPending,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "connector"}, {Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"receiver", "amount", "extra_data", "hook_data", "status", "updated_at"}),
	}).Create(&record).Error
}

// MarkPendingCompleted flips a pending record to completed.
func (r *bridgeRepository) MarkPendingCompleted(ctx context.Context, connector common.Address, messageID common.Hash) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.PendingTransferRecord{}).
		Where("connector = ? AND message_id = ?", connector.Hex(), messageID.Hex()).
		Updates(map[string]interface{}{
			"status":       models.PendingTransferStatusCompleted,
			"completed_at": &now,
		}).Error
}

// TouchPendingRetry bumps the retry counter on a failed retry attempt.
func (r *bridgeRepository) TouchPendingRetry(ctx context.Context, connector common.Address, messageID common.Hash) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.PendingTransferRecord{}).
		Where("connector = ? AND message_id = ?", connector.Hex(), messageID.Hex()).
		Updates(map[string]interface{}{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"last_retry_at": &now,
		}).Error
}

// LoadPending restores the outstanding deferred transfers.
func (r *bridgeRepository) LoadPending(ctx context.Context) (map[ledger.PendingKey]bridge.PendingHookResult, error) {
	var records []models.PendingTransferRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.PendingTransferStatusPending).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending transfers: %w", err)
	}

	out := make(map[ledger.PendingKey]bridge.PendingHookResult, len(records))
	for _, rec := range records {
		amount, ok := new(big.Int).SetString(rec.Amount, 10)
		if !ok {
			return nil, fmt.Errorf("pending record %d has malformed amount %q", rec.ID, rec.Amount)
		}
		extraData, err := hex.DecodeString(rec.ExtraData)
		if err != nil {
			return nil, fmt.Errorf("pending record %d has malformed extra data: %w", rec.ID, err)
		}
		hookData, err := hex.DecodeString(rec.HookData)
		if err != nil {
			return nil, fmt.Errorf("pending record %d has malformed hook data: %w", rec.ID, err)
		}

		key := ledger.PendingKey{
			Connector: common.HexToAddress(rec.Connector),
			MessageID: common.HexToHash(rec.MessageID),
		}
		out[key] = bridge.PendingHookResult{
			Info: bridge.TransferInfo{
				Receiver:  common.HexToAddress(rec.Receiver),
				Amount:    amount,
				ExtraData: extraData,
			},
			HookData: hookData,
		}
	}
	return out, nil
}

// SaveBindings replaces the bindings for the given connectors in one
// transaction. A zero pool id rejects the whole batch.
func (r *bridgeRepository) SaveBindings(ctx context.Context, connectors []common.Address, poolIDs []uint64) error {
	if len(connectors) != len(poolIDs) {
		return fmt.Errorf("connector/pool length mismatch: %d vs %d", len(connectors), len(poolIDs))
	}
	for i, id := range poolIDs {
		if id == 0 {
			return fmt.Errorf("%w: entry %d (%s)", bridge.ErrInvalidPoolID, i, connectors[i].Hex())
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, c := range connectors {
			record := models.ConnectorPoolBindingRecord{
				Connector: c.Hex(),
				PoolID:    poolIDs[i],
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "connector"}},
				DoUpdates: clause.AssignmentColumns([]string{"pool_id", "updated_at"}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadBindings restores the connector→pool map.
func (r *bridgeRepository) LoadBindings(ctx context.Context) (map[common.Address]uint64, error) {
	var records []models.ConnectorPoolBindingRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load pool bindings: %w", err)
	}
	out := make(map[common.Address]uint64, len(records))
	for _, rec := range records {
		out[common.HexToAddress(rec.Connector)] = rec.PoolID
	}
	return out, nil
}

// MarkProcessed records a fully handled inbound message id.
func (r *bridgeRepository) MarkProcessed(ctx context.Context, connector common.Address, messageID common.Hash) error {
	record := models.ProcessedMessage{
		Connector:   connector.Hex(),
		MessageID:   messageID.Hex(),
		ProcessedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

// LoadProcessed restores the processed-message set.
func (r *bridgeRepository) LoadProcessed(ctx context.Context) ([]ledger.PendingKey, error) {
	var records []models.ProcessedMessage
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load processed messages: %w", err)
	}
	out := make([]ledger.PendingKey, 0, len(records))
	for _, rec := range records {
		out = append(out, ledger.PendingKey{
			Connector: common.HexToAddress(rec.Connector),
			MessageID: common.HexToHash(rec.MessageID),
		})
	}
	return out, nil
}

// SaveCheckpoint writes one ledger snapshot row.
func (r *bridgeRepository) SaveCheckpoint(ctx context.Context, supply *big.Int, pools map[uint64]*big.Int) error {
	encoded := make(map[string]string, len(pools))
	for id, v := range pools {
		encoded[fmt.Sprintf("%d", id)] = v.String()
	}
	poolsJSON, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("failed to encode pools: %w", err)
	}

	record := models.LedgerCheckpoint{
		Supply: supply.String(),
		Pools:  string(poolsJSON),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// LatestCheckpoint returns the most recent ledger snapshot, or nil when the
// endpoint has never checkpointed.
func (r *bridgeRepository) LatestCheckpoint(ctx context.Context) (*models.LedgerCheckpoint, error) {
	var record models.LedgerCheckpoint
	err := r.db.WithContext(ctx).Order("id DESC").First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest checkpoint: %w", err)
	}
	return &record, nil
}
