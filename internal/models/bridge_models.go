package models

import (
	"time"
)

// PendingTransferStatus enumerates the lifecycle of a deferred transfer.
type PendingTransferStatus string

const (
	PendingTransferStatusPending   PendingTransferStatus = "pending"
	PendingTransferStatusCompleted PendingTransferStatus = "completed"
)

// PendingTransferRecord persists a deferred inbound transfer created when a
// policy hook declines to complete a mint immediately (rate limiting). The
// authoritative copy lives in the in-memory ledger; this row lets the
// endpoint restore its pending set after a restart and gives operators an
// audit trail.
type PendingTransferRecord struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Connector string `json:"connector" gorm:"size:42;index:idx_pending_connector_message,unique;not null"`  // connector address
	MessageID string `json:"message_id" gorm:"size:66;index:idx_pending_connector_message,unique;not null"` // bytes32 message id, 0x-prefixed

	// Deferred transfer data (hook output)
	Receiver  string `json:"receiver" gorm:"size:42;not null"`
	Amount    string `json:"amount" gorm:"not null"`      // deferred amount (wei)
	ExtraData string `json:"extra_data" gorm:"type:text"` // hex-encoded kind-specific addressing
	HookData  string `json:"hook_data" gorm:"type:text"`  // hex-encoded opaque hook state

	// Retry tracking
	Status      PendingTransferStatus `json:"status" gorm:"size:20;default:pending;index"`
	RetryCount  int                   `json:"retry_count" gorm:"default:0"`
	LastRetryAt *time.Time            `json:"last_retry_at"`
	CompletedAt *time.Time            `json:"completed_at"`

	// GORM standard fields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for PendingTransferRecord
func (PendingTransferRecord) TableName() string {
	return "pending_transfer_records"
}

// ConnectorPoolBindingRecord persists one connector→pool binding. Several
// connectors may share one pool; pool id zero never appears here.
type ConnectorPoolBindingRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Connector string    `json:"connector" gorm:"size:42;uniqueIndex;not null"`
	PoolID    uint64    `json:"pool_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for ConnectorPoolBindingRecord
func (ConnectorPoolBindingRecord) TableName() string {
	return "connector_pool_bindings"
}

// ProcessedMessage records an inbound message id that was fully handled, so
// redelivery by the at-least-once message layer is rejected after a restart.
type ProcessedMessage struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Connector   string    `json:"connector" gorm:"size:42;index:idx_processed_connector_message,unique;not null"`
	MessageID   string    `json:"message_id" gorm:"size:66;index:idx_processed_connector_message,unique;not null"`
	ProcessedAt time.Time `json:"processed_at"`
}

// TableName specifies the table name for ProcessedMessage
func (ProcessedMessage) TableName() string {
	return "processed_messages"
}

// LedgerCheckpoint is a periodic snapshot of the accounting state: the
// circulating supply plus the per-pool locked amounts (JSON encoded).
type LedgerCheckpoint struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Supply    string    `json:"supply" gorm:"not null"`
	Pools     string    `json:"pools" gorm:"type:text"` // {"poolId": "lockedAmount"}
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for LedgerCheckpoint
func (LedgerCheckpoint) TableName() string {
	return "ledger_checkpoints"
}
