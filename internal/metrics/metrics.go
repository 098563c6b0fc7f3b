package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Bridge operation metrics
	// ============================================
	BridgeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_operations_total",
			Help: "Total number of bridge endpoint operations",
		},
		[]string{"operation", "status"},
	)

	BridgeOperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_operation_failures_total",
			Help: "Total number of failed bridge endpoint operations by error type",
		},
		[]string{"operation", "error_type"},
	)

	ReentrancyRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_reentrancy_rejections_total",
		Help: "Total number of calls rejected by the call-scoped execution lock",
	})

	// ============================================
	// Ledger metrics
	// ============================================
	CirculatingSupply = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_circulating_supply",
		Help: "Representative units in circulation (totalMinted)",
	})

	PoolLockedAmount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_pool_locked_amount",
			Help: "Locked amount owed to each liquidity pool",
		},
		[]string{"pool_id"},
	)

	PendingTransfers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_pending_transfers",
		Help: "Deferred inbound transfers awaiting an explicit retry",
	})

	// ============================================
	// Inbound delivery metrics
	// ============================================
	InboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_inbound_messages_total",
			Help: "Total number of inbound deliveries by result",
		},
		[]string{"result"},
	)

	ConnectorDispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_connector_dispatch_duration_seconds",
		Help:    "Outbound connector dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
