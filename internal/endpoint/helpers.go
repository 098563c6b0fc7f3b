package endpoint

import (
	"errors"

	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/wire"
)

// extraDataFor selects the kind-specific addressing for an inbound payload.
// The canonical payload carries explicit unit ids; for the non-fungible
// kinds those ids become the adapter's extraData, otherwise the opaque
// extraData field is passed through.
func (e *Endpoint) extraDataFor(p wire.InboundPayload) []byte {
	switch e.Kind() {
	case assetkind.NonFungibleSingle:
		return wire.EncodeUnitID(p.NFTSingleID)
	case assetkind.NonFungibleMulti:
		return wire.EncodeUnitID(p.NFTMultiID)
	default:
		return p.ExtraData
	}
}

// classify maps an error to its taxonomy bucket for the failure metric.
func classify(err error) string {
	switch {
	case errors.Is(err, bridge.ErrInvalidPoolID):
		return "invalid_pool_id"
	case errors.Is(err, bridge.ErrUnsupportedAssetKind):
		return "unsupported_asset_kind"
	case errors.Is(err, bridge.ErrUnknownConnector):
		return "unknown_connector"
	case errors.Is(err, bridge.ErrMalformedExtraData):
		return "malformed_extra_data"
	case errors.Is(err, bridge.ErrUnsupportedPayloadVersion):
		return "unsupported_payload_version"
	case errors.Is(err, bridge.ErrMalformedInboundPayload):
		return "malformed_payload"
	case errors.Is(err, bridge.ErrMessageAlreadyProcessed):
		return "duplicate_message"
	case errors.Is(err, bridge.ErrSupplyUnderflow):
		return "supply_underflow"
	case errors.Is(err, bridge.ErrPoolUnderflow):
		return "pool_underflow"
	case errors.Is(err, bridge.ErrReentrancyDetected):
		return "reentrancy"
	case errors.Is(err, bridge.ErrUnknownOrCompletedMessage):
		return "unknown_message"
	default:
		return "other"
	}
}
