package bridge

import "errors"

// common errors
var (
	// configuration errors: fixed administratively, never retried automatically
	ErrInvalidPoolID        = errors.New("pool id is unset or zero for connector")
	ErrUnsupportedAssetKind = errors.New("asset kind not supported by this endpoint")
	ErrUnknownConnector     = errors.New("connector not registered on this endpoint")

	// malformed-input errors: caller-correctable, call aborts with no state change
	ErrMalformedExtraData        = errors.New("extra data is empty or not a decodable unit id")
	ErrUnsupportedPayloadVersion = errors.New("inbound payload version not supported")
	ErrMalformedInboundPayload   = errors.New("inbound payload does not decode")
	ErrMessageAlreadyProcessed   = errors.New("inbound message already processed")

	// invariant-violation errors: fatal, abort the entire call, never clamp
	ErrSupplyUnderflow = errors.New("circulating supply underflow on burn")
	ErrPoolUnderflow   = errors.New("pool locked amount underflow")

	// concurrency errors
	ErrReentrancyDetected = errors.New("reentrant call into bridge endpoint")

	// retry errors
	ErrUnknownOrCompletedMessage = errors.New("no pending transfer for message id")
)
