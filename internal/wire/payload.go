package wire

import (
	"fmt"
	"math/big"

	"go-bridge/internal/bridge"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// PayloadVersion is the canonical inbound payload version. Version 0x01 was
// the generic-extraData variant; 0x02 carries explicit non-fungible unit ids
// so mixed-version deployments fail fast instead of misdecoding.
const PayloadVersion byte = 0x02

// mustType is a helper function to create an abi.Type from a string
func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("invalid type: %s: %v", t, err))
	}
	return typ
}

var payloadArguments = abi.Arguments{
	{Name: "receiver", Type: mustType("address")},
	{Name: "amount", Type: mustType("uint256")},
	{Name: "messageId", Type: mustType("bytes32")},
	{Name: "extraData", Type: mustType("bytes")},
	{Name: "nftSingleId", Type: mustType("uint256")},
	{Name: "nftMultiId", Type: mustType("uint256")},
}

// InboundPayload is the decoded form of one inbound delivery.
type InboundPayload struct {
	Receiver    common.Address
	Amount      *big.Int
	MessageID   common.Hash
	ExtraData   []byte
	NFTSingleID *big.Int
	NFTMultiID  *big.Int
}

// Encode serializes the payload with the canonical version prefix.
func (p InboundPayload) Encode() ([]byte, error) {
	amount := p.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	single := p.NFTSingleID
	if single == nil {
		single = new(big.Int)
	}
	multi := p.NFTMultiID
	if multi == nil {
		multi = new(big.Int)
	}

	body, err := payloadArguments.Pack(
		p.Receiver,
		amount,
		[32]byte(p.MessageID),
		p.ExtraData,
		single,
		multi,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack inbound payload: %w", err)
	}

	out := make([]byte, 0, 1+len(body))
	out = append(out, PayloadVersion)
	out = append(out, body...)
	return out, nil
}

// DecodePayload parses a versioned inbound payload. Unknown versions fail
// with ErrUnsupportedPayloadVersion; undecodable bodies with
// ErrMalformedInboundPayload.
func DecodePayload(raw []byte) (InboundPayload, error) {
	if len(raw) == 0 {
		return InboundPayload{}, fmt.Errorf("%w: empty payload", bridge.ErrMalformedInboundPayload)
	}
	if raw[0] != PayloadVersion {
		return InboundPayload{}, fmt.Errorf("%w: got version 0x%02x, want 0x%02x",
			bridge.ErrUnsupportedPayloadVersion, raw[0], PayloadVersion)
	}

	values, err := payloadArguments.Unpack(raw[1:])
	if err != nil {
		return InboundPayload{}, fmt.Errorf("%w: %v", bridge.ErrMalformedInboundPayload, err)
	}
	if len(values) != len(payloadArguments) {
		return InboundPayload{}, fmt.Errorf("%w: decoded %d fields", bridge.ErrMalformedInboundPayload, len(values))
	}

	p := InboundPayload{
		Receiver:    values[0].(common.Address),
		Amount:      values[1].(*big.Int),
		MessageID:   common.Hash(values[2].([32]byte)),
		ExtraData:   values[3].([]byte),
		NFTSingleID: values[4].(*big.Int),
		NFTMultiID:  values[5].(*big.Int),
	}
	return p, nil
}

// EncodeUnitID encodes a non-fungible unit id as 32-byte extraData.
func EncodeUnitID(id *big.Int) []byte {
	if id == nil {
		id = new(big.Int)
	}
	return common.LeftPadBytes(id.Bytes(), 32)
}

// DecodeUnitID decodes the unit identifier carried in extraData for the
// non-fungible kinds. Empty or undecodable data is a malformed-input error.
func DecodeUnitID(extraData []byte) (*big.Int, error) {
	if len(extraData) != 32 {
		return nil, fmt.Errorf("%w: want 32 bytes, got %d", bridge.ErrMalformedExtraData, len(extraData))
	}
	return new(big.Int).SetBytes(extraData), nil
}
