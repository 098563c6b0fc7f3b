// Package connector carries cross-chain messages over NATS JetStream. It is
// the deployment's stand-in for the message-relay layer: outbound dispatches
// are published for the relay fleet to pick up, and authenticated inbound
// deliveries arrive as JetStream messages.
package connector

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go-bridge/internal/bridge"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NATSConnector implements bridge.Connector by publishing outbound
// dispatches to the relay subject for its sibling chain.
type NATSConnector struct {
	addr    common.Address
	js      nats.JetStreamContext
	subject string
}

// NewNATSConnector creates a connector identified by addr that publishes to
// bridge.<chain>.connector.<addr>.OutboundDispatch.
func NewNATSConnector(addr common.Address, js nats.JetStreamContext, chain string) *NATSConnector {
	return &NATSConnector{
		addr:    addr,
		js:      js,
		subject: fmt.Sprintf("bridge.%s.connector.%s.OutboundDispatch", chain, addr.Hex()),
	}
}

// Address returns the connector's identity.
func (c *NATSConnector) Address() common.Address { return c.addr }

// OutboundDispatch is the relay-facing wire record.
type OutboundDispatch struct {
	MessageID string `json:"message_id"`
	GasLimit  uint64 `json:"gas_limit"`
	Options   string `json:"options"` // hex
	Receiver  string `json:"receiver"`
	Amount    string `json:"amount"`
	ExtraData string `json:"extra_data"` // hex
}

// Dispatch publishes the outbound transfer. The message id is assigned
// here, at the message-layer boundary, never by the endpoint.
func (c *NATSConnector) Dispatch(ctx context.Context, gasLimit uint64, options []byte, info bridge.TransferInfo) (common.Hash, error) {
	messageID := crypto.Keccak256Hash([]byte(c.subject), []byte(uuid.NewString()))

	record := OutboundDispatch{
		MessageID: messageID.Hex(),
		GasLimit:  gasLimit,
		Options:   hex.EncodeToString(options),
		Receiver:  info.Receiver.Hex(),
		Amount:    info.Amount.String(),
		ExtraData: hex.EncodeToString(info.ExtraData),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to marshal outbound dispatch: %w", err)
	}

	if _, err := c.js.Publish(c.subject, data, nats.Context(ctx)); err != nil {
		return common.Hash{}, fmt.Errorf("failed to publish outbound dispatch: %w", err)
	}
	return messageID, nil
}

// InboundDelivery is the relay-facing inbound record: the versioned payload
// produced by the sibling endpoint, plus routing metadata.
type InboundDelivery struct {
	Connector      string `json:"connector"`
	SiblingChainID uint64 `json:"sibling_chain_id"`
	Payload        string `json:"payload"` // hex, versioned wire payload
}

// InboundReceiver is the slice of the endpoint the consumer needs.
type InboundReceiver interface {
	ReceiveInbound(ctx context.Context, siblingChainID uint64, connector common.Address, payload []byte) error
}

// SubscribeInbound consumes inbound deliveries for the chain and feeds them
// to the endpoint. Failed deliveries are NAKed so the at-least-once layer
// redelivers them; duplicate-delivery rejection is the endpoint's job.
func SubscribeInbound(js nats.JetStreamContext, chain string, receiver InboundReceiver) (*nats.Subscription, error) {
	subject := fmt.Sprintf("bridge.%s.connector.*.InboundDelivery", chain)

	sub, err := js.Subscribe(subject, func(msg *nats.Msg) {
		var delivery InboundDelivery
		if err := json.Unmarshal(msg.Data, &delivery); err != nil {
			log.Printf("❌ malformed inbound delivery on %s: %v", msg.Subject, err)
			_ = msg.Term()
			return
		}
		if !common.IsHexAddress(delivery.Connector) {
			log.Printf("❌ inbound delivery with invalid connector %q", delivery.Connector)
			_ = msg.Term()
			return
		}
		payload, err := hex.DecodeString(delivery.Payload)
		if err != nil {
			log.Printf("❌ inbound delivery with undecodable payload: %v", err)
			_ = msg.Term()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err = receiver.ReceiveInbound(ctx, delivery.SiblingChainID, common.HexToAddress(delivery.Connector), payload)
		switch {
		case err == nil:
			_ = msg.Ack()
		case errors.Is(err, bridge.ErrMessageAlreadyProcessed):
			// redelivery of something already settled, drop it
			_ = msg.Ack()
		case errors.Is(err, bridge.ErrUnsupportedPayloadVersion), errors.Is(err, bridge.ErrMalformedInboundPayload):
			log.Printf("❌ undeliverable inbound payload: %v", err)
			_ = msg.Term()
		default:
			log.Printf("⚠️ inbound delivery failed, redelivering: %v", err)
			_ = msg.Nak()
		}
	}, nats.ManualAck(), nats.Durable("bridge-endpoint-inbound"))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	log.Printf("✅ subscribed to inbound deliveries on %s", subject)
	return sub, nil
}
