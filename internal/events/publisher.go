// Package events publishes the endpoint's observability events over NATS
// JetStream. Events are observability, not correctness: a nil publisher is
// a no-op and publish failures are logged, never propagated into the call.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// subject layout: bridge.<chain>.endpoint.<EventName>
const streamName = "BRIDGE_EVENTS"

// Publisher publishes bridge endpoint events.
type Publisher struct {
	conn  *nats.Conn
	js    nats.JetStreamContext
	chain string
}

// NewPublisher connects to NATS and ensures the event stream exists.
func NewPublisher(url, chain string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("⚠️ NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("✅ NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(streamName); err != nil {
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{"bridge.>"},
			Storage:  nats.FileStorage,
		}); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}
		log.Printf("✅ created JetStream stream %s", streamName)
	}

	return &Publisher{conn: conn, js: js, chain: chain}, nil
}

// JetStream exposes the JetStream context for the connector layer, which
// shares the publisher's connection.
func (p *Publisher) JetStream() nats.JetStreamContext {
	if p == nil {
		return nil
	}
	return p.js
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}

type eventEnvelope struct {
	EventID   string      `json:"event_id"`
	Chain     string      `json:"chain"`
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func (p *Publisher) publish(event string, payload interface{}) {
	if p == nil || p.js == nil {
		return
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		Chain:     p.chain,
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("❌ failed to marshal %s event: %v", event, err)
		return
	}

	subject := fmt.Sprintf("bridge.%s.endpoint.%s", p.chain, event)
	if _, err := p.js.Publish(subject, data); err != nil {
		log.Printf("❌ failed to publish %s: %v", subject, err)
	}
}

// TokensBridged is emitted after a successful outbound bridge.
type TokensBridged struct {
	Connector string `json:"connector"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Amount    string `json:"amount"`
	MessageID string `json:"message_id"`
	PoolID    uint64 `json:"pool_id,omitempty"`
}

// TokensMinted is emitted after a successful inbound mint or custody release.
type TokensMinted struct {
	Connector string `json:"connector"`
	Receiver  string `json:"receiver"`
	Amount    string `json:"amount"`
	MessageID string `json:"message_id"`
	PoolID    uint64 `json:"pool_id,omitempty"`
}

// TransferDeferred is emitted when a hook defers part of an inbound transfer.
type TransferDeferred struct {
	Connector string `json:"connector"`
	Receiver  string `json:"receiver"`
	Deferred  string `json:"deferred"`
	MessageID string `json:"message_id"`
}

// PoolIDUpdated is emitted per entry of an admin rebinding batch.
type PoolIDUpdated struct {
	Connector string `json:"connector"`
	PoolID    uint64 `json:"pool_id"`
}

// HookUpdated is emitted when the policy hook is replaced.
type HookUpdated struct {
	Hook     string `json:"hook"`
	Approved bool   `json:"approved"`
}

// PublishTokensBridged publishes a TokensBridged event.
func (p *Publisher) PublishTokensBridged(e TokensBridged) { p.publish("TokensBridged", e) }

// PublishTokensMinted publishes a TokensMinted event.
func (p *Publisher) PublishTokensMinted(e TokensMinted) { p.publish("TokensMinted", e) }

// PublishTransferDeferred publishes a TransferDeferred event.
func (p *Publisher) PublishTransferDeferred(e TransferDeferred) { p.publish("TransferDeferred", e) }

// PublishPoolIDUpdated publishes a PoolIDUpdated event.
func (p *Publisher) PublishPoolIDUpdated(e PoolIDUpdated) { p.publish("PoolIdUpdated", e) }

// PublishHookUpdated publishes a HookUpdated event.
func (p *Publisher) PublishHookUpdated(e HookUpdated) { p.publish("HookUpdated", e) }
