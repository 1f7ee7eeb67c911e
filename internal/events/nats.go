package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// NATSBus publishes and consumes events through a JetStream stream
type NATSBus struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
}

// NewNATSBus connects to NATS and makes sure the stream exists
func NewNATSBus(ctx context.Context, url, stream string) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{"events.>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", stream, err)
	}

	return &NATSBus{nc: nc, js: js, stream: stream}, nil
}

// PublishMessageCreated publishes a message.created event
func (b *NATSBus) PublishMessageCreated(ctx context.Context, evt MessageCreated) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	if _, err := b.js.Publish(ctx, SubjectMessageCreated, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", SubjectMessageCreated, err)
	}
	return nil
}

// SubscribeMessageCreated runs handler for every message.created event on a
// durable consumer. Failed deliveries are nak'ed and redelivered.
func (b *NATSBus) SubscribeMessageCreated(ctx context.Context, durable string, handler Handler) (jetstream.ConsumeContext, error) {
	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.stream, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: SubjectMessageCreated,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		evt, err := decodeMessageCreated(msg.Data())
		if err != nil {
			// redelivery would not help a malformed payload
			log.Error().Err(err).Str("subject", msg.Subject()).Msg("Dropping undecodable event")
			_ = msg.Term()
			return
		}

		if err := handler(ctx, evt); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject()).Msg("Event handler failed")
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Info().Str("subject", SubjectMessageCreated).Str("durable", durable).Msg("Subscribed to events")
	return cc, nil
}

// Close closes the NATS connection
func (b *NATSBus) Close() {
	if b.nc != nil {
		b.nc.Close()
	}
}

func decodeMessageCreated(data []byte) (*MessageCreated, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var evt MessageCreated
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &evt, nil
}
