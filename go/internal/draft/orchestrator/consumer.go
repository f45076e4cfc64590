package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

const (
	consumerName           = "draft-orchestrator"
	consumerMaxDeliver     = 5
	consumerAckWait        = 30 * time.Second
	consumerMaxAckPending  = 100
	eventChannelBufferSize = 256
	natsMaxReconnects      = -1
	natsReconnectWait      = 2 * time.Second
)

// Connect dials NATS and binds the orchestrator's durable consumer on the
// draft event stream.
func (o *Orchestrator) Connect(ctx context.Context, natsURL, streamName, subjectPrefix string) error {
	opts := []nats.Option{
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return fmt.Errorf("create JetStream context: %w", err)
	}

	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		nc.Close()
		return fmt.Errorf("get stream: %w", err)
	}

	consumerConfig := jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		Description:   "Draft orchestrator event consumer",
		FilterSubject: fmt.Sprintf("%s.>", subjectPrefix),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    consumerMaxDeliver,
		AckWait:       consumerAckWait,
		MaxAckPending: consumerMaxAckPending,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	}

	consumer, err := stream.Consumer(ctx, consumerName)
	if err != nil {
		consumer, err = stream.CreateConsumer(ctx, consumerConfig)
		if err != nil {
			nc.Close()
			return fmt.Errorf("create consumer: %w", err)
		}
		log.Info().Msg("created JetStream consumer for orchestrator")
	}

	o.nc = nc
	o.js = js
	o.consumer = consumer
	return nil
}

// RunConsumer pulls domain events off JetStream and routes them until the
// context ends.
func (o *Orchestrator) RunConsumer(ctx context.Context) error {
	if o.consumer == nil {
		return fmt.Errorf("orchestrator not connected to JetStream")
	}

	eventCh := make(chan jetstream.Msg, eventChannelBufferSize)
	consumeCtx, err := o.consumer.Consume(func(msg jetstream.Msg) {
		select {
		case eventCh <- msg:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("start JetStream consumer: %w", err)
	}
	defer consumeCtx.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("instance", o.instanceID).Msg("consumer shutdown requested")
			return nil
		case msg := <-eventCh:
			if err := o.processEvent(ctx, msg); err != nil {
				log.Error().Err(err).Str("subject", msg.Subject()).Msg("failed to process event")
				msg.Nak()
			} else {
				msg.Ack()
			}
		}
	}
}

func (o *Orchestrator) processEvent(ctx context.Context, msg jetstream.Msg) error {
	var event DomainEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	draftID, err := uuid.Parse(event.DraftID)
	if err != nil {
		return fmt.Errorf("parse draft ID: %w", err)
	}

	return o.HandleDomainEvent(ctx, event.EventType, draftID, event.Payload)
}

// Close drops the NATS connection.
func (o *Orchestrator) Close() error {
	if o.nc != nil {
		o.nc.Close()
	}
	return nil
}
