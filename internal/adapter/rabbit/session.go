package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/metrics"
	"github.com/Temutjin2k/studylens-dashboard/pkg/rabbit"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	SessionExchange = "studylens_topic"

	QueueSessionIngest = "session_ingest"

	eventCreated = "session.created"
	eventIngest  = "session.ingest"

	ingestBindingKey  = eventIngest + ".*"
	createdBindingKey = eventCreated + ".*"

	retryDelay   = 2 * time.Second
	requeueDelay = time.Second
	prefetch     = 10
)

func createdKey(userID string) string { return eventCreated + "." + userID }

// ingestKey keeps the username a single routing-key word.
func ingestKey(username string) string {
	return eventIngest + "." + strings.ReplaceAll(username, ".", "_")
}

type SessionBroker struct {
	client       *rabbit.RabbitMQ
	exchange     string
	requeueDelay time.Duration

	l logger.Logger
}

func NewSessionBroker(client *rabbit.RabbitMQ, log logger.Logger) *SessionBroker {
	return &SessionBroker{
		client:       client,
		exchange:     SessionExchange,
		requeueDelay: requeueDelay,
		l:            log,
	}
}

// PublishSessionCreated sends the event with key 'session.created.{user_id}'.
func (b *SessionBroker) PublishSessionCreated(ctx context.Context, event models.SessionCreatedEvent) error {
	ctx = wrap.WithAction(ctx, types.ActionEventPublished)
	return b.publish(ctx, eventCreated, createdKey(event.UserID.String()), event)
}

// PublishIngest sends a raw telemetry record with key 'session.ingest.{username}'.
func (b *SessionBroker) PublishIngest(ctx context.Context, msg models.IngestMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_ingest")
	return b.publish(ctx, eventIngest, ingestKey(msg.Username), msg)
}

func (b *SessionBroker) publish(ctx context.Context, event, key string, payload any) (err error) {
	defer func() { metrics.RecordRabbitMQPublish(b.exchange, event, err) }()

	if err := b.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(ctx, 3, 200*time.Millisecond, func() error {
		ch, err := b.client.Channel()
		if err != nil {
			return err
		}
		return ch.PublishWithContext(
			ctx,
			b.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				DeliveryMode:  amqp.Persistent,
				CorrelationId: wrap.FromContext(ctx).RequestID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish %s: %w", key, err))
	}

	b.l.Debug(ctx, "message published", "routing_key", key)
	return nil
}

// IngestHandler stores one queued telemetry record.
type IngestHandler func(ctx context.Context, msg *models.IngestMessage) error

// ConsumeIngest reads the durable 'session_ingest' queue until ctx ends.
func (b *SessionBroker) ConsumeIngest(ctx context.Context, handler IngestHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_ingest")

	setup := func(ch *amqp.Channel) (string, error) {
		q, err := ch.QueueDeclare(QueueSessionIngest, true, false, false, false, nil)
		if err != nil {
			return "", fmt.Errorf("declare queue failed: %w", err)
		}
		if err := ch.QueueBind(q.Name, ingestBindingKey, b.exchange, false, nil); err != nil {
			return "", fmt.Errorf("bind queue failed: %w", err)
		}
		return q.Name, nil
	}

	return b.consume(ctx, setup, func(ctx context.Context, d amqp.Delivery) {
		var msg models.IngestMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			b.l.Error(ctx, "failed to decode ingest message", err)
			_ = d.Reject(false)
			metrics.RecordRabbitMQConsume(QueueSessionIngest, err)
			return
		}

		err := handler(ctx, &msg)
		metrics.RecordRabbitMQConsume(QueueSessionIngest, err)
		if err != nil {
			b.l.Error(wrap.ErrorCtx(ctx, err), "failed to ingest session", err, "username", msg.Username)
		}
		b.settle(ctx, d, err)
	})
}

// settle acks a stored record, drops one that can never be stored and
// requeues the rest after requeueDelay. The delay blocks the consumer, which
// throttles redelivery while the store is down.
func (b *SessionBroker) settle(ctx context.Context, d amqp.Delivery, err error) {
	switch {
	case err == nil:
		if err := d.Ack(false); err != nil {
			b.l.Error(ctx, "failed to ack message", err)
		}
	case !isRecoverableError(err):
		_ = d.Reject(false)
	default:
		sleepCtx(ctx, b.requeueDelay)
		_ = d.Nack(false, true)
	}
}

// CreatedHandler relays one stored session to interested listeners.
type CreatedHandler func(ctx context.Context, event models.SessionCreatedEvent)

// ConsumeSessionCreated binds an exclusive per-instance queue to every
// 'session.created.*' event, so each API instance sees all of them.
func (b *SessionBroker) ConsumeSessionCreated(ctx context.Context, handler CreatedHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_session_created")

	setup := func(ch *amqp.Channel) (string, error) {
		q, err := ch.QueueDeclare("", false, true, true, false, nil)
		if err != nil {
			return "", fmt.Errorf("declare queue failed: %w", err)
		}
		if err := ch.QueueBind(q.Name, createdBindingKey, b.exchange, false, nil); err != nil {
			return "", fmt.Errorf("bind queue failed: %w", err)
		}
		return q.Name, nil
	}

	return b.consume(ctx, setup, func(ctx context.Context, d amqp.Delivery) {
		var event models.SessionCreatedEvent
		err := json.Unmarshal(d.Body, &event)
		metrics.RecordRabbitMQConsume("session_created_feed", err)
		if err != nil {
			b.l.Error(ctx, "failed to decode session created event", err)
			_ = d.Reject(false)
			return
		}

		handler(ctx, event)
		_ = d.Ack(false)
	})
}

// consume keeps a subscription alive across reconnects and hands every
// delivery to handle on the consuming goroutine.
func (b *SessionBroker) consume(ctx context.Context, setup func(*amqp.Channel) (string, error), handle func(context.Context, amqp.Delivery)) error {
	for {
		if ctx.Err() != nil {
			b.l.Debug(ctx, "consumer stopped by context")
			return nil
		}

		if err := b.client.EnsureConnection(ctx); err != nil {
			b.l.Error(ctx, "ensure connection failed", err)
			sleepCtx(ctx, retryDelay)
			continue
		}

		msgs, queue, err := b.subscribe(setup)
		if err != nil {
			b.l.Error(ctx, "subscribe failed", err)
			sleepCtx(ctx, retryDelay)
			continue
		}

		b.l.Info(ctx, "start consuming", "queue", queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				b.l.Info(ctx, "consumer shutting down", "queue", queue)
				return nil

			case d, ok := <-msgs:
				if !ok {
					b.l.Warn(ctx, "message channel closed, reconnecting...", "queue", queue)
					sleepCtx(ctx, retryDelay)
					break consumeLoop
				}
				handle(wrap.WithRequestID(ctx, d.CorrelationId), d)
			}
		}
	}
}

func (b *SessionBroker) subscribe(setup func(*amqp.Channel) (string, error)) (<-chan amqp.Delivery, string, error) {
	if err := b.client.DeclareTopic(b.exchange); err != nil {
		return nil, "", fmt.Errorf("declare exchange failed: %w", err)
	}

	ch, err := b.client.Channel()
	if err != nil {
		return nil, "", err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, "", fmt.Errorf("set qos failed: %w", err)
	}

	queue, err := setup(ch)
	if err != nil {
		return nil, "", err
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, "", fmt.Errorf("consume failed: %w", err)
	}
	return msgs, queue, nil
}
