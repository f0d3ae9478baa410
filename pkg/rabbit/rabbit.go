package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

const heartbeat = 10 * time.Second

var ErrClosed = errors.New("rabbitmq client is closed")

type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	isClosed bool
	stopped  bool
	mu       sync.Mutex
	dsn      string

	log logger.Logger
}

// New creates rabbitMQ client
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		dsn: dsn,
		log: log,
	}

	if err := r.connect(ctx); err != nil {
		return nil, err
	}

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to rabbitMQ")
	return r, nil
}

// connect dials and opens a channel. Caller must not hold mu.
func (r *RabbitMQ) connect(ctx context.Context) error {
	conn, err := amqp.DialConfig(r.dsn, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	connClose := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClose := channel.NotifyClose(make(chan *amqp.Error, 1))

	r.mu.Lock()
	r.conn = conn
	r.channel = channel
	r.isClosed = false
	r.mu.Unlock()

	go r.monitorConnection(ctx, connClose, chClose)

	return nil
}

// monitorConnection marks the client closed once either the connection or the channel goes away.
func (r *RabbitMQ) monitorConnection(ctx context.Context, connClose, chClose <-chan *amqp.Error) {
	var closeErr *amqp.Error
	select {
	case closeErr = <-connClose:
	case closeErr = <-chClose:
	}

	r.mu.Lock()
	r.isClosed = true
	r.mu.Unlock()

	ctx = wrap.WithAction(context.WithoutCancel(ctx), types.ActionRabbitConnectionClosed)
	if closeErr != nil {
		r.log.Error(ctx, "RabbitMQ connection closed with error", closeErr)
	} else {
		r.log.Debug(ctx, "RabbitMQ connection closed gracefully")
	}
}

// Channel returns the current channel or ErrClosed.
func (r *RabbitMQ) Channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || r.isClosed || r.channel == nil || r.channel.IsClosed() {
		return nil, ErrClosed
	}
	return r.channel, nil
}

// IsConnectionClosed checks if the connection is closed
func (r *RabbitMQ) IsConnectionClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.channel == nil {
		return true
	}
	return r.isClosed || r.conn.IsClosed() || r.channel.IsClosed()
}

// Close closes rabbit connection. Further reconnects are refused.
func (r *RabbitMQ) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosing)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	r.isClosed = true
	ch, conn := r.channel, r.conn
	r.channel, r.conn = nil, nil
	r.mu.Unlock()

	r.log.Debug(ctx, "closing channel")
	if ch != nil {
		if err := closeWithCtxFunc(ctx, ch.Close); err != nil && !errors.Is(err, amqp.ErrClosed) {
			if ctx.Err() != nil {
				r.log.Debug(ctx, "context cancelled while closing channel")
			} else {
				r.log.Error(ctx, "error closing channel", err)
			}
		}
	}

	r.log.Debug(ctx, "closing RabbitMQ connection")
	if conn != nil {
		if err := closeWithCtxFunc(ctx, conn.Close); err != nil && !errors.Is(err, amqp.ErrClosed) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitConnectionClosed), "rabbitMQ closed")
	return nil
}

// helper to close a resource with context cancellation safely
func closeWithCtxFunc(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reconnect redials with exponential backoff until it succeeds, the context
// ends, or five attempts fail.
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrClosed
	}
	r.mu.Unlock()

	if r.dsn == "" {
		return fmt.Errorf("dsn is empty: can't reconnect")
	}
	if !r.IsConnectionClosed() {
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 2 * time.Second
	eb.MaxInterval = 10 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, 4), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := r.connect(ctx)
		if err != nil {
			r.log.Debug(ctx, "reconnect attempt failed", "attempt", attempt, "error", err.Error())
		}
		return err
	}, policy)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitReconnected), "RabbitMQ reconnected successfully")
	return nil
}

func (r *RabbitMQ) EnsureConnection(ctx context.Context) error {
	if r.IsConnectionClosed() {
		r.log.Warn(ctx, "rabbit connection closed, reconnecting...")
		if err := r.Reconnect(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DeclareTopic makes sure a durable topic exchange exists.
func (r *RabbitMQ) DeclareTopic(name string) error {
	ch, err := r.Channel()
	if err != nil {
		return err
	}
	return ch.ExchangeDeclare(name, "topic", true, false, false, false, nil)
}
