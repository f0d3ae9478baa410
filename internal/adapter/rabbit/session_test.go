package rabbit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

// recordingAck captures how a delivery was settled.
type recordingAck struct {
	outcome string
	requeue bool
	at      time.Time
}

func (a *recordingAck) Ack(uint64, bool) error {
	a.outcome, a.at = "ack", time.Now()
	return nil
}

func (a *recordingAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.outcome, a.requeue, a.at = "nack", requeue, time.Now()
	return nil
}

func (a *recordingAck) Reject(_ uint64, requeue bool) error {
	a.outcome, a.requeue, a.at = "reject", requeue, time.Now()
	return nil
}

func TestSessionBroker_Settle(t *testing.T) {
	const delay = 30 * time.Millisecond
	b := &SessionBroker{exchange: SessionExchange, requeueDelay: delay, l: logger.Nop()}

	tests := []struct {
		name        string
		err         error
		wantOutcome string
		wantRequeue bool
		wantDelay   bool
	}{
		{name: "stored", err: nil, wantOutcome: "ack"},
		{name: "unknown user", err: fmt.Errorf("create: %w", types.ErrUserNotFound), wantOutcome: "reject"},
		{name: "invalid record", err: types.ErrInvalidSession, wantOutcome: "reject"},
		{name: "store down", err: errors.New("connection refused"), wantOutcome: "nack", wantRequeue: true, wantDelay: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &recordingAck{}
			start := time.Now()

			b.settle(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}, tt.err)

			assert.Equal(t, tt.wantOutcome, ack.outcome)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
			if tt.wantDelay {
				assert.GreaterOrEqual(t, ack.at.Sub(start), delay)
			} else {
				assert.Less(t, ack.at.Sub(start), delay)
			}
		})
	}
}

func TestSessionBroker_SettleRequeuesOnShutdown(t *testing.T) {
	b := &SessionBroker{requeueDelay: time.Hour, l: logger.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ack := &recordingAck{}
	b.settle(ctx, amqp.Delivery{Acknowledger: ack}, errors.New("connection refused"))

	assert.Equal(t, "nack", ack.outcome)
	assert.True(t, ack.requeue)
}

func TestRoutingKeysShareEventPrefix(t *testing.T) {
	assert.Equal(t, eventCreated+".u1", createdKey("u1"))
	assert.Equal(t, "session.created.*", createdBindingKey)
	assert.Equal(t, "session.ingest.*", ingestBindingKey)
}
