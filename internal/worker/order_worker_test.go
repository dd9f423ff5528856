package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/go-shop/internal/model"
)

type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked++
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	return f.Nack(0, false, requeue)
}

func (f *fakeAcknowledger) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acked, f.nacked
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []model.OrderEvent
	err    error
}

func (r *recorder) handle(_ context.Context, e model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(t *testing.T) model.OrderEvent {
	t.Helper()
	p := model.NewProduct("3", "Headphones", decimal.NewFromInt(19999), "Audio", nil)
	o := model.NewOrder("order-1", "user2", []model.CartItem{{Product: p, Quantity: 2}}, time.Now())
	return model.NewOrderEvent(model.EventOrderPlaced, o, time.Now())
}

func delivery(t *testing.T, ack amqp.Acknowledger, e model.OrderEvent) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(e)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestProcessMessage_HandlesAndAcks(t *testing.T) {
	rec := &recorder{}
	w := newOrderEventWorker(nil, newRedis(t), rec.handle, testLogger())
	ack := &fakeAcknowledger{}
	event := testEvent(t)

	w.processMessage(context.Background(), delivery(t, ack, event))

	acked, nacked := ack.counts()
	assert.Equal(t, 1, acked)
	assert.Equal(t, 0, nacked)
	require.Equal(t, 1, rec.len())
	assert.Equal(t, event.EventID, rec.events[0].EventID)
	assert.True(t, rec.events[0].Total.Equal(decimal.NewFromInt(39998)))
}

func TestProcessMessage_SkipsDuplicate(t *testing.T) {
	rec := &recorder{}
	w := newOrderEventWorker(nil, newRedis(t), rec.handle, testLogger())
	event := testEvent(t)

	for i := 0; i < 2; i++ {
		ack := &fakeAcknowledger{}
		w.processMessage(context.Background(), delivery(t, ack, event))
		acked, _ := ack.counts()
		assert.Equal(t, 1, acked)
	}

	assert.Equal(t, 1, rec.len())
}

func TestProcessMessage_WithoutRedisHandlesEveryDelivery(t *testing.T) {
	rec := &recorder{}
	w := newOrderEventWorker(nil, nil, rec.handle, testLogger())
	event := testEvent(t)

	w.processMessage(context.Background(), delivery(t, &fakeAcknowledger{}, event))
	w.processMessage(context.Background(), delivery(t, &fakeAcknowledger{}, event))

	assert.Equal(t, 2, rec.len())
}

func TestProcessMessage_InvalidBodyIsDeadLettered(t *testing.T) {
	rec := &recorder{}
	w := newOrderEventWorker(nil, nil, rec.handle, testLogger())
	ack := &fakeAcknowledger{}

	w.processMessage(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	_, nacked := ack.counts()
	assert.Equal(t, 1, nacked)
	assert.False(t, ack.requeue)
	assert.Equal(t, 0, rec.len())
}

func TestProcessMessage_HandlerErrorIsDeadLetteredAndRetryable(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	w := newOrderEventWorker(nil, newRedis(t), rec.handle, testLogger())
	event := testEvent(t)

	ack := &fakeAcknowledger{}
	w.processMessage(context.Background(), delivery(t, ack, event))
	_, nacked := ack.counts()
	assert.Equal(t, 1, nacked)
	assert.False(t, ack.requeue)

	rec.err = nil
	ack = &fakeAcknowledger{}
	w.processMessage(context.Background(), delivery(t, ack, event))
	acked, _ := ack.counts()
	assert.Equal(t, 1, acked)
	assert.Equal(t, 2, rec.len())
}

func TestStart_ConsumesUntilStopped(t *testing.T) {
	rec := &recorder{}
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery)}
	w := newOrderEventWorker(consumer, nil, rec.handle, testLogger())

	require.NoError(t, w.Start(context.Background()))
	ack := &fakeAcknowledger{}
	consumer.deliveries <- delivery(t, ack, testEvent(t))

	assert.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)
	w.Stop()
}

func TestStart_ConsumeError(t *testing.T) {
	consumer := &fakeConsumer{err: amqp.ErrClosed}
	w := newOrderEventWorker(consumer, nil, (&recorder{}).handle, testLogger())

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

type fakePublishChannel struct {
	key string
	msg amqp.Publishing
	err error
}

func (f *fakePublishChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.key = key
	f.msg = msg
	return f.err
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakePublishChannel{}
	p := &Publisher{ch: ch}
	event := testEvent(t)

	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, orderEventsQueue, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, event.EventID.String(), ch.msg.MessageId)

	var got model.OrderEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, event.OrderID, got.OrderID)
	assert.Equal(t, model.OrderStatusNew, got.Status)
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{ch: &fakePublishChannel{err: amqp.ErrClosed}}

	err := p.Publish(context.Background(), testEvent(t))
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
