package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/go-shop/internal/model"
)

const idempotencyTTL = 24 * time.Hour

type consumeChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// HandlerFunc processes one order event. A returned error dead-letters the
// message.
type HandlerFunc func(ctx context.Context, event model.OrderEvent) error

// OrderEventWorker consumes order events, skipping ones already handled.
type OrderEventWorker struct {
	channel     consumeChannel
	redisClient *redis.Client
	handle      HandlerFunc
	log         *slog.Logger
	done        chan struct{}
}

// NewOrderEventWorker builds a worker. redisClient may be nil, in which case
// duplicates are not detected.
func NewOrderEventWorker(
	ch *amqp.Channel,
	redisClient *redis.Client,
	handle HandlerFunc,
	log *slog.Logger,
) *OrderEventWorker {
	return newOrderEventWorker(ch, redisClient, handle, log)
}

func newOrderEventWorker(ch consumeChannel, redisClient *redis.Client, handle HandlerFunc, log *slog.Logger) *OrderEventWorker {
	return &OrderEventWorker{
		channel:     ch,
		redisClient: redisClient,
		handle:      handle,
		log:         log,
		done:        make(chan struct{}),
	}
}

// LogHandler writes every event to log.
func LogHandler(log *slog.Logger) HandlerFunc {
	return func(_ context.Context, event model.OrderEvent) error {
		log.Info("order event",
			"type", event.Type,
			"order_id", event.OrderID,
			"user_id", event.UserID,
			"status", string(event.Status),
			"total", event.Total.StringFixed(2),
		)
		return nil
	}
}

func (w *OrderEventWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order event worker started")
	return nil
}

func (w *OrderEventWorker) Stop() { close(w.done) }

func (w *OrderEventWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.EventID, "order_id", event.OrderID)

	idempotencyKey := "order_event:" + event.EventID.String()
	if w.redisClient != nil {
		exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
		if err != nil {
			log.Error("check idempotency key", "error", err)
			_ = msg.Nack(false, true)
			return
		}
		if exists > 0 {
			log.Info("order event already processed, skipping")
			_ = msg.Ack(false)
			return
		}
	}

	if err := w.handle(ctx, event); err != nil {
		log.Error("handle order event", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if w.redisClient != nil {
		if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
			log.Error("set idempotency key", "error", err)
		}
	}

	_ = msg.Ack(false)
}
