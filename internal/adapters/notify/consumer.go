package notify

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	batchSize    = 50
	batchTimeout = 2 * time.Second
)

// DeliverFunc hands one notification to the email/SMS subsystem.
type DeliverFunc func(ctx context.Context, n domain.Notification) error

// LogDelivery records the hand-off. Actual email/SMS sending happens outside this service.
func LogDelivery(_ context.Context, n domain.Notification) error {
	log.Info().
		Str("id", n.ID).
		Str("user", n.UserID).
		Bool("email", n.SendEmail).
		Bool("sms", n.SendSms).
		Str("title", n.Title).
		Msg("Handing notification to delivery")
	return nil
}

type BatchConsumer struct {
	id      int
	deliver DeliverFunc
}

func NewBatchConsumer(id int, deliver DeliverFunc) *BatchConsumer {
	if deliver == nil {
		deliver = LogDelivery
	}
	return &BatchConsumer{id: id, deliver: deliver}
}

// Consume acks delivered notifications and rejects payloads that cannot be decoded or delivered.
func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	ctx := context.Background()

	for _, delivery := range batch {
		var n domain.Notification
		if err := json.Unmarshal([]byte(delivery.Payload()), &n); err != nil {
			log.Error().Err(err).Int("consumer", c.id).Msg("Failed to decode notification")
			c.reject(delivery)
			continue
		}

		if log.Logger.GetLevel() <= zerolog.DebugLevel {
			log.Debug().Msgf("Consumed notification %# v", pretty.Formatter(n))
		}

		if err := c.deliver(ctx, n); err != nil {
			log.Error().Err(err).Str("id", n.ID).Msg("Failed to deliver notification")
			c.reject(delivery)
			continue
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Str("id", n.ID).Msg("Failed to ack notification")
		}
	}
}

func (c *BatchConsumer) reject(d rmq.Delivery) {
	if err := d.Reject(); err != nil {
		log.Error().Err(err).Int("consumer", c.id).Msg("Failed to reject notification")
	}
}

// StartConsumers opens queueName and attaches n batch consumers to it.
func StartConsumers(conn rmq.Connection, queueName string, n int, deliver DeliverFunc) (rmq.Queue, error) {
	queue, err := conn.OpenQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("start consumers: open queue %q: %w", queueName, err)
	}

	if err := queue.StartConsuming(int64(n*batchSize), time.Second); err != nil {
		return nil, fmt.Errorf("start consumers: %w", err)
	}

	for i := 0; i < n; i++ {
		tag := fmt.Sprintf("%s-%d", queueName, i)
		if _, err := queue.AddBatchConsumer(tag, batchSize, batchTimeout, NewBatchConsumer(i, deliver)); err != nil {
			return nil, fmt.Errorf("start consumers: add consumer %s: %w", tag, err)
		}
		log.Info().Str("consumer", tag).Msg("Started notification consumer")
	}

	return queue, nil
}
