package notify

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

// QueueNotifier persists a notification and publishes it for asynchronous delivery.
type QueueNotifier struct {
	Store ports.NotificationStore
	Queue rmq.Queue
}

func NewQueueNotifier(store ports.NotificationStore, queue rmq.Queue) *QueueNotifier {
	return &QueueNotifier{Store: store, Queue: queue}
}

func (n *QueueNotifier) Send(ctx context.Context, note domain.Notification) (err error) {
	defer obs.Time(ctx, "notify.Send")(&err)

	if n.Store != nil {
		if err := n.Store.SaveNotification(ctx, note); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
	}

	if n.Queue == nil {
		return nil
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("send notification: encode id=%s: %w", note.ID, err)
	}
	if err := n.Queue.PublishBytes(payload); err != nil {
		return fmt.Errorf("send notification: publish id=%s: %w", note.ID, err)
	}

	log.Debug().Str("id", note.ID).Str("user", note.UserID).Msg("Queued notification")
	return nil
}

// LogNotifier only persists and logs. Used when no queue is configured.
type LogNotifier struct {
	Store ports.NotificationStore
}

func (n *LogNotifier) Send(ctx context.Context, note domain.Notification) error {
	if n.Store != nil {
		if err := n.Store.SaveNotification(ctx, note); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
	}

	log.Info().
		Str("id", note.ID).
		Str("user", note.UserID).
		Str("category", note.Category).
		Msg("Notification recorded without delivery queue")
	return nil
}
