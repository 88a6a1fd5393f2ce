package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Hand-off point to the notification persistence and delivery subsystem.
type NotificationSink interface {
	Send(ctx context.Context, n domain.Notification) error
}

// Durable record of notifications, used by sinks before queueing delivery.
type NotificationStore interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
}
