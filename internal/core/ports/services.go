package ports

import (
	"context"

	"github.com/gatherly/api/internal/core/domain"
)

// CacheService abstracts a byte-oriented cache with TTLs.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher pushes domain events to the message bus.
type EventPublisher interface {
	PublishActivityCreated(ctx context.Context, a *domain.Activity) error
	PublishActivityCancelled(ctx context.Context, a *domain.Activity) error
	PublishAttendanceRegistered(ctx context.Context, att *domain.Attendance) error
}

// NotificationService delivers push notifications to users.
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}
