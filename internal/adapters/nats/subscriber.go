package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/gatherly/api/internal/core/domain"
)

// Subscriber consumes domain events from NATS JetStream. The notifier
// worker uses it to react to cancellations and registrations.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeActivityCancelled delivers cancelled activities to the handler.
func (s *Subscriber) SubscribeActivityCancelled(ctx context.Context, handler func(ctx context.Context, a *domain.Activity) error) error {
	sub, err := s.js.Subscribe(SubjectActivityCancelled, func(msg *nats.Msg) {
		var a domain.Activity
		if err := json.Unmarshal(msg.Data, &a); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &a); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("cancellation-notifier"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeAttendanceRegistered delivers new registrations to the handler.
func (s *Subscriber) SubscribeAttendanceRegistered(ctx context.Context, handler func(ctx context.Context, att *domain.Attendance) error) error {
	sub, err := s.js.Subscribe(SubjectAttendanceRegistered, func(msg *nats.Msg) {
		var att domain.Attendance
		if err := json.Unmarshal(msg.Data, &att); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &att); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("registration-notifier"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
