// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
	"go.uber.org/zap"
)

// Type names an order lifecycle event
type Type string

const (
	OrderCreated        Type = "order.created"
	OrderTracked        Type = "order.tracked"
	OrderPaymentUpdated Type = "order.payment_updated"
	OrderDeleted        Type = "order.deleted"
)

// OrderEvent is the payload published for every order change
type OrderEvent struct {
	Type       Type      `json:"type"`
	OrderID    uuid.UUID `json:"order_id"`
	GroupID    uuid.UUID `json:"group_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Subject is the bus subject for e under prefix: <prefix>.<group_id>.<type>
func Subject(prefix string, e OrderEvent) string {
	return fmt.Sprintf("%s.%s.%s", prefix, e.GroupID, e.Type)
}

// Publisher delivers order events
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// Noop drops every event. Used when no event bus is configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }

// Notify publishes e and only logs failures; a lost notification never
// fails the write that produced it.
func Notify(ctx context.Context, pub Publisher, e OrderEvent) {
	if pub == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	err := pub.Publish(ctx, e)
	prometheus.RecordEventPublish(string(e.Type), err)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to publish order event",
			zap.String("type", string(e.Type)),
			zap.String("order_id", e.OrderID.String()),
			zap.Error(err))
	}
}

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *Recorder) Publish(_ context.Context, e OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything published so far
func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}
