package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition     = errors.New("invalid tracking transition")
	ErrUnknownTrackingStatus = errors.New("unknown tracking status")
)

// TrackingStatus is a fulfillment stage. Stages form a strict sequence.
type TrackingStatus string

const (
	TrackingOrderCreated TrackingStatus = "order_created"
	TrackingProcessing   TrackingStatus = "processing"
	TrackingShipped      TrackingStatus = "shipped"
	TrackingDelivered    TrackingStatus = "delivered"
)

var trackingSequence = [...]TrackingStatus{
	TrackingOrderCreated,
	TrackingProcessing,
	TrackingShipped,
	TrackingDelivered,
}

// ParseTrackingStatus converts s into a known status
func ParseTrackingStatus(s string) (TrackingStatus, error) {
	status := TrackingStatus(s)
	if status.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrackingStatus, s)
	}
	return status, nil
}

// Index is the position of s in the sequence, or -1 when unknown
func (s TrackingStatus) Index() int {
	for i, status := range trackingSequence {
		if status == s {
			return i
		}
	}
	return -1
}

// Next returns the successor of s. ok is false for the last stage.
func (s TrackingStatus) Next() (next TrackingStatus, ok bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(trackingSequence) {
		return "", false
	}
	return trackingSequence[i+1], true
}

// StampColumn is the timestamp column set when entering s
func (s TrackingStatus) StampColumn() string {
	switch s {
	case TrackingProcessing:
		return "processed_at"
	case TrackingShipped:
		return "shipped_at"
	case TrackingDelivered:
		return "delivered_at"
	}
	return ""
}

// CheckTransition accepts target only when it is the immediate successor
// of current.
func CheckTransition(current, target TrackingStatus) error {
	if target.Index() < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTrackingStatus, target)
	}
	if current.Index() < 0 {
		return fmt.Errorf("%w: stored status %q", ErrUnknownTrackingStatus, current)
	}
	if target.Index() != current.Index()+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	return nil
}

// OrderTracking records where an order is in fulfillment
type OrderTracking struct {
	Base
	GroupID     uuid.UUID      `json:"group_id" gorm:"type:varchar(36);not null;index"`
	OrderID     uuid.UUID      `json:"order_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	CustomerID  uuid.UUID      `json:"customer_id" gorm:"type:varchar(36);not null"`
	Status      TrackingStatus `json:"status" gorm:"type:varchar(20);not null"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
}

func (OrderTracking) TableName() string {
	return "order_tracking"
}

// Advance moves t to target and stamps the matching column. t is left
// unchanged when the transition is rejected.
func (t *OrderTracking) Advance(target TrackingStatus, at time.Time) error {
	if err := CheckTransition(t.Status, target); err != nil {
		return err
	}
	t.Status = target
	switch target {
	case TrackingProcessing:
		t.ProcessedAt = &at
	case TrackingShipped:
		t.ShippedAt = &at
	case TrackingDelivered:
		t.DeliveredAt = &at
	}
	return nil
}
