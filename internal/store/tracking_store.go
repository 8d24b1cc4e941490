package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/events"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TrackingStore moves orders through fulfillment
type TrackingStore struct {
	db     *gorm.DB
	events events.Publisher
	now    func() time.Time
}

func NewTrackingStore(db *gorm.DB, publisher events.Publisher) *TrackingStore {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &TrackingStore{
		db:     db,
		events: publisher,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the tracking record of an order
func (s *TrackingStore) Get(ctx context.Context, groupID, orderID uuid.UUID) (*model.OrderTracking, error) {
	var tracking model.OrderTracking
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND group_id = ?", orderID, groupID).
		First(&tracking).Error
	if err != nil {
		return nil, translate("get order tracking", "", err)
	}
	return &tracking, nil
}

// Advance moves the order to target when target is the immediate successor
// of the stored status, stamping the matching timestamp. Any other target
// is rejected with model.ErrInvalidTransition and nothing is written.
func (s *TrackingStore) Advance(ctx context.Context, groupID, orderID uuid.UUID, target model.TrackingStatus) (tracking *model.OrderTracking, err error) {
	defer func() { prometheus.RecordTrackingTransition(string(target), err) }()
	defer observe("order_tracking", "advance")(&err)

	tracking = &model.OrderTracking{}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ? AND group_id = ?", orderID, groupID).First(tracking).Error; err != nil {
			return translate("get order tracking", "", err)
		}

		current := tracking.Status
		now := s.now()
		if err := tracking.Advance(target, now); err != nil {
			return err
		}

		// compare-and-set on the status read above
		result := tx.Model(&model.OrderTracking{}).
			Where("id = ? AND status = ?", tracking.ID, current).
			Updates(map[string]interface{}{
				"status":             target,
				target.StampColumn(): now,
			})
		if result.Error != nil {
			return translate("advance order tracking", "", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: status changed from %s concurrently", model.ErrInvalidTransition, current)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Info("Order tracking transition rejected",
			zap.String("order_id", orderID.String()),
			zap.String("target", string(target)),
			zap.Error(err))
		return nil, passthrough("advance order tracking", "", err)
	}

	logger.FromContext(ctx).Info("Order tracking advanced",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(tracking.Status)))

	events.Notify(ctx, s.events, events.OrderEvent{
		Type:    events.OrderTracked,
		OrderID: orderID,
		GroupID: groupID,
		Status:  string(tracking.Status),
	})
	return tracking, nil
}
