package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/events"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemInput selects a product by name and the quantity sold
type OrderItemInput struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// OrderInput is what a caller submits to place an order. SubTotal and
// Total are checked against the catalog; the stored values are computed
// server side.
type OrderInput struct {
	CustomerID     uuid.UUID           `json:"customer_id" validate:"required"`
	Items          []OrderItemInput    `json:"items" validate:"required,min=1,dive"`
	SubTotal       decimal.Decimal     `json:"sub_total" validate:"gte=0"`
	DeliveryCharge decimal.Decimal     `json:"delivery_charge" validate:"gte=0"`
	Discount       int                 `json:"discount" validate:"gte=0,lte=100"`
	Total          decimal.Decimal     `json:"total" validate:"gte=0"`
	PaymentMethod  model.PaymentMethod `json:"payment_method" validate:"required,oneof=e-wallet mobile-banking in-person"`
}

func (in *OrderInput) validate() error {
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.PaymentInPerson
	}

	for i := range in.Items {
		in.Items[i].Product = normalize(in.Items[i].Product)
	}
	return fieldsOf(in).err()
}

// PaymentInput edits the payment side of an order
type PaymentInput struct {
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=e-wallet mobile-banking in-person"`
	PaymentID     string              `json:"payment_id" validate:"max=100"`
	Status        model.PaymentStatus `json:"status" validate:"required,oneof=pending paid"`
}

func (in *PaymentInput) validate() error {
	return fieldsOf(in).err()
}

// OrderStore is the order aggregate: orders, their line items and their
// tracking record are written and removed together.
type OrderStore struct {
	db     *gorm.DB
	events events.Publisher
}

func NewOrderStore(db *gorm.DB, publisher events.Publisher) *OrderStore {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &OrderStore{db: db, events: publisher}
}

// Create validates the input against the tenant's customers and catalog,
// then writes the order, one line item per submitted item and the
// initial tracking record in a single transaction.
func (s *OrderStore) Create(ctx context.Context, groupID uuid.UUID, in OrderInput) (order *model.Order, err error) {
	defer observe("order", "create")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var customer model.Customer
		err := tx.Where("id = ? AND group_id = ?", in.CustomerID, groupID).First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Fields: map[string]string{"customer_id": "unknown customer"}}
		}
		if err != nil {
			return translate("get customer", "", err)
		}

		var address model.CustomerAddress
		if err := tx.Where("customer_id = ?", customer.ID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("customer %s has no address: %w", customer.ID, ErrNotFound)
			}
			return translate("get customer address", "", err)
		}

		lineItems, err := s.snapshot(tx, groupID, in.Items)
		if err != nil {
			return err
		}

		subTotal := decimal.Zero
		for _, li := range lineItems {
			subTotal = subTotal.Add(li.LineTotal())
		}

		f := fieldErrors{}
		f.check(subTotal.Equal(in.SubTotal), "sub_total",
			fmt.Sprintf("sub total does not match the selected products (expected %s)", subTotal.StringFixed(2)))
		total := ComputeTotal(subTotal, in.DeliveryCharge, in.Discount)
		f.check(totalMatches(in.Total, total), "total",
			fmt.Sprintf("total does not match sub total, discount and delivery (expected %s)", total.StringFixed(2)))
		if err := f.err(); err != nil {
			return err
		}

		order = &model.Order{
			GroupID:              groupID,
			CustomerID:           customer.ID,
			CustomerAddressID:    address.ID,
			SubTotal:             subTotal,
			DeliveryCharge:       in.DeliveryCharge,
			DiscountInPercentage: in.Discount,
			Total:                total,
			PaymentMethod:        in.PaymentMethod,
			Status:               model.PaymentPending,
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return translate("create order", "", err)
		}

		for i := range lineItems {
			lineItems[i].OrderID = order.ID
		}
		if err := tx.Create(&lineItems).Error; err != nil {
			return translate("create order line items", "", err)
		}

		tracking := &model.OrderTracking{
			GroupID:    groupID,
			OrderID:    order.ID,
			CustomerID: customer.ID,
			Status:     model.TrackingOrderCreated,
		}
		if err := tx.Create(tracking).Error; err != nil {
			return translate("create order tracking", "", err)
		}

		order.LineItems = lineItems
		order.Tracking = tracking
		return nil
	})
	if err != nil {
		return nil, passthrough("create order", "", err)
	}

	logger.FromContext(ctx).Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("group_id", groupID.String()),
		zap.Int("line_items", len(order.LineItems)),
		zap.String("total", order.Total.StringFixed(2)))

	events.Notify(ctx, s.events, events.OrderEvent{
		Type:    events.OrderCreated,
		OrderID: order.ID,
		GroupID: groupID,
		Status:  string(model.TrackingOrderCreated),
	})
	return order, nil
}

// snapshot copies the current name and prices of each selected product
// into a new line item.
func (s *OrderStore) snapshot(tx *gorm.DB, groupID uuid.UUID, items []OrderItemInput) ([]model.OrderLineItem, error) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Product)
	}

	var products []model.Product
	if err := tx.Where("group_id = ? AND name IN ?", groupID, names).Find(&products).Error; err != nil {
		return nil, translate("find products", "", err)
	}
	byName := make(map[string]model.Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}

	f := fieldErrors{}
	lineItems := make([]model.OrderLineItem, 0, len(items))
	for i, item := range items {
		product, ok := byName[item.Product]
		if !ok {
			f.add(fmt.Sprintf("items[%d].product", i), "unknown product")
			continue
		}
		lineItems = append(lineItems, model.OrderLineItem{
			ProductName:   product.Name,
			Quantity:      item.Quantity,
			Price:         product.SellingPrice,
			PurchasePrice: product.PurchasePrice,
		})
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return lineItems, nil
}

// List returns the group's orders, newest first, with customer and tracking
func (s *OrderStore) List(ctx context.Context, groupID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Tracking").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate("list orders", "", err)
	}
	return orders, nil
}

// Get returns one order with everything it owns
func (s *OrderStore) Get(ctx context.Context, groupID, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Address").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_name")
		}).
		Preload("Tracking").
		Where("id = ? AND group_id = ?", id, groupID).
		First(&order).Error
	if err != nil {
		return nil, translate("get order", "", err)
	}
	return &order, nil
}

// UpdatePayment records how and whether the order was paid
func (s *OrderStore) UpdatePayment(ctx context.Context, groupID, id uuid.UUID, in PaymentInput) (order *model.Order, err error) {
	defer observe("order", "update_payment")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND group_id = ?", id, groupID).
		Updates(map[string]interface{}{
			"payment_method": in.PaymentMethod,
			"payment_id":     in.PaymentID,
			"status":         in.Status,
		})
	if result.Error != nil {
		return nil, translate("update order payment", "", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, translate("update order payment", "", gorm.ErrRecordNotFound)
	}

	events.Notify(ctx, s.events, events.OrderEvent{
		Type:    events.OrderPaymentUpdated,
		OrderID: id,
		GroupID: groupID,
		Status:  string(in.Status),
	})
	return s.Get(ctx, groupID, id)
}

// Delete removes the line items, then the tracking record, then the order
func (s *OrderStore) Delete(ctx context.Context, groupID, id uuid.UUID) (err error) {
	defer observe("order", "delete")(&err)

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(&order).Error; err != nil {
			return translate("get order", "", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderLineItem{}).Error; err != nil {
			return translate("delete order line items", "", err)
		}
		if err := tx.Where("order_id = ? AND group_id = ?", order.ID, groupID).Delete(&model.OrderTracking{}).Error; err != nil {
			return translate("delete order tracking", "", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return translate("delete order", "", err)
		}
		return nil
	})
	if err != nil {
		return passthrough("delete order", "", err)
	}

	events.Notify(ctx, s.events, events.OrderEvent{
		Type:    events.OrderDeleted,
		OrderID: id,
		GroupID: groupID,
	})
	return nil
}
