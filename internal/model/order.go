package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settles an order
type PaymentMethod string

const (
	PaymentEWallet       PaymentMethod = "e-wallet"
	PaymentMobileBanking PaymentMethod = "mobile-banking"
	PaymentInPerson      PaymentMethod = "in-person"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentEWallet, PaymentMobileBanking, PaymentInPerson:
		return true
	}
	return false
}

// PaymentStatus tracks whether an order has been paid
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// Order is the aggregate root for a sale. Line items and tracking are
// owned by the order and deleted with it.
type Order struct {
	Base
	GroupID              uuid.UUID       `json:"group_id" gorm:"type:varchar(36);not null;index"`
	CustomerID           uuid.UUID       `json:"customer_id" gorm:"type:varchar(36);not null;index"`
	CustomerAddressID    uuid.UUID       `json:"customer_address_id" gorm:"type:varchar(36);not null"`
	SubTotal             decimal.Decimal `json:"sub_total" gorm:"type:decimal(12,2);not null"`
	DeliveryCharge       decimal.Decimal `json:"delivery_charge" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountInPercentage int             `json:"discount_in_percentage" gorm:"not null;default:0"`
	Total                decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	PaymentMethod        PaymentMethod   `json:"payment_method" gorm:"type:varchar(20);not null"`
	PaymentID            string          `json:"payment_id" gorm:"type:varchar(100)"`
	Status               PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`

	Customer  *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Address   *CustomerAddress `json:"address,omitempty" gorm:"foreignKey:CustomerAddressID"`
	LineItems []OrderLineItem  `json:"line_items,omitempty" gorm:"foreignKey:OrderID"`
	Tracking  *OrderTracking   `json:"tracking,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderLineItem is a product snapshot taken when the order was placed
type OrderLineItem struct {
	Base
	OrderID       uuid.UUID       `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductName   string          `json:"product_name" gorm:"type:varchar(255);not null"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(12,2);not null"`
}

func (OrderLineItem) TableName() string {
	return "order_details"
}

// LineTotal is price times quantity
func (li OrderLineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
