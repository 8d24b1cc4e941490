package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus tells whether a product can currently be sold
type ProductStatus string

const (
	ProductInStock    ProductStatus = "in-stock"
	ProductOutOfStock ProductStatus = "out-of-stock"
)

func (s ProductStatus) Valid() bool {
	return s == ProductInStock || s == ProductOutOfStock
}

// Category groups products by name within a tenant
type Category struct {
	Base
	GroupID uuid.UUID `json:"group_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_categories_group_name"`
	Name    string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_group_name"`
}

// Product represents the product master data. Category holds the category
// name, not a foreign key.
type Product struct {
	Base
	GroupID       uuid.UUID       `json:"group_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_products_group_name"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_products_group_name"`
	Description   string          `json:"description" gorm:"type:text"`
	Category      string          `json:"category" gorm:"type:varchar(100);not null;index"`
	Status        ProductStatus   `json:"status" gorm:"type:varchar(20);not null"`
	SKU           string          `json:"sku" gorm:"type:varchar(100)"`
	Stock         int             `json:"stock" gorm:"not null;default:0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(12,2);not null"`
	SellingPrice  decimal.Decimal `json:"selling_price" gorm:"type:decimal(12,2);not null"`
}
