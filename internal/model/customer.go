package model

import "github.com/google/uuid"

// Customer is a buyer known to one group
type Customer struct {
	Base
	GroupID     uuid.UUID        `json:"group_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_customers_group_email"`
	FirstName   string           `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName    string           `json:"last_name" gorm:"type:varchar(50);not null"`
	Email       string           `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_group_email"`
	PhoneNumber string           `json:"phone_number" gorm:"type:varchar(30)"`
	Address     *CustomerAddress `json:"address,omitempty" gorm:"foreignKey:CustomerID"`
}

// CustomerAddress is the shipping address, one per customer
type CustomerAddress struct {
	Base
	CustomerID    uuid.UUID `json:"customer_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	StreetAddress string    `json:"street_address" gorm:"type:varchar(255);not null"`
	City          string    `json:"city" gorm:"type:varchar(100);not null"`
	Province      string    `json:"province" gorm:"type:varchar(100);not null"`
	PostalCode    string    `json:"postal_code" gorm:"type:varchar(20);not null"`
}

func (CustomerAddress) TableName() string {
	return "customer_address"
}
