package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every table
type Base struct {
	ID        uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random UUID when the caller did not set one
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&Group{},
		&User{},
		&Category{},
		&Product{},
		&Customer{},
		&CustomerAddress{},
		&Order{},
		&OrderLineItem{},
		&OrderTracking{},
	}
}
