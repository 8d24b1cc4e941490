package model

import "github.com/google/uuid"

// Role is the fixed set of permissions a user can hold within a group
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProductManager Role = "product-manager"
	RoleSalesPerson    Role = "sales-person"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProductManager, RoleSalesPerson:
		return true
	}
	return false
}

// Group is the tenant: the business account everything else is scoped to
type Group struct {
	Base
	BusinessName string `json:"business_name" gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (Group) TableName() string {
	return "groups"
}

// User is a member of a group
type User struct {
	Base
	GroupID   uuid.UUID `json:"group_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_users_group_email"`
	FirstName string    `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName  string    `json:"last_name" gorm:"type:varchar(50);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_group_email"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;index"`
}
