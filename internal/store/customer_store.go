package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressInput is the shipping address written alongside a customer
type AddressInput struct {
	StreetAddress string `json:"street_address" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	Province      string `json:"province" validate:"required,max=100"`
	PostalCode    string `json:"postal_code" validate:"required,max=20"`
}

// CustomerInput is the writable part of a customer and its address
type CustomerInput struct {
	FirstName   string       `json:"first_name" validate:"required,min=3,max=50"`
	LastName    string       `json:"last_name" validate:"required,min=3,max=50"`
	Email       string       `json:"email" validate:"required,email,max=255"`
	PhoneNumber string       `json:"phone_number" validate:"required,phone"`
	Address     AddressInput `json:"address"`
}

func (in *CustomerInput) validate() error {
	in.FirstName = normalize(in.FirstName)
	in.LastName = normalize(in.LastName)
	in.Email = normalize(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address.StreetAddress = normalize(in.Address.StreetAddress)
	in.Address.City = normalize(in.Address.City)
	in.Address.Province = normalize(in.Address.Province)
	in.Address.PostalCode = strings.TrimSpace(in.Address.PostalCode)
	return fieldsOf(in).err()
}

func (in CustomerInput) apply(c *model.Customer, a *model.CustomerAddress) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.PhoneNumber = in.PhoneNumber
	a.StreetAddress = in.Address.StreetAddress
	a.City = in.Address.City
	a.Province = in.Address.Province
	a.PostalCode = in.Address.PostalCode
}

// CustomerStore manages customers and their addresses. Both rows are
// always written in the same transaction.
type CustomerStore struct {
	db *gorm.DB
}

func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) List(ctx context.Context, groupID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.WithContext(ctx).
		Preload("Address").
		Where("group_id = ?", groupID).
		Order("first_name, last_name").
		Find(&customers).Error
	if err != nil {
		return nil, translate("list customers", "", err)
	}
	return customers, nil
}

func (s *CustomerStore) Get(ctx context.Context, groupID, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.WithContext(ctx).
		Preload("Address").
		Where("id = ? AND group_id = ?", id, groupID).
		First(&customer).Error
	if err != nil {
		return nil, translate("get customer", "", err)
	}
	return &customer, nil
}

func (s *CustomerStore) Create(ctx context.Context, groupID uuid.UUID, in CustomerInput) (customer *model.Customer, err error) {
	defer observe("customer", "create")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	customer = &model.Customer{GroupID: groupID}
	address := &model.CustomerAddress{}
	in.apply(customer, address)

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(customer).Error; err != nil {
			return translate("create customer", "email", err)
		}
		address.CustomerID = customer.ID
		if err := tx.Create(address).Error; err != nil {
			return translate("create customer address", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("create customer", "email", err)
	}

	customer.Address = address
	return customer, nil
}

func (s *CustomerStore) Update(ctx context.Context, groupID, id uuid.UUID, in CustomerInput) (customer *model.Customer, err error) {
	defer observe("customer", "update")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	customer = &model.Customer{}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Preload("Address").Where("id = ? AND group_id = ?", id, groupID).First(customer).Error; err != nil {
			return translate("get customer", "", err)
		}

		address := customer.Address
		if address == nil {
			address = &model.CustomerAddress{CustomerID: customer.ID}
		}
		in.apply(customer, address)

		if err := tx.Omit(clause.Associations).Save(customer).Error; err != nil {
			return translate("update customer", "email", err)
		}
		if err := tx.Save(address).Error; err != nil {
			return translate("update customer address", "", err)
		}
		customer.Address = address
		return nil
	})
	if err != nil {
		return nil, passthrough("update customer", "email", err)
	}
	return customer, nil
}

// Delete removes a customer and its address. Customers with orders are kept.
func (s *CustomerStore) Delete(ctx context.Context, groupID, id uuid.UUID) (err error) {
	defer observe("customer", "delete")(&err)

	return passthrough("delete customer", "", database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var customer model.Customer
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(&customer).Error; err != nil {
			return translate("get customer", "", err)
		}

		var orders int64
		if err := tx.Model(&model.Order{}).Where("customer_id = ? AND group_id = ?", id, groupID).Count(&orders).Error; err != nil {
			return translate("count customer orders", "", err)
		}
		if orders > 0 {
			return &ConflictError{Field: "customer", Message: "customer has orders"}
		}

		if err := tx.Where("customer_id = ?", customer.ID).Delete(&model.CustomerAddress{}).Error; err != nil {
			return translate("delete customer address", "", err)
		}
		if err := tx.Delete(&customer).Error; err != nil {
			return translate("delete customer", "", err)
		}
		return nil
	}))
}
