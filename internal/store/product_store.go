package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput is the writable part of a product
type ProductInput struct {
	Name          string              `json:"name" validate:"required,min=3,max=255"`
	Description   string              `json:"description" validate:"required,min=3"`
	Category      string              `json:"category" validate:"required"`
	Status        model.ProductStatus `json:"status" validate:"required,oneof=in-stock out-of-stock"`
	SKU           string              `json:"sku" validate:"max=100"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	PurchasePrice decimal.Decimal     `json:"purchase_price" validate:"gte=0"`
	SellingPrice  decimal.Decimal     `json:"selling_price" validate:"gte=0"`
}

func (in *ProductInput) validate() error {
	in.Name = normalize(in.Name)
	in.Description = normalize(in.Description)
	in.Category = normalize(in.Category)
	in.Status = model.ProductStatus(normalize(string(in.Status)))
	in.SKU = normalize(in.SKU)
	return fieldsOf(in).err()
}

func (in ProductInput) apply(p *model.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Status = in.Status
	p.SKU = in.SKU
	p.Stock = in.Stock
	p.PurchasePrice = in.PurchasePrice
	p.SellingPrice = in.SellingPrice
}

// ProductStore manages a tenant's catalog
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ProductFilter narrows List. Empty fields match everything.
type ProductFilter struct {
	Category string
	Status   model.ProductStatus
}

func (s *ProductStore) List(ctx context.Context, groupID uuid.UUID, filter ProductFilter) ([]model.Product, error) {
	query := s.db.WithContext(ctx).Where("group_id = ?", groupID)
	if filter.Category != "" {
		query = query.Where("category = ?", normalize(filter.Category))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var products []model.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, translate("list products", "", err)
	}
	return products, nil
}

func (s *ProductStore) Get(ctx context.Context, groupID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", id, groupID).
		First(&product).Error
	if err != nil {
		return nil, translate("get product", "", err)
	}
	return &product, nil
}

func (s *ProductStore) Create(ctx context.Context, groupID uuid.UUID, in ProductInput) (product *model.Product, err error) {
	defer observe("product", "create")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	product = &model.Product{GroupID: groupID}
	in.apply(product)

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := requireCategory(tx, groupID, in.Category); err != nil {
			return err
		}
		if err := tx.Create(product).Error; err != nil {
			return translate("create product", "name", err)
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("create product", "name", err)
	}
	return product, nil
}

func (s *ProductStore) Update(ctx context.Context, groupID, id uuid.UUID, in ProductInput) (product *model.Product, err error) {
	defer observe("product", "update")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	product = &model.Product{}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(product).Error; err != nil {
			return translate("get product", "", err)
		}
		if err := requireCategory(tx, groupID, in.Category); err != nil {
			return err
		}
		in.apply(product)
		if err := tx.Save(product).Error; err != nil {
			return translate("update product", "name", err)
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("update product", "name", err)
	}
	return product, nil
}

func (s *ProductStore) Delete(ctx context.Context, groupID, id uuid.UUID) (err error) {
	defer observe("product", "delete")(&err)

	result := s.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", id, groupID).
		Delete(&model.Product{})
	if result.Error != nil {
		return translate("delete product", "", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete product", "", gorm.ErrRecordNotFound)
	}
	return nil
}

func requireCategory(tx *gorm.DB, groupID uuid.UUID, name string) error {
	var category model.Category
	err := tx.Where("group_id = ? AND name = ?", groupID, name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ValidationError{Fields: map[string]string{"category": "unknown category"}}
	}
	if err != nil {
		return translate("get category", "", err)
	}
	return nil
}
