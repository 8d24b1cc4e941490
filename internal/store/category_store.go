package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"gorm.io/gorm"
)

// CategoryInput is the writable part of a category
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
}

func (in *CategoryInput) validate() error {
	in.Name = normalize(in.Name)
	return fieldsOf(in).err()
}

// CategoryStore manages a tenant's product categories
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) List(ctx context.Context, groupID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, translate("list categories", "", err)
	}
	return categories, nil
}

func (s *CategoryStore) Get(ctx context.Context, groupID, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", id, groupID).
		First(&category).Error
	if err != nil {
		return nil, translate("get category", "", err)
	}
	return &category, nil
}

func (s *CategoryStore) Create(ctx context.Context, groupID uuid.UUID, in CategoryInput) (category *model.Category, err error) {
	defer observe("category", "create")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	category = &model.Category{GroupID: groupID, Name: in.Name}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, translate("create category", "name", err)
	}
	return category, nil
}

// Update renames a category and every product of the group filed under
// the old name.
func (s *CategoryStore) Update(ctx context.Context, groupID, id uuid.UUID, in CategoryInput) (category *model.Category, err error) {
	defer observe("category", "update")(&err)

	if err := in.validate(); err != nil {
		return nil, err
	}

	category = &model.Category{}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(category).Error; err != nil {
			return translate("get category", "", err)
		}
		oldName := category.Name
		if oldName == in.Name {
			return nil
		}

		if err := tx.Model(category).Update("name", in.Name).Error; err != nil {
			return translate("update category", "name", err)
		}
		category.Name = in.Name

		err := tx.Model(&model.Product{}).
			Where("group_id = ? AND category = ?", groupID, oldName).
			Update("category", in.Name).Error
		if err != nil {
			return translate("rename product category", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("update category", "name", err)
	}
	return category, nil
}

// Delete removes a category no product of the group still uses
func (s *CategoryStore) Delete(ctx context.Context, groupID, id uuid.UUID) (err error) {
	defer observe("category", "delete")(&err)

	return passthrough("delete category", "", database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(&category).Error; err != nil {
			return translate("get category", "", err)
		}

		var inUse int64
		err := tx.Model(&model.Product{}).
			Where("group_id = ? AND category = ?", groupID, category.Name).
			Count(&inUse).Error
		if err != nil {
			return translate("count category products", "", err)
		}
		if inUse > 0 {
			return &ConflictError{Field: "name", Message: "category is used by products"}
		}

		if err := tx.Delete(&category).Error; err != nil {
			return translate("delete category", "", err)
		}
		return nil
	}))
}
