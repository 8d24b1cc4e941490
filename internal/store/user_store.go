package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserInput is the writable part of a user. Password may be empty on
// update to keep the current one.
type UserInput struct {
	FirstName string     `json:"first_name" validate:"required,min=3,max=50"`
	LastName  string     `json:"last_name" validate:"required,min=3,max=50"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"omitempty,min=8,max=64"`
	Role      model.Role `json:"role" validate:"required,oneof=admin product-manager sales-person"`
}

func (in *UserInput) validate(requirePassword bool) error {
	in.FirstName = normalize(in.FirstName)
	in.LastName = normalize(in.LastName)
	in.Email = normalize(in.Email)
	in.Role = model.Role(normalize(string(in.Role)))

	f := fieldsOf(in)
	f.check(!requirePassword || in.Password != "", "password", "password required")
	return f.err()
}

// UserStore manages the members of a group
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// List returns the group's users, optionally only those holding role
func (s *UserStore) List(ctx context.Context, groupID uuid.UUID, role model.Role) ([]model.User, error) {
	query := s.db.WithContext(ctx).Where("group_id = ?", groupID)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []model.User
	if err := query.Order("created_at").Find(&users).Error; err != nil {
		return nil, translate("list users", "", err)
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, groupID, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", id, groupID).
		First(&user).Error
	if err != nil {
		return nil, translate("get user", "", err)
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, groupID uuid.UUID, in UserInput) (user *model.User, err error) {
	defer observe("user", "create")(&err)

	if err := in.validate(true); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user = &model.User{
		GroupID:   groupID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashed,
		Role:      in.Role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translate("create user", "email", err)
	}
	return user, nil
}

// Update edits a user. The last admin of a group cannot be demoted.
func (s *UserStore) Update(ctx context.Context, groupID, id uuid.UUID, in UserInput) (user *model.User, err error) {
	defer observe("user", "update")(&err)

	if err := in.validate(false); err != nil {
		return nil, err
	}

	var hashed string
	if in.Password != "" {
		if hashed, err = hashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	user = &model.User{}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(user).Error; err != nil {
			return translate("get user", "", err)
		}

		if user.Role == model.RoleAdmin && in.Role != model.RoleAdmin {
			var admins int64
			err := tx.Model(&model.User{}).
				Where("group_id = ? AND role = ?", groupID, model.RoleAdmin).
				Count(&admins).Error
			if err != nil {
				return translate("count admins", "", err)
			}
			if admins <= 1 {
				return &ValidationError{Fields: map[string]string{"role": "the last admin cannot be demoted"}}
			}
		}

		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.Email = in.Email
		user.Role = in.Role
		if hashed != "" {
			user.Password = hashed
		}
		if err := tx.Save(user).Error; err != nil {
			return translate("update user", "email", err)
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("update user", "email", err)
	}
	return user, nil
}

// Delete removes a non-admin user. Admins are rejected with ErrAdminDelete
// and left untouched.
func (s *UserStore) Delete(ctx context.Context, groupID, id uuid.UUID) (err error) {
	defer observe("user", "delete")(&err)

	return passthrough("delete user", "", database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ? AND group_id = ?", id, groupID).First(&user).Error; err != nil {
			return translate("get user", "", err)
		}
		if user.Role == model.RoleAdmin {
			logger.FromContext(ctx).Warn("Refusing to delete admin user",
				zap.String("user_id", user.ID.String()),
				zap.String("group_id", groupID.String()))
			return ErrAdminDelete
		}
		if err := tx.Delete(&user).Error; err != nil {
			return translate("delete user", "", err)
		}
		return nil
	}))
}
