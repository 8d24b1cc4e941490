package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/database"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// passwordCost is lowered by tests
var passwordCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w: %w", ErrPersistence, err)
	}
	return string(hashed), nil
}

// SignupInput registers a new business and its first admin
type SignupInput struct {
	BusinessName string `json:"business_name" validate:"required,min=3,max=100"`
	FirstName    string `json:"first_name" validate:"required,min=3,max=50"`
	LastName     string `json:"last_name" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=8,max=64"`
}

func (in *SignupInput) validate() error {
	in.BusinessName = normalize(in.BusinessName)
	in.FirstName = normalize(in.FirstName)
	in.LastName = normalize(in.LastName)
	in.Email = normalize(in.Email)

	return fieldsOf(in).err()
}

// LoginInput identifies a user by business, email and password
type LoginInput struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// AuthStore owns group creation and credential checks
type AuthStore struct {
	db *gorm.DB
}

func NewAuthStore(db *gorm.DB) *AuthStore {
	return &AuthStore{db: db}
}

// Signup creates the group and its admin user in one transaction
func (s *AuthStore) Signup(ctx context.Context, in SignupInput) (group *model.Group, admin *model.User, err error) {
	defer observe("group", "signup")(&err)

	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	group = &model.Group{BusinessName: in.BusinessName}
	admin = &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashed,
		Role:      model.RoleAdmin,
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return translate("create group", "business_name", err)
		}
		admin.GroupID = group.ID
		if err := tx.Create(admin).Error; err != nil {
			return translate("create admin", "email", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, passthrough("signup", "business_name", err)
	}

	logger.FromContext(ctx).Info("Group created",
		zap.String("group_id", group.ID.String()),
		zap.String("business_name", group.BusinessName),
		zap.String("admin_id", admin.ID.String()))
	return group, admin, nil
}

// Authenticate resolves the user behind a set of credentials. Every
// mismatch is reported as ErrBadLogin.
func (s *AuthStore) Authenticate(ctx context.Context, in LoginInput) (user *model.User, err error) {
	defer observe("user", "authenticate")(&err)

	businessName := normalize(in.BusinessName)
	email := normalize(in.Email)
	if businessName == "" || email == "" || in.Password == "" {
		return nil, ErrBadLogin
	}

	db := s.db.WithContext(ctx)

	var group model.Group
	if err := db.Where("business_name = ?", businessName).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadLogin
		}
		return nil, translate("find group", "", err)
	}

	var u model.User
	if err := db.Where("group_id = ? AND email = ?", group.ID, email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadLogin
		}
		return nil, translate("find user", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return nil, ErrBadLogin
	}
	return &u, nil
}

// Group loads a group by id
func (s *AuthStore) Group(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, translate("get group", "", err)
	}
	return &group, nil
}
