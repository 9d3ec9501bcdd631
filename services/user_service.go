package services

import (
	"context"
	"errors"

	"github.com/rjoshi/todo-manager/model"
	authutil "github.com/rjoshi/todo-manager/utils/auth"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService persists user records and checks credentials
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user with a salted PBKDF2 password hash.
// Returns ErrDuplicateEmail if the email is already taken; no row is
// created in that case. Email comparison is an exact string match.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	passwordHash, err := authutil.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Verify checks an email/password pair and returns the matching user.
// Unknown email and wrong password both map to ErrInvalidCredentials so
// callers cannot tell which one failed.
func (s *UserService) Verify(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := authutil.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, authutil.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return &user, nil
}

// GetByID loads a user by primary key
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
