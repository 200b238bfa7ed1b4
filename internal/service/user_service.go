// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"pulse/internal/models"
	"pulse/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration, authentication and profile management.
type UserService struct {
	db        *gorm.DB
	jwtSecret string
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, jwtSecret string) *UserService {
	return &UserService{db: db, jwtSecret: jwtSecret}
}

// Register creates a user together with an empty profile. The profile is
// created in the same transaction so every user observable by the rest of
// the system has one.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if in.Email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError("Failed to hash password", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		if _, err := userRepo.GetByUsername(ctx, in.Username); err == nil {
			return models.NewConflictError("Username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := userRepo.GetByEmail(ctx, in.Email); err == nil {
			return models.NewConflictError("Email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		return s.OnUserCreated(ctx, tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// OnUserCreated provisions the per-user rows that must exist from the first
// moment the account is visible. Runs inside the registration transaction.
func (s *UserService) OnUserCreated(ctx context.Context, tx *gorm.DB, userID uint) error {
	return repository.NewUserRepository(tx).CreateProfile(ctx, &models.Profile{UserID: userID})
}

// Login verifies credentials and issues a signed JWT.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	userRepo := repository.NewUserRepository(s.db)
	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, models.NewInternalError("Failed to sign token", err)
	}

	return signed, user, nil
}

// GetUser returns the user with profile preloaded.
func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername returns the user with profile preloaded.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	UserID uint
	Bio    *string
	Avatar *string
}

// UpdateProfile applies the provided fields to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	userRepo := repository.NewUserRepository(s.db)
	profile, err := userRepo.GetProfile(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile not found")
		}
		return nil, err
	}

	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		profile.Bio = *in.Bio
	}
	if in.Avatar != nil {
		profile.Avatar = *in.Avatar
	}

	if err := userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SearchUsers finds users by username substring.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return repository.NewUserRepository(s.db).Search(ctx, query, limit, offset)
}
