package service

import (
	"context" // Request scoped deadlines
	"errors"  // Error matching
	"strings" // Email normalisation

	"opportunity_hub/internal/auth"   // Password hashing
	"opportunity_hub/internal/domain" // Users and errors
	"opportunity_hub/internal/store"  // Persistence

	"github.com/sirupsen/logrus" // Structured logging
)

// TokenIssuer signs bearer tokens for authenticated users
type TokenIssuer interface {
	Issue(userID uint, role domain.Role) (string, error)
}

// RegisterInput is the request body of a registration
type RegisterInput struct {
	Email    string      `json:"email" validate:"required,email"`           // Login email
	Password string      `json:"password" validate:"required,min=8,max=64"` // Plain text, hashed before storage
	Role     domain.Role `json:"role" validate:"required,oneof=student school employer"`
}

// LoginInput is the request body of a login
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountService registers, authenticates and deletes users
type AccountService struct {
	store  store.Store // Persistence
	cache  Cache       // Listing list cache
	tokens TokenIssuer // Token signer
}

// NewAccountService returns an AccountService
func NewAccountService(st store.Store, c Cache, tokens TokenIssuer) *AccountService {
	return &AccountService{store: st, cache: orNoCache(c), tokens: tokens}
}

// Register creates a user and returns a token for it
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email)) // Emails are unique case-insensitively
	if err := domain.Validate(&in); err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", storeFailure("hash password", err)
	}
	user := &domain.User{Email: in.Email, Password: hash, Role: in.Role}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", domain.Invalid("email", "User already exists")
		}
		return "", storeFailure("create user", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,   // New user
		"role":    user.Role, // Account role
	}).Info("User registered")
	return s.tokens.Issue(user.ID, user.Role)
}

// Login checks credentials and returns a token
func (s *AccountService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := domain.Validate(&in); err != nil {
		return "", err
	}
	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.Unauthenticated("Invalid credentials")
		}
		return "", storeFailure("load user", err)
	}
	// Compare provided password with stored hash
	if !auth.CheckPassword(user.Password, in.Password) {
		return "", domain.Unauthenticated("Invalid credentials")
	}
	return s.tokens.Issue(user.ID, user.Role)
}

// Delete removes the user, its profile and everything the profile owns in
// one store transaction
func (s *AccountService) Delete(ctx context.Context, userID uint) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Unauthenticated("Account no longer exists")
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Account deletion failed")
		return storeFailure("delete user", err)
	}
	invalidate(ctx, s.cache, jobsListKey, programsListKey)
	logrus.WithField("user_id", userID).Info("User deleted")
	return nil
}
