// Package auth contains the business logic for registration, credential
// sign-in and session-token validation.
package auth

import (
	"context"
	"errors"

	"github.com/roadsterhq/rental-marketplace/internal/lib/jwt"
	"github.com/roadsterhq/rental-marketplace/internal/lib/password"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

// Service-level sentinel errors.
var (
	// ErrEmailTaken signals a duplicate registration. The existing account
	// is never touched.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials covers unknown user, missing password hash and
	// hash mismatch alike, so sign-in failures are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the storage contract the service needs.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service handles registration, login and token validation.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New creates an auth Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register stores a new CUSTOMER account with a bcrypt-hashed password.
// Name may be empty. A duplicate email maps to ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}

	user := models.User{
		Email:        email,
		PasswordHash: &hashed,
		Role:         models.RoleCustomer,
	}
	if name != "" {
		user.Name = &name
	}

	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return uid, nil
}

// Login verifies the credentials and issues a session token carrying the
// identity. Every failure mode returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if user.PasswordHash == nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(*user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	var name string
	if user.Name != nil {
		name = *user.Name
	}
	token, err = s.jwtMaker.GenerateToken(user.UUID, name, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken parses a session token and returns its claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
