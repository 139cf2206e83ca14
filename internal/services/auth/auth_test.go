package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/roadsterhq/rental-marketplace/internal/lib/jwt"
	"github.com/roadsterhq/rental-marketplace/internal/lib/password"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		userName   string
		setupMocks func(u *UsersMock)
		wantUID    string
		wantErr    error
	}{
		{
			name:     "success stores customer with hashed password",
			userName: "Alice",
			setupMocks: func(u *UsersMock) {
				u.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "alice@example.com" &&
						user.Role == models.RoleCustomer &&
						user.Name != nil && *user.Name == "Alice" &&
						user.PasswordHash != nil &&
						password.CompareHash(*user.PasswordHash, "secret123") == nil
				})).Return("uid-1", nil).Once()
			},
			wantUID: "uid-1",
		},
		{
			name:     "empty name stays nil",
			userName: "",
			setupMocks: func(u *UsersMock) {
				u.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Name == nil
				})).Return("uid-2", nil).Once()
			},
			wantUID: "uid-2",
		},
		{
			name:     "duplicate email",
			userName: "Alice",
			setupMocks: func(u *UsersMock) {
				u.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", repository.ErrDuplicateEmail).Once()
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			svc := New(users, newMaker())
			tt.setupMocks(users)

			uid, err := svc.Register(context.Background(), tt.userName, "alice@example.com", "secret123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	assert.NoError(t, err)
	name := "Alice"

	storedUser := func() *models.User {
		return &models.User{
			UUID:         "uid-1",
			Name:         &name,
			Email:        "alice@example.com",
			PasswordHash: &hash,
			Role:         models.RoleCustomer,
		}
	}

	t.Run("success issues a parseable token", func(t *testing.T) {
		users := new(UsersMock)
		svc := New(users, newMaker())
		users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(storedUser(), nil).Once()

		token, role, err := svc.Login(context.Background(), "alice@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, role)

		claims, err := svc.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserUID)
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.Equal(t, models.RoleCustomer, claims.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(UsersMock)
		svc := New(users, newMaker())
		users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repository.ErrNotFound).Once()

		_, _, err := svc.Login(context.Background(), "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(UsersMock)
		svc := New(users, newMaker())
		users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(storedUser(), nil).Once()

		_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("account without password", func(t *testing.T) {
		users := new(UsersMock)
		svc := New(users, newMaker())
		u := storedUser()
		u.PasswordHash = nil
		users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(u, nil).Once()

		_, _, err := svc.Login(context.Background(), "alice@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
