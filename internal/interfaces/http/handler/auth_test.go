package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/coffeehouse/backend/internal/application/identity"
	"github.com/coffeehouse/backend/internal/domain/identity"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/infrastructure/auth"
	"github.com/coffeehouse/backend/internal/infrastructure/config"
	"github.com/coffeehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type authTestEnv struct {
	router *gin.Engine
	users  *MockUserRepository
	jwt    *auth.JWTService
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: time.Hour,
		Issuer:          "test-issuer",
	})

	users := new(MockUserRepository)
	authService := identityapp.NewAuthService(users, jwtService, zap.NewNop())

	router := gin.New()
	api := router.Group("/api/v1")
	NewAuthHandler(authService, middleware.RequireAuth(jwtService)).RegisterRoutes(api)

	return &authTestEnv{router: router, users: users, jwt: jwtService}
}

func (env *authTestEnv) post(t *testing.T, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("should create an account and return a token", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.users.On("ExistsByEmail", mock.Anything, "lan@example.com").Return(false, nil)
		env.users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		rec := env.post(t, "/api/v1/auth/register", identityapp.RegisterRequest{
			Email:       "Lan@Example.com",
			Password:    "matkhau-bimat",
			DisplayName: "Trần Thị Lan",
		}, "")

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Success bool                     `json:"success"`
			Data    identityapp.AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, "Bearer", resp.Data.TokenType)
		assert.Equal(t, "lan@example.com", resp.Data.User.Email)
		assert.Equal(t, string(identity.RoleCustomer), resp.Data.User.Role)
	})

	t.Run("should reject a taken email with conflict", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.users.On("ExistsByEmail", mock.Anything, "lan@example.com").Return(true, nil)

		rec := env.post(t, "/api/v1/auth/register", identityapp.RegisterRequest{
			Email:    "lan@example.com",
			Password: "matkhau-bimat",
		}, "")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "EMAIL_TAKEN")
		env.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should reject a short password at the binding layer", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.post(t, "/api/v1/auth/register", identityapp.RegisterRequest{
			Email:    "lan@example.com",
			Password: "ngan",
		}, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("should sign in with valid credentials", func(t *testing.T) {
		env := newAuthTestEnv(t)
		user, err := identity.NewUser("lan@example.com", "matkhau-bimat", "Trần Thị Lan")
		require.NoError(t, err)
		env.users.On("FindByEmail", mock.Anything, "lan@example.com").Return(user, nil)
		env.users.On("Save", mock.Anything, user).Return(nil)

		rec := env.post(t, "/api/v1/auth/login", identityapp.LoginRequest{
			Email:    "lan@example.com",
			Password: "matkhau-bimat",
		}, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data identityapp.AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.Token)

		claims, err := env.jwt.ValidateToken(resp.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("should mask an unknown email as invalid credentials", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.users.On("FindByEmail", mock.Anything, "ai-do@example.com").Return(nil, shared.ErrNotFound)

		rec := env.post(t, "/api/v1/auth/login", identityapp.LoginRequest{
			Email:    "ai-do@example.com",
			Password: "matkhau-bimat",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("should mask a wrong password as invalid credentials", func(t *testing.T) {
		env := newAuthTestEnv(t)
		user, err := identity.NewUser("lan@example.com", "matkhau-bimat", "Trần Thị Lan")
		require.NoError(t, err)
		env.users.On("FindByEmail", mock.Anything, "lan@example.com").Return(user, nil)

		rec := env.post(t, "/api/v1/auth/login", identityapp.LoginRequest{
			Email:    "lan@example.com",
			Password: "sai-mat-khau",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("should return the profile behind a valid token", func(t *testing.T) {
		env := newAuthTestEnv(t)
		user, err := identity.NewUser("lan@example.com", "matkhau-bimat", "Trần Thị Lan")
		require.NoError(t, err)
		issued, err := env.jwt.GenerateToken(user)
		require.NoError(t, err)
		env.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+issued.Token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data identityapp.UserResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Trần Thị Lan", resp.Data.DisplayName)
	})

	t.Run("should reject a missing token", func(t *testing.T) {
		env := newAuthTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
