package service

import (
	"context"
	"testing"
	"time"

	"kasirkita/internal/auth"
	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newAuthTestService(userRepo *MockUserRepository) AuthService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(userRepo, tokens, zerolog.Nop())
}

func TestAuthService_Register_ForcesCustomerRole(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "budi").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	// A self-registration asking for admin still becomes a customer.
	resp, err := service.Register(ctx, &model.RegisterRequest{
		Username: "budi",
		Password: "secret123",
		Role:     model.RoleAdmin,
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, model.RoleCustomer, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "budi").Return(&model.User{ID: uuid.New(), Username: "budi"}, nil)

	resp, err := service.Register(ctx, &model.RegisterRequest{Username: "budi", Password: "secret123"})

	require.Error(t, err)
	assert.Equal(t, model.ErrUsernameTaken, err)
	assert.Nil(t, resp)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()

	email := "budi@example.com"

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "budi").Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, email).Return(&model.User{ID: uuid.New()}, nil)

	resp, err := service.Register(ctx, &model.RegisterRequest{
		Username: "budi",
		Email:    &email,
		Password: "secret123",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrEmailTaken, err)
	assert.Nil(t, resp)
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	tests := []struct {
		name string
		req  *model.RegisterRequest
	}{
		{"nil request", nil},
		{"blank username", &model.RegisterRequest{Username: "  ", Password: "secret123"}},
		{"short password", &model.RegisterRequest{Username: "budi", Password: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Register(ctx, tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)

			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
		})
	}

	mockRepo.AssertNotCalled(t, "GetByUsername")
}

func TestAuthService_RegisterStaff_RejectsCustomerRole(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	resp, err := service.RegisterStaff(ctx, &model.RegisterRequest{
		Username: "cashier1",
		Password: "secret123",
		Role:     model.RoleCustomer,
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidRole, err)
	assert.Nil(t, resp)
}

func TestAuthService_RegisterStaff_CreatesStaff(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "cashier1").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	resp, err := service.RegisterStaff(ctx, &model.RegisterRequest{
		Username: "cashier1",
		Password: "secret123",
		Role:     model.RoleStaff,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, resp.User.Role)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.New(),
		Username:     "budi",
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	}

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "budi").Return(user, nil)

	resp, err := service.Login(ctx, &model.LoginRequest{Username: "budi", Password: "secret123"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "budi", resp.User.Username)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := &model.User{ID: uuid.New(), Username: "budi", PasswordHash: hash}

	tests := []struct {
		name     string
		stored   *model.User
		username string
		password string
	}{
		{"unknown username", nil, "ghost", "secret123"},
		{"wrong password", user, "budi", "wrong-pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			service := newAuthTestService(mockRepo)

			mockRepo.On("GetByUsername", ctx, tt.username).Return(tt.stored, nil)

			resp, err := service.Login(ctx, &model.LoginRequest{Username: tt.username, Password: tt.password})

			// Both failures look identical to the caller.
			require.Error(t, err)
			assert.Equal(t, model.ErrInvalidCredentials, err)
			assert.Nil(t, resp)
		})
	}
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockUserRepository)
	service := newAuthTestService(mockRepo)

	mockRepo.On("GetByID", ctx, userID).Return(nil, nil)

	user, err := service.GetUser(ctx, userID)

	require.Error(t, err)
	assert.Equal(t, model.ErrUserNotFound, err)
	assert.Nil(t, user)
}
