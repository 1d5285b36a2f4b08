package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RegisterStaff(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthHandler_Register(t *testing.T) {
	logger := zerolog.Nop()

	resp := &model.AuthResponse{
		Message: "Registration successful",
		Token:   "a.b.c",
		User:    model.User{ID: uuid.New(), Username: "budi", Role: model.RoleCustomer},
	}

	tests := []struct {
		name           string
		body           interface{}
		mockReturn     *model.AuthResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "success",
			body:           &model.RegisterRequest{Username: "budi", Password: "secret123"},
			mockReturn:     resp,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "username taken",
			body:           &model.RegisterRequest{Username: "budi", Password: "secret123"},
			mockError:      model.ErrUsernameTaken,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "invalid JSON",
			body:           "{nope",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Register", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			var body bytes.Buffer
			if s, ok := tt.body.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &body)
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Register")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	logger := zerolog.Nop()

	resp := &model.AuthResponse{
		Message: "Login successful",
		Token:   "a.b.c",
		User:    model.User{ID: uuid.New(), Username: "budi", Role: model.RoleCustomer},
	}

	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).Return(resp, nil)

		body, err := json.Marshal(model.LoginRequest{Username: "budi", Password: "secret123"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got model.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEmpty(t, got.Token)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).
			Return(nil, model.ErrInvalidCredentials)

		body, err := json.Marshal(model.LoginRequest{Username: "budi", Password: "wrong"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, model.ErrCodeInvalidCredentials, errResp.Code)
	})
}

func TestAuthHandler_RegisterStaff_InvalidRole(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, zerolog.Nop())

	mockService.On("RegisterStaff", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).
		Return(nil, model.ErrInvalidRole)

	body, err := json.Marshal(model.RegisterRequest{Username: "x", Password: "secret123", Role: model.RoleCustomer})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register/staff", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.RegisterStaff(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	user := &model.User{ID: userID, Username: "budi", Role: model.RoleCustomer}

	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("GetUser", mock.Anything, userID).Return(user, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = requestWithClaims(req, userID, model.RoleCustomer)
		rec := httptest.NewRecorder()

		handler.Me(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]model.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, userID, got["user"].ID)
	})

	t.Run("no identity", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()

		handler.Me(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "GetUser")
	})
}
