package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kasirkita/internal/auth"
	"kasirkita/internal/middleware"
	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, customerID uuid.UUID, req *model.OrderRequest) (*model.Order, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func requestWithClaims(req *http.Request, userID uuid.UUID, role model.Role) *http.Request {
	claims := &auth.Claims{UserID: userID, Username: "tester", Role: role}
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

func TestOrderHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	customerID := uuid.New()

	validReq := &model.OrderRequest{
		Items: []model.OrderItemRequest{
			{ProductID: uuid.NewString(), Quantity: 2},
		},
	}

	created := &model.Order{
		ID:          uuid.New(),
		OrderNumber: "260828-0042",
		CustomerID:  customerID,
		Status:      model.StatusPending,
		Total:       9.00,
	}

	tests := []struct {
		name           string
		body           interface{}
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "success",
			body:           validReq,
			mockReturn:     created,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "empty order",
			body:           &model.OrderRequest{},
			mockError:      model.ErrEmptyOrder,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeEmptyOrder,
			expectService:  true,
		},
		{
			name:           "insufficient stock",
			body:           validReq,
			mockError:      model.NewInsufficientStockError("Kopi Susu", 6, 5),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInsufficientStock,
			expectService:  true,
		},
		{
			name:           "unknown product maps to bad request",
			body:           validReq,
			mockError:      model.NewMissingProductError(uuid.NewString()),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeProductNotFound,
			expectService:  true,
		},
		{
			name:           "total mismatch",
			body:           validReq,
			mockError:      model.NewTotalMismatchError(99.99, 9.00),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeTotalMismatch,
			expectService:  true,
		},
		{
			name:           "invalid JSON",
			body:           "{not-json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Create", mock.Anything, customerID, mock.AnythingOfType("*model.OrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			var body bytes.Buffer
			if s, ok := tt.body.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders", &body)
			req = requestWithClaims(req, customerID, model.RoleCustomer)
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedCode != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			}

			if !tt.expectService {
				mockService.AssertNotCalled(t, "Create")
			} else {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestOrderHandler_Create_Unauthenticated(t *testing.T) {
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestOrderHandler_GetCustomerOrders(t *testing.T) {
	logger := zerolog.Nop()
	customerID := uuid.New()

	orders := []model.Order{
		{ID: uuid.New(), CustomerID: customerID, Status: model.StatusCompleted},
	}

	tests := []struct {
		name           string
		callerID       uuid.UUID
		callerRole     model.Role
		pathCustomerID string
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "customer reads own orders",
			callerID:       customerID,
			callerRole:     model.RoleCustomer,
			pathCustomerID: customerID.String(),
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "customer cannot read another customer's orders",
			callerID:       uuid.New(),
			callerRole:     model.RoleCustomer,
			pathCustomerID: customerID.String(),
			expectedStatus: http.StatusForbidden,
			expectService:  false,
		},
		{
			name:           "mismatched identity is rejected regardless of role",
			callerID:       uuid.New(),
			callerRole:     model.RoleStaff,
			pathCustomerID: customerID.String(),
			expectedStatus: http.StatusForbidden,
			expectService:  false,
		},
		{
			name:           "invalid customer ID",
			callerID:       customerID,
			callerRole:     model.RoleCustomer,
			pathCustomerID: "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetForCustomer", mock.Anything, customerID).Return(orders, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/orders/customer/"+tt.pathCustomerID, nil)
			req.SetPathValue("customerId", tt.pathCustomerID)
			req = requestWithClaims(req, tt.callerID, tt.callerRole)
			rec := httptest.NewRecorder()

			handler.GetCustomerOrders(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if !tt.expectService {
				mockService.AssertNotCalled(t, "GetForCustomer")
			} else {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()

	updated := &model.Order{ID: orderID, Status: model.StatusProcessing}

	tests := []struct {
		name           string
		pathOrderID    string
		status         string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "success",
			pathOrderID:    orderID.String(),
			status:         "processing",
			mockReturn:     updated,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "unknown order",
			pathOrderID:    orderID.String(),
			status:         "processing",
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeOrderNotFound,
			expectService:  true,
		},
		{
			name:           "unknown status value",
			pathOrderID:    orderID.String(),
			status:         "shipped",
			mockError:      model.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidStatus,
			expectService:  true,
		},
		{
			name:           "disallowed transition",
			pathOrderID:    orderID.String(),
			status:         "pending",
			mockError:      model.NewInvalidTransitionError(model.StatusCompleted, model.StatusPending),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidTransition,
			expectService:  true,
		},
		{
			name:           "invalid order ID",
			pathOrderID:    "not-a-uuid",
			status:         "processing",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("UpdateStatus", mock.Anything, orderID, tt.status).
					Return(tt.mockReturn, tt.mockError)
			}

			body, err := json.Marshal(model.StatusUpdateRequest{Status: tt.status})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+tt.pathOrderID+"/status", bytes.NewReader(body))
			req.SetPathValue("orderId", tt.pathOrderID)
			rec := httptest.NewRecorder()

			handler.UpdateStatus(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedCode != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			}
		})
	}
}
