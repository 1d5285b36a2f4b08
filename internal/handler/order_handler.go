package handler

import (
	"encoding/json"
	"net/http"

	"kasirkita/internal/middleware"
	"kasirkita/internal/model"
	"kasirkita/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests. The customer is taken from
// the authenticated identity, never from the payload. A reference to an
// unknown product is a client mistake here, not a missing resource, so
// it maps to 400 rather than 404.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON in request body", h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger, map[string]int{
			model.ErrCodeProductNotFound: http.StatusBadRequest,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetAll handles GET /api/orders/all requests.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetCustomerOrders handles GET /api/orders/customer/{customerId}
// requests. A customer may only read their own history; staff and
// admin use the /api/orders/all listing instead.
func (h *OrderHandler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	customerID, err := uuid.Parse(r.PathValue("customerId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID format", h.logger)
		return
	}

	if claims.UserID != customerID {
		writeServiceError(w, model.ErrForbidden, h.logger, nil)
		return
	}

	orders, err := h.service.GetForCustomer(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /api/orders/{orderId}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON in request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated",
		"order":   order,
	})
}
