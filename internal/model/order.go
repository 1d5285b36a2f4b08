package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is an order's lifecycle marker.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the four defined values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// statusTransitions defines the allowed status moves. Completed and
// cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another. Setting the same status again is treated as a no-op move.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s == to {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order represents a customer's confirmed cart, with line items frozen
// at purchase-time prices and names.
type Order struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	OrderNumber  string      `json:"orderNumber" db:"order_number"`
	CustomerID   uuid.UUID   `json:"customerId" db:"customer_id"`
	CustomerName string      `json:"customerName,omitempty"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total" db:"total"`
	Status       OrderStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line item in an order. ProductName and Price are
// snapshots taken at creation time so later product edits or deletion
// never change how a persisted order displays.
type OrderItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   uuid.UUID `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
}

// OrderRequest represents the request payload for creating an order.
// ProductName and Price are accepted for wire compatibility but the
// persisted snapshots always come from the catalogue.
type OrderRequest struct {
	Items []OrderItemRequest `json:"items"`
	Total float64            `json:"total"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ProductName string  `json:"productName"`
}

// StatusUpdateRequest represents the payload for changing an order's status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
