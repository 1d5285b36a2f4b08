package service

import (
	"context"
	"io"

	"kasirkita/internal/model"

	"github.com/google/uuid"
)

// AuthService defines operations for registration, login and identity lookup.
type AuthService interface {
	// Register creates a customer account and returns a token for
	// immediate login. The requested role is ignored.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// RegisterStaff creates an admin or staff account. Admin-only path.
	RegisterStaff(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// CategoryService defines operations for category management.
type CategoryService interface {
	// GetAll retrieves all categories.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a single category.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// Create creates a new category.
	Create(ctx context.Context, name string) (*model.Category, error)

	// FindOrCreate resolves a category by name, creating it on first use.
	FindOrCreate(ctx context.Context, name string) (*model.Category, error)
}

// ImageUpload is an uploaded product image ready to store.
type ImageUpload struct {
	// Ext is the lowercased file extension including the dot.
	Ext     string
	Content io.Reader
}

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create creates a product, storing the image when present.
	Create(ctx context.Context, createdBy uuid.UUID, input *model.ProductInput, image *ImageUpload) (*model.Product, error)

	// Update modifies a product; absent input fields keep their value.
	// A new image replaces and removes the previous one.
	Update(ctx context.Context, id uuid.UUID, input *model.ProductInput, image *ImageUpload) (*model.Product, error)

	// Delete removes a product and its stored image.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create validates and persists a new order for the customer,
	// decrementing stock atomically. All-or-nothing across items.
	Create(ctx context.Context, customerID uuid.UUID, req *model.OrderRequest) (*model.Order, error)

	// GetAll retrieves every order, newest first.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetForCustomer retrieves one customer's orders, newest first.
	GetForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)

	// UpdateStatus moves an order through the status workflow.
	// Cancelling restores the order's stock.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error)
}

// ReportService aggregates orders and products into dashboard reports.
type ReportService interface {
	// Summary builds all report sections.
	Summary(ctx context.Context) (*model.ReportSummary, error)
}
