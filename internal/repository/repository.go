package repository

import (
	"context"
	"errors"
	"time"

	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID, or nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByUsername retrieves a user by username, or nil when not found.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// GetByEmail retrieves a user by email, or nil when not found.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// GetAll retrieves all categories ordered by name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a category by ID, or nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// GetByName retrieves a category by exact name, or nil when not found.
	GetByName(ctx context.Context, name string) (*model.Category, error)

	// Create inserts a new category.
	Create(ctx context.Context, category *model.Category) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support, category resolved.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID, or nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites the mutable fields of an existing product.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically decrements a product's stock within the
	// provided transaction, but only if enough stock remains. Returns
	// false when the conditional update matched no row (missing product
	// or insufficient stock).
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error)

	// RestoreStock adds quantity back to a product's stock within the
	// provided transaction. Used when an order is cancelled.
	RestoreStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items and resolved display
	// fields, or nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetAll retrieves every order, newest first, with resolved display fields.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetByCustomer retrieves one customer's orders, newest first.
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)

	// UpdateStatus moves an order from one status to another within the
	// provided transaction. The write is conditional on the order still
	// holding the expected current status; it reports whether a row was
	// changed, so a concurrent transition loses cleanly instead of
	// overwriting.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error)
}

// ReportRepository aggregates persisted orders and products into the
// report buckets served to staff dashboards.
type ReportRepository interface {
	// MonthlySales returns revenue per month for the trailing months,
	// cancelled orders excluded.
	MonthlySales(ctx context.Context, months int) ([]model.MonthlySales, error)

	// DailyTransactions returns order counts per ISO weekday (1=Monday)
	// since the given instant, cancelled orders excluded.
	DailyTransactions(ctx context.Context, since time.Time) (map[int]int, error)

	// BestSellers returns the top products by quantity sold, cancelled
	// orders excluded.
	BestSellers(ctx context.Context, limit int) ([]model.BestSeller, error)

	// StockLevels returns every product's current stock count.
	StockLevels(ctx context.Context) ([]model.StockLevel, error)
}

// IsUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation. Used to retry order number generation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
