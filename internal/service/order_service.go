package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"kasirkita/internal/cache"
	"kasirkita/internal/model"
	"kasirkita/internal/repository"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// orderNumberAttempts bounds retries when a generated order number
// collides with an existing one.
const orderNumberAttempts = 3

// totalTolerance absorbs float rounding when comparing the client's
// total against the server-side computation.
const totalTolerance = 0.005

// orderService implements OrderService.
type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cache         cache.ProductCache
	ordersCreated prometheus.Counter
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	ordersCreated prometheus.Counter,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cache:         productCache,
		ordersCreated: ordersCreated,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// Create validates and persists a new order, decrementing stock in the
// same transaction. No effect is applied unless every check passes for
// every item.
func (s *orderService) Create(ctx context.Context, customerID uuid.UUID, req *model.OrderRequest) (*model.Order, error) {
	items, products, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	// The client's total is advisory; the authoritative catalogue
	// prices decide, and a disagreement is rejected rather than trusted.
	if req.Total != 0 && math.Abs(req.Total-total) > totalTolerance {
		s.logger.Warn().
			Float64("claimed", req.Total).
			Float64("computed", total).
			Msg("order total mismatch")
		return nil, model.NewTotalMismatchError(req.Total, total)
	}

	var order *model.Order
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err = s.createOnce(ctx, customerID, items, products, total)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) {
			s.logger.Warn().Int("attempt", attempt+1).Msg("order number collision, retrying")
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.ordersCreated.Inc()

	for _, item := range items {
		if cerr := s.cache.Invalidate(ctx, item.ProductID); cerr != nil {
			s.logger.Warn().Err(cerr).Str("product_id", item.ProductID.String()).Msg("product cache invalidation failed")
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("customer_id", customerID.String()).
		Int("item_count", len(items)).
		Msg("order created")

	// Re-read for resolved customer and image fields.
	persisted, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created order: %w", err)
	}
	return persisted, nil
}

// resolveItems validates the request and freezes name/price snapshots
// from the authoritative catalogue rows.
func (s *orderService) resolveItems(ctx context.Context, req *model.OrderRequest) ([]model.OrderItem, map[uuid.UUID]*model.Product, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, nil, model.ErrEmptyOrder
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, nil, model.ErrInvalidQuantity
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			// An unparseable ID can never name an existing product.
			return nil, nil, model.NewMissingProductError(item.ProductID)
		}
		ids = append(ids, id)
	}

	found, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	products := make(map[uuid.UUID]*model.Product, len(found))
	for i := range found {
		products[found[i].ID] = &found[i]
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, reqItem := range req.Items {
		product, ok := products[ids[i]]
		if !ok {
			s.logger.Warn().Str("product_id", reqItem.ProductID).Msg("order references unknown product")
			return nil, nil, model.NewMissingProductError(reqItem.ProductID)
		}
		if product.Stock < reqItem.Quantity {
			s.logger.Warn().
				Str("product_id", reqItem.ProductID).
				Int("requested", reqItem.Quantity).
				Int("available", product.Stock).
				Msg("insufficient stock")
			return nil, nil, model.NewInsufficientStockError(product.Name, reqItem.Quantity, product.Stock)
		}

		items[i] = model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    reqItem.Quantity,
			Price:       product.Price,
		}
	}

	return items, products, nil
}

// createOnce runs one transactional attempt: insert the order and its
// items, then decrement stock with the conditional update. A failed
// decrement means a concurrent order won the stock; the rollback
// leaves nothing behind.
func (s *orderService) createOnce(
	ctx context.Context,
	customerID uuid.UUID,
	items []model.OrderItem,
	products map[uuid.UUID]*model.Product,
	total float64,
) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:          uuid.New(),
		OrderNumber: generateOrderNumber(now),
		CustomerID:  customerID,
		Total:       total,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
	}
	if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, err
	}

	for _, item := range items {
		applied, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !applied {
			product := products[item.ProductID]
			s.logger.Warn().
				Str("product_id", item.ProductID.String()).
				Int("requested", item.Quantity).
				Msg("stock changed under concurrent load, order rejected")
			return nil, model.NewInsufficientStockError(product.Name, item.Quantity, product.Stock)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	committed = true

	order.Items = items
	return order, nil
}

// generateOrderNumber produces the human-readable YYMMDD-NNNN order
// number. The random suffix is only probabilistically unique; the
// database constraint catches collisions and the caller retries.
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%04d", now.Format("060102"), rand.IntN(10000))
}

// GetAll retrieves every order, newest first.
func (s *orderService) GetAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetForCustomer retrieves one customer's orders, newest first.
func (s *orderService) GetForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order through the status workflow. Terminal
// statuses admit no further moves; cancelling restores stock.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	newStatus := model.OrderStatus(status)
	if !newStatus.Valid() {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.Status == newStatus {
		return order, nil
	}

	if !order.Status.CanTransition(newStatus) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", status).
			Msg("disallowed status transition")
		return nil, model.NewInvalidTransitionError(order.Status, newStatus)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	applied, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, order.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent request moved the order first. Decide against
		// the fresh status rather than the stale read; without this a
		// pair of racing cancels would each restore stock.
		fresh, ferr := s.orderRepo.GetByID(ctx, orderID)
		if ferr != nil {
			return nil, fmt.Errorf("failed to get order: %w", ferr)
		}
		if fresh == nil {
			return nil, model.ErrOrderNotFound
		}
		if fresh.Status == newStatus {
			return fresh, nil
		}
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(fresh.Status)).
			Str("to", status).
			Msg("status transition lost to a concurrent update")
		return nil, model.NewInvalidTransitionError(fresh.Status, newStatus)
	}

	// A cancelled order returns its units to the shelf.
	if newStatus == model.StatusCancelled {
		for _, item := range order.Items {
			if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}
	committed = true

	if newStatus == model.StatusCancelled {
		for _, item := range order.Items {
			if cerr := s.cache.Invalidate(ctx, item.ProductID); cerr != nil {
				s.logger.Warn().Err(cerr).Str("product_id", item.ProductID.String()).Msg("product cache invalidation failed")
			}
		}
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", status).
		Msg("order status updated")

	updated, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated order: %w", err)
	}
	return updated, nil
}
