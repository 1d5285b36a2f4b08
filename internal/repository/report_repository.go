package repository

import (
	"context"
	"fmt"
	"time"

	"kasirkita/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reportRepository implements the ReportRepository interface with SQL
// aggregation. The original system folded full collections in the
// browser; pushing the buckets into the database keeps report cost
// bounded as order volume grows.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

// MonthlySales returns revenue per month for the trailing months,
// cancelled orders excluded.
func (r *reportRepository) MonthlySales(ctx context.Context, months int) ([]model.MonthlySales, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       SUM(total)::float8 AS total
		FROM orders
		WHERE status <> 'cancelled'
		  AND created_at >= date_trunc('month', now()) - make_interval(months => $1 - 1)
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.pool.Query(ctx, query, months)
	if err != nil {
		r.logger.Error().Err(err).Int("months", months).Msg("failed to query monthly sales")
		return nil, fmt.Errorf("failed to query monthly sales: %w", err)
	}
	defer rows.Close()

	var sales []model.MonthlySales
	for rows.Next() {
		var s model.MonthlySales
		if err := rows.Scan(&s.Month, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly sales row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly sales: %w", err)
	}

	return sales, nil
}

// DailyTransactions returns order counts keyed by ISO weekday
// (1=Monday) since the given instant, cancelled orders excluded.
func (r *reportRepository) DailyTransactions(ctx context.Context, since time.Time) (map[int]int, error) {
	query := `
		SELECT extract(isodow FROM created_at)::int AS weekday,
		       COUNT(*)::int AS orders
		FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1
		GROUP BY 1
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		r.logger.Error().Err(err).Time("since", since).Msg("failed to query daily transactions")
		return nil, fmt.Errorf("failed to query daily transactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int, 7)
	for rows.Next() {
		var weekday, orders int
		if err := rows.Scan(&weekday, &orders); err != nil {
			return nil, fmt.Errorf("failed to scan daily transactions row: %w", err)
		}
		counts[weekday] = orders
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily transactions: %w", err)
	}

	return counts, nil
}

// BestSellers returns the top products by quantity sold, cancelled
// orders excluded. Ranking keys on the snapshotted product name so
// deleted products still count.
func (r *reportRepository) BestSellers(ctx context.Context, limit int) ([]model.BestSeller, error) {
	query := `
		SELECT i.product_name, SUM(i.quantity)::int AS quantity
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status <> 'cancelled'
		GROUP BY i.product_name
		ORDER BY quantity DESC, i.product_name
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query best sellers")
		return nil, fmt.Errorf("failed to query best sellers: %w", err)
	}
	defer rows.Close()

	var sellers []model.BestSeller
	for rows.Next() {
		var b model.BestSeller
		if err := rows.Scan(&b.ProductName, &b.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan best seller row: %w", err)
		}
		sellers = append(sellers, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best sellers: %w", err)
	}

	return sellers, nil
}

// StockLevels returns every product's current stock count.
func (r *reportRepository) StockLevels(ctx context.Context) ([]model.StockLevel, error) {
	query := `
		SELECT id, name, stock
		FROM products
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query stock levels")
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []model.StockLevel
	for rows.Next() {
		var l model.StockLevel
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan stock level row: %w", err)
		}
		levels = append(levels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock levels: %w", err)
	}

	return levels, nil
}
