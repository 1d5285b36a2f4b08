package service

import (
	"context"
	"fmt"
	"time"

	"kasirkita/internal/model"
	"kasirkita/internal/repository"

	"github.com/rs/zerolog"
)

const (
	// reportMonths is how many trailing months the sales chart shows.
	reportMonths = 6

	// bestSellerCount is how many products the best-sellers chart ranks.
	bestSellerCount = 4
)

// weekdayNames indexes ISO weekdays (1=Monday).
var weekdayNames = [8]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// reportService implements ReportService.
type reportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		logger:     logger.With().Str("service", "report").Logger(),
		now:        time.Now,
	}
}

// Summary builds all report sections: monthly sales, weekday
// transaction counts for the current week, best sellers and stock
// levels. Cancelled orders never contribute to sales figures.
func (s *reportService) Summary(ctx context.Context) (*model.ReportSummary, error) {
	monthly, err := s.reportRepo.MonthlySales(ctx, reportMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly sales report: %w", err)
	}
	if monthly == nil {
		monthly = []model.MonthlySales{}
	}

	counts, err := s.reportRepo.DailyTransactions(ctx, startOfWeek(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to build daily transactions report: %w", err)
	}

	daily := make([]model.DailyTransactions, 0, 7)
	for weekday := 1; weekday <= 7; weekday++ {
		daily = append(daily, model.DailyTransactions{
			Day:   weekdayNames[weekday],
			Count: counts[weekday],
		})
	}

	sellers, err := s.reportRepo.BestSellers(ctx, bestSellerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to build best sellers report: %w", err)
	}
	if sellers == nil {
		sellers = []model.BestSeller{}
	}

	stock, err := s.reportRepo.StockLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build stock report: %w", err)
	}
	if stock == nil {
		stock = []model.StockLevel{}
	}

	return &model.ReportSummary{
		MonthlySales:      monthly,
		DailyTransactions: daily,
		BestSellers:       sellers,
		StockReport:       stock,
	}, nil
}

// startOfWeek returns midnight of the Monday of the given time's week.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
