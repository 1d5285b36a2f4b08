package service

import (
	"context"
	"testing"
	"time"

	"kasirkita/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository is a mock implementation of ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) MonthlySales(ctx context.Context, months int) ([]model.MonthlySales, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MonthlySales), args.Error(1)
}

func (m *MockReportRepository) DailyTransactions(ctx context.Context, since time.Time) (map[int]int, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *MockReportRepository) BestSellers(ctx context.Context, limit int) ([]model.BestSeller, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BestSeller), args.Error(1)
}

func (m *MockReportRepository) StockLevels(ctx context.Context) ([]model.StockLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockLevel), args.Error(1)
}

func TestReportService_Summary(t *testing.T) {
	ctx := context.Background()

	// A Thursday; the week starts on the preceding Monday at midnight.
	fixedNow := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)
	wantSince := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	mockRepo := new(MockReportRepository)
	service := &reportService{
		reportRepo: mockRepo,
		logger:     zerolog.Nop(),
		now:        func() time.Time { return fixedNow },
	}

	mockRepo.On("MonthlySales", ctx, reportMonths).Return([]model.MonthlySales{
		{Month: "2026-02", Total: 420.50},
		{Month: "2026-03", Total: 88.00},
	}, nil)
	mockRepo.On("DailyTransactions", ctx, wantSince).Return(map[int]int{1: 3, 4: 7}, nil)
	mockRepo.On("BestSellers", ctx, bestSellerCount).Return([]model.BestSeller{
		{ProductName: "Kopi Susu", Quantity: 41},
	}, nil)
	mockRepo.On("StockLevels", ctx).Return([]model.StockLevel{
		{Name: "Kopi Susu", Stock: 12},
	}, nil)

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Len(t, summary.MonthlySales, 2)
	assert.Len(t, summary.BestSellers, 1)
	assert.Len(t, summary.StockReport, 1)

	// Every weekday appears, zero-filled when no orders landed on it.
	require.Len(t, summary.DailyTransactions, 7)
	assert.Equal(t, model.DailyTransactions{Day: "Mon", Count: 3}, summary.DailyTransactions[0])
	assert.Equal(t, model.DailyTransactions{Day: "Thu", Count: 7}, summary.DailyTransactions[3])
	assert.Equal(t, model.DailyTransactions{Day: "Sun", Count: 0}, summary.DailyTransactions[6])

	mockRepo.AssertExpectations(t)
}

func TestReportService_Summary_EmptyDatabase(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockReportRepository)
	service := &reportService{
		reportRepo: mockRepo,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}

	mockRepo.On("MonthlySales", ctx, reportMonths).Return(nil, nil)
	mockRepo.On("DailyTransactions", ctx, mock.AnythingOfType("time.Time")).Return(map[int]int{}, nil)
	mockRepo.On("BestSellers", ctx, bestSellerCount).Return(nil, nil)
	mockRepo.On("StockLevels", ctx).Return(nil, nil)

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	assert.NotNil(t, summary.MonthlySales)
	assert.Empty(t, summary.MonthlySales)
	assert.Len(t, summary.DailyTransactions, 7)
	assert.NotNil(t, summary.BestSellers)
	assert.NotNil(t, summary.StockReport)
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid-week",
			in:   time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday stays",
			in:   time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the preceding monday",
			in:   time.Date(2026, time.March, 8, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startOfWeek(tt.in))
		})
	}
}
