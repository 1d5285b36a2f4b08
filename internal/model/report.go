package model

import "github.com/google/uuid"

// MonthlySales is one month's revenue, cancelled orders excluded.
type MonthlySales struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// DailyTransactions is the order count for one weekday of the current week.
type DailyTransactions struct {
	Day   string `json:"day"` // Mon..Sun
	Count int    `json:"count"`
}

// BestSeller is a product ranked by total quantity sold.
type BestSeller struct {
	ProductName string `json:"name"`
	Quantity    int    `json:"quantity"`
}

// StockLevel is a product's current stock count.
type StockLevel struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// ReportSummary bundles all report sections served to staff dashboards.
type ReportSummary struct {
	MonthlySales      []MonthlySales      `json:"monthlySales"`
	DailyTransactions []DailyTransactions `json:"dailyTransactions"`
	BestSellers       []BestSeller        `json:"bestSellers"`
	StockReport       []StockLevel        `json:"stockReport"`
}
