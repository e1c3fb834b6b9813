package reports

import (
	"context"
	"fmt"
	"time"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

// ProductionReport is the owner's morning view: how many orders sit in each
// board column.
type ProductionReport struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	TotalOrders  int            `json:"total_orders"`
	RushOrders   int            `json:"rush_orders"`
	StatusCounts map[string]int `json:"status_counts"`
}

// SalesReport summarizes revenue over a date window.
type SalesReport struct {
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	TotalOrders int              `json:"total_orders"`
	Revenue     float64          `json:"revenue"`
	Daily       []DailySalesData `json:"daily"`
}

// FlavorReport ranks flavors by popularity.
type FlavorReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Flavors     []FlavorSalesData `json:"flavors"`
}

// DepositReport is the accountant's deposit reconciliation rollup.
type DepositReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Summary     []DepositSummaryData `json:"summary"`
}

// Service assembles back-office reports from the report queries.
type Service struct {
	DB     *DB
	Logger *logger.Logger
}

func NewService(db *DB, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

// ProductionReport builds the per-status order counts. Every status appears
// even when its count is zero, matching the board's fixed columns.
func (s *Service) ProductionReport(ctx context.Context) (*ProductionReport, error) {
	counts, err := s.DB.GetOrderCountsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build production report: %w", err)
	}

	report := &ProductionReport{
		GeneratedAt:  time.Now(),
		StatusCounts: make(map[string]int, len(models.OrderStatuses)),
	}
	for _, status := range models.OrderStatuses {
		report.StatusCounts[status] = 0
	}
	for _, row := range counts {
		if _, known := report.StatusCounts[row.Status]; known {
			report.StatusCounts[row.Status] = row.Count
		} else {
			// Legacy statuses report under pending, like the board shows them
			report.StatusCounts[models.StatusPending] += row.Count
		}
		report.TotalOrders += row.Count
	}

	rush, err := s.DB.GetRushOrderCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rush orders: %w", err)
	}
	report.RushOrders = rush

	return report, nil
}

// SalesReport builds the revenue summary for [from, to).
func (s *Service) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	daily, err := s.DB.GetDailySales(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales report: %w", err)
	}

	report := &SalesReport{From: from, To: to, Daily: daily}
	for _, day := range daily {
		report.TotalOrders += day.DailyOrders
		report.Revenue += day.DailyRevenue
	}
	if report.Daily == nil {
		report.Daily = []DailySalesData{}
	}

	return report, nil
}

// FlavorReport ranks flavors by order volume.
func (s *Service) FlavorReport(ctx context.Context) (*FlavorReport, error) {
	flavors, err := s.DB.GetFlavorSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build flavor report: %w", err)
	}
	if flavors == nil {
		flavors = []FlavorSalesData{}
	}
	return &FlavorReport{GeneratedAt: time.Now(), Flavors: flavors}, nil
}

// DepositReport sums deposits per payment status.
func (s *Service) DepositReport(ctx context.Context) (*DepositReport, error) {
	summary, err := s.DB.GetDepositSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build deposit report: %w", err)
	}
	if summary == nil {
		summary = []DepositSummaryData{}
	}
	return &DepositReport{GeneratedAt: time.Now(), Summary: summary}, nil
}
