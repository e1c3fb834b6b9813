package reports

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// DB handles report queries over the orders and payments tables.
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// StatusCountData is one board column's order count.
type StatusCountData struct {
	Status string `bun:"status"`
	Count  int    `bun:"order_count"`
}

// GetOrderCountsByStatus counts orders in each production status.
func (db *DB) GetOrderCountsByStatus(ctx context.Context) ([]StatusCountData, error) {
	var counts []StatusCountData
	err := db.bun.NewRaw(`
		SELECT
			status,
			COUNT(*) AS order_count
		FROM
			orders
		GROUP BY
			status
	`).Scan(ctx, &counts)

	return counts, err
}

// GetRushOrderCount counts rush-priority orders still in production.
func (db *DB) GetRushOrderCount(ctx context.Context) (int, error) {
	var count int
	err := db.bun.NewRaw(`
		SELECT
			COUNT(order_id)
		FROM
			orders
		WHERE
			priority = 'rush' AND status NOT IN ('picked_up', 'completed')
	`).Scan(ctx, &count)

	return count, err
}

// DailySalesData represents raw daily sales metrics from the database.
type DailySalesData struct {
	SalesDate    time.Time `bun:"sales_date"`
	DailyRevenue float64   `bun:"daily_revenue"`
	DailyOrders  int       `bun:"daily_orders"`
}

// GetDailySales retrieves revenue and order counts per day in a window.
func (db *DB) GetDailySales(ctx context.Context, from, to time.Time) ([]DailySalesData, error) {
	var dailySales []DailySalesData
	err := db.bun.NewRaw(`
		SELECT
			DATE(created_at) AS sales_date,
			SUM(total_amount) AS daily_revenue,
			COUNT(order_id) AS daily_orders
		FROM
			orders
		WHERE
			created_at >= ? AND created_at < ?
		GROUP BY
			DATE(created_at)
		ORDER BY
			DATE(created_at)
	`, from, to).Scan(ctx, &dailySales)

	return dailySales, err
}

// FlavorSalesData is one flavor's share of orders.
type FlavorSalesData struct {
	Flavor  string  `bun:"flavor"`
	Orders  int     `bun:"order_count"`
	Revenue float64 `bun:"revenue"`
}

// GetFlavorSales ranks flavors by order volume.
func (db *DB) GetFlavorSales(ctx context.Context) ([]FlavorSalesData, error) {
	var sales []FlavorSalesData
	err := db.bun.NewRaw(`
		SELECT
			flavor,
			COUNT(order_id) AS order_count,
			SUM(total_amount) AS revenue
		FROM
			orders
		WHERE
			flavor != ''
		GROUP BY
			flavor
		ORDER BY
			order_count DESC
	`).Scan(ctx, &sales)

	return sales, err
}

// DepositSummaryData is the accountant's rollup of deposits by state.
type DepositSummaryData struct {
	Status string  `bun:"status"`
	Count  int     `bun:"payment_count"`
	Total  float64 `bun:"total_amount"`
}

// GetDepositSummary sums deposits per payment status.
func (db *DB) GetDepositSummary(ctx context.Context) ([]DepositSummaryData, error) {
	var summary []DepositSummaryData
	err := db.bun.NewRaw(`
		SELECT
			status,
			COUNT(payment_id) AS payment_count,
			SUM(amount) AS total_amount
		FROM
			payments
		GROUP BY
			status
	`).Scan(ctx, &summary)

	return summary, err
}
