package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-bakery/internal/models"
	"ms-bakery/internal/orders/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// Connect to an in-memory SQLite DB for testing
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = bunDB.NewCreateTable().Model((*models.Order)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to create orders table: %v", err)
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func testOrder(name string) models.Order {
	return models.Order{
		OrderID:      uuid.New().String(),
		CustomerRef:  name,
		Occasion:     "birthday",
		Flavor:       "almond",
		Design:       "classic",
		Servings:     12,
		PickupDate:   time.Now().Add(72 * time.Hour),
		Priority:     models.PriorityNormal,
		Status:       models.StatusPending,
		TotalAmount:  58,
		ContactName:  name,
		ContactEmail: name + "@example.com",
		CreatedAt:    time.Now(),
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	order := testOrder("Dana")
	require.NoError(t, orderDB.CreateOrder(order))

	found, err := orderDB.GetOrderByID(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, found.OrderID)
	assert.Equal(t, "almond", found.Flavor)
	assert.Equal(t, models.StatusPending, found.Status)

	// Non-existent order
	found, err = orderDB.GetOrderByID("non-existent")
	assert.Error(t, err)
	assert.Nil(t, found)
}

func TestUpdateOrderStatus(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	order := testOrder("Dana")
	require.NoError(t, orderDB.CreateOrder(order))

	require.NoError(t, orderDB.UpdateOrderStatus(order.OrderID, models.StatusInPrep))

	found, err := orderDB.GetOrderByID(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInPrep, found.Status)
	assert.False(t, found.UpdatedAt.IsZero())
}

func TestUpdateOrderDetails(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	order := testOrder("Dana")
	require.NoError(t, orderDB.CreateOrder(order))

	order.Flavor = "red-velvet"
	order.Servings = 24
	order.UpdatedAt = time.Now()
	require.NoError(t, orderDB.UpdateOrder(order))

	found, err := orderDB.GetOrderByID(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "red-velvet", found.Flavor)
	assert.Equal(t, 24, found.Servings)
	// Status is not part of the editable column set
	assert.Equal(t, models.StatusPending, found.Status)
}

func TestDeleteOrder(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	order := testOrder("Dana")
	require.NoError(t, orderDB.CreateOrder(order))
	require.NoError(t, orderDB.DeleteOrder(order.OrderID))

	count, err := bunDB.NewSelect().
		Model((*models.Order)(nil)).
		Where("order_id = ?", order.OrderID).
		Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListOrdersSearchAndPaging(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	names := []string{"Dana", "Dana", "Miriam", "Noor", "Priya"}
	for i, name := range names {
		order := testOrder(name)
		order.CreatedAt = time.Now().Add(time.Duration(-i) * time.Minute)
		require.NoError(t, orderDB.CreateOrder(order))
	}

	// Search is case-insensitive and matches contact name
	page, err := orderDB.ListOrders(models.OrderFilter{Search: "dana", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Orders, 2)

	// Search matches contact email too
	page, err = orderDB.ListOrders(models.OrderFilter{Search: "noor@example", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	// Paging: 5 orders, page size 2, page 3 holds the last one
	page, err = orderDB.ListOrders(models.OrderFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Orders, 1)

	// Newest orders come first
	page, err = orderDB.ListOrders(models.OrderFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "Dana", page.Orders[0].ContactName)
	assert.Equal(t, "Priya", page.Orders[4].ContactName)
}

func TestListOrdersDefaultsEmptyPage(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	page, err := orderDB.ListOrders(models.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Orders)
	assert.Empty(t, page.Orders)
}

func TestListOrdersByStatus(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	pending := testOrder("Dana")
	ready := testOrder("Miriam")
	ready.Status = models.StatusReady
	require.NoError(t, orderDB.CreateOrder(pending))
	require.NoError(t, orderDB.CreateOrder(ready))

	found, err := orderDB.ListOrdersByStatus(models.StatusReady)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ready.OrderID, found[0].OrderID)
}

func TestListOrdersDueBetween(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	today := testOrder("Dana")
	today.PickupDate = time.Now().Add(2 * time.Hour)
	nextWeek := testOrder("Miriam")
	nextWeek.PickupDate = time.Now().Add(7 * 24 * time.Hour)
	require.NoError(t, orderDB.CreateOrder(today))
	require.NoError(t, orderDB.CreateOrder(nextWeek))

	from := time.Now()
	to := from.Add(24 * time.Hour)
	due, err := orderDB.ListOrdersDueBetween(from, to)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, today.OrderID, due[0].OrderID)
}
