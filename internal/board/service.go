package board

import (
	"fmt"
	"sync"
	"time"

	"ms-bakery/internal/config"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

// OrderStore is the slice of the order repository the board needs.
type OrderStore interface {
	ListOrders(filter models.OrderFilter) (*models.OrderPage, error)
	UpdateOrderStatus(orderID, status string) error
}

// Notifier is the toast sink for move outcomes.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// StatusPublisher streams status changes to downstream consumers.
type StatusPublisher interface {
	PublishOrderStatusChanged(event models.OrderStatusEvent) error
}

// ColumnView is one rendered lane: the column metadata plus the orders
// currently in it.
type ColumnView struct {
	Column
	Orders []models.Order `json:"orders"`
}

// View is a full board snapshot.
type View struct {
	Columns []ColumnView `json:"columns"`
	Total   int          `json:"total"`
	Search  string       `json:"search,omitempty"`
}

// Service drives the fulfillment board: loading the snapshot, moving orders
// between columns and refetching after every successful move so the board
// always reflects the store.
type Service struct {
	Orders OrderStore
	Toasts Notifier
	Events StatusPublisher
	Logger *logger.Logger
	Config config.BoardConfig

	mu         sync.Mutex
	lastSearch string
	lastView   *View
}

func NewService(orders OrderStore, toasts Notifier, events StatusPublisher, log *logger.Logger, cfg config.BoardConfig) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 250
	}
	return &Service{
		Orders: orders,
		Toasts: toasts,
		Events: events,
		Logger: log,
		Config: cfg,
	}
}

// LoadOrders fetches the first page of matching orders and partitions them
// into the six columns. Orders with an unrecognized status are shown in the
// pending column rather than dropped.
func (s *Service) LoadOrders(search string) (*View, error) {
	page, err := s.Orders.ListOrders(models.OrderFilter{
		Search:   search,
		Page:     1,
		PageSize: s.Config.PageSize,
	})
	if err != nil {
		s.Logger.Error("BOARD", fmt.Sprintf("failed to load orders: %v", err))
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	view := partition(page, search)

	s.mu.Lock()
	s.lastSearch = search
	s.lastView = view
	s.mu.Unlock()

	s.Logger.LogBoard("LOAD", "", fmt.Sprintf("%d orders on the board", page.Total))
	return view, nil
}

// Refresh reloads the board with the search filter from the last load.
func (s *Service) Refresh() (*View, error) {
	s.mu.Lock()
	search := s.lastSearch
	s.mu.Unlock()
	return s.LoadOrders(search)
}

// MoveOrder changes an order's status to match its target column and
// refetches the board. Dropping an order back onto its own column is a
// no-op: no store call, no toast. A failed move surfaces an error toast and
// leaves the board as-is so the next load shows the store's truth.
func (s *Service) MoveOrder(orderID, fromColumn, toColumn, movedBy string) (*View, error) {
	if fromColumn == toColumn {
		s.mu.Lock()
		view := s.lastView
		s.mu.Unlock()
		return view, nil
	}

	toStatus, ok := StatusForColumn(toColumn)
	if !ok {
		return nil, fmt.Errorf("unknown board column: %s", toColumn)
	}
	fromStatus, ok := StatusForColumn(fromColumn)
	if !ok {
		return nil, fmt.Errorf("unknown board column: %s", fromColumn)
	}

	if err := s.Orders.UpdateOrderStatus(orderID, toStatus); err != nil {
		s.Logger.Error("BOARD", fmt.Sprintf("move failed for order %s: %v", orderID, err))
		s.Toasts.Error(fmt.Sprintf("Couldn't move order %s. Please try again.", orderID))
		return nil, fmt.Errorf("failed to move order: %w", err)
	}

	s.Toasts.Success(fmt.Sprintf("Order %s moved to %s", orderID, toStatus))
	s.Logger.LogBoard("MOVE", orderID, fmt.Sprintf("%s -> %s by %s", fromStatus, toStatus, movedBy))

	if s.Events != nil {
		event := models.OrderStatusEvent{
			OrderID:    orderID,
			FromStatus: fromStatus,
			ToStatus:   toStatus,
			MovedBy:    movedBy,
			MovedAt:    time.Now(),
		}
		if err := s.Events.PublishOrderStatusChanged(event); err != nil {
			// Best effort; the move already happened
			s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish status event for %s: %v", orderID, err))
		}
	}

	return s.Refresh()
}

// partition buckets a page of orders into the fixed columns, keeping the
// store's ordering inside each lane.
func partition(page *models.OrderPage, search string) *View {
	columns := Columns()
	byColumn := make(map[string][]models.Order, len(columns))

	for _, order := range page.Orders {
		id := ColumnForStatus(order.Status)
		byColumn[id] = append(byColumn[id], order)
	}

	view := &View{
		Columns: make([]ColumnView, 0, len(columns)),
		Total:   page.Total,
		Search:  search,
	}
	for _, column := range columns {
		orders := byColumn[column.ID]
		if orders == nil {
			orders = []models.Order{}
		}
		view.Columns = append(view.Columns, ColumnView{Column: column, Orders: orders})
	}
	return view
}
