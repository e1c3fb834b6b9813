package board

import "ms-bakery/internal/models"

// Column is one lane of the fulfillment board. Columns are a fixed,
// ordered grouping over order status and are never persisted.
type Column struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Accent string `json:"accent"`
	Status string `json:"status"`
}

// Columns returns the six lanes in production order.
func Columns() []Column {
	return []Column{
		{ID: "pending", Label: "Pending", Accent: "amber", Status: models.StatusPending},
		{ID: "in_prep", Label: "In Prep", Accent: "blue", Status: models.StatusInPrep},
		{ID: "in_decoration", Label: "Decorating", Accent: "purple", Status: models.StatusInDecoration},
		{ID: "ready", Label: "Ready", Accent: "green", Status: models.StatusReady},
		{ID: "completed", Label: "Completed", Accent: "teal", Status: models.StatusCompleted},
		{ID: "picked_up", Label: "Picked Up", Accent: "gray", Status: models.StatusPickedUp},
	}
}

// StatusForColumn maps a column id to its order status. Returns false for
// unknown columns.
func StatusForColumn(columnID string) (string, bool) {
	for _, column := range Columns() {
		if column.ID == columnID {
			return column.Status, true
		}
	}
	return "", false
}

// ColumnForStatus maps an order status to its column id. Orders carrying a
// status the board doesn't recognize land in the pending column.
func ColumnForStatus(status string) string {
	for _, column := range Columns() {
		if column.Status == status {
			return column.ID
		}
	}
	return "pending"
}
