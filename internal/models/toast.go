package models

import "time"

// Toast kinds, mirroring the notification variants the admin UI renders.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"
)

// Toast is a single user-facing notification. Delivery is fire-and-forget;
// callers never wait on a toast being shown.
type Toast struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Title     string        `json:"title,omitempty"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration_ms"`
	CreatedAt time.Time     `json:"created_at"`
}
