package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ms-bakery/internal/models"
)

// Toaster is the admin UI's notification center. It keeps a bounded list of
// active toasts (oldest evicted first once the cap is reached) and broadcasts
// every toast to subscribed SSE clients. Delivery is fire-and-forget: callers
// never block on a slow or absent client.
type Toaster struct {
	maxVisible      int
	defaultDuration time.Duration

	mu     sync.RWMutex
	active []models.Toast

	clientMutex sync.RWMutex
	clients     []chan models.Toast

	// overridable in tests to avoid real timers
	now func() time.Time
}

func NewToaster(maxVisible int, defaultDuration time.Duration) *Toaster {
	if maxVisible <= 0 {
		maxVisible = 3
	}
	if defaultDuration <= 0 {
		defaultDuration = 5000 * time.Millisecond
	}
	return &Toaster{
		maxVisible:      maxVisible,
		defaultDuration: defaultDuration,
		now:             time.Now,
	}
}

// Show pushes a toast with an explicit kind, title and duration. A zero
// duration falls back to the default. Returns the stored toast.
func (t *Toaster) Show(kind, title, message string, duration time.Duration) models.Toast {
	if duration <= 0 {
		duration = t.defaultDuration
	}

	toast := models.Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Duration:  duration,
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	t.active = append(t.active, toast)
	// Oldest toast goes first once we're over the visible cap
	for len(t.active) > t.maxVisible {
		t.active = t.active[1:]
	}
	t.mu.Unlock()

	// Schedule removal after the toast's duration
	time.AfterFunc(duration, func() {
		t.dismiss(toast.ID)
	})

	t.broadcast(toast)
	return toast
}

func (t *Toaster) Success(message string) { t.Show(models.ToastSuccess, "", message, 0) }
func (t *Toaster) Error(message string)   { t.Show(models.ToastError, "", message, 0) }
func (t *Toaster) Warning(message string) { t.Show(models.ToastWarning, "", message, 0) }
func (t *Toaster) Info(message string)    { t.Show(models.ToastInfo, "", message, 0) }

// Active returns a snapshot of the currently visible toasts.
func (t *Toaster) Active() []models.Toast {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Toast, len(t.active))
	copy(out, t.active)
	return out
}

// Dismiss removes a toast ahead of its timer, e.g. when the user clicks it
// away.
func (t *Toaster) Dismiss(id string) {
	t.dismiss(id)
}

func (t *Toaster) dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, toast := range t.active {
		if toast.ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			break
		}
	}
}

// Subscribe adds an SSE client. The returned channel is closed when the
// client's context is done.
func (t *Toaster) Subscribe(ctx context.Context) chan models.Toast {
	clientChan := make(chan models.Toast, 10)

	t.clientMutex.Lock()
	t.clients = append(t.clients, clientChan)
	t.clientMutex.Unlock()

	go func() {
		<-ctx.Done()
		t.removeClient(clientChan)
	}()

	return clientChan
}

func (t *Toaster) broadcast(toast models.Toast) {
	t.clientMutex.RLock()
	clients := t.clients
	t.clientMutex.RUnlock()

	for _, clientChan := range clients {
		// Non-blocking send so a slow client can't stall the emitter
		select {
		case clientChan <- toast:
		default:
			// Channel buffer full, skip this client for now
		}
	}
}

func (t *Toaster) removeClient(clientChan chan models.Toast) {
	t.clientMutex.Lock()
	defer t.clientMutex.Unlock()

	for i, ch := range t.clients {
		if ch == clientChan {
			t.clients = append(t.clients[:i], t.clients[i+1:]...)
			close(clientChan)
			break
		}
	}
}

// ClientCount returns the number of connected SSE clients.
func (t *Toaster) ClientCount() int {
	t.clientMutex.RLock()
	defer t.clientMutex.RUnlock()
	return len(t.clients)
}
