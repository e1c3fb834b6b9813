package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bakery/internal/models"
)

func TestShowAssignsDefaults(t *testing.T) {
	toaster := NewToaster(3, 5*time.Second)

	toast := toaster.Show(models.ToastSuccess, "", "Order created", 0)

	assert.NotEmpty(t, toast.ID)
	assert.Equal(t, models.ToastSuccess, toast.Kind)
	assert.Equal(t, 5*time.Second, toast.Duration)
	assert.Len(t, toaster.Active(), 1)
}

func TestOldestToastEvictedAtCap(t *testing.T) {
	toaster := NewToaster(3, time.Minute)

	first := toaster.Show(models.ToastInfo, "", "one", 0)
	toaster.Show(models.ToastInfo, "", "two", 0)
	toaster.Show(models.ToastInfo, "", "three", 0)
	toaster.Show(models.ToastInfo, "", "four", 0)

	active := toaster.Active()
	require.Len(t, active, 3)
	for _, toast := range active {
		assert.NotEqual(t, first.ID, toast.ID, "oldest toast should have been evicted")
	}
	assert.Equal(t, "two", active[0].Message)
	assert.Equal(t, "four", active[2].Message)
}

func TestToastExpiresAfterDuration(t *testing.T) {
	toaster := NewToaster(3, time.Minute)

	toaster.Show(models.ToastWarning, "", "short lived", 20*time.Millisecond)
	require.Len(t, toaster.Active(), 1)

	assert.Eventually(t, func() bool {
		return len(toaster.Active()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSubscribeReceivesBroadcast(t *testing.T) {
	toaster := NewToaster(3, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := toaster.Subscribe(ctx)
	require.Equal(t, 1, toaster.ClientCount())

	toaster.Error("something broke")

	select {
	case toast := <-ch:
		assert.Equal(t, models.ToastError, toast.Kind)
		assert.Equal(t, "something broke", toast.Message)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast toast")
	}
}

func TestUnsubscribeOnContextDone(t *testing.T) {
	toaster := NewToaster(3, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	ch := toaster.Subscribe(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		return toaster.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// Channel should be closed after removal
	_, ok := <-ch
	assert.False(t, ok)
}
