package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ms-bakery/internal/builder"
)

// TestDraftStoreAgainstRealRedis runs the round trip against a containerized
// Redis. It needs Docker, so it's opted into with REDIS_INTEGRATION=1.
func TestDraftStoreAgainstRealRedis(t *testing.T) {
	if os.Getenv("REDIS_INTEGRATION") != "1" {
		t.Skip("set REDIS_INTEGRATION=1 to run the dockerized redis test")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedis(client, time.Hour)

	flow := builder.NewFlow(5, 5*1024*1024)
	require.NoError(t, flow.SetOccasion("wedding"))
	require.NoError(t, flow.CompleteStep(builder.StepOccasion))

	require.NoError(t, store.Save(ctx, "it-session", flow))

	loaded, err := store.Load(ctx, "it-session")
	require.NoError(t, err)
	require.Equal(t, "wedding", loaded.Draft.Occasion)
	require.True(t, loaded.Steps.IsCompleted(builder.StepOccasion))

	require.NoError(t, store.Delete(ctx, "it-session"))
	_, err = store.Load(ctx, "it-session")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
