package draftstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
	"love-surprise-backend/internal/draftstore"
	"love-surprise-backend/internal/models"
)

func sampleDraft() models.DraftSurprise {
	d := models.NewDraft()
	d.CoupleName = "Ana & Bruno"
	d.StartDate = "2020-01-01"
	d.Message = "Te amo"
	d.Plan = models.PlanPremium
	d.PhotoRefs = []string{"ref-1", "ref-2"}
	d.PreviewURLs = []string{"preview-1", "preview-2"}
	d.UpdatedAt = time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
	return d
}

func exerciseStore(t *testing.T, backend draftstore.Backend) {
	ctx := context.Background()
	store := backend.ForClient("client-a")

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty slot")

	draft := sampleDraft()
	require.NoError(t, store.Set(ctx, draft))

	got, err = store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, draft.CoupleName, got.CoupleName)
	assert.Equal(t, draft.PhotoRefs, got.PhotoRefs)
	assert.Empty(t, got.PreviewURLs, "preview handles never cross a navigation")

	// Single slot: the last writer wins.
	replacement := models.NewDraft()
	replacement.CoupleName = "Carla & Davi"
	require.NoError(t, store.Set(ctx, replacement))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, got.ID)

	other, err := backend.ForClient("client-b").Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryBackend(t *testing.T) {
	exerciseStore(t, draftstore.NewMemoryBackend())
}

func TestRedisBackend(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run against a Redis container")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "docker.io/redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, draftstore.NewRedisBackend(client, time.Hour, zap.NewNop()))
}
