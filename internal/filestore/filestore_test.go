package filestore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"love-surprise-backend/internal/filestore"
)

func backends(t *testing.T, maxBytes int64) map[string]filestore.Backend {
	t.Helper()

	sqliteBackend, err := filestore.NewSQLiteBackend(filepath.Join(t.TempDir(), "files.db"), maxBytes, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { sqliteBackend.Close() })

	return map[string]filestore.Backend{
		"memory": filestore.NewMemoryBackend(maxBytes),
		"sqlite": sqliteBackend,
	}
}

func TestStore_SaveGetDelete(t *testing.T) {
	for name, backend := range backends(t, 1024) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := backend.ForClient("client-a")

			id, err := store.Save(ctx, filestore.Blob{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")})
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			blob, err := store.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "a.jpg", blob.Filename)
			assert.Equal(t, "image/jpeg", blob.ContentType)
			assert.Equal(t, []byte("jpeg-bytes"), blob.Data)

			require.NoError(t, store.Delete(ctx, id))
			_, err = store.Get(ctx, id)
			assert.ErrorIs(t, err, filestore.ErrNotFound)
		})
	}
}

func TestStore_ClientsAreIsolated(t *testing.T) {
	for name, backend := range backends(t, 1024) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := backend.ForClient("client-a")
			b := backend.ForClient("client-b")

			id, err := a.Save(ctx, filestore.Blob{Filename: "a.png", ContentType: "image/png", Data: []byte("png")})
			require.NoError(t, err)

			_, err = b.Get(ctx, id)
			assert.ErrorIs(t, err, filestore.ErrNotFound)

			require.NoError(t, b.ClearAll(ctx))
			_, err = a.Get(ctx, id)
			assert.NoError(t, err)
		})
	}
}

func TestStore_CapacityExceeded(t *testing.T) {
	for name, backend := range backends(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := backend.ForClient("client-a")

			_, err := store.Save(ctx, filestore.Blob{Filename: "a", ContentType: "image/png", Data: []byte("123456")})
			require.NoError(t, err)

			_, err = store.Save(ctx, filestore.Blob{Filename: "b", ContentType: "image/png", Data: []byte("123456")})
			assert.ErrorIs(t, err, filestore.ErrStorageFull)

			require.NoError(t, store.ClearAll(ctx))
			_, err = store.Save(ctx, filestore.Blob{Filename: "b", ContentType: "image/png", Data: []byte("123456")})
			assert.NoError(t, err)
		})
	}
}

func TestBackend_Sweep(t *testing.T) {
	for name, backend := range backends(t, 1024) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := backend.ForClient("client-a")

			id, err := store.Save(ctx, filestore.Blob{Filename: "a", ContentType: "image/png", Data: []byte("x")})
			require.NoError(t, err)

			removed, err := backend.Sweep(ctx, time.Now().Add(-time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(0), removed)

			removed, err = backend.Sweep(ctx, time.Now().Add(time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(1), removed)

			_, err = store.Get(ctx, id)
			assert.ErrorIs(t, err, filestore.ErrNotFound)
		})
	}
}
