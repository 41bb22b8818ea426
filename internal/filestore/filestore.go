// Package filestore keeps user-selected photo blobs outside the database
// until the surprise they belong to is committed. Blobs are scoped to a
// browser profile (client id) and survive page navigations.
package filestore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrStorageFull = errors.New("ephemeral storage is full")
)

type Blob struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// Store is the view of the blob store for a single client.
type Store interface {
	// Save stores b under a new identifier and returns it. It fails with
	// ErrStorageFull when the client's capacity would be exceeded.
	Save(ctx context.Context, b Blob) (string, error)
	Get(ctx context.Context, id string) (*Blob, error)
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

// Backend hands out client-scoped stores and evicts expired blobs.
type Backend interface {
	ForClient(clientID string) Store
	Sweep(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}
