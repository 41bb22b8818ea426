package filestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBackend keeps blobs in process memory. It is used in tests and when
// no FILESTORE_PATH is configured.
type MemoryBackend struct {
	mu       sync.Mutex
	maxBytes int64
	clients  map[string]map[string]Blob
	now      func() time.Time
}

func NewMemoryBackend(maxBytesPerClient int64) *MemoryBackend {
	return &MemoryBackend{
		maxBytes: maxBytesPerClient,
		clients:  make(map[string]map[string]Blob),
		now:      time.Now,
	}
}

func (m *MemoryBackend) ForClient(clientID string) Store {
	return &memoryStore{backend: m, clientID: clientID}
}

func (m *MemoryBackend) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for clientID, blobs := range m.clients {
		for id, b := range blobs {
			if b.CreatedAt.Before(olderThan) {
				delete(blobs, id)
				removed++
			}
		}
		if len(blobs) == 0 {
			delete(m.clients, clientID)
		}
	}
	return removed, nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

type memoryStore struct {
	backend  *MemoryBackend
	clientID string
}

func (s *memoryStore) Save(ctx context.Context, b Blob) (string, error) {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()

	blobs := m.clients[s.clientID]
	if blobs == nil {
		blobs = make(map[string]Blob)
		m.clients[s.clientID] = blobs
	}

	var used int64
	for _, existing := range blobs {
		used += existing.Size()
	}
	if m.maxBytes > 0 && used+b.Size() > m.maxBytes {
		return "", fmt.Errorf("%w: %d of %d bytes in use", ErrStorageFull, used, m.maxBytes)
	}

	b.ID = uuid.NewString()
	b.CreatedAt = m.now()
	b.Data = append([]byte(nil), b.Data...)
	blobs[b.ID] = b
	return b.ID, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Blob, error) {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.clients[s.clientID][id]
	if !ok {
		return nil, ErrNotFound
	}
	b.Data = append([]byte(nil), b.Data...)
	return &b, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.clients[s.clientID], id)
	return nil
}

func (s *memoryStore) ClearAll(ctx context.Context) error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.clients, s.clientID)
	return nil
}
