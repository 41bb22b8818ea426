package draftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"love-surprise-backend/internal/models"
)

// MemoryBackend keeps drafts serialized in memory, so preview handles are
// dropped exactly like they are with Redis.
type MemoryBackend struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{drafts: make(map[string][]byte)}
}

func (m *MemoryBackend) ForClient(clientID string) Store {
	return &memoryStore{backend: m, clientID: clientID}
}

type memoryStore struct {
	backend  *MemoryBackend
	clientID string
}

func (s *memoryStore) Get(ctx context.Context) (*models.DraftSurprise, error) {
	s.backend.mu.Lock()
	raw, ok := s.backend.drafts[s.clientID]
	s.backend.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var draft models.DraftSurprise
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

func (s *memoryStore) Set(ctx context.Context, draft models.DraftSurprise) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	s.backend.mu.Lock()
	s.backend.drafts[s.clientID] = raw
	s.backend.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.backend.mu.Lock()
	delete(s.backend.drafts, s.clientID)
	s.backend.mu.Unlock()
	return nil
}
