// Package preview hands out process-local display handles for photo blobs
// that are still in the ephemeral store. Handles are never persisted; a
// restored draft gets new ones.
package preview

import (
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	clientID string
	ref      string
}

type Registry struct {
	mu       sync.RWMutex
	basePath string
	handles  map[string]entry
}

// NewRegistry returns a registry whose handles are URLs under basePath,
// for example /api/v1/create/previews.
func NewRegistry(basePath string) *Registry {
	return &Registry{
		basePath: basePath,
		handles:  make(map[string]entry),
	}
}

// Create registers a handle for ref and returns its URL.
func (r *Registry) Create(clientID, ref string) string {
	token := uuid.NewString()

	r.mu.Lock()
	r.handles[token] = entry{clientID: clientID, ref: ref}
	r.mu.Unlock()

	return r.basePath + "/" + token
}

// Release forgets the handle. Unknown handles are ignored.
func (r *Registry) Release(handle string) {
	r.mu.Lock()
	delete(r.handles, r.token(handle))
	r.mu.Unlock()
}

// Resolve returns the blob reference behind a handle owned by clientID.
func (r *Registry) Resolve(clientID, handle string) (string, bool) {
	r.mu.RLock()
	e, ok := r.handles[r.token(handle)]
	r.mu.RUnlock()
	if !ok || e.clientID != clientID {
		return "", false
	}
	return e.ref, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

func (r *Registry) token(handle string) string {
	prefix := r.basePath + "/"
	if len(handle) > len(prefix) && handle[:len(prefix)] == prefix {
		return handle[len(prefix):]
	}
	return handle
}
