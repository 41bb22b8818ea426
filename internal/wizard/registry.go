package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"love-surprise-backend/internal/draftstore"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/preview"
)

// Registry holds the live wizard of every browser profile. A profile
// without one gets a wizard restored from its draft slot.
type Registry struct {
	mu      sync.RWMutex
	wizards map[string]*Wizard

	drafts   draftstore.Backend
	files    filestore.Backend
	previews *preview.Registry
	saver    Saver
	logger   *zap.Logger
}

func NewRegistry(drafts draftstore.Backend, files filestore.Backend, previews *preview.Registry, saver Saver, logger *zap.Logger) *Registry {
	return &Registry{
		wizards:  make(map[string]*Wizard),
		drafts:   drafts,
		files:    files,
		previews: previews,
		saver:    saver,
		logger:   logger,
	}
}

func (r *Registry) Get(ctx context.Context, clientID string) *Wizard {
	r.mu.RLock()
	w, ok := r.wizards[clientID]
	r.mu.RUnlock()
	if ok {
		return w
	}

	w = New(clientID, r.drafts.ForClient(clientID), r.files.ForClient(clientID), r.previews, r.saver, r.logger)
	if _, err := w.Restore(ctx); err != nil {
		r.logger.Warn("Failed to restore draft, starting empty", zap.String("clientID", clientID), zap.Error(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.wizards[clientID]; ok {
		w.release()
		return existing
	}
	r.wizards[clientID] = w
	return w
}

// Forget drops the in-memory wizard. Its draft slot and blobs stay.
func (r *Registry) Forget(clientID string) {
	r.mu.Lock()
	w, ok := r.wizards[clientID]
	delete(r.wizards, clientID)
	r.mu.Unlock()
	if ok {
		w.release()
	}
}

// Prune checkpoints and forgets wizards idle for longer than idle. The next
// request from such a profile restores from its draft slot. A wizard whose
// checkpoint fails stays live.
func (r *Registry) Prune(ctx context.Context, idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	// The checkpoint happens under the registry lock so a concurrent Get
	// cannot restore from a slot that is about to be overwritten.
	r.mu.Lock()
	var stale []*Wizard
	for id, w := range r.wizards {
		if !w.idleSince().Before(cutoff) {
			continue
		}
		if err := w.Checkpoint(ctx); err != nil {
			r.logger.Warn("Failed to checkpoint idle wizard", zap.String("clientID", id), zap.Error(err))
			continue
		}
		stale = append(stale, w)
		delete(r.wizards, id)
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.release()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.wizards)
}
