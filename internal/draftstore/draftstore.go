// Package draftstore holds the single in-progress draft of each browser
// profile across page navigations. A new Set overwrites whatever was there.
package draftstore

import (
	"context"

	"love-surprise-backend/internal/models"
)

type Store interface {
	// Get returns the stored draft, or nil when the slot is empty.
	Get(ctx context.Context) (*models.DraftSurprise, error)
	Set(ctx context.Context, draft models.DraftSurprise) error
	Clear(ctx context.Context) error
}

type Backend interface {
	ForClient(clientID string) Store
}
