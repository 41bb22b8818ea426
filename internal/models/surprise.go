package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	SurpriseStatusDraft          = "draft"
	SurpriseStatusPendingPayment = "pending_payment"
	SurpriseStatusActive         = "active"
	SurpriseStatusExpired        = "expired"
)

const (
	NotificationCreated = "created"
	NotificationPaid    = "paid"
	NotificationViewed  = "viewed"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// DraftSurprise is the authored-but-not-committed surprise. PreviewURLs are
// process-local handles and are never serialized.
type DraftSurprise struct {
	ID          uuid.UUID `json:"id"`
	CoupleName  string    `json:"couple_name"`
	StartDate   string    `json:"start_date"`
	Message     string    `json:"message"`
	YoutubeLink string    `json:"youtube_link,omitempty"`
	Plan        Plan      `json:"plan"`
	PhotoRefs   []string  `json:"photo_refs"`
	PreviewURLs []string  `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDraft returns an empty draft on the basic plan with a fresh id.
func NewDraft() DraftSurprise {
	return DraftSurprise{
		ID:        uuid.New(),
		Plan:      PlanBasic,
		PhotoRefs: []string{},
	}
}

// Clone returns a deep copy of d.
func (d DraftSurprise) Clone() DraftSurprise {
	out := d
	out.PhotoRefs = append([]string{}, d.PhotoRefs...)
	out.PreviewURLs = append([]string{}, d.PreviewURLs...)
	return out
}

type Surprise struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CoupleName  string
	StartDate   string
	Message     sql.NullString
	YoutubeLink sql.NullString
	Plan        Plan
	Status      string
	Views       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   sql.NullTime
	Photos      []SurprisePhoto
}

type SurprisePhoto struct {
	ID          uuid.UUID
	SurpriseID  uuid.UUID
	PhotoURL    string
	StoragePath string
	OrderIndex  int
	CreatedAt   time.Time
}

type Notification struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	SurpriseID uuid.UUID
	Type       string
	Message    string
	Read       bool
	CreatedAt  time.Time
}

type Payment struct {
	ID            uuid.UUID
	SurpriseID    uuid.UUID
	UserID        uuid.UUID
	Amount        int64
	Status        string
	PaymentMethod string
	ProviderRef   sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
