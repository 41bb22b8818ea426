package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Field names the offending input of a validation error.
	Field string `json:"field,omitempty"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

type AuthResponse struct {
	Session  *AuthSession `json:"session"`
	Saved    bool         `json:"saved"`
	Redirect string       `json:"redirect"`
	// SurpriseID is set when a parked draft was committed on sign-in.
	SurpriseID   string `json:"surprise_id,omitempty"`
	FailedPhotos []int  `json:"failed_photos,omitempty"`
	Message      string `json:"message,omitempty"`
}

type PaymentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Status          string `json:"status"`
}

type PhotoResponse struct {
	URL        string `json:"url"`
	OrderIndex int    `json:"order_index"`
}

type SurpriseResponse struct {
	ID          string          `json:"id"`
	CoupleName  string          `json:"couple_name"`
	StartDate   string          `json:"start_date"`
	Message     string          `json:"message,omitempty"`
	YoutubeLink string          `json:"youtube_link,omitempty"`
	Plan        Plan            `json:"plan"`
	Status      string          `json:"status"`
	Views       int             `json:"views"`
	ShareURL    string          `json:"share_url,omitempty"`
	Photos      []PhotoResponse `json:"photos"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

type SurpriseUpdateResponse struct {
	Surprise SurpriseResponse `json:"surprise"`
	// FailedPhotos are positions among the uploaded files that were not stored.
	FailedPhotos []int `json:"failed_photos,omitempty"`
}

type SurpriseListResponse struct {
	Surprises []SurpriseResponse `json:"surprises"`
}

// PublicSurpriseResponse is what the share page shows. It omits owner and
// billing details.
type PublicSurpriseResponse struct {
	CoupleName  string          `json:"couple_name"`
	StartDate   string          `json:"start_date"`
	Message     string          `json:"message,omitempty"`
	YoutubeLink string          `json:"youtube_link,omitempty"`
	Photos      []PhotoResponse `json:"photos"`
}

type NotificationResponse struct {
	ID         string    `json:"id"`
	SurpriseID string    `json:"surprise_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

type LifecycleResponse struct {
	DeletedDrafts   int64 `json:"deleted_drafts"`
	ExpiredBasic    int64 `json:"expired_basic"`
	SweptFiles      int64 `json:"swept_files"`
	PrunedWizards   int   `json:"pruned_wizards"`
	OrphanedObjects int   `json:"orphaned_objects,omitempty"`
}

// NewSurpriseResponse converts a stored surprise. shareURL is empty for
// surprises that are not public yet.
func NewSurpriseResponse(s *Surprise, shareURL string) SurpriseResponse {
	out := SurpriseResponse{
		ID:          s.ID.String(),
		CoupleName:  s.CoupleName,
		StartDate:   s.StartDate,
		Message:     s.Message.String,
		YoutubeLink: s.YoutubeLink.String,
		Plan:        s.Plan,
		Status:      s.Status,
		Views:       s.Views,
		ShareURL:    shareURL,
		Photos:      photoResponses(s.Photos),
		CreatedAt:   s.CreatedAt,
	}
	if s.ExpiresAt.Valid {
		t := s.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out
}

func NewPublicSurpriseResponse(s *Surprise) PublicSurpriseResponse {
	return PublicSurpriseResponse{
		CoupleName:  s.CoupleName,
		StartDate:   s.StartDate,
		Message:     s.Message.String,
		YoutubeLink: s.YoutubeLink.String,
		Photos:      photoResponses(s.Photos),
	}
}

func photoResponses(photos []SurprisePhoto) []PhotoResponse {
	out := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, PhotoResponse{URL: p.PhotoURL, OrderIndex: p.OrderIndex})
	}
	return out
}
