package models

import "github.com/google/uuid"

// AuthSession is the result of a sign-in or sign-up against Supabase Auth.
type AuthSession struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
}

// Principal is an authenticated user as seen by the create flow.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
}
