// Package payment creates payment intents for surprises and turns provider
// webhooks into events the rest of the service understands.
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrPaymentDeclined  = errors.New("payment declined")
)

type EventKind string

const (
	EventSucceeded EventKind = "succeeded"
	EventFailed    EventKind = "failed"
	EventIgnored   EventKind = "ignored"
)

type IntentRequest struct {
	CustomerEmail   string
	AmountCents     int64
	PaymentMethodID string
	SurpriseID      uuid.UUID
	UserID          uuid.UUID
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Event is a verified webhook reduced to what activation needs.
type Event struct {
	ID          string
	Type        string
	Kind        EventKind
	SurpriseID  uuid.UUID
	ProviderRef string
}

type Provider interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
