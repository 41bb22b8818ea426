package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	metadataSurpriseID = "surpriseId"
	metadataUserID     = "userId"
)

type StripeProvider struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

func NewStripeProvider(secretKey, webhookSecret string, logger *zap.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger.Named("Stripe"),
	}
}

// CreatePaymentIntent finds or creates the customer by e-mail and confirms
// a BRL intent for the amount with the given payment method.
func (s *StripeProvider) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	customerID, err := s.customerFor(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(string(stripe.CurrencyBRL)),
		Customer:      stripe.String(customerID),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata(metadataSurpriseID, req.SurpriseID.String())
	params.AddMetadata(metadataUserID, req.UserID.String())

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			s.logger.Info("Card declined",
				zap.String("surpriseID", req.SurpriseID.String()),
				zap.String("code", string(stripeErr.Code)),
			)
			return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, stripeErr.Msg)
		}
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func (s *StripeProvider) customerFor(ctx context.Context, email string) (string, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := s.api.Customers.List(listParams)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("failed to look up customer: %w", err)
	}

	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	c, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return c.ID, nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts the
// surprise the event is about.
func (s *StripeProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type), Kind: EventIgnored}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		out.ProviderRef = pi.ID
		out.SurpriseID = surpriseFromMetadata(pi.Metadata)
		out.Kind = EventSucceeded
		if event.Type == "payment_intent.payment_failed" {
			out.Kind = EventFailed
		}

	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.ProviderRef = cs.ID
		if cs.PaymentIntent != nil && cs.PaymentIntent.ID != "" {
			out.ProviderRef = cs.PaymentIntent.ID
		}
		out.SurpriseID = surpriseFromMetadata(cs.Metadata)
		out.Kind = EventSucceeded
	}

	if out.Kind != EventIgnored && out.SurpriseID == uuid.Nil {
		s.logger.Warn("Webhook event without surprise metadata",
			zap.String("eventID", event.ID),
			zap.String("type", out.Type),
		)
		out.Kind = EventIgnored
	}
	return out, nil
}

func surpriseFromMetadata(md map[string]string) uuid.UUID {
	id, err := uuid.Parse(md[metadataSurpriseID])
	if err != nil {
		return uuid.Nil
	}
	return id
}
