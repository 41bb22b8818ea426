package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/payment"
	"love-surprise-backend/internal/supabase"
)

var (
	ErrNotFound    = errors.New("surprise not found")
	ErrAlreadyPaid = errors.New("surprise is already paid")
)

type PaymentStore interface {
	GetSurprise(ctx context.Context, surpriseID, userID uuid.UUID) (*models.Surprise, error)
	GetSurpriseByID(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error)
	MarkPendingPayment(ctx context.Context, surpriseID uuid.UUID) error
	ActivateSurprise(ctx context.Context, surpriseID uuid.UUID, expiresAt sql.NullTime) (bool, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	SetPaymentStatus(ctx context.Context, providerRef, status string) (*models.Payment, error)
}

type PaymentService struct {
	store    PaymentStore
	provider payment.Provider
	notifier commit.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewPaymentService(store PaymentStore, provider payment.Provider, notifier commit.Notifier, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		store:    store,
		provider: provider,
		notifier: notifier,
		now:      time.Now,
		logger:   logger.Named("PaymentService"),
	}
}

// Pay charges the plan price of an owned surprise and moves it to
// pending_payment until the provider confirms.
func (s *PaymentService) Pay(ctx context.Context, principal models.Principal, surpriseID uuid.UUID, paymentMethodID string) (*payment.Intent, error) {
	surprise, err := s.store.GetSurprise(ctx, surpriseID, principal.UserID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if surprise.Status == models.SurpriseStatusActive {
		return nil, ErrAlreadyPaid
	}

	amount := surprise.Plan.Limits().PriceCents
	intent, err := s.provider.CreatePaymentIntent(ctx, payment.IntentRequest{
		CustomerEmail:   principal.Email,
		AmountCents:     amount,
		PaymentMethodID: paymentMethodID,
		SurpriseID:      surprise.ID,
		UserID:          principal.UserID,
	})
	if err != nil {
		return nil, err
	}

	err = s.store.CreatePayment(ctx, &models.Payment{
		SurpriseID:    surprise.ID,
		UserID:        principal.UserID,
		Amount:        amount,
		Status:        models.PaymentStatusPending,
		PaymentMethod: "card",
		ProviderRef:   sql.NullString{String: intent.ID, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if err := s.store.MarkPendingPayment(ctx, surprise.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Payment intent created",
		zap.String("surpriseID", surprise.ID.String()),
		zap.String("intentID", intent.ID),
		zap.String("status", intent.Status),
	)
	return intent, nil
}

// HandleEvent applies a verified provider event. Redelivered events are
// harmless.
func (s *PaymentService) HandleEvent(ctx context.Context, event *payment.Event) error {
	switch event.Kind {
	case payment.EventSucceeded:
		return s.activate(ctx, event)
	case payment.EventFailed:
		if _, err := s.store.SetPaymentStatus(ctx, event.ProviderRef, models.PaymentStatusFailed); err != nil && !errors.Is(err, supabase.ErrNotFound) {
			return err
		}
		s.logger.Info("Payment failed", zap.String("surpriseID", event.SurpriseID.String()), zap.String("ref", event.ProviderRef))
		return nil
	default:
		s.logger.Debug("Ignoring webhook event", zap.String("type", event.Type))
		return nil
	}
}

func (s *PaymentService) activate(ctx context.Context, event *payment.Event) error {
	surprise, err := s.store.GetSurpriseByID(ctx, event.SurpriseID)
	if errors.Is(err, supabase.ErrNotFound) {
		s.logger.Warn("Paid surprise does not exist", zap.String("surpriseID", event.SurpriseID.String()))
		return nil
	}
	if err != nil {
		return err
	}

	var expiresAt sql.NullTime
	if days := surprise.Plan.Limits().ValidityDays; days > 0 {
		expiresAt = sql.NullTime{Time: s.now().Add(time.Duration(days) * 24 * time.Hour), Valid: true}
	}

	activated, err := s.store.ActivateSurprise(ctx, surprise.ID, expiresAt)
	if err != nil {
		return err
	}
	if _, err := s.store.SetPaymentStatus(ctx, event.ProviderRef, models.PaymentStatusCompleted); err != nil && !errors.Is(err, supabase.ErrNotFound) {
		return err
	}
	if !activated {
		return nil
	}

	s.logger.Info("Surprise activated", zap.String("surpriseID", surprise.ID.String()))
	if s.notifier != nil {
		msg := fmt.Sprintf("O pagamento da surpresa \"%s\" foi confirmado!", surprise.CoupleName)
		if err := s.notifier.Notify(ctx, surprise.UserID, surprise.ID, models.NotificationPaid, msg); err != nil {
			s.logger.Warn("Failed to create notification", zap.String("surpriseID", surprise.ID.String()), zap.Error(err))
		}
	}
	return nil
}
