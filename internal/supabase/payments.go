package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"love-surprise-backend/internal/models"
)

func (d *DatabaseClient) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO payments (id, surprise_id, user_id, amount, status, payment_method, provider_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_ref) DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, p.ID, p.SurpriseID, p.UserID, p.Amount, p.Status, p.PaymentMethod, p.ProviderRef).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// SetPaymentStatus updates the payment recorded for a provider reference
// and returns it.
func (d *DatabaseClient) SetPaymentStatus(ctx context.Context, providerRef, status string) (*models.Payment, error) {
	var p models.Payment
	err := d.db.QueryRowContext(ctx, `
		UPDATE payments SET status = $1
		WHERE provider_ref = $2
		RETURNING id, surprise_id, user_id, amount, status, payment_method, provider_ref, created_at, updated_at
	`, status, providerRef).Scan(
		&p.ID, &p.SurpriseID, &p.UserID, &p.Amount, &p.Status, &p.PaymentMethod,
		&p.ProviderRef, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return &p, nil
}
