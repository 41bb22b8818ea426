package supabase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/models"
)

// RealtimeNotifier records user notifications. The notifications table is
// part of the supabase_realtime publication, so every insert is pushed to
// the user's subscribed browsers without an explicit publish call.
type RealtimeNotifier struct {
	db     *DatabaseClient
	logger *zap.Logger
}

func NewRealtimeNotifier(db *DatabaseClient, logger *zap.Logger) *RealtimeNotifier {
	return &RealtimeNotifier{
		db:     db,
		logger: logger.Named("RealtimeNotifier"),
	}
}

func (r *RealtimeNotifier) Notify(ctx context.Context, userID, surpriseID uuid.UUID, kind, message string) error {
	n := &models.Notification{
		UserID:     userID,
		SurpriseID: surpriseID,
		Type:       kind,
		Message:    message,
	}
	if err := r.db.CreateNotification(ctx, n); err != nil {
		return err
	}
	r.logger.Debug("Notification published",
		zap.String("userID", userID.String()),
		zap.String("surpriseID", surpriseID.String()),
		zap.String("type", kind),
	)
	return nil
}
