package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/retry"
	"love-surprise-backend/internal/supabase"
)

// ErrNotEditable is returned when an active surprise is edited.
var ErrNotEditable = errors.New("surprise can no longer be edited")

// InputError rejects an edit before anything is written.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func inputError(field, format string, args ...any) error {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type SurpriseStore interface {
	ListSurprises(ctx context.Context, userID uuid.UUID) ([]models.Surprise, error)
	GetSurprise(ctx context.Context, surpriseID, userID uuid.UUID) (*models.Surprise, error)
	GetActiveSurprise(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error)
	DeleteSurprise(ctx context.Context, surpriseID, userID uuid.UUID) ([]string, error)
	IncrementViews(ctx context.Context, surpriseID uuid.UUID) error
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error
	UpdateSurpriseDetails(ctx context.Context, s *models.Surprise) error
	DeleteSurprisePhotos(ctx context.Context, surpriseID uuid.UUID, photoIDs []uuid.UUID) ([]string, error)
	UpsertSurprisePhotos(ctx context.Context, photos []models.SurprisePhoto) error
}

// PhotoUploader stores photos with the commit retry policy.
type PhotoUploader interface {
	UploadPhotos(ctx context.Context, surpriseID uuid.UUID, firstIndex int, photos []commit.Photo) []commit.PhotoResult
}

// SurpriseUpdate is an edit of a surprise that has not been paid yet. The
// plan is fixed once the surprise exists.
type SurpriseUpdate struct {
	CoupleName      string
	StartDate       string
	Message         string
	YoutubeLink     string
	DeletedPhotoIDs []uuid.UUID
	NewPhotos       []commit.Photo
}

type UpdateResult struct {
	Surprise *models.Surprise
	// FailedPhotos are positions in NewPhotos that could not be uploaded.
	FailedPhotos []int
}

// SurpriseService backs the dashboard and the public share page.
type SurpriseService struct {
	store    SurpriseStore
	objects  ObjectRemover
	uploader PhotoUploader
	notifier commit.Notifier
	logger   *zap.Logger
}

func NewSurpriseService(store SurpriseStore, objects ObjectRemover, uploader PhotoUploader, notifier commit.Notifier, logger *zap.Logger) *SurpriseService {
	return &SurpriseService{
		store:    store,
		objects:  objects,
		uploader: uploader,
		notifier: notifier,
		logger:   logger.Named("SurpriseService"),
	}
}

func (s *SurpriseService) List(ctx context.Context, userID uuid.UUID) ([]models.Surprise, error) {
	return s.store.ListSurprises(ctx, userID)
}

func (s *SurpriseService) Get(ctx context.Context, surpriseID, userID uuid.UUID) (*models.Surprise, error) {
	surprise, err := s.store.GetSurprise(ctx, surpriseID, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrNotFound
	}
	return surprise, err
}

// Delete removes an owned surprise and then its stored photos. A storage
// failure leaves orphaned objects but the surprise is gone.
func (s *SurpriseService) Delete(ctx context.Context, surpriseID, userID uuid.UUID) error {
	paths, err := s.store.DeleteSurprise(ctx, surpriseID, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.removeObjects(ctx, surpriseID, paths)
	s.logger.Info("Surprise deleted", zap.String("surpriseID", surpriseID.String()))
	return nil
}

// Update edits an owned surprise that is not active yet. Deleted photos must
// belong to it and new ones are appended after the existing positions. New
// photos that fail to upload are reported, not fatal, as long as the
// surprise keeps at least one photo.
func (s *SurpriseService) Update(ctx context.Context, surpriseID, userID uuid.UUID, in SurpriseUpdate) (*UpdateResult, error) {
	current, err := s.Get(ctx, surpriseID, userID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.SurpriseStatusActive {
		return nil, ErrNotEditable
	}

	updated, err := applyUpdate(current, in)
	if err != nil {
		return nil, err
	}
	deleted, err := photosToDelete(current, in.DeletedPhotoIDs)
	if err != nil {
		return nil, err
	}
	remaining := len(current.Photos) - len(deleted)
	if limit := current.Plan.MaxPhotos(); remaining+len(in.NewPhotos) > limit {
		return nil, inputError("photos", "the %s plan allows up to %d photos; %d kept and %d added", current.Plan, limit, remaining, len(in.NewPhotos))
	}
	if remaining+len(in.NewPhotos) == 0 {
		return nil, inputError("photos", "a surprise needs at least one photo")
	}
	for i, p := range in.NewPhotos {
		if _, err := retry.ValidatePhoto(p.ContentType, len(p.Data)); err != nil {
			return nil, inputError("photos", "file %d (%s): %v", i+1, p.Filename, err)
		}
	}

	results := s.uploadNew(ctx, current, in.NewPhotos)
	rows := make([]models.SurprisePhoto, 0, len(results))
	var uploaded []string
	result := &UpdateResult{}
	for i, r := range results {
		if !r.OK() {
			result.FailedPhotos = append(result.FailedPhotos, i)
			continue
		}
		uploaded = append(uploaded, r.StoragePath)
		rows = append(rows, models.SurprisePhoto{
			ID:          uuid.New(),
			SurpriseID:  surpriseID,
			PhotoURL:    r.URL,
			StoragePath: r.StoragePath,
			OrderIndex:  r.Index,
		})
	}
	if remaining+len(rows) == 0 {
		return nil, fmt.Errorf("%w: none of the new photos could be uploaded", commit.ErrCommitFailed)
	}

	if err := s.store.UpdateSurpriseDetails(ctx, updated); err != nil {
		s.removeObjects(ctx, surpriseID, uploaded)
		switch {
		case errors.Is(err, supabase.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, supabase.ErrConflict):
			return nil, ErrNotEditable
		}
		return nil, err
	}
	if len(rows) > 0 {
		if err := s.store.UpsertSurprisePhotos(ctx, rows); err != nil {
			s.removeObjects(ctx, surpriseID, uploaded)
			return nil, err
		}
	}
	if len(deleted) > 0 {
		paths, err := s.store.DeleteSurprisePhotos(ctx, surpriseID, deleted)
		if err != nil {
			return nil, err
		}
		s.removeObjects(ctx, surpriseID, paths)
	}

	if result.Surprise, err = s.Get(ctx, surpriseID, userID); err != nil {
		return nil, err
	}
	s.logger.Info("Surprise updated",
		zap.String("surpriseID", surpriseID.String()),
		zap.Int("deletedPhotos", len(deleted)),
		zap.Int("addedPhotos", len(rows)),
		zap.Int("failedPhotos", len(result.FailedPhotos)),
	)
	return result, nil
}

func applyUpdate(current *models.Surprise, in SurpriseUpdate) (*models.Surprise, error) {
	coupleName := strings.TrimSpace(in.CoupleName)
	startDate := strings.TrimSpace(in.StartDate)
	message := strings.TrimSpace(in.Message)
	youtubeLink := strings.TrimSpace(in.YoutubeLink)

	if coupleName == "" {
		return nil, inputError("couple_name", "couple name is required")
	}
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return nil, inputError("start_date", "%q is not a valid date (expected YYYY-MM-DD)", startDate)
	}
	if message == "" {
		return nil, inputError("message", "message is required")
	}
	if !current.Plan.Limits().HasYoutube {
		youtubeLink = ""
	}
	if youtubeLink != "" && !models.IsYoutubeLink(youtubeLink) {
		return nil, inputError("youtube_link", "%q is not a YouTube link", youtubeLink)
	}

	updated := *current
	updated.Photos = nil
	updated.CoupleName = coupleName
	updated.StartDate = startDate
	updated.Message = sql.NullString{String: message, Valid: true}
	updated.YoutubeLink = sql.NullString{String: youtubeLink, Valid: youtubeLink != ""}
	return &updated, nil
}

// photosToDelete checks that every id is a photo of current, ignoring
// repeats.
func photosToDelete(current *models.Surprise, ids []uuid.UUID) ([]uuid.UUID, error) {
	owned := make(map[uuid.UUID]bool, len(current.Photos))
	for _, p := range current.Photos {
		owned[p.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !owned[id] {
			return nil, inputError("deleted_photo_ids", "photo %s is not part of this surprise", id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// uploadNew stores new photos after the highest existing position, so no
// path of a photo being deleted is reused.
func (s *SurpriseService) uploadNew(ctx context.Context, current *models.Surprise, photos []commit.Photo) []commit.PhotoResult {
	if len(photos) == 0 {
		return nil
	}
	next := 0
	for _, p := range current.Photos {
		if p.OrderIndex >= next {
			next = p.OrderIndex + 1
		}
	}
	return s.uploader.UploadPhotos(ctx, current.ID, next, photos)
}

func (s *SurpriseService) removeObjects(ctx context.Context, surpriseID uuid.UUID, paths []string) {
	if len(paths) == 0 || s.objects == nil {
		return
	}
	if err := s.objects.RemoveFiles(ctx, paths); err != nil {
		s.logger.Warn("Failed to remove surprise photos",
			zap.String("surpriseID", surpriseID.String()),
			zap.Strings("paths", paths),
			zap.Error(err),
		)
	}
}

// View returns an active surprise for its public page and counts the
// visit. Drafts, unpaid and expired surprises are not found.
func (s *SurpriseService) View(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error) {
	surprise, err := s.store.GetActiveSurprise(ctx, surpriseID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementViews(ctx, surprise.ID); err != nil {
		s.logger.Warn("Failed to count view", zap.String("surpriseID", surprise.ID.String()), zap.Error(err))
	} else {
		surprise.Views++
	}

	// Only the first visit notifies the author.
	if surprise.Views == 1 && s.notifier != nil {
		msg := fmt.Sprintf("Sua surpresa \"%s\" foi aberta pela primeira vez!", surprise.CoupleName)
		if err := s.notifier.Notify(ctx, surprise.UserID, surprise.ID, models.NotificationViewed, msg); err != nil {
			s.logger.Warn("Failed to create notification", zap.String("surpriseID", surprise.ID.String()), zap.Error(err))
		}
	}
	return surprise, nil
}

func (s *SurpriseService) Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID, limit)
}

func (s *SurpriseService) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	err := s.store.MarkNotificationRead(ctx, notificationID, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
