// Package commit durably creates a surprise from a finished draft: the
// record first, then every photo uploaded concurrently to object storage.
package commit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/metrics"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/retry"
)

var (
	ErrCommitFailed    = errors.New("commit failed")
	ErrUnauthenticated = errors.New("commit requires an authenticated user")
)

type SurpriseRepository interface {
	// CreateSurprise inserts the record or, for an existing draft of the same
	// user, overwrites its details. Any other existing row is an error.
	CreateSurprise(ctx context.Context, s *models.Surprise) error
	// UpsertSurprisePhotos writes photo rows keyed by (surprise_id, order_index).
	UpsertSurprisePhotos(ctx context.Context, photos []models.SurprisePhoto) error
	// PruneSurprisePhotos deletes the rows whose order_index is not in keep
	// and returns their storage paths.
	PruneSurprisePhotos(ctx context.Context, surpriseID uuid.UUID, keep []int) ([]string, error)
}

type PhotoStorage interface {
	// UploadPhoto stores data at path, overwriting, and returns its public URL.
	UploadPhoto(ctx context.Context, path, contentType string, data []byte) (string, error)
	RemoveFiles(ctx context.Context, paths []string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID, surpriseID uuid.UUID, kind, message string) error
}

type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Request struct {
	Draft     models.DraftSurprise
	Photos    []Photo
	Principal models.Principal
}

type PhotoResult struct {
	Index       int
	URL         string
	StoragePath string
	Attempts    int
	Error       string
}

func (p PhotoResult) OK() bool {
	return p.Error == ""
}

type Result struct {
	SurpriseID uuid.UUID
	Photos     []PhotoResult
}

func (r *Result) Uploaded() int {
	n := 0
	for _, p := range r.Photos {
		if p.OK() {
			n++
		}
	}
	return n
}

func (r *Result) FailedPhotos() []PhotoResult {
	var failed []PhotoResult
	for _, p := range r.Photos {
		if !p.OK() {
			failed = append(failed, p)
		}
	}
	return failed
}

// Partial reports that some, but not all, photos failed.
func (r *Result) Partial() bool {
	up := r.Uploaded()
	return up > 0 && up < len(r.Photos)
}

// AllPhotosFailed reports that there were photos and none made it.
func (r *Result) AllPhotosFailed() bool {
	return len(r.Photos) > 0 && r.Uploaded() == 0
}

type Service struct {
	repo     SurpriseRepository
	storage  PhotoStorage
	notifier Notifier
	policy   retry.Policy
	logger   *zap.Logger
}

func NewService(repo SurpriseRepository, storage PhotoStorage, notifier Notifier, policy retry.Policy, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  storage,
		notifier: notifier,
		policy:   policy,
		logger:   logger.Named("CommitService"),
	}
}

// Commit creates the surprise in draft status and uploads its photos. It is
// safe to call again for the same draft: the record is keyed by the draft id
// and photo paths and rows by position. A repeated commit replaces the
// details and drops photos the draft no longer has at a position.
func (s *Service) Commit(ctx context.Context, req Request) (*Result, error) {
	if req.Principal.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	draft := req.Draft
	surpriseID := draft.ID
	if surpriseID == uuid.Nil {
		surpriseID = uuid.New()
	}

	surprise := &models.Surprise{
		ID:         surpriseID,
		UserID:     req.Principal.UserID,
		CoupleName: draft.CoupleName,
		StartDate:  draft.StartDate,
		Message:    sql.NullString{String: draft.Message, Valid: draft.Message != ""},
		Plan:       draft.Plan,
		Status:     models.SurpriseStatusDraft,
	}
	if draft.Plan.Limits().HasYoutube && draft.YoutubeLink != "" {
		surprise.YoutubeLink = sql.NullString{String: draft.YoutubeLink, Valid: true}
	}

	if err := s.repo.CreateSurprise(ctx, surprise); err != nil {
		s.logger.Error("Failed to create surprise record",
			zap.String("surpriseID", surpriseID.String()),
			zap.String("userID", req.Principal.UserID.String()),
			zap.Error(err),
		)
		metrics.Commits.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: could not create the surprise record", ErrCommitFailed)
	}

	result := &Result{
		SurpriseID: surpriseID,
		Photos:     s.UploadPhotos(ctx, surpriseID, 0, req.Photos),
	}

	rows := make([]models.SurprisePhoto, 0, len(result.Photos))
	keep := make([]int, 0, len(result.Photos))
	for _, p := range result.Photos {
		if !p.OK() {
			continue
		}
		keep = append(keep, p.Index)
		rows = append(rows, models.SurprisePhoto{
			ID:          uuid.New(),
			SurpriseID:  surpriseID,
			PhotoURL:    p.URL,
			StoragePath: p.StoragePath,
			OrderIndex:  p.Index,
		})
	}
	if len(rows) > 0 {
		if err := s.repo.UpsertSurprisePhotos(ctx, rows); err != nil {
			s.logger.Error("Failed to record surprise photos",
				zap.String("surpriseID", surpriseID.String()),
				zap.Error(err),
			)
			metrics.Commits.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: could not record the uploaded photos", ErrCommitFailed)
		}
	}
	s.pruneStale(ctx, surpriseID, keep)

	switch {
	case result.AllPhotosFailed():
		metrics.Commits.WithLabelValues("failed").Inc()
	case result.Partial():
		metrics.Commits.WithLabelValues("partial").Inc()
	default:
		metrics.Commits.WithLabelValues("complete").Inc()
	}

	if s.notifier != nil && !result.AllPhotosFailed() {
		msg := fmt.Sprintf("Sua surpresa \"%s\" foi criada com sucesso!", draft.CoupleName)
		if err := s.notifier.Notify(ctx, req.Principal.UserID, surpriseID, models.NotificationCreated, msg); err != nil {
			s.logger.Warn("Failed to create notification", zap.String("surpriseID", surpriseID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Surprise committed",
		zap.String("surpriseID", surpriseID.String()),
		zap.Int("photos", len(result.Photos)),
		zap.Int("uploaded", result.Uploaded()),
	)
	return result, nil
}

// pruneStale removes photo rows left by an earlier commit of the same draft
// at positions that are now empty or failed. Leftovers are only garbage, so
// errors are logged.
func (s *Service) pruneStale(ctx context.Context, surpriseID uuid.UUID, keep []int) {
	paths, err := s.repo.PruneSurprisePhotos(ctx, surpriseID, keep)
	if err != nil {
		s.logger.Warn("Failed to prune stale photos", zap.String("surpriseID", surpriseID.String()), zap.Error(err))
		return
	}
	if len(paths) == 0 {
		return
	}
	if err := s.storage.RemoveFiles(ctx, paths); err != nil {
		s.logger.Warn("Failed to remove stale photo objects",
			zap.String("surpriseID", surpriseID.String()),
			zap.Strings("paths", paths),
			zap.Error(err),
		)
	}
}

// UploadPhotos starts one upload sequence per photo, numbering them from
// firstIndex. Results are indexed by the photo's position in photos, never
// by completion order.
func (s *Service) UploadPhotos(ctx context.Context, surpriseID uuid.UUID, firstIndex int, photos []Photo) []PhotoResult {
	results := make([]PhotoResult, len(photos))

	var wg sync.WaitGroup
	for i, photo := range photos {
		wg.Add(1)
		go func(i int, photo Photo) {
			defer wg.Done()
			results[i] = s.uploadOne(ctx, surpriseID, firstIndex+i, photo)
		}(i, photo)
	}
	wg.Wait()

	return results
}

func (s *Service) uploadOne(ctx context.Context, surpriseID uuid.UUID, index int, photo Photo) PhotoResult {
	result := PhotoResult{Index: index}

	ext, err := retry.ValidatePhoto(photo.ContentType, len(photo.Data))
	if err != nil {
		metrics.PhotoUploads.WithLabelValues("invalid").Inc()
		result.Error = err.Error()
		return result
	}

	path := fmt.Sprintf("%s/%d.%s", surpriseID.String(), index, ext)
	err = s.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		result.Attempts = attempt
		url, err := s.storage.UploadPhoto(ctx, path, photo.ContentType, photo.Data)
		if err != nil {
			metrics.PhotoUploadAttempts.WithLabelValues("failure").Inc()
			s.logger.Warn("Photo upload attempt failed",
				zap.String("surpriseID", surpriseID.String()),
				zap.Int("index", index),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		metrics.PhotoUploadAttempts.WithLabelValues("success").Inc()
		result.URL = url
		result.StoragePath = path
		return nil
	})
	if err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		result.Error = fmt.Sprintf("photo %d could not be uploaded after %d attempts", index+1, result.Attempts)
		return result
	}

	metrics.PhotoUploads.WithLabelValues("uploaded").Inc()
	return result
}
