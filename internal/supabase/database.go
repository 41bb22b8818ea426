package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"love-surprise-backend/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a row that exists but may not be changed by the
	// caller: another owner, or a surprise past the draft stage.
	ErrConflict = errors.New("conflict")
)

// DatabaseClient talks to the Supabase PostgreSQL database directly.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

const surpriseColumns = `id, user_id, couple_name, to_char(start_date, 'YYYY-MM-DD'), message, youtube_link,
	plan, status, views, expires_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSurprise(row scanner) (*models.Surprise, error) {
	var s models.Surprise
	var plan string
	err := row.Scan(
		&s.ID, &s.UserID, &s.CoupleName, &s.StartDate, &s.Message, &s.YoutubeLink,
		&plan, &s.Status, &s.Views, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Plan = models.Plan(plan)
	return &s, nil
}

// CreateSurprise inserts the surprise. A retried commit of the same draft
// overwrites the details; an id owned by someone else or no longer in draft
// status is ErrConflict.
func (d *DatabaseClient) CreateSurprise(ctx context.Context, s *models.Surprise) error {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO surprises (id, user_id, couple_name, start_date, message, youtube_link, plan, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			couple_name = EXCLUDED.couple_name,
			start_date = EXCLUDED.start_date,
			message = EXCLUDED.message,
			youtube_link = EXCLUDED.youtube_link,
			plan = EXCLUDED.plan
		WHERE surprises.user_id = EXCLUDED.user_id AND surprises.status = $9
	`, s.ID, s.UserID, s.CoupleName, s.StartDate, s.Message, s.YoutubeLink, string(s.Plan), s.Status, models.SurpriseStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to create surprise: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("surprise %s: %w", s.ID, ErrConflict)
	}
	return nil
}

// PruneSurprisePhotos deletes the photo rows of a surprise whose order_index
// is not in keep and returns their storage paths.
func (d *DatabaseClient) PruneSurprisePhotos(ctx context.Context, surpriseID uuid.UUID, keep []int) ([]string, error) {
	indexes := make([]int64, len(keep))
	for i, k := range keep {
		indexes[i] = int64(k)
	}
	rows, err := d.db.QueryContext(ctx, `
		DELETE FROM surprise_photos
		WHERE surprise_id = $1 AND NOT (order_index = ANY($2))
		RETURNING storage_path
	`, surpriseID, pq.Array(indexes))
	if err != nil {
		return nil, fmt.Errorf("failed to prune photos: %w", err)
	}
	return scanPaths(rows)
}

// UpdateSurpriseDetails rewrites the editable fields of an owned surprise
// that is not active. ErrNotFound covers both a missing and a foreign id.
func (d *DatabaseClient) UpdateSurpriseDetails(ctx context.Context, s *models.Surprise) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE surprises
		SET couple_name = $3, start_date = $4, message = $5, youtube_link = $6
		WHERE id = $1 AND user_id = $2 AND status <> $7
	`, s.ID, s.UserID, s.CoupleName, s.StartDate, s.Message, s.YoutubeLink, models.SurpriseStatusActive)
	if err != nil {
		return fmt.Errorf("failed to update surprise: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := d.GetSurprise(ctx, s.ID, s.UserID); err != nil {
			return err
		}
		return fmt.Errorf("surprise %s: %w", s.ID, ErrConflict)
	}
	return nil
}

// DeleteSurprisePhotos removes the given photos of a surprise and returns
// their storage paths. Ids of other surprises are ignored.
func (d *DatabaseClient) DeleteSurprisePhotos(ctx context.Context, surpriseID uuid.UUID, photoIDs []uuid.UUID) ([]string, error) {
	if len(photoIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(photoIDs))
	for i, id := range photoIDs {
		ids[i] = id.String()
	}
	rows, err := d.db.QueryContext(ctx, `
		DELETE FROM surprise_photos
		WHERE surprise_id = $1 AND id = ANY($2::uuid[])
		RETURNING storage_path
	`, surpriseID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to delete photos: %w", err)
	}
	return scanPaths(rows)
}

func scanPaths(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan storage path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// UpsertSurprisePhotos writes the rows in one transaction, replacing the
// photo at an existing (surprise_id, order_index).
func (d *DatabaseClient) UpsertSurprisePhotos(ctx context.Context, photos []models.SurprisePhoto) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range photos {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO surprise_photos (id, surprise_id, photo_url, storage_path, order_index)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (surprise_id, order_index)
			DO UPDATE SET photo_url = EXCLUDED.photo_url, storage_path = EXCLUDED.storage_path
		`, p.ID, p.SurpriseID, p.PhotoURL, p.StoragePath, p.OrderIndex)
		if err != nil {
			return fmt.Errorf("failed to upsert photo %d: %w", p.OrderIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit photos: %w", err)
	}
	return nil
}

// GetSurprise returns the surprise with its photos if it belongs to userID.
func (d *DatabaseClient) GetSurprise(ctx context.Context, surpriseID, userID uuid.UUID) (*models.Surprise, error) {
	s, err := scanSurprise(d.db.QueryRowContext(ctx,
		`SELECT `+surpriseColumns+` FROM surprises WHERE id = $1 AND user_id = $2`,
		surpriseID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get surprise: %w", err)
	}

	if s.Photos, err = d.GetSurprisePhotos(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSurpriseByID looks a surprise up without an owner check. It is used by
// payment webhooks.
func (d *DatabaseClient) GetSurpriseByID(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error) {
	s, err := scanSurprise(d.db.QueryRowContext(ctx,
		`SELECT `+surpriseColumns+` FROM surprises WHERE id = $1`, surpriseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get surprise: %w", err)
	}
	return s, nil
}

// GetActiveSurprise is the public read used by the share page.
func (d *DatabaseClient) GetActiveSurprise(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error) {
	s, err := scanSurprise(d.db.QueryRowContext(ctx,
		`SELECT `+surpriseColumns+` FROM surprises
		 WHERE id = $1 AND status = $2 AND (expires_at IS NULL OR expires_at > NOW())`,
		surpriseID, models.SurpriseStatusActive,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get surprise: %w", err)
	}

	if s.Photos, err = d.GetSurprisePhotos(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *DatabaseClient) ListSurprises(ctx context.Context, userID uuid.UUID) ([]models.Surprise, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+surpriseColumns+` FROM surprises WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list surprises: %w", err)
	}
	defer rows.Close()

	var surprises []models.Surprise
	for rows.Next() {
		s, err := scanSurprise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan surprise: %w", err)
		}
		surprises = append(surprises, *s)
	}
	return surprises, rows.Err()
}

// GetSurprisePhotos returns the photos in gallery order.
func (d *DatabaseClient) GetSurprisePhotos(ctx context.Context, surpriseID uuid.UUID) ([]models.SurprisePhoto, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, surprise_id, photo_url, storage_path, order_index, created_at
		FROM surprise_photos
		WHERE surprise_id = $1
		ORDER BY order_index ASC
	`, surpriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get surprise photos: %w", err)
	}
	defer rows.Close()

	var photos []models.SurprisePhoto
	for rows.Next() {
		var p models.SurprisePhoto
		if err := rows.Scan(&p.ID, &p.SurpriseID, &p.PhotoURL, &p.StoragePath, &p.OrderIndex, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// DeleteSurprise removes an owned surprise and returns the storage paths of
// its photos so the objects can be removed too.
func (d *DatabaseClient) DeleteSurprise(ctx context.Context, surpriseID, userID uuid.UUID) ([]string, error) {
	photos, err := d.GetSurprisePhotos(ctx, surpriseID)
	if err != nil {
		return nil, err
	}

	res, err := d.db.ExecContext(ctx, `DELETE FROM surprises WHERE id = $1 AND user_id = $2`, surpriseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete surprise: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	paths := make([]string, 0, len(photos))
	for _, p := range photos {
		paths = append(paths, p.StoragePath)
	}
	return paths, nil
}

func (d *DatabaseClient) IncrementViews(ctx context.Context, surpriseID uuid.UUID) error {
	_, err := d.db.ExecContext(ctx, `UPDATE surprises SET views = views + 1 WHERE id = $1`, surpriseID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// MarkPendingPayment moves an owned draft surprise to pending_payment.
func (d *DatabaseClient) MarkPendingPayment(ctx context.Context, surpriseID uuid.UUID) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE surprises SET status = $1
		WHERE id = $2 AND status = $3
	`, models.SurpriseStatusPendingPayment, surpriseID, models.SurpriseStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to update surprise status: %w", err)
	}
	return nil
}

// ActivateSurprise marks a not yet active surprise as paid. It reports
// false when the surprise was already active, so webhook redeliveries are
// harmless.
func (d *DatabaseClient) ActivateSurprise(ctx context.Context, surpriseID uuid.UUID, expiresAt sql.NullTime) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE surprises SET status = $1, expires_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`, models.SurpriseStatusActive, expiresAt, surpriseID,
		models.SurpriseStatusDraft, models.SurpriseStatusPendingPayment)
	if err != nil {
		return false, fmt.Errorf("failed to activate surprise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteStaleDrafts removes draft surprises created before cutoff and
// returns the storage paths of their photos.
func (d *DatabaseClient) DeleteStaleDrafts(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT p.storage_path
		FROM surprise_photos p
		JOIN surprises s ON s.id = p.surprise_id
		WHERE s.status = $1 AND s.created_at < $2
	`, models.SurpriseStatusDraft, cutoff)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list stale draft photos: %w", err)
	}
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, nil, fmt.Errorf("failed to scan storage path: %w", err)
		}
		paths = append(paths, path)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	res, err := d.db.ExecContext(ctx,
		`DELETE FROM surprises WHERE status = $1 AND created_at < $2`,
		models.SurpriseStatusDraft, cutoff,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to delete stale drafts: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, paths, nil
}

// ExpireSurprises marks active surprises of plan as expired once their
// expires_at has passed, or, when it was never set, once they were created
// before cutoff.
func (d *DatabaseClient) ExpireSurprises(ctx context.Context, plan models.Plan, now, cutoff time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE surprises SET status = $1
		WHERE status = $2 AND plan = $3
		  AND ((expires_at IS NOT NULL AND expires_at < $4)
		    OR (expires_at IS NULL AND created_at < $5))
	`, models.SurpriseStatusExpired, models.SurpriseStatusActive, string(plan), now, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire surprises: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
