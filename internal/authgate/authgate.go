// Package authgate keeps an unauthenticated save from losing work: the draft
// is parked in the draft slot, the user is sent to log in, and the commit is
// resumed once the session is confirmed.
package authgate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/draftstore"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/metrics"
	"love-surprise-backend/internal/models"
)

const (
	LoginPath   = "/auth/login"
	PaymentPath = "/payment"

	// ResumeFailurePath sends the user back to the photo step of the wizard.
	ResumeFailurePath = "/create?step=photos"

	DefaultPollInterval = 200 * time.Millisecond
)

var (
	ErrReconstruct         = errors.New("draft could not be reconstructed")
	ErrSessionNotConfirmed = errors.New("session was not confirmed")
	ErrNoPhotosUploaded    = errors.New("none of the photos could be uploaded")
)

// Committer is the surprise commit service.
type Committer interface {
	Commit(ctx context.Context, req commit.Request) (*commit.Result, error)
}

// SessionChecker confirms that an access token belongs to a live session.
// It returns a nil principal while the session is not visible yet.
type SessionChecker interface {
	ConfirmSession(ctx context.Context, accessToken string) (*models.Principal, error)
}

// Outcome is what the caller should do next.
type Outcome struct {
	Saved        bool      `json:"saved"`
	SurpriseID   uuid.UUID `json:"surprise_id,omitempty"`
	Redirect     string    `json:"redirect"`
	FailedPhotos []int     `json:"failed_photos,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type Gate struct {
	drafts       draftstore.Backend
	files        filestore.Backend
	committer    Committer
	sessions     SessionChecker
	pollInterval time.Duration
	logger       *zap.Logger
}

type Option func(*Gate)

// WithSessionChecker enables AfterAuth.
func WithSessionChecker(c SessionChecker) Option {
	return func(g *Gate) { g.sessions = c }
}

func WithPollInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.pollInterval = d
		}
	}
}

func New(drafts draftstore.Backend, files filestore.Backend, committer Committer, logger *zap.Logger, opts ...Option) *Gate {
	g := &Gate{
		drafts:       drafts,
		files:        files,
		committer:    committer,
		pollInterval: DefaultPollInterval,
		logger:       logger.Named("AuthGate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoginURL is the login surface with returnTo as its return destination.
func LoginURL(returnTo string) string {
	q := url.Values{}
	q.Set("returnUrl", returnTo)
	return LoginPath + "?" + q.Encode()
}

// PaymentURL is the payment entry point scoped to a surprise.
func PaymentURL(surpriseID uuid.UUID) string {
	return PaymentPath + "?surpriseId=" + surpriseID.String()
}

// IsPaymentDestination reports whether returnTo names the page that resumes
// a pending commit.
func IsPaymentDestination(returnTo string) bool {
	u, err := url.Parse(returnTo)
	if err != nil {
		return false
	}
	return u.Host == "" && u.Path == PaymentPath
}

// SafeReturn keeps redirects on this site. Anything else becomes "/".
func SafeReturn(returnTo string) string {
	if returnTo == "" || !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		return "/"
	}
	return returnTo
}

// RequestSave is the terminal action of the wizard. Without a principal the
// draft is persisted and the caller is sent to log in; with one the draft
// is committed right away.
func (g *Gate) RequestSave(ctx context.Context, clientID string, draft models.DraftSurprise, principal *models.Principal) (*Outcome, error) {
	if principal == nil {
		if err := g.persist(ctx, clientID, draft); err != nil {
			return nil, err
		}
		g.logger.Info("Draft parked for authentication",
			zap.String("clientID", clientID),
			zap.String("draftID", draft.ID.String()),
		)
		return &Outcome{Redirect: LoginURL(PaymentPath)}, nil
	}

	blobs, err := g.reconstruct(ctx, clientID, draft)
	if err != nil {
		return nil, err
	}

	outcome, err := g.commit(ctx, clientID, draft, blobs, *principal)
	if err != nil {
		// Keep the work so a retry after a reload is cheap.
		if perr := g.persist(ctx, clientID, draft); perr != nil {
			g.logger.Warn("Failed to preserve draft after commit failure", zap.Error(perr))
		}
		return nil, err
	}
	return outcome, nil
}

// AfterAuth waits for the new session to be confirmed and then resumes any
// parked commit.
func (g *Gate) AfterAuth(ctx context.Context, clientID, returnTo, accessToken string) (*Outcome, error) {
	if g.sessions == nil {
		return nil, errors.New("authgate: no session checker configured")
	}
	principal, err := WaitForSession(ctx, g.sessions, accessToken, g.pollInterval)
	if err != nil {
		metrics.AuthGateResumes.WithLabelValues("session_unconfirmed").Inc()
		return nil, err
	}
	return g.Resume(ctx, clientID, returnTo, *principal)
}

// Resume commits the parked draft when returnTo is the payment entry point.
// On failure the draft is left in place and the outcome points back at the
// photo step. The returned error is informational; the outcome is always set.
func (g *Gate) Resume(ctx context.Context, clientID, returnTo string, principal models.Principal) (*Outcome, error) {
	returnTo = SafeReturn(returnTo)
	if !IsPaymentDestination(returnTo) {
		return &Outcome{Redirect: returnTo}, nil
	}

	draft, err := g.drafts.ForClient(clientID).Get(ctx)
	if err != nil {
		g.logger.Error("Failed to read parked draft", zap.String("clientID", clientID), zap.Error(err))
		metrics.AuthGateResumes.WithLabelValues("reconstruct_failed").Inc()
		return g.failure("Não foi possível recuperar sua surpresa. Revise as fotos e tente novamente."),
			fmt.Errorf("%w: %v", ErrReconstruct, err)
	}
	if draft == nil {
		metrics.AuthGateResumes.WithLabelValues("no_draft").Inc()
		return &Outcome{Redirect: returnTo}, nil
	}

	blobs, err := g.reconstruct(ctx, clientID, *draft)
	if err != nil {
		metrics.AuthGateResumes.WithLabelValues("reconstruct_failed").Inc()
		return g.failure("Algumas fotos não estão mais disponíveis. Adicione-as novamente."), err
	}

	outcome, err := g.commit(ctx, clientID, *draft, blobs, principal)
	if err != nil {
		metrics.AuthGateResumes.WithLabelValues("commit_failed").Inc()
		return g.failure("Não foi possível salvar sua surpresa. Tente novamente."), err
	}

	metrics.AuthGateResumes.WithLabelValues("committed").Inc()
	return outcome, nil
}

func (g *Gate) failure(message string) *Outcome {
	return &Outcome{Redirect: ResumeFailurePath, Message: message}
}

func (g *Gate) persist(ctx context.Context, clientID string, draft models.DraftSurprise) error {
	draft.PreviewURLs = nil
	draft.UpdatedAt = time.Now().UTC()
	if err := g.drafts.ForClient(clientID).Set(ctx, draft); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	metrics.DraftsPersisted.Inc()
	return nil
}

// reconstruct reads every referenced blob back, in photoRefs order.
func (g *Gate) reconstruct(ctx context.Context, clientID string, draft models.DraftSurprise) ([]commit.Photo, error) {
	files := g.files.ForClient(clientID)
	photos := make([]commit.Photo, 0, len(draft.PhotoRefs))
	for i, ref := range draft.PhotoRefs {
		blob, err := files.Get(ctx, ref)
		if err != nil {
			g.logger.Warn("Draft photo missing from ephemeral store",
				zap.String("clientID", clientID),
				zap.Int("index", i),
				zap.String("ref", ref),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: photo %d: %v", ErrReconstruct, i+1, err)
		}
		photos = append(photos, commit.Photo{
			Filename:    blob.Filename,
			ContentType: blob.ContentType,
			Data:        blob.Data,
		})
	}
	return photos, nil
}

func (g *Gate) commit(ctx context.Context, clientID string, draft models.DraftSurprise, photos []commit.Photo, principal models.Principal) (*Outcome, error) {
	result, err := g.committer.Commit(ctx, commit.Request{
		Draft:     draft,
		Photos:    photos,
		Principal: principal,
	})
	if err != nil {
		return nil, err
	}
	if result.AllPhotosFailed() {
		return nil, fmt.Errorf("%w: %w", commit.ErrCommitFailed, ErrNoPhotosUploaded)
	}

	g.purge(ctx, clientID)

	outcome := &Outcome{
		Saved:      true,
		SurpriseID: result.SurpriseID,
		Redirect:   PaymentURL(result.SurpriseID),
	}
	for _, p := range result.FailedPhotos() {
		outcome.FailedPhotos = append(outcome.FailedPhotos, p.Index)
	}
	if len(outcome.FailedPhotos) > 0 {
		outcome.Message = fmt.Sprintf("%d foto(s) não puderam ser enviadas.", len(outcome.FailedPhotos))
	}
	return outcome, nil
}

// purge empties the draft slot and the client's blobs once the surprise is
// durable. Failures only leave garbage behind for the sweep.
func (g *Gate) purge(ctx context.Context, clientID string) {
	if err := g.drafts.ForClient(clientID).Clear(ctx); err != nil {
		g.logger.Warn("Failed to clear draft slot", zap.String("clientID", clientID), zap.Error(err))
	}
	if err := g.files.ForClient(clientID).ClearAll(ctx); err != nil {
		g.logger.Warn("Failed to clear ephemeral files", zap.String("clientID", clientID), zap.Error(err))
	}
}

// WaitForSession polls checker until it confirms the session or ctx ends.
func WaitForSession(ctx context.Context, checker SessionChecker, accessToken string, interval time.Duration) (*models.Principal, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		principal, err := checker.ConfirmSession(ctx, accessToken)
		if err == nil && principal != nil {
			return principal, nil
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrSessionNotConfirmed, lastErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrSessionNotConfirmed, ctx.Err())
		case <-ticker.C:
		}
	}
}
