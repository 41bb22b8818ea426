package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/metrics"
	"love-surprise-backend/internal/models"
)

const (
	DefaultDraftRetention = 3 * 24 * time.Hour
	DefaultWizardIdle     = time.Hour
)

type LifecycleStore interface {
	DeleteStaleDrafts(ctx context.Context, cutoff time.Time) (int64, []string, error)
	ExpireSurprises(ctx context.Context, plan models.Plan, now, cutoff time.Time) (int64, error)
}

type ObjectRemover interface {
	RemoveFiles(ctx context.Context, paths []string) error
}

type WizardPruner interface {
	Prune(ctx context.Context, idle time.Duration) int
}

type LifecycleReport struct {
	DeletedDrafts   int64 `json:"deleted_drafts"`
	ExpiredBasic    int64 `json:"expired_basic"`
	SweptFiles      int64 `json:"swept_files"`
	PrunedWizards   int   `json:"pruned_wizards"`
	OrphanedObjects int   `json:"orphaned_objects,omitempty"`
}

type LifecycleService struct {
	store   LifecycleStore
	objects ObjectRemover
	files   filestore.Backend
	wizards WizardPruner

	draftRetention time.Duration
	fileTTL        time.Duration
	wizardIdle     time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

// NewLifecycleService wires the cleanup job. files and wizards may be nil,
// as they are for the CLI, which has no live wizards.
func NewLifecycleService(store LifecycleStore, objects ObjectRemover, files filestore.Backend, wizards WizardPruner, fileTTL time.Duration, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		store:          store,
		objects:        objects,
		files:          files,
		wizards:        wizards,
		draftRetention: DefaultDraftRetention,
		fileTTL:        fileTTL,
		wizardIdle:     DefaultWizardIdle,
		now:            time.Now,
		logger:         logger.Named("LifecycleService"),
	}
}

// ManageSurprises deletes abandoned drafts, expires basic surprises past
// their validity and evicts old ephemeral files.
func (s *LifecycleService) ManageSurprises(ctx context.Context) (*LifecycleReport, error) {
	now := s.now()
	report := &LifecycleReport{}

	deleted, paths, err := s.store.DeleteStaleDrafts(ctx, now.Add(-s.draftRetention))
	if err != nil {
		return nil, err
	}
	report.DeletedDrafts = deleted
	if len(paths) > 0 && s.objects != nil {
		if err := s.objects.RemoveFiles(ctx, paths); err != nil {
			report.OrphanedObjects = len(paths)
			s.logger.Warn("Failed to remove photos of deleted drafts", zap.Int("paths", len(paths)), zap.Error(err))
		}
	}

	validity := time.Duration(models.PlanBasic.Limits().ValidityDays) * 24 * time.Hour
	expired, err := s.store.ExpireSurprises(ctx, models.PlanBasic, now, now.Add(-validity))
	if err != nil {
		return nil, err
	}
	report.ExpiredBasic = expired

	if s.files != nil && s.fileTTL > 0 {
		swept, err := s.files.Sweep(ctx, now.Add(-s.fileTTL))
		if err != nil {
			s.logger.Warn("Failed to sweep ephemeral files", zap.Error(err))
		}
		report.SweptFiles = swept
	}

	if s.wizards != nil {
		report.PrunedWizards = s.wizards.Prune(ctx, s.wizardIdle)
	}

	metrics.LifecycleRuns.WithLabelValues("deleted_drafts").Add(float64(report.DeletedDrafts))
	metrics.LifecycleRuns.WithLabelValues("expired").Add(float64(report.ExpiredBasic))
	metrics.LifecycleRuns.WithLabelValues("swept_files").Add(float64(report.SweptFiles))

	s.logger.Info("Lifecycle run finished",
		zap.Int64("deletedDrafts", report.DeletedDrafts),
		zap.Int64("expiredBasic", report.ExpiredBasic),
		zap.Int64("sweptFiles", report.SweptFiles),
		zap.Int("prunedWizards", report.PrunedWizards),
	)
	return report, nil
}
