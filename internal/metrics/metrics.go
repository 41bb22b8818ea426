package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PhotoUploadAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surprise",
		Name:      "photo_upload_attempts_total",
		Help:      "Individual photo upload attempts against object storage.",
	}, []string{"outcome"})

	PhotoUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surprise",
		Name:      "photo_uploads_total",
		Help:      "Final per-photo upload outcomes (uploaded, failed, invalid).",
	}, []string{"outcome"})

	Commits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surprise",
		Name:      "commits_total",
		Help:      "Surprise commits by outcome (complete, partial, failed, error).",
	}, []string{"outcome"})

	DraftsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "surprise",
		Name:      "drafts_persisted_total",
		Help:      "Drafts written to the draft slot.",
	})

	AuthGateResumes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surprise",
		Name:      "authgate_resumes_total",
		Help:      "Commits resumed after authentication, by outcome.",
	}, []string{"outcome"})

	LifecycleRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surprise",
		Name:      "lifecycle_affected_total",
		Help:      "Rows touched by the lifecycle job (deleted_drafts, expired, swept_files).",
	}, []string{"action"})
)
