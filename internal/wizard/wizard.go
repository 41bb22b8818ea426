// Package wizard sequences the create flow: plan, couple info, photos,
// message, preview and the save hand-off to the auth gate.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/authgate"
	"love-surprise-backend/internal/draftstore"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/metrics"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/preview"
	"love-surprise-backend/internal/retry"
)

type Step int

const (
	StepPlan Step = iota
	StepCouple
	StepPhotos
	StepMessage
	StepPreview
	// StepAuth is served by the login surface, outside the wizard.
	StepAuth

	StepCount = int(StepAuth) + 1
)

var stepNames = [...]string{"plan", "couple", "photos", "message", "preview", "auth"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep accepts a step name or its index.
func ParseStep(s string) (Step, bool) {
	for i, name := range stepNames {
		if s == name || s == fmt.Sprint(i) {
			return Step(i), true
		}
	}
	return 0, false
}

const dateLayout = "2006-01-02"

// Saver receives the finished draft. The auth gate implements it.
type Saver interface {
	RequestSave(ctx context.Context, clientID string, draft models.DraftSurprise, principal *models.Principal) (*authgate.Outcome, error)
}

// File is a photo selected by the user.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// State is a snapshot of a wizard.
type State struct {
	Step      Step                 `json:"step"`
	StepName  string               `json:"step_name"`
	Draft     models.DraftSurprise `json:"draft"`
	Previews  []string             `json:"preview_urls"`
	MaxPhotos int                  `json:"max_photos"`
	Saved     *authgate.Outcome    `json:"saved,omitempty"`
}

// Wizard is the in-memory authoring session of one browser profile.
type Wizard struct {
	mu       sync.Mutex
	clientID string
	step     Step
	form     models.DraftSurprise
	saved    *authgate.Outcome
	lastUsed time.Time

	drafts   draftstore.Store
	files    filestore.Store
	previews *preview.Registry
	saver    Saver
	logger   *zap.Logger
}

func emptyForm() models.DraftSurprise {
	return models.DraftSurprise{
		Plan:        models.PlanBasic,
		PhotoRefs:   []string{},
		PreviewURLs: []string{},
	}
}

func New(clientID string, drafts draftstore.Store, files filestore.Store, previews *preview.Registry, saver Saver, logger *zap.Logger) *Wizard {
	return &Wizard{
		clientID: clientID,
		form:     emptyForm(),
		lastUsed: time.Now(),
		drafts:   drafts,
		files:    files,
		previews: previews,
		saver:    saver,
		logger:   logger.Named("Wizard").With(zap.String("clientID", clientID)),
	}
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wizard) stateLocked() State {
	draft := w.form.Clone()
	return State{
		Step:      w.step,
		StepName:  w.step.String(),
		Draft:     draft,
		Previews:  draft.PreviewURLs,
		MaxPhotos: w.form.Plan.MaxPhotos(),
		Saved:     w.saved,
	}
}

func (w *Wizard) touch() {
	w.lastUsed = time.Now()
}

func (w *Wizard) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

func (w *Wizard) requireStep(step Step) error {
	if w.step != step {
		return invalid(CodeStepOutOfOrder, "step", "this action belongs to the %s step, the wizard is at %s", step, w.step)
	}
	return nil
}

// SelectPlan sets the plan and moves to the couple step. Switching to a
// plan that allows fewer photos than are already selected is refused.
func (w *Wizard) SelectPlan(ctx context.Context, plan models.Plan) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepPlan); err != nil {
		return err
	}
	if !plan.Valid() {
		return invalid(CodeInvalidPlan, "plan", "unknown plan %q", string(plan))
	}
	if n, limit := len(w.form.PhotoRefs), plan.MaxPhotos(); n > limit {
		return invalid(CodeDowngradeBlocked, "plan",
			"the %s plan allows %d photos and %d are selected; remove %d before switching", plan, limit, n, n-limit)
	}

	if w.form.ID == uuid.Nil {
		w.form.ID = uuid.New()
	}
	w.saved = nil
	w.form.Plan = plan
	if !plan.Limits().HasYoutube {
		w.form.YoutubeLink = ""
	}
	w.step = StepCouple
	return nil
}

func (w *Wizard) SubmitCoupleInfo(ctx context.Context, coupleName, startDate string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepCouple); err != nil {
		return err
	}
	coupleName = strings.TrimSpace(coupleName)
	startDate = strings.TrimSpace(startDate)
	if coupleName == "" {
		return invalid(CodeRequired, "couple_name", "couple name is required")
	}
	if startDate == "" {
		return invalid(CodeRequired, "start_date", "start date is required")
	}
	if _, err := time.Parse(dateLayout, startDate); err != nil {
		return invalid(CodeInvalidDate, "start_date", "%q is not a valid date (expected YYYY-MM-DD)", startDate)
	}

	w.form.CoupleName = coupleName
	w.form.StartDate = startDate
	w.step = StepPhotos
	return nil
}

// AddPhotos stores the files in the ephemeral store and appends them to the
// draft. The whole batch is rejected when it would exceed the plan limit or
// the store's capacity; nothing from a rejected batch is kept.
func (w *Wizard) AddPhotos(ctx context.Context, files []File) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepPhotos); err != nil {
		return err
	}
	if len(files) == 0 {
		return invalid(CodeRequired, "photos", "select at least one photo")
	}
	limit := w.form.Plan.MaxPhotos()
	if current := len(w.form.PhotoRefs); current+len(files) > limit {
		return invalid(CodeTooManyPhotos, "photos",
			"the %s plan allows up to %d photos; %d selected and %d more requested", w.form.Plan, limit, current, len(files))
	}
	for i, f := range files {
		if _, err := retry.ValidatePhoto(f.ContentType, len(f.Data)); err != nil {
			return invalid(CodeInvalidFile, "photos", "file %d (%s): %v", i+1, f.Filename, err)
		}
	}

	refs := make([]string, 0, len(files))
	for _, f := range files {
		id, err := w.files.Save(ctx, filestore.Blob{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Data:        f.Data,
		})
		if err != nil {
			w.rollback(ctx, refs)
			if errors.Is(err, filestore.ErrStorageFull) {
				return invalid(CodeStorageFull, "photos", "there is no room left for these photos; remove some and try again")
			}
			return fmt.Errorf("failed to store photo: %w", err)
		}
		refs = append(refs, id)
	}

	for _, ref := range refs {
		w.form.PhotoRefs = append(w.form.PhotoRefs, ref)
		w.form.PreviewURLs = append(w.form.PreviewURLs, w.previews.Create(w.clientID, ref))
	}
	return nil
}

func (w *Wizard) rollback(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := w.files.Delete(ctx, ref); err != nil {
			w.logger.Warn("Failed to roll back stored photo", zap.String("ref", ref), zap.Error(err))
		}
	}
}

// RemovePhoto drops the photo at index, keeping the order of the rest.
func (w *Wizard) RemovePhoto(ctx context.Context, index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepPhotos); err != nil {
		return err
	}
	if index < 0 || index >= len(w.form.PhotoRefs) {
		return invalid(CodeInvalidIndex, "index", "there is no photo %d", index)
	}

	ref := w.form.PhotoRefs[index]
	w.previews.Release(w.form.PreviewURLs[index])
	w.form.PhotoRefs = append(w.form.PhotoRefs[:index:index], w.form.PhotoRefs[index+1:]...)
	w.form.PreviewURLs = append(w.form.PreviewURLs[:index:index], w.form.PreviewURLs[index+1:]...)

	if err := w.files.Delete(ctx, ref); err != nil {
		w.logger.Warn("Failed to delete removed photo", zap.String("ref", ref), zap.Error(err))
	}
	return nil
}

func (w *Wizard) ContinueFromPhotos(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepPhotos); err != nil {
		return err
	}
	if len(w.form.PhotoRefs) == 0 {
		return invalid(CodeNoPhotos, "photos", "add at least one photo")
	}
	w.step = StepMessage
	return nil
}

// SubmitMessage stores the message and, on plans that allow it, the music
// link, then moves to the preview and checkpoints the draft.
func (w *Wizard) SubmitMessage(ctx context.Context, message, youtubeLink string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err := w.requireStep(StepMessage); err != nil {
		return err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return invalid(CodeRequired, "message", "message is required")
	}
	youtubeLink = strings.TrimSpace(youtubeLink)
	if !w.form.Plan.Limits().HasYoutube {
		youtubeLink = ""
	}
	if youtubeLink != "" && !models.IsYoutubeLink(youtubeLink) {
		return invalid(CodeInvalidYoutube, "youtube_link", "%q is not a YouTube link", youtubeLink)
	}

	w.form.Message = message
	w.form.YoutubeLink = youtubeLink
	w.step = StepPreview
	w.checkpointLocked(ctx)
	return nil
}

// RequestSave hands the draft to the saver. A saved outcome resets the
// wizard; a redirect leaves it where it is. When photos can no longer be
// read back, they are dropped and the wizard returns to the photo step.
func (w *Wizard) RequestSave(ctx context.Context, principal *models.Principal) (*authgate.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if w.saved != nil && w.form.ID == uuid.Nil {
		return nil, invalid(CodeAlreadySaved, "", "this surprise was already saved")
	}
	if err := w.requireStep(StepPreview); err != nil {
		return nil, err
	}

	outcome, err := w.saver.RequestSave(ctx, w.clientID, w.form.Clone(), principal)
	if errors.Is(err, authgate.ErrReconstruct) {
		dropped := w.dropMissingLocked(ctx)
		w.step = StepPhotos
		w.checkpointLocked(ctx)
		w.logger.Warn("Save needs photos again", zap.Int("dropped", dropped), zap.Error(err))
		return &authgate.Outcome{
			Redirect: authgate.ResumeFailurePath,
			Message:  "Algumas fotos não estão mais disponíveis. Adicione-as novamente.",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if outcome.Saved {
		w.clearLocked()
		w.saved = outcome
		w.logger.Info("Surprise saved", zap.String("surpriseID", outcome.SurpriseID.String()))
	}
	return outcome, nil
}

func (w *Wizard) GoBack() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if w.step > StepPlan {
		w.step--
	}
}

// GoTo rewinds to a step already reached. Forward jumps are refused.
func (w *Wizard) GoTo(step Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if step < StepPlan || step > w.step {
		return invalid(CodeStepOutOfOrder, "step", "cannot jump from %s to %s", w.step, step)
	}
	w.step = step
	return nil
}

// Reset abandons the draft and purges both stores. Calling it again is a
// no-op apart from re-running the purge.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	w.clearLocked()
	w.saved = nil

	var errs []error
	if err := w.drafts.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear draft: %w", err))
	}
	if err := w.files.ClearAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear files: %w", err))
	}
	return errors.Join(errs...)
}

func (w *Wizard) clearLocked() {
	for _, handle := range w.form.PreviewURLs {
		w.previews.Release(handle)
	}
	w.form = emptyForm()
	w.step = StepPlan
}

// Checkpoint writes the draft to the draft slot, for example when the tab
// is about to close. Nothing is written before a plan is chosen.
func (w *Wizard) Checkpoint(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if w.form.ID == uuid.Nil {
		return nil
	}
	return w.persistLocked(ctx)
}

func (w *Wizard) checkpointLocked(ctx context.Context) {
	if err := w.persistLocked(ctx); err != nil {
		w.logger.Warn("Failed to checkpoint draft", zap.Error(err))
	}
}

func (w *Wizard) persistLocked(ctx context.Context) error {
	draft := w.form.Clone()
	draft.PreviewURLs = nil
	draft.UpdatedAt = time.Now().UTC()
	if err := w.drafts.Set(ctx, draft); err != nil {
		return fmt.Errorf("failed to checkpoint draft: %w", err)
	}
	metrics.DraftsPersisted.Inc()
	return nil
}

// Restore rebuilds the wizard from the draft slot with fresh preview
// handles. Photos whose blobs are gone are dropped and the wizard stops at
// the photo step so they can be added again. It reports whether a draft
// was found.
func (w *Wizard) Restore(ctx context.Context) (bool, error) {
	draft, err := w.drafts.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read draft: %w", err)
	}
	if draft == nil {
		return false, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	for _, handle := range w.form.PreviewURLs {
		w.previews.Release(handle)
	}

	restored := draft.Clone()
	if !restored.Plan.Valid() {
		restored.Plan = models.PlanBasic
	}
	restored.PhotoRefs = restored.PhotoRefs[:0]
	restored.PreviewURLs = []string{}
	missing := 0
	var surplus []string
	for _, ref := range draft.PhotoRefs {
		if _, err := w.files.Get(ctx, ref); err != nil {
			w.logger.Warn("Dropping photo missing from ephemeral store", zap.String("ref", ref), zap.Error(err))
			missing++
			continue
		}
		if len(restored.PhotoRefs) >= restored.Plan.MaxPhotos() {
			surplus = append(surplus, ref)
			continue
		}
		restored.PhotoRefs = append(restored.PhotoRefs, ref)
		restored.PreviewURLs = append(restored.PreviewURLs, w.previews.Create(w.clientID, ref))
	}
	if len(surplus) > 0 {
		w.logger.Warn("Dropping photos beyond the plan limit",
			zap.String("plan", string(restored.Plan)),
			zap.Int("limit", restored.Plan.MaxPhotos()),
			zap.Strings("refs", surplus),
		)
		for _, ref := range surplus {
			if err := w.files.Delete(ctx, ref); err != nil {
				w.logger.Warn("Failed to delete surplus photo", zap.String("ref", ref), zap.Error(err))
			}
		}
	}

	w.form = restored
	w.saved = nil
	w.step = furthestStep(restored)
	if missing > 0 && w.step > StepPhotos {
		w.step = StepPhotos
	}
	if missing > 0 || len(surplus) > 0 {
		w.checkpointLocked(ctx)
	}
	return true, nil
}

// dropMissingLocked removes the photos whose blobs can no longer be read
// and releases their previews. It returns how many were dropped.
func (w *Wizard) dropMissingLocked(ctx context.Context) int {
	refs := make([]string, 0, len(w.form.PhotoRefs))
	handles := make([]string, 0, len(w.form.PreviewURLs))
	dropped := 0
	for i, ref := range w.form.PhotoRefs {
		handle := ""
		if i < len(w.form.PreviewURLs) {
			handle = w.form.PreviewURLs[i]
		}
		if _, err := w.files.Get(ctx, ref); err != nil {
			w.logger.Warn("Dropping photo missing from ephemeral store", zap.String("ref", ref), zap.Error(err))
			if handle != "" {
				w.previews.Release(handle)
			}
			dropped++
			continue
		}
		refs = append(refs, ref)
		if handle != "" {
			handles = append(handles, handle)
		}
	}
	w.form.PhotoRefs = refs
	w.form.PreviewURLs = handles
	return dropped
}

// furthestStep is the step a restored draft resumes at.
func furthestStep(d models.DraftSurprise) Step {
	switch {
	case d.CoupleName == "" || d.StartDate == "":
		return StepCouple
	case len(d.PhotoRefs) == 0:
		return StepPhotos
	case d.Message == "":
		return StepMessage
	default:
		return StepPreview
	}
}

// release frees the preview handles of a wizard that is being discarded.
func (w *Wizard) release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, handle := range w.form.PreviewURLs {
		w.previews.Release(handle)
	}
	w.form.PreviewURLs = []string{}
}
