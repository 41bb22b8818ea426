package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/payment"
	"love-surprise-backend/internal/supabase"
)

// fakeStore is an in-memory stand-in for the database client.
type fakeStore struct {
	mu            sync.Mutex
	surprises     map[uuid.UUID]*models.Surprise
	payments      map[string]*models.Payment
	notifications []models.Notification
	paths         map[uuid.UUID][]string

	staleCutoff  time.Time
	expireCutoff time.Time
	staleDeleted int64
	stalePaths   []string
	expired      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		surprises: make(map[uuid.UUID]*models.Surprise),
		payments:  make(map[string]*models.Payment),
		paths:     make(map[uuid.UUID][]string),
	}
}

func (f *fakeStore) add(s *models.Surprise) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surprises[s.ID] = s
}

func (f *fakeStore) GetSurprise(ctx context.Context, surpriseID, userID uuid.UUID) (*models.Surprise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surprises[surpriseID]
	if !ok || s.UserID != userID {
		return nil, supabase.ErrNotFound
	}
	out := *s
	out.Photos = append([]models.SurprisePhoto(nil), s.Photos...)
	return &out, nil
}

func (f *fakeStore) GetSurpriseByID(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surprises[surpriseID]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeStore) GetActiveSurprise(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surprises[surpriseID]
	if !ok || s.Status != models.SurpriseStatusActive {
		return nil, supabase.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeStore) ListSurprises(ctx context.Context, userID uuid.UUID) ([]models.Surprise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Surprise
	for _, s := range f.surprises {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteSurprise(ctx context.Context, surpriseID, userID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surprises[surpriseID]
	if !ok || s.UserID != userID {
		return nil, supabase.ErrNotFound
	}
	delete(f.surprises, surpriseID)
	return f.paths[surpriseID], nil
}

func (f *fakeStore) UpdateSurpriseDetails(ctx context.Context, u *models.Surprise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surprises[u.ID]
	if !ok || s.UserID != u.UserID {
		return supabase.ErrNotFound
	}
	if s.Status == models.SurpriseStatusActive {
		return supabase.ErrConflict
	}
	s.CoupleName = u.CoupleName
	s.StartDate = u.StartDate
	s.Message = u.Message
	s.YoutubeLink = u.YoutubeLink
	return nil
}

func (f *fakeStore) DeleteSurprisePhotos(ctx context.Context, surpriseID uuid.UUID, photoIDs []uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.surprises[surpriseID]
	drop := make(map[uuid.UUID]bool, len(photoIDs))
	for _, id := range photoIDs {
		drop[id] = true
	}
	var kept []models.SurprisePhoto
	var paths []string
	for _, p := range s.Photos {
		if drop[p.ID] {
			paths = append(paths, p.StoragePath)
			continue
		}
		kept = append(kept, p)
	}
	s.Photos = kept
	return paths, nil
}

func (f *fakeStore) UpsertSurprisePhotos(ctx context.Context, photos []models.SurprisePhoto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range photos {
		s := f.surprises[p.SurpriseID]
		replaced := false
		for i := range s.Photos {
			if s.Photos[i].OrderIndex == p.OrderIndex {
				s.Photos[i] = p
				replaced = true
			}
		}
		if !replaced {
			s.Photos = append(s.Photos, p)
		}
		sort.Slice(s.Photos, func(i, j int) bool { return s.Photos[i].OrderIndex < s.Photos[j].OrderIndex })
	}
	return nil
}

func (f *fakeStore) IncrementViews(ctx context.Context, surpriseID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surprises[surpriseID].Views++
	return nil
}

func (f *fakeStore) MarkPendingPayment(ctx context.Context, surpriseID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.surprises[surpriseID]; s.Status == models.SurpriseStatusDraft {
		s.Status = models.SurpriseStatusPendingPayment
	}
	return nil
}

func (f *fakeStore) ActivateSurprise(ctx context.Context, surpriseID uuid.UUID, expiresAt sql.NullTime) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.surprises[surpriseID]
	if s.Status == models.SurpriseStatusActive {
		return false, nil
	}
	s.Status = models.SurpriseStatusActive
	s.ExpiresAt = expiresAt
	return true, nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[p.ProviderRef.String] = p
	return nil
}

func (f *fakeStore) SetPaymentStatus(ctx context.Context, providerRef, status string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[providerRef]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	p.Status = status
	return p, nil
}

func (f *fakeStore) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == notificationID && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return supabase.ErrNotFound
}

func (f *fakeStore) DeleteStaleDrafts(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	f.staleCutoff = cutoff
	return f.staleDeleted, f.stalePaths, nil
}

func (f *fakeStore) ExpireSurprises(ctx context.Context, plan models.Plan, now, cutoff time.Time) (int64, error) {
	f.expireCutoff = cutoff
	return f.expired, nil
}

// Notify records into the same store so tests can read notifications back.
func (f *fakeStore) Notify(ctx context.Context, userID, surpriseID uuid.UUID, kind, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, models.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		SurpriseID: surpriseID,
		Type:       kind,
		Message:    message,
	})
	return nil
}

type fakeProvider struct {
	requests []payment.IntentRequest
	err      error
}

func (p *fakeProvider) CreatePaymentIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &payment.Intent{ID: "pi_" + req.SurpriseID.String()[:8], ClientSecret: "secret", Status: "succeeded"}, nil
}

func (p *fakeProvider) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	return nil, errors.New("not used")
}

type fakeRemover struct {
	removed []string
	err     error
}

func (r *fakeRemover) RemoveFiles(ctx context.Context, paths []string) error {
	r.removed = append(r.removed, paths...)
	return r.err
}

// fakeUploader fails the photos at the positions in failAt.
type fakeUploader struct {
	calls      int
	firstIndex int
	failAt     map[int]bool
}

func (u *fakeUploader) UploadPhotos(ctx context.Context, surpriseID uuid.UUID, firstIndex int, photos []commit.Photo) []commit.PhotoResult {
	u.calls++
	u.firstIndex = firstIndex
	results := make([]commit.PhotoResult, len(photos))
	for i := range photos {
		index := firstIndex + i
		if u.failAt[i] {
			results[i] = commit.PhotoResult{Index: index, Attempts: 3, Error: "upload failed"}
			continue
		}
		path := fmt.Sprintf("%s/%d.jpg", surpriseID, index)
		results[i] = commit.PhotoResult{Index: index, Attempts: 1, StoragePath: path, URL: "https://cdn.test/" + path}
	}
	return results
}

type fakePruner struct {
	idle  time.Duration
	count int
}

func (p *fakePruner) Prune(ctx context.Context, idle time.Duration) int {
	p.idle = idle
	return p.count
}

func draftSurprise(plan models.Plan) *models.Surprise {
	return &models.Surprise{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		CoupleName: "Ana & Bia",
		StartDate:  "2020-02-14",
		Plan:       plan,
		Status:     models.SurpriseStatusDraft,
	}
}

func TestPaymentService_Pay(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{}
	svc := NewPaymentService(store, provider, store, zap.NewNop())

	s := draftSurprise(models.PlanPremium)
	store.add(s)
	principal := models.Principal{UserID: s.UserID, Email: "ana@example.com"}

	intent, err := svc.Pay(context.Background(), principal, s.ID, "pm_card_visa")
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, int64(4990), provider.requests[0].AmountCents)
	assert.Equal(t, "ana@example.com", provider.requests[0].CustomerEmail)
	assert.Equal(t, models.PaymentStatusPending, store.payments[intent.ID].Status)
	assert.Equal(t, models.SurpriseStatusPendingPayment, store.surprises[s.ID].Status)
}

func TestPaymentService_PayRejectsForeignAndPaidSurprises(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakeProvider{}, store, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	store.add(s)

	_, err := svc.Pay(context.Background(), models.Principal{UserID: uuid.New()}, s.ID, "pm")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Status = models.SurpriseStatusActive
	_, err = svc.Pay(context.Background(), models.Principal{UserID: s.UserID}, s.ID, "pm")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestPaymentService_DeclinedCardLeavesDraft(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakeProvider{err: payment.ErrPaymentDeclined}, store, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	store.add(s)

	_, err := svc.Pay(context.Background(), models.Principal{UserID: s.UserID}, s.ID, "pm")
	assert.ErrorIs(t, err, payment.ErrPaymentDeclined)
	assert.Equal(t, models.SurpriseStatusDraft, store.surprises[s.ID].Status)
	assert.Empty(t, store.payments)
}

func TestPaymentService_HandleEventActivatesOnce(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakeProvider{}, store, zap.NewNop())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	s := draftSurprise(models.PlanBasic)
	store.add(s)
	intent, err := svc.Pay(context.Background(), models.Principal{UserID: s.UserID}, s.ID, "pm")
	require.NoError(t, err)

	event := &payment.Event{ID: "evt_1", Kind: payment.EventSucceeded, SurpriseID: s.ID, ProviderRef: intent.ID}
	require.NoError(t, svc.HandleEvent(context.Background(), event))
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	got := store.surprises[s.ID]
	assert.Equal(t, models.SurpriseStatusActive, got.Status)
	require.True(t, got.ExpiresAt.Valid)
	assert.Equal(t, now.Add(30*24*time.Hour), got.ExpiresAt.Time)
	assert.Equal(t, models.PaymentStatusCompleted, store.payments[intent.ID].Status)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, models.NotificationPaid, store.notifications[0].Type)
}

func TestPaymentService_HandleEventPremiumNeverExpires(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakeProvider{}, store, zap.NewNop())

	s := draftSurprise(models.PlanPremium)
	store.add(s)

	// No payment row was recorded for this ref, which is tolerated.
	event := &payment.Event{Kind: payment.EventSucceeded, SurpriseID: s.ID, ProviderRef: "cs_checkout"}
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	assert.Equal(t, models.SurpriseStatusActive, store.surprises[s.ID].Status)
	assert.False(t, store.surprises[s.ID].ExpiresAt.Valid)
}

func TestPaymentService_HandleEventFailure(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakeProvider{}, store, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	store.add(s)
	intent, err := svc.Pay(context.Background(), models.Principal{UserID: s.UserID}, s.ID, "pm")
	require.NoError(t, err)

	event := &payment.Event{Kind: payment.EventFailed, SurpriseID: s.ID, ProviderRef: intent.ID}
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	assert.Equal(t, models.PaymentStatusFailed, store.payments[intent.ID].Status)
	assert.Equal(t, models.SurpriseStatusPendingPayment, store.surprises[s.ID].Status)
	assert.Empty(t, store.notifications)
}

func TestSurpriseService_ViewCountsAndNotifiesOnce(t *testing.T) {
	store := newFakeStore()
	svc := NewSurpriseService(store, &fakeRemover{}, nil, store, zap.NewNop())

	s := draftSurprise(models.PlanPremium)
	store.add(s)

	_, err := svc.View(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound, "drafts are not public")

	s.Status = models.SurpriseStatusActive
	first, err := svc.View(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)

	second, err := svc.View(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Views)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, models.NotificationViewed, store.notifications[0].Type)
}

func TestSurpriseService_DeleteRemovesPhotos(t *testing.T) {
	store := newFakeStore()
	remover := &fakeRemover{err: errors.New("storage down")}
	svc := NewSurpriseService(store, remover, nil, nil, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	store.add(s)
	store.paths[s.ID] = []string{s.ID.String() + "/0.jpg", s.ID.String() + "/1.png"}

	assert.ErrorIs(t, svc.Delete(context.Background(), s.ID, uuid.New()), ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), s.ID, s.UserID))
	assert.Equal(t, store.paths[s.ID], remover.removed)
	_, err := svc.Get(context.Background(), s.ID, s.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSurpriseService_Notifications(t *testing.T) {
	store := newFakeStore()
	svc := NewSurpriseService(store, nil, nil, store, zap.NewNop())
	userID := uuid.New()
	require.NoError(t, store.Notify(context.Background(), userID, uuid.New(), models.NotificationCreated, "oi"))

	list, err := svc.Notifications(context.Background(), userID, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.MarkNotificationRead(context.Background(), list[0].ID, userID))
	assert.ErrorIs(t, svc.MarkNotificationRead(context.Background(), list[0].ID, uuid.New()), ErrNotFound)
}

func withPhotos(s *models.Surprise, n int) []models.SurprisePhoto {
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("%s/%d.jpg", s.ID, i)
		s.Photos = append(s.Photos, models.SurprisePhoto{
			ID:          uuid.New(),
			SurpriseID:  s.ID,
			PhotoURL:    "https://cdn.test/" + path,
			StoragePath: path,
			OrderIndex:  i,
		})
	}
	return s.Photos
}

func jpegs(n int) []commit.Photo {
	out := make([]commit.Photo, n)
	for i := range out {
		out[i] = commit.Photo{Filename: fmt.Sprintf("new-%d.jpg", i), ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, byte(i)}}
	}
	return out
}

func TestSurpriseService_UpdateEditsDetailsAndPhotos(t *testing.T) {
	store := newFakeStore()
	remover := &fakeRemover{}
	uploader := &fakeUploader{failAt: map[int]bool{1: true}}
	svc := NewSurpriseService(store, remover, uploader, nil, zap.NewNop())

	s := draftSurprise(models.PlanPremium)
	photos := withPhotos(s, 3)
	store.add(s)

	result, err := svc.Update(context.Background(), s.ID, s.UserID, SurpriseUpdate{
		CoupleName:      " Ana & Bia Souza ",
		StartDate:       "2019-12-25",
		Message:         " Para sempre ",
		YoutubeLink:     "https://youtu.be/dQw4w9WgXcQ",
		DeletedPhotoIDs: []uuid.UUID{photos[1].ID, photos[1].ID},
		NewPhotos:       jpegs(2),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, uploader.calls)
	assert.Equal(t, 3, uploader.firstIndex, "new photos go after the highest position")
	assert.Equal(t, []int{1}, result.FailedPhotos)

	got := result.Surprise
	assert.Equal(t, "Ana & Bia Souza", got.CoupleName)
	assert.Equal(t, "2019-12-25", got.StartDate)
	assert.Equal(t, "Para sempre", got.Message.String)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", got.YoutubeLink.String)
	assert.Equal(t, models.PlanPremium, got.Plan)

	var order []int
	for _, p := range got.Photos {
		order = append(order, p.OrderIndex)
	}
	assert.Equal(t, []int{0, 2, 3}, order)
	assert.Equal(t, []string{photos[1].StoragePath}, remover.removed)
}

func TestSurpriseService_UpdateDropsYoutubeOnBasic(t *testing.T) {
	store := newFakeStore()
	svc := NewSurpriseService(store, nil, &fakeUploader{}, nil, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	withPhotos(s, 1)
	store.add(s)

	result, err := svc.Update(context.Background(), s.ID, s.UserID, SurpriseUpdate{
		CoupleName:  "Ana & Bia",
		StartDate:   "2020-02-14",
		Message:     "Te amo",
		YoutubeLink: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	assert.False(t, result.Surprise.YoutubeLink.Valid)
	assert.Len(t, result.Surprise.Photos, 1)
}

func TestSurpriseService_UpdateRefusesActiveSurprise(t *testing.T) {
	store := newFakeStore()
	uploader := &fakeUploader{}
	svc := NewSurpriseService(store, nil, uploader, nil, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	withPhotos(s, 1)
	s.Status = models.SurpriseStatusActive
	store.add(s)

	_, err := svc.Update(context.Background(), s.ID, s.UserID, SurpriseUpdate{
		CoupleName: "Outro nome",
		StartDate:  "2020-02-14",
		Message:    "Te amo",
		NewPhotos:  jpegs(1),
	})
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.Zero(t, uploader.calls)
	assert.Equal(t, "Ana & Bia", store.surprises[s.ID].CoupleName)
}

func TestSurpriseService_UpdateValidation(t *testing.T) {
	valid := func() SurpriseUpdate {
		return SurpriseUpdate{CoupleName: "Ana & Bia", StartDate: "2020-02-14", Message: "Te amo"}
	}

	tests := []struct {
		name  string
		edit  func(s *models.Surprise, in *SurpriseUpdate)
		field string
	}{
		{"missing couple name", func(s *models.Surprise, in *SurpriseUpdate) { in.CoupleName = "  " }, "couple_name"},
		{"bad start date", func(s *models.Surprise, in *SurpriseUpdate) { in.StartDate = "14/02/2020" }, "start_date"},
		{"missing message", func(s *models.Surprise, in *SurpriseUpdate) { in.Message = "" }, "message"},
		{"photo of another surprise", func(s *models.Surprise, in *SurpriseUpdate) {
			in.DeletedPhotoIDs = []uuid.UUID{uuid.New()}
		}, "deleted_photo_ids"},
		{"over the plan limit", func(s *models.Surprise, in *SurpriseUpdate) { in.NewPhotos = jpegs(2) }, "photos"},
		{"no photos left", func(s *models.Surprise, in *SurpriseUpdate) {
			for _, p := range s.Photos {
				in.DeletedPhotoIDs = append(in.DeletedPhotoIDs, p.ID)
			}
		}, "photos"},
		{"unsupported file", func(s *models.Surprise, in *SurpriseUpdate) {
			in.DeletedPhotoIDs = []uuid.UUID{s.Photos[0].ID}
			in.NewPhotos = []commit.Photo{{Filename: "a.gif", ContentType: "image/gif", Data: []byte("gif")}}
		}, "photos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			uploader := &fakeUploader{}
			svc := NewSurpriseService(store, nil, uploader, nil, zap.NewNop())

			s := draftSurprise(models.PlanBasic)
			withPhotos(s, 2)
			store.add(s)

			in := valid()
			tt.edit(s, &in)
			_, err := svc.Update(context.Background(), s.ID, s.UserID, in)

			var input *InputError
			require.ErrorAs(t, err, &input)
			assert.Equal(t, tt.field, input.Field)
			assert.Zero(t, uploader.calls)
			assert.Equal(t, "Ana & Bia", store.surprises[s.ID].CoupleName)
			assert.Len(t, store.surprises[s.ID].Photos, 2)
		})
	}

	t.Run("another user", func(t *testing.T) {
		store := newFakeStore()
		svc := NewSurpriseService(store, nil, &fakeUploader{}, nil, zap.NewNop())
		s := draftSurprise(models.PlanBasic)
		withPhotos(s, 1)
		store.add(s)

		_, err := svc.Update(context.Background(), s.ID, uuid.New(), valid())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSurpriseService_UpdateFailsWhenNoPhotoSurvives(t *testing.T) {
	store := newFakeStore()
	svc := NewSurpriseService(store, nil, &fakeUploader{failAt: map[int]bool{0: true}}, nil, zap.NewNop())

	s := draftSurprise(models.PlanBasic)
	photos := withPhotos(s, 1)
	store.add(s)

	_, err := svc.Update(context.Background(), s.ID, s.UserID, SurpriseUpdate{
		CoupleName:      "Ana & Bia",
		StartDate:       "2020-02-14",
		Message:         "Outra mensagem",
		DeletedPhotoIDs: []uuid.UUID{photos[0].ID},
		NewPhotos:       jpegs(1),
	})
	assert.ErrorIs(t, err, commit.ErrCommitFailed)
	assert.Len(t, store.surprises[s.ID].Photos, 1, "nothing is removed")
	assert.False(t, store.surprises[s.ID].Message.Valid)
}

func TestLifecycleService_ManageSurprises(t *testing.T) {
	ctx := context.Background()
	now := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	store.staleDeleted = 2
	store.stalePaths = []string{"a/0.jpg", "b/0.jpg"}
	store.expired = 5

	files := filestore.NewMemoryBackend(0)
	_, err := files.ForClient("c1").Save(ctx, filestore.Blob{Filename: "x.jpg", ContentType: "image/jpeg", Data: []byte{1}})
	require.NoError(t, err)

	remover := &fakeRemover{}
	pruner := &fakePruner{count: 3}

	svc := NewLifecycleService(store, remover, files, pruner, time.Hour, zap.NewNop())
	svc.now = func() time.Time { return now }

	report, err := svc.ManageSurprises(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.DeletedDrafts)
	assert.Equal(t, int64(5), report.ExpiredBasic)
	assert.Equal(t, int64(1), report.SweptFiles)
	assert.Equal(t, 3, report.PrunedWizards)
	assert.Zero(t, report.OrphanedObjects)

	assert.Equal(t, store.stalePaths, remover.removed)
	assert.Equal(t, now.Add(-DefaultDraftRetention), store.staleCutoff)
	assert.Equal(t, now.Add(-30*24*time.Hour), store.expireCutoff)
	assert.Equal(t, DefaultWizardIdle, pruner.idle)
}

func TestLifecycleService_StorageFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.staleDeleted = 1
	store.stalePaths = []string{"a/0.jpg"}

	svc := NewLifecycleService(store, &fakeRemover{err: errors.New("boom")}, nil, nil, 0, zap.NewNop())

	report, err := svc.ManageSurprises(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphanedObjects)
	assert.Zero(t, report.PrunedWizards)
}
