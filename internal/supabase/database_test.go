package supabase_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"love-surprise-backend/internal/database"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/supabase"
)

func newTestDatabase(t *testing.T) *supabase.DatabaseClient {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run PostgreSQL tests")
	}
	ctx := context.Background()

	pg, err := postgres.Run(ctx, "docker.io/postgres:16-alpine",
		postgres.WithDatabase("surprise"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pg) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, zap.NewNop()).Run(ctx))
	return supabase.NewDatabaseClient(db)
}

func TestDatabaseClient_SurpriseLifecycle(t *testing.T) {
	client := newTestDatabase(t)
	ctx := context.Background()
	userID := uuid.New()

	s := &models.Surprise{
		ID:         uuid.New(),
		UserID:     userID,
		CoupleName: "Ana & Bruno",
		StartDate:  "2020-01-01",
		Message:    sql.NullString{String: "Te amo", Valid: true},
		Plan:       models.PlanBasic,
		Status:     models.SurpriseStatusDraft,
	}
	require.NoError(t, client.CreateSurprise(ctx, s))

	// A retried commit reuses the id and carries the edited details.
	edited := *s
	edited.Message = sql.NullString{String: "Te amo muito", Valid: true}
	require.NoError(t, client.CreateSurprise(ctx, &edited))

	foreign := edited
	foreign.UserID = uuid.New()
	assert.ErrorIs(t, client.CreateSurprise(ctx, &foreign), supabase.ErrConflict)

	photos := []models.SurprisePhoto{
		{ID: uuid.New(), SurpriseID: s.ID, PhotoURL: "u1", StoragePath: s.ID.String() + "/1.jpg", OrderIndex: 1},
		{ID: uuid.New(), SurpriseID: s.ID, PhotoURL: "u0", StoragePath: s.ID.String() + "/0.jpg", OrderIndex: 0},
	}
	require.NoError(t, client.UpsertSurprisePhotos(ctx, photos))
	require.NoError(t, client.UpsertSurprisePhotos(ctx, photos[:1]))

	got, err := client.GetSurprise(ctx, s.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Te amo muito", got.Message.String)
	assert.Equal(t, "2020-01-01", got.StartDate)
	assert.Equal(t, models.PlanBasic, got.Plan)
	require.Len(t, got.Photos, 2)
	assert.Equal(t, "u0", got.Photos[0].PhotoURL)
	assert.Equal(t, "u1", got.Photos[1].PhotoURL)

	_, err = client.GetSurprise(ctx, s.ID, uuid.New())
	assert.ErrorIs(t, err, supabase.ErrNotFound)

	_, err = client.GetActiveSurprise(ctx, s.ID)
	assert.ErrorIs(t, err, supabase.ErrNotFound, "drafts are not public")

	require.NoError(t, client.MarkPendingPayment(ctx, s.ID))
	assert.ErrorIs(t, client.CreateSurprise(ctx, s), supabase.ErrConflict, "only drafts are rewritten")
	expires := sql.NullTime{Time: time.Now().Add(30 * 24 * time.Hour), Valid: true}
	activated, err := client.ActivateSurprise(ctx, s.ID, expires)
	require.NoError(t, err)
	assert.True(t, activated)
	activated, err = client.ActivateSurprise(ctx, s.ID, expires)
	require.NoError(t, err)
	assert.False(t, activated, "webhook redelivery")

	public, err := client.GetActiveSurprise(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, public.Photos, 2)
	require.NoError(t, client.IncrementViews(ctx, s.ID))

	list, err := client.ListSurprises(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Views)

	paths, err := client.DeleteSurprise(ctx, s.ID, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{s.ID.String() + "/0.jpg", s.ID.String() + "/1.jpg"}, paths)
}

func TestDatabaseClient_LifecycleQueries(t *testing.T) {
	client := newTestDatabase(t)
	ctx := context.Background()
	userID := uuid.New()

	draft := &models.Surprise{ID: uuid.New(), UserID: userID, CoupleName: "A", StartDate: "2021-05-05", Plan: models.PlanBasic, Status: models.SurpriseStatusDraft}
	require.NoError(t, client.CreateSurprise(ctx, draft))
	require.NoError(t, client.UpsertSurprisePhotos(ctx, []models.SurprisePhoto{
		{ID: uuid.New(), SurpriseID: draft.ID, PhotoURL: "u", StoragePath: draft.ID.String() + "/0.jpg"},
	}))

	active := &models.Surprise{ID: uuid.New(), UserID: userID, CoupleName: "B", StartDate: "2021-05-05", Plan: models.PlanBasic, Status: models.SurpriseStatusDraft}
	require.NoError(t, client.CreateSurprise(ctx, active))
	_, err := client.ActivateSurprise(ctx, active.ID, sql.NullTime{})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	deleted, paths, err := client.DeleteStaleDrafts(ctx, future)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, []string{draft.ID.String() + "/0.jpg"}, paths)

	expired, err := client.ExpireSurprises(ctx, models.PlanBasic, time.Now(), future)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	expired, err = client.ExpireSurprises(ctx, models.PlanPremium, time.Now(), future)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)
}

func TestDatabaseClient_PaymentsAndNotifications(t *testing.T) {
	client := newTestDatabase(t)
	ctx := context.Background()
	userID := uuid.New()

	s := &models.Surprise{ID: uuid.New(), UserID: userID, CoupleName: "C", StartDate: "2022-02-02", Plan: models.PlanPremium, Status: models.SurpriseStatusDraft}
	require.NoError(t, client.CreateSurprise(ctx, s))

	p := &models.Payment{
		SurpriseID:    s.ID,
		UserID:        userID,
		Amount:        4990,
		Status:        models.PaymentStatusPending,
		PaymentMethod: "card",
		ProviderRef:   sql.NullString{String: "pi_123", Valid: true},
	}
	require.NoError(t, client.CreatePayment(ctx, p))

	updated, err := client.SetPaymentStatus(ctx, "pi_123", models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, s.ID, updated.SurpriseID)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)

	_, err = client.SetPaymentStatus(ctx, "pi_missing", models.PaymentStatusFailed)
	assert.ErrorIs(t, err, supabase.ErrNotFound)

	notifier := supabase.NewRealtimeNotifier(client, zap.NewNop())
	require.NoError(t, notifier.Notify(ctx, userID, s.ID, models.NotificationCreated, "criada"))
	require.NoError(t, notifier.Notify(ctx, userID, s.ID, models.NotificationPaid, "paga"))

	list, err := client.ListNotifications(ctx, userID, 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Read)

	require.NoError(t, client.MarkNotificationRead(ctx, list[0].ID, userID))
	assert.ErrorIs(t, client.MarkNotificationRead(ctx, list[0].ID, uuid.New()), supabase.ErrNotFound)
}

func TestDatabaseClient_PhotoPruningAndEdits(t *testing.T) {
	client := newTestDatabase(t)
	ctx := context.Background()
	userID := uuid.New()

	s := &models.Surprise{ID: uuid.New(), UserID: userID, CoupleName: "C", StartDate: "2022-02-02", Plan: models.PlanPremium, Status: models.SurpriseStatusDraft}
	require.NoError(t, client.CreateSurprise(ctx, s))

	var photos []models.SurprisePhoto
	for i := 0; i < 3; i++ {
		photos = append(photos, models.SurprisePhoto{
			ID: uuid.New(), SurpriseID: s.ID, PhotoURL: "u", OrderIndex: i,
			StoragePath: s.ID.String() + "/" + string(rune('0'+i)) + ".jpg",
		})
	}
	require.NoError(t, client.UpsertSurprisePhotos(ctx, photos))

	pruned, err := client.PruneSurprisePhotos(ctx, s.ID, []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID.String() + "/1.jpg"}, pruned)

	removed, err := client.DeleteSurprisePhotos(ctx, s.ID, []uuid.UUID{photos[2].ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID.String() + "/2.jpg"}, removed)

	update := *s
	update.CoupleName = "C & D"
	require.NoError(t, client.UpdateSurpriseDetails(ctx, &update))
	got, err := client.GetSurprise(ctx, s.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "C & D", got.CoupleName)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, 0, got.Photos[0].OrderIndex)

	update.UserID = uuid.New()
	assert.ErrorIs(t, client.UpdateSurpriseDetails(ctx, &update), supabase.ErrNotFound)

	_, err = client.ActivateSurprise(ctx, s.ID, sql.NullTime{})
	require.NoError(t, err)
	update.UserID = userID
	assert.ErrorIs(t, client.UpdateSurpriseDetails(ctx, &update), supabase.ErrConflict)
}
