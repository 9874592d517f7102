package events_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/categories"
	"github.com/macerhappen/backend/internal/events"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/internal/participants"
	"github.com/macerhappen/backend/internal/recommend"
	"github.com/macerhappen/backend/internal/users"
	"github.com/macerhappen/backend/pkg/database"
)

// Run with: INTEGRATION_TEST=true TEST_DATABASE_URL=postgres://... go test ./internal/events/... -run Integration
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE swipes, event_categories, events, participant_categories,
		participant_profiles, organizer_profiles, moderation_reviews, categories, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func insertUser(t *testing.T, pool *pgxpool.Pool, username string, role models.Role) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO users (username, email, role) VALUES ($1, $2, $3) RETURNING id`,
		username, username+"@example.com", string(role)).Scan(&id))
	switch role {
	case models.RoleParticipant:
		_, err := pool.Exec(ctx, `INSERT INTO participant_profiles (user_id) VALUES ($1)`, id)
		require.NoError(t, err)
	case models.RoleOrganizer:
		_, err := pool.Exec(ctx, `INSERT INTO organizer_profiles (user_id) VALUES ($1)`, id)
		require.NoError(t, err)
	}
	return id
}

func TestIntegration_CandidatesSwipesAndCascade(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	catRepo := categories.NewRepository(pool)
	_, err := catRepo.Seed(ctx, models.DefaultCategories)
	require.NoError(t, err)
	cats, err := catRepo.List(ctx)
	require.NoError(t, err)
	byName := map[string]int64{}
	for _, c := range cats {
		byName[c.Name] = c.ID
	}

	organizer := insertUser(t, pool, "org", models.RoleOrganizer)
	participant := insertUser(t, pool, "alice", models.RoleParticipant)

	eventRepo := events.NewRepository(pool)
	create := func(title, price string, approved bool, categoryNames ...string) *models.Event {
		ids := make([]int64, len(categoryNames))
		for i, n := range categoryNames {
			ids[i] = byName[n]
		}
		e := &models.Event{
			OrganizerID: organizer, Title: title, Description: title + " description",
			Price: decimal.RequireFromString(price), Date: time.Now().Add(24 * time.Hour),
			CategoryIDs: ids, Approved: approved,
		}
		require.NoError(t, eventRepo.Create(ctx, e))
		return e
	}
	a := create("A", "15", true, "Music", "Art")
	create("B", "25", true, "Art")
	create("C", "10", true, "Sports")
	create("D", "5", false, "Music")

	partRepo := participants.NewRepository(pool)
	prefsIDs := []int64{byName["Music"], byName["Art"]}
	budget := decimal.RequireFromString("20.00")
	require.NoError(t, partRepo.UpdatePreferences(ctx, participant, &prefsIDs, &budget))

	userRepo := users.NewRepository(pool)
	profile, err := userRepo.GetParticipant(ctx, participant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Art", "Music"}, profile.Categories)
	organizers, err := userRepo.ListOrganizers(ctx)
	require.NoError(t, err)
	require.Len(t, organizers, 1)
	assert.Equal(t, organizer, organizers[0].ID)
	_, err = userRepo.GetOrganizer(ctx, participant)
	assert.Error(t, err)

	prefs, err := partRepo.GetPreferences(ctx, participant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Music", "Art"}, prefs.CategoryNames)

	selector := recommend.NewSelector(partRepo, eventRepo)
	got, err := selector.Select(ctx, participant, *prefs)
	require.NoError(t, err)
	require.Len(t, got, 1, "A matches two categories but must appear once")
	assert.Equal(t, a.ID, got[0].ID)
	assert.ElementsMatch(t, []string{"Music", "Art"}, got[0].CategoryNames)

	_, err = partRepo.UpsertSwipe(ctx, participant, a.ID, true)
	require.NoError(t, err)
	_, err = partRepo.UpsertSwipe(ctx, participant, a.ID, false)
	require.NoError(t, err)
	history, err := partRepo.History(ctx, participant)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Liked)

	got, err = selector.Select(ctx, participant, *prefs)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, eventRepo.Delete(ctx, a.ID, organizer))
	history, err = partRepo.History(ctx, participant)
	require.NoError(t, err)
	assert.Empty(t, history)
}
