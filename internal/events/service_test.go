package events

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/internal/moderation"
	"github.com/macerhappen/backend/pkg/queue"
)

// memStore is an in-memory Store.
type memStore struct {
	nextID int64
	events map[int64]*models.Event
	failOn string
}

func newMemStore() *memStore {
	return &memStore{events: map[int64]*models.Event{}}
}

func (m *memStore) Create(_ context.Context, e *models.Event) error {
	if m.failOn == "create" {
		return errors.New("insert failed")
	}
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, e *models.Event, _ bool) error {
	if _, ok := m.events[e.ID]; !ok {
		return ErrNotFound
	}
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, id, organizerID int64) error {
	e, ok := m.events[id]
	if !ok || e.OrganizerID != organizerID {
		return ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) GetForOrganizer(_ context.Context, id, organizerID int64) (*models.Event, error) {
	e, ok := m.events[id]
	if !ok || e.OrganizerID != organizerID {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) GetApproved(_ context.Context, id int64) (*models.Event, error) {
	e, ok := m.events[id]
	if !ok || !e.Approved {
		return nil, ErrNotFoundApproved
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) ListByOrganizer(_ context.Context, organizerID int64) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListApproved(context.Context) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range m.events {
		if e.Approved {
			out = append(out, *e)
		}
	}
	return out, nil
}

// keywordModerator rejects descriptions containing "hate".
type keywordModerator struct {
	fail  bool
	calls int
}

func (k *keywordModerator) Moderate(_ context.Context, _, description string) moderation.Decision {
	k.calls++
	if k.fail {
		return moderation.Decision{Reason: moderation.FailedReason, Failed: true}
	}
	if strings.Contains(strings.ToLower(description), "hate") {
		return moderation.Decision{Reason: "Hate speech is not allowed."}
	}
	return moderation.Decision{Approved: true, Reason: "Looks fine."}
}

type knownCategories map[int64]bool

func (k knownCategories) CountExisting(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if k[id] {
			n++
		}
	}
	return n, nil
}

type recordingQueue struct {
	payloads []queue.ModerationReviewPayload
}

func (r *recordingQueue) EnqueueModerationReview(_ context.Context, p queue.ModerationReviewPayload) error {
	r.payloads = append(r.payloads, p)
	return nil
}

func newTestService() (*Service, *memStore, *keywordModerator, *recordingQueue) {
	store := newMemStore()
	mod := &keywordModerator{}
	q := &recordingQueue{}
	return NewService(store, mod, knownCategories{1: true, 2: true}, q, nil), store, mod, q
}

func validInput() CreateInput {
	return CreateInput{
		Title:       "Jazz Night",
		Description: "Live jazz in the park.",
		Price:       decimal.RequireFromString("15.00"),
		Date:        time.Date(2026, 7, 1, 20, 0, 0, 0, time.UTC),
		CategoryIDs: []int64{1},
	}
}

func TestCreate_RejectedThenCorrected(t *testing.T) {
	svc, store, _, q := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Description = "A rally full of hate against our neighbours."
	_, err := svc.Create(ctx, 10, in)
	require.Error(t, err)
	assert.True(t, errdef.IsModerationRejected(err))
	assert.Equal(t, "Event rejected by moderation: Hate speech is not allowed.", err.Error())
	assert.Empty(t, store.events)
	assert.Empty(t, q.payloads, "a classifier rejection needs no manual review")

	e, err := svc.Create(ctx, 10, validInput())
	require.NoError(t, err)
	require.Len(t, store.events, 1)
	stored := store.events[e.ID]
	assert.True(t, stored.Approved)
	require.NotNil(t, stored.ModerationNotes)
	assert.Equal(t, "Looks fine.", *stored.ModerationNotes)
	assert.Equal(t, int64(10), stored.OrganizerID)
}

func TestCreate_ModerationFailureQueuesReview(t *testing.T) {
	svc, store, mod, q := newTestService()
	mod.fail = true

	_, err := svc.Create(context.Background(), 10, validInput())
	require.Error(t, err)
	assert.True(t, errdef.IsModerationRejected(err))
	assert.Empty(t, store.events)
	require.Len(t, q.payloads, 1)
	assert.Equal(t, int64(10), q.payloads[0].OrganizerID)
	assert.Equal(t, moderation.FailedReason, q.payloads[0].Reason)
}

func TestCreate_ValidationRunsBeforeModeration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
		msg    string
	}{
		{"empty title", func(in *CreateInput) { in.Title = "  " }, "title is required"},
		{"long title", func(in *CreateInput) { in.Title = strings.Repeat("x", 101) }, "title must be at most 100 characters"},
		{"empty description", func(in *CreateInput) { in.Description = "" }, "description is required"},
		{"negative price", func(in *CreateInput) { in.Price = decimal.RequireFromString("-1") }, "price must not be negative"},
		{"three decimals", func(in *CreateInput) { in.Price = decimal.RequireFromString("1.234") }, "price must have at most 2 decimal places"},
		{"no date", func(in *CreateInput) { in.Date = time.Time{} }, "date is required"},
		{"no categories", func(in *CreateInput) { in.CategoryIDs = nil }, "at least one category is required"},
		{"unknown category", func(in *CreateInput) { in.CategoryIDs = []int64{1, 77} }, "One or more categories IDs are invalid."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, mod, _ := newTestService()
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), 10, in)
			require.Error(t, err)
			assert.True(t, errdef.IsBadRequest(err))
			assert.Equal(t, tt.msg, err.Error())
			assert.Zero(t, mod.calls)
			assert.Empty(t, store.events)
		})
	}
}

func TestCreate_StoreErrorPropagates(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.failOn = "create"

	_, err := svc.Create(context.Background(), 10, validInput())
	require.Error(t, err)
	assert.False(t, errdef.IsModerationRejected(err))
}

func TestUpdate_DoesNotModerate(t *testing.T) {
	svc, _, mod, _ := newTestService()
	ctx := context.Background()
	e, err := svc.Create(ctx, 10, validInput())
	require.NoError(t, err)
	require.Equal(t, 1, mod.calls)

	desc := "Now with hate speech."
	cats := []int64{2, 2}
	updated, err := svc.Update(ctx, 10, e.ID, UpdateInput{Description: &desc, CategoryIDs: &cats})
	require.NoError(t, err)
	assert.Equal(t, 1, mod.calls)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, []int64{2}, updated.CategoryIDs)
	assert.True(t, updated.Approved)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	e, err := svc.Create(ctx, 10, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, 10, e.ID, UpdateInput{})
	assert.EqualError(t, err, "You must provide at least one of: title, description, price, date, categories.")

	title := "New"
	_, err = svc.Update(ctx, 11, e.ID, UpdateInput{Title: &title})
	assert.True(t, errdef.IsNotFound(err))

	empty := []int64{}
	_, err = svc.Update(ctx, 10, e.ID, UpdateInput{CategoryIDs: &empty})
	assert.True(t, errdef.IsBadRequest(err))
}

func TestDeleteAndPublicReads(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	e, err := svc.Create(ctx, 10, validInput())
	require.NoError(t, err)

	got, err := svc.GetPublic(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	assert.True(t, errdef.IsNotFound(svc.Delete(ctx, 11, e.ID)))
	require.NoError(t, svc.Delete(ctx, 10, e.ID))

	_, err = svc.GetPublic(ctx, e.ID)
	assert.True(t, errdef.IsNotFound(err))
	list, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
